//go:build linux

// Package i2cdev talks to I2C devices through the Linux i2c-dev character devices (/dev/i2c-N). The i2c-dev kernel
// module must be loaded.
//
// A Tx is a plain write followed by a plain read, each with its own start and stop condition, which is all register
// devices like the DS3231 need.
package i2cdev

import (
	"errors"
	"fmt"
	"sync"

	"golang.org/x/sys/unix"
	"tinygo.org/x/drivers"
)

// I2C_SLAVE from linux/i2c-dev.h
const i2cSlave = 0x0703

var (
	ErrShortWrite = errors.New("i2cdev: short write")
	ErrShortRead  = errors.New("i2cdev: short read")
	ErrClosed     = errors.New("i2cdev: bus closed")
)

var _ drivers.I2C = (*Bus)(nil)

// file is the subset of an open i2c-dev node the bus uses.
type file interface {
	Read(p []byte) (int, error)
	Write(p []byte) (int, error)
	SetAddress(addr uint16) error
	Close() error
}

type fd int

func (f fd) Read(p []byte) (int, error)  { return unix.Read(int(f), p) }
func (f fd) Write(p []byte) (int, error) { return unix.Write(int(f), p) }
func (f fd) Close() error                { return unix.Close(int(f)) }

func (f fd) SetAddress(addr uint16) error {
	return unix.IoctlSetInt(int(f), i2cSlave, int(addr))
}

// Bus is an open /dev/i2c-N node. It is safe for concurrent use, but only single transactions are serialized.
type Bus struct {
	mu    sync.Mutex
	f     file
	addr  uint16
	bound bool
}

// Open opens /dev/i2c-<bus> and selects the device at addr.
func Open(bus int, addr uint16) (*Bus, error) {
	path := fmt.Sprintf("/dev/i2c-%d", bus)
	n, err := unix.Open(path, unix.O_RDWR|unix.O_CLOEXEC, 0)
	if err != nil {
		return nil, fmt.Errorf("i2cdev: open %s: %w", path, err)
	}
	b := newBus(fd(n))
	if err := b.bind(addr); err != nil {
		b.f.Close()
		return nil, err
	}
	return b, nil
}

func newBus(f file) *Bus {
	return &Bus{f: f}
}

// Tx writes w and then reads len(r) bytes from the device at addr. Either may be empty.
func (b *Bus) Tx(addr uint16, w, r []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.f == nil {
		return ErrClosed
	}
	if err := b.bind(addr); err != nil {
		return err
	}
	if len(w) > 0 {
		n, err := b.f.Write(w)
		if err != nil {
			return fmt.Errorf("i2cdev: write to 0x%02X: %w", addr, err)
		}
		if n != len(w) {
			return fmt.Errorf("i2cdev: wrote %d of %d bytes to 0x%02X: %w", n, len(w), addr, ErrShortWrite)
		}
	}
	if len(r) > 0 {
		n, err := b.f.Read(r)
		if err != nil {
			return fmt.Errorf("i2cdev: read from 0x%02X: %w", addr, err)
		}
		if n != len(r) {
			return fmt.Errorf("i2cdev: read %d of %d bytes from 0x%02X: %w", n, len(r), addr, ErrShortRead)
		}
	}
	return nil
}

func (b *Bus) bind(addr uint16) error {
	if b.bound && b.addr == addr {
		return nil
	}
	if err := b.f.SetAddress(addr); err != nil {
		b.bound = false
		return fmt.Errorf("i2cdev: select device 0x%02X: %w", addr, err)
	}
	b.addr = addr
	b.bound = true
	return nil
}

// Close releases the device node. Further transactions fail with ErrClosed.
func (b *Bus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.f == nil {
		return ErrClosed
	}
	err := b.f.Close()
	b.f = nil
	return err
}
