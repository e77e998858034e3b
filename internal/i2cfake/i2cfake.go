// Package i2cfake provides an in-memory register file that implements drivers.I2C for host-side tests.
package i2cfake

import (
	"errors"
	"fmt"
	"sync"

	"tinygo.org/x/drivers"
)

var _ drivers.I2C = (*Bus)(nil)

// ErrInjected is returned by transfers that were told to fail.
var ErrInjected = errors.New("i2cfake: injected failure")

// Write is one register write as seen on the bus.
type Write struct {
	Reg, Val uint8
}

// Bus emulates a single device with 8-bit register addresses and an auto-incrementing register pointer. A
// transaction with no read and no data only moves the pointer.
type Bus struct {
	mu   sync.Mutex
	Addr uint16
	Regs [256]uint8

	Writes []Write
	Reads  []uint8 // register addresses read, in order

	// FailWriteAt fails the nth (1-based) register write from now on; 0 disables.
	FailWriteAt int
	// FailReads fails every read.
	FailReads bool

	ptr     uint8
	nWrites int
}

func New(addr uint16) *Bus {
	return &Bus{Addr: addr}
}

// Tx writes w[1:] starting at register w[0], then reads len(r) bytes from the register pointer.
func (b *Bus) Tx(addr uint16, w, r []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if addr != b.Addr {
		return fmt.Errorf("i2cfake: no device at 0x%02X", addr)
	}
	if len(w) > 0 {
		b.ptr = w[0]
		for _, v := range w[1:] {
			b.nWrites++
			if b.FailWriteAt != 0 && b.nWrites >= b.FailWriteAt {
				return ErrInjected
			}
			b.Regs[b.ptr] = v
			b.Writes = append(b.Writes, Write{Reg: b.ptr, Val: v})
			b.ptr++
		}
	}
	for i := range r {
		if b.FailReads {
			return ErrInjected
		}
		r[i] = b.Regs[b.ptr]
		b.Reads = append(b.Reads, b.ptr)
		b.ptr++
	}
	return nil
}

// Reset forgets the recorded traffic and the failure counters but keeps the registers.
func (b *Bus) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.Writes = nil
	b.Reads = nil
	b.nWrites = 0
	b.FailWriteAt = 0
	b.FailReads = false
}
