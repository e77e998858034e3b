// Package pcf8574 is a driver for the PCF8574 I2C GPIO expander.
//
// Each pin is quasi-bidirectional: set high it is pulled up weakly and can be read as an input, set low it sinks
// current. That is enough to drive an LED wired from the supply to the pin, so expander pins can stand in for host
// GPIOs wherever an led.Pin is wanted; see Output. Such an LED lights when the pin is low, which Output accounts for.
//
// Datasheet: https://www.ti.com/lit/ds/symlink/pcf8574.pdf
package pcf8574

import (
	"errors"

	"periph.io/x/conn/v3/gpio"
	"tinygo.org/x/drivers"
)

const DefaultAddress = 0x20

var ErrInvalidPin = errors.New("pcf8574: pin must be 0-7")

type Device struct {
	bus  drivers.I2C
	addr uint16
	// last state written to the chip
	state uint8
}

type Config struct {
	Address uint8
}

// Report is a snapshot of all eight pins.
type Report uint8

// New creates a new driver on the specified preconfigured I2C bus. The datasheet claims a maximum speed of 100 kHz.
func New(bus drivers.I2C) *Device {
	return &Device{
		bus:   bus,
		addr:  DefaultAddress,
		state: 0xFF, // power-on state
	}
}

func (d *Device) Configure(c Config) {
	if c.Address == 0 {
		c.Address = DefaultAddress
	}
	d.addr = uint16(c.Address)
}

// SetPin drives pin high (weak pullup) when val is true, or low otherwise.
func (d *Device) SetPin(pin uint8, val bool) error {
	if pin > 7 {
		return ErrInvalidPin
	}
	state := d.state &^ (1 << pin)
	if val {
		state |= 1 << pin
	}
	return d.SetAll(state)
}

// SetAll sets every pin at once from the bits of state.
func (d *Device) SetAll(state uint8) error {
	buf := [1]byte{state}
	if err := d.bus.Tx(d.addr, buf[:], nil); err != nil {
		return err
	}
	d.state = state
	return nil
}

// Read returns the level of every pin. The chip has no registers and answers a plain read with its port.
func (d *Device) Read() (Report, error) {
	var buf [1]byte
	err := d.bus.Tx(d.addr, nil, buf[:])
	return Report(buf[0]), err
}

// Pin reports whether the specified pin is high.
func (r Report) Pin(p uint8) bool {
	return r&(1<<p) != 0
}

// Output returns pin as a GPIO output. Out(gpio.High) means "on", which pulls the pin low when activeLow is set.
func (d *Device) Output(pin uint8, activeLow bool) (*Output, error) {
	if pin > 7 {
		return nil, ErrInvalidPin
	}
	return &Output{dev: d, pin: pin, activeLow: activeLow}, nil
}

// Output is one expander pin used as an output.
type Output struct {
	dev       *Device
	pin       uint8
	activeLow bool
}

func (o *Output) Out(l gpio.Level) error {
	high := bool(l)
	if o.activeLow {
		high = !high
	}
	return o.dev.SetPin(o.pin, high)
}
