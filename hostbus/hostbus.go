// Package hostbus opens an I2C bus on the host by driver name, so programs can switch between the raw i2c-dev
// transport and periph.io's bus registry with a flag.
package hostbus

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"
	"tinygo.org/x/drivers"
)

// Bus is an I2C bus that must be closed after use.
type Bus interface {
	drivers.I2C
	io.Closer
}

const (
	Devfs  = "devfs"  // /dev/i2c-N through package i2cdev
	Periph = "periph" // periph.io host drivers
)

var ErrUnsupported = errors.New("hostbus: driver not supported on this platform")

// Open opens bus number bus with the named driver. addr is the device the bus will talk to first; the devfs driver
// selects it right away so a missing device is reported here rather than on the first transfer.
func Open(driver string, bus int, addr uint16) (Bus, error) {
	switch driver {
	case "", Devfs:
		return openDevfs(bus, addr)
	case Periph:
		return openPeriph(bus)
	}
	return nil, fmt.Errorf("hostbus: unknown driver %q", driver)
}

func openPeriph(bus int) (Bus, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("hostbus: periph init: %w", err)
	}
	b, err := i2creg.Open(strconv.Itoa(bus))
	if err != nil {
		return nil, fmt.Errorf("hostbus: open I2C%d: %w", bus, err)
	}
	return b, nil
}
