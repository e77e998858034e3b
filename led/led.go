// Package led drives an indicator LED on a GPIO output, such as the one the alarm demo flashes when an alarm fires.
package led

import (
	"context"
	"fmt"
	"time"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/host/v3"
)

// Pin is a GPIO output. gpio.PinOut and gpio.PinIO satisfy it, as do pcf8574 expander pins.
type Pin interface {
	Out(l gpio.Level) error
}

// Open looks up a host GPIO by name (for example "GPIO60" or "P9_12") and drives it low. periph takes care of
// exporting the pin.
func Open(name string) (gpio.PinIO, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("led: periph init: %w", err)
	}
	p := gpioreg.ByName(name)
	if p == nil {
		return nil, fmt.Errorf("led: no GPIO named %q", name)
	}
	if err := p.Out(gpio.Low); err != nil {
		return nil, fmt.Errorf("led: %s: %w", name, err)
	}
	return p, nil
}

// Flash turns p on and off count times, spending half of period in each state. The LED is left off, including when
// ctx is cancelled part way.
func Flash(ctx context.Context, p Pin, count int, period time.Duration) error {
	half := period / 2
	for i := 0; i < count; i++ {
		if err := p.Out(gpio.High); err != nil {
			return err
		}
		if err := sleep(ctx, half); err != nil {
			p.Out(gpio.Low)
			return err
		}
		if err := p.Out(gpio.Low); err != nil {
			return err
		}
		if err := sleep(ctx, half); err != nil {
			return err
		}
	}
	return nil
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
