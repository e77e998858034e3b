package led

import (
	"context"
	"errors"
	"testing"
	"time"

	qt "github.com/frankban/quicktest"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpiotest"
)

type recorder struct {
	levels []gpio.Level
	err    error
}

func (r *recorder) Out(l gpio.Level) error {
	if r.err != nil {
		return r.err
	}
	r.levels = append(r.levels, l)
	return nil
}

func TestFlash(t *testing.T) {
	c := qt.New(t)
	r := &recorder{}

	c.Assert(Flash(context.Background(), r, 3, 2*time.Millisecond), qt.IsNil)
	c.Assert(r.levels, qt.DeepEquals, []gpio.Level{
		gpio.High, gpio.Low,
		gpio.High, gpio.Low,
		gpio.High, gpio.Low,
	})
}

func TestFlashLeavesPinLow(t *testing.T) {
	c := qt.New(t)
	p := &gpiotest.Pin{N: "GPIO60", Num: 60}

	c.Assert(Flash(context.Background(), p, 2, time.Millisecond), qt.IsNil)
	c.Assert(p.L, qt.Equals, gpio.Low)
}

func TestFlashCancelled(t *testing.T) {
	c := qt.New(t)
	r := &recorder{}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := Flash(ctx, r, 5, time.Hour)
	c.Assert(err, qt.ErrorIs, context.Canceled)
	c.Assert(r.levels, qt.DeepEquals, []gpio.Level{gpio.High, gpio.Low})
}

func TestFlashPinError(t *testing.T) {
	c := qt.New(t)
	r := &recorder{err: errors.New("permission denied")}

	c.Assert(Flash(context.Background(), r, 1, time.Millisecond), qt.ErrorMatches, "permission denied")
}
