// Package alarmwatch polls DS3231 alarm flags and hands each firing to a callback. The driver itself never polls;
// this is where the interval is chosen.
package alarmwatch

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/ajanata/drivers/ds3231"
)

// Checker tests and clears an alarm flag. *ds3231.Device implements it.
type Checker interface {
	AlarmTriggered(a ds3231.Alarm) (bool, error)
}

// Handler is called once per observed firing.
type Handler func(ctx context.Context, a ds3231.Alarm) error

type Watcher struct {
	RTC Checker
	// Alarms defaults to both alarms.
	Alarms []ds3231.Alarm
	// Interval defaults to one second.
	Interval time.Duration
	OnAlarm  Handler
	Logger   *zap.Logger
}

// Run polls until ctx is done and returns ctx.Err(). Bus and handler errors are logged and polling carries on.
func (w *Watcher) Run(ctx context.Context) error {
	log := w.Logger
	if log == nil {
		log = zap.NewNop()
	}
	alarms := w.Alarms
	if len(alarms) == 0 {
		alarms = []ds3231.Alarm{ds3231.Alarm1, ds3231.Alarm2}
	}
	interval := w.Interval
	if interval <= 0 {
		interval = time.Second
	}

	tick := time.NewTicker(interval)
	defer tick.Stop()
	for {
		for _, a := range alarms {
			fired, err := w.RTC.AlarmTriggered(a)
			if err != nil {
				log.Warn("alarm check failed", zap.Uint8("alarm", uint8(a)), zap.Error(err))
				continue
			}
			if !fired {
				continue
			}
			log.Info("alarm fired", zap.Uint8("alarm", uint8(a)))
			if w.OnAlarm == nil {
				continue
			}
			if err := w.OnAlarm(ctx, a); err != nil {
				log.Error("alarm handler failed", zap.Uint8("alarm", uint8(a)), zap.Error(err))
			}
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-tick.C:
		}
	}
}
