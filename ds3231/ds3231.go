// Package ds3231 implements a driver for the DS3231 Real-Time Clock (RTC): time and date, the temperature sensor,
// both alarms, the control and status registers and the square wave output. The chip is always driven in 24-hour
// mode. The driver keeps no state between calls; every accessor goes to the chip.
//
// A Device is not safe for concurrent use. Sequences such as SetAlarm span several register writes, so callers
// sharing one chip must serialize access themselves.
//
// Datasheet: https://www.analog.com/media/en/technical-documentation/data-sheets/DS3231.pdf
package ds3231

import (
	"time"

	"tinygo.org/x/drivers"
)

type Device struct {
	bus     drivers.I2C
	Address uint16

	clock func() time.Time
	loc   *time.Location

	w [2]byte
	r [1]byte
}

type Config struct {
	// Address defaults to 0x68.
	Address uint16
	// BatteryBacked should be set when the chip has kept time on its backup supply. When false, Configure seeds the
	// chip from Clock.
	BatteryBacked bool
	// Clock defaults to time.Now.
	Clock func() time.Time
	// Location is used by Now to interpret the registers. Defaults to time.Local.
	Location *time.Location
}

// TimeOfDay is a 24-hour wall clock reading.
type TimeOfDay struct {
	Hour, Minute, Second int
}

// Date is a calendar date with a two-digit year counted from 2000. No cross-field validation is done, so February
// 30 passes through unchanged.
type Date struct {
	Year, Month, Day int
}

// New creates a new DS3231 driver on the provided I2C bus. It does not touch the device until Configure is called.
func New(bus drivers.I2C) *Device {
	return &Device{
		bus:     bus,
		Address: Address,
		clock:   time.Now,
		loc:     time.Local,
	}
}

// Configure applies c and, unless the chip is battery backed, sets it to the current host time.
func (d *Device) Configure(c Config) error {
	if c.Address == 0 {
		c.Address = Address
	}
	d.Address = c.Address
	if c.Clock != nil {
		d.clock = c.Clock
	}
	if c.Location != nil {
		d.loc = c.Location
	}

	if c.BatteryBacked {
		return nil
	}
	return d.Set(d.clock())
}

// ReadDateTime reads the time and date registers.
func (d *Device) ReadDateTime() (TimeOfDay, Date, error) {
	var raw [6]uint8
	regs := [6]uint8{RegSeconds, RegMinutes, RegHours, RegDate, RegMonth, RegYear}
	for i, reg := range regs {
		v, err := d.readReg(reg)
		if err != nil {
			return TimeOfDay{}, Date{}, err
		}
		raw[i] = v
	}

	t := TimeOfDay{
		Hour:   DecodeBCD(raw[2] & hoursMask),
		Minute: DecodeBCD(raw[1]),
		Second: DecodeBCD(raw[0]),
	}
	date := Date{
		Year:  DecodeBCD(raw[5]),
		Month: DecodeBCD(raw[4] & monthMask),
		Day:   DecodeBCD(raw[3]),
	}
	return t, date, nil
}

// Now returns the chip's time as a time.Time between 2000 and 2099.
func (d *Device) Now() (time.Time, error) {
	t, date, err := d.ReadDateTime()
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(2000+date.Year, time.Month(date.Month), date.Day, t.Hour, t.Minute, t.Second, 0, d.loc), nil
}

// Set writes the day of week, date and time of t. Sunday is stored as day 1.
func (d *Device) Set(t time.Time) error {
	if _, err := encodeField("year", t.Year()-2000, 0, 99); err != nil {
		return err
	}
	if err := d.SetDayOfWeek(int(t.Weekday()) + 1); err != nil {
		return err
	}
	if err := d.SetDate(t.Year()-2000, int(t.Month()), t.Day()); err != nil {
		return err
	}
	return d.SetTime(t.Hour(), t.Minute(), t.Second())
}

// SetTime writes the hours, minutes and seconds registers, in that order. The three writes are not atomic.
func (d *Device) SetTime(hour, minute, second int) error {
	h, err := encodeField("hour", hour, 0, 23)
	if err != nil {
		return err
	}
	m, err := encodeField("minute", minute, 0, 59)
	if err != nil {
		return err
	}
	s, err := encodeField("second", second, 0, 59)
	if err != nil {
		return err
	}
	return d.writeRegs([]uint8{RegHours, RegMinutes, RegSeconds}, []uint8{h, m, s})
}

// SetDate writes the year, month and date registers, in that order. year is the last two digits.
func (d *Device) SetDate(year, month, day int) error {
	y, err := encodeField("year", year, 0, 99)
	if err != nil {
		return err
	}
	m, err := encodeField("month", month, 1, 12)
	if err != nil {
		return err
	}
	dd, err := encodeField("day", day, 1, 31)
	if err != nil {
		return err
	}
	return d.writeRegs([]uint8{RegYear, RegMonth, RegDate}, []uint8{y, m, dd})
}

// SetDayOfWeek writes the day register. The chip only counts 1-7; what day 1 means is up to the caller.
func (d *Device) SetDayOfWeek(dow int) error {
	v, err := encodeField("day of week", dow, 1, 7)
	if err != nil {
		return err
	}
	return d.writeReg(RegDay, v)
}

// ReadTemperature returns the signed whole degrees Celsius and the quarter-degree fraction (0, 0.25, 0.5 or 0.75).
// The reading is refreshed by the chip every 64 seconds.
func (d *Device) ReadTemperature() (whole int, fraction float64, err error) {
	msb, err := d.readReg(RegTemperatureH)
	if err != nil {
		return 0, 0, err
	}
	lsb, err := d.readReg(RegTemperatureL)
	if err != nil {
		return 0, 0, err
	}
	return int(int8(msb)), float64(lsb>>6) * 0.25, nil
}

// Temperature returns the temperature in degrees Celsius.
func (d *Device) Temperature() (float64, error) {
	whole, fraction, err := d.ReadTemperature()
	if err != nil {
		return 0, err
	}
	return float64(whole) + fraction, nil
}

// ReadAgingOffset returns the aging trim. Positive values slow the oscillator down.
func (d *Device) ReadAgingOffset() (int8, error) {
	v, err := d.readReg(RegAgingOffset)
	return int8(v), err
}

func (d *Device) SetAgingOffset(offset int8) error {
	return d.writeReg(RegAgingOffset, uint8(offset))
}

func (d *Device) readReg(reg uint8) (uint8, error) {
	d.w[0] = reg
	if err := d.bus.Tx(d.Address, d.w[:1], d.r[:]); err != nil {
		return 0, &TransportError{Op: "read", Reg: reg, Err: err}
	}
	return d.r[0], nil
}

func (d *Device) writeReg(reg, val uint8) error {
	d.w[0] = reg
	d.w[1] = val
	if err := d.bus.Tx(d.Address, d.w[:2], nil); err != nil {
		return &TransportError{Op: "write", Reg: reg, Err: err}
	}
	return nil
}

// writeRegs stops at the first failed write.
func (d *Device) writeRegs(regs, vals []uint8) error {
	for i, reg := range regs {
		if err := d.writeReg(reg, vals[i]); err != nil {
			return err
		}
	}
	return nil
}
