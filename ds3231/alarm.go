package ds3231

// Alarm is the alarm number, 1 or 2.
type Alarm uint8

const (
	Alarm1 Alarm = 1
	Alarm2 Alarm = 2
)

type alarmRegs struct {
	min, hours, day uint8
	enable          ControlBit
}

var alarms = [...]alarmRegs{
	Alarm1: {min: RegAlarm1Min, hours: RegAlarm1Hours, day: RegAlarm1Day, enable: AL1E},
	Alarm2: {min: RegAlarm2Min, hours: RegAlarm2Hours, day: RegAlarm2Day, enable: AL2E},
}

func (a Alarm) valid() bool { return a == Alarm1 || a == Alarm2 }

func (a Alarm) flag() Status {
	if a == Alarm1 {
		return 1 << A1F
	}
	return 1 << A2F
}

// SetAlarm sets alarm a to hour:minute on day and arms it. day is a day of week (1-7) when dayOfWeek is set,
// otherwise a day of month (1-31). Writing stops at the first error, which can leave the alarm half set.
func (d *Device) SetAlarm(a Alarm, hour, minute, day int, dayOfWeek bool) error {
	if !a.valid() {
		return ErrInvalidAlarm
	}
	h, err := encodeField("alarm hour", hour, 0, 23)
	if err != nil {
		return err
	}
	m, err := encodeField("alarm minute", minute, 0, 59)
	if err != nil {
		return err
	}
	var dd uint8
	if dayOfWeek {
		dd, err = encodeField("alarm day of week", day, 1, 7)
		dd |= dayOfWeekSelect
	} else {
		dd, err = encodeField("alarm day", day, 1, 31)
	}
	if err != nil {
		return err
	}

	regs := alarms[a]
	if err := d.writeRegs([]uint8{regs.hours, regs.min, regs.day}, []uint8{h, m, dd}); err != nil {
		return err
	}
	return d.SetControlBit(regs.enable)
}

// ReadAlarm returns the hour and minute alarm a is set to.
func (d *Device) ReadAlarm(a Alarm) (hour, minute int, err error) {
	if !a.valid() {
		return 0, 0, ErrInvalidAlarm
	}
	regs := alarms[a]
	h, err := d.readReg(regs.hours)
	if err != nil {
		return 0, 0, err
	}
	m, err := d.readReg(regs.min)
	if err != nil {
		return 0, 0, err
	}
	return DecodeBCD(h & alarmHoursMask), DecodeBCD(m & alarmMinMask), nil
}

// AlarmTriggered reports whether alarm a has fired since the last call. A raised flag is cleared so the alarm can
// fire again on its next match; when the flag is down nothing is written.
func (d *Device) AlarmTriggered(a Alarm) (bool, error) {
	if !a.valid() {
		return false, ErrInvalidAlarm
	}
	v, err := d.readReg(RegStatus)
	if err != nil {
		return false, err
	}
	s := Status(v)
	if !s.AlarmFlag(a) {
		return false, nil
	}
	if err := d.writeReg(RegStatus, uint8(s&^a.flag())); err != nil {
		return false, err
	}
	return true, nil
}
