package ds3231

// ControlBit is a bit position in the control register.
type ControlBit uint8

var controlBitNames = [8]string{"AL1E", "AL2E", "INTCN", "RS1", "RS2", "CONV", "BBSQW", "EOSC"}

func (b ControlBit) String() string {
	if b > EOSC {
		return "invalid"
	}
	return controlBitNames[b]
}

// ParseControlBit looks a bit up by its datasheet name.
func ParseControlBit(name string) (ControlBit, bool) {
	for i, n := range controlBitNames {
		if n == name {
			return ControlBit(i), true
		}
	}
	return 0, false
}

// Control is a snapshot of the control register.
type Control uint8

// Has reports whether bit b is set.
func (c Control) Has(b ControlBit) bool {
	return c&(1<<b) != 0
}

// Frequency returns the square wave frequency selected by RS1 and RS2.
func (c Control) Frequency() Freq {
	return Freq(c&rateSelectMask) >> RS1
}

// Status is a snapshot of the control/status register.
type Status uint8

// AlarmFlag reports whether the flag of alarm a is raised.
func (s Status) AlarmFlag(a Alarm) bool {
	return a.valid() && s&a.flag() != 0
}

func (s Status) OscillatorStopped() bool { return s&(1<<OSF) != 0 }

func (s Status) Busy() bool { return s&(1<<BSY) != 0 }

// Freq is a square wave output frequency. The value is the RS2:RS1 bit pattern.
type Freq uint8

const (
	FreqLow        Freq = iota // 1Hz
	FreqMediumLow              // 1.024kHz
	FreqMediumHigh             // 4.096kHz
	FreqHigh                   // 8.192kHz
)

// Hertz returns the nominal frequency, or 0 for an unknown value.
func (f Freq) Hertz() int {
	switch f {
	case FreqLow:
		return 1
	case FreqMediumLow:
		return 1024
	case FreqMediumHigh:
		return 4096
	case FreqHigh:
		return 8192
	}
	return 0
}

// ReadControl reads the control register.
func (d *Device) ReadControl() (Control, error) {
	v, err := d.readReg(RegControl)
	return Control(v), err
}

// SetControlBit sets a single control bit, leaving the others as read from the chip.
func (d *Device) SetControlBit(bit ControlBit) error {
	if bit > EOSC {
		return ErrInvalidControlBit
	}
	v, err := d.readReg(RegControl)
	if err != nil {
		return err
	}
	return d.writeReg(RegControl, v|1<<bit)
}

// SquareWaveInterrupt sets INTCN when enable is true, routing alarm interrupts to the SQW pin, or clears it to output
// a continuous square wave.
func (d *Device) SquareWaveInterrupt(enable bool) error {
	v, err := d.readReg(RegControl)
	if err != nil {
		return err
	}
	if enable {
		v |= 1 << INTCN
	} else {
		v &^= 1 << INTCN
	}
	return d.writeReg(RegControl, v)
}

// SetSquareWaveFrequency selects the square wave frequency. Only RS1 and RS2 are changed.
func (d *Device) SetSquareWaveFrequency(f Freq) error {
	if f > FreqHigh {
		return ErrInvalidFrequency
	}
	v, err := d.readReg(RegControl)
	if err != nil {
		return err
	}
	v = v&^rateSelectMask | uint8(f)<<RS1
	return d.writeReg(RegControl, v)
}

// ReadStatus reads the control/status register.
func (d *Device) ReadStatus() (Status, error) {
	v, err := d.readReg(RegStatus)
	return Status(v), err
}

// LostPower reports whether the oscillator has stopped at some point, which means the time can't be trusted. The flag
// is left as is.
func (d *Device) LostPower() (bool, error) {
	s, err := d.ReadStatus()
	if err != nil {
		return false, err
	}
	return s.OscillatorStopped(), nil
}
