package ds3231

const (
	Address = 0x68 // I2C address for DS3231

	RegSeconds      = 0x00 // Seconds, 00-59
	RegMinutes      = 0x01 // Minutes, 00-59
	RegHours        = 0x02 // Hours, bit 6 selects 12-hour mode (never set by this driver)
	RegDay          = 0x03 // Day of week, 1-7
	RegDate         = 0x04 // Day of month, 01-31
	RegMonth        = 0x05 // Month, 01-12, bit 7 is the century flag
	RegYear         = 0x06 // Year, 00-99
	RegAlarm1Sec    = 0x07 // Alarm 1 seconds
	RegAlarm1Min    = 0x08 // Alarm 1 minutes
	RegAlarm1Hours  = 0x09 // Alarm 1 hours
	RegAlarm1Day    = 0x0A // Alarm 1 day/date
	RegAlarm2Min    = 0x0B // Alarm 2 minutes
	RegAlarm2Hours  = 0x0C // Alarm 2 hours
	RegAlarm2Day    = 0x0D // Alarm 2 day/date
	RegControl      = 0x0E // Control register
	RegStatus       = 0x0F // Control/status register
	RegAgingOffset  = 0x10 // Aging offset, two's complement
	RegTemperatureH = 0x11 // Temperature, signed whole degrees
	RegTemperatureL = 0x12 // Temperature, quarter degrees in bits 7-6
)

// Control register bits.
const (
	AL1E  ControlBit = iota // Alarm 1 interrupt enable
	AL2E                    // Alarm 2 interrupt enable
	INTCN                   // Interrupt control: 1 = alarm interrupts on SQW, 0 = square wave
	RS1                     // Rate select 1
	RS2                     // Rate select 2
	CONV                    // Convert temperature
	BBSQW                   // Battery-backed square wave enable
	EOSC                    // Enable oscillator (active low)
)

// Status register bits.
const (
	A1F     = 0 // Alarm 1 flag
	A2F     = 1 // Alarm 2 flag
	BSY     = 2 // Busy converting temperature
	EN32KHZ = 3 // 32kHz output enable
	OSF     = 7 // Oscillator stop flag
)

const (
	dayOfWeekSelect = 1 << 6 // DY/DT bit of the alarm day/date registers
	rateSelectMask  = 1<<RS1 | 1<<RS2

	hoursMask      = 0x3F
	monthMask      = 0x1F
	alarmMinMask   = 0x7F
	alarmHoursMask = 0x3F
)
