package ds3231

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidAlarm      = errors.New("ds3231: alarm must be 1 or 2")
	ErrInvalidFrequency  = errors.New("ds3231: unknown square wave frequency")
	ErrInvalidControlBit = errors.New("ds3231: control bit must be 0-7")
)

// TransportError reports a failed register transfer.
type TransportError struct {
	Op  string // "read" or "write"
	Reg uint8
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("ds3231: %s register 0x%02X: %v", e.Op, e.Reg, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// RangeError is returned when a value cannot be written to its register
// without corrupting it.
type RangeError struct {
	Field    string
	Value    int
	Min, Max int
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("ds3231: %s %d out of range [%d, %d]", e.Field, e.Value, e.Min, e.Max)
}
