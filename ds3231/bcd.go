package ds3231

// DecodeBCD converts a BCD register value to int. Any byte is accepted; the
// result is only meaningful when both nibbles are 0-9.
func DecodeBCD(b uint8) int {
	return int(b>>4)*10 + int(b&0x0F)
}

// EncodeBCD converts 0-99 to BCD. Larger values are truncated, so callers
// writing to the chip go through encodeField instead.
func EncodeBCD(n int) uint8 {
	return uint8((n/10)<<4 | n%10)
}

// encodeField range-checks n before encoding it.
func encodeField(field string, n, min, max int) (uint8, error) {
	if n < min || n > max {
		return 0, &RangeError{Field: field, Value: n, Min: min, Max: max}
	}
	return EncodeBCD(n), nil
}
