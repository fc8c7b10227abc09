package models

import (
	"fmt"
	"strconv"
	"strings"
)

// SerialCodeWidth is the stored width of a serial code. Codes are
// zero-padded to this width so lexicographic order matches numeric
// order, which lets range queries run as plain string comparisons.
const SerialCodeWidth = 12

// SerialCode is a fixed-width decimal serial identifier.
type SerialCode string

// NewSerialCode builds a code from its numeric value.
func NewSerialCode(n uint64) (SerialCode, error) {
	if n == 0 {
		return "", fmt.Errorf("serial code must be positive")
	}
	s := strconv.FormatUint(n, 10)
	if len(s) > SerialCodeWidth {
		return "", fmt.Errorf("serial code %d exceeds width %d", n, SerialCodeWidth)
	}
	return SerialCode(strings.Repeat("0", SerialCodeWidth-len(s)) + s), nil
}

// ParseSerialCode parses user input into a canonical code. Input may
// carry or omit the zero padding.
func ParseSerialCode(raw string) (SerialCode, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", fmt.Errorf("serial code is empty")
	}
	for _, r := range trimmed {
		if r < '0' || r > '9' {
			return "", fmt.Errorf("serial code %q contains non-digit characters", raw)
		}
	}
	n, err := strconv.ParseUint(trimmed, 10, 64)
	if err != nil {
		return "", fmt.Errorf("serial code %q is out of range", raw)
	}
	return NewSerialCode(n)
}

// Uint64 returns the numeric value of the code.
func (c SerialCode) Uint64() uint64 {
	n, _ := strconv.ParseUint(string(c), 10, 64)
	return n
}

// Display returns the code without leading zeros.
func (c SerialCode) Display() string {
	trimmed := strings.TrimLeft(string(c), "0")
	if trimmed == "" {
		return "0"
	}
	return trimmed
}

// Next returns the following code.
func (c SerialCode) Next() (SerialCode, error) {
	return NewSerialCode(c.Uint64() + 1)
}

func (c SerialCode) String() string {
	return string(c)
}
