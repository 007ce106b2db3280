package engine

import (
	"fmt"
	"strconv"
	"strings"
)

// MaxAccountNumber is the largest number nine digits can hold.
const MaxAccountNumber AccountNumber = 999_999_999

// AccountNumber is the integer value of a fully legible entry.
type AccountNumber int

// String returns the number zero-padded to nine digits.
func (n AccountNumber) String() string {
	return fmt.Sprintf("%0*d", DigitsPerEntry, int(n))
}

// Digits returns the nine decimal digits, most significant first.
func (n AccountNumber) Digits() [DigitsPerEntry]int {
	var out [DigitsPerEntry]int
	v := int(n)
	for i := DigitsPerEntry - 1; i >= 0; i-- {
		out[i] = v % 10
		v /= 10
	}
	return out
}

// Valid applies the account checksum: counting positions from the right
// starting at 1, the sum of position*digit must be divisible by 11.
func (n AccountNumber) Valid() bool {
	digits := n.Digits()
	sum := 0
	for i, d := range digits {
		sum += (DigitsPerEntry - i) * d
	}
	return sum%11 == 0
}

// ParseAccountNumber parses a nine-digit token back into its number.
func ParseAccountNumber(token string) (AccountNumber, error) {
	if len(token) != DigitsPerEntry {
		return 0, fmt.Errorf("invalid account token %q: want %d digits", token, DigitsPerEntry)
	}
	for i := 0; i < len(token); i++ {
		if token[i] < '0' || token[i] > '9' {
			return 0, fmt.Errorf("invalid account token %q: non-digit at %d", token, i+1)
		}
	}

	v, err := strconv.Atoi(token)
	if err != nil {
		return 0, fmt.Errorf("invalid account token %q: %w", token, err)
	}

	return AccountNumber(v), nil
}

// Status classifies a decoded entry.
type Status string

const (
	StatusOK        Status = "OK"  // Legible and the checksum holds.
	StatusInvalid   Status = "ERR" // Legible but the checksum fails.
	StatusIllegible Status = "ILL" // At least one glyph was not recognized.
)

// ParseStatus accepts the status names case-insensitively.
func ParseStatus(value string) (Status, error) {
	switch Status(strings.ToUpper(value)) {
	case StatusOK:
		return StatusOK, nil
	case StatusInvalid:
		return StatusInvalid, nil
	case StatusIllegible:
		return StatusIllegible, nil
	default:
		return "", fmt.Errorf("invalid entry status: %s", value)
	}
}
