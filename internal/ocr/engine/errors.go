package engine

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedEntry is returned when a line group is not 3 rows of 27 characters.
	ErrMalformedEntry = errors.New("malformed entry")
	// ErrUnrecognizedDigit is returned when a glyph matches no legible digit.
	ErrUnrecognizedDigit = errors.New("unrecognized digit")
	// ErrInvalidTable is returned by Table.Validate for digits outside 0-9.
	ErrInvalidTable = errors.New("invalid glyph table")
)

// DigitError reports the position of the first illegible glyph in an entry.
type DigitError struct {
	Position int
}

func (e *DigitError) Error() string {
	return fmt.Sprintf("digit %d: %v", e.Position+1, ErrUnrecognizedDigit)
}

func (e *DigitError) Unwrap() error {
	return ErrUnrecognizedDigit
}

// EntryError locates a structural failure inside a line stream.
// Entry is zero-based, Line is the one-based line that starts the entry.
type EntryError struct {
	Entry int
	Line  int
	Err   error
}

func (e *EntryError) Error() string {
	return fmt.Sprintf("entry %d (line %d): %v", e.Entry+1, e.Line, e.Err)
}

func (e *EntryError) Unwrap() error {
	return e.Err
}
