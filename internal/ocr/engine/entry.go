package engine

import (
	"fmt"
	"strings"
)

// Entry is one scanned account number: three rows of nine adjacent glyphs.
type Entry [CellHeight]string

// NewEntry validates the row count and width and returns the entry.
func NewEntry(rows ...string) (Entry, error) {
	if len(rows) != CellHeight {
		return Entry{}, fmt.Errorf("%w: got %d rows, want %d", ErrMalformedEntry, len(rows), CellHeight)
	}

	var e Entry
	for i, row := range rows {
		if len(row) != EntryWidth {
			return Entry{}, fmt.Errorf("%w: row %d has %d characters, want %d", ErrMalformedEntry, i+1, len(row), EntryWidth)
		}
		e[i] = row
	}

	return e, nil
}

// Cell returns the glyph at position j, counted from the left.
func (e Entry) Cell(j int) Cell {
	off := j * CellWidth
	var c Cell
	for i := range e {
		c[i] = e[i][off : off+CellWidth]
	}
	return c
}

// Cells splits the entry into its nine glyphs, left to right.
func (e Entry) Cells() [DigitsPerEntry]Cell {
	var cells [DigitsPerEntry]Cell
	for j := range cells {
		cells[j] = e.Cell(j)
	}
	return cells
}

func (e Entry) String() string {
	return strings.Join(e[:], "\n")
}

// Decode classifies every glyph against the canonical table and assembles
// the account number. The first illegible glyph fails the whole entry.
func (e Entry) Decode() (AccountNumber, error) {
	return e.DecodeWith(canonical)
}

// DecodeWith is Decode against a caller supplied table.
func (e Entry) DecodeWith(t Table) (AccountNumber, error) {
	var acc AccountNumber
	for j, c := range e.Cells() {
		d, err := t.Classify(c)
		if err != nil || d < 0 || d > 9 {
			return 0, &DigitError{Position: j}
		}
		acc = acc*10 + AccountNumber(d)
	}
	return acc, nil
}

// Recognition holds the digit at each position, or -1 where the glyph was
// illegible.
type Recognition [DigitsPerEntry]int

// Recognize classifies all nine glyphs without stopping at the first failure.
func (e Entry) Recognize(t Table) Recognition {
	var r Recognition
	for j, c := range e.Cells() {
		d, err := t.Classify(c)
		if err != nil || d > 9 {
			d = -1
		}
		r[j] = d
	}
	return r
}

// Legible reports whether every position holds a digit.
func (r Recognition) Legible() bool {
	return len(r.Illegible()) == 0
}

// Illegible returns the zero-based positions that failed classification.
func (r Recognition) Illegible() []int {
	var out []int
	for j, d := range r {
		if d < 0 {
			out = append(out, j)
		}
	}
	return out
}

// Number assembles the account number. It is only meaningful when Legible.
func (r Recognition) Number() AccountNumber {
	var acc AccountNumber
	for _, d := range r {
		if d < 0 {
			return 0
		}
		acc = acc*10 + AccountNumber(d)
	}
	return acc
}

// Token renders the nine positions, writing marker where a glyph was illegible.
func (r Recognition) Token(marker byte) string {
	var b strings.Builder
	b.Grow(DigitsPerEntry)
	for _, d := range r {
		if d < 0 {
			b.WriteByte(marker)
			continue
		}
		b.WriteByte(byte('0' + d))
	}
	return b.String()
}
