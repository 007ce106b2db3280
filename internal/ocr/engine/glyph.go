package engine

import (
	"fmt"
	"strings"
)

const (
	// CellWidth is the number of characters per row of one digit glyph.
	CellWidth = 3
	// CellHeight is the number of rows of one digit glyph and of one entry.
	CellHeight = 3
	// DigitsPerEntry is the number of glyphs in one account number.
	DigitsPerEntry = 9
	// EntryWidth is the exact width of every row in an entry.
	EntryWidth = CellWidth * DigitsPerEntry
)

// Cell is one 3x3 glyph, top row first.
type Cell [CellHeight]string

// NewCell builds a cell from its three rows. Rows are not validated here;
// a malformed cell simply fails classification.
func NewCell(top, middle, bottom string) Cell {
	return Cell{top, middle, bottom}
}

// String renders the cell as three newline-separated rows.
func (c Cell) String() string {
	return strings.Join(c[:], "\n")
}

// Glyph pairs a canonical rendering with the digit it stands for.
type Glyph struct {
	Cell  Cell
	Digit int
}

// Table is an ordered list of legible glyphs.
type Table []Glyph

// Classify returns the digit of the first glyph equal to c.
func (t Table) Classify(c Cell) (int, error) {
	for _, g := range t {
		if g.Cell == c {
			return g.Digit, nil
		}
	}

	return 0, ErrUnrecognizedDigit
}

// Validate checks that every glyph maps to a single decimal digit.
func (t Table) Validate() error {
	for i, g := range t {
		if g.Digit < 0 || g.Digit > 9 {
			return fmt.Errorf("%w: glyph %d maps to %d", ErrInvalidTable, i, g.Digit)
		}
	}
	return nil
}

//nolint:gochecknoglobals // read-only lookup table
var canonical = Table{
	{Cell: NewCell(" _ ", "| |", "|_|"), Digit: 0},
	{Cell: NewCell("   ", "  |", "  |"), Digit: 1},
	{Cell: NewCell(" _ ", " _|", "|_ "), Digit: 2},
	{Cell: NewCell(" _ ", " _|", " _|"), Digit: 3},
	{Cell: NewCell("   ", "|_|", "  |"), Digit: 4},
	{Cell: NewCell(" _ ", "|_ ", " _|"), Digit: 5},
	{Cell: NewCell(" _ ", "|_ ", "|_|"), Digit: 6},
	{Cell: NewCell(" _ ", "  |", "  |"), Digit: 7},
	{Cell: NewCell(" _ ", "|_|", "|_|"), Digit: 8},
	{Cell: NewCell(" _ ", "|_|", " _|"), Digit: 9},
}

// Canonical returns a copy of the ten legible glyphs in digit order.
func Canonical() Table {
	out := make(Table, len(canonical))
	copy(out, canonical)
	return out
}

// GlyphFor returns the canonical rendering of digit d.
func GlyphFor(d int) (Cell, bool) {
	if d < 0 || d >= len(canonical) {
		return Cell{}, false
	}
	return canonical[d].Cell, true
}

// Classify matches c against the canonical glyphs.
func Classify(c Cell) (int, error) {
	return canonical.Classify(c)
}
