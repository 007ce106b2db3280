package engine

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"iter"
	"slices"
	"strings"
)

const (
	// DefaultMarker replaces an illegible digit in a report token.
	DefaultMarker byte = '?'
	// MaxLineBytes bounds a single input line read by EachReader.
	MaxLineBytes = 4 * 1024
)

// Result is the outcome of decoding one entry of a stream.
type Result struct {
	Index     int // zero-based entry index
	Line      int // one-based line where the entry starts
	Token     string
	Number    AccountNumber
	Illegible []int
	Status    Status
}

// Annotated returns the token followed by its status unless the entry is OK.
func (r Result) Annotated() string {
	if r.Status == StatusOK {
		return r.Token
	}
	return r.Token + " " + string(r.Status)
}

// Stats counts entries by outcome.
type Stats struct {
	Entries   int
	Legible   int
	Illegible int
	Invalid   int
}

func (s *Stats) add(r Result) {
	s.Entries++
	switch r.Status {
	case StatusIllegible:
		s.Illegible++
	case StatusInvalid:
		s.Legible++
		s.Invalid++
	default:
		s.Legible++
	}
}

// Report is the decoded form of a whole line stream.
type Report struct {
	Results []Result
	Stats   Stats
}

// Tokens returns the nine-character token of every entry in order.
func (r Report) Tokens() []string {
	out := make([]string, len(r.Results))
	for i, res := range r.Results {
		out[i] = res.Token
	}
	return out
}

// String joins the tokens with a single newline and no trailing newline.
func (r Report) String() string {
	return strings.Join(r.Tokens(), "\n")
}

// Annotated is String with ERR and ILL suffixes on failing entries.
func (r Report) Annotated() string {
	out := make([]string, len(r.Results))
	for i, res := range r.Results {
		out[i] = res.Annotated()
	}
	return strings.Join(out, "\n")
}

// Decoder turns a stream of text lines into account number tokens.
// A Decoder holds no per-call state and is safe for concurrent use.
type Decoder struct {
	table  Table
	marker byte
}

// Option configures a Decoder.
type Option func(*Decoder)

// WithTable replaces the canonical glyph table. An empty table or one that
// fails Validate is ignored.
func WithTable(t Table) Option {
	return func(d *Decoder) {
		if len(t) > 0 && t.Validate() == nil {
			d.table = t
		}
	}
}

// WithMarker sets the character written in place of an illegible digit.
// Markers rejected by ValidMarker are ignored.
func WithMarker(m byte) Option {
	return func(d *Decoder) {
		if ValidMarker(m) {
			d.marker = m
		}
	}
}

// ValidMarker reports whether m can stand in for an illegible digit: a
// printable ASCII character that is not itself a digit.
func ValidMarker(m byte) bool {
	return m > ' ' && m < 0x7f && (m < '0' || m > '9')
}

// NewDecoder returns a Decoder using the canonical table and DefaultMarker.
func NewDecoder(opts ...Option) *Decoder {
	d := &Decoder{
		table:  canonical,
		marker: DefaultMarker,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Each decodes lines three at a time and calls fn for every entry in order.
// Fewer than three trailing lines are ignored, and so are whole groups of
// empty lines at the end of the stream. A malformed entry stops the stream
// and is returned as an *EntryError.
func (d *Decoder) Each(lines iter.Seq[string], fn func(Result)) (Stats, error) {
	var (
		stats Stats
		group [CellHeight]string
		n     int
		line  int
		// first line of a run of empty groups not yet followed by data
		blankFrom int
		err       error
	)

	for l := range lines {
		line++
		group[n] = l
		n++
		if n < CellHeight {
			continue
		}
		n = 0

		start := line - CellHeight + 1
		if isBlankGroup(group) {
			if blankFrom == 0 {
				blankFrom = start
			}
			continue
		}

		if blankFrom != 0 {
			err = &EntryError{
				Entry: stats.Entries,
				Line:  blankFrom,
				Err:   fmt.Errorf("%w: empty rows before line %d", ErrMalformedEntry, start),
			}
			break
		}

		res, decErr := d.decodeGroup(group, stats.Entries, start)
		if decErr != nil {
			err = decErr
			break
		}

		stats.add(res)
		if fn != nil {
			fn(res)
		}
	}

	return stats, err
}

func isBlankGroup(group [CellHeight]string) bool {
	for _, row := range group {
		if row != "" {
			return false
		}
	}
	return true
}

// Decode collects every entry of lines into a Report. On a structural error
// no report is returned.
func (d *Decoder) Decode(lines iter.Seq[string]) (Report, error) {
	var results []Result
	stats, err := d.Each(lines, func(r Result) {
		results = append(results, r)
	})
	if err != nil {
		return Report{}, err
	}

	return Report{Results: results, Stats: stats}, nil
}

// DecodeLines is Decode over an in-memory slice.
func (d *Decoder) DecodeLines(lines []string) (Report, error) {
	return d.Decode(slices.Values(lines))
}

// DecodeReader is Decode over the lines of r. Line terminators, including
// CRLF, are stripped.
func (d *Decoder) DecodeReader(r io.Reader) (Report, error) {
	var results []Result
	stats, err := d.EachReader(r, func(res Result) {
		results = append(results, res)
	})
	if err != nil {
		return Report{}, err
	}

	return Report{Results: results, Stats: stats}, nil
}

// EachReader is Each over the lines of r. A line longer than MaxLineBytes
// is reported as a malformed entry.
func (d *Decoder) EachReader(r io.Reader, fn func(Result)) (Stats, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, EntryWidth+2), MaxLineBytes)

	read := 0
	stats, err := d.Each(func(yield func(string) bool) {
		for sc.Scan() {
			read++
			if !yield(sc.Text()) {
				return
			}
		}
	}, fn)
	if err != nil {
		return stats, err
	}

	if err := sc.Err(); err != nil {
		if errors.Is(err, bufio.ErrTooLong) {
			entry := read / CellHeight
			return stats, &EntryError{
				Entry: entry,
				Line:  entry*CellHeight + 1,
				Err:   fmt.Errorf("%w: line %d is longer than %d bytes", ErrMalformedEntry, read+1, MaxLineBytes),
			}
		}
		return stats, err
	}

	return stats, nil
}

func (d *Decoder) decodeGroup(group [CellHeight]string, index, line int) (Result, error) {
	entry, err := NewEntry(group[:]...)
	if err != nil {
		return Result{}, &EntryError{Entry: index, Line: line, Err: err}
	}

	rec := entry.Recognize(d.table)
	res := Result{
		Index:     index,
		Line:      line,
		Token:     rec.Token(d.marker),
		Illegible: rec.Illegible(),
	}

	switch {
	case len(res.Illegible) > 0:
		res.Status = StatusIllegible
	case rec.Number().Valid():
		res.Number = rec.Number()
		res.Status = StatusOK
	default:
		res.Number = rec.Number()
		res.Status = StatusInvalid
	}

	return res, nil
}

// DecodeLines decodes lines with a default Decoder.
func DecodeLines(lines []string) (Report, error) {
	return NewDecoder().DecodeLines(lines)
}
