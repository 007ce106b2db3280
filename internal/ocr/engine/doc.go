// Package engine recognizes seven-segment style account numbers drawn with
// spaces, underscores and pipes.
//
// An entry is three rows of 27 characters holding nine 3x3 glyphs. The
// engine splits entries into glyphs, matches each glyph against a fixed
// table of the ten legible digits and assembles the account number. The
// Decoder applies this to a stream of lines, three at a time, and renders a
// report with one zero-padded nine-character token per entry.
//
// Illegible glyphs do not abort a stream: the affected entry is rendered
// with a marker (DefaultMarker) in place of each unrecognized digit. A
// structurally malformed entry (wrong row count or width) aborts the whole
// stream with an *EntryError wrapping ErrMalformedEntry.
//
// The package performs no I/O of its own beyond reading a caller supplied
// io.Reader and keeps no mutable state; a Decoder is safe for concurrent use.
package engine
