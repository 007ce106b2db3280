package entity

import "strconv"

// IllegibleEntryEvent asks for a manual review of an entry that could not be
// fully recognized.
type IllegibleEntryEvent struct {
	EventID string
	ScanID  string
	Entry   DecodedEntry
}

// ReviewKey names the reviewed entry rather than the delivery, so a
// republished event for the same entry maps to the same key.
func (e IllegibleEntryEvent) ReviewKey() string {
	return e.ScanID + "#" + strconv.Itoa(e.Entry.Index)
}
