package entity

// DecodedEntry is one account number read from a scan.
type DecodedEntry struct {
	Index     int
	Line      int
	Token     string
	Number    int64
	Status    EntryStatus
	Illegible []int
}

// Annotated returns the token with its status appended when it is not OK.
func (e DecodedEntry) Annotated() string {
	if e.Status == EntryStatusOK || e.Status == "" {
		return e.Token
	}
	return e.Token + " " + string(e.Status)
}
