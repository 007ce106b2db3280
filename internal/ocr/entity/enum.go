package entity

type EntryStatus string

const (
	EntryStatusOK        EntryStatus = "OK"
	EntryStatusInvalid   EntryStatus = "ERR"
	EntryStatusIllegible EntryStatus = "ILL"
)

type ScanStatus string

const (
	ScanStatusQueued     ScanStatus = "QUEUED"
	ScanStatusProcessing ScanStatus = "PROCESSING"
	ScanStatusDone       ScanStatus = "DONE"
	ScanStatusFailed     ScanStatus = "FAILED"
)
