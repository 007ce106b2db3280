package entity

type ScanMeta struct {
	ID        string
	Status    ScanStatus
	Err       string
	StartedAt int64
	EndedAt   int64

	// Stats help observability without reading every entry
	Entries   int64
	Legible   int64
	Illegible int64
	Invalid   int64
}
