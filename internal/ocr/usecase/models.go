package usecase

import (
	"slices"

	"github.com/shandysiswandi/bankocr/internal/ocr/entity"
)

type UploadResult struct {
	ScanID string
}

type DecodeResult struct {
	Report    string
	Entries   []entity.DecodedEntry
	Total     int
	Legible   int
	Illegible int
	Invalid   int
}

type ReportResult struct {
	ScanID string
	Status entity.ScanStatus
	Report string
	Total  int
}

type EntriesResult struct {
	ScanID   string
	Status   entity.ScanStatus
	Entries  []entity.DecodedEntry
	Page     int
	PageSize int
	Total    int
}

type EntryFilter struct {
	Statuses []entity.EntryStatus
}

func (f EntryFilter) Matches(e entity.DecodedEntry) bool {
	if len(f.Statuses) == 0 {
		return true
	}

	return slices.Contains(f.Statuses, e.Status)
}
