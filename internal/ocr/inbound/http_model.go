package inbound

import (
	"net/http"

	"github.com/shandysiswandi/bankocr/internal/ocr/entity"
)

type Entry struct {
	Index     int                `json:"index"`
	Line      int                `json:"line"`
	Account   string             `json:"account"`
	Number    *int64             `json:"number,omitempty"`
	Status    entity.EntryStatus `json:"status"`
	Illegible []int              `json:"illegible,omitempty"`
}

type UploadResponse struct {
	ScanID string `json:"scan_id"`
}

func (UploadResponse) StatusCode() int {
	return http.StatusAccepted
}

func (UploadResponse) Message() string {
	return "scan accepted"
}

type DecodeResponse struct {
	Report    string  `json:"report"`
	Entries   []Entry `json:"entries"`
	total     int
	legible   int
	illegible int
	invalid   int
}

func (r DecodeResponse) Meta() map[string]any {
	return map[string]any{
		"total":     r.total,
		"legible":   r.legible,
		"illegible": r.illegible,
		"invalid":   r.invalid,
	}
}

type ReportResponse struct {
	ScanID string            `json:"scan_id"`
	Status entity.ScanStatus `json:"status"`
	Report string            `json:"report"`
	total  int
}

func (r ReportResponse) Meta() map[string]any {
	return map[string]any{
		"total": r.total,
	}
}

type EntriesResponse struct {
	ScanID   string            `json:"scan_id"`
	Status   entity.ScanStatus `json:"status"`
	Entries  []Entry           `json:"entries"`
	page     int
	pageSize int
	total    int
}

func (r EntriesResponse) Meta() map[string]any {
	return map[string]any{
		"page":      r.page,
		"page_size": r.pageSize,
		"total":     r.total,
	}
}
