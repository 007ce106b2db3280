package inbound

import (
	"context"
	"io"
	"net/http"

	"github.com/shandysiswandi/bankocr/internal/ocr/usecase"
	"github.com/shandysiswandi/bankocr/internal/pkg/pkgrouter"
)

type uc interface {
	Upload(ctx context.Context, r io.Reader) (usecase.UploadResult, error)
	Decode(ctx context.Context, r io.Reader, annotate bool) (usecase.DecodeResult, error)
	Report(ctx context.Context, scanID string, annotate bool) (usecase.ReportResult, error)
	Entries(ctx context.Context, scanID string, filter usecase.EntryFilter, page, pageSize int) (usecase.EntriesResult, error)
	Export(ctx context.Context, scanID string, w io.Writer) error
}

func RegisterHTTPEndpoint(r *pkgrouter.Router, uc uc) {
	end := &HTTPEndpoint{uc: uc}

	r.POST("/decode", end.Decode) // ?annotate=
	r.POST("/scans", end.Scans)

	r.GET("/scans/report", end.Report)   // ?scan_id=&annotate=
	r.GET("/scans/entries", end.Entries) // ?scan_id=&status=
	r.Raw(http.MethodGet, "/scans/export", end.Export)
}
