package inbound

import (
	"bytes"
	"context"
	"errors"
	"io"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/shandysiswandi/bankocr/internal/ocr/entity"
	"github.com/shandysiswandi/bankocr/internal/ocr/export"
	"github.com/shandysiswandi/bankocr/internal/ocr/usecase"
	"github.com/shandysiswandi/bankocr/internal/pkg/pkgerror"
)

type HTTPEndpoint struct {
	uc uc
}

func (h *HTTPEndpoint) Scans(ctx context.Context, r *http.Request) (any, error) {
	reader, cleanup, err := extractScanReader(r)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	pr, pw := io.Pipe()
	result, err := h.uc.Upload(ctx, pr)
	if err != nil {
		_ = pr.Close()
		_ = pw.Close()
		return nil, err
	}

	if err := streamToPipe(reader, pw); err != nil {
		if errors.Is(err, context.Canceled) {
			return nil, pkgerror.NewUnavailable("service is shutting down")
		}
		return nil, pkgerror.NewServer(err)
	}

	return UploadResponse{ScanID: result.ScanID}, nil
}

func (h *HTTPEndpoint) Decode(ctx context.Context, r *http.Request) (any, error) {
	annotate, err := parseAnnotate(r.URL.Query().Get("annotate"))
	if err != nil {
		return nil, err
	}

	reader, cleanup, err := extractScanReader(r)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	result, err := h.uc.Decode(ctx, reader, annotate)
	if err != nil {
		return nil, err
	}

	return DecodeResponse{
		Report:    result.Report,
		Entries:   toHTTPEntries(result.Entries),
		total:     result.Total,
		legible:   result.Legible,
		illegible: result.Illegible,
		invalid:   result.Invalid,
	}, nil
}

func (h *HTTPEndpoint) Report(ctx context.Context, r *http.Request) (any, error) {
	query := r.URL.Query()
	scanID := strings.TrimSpace(query.Get("scan_id"))
	if scanID == "" {
		return nil, pkgerror.NewInvalidInput(errors.New("scan_id is required"))
	}

	annotate, err := parseAnnotate(query.Get("annotate"))
	if err != nil {
		return nil, err
	}

	result, err := h.uc.Report(ctx, scanID, annotate)
	if err != nil {
		return nil, err
	}

	return ReportResponse{
		ScanID: result.ScanID,
		Status: result.Status,
		Report: result.Report,
		total:  result.Total,
	}, nil
}

func (h *HTTPEndpoint) Entries(ctx context.Context, r *http.Request) (any, error) {
	query := r.URL.Query()
	scanID := strings.TrimSpace(query.Get("scan_id"))
	if scanID == "" {
		return nil, pkgerror.NewInvalidInput(errors.New("scan_id is required"))
	}

	page, pageSize, err := parsePagination(query.Get("page"), query.Get("page_size"))
	if err != nil {
		return nil, err
	}

	filter, err := parseEntryFilter(query.Get("status"))
	if err != nil {
		return nil, err
	}

	result, err := h.uc.Entries(ctx, scanID, filter, page, pageSize)
	if err != nil {
		return nil, err
	}

	return EntriesResponse{
		ScanID:   result.ScanID,
		Status:   result.Status,
		Entries:  toHTTPEntries(result.Entries),
		page:     result.Page,
		pageSize: result.PageSize,
		total:    result.Total,
	}, nil
}

func (h *HTTPEndpoint) Export(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	scanID := strings.TrimSpace(r.URL.Query().Get("scan_id"))
	if scanID == "" {
		return pkgerror.NewInvalidInput(errors.New("scan_id is required"))
	}

	// buffered so a failed export can still be answered with a JSON error
	var buf bytes.Buffer
	if err := h.uc.Export(ctx, scanID, &buf); err != nil {
		return err
	}

	w.Header().Set("Content-Type", export.ContentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": scanID + ".xlsx"}))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	_, err := buf.WriteTo(w)
	return err
}

func parseAnnotate(raw string) (bool, error) {
	if raw == "" {
		return false, nil
	}

	value, err := strconv.ParseBool(raw)
	if err != nil {
		return false, pkgerror.NewInvalidInput(errors.New("invalid annotate"))
	}

	return value, nil
}

func parsePagination(pageRaw, sizeRaw string) (int, int, error) {
	page := 1
	pageSize := 10

	if pageRaw != "" {
		value, err := strconv.Atoi(pageRaw)
		if err != nil || value < 1 {
			return 0, 0, pkgerror.NewInvalidInput(errors.New("invalid page"))
		}
		page = value
	}

	if sizeRaw != "" {
		value, err := strconv.Atoi(sizeRaw)
		if err != nil || value < 1 {
			return 0, 0, pkgerror.NewInvalidInput(errors.New("invalid page_size"))
		}
		if value > 100 {
			value = 100
		}
		pageSize = value
	}

	return page, pageSize, nil
}

func parseEntryFilter(statusRaw string) (usecase.EntryFilter, error) {
	filter := usecase.EntryFilter{}

	if statusRaw == "" {
		return filter, nil
	}

	for _, value := range strings.Split(statusRaw, ",") {
		value = strings.TrimSpace(value)
		if value == "" {
			continue
		}
		status, err := parseStatus(value)
		if err != nil {
			return filter, err
		}
		filter.Statuses = append(filter.Statuses, status)
	}

	return filter, nil
}

func parseStatus(value string) (entity.EntryStatus, error) {
	switch strings.ToUpper(value) {
	case string(entity.EntryStatusOK):
		return entity.EntryStatusOK, nil
	case string(entity.EntryStatusInvalid):
		return entity.EntryStatusInvalid, nil
	case string(entity.EntryStatusIllegible):
		return entity.EntryStatusIllegible, nil
	default:
		return "", pkgerror.NewInvalidInput(errors.New("invalid status filter"))
	}
}

func toHTTPEntries(entries []entity.DecodedEntry) []Entry {
	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		out = append(out, toHTTPEntry(e))
	}
	return out
}

func toHTTPEntry(e entity.DecodedEntry) Entry {
	entry := Entry{
		Index:     e.Index,
		Line:      e.Line,
		Account:   e.Token,
		Status:    e.Status,
		Illegible: e.Illegible,
	}
	if e.Status != entity.EntryStatusIllegible {
		n := e.Number
		entry.Number = &n
	}
	return entry
}

func extractScanReader(r *http.Request) (io.ReadCloser, func(), error) {
	contentType := r.Header.Get("Content-Type")
	if contentType != "" {
		mediaType, _, err := mime.ParseMediaType(contentType)
		if err == nil && strings.EqualFold(mediaType, "multipart/form-data") {
			return extractMultipartFile(r)
		}
	}

	if r.Body == nil {
		return nil, func() {}, pkgerror.NewInvalidInput(errors.New("empty request body"))
	}

	return r.Body, func() {}, nil
}

func extractMultipartFile(r *http.Request) (io.ReadCloser, func(), error) {
	reader, err := r.MultipartReader()
	if err != nil {
		return nil, func() {}, pkgerror.NewInvalidFormat()
	}

	for {
		part, err := reader.NextPart()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil, func() {}, pkgerror.NewInvalidInput(errors.New("file part is required"))
			}
			return nil, func() {}, pkgerror.NewInvalidFormat()
		}

		if part.FormName() == "file" {
			return part, func() { _ = part.Close() }, nil
		}
		_ = part.Close()
	}
}

func streamToPipe(src io.Reader, dst *io.PipeWriter) error {
	defer func() {
		_ = dst.Close()
	}()

	if _, err := io.Copy(dst, src); err != nil {
		_ = dst.CloseWithError(err)
		return err
	}

	return nil
}
