package usecase

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/shandysiswandi/bankocr/internal/ocr/engine"
	"github.com/shandysiswandi/bankocr/internal/ocr/entity"
	"github.com/shandysiswandi/bankocr/internal/pkg/pkgerror"
	"github.com/shandysiswandi/bankocr/internal/pkg/pkglog"
	"github.com/shandysiswandi/bankocr/internal/pkg/pkguid"
)

type Store interface {
	CreateScan(ctx context.Context, meta entity.ScanMeta) error
	UpdateMeta(ctx context.Context, scanID string, fn func(meta *entity.ScanMeta)) error
	SaveResults(ctx context.Context, scanID string, entries []entity.DecodedEntry) error
	GetEntries(ctx context.Context, scanID string) ([]entity.DecodedEntry, entity.ScanMeta, error)
	ListEntries(ctx context.Context, scanID string, filter EntryFilter, page, pageSize int) ([]entity.DecodedEntry, int, entity.ScanMeta, error)
}

type EventPublisher interface {
	Publish(ctx context.Context, event entity.IllegibleEntryEvent) error
}

type Exporter interface {
	Export(ctx context.Context, meta entity.ScanMeta, entries []entity.DecodedEntry, w io.Writer) error
}

type Runner interface {
	TryGo(ctx context.Context, f func(ctx context.Context) error) bool
}

type Clock interface {
	Now() time.Time
}

type Dependency struct {
	Store    Store
	Events   EventPublisher
	Exporter Exporter
	Runner   Runner
	Clock    Clock
	Decoder  *engine.Decoder
	ID       pkguid.StringID
	EventID  pkguid.NumberID
	RootCtx  context.Context
}

type Usecase struct {
	store    Store
	events   EventPublisher
	exporter Exporter
	runner   Runner
	clock    Clock
	decoder  *engine.Decoder
	id       pkguid.StringID
	eventID  pkguid.NumberID
	rootCtx  context.Context
}

func New(dep Dependency) *Usecase {
	root := dep.RootCtx
	if root == nil {
		root = context.Background()
	}

	clock := dep.Clock
	if clock == nil {
		clock = realClock{}
	}

	decoder := dep.Decoder
	if decoder == nil {
		decoder = engine.NewDecoder()
	}

	return &Usecase{
		store:    dep.Store,
		events:   dep.Events,
		exporter: dep.Exporter,
		runner:   dep.Runner,
		clock:    clock,
		decoder:  decoder,
		id:       dep.ID,
		eventID:  dep.EventID,
		rootCtx:  root,
	}
}

type realClock struct{}

func (realClock) Now() time.Time {
	return time.Now()
}

func (u *Usecase) Upload(ctx context.Context, r io.Reader) (UploadResult, error) {
	if u.store == nil || u.id == nil || u.runner == nil {
		return UploadResult{}, pkgerror.NewServer(errors.New("missing dependency"))
	}

	if u.rootCtx.Err() != nil {
		return UploadResult{}, pkgerror.NewUnavailable("service is shutting down")
	}

	scanID := u.id.Generate()
	if err := u.store.CreateScan(ctx, entity.ScanMeta{
		ID:     scanID,
		Status: entity.ScanStatusQueued,
	}); err != nil {
		return UploadResult{}, normalizeErr(err)
	}

	// A scan's outcome is recorded on its meta; the job itself never fails.
	accepted := u.runner.TryGo(u.rootCtx, func(ctx context.Context) error {
		ctx = pkglog.SetScanID(ctx, scanID)
		if err := u.processScan(ctx, scanID, r); err != nil {
			slog.ErrorContext(ctx, "scan processing failed", "error", err)
		}
		return nil
	})
	if !accepted {
		u.failScan(ctx, scanID, "scan queue is full")
		return UploadResult{}, pkgerror.NewUnavailable("scan queue is full")
	}

	return UploadResult{ScanID: scanID}, nil
}

// Decode reads a whole scan synchronously and renders its report.
func (u *Usecase) Decode(ctx context.Context, r io.Reader, annotate bool) (DecodeResult, error) {
	if r == nil {
		return DecodeResult{}, pkgerror.NewInvalidInput(errors.New("scan body is required"))
	}

	var entries []entity.DecodedEntry
	stats, err := decodeScan(ctx, u.decoder, r, func(e entity.DecodedEntry) {
		entries = append(entries, e)
	})
	if err != nil {
		return DecodeResult{}, mapDecodeErr(err)
	}

	return DecodeResult{
		Report:    renderReport(entries, annotate),
		Entries:   entries,
		Total:     stats.Entries,
		Legible:   stats.Legible,
		Illegible: stats.Illegible,
		Invalid:   stats.Invalid,
	}, nil
}

func (u *Usecase) Report(ctx context.Context, scanID string, annotate bool) (ReportResult, error) {
	if scanID == "" {
		return ReportResult{}, pkgerror.NewInvalidInput(errors.New("scan_id is required"))
	}

	entries, meta, err := u.store.GetEntries(ctx, scanID)
	if err != nil {
		return ReportResult{}, mapStoreErr(err)
	}

	return ReportResult{
		ScanID: scanID,
		Status: meta.Status,
		Report: renderReport(entries, annotate),
		Total:  len(entries),
	}, nil
}

func (u *Usecase) Entries(ctx context.Context, scanID string, filter EntryFilter, page, pageSize int) (EntriesResult, error) {
	if scanID == "" {
		return EntriesResult{}, pkgerror.NewInvalidInput(errors.New("scan_id is required"))
	}

	if page < 1 || pageSize < 1 {
		return EntriesResult{}, pkgerror.NewInvalidInput(errors.New("invalid pagination"))
	}

	entries, total, meta, err := u.store.ListEntries(ctx, scanID, filter, page, pageSize)
	if err != nil {
		return EntriesResult{}, mapStoreErr(err)
	}

	return EntriesResult{
		ScanID:   scanID,
		Status:   meta.Status,
		Entries:  entries,
		Page:     page,
		PageSize: pageSize,
		Total:    total,
	}, nil
}

// Export writes the entries of a finished scan as a spreadsheet.
func (u *Usecase) Export(ctx context.Context, scanID string, w io.Writer) error {
	if scanID == "" {
		return pkgerror.NewInvalidInput(errors.New("scan_id is required"))
	}

	if u.exporter == nil {
		return pkgerror.NewServer(errors.New("missing exporter"))
	}

	entries, meta, err := u.store.GetEntries(ctx, scanID)
	if err != nil {
		return mapStoreErr(err)
	}

	if meta.Status != entity.ScanStatusDone {
		return pkgerror.NewBusiness("scan is not ready for export", pkgerror.CodeConflict)
	}

	if err := u.exporter.Export(ctx, meta, entries, w); err != nil {
		return pkgerror.NewServer(err)
	}

	return nil
}

// failScan marks a scan that never started as FAILED.
func (u *Usecase) failScan(ctx context.Context, scanID, reason string) {
	now := u.clock.Now().Unix()
	if err := u.store.UpdateMeta(ctx, scanID, func(meta *entity.ScanMeta) {
		meta.Status = entity.ScanStatusFailed
		meta.Err = reason
		meta.StartedAt = now
		meta.EndedAt = now
	}); err != nil {
		slog.WarnContext(ctx, "failed to mark scan as failed", "scan_id", scanID, "error", err)
	}
}

// releaseUpload unblocks the uploader of a scan that will not be read.
func releaseUpload(r io.Reader, cause error) {
	if pr, ok := r.(interface{ CloseWithError(error) error }); ok {
		_ = pr.CloseWithError(cause)
		return
	}
	_, _ = io.Copy(io.Discard, r)
}

func (u *Usecase) processScan(ctx context.Context, scanID string, r io.Reader) error {
	if err := ctx.Err(); err != nil {
		releaseUpload(r, err)
		u.failScan(context.WithoutCancel(ctx), scanID, "canceled before processing")
		return err
	}

	startedAt := u.clock.Now().Unix()
	if err := u.store.UpdateMeta(ctx, scanID, func(meta *entity.ScanMeta) {
		meta.Status = entity.ScanStatusProcessing
		meta.StartedAt = startedAt
	}); err != nil {
		return err
	}

	var entries []entity.DecodedEntry
	stats, err := decodeScan(ctx, u.decoder, r, func(e entity.DecodedEntry) {
		entries = append(entries, e)
	})
	// the uploader blocks until the body is fully consumed
	_, _ = io.Copy(io.Discard, r)

	endedAt := u.clock.Now().Unix()
	status := entity.ScanStatusDone
	errMsg := ""
	if err != nil {
		// a malformed entry invalidates the whole scan
		status = entity.ScanStatusFailed
		errMsg = err.Error()
		entries = nil
		stats = engine.Stats{}
	} else {
		u.publishIllegible(ctx, scanID, entries)
	}

	if saveErr := u.store.SaveResults(ctx, scanID, entries); saveErr != nil {
		return saveErr
	}

	if metaErr := u.store.UpdateMeta(ctx, scanID, func(meta *entity.ScanMeta) {
		meta.Status = status
		meta.Err = errMsg
		meta.EndedAt = endedAt
		meta.Entries = int64(stats.Entries)
		meta.Legible = int64(stats.Legible)
		meta.Illegible = int64(stats.Illegible)
		meta.Invalid = int64(stats.Invalid)
	}); metaErr != nil {
		return metaErr
	}

	return err
}

func (u *Usecase) publishIllegible(ctx context.Context, scanID string, entries []entity.DecodedEntry) {
	if u.events == nil {
		return
	}

	for _, e := range entries {
		if e.Status != entity.EntryStatusIllegible {
			continue
		}

		event := entity.IllegibleEntryEvent{
			EventID: u.nextEventID(),
			ScanID:  scanID,
			Entry:   e,
		}
		if pubErr := u.events.Publish(ctx, event); pubErr != nil {
			slog.WarnContext(ctx, "failed to publish event", "event_id", event.EventID, "error", pubErr)
		}
	}
}

func (u *Usecase) nextEventID() string {
	if u.eventID != nil {
		return strconv.FormatInt(u.eventID.Generate(), 10)
	}
	return u.id.Generate()
}

func renderReport(entries []entity.DecodedEntry, annotate bool) string {
	lines := make([]string, len(entries))
	for i, e := range entries {
		if annotate {
			lines[i] = e.Annotated()
			continue
		}
		lines[i] = e.Token
	}
	return strings.Join(lines, "\n")
}

func mapDecodeErr(err error) error {
	var entryErr *engine.EntryError
	if errors.As(err, &entryErr) {
		return pkgerror.NewMalformedScan(err, entryErr.Entry+1, entryErr.Line)
	}
	if errors.Is(err, engine.ErrMalformedEntry) {
		return pkgerror.NewInvalidInput(err)
	}
	return normalizeErr(err)
}

func mapStoreErr(err error) error {
	if errors.Is(err, pkgerror.ErrNotFound) {
		return pkgerror.NewBusiness("scan not found", pkgerror.CodeNotFound)
	}
	return normalizeErr(err)
}

func normalizeErr(err error) error {
	var perr *pkgerror.Error
	if errors.As(err, &perr) {
		return perr
	}
	return pkgerror.NewServer(err)
}
