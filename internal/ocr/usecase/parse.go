package usecase

import (
	"context"
	"io"
	"log/slog"

	"github.com/shandysiswandi/bankocr/internal/ocr/engine"
	"github.com/shandysiswandi/bankocr/internal/ocr/entity"
)

func decodeScan(ctx context.Context, dec *engine.Decoder, r io.Reader, onEntry func(e entity.DecodedEntry)) (engine.Stats, error) {
	stats, err := dec.EachReader(r, func(res engine.Result) {
		onEntry(toEntity(res))
	})
	if err != nil {
		slog.WarnContext(ctx, "failed to decode scan", "entries", stats.Entries, "error", err)
		return stats, err
	}

	return stats, nil
}

func toEntity(res engine.Result) entity.DecodedEntry {
	var illegible []int
	if len(res.Illegible) > 0 {
		illegible = append(illegible, res.Illegible...)
	}

	return entity.DecodedEntry{
		Index:     res.Index,
		Line:      res.Line,
		Token:     res.Token,
		Number:    int64(res.Number),
		Status:    toEntryStatus(res.Status),
		Illegible: illegible,
	}
}

func toEntryStatus(s engine.Status) entity.EntryStatus {
	switch s {
	case engine.StatusInvalid:
		return entity.EntryStatusInvalid
	case engine.StatusIllegible:
		return entity.EntryStatusIllegible
	default:
		return entity.EntryStatusOK
	}
}
