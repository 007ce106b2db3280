package ocr

import (
	"context"
	"fmt"
	"time"

	"github.com/shandysiswandi/bankocr/internal/ocr/engine"
	"github.com/shandysiswandi/bankocr/internal/ocr/event"
	"github.com/shandysiswandi/bankocr/internal/ocr/export"
	"github.com/shandysiswandi/bankocr/internal/ocr/inbound"
	"github.com/shandysiswandi/bankocr/internal/ocr/store"
	"github.com/shandysiswandi/bankocr/internal/ocr/usecase"
	"github.com/shandysiswandi/bankocr/internal/pkg/pkgconfig"
	"github.com/shandysiswandi/bankocr/internal/pkg/pkgrouter"
	"github.com/shandysiswandi/bankocr/internal/pkg/pkgroutine"
	"github.com/shandysiswandi/bankocr/internal/pkg/pkguid"
)

type Dependency struct {
	Config    pkgconfig.Config
	Goroutine *pkgroutine.Manager
	Router    *pkgrouter.Router
	Context   context.Context
	ID        pkguid.StringID
	EventID   pkguid.NumberID
}

func New(dep Dependency) (func(context.Context) error, error) {
	marker, err := configMarker(dep.Config)
	if err != nil {
		return nil, err
	}

	if dep.ID == nil {
		dep.ID = pkguid.NewUUID()
	}

	storage := store.NewInMemoryStore()
	bus := event.NewBus(int(configInt(dep.Config, "modules.ocr.review.buffer", 512)))
	consumer := event.NewReviewConsumer(bus, event.LogReviewer{}, event.ConsumerConfig{
		Workers:     int(configInt(dep.Config, "modules.ocr.review.workers", 4)),
		MaxRetries:  int(configInt(dep.Config, "modules.ocr.review.max_retries", 3)),
		BaseBackoff: time.Duration(configInt(dep.Config, "modules.ocr.review.backoff_ms", 200)) * time.Millisecond,
		DedupWindow: int(configInt(dep.Config, "modules.ocr.review.dedup_window", event.DefaultDedupWindow)),
	})
	consumer.Start()

	uc := usecase.New(usecase.Dependency{
		Store:    storage,
		Events:   bus,
		Exporter: export.NewXLSX(),
		Runner:   dep.Goroutine,
		Decoder:  engine.NewDecoder(engine.WithMarker(marker)),
		ID:       dep.ID,
		EventID:  dep.EventID,
		RootCtx:  dep.Context,
	})

	inbound.RegisterHTTPEndpoint(dep.Router, uc)

	return consumer.Stop, nil
}

func configMarker(cfg pkgconfig.Config) (byte, error) {
	if cfg == nil {
		return engine.DefaultMarker, nil
	}

	m := cfg.GetString("modules.ocr.marker")
	if m == "" {
		return engine.DefaultMarker, nil
	}
	if len(m) != 1 || !engine.ValidMarker(m[0]) {
		return 0, fmt.Errorf("modules.ocr.marker must be a single printable non-digit character, got %q", m)
	}
	return m[0], nil
}

func configInt(cfg pkgconfig.Config, key string, fallback int64) int64 {
	if cfg == nil {
		return fallback
	}
	if v := cfg.GetInt(key); v > 0 {
		return v
	}
	return fallback
}
