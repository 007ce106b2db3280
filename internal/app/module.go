package app

import (
	"log/slog"
	"os"

	"github.com/shandysiswandi/bankocr/internal/ocr"
)

func (a *App) initModules() {
	if a.config.GetBool("modules.ocr.enabled") {
		closer, err := ocr.New(ocr.Dependency{
			Config:    a.config,
			Router:    a.router,
			Goroutine: a.goroutine,
			Context:   a.ctx,
			ID:        a.uuid,
			EventID:   a.snowflake,
		})
		if err != nil {
			slog.Error("failed to init module ocr", "error", err)
			os.Exit(1)
		}
		if closer != nil {
			a.addCloser("OCR", closer)
		}
	}
}
