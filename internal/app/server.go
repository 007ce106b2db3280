package app

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
)

type closer struct {
	name string
	fn   func(context.Context) error
}

func (a *App) addCloser(name string, fn func(context.Context) error) {
	a.closers = append(a.closers, closer{name: name, fn: fn})
}

func (a *App) Start() <-chan struct{} {
	terminateChan := make(chan struct{})

	slog.Info("bankocr starting",
		"address", a.httpServer.Addr,
		"ocr_enabled", a.config.GetBool("modules.ocr.enabled"),
		"marker", a.config.GetString("modules.ocr.marker"),
		"scan_workers", a.goroutine.Capacity(),
		"closers", len(a.closers),
	)

	go func() {
		if err := a.httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			slog.Error("http server stopped unexpectedly", "address", a.httpServer.Addr, "error", err)
			os.Exit(1)
		}
	}()

	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)

		received := <-sig
		slog.Info("shutdown signal received", "signal", received.String())

		a.cancel()
		close(terminateChan)
	}()

	return terminateChan
}

// Stop stops taking uploads, waits for running scans, then runs the closers.
// The review consumer is an OCR closer, so every event a scan published
// reaches it before the bus is closed.
func (a *App) Stop(ctx context.Context) {
	a.cancel()

	if err := a.httpServer.Shutdown(ctx); err != nil {
		slog.ErrorContext(ctx, "failed to shut down http server", "error", err)
	}

	slog.InfoContext(ctx, "waiting for scan jobs", "running", a.goroutine.Running())
	if err := a.goroutine.Wait(); err != nil {
		slog.ErrorContext(ctx, "scan jobs reported errors", "failed", a.goroutine.Failed(), "error", err)
	}

	for _, c := range a.closers {
		if err := c.fn(ctx); err != nil {
			slog.ErrorContext(ctx, "failed to close resource", "name", c.name, "error", err)
			continue
		}
		slog.InfoContext(ctx, "resource closed", "name", c.name)
	}

	slog.InfoContext(ctx, "application gracefully shutdown")
}
