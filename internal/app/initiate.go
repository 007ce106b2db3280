package app

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/rs/cors"
	"github.com/shandysiswandi/bankocr/internal/pkg/pkgconfig"
	"github.com/shandysiswandi/bankocr/internal/pkg/pkgrouter"
	"github.com/shandysiswandi/bankocr/internal/pkg/pkgroutine"
	"github.com/shandysiswandi/bankocr/internal/pkg/pkguid"
)

func (a *App) initConfig() {
	path := "/config/config.yaml"
	if os.Getenv("LOCAL") == "true" {
		path = "./config/config.yaml"
	}
	if custom := os.Getenv("CONFIG_PATH"); custom != "" {
		path = custom
	}

	cfg, err := pkgconfig.NewViper(path,
		pkgconfig.WithDefaults(defaultConfig()),
		pkgconfig.WithEnvPrefix("BANKOCR"),
		pkgconfig.WithOptionalFile(),
	)
	if err != nil {
		slog.Error("failed to init config", "error", err)
		os.Exit(1)
	}

	//nolint:errcheck,gosec // ignore error
	os.Setenv("TZ", cfg.GetString("tz"))

	a.config = cfg
}

func defaultConfig() map[string]any {
	return map[string]any{
		"tz":                              "UTC",
		"server.address.http":             ":8080",
		"modules.ocr.enabled":             true,
		"modules.ocr.marker":              "?",
		"modules.ocr.max_goroutine":       100,
		"modules.ocr.review.buffer":       512,
		"modules.ocr.review.workers":      4,
		"modules.ocr.review.max_retries":  3,
		"modules.ocr.review.backoff_ms":   200,
		"modules.ocr.review.dedup_window": 4096,
		"modules.ocr.review.node_id":      -1,
	}
}

func (a *App) initLibraries() {
	maxGoroutine := int(a.config.GetInt("modules.ocr.max_goroutine"))
	if maxGoroutine < 1 {
		maxGoroutine = 100
	}
	a.goroutine = pkgroutine.NewManager(maxGoroutine)
	a.uuid = pkguid.NewUUID()

	sf, err := pkguid.NewSnowflake(a.config.GetInt("modules.ocr.review.node_id"))
	if err != nil {
		slog.Error("failed to init snowflake", "error", err)
		os.Exit(1)
	}
	a.snowflake = sf
}

func (a *App) initHTTPServer() {
	a.router = pkgrouter.NewRouter(a.uuid)

	corsHandler := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodPut,
			http.MethodPatch,
			http.MethodDelete,
			http.MethodOptions,
		},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	})

	a.httpServer = &http.Server{
		Addr:              a.config.GetString("server.address.http"),
		Handler:           corsHandler.Handler(a.router),
		ReadHeaderTimeout: 10 * time.Second,
	}
}

func (a *App) initClosers() {
	a.addCloser("Config", func(context.Context) error {
		return a.config.Close()
	})
}
