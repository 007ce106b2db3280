package app

import (
	"context"
	"net/http"

	"github.com/shandysiswandi/bankocr/internal/pkg/pkgconfig"
	"github.com/shandysiswandi/bankocr/internal/pkg/pkglog"
	"github.com/shandysiswandi/bankocr/internal/pkg/pkgrouter"
	"github.com/shandysiswandi/bankocr/internal/pkg/pkgroutine"
	"github.com/shandysiswandi/bankocr/internal/pkg/pkguid"
)

type App struct {
	ctx    context.Context
	cancel context.CancelFunc

	// configuration
	config pkgconfig.Config

	// libraries
	uuid      pkguid.StringID
	snowflake pkguid.NumberID
	goroutine *pkgroutine.Manager

	// server
	router     *pkgrouter.Router
	httpServer *http.Server

	// released in registration order after the HTTP server and scan jobs
	closers []closer
}

// New wires configuration, libraries, the HTTP server and every enabled
// module. It exits the process when any of them cannot be built.
func New() *App {
	pkglog.InitLogging()

	ctx, cancel := context.WithCancel(context.Background())
	app := &App{
		ctx:    ctx,
		cancel: cancel,
	}

	app.initConfig()
	app.initLibraries()
	app.initHTTPServer()
	app.initModules()
	app.initClosers()

	return app
}
