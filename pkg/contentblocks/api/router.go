package api

import (
	"io/fs"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/tendant/content-blocks/pkg/contentblocks"
)

// RouterConfig holds the optional collaborators of NewRouter
type RouterConfig struct {
	Logger   *slog.Logger
	AdminIPs []string
	// Pages holds the static pages; nil disables the page routes
	Pages fs.FS
	// DatabaseLabel names the store in health responses
	DatabaseLabel string
	// RequestTimeout bounds each request when positive
	RequestTimeout time.Duration
}

// NewRouter wires the content API, page routes and health check
func NewRouter(svc contentblocks.Service, cfg RouterConfig) http.Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r := chi.NewRouter()

	// Middleware
	r.Use(RequestIDMiddleware)
	r.Use(middleware.RealIP)
	r.Use(LoggingMiddleware(logger))
	r.Use(RecoveryMiddleware(logger))
	if cfg.RequestTimeout > 0 {
		r.Use(middleware.Timeout(cfg.RequestTimeout))
	}
	r.Use(AdminMiddleware(cfg.AdminIPs, logger))

	r.Get("/health", NewHealthHandler(svc, cfg.DatabaseLabel).ServeHTTP)
	r.Mount("/content", NewContentHandler(svc, logger).Routes())

	if cfg.Pages != nil {
		NewPagesHandler(cfg.Pages).Register(r)
	}

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, http.StatusNotFound, http.StatusText(http.StatusNotFound))
	})

	return r
}
