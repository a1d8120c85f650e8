package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"shortscope-backend/internal/handlers"
	"shortscope-backend/internal/middleware"
)

type Options struct {
	AllowedOrigin string
	WebhookSecret string
	// APILimiter bounds requests per client IP on /api. Nil disables it.
	APILimiter middleware.Limiter
}

func New(
	searchHandler *handlers.SearchHandler,
	exportHandler *handlers.ExportHandler,
	metaHandler *handlers.MetaHandler,
	progress http.HandlerFunc,
	opts Options,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.CORS(opts.AllowedOrigin))

	r.Get("/", metaHandler.Root)
	r.Get("/health", metaHandler.Health)

	api := func(r chi.Router) {
		r.Get("/search_shorts", searchHandler.SearchShorts)
		r.Post("/export/sheets", exportHandler.ExportSheets)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireSecret(opts.WebhookSecret))
			r.Post("/webhook", searchHandler.Webhook)
		})
	}

	r.Route("/api", func(r chi.Router) {
		if opts.APILimiter != nil {
			r.Use(middleware.RateLimit(opts.APILimiter))
		}
		api(r)

		// ──── Versioned API ────
		r.Route("/v1", func(r chi.Router) {
			api(r)
			r.Get("/ws", progress)
		})
	})

	return r
}
