package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"adstudio/internal/http/handlers"
	"adstudio/internal/middleware"
)

// Options configures the router's cross-cutting concerns.
type Options struct {
	Logger         zerolog.Logger
	AllowedOrigins []string
	CountryLookup  middleware.CountryLookup
}

// NewRouter assembles the HTTP surface.
func NewRouter(app *handlers.App, opts Options) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.RequestID,
		chimw.RealIP,
		middleware.Geo(opts.CountryLookup),
		middleware.Logger(opts.Logger),
		chimw.Recoverer,
	)
	if len(opts.AllowedOrigins) > 0 {
		r.Use(middleware.CORS(opts.AllowedOrigins))
	}

	r.Get("/v1/healthz", app.Health)

	r.Post("/v1/generate", app.Generate)
	r.Post("/v1/accounts", app.AccountLookupOrCreate)
	r.Route("/v1/ads", func(r chi.Router) {
		r.Get("/", app.AdList)
		r.Get("/{ad_id}", app.AdStatus)
	})

	return r
}
