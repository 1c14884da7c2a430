package httpapi

import (
	stdhttp "net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"headshots/internal/http/handlers"
	"headshots/internal/middleware"
)

// Options carries router-level configuration.
type Options struct {
	Logger         zerolog.Logger
	DefaultLocale  string
	CountryLookup  middleware.CountryLookup
	AllowedOrigins []string
}

func NewRouter(app *handlers.App, opts Options) stdhttp.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RealIP, chimw.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(opts.Logger))
	r.Use(middleware.CORS(opts.AllowedOrigins))

	// Health
	r.Get("/v1/healthz", app.Health)

	r.Route("/v1/orders", func(r chi.Router) {
		r.Use(middleware.Locale(opts.DefaultLocale, opts.CountryLookup))
		r.Post("/", app.CreateOrder)
		r.Get("/{id}", app.GetOrder)
		r.Post("/{id}/paid", app.MarkPaid)
		r.Post("/{id}/train", app.StartTraining)
	})

	r.Route("/v1/webhooks/provider", func(r chi.Router) {
		r.Post("/", app.ProviderWebhook)
		r.Get("/", app.WebhookHealth)
	})

	return r
}
