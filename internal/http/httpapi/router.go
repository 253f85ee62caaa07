package httpapi

import (
	stdhttp "net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"server/internal/http/handlers"
	"server/internal/infra"
	"server/internal/middleware"
)

// NewRouter assembles the API surface with the shared middleware chain.
func NewRouter(app *handlers.App, cfg *infra.Config, logger infra.Logger) stdhttp.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CORS(cfg.AllowedOrigins))
	r.Use(middleware.RateLimit(cfg.RateLimitPerMin, time.Minute))

	r.Get("/v1/healthz", app.Health)

	r.Route("/v1/products", func(r chi.Router) {
		r.Get("/", app.Products)
		r.Get("/categories", app.Categories)
	})

	r.Route("/v1/cart", func(r chi.Router) {
		r.Get("/", app.CartShow)
		r.Post("/items", app.CartAdd)
		r.Put("/items/{product_id}", app.CartUpdate)
		r.Delete("/items/{product_id}", app.CartRemove)
		r.Post("/checkout", app.CartCheckout)
	})

	r.Get("/v1/coach/defaults", app.CoachDefaults)

	r.Route("/v1/analyses", func(r chi.Router) {
		r.Post("/", app.AnalysisCreate)
		r.Get("/{id}", app.AnalysisStatus)
		r.Post("/{id}/cancel", app.AnalysisCancel)
		r.Delete("/{id}", app.AnalysisDelete)
	})

	r.Post("/v1/recommendations", app.Recommend)

	return r
}
