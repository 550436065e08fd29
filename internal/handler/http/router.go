package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/utafrali/CafeCart/internal/catalog"
	"github.com/utafrali/CafeCart/internal/store"
	"github.com/utafrali/CafeCart/pkg/health"
	"github.com/utafrali/CafeCart/pkg/middleware"
)

// NewRouter creates a chi router with all cart service routes registered.
func NewRouter(
	cartStore *store.CartStore,
	menu *catalog.Catalog,
	healthHandler *health.Handler,
	logger *slog.Logger,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(logger))
	r.Use(chimw.Compress(5))
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.PrometheusMetrics("cafecart"))
	r.Use(middleware.CORS(middleware.DefaultCORSConfig()))

	// Health check endpoints
	r.Get("/health/live", healthHandler.LivenessHandler())
	r.Get("/health/ready", healthHandler.ReadinessHandler())
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		promhttp.Handler().ServeHTTP(w, r)
	})

	cartHandler := NewCartHandler(cartStore, logger)
	menuHandler := NewMenuHandler(menu)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(ContentTypeJSON)

		r.Get("/menu", menuHandler.List)

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", cartHandler.GetCart)
			r.Delete("/", cartHandler.ClearCart)
			r.Post("/checkout", cartHandler.Checkout)

			r.Post("/items", cartHandler.AddItem)
			r.Put("/items/{id}", cartHandler.UpdateQuantity)
			r.Delete("/items/{id}", cartHandler.RemoveItem)
		})
	})

	return r
}
