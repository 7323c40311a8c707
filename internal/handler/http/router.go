package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/verdantleaf/storefront/internal/service"
	"github.com/verdantleaf/storefront/pkg/health"
	"github.com/verdantleaf/storefront/pkg/middleware"
)

// NewRouter creates a chi router with all storefront routes registered.
func NewRouter(
	cartService *service.CartService,
	checkoutService *service.CheckoutService,
	healthHandler *health.Handler,
	logger *slog.Logger,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(logger))
	r.Use(chimw.Compress(5))
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.PrometheusMetrics("storefront"))
	r.Use(middleware.Tracing("storefront"))
	r.Use(CORS)

	// Health check endpoints
	r.Get("/health/live", healthHandler.LivenessHandler())
	r.Get("/health/ready", healthHandler.ReadinessHandler())
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		promhttp.Handler().ServeHTTP(w, r)
	})

	cartHandler := NewCartHandler(cartService, logger)
	checkoutHandler := NewCheckoutHandler(checkoutService, logger)

	r.Route("/api/v1/cart", func(r chi.Router) {
		r.Use(ContentTypeJSON)
		r.Use(UserIDFromHeader)

		r.Get("/", cartHandler.GetCart)
		r.Delete("/", cartHandler.ClearCart)

		r.Post("/items", cartHandler.AddItem)
		r.Put("/items/{productId}", cartHandler.UpdateItemQuantity)
		r.Delete("/items/{productId}", cartHandler.RemoveItem)
	})

	r.Route("/api/v1/checkout", func(r chi.Router) {
		r.Use(ContentTypeJSON)
		r.Use(UserIDFromHeader)

		r.Post("/", checkoutHandler.StartCheckout)

		r.Route("/{sessionId}", func(r chi.Router) {
			r.Get("/", checkoutHandler.GetSession)
			r.Put("/address", checkoutHandler.SetAddress)
			r.Put("/shipping", checkoutHandler.SetShipping)
			r.Put("/payment", checkoutHandler.SetPayment)
			r.Post("/advance", checkoutHandler.Advance)
			r.Post("/back", checkoutHandler.Back)
			r.Post("/step", checkoutHandler.GoToStep)
			r.Post("/order", checkoutHandler.PlaceOrder)
		})
	})

	return r
}
