package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/utafrali/storefront/pkg/health"
	"github.com/utafrali/storefront/pkg/middleware"
)

// RouterConfig carries the transport settings of the storefront router.
type RouterConfig struct {
	SecureCookies bool
	SessionMaxAge time.Duration
	CORSOrigins   []string
	PprofCIDRs    []string
	MutationRPS   float64
	MutationBurst int
}

// NewRouter creates a chi router with all storefront routes registered.
func NewRouter(
	h *StorefrontHandler,
	healthHandler *health.Handler,
	httpMetrics *middleware.HTTPMetrics,
	gatherer prometheus.Gatherer,
	logger *slog.Logger,
	cfg RouterConfig,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(logger, h.Panic))
	r.Use(chimw.Compress(5))
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(middleware.RequestLogging(logger))
	r.Use(httpMetrics.Middleware)
	r.Use(middleware.Tracing("storefront"))

	// Operational endpoints carry no session.
	r.Get("/health/live", healthHandler.LivenessHandler())
	r.Get("/health/ready", healthHandler.ReadinessHandler())
	r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	middleware.RegisterPprof(r, cfg.PprofCIDRs, logger)

	r.Group(func(r chi.Router) {
		r.Use(Session(cfg.SecureCookies, cfg.SessionMaxAge))
		r.Use(middleware.RequestLogger(logger))
		r.Use(middleware.NoStore())

		r.NotFound(h.NotFound)

		r.Get("/", h.Home)
		r.Get("/product", h.Product)
		r.Get("/cart", h.Cart)
		r.Get("/checkout", h.Checkout)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RateLimit(cfg.MutationRPS, cfg.MutationBurst, logger, h.RateLimited))

			r.Post("/cart/items", h.AddToCart)
			r.Post("/cart/lines/{index}/quantity", h.ChangeQuantity)
			r.Post("/cart/lines/{index}/remove", h.RemoveLine)
			r.Post("/cart/clear", h.ClearCart)
			r.Post("/wishlist/{productID}/toggle", h.ToggleWishlist)
		})

		cors := middleware.CORS(middleware.CORSConfig{
			AllowedOrigins:   cfg.CORSOrigins,
			ExposedHeaders:   []string{middleware.CorrelationHeader},
			AllowCredentials: true,
		})

		r.Route("/fragments", func(r chi.Router) {
			r.Use(cors)
			r.Get("/{target}", h.Fragment)
		})

		r.Route("/api/v1", func(r chi.Router) {
			r.Use(cors)
			r.Get("/state", h.State)
		})
	})

	return r
}
