package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"cocoa_backend/internal/api/handler"
	"cocoa_backend/internal/api/middleware"
	"cocoa_backend/internal/app/service"
	"cocoa_backend/internal/common"
	"cocoa_backend/internal/platform/cache"
	"cocoa_backend/internal/platform/metrics"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
)

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Services struct {
	Auth         *service.AuthService
	Menu         *service.MenuService
	Orders       *service.OrderService
	Testimonials *service.TestimonialService
	Payments     *service.PaymentService
}

type Options struct {
	Logger      *slog.Logger
	Metrics     *metrics.Metrics
	Store       Pinger
	RateCounter cache.WindowCounter

	CORSOrigins            []string
	AuthRateLimitPerMinute int
	RequestTimeout         time.Duration
}

func NewRouter(svc Services, opts Options) http.Handler {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.RateCounter == nil {
		opts.RateCounter = cache.NewMemoryCounter(time.Now)
	}

	r := chi.NewRouter()

	// Base Middlewares
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(middleware.RequestLogger(opts.Logger))
	r.Use(chiMiddleware.Recoverer)
	if opts.RequestTimeout > 0 {
		r.Use(chiMiddleware.Timeout(opts.RequestTimeout))
	}
	if opts.Metrics != nil {
		r.Use(opts.Metrics.Middleware)
	}
	r.Use(middleware.CORS(middleware.DefaultCORSOptions(opts.CORSOrigins)))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		if opts.Store != nil {
			if err := opts.Store.Ping(r.Context()); err != nil {
				common.RespondWithJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
				return
			}
		}
		common.RespondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	if opts.Metrics != nil {
		r.Handle("/metrics", opts.Metrics.Handler())
	}

	guard := middleware.NewGuard(svc.Auth)
	authLimiter := middleware.RateLimit(opts.RateCounter, "auth", opts.AuthRateLimitPerMinute, time.Minute)

	r.Route("/api", func(api chi.Router) {
		api.Get("/", func(w http.ResponseWriter, r *http.Request) {
			common.RespondWithJSON(w, http.StatusOK, common.MessageResponse{Message: "Cocoa bakery API"})
		})

		authHandler := handler.NewAuthHandler(svc.Auth, guard, authLimiter)
		api.Route("/auth", authHandler.RegisterRoutes)

		menuHandler := handler.NewMenuHandler(svc.Menu, guard)
		api.Route("/menu", menuHandler.RegisterRoutes)

		orderHandler := handler.NewOrderHandler(svc.Orders, guard)
		api.Route("/orders", orderHandler.RegisterRoutes)
		api.Route("/admin", orderHandler.RegisterAdminRoutes)

		testimonialHandler := handler.NewTestimonialHandler(svc.Testimonials, guard)
		api.Route("/testimonials", testimonialHandler.RegisterRoutes)

		paymentHandler := handler.NewPaymentHandler(svc.Payments, guard)
		api.Route("/payments", paymentHandler.RegisterRoutes)
	})

	return r
}
