package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cocoa_backend/internal/api"
	"cocoa_backend/internal/app/service"
	"cocoa_backend/internal/common/security"
	"cocoa_backend/internal/domain/repository"
	"cocoa_backend/internal/platform/cache"
	"cocoa_backend/internal/platform/config"
	"cocoa_backend/internal/platform/database"
	"cocoa_backend/internal/platform/logger"
	"cocoa_backend/internal/platform/metrics"
	"cocoa_backend/internal/platform/payment"

	"github.com/redis/go-redis/v9"
)

type repositories struct {
	users        repository.UserRepository
	menu         repository.MenuRepository
	orders       repository.OrderRepository
	testimonials repository.TestimonialRepository
	store        api.Pinger
}

func main() {
	// 1. Load Configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("configuration", "error", err)
		os.Exit(1)
	}

	// 2. Initialize Logger
	log := logger.New(cfg.Env)
	slog.SetDefault(log)
	log.Info("configuration loaded", "env", cfg.Env, "store", cfg.StoreDriver)

	ctx := context.Background()

	// 3. Initialize Store
	var (
		repos repositories
		mongo *database.Mongo
	)
	switch cfg.StoreDriver {
	case config.StoreMemory:
		mem := repository.NewMemoryStore()
		repos = repositories{mem.Users(), mem.Menu(), mem.Orders(), mem.Testimonials(), mem}
		log.Warn("using in-memory store, data is lost on restart")
	default:
		mongo, err = database.Connect(ctx, cfg.MongoURL, cfg.DBName)
		if err != nil {
			log.Error("database connect", "error", err)
			os.Exit(1)
		}
		if err := mongo.EnsureIndexes(ctx); err != nil {
			log.Error("database indexes", "error", err)
			os.Exit(1)
		}
		repos = repositories{
			users:        repository.NewMongoUserRepository(mongo.DB),
			menu:         repository.NewMongoMenuRepository(mongo.DB),
			orders:       repository.NewMongoOrderRepository(mongo.DB),
			testimonials: repository.NewMongoTestimonialRepository(mongo.DB),
			store:        mongo,
		}
		log.Info("database connected", "db", cfg.DBName)
	}

	// 4. Initialize Rate Limit Store
	var (
		rdb     *redis.Client
		counter cache.WindowCounter
	)
	if cfg.RedisAddr != "" {
		rdb, err = cache.ConnectRedis(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			log.Error("redis connect", "error", err)
			os.Exit(1)
		}
		counter = cache.NewRedisCounter(rdb, "cocoa:ratelimit:")
		log.Info("redis connected", "addr", cfg.RedisAddr)
	} else {
		counter = cache.NewMemoryCounter(time.Now)
	}

	// 5. Initialize Tokens, Gateway and Metrics
	tokens, err := security.NewTokenService(cfg.JWTSecret)
	if err != nil {
		log.Error("token service", "error", err)
		os.Exit(1)
	}
	gateway := payment.NewRazorpayGateway(cfg.RazorpayKeyID, cfg.RazorpayKeySecret, cfg.PaymentReceiptPrefix)
	if !gateway.SecretConfigured() {
		log.Warn("razorpay credentials missing, payment endpoints will fail")
	}
	m := metrics.New()

	// 6. Initialize Services
	services := api.Services{
		Auth:         service.NewAuthService(repos.users, tokens),
		Menu:         service.NewMenuService(repos.menu),
		Orders:       service.NewOrderService(repos.orders),
		Testimonials: service.NewTestimonialService(repos.testimonials),
		Payments: service.NewPaymentService(gateway, repos.orders, m, service.PaymentOptions{
			Currency: cfg.PaymentCurrency,
			FXRate:   cfg.PaymentFXRate,
		}),
	}

	// 7. Initialize Router & HTTP Server
	router := api.NewRouter(services, api.Options{
		Logger:                 log,
		Metrics:                m,
		Store:                  repos.store,
		RateCounter:            counter,
		CORSOrigins:            cfg.CORSOrigins,
		AuthRateLimitPerMinute: cfg.AuthRateLimitPerMinute,
		RequestTimeout:         cfg.RequestTimeout,
	})

	server := &http.Server{
		Addr:              ":" + cfg.APIPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      cfg.RequestTimeout + 5*time.Second,
		IdleTimeout:       120 * time.Second,
	}

	// 8. Graceful Shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Info("server starting", "port", cfg.APIPort)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("listen", "port", cfg.APIPort, "error", err)
			os.Exit(1)
		}
	}()

	<-stop // Wait for interrupt signal

	log.Info("shutting down server")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("server shutdown", "error", err)
	}
	if mongo != nil {
		if err := mongo.Close(shutdownCtx); err != nil {
			log.Error("database close", "error", err)
		}
	}
	if rdb != nil {
		if err := rdb.Close(); err != nil {
			log.Error("redis close", "error", err)
		}
	}
	log.Info("server stopped gracefully")
}
