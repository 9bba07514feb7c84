package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	h "github.com/pdxfresh/checkout-service/internal/http"
	"github.com/pdxfresh/checkout-service/internal/inventory"
	"github.com/pdxfresh/checkout-service/internal/payments"
	"github.com/pdxfresh/checkout-service/internal/publisher"
	"github.com/pdxfresh/checkout-service/internal/ratelimit"
	"github.com/pdxfresh/checkout-service/internal/repository"
	"github.com/pdxfresh/checkout-service/internal/service"
	"github.com/pdxfresh/checkout-service/internal/webhook"
)

type Config struct {
	HTTPPort        string
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration

	DBHost         string
	DBPort         string
	DBUser         string
	DBPassword     string
	DBName         string
	MigrationsPath string

	StripeAPIKey        string
	StripeWebhookSecret string
	CronSecret          string
	SiteURL             string

	RedisAddr    string
	KafkaBrokers string

	CartRateLimit   int
	CouponRateLimit int
	RateLimitWindow string
}

func loadConfig() *Config {
	return &Config{
		HTTPPort:        getEnv("HTTP_PORT", "8080"),
		RequestTimeout:  30 * time.Second,
		ShutdownTimeout: 10 * time.Second,

		DBHost:         getEnv("DB_HOST", "localhost"),
		DBPort:         getEnv("DB_PORT", "5432"),
		DBUser:         getEnv("DB_USER", "postgres"),
		DBPassword:     getEnv("DB_PASSWORD", "postgres"),
		DBName:         getEnv("DB_NAME", "checkout"),
		MigrationsPath: getEnv("MIGRATIONS_PATH", "./internal/repository/migrations"),

		StripeAPIKey:        getEnv("STRIPE_API_KEY", ""),
		StripeWebhookSecret: getEnv("STRIPE_WEBHOOK_SECRET", ""),
		CronSecret:          getEnv("CRON_SECRET", ""),
		SiteURL:             getEnv("SITE_URL", "http://localhost:3000"),

		RedisAddr:    getEnv("REDIS_ADDR", ""),
		KafkaBrokers: getEnv("KAFKA_BROKERS", "localhost:9092"),

		CartRateLimit:   getEnvInt("CART_RATE_LIMIT", 30),
		CouponRateLimit: getEnvInt("COUPON_RATE_LIMIT", 10),
		RateLimitWindow: getEnv("RATE_LIMIT_WINDOW", "1m"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		log.Fatalf("Invalid %s: %v", key, err)
	}
	return n
}

func main() {
	log.Println("checkout-service starting...")

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := loadConfig()
	if cfg.StripeAPIKey == "" {
		log.Fatal("STRIPE_API_KEY is required")
	}

	// Database setup
	dbPort, err := strconv.Atoi(cfg.DBPort)
	if err != nil {
		log.Fatalf("Invalid DB_PORT: %v", err)
	}

	creds := &repository.Credentials{
		Host:              cfg.DBHost,
		Port:              dbPort,
		User:              cfg.DBUser,
		Password:          cfg.DBPassword,
		DBName:            cfg.DBName,
		MigrationsDirPath: cfg.MigrationsPath,
	}

	repo, err := repository.NewRepository(creds)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer repo.Close()

	if err := repo.RunMigrations(creds); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database migrations completed")

	// Rate limit counter: Redis when configured, in-memory otherwise
	var counter ratelimit.Counter
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		defer redisClient.Close()
		counter = ratelimit.NewRedisCounter(redisClient)
		log.Printf("Rate limiting backed by Redis at %s", cfg.RedisAddr)
	} else {
		memCounter := ratelimit.NewMemoryCounter()
		defer memCounter.Close()
		counter = memCounter
		log.Println("Rate limiting backed by in-process memory")
	}
	limiter := ratelimit.NewLimiter(counter)

	// Payment processor client and cart pipeline
	stripeClient := payments.NewStripeClient(cfg.StripeAPIKey)
	checker := inventory.NewChecker(repo)
	reconciler := payments.NewReconciler(stripeClient)
	validationService := service.NewValidationService(checker, reconciler)

	sessionBuilder := payments.NewSessionBuilder(stripeClient, cfg.SiteURL)
	checkoutService := service.NewCheckoutService(validationService, sessionBuilder)

	// Webhook pipeline
	kafkaPublisher := publisher.NewKafkaPublisher(strings.Split(cfg.KafkaBrokers, ",")...)
	defer kafkaPublisher.Close()
	eventProcessor := webhook.NewProcessor(kafkaPublisher)
	retryEngine := webhook.NewRetryEngine(repo, eventProcessor)

	// Handlers
	cartHandler := h.NewCartHandler(validationService, limiter, cfg.CartRateLimit, cfg.RateLimitWindow)
	checkoutHandler := h.NewCheckoutHandler(checkoutService)
	couponHandler := h.NewCouponHandler(stripeClient, limiter, cfg.CouponRateLimit, cfg.RateLimitWindow)
	webhookHandler := h.NewWebhookHandler(eventProcessor, repo, cfg.StripeWebhookSecret)
	cronHandler := h.NewCronHandler(retryEngine, cfg.CronSecret)

	// Setup router
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.Timeout(cfg.RequestTimeout))
	r.Use(middleware.Compress(5))
	r.Use(h.AuthMiddleware)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Post("/cart/validate", cartHandler.ValidateCart)
	r.Post("/checkout", checkoutHandler.Checkout)
	r.Post("/coupons/validate", couponHandler.ValidateCoupon)
	r.Post("/webhooks/stripe", webhookHandler.HandleWebhook)
	r.Get("/cron/retry-webhooks", cronHandler.RetryWebhooks)

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      otelhttp.NewHandler(r, "checkout-service"),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Checkout service listening on :%s", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}

	log.Println("server exited")
}
