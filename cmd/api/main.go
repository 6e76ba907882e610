package main

import (
	"context"
	"crypto/tls"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/homepros/booking-platform/cmd/mainconfig"
	"github.com/homepros/booking-platform/internal/api/router"
	"github.com/homepros/booking-platform/internal/bookings"
	"github.com/homepros/booking-platform/internal/classify"
	appconfig "github.com/homepros/booking-platform/internal/config"
	"github.com/homepros/booking-platform/internal/notify"
	"github.com/homepros/booking-platform/internal/observability/metrics"
	"github.com/homepros/booking-platform/internal/scheduling"
	"github.com/homepros/booking-platform/internal/technicians"
	"github.com/homepros/booking-platform/pkg/logging"
)

func main() {
	_ = godotenv.Load()
	cfg := appconfig.Load()

	logger := logging.New(cfg.LogLevel)
	logger.Info("starting booking-platform API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	ctx := context.Background()

	loc, err := time.LoadLocation(cfg.BusinessTimezone)
	if err != nil {
		logger.Error("invalid business timezone", "timezone", cfg.BusinessTimezone, "error", err)
		os.Exit(1)
	}
	hours := scheduling.NewHours(loc, cfg.BusinessOpenHour, cfg.BusinessCloseHour, cfg.BusinessOffDay)
	generator := scheduling.NewSlotGenerator(hours, time.Duration(cfg.SlotWidthMinutes)*time.Minute)

	// Stores: Postgres when configured, in-memory for local development.
	var (
		store  bookings.Store
		roster technicians.Repository
	)
	if cfg.DatabaseURL != "" {
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer pool.Close()
		store = bookings.NewPostgresStore(pool)
		roster = technicians.NewPostgresRepository(pool)
		logger.Info("using postgres booking store")
	} else {
		memStore := bookings.NewInMemoryStore()
		memRoster := technicians.NewInMemoryRepository()
		memRoster.Add(&technicians.Technician{ID: "tech-1", Name: "Technician One", Status: technicians.StatusAvailable})
		store = memStore
		roster = memRoster
		logger.Warn("DATABASE_URL not set, using in-memory stores")
	}

	// Optional Redis lock for stores without transactional isolation.
	var locker bookings.Locker
	if cfg.UseRedisLock {
		opts := &redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword}
		if cfg.RedisTLS {
			opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
		}
		locker = bookings.NewRedisLocker(redis.NewClient(opts), cfg.RedisLockTTL)
		logger.Info("redis booking lock enabled", "addr", cfg.RedisAddr)
	}

	// Notification channels.
	var emailSender notify.EmailSender
	var queue notify.Queue
	awsCfg, err := mainconfig.LoadAWSConfig(ctx, cfg)
	if err != nil {
		logger.Error("failed to load AWS config", "error", err)
		os.Exit(1)
	}
	emailSender = notify.NewStubEmailSender(logger)
	switch cfg.EmailProvider {
	case "sendgrid":
		// Falls through to the stub when the API key is missing.
		if sg := notify.NewSendGridSender(notify.SendGridConfig{
			APIKey:    cfg.SendGridAPIKey,
			FromEmail: cfg.SendGridFromEmail,
			FromName:  cfg.SendGridFromName,
		}, logger); sg != nil {
			emailSender = sg
		}
	case "ses":
		if ses := notify.NewSESSender(sesv2.NewFromConfig(awsCfg), notify.SESConfig{
			FromEmail: cfg.SESFromEmail,
			FromName:  cfg.SESFromName,
		}, logger); ses != nil {
			emailSender = ses
		}
	}
	if cfg.NotificationQueueURL != "" {
		queue = notify.NewSQSQueue(sqs.NewFromConfig(awsCfg), cfg.NotificationQueueURL)
	}
	notifier := notify.NewService(emailSender, queue, logger)

	// Metrics.
	bookingMetrics := metrics.NewBookingMetrics(prometheus.DefaultRegisterer)

	// Booking service.
	validator := bookings.NewValidator(roster, hours, cfg.MinLeadTime, cfg.ModifyCutoff, nil)
	checker := bookings.NewConflictChecker(store, generator)
	bookingSvc := bookings.NewService(store, validator, checker, generator, roster, notifier, locker, bookingMetrics, logger)

	// Classification: Gemini behind a circuit breaker, keyword fallback.
	var primary classify.Classifier
	if cfg.GeminiAPIKey != "" {
		gemini, err := classify.NewGeminiClassifier(ctx, cfg.GeminiAPIKey, cfg.GeminiModelID)
		if err != nil {
			logger.Error("failed to create gemini classifier", "error", err)
			os.Exit(1)
		}
		defer func() { _ = gemini.Close() }()
		primary = gemini
	} else {
		logger.Warn("GEMINI_API_KEY not set, classification uses the keyword fallback only")
	}
	breaker := classify.NewCircuitBreaker(cfg.BreakerFailureThreshold, cfg.BreakerCooldown, nil)
	classifySvc := classify.NewService(primary, breaker, bookingMetrics, logger)

	r := router.New(&router.Config{
		Logger:             logger,
		BookingsHandler:    bookings.NewHandler(bookingSvc, logger),
		ClassifyHandler:    classify.NewHandler(classifySvc),
		MetricsHandler:     promhttp.Handler(),
		CORSAllowedOrigins: cfg.CORSOrigins,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}
