package main

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/nextwaveweb/salonbook/internal/api/router"
	"github.com/nextwaveweb/salonbook/internal/booking"
	"github.com/nextwaveweb/salonbook/internal/business"
	"github.com/nextwaveweb/salonbook/internal/cache"
	"github.com/nextwaveweb/salonbook/internal/catalog"
	"github.com/nextwaveweb/salonbook/internal/chat"
	appconfig "github.com/nextwaveweb/salonbook/internal/config"
	"github.com/nextwaveweb/salonbook/internal/http/handlers"
	"github.com/nextwaveweb/salonbook/internal/notify"
	"github.com/nextwaveweb/salonbook/internal/observability/metrics"
	"github.com/nextwaveweb/salonbook/internal/schedule"
	"github.com/nextwaveweb/salonbook/pkg/logging"
)

func main() {
	// Load .env if present; real deployments set the environment directly.
	_ = godotenv.Load()

	// Load configuration
	cfg := appconfig.Load()

	// Initialize logger
	logger := logging.New(cfg.LogLevel)
	logger.Info("starting salonbook API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	ctx := context.Background()

	// Metrics registry
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	scheduleMetrics := metrics.NewScheduleMetrics(reg)
	bookingMetrics := metrics.NewBookingMetrics(reg)
	chatMetrics := metrics.NewChatMetrics(reg)

	// Stores: Postgres when DATABASE_URL is set, in-memory otherwise so the
	// server still runs for local demos.
	var (
		businesses    business.Store
		menu          catalog.Store
		templateStore schedule.TemplateStore
		overrideStore schedule.OverrideStore
		bookingStore  booking.Store
	)
	if cfg.DatabaseURL != "" {
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Error("failed to create postgres pool", "error", err)
			os.Exit(1)
		}
		defer pool.Close()
		if err := pool.Ping(ctx); err != nil {
			logger.Error("failed to ping postgres", "error", err)
			os.Exit(1)
		}
		businesses = business.NewPostgresStore(pool)
		menu = catalog.NewPostgresStore(pool)
		templateStore = schedule.NewPostgresTemplateStore(pool)
		overrideStore = schedule.NewPostgresOverrideStore(pool)
		bookingStore = booking.NewPostgresStore(pool)
		logger.Info("connected to postgres")
	} else {
		businesses = business.NewInMemoryStore()
		menu = catalog.NewInMemoryStore()
		templateStore = schedule.NewInMemoryTemplateStore()
		overrideStore = schedule.NewInMemoryOverrideStore()
		bookingStore = booking.NewInMemoryStore()
		logger.Warn("DATABASE_URL not set, using in-memory stores")
	}

	// Availability read cache. Zero TTL skips Redis entirely.
	var availCache schedule.AvailabilityCache
	if cfg.AvailabilityCacheTTL > 0 {
		opts := &redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		}
		if cfg.RedisTLS {
			opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
		}
		redisClient := redis.NewClient(opts)
		if err := redisClient.Ping(ctx).Err(); err != nil {
			logger.Warn("redis unreachable, availability cache disabled", "error", err)
		} else {
			availCache = cache.New(redisClient, cfg.AvailabilityCacheTTL, logger)
			logger.Info("availability cache enabled", "ttl", cfg.AvailabilityCacheTTL)
		}
	}

	// Core services
	scheduleSvc := schedule.NewService(schedule.ServiceConfig{
		Templates:  templateStore,
		Overrides:  overrideStore,
		Booked:     bookingStore,
		Cache:      availCache,
		Zones:      businesses,
		Metrics:    scheduleMetrics,
		WindowDays: cfg.BookingWindowDays,
		Logger:     logger,
	})

	sender := buildEmailSender(ctx, cfg, logger)
	notifySvc := notify.NewService(sender, businesses, logger)

	bookingSvc := booking.NewService(booking.ServiceConfig{
		Store:        bookingStore,
		Availability: scheduleSvc,
		Menu:         menu,
		Notifier:     notifySvc,
		Metrics:      bookingMetrics,
		Logger:       logger,
	})

	chatSvc := chat.NewService(buildResponder(ctx, cfg, businesses, menu, scheduleSvc, logger), chatMetrics, logger)

	// Initialize handlers
	availabilityHandler := handlers.NewAvailabilityHandler(scheduleSvc, businesses, logger)
	bookingHandler := handlers.NewBookingHandler(bookingSvc, logger)
	servicesHandler := handlers.NewServicesHandler(menu, logger)
	chatHandler := handlers.NewChatHandler(chatSvc, businesses, logger)
	authHandler := handlers.NewAuthHandler(businesses, cfg.AdminJWTSecret, cfg.AdminTokenTTL, logger)
	adminScheduleHandler := handlers.NewAdminScheduleHandler(scheduleSvc, logger)
	adminOverridesHandler := handlers.NewAdminOverridesHandler(scheduleSvc, logger)
	adminKnowledgeHandler := handlers.NewAdminKnowledgeHandler(businesses, logger)

	if cfg.AdminJWTSecret == "" {
		logger.Warn("ADMIN_JWT_SECRET not set, admin routes disabled")
	}

	// Setup router
	routerCfg := &router.Config{
		Logger:          logger,
		Availability:    availabilityHandler,
		Bookings:        bookingHandler,
		Services:        servicesHandler,
		Chat:            chatHandler,
		Auth:            authHandler,
		AdminSchedule:   adminScheduleHandler,
		AdminOverrides:  adminOverridesHandler,
		AdminKnowledge:  adminKnowledgeHandler,
		AdminAuthSecret: cfg.AdminJWTSecret,
		MetricsHandler:  promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
	}
	if cfg.CORSAllowedOrigins != "" {
		routerCfg.CORSAllowedOrigins = strings.Split(cfg.CORSAllowedOrigins, ",")
	}
	r := router.New(routerCfg)

	// Background maintenance: drop past-dated overrides and bookings.
	pruneCtx, stopPruner := context.WithCancel(ctx)
	defer stopPruner()
	if cfg.PruneEnabled {
		pruner := schedule.NewPruner(overrideStore, bookingStore, cfg.PruneInterval, logger)
		go pruner.Run(pruneCtx)
	}

	// Create HTTP server
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")
	stopPruner()

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
	fmt.Println("Server exited gracefully")
}

// buildEmailSender picks the notification transport from EMAIL_PROVIDER.
// Anything unset or unrecognized falls back to the logging stub.
func buildEmailSender(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger) notify.EmailSender {
	switch cfg.EmailProvider {
	case "sendgrid":
		sender := notify.NewSendGridSender(notify.SendGridConfig{
			APIKey:    cfg.SendGridAPIKey,
			FromEmail: cfg.SendGridFromEmail,
			FromName:  cfg.SendGridFromName,
		}, logger)
		if sender != nil {
			logger.Info("email notifications via sendgrid", "from", cfg.SendGridFromEmail)
			return sender
		}
		logger.Warn("SENDGRID_API_KEY not set, using stub email sender")
	case "ses":
		loaders := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.AWSRegion)}
		if cfg.AWSAccessKeyID != "" && cfg.AWSSecretAccessKey != "" {
			loaders = append(loaders, awsconfig.WithCredentialsProvider(
				credentials.NewStaticCredentialsProvider(cfg.AWSAccessKeyID, cfg.AWSSecretAccessKey, ""),
			))
		}
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loaders...)
		if err != nil {
			logger.Warn("failed to load AWS config, using stub email sender", "error", err)
			break
		}
		sender := notify.NewSESSender(sesv2.NewFromConfig(awsCfg), notify.SESConfig{
			FromEmail: cfg.SESFromEmail,
			FromName:  cfg.SESFromName,
		}, logger)
		if sender != nil {
			logger.Info("email notifications via SES", "from", cfg.SESFromEmail, "region", cfg.AWSRegion)
			return sender
		}
	}
	return notify.NewStubEmailSender(logger)
}

// buildResponder wires the chat assistant. With a Gemini key the LLM answers
// first and the rule responder catches failures; without one the rules answer
// alone.
func buildResponder(ctx context.Context, cfg *appconfig.Config, businesses business.Store, menu catalog.Store, scheduleSvc *schedule.Service, logger *logging.Logger) chat.Responder {
	rules := chat.NewRuleResponder(scheduleSvc, menu)
	if cfg.GeminiAPIKey == "" {
		logger.Info("chat assistant using rule-based answers only")
		return rules
	}
	gemini, err := chat.NewGeminiResponder(ctx, cfg.GeminiAPIKey, cfg.GeminiModelID, businesses, menu)
	if err != nil {
		logger.Warn("failed to initialize gemini, using rule-based answers only", "error", err)
		return rules
	}
	logger.Info("chat assistant using gemini with rule-based fallback", "model", cfg.GeminiModelID)
	return chat.NewFallbackResponder(gemini, rules, logger)
}
