package main

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/wolfman30/clinic-booking/cmd/mainconfig"
	"github.com/wolfman30/clinic-booking/internal/api/router"
	"github.com/wolfman30/clinic-booking/internal/booking"
	"github.com/wolfman30/clinic-booking/internal/bookings"
	"github.com/wolfman30/clinic-booking/internal/catalog"
	"github.com/wolfman30/clinic-booking/internal/clinicapi"
	appconfig "github.com/wolfman30/clinic-booking/internal/config"
	"github.com/wolfman30/clinic-booking/internal/events"
	"github.com/wolfman30/clinic-booking/internal/notify"
	"github.com/wolfman30/clinic-booking/internal/observability/metrics"
	"github.com/wolfman30/clinic-booking/internal/slots"
	"github.com/wolfman30/clinic-booking/internal/wizard"
	"github.com/wolfman30/clinic-booking/pkg/logging"
)

// backend bundles the catalog, slot and submission sources of one booking backend.
type backend struct {
	catalog   catalog.Source
	slots     slots.Source
	submitter booking.Submitter
	pool      *pgxpool.Pool
}

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "load .env: %v\n", err)
	}

	cfg := appconfig.Load()
	logger := logging.New(cfg.LogLevel)
	logger.Info("starting clinic-booking API server",
		"env", cfg.Env,
		"port", cfg.Port,
		"backend", cfg.BookingBackend,
		"draft_store", cfg.DraftStore,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var awsCfg *aws.Config
	if needsAWS(cfg) {
		loaded, err := mainconfig.LoadAWSConfig(ctx, cfg)
		if err != nil {
			logger.Error("failed to load AWS config", "error", err)
			os.Exit(1)
		}
		awsCfg = &loaded
	}

	be, err := setupBackend(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to set up booking backend", "error", err)
		os.Exit(1)
	}
	if be.pool != nil {
		defer be.pool.Close()
	}

	store, readiness, err := setupDraftStore(ctx, cfg, awsCfg, logger)
	if err != nil {
		logger.Error("failed to set up draft store", "error", err)
		os.Exit(1)
	}
	if be.pool != nil {
		readiness["postgres"] = be.pool.Ping
	}

	metricsHandler, wizardMetrics := setupMetrics()
	submitter := setupNotifications(ctx, cfg, be, awsCfg, logger)

	manager := wizard.NewManager(wizard.Dependencies{
		Catalog:              catalog.NewLoader(be.catalog, logger.Component("catalog")),
		Slots:                slots.NewLoader(be.slots, logger.Component("slots")),
		Submitter:            submitter,
		Store:                store,
		DefaultRegion:        cfg.DefaultPhoneRegion,
		AcceptStaleResponses: !cfg.DiscardStaleResponses,
		Metrics:              wizardMetrics,
		Logger:               logger.Component("wizard"),
	}, cfg.SessionIdleTimeout)
	manager.StartJanitor(ctx, 0)

	r := router.New(&router.Config{
		Logger:             logger,
		Wizard:             wizard.NewHandler(manager, logger),
		MetricsHandler:     metricsHandler,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		RateLimitRPS:       cfg.RateLimitRPS,
		RateLimitBurst:     cfg.RateLimitBurst,
		ReadinessChecks:    readiness,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}
	logger.Info("server stopped")
}

func needsAWS(cfg *appconfig.Config) bool {
	return cfg.DraftStore == "dynamodb" || cfg.EmailProvider == "ses" || cfg.BookingEventsQueueURL != ""
}

func setupBackend(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger) (backend, error) {
	switch cfg.BookingBackend {
	case "postgres":
		pool := connectPostgresPool(ctx, cfg.DatabaseURL, logger)
		if pool == nil {
			return backend{}, errors.New("postgres backend requires a reachable DATABASE_URL")
		}
		repo := bookings.NewRepository(pool)
		return backend{
			catalog:   repo,
			slots:     repo,
			submitter: bookings.NewService(pool, logger.Component("bookings")),
			pool:      pool,
		}, nil
	case "remote", "":
		if cfg.ClinicAPIBaseURL == "" {
			return backend{}, errors.New("remote backend requires CLINIC_API_BASE_URL")
		}
		client := clinicapi.NewClient(cfg.ClinicAPIBaseURL, cfg.ClinicAPIKey, cfg.ClinicAPITimeout, logger.Component("clinicapi"))
		return backend{catalog: client, slots: client, submitter: client}, nil
	default:
		return backend{}, fmt.Errorf("unknown BOOKING_BACKEND %q", cfg.BookingBackend)
	}
}

func connectPostgresPool(ctx context.Context, url string, logger *logging.Logger) *pgxpool.Pool {
	if url == "" {
		return nil
	}
	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		logger.Error("failed to create postgres pool", "error", err)
		return nil
	}
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		logger.Error("failed to ping postgres", "error", err)
		pool.Close()
		return nil
	}
	return pool
}

func setupDraftStore(ctx context.Context, cfg *appconfig.Config, awsCfg *aws.Config, logger *logging.Logger) (wizard.DraftStore, map[string]router.ReadinessCheck, error) {
	readiness := map[string]router.ReadinessCheck{}
	switch cfg.DraftStore {
	case "redis":
		opts := &redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword}
		if cfg.RedisTLS {
			opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
		}
		client := redis.NewClient(opts)
		if err := client.Ping(ctx).Err(); err != nil {
			logger.Warn("redis not reachable at startup", "addr", cfg.RedisAddr, "error", err)
		}
		readiness["redis"] = func(ctx context.Context) error { return client.Ping(ctx).Err() }
		return wizard.NewRedisStore(client, cfg.DraftKeyPrefix, cfg.DraftTTL), readiness, nil
	case "dynamodb":
		if awsCfg == nil {
			return nil, nil, errors.New("dynamodb draft store requires AWS config")
		}
		return wizard.NewDynamoStore(dynamodb.NewFromConfig(*awsCfg), cfg.DraftsTable, cfg.DraftTTL), readiness, nil
	case "memory", "":
		return wizard.NewMemoryStore(), readiness, nil
	default:
		return nil, nil, fmt.Errorf("unknown DRAFT_STORE %q", cfg.DraftStore)
	}
}

// setupNotifications wraps the backend submitter with the confirmation email and, for backends
// without an outbox, the SQS event publisher. In postgres mode the outbox is drained to SQS.
func setupNotifications(ctx context.Context, cfg *appconfig.Config, be backend, awsCfg *aws.Config, logger *logging.Logger) booking.Submitter {
	var ses notify.SESClient
	if cfg.EmailProvider == "ses" && awsCfg != nil {
		ses = sesv2.NewFromConfig(*awsCfg)
	}
	sender := notify.NewSender(notify.SenderConfig{
		Provider:  cfg.EmailProvider,
		APIKey:    cfg.SendGridAPIKey,
		FromEmail: cfg.EmailFrom,
		FromName:  cfg.EmailFromName,
	}, ses, logger.Component("email"))

	var dedupe notify.Deduper
	if be.pool != nil {
		claims := events.NewProcessedStore(be.pool)
		go claims.StartPruning(ctx, cfg.ProcessedEventsTTL, time.Hour, logger.Component("events"))
		dedupe = claims
	}
	listeners := []booking.Listener{
		notify.NewService(sender, dedupe, notify.Config{
			ClinicName:     cfg.ClinicName,
			OperatorEmails: cfg.OperatorEmails,
		}, logger.Component("notify")),
	}

	if cfg.BookingEventsQueueURL != "" && awsCfg != nil {
		publisher := events.NewSQSPublisher(sqs.NewFromConfig(*awsCfg), cfg.BookingEventsQueueURL, cfg.BookingBackend, logger.Component("events"))
		if be.pool != nil {
			deliverer := events.NewDeliverer(events.NewOutboxStore(be.pool), publisher, logger.Component("outbox")).
				WithInterval(cfg.OutboxPollInterval)
			go deliverer.Start(ctx)
		} else {
			listeners = append(listeners, publisher)
		}
	}

	return booking.NewNotifyingSubmitter(be.submitter, logger.Component("booking"), listeners...)
}

func setupMetrics() (http.Handler, *metrics.WizardMetrics) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{}), metrics.NewWizardMetrics(reg)
}
