package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"betledger/api"
	"betledger/bot"
	"betledger/config"
	"betledger/database"
	"betledger/events"
	"betledger/infrastructure"
	"betledger/logger"
	"betledger/metrics"
	"betledger/repository"
	"betledger/service"

	log "github.com/sirupsen/logrus"
)

// Run initializes and starts the application
func Run(ctx context.Context) error {
	// Load configuration
	cfg := config.Get()

	logCloser, err := logger.Init(logger.Options{
		Level:      cfg.LogLevel,
		Format:     cfg.LogFormat,
		File:       cfg.LogFile,
		MaxSizeMB:  cfg.LogMaxSizeMB,
		MaxBackups: cfg.LogMaxBackups,
		MaxAgeDays: cfg.LogMaxAgeDays,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer logCloser.Close()

	log.WithField("environment", cfg.Environment).Info("Starting betledger...")

	// Initialize database connection
	log.Info("Connecting to database...")
	db, err := database.NewConnection(ctx, cfg.GetDatabaseURL())
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()
	log.Info("Database connection established successfully")

	// Initialize event bus and the sinks listening on it
	eventBus := events.NewBus()

	ledgerMetrics := metrics.NewLedgerMetrics()
	ledgerMetrics.Subscribe(eventBus)

	closers, err := startEventSinks(ctx, cfg, eventBus)
	defer func() {
		for _, closeFn := range closers {
			closeFn()
		}
	}()
	if err != nil {
		return err
	}

	// Initialize unit of work factory and services
	uowFactory := repository.NewUnitOfWorkFactory(db, eventBus)
	services := api.Services{
		Bankrolls: service.NewBankrollService(uowFactory, cfg.DefaultCurrency),
		Bets:      service.NewBetService(uowFactory),
		Stats:     service.NewStatsService(uowFactory),
	}
	log.Info("Services initialized successfully")

	metricsServer := metrics.StartMetricsServer(cfg.MetricsAddr, ledgerMetrics.Registry(), db.Health)

	apiServer := &http.Server{
		Addr: cfg.HTTPAddr,
		Handler: api.NewRouter(services, api.RouterConfig{
			JWTSecret:      cfg.JWTSecret,
			AllowedOrigins: cfg.CORSAllowedOrigins,
			RateLimitRPS:   cfg.RateLimitRPS,
			RateLimitBurst: cfg.RateLimitBurst,
			Instrument:     ledgerMetrics.Middleware(),
		}),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.WithField("addr", cfg.HTTPAddr).Info("API server listening")
		if err := apiServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Wait for context cancellation or a fatal server error
	select {
	case <-ctx.Done():
		log.Info("Shutting down betledger...")
	case err := <-serverErr:
		log.WithError(err).Error("API server failed")
	}

	// Give in-flight requests time to complete
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := apiServer.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Warn("Error shutting down API server")
	}
	if err := metricsServer.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Warn("Error shutting down metrics server")
	}

	// Sinks are closed by the deferred closers, so their queues drain first
	if err := eventBus.Close(shutdownCtx); err != nil {
		log.WithError(err).Warn("Event sinks did not drain before shutdown")
	}

	log.Info("Shutdown completed")
	return nil
}

// startEventSinks connects every configured external sink to the bus.
// The returned closers must run even when an error is returned.
func startEventSinks(ctx context.Context, cfg *config.Config, eventBus *events.Bus) ([]func(), error) {
	var closers []func()

	if cfg.RedisAddr != "" {
		client, err := infrastructure.ConnectRedis(ctx, cfg.RedisAddr)
		if err != nil {
			return closers, fmt.Errorf("failed to connect to redis: %w", err)
		}
		closers = append(closers, func() {
			if err := client.Close(); err != nil {
				log.WithError(err).Warn("Error closing redis client")
			}
		})
		eventBus.SubscribeOrdered("redis", infrastructure.NewRedisEventPublisher(client, cfg.RedisChannel).Handle)
		log.WithField("channel", cfg.RedisChannel).Info("Redis event sink enabled")
	}

	if cfg.KafkaBrokers != "" {
		writer, err := infrastructure.NewKafkaWriter(cfg.KafkaBrokers, cfg.KafkaTopic)
		if err != nil {
			return closers, fmt.Errorf("failed to configure kafka: %w", err)
		}
		publisher := infrastructure.NewKafkaEventPublisher(writer, cfg.KafkaTopic)
		closers = append(closers, func() {
			if err := publisher.Close(); err != nil {
				log.WithError(err).Warn("Error closing kafka writer")
			}
		})
		eventBus.SubscribeOrdered("kafka", publisher.Handle)
		log.WithField("topic", cfg.KafkaTopic).Info("Kafka event sink enabled")
	}

	if cfg.DiscordToken != "" {
		notifier, err := bot.New(bot.Config{
			Token:     cfg.DiscordToken,
			ChannelID: cfg.DiscordChannelID,
		})
		if err != nil {
			return closers, fmt.Errorf("failed to initialize Discord notifier: %w", err)
		}
		closers = append(closers, func() {
			if err := notifier.Close(); err != nil {
				log.WithError(err).Warn("Error closing Discord notifier")
			}
		})
		notifier.Subscribe(eventBus)
	}

	return closers, nil
}
