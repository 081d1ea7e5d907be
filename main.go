package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"inventory/internal/app"
	"inventory/internal/config"
	"inventory/internal/models"
	"inventory/pkg/database"
	"inventory/pkg/logger"
	"inventory/pkg/metrics"
	"inventory/pkg/rabbitmq"

	"go.uber.org/zap"
)

func main() {
	// --- Configuration ---
	v, err := config.NewViper()
	if err != nil {
		panic("Failed to read configuration: " + err.Error())
	}
	cfg, err := config.Load(v)
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(logger.LogConfig{
		Level:       cfg.LogLevel,
		Environment: cfg.AppEnv,
		ServiceName: cfg.ServiceName,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}

	log.Info("Starting service", cfg.LogFields()...)

	if err := run(cfg, log); err != nil {
		logFailure(log, "Service stopped with error", err)
		os.Exit(1)
	}
	log.Info("Server gracefully stopped")
	_ = log.Sync()
}

// logFailure records a fatal error and flushes the logger ahead of os.Exit.
func logFailure(log *zap.Logger, msg string, err error) {
	log.Error(msg, zap.Error(err))
	_ = log.Sync()
}

func run(cfg *config.Config, log *zap.Logger) error {
	// --- Database ---
	db, err := database.Open(cfg.DB, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := database.Close(db); err != nil {
			log.Warn("Error closing database", zap.Error(err))
		}
	}()

	if err := database.Migrate(db, &models.Product{}); err != nil {
		return err
	}

	opts := app.Options{
		ServiceName: cfg.ServiceName,
		DB:          db,
		Logger:      log,
	}

	// --- Metrics ---
	if cfg.MetricsEnabled {
		m := metrics.NewHTTPMetrics(cfg.ServiceName)
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		if err := m.RegisterDB(sqlDB, cfg.ServiceName); err != nil {
			return err
		}
		opts.Metrics = m
	}

	// --- Product events ---
	if cfg.RabbitMQURL != "" {
		mqClient, err := rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL})
		if err != nil {
			return err
		}
		defer mqClient.Close()
		opts.Publisher = mqClient
		log.Info("Publishing product events", zap.String("queue", rabbitmq.ProductEventsQueue))
	}

	server, err := app.NewApp(opts)
	if err != nil {
		return err
	}

	// --- HTTP server with graceful shutdown ---
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	listenErr := make(chan error, 1)
	go func() {
		log.Info("Listening", zap.String("addr", cfg.AppPort))
		listenErr <- server.Listen(cfg.AppPort)
	}()

	select {
	case err := <-listenErr:
		return err
	case <-ctx.Done():
	}

	log.Info("Shutting down server...")
	return server.ShutdownWithTimeout(cfg.ShutdownTimeout)
}
