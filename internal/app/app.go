package app

import (
	"context"
	"fmt"
	"time"

	"inventory/internal/handlers"
	"inventory/internal/repositories"
	"inventory/internal/services"
	"inventory/pkg/logger"
	"inventory/pkg/metrics"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/hellofresh/health-go/v5"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Options are the collaborators the application is assembled from.
type Options struct {
	ServiceName string
	DB          *gorm.DB
	Logger      *zap.Logger
	// Publisher is optional; nil disables product events.
	Publisher services.EventPublisher
	// Metrics is optional; nil disables the metrics middleware and /metrics.
	Metrics *metrics.HTTPMetrics
}

// NewApp wires repositories, services and handlers into a fiber app.
// The database must already be migrated.
func NewApp(opts Options) (*fiber.App, error) {
	if opts.DB == nil {
		return nil, fmt.Errorf("database is required")
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	productRepo := repositories.NewGORMProductRepository(opts.DB)

	serviceOpts := []services.Option{}
	if opts.Publisher != nil {
		serviceOpts = append(serviceOpts, services.WithEventPublisher(opts.Publisher))
	}
	if opts.Metrics != nil {
		serviceOpts = append(serviceOpts, services.WithChangeCounter(opts.Metrics.ProductChanged))
	}
	productService := services.NewProductService(productRepo, log, serviceOpts...)
	productHandler := handlers.NewProductHandler(productService)

	healthCheck, err := newHealth(opts.ServiceName, opts.DB)
	if err != nil {
		return nil, err
	}

	app := fiber.New(fiber.Config{
		AppName:               opts.ServiceName,
		ErrorHandler:          handlers.ErrorHandler,
		DisableStartupMessage: true,
	})

	app.Use(logger.RequestID(log))
	if opts.Metrics != nil {
		app.Use(opts.Metrics.Middleware())
	}
	app.Use(logger.Middleware())
	app.Use(recover.New())

	app.Get("/health", adaptor.HTTPHandler(healthCheck.Handler()))
	if opts.Metrics != nil {
		app.Get("/metrics", opts.Metrics.Handler())
	}

	productHandler.RegisterRoutes(app)

	return app, nil
}

func newHealth(serviceName string, db *gorm.DB) (*health.Health, error) {
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database object: %w", err)
	}

	h, err := health.New(
		health.WithComponent(health.Component{
			Name:    serviceName,
			Version: "1.0.0",
		}),
		health.WithChecks(health.Config{
			Name:      "database",
			Timeout:   3 * time.Second,
			SkipOnErr: false,
			Check: func(ctx context.Context) error {
				return sqlDB.PingContext(ctx)
			},
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create health instance: %w", err)
	}
	return h, nil
}
