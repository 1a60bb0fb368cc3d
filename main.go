package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"productapi/internal/config"
	"productapi/internal/database"
	"productapi/internal/handlers"
	"productapi/internal/logger"
	"productapi/internal/repositories"
	"productapi/internal/server"
	"productapi/internal/services"
	"productapi/pkg/rabbitmq"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("productapi: %v", err)
	}
}

// run wires the service and blocks until SIGINT or SIGTERM. Startup failures
// are returned so that deferred cleanup still runs.
func run() error {
	cfg, err := config.Load(viper.New())
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	zlog, err := logger.New(logger.Config{
		ServiceName: cfg.ServiceName,
		Version:     cfg.ServiceVersion,
		Level:       cfg.LogLevel,
		Format:      cfg.LogFormat,
	})
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	defer func() { _ = zlog.Sync() }()

	repo, closeRepo, err := newRepository(cfg)
	if err != nil {
		zlog.Error("Failed to initialize product store", zap.Error(err))
		return fmt.Errorf("failed to initialize product store: %w", err)
	}
	defer closeRepo()

	var publisher services.EventPublisher
	if cfg.EventsEnabled() {
		mqClient, err := rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL, Queue: cfg.RabbitMQQueue})
		if err != nil {
			zlog.Error("Failed to initialize RabbitMQ client", zap.Error(err))
			return fmt.Errorf("failed to initialize RabbitMQ client: %w", err)
		}
		defer func() {
			if err := mqClient.Close(); err != nil {
				zlog.Warn("Failed to close RabbitMQ client", zap.Error(err))
			}
		}()
		publisher = mqClient
		zlog.Info("Publishing product events", zap.String("queue", mqClient.Queue()))
	}

	productService := services.NewProductService(repo, publisher)
	app := server.New(handlers.ServiceInfo{Name: cfg.ServiceName, Version: cfg.ServiceVersion}, productService)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	listenErr := make(chan error, 1)
	go func() {
		zlog.Info("Starting server", zap.String("addr", cfg.AppPort))
		listenErr <- app.Listen(cfg.AppPort)
	}()

	select {
	case err := <-listenErr:
		if err == nil {
			return nil
		}
		zlog.Error("Server failed to start", zap.Error(err))
		return fmt.Errorf("server failed: %w", err)
	case <-quit:
	}

	zlog.Info("Shutting down server...")
	if err := app.Shutdown(); err != nil {
		zlog.Error("Error during Fiber shutdown", zap.Error(err))
	}
	zlog.Info("Server gracefully stopped")
	return nil
}

// newRepository opens the configured product store and returns a function
// releasing it.
func newRepository(cfg *config.Config) (repositories.ProductRepository, func(), error) {
	if cfg.DatabaseDriver == config.DriverMemory {
		return repositories.NewMemoryProductRepository(), func() {}, nil
	}

	db, err := database.Open(cfg.DatabaseDriver, cfg.DatabaseDSN)
	if err != nil {
		return nil, nil, err
	}
	closeDB := func() {
		if err := database.Close(db); err != nil {
			zap.L().Error("Failed to close database", zap.Error(err))
		}
	}
	return repositories.NewGORMProductRepository(db), closeDB, nil
}
