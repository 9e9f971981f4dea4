package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/sirupsen/logrus"

	httpapi "github.com/thenewapple2004-netizen/BDA-Lab-Project/internal/api/http"
	"github.com/thenewapple2004-netizen/BDA-Lab-Project/internal/config"
	"github.com/thenewapple2004-netizen/BDA-Lab-Project/internal/scheduler"
	"github.com/thenewapple2004-netizen/BDA-Lab-Project/internal/storage"
	"github.com/thenewapple2004-netizen/BDA-Lab-Project/internal/weather"
	"github.com/thenewapple2004-netizen/BDA-Lab-Project/internal/weather/providers"
)

func main() {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("failed to load config")
	}

	// Storage backend: HDFS when reachable, local filesystem otherwise.
	// The choice is made once for the life of the process.
	store, err := storage.New(storage.Options{
		Namenode: cfg.HDFSNamenode,
		User:     cfg.HDFSUser,
		BasePath: cfg.HDFSBasePath,
		LocalDir: cfg.LocalDataDir,
	}, log)
	if err != nil {
		log.WithError(err).Fatal("failed to initialize storage")
	}

	// Shared HTTP client for outbound Open-Meteo calls.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}
	source := providers.NewOpenMeteo(httpClient)

	service := weather.NewService(store, source, log)

	// Collector that periodically fetches and stores current conditions.
	collector := scheduler.New(cfg.Cities, cfg.FetchInterval, service, log)
	if err := collector.Start(); err != nil {
		log.WithError(err).Fatal("failed to start collector")
	}
	defer collector.Stop()

	app := fiber.New(fiber.Config{
		AppName:               "weather-analytics",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          10 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			// Centralized error response
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error":   true,
				"message": err.Error(),
			})
		},
	})

	app.Use(logger.New())
	app.Use(recover.New())

	httpapi.RegisterRoutes(app, service)

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.WithError(err).Error("fiber server stopped")
		}
	}()
	log.WithField("port", cfg.Port).Info("weather-analytics listening")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.WithError(err).Error("error during shutdown")
	}
}
