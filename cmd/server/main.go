package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/autodrop/agenthub"
	"github.com/autodrop/agenthub/api"
	"github.com/autodrop/agenthub/config"
	"github.com/autodrop/agenthub/logging"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Configuration loading failed: %v", err)
	}

	// Initialize logging
	logger := logging.NewLogger(&logging.LoggerConfig{
		Level:     logging.ParseLevel(cfg.Log.Level),
		Format:    cfg.Log.Format,
		Output:    os.Stdout,
		Component: "server",
	}).WithContext("service", "agenthub")

	logger.Info("Starting AutoDrop agent hub",
		"addr", cfg.Server.Addr,
		"rate_limit", cfg.RateLimit.Requests,
		"provider_timeout", cfg.Providers.Timeout,
	)

	// Wire the provider manager and orchestration façade
	providers := agenthub.NewProviderManager(cfg, logger)
	hub := agenthub.New(func(o *agenthub.Options) {
		o.Generator = providers
		o.RateLimit = cfg.RateLimit.Requests
		o.RateWindow = cfg.RateLimit.Window
		o.Logger = logger
	})

	// Seed the built-in pipeline templates
	if ids, err := hub.CreateDropshippingWorkflows(); err != nil {
		logger.Warn("Failed to seed workflow templates", "error", err)
	} else {
		logger.Info("Workflow templates seeded", "ids", ids)
	}

	// Create Echo server
	e := echo.New()
	e.HideBanner = true

	// Middleware
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	e.GET("/healthz", func(c echo.Context) error {
		health, err := hub.Manager().HealthCheck(c.Request().Context())
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
		return c.JSON(http.StatusOK, health)
	})

	// Mount REST API handlers
	apiGroup := e.Group("/api/v1")
	api.RegisterHandlers(apiGroup, api.NewServer(hub))

	logger.Info("REST API handlers mounted")

	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      e,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown handling
	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("Server starting", "address", cfg.Server.Addr)
		serverErrors <- server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != http.ErrServerClosed {
			logger.Error("Server error", "error", err)
			log.Fatalf("Server error: %v", err)
		}
	case sig := <-shutdown:
		logger.Info("Shutdown signal received", "signal", sig.String())

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			logger.Error("Server shutdown error", "error", err)
			if err := server.Close(); err != nil {
				logger.Error("Server close error", "error", err)
			}
		}

		logger.Info("Server stopped gracefully")
	}
}
