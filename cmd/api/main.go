package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ilocksmithindiana/lead-service/internal/api/router"
	"github.com/ilocksmithindiana/lead-service/internal/app/bootstrap"
	appconfig "github.com/ilocksmithindiana/lead-service/internal/config"
	"github.com/ilocksmithindiana/lead-service/internal/http/handlers"
	"github.com/ilocksmithindiana/lead-service/pkg/logging"
)

func main() {
	// .env is optional; real deployments set env vars directly.
	_ = godotenv.Load()

	cfg := appconfig.Load()

	logger := logging.New(cfg.LogLevel)
	logger.Info("starting lead-service API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	pipeline := bootstrap.NewPipeline(cfg, logger, nil)

	r := router.New(&router.Config{
		Logger:             logger,
		SubmitHandler:      pipeline.Handler,
		SiteConfigHandler:  handlers.NewSiteConfigHandler(cfg),
		MetricsHandler:     promhttp.Handler(),
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		RateLimitPerHour:   cfg.RateLimitPerHour,
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

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}
