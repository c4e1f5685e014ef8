package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	httpadapter "github.com/avezina/paperlens/internal/adapters/http"
	"github.com/avezina/paperlens/internal/bootstrap"
	"github.com/avezina/paperlens/internal/config"
	"github.com/avezina/paperlens/internal/observability/logging"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.LoadWithFile(os.Getenv("CONFIG_FILE"))
	if err != nil {
		slog.Error("config_error", "error", err)
		os.Exit(1)
	}

	logger := logging.NewJSONLogger("api", cfg.LogLevel)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.New(cfg, logger, bootstrap.Options{
		ServiceName:   "api",
		EnableMetrics: true,
	})
	if err != nil {
		logger.Error("bootstrap_error", "error", err)
		os.Exit(1)
	}

	router := httpadapter.NewRouter(cfg, app.Service, app.HTTPMetrics, logger).Handler()
	server := &http.Server{
		Addr:         ":" + cfg.APIPort,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.HTTPReadTimeoutSeconds) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTPWriteTimeoutSeconds) * time.Second,
		IdleTimeout:  time.Duration(cfg.HTTPIdleTimeoutSeconds) * time.Second,
	}

	go func() {
		logger.Info("api_listening", "port", cfg.APIPort, "provider", cfg.LLMProvider)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("api_server_error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("api_shutdown_error", "error", err)
	}
}
