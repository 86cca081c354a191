package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mousey-app/dashboard/edge/internal/router"
	"github.com/mousey-app/dashboard/shared/config"
	"github.com/mousey-app/dashboard/shared/logger"
	"github.com/mousey-app/dashboard/shared/storage"
)

const (
	readTimeout     = 5 * time.Second
	writeTimeout    = 30 * time.Second
	shutdownTimeout = 10 * time.Second
)

func main() {
	var configFolder string
	flag.StringVar(&configFolder, "config_folder", "config", "path to folder with configs")
	flag.Parse()

	cfg := config.MustLoad(configFolder)
	logger.Initialize(cfg.Public.Log.Level, cfg.Public.Log.JSON)

	store, err := storage.New(cfg)
	if err != nil {
		logger.Log.Error("failed to open asset store", "error", err)
		os.Exit(1)
	}
	defer store.Cleanup()

	server := &http.Server{
		Addr:         ":" + cfg.Public.Edge.Port,
		Handler:      router.SetupRouter(cfg.Public, store),
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
	}

	go func() {
		logger.Log.Info("starting edge", "addr", server.Addr, "asset_driver", store.Driver, "single_page_app", cfg.Public.Edge.SinglePageApp)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Log.Info("shutting down edge")
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Log.Error("graceful shutdown failed", "error", err)
	}
}
