package main

import (
	"log"
	"log/slog"
	"net/http"
	"time"

	"github.com/joho/godotenv"

	"booktures/internal/app"
	"booktures/internal/config"
	"booktures/internal/server"
	"booktures/internal/util"
	"booktures/pkg/extract"
	"booktures/pkg/storage"
	"booktures/pkg/store"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg, err := config.Load(config.ConfigPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	logger := util.InitLogger(cfg.LogLevel)

	dataStore, err := store.NewGormStore(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to init store: %v", err)
	}
	fileStore, err := storage.NewFileStore(cfg.StorageDir, cfg.MaxUploadBytes())
	if err != nil {
		log.Fatalf("failed to init file store: %v", err)
	}

	appCore, err := app.New(app.Config{
		Store:     dataStore,
		Files:     fileStore,
		Extractor: extract.New(cfg.MaxPDFPages),
	})
	if err != nil {
		log.Fatalf("failed to init app: %v", err)
	}

	httpServer, err := server.New(server.Config{
		App:            appCore,
		MaxUploadBytes: cfg.MaxUploadBytes(),
	})
	if err != nil {
		log.Fatalf("failed to init server: %v", err)
	}

	addr := ":" + cfg.Port
	srv := &http.Server{
		Addr:         addr,
		Handler:      httpServer.Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	slog.Info("booktures backend starting up", "addr", addr, "storage_dir", cfg.StorageDir)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("server error", "err", err)
	}
	slog.Info("booktures backend shutting down")
}
