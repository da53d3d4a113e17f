package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dgallion1/mdtrack/internal/api"
	"github.com/dgallion1/mdtrack/internal/config"
	"github.com/dgallion1/mdtrack/internal/events"
	"github.com/dgallion1/mdtrack/internal/scanner"
	"github.com/dgallion1/mdtrack/internal/status"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Load persisted item statuses.
	statuses := status.NewStore(cfg.StatusFile)
	if err := statuses.Load(); err != nil {
		log.Error("failed to load statuses", "error", err)
		os.Exit(1)
	}

	// Initialize registry, event hub, and scanner.
	registry := scanner.NewRegistry()
	hub := events.NewHub(log)
	sc := scanner.New(scanner.Config{
		Roots:        cfg.ScanRoots,
		Interval:     cfg.ScanInterval,
		WorkerCount:  cfg.WorkerCount,
		MaxQueueSize: cfg.MaxQueueSize,
		MaxFileBytes: cfg.MaxFileBytes,
	}, registry, hub, log)
	sc.Start(ctx)

	// Initial scan in the background so startup isn't blocked by large trees.
	go sc.Scan(ctx)

	// Initialize HTTP server.
	srv := api.NewServer(registry, sc, statuses, hub, log, cfg)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown.
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")

		sc.Stop()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		httpServer.Shutdown(shutdownCtx)

		if err := statuses.Flush(); err != nil {
			log.Error("failed to flush statuses", "error", err)
		}
	}()

	log.Info("starting mdtrack", "port", cfg.Port, "roots", cfg.ScanRoots)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}
