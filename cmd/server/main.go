package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/FungiProxy/QuoteTemplate-sub001/internal/api"
	"github.com/FungiProxy/QuoteTemplate-sub001/internal/config"
	"github.com/FungiProxy/QuoteTemplate-sub001/internal/generator"
	"github.com/FungiProxy/QuoteTemplate-sub001/internal/pipeline"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	level := slog.LevelInfo
	if cfg.Debug {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))

	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	defaults, err := config.LoadDefaults(cfg.DefaultsFile)
	if err != nil {
		log.Error("invalid quote defaults", "path", cfg.DefaultsFile, "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	gen := generator.New(cfg, defaults, log)

	// Batch pipeline.
	orch := pipeline.NewOrchestrator(cfg, gen, log)
	orch.Start(ctx)

	srv := api.NewServer(gen, orch, log, cfg)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown.
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")

		// Drain HTTP first so no batch is submitted to a stopped pipeline.
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			log.Warn("http shutdown", "error", err)
		}

		orch.Stop()
	}()

	log.Info("starting quote server", "port", cfg.Port, "templates", cfg.TemplatesDir, "output", cfg.OutputDir)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}
