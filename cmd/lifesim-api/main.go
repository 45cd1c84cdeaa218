package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/IldarReact/LifeSim-sub003/internal/api"
	"github.com/IldarReact/LifeSim-sub003/internal/catalog"
	"github.com/IldarReact/LifeSim-sub003/internal/collab"
	"github.com/IldarReact/LifeSim-sub003/internal/config"
	"github.com/IldarReact/LifeSim-sub003/internal/db"
	"github.com/IldarReact/LifeSim-sub003/internal/sim"
	"github.com/IldarReact/LifeSim-sub003/internal/store"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.LoadAPIFromEnv()
	if err != nil {
		slog.Error("load config", "err", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	pool, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error("db connect failed", "err", err)
		os.Exit(1)
	}
	defer pool.Close()

	st := store.New(pool)
	if err := st.EnsureSchema(ctx); err != nil {
		logger.Error("schema init failed", "err", err)
		os.Exit(1)
	}

	cat, err := catalog.Load()
	if err != nil {
		logger.Error("catalog load failed", "err", err)
		os.Exit(1)
	}

	src := sim.NewTimeSource()
	if cfg.RandomSeed != 0 {
		src = sim.NewSource(cfg.RandomSeed)
	}
	orch := sim.NewOrchestrator(logger, src)
	hub := collab.New(cfg.CollabURL, cfg.CollabAPIKey)

	server := api.New(cfg, logger, st, cat, orch, hub)
	httpServer := &http.Server{
		Addr:              cfg.Addr,
		Handler:           server.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		_ = httpServer.Shutdown(shutdownCtx)
	}()

	logger.Info("lifesim api listening", "addr", cfg.Addr, "countries", len(cat.Countries))
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("server failed", "err", err)
		os.Exit(1)
	}
}
