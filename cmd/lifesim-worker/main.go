package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/IldarReact/LifeSim-sub003/internal/config"
	"github.com/IldarReact/LifeSim-sub003/internal/db"
	"github.com/IldarReact/LifeSim-sub003/internal/sim"
	"github.com/IldarReact/LifeSim-sub003/internal/store"
)

// The worker sweeps running games and advances their turns on a schedule, so
// idle playthroughs keep living. Pace "calm" disables the sweep entirely and
// leaves turn advancement to the players; "wild" runs two turns per tick.
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

	src := sim.NewTimeSource()
	if cfg.RandomSeed != 0 {
		src = sim.NewSource(cfg.RandomSeed)
	}
	orch := sim.NewOrchestrator(logger, src)

	turnsPerTick := 1
	if cfg.WorldPace == "wild" {
		turnsPerTick = 2
	}
	if cfg.WorldPace == "calm" {
		logger.Info("worker idle, pace is calm")
		<-ctx.Done()
		return
	}

	runOnce := strings.EqualFold(strings.TrimSpace(os.Getenv("LIFESIM_WORKER_RUN_ONCE")), "true")
	if runOnce {
		if err := sweep(ctx, logger, st, orch, turnsPerTick); err != nil {
			logger.Error("sweep failed", "err", err)
			os.Exit(1)
		}
		logger.Info("worker run-once completed")
		return
	}

	ticker := time.NewTicker(cfg.WorkerTickEvery)
	defer ticker.Stop()

	logger.Info("worker started", "tick_every", cfg.WorkerTickEvery.String(), "pace", cfg.WorldPace)
	for {
		select {
		case <-ctx.Done():
			logger.Info("worker shutdown")
			return
		case <-ticker.C:
			if err := sweep(ctx, logger, st, orch, turnsPerTick); err != nil {
				logger.Error("sweep failed", "err", err)
			}
		}
	}
}

func sweep(ctx context.Context, logger *slog.Logger, st *store.Store, orch *sim.Orchestrator, turns int) error {
	ids, err := st.ListRunningGameIDs(ctx)
	if err != nil {
		return err
	}
	for _, id := range ids {
		for i := 0; i < turns; i++ {
			_, err := st.UpdateGame(ctx, id, func(cur sim.State) (sim.State, error) {
				next, _, err := orch.Advance(cur)
				if err != nil {
					return cur, err
				}
				return next, nil
			})
			if err != nil {
				logger.Error("advance failed", "game_id", id, "err", err)
				break
			}
		}
	}
	logger.Info("sweep complete", "games", len(ids))
	return nil
}
