package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type APIConfig struct {
	Addr               string
	DatabaseURL        string
	CollabURL          string
	CollabAPIKey       string
	WorkerTickEvery time.Duration
	WorldPace       string
	RandomSeed      int64
}

type CLIConfig struct {
	APIBaseURL string
}

func LoadAPIFromEnv() (APIConfig, error) {
	addr := os.Getenv("PORT")
	if addr != "" {
		if !strings.HasPrefix(addr, ":") {
			addr = ":" + addr
		}
	} else {
		addr = envDefault("LIFESIM_API_ADDR", ":8080")
	}

	cfg := APIConfig{
		Addr:            addr,
		DatabaseURL:     strings.TrimSpace(os.Getenv("DATABASE_URL")),
		CollabURL:       strings.TrimRight(strings.TrimSpace(os.Getenv("LIFESIM_COLLAB_URL")), "/"),
		CollabAPIKey:    strings.TrimSpace(os.Getenv("LIFESIM_COLLAB_API_KEY")),
		WorkerTickEvery: envDurationDefault("LIFESIM_WORKER_TICK_EVERY", 15*time.Minute),
		WorldPace:       envPaceDefault(),
		RandomSeed:      envInt64Default("LIFESIM_RANDOM_SEED", 0),
	}
	if cfg.DatabaseURL == "" {
		return cfg, fmt.Errorf("DATABASE_URL is required")
	}
	return cfg, nil
}

func LoadCLIFromEnv() CLIConfig {
	return CLIConfig{
		APIBaseURL: strings.TrimRight(envDefault("LIFE_API_BASE_URL", "http://localhost:8080"), "/"),
	}
}

func envDefault(key, fallback string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	return v
}

func envDurationDefault(key string, fallback time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}

func envInt64Default(key string, fallback int64) int64 {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return fallback
	}
	return n
}

func envPaceDefault() string {
	v := strings.ToLower(strings.TrimSpace(os.Getenv("LIFESIM_WORLD_PACE")))
	switch v {
	case "calm", "normal", "wild":
		return v
	default:
		return "normal"
	}
}
