package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/IldarReact/LifeSim-sub003/internal/sim"
)

var ErrNotFound = errors.New("game not found")

// Store persists whole game states as jsonb snapshots, one row per game.
// The snapshot carries its own schema version; loads migrate old versions
// forward before returning.
type Store struct {
	db *pgxpool.Pool
}

func New(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

// EnsureSchema creates the snapshot table when it does not exist yet.
func (s *Store) EnsureSchema(ctx context.Context) error {
	_, err := s.db.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS games (
			id          UUID PRIMARY KEY,
			player_name TEXT NOT NULL,
			turn        INT NOT NULL DEFAULT 0,
			status      TEXT NOT NULL DEFAULT 'running',
			state       JSONB NOT NULL,
			created_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at  TIMESTAMPTZ NOT NULL DEFAULT now()
		)`)
	if err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

func (s *Store) CreateGame(ctx context.Context, state sim.State) (string, error) {
	id := uuid.NewString()
	raw, err := json.Marshal(state)
	if err != nil {
		return "", fmt.Errorf("marshal state: %w", err)
	}
	_, err = s.db.Exec(ctx, `
		INSERT INTO games (id, player_name, turn, status, state)
		VALUES ($1, $2, $3, $4, $5)`,
		id, state.Player.Name, state.Turn, string(state.Status), raw)
	if err != nil {
		return "", fmt.Errorf("insert game: %w", err)
	}
	return id, nil
}

func (s *Store) LoadGame(ctx context.Context, id string) (sim.State, error) {
	var raw []byte
	err := s.db.QueryRow(ctx, `SELECT state FROM games WHERE id = $1`, id).Scan(&raw)
	if err == pgx.ErrNoRows {
		return sim.State{}, ErrNotFound
	}
	if err != nil {
		return sim.State{}, fmt.Errorf("load game: %w", err)
	}
	return decodeSnapshot(raw)
}

// UpdateGame applies fn to the current state under a row lock, so concurrent
// turn advancement and player actions serialize per game.
func (s *Store) UpdateGame(ctx context.Context, id string, fn func(sim.State) (sim.State, error)) (sim.State, error) {
	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return sim.State{}, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	var raw []byte
	err = tx.QueryRow(ctx, `SELECT state FROM games WHERE id = $1 FOR UPDATE`, id).Scan(&raw)
	if err == pgx.ErrNoRows {
		return sim.State{}, ErrNotFound
	}
	if err != nil {
		return sim.State{}, fmt.Errorf("lock game: %w", err)
	}
	state, err := decodeSnapshot(raw)
	if err != nil {
		return sim.State{}, err
	}

	next, err := fn(state)
	if err != nil {
		return sim.State{}, err
	}
	out, err := json.Marshal(next)
	if err != nil {
		return sim.State{}, fmt.Errorf("marshal state: %w", err)
	}
	_, err = tx.Exec(ctx, `
		UPDATE games SET state = $2, turn = $3, status = $4, updated_at = now()
		WHERE id = $1`,
		id, out, next.Turn, string(next.Status))
	if err != nil {
		return sim.State{}, fmt.Errorf("update game: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return sim.State{}, fmt.Errorf("commit: %w", err)
	}
	return next, nil
}

type GameSummary struct {
	ID         string    `json:"id"`
	PlayerName string    `json:"player_name"`
	Turn       int       `json:"turn"`
	Status     string    `json:"status"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (s *Store) ListGames(ctx context.Context) ([]GameSummary, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, player_name, turn, status, updated_at
		FROM games ORDER BY updated_at DESC LIMIT 100`)
	if err != nil {
		return nil, fmt.Errorf("list games: %w", err)
	}
	defer rows.Close()

	var out []GameSummary
	for rows.Next() {
		var g GameSummary
		if err := rows.Scan(&g.ID, &g.PlayerName, &g.Turn, &g.Status, &g.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan game: %w", err)
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

// ListRunningGameIDs feeds the background worker's turn sweep.
func (s *Store) ListRunningGameIDs(ctx context.Context) ([]string, error) {
	rows, err := s.db.Query(ctx, `SELECT id FROM games WHERE status = 'running'`)
	if err != nil {
		return nil, fmt.Errorf("list running games: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (s *Store) DeleteGame(ctx context.Context, id string) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM games WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete game: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func decodeSnapshot(raw []byte) (sim.State, error) {
	var state sim.State
	if err := json.Unmarshal(raw, &state); err != nil {
		return sim.State{}, fmt.Errorf("decode snapshot: %w", err)
	}
	return MigrateSnapshot(state), nil
}

// MigrateSnapshot upgrades old snapshot versions in place. Version 1 predates
// buyout offers and the net-worth history; both start empty.
func MigrateSnapshot(state sim.State) sim.State {
	if state.Version <= 1 {
		if state.Offers == nil {
			state.Offers = []sim.Offer{}
		}
		if state.History == nil {
			state.History = []sim.HistoryEntry{}
		}
		state.Version = sim.SnapshotVersion
	}
	return sim.NormalizeState(state)
}
