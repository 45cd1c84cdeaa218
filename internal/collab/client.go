package collab

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Client publishes game events to an optional collaboration hub so shared
// playthroughs can follow each other's turns. With no URL configured every
// publish is a silent no-op, which keeps single-player setups zero-config.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

type Event struct {
	GameID     string `json:"game_id"`
	Kind       string `json:"kind"`
	Message    string `json:"message"`
	Turn       int    `json:"turn"`
	OccurredAt string `json:"occurred_at"`
}

const (
	EventTurnAdvanced    = "turn_advanced"
	EventProposalOpened  = "proposal_opened"
	EventProposalSettled = "proposal_settled"
	EventGameOver        = "game_over"
)

func New(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func (c *Client) Enabled() bool {
	return c != nil && c.baseURL != ""
}

// Publish sends one event to the hub. Failures are returned, not retried;
// callers treat collaboration as best-effort.
func (c *Client) Publish(ctx context.Context, ev Event) error {
	if !c.Enabled() {
		return nil
	}
	if ev.OccurredAt == "" {
		ev.OccurredAt = time.Now().UTC().Format(time.RFC3339)
	}
	return c.postJSON(ctx, "/v1/events", ev, nil)
}

// Peers lists the players subscribed to a shared game.
func (c *Client) Peers(ctx context.Context, gameID string) ([]string, error) {
	if !c.Enabled() {
		return nil, nil
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v1/games/"+gameID+"/peers", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("X-API-Key", c.apiKey)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("list peers: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("peers status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	var peers []string
	if err := json.NewDecoder(resp.Body).Decode(&peers); err != nil {
		return nil, fmt.Errorf("decode peers: %w", err)
	}
	return peers, nil
}

func (c *Client) postJSON(ctx context.Context, path string, in any, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-API-Key", c.apiKey)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("collab request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("collab status %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
