package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

type Client struct {
	BaseURL string
	HTTP    *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (c *Client) CatalogCountries(ctx context.Context) ([]map[string]any, error) {
	var out []map[string]any
	err := c.jsonRequest(ctx, http.MethodGet, "/v1/catalog/countries", nil, &out)
	return out, err
}

func (c *Client) CatalogBusinesses(ctx context.Context) ([]map[string]any, error) {
	var out []map[string]any
	err := c.jsonRequest(ctx, http.MethodGet, "/v1/catalog/businesses", nil, &out)
	return out, err
}

func (c *Client) CatalogEducation(ctx context.Context) ([]map[string]any, error) {
	var out []map[string]any
	err := c.jsonRequest(ctx, http.MethodGet, "/v1/catalog/education", nil, &out)
	return out, err
}

func (c *Client) CreateGame(ctx context.Context, playerName, countryID string) (map[string]any, error) {
	var out map[string]any
	err := c.jsonRequest(ctx, http.MethodPost, "/v1/games", map[string]any{
		"player_name": playerName,
		"country_id":  countryID,
	}, &out)
	return out, err
}

func (c *Client) ListGames(ctx context.Context) (map[string]any, error) {
	var out map[string]any
	err := c.jsonRequest(ctx, http.MethodGet, "/v1/games", nil, &out)
	return out, err
}

func (c *Client) GetGame(ctx context.Context, gameID string) (map[string]any, error) {
	var out map[string]any
	err := c.jsonRequest(ctx, http.MethodGet, "/v1/games/"+url.PathEscape(gameID), nil, &out)
	return out, err
}

func (c *Client) Advance(ctx context.Context, gameID string) (map[string]any, error) {
	var out map[string]any
	err := c.jsonRequest(ctx, http.MethodPost, "/v1/games/"+url.PathEscape(gameID)+"/advance", map[string]any{}, &out)
	return out, err
}

func (c *Client) FoundBusiness(ctx context.Context, gameID, templateID, name string) (map[string]any, error) {
	var out map[string]any
	err := c.jsonRequest(ctx, http.MethodPost, "/v1/games/"+url.PathEscape(gameID)+"/businesses", map[string]any{
		"template_id": templateID,
		"name":        name,
	}, &out)
	return out, err
}

func (c *Client) PreviewQuarter(ctx context.Context, gameID, businessID string) (map[string]any, error) {
	var out map[string]any
	path := fmt.Sprintf("/v1/games/%s/businesses/%s/preview", url.PathEscape(gameID), url.PathEscape(businessID))
	err := c.jsonRequest(ctx, http.MethodGet, path, nil, &out)
	return out, err
}

func (c *Client) RequestChange(ctx context.Context, gameID, businessID, changeType string, payload map[string]any) (map[string]any, error) {
	var out map[string]any
	path := fmt.Sprintf("/v1/games/%s/businesses/%s/changes", url.PathEscape(gameID), url.PathEscape(businessID))
	err := c.jsonRequest(ctx, http.MethodPost, path, map[string]any{
		"change_type": changeType,
		"payload":     payload,
	}, &out)
	return out, err
}

func (c *Client) Peers(ctx context.Context, gameID string) (map[string]any, error) {
	var out map[string]any
	err := c.jsonRequest(ctx, http.MethodGet, "/v1/games/"+url.PathEscape(gameID)+"/peers", nil, &out)
	return out, err
}

func (c *Client) Candidates(ctx context.Context, gameID string) (map[string]any, error) {
	var out map[string]any
	err := c.jsonRequest(ctx, http.MethodGet, "/v1/games/"+url.PathEscape(gameID)+"/candidates", nil, &out)
	return out, err
}

func (c *Client) Vote(ctx context.Context, gameID, proposalID string, approve bool) (map[string]any, error) {
	var out map[string]any
	path := fmt.Sprintf("/v1/games/%s/proposals/%s/votes", url.PathEscape(gameID), url.PathEscape(proposalID))
	err := c.jsonRequest(ctx, http.MethodPost, path, map[string]any{"approve": approve}, &out)
	return out, err
}

func (c *Client) TakeLoan(ctx context.Context, gameID, debtType, name string, amount int64, termMonths int) (map[string]any, error) {
	var out map[string]any
	err := c.jsonRequest(ctx, http.MethodPost, "/v1/games/"+url.PathEscape(gameID)+"/debts", map[string]any{
		"type":        debtType,
		"amount":      amount,
		"term_months": termMonths,
		"name":        name,
	}, &out)
	return out, err
}

func (c *Client) PayDebt(ctx context.Context, gameID, debtID string) (map[string]any, error) {
	var out map[string]any
	path := fmt.Sprintf("/v1/games/%s/debts/%s/payments", url.PathEscape(gameID), url.PathEscape(debtID))
	err := c.jsonRequest(ctx, http.MethodPost, path, map[string]any{}, &out)
	return out, err
}

func (c *Client) RepayEarly(ctx context.Context, gameID, debtID string, amount int64) (map[string]any, error) {
	var out map[string]any
	path := fmt.Sprintf("/v1/games/%s/debts/%s/repay", url.PathEscape(gameID), url.PathEscape(debtID))
	err := c.jsonRequest(ctx, http.MethodPost, path, map[string]any{"amount": amount}, &out)
	return out, err
}

func (c *Client) Enroll(ctx context.Context, gameID, courseID string) (map[string]any, error) {
	var out map[string]any
	err := c.jsonRequest(ctx, http.MethodPost, "/v1/games/"+url.PathEscape(gameID)+"/education", map[string]any{
		"course_id": courseID,
	}, &out)
	return out, err
}

// Do issues an arbitrary queued command, used by offline replay.
func (c *Client) Do(ctx context.Context, method, path string, body map[string]any) (map[string]any, error) {
	var out map[string]any
	var in any
	if body != nil {
		in = body
	}
	err := c.jsonRequest(ctx, method, path, in, &out)
	return out, err
}

func (c *Client) jsonRequest(ctx context.Context, method, path string, in any, out any) error {
	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(raw)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("api status %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
