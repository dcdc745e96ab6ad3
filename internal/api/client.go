package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"synapse-cli/internal/model"
	"synapse-cli/internal/session"
)

// Client talks to the aggregation backend. All authenticated calls attach
// the stored credential as a bearer token; none of them retries.
type Client struct {
	BaseURL  string
	Sessions session.Store

	// HTTPClient may be overridden in tests; nil means a default client with
	// a request timeout.
	HTTPClient *http.Client
}

func (c *Client) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return &http.Client{Timeout: 30 * time.Second}
}

func (c *Client) url(path string) string {
	return strings.TrimRight(c.BaseURL, "/") + path
}

type loginRequest struct {
	Identifier string `json:"identifier"`
	Secret     string `json:"secret"`
}

type loginResponse struct {
	Token string `json:"token"`
}

type errorEnvelope struct {
	Description string `json:"description"`
}

// Login authenticates and returns the bearer credential. It does not
// persist the credential; that is the root controller's decision.
func (c *Client) Login(ctx context.Context, identifier, secret string) (string, error) {
	body, err := json.Marshal(loginRequest{Identifier: identifier, Secret: secret})
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url("/auth/login"), bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return "", fmt.Errorf("login: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("login: %w", err)
	}

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return "", ErrInvalidCredentials
	}
	if resp.StatusCode != http.StatusOK {
		var env errorEnvelope
		if err := json.Unmarshal(raw, &env); err != nil || strings.TrimSpace(env.Description) == "" {
			// Non-JSON error pages (proxies, crash pages) must not leak to users.
			return "", ErrMalformedResponse
		}
		return "", fmt.Errorf("login failed: %s", env.Description)
	}

	var lr loginResponse
	if err := json.Unmarshal(raw, &lr); err != nil || strings.TrimSpace(lr.Token) == "" {
		return "", ErrMalformedResponse
	}
	return lr.Token, nil
}

// FetchDashboard returns the aggregate snapshot. Requires a present session
// credential.
func (c *Client) FetchDashboard(ctx context.Context) (model.Aggregate, error) {
	var agg model.Aggregate
	raw, err := c.getAuthed(ctx, "/dashboard", "dashboard")
	if err != nil {
		return model.Aggregate{}, err
	}
	if err := json.Unmarshal(raw, &agg); err != nil {
		return model.Aggregate{}, &FetchError{Op: "dashboard", Cause: err}
	}
	return agg, nil
}

type logsResponse struct {
	Logs []model.LogEntry `json:"logs"`
}

// FetchLogs returns the sync-log entries. It is fetched independently from
// the dashboard aggregate so either can fail without blocking the other.
func (c *Client) FetchLogs(ctx context.Context) ([]model.LogEntry, error) {
	raw, err := c.getAuthed(ctx, "/logs", "logs")
	if err != nil {
		return nil, err
	}
	var lr logsResponse
	if err := json.Unmarshal(raw, &lr); err != nil {
		return nil, &FetchError{Op: "logs", Cause: err}
	}
	return lr.Logs, nil
}

func (c *Client) getAuthed(ctx context.Context, path, op string) ([]byte, error) {
	tok, ok := c.Sessions.Token()
	if !ok {
		return nil, ErrUnauthenticated
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url(path), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+tok)

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return nil, &FetchError{Op: op, Cause: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return nil, ErrSessionExpired
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &FetchError{Op: op, Cause: fmt.Errorf("unexpected status %d", resp.StatusCode)}
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return nil, &FetchError{Op: op, Cause: err}
	}
	return raw, nil
}
