// Package tracker reconciles workspace projects against an external issue
// tracker: one repository per project, one issue per planned feature. It is
// the producer of the "github-sync" entries the dashboard's sync-log view
// shows.
package tracker

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

type Client struct {
	BaseURL string
	Token   string
	// Owner is the account repositories live under.
	Owner string

	HTTPClient *http.Client
}

func (c *Client) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return &http.Client{Timeout: 60 * time.Second}
}

type Repo struct {
	Name string `json:"name"`
}

type Issue struct {
	Number int    `json:"number"`
	Title  string `json:"title"`
	Body   string `json:"body"`
}

// ListRepos returns the names of every repository under the owner.
func (c *Client) ListRepos(ctx context.Context) ([]string, error) {
	var repos []Repo
	if err := c.do(ctx, http.MethodGet, "/user/repos", nil, &repos); err != nil {
		return nil, err
	}
	names := make([]string, 0, len(repos))
	for _, r := range repos {
		names = append(names, r.Name)
	}
	return names, nil
}

func (c *Client) CreateRepo(ctx context.Context, name, description string) error {
	body := map[string]any{"name": name, "description": description, "private": false}
	return c.do(ctx, http.MethodPost, "/user/repos", body, nil)
}

func (c *Client) ListIssues(ctx context.Context, repo string) ([]Issue, error) {
	var issues []Issue
	path := fmt.Sprintf("/repos/%s/%s/issues", c.Owner, repo)
	if err := c.do(ctx, http.MethodGet, path, nil, &issues); err != nil {
		return nil, err
	}
	return issues, nil
}

func (c *Client) CreateIssue(ctx context.Context, repo, title, body string) error {
	path := fmt.Sprintf("/repos/%s/%s/issues", c.Owner, repo)
	return c.do(ctx, http.MethodPost, path, map[string]string{"title": title, "body": body}, nil)
}

func (c *Client) UpdateIssueBody(ctx context.Context, repo string, number int, body string) error {
	path := fmt.Sprintf("/repos/%s/%s/issues/%d", c.Owner, repo, number)
	return c.do(ctx, http.MethodPatch, path, map[string]string{"body": body}, nil)
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var rd io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return err
		}
		rd = bytes.NewReader(b)
	}

	url := strings.TrimRight(c.BaseURL, "/") + path
	req, err := http.NewRequestWithContext(ctx, method, url, rd)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.Token)
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return fmt.Errorf("tracker: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return fmt.Errorf("tracker: %s %s: %w", method, path, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("tracker: %s %s: unexpected status %d", method, path, resp.StatusCode)
	}
	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			return fmt.Errorf("tracker: %s %s: %w", method, path, err)
		}
	}
	return nil
}
