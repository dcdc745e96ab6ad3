// Package workspace is a client for the hosted workspace-database service
// the report and aggregation backends pull from. Each category of records
// (customers, stakeholders, projects, tasks) lives in its own database of
// pages with typed properties.
package workspace

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
	Key     string

	HTTPClient *http.Client
}

func (c *Client) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return &http.Client{Timeout: 60 * time.Second}
}

type queryRequest struct {
	StartCursor string `json:"start_cursor,omitempty"`
}

type queryResponse struct {
	Results    []Page `json:"results"`
	HasMore    bool   `json:"has_more"`
	NextCursor string `json:"next_cursor"`
}

// QueryDatabase returns every page of the database, following pagination
// cursors until the service reports no more results.
func (c *Client) QueryDatabase(ctx context.Context, databaseID string) ([]Page, error) {
	databaseID = strings.TrimSpace(databaseID)
	if databaseID == "" {
		return nil, fmt.Errorf("workspace: missing database id")
	}

	var pages []Page
	cursor := ""
	for {
		qr, err := c.queryOnce(ctx, databaseID, cursor)
		if err != nil {
			return nil, err
		}
		pages = append(pages, qr.Results...)
		if !qr.HasMore || strings.TrimSpace(qr.NextCursor) == "" {
			return pages, nil
		}
		cursor = qr.NextCursor
	}
}

func (c *Client) queryOnce(ctx context.Context, databaseID, cursor string) (queryResponse, error) {
	body, err := json.Marshal(queryRequest{StartCursor: cursor})
	if err != nil {
		return queryResponse{}, err
	}

	url := strings.TrimRight(c.BaseURL, "/") + "/v1/databases/" + databaseID + "/query"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return queryResponse{}, err
	}
	req.Header.Set("Authorization", "Bearer "+c.Key)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return queryResponse{}, fmt.Errorf("workspace: query %s: %w", databaseID, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 16<<20))
	if err != nil {
		return queryResponse{}, fmt.Errorf("workspace: query %s: %w", databaseID, err)
	}
	if resp.StatusCode != http.StatusOK {
		return queryResponse{}, fmt.Errorf("workspace: query %s: unexpected status %d", databaseID, resp.StatusCode)
	}

	var qr queryResponse
	if err := json.Unmarshal(raw, &qr); err != nil {
		return queryResponse{}, fmt.Errorf("workspace: query %s: %w", databaseID, err)
	}
	return qr, nil
}
