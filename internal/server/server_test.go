package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"synapse-cli/internal/model"
	"synapse-cli/internal/workspace"
)

type fakeSource struct {
	agg     model.Aggregate
	results []workspace.PullResult
	calls   int
}

func (f *fakeSource) PullAll(ctx context.Context) (model.Aggregate, []workspace.PullResult) {
	f.calls++
	return f.agg, f.results
}

func okResults(agg model.Aggregate) []workspace.PullResult {
	return []workspace.PullResult{
		{Category: "customers", Count: len(agg.Customers)},
		{Category: "stakeholders", Count: len(agg.Stakeholders)},
		{Category: "projects", Count: len(agg.Projects)},
		{Category: "tasks", Count: len(agg.Tasks)},
	}
}

func newTestServer(t *testing.T, src AggregateSource, logs *LogStore) *Server {
	t.Helper()
	s, err := New(Config{
		Dir:        t.TempDir(),
		Identifier: "admin@example.com",
		Secret:     "hunter2",
		Source:     src,
		Logs:       logs,
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return s
}

func doLogin(t *testing.T, h http.Handler, identifier, secret string) *httptest.ResponseRecorder {
	t.Helper()
	body, _ := json.Marshal(map[string]string{"identifier": identifier, "secret": secret})
	req := httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewReader(body))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func loginToken(t *testing.T, h http.Handler) string {
	t.Helper()
	rr := doLogin(t, h, "admin@example.com", "hunter2")
	if rr.Code != http.StatusOK {
		t.Fatalf("login failed: %d %s", rr.Code, rr.Body.String())
	}
	var resp map[string]string
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp["token"] == "" {
		t.Fatalf("empty token in %s", rr.Body.String())
	}
	return resp["token"]
}

func TestLoginIssuesToken(t *testing.T) {
	s := newTestServer(t, &fakeSource{}, nil)
	_ = loginToken(t, s.Handler())
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	s := newTestServer(t, &fakeSource{}, nil)
	h := s.Handler()

	for _, c := range [][2]string{
		{"admin@example.com", "wrong"},
		{"someone@else.com", "hunter2"},
		{"", ""},
	} {
		rr := doLogin(t, h, c[0], c[1])
		if rr.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401 for %v, got %d", c, rr.Code)
		}
		var env map[string]string
		if err := json.Unmarshal(rr.Body.Bytes(), &env); err != nil || env["description"] == "" {
			t.Fatalf("expected error envelope, got %s", rr.Body.String())
		}
	}
}

func TestDashboardRequiresToken(t *testing.T) {
	s := newTestServer(t, &fakeSource{}, nil)
	h := s.Handler()

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", rr.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.Header.Set("Authorization", "Bearer forged.token")
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for forged token, got %d", rr.Code)
	}
}

func TestDashboardServesAndCachesAggregate(t *testing.T) {
	src := &fakeSource{
		agg: model.Aggregate{Projects: []model.Project{{Name: "Apollo", Stage: "1. Plan"}}},
	}
	src.results = okResults(src.agg)
	s := newTestServer(t, src, nil)
	h := s.Handler()
	tok := loginToken(t, h)

	get := func() model.Aggregate {
		req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
		req.Header.Set("Authorization", "Bearer "+tok)
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		if rr.Code != http.StatusOK {
			t.Fatalf("dashboard: %d %s", rr.Code, rr.Body.String())
		}
		var agg model.Aggregate
		if err := json.Unmarshal(rr.Body.Bytes(), &agg); err != nil {
			t.Fatalf("decode: %v", err)
		}
		return agg
	}

	first := get()
	second := get()
	if len(first.Projects) != 1 || first.Projects[0].Name != "Apollo" {
		t.Fatalf("unexpected aggregate: %+v", first)
	}
	if len(second.Projects) != 1 {
		t.Fatalf("cached aggregate lost: %+v", second)
	}
	if src.calls != 1 {
		t.Fatalf("expected one pull (second request cached), got %d", src.calls)
	}
}

func TestDashboardAllPullsFailed(t *testing.T) {
	src := &fakeSource{
		results: []workspace.PullResult{
			{Category: "customers", Err: errors.New("unreachable")},
			{Category: "projects", Err: errors.New("unreachable")},
		},
	}
	s := newTestServer(t, src, nil)
	h := s.Handler()
	tok := loginToken(t, h)

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusBadGateway {
		t.Fatalf("expected 502 when every category fails, got %d", rr.Code)
	}
	if src.calls != 1 {
		t.Fatalf("expected a pull attempt, got %d", src.calls)
	}
}

func TestLogsEndpointRecordsAndServes(t *testing.T) {
	ctx := context.Background()
	logs, err := OpenLogStore(ctx, t.TempDir())
	if err != nil {
		t.Fatalf("OpenLogStore: %v", err)
	}
	defer logs.Close()

	src := &fakeSource{
		agg: model.Aggregate{Customers: []model.Customer{{CompanyName: "Acme"}}},
		results: []workspace.PullResult{
			{Category: "customers", Count: 1},
			{Category: "tasks", Err: errors.New("tasks database not found")},
		},
	}
	s := newTestServer(t, src, logs)
	h := s.Handler()
	tok := loginToken(t, h)

	// A dashboard pull writes one sync-log entry per category.
	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("dashboard: %d", rr.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/logs", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("logs: %d %s", rr.Code, rr.Body.String())
	}

	var resp struct {
		Logs []model.LogEntry `json:"logs"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Logs) != 2 {
		t.Fatalf("expected 2 log entries, got %d", len(resp.Logs))
	}
	statuses := map[string]bool{}
	for _, e := range resp.Logs {
		statuses[e.Status] = true
		if e.Service != "workspace" {
			t.Fatalf("unexpected service %q", e.Service)
		}
	}
	if !statuses["success"] || !statuses["error"] {
		t.Fatalf("expected one success and one error entry, got %+v", resp.Logs)
	}
}

func TestCacheExpiry(t *testing.T) {
	c := newAggregateCache(10 * time.Minute)
	now := time.Date(2026, 8, 27, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	if _, ok := c.get(); ok {
		t.Fatalf("empty cache must miss")
	}
	c.set(model.Aggregate{Projects: []model.Project{{Name: "Apollo"}}})
	if agg, ok := c.get(); !ok || len(agg.Projects) != 1 {
		t.Fatalf("expected hit, got ok=%v", ok)
	}

	now = now.Add(10 * time.Minute)
	if _, ok := c.get(); ok {
		t.Fatalf("expected miss after TTL")
	}
}

func TestLogStoreRecentOrder(t *testing.T) {
	ctx := context.Background()
	logs, err := OpenLogStore(ctx, t.TempDir())
	if err != nil {
		t.Fatalf("OpenLogStore: %v", err)
	}
	defer logs.Close()

	base := time.Date(2026, 8, 27, 6, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		if err := logs.Append(ctx, base.Add(time.Duration(i)*time.Minute), "workspace", "pull", "ok", "success"); err != nil {
			t.Fatalf("Append: %v", err)
		}
	}

	got, err := logs.Recent(ctx, 2)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected limit respected, got %d", len(got))
	}
	if got[0].Timestamp != "2026-08-27T06:02:00Z" || got[1].Timestamp != "2026-08-27T06:01:00Z" {
		t.Fatalf("expected newest first, got %+v", got)
	}
}
