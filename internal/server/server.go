// Package server is the aggregation backend the console talks to: it
// authenticates a configured admin user, pulls the dashboard categories
// from the workspace service behind a short TTL cache, and serves the
// SQLite-backed sync logs.
package server

import (
	"context"
	"crypto/hmac"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"synapse-cli/internal/model"
	"synapse-cli/internal/workspace"
)

// AggregateSource pulls one dashboard snapshot; each category degrades
// independently.
type AggregateSource interface {
	PullAll(ctx context.Context) (model.Aggregate, []workspace.PullResult)
}

type Config struct {
	Dir string

	// Identifier/Secret are the single admin credential accepted by
	// /auth/login.
	Identifier string
	Secret     string

	CacheTTL time.Duration
	TokenTTL time.Duration

	Source AggregateSource
	Logs   *LogStore
}

type Server struct {
	cfg    Config
	secret []byte
	cache  *aggregateCache
}

func New(cfg Config) (*Server, error) {
	if strings.TrimSpace(cfg.Identifier) == "" || cfg.Secret == "" {
		return nil, errors.New("server: admin credentials not configured")
	}
	if cfg.Source == nil {
		return nil, errors.New("server: missing aggregate source")
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 10 * time.Minute
	}
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = 12 * time.Hour
	}
	secret, err := loadOrInitSecretKey(cfg.Dir)
	if err != nil {
		return nil, err
	}
	return &Server{
		cfg:    cfg,
		secret: secret,
		cache:  newAggregateCache(cfg.CacheTTL),
	}, nil
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleHealth)
	mux.HandleFunc("POST /auth/login", s.handleLogin)
	mux.HandleFunc("GET /dashboard", s.requireSession(s.handleDashboard))
	mux.HandleFunc("GET /logs", s.requireSession(s.handleLogs))
	return mux
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprintln(w, "synapse backend is healthy")
}

type loginRequest struct {
	Identifier string `json:"identifier"`
	Secret     string `json:"secret"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "request body must be JSON")
		return
	}

	idOK := hmac.Equal([]byte(strings.TrimSpace(req.Identifier)), []byte(s.cfg.Identifier))
	secretOK := hmac.Equal([]byte(req.Secret), []byte(s.cfg.Secret))
	if !idOK || !secretOK {
		writeError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	tok, err := newSessionToken(s.secret, s.cfg.Identifier, s.cfg.TokenTTL)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "could not issue token")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"token": tok})
}

// requireSession verifies the bearer token before invoking next. Any
// verification failure is a 401, which clients treat as session-expired.
func (s *Server) requireSession(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h := strings.TrimSpace(r.Header.Get("Authorization"))
		tok, ok := strings.CutPrefix(h, "Bearer ")
		if !ok || strings.TrimSpace(tok) == "" {
			writeError(w, http.StatusUnauthorized, "missing bearer token")
			return
		}
		if _, err := verifyToken(s.secret, tok); err != nil {
			writeError(w, http.StatusUnauthorized, "invalid or expired token")
			return
		}
		next(w, r)
	}
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	if agg, ok := s.cache.get(); ok {
		writeJSON(w, http.StatusOK, agg)
		return
	}

	agg, results := s.cfg.Source.PullAll(r.Context())
	s.recordPulls(r.Context(), results)

	if allFailed(results) {
		writeError(w, http.StatusBadGateway, "workspace service unreachable")
		return
	}
	s.cache.set(agg)
	writeJSON(w, http.StatusOK, agg)
}

func (s *Server) handleLogs(w http.ResponseWriter, r *http.Request) {
	if s.cfg.Logs == nil {
		writeJSON(w, http.StatusOK, map[string][]model.LogEntry{"logs": {}})
		return
	}
	logs, err := s.cfg.Logs.Recent(r.Context(), 200)
	if err != nil {
		log.Printf("server: reading sync logs: %v", err)
		writeError(w, http.StatusInternalServerError, "could not read sync logs")
		return
	}
	writeJSON(w, http.StatusOK, map[string][]model.LogEntry{"logs": logs})
}

func (s *Server) recordPulls(ctx context.Context, results []workspace.PullResult) {
	if s.cfg.Logs == nil {
		return
	}
	now := time.Now()
	for _, res := range results {
		status := "success"
		details := fmt.Sprintf("pulled %d %s", res.Count, res.Category)
		if res.Err != nil {
			status = "error"
			details = res.Err.Error()
		}
		if err := s.cfg.Logs.Append(ctx, now, "workspace", "pull "+res.Category, details, status); err != nil {
			log.Printf("server: recording sync log: %v", err)
		}
	}
}

func allFailed(results []workspace.PullResult) bool {
	for _, r := range results {
		if r.Err == nil {
			return false
		}
	}
	return len(results) > 0
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError emits the error envelope clients parse: {"description": ...}.
func writeError(w http.ResponseWriter, status int, description string) {
	writeJSON(w, status, map[string]string{"description": description})
}
