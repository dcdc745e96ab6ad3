package tracker

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"synapse-cli/internal/model"
	"synapse-cli/internal/workspace"
)

type stubSource struct {
	projects []model.Project
	features []workspace.Feature
}

func (s stubSource) Projects(ctx context.Context) ([]model.Project, error) { return s.projects, nil }
func (s stubSource) Features(ctx context.Context) ([]workspace.Feature, error) {
	return s.features, nil
}

// fakeTracker serves an in-memory repo/issue state and records mutations.
type fakeTracker struct {
	mu      sync.Mutex
	repos   map[string][]Issue
	created []string // "repo:<name>" / "issue:<repo>/<title>" / "update:<repo>/<title>"
	failOn  string   // repo name whose creation returns 500
}

func (f *fakeTracker) serve(t *testing.T) *Client {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("GET /user/repos", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		repos := make([]Repo, 0, len(f.repos))
		for name := range f.repos {
			repos = append(repos, Repo{Name: name})
		}
		json.NewEncoder(w).Encode(repos)
	})
	mux.HandleFunc("POST /user/repos", func(w http.ResponseWriter, r *http.Request) {
		var body Repo
		json.NewDecoder(r.Body).Decode(&body)
		f.mu.Lock()
		defer f.mu.Unlock()
		if body.Name == f.failOn {
			http.Error(w, "boom", http.StatusInternalServerError)
			return
		}
		f.repos[body.Name] = nil
		f.created = append(f.created, "repo:"+body.Name)
		w.WriteHeader(http.StatusCreated)
	})
	mux.HandleFunc("GET /repos/{owner}/{repo}/issues", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		issues := f.repos[r.PathValue("repo")]
		if issues == nil {
			issues = []Issue{}
		}
		json.NewEncoder(w).Encode(issues)
	})
	mux.HandleFunc("POST /repos/{owner}/{repo}/issues", func(w http.ResponseWriter, r *http.Request) {
		var is Issue
		json.NewDecoder(r.Body).Decode(&is)
		f.mu.Lock()
		defer f.mu.Unlock()
		repo := r.PathValue("repo")
		is.Number = len(f.repos[repo]) + 1
		f.repos[repo] = append(f.repos[repo], is)
		f.created = append(f.created, "issue:"+repo+"/"+is.Title)
		w.WriteHeader(http.StatusCreated)
	})
	mux.HandleFunc("PATCH /repos/{owner}/{repo}/issues/{number}", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		repo := r.PathValue("repo")
		f.created = append(f.created, "update:"+repo+"/"+r.PathValue("number"))
		w.WriteHeader(http.StatusOK)
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return &Client{BaseURL: srv.URL, Token: "t", Owner: "acme"}
}

func contains(hay []string, needle string) bool {
	for _, h := range hay {
		if h == needle {
			return true
		}
	}
	return false
}

func TestSlug(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"Project Apollo", "project-apollo"},
		{"  Mixed Case Name ", "mixed-case-name"},
		{"single", "single"},
	}
	for _, c := range cases {
		if got := Slug(c.in); got != c.want {
			t.Fatalf("Slug(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestSyncCreatesRepoAndIssuesForNewProject(t *testing.T) {
	ft := &fakeTracker{repos: map[string][]Issue{}}
	client := ft.serve(t)

	src := stubSource{
		projects: []model.Project{{ID: "p1", Name: "Project Apollo", Status: "Active"}},
		features: []workspace.Feature{
			{ID: "f1", Name: "Auth flow", Content: "token login", ProjectIDs: []string{"p1"}},
			{ID: "f2", Name: "Dashboard", Content: "kanban", ProjectIDs: []string{"p1"}},
		},
	}

	actions, err := (&Syncer{Source: src, Client: client}).Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if !contains(ft.created, "repo:project-apollo") {
		t.Fatalf("expected repo created; got %v", ft.created)
	}
	if !contains(ft.created, "issue:project-apollo/Auth flow") || !contains(ft.created, "issue:project-apollo/Dashboard") {
		t.Fatalf("expected both feature issues created; got %v", ft.created)
	}
	if len(actions) != 3 {
		t.Fatalf("expected 3 actions; got %+v", actions)
	}
}

func TestSyncUpdatesExistingRepo(t *testing.T) {
	ft := &fakeTracker{repos: map[string][]Issue{
		"project-apollo": {
			{Number: 1, Title: "Auth flow", Body: "stale body"},
			{Number: 2, Title: "Dashboard", Body: "kanban"},
		},
	}}
	client := ft.serve(t)

	src := stubSource{
		projects: []model.Project{{ID: "p1", Name: "Project Apollo", Status: "Active"}},
		features: []workspace.Feature{
			{Name: "Auth flow", Content: "token login", ProjectIDs: []string{"p1"}},
			{Name: "Dashboard", Content: "kanban", ProjectIDs: []string{"p1"}},
			{Name: "Reports", Content: "weekly html", ProjectIDs: []string{"p1"}},
		},
	}

	actions, err := (&Syncer{Source: src, Client: client}).Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if !contains(ft.created, "update:project-apollo/1") {
		t.Fatalf("expected stale issue updated; got %v", ft.created)
	}
	if !contains(ft.created, "issue:project-apollo/Reports") {
		t.Fatalf("expected new feature issue created; got %v", ft.created)
	}
	if contains(ft.created, "repo:project-apollo") {
		t.Fatalf("existing repo must not be recreated")
	}

	kinds := map[string]int{}
	for _, a := range actions {
		kinds[a.Kind]++
	}
	if kinds["update-issue"] != 1 || kinds["create-issue"] != 1 || kinds["up-to-date"] != 1 {
		t.Fatalf("unexpected action mix: %+v", actions)
	}
}

func TestSyncSkipsCompletedProjects(t *testing.T) {
	ft := &fakeTracker{repos: map[string][]Issue{}}
	client := ft.serve(t)

	src := stubSource{
		projects: []model.Project{{ID: "p1", Name: "Old Project", Status: "Completed"}},
	}

	actions, err := (&Syncer{Source: src, Client: client}).Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(actions) != 0 || len(ft.created) != 0 {
		t.Fatalf("completed project must not sync; actions=%+v created=%v", actions, ft.created)
	}
}

func TestSyncRecordsErrorAndContinues(t *testing.T) {
	ft := &fakeTracker{repos: map[string][]Issue{}, failOn: "broken-project"}
	client := ft.serve(t)

	src := stubSource{
		projects: []model.Project{
			{ID: "p1", Name: "Broken Project", Status: "Active"},
			{ID: "p2", Name: "Good Project", Status: "Active"},
		},
	}

	actions, err := (&Syncer{Source: src, Client: client}).Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	var errored, created bool
	for _, a := range actions {
		if a.Project == "Broken Project" && a.Err != nil {
			errored = true
		}
		if a.Project == "Good Project" && a.Kind == "create-repo" && a.Err == nil {
			created = true
		}
	}
	if !errored {
		t.Fatalf("expected error action for the failing project; got %+v", actions)
	}
	if !created {
		t.Fatalf("expected the remaining project to sync; got %+v", actions)
	}
}
