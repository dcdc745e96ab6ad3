package tracker

import (
	"context"
	"fmt"
	"strings"

	"synapse-cli/internal/model"
	"synapse-cli/internal/workspace"
)

// Source is the slice of the workspace a sync reads.
type Source interface {
	Projects(ctx context.Context) ([]model.Project, error)
	Features(ctx context.Context) ([]workspace.Feature, error)
}

// Action is one reconciliation outcome, recorded in the sync log.
type Action struct {
	Project string
	Kind    string // "create-repo", "create-issue", "update-issue", "up-to-date"
	Detail  string
	Err     error
}

// Syncer drives one reconciliation pass: every non-completed workspace
// project gets a repository named after it, and every feature linked to the
// project gets an issue whose body tracks the feature content.
type Syncer struct {
	Source Source
	Client *Client
}

// Run reconciles and reports what it did. A project that fails mid-way is
// recorded as an error action and does not stop the remaining projects;
// only failures to list the inputs abort the pass.
func (s *Syncer) Run(ctx context.Context) ([]Action, error) {
	projects, err := s.Source.Projects(ctx)
	if err != nil {
		return nil, fmt.Errorf("sync: pulling projects: %w", err)
	}
	features, err := s.Source.Features(ctx)
	if err != nil {
		return nil, fmt.Errorf("sync: pulling features: %w", err)
	}
	repoNames, err := s.Client.ListRepos(ctx)
	if err != nil {
		return nil, fmt.Errorf("sync: listing repositories: %w", err)
	}

	byProject := map[string][]workspace.Feature{}
	for _, f := range features {
		for _, pid := range f.ProjectIDs {
			byProject[pid] = append(byProject[pid], f)
		}
	}
	repos := map[string]bool{}
	for _, n := range repoNames {
		repos[n] = true
	}

	var actions []Action
	for _, p := range projects {
		name := strings.TrimSpace(p.Name)
		if name == "" || strings.EqualFold(strings.TrimSpace(p.Status), "Completed") {
			continue
		}
		acts := s.syncProject(ctx, name, Slug(name), repos, byProject[p.ID])
		actions = append(actions, acts...)
	}
	return actions, nil
}

func (s *Syncer) syncProject(ctx context.Context, name, repo string, repos map[string]bool, feats []workspace.Feature) []Action {
	var actions []Action
	fail := func(kind, detail string, err error) []Action {
		return append(actions, Action{Project: name, Kind: kind, Detail: detail, Err: err})
	}

	if !repos[repo] {
		if err := s.Client.CreateRepo(ctx, repo, "Repo for "+name); err != nil {
			return fail("create-repo", repo, err)
		}
		actions = append(actions, Action{Project: name, Kind: "create-repo", Detail: repo})
		for _, f := range feats {
			if err := s.Client.CreateIssue(ctx, repo, f.Name, f.Content); err != nil {
				return fail("create-issue", f.Name, err)
			}
			actions = append(actions, Action{Project: name, Kind: "create-issue", Detail: f.Name})
		}
		return actions
	}

	issues, err := s.Client.ListIssues(ctx, repo)
	if err != nil {
		return fail("up-to-date", repo, err)
	}
	byTitle := map[string]Issue{}
	for _, is := range issues {
		byTitle[is.Title] = is
	}

	for _, f := range feats {
		existing, ok := byTitle[f.Name]
		switch {
		case !ok:
			if err := s.Client.CreateIssue(ctx, repo, f.Name, f.Content); err != nil {
				return fail("create-issue", f.Name, err)
			}
			actions = append(actions, Action{Project: name, Kind: "create-issue", Detail: f.Name})
		case existing.Body != f.Content:
			if err := s.Client.UpdateIssueBody(ctx, repo, existing.Number, f.Content); err != nil {
				return fail("update-issue", f.Name, err)
			}
			actions = append(actions, Action{Project: name, Kind: "update-issue", Detail: f.Name})
		default:
			actions = append(actions, Action{Project: name, Kind: "up-to-date", Detail: f.Name})
		}
	}
	return actions
}

// Slug is the repository name derived from a project name: lowercased,
// spaces replaced with dashes.
func Slug(name string) string {
	return strings.ToLower(strings.ReplaceAll(strings.TrimSpace(name), " ", "-"))
}
