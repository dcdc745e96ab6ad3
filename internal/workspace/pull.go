package workspace

import (
	"context"
	"os"
	"strings"

	"synapse-cli/internal/model"
)

// Databases holds the ids of the service databases a pull reads.
type Databases struct {
	CRM          string
	Stakeholders string
	Projects     string
	Tasks        string
	NextSteps    string
	People       string
	Features     string
}

// Config is everything needed to reach the workspace service.
type Config struct {
	BaseURL string
	Key     string
	DBs     Databases
}

// ConfigFromEnv reads the service credentials and database ids from the
// environment, the way the one-shot report job is configured.
func ConfigFromEnv() Config {
	return Config{
		BaseURL: envOr("SYNAPSE_WORKSPACE_URL", "https://api.workspace.example.com"),
		Key:     os.Getenv("SYNAPSE_WORKSPACE_KEY"),
		DBs: Databases{
			CRM:          os.Getenv("SYNAPSE_CRM_DB_ID"),
			Stakeholders: os.Getenv("SYNAPSE_STAKEHOLDER_DB_ID"),
			Projects:     os.Getenv("SYNAPSE_PROJECTS_DB_ID"),
			Tasks:        os.Getenv("SYNAPSE_TASKS_DB_ID"),
			NextSteps:    os.Getenv("SYNAPSE_NEXT_STEPS_DB_ID"),
			People:       os.Getenv("SYNAPSE_PEOPLE_DB_ID"),
			Features:     os.Getenv("SYNAPSE_FEATURES_DB_ID"),
		},
	}
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

// Source performs category pulls against one workspace, joining relation
// lookups in memory.
type Source struct {
	Client *Client
	DBs    Databases
}

func NewSource(cfg Config) *Source {
	return &Source{
		Client: &Client{BaseURL: cfg.BaseURL, Key: cfg.Key},
		DBs:    cfg.DBs,
	}
}

// Customers pulls the CRM database.
func (s *Source) Customers(ctx context.Context) ([]model.Customer, error) {
	pages, err := s.Client.QueryDatabase(ctx, s.DBs.CRM)
	if err != nil {
		return nil, err
	}
	out := make([]model.Customer, 0, len(pages))
	for _, pg := range pages {
		out = append(out, model.Customer{
			ID:                 pg.ID,
			CompanyName:        pg.Prop("Company Name"),
			CRMPhase:           pg.Prop("CRM Phase"),
			InitialProjectIdea: pg.Prop("Initial Project Idea"),
			NextStepSummary:    pg.Prop("Meeting Next Steps"),
			Status:             pg.Prop("Status"),
		})
	}
	return out, nil
}

// Stakeholders pulls the stakeholder database and resolves the linked
// next-step text from the next-steps database.
func (s *Source) Stakeholders(ctx context.Context) ([]model.Stakeholder, error) {
	pages, err := s.Client.QueryDatabase(ctx, s.DBs.Stakeholders)
	if err != nil {
		return nil, err
	}
	nextStepText, err := s.lookup(ctx, s.DBs.NextSteps, "Next Steps")
	if err != nil {
		return nil, err
	}

	out := make([]model.Stakeholder, 0, len(pages))
	for _, pg := range pages {
		steps := make([]string, 0)
		for _, id := range pg.RelationIDs("Next Steps") {
			if txt := strings.TrimSpace(nextStepText[id]); txt != "" {
				steps = append(steps, txt)
			}
		}
		summary := strings.Join(steps, "; ")
		if summary == "" {
			summary = "N/A"
		}
		out = append(out, model.Stakeholder{
			ID:              pg.ID,
			Name:            pg.Prop("Stakeholder Name"),
			Phase:           pg.Prop("Stakeholder Phase"),
			Purpose:         pg.Prop("Purpose"),
			NextStepSummary: summary,
			Status:          pg.Prop("Status"),
		})
	}
	return out, nil
}

// Projects pulls the projects database and resolves customer names from the
// CRM database.
func (s *Source) Projects(ctx context.Context) ([]model.Project, error) {
	pages, err := s.Client.QueryDatabase(ctx, s.DBs.Projects)
	if err != nil {
		return nil, err
	}
	customerName, err := s.lookup(ctx, s.DBs.CRM, "Company Name")
	if err != nil {
		return nil, err
	}

	out := make([]model.Project, 0, len(pages))
	for _, pg := range pages {
		names := make([]string, 0)
		for _, id := range pg.RelationIDs("Customer") {
			if n := strings.TrimSpace(customerName[id]); n != "" {
				names = append(names, n)
			}
		}
		customer := strings.Join(names, "; ")
		if customer == "" {
			customer = "No Company Contracted"
		}
		out = append(out, model.Project{
			ID:          pg.ID,
			Name:        pg.Prop("Project Name"),
			Customer:    customer,
			Stage:       fallback(pg.Prop("Stage"), "0. Not Started"),
			Status:      fallback(pg.Prop("Project Status"), "No Status"),
			ProcessStep: fallback(pg.Prop("Process Step"), "No steps taken"),
			Manager:     pg.Prop("Project Manager"),
			Description: pg.Prop("Description"),
		})
	}
	return out, nil
}

// Tasks pulls the tasks database, resolving responsible-person names from
// the people database and the owning entity's name from the stakeholder and
// CRM databases.
func (s *Source) Tasks(ctx context.Context) ([]model.Task, error) {
	pages, err := s.Client.QueryDatabase(ctx, s.DBs.Tasks)
	if err != nil {
		return nil, err
	}
	personName, err := s.lookup(ctx, s.DBs.People, "First Name")
	if err != nil {
		return nil, err
	}
	entityName, err := s.lookup(ctx, s.DBs.Stakeholders, "Stakeholder Name")
	if err != nil {
		return nil, err
	}
	customerName, err := s.lookup(ctx, s.DBs.CRM, "Company Name")
	if err != nil {
		return nil, err
	}
	for id, n := range customerName {
		entityName[id] = n
	}

	out := make([]model.Task, 0, len(pages))
	for _, pg := range pages {
		entityIDs := pg.RelationIDs("Stakeholder")
		if len(entityIDs) == 0 {
			entityIDs = pg.RelationIDs("Customer")
		}
		out = append(out, model.Task{
			ID:          pg.ID,
			Title:       pg.Prop("Title"),
			Type:        pg.Prop("Task Type"),
			EntityName:  fallback(joinLookup(entityIDs, entityName), "No Entity Name"),
			Responsible: fallback(joinLookup(pg.RelationIDs("Responsible"), personName), "No person assigned"),
			PlannedEnd:  fallback(pg.Prop("Planned_End"), "No planned end date"),
			Status:      fallback(pg.Prop("Status"), "No Status Set"),
			Importance:  pg.Prop("Importance"),
			Priority:    pg.Prop("Priority"),
		})
	}
	return out, nil
}

// Feature is one planned unit of project work, linked to its project by
// relation. Features feed the tracker sync, not the dashboard aggregate.
type Feature struct {
	ID         string
	Name       string
	Content    string
	ProjectIDs []string
}

// Features pulls the features database.
func (s *Source) Features(ctx context.Context) ([]Feature, error) {
	pages, err := s.Client.QueryDatabase(ctx, s.DBs.Features)
	if err != nil {
		return nil, err
	}
	out := make([]Feature, 0, len(pages))
	for _, pg := range pages {
		out = append(out, Feature{
			ID:         pg.ID,
			Name:       pg.Prop("Feature Name"),
			Content:    pg.Prop("Content"),
			ProjectIDs: pg.RelationIDs("Project"),
		})
	}
	return out, nil
}

// lookup builds a page-id -> property-text map over an entire database.
func (s *Source) lookup(ctx context.Context, databaseID, prop string) (map[string]string, error) {
	pages, err := s.Client.QueryDatabase(ctx, databaseID)
	if err != nil {
		return nil, err
	}
	m := make(map[string]string, len(pages))
	for _, pg := range pages {
		m[pg.ID] = pg.Prop(prop)
	}
	return m, nil
}

func joinLookup(ids []string, byID map[string]string) string {
	parts := make([]string, 0, len(ids))
	for _, id := range ids {
		if n := strings.TrimSpace(byID[id]); n != "" {
			parts = append(parts, n)
		}
	}
	return strings.Join(parts, "; ")
}

func fallback(s, d string) string {
	if strings.TrimSpace(s) == "" {
		return d
	}
	return s
}

// PullResult is one category outcome from PullAll. A failed category
// degrades to an empty list; Err records why.
type PullResult struct {
	Category string
	Count    int
	Err      error
}

// PullAll fetches every category, letting each fail independently: a failed
// pull leaves its slice empty rather than aborting the snapshot.
func (s *Source) PullAll(ctx context.Context) (model.Aggregate, []PullResult) {
	var agg model.Aggregate
	results := make([]PullResult, 0, 4)

	customers, err := s.Customers(ctx)
	if err == nil {
		agg.Customers = customers
	}
	results = append(results, PullResult{Category: "customers", Count: len(customers), Err: err})

	stakeholders, err := s.Stakeholders(ctx)
	if err == nil {
		agg.Stakeholders = stakeholders
	}
	results = append(results, PullResult{Category: "stakeholders", Count: len(stakeholders), Err: err})

	projects, err := s.Projects(ctx)
	if err == nil {
		agg.Projects = projects
	}
	results = append(results, PullResult{Category: "projects", Count: len(projects), Err: err})

	tasks, err := s.Tasks(ctx)
	if err == nil {
		agg.Tasks = tasks
	}
	results = append(results, PullResult{Category: "tasks", Count: len(tasks), Err: err})

	return agg, results
}
