package model

// Record types for the dashboard aggregate. Fields are decoded from the
// backend's JSON and defaulted to "" when absent; presentation layers
// substitute the "N/A" placeholder, never the zero value directly.

type Project struct {
	ID          string `json:"id,omitempty"`
	Name        string `json:"project_name"`
	Stage       string `json:"stage"`
	Status      string `json:"status"`
	ProcessStep string `json:"process_step"`
	Description string `json:"description"`
	Manager     string `json:"manager"`
	Customer    string `json:"customer"`
}

type Customer struct {
	ID                 string `json:"id,omitempty"`
	CompanyName        string `json:"company_name"`
	CRMPhase           string `json:"crm_phase"`
	InitialProjectIdea string `json:"initial_project_idea"`
	NextStepSummary    string `json:"next_step_summary"`
	Status             string `json:"status"`
}

type Stakeholder struct {
	ID              string `json:"id,omitempty"`
	Name            string `json:"stakeholder_name"`
	Phase           string `json:"stakeholder_phase"`
	Purpose         string `json:"purpose"`
	NextStepSummary string `json:"next_step_summary"`
	Status          string `json:"status"`
}

type Task struct {
	ID          string `json:"id,omitempty"`
	Title       string `json:"title"`
	Type        string `json:"type"`
	EntityName  string `json:"entity_name"`
	Responsible string `json:"responsible_name"`
	PlannedEnd  string `json:"planned_end_date"`
	Status      string `json:"status"`
	Importance  string `json:"important"`
	Priority    string `json:"priority"`
}

type LogEntry struct {
	ID        string `json:"id,omitempty"`
	Timestamp string `json:"timestamp"`
	Service   string `json:"service"`
	Action    string `json:"action"`
	Details   string `json:"details"`
	Message   string `json:"message"`
	Status    string `json:"status"`
}

// Aggregate is the combined dashboard snapshot, fetched once per
// authenticated session entry. It is treated as read-only after decode.
type Aggregate struct {
	Projects     []Project     `json:"projects"`
	Customers    []Customer    `json:"customers"`
	Stakeholders []Stakeholder `json:"stakeholders"`
	Tasks        []Task        `json:"tasks"`
	SyncLogs     []LogEntry    `json:"sync_logs,omitempty"`
}
