package board

// Class is a presentation style tag for a status string. The mappings below
// are static lookup tables; statuses missing from a table get the table's
// default class.
type Class string

const (
	ClassDefault Class = "default"
	ClassInfo    Class = "info"
	ClassWarning Class = "warning"
	ClassDanger  Class = "danger"
	ClassSuccess Class = "success"
	ClassFailure Class = "failure"
	ClassTodo    Class = "todo"
)

var stageClasses = map[string]Class{
	"Planning & Design":  ClassWarning,
	"Execution (Active)": ClassInfo,
	"On Hold / Blocked":  ClassDanger,
}

// StageClass maps a project stage to its card style.
func StageClass(stage string) Class {
	if c, ok := stageClasses[stage]; ok {
		return c
	}
	return ClassDefault
}

var taskStatusClasses = map[string]Class{
	"Done":        ClassSuccess,
	"In Progress": ClassWarning,
}

// TaskStatusClass maps a task status to its pill style.
func TaskStatusClass(status string) Class {
	if c, ok := taskStatusClasses[status]; ok {
		return c
	}
	return ClassTodo
}

var logStatusClasses = map[string]Class{
	"success": ClassSuccess,
	"error":   ClassFailure,
}

// LogStatusClass maps a sync-log status tag to its pill style.
func LogStatusClass(status string) Class {
	if c, ok := logStatusClasses[status]; ok {
		return c
	}
	return ClassDefault
}
