package model

import "strings"

// TeamConfig is one row of the Teams sheet: the Jira destination for a
// team's scorecard tickets.
type TeamConfig struct {
	Name       string
	Assignee   string
	Project    string
	EpicLink   string
	IssueType  string
	SprintID   int
	SprintName string
	Component  string
}

// Settings holds the global options from the Config sheet.
type Settings struct {
	Priority   string
	BaseURL    string
	Categories []string
	IssueType  string
}

// DefaultCategories are the scorecard categories analyzed when the
// Config sheet names none.
var DefaultCategories = []string{
	"Ownership", "Quality", "Security", "Reliability",
}

// Custom field wrapper modes.
const (
	WrapNone  = "none"
	WrapValue = "value"
)

// FieldMap declares how a logical field maps onto a Jira custom field:
// the customfield id and how its value must be wrapped in the create
// payload.
type FieldMap struct {
	ID      string
	Wrapper string
}

// Wrap applies the wrapper to a raw value. "value" produces
// {"value": v}, empty or "none" passes the value through, and any
// other wrapper becomes the object key.
func (m FieldMap) Wrap(v any) any {
	switch strings.ToLower(m.Wrapper) {
	case "", WrapNone:
		return v
	default:
		return map[string]any{m.Wrapper: v}
	}
}

// FieldMapping maps logical field names to their Jira custom fields.
type FieldMapping map[string]FieldMap

// TicketRecord is a fully assembled ticket, ready for creation or CSV
// export. Assignee stays out of Fields since assignment is a separate
// call after creation.
type TicketRecord struct {
	Team        string
	Category    string
	Summary     string
	Description string
	IssueType   string
	Project     string
	Assignee    string
	EpicLink    string
	Priority    string
	SprintID    int
	Component   string
	Labels      []string

	// Fields holds extra custom fields for the create payload.
	Fields map[string]any
}
