package jira

import (
	"encoding/json"
	"fmt"
	"time"
)

// timeLayouts are the timestamp formats the REST API emits for created
// and updated fields: a numeric offset without a colon on Server/DC,
// RFC 3339 elsewhere.
var timeLayouts = []string{
	"2006-01-02T15:04:05.000-0700",
	time.RFC3339,
}

// ParseTime parses an issue timestamp such as the created field.
func ParseTime(s string) (time.Time, error) {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}

// SearchResponse is the response from POST /rest/api/2/search.
type SearchResponse struct {
	StartAt    int     `json:"startAt"`
	MaxResults int     `json:"maxResults"`
	Total      int     `json:"total"`
	Issues     []Issue `json:"issues"`
}

// Issue represents a single Jira issue from the REST API.
type Issue struct {
	ID     string      `json:"id"`
	Key    string      `json:"key"`
	Self   string      `json:"self"`
	Fields IssueFields `json:"fields"`
}

// IssueFields contains the standard fields of a Jira issue. Custom
// fields (customfield_*) are captured in Custom since their identifiers
// vary per instance.
type IssueFields struct {
	Summary      string        `json:"summary"`
	Status       Status        `json:"status"`
	Priority     Priority      `json:"priority"`
	IssueType    IssueType     `json:"issuetype"`
	Assignee     *User         `json:"assignee"`
	Reporter     *User         `json:"reporter"`
	Project      Project       `json:"project"`
	Created      string        `json:"created"`
	Updated      string        `json:"updated"`
	DueDate      string        `json:"duedate,omitempty"`
	Labels       []string      `json:"labels,omitempty"`
	Description  string        `json:"description,omitempty"`
	IssueLinks   []IssueLink   `json:"issuelinks,omitempty"`
	TimeTracking *TimeTracking `json:"timetracking,omitempty"`
	Parent       *LinkedIssue  `json:"parent,omitempty"`

	Custom map[string]json.RawMessage `json:"-"`
}

// issueFieldsAlias avoids recursion in UnmarshalJSON.
type issueFieldsAlias IssueFields

// UnmarshalJSON decodes the known fields and collects custom fields
// into the Custom map.
func (f *IssueFields) UnmarshalJSON(data []byte) error {
	var alias issueFieldsAlias
	if err := json.Unmarshal(data, &alias); err != nil {
		return err
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*f = IssueFields(alias)
	for key, value := range raw {
		if len(key) > 12 && key[:12] == "customfield_" {
			if f.Custom == nil {
				f.Custom = make(map[string]json.RawMessage)
			}
			f.Custom[key] = value
		}
	}
	return nil
}

// Status represents the status of a Jira issue.
type Status struct {
	Name           string         `json:"name"`
	ID             string         `json:"id"`
	StatusCategory StatusCategory `json:"statusCategory"`
}

// StatusCategory is the broad category a status belongs to.
type StatusCategory struct {
	Key  string `json:"key"`
	Name string `json:"name"`
}

// Priority represents the priority level of a Jira issue.
type Priority struct {
	Name string `json:"name"`
	ID   string `json:"id"`
}

// IssueType represents the type of a Jira issue (Bug, Story, etc.).
type IssueType struct {
	Name string `json:"name"`
	ID   string `json:"id"`
}

// User represents a Jira user.
type User struct {
	Key          string `json:"key"`
	Name         string `json:"name"`
	DisplayName  string `json:"displayName"`
	EmailAddress string `json:"emailAddress"`
}

// Project represents a Jira project.
type Project struct {
	Key  string `json:"key"`
	Name string `json:"name"`
}

// IssueLink is a typed link between two issues. Exactly one of
// InwardIssue and OutwardIssue is set, depending on the direction of
// the link relative to the issue it appears on.
type IssueLink struct {
	ID           string        `json:"id,omitempty"`
	Type         IssueLinkType `json:"type"`
	InwardIssue  *LinkedIssue  `json:"inwardIssue,omitempty"`
	OutwardIssue *LinkedIssue  `json:"outwardIssue,omitempty"`
}

// IssueLinkType names a link relationship (e.g. Blocks, Relates).
type IssueLinkType struct {
	Name    string `json:"name"`
	Inward  string `json:"inward,omitempty"`
	Outward string `json:"outward,omitempty"`
}

// LinkedIssue is the abbreviated issue embedded in a link.
type LinkedIssue struct {
	ID     string `json:"id,omitempty"`
	Key    string `json:"key"`
	Fields struct {
		Summary   string    `json:"summary"`
		Status    Status    `json:"status"`
		IssueType IssueType `json:"issuetype"`
	} `json:"fields"`
}

// TimeTracking holds the estimate fields of an issue.
type TimeTracking struct {
	OriginalEstimate         string `json:"originalEstimate,omitempty"`
	RemainingEstimate        string `json:"remainingEstimate,omitempty"`
	TimeSpent                string `json:"timeSpent,omitempty"`
	OriginalEstimateSeconds  int    `json:"originalEstimateSeconds,omitempty"`
	RemainingEstimateSeconds int    `json:"remainingEstimateSeconds,omitempty"`
	TimeSpentSeconds         int    `json:"timeSpentSeconds,omitempty"`
}

// Sprint is an agile board sprint from GET /rest/agile/1.0/sprint/{id}.
type Sprint struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	State     string `json:"state"`
	StartDate string `json:"startDate,omitempty"`
	EndDate   string `json:"endDate,omitempty"`
}

// Field describes a field definition from GET /rest/api/2/field.
type Field struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Custom bool   `json:"custom"`
	Schema struct {
		Type   string `json:"type"`
		Custom string `json:"custom,omitempty"`
	} `json:"schema"`
}

// CreateResponse is the response from POST /rest/api/2/issue.
type CreateResponse struct {
	ID   string `json:"id"`
	Key  string `json:"key"`
	Self string `json:"self"`
}

// Myself is the response from GET /rest/api/2/myself.
type Myself struct {
	Key          string `json:"key"`
	Name         string `json:"name"`
	DisplayName  string `json:"displayName"`
	EmailAddress string `json:"emailAddress"`
	Active       bool   `json:"active"`
}

// ErrorResponse is the standard Jira error response format.
type ErrorResponse struct {
	ErrorMessages []string          `json:"errorMessages"`
	Errors        map[string]string `json:"errors"`
}
