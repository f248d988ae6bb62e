// Package subtasks finds subtasks assigned to one user whose parent
// ticket is owned by somebody else, within an update window.
package subtasks

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/nhle/jira-toolkit/internal/jira"
)

// Unassigned stands in when an issue has no assignee.
const Unassigned = "Unassigned"

// Mismatch pairs a subtask with its differently-owned parent.
type Mismatch struct {
	SubtaskKey      string
	SubtaskSummary  string
	SubtaskStatus   string
	SubtaskAssignee string

	ParentKey      string
	ParentSummary  string
	ParentStatus   string
	ParentAssignee string
}

// Client is the slice of the Jira client the search needs.
type Client interface {
	SearchIssues(ctx context.Context, jql string, fields []string) ([]jira.Issue, error)
	GetIssue(ctx context.Context, key string, fields []string) (*jira.Issue, error)
}

// Find returns the subtasks assigned to user and updated inside the
// [start, end] window whose parent has a different assignee. Dates are
// passed through to JQL in YYYY-MM-DD form. Subtasks without a parent
// or with an unreadable parent are logged and skipped.
func Find(
	ctx context.Context,
	client Client,
	user string,
	start string,
	end string,
	log *zap.SugaredLogger,
) ([]Mismatch, error) {
	jql := fmt.Sprintf(
		"issuetype in subTaskIssueTypes() AND assignee = %q"+
			" AND updated >= %q AND updated <= %q",
		user, start, end,
	)

	issues, err := client.SearchIssues(ctx, jql, []string{
		"summary", "status", "assignee", "parent",
	})
	if err != nil {
		return nil, fmt.Errorf("searching subtasks: %w", err)
	}
	log.Infow("matched subtasks", "count", len(issues), "jql", jql)

	var mismatches []Mismatch
	for _, subtask := range issues {
		if subtask.Fields.Parent == nil {
			log.Warnw("subtask has no parent, skipping", "subtask", subtask.Key)
			continue
		}

		parent, err := client.GetIssue(ctx, subtask.Fields.Parent.Key, []string{
			"summary", "status", "assignee",
		})
		if err != nil {
			log.Warnw("fetching parent failed, skipping",
				"subtask", subtask.Key,
				"parent", subtask.Fields.Parent.Key,
				"error", err)
			continue
		}

		subAssignee := assigneeName(subtask.Fields.Assignee)
		parentAssignee := assigneeName(parent.Fields.Assignee)
		if subAssignee == parentAssignee {
			continue
		}

		mismatches = append(mismatches, Mismatch{
			SubtaskKey:      subtask.Key,
			SubtaskSummary:  subtask.Fields.Summary,
			SubtaskStatus:   subtask.Fields.Status.Name,
			SubtaskAssignee: subAssignee,
			ParentKey:       parent.Key,
			ParentSummary:   parent.Fields.Summary,
			ParentStatus:    parent.Fields.Status.Name,
			ParentAssignee:  parentAssignee,
		})
	}

	return mismatches, nil
}

func assigneeName(user *jira.User) string {
	if user == nil || user.Name == "" {
		return Unassigned
	}
	return user.Name
}
