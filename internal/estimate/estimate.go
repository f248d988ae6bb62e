// Package estimate copies the original time estimate into the
// remaining estimate for open issues that carry story points, so
// sprint capacity reports stay meaningful.
package estimate

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/nhle/jira-toolkit/internal/jira"
)

// MinutesPerPoint converts story points to minutes: one point is one
// ideal day of six hours.
const MinutesPerPoint = 360

// Query selects the issues to update by assignee or by team.
type Query struct {
	// Kind is "assignee" or "team".
	Kind string
	Name string
}

// excludedStatuses are terminal states whose issues never need a
// remaining estimate.
var excludedStatuses = []string{
	"Acceptance", "Approved to Deploy", "Certified", "Closed", "Complete",
	"Completed", "Deployed", "Done", "Ready for Deployment",
	"Ready For Release", "Ready to Deploy", "Ready to Release",
	"Released", "Resolved", "Withdrawn",
}

// JQL renders the search query: open, estimable, non-subtask issues
// with story points and an original estimate but no remaining one.
func (q Query) JQL() (string, error) {
	var subject string
	switch strings.ToLower(q.Kind) {
	case "assignee":
		subject = fmt.Sprintf("Assignee = %q", q.Name)
	case "team":
		subject = fmt.Sprintf("%q = %q", "Sprint Team", q.Name)
	default:
		return "", fmt.Errorf(
			"invalid query type %q, must be assignee or team", q.Kind,
		)
	}

	quoted := make([]string, len(excludedStatuses))
	for i, status := range excludedStatuses {
		quoted[i] = fmt.Sprintf("%q", status)
	}

	conditions := []string{
		subject,
		`"Story Points" > 0`,
		"originalEstimate > 0",
		"remainingEstimate = 0",
		`issuetype not in (subTaskIssueTypes(), "Test Case Execution", "Test Execution", Test, DBCR)`,
		"status NOT IN (" + strings.Join(quoted, ", ") + ")",
	}

	return strings.Join(conditions, " AND ") + " ORDER BY key ASC", nil
}

// PointsToEstimate converts story points to the estimate string Jira
// accepts, in minutes.
func PointsToEstimate(points float64) string {
	return fmt.Sprintf("%dm", int(points*MinutesPerPoint))
}

// Client is the slice of the Jira client the updater needs.
type Client interface {
	SearchIssues(ctx context.Context, jql string, fields []string) ([]jira.Issue, error)
	UpdateIssue(ctx context.Context, key string, fields map[string]interface{}) error
}

// Updater runs the remaining-estimate update across matching issues.
type Updater struct {
	Client Client

	// StoryPointsField is the custom field id holding story points.
	StoryPointsField string

	// Apply performs the updates; the default is a dry run.
	Apply bool

	// Pace is the delay between consecutive updates. Defaults to
	// half a second when zero.
	Pace time.Duration

	Log *zap.SugaredLogger
}

// Result summarizes an update run.
type Result struct {
	Updated int
	Skipped int
}

// Run searches for matching issues and sets each one's remaining
// estimate to its original estimate. Per-issue failures skip and
// continue.
func (u *Updater) Run(ctx context.Context, query Query) (Result, error) {
	var result Result

	jql, err := query.JQL()
	if err != nil {
		return result, err
	}

	issues, err := u.Client.SearchIssues(ctx, jql, []string{
		"summary", "timetracking", u.StoryPointsField,
	})
	if err != nil {
		return result, fmt.Errorf("searching issues: %w", err)
	}

	u.Log.Infow("matched issues", "count", len(issues), "jql", jql)

	pace := u.Pace
	if pace == 0 {
		pace = 500 * time.Millisecond
	}

	for _, issue := range issues {
		points, hasPoints := storyPoints(issue, u.StoryPointsField)

		// The original estimate wins; story points back it up when the
		// search matched an issue whose timetracking came back empty.
		estimate := originalEstimate(issue)
		if estimate == "" && hasPoints {
			estimate = PointsToEstimate(points)
		}

		if estimate == "" {
			u.Log.Infow("skipping issue",
				"issue", issue.Key,
				"reason", "no original estimate or story points")
			result.Skipped++
			continue
		}

		if !u.Apply {
			u.Log.Infow("dry run, would set remaining estimate",
				"issue", issue.Key, "points", points, "estimate", estimate)
			result.Updated++
			continue
		}

		fields := map[string]interface{}{
			"timetracking": map[string]string{
				"remainingEstimate": estimate,
			},
		}
		if err := u.Client.UpdateIssue(ctx, issue.Key, fields); err != nil {
			u.Log.Warnw("update failed, skipping",
				"issue", issue.Key, "error", err)
			result.Skipped++
			continue
		}

		u.Log.Infow("set remaining estimate",
			"issue", issue.Key, "estimate", estimate)
		result.Updated++

		select {
		case <-ctx.Done():
			return result, ctx.Err()
		case <-time.After(pace):
		}
	}

	return result, nil
}

// storyPoints reads the story points custom field.
func storyPoints(issue jira.Issue, field string) (float64, bool) {
	raw, ok := issue.Fields.Custom[field]
	if !ok || string(raw) == "null" {
		return 0, false
	}

	var points float64
	if err := json.Unmarshal(raw, &points); err != nil {
		return 0, false
	}
	return points, true
}

// originalEstimate reads the original estimate from timetracking.
func originalEstimate(issue jira.Issue) string {
	if issue.Fields.TimeTracking == nil {
		return ""
	}
	return issue.Fields.TimeTracking.OriginalEstimate
}
