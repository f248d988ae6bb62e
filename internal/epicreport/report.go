package epicreport

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/nhle/jira-toolkit/internal/jira"
	"github.com/nhle/jira-toolkit/internal/model"
)

// IssueRef is the abbreviated issue used in the report.
type IssueRef struct {
	Key     string
	Summary string
	Status  string
}

// SprintInfo carries the display data of one sprint.
type SprintInfo struct {
	ID        int
	Name      string
	StartDate time.Time
	EndDate   time.Time
}

// StatusGroup groups a sprint's issues by status name.
type StatusGroup struct {
	Status string
	Issues []IssueRef
}

// SprintGroup is one sprint's issues, grouped by status.
type SprintGroup struct {
	Sprint   SprintInfo
	Statuses []StatusGroup
}

// Report is the evaluation of an epic's plan: completed work with and
// without a sprint, planned in-sprint work, and unplanned open work.
type Report struct {
	EpicKey string

	// CompletedNoSprint holds done or withdrawn issues with no sprint.
	CompletedNoSprint []IssueRef

	Completed []SprintGroup
	Planned   []SprintGroup

	// Unplanned holds open issues with no sprint, excluding withdrawn.
	Unplanned []IssueRef
}

// Client is the slice of the Jira client the report needs.
type Client interface {
	SearchIssues(ctx context.Context, jql string, fields []string) ([]jira.Issue, error)
	GetSprint(ctx context.Context, id int) (*jira.Sprint, error)
}

// Build fetches the children of an epic and sorts them into the
// completed / planned / unplanned buckets. An issue in several sprints
// is reported against its last one.
func Build(
	ctx context.Context,
	client Client,
	epicKey string,
	sprintField string,
	log *zap.SugaredLogger,
) (*Report, error) {
	jql := fmt.Sprintf("%q = %s", "Epic Link", epicKey)
	issues, err := client.SearchIssues(ctx, jql, []string{
		"summary", "status", sprintField,
	})
	if err != nil {
		return nil, fmt.Errorf("fetching children of %s: %w", epicKey, err)
	}

	report := &Report{EpicKey: epicKey}

	type bucket map[int]map[string][]IssueRef
	completed := bucket{}
	planned := bucket{}
	var noSprint []IssueRef

	add := func(b bucket, sprintID int, ref IssueRef) {
		if b[sprintID] == nil {
			b[sprintID] = make(map[string][]IssueRef)
		}
		b[sprintID][ref.Status] = append(b[sprintID][ref.Status], ref)
	}

	for _, issue := range issues {
		ref := IssueRef{
			Key:     issue.Key,
			Summary: issue.Fields.Summary,
			Status:  issue.Fields.Status.Name,
		}

		sprintIDs, err := parseSprintIDs(issue.Fields.Custom[sprintField])
		if err != nil {
			log.Warnw("invalid sprint data", "issue", issue.Key, "error", err)
			noSprint = append(noSprint, ref)
			continue
		}
		if len(sprintIDs) == 0 {
			noSprint = append(noSprint, ref)
			continue
		}

		sprintID := sprintIDs[len(sprintIDs)-1]
		if model.StatusIsDone(ref.Status) {
			add(completed, sprintID, ref)
		} else {
			add(planned, sprintID, ref)
		}
	}

	// Split the sprint-less issues: finished or withdrawn work versus
	// genuinely unplanned open work.
	for _, ref := range noSprint {
		withdrawn := strings.EqualFold(ref.Status, "withdrawn")
		if withdrawn || model.StatusIsDone(ref.Status) {
			report.CompletedNoSprint = append(report.CompletedNoSprint, ref)
		} else {
			report.Unplanned = append(report.Unplanned, ref)
		}
	}

	sprints := fetchSprints(ctx, client, keys(completed, planned), log)
	report.Completed = buildGroups(completed, sprints)
	report.Planned = buildGroups(planned, sprints)

	return report, nil
}

// keys collects the distinct sprint ids appearing in any bucket.
func keys(buckets ...map[int]map[string][]IssueRef) []int {
	seen := make(map[int]bool)
	var ids []int
	for _, b := range buckets {
		for id := range b {
			if !seen[id] {
				seen[id] = true
				ids = append(ids, id)
			}
		}
	}
	return ids
}

// fetchSprints resolves sprint names and dates. A sprint that cannot
// be fetched gets a placeholder name so the report still renders.
func fetchSprints(
	ctx context.Context,
	client Client,
	ids []int,
	log *zap.SugaredLogger,
) map[int]SprintInfo {
	sprints := make(map[int]SprintInfo, len(ids))
	for _, id := range ids {
		sprint, err := client.GetSprint(ctx, id)
		if err != nil {
			log.Warnw("sprint data unavailable", "sprint", id, "error", err)
			sprints[id] = SprintInfo{
				ID:   id,
				Name: fmt.Sprintf("Sprint ID %d (Data Unavailable)", id),
			}
			continue
		}

		sprints[id] = SprintInfo{
			ID:        id,
			Name:      sprint.Name,
			StartDate: parseSprintDate(sprint.StartDate),
			EndDate:   parseSprintDate(sprint.EndDate),
		}
	}
	return sprints
}

// buildGroups turns a bucket into sprint groups sorted by start date;
// sprints without dates sort last, statuses alphabetically.
func buildGroups(
	bucket map[int]map[string][]IssueRef,
	sprints map[int]SprintInfo,
) []SprintGroup {
	groups := make([]SprintGroup, 0, len(bucket))
	for id, byStatus := range bucket {
		group := SprintGroup{Sprint: sprints[id]}

		statuses := make([]string, 0, len(byStatus))
		for status := range byStatus {
			statuses = append(statuses, status)
		}
		sort.Strings(statuses)

		for _, status := range statuses {
			group.Statuses = append(group.Statuses, StatusGroup{
				Status: status,
				Issues: byStatus[status],
			})
		}
		groups = append(groups, group)
	}

	sort.Slice(groups, func(i, j int) bool {
		a, b := groups[i].Sprint.StartDate, groups[j].Sprint.StartDate
		if a.IsZero() != b.IsZero() {
			return !a.IsZero()
		}
		return a.Before(b)
	})
	return groups
}

// parseSprintIDs decodes the sprint custom field, which arrives as a
// list of objects with an id, a list of legacy "...[id=N,...]"
// strings, or a single value of either shape.
func parseSprintIDs(raw json.RawMessage) ([]int, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}

	var list []json.RawMessage
	if err := json.Unmarshal(raw, &list); err != nil {
		list = []json.RawMessage{raw}
	}

	var ids []int
	for _, entry := range list {
		id, err := parseSprintEntry(entry)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func parseSprintEntry(entry json.RawMessage) (int, error) {
	var obj struct {
		ID int `json:"id"`
	}
	if err := json.Unmarshal(entry, &obj); err == nil && obj.ID != 0 {
		return obj.ID, nil
	}

	var legacy string
	if err := json.Unmarshal(entry, &legacy); err != nil {
		return 0, fmt.Errorf("unrecognized sprint value %s", string(entry))
	}

	// Legacy toString format: "com.atlassian...Sprint@...[id=123,...]".
	_, rest, ok := strings.Cut(legacy, "[id=")
	if !ok {
		return 0, fmt.Errorf("no sprint id in %q", legacy)
	}
	idStr, _, _ := strings.Cut(rest, ",")
	idStr, _, _ = strings.Cut(idStr, "]")

	id, err := strconv.Atoi(idStr)
	if err != nil {
		return 0, fmt.Errorf("invalid sprint id in %q", legacy)
	}
	return id, nil
}

// parseSprintDate parses the sprint date formats the Agile API emits.
func parseSprintDate(value string) time.Time {
	if value == "" {
		return time.Time{}
	}
	for _, layout := range []string{
		time.RFC3339,
		"2006-01-02T15:04:05.000Z07:00",
		"2006-01-02T15:04:05.000",
	} {
		if t, err := time.Parse(layout, value); err == nil {
			return t
		}
	}
	return time.Time{}
}
