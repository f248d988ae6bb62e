// Package epictime measures how long open epics stay in development by
// comparing each epic's creation time against the creation times of
// its child tickets.
package epictime

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/nhle/jira-toolkit/internal/jira"
)

// EpicSpan is the development-time analysis of one epic. Children
// created before the epic itself are counted separately since they
// were moved in rather than planned under it.
type EpicSpan struct {
	Key     string
	Summary string
	Created time.Time

	// PriorTickets counts children created before the epic.
	PriorTickets int

	// RelevantTickets counts children created after the epic.
	RelevantTickets int
	FirstRelevant   time.Time
	LastRelevant    time.Time

	// DevelopmentSpan runs from the epic's creation to the creation of
	// its last relevant child.
	DevelopmentSpan time.Duration

	// ActivitySpan runs from the first relevant child to the last.
	ActivitySpan time.Duration
}

// Report holds the analyzed epics, sorted by development span
// descending, and the average span across them.
type Report struct {
	Spans   []EpicSpan
	Average time.Duration
}

// Searcher is the slice of the Jira client the analysis needs.
type Searcher interface {
	SearchIssues(ctx context.Context, jql string, fields []string) ([]jira.Issue, error)
}

// Build finds the open epics attributed to a team and analyzes each
// one. Epics whose children could not be fetched or that have no
// children created after them are logged and left out of the report.
func Build(
	ctx context.Context,
	client Searcher,
	team string,
	project string,
	log *zap.SugaredLogger,
) (*Report, error) {
	epics, err := client.SearchIssues(ctx, openEpicsJQL(team, project), []string{
		"summary", "created",
	})
	if err != nil {
		return nil, fmt.Errorf("searching open epics: %w", err)
	}

	report := &Report{}
	for _, epic := range epics {
		created, err := jira.ParseTime(epic.Fields.Created)
		if err != nil {
			log.Warnw("epic has unreadable creation time, skipping",
				"epic", epic.Key, "error", err)
			continue
		}

		jql := fmt.Sprintf("%q = %q OR parent = %q", "Epic Link", epic.Key, epic.Key)
		children, err := client.SearchIssues(ctx, jql, []string{"created"})
		if err != nil {
			log.Warnw("fetching epic children failed, skipping",
				"epic", epic.Key, "error", err)
			continue
		}

		span, ok := analyze(epic, created, children)
		if !ok {
			log.Infow("epic has no children created after it, skipping",
				"epic", epic.Key, "priorChildren", span.PriorTickets)
			continue
		}
		report.Spans = append(report.Spans, span)
	}

	sort.Slice(report.Spans, func(i, j int) bool {
		if report.Spans[i].DevelopmentSpan != report.Spans[j].DevelopmentSpan {
			return report.Spans[i].DevelopmentSpan > report.Spans[j].DevelopmentSpan
		}
		return report.Spans[i].Key < report.Spans[j].Key
	})

	if len(report.Spans) > 0 {
		var total time.Duration
		for _, span := range report.Spans {
			total += span.DevelopmentSpan
		}
		report.Average = total / time.Duration(len(report.Spans))
	}

	return report, nil
}

// openEpicsJQL selects open epics for the team, oldest first. The team
// filter matches the Sprint Team field on the epic itself.
func openEpicsJQL(team, project string) string {
	parts := []string{
		"issueType = Epic",
		`statusCategory != "Done"`,
	}
	if project != "" {
		parts = append(parts, fmt.Sprintf("project = %q", project))
	}
	parts = append(parts, fmt.Sprintf("%q = %q", "Sprint Team", team))

	return strings.Join(parts, " AND ") + " ORDER BY created ASC"
}

// analyze splits an epic's children into prior and relevant by their
// creation time and computes the spans. ok is false when no child was
// created after the epic.
func analyze(
	epic jira.Issue,
	created time.Time,
	children []jira.Issue,
) (EpicSpan, bool) {
	span := EpicSpan{
		Key:     epic.Key,
		Summary: epic.Fields.Summary,
		Created: created,
	}

	for _, child := range children {
		childCreated, err := jira.ParseTime(child.Fields.Created)
		if err != nil {
			continue
		}

		if childCreated.Before(created) {
			span.PriorTickets++
			continue
		}

		span.RelevantTickets++
		if span.FirstRelevant.IsZero() || childCreated.Before(span.FirstRelevant) {
			span.FirstRelevant = childCreated
		}
		if childCreated.After(span.LastRelevant) {
			span.LastRelevant = childCreated
		}
	}

	if span.RelevantTickets == 0 {
		return span, false
	}

	span.DevelopmentSpan = span.LastRelevant.Sub(created)
	span.ActivitySpan = span.LastRelevant.Sub(span.FirstRelevant)
	return span, true
}
