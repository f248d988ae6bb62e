package scorecard

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/nhle/jira-toolkit/internal/jira"
	"github.com/nhle/jira-toolkit/internal/model"
)

// Sink delivers assembled ticket records. Exactly one sink is chosen
// at startup; the pipeline never branches on the output mode.
type Sink interface {
	// Deliver processes one record and returns an identifier for it
	// (issue key, file name, or simulated id).
	Deliver(ctx context.Context, record model.TicketRecord) (string, error)

	// Close releases any resources held by the sink.
	Close() error
}

// CreateSink creates tickets through the Jira API: a create call, then
// a separate assignment call, then the epic link. Assignment and
// linking failures are warnings; the ticket stands.
type CreateSink struct {
	Client        *jira.Client
	EpicLinkField string
	Log           *zap.SugaredLogger

	// Warn is bumped for each non-fatal delivery problem.
	Warn func()
}

// Deliver implements Sink.
func (s *CreateSink) Deliver(
	ctx context.Context,
	record model.TicketRecord,
) (string, error) {
	key, err := s.Client.CreateIssue(ctx, CreateFields(record))
	if err != nil {
		return "", fmt.Errorf("creating ticket for %s/%s: %w",
			record.Team, record.Category, err)
	}

	if record.Assignee != "" {
		if err := s.Client.AssignIssue(ctx, key, record.Assignee); err != nil {
			s.Log.Warnw("assignment failed, ticket stands unassigned",
				"issue", key, "assignee", record.Assignee, "error", err)
			s.warn()
		}
	}

	if record.EpicLink != "" {
		err := s.Client.LinkToEpic(ctx, key, record.EpicLink, s.EpicLinkField)
		if err != nil {
			s.Log.Warnw("epic link failed, ticket stands unlinked",
				"issue", key, "epic", record.EpicLink, "error", err)
			s.warn()
		}
	}

	return key, nil
}

// Close implements Sink.
func (s *CreateSink) Close() error { return nil }

func (s *CreateSink) warn() {
	if s.Warn != nil {
		s.Warn()
	}
}

// DryRunSink performs every step except the mutating calls, printing
// simulated issue ids with a per-project counter.
type DryRunSink struct {
	Log *zap.SugaredLogger

	counters map[string]int
}

// Deliver implements Sink.
func (s *DryRunSink) Deliver(
	_ context.Context,
	record model.TicketRecord,
) (string, error) {
	if s.counters == nil {
		s.counters = make(map[string]int)
	}
	s.counters[record.Project]++

	key := fmt.Sprintf("simulated-%s-%d", record.Project, s.counters[record.Project])
	s.Log.Infow("dry run, would create ticket",
		"issue", key,
		"summary", record.Summary,
		"issueType", record.IssueType,
		"assignee", record.Assignee,
		"epic", record.EpicLink,
	)
	return key, nil
}

// Close implements Sink.
func (s *DryRunSink) Close() error { return nil }
