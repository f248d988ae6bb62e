package scorecard

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/nhle/jira-toolkit/internal/model"
)

type stubFetcher struct {
	data map[string][]model.CheckResult
}

func (s *stubFetcher) Name() string { return "stub" }

func (s *stubFetcher) Fetch(
	_ context.Context,
	team string,
) ([]model.CheckResult, error) {
	checks, ok := s.data[team]
	if !ok {
		return nil, errors.New("no data")
	}
	return checks, nil
}

type collectSink struct {
	records []model.TicketRecord
	fail    bool
}

func (s *collectSink) Deliver(
	_ context.Context,
	record model.TicketRecord,
) (string, error) {
	if s.fail {
		return "", errors.New("delivery refused")
	}
	s.records = append(s.records, record)
	return "TEST-1", nil
}

func (s *collectSink) Close() error { return nil }

func TestRunnerHappyPath(t *testing.T) {
	fetcher := &stubFetcher{data: map[string][]model.CheckResult{
		"TeamA": {
			check(1, "a", true),
			check(2, "b", false),
		},
		"TeamB": {
			check(1, "a", true),
		},
	}}
	sink := &collectSink{}

	runner := &Runner{
		Teams: []model.TeamConfig{
			{Name: "TeamA", Project: "PROJ"},
			{Name: "TeamB", Project: "PROJ"},
		},
		Fetcher: fetcher,
		Sink:    sink,
		Options: AssembleOptions{
			Settings: model.Settings{Categories: []string{"Quality"}},
		},
		Log: zap.NewNop().Sugar(),
	}

	var tally Tally
	require.NoError(t, runner.Run(context.Background(), &tally))

	// TeamA has a gap, TeamB passes everything.
	assert.Equal(t, 1, tally.Created)
	assert.Zero(t, tally.Skipped)
	require.Len(t, sink.records, 1)
	assert.Equal(t, "TeamA", sink.records[0].Team)
}

func TestRunnerFetchFailureWarnsAndContinues(t *testing.T) {
	fetcher := &stubFetcher{data: map[string][]model.CheckResult{
		"TeamB": {check(1, "a", false)},
	}}
	sink := &collectSink{}

	runner := &Runner{
		Teams: []model.TeamConfig{
			{Name: "TeamA", Project: "PROJ"},
			{Name: "TeamB", Project: "PROJ"},
		},
		Fetcher: fetcher,
		Sink:    sink,
		Options: AssembleOptions{
			Settings: model.Settings{Categories: []string{"Quality"}},
		},
		Log: zap.NewNop().Sugar(),
	}

	var tally Tally
	require.NoError(t, runner.Run(context.Background(), &tally))

	assert.Equal(t, 1, tally.Warnings)
	assert.Equal(t, 1, tally.Created)
}

func TestRunnerDeliveryFailureCountsSkip(t *testing.T) {
	fetcher := &stubFetcher{data: map[string][]model.CheckResult{
		"TeamA": {check(1, "a", false)},
	}}

	runner := &Runner{
		Teams:   []model.TeamConfig{{Name: "TeamA", Project: "PROJ"}},
		Fetcher: fetcher,
		Sink:    &collectSink{fail: true},
		Options: AssembleOptions{
			Settings: model.Settings{Categories: []string{"Quality"}},
		},
		Log: zap.NewNop().Sugar(),
	}

	var tally Tally
	require.NoError(t, runner.Run(context.Background(), &tally))

	assert.Zero(t, tally.Created)
	assert.Equal(t, 1, tally.Skipped)
	assert.Equal(t, 1, tally.Warnings)
}

func TestDryRunSinkCounters(t *testing.T) {
	sink := &DryRunSink{Log: zap.NewNop().Sugar()}
	ctx := context.Background()

	id, err := sink.Deliver(ctx, model.TicketRecord{Project: "PROJ"})
	require.NoError(t, err)
	assert.Equal(t, "simulated-PROJ-1", id)

	id, err = sink.Deliver(ctx, model.TicketRecord{Project: "PROJ"})
	require.NoError(t, err)
	assert.Equal(t, "simulated-PROJ-2", id)

	id, err = sink.Deliver(ctx, model.TicketRecord{Project: "OTHER"})
	require.NoError(t, err)
	assert.Equal(t, "simulated-OTHER-1", id)
}
