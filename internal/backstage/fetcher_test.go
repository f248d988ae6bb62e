package backstage

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/jira-toolkit/internal/model"
)

type stubFetcher struct {
	name   string
	checks []model.CheckResult
	err    error
	calls  int
}

func (s *stubFetcher) Name() string { return s.name }

func (s *stubFetcher) Fetch(
	_ context.Context,
	_ string,
) ([]model.CheckResult, error) {
	s.calls++
	return s.checks, s.err
}

func TestChainFallsThroughOnError(t *testing.T) {
	want := []model.CheckResult{{ID: "c1", Passed: true}}
	first := &stubFetcher{name: "first", err: errors.New("boom")}
	second := &stubFetcher{name: "second", checks: want}

	chain := &Chain{Fetchers: []Fetcher{first, second}}

	checks, err := chain.Fetch(context.Background(), "TeamA")
	require.NoError(t, err)
	assert.Equal(t, want, checks)
	assert.Equal(t, 1, first.calls)
	assert.Equal(t, 1, second.calls)
}

func TestChainStopsAtFirstData(t *testing.T) {
	first := &stubFetcher{name: "first", checks: []model.CheckResult{{ID: "c1"}}}
	second := &stubFetcher{name: "second"}

	chain := &Chain{Fetchers: []Fetcher{first, second}}

	_, err := chain.Fetch(context.Background(), "TeamA")
	require.NoError(t, err)
	assert.Zero(t, second.calls)
}

func TestChainAllEmptyReportsNoData(t *testing.T) {
	chain := &Chain{Fetchers: []Fetcher{
		&stubFetcher{name: "first", err: ErrNoData},
		&stubFetcher{name: "second"},
	}}

	_, err := chain.Fetch(context.Background(), "TeamA")
	assert.ErrorIs(t, err, ErrNoData)
}

func TestTierFromLevel(t *testing.T) {
	tests := []struct {
		name     string
		ordinal  int
		expected model.Tier
	}{
		{"Level 0", 0, 1},
		{"Level 1", 1, 1},
		{"Level 3", 3, 3},
		{"Gold", 2, 2},
		{"Gold", 0, 1},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, tierFromLevel(tt.name, tt.ordinal),
			"name %q ordinal %d", tt.name, tt.ordinal)
	}
}

func TestInferCategory(t *testing.T) {
	tests := []struct {
		checkID  string
		expected string
	}{
		{"ownershipCheck.rollups", "Ownership"},
		{"sonarCoverageCheckComponent50.rollups", "Quality"},
		{"prodBugInSlaOver80Percentage.rollups", "Quality"},
		{"mendVulnCheck.rollups", "Security"},
		{"defaultMonitorPagerdutyEnabledCheck.rollups", "Reliability"},
		{"somethingElseCheck.rollups", "Quality"},
		{"unrelated.rollups", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, inferCategory(tt.checkID), tt.checkID)
	}
}

func TestParseCheckDataEncodedString(t *testing.T) {
	payload := `{"value":{"count":21,"total":25,"percentage":84},"target":{"lower":100}}`

	// The notes data field arrives JSON-string-encoded.
	encoded, err := json.Marshal(payload)
	require.NoError(t, err)

	var details CheckDetails
	details.Notes.Data = encoded

	data, ok := parseCheckData(details)
	require.True(t, ok)
	assert.Equal(t, 21, data.Value.Count)
	assert.Equal(t, 25, data.Value.Total)
	assert.InDelta(t, 84, data.Value.Percentage, 0.001)
}

func TestParseCheckDataEmbeddedObject(t *testing.T) {
	var details CheckDetails
	details.Notes.Data = json.RawMessage(
		`{"value":{"count":3,"total":10,"percentage":30}}`)

	data, ok := parseCheckData(details)
	require.True(t, ok)
	assert.Equal(t, 3, data.Value.Count)
}

func TestParseCheckDataMissing(t *testing.T) {
	_, ok := parseCheckData(CheckDetails{})
	assert.False(t, ok)
}

func TestHumanizeCheckID(t *testing.T) {
	assert.Equal(t, "Sonar Coverage Check Component50",
		humanizeCheckID("sonarCoverageCheckComponent50.rollups"))
	assert.Equal(t, "Datadog Integration Check",
		humanizeCheckID("datadogIntegrationCheck"))
}

func TestBuildCheckResult(t *testing.T) {
	var details CheckDetails
	details.Notes.Data = json.RawMessage(
		`{"value":{"count":3,"total":10,"percentage":30}}`)

	result := buildCheckResult("coverageCheck", "Coverage", "PASSED", details)
	assert.True(t, result.Passed)
	assert.Equal(t, 3, result.Current)
	assert.Equal(t, 10, result.Target)
	assert.Equal(t, "3/10 (30%)", result.Ratio())

	result = buildCheckResult("coverageCheck", "", "failed", CheckDetails{})
	assert.False(t, result.Passed)
	assert.Equal(t, "Coverage Check", result.Name)
}
