package backstage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/nhle/jira-toolkit/internal/model"
)

// ErrNoData signals that a source had no usable scorecard data for the
// team, and the next source in the chain should be tried.
var ErrNoData = errors.New("no scorecard data")

// Fetcher retrieves the scorecard check results for a single team.
type Fetcher interface {
	// Name identifies the source for diagnostics.
	Name() string

	// Fetch returns all check results for the team. It returns
	// ErrNoData when the source responded but had nothing usable.
	Fetch(ctx context.Context, team string) ([]model.CheckResult, error)
}

// Chain tries each fetcher in order until one returns data. Failures
// fall through to the next source; only the last error is reported
// when every source comes up empty.
type Chain struct {
	Fetchers []Fetcher
}

// Fetch implements Fetcher over the chained sources.
func (c *Chain) Fetch(
	ctx context.Context,
	team string,
) ([]model.CheckResult, error) {
	var lastErr error
	for _, fetcher := range c.Fetchers {
		checks, err := fetcher.Fetch(ctx, team)
		if err != nil {
			lastErr = err
			continue
		}
		if len(checks) == 0 {
			lastErr = ErrNoData
			continue
		}
		return checks, nil
	}

	if lastErr == nil {
		lastErr = ErrNoData
	}
	return nil, fmt.Errorf("fetching scorecard for %s: %w", team, lastErr)
}

// Name implements Fetcher.
func (c *Chain) Name() string { return "chain" }

// GraphQLFetcher reads complete track data from the soundcheck GraphQL
// API. This is the primary source since it carries the level each
// check belongs to.
type GraphQLFetcher struct {
	Client *Client
}

// Name implements Fetcher.
func (f *GraphQLFetcher) Name() string { return "soundcheck-graphql" }

// Fetch implements Fetcher.
func (f *GraphQLFetcher) Fetch(
	ctx context.Context,
	team string,
) ([]model.CheckResult, error) {
	certs, err := f.Client.Certifications(ctx, team)
	if err != nil {
		return nil, err
	}
	if len(certs) == 0 {
		return nil, ErrNoData
	}

	var checks []model.CheckResult
	for _, cert := range certs {
		category := cert.Track.Name
		for _, level := range cert.Levels {
			tier := tierFromLevel(level.Name, level.Ordinal)
			for _, check := range level.Checks {
				result := buildCheckResult(
					check.ID, check.Name, check.Result, check.Details,
				)
				result.Category = category
				result.Tier = tier
				checks = append(checks, result)
			}
		}
	}

	if len(checks) == 0 {
		return nil, ErrNoData
	}
	return checks, nil
}

// RESTFetcher reads flat check results from the soundcheck REST API.
// Category and tier are inferred from check id patterns; only rollup
// checks count, since entity-level checks don't reflect the team
// scorecard.
type RESTFetcher struct {
	Client *Client
}

// Name implements Fetcher.
func (f *RESTFetcher) Name() string { return "soundcheck-results" }

// Fetch implements Fetcher.
func (f *RESTFetcher) Fetch(
	ctx context.Context,
	team string,
) ([]model.CheckResult, error) {
	results, err := f.Client.Results(ctx, team)
	if err != nil {
		return nil, err
	}

	var checks []model.CheckResult
	for _, entry := range results {
		if !strings.HasSuffix(strings.ToLower(entry.CheckID), ".rollups") {
			continue
		}

		category := inferCategory(entry.CheckID)
		if category == "" {
			continue
		}

		result := buildCheckResult(
			entry.CheckID, "", entry.State, entry.Details,
		)
		result.Category = category
		result.Tier = inferTier(entry.CheckID)
		checks = append(checks, result)
	}

	if len(checks) == 0 {
		return nil, ErrNoData
	}
	return checks, nil
}

// buildCheckResult converts a raw check into the model shape, pulling
// the count/total/percentage metrics out of the details payload.
func buildCheckResult(
	id string,
	name string,
	state string,
	details CheckDetails,
) model.CheckResult {
	if name == "" {
		name = humanizeCheckID(id)
	}

	result := model.CheckResult{
		ID:     id,
		Name:   name,
		Passed: strings.EqualFold(state, "passed"),
	}

	if data, ok := parseCheckData(details); ok {
		result.Current = data.Value.Count
		result.Target = data.Value.Total
		result.Percent = data.Value.Percentage
	}

	return result
}

// parseCheckData decodes the notes data payload, which arrives either
// as an embedded object or a JSON-encoded string.
func parseCheckData(details CheckDetails) (checkData, bool) {
	raw := details.Notes.Data
	if len(raw) == 0 {
		return checkData{}, false
	}

	var data checkData
	if err := json.Unmarshal(raw, &data); err == nil {
		return data, true
	}

	var encoded string
	if err := json.Unmarshal(raw, &encoded); err != nil {
		return checkData{}, false
	}
	if err := json.Unmarshal([]byte(encoded), &data); err != nil {
		return checkData{}, false
	}
	return data, true
}

// tierFromLevel converts a Backstage level name like "Level 2" to a
// tier number. Level 0 counts as tier 1. Falls back to the ordinal.
func tierFromLevel(name string, ordinal int) model.Tier {
	if rest, ok := strings.CutPrefix(name, "Level "); ok {
		if n, err := strconv.Atoi(rest); err == nil {
			if n < 1 {
				return 1
			}
			return model.Tier(n)
		}
	}
	if ordinal < 1 {
		return 1
	}
	return model.Tier(ordinal)
}

// categoryPatterns maps check-id substrings to scorecard categories.
// Quality comes before Security so production bug SLA checks land in
// Quality.
var categoryPatterns = []struct {
	category string
	terms    []string
}{
	{"Ownership", []string{"ownership"}},
	{"Quality", []string{
		"sonar", "coverage", "test", "quality", "code",
		"cucumber", "e2e", "wdio", "integration",
		"prodbug", "prod", "bug", "sev1", "sev2", "sev3", "sev4", "a11y",
		"pass", "rate", "passing", "itpass", "percentage",
	}},
	{"Security", []string{
		"security", "vuln", "cve", "auth", "api-key", "mend", "challenge",
	}},
	{"Reliability", []string{
		"deployment", "monitor", "uptime", "reliability",
		"pager", "datadog", "sla",
	}},
}

// inferCategory maps a check id to a scorecard category by pattern.
// Rollup checks with no clear mapping default to Quality.
func inferCategory(checkID string) string {
	lower := strings.ToLower(checkID)

	for _, entry := range categoryPatterns {
		for _, term := range entry.terms {
			if strings.Contains(lower, term) {
				return entry.category
			}
		}
	}

	if strings.Contains(lower, "check") {
		return "Quality"
	}
	return ""
}

// inferTier guesses the tier of a rollup check from threshold hints in
// its id. Sonar coverage thresholds map directly; pass-rate targets
// climb with strictness.
func inferTier(checkID string) model.Tier {
	lower := strings.ToLower(checkID)

	switch {
	case strings.Contains(lower, "90"):
		return 4
	case strings.Contains(lower, "70"):
		return 3
	case strings.Contains(lower, "100"):
		return 3
	case strings.Contains(lower, "99"):
		return 3
	case strings.Contains(lower, "95"):
		return 2
	case strings.Contains(lower, "50"):
		return 2
	case strings.Contains(lower, "30"):
		return 1
	}
	return 1
}

// humanizeCheckID turns a camelCase check id into readable words,
// dropping the .rollups suffix.
func humanizeCheckID(checkID string) string {
	name := strings.TrimSuffix(checkID, ".rollups")

	var b strings.Builder
	for i, r := range name {
		if i > 0 && unicode.IsUpper(r) {
			b.WriteRune(' ')
		}
		if i == 0 {
			r = unicode.ToUpper(r)
		}
		b.WriteRune(r)
	}
	return b.String()
}
