package scorecard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/jira-toolkit/internal/model"
)

func teams(names ...string) []model.TeamConfig {
	out := make([]model.TeamConfig, len(names))
	for i, name := range names {
		out[i] = model.TeamConfig{Name: name, Project: "PROJ"}
	}
	return out
}

func teamNames(teams []model.TeamConfig) []string {
	names := make([]string, len(teams))
	for i, team := range teams {
		names[i] = team.Name
	}
	return names
}

func TestFilterTeamsInclusion(t *testing.T) {
	filtered, warnings, err := FilterTeams(
		teams("TeamA", "TeamB", "TeamC"), []string{"teama", "TEAMC"}, nil,
	)
	require.NoError(t, err)
	assert.Empty(t, warnings)
	assert.Equal(t, []string{"TeamA", "TeamC"}, teamNames(filtered))
}

func TestFilterTeamsExclusion(t *testing.T) {
	filtered, warnings, err := FilterTeams(
		teams("TeamA", "TeamB", "TeamC"), nil, []string{"TeamB"},
	)
	require.NoError(t, err)
	assert.Empty(t, warnings)
	assert.Equal(t, []string{"TeamA", "TeamC"}, teamNames(filtered))
}

func TestFilterTeamsMutuallyExclusive(t *testing.T) {
	_, _, err := FilterTeams(
		teams("TeamA"), []string{"TeamA"}, []string{"TeamA"},
	)
	require.Error(t, err)

	var cfgErr *ConfigError
	assert.ErrorAs(t, err, &cfgErr)
}

func TestFilterTeamsUnknownNameWarns(t *testing.T) {
	filtered, warnings, err := FilterTeams(
		teams("TeamA"), []string{"TeamA", "Ghost"}, nil,
	)
	require.NoError(t, err)
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "Ghost")
	assert.Equal(t, []string{"TeamA"}, teamNames(filtered))
}

func TestFilterTeamsEmptyResultIsNotError(t *testing.T) {
	filtered, _, err := FilterTeams(
		teams("TeamA"), []string{"Ghost"}, nil,
	)
	require.NoError(t, err)
	assert.Empty(t, filtered)
}

func TestFilterTeamsNoFiltersPassThrough(t *testing.T) {
	all := teams("TeamA", "TeamB")
	filtered, warnings, err := FilterTeams(all, nil, nil)
	require.NoError(t, err)
	assert.Empty(t, warnings)
	assert.Equal(t, all, filtered)
}
