package scorecard

import (
	"fmt"
	"strings"

	"github.com/nhle/jira-toolkit/internal/model"
)

// FilterTeams applies the inclusion or exclusion list to the loaded
// teams. Matching is case-insensitive. Supplying both lists is a
// ConfigError; names that match no configured team produce warnings.
// An empty result is not an error here; the caller reports it and
// ends the run cleanly.
func FilterTeams(
	teams []model.TeamConfig,
	include []string,
	exclude []string,
) ([]model.TeamConfig, []string, error) {
	if len(include) > 0 && len(exclude) > 0 {
		return nil, nil, configErrorf(
			"--teams and --exclude-teams are mutually exclusive",
		)
	}

	known := make(map[string]bool, len(teams))
	for _, team := range teams {
		known[strings.ToLower(team.Name)] = true
	}

	var warnings []string
	checkNames := func(names []string, flag string) map[string]bool {
		set := make(map[string]bool, len(names))
		for _, name := range names {
			key := strings.ToLower(strings.TrimSpace(name))
			if key == "" {
				continue
			}
			if !known[key] {
				warnings = append(warnings, fmt.Sprintf(
					"unknown team %q in %s, ignoring", name, flag,
				))
				continue
			}
			set[key] = true
		}
		return set
	}

	switch {
	case len(include) > 0:
		wanted := checkNames(include, "--teams")
		var filtered []model.TeamConfig
		for _, team := range teams {
			if wanted[strings.ToLower(team.Name)] {
				filtered = append(filtered, team)
			}
		}
		return filtered, warnings, nil

	case len(exclude) > 0:
		dropped := checkNames(exclude, "--exclude-teams")
		var filtered []model.TeamConfig
		for _, team := range teams {
			if !dropped[strings.ToLower(team.Name)] {
				filtered = append(filtered, team)
			}
		}
		return filtered, warnings, nil
	}

	return teams, warnings, nil
}
