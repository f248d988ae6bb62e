package planner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/jira-toolkit/internal/jira"
)

// issue builds a test issue that blocks the given keys.
func issue(key, status string, blocks ...string) jira.Issue {
	links := make([]jira.IssueLink, len(blocks))
	for i, blocked := range blocks {
		links[i] = jira.IssueLink{
			Type:         jira.IssueLinkType{Name: "Blocks"},
			OutwardIssue: &jira.LinkedIssue{Key: blocked},
		}
	}
	return jira.Issue{
		Key: key,
		Fields: jira.IssueFields{
			Summary:    "summary of " + key,
			Status:     jira.Status{Name: status},
			IssueLinks: links,
		},
	}
}

func TestBuildPlanRounds(t *testing.T) {
	// A blocks C, B blocks C, C blocks D.
	plan, err := buildPlan("EPIC-1", []jira.Issue{
		issue("P-1", "Done", "P-3"),
		issue("P-2", "Open", "P-3"),
		issue("P-3", "Open", "P-4"),
		issue("P-4", "Open"),
	})
	require.NoError(t, err)

	require.Len(t, plan.Rounds, 3)
	assert.Equal(t, []string{"P-1", "P-2"}, plan.Rounds[0])
	assert.Equal(t, []string{"P-3"}, plan.Rounds[1])
	assert.Equal(t, []string{"P-4"}, plan.Rounds[2])
}

func TestBuildPlanEveryBlockerSitsInEarlierRound(t *testing.T) {
	plan, err := buildPlan("EPIC-1", []jira.Issue{
		issue("P-1", "Open", "P-2", "P-3"),
		issue("P-2", "Open", "P-4"),
		issue("P-3", "Open"),
		issue("P-4", "Open"),
		issue("P-5", "Open"),
	})
	require.NoError(t, err)

	roundOf := make(map[string]int)
	for i, round := range plan.Rounds {
		for _, key := range round {
			roundOf[key] = i
		}
	}

	for key, blockers := range plan.Blockers {
		for _, blocker := range blockers {
			assert.Less(t, roundOf[blocker], roundOf[key],
				"%s must precede %s", blocker, key)
		}
	}
}

func TestBuildPlanBlockersAndTransitive(t *testing.T) {
	plan, err := buildPlan("EPIC-1", []jira.Issue{
		issue("P-1", "Done", "P-2"),
		issue("P-2", "Open", "P-3"),
		issue("P-3", "Open"),
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"P-2"}, plan.Blockers["P-3"])
	assert.Equal(t, []string{"P-1"}, plan.Transitive["P-3"])
	assert.Empty(t, plan.Transitive["P-2"])
}

func TestBuildPlanCycleIsAnError(t *testing.T) {
	_, err := buildPlan("EPIC-1", []jira.Issue{
		issue("P-1", "Open", "P-2"),
		issue("P-2", "Open", "P-1"),
	})
	assert.Error(t, err)
}

func TestBuildPlanIgnoresNonBlockingLinks(t *testing.T) {
	relates := jira.Issue{
		Key: "P-1",
		Fields: jira.IssueFields{
			Status: jira.Status{Name: "Open"},
			IssueLinks: []jira.IssueLink{{
				Type:         jira.IssueLinkType{Name: "Relates"},
				OutwardIssue: &jira.LinkedIssue{Key: "P-2"},
			}},
		},
	}

	plan, err := buildPlan("EPIC-1", []jira.Issue{relates, issue("P-2", "Open")})
	require.NoError(t, err)

	require.Len(t, plan.Rounds, 1)
	assert.Empty(t, plan.Blockers["P-2"])
}

func TestBuildPlanIgnoresLinksOutsideEpic(t *testing.T) {
	plan, err := buildPlan("EPIC-1", []jira.Issue{
		issue("P-1", "Open", "OTHER-99"),
	})
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"P-1"}}, plan.Rounds)
}

func TestBuildPlanDoneStatus(t *testing.T) {
	plan, err := buildPlan("EPIC-1", []jira.Issue{
		issue("P-1", "Deployed"),
		issue("P-2", "In Progress"),
	})
	require.NoError(t, err)

	assert.True(t, plan.Issues["P-1"].Done)
	assert.False(t, plan.Issues["P-2"].Done)
}
