package epicreport

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSprintIDs(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected []int
	}{
		{"null", `null`, nil},
		{"empty", ``, nil},
		{
			"object list",
			`[{"id":101,"name":"Sprint 1"},{"id":102,"name":"Sprint 2"}]`,
			[]int{101, 102},
		},
		{
			"legacy string list",
			`["com.atlassian.greenhopper.service.sprint.Sprint@1a[id=77,rapidViewId=5,state=CLOSED]"]`,
			[]int{77},
		},
		{
			"single object",
			`{"id":55}`,
			[]int{55},
		},
		{
			"single legacy string",
			`"Sprint@2b[id=88]"`,
			[]int{88},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ids, err := parseSprintIDs(json.RawMessage(tt.raw))
			require.NoError(t, err)
			assert.Equal(t, tt.expected, ids)
		})
	}
}

func TestParseSprintIDsInvalid(t *testing.T) {
	_, err := parseSprintIDs(json.RawMessage(`["no id marker here"]`))
	assert.Error(t, err)

	_, err = parseSprintIDs(json.RawMessage(`["x[id=notanumber,]"]`))
	assert.Error(t, err)
}

func TestBuildGroupsSortedByStartDate(t *testing.T) {
	ref := IssueRef{Key: "P-1", Summary: "s", Status: "Open"}
	bucket := map[int]map[string][]IssueRef{
		1: {"Open": {ref}},
		2: {"Open": {ref}},
		3: {"Open": {ref}},
	}
	sprints := map[int]SprintInfo{
		1: {ID: 1, Name: "later", StartDate: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)},
		2: {ID: 2, Name: "earlier", StartDate: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)},
		3: {ID: 3, Name: "undated"},
	}

	groups := buildGroups(bucket, sprints)
	require.Len(t, groups, 3)
	assert.Equal(t, "earlier", groups[0].Sprint.Name)
	assert.Equal(t, "later", groups[1].Sprint.Name)
	assert.Equal(t, "undated", groups[2].Sprint.Name)
}

func TestBuildGroupsStatusesSorted(t *testing.T) {
	bucket := map[int]map[string][]IssueRef{
		1: {
			"Open":        {{Key: "P-2"}},
			"In Progress": {{Key: "P-1"}},
		},
	}

	groups := buildGroups(bucket, map[int]SprintInfo{1: {ID: 1, Name: "s"}})
	require.Len(t, groups, 1)
	require.Len(t, groups[0].Statuses, 2)
	assert.Equal(t, "In Progress", groups[0].Statuses[0].Status)
	assert.Equal(t, "Open", groups[0].Statuses[1].Status)
}

func TestParseSprintDate(t *testing.T) {
	assert.False(t, parseSprintDate("2026-02-01T09:00:00.000Z").IsZero())
	assert.False(t, parseSprintDate("2026-02-01T09:00:00Z").IsZero())
	assert.True(t, parseSprintDate("").IsZero())
	assert.True(t, parseSprintDate("not a date").IsZero())
}
