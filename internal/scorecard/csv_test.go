package scorecard

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/jira-toolkit/internal/model"
)

func csvRecord(team string) model.TicketRecord {
	return model.TicketRecord{
		Team:        team,
		Summary:     team + " Scorecards Improvement: Quality",
		IssueType:   "Task",
		Project:     "PROJ",
		Priority:    "High",
		Assignee:    "jdoe",
		EpicLink:    "PROJ-1",
		SprintID:    42,
		Component:   "backend",
		Labels:      []string{"scorecard-improvement"},
		Description: "*Current Compliance Level:* L1\n\nline two",
	}
}

func TestCSVSinkOneFilePerTeam(t *testing.T) {
	base := filepath.Join(t.TempDir(), "out")
	sink := NewCSVSink(base)

	ctx := context.Background()
	for _, team := range []string{"TeamA", "TeamB", "TeamA"} {
		_, err := sink.Deliver(ctx, csvRecord(team))
		require.NoError(t, err)
	}
	require.NoError(t, sink.Close())

	matches, err := filepath.Glob(base + "-*.csv")
	require.NoError(t, err)
	assert.Len(t, matches, 2)

	// TeamA got two records plus the header.
	data, err := os.ReadFile(base + "-TeamA.csv")
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(string(data), "TeamA Scorecards"))
	assert.NotContains(t, string(data), "TeamB")
}

func TestCSVDescriptionIsLastColumn(t *testing.T) {
	base := filepath.Join(t.TempDir(), "out")
	sink := NewCSVSink(base)

	_, err := sink.Deliver(context.Background(), csvRecord("TeamA"))
	require.NoError(t, err)
	require.NoError(t, sink.Close())

	data, err := os.ReadFile(base + "-TeamA.csv")
	require.NoError(t, err)

	lines := strings.Split(string(data), "\n")
	require.GreaterOrEqual(t, len(lines), 2)

	header := lines[0]
	assert.True(t, strings.HasSuffix(header, `"Description"`),
		"description must be the last column, got header %s", header)

	// The embedded newline is preserved verbatim, so the record spans
	// two physical lines and ends mid-quote on the first.
	assert.Contains(t, string(data), "*Current Compliance Level:* L1\n\nline two")
}

func TestEncodeFieldQuoting(t *testing.T) {
	tests := []struct {
		in       string
		expected string
	}{
		{"hello", `"hello"`},
		{"42", "42"},
		{"", `""`},
		{`say "hi"`, `"say ""hi"""`},
		{"multi\nline", "\"multi\nline\""},
		{"3.14", "3.14"},
		{"PROJ-1", `"PROJ-1"`},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, encodeField(tt.in), "input %q", tt.in)
	}
}

func TestCSVSprintColumnUnquoted(t *testing.T) {
	base := filepath.Join(t.TempDir(), "out")
	sink := NewCSVSink(base)

	_, err := sink.Deliver(context.Background(), csvRecord("TeamA"))
	require.NoError(t, err)
	require.NoError(t, sink.Close())

	data, err := os.ReadFile(base + "-TeamA.csv")
	require.NoError(t, err)
	assert.Contains(t, string(data), `"PROJ-1",42,"backend"`)
}
