package scorecard

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/nhle/jira-toolkit/internal/model"
)

// writeWorkbook builds an xlsx fixture from sheet name to rows.
func writeWorkbook(t *testing.T, sheets map[string][][]interface{}) string {
	t.Helper()

	f := excelize.NewFile()
	for name, rows := range sheets {
		_, err := f.NewSheet(name)
		require.NoError(t, err)
		for i, row := range rows {
			cell, err := excelize.CoordinatesToCellName(1, i+1)
			require.NoError(t, err)
			require.NoError(t, f.SetSheetRow(name, cell, &row))
		}
	}
	require.NoError(t, f.DeleteSheet("Sheet1"))

	path := filepath.Join(t.TempDir(), "config.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func teamsHeader() []interface{} {
	return []interface{}{
		"Sprint Team", "Assignee", "Project", "Epic Link",
		"Issue Type", "Sprint", "Sprint Name", "Component",
	}
}

func TestLoadWorkbookTeams(t *testing.T) {
	path := writeWorkbook(t, map[string][][]interface{}{
		sheetTeams: {
			teamsHeader(),
			{"TeamA", "jdoe", "PROJ", "PROJ-1", "Story", "42", "Sprint 7", "backend"},
			{"TeamB", "", "OTHER", "", "", "", "", ""},
		},
		sheetConfig: {
			{"Priority", "High"},
			{"Backstage", "https://backstage.example.com"},
			{"Categories", "Quality, Security"},
			{"Issue Type", "Improvement"},
			{"UnknownKey", "ignored"},
		},
		sheetCustomFields: {
			{"Field Name", "Field ID", "Data Wrapper"},
			{"Sprint", "customfield_10505", "none"},
			{"Team Field", "customfield_10999", "value"},
		},
	})

	wb, err := LoadWorkbook(path)
	require.NoError(t, err)

	require.Len(t, wb.Teams, 2)
	assert.Equal(t, model.TeamConfig{
		Name:       "TeamA",
		Assignee:   "jdoe",
		Project:    "PROJ",
		EpicLink:   "PROJ-1",
		IssueType:  "Story",
		SprintID:   42,
		SprintName: "Sprint 7",
		Component:  "backend",
	}, wb.Teams[0])
	assert.Equal(t, "TeamB", wb.Teams[1].Name)
	assert.Zero(t, wb.Teams[1].SprintID)

	assert.Equal(t, "High", wb.Settings.Priority)
	assert.Equal(t, "https://backstage.example.com", wb.Settings.BaseURL)
	assert.Equal(t, []string{"Quality", "Security"}, wb.Settings.Categories)
	assert.Equal(t, "Improvement", wb.Settings.IssueType)

	require.Contains(t, wb.Mapping, "Team Field")
	assert.Equal(t, "customfield_10999", wb.Mapping["Team Field"].ID)
	assert.Equal(t, "value", wb.Mapping["Team Field"].Wrapper)

	assert.Empty(t, wb.Warnings)
}

func TestLoadWorkbookDuplicateTeam(t *testing.T) {
	path := writeWorkbook(t, map[string][][]interface{}{
		sheetTeams: {
			teamsHeader(),
			{"TeamA", "", "PROJ"},
			{"teama", "", "OTHER"},
		},
	})

	_, err := LoadWorkbook(path)
	require.Error(t, err)

	var cfgErr *ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Contains(t, cfgErr.Error(), "duplicate team")
}

func TestLoadWorkbookMissingRequiredColumn(t *testing.T) {
	path := writeWorkbook(t, map[string][][]interface{}{
		sheetTeams: {
			{"Sprint Team", "Assignee"},
			{"TeamA", "jdoe"},
		},
	})

	_, err := LoadWorkbook(path)
	var cfgErr *ConfigError
	require.ErrorAs(t, err, &cfgErr)
}

func TestLoadWorkbookMissingTeamsSheet(t *testing.T) {
	path := writeWorkbook(t, map[string][][]interface{}{
		sheetConfig: {{"Priority", "High"}},
	})

	_, err := LoadWorkbook(path)
	var cfgErr *ConfigError
	require.ErrorAs(t, err, &cfgErr)
}

func TestLoadWorkbookMissingOptionalSheetsWarn(t *testing.T) {
	path := writeWorkbook(t, map[string][][]interface{}{
		sheetTeams: {
			teamsHeader(),
			{"TeamA", "", "PROJ"},
		},
	})

	wb, err := LoadWorkbook(path)
	require.NoError(t, err)

	assert.Len(t, wb.Warnings, 2)
	assert.Equal(t, model.DefaultCategories, wb.Settings.Categories)
	assert.Empty(t, wb.Mapping)
}

func TestLoadWorkbookEmptyProjectSkipsTeam(t *testing.T) {
	path := writeWorkbook(t, map[string][][]interface{}{
		sheetTeams: {
			teamsHeader(),
			{"TeamA", "jdoe", ""},
			{"TeamB", "", "PROJ"},
		},
		sheetConfig:       {{"Priority", "High"}},
		sheetCustomFields: {{"Field Name", "Field ID", "Data Wrapper"}},
	})

	wb, err := LoadWorkbook(path)
	require.NoError(t, err)

	require.Len(t, wb.Teams, 1)
	assert.Equal(t, "TeamB", wb.Teams[0].Name)
	require.Len(t, wb.Warnings, 1)
	assert.Contains(t, wb.Warnings[0], "TeamA")
}

func TestSheetMissingClassification(t *testing.T) {
	assert.True(t, sheetMissing(excelize.ErrSheetNotExist{SheetName: "Config"}))
	assert.False(t, sheetMissing(errors.New("corrupt sheet data")))
}

func TestLoadWorkbookBadPath(t *testing.T) {
	_, err := LoadWorkbook(filepath.Join(t.TempDir(), "missing.xlsx"))
	var cfgErr *ConfigError
	require.ErrorAs(t, err, &cfgErr)
}

func TestLoadWorkbookNonNumericSprint(t *testing.T) {
	path := writeWorkbook(t, map[string][][]interface{}{
		sheetTeams: {
			teamsHeader(),
			{"TeamA", "", "PROJ", "", "", "next", "", ""},
		},
	})

	_, err := LoadWorkbook(path)
	var cfgErr *ConfigError
	require.ErrorAs(t, err, &cfgErr)
}
