package scorecard

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/nhle/jira-toolkit/internal/model"
)

// Sheet names of the configuration workbook.
const (
	sheetTeams        = "Teams"
	sheetConfig       = "Config"
	sheetCustomFields = "CustomFields"
)

// Workbook is the parsed configuration workbook: the teams to process,
// the global settings, and the optional custom-field mapping.
type Workbook struct {
	Teams    []model.TeamConfig
	Settings model.Settings
	Mapping  model.FieldMapping

	// Warnings collects non-fatal problems found while loading, such
	// as missing optional sheets.
	Warnings []string
}

// LoadWorkbook reads the Excel configuration workbook at path. A
// missing Teams sheet, missing required column, unreadable file, or
// duplicate team id is a ConfigError; missing optional sheets only
// warn.
func LoadWorkbook(path string) (*Workbook, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, &ConfigError{Msg: "opening workbook " + path, Err: err}
	}
	defer f.Close()

	wb := &Workbook{
		Mapping: model.FieldMapping{},
		Settings: model.Settings{
			Categories: model.DefaultCategories,
		},
	}

	if err := wb.loadTeams(f); err != nil {
		return nil, err
	}
	if err := wb.loadSettings(f); err != nil {
		return nil, err
	}
	if err := wb.loadMapping(f); err != nil {
		return nil, err
	}

	return wb, nil
}

// Teams sheet columns.
const (
	colTeam       = "sprint team"
	colAssignee   = "assignee"
	colProject    = "project"
	colEpicLink   = "epic link"
	colIssueType  = "issue type"
	colSprint     = "sprint"
	colSprintName = "sprint name"
	colComponent  = "component"
)

func (wb *Workbook) loadTeams(f *excelize.File) error {
	rows, err := f.GetRows(sheetTeams)
	if err != nil {
		return &ConfigError{Msg: "reading required sheet " + sheetTeams, Err: err}
	}
	if len(rows) < 1 {
		return configErrorf("sheet %s has no header row", sheetTeams)
	}

	// Map header names to column indices, case-insensitively.
	columns := make(map[string]int)
	for i, header := range rows[0] {
		columns[strings.ToLower(strings.TrimSpace(header))] = i
	}
	for _, required := range []string{colTeam, colProject} {
		if _, ok := columns[required]; !ok {
			return configErrorf(
				"sheet %s is missing required column %q", sheetTeams, required,
			)
		}
	}

	cell := func(row []string, name string) string {
		idx, ok := columns[name]
		if !ok || idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}

	seen := make(map[string]bool)
	for _, row := range rows[1:] {
		name := cell(row, colTeam)
		if name == "" {
			continue
		}

		key := strings.ToLower(name)
		if seen[key] {
			return configErrorf("duplicate team %q in sheet %s", name, sheetTeams)
		}
		seen[key] = true

		team := model.TeamConfig{
			Name:       name,
			Assignee:   cell(row, colAssignee),
			Project:    cell(row, colProject),
			EpicLink:   cell(row, colEpicLink),
			IssueType:  cell(row, colIssueType),
			SprintName: cell(row, colSprintName),
			Component:  cell(row, colComponent),
		}

		if raw := cell(row, colSprint); raw != "" {
			id, err := strconv.Atoi(raw)
			if err != nil {
				return configErrorf(
					"team %q has non-numeric sprint id %q", name, raw,
				)
			}
			team.SprintID = id
		}

		if team.Project == "" {
			wb.Warnings = append(wb.Warnings,
				fmt.Sprintf("team %q has no project key, skipping", name))
			continue
		}

		wb.Teams = append(wb.Teams, team)
	}

	return nil
}

// sheetMissing reports whether an optional sheet is absent, as opposed
// to present but unreadable.
func sheetMissing(err error) bool {
	var notExist excelize.ErrSheetNotExist
	return errors.As(err, &notExist)
}

func (wb *Workbook) loadSettings(f *excelize.File) error {
	rows, err := f.GetRows(sheetConfig)
	if err != nil {
		if sheetMissing(err) {
			wb.Warnings = append(
				wb.Warnings, "sheet "+sheetConfig+" not found, using defaults",
			)
			return nil
		}
		return &ConfigError{Msg: "reading sheet " + sheetConfig, Err: err}
	}

	for _, row := range rows {
		if len(row) < 2 {
			continue
		}
		key := strings.ToLower(strings.TrimSpace(row[0]))
		value := strings.TrimSpace(row[1])
		if value == "" {
			continue
		}

		switch key {
		case "priority":
			wb.Settings.Priority = value
		case "backstage":
			wb.Settings.BaseURL = value
		case "categories":
			var categories []string
			for _, c := range strings.Split(value, ",") {
				if c = strings.TrimSpace(c); c != "" {
					categories = append(categories, c)
				}
			}
			if len(categories) > 0 {
				wb.Settings.Categories = categories
			}
		case "issue type":
			wb.Settings.IssueType = value
		}
		// Unknown keys are ignored.
	}

	return nil
}

func (wb *Workbook) loadMapping(f *excelize.File) error {
	rows, err := f.GetRows(sheetCustomFields)
	if err != nil {
		if sheetMissing(err) {
			wb.Warnings = append(
				wb.Warnings, "sheet "+sheetCustomFields+" not found, no custom field mapping",
			)
			return nil
		}
		return &ConfigError{Msg: "reading sheet " + sheetCustomFields, Err: err}
	}

	// Skip the header row when present.
	start := 0
	if len(rows) > 0 && len(rows[0]) > 0 &&
		strings.EqualFold(strings.TrimSpace(rows[0][0]), "Field Name") {
		start = 1
	}

	for _, row := range rows[start:] {
		if len(row) < 2 {
			continue
		}
		name := strings.TrimSpace(row[0])
		id := strings.TrimSpace(row[1])
		if name == "" || id == "" {
			continue
		}

		wrapper := ""
		if len(row) > 2 {
			wrapper = strings.TrimSpace(row[2])
		}

		wb.Mapping[name] = model.FieldMap{ID: id, Wrapper: wrapper}
	}

	return nil
}
