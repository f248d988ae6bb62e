package scorecard

import (
	"fmt"
	"strings"

	"github.com/nhle/jira-toolkit/internal/model"
)

// DefaultIssueType is used when neither the CLI flag, the team row,
// nor the Config sheet names an issue type.
const DefaultIssueType = "Task"

// AssembleOptions carries the run-wide inputs of the ticket assembler.
type AssembleOptions struct {
	// IssueType is the CLI override; it wins over the per-team value
	// and the global default.
	IssueType string

	Settings model.Settings
	Mapping  model.FieldMapping

	// SprintField is the custom field id for the sprint when the
	// mapping does not name one.
	SprintField string
}

// Assemble turns a gap report into a ticket record for the team.
func Assemble(
	team model.TeamConfig,
	report model.GapReport,
	opts AssembleOptions,
) model.TicketRecord {
	record := model.TicketRecord{
		Team:        team.Name,
		Category:    report.Category,
		Summary:     fmt.Sprintf("%s Scorecards Improvement: %s", team.Name, report.Category),
		Description: renderDescription(report),
		IssueType:   resolveIssueType(opts.IssueType, team, opts.Settings),
		Project:     team.Project,
		Assignee:    team.Assignee,
		EpicLink:    team.EpicLink,
		Priority:    opts.Settings.Priority,
		SprintID:    team.SprintID,
		Component:   team.Component,
		Labels:      []string{"scorecard-improvement"},
	}

	record.Fields = extraFields(team, opts)
	return record
}

// resolveIssueType picks the issue type: CLI flag, then the team row,
// then the Config sheet, then "Task".
func resolveIssueType(
	flag string,
	team model.TeamConfig,
	settings model.Settings,
) string {
	switch {
	case flag != "":
		return flag
	case team.IssueType != "":
		return team.IssueType
	case settings.IssueType != "":
		return settings.IssueType
	}
	return DefaultIssueType
}

// renderDescription formats the gap report in Jira wiki markup: the
// current compliance level, a total header, then one block per tier in
// ascending order.
func renderDescription(report model.GapReport) string {
	var b strings.Builder

	fmt.Fprintf(&b, "*Current Compliance Level:* %s\n", report.CurrentTier)
	b.WriteString("\n")
	fmt.Fprintf(&b, "*Improvement Opportunities:* (%d total)\n", report.Total)

	for _, tier := range report.Tiers {
		fmt.Fprintf(&b, "\n*%s:*\n", tier.Tier)
		for _, check := range tier.Checks {
			fmt.Fprintf(
				&b, "* %s: %s, %d more to pass\n",
				check.Name, check.Ratio(), check.Shortfall(),
			)
		}
	}

	return b.String()
}

// extraFields builds the custom field map of the record. Every team
// field whose logical name appears in the field mapping is written to
// the mapped custom field id, wrapped per its strategy. The team name
// always attributes the ticket when a Sprint Team field is mapped.
// Standard Jira fields (component, priority, labels) and the assignee
// never route through the mapping; the sprint falls back to the
// configured sprint custom field.
func extraFields(team model.TeamConfig, opts AssembleOptions) map[string]any {
	fields := make(map[string]any)

	apply := func(name string, value any) bool {
		m, ok := lookupMapping(opts.Mapping, name)
		if !ok {
			return false
		}
		fields[m.ID] = m.Wrap(value)
		return true
	}

	apply("Sprint Team", team.Name)

	if team.SprintID > 0 {
		if !apply("Sprint", team.SprintID) && opts.SprintField != "" {
			fields[opts.SprintField] = team.SprintID
		}
	}
	if team.SprintName != "" {
		apply("Sprint Name", team.SprintName)
	}
	if team.EpicLink != "" {
		apply("Epic Link", team.EpicLink)
	}

	return fields
}

// lookupMapping finds a mapping row by logical field name, matching
// case-insensitively like the workbook headers.
func lookupMapping(mapping model.FieldMapping, name string) (model.FieldMap, bool) {
	for key, m := range mapping {
		if strings.EqualFold(key, name) {
			return m, true
		}
	}
	return model.FieldMap{}, false
}

// CreateFields builds the "fields" object of the create call from a
// record. The assignee stays out since assignment is a separate call.
func CreateFields(record model.TicketRecord) map[string]interface{} {
	fields := map[string]interface{}{
		"project":     map[string]string{"key": record.Project},
		"summary":     record.Summary,
		"description": record.Description,
		"issuetype":   map[string]string{"name": record.IssueType},
	}

	if record.Priority != "" {
		fields["priority"] = map[string]string{"name": record.Priority}
	}
	if record.Component != "" {
		fields["components"] = []map[string]string{{"name": record.Component}}
	}
	if len(record.Labels) > 0 {
		fields["labels"] = record.Labels
	}
	for id, value := range record.Fields {
		fields[id] = value
	}

	return fields
}
