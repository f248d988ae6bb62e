package scorecard

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/nhle/jira-toolkit/internal/model"
)

// csvColumns is the fixed export column order. The multi-line
// description sits last so embedded line breaks cannot shift the
// columns that follow.
var csvColumns = []string{
	"Summary", "Issue Type", "Project", "Priority", "Assignee",
	"Epic Link", "Sprint", "Component", "Labels", "Team", "Description",
}

// CSVSink writes one file per team, named <base>-<team>.csv. Every
// non-numeric field is quoted and embedded newlines are preserved
// verbatim; the importer must be configured not to collapse them.
type CSVSink struct {
	Base string

	files map[string]*os.File
}

// NewCSVSink returns a CSV export sink writing files under the given
// base name.
func NewCSVSink(base string) *CSVSink {
	return &CSVSink{
		Base:  base,
		files: make(map[string]*os.File),
	}
}

// Deliver implements Sink.
func (s *CSVSink) Deliver(
	_ context.Context,
	record model.TicketRecord,
) (string, error) {
	f, err := s.fileFor(record.Team)
	if err != nil {
		return "", err
	}

	sprint := ""
	if record.SprintID > 0 {
		sprint = strconv.Itoa(record.SprintID)
	}

	row := []string{
		record.Summary,
		record.IssueType,
		record.Project,
		record.Priority,
		record.Assignee,
		record.EpicLink,
		sprint,
		record.Component,
		strings.Join(record.Labels, ";"),
		record.Team,
		record.Description,
	}

	if _, err := f.WriteString(encodeRow(row) + "\n"); err != nil {
		return "", fmt.Errorf("writing csv row for %s: %w", record.Team, err)
	}

	return f.Name(), nil
}

// Close implements Sink.
func (s *CSVSink) Close() error {
	var firstErr error
	for _, f := range s.files {
		if err := f.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// fileFor opens the team's export file on first use and writes the
// header row.
func (s *CSVSink) fileFor(team string) (*os.File, error) {
	if f, ok := s.files[team]; ok {
		return f, nil
	}

	name := fmt.Sprintf("%s-%s.csv", s.Base, team)
	f, err := os.Create(name)
	if err != nil {
		return nil, fmt.Errorf("creating export file %s: %w", name, err)
	}

	if _, err := f.WriteString(encodeRow(csvColumns) + "\n"); err != nil {
		f.Close()
		return nil, fmt.Errorf("writing header to %s: %w", name, err)
	}

	s.files[team] = f
	return f, nil
}

// encodeRow joins fields with commas, quoting every non-numeric field
// and doubling embedded quotes. Newlines inside fields are kept as-is.
func encodeRow(fields []string) string {
	encoded := make([]string, len(fields))
	for i, field := range fields {
		encoded[i] = encodeField(field)
	}
	return strings.Join(encoded, ",")
}

func encodeField(field string) string {
	if field != "" && isNumeric(field) {
		return field
	}
	return `"` + strings.ReplaceAll(field, `"`, `""`) + `"`
}

func isNumeric(s string) bool {
	_, err := strconv.ParseFloat(s, 64)
	return err == nil
}
