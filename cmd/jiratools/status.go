package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/nhle/jira-toolkit/internal/epicreport"
	"github.com/nhle/jira-toolkit/internal/model"
	"github.com/nhle/jira-toolkit/internal/theme"
)

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status <epic-key>",
		Short: "Evaluate the current plan of an epic",
		Long: `Groups an epic's children into completed, planned, and unplanned
buckets. Planned and completed work is grouped by sprint, sorted by
sprint start date; issues in several sprints report against the last
one.`,
		Args: cobra.ExactArgs(1),
		RunE: runStatus,
	}
}

func runStatus(cmd *cobra.Command, args []string) error {
	log := newLogger()
	defer log.Sync()

	appCfg, err := loadAppConfig()
	if err != nil {
		return err
	}
	client, err := newJiraClient(appCfg)
	if err != nil {
		return err
	}

	report, err := epicreport.Build(
		cmd.Context(), client, args[0], appCfg.Fields.Sprint, log,
	)
	if err != nil {
		return err
	}

	fmt.Println(theme.HeaderStyle.Render(
		"Epic Plan Evaluation: " + report.EpicKey))

	printIssueList("Completed Work (no sprint)", report.CompletedNoSprint)
	printSprintGroups("Completed Work", report.Completed)
	printSprintGroups("Planned Work", report.Planned)
	printIssueList("Unplanned Work", report.Unplanned)

	return nil
}

func printIssueList(title string, issues []epicreport.IssueRef) {
	if len(issues) == 0 {
		return
	}

	fmt.Printf("\n%s\n", theme.HeaderStyle.Render(title+":"))
	for _, issue := range issues {
		fmt.Printf("  %s: %s\n",
			statusStyleFor(issue.Status).Render(issue.Key), issue.Summary)
	}
}

func printSprintGroups(title string, groups []epicreport.SprintGroup) {
	if len(groups) == 0 {
		return
	}

	fmt.Printf("\n%s\n", theme.HeaderStyle.Render(title+":"))
	for _, group := range groups {
		fmt.Printf("\n%s\n", theme.HeaderStyle.Render(fmt.Sprintf(
			"Sprint: %s (%s - %s)",
			group.Sprint.Name,
			formatDate(group.Sprint.StartDate),
			formatDate(group.Sprint.EndDate),
		)))

		for _, statusGroup := range group.Statuses {
			fmt.Printf("  %s:\n", statusGroup.Status)
			for _, issue := range statusGroup.Issues {
				fmt.Printf("    %s: %s\n",
					statusStyleFor(issue.Status).Render(issue.Key),
					issue.Summary)
			}
		}
	}
}

func statusStyleFor(status string) lipgloss.Style {
	switch {
	case model.StatusIsDone(status):
		return theme.SuccessStyle.Bold(true)
	case strings.EqualFold(status, "withdrawn"):
		return theme.SuccessStyle
	default:
		return theme.WarnStyle
	}
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return "N/A"
	}
	return t.Format("2006-01-02")
}
