package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/nhle/jira-toolkit/internal/epictime"
	"github.com/nhle/jira-toolkit/internal/theme"
)

var epictimeProject string

func newEpictimeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "epictime <team>",
		Short: "Measure how long a team's open epics stay in development",
		Long: `Finds the team's open epics and measures each one's development span:
the time from the epic's creation to the creation of its newest child
ticket. Children created before the epic are reported separately since
they were moved in rather than planned under it.`,
		Args: cobra.ExactArgs(1),
		RunE: runEpictime,
	}

	cmd.Flags().StringVar(&epictimeProject, "project", "",
		"Limit the epic search to one project key")

	return cmd
}

func runEpictime(cmd *cobra.Command, args []string) error {
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

	report, err := epictime.Build(
		cmd.Context(), client, args[0], epictimeProject, log,
	)
	if err != nil {
		return err
	}

	if len(report.Spans) == 0 {
		fmt.Println(theme.WarnStyle.Render(
			"no epics with development time data found"))
		return nil
	}

	fmt.Println(theme.HeaderStyle.Render(
		"Epic Development Time Analysis: " + args[0]))

	for _, span := range report.Spans {
		fmt.Printf("\n%s %s\n",
			theme.KeyStyle.Render(span.Key), span.Summary)
		fmt.Printf("  Created: %s\n", span.Created.Format("2006-01-02"))
		if span.PriorTickets > 0 {
			fmt.Printf("  Tickets created before the epic: %d\n", span.PriorTickets)
		}
		fmt.Printf("  Tickets created after the epic: %d (%s to %s)\n",
			span.RelevantTickets,
			span.FirstRelevant.Format("2006-01-02"),
			span.LastRelevant.Format("2006-01-02"),
		)
		fmt.Printf("  Development span: %s\n", formatSpan(span.DevelopmentSpan))
		fmt.Printf("  Ticket creation activity span: %s\n",
			formatSpan(span.ActivitySpan))
	}

	longest := report.Spans[0]
	shortest := report.Spans[len(report.Spans)-1]

	fmt.Printf("\n%s\n", theme.HeaderStyle.Render("Summary:"))
	fmt.Printf("  Longest development span: %s (%s)\n",
		theme.KeyStyle.Render(longest.Key), formatSpan(longest.DevelopmentSpan))
	fmt.Printf("  Shortest development span: %s (%s)\n",
		theme.KeyStyle.Render(shortest.Key), formatSpan(shortest.DevelopmentSpan))
	fmt.Printf("  Average development span: %s\n",
		theme.SuccessStyle.Render(formatSpan(report.Average)))

	return nil
}

// formatSpan renders a duration as whole days and hours.
func formatSpan(d time.Duration) string {
	days := int(d.Hours()) / 24
	hours := int(d.Hours()) % 24
	if days == 0 {
		return fmt.Sprintf("%dh", hours)
	}
	return fmt.Sprintf("%dd %dh", days, hours)
}
