package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/nhle/jira-toolkit/internal/subtasks"
	"github.com/nhle/jira-toolkit/internal/theme"
)

var (
	subtasksFrom string
	subtasksTo   string
)

func newSubtasksCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "subtasks <user>",
		Short: "Find a user's subtasks whose parent is owned by someone else",
		Long: `Searches the subtasks assigned to a user and updated within a date
window, and reports the ones whose parent ticket has a different
assignee.`,
		Args: cobra.ExactArgs(1),
		RunE: runSubtasks,
	}

	cmd.Flags().StringVar(&subtasksFrom, "from", "",
		"Window start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&subtasksTo, "to", "",
		"Window end date (YYYY-MM-DD)")
	cmd.MarkFlagRequired("from")
	cmd.MarkFlagRequired("to")

	return cmd
}

func runSubtasks(cmd *cobra.Command, args []string) error {
	log := newLogger()
	defer log.Sync()

	for _, date := range []string{subtasksFrom, subtasksTo} {
		if _, err := time.Parse("2006-01-02", date); err != nil {
			return fmt.Errorf("invalid date %q, expected YYYY-MM-DD", date)
		}
	}

	appCfg, err := loadAppConfig()
	if err != nil {
		return err
	}
	client, err := newJiraClient(appCfg)
	if err != nil {
		return err
	}

	mismatches, err := subtasks.Find(
		cmd.Context(), client, args[0], subtasksFrom, subtasksTo, log,
	)
	if err != nil {
		return err
	}

	if len(mismatches) == 0 {
		fmt.Println(theme.SuccessStyle.Render(
			"no subtasks with a different parent owner in the window"))
		return nil
	}

	fmt.Println(theme.HeaderStyle.Render("Mismatched Subtasks:"))
	for _, m := range mismatches {
		fmt.Printf("\n%s %s (%s)\n",
			theme.KeyStyle.Render(m.SubtaskKey), m.SubtaskSummary,
			m.SubtaskStatus)
		fmt.Printf("  Assigned to: %s\n", m.SubtaskAssignee)
		fmt.Printf("  Parent: %s %s (%s)\n",
			theme.KeyStyle.Render(m.ParentKey), m.ParentSummary,
			m.ParentStatus)
		fmt.Printf("  Parent owner: %s\n",
			theme.WarnStyle.Render(m.ParentAssignee))
	}

	return nil
}
