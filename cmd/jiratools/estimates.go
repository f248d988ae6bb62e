package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nhle/jira-toolkit/internal/estimate"
	"github.com/nhle/jira-toolkit/internal/theme"
)

var estimatesApply bool

func newEstimatesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "estimates <assignee|team> <name>",
		Short: "Populate remaining estimates from original estimates",
		Long: `For open issues matching an assignee or team that carry story points
and an original estimate but no remaining estimate, copies the original
estimate into the remaining estimate. Dry run by default; pass --apply
to write the updates.`,
		Args: cobra.ExactArgs(2),
		RunE: runEstimates,
	}

	cmd.Flags().BoolVar(&estimatesApply, "apply", false,
		"Perform the updates (default is dry run)")

	return cmd
}

func runEstimates(cmd *cobra.Command, args []string) error {
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

	updater := &estimate.Updater{
		Client:           client,
		StoryPointsField: appCfg.Fields.StoryPoints,
		Apply:            estimatesApply,
		Log:              log,
	}

	result, err := updater.Run(cmd.Context(), estimate.Query{
		Kind: args[0],
		Name: args[1],
	})
	if err != nil {
		return err
	}

	fmt.Println()
	fmt.Println(theme.HeaderStyle.Render("Summary:"))
	verb := "Updated"
	if !estimatesApply {
		verb = "Would update"
	}
	fmt.Printf("  %s: %s issues\n", verb,
		theme.SuccessStyle.Render(fmt.Sprintf("%d", result.Updated)))
	fmt.Printf("  Skipped: %s issues\n",
		theme.WarnStyle.Render(fmt.Sprintf("%d", result.Skipped)))
	if !estimatesApply {
		fmt.Println(theme.SubtleStyle.Render(
			"\nRun with --apply to write the changes."))
	}

	return nil
}
