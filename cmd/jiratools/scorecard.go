package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/nhle/jira-toolkit/internal/backstage"
	"github.com/nhle/jira-toolkit/internal/model"
	"github.com/nhle/jira-toolkit/internal/scorecard"
	"github.com/nhle/jira-toolkit/internal/theme"
)

var (
	scorecardCreate       bool
	scorecardExportBase   string
	scorecardTeams        []string
	scorecardExcludeTeams []string
	scorecardIssueType    string
	scorecardBackstageURL string
)

func newScorecardCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scorecard <workbook.xlsx>",
		Short: "Generate scorecard improvement tickets per team",
		Long: `Reads the team configuration workbook, fetches each team's compliance
scorecard, and produces one improvement ticket per team and category
with gaps.

Without a mode flag the run is a dry run: every step executes except
the ticket creation and assignment calls.

Examples:
  # Dry run for every configured team
  jiratools scorecard teams.xlsx

  # Create tickets for two teams only
  jiratools scorecard teams.xlsx --create --teams TeamA,TeamB

  # Export CSV files for manual import, one per team
  jiratools scorecard teams.xlsx --export-csv ./out/scorecards`,
		Args: cobra.ExactArgs(1),
		RunE: runScorecard,
	}

	cmd.Flags().BoolVar(&scorecardCreate, "create", false,
		"Create tickets through the Jira API (default is dry run)")
	cmd.Flags().StringVar(&scorecardExportBase, "export-csv", "",
		"Export tickets to CSV files under the given base name")
	cmd.Flags().StringSliceVar(&scorecardTeams, "teams", nil,
		"Only process these teams")
	cmd.Flags().StringSliceVar(&scorecardExcludeTeams, "exclude-teams", nil,
		"Process every team except these")
	cmd.Flags().StringVar(&scorecardIssueType, "issue-type", "",
		"Issue type override for every created ticket")
	cmd.Flags().StringVar(&scorecardBackstageURL, "backstage-url", "",
		"Compliance service base URL (overrides the workbook Config sheet)")

	cmd.MarkFlagsMutuallyExclusive("create", "export-csv")
	cmd.MarkFlagsMutuallyExclusive("teams", "exclude-teams")

	return cmd
}

func runScorecard(cmd *cobra.Command, args []string) error {
	log := newLogger()
	defer log.Sync()

	wb, err := scorecard.LoadWorkbook(args[0])
	if err != nil {
		return err
	}
	for _, warning := range wb.Warnings {
		log.Warn(warning)
	}

	teams, warnings, err := scorecard.FilterTeams(
		wb.Teams, scorecardTeams, scorecardExcludeTeams,
	)
	if err != nil {
		return err
	}
	for _, warning := range warnings {
		log.Warn(warning)
	}

	var tally scorecard.Tally
	tally.Warnings += len(wb.Warnings) + len(warnings)

	if len(teams) == 0 {
		fmt.Println(theme.WarnStyle.Render(
			"no teams left to process after filtering"))
		return nil
	}

	baseURL := wb.Settings.BaseURL
	if scorecardBackstageURL != "" {
		baseURL = scorecardBackstageURL
	}
	if baseURL == "" {
		return &scorecard.ConfigError{
			Msg: "no compliance service URL: set the Backstage key in the " +
				"Config sheet or pass --backstage-url",
		}
	}

	appCfg, err := loadAppConfig()
	if err != nil {
		return err
	}

	sink, err := chooseSink(appCfg, log, &tally)
	if err != nil {
		return err
	}
	defer sink.Close()

	client := backstage.NewClient(baseURL)
	fetcher := &backstage.Chain{
		Fetchers: []backstage.Fetcher{
			&backstage.GraphQLFetcher{Client: client},
			&backstage.RESTFetcher{Client: client},
		},
	}

	runner := &scorecard.Runner{
		Teams:   teams,
		Fetcher: fetcher,
		Sink:    sink,
		Options: scorecard.AssembleOptions{
			IssueType:   scorecardIssueType,
			Settings:    wb.Settings,
			Mapping:     wb.Mapping,
			SprintField: appCfg.Fields.Sprint,
		},
		Log: log,
	}

	if err := runner.Run(cmd.Context(), &tally); err != nil {
		return err
	}

	fmt.Println()
	fmt.Println(theme.HeaderStyle.Render("Summary:"), tally.Summary())
	return nil
}

// chooseSink picks the single output sink for the run.
func chooseSink(
	appCfg *model.AppConfig,
	log *zap.SugaredLogger,
	tally *scorecard.Tally,
) (scorecard.Sink, error) {
	switch {
	case scorecardCreate:
		client, err := newJiraClient(appCfg)
		if err != nil {
			return nil, err
		}
		return &scorecard.CreateSink{
			Client:        client,
			EpicLinkField: appCfg.Fields.EpicLink,
			Log:           log,
			Warn:          func() { tally.Warnings++ },
		}, nil

	case scorecardExportBase != "":
		return scorecard.NewCSVSink(scorecardExportBase), nil
	}

	return &scorecard.DryRunSink{Log: log}, nil
}
