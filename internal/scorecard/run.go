package scorecard

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/nhle/jira-toolkit/internal/backstage"
	"github.com/nhle/jira-toolkit/internal/model"
	"github.com/nhle/jira-toolkit/internal/theme"
)

// Tally accumulates the run summary counters. They are only read
// after the full run completes.
type Tally struct {
	Created  int
	Skipped  int
	Warnings int
}

// Runner drives the scorecard pipeline: one team at a time, one
// category at a time, through fetch, analyze, assemble, deliver.
type Runner struct {
	Teams   []model.TeamConfig
	Fetcher backstage.Fetcher
	Sink    Sink
	Options AssembleOptions
	Log     *zap.SugaredLogger
}

// Run processes every team, accumulating into tally. Per-team and
// per-ticket failures warn and continue; nothing here is fatal to the
// batch.
func (r *Runner) Run(ctx context.Context, tally *Tally) error {
	for _, team := range r.Teams {
		if err := ctx.Err(); err != nil {
			return err
		}

		fmt.Printf("%s %s\n",
			theme.HeaderStyle.Render("Processing"),
			theme.TeamStyle.Render(team.Name),
		)

		checks, err := r.Fetcher.Fetch(ctx, team.Name)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return err
			}
			r.Log.Warnw("no scorecard data for team, skipping",
				"team", team.Name, "error", err)
			tally.Warnings++
			continue
		}

		reports := Analyze(team.Name, checks, r.Options.Settings.Categories)
		if len(reports) == 0 {
			fmt.Printf("  %s\n", theme.SuccessStyle.Render(
				"no compliance gaps, nothing to do"))
			continue
		}

		for _, report := range reports {
			record := Assemble(team, report, r.Options)

			id, err := r.Sink.Deliver(ctx, record)
			if err != nil {
				r.Log.Warnw("ticket delivery failed, skipping",
					"team", team.Name,
					"category", report.Category,
					"error", err)
				tally.Skipped++
				tally.Warnings++
				continue
			}

			tally.Created++
			tier := report.CurrentTier.String()
			fmt.Printf("  %s %s (%s, %s)\n",
				theme.KeyStyle.Render(id),
				record.Summary,
				theme.TierStyle(tier).Render(tier),
				theme.SubtleStyle.Render(fmt.Sprintf("%d gaps", report.Total)),
			)
		}
	}

	return nil
}

// Summary renders the end-of-run tally line.
func (t Tally) Summary() string {
	return fmt.Sprintf(
		"%s created, %s skipped, %s warnings",
		theme.SuccessStyle.Render(fmt.Sprintf("%d", t.Created)),
		theme.WarnStyle.Render(fmt.Sprintf("%d", t.Skipped)),
		theme.WarnStyle.Render(fmt.Sprintf("%d", t.Warnings)),
	)
}
