package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nhle/jira-toolkit/internal/planner"
	"github.com/nhle/jira-toolkit/internal/theme"
)

var planTransitive bool

func newPlanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan <epic-key>",
		Short: "Order an epic's tickets by their blocking dependencies",
		Long: `Builds a dependency graph from the "Blocks" links between an epic's
children, orders it topologically, and groups the tickets into rounds:
a ticket only enters a round once every blocker sits in an earlier
round.

Done work renders green; open work renders cyan, bright when all of
its blockers are resolved.`,
		Args: cobra.ExactArgs(1),
		RunE: runPlan,
	}

	cmd.Flags().BoolVarP(&planTransitive, "transitive", "t", false,
		"Also show indirect blockers")

	return cmd
}

func runPlan(cmd *cobra.Command, args []string) error {
	appCfg, err := loadAppConfig()
	if err != nil {
		return err
	}
	client, err := newJiraClient(appCfg)
	if err != nil {
		return err
	}

	plan, err := planner.BuildPlan(cmd.Context(), client, args[0])
	if err != nil {
		return err
	}

	fmt.Println(theme.HeaderStyle.Render(
		"Ordered tickets grouped by round for " + plan.EpicKey))

	for i, round := range plan.Rounds {
		fmt.Printf("\n%s\n", theme.HeaderStyle.Render(fmt.Sprintf("Round %d:", i+1)))
		for _, key := range round {
			fmt.Println(renderPlanLine(plan, key))
		}
	}

	return nil
}

// renderPlanLine formats one issue with its blockers, coloring each
// blocker by completion.
func renderPlanLine(plan *planner.Plan, key string) string {
	issue := plan.Issues[key]

	blockers := plan.Blockers[key]
	allResolved := true
	for _, blocker := range blockers {
		if !plan.Issues[blocker].Done {
			allResolved = false
			break
		}
	}

	keyStyle := theme.KeyStyle
	if issue.Done {
		keyStyle = theme.SuccessStyle.Bold(true)
	} else if !allResolved {
		keyStyle = theme.SubtleStyle
	}

	line := fmt.Sprintf("  %s: %s %s",
		keyStyle.Render(key), issue.Summary, renderDeps(plan, blockers))

	if planTransitive {
		if indirect := plan.Transitive[key]; len(indirect) > 0 {
			line += " transitive " + renderDeps(plan, indirect)
		}
	}

	return line
}

// renderDeps renders a dependency list, green when done, red when not.
func renderDeps(plan *planner.Plan, deps []string) string {
	if len(deps) == 0 {
		return "[]"
	}

	rendered := make([]string, len(deps))
	for i, dep := range deps {
		if plan.Issues[dep].Done {
			rendered[i] = theme.SuccessStyle.Render(dep)
		} else {
			rendered[i] = theme.ErrorStyle.Render(dep)
		}
	}
	return "[" + strings.Join(rendered, ", ") + "]"
}
