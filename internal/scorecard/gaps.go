package scorecard

import (
	"sort"
	"strings"

	"github.com/nhle/jira-toolkit/internal/model"
)

// Analyze runs the gap analysis for one team. Checks are grouped by
// category (restricted to the configured category list) and by tier.
// Within a category the current tier is the highest tier T such that
// every check at T and below passes; every failing check strictly
// above T is a gap. Categories with no gaps yield no report.
func Analyze(
	team string,
	checks []model.CheckResult,
	categories []string,
) []model.GapReport {
	byCategory := make(map[string][]model.CheckResult)
	for _, check := range checks {
		byCategory[strings.ToLower(check.Category)] = append(
			byCategory[strings.ToLower(check.Category)], check,
		)
	}

	var reports []model.GapReport
	for _, category := range categories {
		categoryChecks := byCategory[strings.ToLower(category)]
		if len(categoryChecks) == 0 {
			continue
		}

		report := analyzeCategory(team, category, categoryChecks)
		if report.Total > 0 {
			reports = append(reports, report)
		}
	}

	return reports
}

// analyzeCategory computes the current tier and gap list for one
// category's checks.
func analyzeCategory(
	team string,
	category string,
	checks []model.CheckResult,
) model.GapReport {
	byTier := make(map[model.Tier][]model.CheckResult)
	for _, check := range checks {
		byTier[check.Tier] = append(byTier[check.Tier], check)
	}

	tiers := make([]model.Tier, 0, len(byTier))
	for tier := range byTier {
		tiers = append(tiers, tier)
	}
	sort.Slice(tiers, func(i, j int) bool { return tiers[i] < tiers[j] })

	// Scan tiers ascending; the current tier is the highest reached
	// with everything at and below it passing.
	current := model.TierNone
	for _, tier := range tiers {
		allPassed := true
		for _, check := range byTier[tier] {
			if !check.Passed {
				allPassed = false
				break
			}
		}
		if !allPassed {
			break
		}
		current = tier
	}

	report := model.GapReport{
		Team:        team,
		Category:    category,
		CurrentTier: current,
	}

	// Failing checks strictly above the current tier are gaps,
	// grouped by tier ascending. Identically named checks are kept
	// as separate entries.
	for _, tier := range tiers {
		if tier <= current {
			continue
		}

		var failing []model.CheckResult
		for _, check := range byTier[tier] {
			if !check.Passed {
				failing = append(failing, check)
			}
		}
		if len(failing) == 0 {
			continue
		}

		report.Tiers = append(report.Tiers, model.TierGaps{
			Tier:   tier,
			Checks: failing,
		})
		report.Total += len(failing)
	}

	return report
}
