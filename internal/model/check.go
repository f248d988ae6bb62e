package model

import "fmt"

// Tier is a scorecard compliance level. Zero means no tier has been
// reached.
type Tier int

// TierNone indicates the team satisfies no tier in a category.
const TierNone Tier = 0

// String renders a tier as "L<n>", or "NL" when no tier is reached.
func (t Tier) String() string {
	if t == TierNone {
		return "NL"
	}
	return fmt.Sprintf("L%d", int(t))
}

// CheckResult is one scorecard check for a team, carrying its pass
// state and progress metrics where the source provides them.
type CheckResult struct {
	ID       string
	Name     string
	Category string
	Tier     Tier
	Passed   bool

	// Current and Target are the entities passing versus the entities
	// measured, when the check reports counts.
	Current int
	Target  int

	// Percent is the reported completion percentage.
	Percent float64
}

// Ratio renders the check progress as "current/target (pct%)".
func (c CheckResult) Ratio() string {
	return fmt.Sprintf(
		"%d/%d (%.0f%%)", c.Current, c.Target, c.PercentOrDerived(),
	)
}

// Shortfall is the number of entities still needed to pass the check.
func (c CheckResult) Shortfall() int {
	n := c.Target - c.Current
	if n < 0 {
		return 0
	}
	return n
}

// PercentOrDerived returns the reported percentage, deriving it from
// the counts when the source omitted it.
func (c CheckResult) PercentOrDerived() float64 {
	if c.Percent != 0 || c.Target == 0 {
		return c.Percent
	}
	return float64(c.Current) / float64(c.Target) * 100
}

// TierGaps groups the failing checks of one tier.
type TierGaps struct {
	Tier   Tier
	Checks []CheckResult
}

// GapReport is the gap analysis for one team and category: the tier
// currently held and the failing checks above it, grouped by tier in
// ascending order.
type GapReport struct {
	Team        string
	Category    string
	CurrentTier Tier
	Tiers       []TierGaps
	Total       int
}
