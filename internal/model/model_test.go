package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTierString(t *testing.T) {
	assert.Equal(t, "NL", TierNone.String())
	assert.Equal(t, "L1", Tier(1).String())
	assert.Equal(t, "L4", Tier(4).String())
}

func TestCheckResultRatio(t *testing.T) {
	c := CheckResult{Current: 21, Target: 25, Percent: 84}
	assert.Equal(t, "21/25 (84%)", c.Ratio())
	assert.Equal(t, 4, c.Shortfall())

	// Percentage derived from the counts when the source omits it.
	c = CheckResult{Current: 5, Target: 10}
	assert.Equal(t, "5/10 (50%)", c.Ratio())

	c = CheckResult{Current: 12, Target: 10}
	assert.Zero(t, c.Shortfall())
}

func TestStatusIsDone(t *testing.T) {
	for _, status := range []string{"Closed", "deployed", "DONE", "Resolved "} {
		assert.True(t, StatusIsDone(status), status)
	}
	for _, status := range []string{"Open", "In Progress", "Withdrawn", ""} {
		assert.False(t, StatusIsDone(status), status)
	}
}
