package progress

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
)

func TestThreshold(t *testing.T) {
	assert.Equal(t, 0, Threshold(0))
	assert.Equal(t, 100, Threshold(1))
	assert.Equal(t, 282, Threshold(2))
	assert.Equal(t, 519, Threshold(3))
	assert.Equal(t, 800, Threshold(4))
	assert.Equal(t, 100000, Threshold(100))
}

func TestComputeZero(t *testing.T) {
	p := Compute(0)
	assert.Equal(t, 0, p.Level)
	assert.Equal(t, 100, p.NextLevelXP)
	assert.Zero(t, p.Percent)
}

func TestComputeBoundaries(t *testing.T) {
	assert.Equal(t, 0, Compute(99).Level)
	assert.Equal(t, 1, Compute(100).Level)
	assert.Equal(t, 1, Compute(281).Level)
	assert.Equal(t, 2, Compute(282).Level)

	p := Compute(191)
	assert.Equal(t, 1, p.Level)
	assert.InDelta(t, 50.0, p.Percent, 0.5)
}

func TestComputeNegativeXPIsZero(t *testing.T) {
	assert.Equal(t, Compute(0), Compute(-50))
}

func TestComputeCap(t *testing.T) {
	p := Compute(Threshold(MaxLevel) + 1_000_000)
	assert.Equal(t, MaxLevel, p.Level)
	assert.Equal(t, 100.0, p.Percent)

	p = Compute(Threshold(MaxLevel))
	assert.Equal(t, MaxLevel, p.Level)
	assert.Equal(t, 100.0, p.Percent)
}

func TestProperty_LevelBracket(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 500
	properties := gopter.NewProperties(parameters)

	properties.Property("Threshold(L) <= xp < Threshold(L+1) below the cap", prop.ForAll(
		func(xp int) bool {
			p := Compute(xp)
			if p.Level == MaxLevel {
				return xp >= Threshold(MaxLevel) && p.Percent == 100
			}
			return Threshold(p.Level) <= xp && xp < Threshold(p.Level+1) &&
				p.Percent >= 0 && p.Percent < 100
		},
		gen.IntRange(0, Threshold(MaxLevel)+5000),
	))

	properties.TestingRun(t)
}
