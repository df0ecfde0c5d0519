package rank

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/camuig/trade-quest/internal/journal"
	"github.com/camuig/trade-quest/internal/stats"
)

func TestWinRateTable(t *testing.T) {
	cases := []struct {
		score float64
		want  Letter
	}{
		{95, SS}, {90, SS}, {89.9, S}, {80, S}, {75, A}, {60, B}, {55, C}, {40, D}, {39.9, E}, {0, E},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, WinRateTable.Lookup(tc.score), "score %v", tc.score)
	}
}

func TestSkillTable(t *testing.T) {
	assert.Equal(t, SS, SkillTable.Lookup(4.8))
	assert.Equal(t, S, SkillTable.Lookup(4.2))
	assert.Equal(t, B, SkillTable.Lookup(3.0))
	assert.Equal(t, E, SkillTable.Lookup(1.5))
}

func TestMinimumSample(t *testing.T) {
	c := NewClassifier(WinRateTable, 10)

	r := c.Classify(Input{Score: 100, Samples: 9})
	assert.Equal(t, NotEnoughData, r.Letter)
	assert.Equal(t, "gray", r.Color)
	assert.Equal(t, "min-sample", r.Rule)

	r = c.Classify(Input{Score: 100, Samples: 10})
	assert.Equal(t, SS, r.Letter)
	assert.Equal(t, "threshold", r.Rule)
}

func TestPoisonedPairOverridesEverything(t *testing.T) {
	day := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)
	var trades []journal.Trade
	for i := 0; i < 3; i++ {
		trades = append(trades, journal.Trade{Pair: "GBPJPY", Outcome: journal.Loss, Timestamp: day.Add(time.Duration(i) * time.Hour)})
	}
	for i := 0; i < 40; i++ {
		trades = append(trades, journal.Trade{Pair: "EURUSD", Outcome: journal.Win, Timestamp: day.Add(time.Duration(i) * time.Minute)})
	}

	c := NewClassifier(WinRateTable, 10)
	s := stats.Summarize(trades, time.UTC, stats.BreakevenIgnore)
	r := c.Classify(Input{Score: s.WinRate, Samples: s.Trades, LossesByPair: stats.LossesByPair(trades)})
	assert.Equal(t, E, r.Letter)
	assert.Equal(t, "poisoned-pair", r.Rule)

	// wins precedence over the sample guard too
	r = c.Classify(Input{Score: 100, Samples: 3, LossesByPair: map[string]int{"GBPJPY": 3}})
	assert.Equal(t, E, r.Letter)
}

func TestRuleOrder(t *testing.T) {
	var names []string
	for _, r := range NewClassifier(SkillTable, 5).Rules() {
		names = append(names, r.Name)
	}
	assert.Equal(t, []string{"poisoned-pair", "min-sample", "threshold"}, names)
}
