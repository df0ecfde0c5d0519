package stats

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/camuig/trade-quest/internal/journal"
)

func TestSummarize(t *testing.T) {
	four, two := 4, 2
	trades := []journal.Trade{
		{Outcome: journal.Win, Profit: 40, Timestamp: at(1, 9), Discipline: &four},
		{Outcome: journal.Win, Profit: 10, Timestamp: at(1, 10)},
		{Outcome: journal.Loss, Profit: -20, Timestamp: at(2, 9), Discipline: &two},
		{Outcome: journal.Breakeven, Profit: 0, Timestamp: at(2, 10)},
	}

	s := Summarize(trades, time.UTC, BreakevenIgnore)
	assert.Equal(t, 4, s.Trades)
	assert.Equal(t, 2, s.Wins)
	assert.Equal(t, 1, s.Losses)
	assert.Equal(t, 1, s.Breakevens)
	assert.InDelta(t, 66.666, s.WinRate, 0.01)
	assert.InDelta(t, 30.0, s.NetProfit, 1e-9)
	assert.Equal(t, 2, s.LongestWinStreak)
	assert.InDelta(t, 3.0, s.AvgDiscipline, 1e-9)
	assert.Equal(t, 2, s.RatedTrades)
}

func TestByStrategy(t *testing.T) {
	trades := []journal.Trade{
		{Strategy: "breakout", Outcome: journal.Win, Profit: 50},
		{Strategy: "breakout", Outcome: journal.Loss, Profit: -10},
		{Strategy: "fade", Outcome: journal.Loss, Profit: -30},
		{Outcome: journal.Win, Profit: 5},
	}

	rows := ByStrategy(trades)
	require.Len(t, rows, 3)
	assert.Equal(t, "breakout", rows[0].Strategy)
	assert.InDelta(t, 50.0, rows[0].WinRate, 1e-9)
	assert.Equal(t, "untagged", rows[1].Strategy)
	assert.Equal(t, "fade", rows[2].Strategy)
}

func TestLossesByPairAndWindow(t *testing.T) {
	trades := []journal.Trade{
		{Pair: "XAUUSD", Outcome: journal.Loss, Timestamp: at(1, 0)},
		{Pair: "XAUUSD", Outcome: journal.Loss, Timestamp: at(5, 0)},
		{Pair: "EURUSD", Outcome: journal.Win, Timestamp: at(9, 0)},
	}
	assert.Equal(t, map[string]int{"XAUUSD": 2}, LossesByPair(trades))
	assert.Len(t, Window(trades, at(2, 0), at(9, 0)), 1)
	assert.Len(t, Window(trades, at(1, 0), at(10, 0)), 3)
}
