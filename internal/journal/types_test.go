package journal

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNetBalance(t *testing.T) {
	trades := []Trade{{Profit: 120}, {Profit: -45.5}}
	withdrawals := []LedgerEntry{{Amount: 50}}
	additions := []LedgerEntry{{Amount: 1000}}
	adjustments := []LedgerEntry{{Amount: -4.5}}

	assert.InDelta(t, 1020.0, NetBalance(trades, withdrawals, additions, adjustments), 1e-9)
	assert.Zero(t, NetBalance(nil, nil, nil, nil))
}

func TestOutcomeValid(t *testing.T) {
	assert.True(t, Win.Valid())
	assert.True(t, Loss.Valid())
	assert.True(t, Breakeven.Valid())
	assert.False(t, Outcome("draw").Valid())
}

func TestISOWeek(t *testing.T) {
	assert.Equal(t, "2025-W02", ISOWeek(time.Date(2025, 1, 6, 12, 0, 0, 0, time.UTC)))
	assert.Equal(t, "2025-W01", ISOWeek(time.Date(2024, 12, 30, 0, 0, 0, 0, time.UTC)))
}

func TestGainPhaseCovers(t *testing.T) {
	p := GainPhase{FromWeek: 3, ToWeek: 5}
	assert.False(t, p.Covers(2))
	assert.True(t, p.Covers(3))
	assert.True(t, p.Covers(5))
	assert.False(t, p.Covers(6))
}
