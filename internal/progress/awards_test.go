package progress

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/camuig/trade-quest/internal/journal"
)

func TestForTrade(t *testing.T) {
	assert.Equal(t, Award{XP: XPWin, Coins: CoinsWin}, ForTrade(journal.Win))
	assert.Equal(t, Award{XP: XPLoss}, ForTrade(journal.Loss))
	assert.Equal(t, Award{XP: XPBreakeven}, ForTrade(journal.Breakeven))
	assert.Equal(t, Award{}, ForTrade("unknown"))
}

func TestForJournalEntryClampsRating(t *testing.T) {
	assert.Equal(t, XPJournalEntry, ForJournalEntry(-3).XP)
	assert.Equal(t, XPJournalEntry+5*XPPerRating, ForJournalEntry(9).XP)
}

func TestApplyReportsLevelChange(t *testing.T) {
	p := journal.PlayerStats{XP: 90}
	before, after := Apply(&p, ForTrade(journal.Win))

	assert.Equal(t, 0, before.Level)
	assert.Equal(t, 1, after.Level)
	assert.Equal(t, 140, p.XP)
	assert.Equal(t, CoinsWin, p.Coins)
}

func TestAchievements(t *testing.T) {
	trades := []journal.Trade{
		{Profit: 10, Timestamp: time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC)},
		{Profit: -30, Timestamp: time.Date(2025, 2, 5, 0, 0, 0, 0, time.UTC)},
	}
	got := Achievements(AchievementInput{
		Trades:         trades,
		JournalEntries: 7,
		LongestStreak:  5,
		Level:          12,
		Location:       time.UTC,
	})

	unlocked := map[string]bool{}
	for _, a := range got {
		unlocked[a.ID] = a.Unlocked
	}
	assert.True(t, unlocked["first-blood"])
	assert.True(t, unlocked["hot-hand"])
	assert.False(t, unlocked["unstoppable"])
	assert.True(t, unlocked["apprentice"])
	assert.False(t, unlocked["veteran"])
	assert.True(t, unlocked["chronicler"])
	assert.True(t, unlocked["green-month"])
	assert.False(t, unlocked["centurion"])
}
