package progress

import (
	"time"

	"github.com/camuig/trade-quest/internal/journal"
)

type Achievement struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Unlocked    bool   `json:"unlocked"`
}

// AchievementInput carries the derived numbers achievements are checked against.
type AchievementInput struct {
	Trades         []journal.Trade
	JournalEntries int
	LongestStreak  int
	Level          int
	Location       *time.Location
}

type achievementRule struct {
	id, title, description string
	check                  func(AchievementInput) bool
}

var achievementRules = []achievementRule{
	{"first-blood", "First Blood", "Log your first trade.", func(in AchievementInput) bool {
		return len(in.Trades) > 0
	}},
	{"hot-hand", "Hot Hand", "Win 5 trades in a row.", func(in AchievementInput) bool {
		return in.LongestStreak >= 5
	}},
	{"unstoppable", "Unstoppable", "Win 10 trades in a row.", func(in AchievementInput) bool {
		return in.LongestStreak >= 10
	}},
	{"centurion", "Centurion", "Log 100 trades.", func(in AchievementInput) bool {
		return len(in.Trades) >= 100
	}},
	{"apprentice", "Apprentice", "Reach level 10.", func(in AchievementInput) bool {
		return in.Level >= 10
	}},
	{"veteran", "Veteran", "Reach level 50.", func(in AchievementInput) bool {
		return in.Level >= 50
	}},
	{"chronicler", "Chronicler", "Write 7 journal entries.", func(in AchievementInput) bool {
		return in.JournalEntries >= 7
	}},
	{"green-month", "Green Month", "Close a calendar month in profit.", hasProfitableMonth},
}

func Achievements(in AchievementInput) []Achievement {
	if in.Location == nil {
		in.Location = time.Local
	}
	out := make([]Achievement, 0, len(achievementRules))
	for _, r := range achievementRules {
		out = append(out, Achievement{
			ID:          r.id,
			Title:       r.title,
			Description: r.description,
			Unlocked:    r.check(in),
		})
	}
	return out
}

func hasProfitableMonth(in AchievementInput) bool {
	months := make(map[string]float64)
	for _, t := range in.Trades {
		months[t.Timestamp.In(in.Location).Format("2006-01")] += t.Profit
	}
	for _, net := range months {
		if net > 0 {
			return true
		}
	}
	return false
}
