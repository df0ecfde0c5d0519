package progress

import "github.com/camuig/trade-quest/internal/journal"

const (
	XPWin          = 50
	XPLoss         = 15
	XPBreakeven    = 25
	XPJournalEntry = 20
	XPPerRating    = 5
	XPMilestone    = 100

	CoinsWin          = 10
	CoinsJournalEntry = 5
)

// Award is the XP and coin grant for one event.
type Award struct {
	XP    int `json:"xp"`
	Coins int `json:"coins"`
}

func ForTrade(o journal.Outcome) Award {
	switch o {
	case journal.Win:
		return Award{XP: XPWin, Coins: CoinsWin}
	case journal.Loss:
		return Award{XP: XPLoss}
	case journal.Breakeven:
		return Award{XP: XPBreakeven}
	}
	return Award{}
}

func ForJournalEntry(rating int) Award {
	if rating < 0 {
		rating = 0
	}
	if rating > 5 {
		rating = 5
	}
	return Award{XP: XPJournalEntry + rating*XPPerRating, Coins: CoinsJournalEntry}
}

func ForMilestone() Award {
	return Award{XP: XPMilestone}
}

// Apply adds a to the player and reports whether the level changed.
func Apply(p *journal.PlayerStats, a Award) (before, after Progress) {
	before = Compute(p.XP)
	p.XP += a.XP
	if p.XP < 0 {
		p.XP = 0
	}
	p.Coins += a.Coins
	after = Compute(p.XP)
	return before, after
}
