package journal

import (
	"fmt"
	"time"
)

type Outcome string

const (
	Win       Outcome = "win"
	Loss      Outcome = "loss"
	Breakeven Outcome = "breakeven"
)

func (o Outcome) Valid() bool {
	switch o {
	case Win, Loss, Breakeven:
		return true
	}
	return false
}

type Trade struct {
	ID         string    `json:"id"`
	Pair       string    `json:"pair"`
	Outcome    Outcome   `json:"outcome"`
	Profit     float64   `json:"profit"` // signed
	Pips       *float64  `json:"pips,omitempty"`
	LotSize    *float64  `json:"lot_size,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
	Strategy   string    `json:"strategy,omitempty"`
	Notes      string    `json:"notes,omitempty"`
	Emotion    string    `json:"emotion,omitempty"`
	Discipline *int      `json:"discipline,omitempty"` // 1-5
	CreatureID string    `json:"creature_id,omitempty"`
}

// LedgerEntry is shared by withdrawals, balance additions and adjustments.
type LedgerEntry struct {
	ID        string    `json:"id"`
	Amount    float64   `json:"amount"`
	Timestamp time.Time `json:"timestamp"`
	Note      string    `json:"note,omitempty"`
}

type PlayerStats struct {
	XP        int       `json:"xp"`
	Class     string    `json:"class"`
	StartDate time.Time `json:"start_date"`
	Coins     int       `json:"coins"`
	Inventory []string  `json:"inventory,omitempty"`
}

type Encounter struct {
	Date    time.Time `json:"date"`
	Outcome Outcome   `json:"outcome"`
	TradeID string    `json:"trade_id,omitempty"`
}

// Creature is a named recurring mistake. Trades may reference a creature
// that no longer exists; nothing enforces the link.
type Creature struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description,omitempty"`
	Image       string      `json:"image,omitempty"`
	Encounters  []Encounter `json:"encounters,omitempty"`
}

type JournalEntry struct {
	ID      string `json:"id"`
	Date    string `json:"date"` // YYYY-MM-DD
	Content string `json:"content"`
	Rating  int    `json:"rating"` // 0-5
	Comment string `json:"comment,omitempty"`
	Image   string `json:"image,omitempty"`
}

// GainPhase applies WeeklyGain to weeks FromWeek..ToWeek (1-based, inclusive).
type GainPhase struct {
	FromWeek   int     `json:"from_week"`
	ToWeek     int     `json:"to_week"`
	WeeklyGain float64 `json:"weekly_gain"`
}

func (p GainPhase) Covers(week int) bool {
	return week >= p.FromWeek && week <= p.ToWeek
}

type HabitTask struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	Done      bool       `json:"done"`
	CreatedAt time.Time  `json:"created_at"`
	DoneAt    *time.Time `json:"done_at,omitempty"`
}

type TournamentPost struct {
	ID        string    `json:"id"`
	Author    string    `json:"author"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

type MandatoryRule struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

type Preferences struct {
	Theme    string `json:"theme,omitempty"`
	Currency string `json:"currency,omitempty"`
	Sound    bool   `json:"sound"`
}

// ActualBalances maps a YYYY-MM-DD date to the balance the trader reported.
type ActualBalances map[string]float64

type Review struct {
	Week      string    `json:"week"` // ISO week, e.g. 2025-W07
	Text      string    `json:"text"`
	Fallback  bool      `json:"fallback"`
	CreatedAt time.Time `json:"created_at"`
}

func NetBalance(trades []Trade, withdrawals, additions, adjustments []LedgerEntry) float64 {
	var total float64
	for _, t := range trades {
		total += t.Profit
	}
	for _, a := range additions {
		total += a.Amount
	}
	for _, a := range adjustments {
		total += a.Amount
	}
	for _, w := range withdrawals {
		total -= w.Amount
	}
	return total
}

// ISOWeek formats t as YYYY-Www.
func ISOWeek(t time.Time) string {
	y, w := t.ISOWeek()
	return fmt.Sprintf("%d-W%02d", y, w)
}
