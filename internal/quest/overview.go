package quest

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/camuig/trade-quest/internal/journal"
	"github.com/camuig/trade-quest/internal/progress"
	"github.com/camuig/trade-quest/internal/projection"
	"github.com/camuig/trade-quest/internal/rank"
	"github.com/camuig/trade-quest/internal/stats"
)

type Ranks struct {
	WinRate rank.Rank `json:"win_rate"`
	Skill   rank.Rank `json:"skill"`
}

type Overview struct {
	Player         journal.PlayerStats       `json:"player"`
	Progress       progress.Progress         `json:"progress"`
	Stats          stats.Summary             `json:"stats"`
	Ranks          Ranks                     `json:"ranks"`
	NetBalance     float64                   `json:"net_balance"`
	Strategies     []stats.StrategyStats     `json:"strategies"`
	Achievements   []progress.Achievement    `json:"achievements"`
	Reconciliation projection.Reconciliation `json:"reconciliation"`
	Today          string                    `json:"today"`
}

func (s *Service) Level() (progress.Progress, error) {
	player, err := s.store.Player()
	if err != nil {
		return progress.Progress{}, err
	}
	return progress.Compute(player.XP), nil
}

func (s *Service) Stats() (stats.Summary, error) {
	trades, err := s.store.Trades()
	if err != nil {
		return stats.Summary{}, err
	}
	return stats.Summarize(trades, s.loc, s.policy), nil
}

func (s *Service) Ranks() (Ranks, error) {
	trades, err := s.store.Trades()
	if err != nil {
		return Ranks{}, err
	}
	return s.ranks(trades, stats.Summarize(trades, s.loc, s.policy)), nil
}

// ranks grades the win rate over all trades and the average discipline over
// the rated ones. The poisoned-pair rule applies to both.
func (s *Service) ranks(trades []journal.Trade, sum stats.Summary) Ranks {
	minTrades := s.config.Journal.MinRankTrades
	losses := stats.LossesByPair(trades)
	return Ranks{
		WinRate: rank.NewClassifier(rank.WinRateTable, minTrades).Classify(rank.Input{
			Score:        sum.WinRate,
			Samples:      sum.Trades,
			LossesByPair: losses,
		}),
		Skill: rank.NewClassifier(rank.SkillTable, minTrades).Classify(rank.Input{
			Score:        sum.AvgDiscipline,
			Samples:      sum.RatedTrades,
			LossesByPair: losses,
		}),
	}
}

// Ledger builds the daily target ledger from the configured schedule and the
// recorded actual balances.
func (s *Service) Ledger() (projection.Ledger, error) {
	actuals, err := s.store.LedgerActuals()
	if err != nil {
		return projection.Ledger{}, err
	}

	phases := make([]journal.GainPhase, 0, len(s.config.Ledger.Phases))
	for _, p := range s.config.Ledger.Phases {
		phases = append(phases, journal.GainPhase{FromWeek: p.FromWeek, ToWeek: p.ToWeek, WeeklyGain: p.WeeklyGain})
	}

	return projection.BuildLedger(projection.LedgerInput{
		Anchor:  s.config.AnchorDate(),
		Days:    s.config.Ledger.Days,
		Initial: decimal.NewFromFloat(s.config.Ledger.InitialBalance),
		Phases:  phases,
		Actuals: actuals,
	}), nil
}

func (s *Service) Reconcile(now time.Time) (projection.Reconciliation, error) {
	l, err := s.Ledger()
	if err != nil {
		return projection.Reconciliation{}, err
	}
	return l.Reconcile(now.In(s.loc)), nil
}

// Overview gathers everything the dashboard shows.
func (s *Service) Overview(now time.Time) (Overview, error) {
	player, err := s.store.Player()
	if err != nil {
		return Overview{}, err
	}
	trades, err := s.store.Trades()
	if err != nil {
		return Overview{}, err
	}
	entries, err := s.store.JournalEntries()
	if err != nil {
		return Overview{}, err
	}
	net, err := s.NetBalance()
	if err != nil {
		return Overview{}, err
	}
	rec, err := s.Reconcile(now)
	if err != nil {
		return Overview{}, err
	}

	sum := stats.Summarize(trades, s.loc, s.policy)
	level := progress.Compute(player.XP)

	return Overview{
		Player:     player,
		Progress:   level,
		Stats:      sum,
		Ranks:      s.ranks(trades, sum),
		NetBalance: net,
		Strategies: stats.ByStrategy(trades),
		Achievements: progress.Achievements(progress.AchievementInput{
			Trades:         trades,
			JournalEntries: len(entries),
			LongestStreak:  sum.LongestWinStreak,
			Level:          level.Level,
			Location:       s.loc,
		}),
		Reconciliation: rec,
		Today:          now.In(s.loc).Format(time.DateOnly),
	}, nil
}
