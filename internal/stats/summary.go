package stats

import (
	"sort"
	"time"

	"github.com/camuig/trade-quest/internal/journal"
)

type Summary struct {
	Trades           int     `json:"trades"`
	Wins             int     `json:"wins"`
	Losses           int     `json:"losses"`
	Breakevens       int     `json:"breakevens"`
	WinRate          float64 `json:"win_rate"` // percent of win+loss trades
	NetProfit        float64 `json:"net_profit"`
	LongestWinStreak int     `json:"longest_win_streak"`
	MaxDailyLosses   int     `json:"max_daily_losses"`
	MaxDailyProfit   float64 `json:"max_daily_profit"`
	AvgProfitableDay float64 `json:"avg_profitable_day"`
	AvgDiscipline    float64 `json:"avg_discipline"`
	RatedTrades      int     `json:"rated_trades"`
}

func Summarize(trades []journal.Trade, loc *time.Location, policy BreakevenPolicy) Summary {
	s := Summary{
		Trades:           len(trades),
		LongestWinStreak: LongestWinStreak(trades, policy),
		MaxDailyLosses:   MaxDailyLosses(trades, loc),
		MaxDailyProfit:   MaxDailyProfit(trades, loc),
		AvgProfitableDay: AvgProfitableDay(trades, loc),
	}

	var disciplineSum int
	for _, t := range trades {
		s.NetProfit += t.Profit
		switch t.Outcome {
		case journal.Win:
			s.Wins++
		case journal.Loss:
			s.Losses++
		default:
			s.Breakevens++
		}
		if t.Discipline != nil {
			disciplineSum += *t.Discipline
			s.RatedTrades++
		}
	}
	s.WinRate = WinRate(s.Wins, s.Losses)
	if s.RatedTrades > 0 {
		s.AvgDiscipline = float64(disciplineSum) / float64(s.RatedTrades)
	}
	return s
}

func WinRate(wins, losses int) float64 {
	if wins+losses == 0 {
		return 0
	}
	return float64(wins) / float64(wins+losses) * 100
}

type StrategyStats struct {
	Strategy  string  `json:"strategy"`
	Trades    int     `json:"trades"`
	Wins      int     `json:"wins"`
	Losses    int     `json:"losses"`
	WinRate   float64 `json:"win_rate"`
	NetProfit float64 `json:"net_profit"`
}

// ByStrategy groups trades by strategy tag; untagged trades fall under "untagged".
// Rows are ordered by net profit, best first.
func ByStrategy(trades []journal.Trade) []StrategyStats {
	groups := make(map[string]*StrategyStats)
	for _, t := range trades {
		name := t.Strategy
		if name == "" {
			name = "untagged"
		}
		g, ok := groups[name]
		if !ok {
			g = &StrategyStats{Strategy: name}
			groups[name] = g
		}
		g.Trades++
		g.NetProfit += t.Profit
		switch t.Outcome {
		case journal.Win:
			g.Wins++
		case journal.Loss:
			g.Losses++
		}
	}

	out := make([]StrategyStats, 0, len(groups))
	for _, g := range groups {
		g.WinRate = WinRate(g.Wins, g.Losses)
		out = append(out, *g)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].NetProfit != out[j].NetProfit {
			return out[i].NetProfit > out[j].NetProfit
		}
		return out[i].Strategy < out[j].Strategy
	})
	return out
}

// LossesByPair counts losing trades per instrument.
func LossesByPair(trades []journal.Trade) map[string]int {
	out := make(map[string]int)
	for _, t := range trades {
		if t.Outcome == journal.Loss {
			out[t.Pair]++
		}
	}
	return out
}

// Window returns the trades with from <= timestamp < to.
func Window(trades []journal.Trade, from, to time.Time) []journal.Trade {
	var out []journal.Trade
	for _, t := range trades {
		if !t.Timestamp.Before(from) && t.Timestamp.Before(to) {
			out = append(out, t)
		}
	}
	return out
}
