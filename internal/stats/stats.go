// Package stats computes derived statistics over the trade list. Every
// function works on its own copy; inputs are never reordered or modified.
package stats

import (
	"fmt"
	"sort"
	"time"

	"github.com/camuig/trade-quest/internal/journal"
)

// BreakevenPolicy decides what a non win/loss outcome does to a running win streak.
type BreakevenPolicy int

const (
	// BreakevenIgnore neither extends nor breaks the streak.
	BreakevenIgnore BreakevenPolicy = iota
	// BreakevenReset ends the streak like a loss.
	BreakevenReset
)

func ParseBreakevenPolicy(s string) (BreakevenPolicy, error) {
	switch s {
	case "", "ignore":
		return BreakevenIgnore, nil
	case "reset":
		return BreakevenReset, nil
	}
	return BreakevenIgnore, fmt.Errorf("unknown breakeven policy %q", s)
}

const dayLayout = "2006-01-02"

func sortedByTime(trades []journal.Trade) []journal.Trade {
	out := make([]journal.Trade, len(trades))
	copy(out, trades)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.Before(out[j].Timestamp)
	})
	return out
}

func dayKey(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	return t.In(loc).Format(dayLayout)
}

func LongestWinStreak(trades []journal.Trade, policy BreakevenPolicy) int {
	var current, longest int
	for _, t := range sortedByTime(trades) {
		switch t.Outcome {
		case journal.Win:
			current++
			if current > longest {
				longest = current
			}
		case journal.Loss:
			current = 0
		default:
			if policy == BreakevenReset {
				current = 0
			}
		}
	}
	return longest
}

func MaxDailyLosses(trades []journal.Trade, loc *time.Location) int {
	perDay := make(map[string]int)
	var most int
	for _, t := range trades {
		if t.Outcome != journal.Loss {
			continue
		}
		k := dayKey(t.Timestamp, loc)
		perDay[k]++
		if perDay[k] > most {
			most = perDay[k]
		}
	}
	return most
}

func dailySums(trades []journal.Trade, loc *time.Location) map[string]float64 {
	sums := make(map[string]float64)
	for _, t := range trades {
		sums[dayKey(t.Timestamp, loc)] += t.Profit
	}
	return sums
}

// MaxDailyProfit returns the best daily net, or 0 for no trades.
func MaxDailyProfit(trades []journal.Trade, loc *time.Location) float64 {
	sums := dailySums(trades, loc)
	if len(sums) == 0 {
		return 0
	}
	first := true
	var best float64
	for _, v := range sums {
		if first || v > best {
			best = v
			first = false
		}
	}
	return best
}

func AvgProfitableDay(trades []journal.Trade, loc *time.Location) float64 {
	var total float64
	var days int
	for _, v := range dailySums(trades, loc) {
		if v > 0 {
			total += v
			days++
		}
	}
	if days == 0 {
		return 0
	}
	return total / float64(days)
}

type DayPnL struct {
	Date   string  `json:"date"`
	Profit float64 `json:"profit"`
	Trades int     `json:"trades"`
}

// DailyPnL returns one row per trading day in ascending date order.
func DailyPnL(trades []journal.Trade, loc *time.Location) []DayPnL {
	byDay := make(map[string]*DayPnL)
	for _, t := range trades {
		k := dayKey(t.Timestamp, loc)
		d, ok := byDay[k]
		if !ok {
			d = &DayPnL{Date: k}
			byDay[k] = d
		}
		d.Profit += t.Profit
		d.Trades++
	}

	out := make([]DayPnL, 0, len(byDay))
	for _, d := range byDay {
		out = append(out, *d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}
