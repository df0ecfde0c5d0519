package ai

import (
	"fmt"
	"strings"
	"time"

	"github.com/camuig/trade-quest/internal/journal"
	"github.com/camuig/trade-quest/internal/stats"
)

const analysisPrompt = `You are a trading coach reviewing a trader's journal.
The journal is gamified: the trader earns XP for every logged trade and names
recurring mistakes as creatures in a bestiary.

Look at the trades you are given and answer in plain text:
1. What is working: pairs, strategies and sessions with a positive edge.
2. What is hurting: repeated losses on one pair, revenge trading, oversized lots.
3. Discipline and emotion: how the self-reported ratings relate to results.
4. Three concrete actions for the next sessions.

Be direct and brief. Do not invent trades that are not in the data.`

const weeklyPrompt = `You are a trading coach writing the weekly review for a gamified trading journal.
Use exactly these sections, each as a markdown heading:

## Week in numbers
## Best trade
## Worst trade
## Patterns
## Quest for next week

Keep every section to a few sentences. If the week has no trades, say so and
suggest one small habit to start with.`

const chatPrompt = `You are a friendly trading coach inside a gamified trading journal.
Answer the trader's question in a few sentences.`

func BuildAnalysisPrompt(trades []journal.Trade, loc *time.Location) string {
	var sb strings.Builder

	s := stats.Summarize(trades, loc, stats.BreakevenIgnore)
	sb.WriteString("## Summary\n")
	sb.WriteString(fmt.Sprintf("Trades: %d (wins %d, losses %d, breakeven %d)\n", s.Trades, s.Wins, s.Losses, s.Breakevens))
	sb.WriteString(fmt.Sprintf("Win rate: %.1f%% / Net profit: %.2f\n", s.WinRate, s.NetProfit))
	sb.WriteString(fmt.Sprintf("Longest win streak: %d / Max losses in a day: %d\n\n", s.LongestWinStreak, s.MaxDailyLosses))

	writeTradeTable(&sb, trades, loc)

	sb.WriteString("\nAnalyze these trades.")
	return sb.String()
}

func BuildWeeklyPrompt(trades []journal.Trade, from, to time.Time, loc *time.Location) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("## Week %s (%s to %s)\n", journal.ISOWeek(to.In(loc)),
		from.In(loc).Format(time.DateOnly), to.In(loc).Format(time.DateOnly)))

	if len(trades) == 0 {
		sb.WriteString("No trades were logged this week.\n")
		return sb.String()
	}

	s := stats.Summarize(trades, loc, stats.BreakevenIgnore)
	sb.WriteString(fmt.Sprintf("Trades: %d / Win rate: %.1f%% / Net: %.2f\n\n", s.Trades, s.WinRate, s.NetProfit))

	for _, st := range stats.ByStrategy(trades) {
		sb.WriteString(fmt.Sprintf("- strategy %s: %d trades, win rate %.1f%%, net %.2f\n",
			st.Strategy, st.Trades, st.WinRate, st.NetProfit))
	}
	sb.WriteString("\n")

	writeTradeTable(&sb, trades, loc)

	sb.WriteString("\nWrite the weekly review.")
	return sb.String()
}

func writeTradeTable(sb *strings.Builder, trades []journal.Trade, loc *time.Location) {
	sb.WriteString("| Time | Pair | Outcome | Profit | Strategy | Emotion | Discipline | Notes |\n")
	sb.WriteString("|------|------|---------|--------|----------|---------|------------|-------|\n")
	for _, t := range trades {
		discipline := "-"
		if t.Discipline != nil {
			discipline = fmt.Sprintf("%d", *t.Discipline)
		}
		sb.WriteString(fmt.Sprintf("| %s | %s | %s | %+.2f | %s | %s | %s | %s |\n",
			t.Timestamp.In(loc).Format("2006-01-02 15:04"), t.Pair, t.Outcome, t.Profit,
			t.Strategy, t.Emotion, discipline, strings.ReplaceAll(t.Notes, "\n", " ")))
	}
}
