package cmd

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/camuig/trade-quest/internal/rank"
)

var levelCmd = &cobra.Command{
	Use:   "level",
	Short: "Show level, XP and coins",
	Args:  cobra.NoArgs,
	RunE:  runLevel,
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show trade statistics and strategy performance",
	Args:  cobra.NoArgs,
	RunE:  runStats,
}

var rankCmd = &cobra.Command{
	Use:   "rank",
	Short: "Show win-rate and skill ranks",
	Args:  cobra.NoArgs,
	RunE:  runRank,
}

func init() {
	rootCmd.AddCommand(levelCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(rankCmd)
}

func runLevel(cmd *cobra.Command, args []string) error {
	e, done, err := openEnv()
	if err != nil {
		return err
	}
	defer done()

	player, err := e.svc.Player()
	if err != nil {
		return err
	}
	p, err := e.svc.Level()
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	heading.Fprintf(w, "⭐ Level %d\n", p.Level)
	filled := int(p.Percent / 5)
	fmt.Fprintf(w, "[%s%s] %.1f%%\n", strings.Repeat("#", filled), strings.Repeat(".", 20-filled), p.Percent)
	fmt.Fprintf(w, "XP: %d (%d / %d)\n", p.XP, p.CurrentLevelXP, p.NextLevelXP)
	fmt.Fprintf(w, "Coins: %d\n", player.Coins)
	if len(player.Inventory) > 0 {
		fmt.Fprintf(w, "Inventory: %s\n", strings.Join(player.Inventory, ", "))
	}
	return nil
}

func runStats(cmd *cobra.Command, args []string) error {
	e, done, err := openEnv()
	if err != nil {
		return err
	}
	defer done()

	ov, err := e.svc.Overview(time.Now())
	if err != nil {
		return err
	}
	s := ov.Stats

	w := cmd.OutOrStdout()
	heading.Fprintln(w, "📊 Statistics")
	fmt.Fprintf(w, "Trades:              %d (W %d / L %d / BE %d)\n", s.Trades, s.Wins, s.Losses, s.Breakevens)
	fmt.Fprintf(w, "Win rate:            %.1f%%\n", s.WinRate)
	fmt.Fprint(w, "Net profit:          ")
	signed(w, "%.2f\n", s.NetProfit)
	fmt.Fprint(w, "Net balance:         ")
	signed(w, "%.2f\n", ov.NetBalance)
	fmt.Fprintf(w, "Longest win streak:  %d\n", s.LongestWinStreak)
	fmt.Fprintf(w, "Max losses in a day: %d\n", s.MaxDailyLosses)
	fmt.Fprint(w, "Best day:            ")
	signed(w, "%.2f\n", s.MaxDailyProfit)
	fmt.Fprintf(w, "Avg green day:       %.2f\n", s.AvgProfitableDay)

	if len(ov.Strategies) > 0 {
		fmt.Fprintln(w)
		heading.Fprintln(w, "Strategies")
		for _, st := range ov.Strategies {
			fmt.Fprintf(w, "  %-16s %3d trades  %5.1f%%  ", st.Strategy, st.Trades, st.WinRate)
			signed(w, "%.2f\n", st.NetProfit)
		}
	}

	fmt.Fprintln(w)
	heading.Fprintln(w, "Achievements")
	for _, a := range ov.Achievements {
		if a.Unlocked {
			good.Fprintf(w, "  ✓ %s\n", a.Title)
		} else {
			muted.Fprintf(w, "  · %s: %s\n", a.Title, a.Description)
		}
	}
	return nil
}

func runRank(cmd *cobra.Command, args []string) error {
	e, done, err := openEnv()
	if err != nil {
		return err
	}
	defer done()

	ranks, err := e.svc.Ranks()
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	minTrades := e.cfg.Journal.MinRankTrades
	printRank(w, "Win rate", ranks.WinRate, minTrades)
	printRank(w, "Skill", ranks.Skill, minTrades)
	if ranks.WinRate.Rule == "poisoned-pair" {
		bad.Fprintf(w, "⚠️ %d or more losses on one pair force rank E\n", rank.PoisonedPairLosses)
	}
	return nil
}

func printRank(w io.Writer, label string, r rank.Rank, minTrades int) {
	fmt.Fprintf(w, "%-9s ", label+":")
	switch r.Letter {
	case rank.NotEnoughData:
		muted.Fprintf(w, "%s (need %d trades)\n", r.Letter, minTrades)
	case rank.E, rank.D:
		bad.Fprintf(w, "%s\n", r.Letter)
	default:
		good.Fprintf(w, "%s\n", r.Letter)
	}
}
