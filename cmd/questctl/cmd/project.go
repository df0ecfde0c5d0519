package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/camuig/trade-quest/internal/config"
	"github.com/camuig/trade-quest/internal/logger"
	"github.com/camuig/trade-quest/internal/projection"
	"github.com/camuig/trade-quest/internal/rates"
)

var projectCmd = &cobra.Command{
	Use:   "project",
	Short: "Project compound growth step by step",
	Long: `Compound a balance by a fixed percentage per step and show the
accumulated gain converted at an exchange rate.

When --rate is omitted and rates are enabled the current CBR USD/RUB rate is
fetched from MOEX, falling back to journal.default_exchange_rate.`,
	Args: cobra.NoArgs,
	RunE: runProject,
}

var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Compare the latest actual balance with today's target",
	Args:  cobra.NoArgs,
	RunE:  runReconcile,
}

var (
	projBalance float64
	projPercent float64
	projRate    float64
	projSteps   int
)

func init() {
	rootCmd.AddCommand(projectCmd)
	rootCmd.AddCommand(reconcileCmd)

	projectCmd.Flags().Float64VarP(&projBalance, "balance", "b", 0, "starting balance")
	projectCmd.Flags().Float64VarP(&projPercent, "percent", "p", 1, "gain per step in percent")
	projectCmd.Flags().Float64VarP(&projRate, "rate", "r", 0, "exchange rate for the converted column")
	projectCmd.Flags().IntVarP(&projSteps, "steps", "n", 0, "number of steps (default projection.steps)")
}

func exchangeRate(ctx context.Context, cfg *config.Config) float64 {
	if projRate > 0 {
		return projRate
	}
	if !cfg.Rates.Enabled {
		return cfg.Journal.DefaultExchangeRate
	}
	return rates.NewClient(cfg.Rates.URL, cfg.RatesTimeout(), logger.Discard()).
		RateOr(ctx, cfg.Journal.DefaultExchangeRate)
}

func runProject(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	steps := projSteps
	if steps == 0 {
		steps = cfg.Projection.Steps
	}
	if steps < 0 || steps > projection.MaxSteps {
		return fmt.Errorf("--steps must be within 1-%d, got %d", projection.MaxSteps, steps)
	}
	rate := exchangeRate(cmd.Context(), cfg)

	rows := projection.CompoundFloat(projBalance, projPercent/100, rate, steps)

	w := cmd.OutOrStdout()
	if len(rows) == 0 {
		bad.Fprintln(w, "Nothing to project: balance, percent and rate must be positive.")
		return nil
	}

	heading.Fprintf(w, "📈 %.2f at %.2f%% per step, rate %.4f\n", projBalance, projPercent, rate)
	fmt.Fprintf(w, "%4s %10s %14s %16s %16s %18s\n", "step", "accum %", "gain", "balance", "accumulated", "converted")
	for _, r := range rows {
		fmt.Fprintf(w, "%4d %10s %14s %16s %16s %18s\n", r.Step,
			r.AccumulatedPct.StringFixed(2), r.Gain.StringFixed(2), r.Balance.StringFixed(2),
			r.Accumulated.StringFixed(2), r.Converted.StringFixed(2))
	}
	return nil
}

func runReconcile(cmd *cobra.Command, args []string) error {
	e, done, err := openEnv()
	if err != nil {
		return err
	}
	defer done()

	rec, err := e.svc.Reconcile(time.Now())
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	heading.Fprintf(w, "🧾 Ledger for %s\n", rec.Date)
	fmt.Fprintf(w, "Target:  %s\n", rec.Projected.StringFixed(2))
	if rec.Actual == nil {
		muted.Fprintln(w, "No actual balance recorded yet.")
		return nil
	}
	fmt.Fprintf(w, "Actual:  %s (%s)\n", rec.Actual.StringFixed(2), rec.ActualDate)
	fmt.Fprint(w, "Diff:    ")
	signed(w, "%+.2f\n", rec.Diff.InexactFloat64())
	return nil
}
