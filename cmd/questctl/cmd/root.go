package cmd

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/camuig/trade-quest/internal/config"
	"github.com/camuig/trade-quest/internal/logger"
	"github.com/camuig/trade-quest/internal/quest"
	"github.com/camuig/trade-quest/internal/state"
	"github.com/camuig/trade-quest/internal/storage"
	"github.com/camuig/trade-quest/internal/telegram"
)

var rootCmd = &cobra.Command{
	Use:   "questctl",
	Short: "Inspect a Trade Quest journal from the terminal",
	Long: `questctl reads the Trade Quest database and prints progress, statistics,
ranks, growth projections and ledger reconciliation, or exports the trade list.

Examples:
  questctl level
  questctl stats --db data/trade-quest.db
  questctl project --balance 1000 --percent 1.5
  questctl export --format xlsx -o trades.xlsx`,
	SilenceUsage: true,
}

var (
	configPath string
	dbPath     string
)

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "config.yaml", "path to config file")
	rootCmd.PersistentFlags().StringVarP(&dbPath, "db", "d", "", "path to SQLite database (overrides database.path)")
}

type env struct {
	cfg *config.Config
	svc *quest.Service
}

func openEnv() (*env, func(), error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	if dbPath != "" {
		cfg.Database.Path = dbPath
	}

	log := logger.Discard()
	db, err := storage.NewDatabase(cfg.Database.Path, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("open db: %w", err)
	}
	closeDB := func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	}

	store := state.New(storage.NewRepository(db))
	svc := quest.NewService(store, telegram.Disabled(log), cfg, log)
	return &env{cfg: cfg, svc: svc}, closeDB, nil
}

var (
	heading = color.New(color.FgCyan, color.Bold)
	good    = color.New(color.FgGreen)
	bad     = color.New(color.FgRed)
	muted   = color.New(color.FgHiBlack)
)

// signed prints v green when positive and red when negative.
func signed(w io.Writer, format string, v float64) {
	switch {
	case v > 0:
		good.Fprintf(w, format, v)
	case v < 0:
		bad.Fprintf(w, format, v)
	default:
		fmt.Fprintf(w, format, v)
	}
}
