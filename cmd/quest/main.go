package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/camuig/trade-quest/internal/ai"
	"github.com/camuig/trade-quest/internal/config"
	"github.com/camuig/trade-quest/internal/logger"
	"github.com/camuig/trade-quest/internal/quest"
	"github.com/camuig/trade-quest/internal/rates"
	"github.com/camuig/trade-quest/internal/scheduler"
	"github.com/camuig/trade-quest/internal/state"
	"github.com/camuig/trade-quest/internal/storage"
	"github.com/camuig/trade-quest/internal/telegram"
	"github.com/camuig/trade-quest/internal/web"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	dbPath := flag.String("db", "", "path to SQLite database (overrides database.path)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}
	if *dbPath != "" {
		cfg.Database.Path = *dbPath
	}

	log := logger.NewFromConfig(cfg.Logging)
	log.Info("starting trade-quest", "db", cfg.Database.Path, "ai", cfg.AIEnabled(), "timezone", cfg.Journal.Timezone)

	db, err := storage.NewDatabase(cfg.Database.Path, log)
	if err != nil {
		log.Error("database init failed", "error", err)
		os.Exit(1)
	}
	store := state.New(storage.NewRepository(db))
	unsubscribe := store.Subscribe(func(c state.Change) {
		log.Debug("collection saved", "key", c.Key, "at", c.At.Format(time.RFC3339))
	})
	defer unsubscribe()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	notifier := telegram.NewNotifier(cfg, log)
	coach := ai.NewCoach(cfg, log)
	svc := quest.NewService(store, notifier, cfg, log)

	var rateSource web.RateSource
	if cfg.Rates.Enabled {
		rateSource = rates.NewClient(cfg.Rates.URL, cfg.RatesTimeout(), log)
	}
	webServer := web.NewServer(svc, coach, rateSource, cfg, log)

	if cfg.Review.Enabled {
		sched := scheduler.NewScheduler(store, coach, notifier, cfg, log)
		go sched.Run(ctx)
	}

	go func() {
		if err := webServer.Start(); err != nil {
			log.Error("web server error", "error", err)
		}
	}()

	notifier.NotifyStatus(fmt.Sprintf("⚔️ Trade Quest started on port %d", cfg.Web.Port))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	log.Info("shutdown signal received", "signal", sig.String())

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := webServer.Shutdown(shutdownCtx); err != nil {
		log.Error("web server shutdown error", "error", err)
	}

	if sqlDB, err := db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			log.Error("database close error", "error", err)
		}
	}

	notifier.NotifyStatus("🛑 Trade Quest stopped")
	log.Info("trade-quest stopped")
}
