package scheduler

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/camuig/trade-quest/internal/ai"
	"github.com/camuig/trade-quest/internal/config"
	"github.com/camuig/trade-quest/internal/journal"
	"github.com/camuig/trade-quest/internal/logger"
	"github.com/camuig/trade-quest/internal/state"
)

type Reviewer interface {
	WeeklyReview(ctx context.Context, blob []byte, now time.Time) (ai.Reply, error)
}

type Notifier interface {
	NotifyReview(week, text string)
	NotifyError(context string, err error)
}

// Scheduler writes one AI weekly review per ISO week once the configured
// weekday and hour are reached.
type Scheduler struct {
	store    *state.Store
	coach    Reviewer
	notifier Notifier
	config   *config.Config
	logger   *logger.Logger
	loc      *time.Location
	now      func() time.Time
}

func NewScheduler(
	store *state.Store,
	coach Reviewer,
	notifier Notifier,
	cfg *config.Config,
	log *logger.Logger,
) *Scheduler {
	return &Scheduler{
		store:    store,
		coach:    coach,
		notifier: notifier,
		config:   cfg,
		logger:   log,
		loc:      cfg.Location(),
		now:      time.Now,
	}
}

func (s *Scheduler) Run(ctx context.Context) {
	interval := s.config.ReviewInterval()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	s.logger.Info("scheduler started", "interval", interval.String(),
		"weekday", s.config.ReviewWeekday().String(), "hour", s.config.Review.Hour)

	s.runCycle(ctx)

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("scheduler stopped")
			return
		case <-ticker.C:
			s.runCycle(ctx)
		}
	}
}

func (s *Scheduler) runCycle(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("panic in scheduler cycle", "panic", fmt.Sprint(r))
			s.notifier.NotifyError("scheduler panic", fmt.Errorf("%v", r))
		}
	}()

	now := s.now().In(s.loc)
	if !s.isDue(now) {
		s.logger.Debug("weekly review not due", "now", now.Format(time.DateTime))
		return
	}

	if _, err := s.RunReview(ctx, now); err != nil {
		s.logger.Error("weekly review", "error", err)
		s.notifier.NotifyError("weekly review", err)
	}
}

func (s *Scheduler) isDue(now time.Time) bool {
	return now.Weekday() == s.config.ReviewWeekday() && now.Hour() >= s.config.Review.Hour
}

// RunReview writes the review for now's ISO week unless one is already stored.
// created is false when the week already had a review or the coach fell back.
func (s *Scheduler) RunReview(ctx context.Context, now time.Time) (created bool, err error) {
	week := journal.ISOWeek(now)

	reviews, err := s.store.Reviews()
	if err != nil {
		return false, err
	}
	for _, r := range reviews {
		if r.Week == week {
			s.logger.Debug("weekly review already stored", "week", week)
			return false, nil
		}
	}

	trades, err := s.store.Trades()
	if err != nil {
		return false, err
	}
	blob, err := json.Marshal(trades)
	if err != nil {
		return false, fmt.Errorf("encode trades: %w", err)
	}

	s.logger.Info("starting weekly review", "week", week, "trades", len(trades))

	reply, err := s.coach.WeeklyReview(ctx, blob, now)
	if err != nil {
		return false, fmt.Errorf("weekly review: %w", err)
	}
	if reply.Fallback {
		s.logger.Warn("coach unavailable, weekly review will retry", "week", week)
		return false, nil
	}

	reviews = append(reviews, journal.Review{Week: week, Text: reply.Text, CreatedAt: now})
	if err := s.store.SaveReviews(reviews); err != nil {
		return false, err
	}

	s.notifier.NotifyReview(week, reply.Text)
	s.logger.Info("weekly review completed", "week", week)
	return true, nil
}
