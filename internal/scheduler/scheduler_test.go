package scheduler

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/camuig/trade-quest/internal/ai"
	"github.com/camuig/trade-quest/internal/config"
	"github.com/camuig/trade-quest/internal/journal"
	"github.com/camuig/trade-quest/internal/logger"
	"github.com/camuig/trade-quest/internal/state"
	"github.com/camuig/trade-quest/internal/storage"
)

type fakeCoach struct {
	reply ai.Reply
	calls int
	panic bool
}

func (f *fakeCoach) WeeklyReview(ctx context.Context, blob []byte, now time.Time) (ai.Reply, error) {
	f.calls++
	if f.panic {
		panic("coach exploded")
	}
	return f.reply, nil
}

type fakeNotifier struct {
	reviews []string
	errs    []error
}

func (f *fakeNotifier) NotifyReview(week, text string) { f.reviews = append(f.reviews, week) }

func (f *fakeNotifier) NotifyError(context string, err error) { f.errs = append(f.errs, err) }

func newTestScheduler(t *testing.T, coach *fakeCoach) (*Scheduler, *state.Store, *fakeNotifier) {
	t.Helper()
	db, err := storage.NewDatabase(filepath.Join(t.TempDir(), "sched.db"), nil)
	require.NoError(t, err)
	store := state.New(storage.NewRepository(db))

	cfg := &config.Config{
		Journal: config.JournalConfig{Timezone: "UTC"},
		Review:  config.ReviewConfig{Interval: "1h", Weekday: "sunday", Hour: 18},
	}
	n := &fakeNotifier{}
	return NewScheduler(store, coach, n, cfg, logger.Discard()), store, n
}

// 2025-02-16 is a Sunday.
var sundayEvening = time.Date(2025, 2, 16, 19, 0, 0, 0, time.UTC)

func TestIsDue(t *testing.T) {
	s, _, _ := newTestScheduler(t, &fakeCoach{})

	assert.True(t, s.isDue(sundayEvening))
	assert.False(t, s.isDue(sundayEvening.Add(-2*time.Hour)))
	assert.False(t, s.isDue(sundayEvening.AddDate(0, 0, 1)))
}

func TestRunCycleStoresOneReviewPerWeek(t *testing.T) {
	coach := &fakeCoach{reply: ai.Reply{Text: "## Week in numbers\nSolid."}}
	s, store, n := newTestScheduler(t, coach)
	s.now = func() time.Time { return sundayEvening }

	s.runCycle(context.Background())
	s.runCycle(context.Background())

	reviews, err := store.Reviews()
	require.NoError(t, err)
	require.Len(t, reviews, 1)
	assert.Equal(t, "2025-W07", reviews[0].Week)
	assert.Equal(t, 1, coach.calls)
	assert.Equal(t, []string{"2025-W07"}, n.reviews)
}

func TestFallbackReplyIsNotStored(t *testing.T) {
	coach := &fakeCoach{reply: ai.Reply{Text: "offline", Fallback: true}}
	s, store, n := newTestScheduler(t, coach)

	created, err := s.RunReview(context.Background(), sundayEvening)
	require.NoError(t, err)
	assert.False(t, created)

	reviews, err := store.Reviews()
	require.NoError(t, err)
	assert.Empty(t, reviews)
	assert.Empty(t, n.reviews)
}

func TestRunCycleSkipsWhenNotDue(t *testing.T) {
	coach := &fakeCoach{reply: ai.Reply{Text: "x"}}
	s, _, _ := newTestScheduler(t, coach)
	s.now = func() time.Time { return sundayEvening.AddDate(0, 0, 2) }

	s.runCycle(context.Background())
	assert.Zero(t, coach.calls)
}

func TestRunCycleRecoversPanic(t *testing.T) {
	s, store, n := newTestScheduler(t, &fakeCoach{panic: true})
	s.now = func() time.Time { return sundayEvening }
	require.NoError(t, store.SaveTrades([]journal.Trade{{ID: "1", Pair: "EURUSD", Outcome: journal.Win}}))

	assert.NotPanics(t, func() { s.runCycle(context.Background()) })
	assert.Len(t, n.errs, 1)
}
