// Package quest applies the trader's actions to the journal: it validates
// input, updates the stored collections and hands out XP and coins.
package quest

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/camuig/trade-quest/internal/config"
	"github.com/camuig/trade-quest/internal/journal"
	"github.com/camuig/trade-quest/internal/logger"
	"github.com/camuig/trade-quest/internal/progress"
	"github.com/camuig/trade-quest/internal/state"
	"github.com/camuig/trade-quest/internal/stats"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrInvalidInput      = errors.New("invalid input")
	ErrInsufficientCoins = errors.New("insufficient coins")
	ErrAlreadyOwned      = errors.New("item already owned")
)

// Notifier receives level-ups. *telegram.Notifier satisfies it.
type Notifier interface {
	NotifyLevelUp(level, xp int)
	NotifyError(context string, err error)
}

type Service struct {
	store    *state.Store
	notifier Notifier
	config   *config.Config
	logger   *logger.Logger
	loc      *time.Location
	policy   stats.BreakevenPolicy

	// mu serializes read-modify-write cycles over the collections.
	mu    sync.Mutex
	now   func() time.Time
	newID func() string
}

func NewService(store *state.Store, notifier Notifier, cfg *config.Config, log *logger.Logger) *Service {
	policy, err := stats.ParseBreakevenPolicy(cfg.Journal.BreakevenPolicy)
	if err != nil {
		log.Warn("unknown breakeven policy, using ignore", "policy", cfg.Journal.BreakevenPolicy)
	}
	return &Service{
		store:    store,
		notifier: notifier,
		config:   cfg,
		logger:   log,
		loc:      cfg.Location(),
		policy:   policy,
		now:      time.Now,
		newID:    uuid.NewString,
	}
}

func (s *Service) Store() *state.Store {
	return s.store
}

func (s *Service) Location() *time.Location {
	return s.loc
}

// Reward reports the XP and coins granted by an action and where the player landed.
type Reward struct {
	Award     progress.Award    `json:"award"`
	Progress  progress.Progress `json:"progress"`
	LeveledUp bool              `json:"leveled_up"`
}

// grant applies a to the stored player and announces a level-up. Callers hold s.mu.
func (s *Service) grant(a progress.Award, reason string) (Reward, error) {
	r, err := s.award(s.store, a, reason)
	if err != nil {
		return Reward{}, err
	}
	s.announce(r)
	return r, nil
}

// award applies a to the player stored in st without notifying anyone, so it
// can run inside a transaction.
func (s *Service) award(st *state.Store, a progress.Award, reason string) (Reward, error) {
	player, err := st.Player()
	if err != nil {
		return Reward{}, err
	}
	if player.StartDate.IsZero() {
		player.StartDate = s.now()
	}

	before, after := progress.Apply(&player, a)
	if err := st.SavePlayer(player); err != nil {
		return Reward{}, err
	}

	s.logger.Info("xp awarded", "reason", reason, "xp", a.XP, "coins", a.Coins,
		"total_xp", player.XP, "level", after.Level)
	return Reward{Award: a, Progress: after, LeveledUp: after.Level > before.Level}, nil
}

func (s *Service) announce(r Reward) {
	if !r.LeveledUp {
		return
	}
	s.logger.Info("level up", "level", r.Progress.Level, "xp", r.Progress.XP)
	s.notifier.NotifyLevelUp(r.Progress.Level, r.Progress.XP)
}

func (s *Service) parseDate(date string) (time.Time, error) {
	d, err := time.ParseInLocation(time.DateOnly, date, s.loc)
	if err != nil {
		return time.Time{}, invalid("date must be YYYY-MM-DD, got %q", date)
	}
	return d, nil
}

func (s *Service) today() string {
	return s.now().In(s.loc).Format(time.DateOnly)
}

func findIndex[T any](items []T, match func(T) bool) int {
	for i, it := range items {
		if match(it) {
			return i
		}
	}
	return -1
}

// Player returns the stored player with defaults for a fresh journal.
func (s *Service) Player() (journal.PlayerStats, error) {
	return s.store.Player()
}
