package quest

import (
	"strings"
	"time"

	"github.com/camuig/trade-quest/internal/journal"
	"github.com/camuig/trade-quest/internal/progress"
	"github.com/camuig/trade-quest/internal/state"
)

type TradeInput struct {
	Pair       string          `json:"pair"`
	Outcome    journal.Outcome `json:"outcome"`
	Profit     float64         `json:"profit"`
	Pips       *float64        `json:"pips,omitempty"`
	LotSize    *float64        `json:"lot_size,omitempty"`
	Timestamp  *time.Time      `json:"timestamp,omitempty"`
	Strategy   string          `json:"strategy,omitempty"`
	Notes      string          `json:"notes,omitempty"`
	Emotion    string          `json:"emotion,omitempty"`
	Discipline *int            `json:"discipline,omitempty"`
	CreatureID string          `json:"creature_id,omitempty"`
}

func (in TradeInput) validate() error {
	if strings.TrimSpace(in.Pair) == "" {
		return invalid("pair is required")
	}
	if !in.Outcome.Valid() {
		return invalid("outcome must be win, loss or breakeven, got %q", in.Outcome)
	}
	if in.Discipline != nil && (*in.Discipline < 1 || *in.Discipline > 5) {
		return invalid("discipline must be within 1-5, got %d", *in.Discipline)
	}
	if in.LotSize != nil && *in.LotSize < 0 {
		return invalid("lot size must not be negative")
	}
	return nil
}

func (in TradeInput) apply(t *journal.Trade) {
	t.Pair = strings.ToUpper(strings.TrimSpace(in.Pair))
	t.Outcome = in.Outcome
	t.Profit = in.Profit
	t.Pips = in.Pips
	t.LotSize = in.LotSize
	t.Strategy = strings.TrimSpace(in.Strategy)
	t.Notes = in.Notes
	t.Emotion = in.Emotion
	t.Discipline = in.Discipline
	t.CreatureID = in.CreatureID
	if in.Timestamp != nil {
		t.Timestamp = *in.Timestamp
	}
}

type TradeResult struct {
	Trade  journal.Trade `json:"trade"`
	Reward Reward        `json:"reward"`
}

// LogTrade records a trade, tags the referenced creature with an encounter
// and awards XP for the outcome. The three writes commit together.
func (s *Service) LogTrade(in TradeInput) (TradeResult, error) {
	if err := in.validate(); err != nil {
		return TradeResult{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	trade := journal.Trade{ID: s.newID(), Timestamp: s.now()}
	in.apply(&trade)

	var reward Reward
	err := s.store.Atomic(func(tx *state.Store) error {
		trades, err := tx.Trades()
		if err != nil {
			return err
		}
		if err := tx.SaveTrades(append(trades, trade)); err != nil {
			return err
		}
		if trade.CreatureID != "" {
			if err := s.recordEncounter(tx, trade); err != nil {
				return err
			}
		}
		reward, err = s.award(tx, progress.ForTrade(trade.Outcome), "trade")
		return err
	})
	if err != nil {
		return TradeResult{}, err
	}

	s.logger.Info("trade logged", "id", trade.ID, "pair", trade.Pair,
		"outcome", trade.Outcome, "profit", trade.Profit)
	s.announce(reward)
	return TradeResult{Trade: trade, Reward: reward}, nil
}

func (s *Service) recordEncounter(st *state.Store, t journal.Trade) error {
	creatures, err := st.Creatures()
	if err != nil {
		return err
	}
	i := findIndex(creatures, func(c journal.Creature) bool { return c.ID == t.CreatureID })
	if i < 0 {
		s.logger.Warn("trade references unknown creature", "trade", t.ID, "creature", t.CreatureID)
		return nil
	}
	creatures[i].Encounters = append(creatures[i].Encounters, journal.Encounter{
		Date:    t.Timestamp,
		Outcome: t.Outcome,
		TradeID: t.ID,
	})
	return st.SaveCreatures(creatures)
}

// UpdateTrade replaces the editable fields of a trade. XP already granted
// is left as is.
func (s *Service) UpdateTrade(id string, in TradeInput) (journal.Trade, error) {
	if err := in.validate(); err != nil {
		return journal.Trade{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	trades, err := s.store.Trades()
	if err != nil {
		return journal.Trade{}, err
	}
	i := findIndex(trades, func(t journal.Trade) bool { return t.ID == id })
	if i < 0 {
		return journal.Trade{}, ErrNotFound
	}
	in.apply(&trades[i])
	if err := s.store.SaveTrades(trades); err != nil {
		return journal.Trade{}, err
	}
	s.logger.Info("trade updated", "id", id)
	return trades[i], nil
}

func (s *Service) DeleteTrade(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	trades, err := s.store.Trades()
	if err != nil {
		return err
	}
	i := findIndex(trades, func(t journal.Trade) bool { return t.ID == id })
	if i < 0 {
		return ErrNotFound
	}
	trades = append(trades[:i], trades[i+1:]...)
	if err := s.store.SaveTrades(trades); err != nil {
		return err
	}
	s.logger.Info("trade deleted", "id", id)
	return nil
}

func (s *Service) Trades() ([]journal.Trade, error) {
	return s.store.Trades()
}
