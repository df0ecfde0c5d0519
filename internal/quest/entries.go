package quest

import (
	"time"

	"github.com/camuig/trade-quest/internal/journal"
	"github.com/camuig/trade-quest/internal/state"
)

// EntryInput is a withdrawal, deposit or adjustment.
type EntryInput struct {
	Amount    float64    `json:"amount"`
	Timestamp *time.Time `json:"timestamp,omitempty"`
	Note      string     `json:"note,omitempty"`
}

// LogWithdrawal records money taken out of the account. Amount is positive.
func (s *Service) LogWithdrawal(in EntryInput) (journal.LedgerEntry, error) {
	if in.Amount <= 0 {
		return journal.LedgerEntry{}, invalid("withdrawal amount must be positive")
	}
	return s.appendEntry(state.Withdrawals, in)
}

// LogDeposit records a balance addition. Amount is positive.
func (s *Service) LogDeposit(in EntryInput) (journal.LedgerEntry, error) {
	if in.Amount <= 0 {
		return journal.LedgerEntry{}, invalid("deposit amount must be positive")
	}
	return s.appendEntry(state.BalanceAdditions, in)
}

// LogAdjustment records a signed correction to the balance.
func (s *Service) LogAdjustment(in EntryInput) (journal.LedgerEntry, error) {
	if in.Amount == 0 {
		return journal.LedgerEntry{}, invalid("adjustment amount must not be zero")
	}
	return s.appendEntry(state.Adjustments, in)
}

func (s *Service) appendEntry(key state.Key, in EntryInput) (journal.LedgerEntry, error) {
	entry := journal.LedgerEntry{ID: s.newID(), Amount: in.Amount, Timestamp: s.now(), Note: in.Note}
	if in.Timestamp != nil {
		entry.Timestamp = *in.Timestamp
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	load, save := entryAccessors(s.store, key)
	entries, err := load()
	if err != nil {
		return journal.LedgerEntry{}, err
	}
	if err := save(append(entries, entry)); err != nil {
		return journal.LedgerEntry{}, err
	}
	s.logger.Info("ledger entry logged", "collection", key, "amount", entry.Amount)
	return entry, nil
}

func entryAccessors(st *state.Store, key state.Key) (func() ([]journal.LedgerEntry, error), func([]journal.LedgerEntry) error) {
	switch key {
	case state.Withdrawals:
		return st.Withdrawals, st.SaveWithdrawals
	case state.BalanceAdditions:
		return st.BalanceAdditions, st.SaveBalanceAdditions
	default:
		return st.Adjustments, st.SaveAdjustments
	}
}

// NetBalance sums trades, deposits and adjustments minus withdrawals.
func (s *Service) NetBalance() (float64, error) {
	trades, err := s.store.Trades()
	if err != nil {
		return 0, err
	}
	withdrawals, err := s.store.Withdrawals()
	if err != nil {
		return 0, err
	}
	additions, err := s.store.BalanceAdditions()
	if err != nil {
		return 0, err
	}
	adjustments, err := s.store.Adjustments()
	if err != nil {
		return 0, err
	}
	return journal.NetBalance(trades, withdrawals, additions, adjustments), nil
}
