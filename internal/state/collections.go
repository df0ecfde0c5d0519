package state

import "github.com/camuig/trade-quest/internal/journal"

func (s *Store) Trades() ([]journal.Trade, error) {
	return load[[]journal.Trade](s, Trades)
}

func (s *Store) SaveTrades(v []journal.Trade) error {
	return save(s, Trades, v)
}

func (s *Store) Withdrawals() ([]journal.LedgerEntry, error) {
	return load[[]journal.LedgerEntry](s, Withdrawals)
}

func (s *Store) SaveWithdrawals(v []journal.LedgerEntry) error {
	return save(s, Withdrawals, v)
}

func (s *Store) BalanceAdditions() ([]journal.LedgerEntry, error) {
	return load[[]journal.LedgerEntry](s, BalanceAdditions)
}

func (s *Store) SaveBalanceAdditions(v []journal.LedgerEntry) error {
	return save(s, BalanceAdditions, v)
}

func (s *Store) Adjustments() ([]journal.LedgerEntry, error) {
	return load[[]journal.LedgerEntry](s, Adjustments)
}

func (s *Store) SaveAdjustments(v []journal.LedgerEntry) error {
	return save(s, Adjustments, v)
}

func (s *Store) Player() (journal.PlayerStats, error) {
	return load[journal.PlayerStats](s, Player)
}

func (s *Store) SavePlayer(v journal.PlayerStats) error {
	return save(s, Player, v)
}

func (s *Store) Creatures() ([]journal.Creature, error) {
	return load[[]journal.Creature](s, Creatures)
}

func (s *Store) SaveCreatures(v []journal.Creature) error {
	return save(s, Creatures, v)
}

func (s *Store) JournalEntries() ([]journal.JournalEntry, error) {
	return load[[]journal.JournalEntry](s, JournalEntries)
}

func (s *Store) SaveJournalEntries(v []journal.JournalEntry) error {
	return save(s, JournalEntries, v)
}

func (s *Store) MandatoryRules() ([]journal.MandatoryRule, error) {
	return load[[]journal.MandatoryRule](s, MandatoryRules)
}

func (s *Store) LedgerActuals() (journal.ActualBalances, error) {
	v, err := load[journal.ActualBalances](s, LedgerActuals)
	if err == nil && v == nil {
		v = journal.ActualBalances{}
	}
	return v, err
}

func (s *Store) SaveLedgerActuals(v journal.ActualBalances) error {
	return save(s, LedgerActuals, v)
}

func (s *Store) Reviews() ([]journal.Review, error) {
	return load[[]journal.Review](s, Reviews)
}

func (s *Store) SaveReviews(v []journal.Review) error {
	return save(s, Reviews, v)
}
