// Package state is the single typed store for every journal collection. Each
// collection is one JSON document; saving replaces it and notifies subscribers.
package state

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/camuig/trade-quest/internal/journal"
	"github.com/camuig/trade-quest/internal/storage"
)

type Key string

const (
	Trades           Key = "trades"
	Withdrawals      Key = "withdrawals"
	BalanceAdditions Key = "balance_additions"
	Adjustments      Key = "adjustments"
	Player           Key = "player_stats"
	Creatures        Key = "creatures"
	JournalEntries   Key = "journal_entries"
	HabitTasks       Key = "habit_tasks"
	TournamentPosts  Key = "tournament_posts"
	MandatoryRules   Key = "mandatory_rules"
	Preferences      Key = "preferences"
	LedgerActuals    Key = "ledger_actuals"
	Reviews          Key = "reviews"
)

// emptyDocs is the document returned for a key that was never written.
var emptyDocs = map[Key]string{
	Trades:           "[]",
	Withdrawals:      "[]",
	BalanceAdditions: "[]",
	Adjustments:      "[]",
	Player:           "{}",
	Creatures:        "[]",
	JournalEntries:   "[]",
	HabitTasks:       "[]",
	TournamentPosts:  "[]",
	MandatoryRules:   "[]",
	Preferences:      "{}",
	LedgerActuals:    "{}",
	Reviews:          "[]",
}

// shapes gives the typed value each document must decode into.
var shapes = map[Key]func() any{
	Trades:           func() any { return &[]journal.Trade{} },
	Withdrawals:      func() any { return &[]journal.LedgerEntry{} },
	BalanceAdditions: func() any { return &[]journal.LedgerEntry{} },
	Adjustments:      func() any { return &[]journal.LedgerEntry{} },
	Player:           func() any { return &journal.PlayerStats{} },
	Creatures:        func() any { return &[]journal.Creature{} },
	JournalEntries:   func() any { return &[]journal.JournalEntry{} },
	HabitTasks:       func() any { return &[]journal.HabitTask{} },
	TournamentPosts:  func() any { return &[]journal.TournamentPost{} },
	MandatoryRules:   func() any { return &[]journal.MandatoryRule{} },
	Preferences:      func() any { return &journal.Preferences{} },
	LedgerActuals:    func() any { return &journal.ActualBalances{} },
	Reviews:          func() any { return &[]journal.Review{} },
}

var (
	ErrUnknownCollection = errors.New("unknown collection")
	ErrInvalidDocument   = errors.New("document is not valid JSON")
)

// Keys lists every known collection.
func Keys() []Key {
	return []Key{
		Trades, Withdrawals, BalanceAdditions, Adjustments, Player, Creatures,
		JournalEntries, HabitTasks, TournamentPosts, MandatoryRules, Preferences,
		LedgerActuals, Reviews,
	}
}

func ParseKey(s string) (Key, error) {
	k := Key(s)
	if _, ok := emptyDocs[k]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownCollection, s)
	}
	return k, nil
}

type Change struct {
	Key Key
	At  time.Time
}

type Store struct {
	repo *storage.Repository

	// pending collects changed keys inside Atomic; they are published on commit.
	pending *[]Key

	mu     sync.RWMutex
	subs   map[int]func(Change)
	nextID int
}

func New(repo *storage.Repository) *Store {
	return &Store{repo: repo, subs: make(map[int]func(Change))}
}

// Subscribe registers fn for every saved change and returns its unsubscribe func.
// fn runs synchronously on the saving goroutine.
func (s *Store) Subscribe(fn func(Change)) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

func (s *Store) publish(key Key) {
	c := Change{Key: key, At: time.Now()}

	s.mu.RLock()
	fns := make([]func(Change), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.mu.RUnlock()

	for _, fn := range fns {
		fn(c)
	}
}

// Raw returns the stored document, or the empty document for an unwritten key.
func (s *Store) Raw(key Key) ([]byte, error) {
	empty, ok := emptyDocs[key]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCollection, key)
	}
	value, found, err := s.repo.Get(string(key))
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", key, err)
	}
	if !found {
		return []byte(empty), nil
	}
	return value, nil
}

// PutRaw replaces the document under key with body after checking it decodes
// into the collection's type.
func (s *Store) PutRaw(key Key, body []byte) error {
	shape, ok := shapes[key]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownCollection, key)
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, body); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	if err := json.Unmarshal(buf.Bytes(), shape()); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalidDocument, key, err)
	}
	return s.put(key, buf.Bytes())
}

func (s *Store) put(key Key, value []byte) error {
	if err := s.repo.Put(string(key), value); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	if s.pending != nil {
		*s.pending = append(*s.pending, key)
		return nil
	}
	s.publish(key)
	return nil
}

// Atomic runs fn with a store whose reads and writes share one transaction.
// Either every save made through tx lands or none does. Subscribers hear
// about the changes only after commit. fn must not call Atomic on tx.
func (s *Store) Atomic(fn func(tx *Store) error) error {
	var changed []Key
	err := s.repo.Transaction(func(repo *storage.Repository) error {
		changed = changed[:0]
		return fn(&Store{repo: repo, pending: &changed})
	})
	if err != nil {
		return err
	}
	for _, key := range changed {
		s.publish(key)
	}
	return nil
}

func load[T any](s *Store, key Key) (T, error) {
	var v T
	raw, err := s.Raw(key)
	if err != nil {
		return v, err
	}
	if err := json.Unmarshal(raw, &v); err != nil {
		return v, fmt.Errorf("decode %s: %w", key, err)
	}
	return v, nil
}

func save[T any](s *Store, key Key, v T) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return s.put(key, data)
}
