package quest

import (
	"strings"

	"github.com/camuig/trade-quest/internal/journal"
	"github.com/camuig/trade-quest/internal/progress"
	"github.com/camuig/trade-quest/internal/state"
)

type JournalInput struct {
	Date    string `json:"date,omitempty"` // YYYY-MM-DD, defaults to today
	Content string `json:"content"`
	Rating  int    `json:"rating"`
	Comment string `json:"comment,omitempty"`
	Image   string `json:"image,omitempty"`
}

type JournalResult struct {
	Entry    journal.JournalEntry `json:"entry"`
	Replaced bool                 `json:"replaced"`
	Reward   Reward               `json:"reward"`
}

// AddJournalEntry stores the entry for its date, replacing an earlier entry
// for the same date. Only the first entry of a date earns XP.
func (s *Service) AddJournalEntry(in JournalInput) (JournalResult, error) {
	if in.Date == "" {
		in.Date = s.today()
	}
	if _, err := s.parseDate(in.Date); err != nil {
		return JournalResult{}, err
	}
	if strings.TrimSpace(in.Content) == "" {
		return JournalResult{}, invalid("content is required")
	}
	if in.Rating < 0 || in.Rating > 5 {
		return JournalResult{}, invalid("rating must be within 0-5, got %d", in.Rating)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.store.JournalEntries()
	if err != nil {
		return JournalResult{}, err
	}

	entry := journal.JournalEntry{
		Date:    in.Date,
		Content: in.Content,
		Rating:  in.Rating,
		Comment: in.Comment,
		Image:   in.Image,
	}

	res := JournalResult{}
	if i := findIndex(entries, func(e journal.JournalEntry) bool { return e.Date == in.Date }); i >= 0 {
		entry.ID = entries[i].ID
		entries[i] = entry
		res.Replaced = true
	} else {
		entry.ID = s.newID()
		entries = append(entries, entry)
	}

	err = s.store.Atomic(func(tx *state.Store) error {
		if err := tx.SaveJournalEntries(entries); err != nil {
			return err
		}
		if res.Replaced {
			player, err := tx.Player()
			if err != nil {
				return err
			}
			res.Reward = Reward{Progress: progress.Compute(player.XP)}
			return nil
		}
		var err error
		res.Reward, err = s.award(tx, progress.ForJournalEntry(entry.Rating), "journal")
		return err
	})
	if err != nil {
		return JournalResult{}, err
	}

	res.Entry = entry
	s.logger.Info("journal entry saved", "date", entry.Date, "rating", entry.Rating, "replaced", res.Replaced)
	s.announce(res.Reward)
	return res, nil
}

// SetActualBalance records the balance the trader saw on date.
func (s *Service) SetActualBalance(date string, amount float64) error {
	if _, err := s.parseDate(date); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	actuals, err := s.store.LedgerActuals()
	if err != nil {
		return err
	}
	actuals[date] = amount
	if err := s.store.SaveLedgerActuals(actuals); err != nil {
		return err
	}
	s.logger.Info("actual balance recorded", "date", date, "amount", amount)
	return nil
}
