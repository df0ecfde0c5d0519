package quest

import (
	"strings"

	"github.com/camuig/trade-quest/internal/journal"
	"github.com/camuig/trade-quest/internal/progress"
)

type CreatureInput struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Image       string `json:"image,omitempty"`
}

func (s *Service) AddCreature(in CreatureInput) (journal.Creature, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return journal.Creature{}, invalid("creature name is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	creatures, err := s.store.Creatures()
	if err != nil {
		return journal.Creature{}, err
	}
	c := journal.Creature{ID: s.newID(), Name: name, Description: in.Description, Image: in.Image}
	if err := s.store.SaveCreatures(append(creatures, c)); err != nil {
		return journal.Creature{}, err
	}
	s.logger.Info("creature added", "id", c.ID, "name", c.Name)
	return c, nil
}

func (s *Service) Creatures() ([]journal.Creature, error) {
	return s.store.Creatures()
}

// ResetCreatures empties the bestiary. Trades keep their creature IDs.
func (s *Service) ResetCreatures() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.SaveCreatures([]journal.Creature{}); err != nil {
		return err
	}
	s.logger.Info("bestiary reset")
	return nil
}

// CompleteMilestone grants the milestone XP bonus.
func (s *Service) CompleteMilestone(name string) (Reward, error) {
	if strings.TrimSpace(name) == "" {
		return Reward{}, invalid("milestone name is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.grant(progress.ForMilestone(), "milestone:"+name)
}
