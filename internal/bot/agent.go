package bot

import (
	"fmt"

	"crazyeights/internal/domain"
)

// Agent represents an autonomous bot player.
type Agent struct {
	ID       string
	Strategy Brain
}

// NewAgent binds a player ID to a brain.
func NewAgent(id string, strategy Brain) *Agent {
	return &Agent{ID: id, Strategy: strategy}
}

// Decide asks the agent for its next step in s. It only reads the session.
func (a *Agent) Decide(s *domain.Session) (Selection, error) {
	hand, err := s.Hand(a.ID)
	if err != nil {
		return drawSelection, err
	}
	top, ok := s.TopCard()
	if !ok {
		return drawSelection, fmt.Errorf("%w: empty discard pile", domain.ErrCorruptSession)
	}
	return a.Strategy.Choose(Turn{Hand: hand, Top: top, CurrentSuit: s.CurrentSuit}), nil
}
