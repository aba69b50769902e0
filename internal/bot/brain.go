package bot

import (
	"fmt"
	"strings"

	"crazyeights/internal/domain"
)

// Level selects the decision strategy of an automated player.
type Level int

const (
	LevelHeuristic Level = iota
	LevelRandom
)

func (l Level) String() string {
	switch l {
	case LevelHeuristic:
		return "heuristic"
	case LevelRandom:
		return "random"
	default:
		return fmt.Sprintf("level(%d)", int(l))
	}
}

// ParseLevel converts a level name into a Level.
func ParseLevel(name string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "heuristic":
		return LevelHeuristic, nil
	case "random":
		return LevelRandom, nil
	default:
		return 0, fmt.Errorf("unknown bot level: %q", name)
	}
}

// Turn is the part of a game an automated player gets to see.
type Turn struct {
	Hand        []domain.Card
	Top         domain.Card
	CurrentSuit domain.Suit
}

// Brain is the interface that all bot strategies must implement.
type Brain interface {
	Choose(t Turn) Selection
}

// Picker is the randomness a RandomBrain draws from.
// *golang.org/x/exp/rand.Rand satisfies it.
type Picker interface {
	Intn(n int) int
}

// HeuristicBrain plays by ChoosePlay.
type HeuristicBrain struct{}

func (HeuristicBrain) Choose(t Turn) Selection {
	return ChoosePlay(t.Hand, t.Top.Rank, t.CurrentSuit)
}

// RandomBrain plays a uniformly random legal card. Eights declare a random suit.
type RandomBrain struct {
	rng Picker
}

func (b *RandomBrain) Choose(t Turn) Selection {
	var legal []domain.Card
	for _, c := range t.Hand {
		if domain.CanPlay(t.Top, t.CurrentSuit, c) {
			legal = append(legal, c)
		}
	}
	if len(legal) == 0 {
		return drawSelection
	}
	c := legal[b.rng.Intn(len(legal))]
	if !c.IsEight() {
		return Selection{Card: c}
	}
	declared := domain.Suits[b.rng.Intn(len(domain.Suits))]
	return Selection{Card: c, Declared: &declared}
}
