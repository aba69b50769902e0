package app

// StartPolicy decides which seat acts first in a new game.
type StartPolicy int

const (
	// StartFirstPlayer gives the first turn to the player who created the game.
	StartFirstPlayer StartPolicy = iota
	// StartRandom picks the first player at random.
	StartRandom
)

// DefaultMaxComputerDraws bounds the computer's draws in one turn when the
// caller passes no limit. A full deck is always enough to find a playable card.
const DefaultMaxComputerDraws = 52
