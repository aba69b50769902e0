package domain

// Action is the kind of a logged move.
type Action string

const (
	ActionPlay Action = "play"
	ActionDraw Action = "draw"
)

// Deal layout.
const (
	HandSize = 7
	// firstDiscard is the position in the shuffled deck that starts the discard pile.
	firstDiscard = 2 * HandSize
)
