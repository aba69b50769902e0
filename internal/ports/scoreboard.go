package ports

import (
	"context"
	"time"
)

// Result is the score record of a won game.
type Result struct {
	GameID string    `json:"game_id"`
	Winner string    `json:"winner"`
	Loser  string    `json:"loser"`
	At     time.Time `json:"at"`
}

// Scoreboard receives the result of every won game. Cancelled games are never
// reported.
type Scoreboard interface {
	RecordResult(ctx context.Context, r Result) error
}
