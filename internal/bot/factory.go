package bot

import (
	"fmt"
)

// NewBrain creates a new AI brain based on the specified level. rng is only
// used by levels that play at random.
func NewBrain(level Level, rng Picker) (Brain, error) {
	switch level {
	case LevelHeuristic:
		return HeuristicBrain{}, nil
	case LevelRandom:
		if rng == nil {
			return nil, fmt.Errorf("bot level %s needs a random source", level)
		}
		return &RandomBrain{rng: rng}, nil
	default:
		return nil, fmt.Errorf("unknown bot level: %d", level)
	}
}
