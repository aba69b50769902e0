package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
)

// Starting turn policies.
const (
	StartFirst  = "first"
	StartRandom = "random"
)

type GameConfig struct {
	// StartingTurn decides who acts first in a new game: "first" (the creator)
	// or "random".
	StartingTurn string `json:"starting_turn"`
	// ComputerUserID is the Nakama user that plays as the automated opponent.
	ComputerUserID string `json:"computer_user_id"`
	// MaxComputerDraws bounds how many cards the computer draws in one turn.
	MaxComputerDraws int    `json:"max_computer_draws"`
	SnapshotSecret   string `json:"snapshot_secret"`
	LogLevel         string `json:"log_level"`
}

var (
	cfg      *GameConfig
	loadOnce sync.Once
	loadErr  error
)

// Defaults returns the configuration used when no file is loaded.
func Defaults() GameConfig {
	return GameConfig{
		StartingTurn:     StartFirst,
		ComputerUserID:   "crazy-eights-computer",
		MaxComputerDraws: 52,
		SnapshotSecret:   "crazy-eights-dev-secret",
		LogLevel:         "info",
	}
}

// ParseGameConfig decodes a JSON document on top of Defaults and validates it.
func ParseGameConfig(data []byte) (*GameConfig, error) {
	c := Defaults()
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to unmarshal game config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate rejects values the service cannot run with.
func (c *GameConfig) Validate() error {
	c.StartingTurn = strings.ToLower(strings.TrimSpace(c.StartingTurn))
	switch c.StartingTurn {
	case StartFirst, StartRandom:
	default:
		return fmt.Errorf("invalid starting_turn %q", c.StartingTurn)
	}
	if c.ComputerUserID == "" {
		return fmt.Errorf("computer_user_id must not be empty")
	}
	if c.MaxComputerDraws <= 0 {
		return fmt.Errorf("max_computer_draws must be positive, got %d", c.MaxComputerDraws)
	}
	if c.SnapshotSecret == "" {
		return fmt.Errorf("snapshot_secret must not be empty")
	}
	return nil
}

// ApplyEnv overrides fields from Nakama runtime environment variables.
// Unparseable values are ignored.
func (c *GameConfig) ApplyEnv(env map[string]string) {
	if val, ok := env["crazy_eights_starting_turn"]; ok {
		c.StartingTurn = val
	}
	if val, ok := env["crazy_eights_computer_user_id"]; ok && val != "" {
		c.ComputerUserID = val
	}
	if val, ok := env["crazy_eights_max_computer_draws"]; ok {
		if i, err := strconv.Atoi(val); err == nil {
			c.MaxComputerDraws = i
		}
	}
	if val, ok := env["crazy_eights_snapshot_secret"]; ok && val != "" {
		c.SnapshotSecret = val
	}
	if val, ok := env["crazy_eights_log_level"]; ok {
		c.LogLevel = val
	}
}

// RandomStart reports whether the starting seat is drawn at random.
func (c *GameConfig) RandomStart() bool {
	return c.StartingTurn == StartRandom
}

// LoadGameConfig loads the game configuration from the given path.
func LoadGameConfig(path string) error {
	loadOnce.Do(func() {
		data, err := os.ReadFile(path)
		if err != nil {
			loadErr = fmt.Errorf("failed to read game config: %w", err)
			return
		}

		c, err := ParseGameConfig(data)
		if err != nil {
			loadErr = err
			return
		}
		cfg = c
	})
	return loadErr
}

// GetGameConfig returns the global game configuration, or the defaults when
// none was loaded.
func GetGameConfig() *GameConfig {
	if cfg == nil {
		d := Defaults()
		return &d
	}
	return cfg
}
