// internal/game/config.go
package game

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds the settings consumed at match start. MemoryAids is a
// presentation-only toggle: it controls whether the view layer annotates
// slots with the human's beliefs, and never affects core logic or AI play.
type Config struct {
	NumPlayers  int  `json:"numPlayers"`
	TotalRounds int  `json:"totalRounds"`
	MemoryAids  bool `json:"memoryAids"`
}

// DefaultConfig returns a two-player single-round game.
func DefaultConfig() Config {
	return Config{NumPlayers: 2, TotalRounds: 1}
}

// Update applies settings from a generic map, ignoring absent keys so old
// values persist. JSON numbers arrive as float64.
func (c *Config) Update(settings map[string]interface{}) error {
	assignInt := func(field *int, key string) error {
		val, exists := settings[key]
		if !exists || val == nil {
			return nil
		}
		switch v := val.(type) {
		case float64:
			*field = int(v)
		case int:
			*field = v
		default:
			return fmt.Errorf("invalid type for %s", key)
		}
		return nil
	}
	if err := assignInt(&c.NumPlayers, "numPlayers"); err != nil {
		return err
	}
	if err := assignInt(&c.TotalRounds, "totalRounds"); err != nil {
		return err
	}
	if val, exists := settings["memoryAids"]; exists && val != nil {
		b, ok := val.(bool)
		if !ok {
			return fmt.Errorf("invalid type for memoryAids")
		}
		c.MemoryAids = b
	}
	return c.Validate()
}

// Validate enforces the supported ranges: 2-4 players, 1-99 rounds.
func (c *Config) Validate() error {
	if c.NumPlayers < 2 || c.NumPlayers > 4 {
		return fmt.Errorf("numPlayers must be between 2 and 4, got %d", c.NumPlayers)
	}
	if c.TotalRounds < 1 || c.TotalRounds > 99 {
		return fmt.Errorf("totalRounds must be between 1 and 99, got %d", c.TotalRounds)
	}
	return nil
}

// ConfigFromEnv builds a Config from CABO_PLAYERS, CABO_ROUNDS and
// CABO_MEMORY_AIDS, falling back to defaults for unset variables.
func ConfigFromEnv() (Config, error) {
	cfg := DefaultConfig()
	if v := os.Getenv("CABO_PLAYERS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return cfg, fmt.Errorf("CABO_PLAYERS: %w", err)
		}
		cfg.NumPlayers = n
	}
	if v := os.Getenv("CABO_ROUNDS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return cfg, fmt.Errorf("CABO_ROUNDS: %w", err)
		}
		cfg.TotalRounds = n
	}
	if v := os.Getenv("CABO_MEMORY_AIDS"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return cfg, fmt.Errorf("CABO_MEMORY_AIDS: %w", err)
		}
		cfg.MemoryAids = b
	}
	return cfg, cfg.Validate()
}
