package config

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"spades/internal/domain"
)

// GameConfig holds per-deployment scorekeeping settings loaded from the
// module data directory. Scoring values themselves (trick value, bag
// threshold, penalty) are named domain constants, not configuration.
type GameConfig struct {
	// DefaultMaxRounds applies when a game is created without an explicit
	// round count.
	DefaultMaxRounds int `json:"default_max_rounds"`
	// MaxPlayersPerTeam caps the roster entered for one team.
	MaxPlayersPerTeam int `json:"max_players_per_team"`
	// MinTeams is the smallest legal team count for a game.
	MinTeams int `json:"min_teams"`
	// CompletionNotifications toggles the owner notification sent when a
	// game completes.
	CompletionNotifications bool `json:"completion_notifications"`
}

const (
	defaultMaxPlayersPerTeam = 10
	defaultMinTeams          = 2
)

var (
	cfg      *GameConfig
	loadOnce sync.Once
	loadErr  error
)

// LoadGameConfig loads the game configuration from the given path. It is
// safe to call more than once; only the first call reads the file.
func LoadGameConfig(path string) error {
	loadOnce.Do(func() {
		data, err := os.ReadFile(path)
		if err != nil {
			loadErr = fmt.Errorf("failed to read game config: %w", err)
			return
		}

		var c GameConfig
		if err := json.Unmarshal(data, &c); err != nil {
			loadErr = fmt.Errorf("failed to unmarshal game config: %w", err)
			return
		}
		cfg = &c
	})
	return loadErr
}

// DefaultMaxRounds returns the configured round count for new games.
func DefaultMaxRounds() int {
	if cfg == nil || cfg.DefaultMaxRounds <= 0 {
		return domain.DefaultMaxRounds
	}
	return cfg.DefaultMaxRounds
}

// MaxPlayersPerTeam returns the roster cap for one team.
func MaxPlayersPerTeam() int {
	if cfg == nil || cfg.MaxPlayersPerTeam <= 0 {
		return defaultMaxPlayersPerTeam
	}
	return cfg.MaxPlayersPerTeam
}

// MinTeams returns the smallest legal team count.
func MinTeams() int {
	if cfg == nil || cfg.MinTeams < defaultMinTeams {
		return defaultMinTeams
	}
	return cfg.MinTeams
}

// CompletionNotificationsEnabled reports whether game-completion
// notifications should be sent. Enabled unless a loaded config turns it off.
func CompletionNotificationsEnabled() bool {
	if cfg == nil {
		return true
	}
	return cfg.CompletionNotifications
}
