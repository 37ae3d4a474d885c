package config

import "fmt"

const (
	MinTickRate = 1
	MaxTickRate = 120
)

// ValidateSettings checks the global settings for internal consistency.
// Cross-checks against the locations actually present happen when the world is linked.
func ValidateSettings(s *Settings) error {
	if s.InitialLocationID <= 0 {
		return fmt.Errorf("config validation: initial_location_id is required")
	}

	if s.Screen.Width <= 0 || s.Screen.Height <= 0 {
		return fmt.Errorf("config validation: screen size must be positive, got %dx%d", s.Screen.Width, s.Screen.Height)
	}

	if s.TickRate < MinTickRate || s.TickRate > MaxTickRate {
		return fmt.Errorf("config validation: tick_rate must be between %d and %d, got %d", MinTickRate, MaxTickRate, s.TickRate)
	}

	if s.MapKey == "q" {
		return fmt.Errorf("config validation: map_key cannot be 'q', it quits the game")
	}

	for id, next := range s.LocationTree {
		seen := make(map[int]bool, len(next))
		for _, n := range next {
			if n == id {
				return fmt.Errorf("config validation: location_tree: location %d lists itself as a successor", id)
			}
			if seen[n] {
				return fmt.Errorf("config validation: location_tree: location %d lists successor %d twice", id, n)
			}
			seen[n] = true
		}
	}

	return nil
}

// ValidateLocationSettings checks the fields every location shares.
// Variant fields are validated by the mini-game that reads them.
func ValidateLocationSettings(l *LocationSettings) error {
	if l.ID <= 0 {
		return fmt.Errorf("config validation: location id must be positive, got %d", l.ID)
	}
	if l.MiniGameID != nil && *l.MiniGameID <= 0 {
		return fmt.Errorf("config validation: location %d: mini_game_id must be positive, got %d", l.ID, *l.MiniGameID)
	}
	return nil
}
