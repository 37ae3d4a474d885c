// Package config provides settings management for Location Quest.
//
// The config package handles:
//   - Loading the global settings.yml and the optional local_settings.yml overlay
//   - Loading per-location settings from locations/location_NNN/settings.yml
//   - Settings validation (location tree, initial location, mini-game ids)
//   - Discovery of the locations present in a game directory
//
// Settings Format:
//
// The global settings file selects the window size, the location the player
// starts in and the location tree, an adjacency table from location id to the
// ordered ids that completing its mini-game unlocks:
//
//	screen:
//	  width: 1280
//	  height: 720
//	initial_location_id: 1
//	location_tree:
//	  1: [2, 3]
//	  2: [4]
//
// local_settings.yml, when present, is deep-merged over settings.yml: nested
// mappings are merged key by key, every other value replaces the base value.
//
// Each location carries its own settings.yml with an optional mini_game_id and
// the fields that mini-game reads (grid layouts, target codes, tile images).
//
// Usage:
//
//	manager, err := config.NewManager("game")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	settings := manager.Settings()
//	ids, err := manager.LocationIDs()
//	loc, err := manager.LoadLocation(ids[0])
package config
