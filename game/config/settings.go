package config

import (
	"fmt"
	"strings"
)

const (
	// VirtualWidth and VirtualHeight define the coordinate space every scene and the map are authored in
	VirtualWidth  = 1920
	VirtualHeight = 1080

	DefaultTickRate = 15
	DefaultMapKey   = "m"
	DefaultWidth    = 1280
	DefaultHeight   = 720
)

// ScreenSettings controls the desktop window
type ScreenSettings struct {
	Width      int  `yaml:"width"`
	Height     int  `yaml:"height"`
	Fullscreen bool `yaml:"fullscreen"`
}

// Settings is the global game configuration read from settings.yml
type Settings struct {
	Title             string         `yaml:"title"`
	Screen            ScreenSettings `yaml:"screen"`
	InitialLocationID int            `yaml:"initial_location_id"`
	LocationTree      map[int][]int  `yaml:"location_tree"`
	MapKey            string         `yaml:"map_key"`
	TickRate          int            `yaml:"tick_rate"`
}

// Successors returns the ordered successor ids of a location
func (s *Settings) Successors(id int) []int {
	return s.LocationTree[id]
}

// applyDefaults fills optional fields left empty in the file
func (s *Settings) applyDefaults() {
	if s.Title == "" {
		s.Title = "Location Quest"
	}
	if s.Screen.Width == 0 {
		s.Screen.Width = DefaultWidth
	}
	if s.Screen.Height == 0 {
		s.Screen.Height = DefaultHeight
	}
	if s.MapKey == "" {
		s.MapKey = DefaultMapKey
	}
	s.MapKey = strings.ToLower(s.MapKey)
	if s.TickRate == 0 {
		s.TickRate = DefaultTickRate
	}
	if s.LocationTree == nil {
		s.LocationTree = make(map[int][]int)
	}
}

// LocationSettings is the per-location configuration read from locations/location_NNN/settings.yml.
// Variant-specific fields are only read by the mini-game selected by MiniGameID.
type LocationSettings struct {
	ID         int    `yaml:"-"`
	Name       string `yaml:"name"`
	MiniGameID *int   `yaml:"mini_game_id"`

	// Sliding puzzle and code lock
	Size int `yaml:"size"`

	// Sliding puzzle
	ShuffleMoves int   `yaml:"shuffle_moves"`
	EmptyCell    []int `yaml:"empty_cell"`

	// Sokoban blocks
	GridStart      []string          `yaml:"grid_start"`
	FinishPosition []int             `yaml:"finish_position"`
	TileImages     map[string]string `yaml:"tile_images"`

	// Code lock
	StartingPosition []string `yaml:"starting_position"`
	TargetCode       string   `yaml:"target_code"`
}

// HasMiniGame reports whether the location hosts a mini-game
func (l *LocationSettings) HasMiniGame() bool {
	return l.MiniGameID != nil
}

func (l *LocationSettings) applyDefaults() {
	if l.Name == "" {
		l.Name = fmt.Sprintf("Location %d", l.ID)
	}
}

// LocationDir returns the directory of a location relative to the game root
func LocationDir(id int) string {
	return fmt.Sprintf("locations/location_%03d", id)
}

// LocationImage returns the path of one of a location's images
func LocationImage(id int, name string) string {
	return fmt.Sprintf("%s/images/%s", LocationDir(id), name)
}

// MiniGameImage returns the path of one of a mini-game's shared images
func MiniGameImage(miniGameID int, name string) string {
	return fmt.Sprintf("mini_games/mini_game_%03d/images/%s", miniGameID, name)
}

// MapBackgroundImage is the shared background of the map overview
const MapBackgroundImage = "images/map_background.png"
