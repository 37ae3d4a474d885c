package service

import (
	"time"

	"github.com/wricardo/location-quest/game/world"
)

// Event types emitted by actions
const (
	EventLocationUnlocked  = "location_unlocked"
	EventMiniGameCompleted = "minigame_completed"
	EventLocationEntered   = "location_entered"
	EventMapOpened         = "map_opened"
	EventMapClosed         = "map_closed"
	EventIntroDismissed    = "intro_dismissed"
	EventQuit              = "quit"
)

// Click coordinate spaces
const (
	// SpaceScreen is the window, sized by the screen settings (default)
	SpaceScreen = "screen"
	// SpaceVirtual is the 1920x1080 scene and map space
	SpaceVirtual = "virtual"
	// SpaceCanvas is the active mini-game's 900x900 canvas
	SpaceCanvas = "canvas"
)

// SessionOptions configures a new session
type SessionOptions struct {
	// Seed makes shuffles reproducible; zero picks a random seed
	Seed int64 `json:"seed,omitempty"`
}

// SessionInfo provides information about a game session
type SessionInfo struct {
	ID             string       `json:"id"`
	Title          string       `json:"title"`
	Seed           int64        `json:"seed"`
	CreatedAt      time.Time    `json:"created_at"`
	LastAccessedAt time.Time    `json:"last_accessed_at"`
	State          *world.State `json:"state"`
}

// ClickRequest is a left click at a position in the given coordinate space.
// Canvas clicks go through the window, so they land on the nearest screen
// pixel; aim a few units inside a button's edge.
type ClickRequest struct {
	X     int    `json:"x"`
	Y     int    `json:"y"`
	Space string `json:"space,omitempty"`
}

// ActionResult contains the outcome of one input action
type ActionResult struct {
	Success bool         `json:"success"`
	Message string       `json:"message"`
	State   *world.State `json:"state"`
	Events  []GameEvent  `json:"events"`
}

// GameEvent represents a progression change caused by an action
type GameEvent struct {
	Type       string    `json:"type"`
	Message    string    `json:"message"`
	LocationID int       `json:"location_id,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}
