package minigame

import (
	"image"
	"math/rand"
	"time"

	"github.com/wricardo/location-quest/game/assets"
	"github.com/wricardo/location-quest/game/config"
	"github.com/wricardo/location-quest/game/input"
)

// CanvasSize is the width and height of every mini-game canvas in logical units
const CanvasSize = 900

// MiniGame is the contract every puzzle variant implements
type MiniGame interface {
	// Draw renders the current state into the canvas and returns it.
	// It may rebuild the clickable regions as a side effect.
	Draw() image.Image

	// Update is called once per frame
	Update()

	// HandleMouseEvent receives mouse events in screen coordinates
	HandleMouseEvent(ev input.Event)

	// HandleKeyEvent receives released keys
	HandleKeyEvent(key input.Key)

	// Done reports whether the puzzle has been completed
	Done() bool
}

// Lockable is something completion can unlock
type Lockable interface {
	Unlock()
}

// Owner is the location hosting a mini-game
type Owner interface {
	// MiniGameCoordinates maps a screen position into canvas space
	MiniGameCoordinates(screen image.Point) (image.Point, bool)

	// NextLocations returns the direct successors to unlock on completion
	NextLocations() []Lockable
}

// Env carries what a factory needs to build a mini-game
type Env struct {
	Owner    Owner
	Settings *config.LocationSettings
	Assets   assets.Loader
	Rand     *rand.Rand
}

func (e Env) rand() *rand.Rand {
	if e.Rand != nil {
		return e.Rand
	}
	return rand.New(rand.NewSource(time.Now().UnixNano()))
}

func (e Env) miniGameID() int {
	if e.Settings == nil || e.Settings.MiniGameID == nil {
		return 0
	}
	return *e.Settings.MiniGameID
}

// Base holds the state shared by all variants.
// Variants embed it to inherit the no-op Update and key handling.
type Base struct {
	canvas *image.RGBA
	done   bool
	owner  Owner
}

func newBase(owner Owner) Base {
	return Base{
		canvas: assets.NewCanvas(CanvasSize, CanvasSize),
		owner:  owner,
	}
}

// Done reports whether the puzzle has been completed
func (b *Base) Done() bool {
	return b.done
}

// Update does nothing by default
func (b *Base) Update() {}

// HandleMouseEvent ignores the event by default
func (b *Base) HandleMouseEvent(ev input.Event) {}

// HandleKeyEvent ignores the key by default
func (b *Base) HandleKeyEvent(key input.Key) {}

// CompleteGame marks the puzzle done and unlocks the owner's direct successors.
// Calling it again has no effect.
func (b *Base) CompleteGame() {
	if b.done {
		return
	}
	b.done = true

	if b.owner == nil {
		return
	}
	for _, next := range b.owner.NextLocations() {
		next.Unlock()
	}
}

// clickPosition returns the canvas position of a mouse-up event.
// Mouse-down events and events outside any mini-game are ignored.
func (b *Base) clickPosition(ev input.Event) (image.Point, bool) {
	if ev.Kind != input.MouseUp || b.owner == nil {
		return image.Point{}, false
	}
	return b.owner.MiniGameCoordinates(ev.Pos)
}

// Button is a clickable canvas region
type Button struct {
	Area image.Rectangle
}

// Contains reports whether pt lies in the button (right and bottom edges exclusive)
func (b Button) Contains(pt image.Point) bool {
	return pt.In(b.Area)
}

// orthogonal lists neighbour offsets as (row, column)
var orthogonal = [4][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}
