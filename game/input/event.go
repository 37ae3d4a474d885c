// Package input defines the toolkit-independent input events the game core consumes.
//
// Frontends (the ebiten desktop client, the headless service) translate their
// native input into Events and feed them to the world one at a time.
package input

import (
	"fmt"
	"image"
)

// Kind identifies the type of an input event
type Kind int

const (
	Quit Kind = iota
	KeyUp
	MouseDown
	MouseUp
	Resize
)

func (k Kind) String() string {
	switch k {
	case Quit:
		return "quit"
	case KeyUp:
		return "key_up"
	case MouseDown:
		return "mouse_down"
	case MouseUp:
		return "mouse_up"
	case Resize:
		return "resize"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Key is a lower-case key name, e.g. "q", "m", "escape", "arrowup"
type Key string

const (
	KeyQ      Key = "q"
	KeyM      Key = "m"
	KeyEscape Key = "escape"
)

// MouseButton identifies a mouse button
type MouseButton int

const (
	ButtonLeft MouseButton = iota
	ButtonRight
	ButtonMiddle
)

// Event is a single discrete input event.
// Pos is in screen (window) pixels for mouse events; Size is the new window size for Resize.
type Event struct {
	Kind   Kind
	Key    Key
	Pos    image.Point
	Button MouseButton
	Size   image.Point
}

// IsMouse reports whether the event is a mouse button event
func (e Event) IsMouse() bool {
	return e.Kind == MouseDown || e.Kind == MouseUp
}

// QuitEvent returns a quit event
func QuitEvent() Event {
	return Event{Kind: Quit}
}

// KeyUpEvent returns a key-released event
func KeyUpEvent(key Key) Event {
	return Event{Kind: KeyUp, Key: key}
}

// MouseDownEvent returns a mouse-button-pressed event at screen position (x, y)
func MouseDownEvent(x, y int, button MouseButton) Event {
	return Event{Kind: MouseDown, Pos: image.Pt(x, y), Button: button}
}

// MouseUpEvent returns a mouse-button-released event at screen position (x, y)
func MouseUpEvent(x, y int, button MouseButton) Event {
	return Event{Kind: MouseUp, Pos: image.Pt(x, y), Button: button}
}

// ResizeEvent returns a window-resized event
func ResizeEvent(width, height int) Event {
	return Event{Kind: Resize, Size: image.Pt(width, height)}
}
