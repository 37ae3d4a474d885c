package input

import (
	"image"
	"strings"
)

// Collector gathers one frame's worth of events from a polling frontend.
// Polled state is turned into discrete events: a window size is reported
// only when it changes and key names are normalised to lower case.
type Collector struct {
	size   image.Point
	events []Event
}

// Quit records a quit request
func (c *Collector) Quit() {
	c.events = append(c.events, QuitEvent())
}

// KeyReleased records a key release. Empty names are ignored.
func (c *Collector) KeyReleased(name string) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return
	}
	c.events = append(c.events, KeyUpEvent(Key(name)))
}

// MousePressed records a button press at screen position p
func (c *Collector) MousePressed(p image.Point, button MouseButton) {
	c.events = append(c.events, MouseDownEvent(p.X, p.Y, button))
}

// MouseReleased records a button release at screen position p
func (c *Collector) MouseReleased(p image.Point, button MouseButton) {
	c.events = append(c.events, MouseUpEvent(p.X, p.Y, button))
}

// WindowSize records the current window size, emitting a Resize event when it differs from the last one
func (c *Collector) WindowSize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	size := image.Pt(width, height)
	if size == c.size {
		return
	}
	c.size = size
	c.events = append(c.events, ResizeEvent(width, height))
}

// Flush returns the collected events in order and starts a new frame
func (c *Collector) Flush() []Event {
	events := c.events
	c.events = nil
	return events
}
