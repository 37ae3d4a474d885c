package world

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"log/slog"
	"sort"

	"github.com/wricardo/location-quest/game/assets"
	"github.com/wricardo/location-quest/game/config"
	"github.com/wricardo/location-quest/game/input"
)

var (
	ErrUnknownLocation   = errors.New("unknown location")
	ErrDuplicateLocation = errors.New("duplicate location")
	ErrAlreadyLinked     = errors.New("world is already linked")
)

const highlightWidth = 6

var highlightColor = color.RGBA{255, 215, 0, 255}

// World owns every location, the active cursor and the map overview
type World struct {
	settings      *config.Settings
	locations     map[int]*Location
	active        *Location
	showMap       bool
	mapBackground image.Image
	mapKey        input.Key
	windowSize    image.Point
	done          bool
	linked        bool
	frame         *image.RGBA
	logger        *slog.Logger
}

// New creates an empty world. Locations are added with AddLocation and
// connected with LinkGraph before the world can be played.
func New(settings *config.Settings, mapBackground image.Image, logger *slog.Logger) *World {
	if logger == nil {
		logger = slog.Default()
	}

	mapKey := input.KeyM
	window := image.Pt(config.VirtualWidth, config.VirtualHeight)
	if settings != nil {
		if settings.MapKey != "" {
			mapKey = input.Key(settings.MapKey)
		}
		if settings.Screen.Width > 0 && settings.Screen.Height > 0 {
			window = image.Pt(settings.Screen.Width, settings.Screen.Height)
		}
	}

	return &World{
		settings:      settings,
		locations:     make(map[int]*Location),
		mapBackground: mapBackground,
		mapKey:        mapKey,
		windowSize:    window,
		logger:        logger.With("component", "world"),
	}
}

// LinkGraph resolves the location tree, unlocks the initial location and makes it active.
// Every id in the tree must belong to an added location.
func (w *World) LinkGraph(tree map[int][]int) error {
	for id, next := range tree {
		from, ok := w.locations[id]
		if !ok {
			return fmt.Errorf("%w: location_tree references location %d", ErrUnknownLocation, id)
		}
		for _, n := range next {
			if n == id {
				return fmt.Errorf("%w: location %d lists itself as a successor", config.ErrInvalidConfig, id)
			}
			if _, ok := w.locations[n]; !ok {
				return fmt.Errorf("%w: location %d lists successor %d", ErrUnknownLocation, id, n)
			}
		}
		from.next = append([]int(nil), next...)
	}

	if w.settings == nil {
		return fmt.Errorf("%w: no settings", config.ErrInvalidConfig)
	}
	initial, ok := w.locations[w.settings.InitialLocationID]
	if !ok {
		return fmt.Errorf("%w: initial location %d", ErrUnknownLocation, w.settings.InitialLocationID)
	}

	initial.Unlock()
	w.activate(initial)
	w.linked = true

	w.logger.Debug("location graph linked", "locations", len(w.locations), "initial", initial.id)
	return nil
}

func (w *World) activate(l *Location) {
	if w.active != l {
		w.logger.Info("entering location", "location", l.id, "name", l.Name())
	}
	w.active = l
	l.visited = true
}

// Location returns the location with the given id
func (w *World) Location(id int) (*Location, bool) {
	l, ok := w.locations[id]
	return l, ok
}

// Locations returns every location ordered by id
func (w *World) Locations() []*Location {
	ids := make([]int, 0, len(w.locations))
	for id := range w.locations {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	out := make([]*Location, 0, len(ids))
	for _, id := range ids {
		out = append(out, w.locations[id])
	}
	return out
}

// Active returns the active location
func (w *World) Active() *Location {
	return w.active
}

func (w *World) ShowingMap() bool {
	return w.showMap
}

// Done reports whether the player quit
func (w *World) Done() bool {
	return w.done
}

func (w *World) WindowSize() image.Point {
	return w.windowSize
}

// SetWindowSize records the size used to map screen coordinates. Non-positive sizes are ignored.
func (w *World) SetWindowSize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	w.windowSize = image.Pt(width, height)
}

// ToggleMap opens or closes the map overview
func (w *World) ToggleMap() {
	w.showMap = !w.showMap
}

// MapMousePos scales a screen position into the virtual map space
func (w *World) MapMousePos(screen image.Point) image.Point {
	x := float64(screen.X*config.VirtualWidth) / float64(w.windowSize.X)
	y := float64(screen.Y*config.VirtualHeight) / float64(w.windowSize.Y)
	return image.Pt(int(x), int(y))
}

// ScreenPos is the inverse of MapMousePos
func (w *World) ScreenPos(virtual image.Point) image.Point {
	x := float64(virtual.X*w.windowSize.X) / config.VirtualWidth
	y := float64(virtual.Y*w.windowSize.Y) / config.VirtualHeight
	return image.Pt(int(x), int(y))
}

// LocationAt returns the location whose map button contains the virtual
// point, preferring the smallest button when several overlap
func (w *World) LocationAt(virtual image.Point) (*Location, bool) {
	var hit *Location
	for _, l := range w.Locations() {
		if !virtual.In(l.geometry.MapButton) {
			continue
		}
		if hit == nil || assets.Area(l.geometry.MapButton) < assets.Area(hit.geometry.MapButton) {
			hit = l
		}
	}
	return hit, hit != nil
}

// ClickOnMap selects a location from the map on mouse-up. The smallest
// button under the cursor wins even when it is locked, in which case
// nothing happens. Selecting a location closes the map.
func (w *World) ClickOnMap(ev input.Event) bool {
	if ev.Kind != input.MouseUp {
		return false
	}

	hit, ok := w.LocationAt(w.MapMousePos(ev.Pos))
	if !ok {
		return false
	}
	if !hit.unlocked {
		w.logger.Debug("map click on locked location", "location", hit.id)
		return false
	}

	w.activate(hit)
	w.showMap = false
	return true
}

// MapButtonScreenPos returns the screen position of the centre of a location's map button
func (w *World) MapButtonScreenPos(id int) (image.Point, error) {
	l, ok := w.locations[id]
	if !ok {
		return image.Point{}, fmt.Errorf("%w: %d", ErrUnknownLocation, id)
	}
	r := l.geometry.MapButton
	if r.Empty() {
		return image.Point{}, fmt.Errorf("location %d has no map button", id)
	}
	return w.ScreenPos(r.Min.Add(r.Max).Div(2)), nil
}

// DrawMap composes the map background, every unlocked location's icon and
// an outline around the active location's button
func (w *World) DrawMap() image.Image {
	if w.frame == nil {
		w.frame = assets.NewCanvas(config.VirtualWidth, config.VirtualHeight)
	}

	drawScene(w.frame, w.mapBackground)

	for _, l := range w.Locations() {
		if l.unlocked && l.mapIcon != nil {
			drawLayer(w.frame, l.mapIcon)
		}
	}

	if w.active != nil {
		assets.StrokeRect(w.frame, w.active.geometry.MapButton, highlightWidth, highlightColor)
	}

	return w.frame
}

// HandleEvent routes one input event
func (w *World) HandleEvent(ev input.Event) {
	switch ev.Kind {
	case input.Quit:
		w.done = true

	case input.KeyUp:
		switch ev.Key {
		case input.KeyQ:
			w.done = true
		case w.mapKey:
			w.ToggleMap()
		default:
			if w.active != nil {
				w.active.HandleKeyEvent(ev.Key)
			}
		}

	case input.MouseDown, input.MouseUp:
		if w.showMap {
			w.ClickOnMap(ev)
			return
		}
		if w.active == nil {
			return
		}
		wasCompleted := w.active.Completed()
		w.active.HandleMouseEvent(ev)
		if !wasCompleted && w.active.Completed() {
			w.logger.Info("mini-game completed", "location", w.active.id, "unlocked", w.active.next)
		}

	case input.Resize:
		w.SetWindowSize(ev.Size.X, ev.Size.Y)
	}
}

// HandleEvents routes a frame's worth of events in order
func (w *World) HandleEvents(events []input.Event) {
	for _, ev := range events {
		w.HandleEvent(ev)
	}
}

// Update advances the active location by one frame
func (w *World) Update() {
	if w.active != nil {
		w.active.Update()
	}
}

// Draw returns the current frame in virtual space
func (w *World) Draw() image.Image {
	if w.showMap || w.active == nil {
		return w.DrawMap()
	}
	return w.active.Draw()
}
