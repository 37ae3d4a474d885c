package world

import (
	"image"
	"math"

	"github.com/wricardo/location-quest/game/assets"
	"github.com/wricardo/location-quest/game/config"
	"github.com/wricardo/location-quest/game/input"
	"github.com/wricardo/location-quest/game/minigame"
)

// Location is a scene with an optional mini-game
type Location struct {
	id       int
	settings *config.LocationSettings
	geometry config.Geometry

	background image.Image
	mapIcon    image.Image
	introText  image.Image

	miniGame minigame.MiniGame

	unlocked      bool
	visited       bool
	showIntroText bool

	next  []int
	world *World
	frame *image.RGBA
}

// ID returns the location id
func (l *Location) ID() int {
	return l.id
}

// Name returns the display name
func (l *Location) Name() string {
	return l.settings.Name
}

// Settings returns the location settings as read from disk
func (l *Location) Settings() *config.LocationSettings {
	return l.settings
}

// Geometry returns the derived layout
func (l *Location) Geometry() config.Geometry {
	return l.geometry
}

// MiniGame returns the hosted mini-game, or nil
func (l *Location) MiniGame() minigame.MiniGame {
	return l.miniGame
}

// Unlock makes the location reachable from the map
func (l *Location) Unlock() {
	l.unlocked = true
}

func (l *Location) Unlocked() bool {
	return l.unlocked
}

func (l *Location) Visited() bool {
	return l.visited
}

// ShowingIntro reports whether the intro overlay is still displayed
func (l *Location) ShowingIntro() bool {
	return l.showIntroText
}

// Completed reports whether the hosted mini-game is done. Locations without one never complete.
func (l *Location) Completed() bool {
	return l.miniGame != nil && l.miniGame.Done()
}

// NextLocationIDs returns the successor ids from the location tree
func (l *Location) NextLocationIDs() []int {
	return append([]int(nil), l.next...)
}

// NextLocations resolves the direct successors through the world arena
func (l *Location) NextLocations() []minigame.Lockable {
	if l.world == nil {
		return nil
	}

	out := make([]minigame.Lockable, 0, len(l.next))
	for _, id := range l.next {
		if next, ok := l.world.locations[id]; ok {
			out = append(out, next)
		}
	}
	return out
}

// MiniGameCoordinates maps a screen position into the mini-game's canvas.
// The position is first scaled into virtual space using the current window
// size, made relative to the game area, then scaled to the canvas.
func (l *Location) MiniGameCoordinates(screen image.Point) (image.Point, bool) {
	if l.miniGame == nil || l.geometry.GameArea.Empty() {
		return image.Point{}, false
	}

	window := l.windowSize()
	area := l.geometry.GameArea

	return image.Pt(
		canvasAxis(screen.X, area.Min.X, area.Dx(), config.VirtualWidth, window.X),
		canvasAxis(screen.Y, area.Min.Y, area.Dy(), config.VirtualHeight, window.Y),
	), true
}

// ScreenCoordinates is the inverse of MiniGameCoordinates. One screen pixel
// usually spans several canvas units, so the returned point is the one that
// maps back closest to canvas, never short of it when two are equally close.
func (l *Location) ScreenCoordinates(canvas image.Point) (image.Point, bool) {
	if l.miniGame == nil || l.geometry.GameArea.Empty() {
		return image.Point{}, false
	}

	window := l.windowSize()
	area := l.geometry.GameArea

	return image.Pt(
		screenAxis(canvas.X, area.Min.X, area.Dx(), config.VirtualWidth, window.X),
		screenAxis(canvas.Y, area.Min.Y, area.Dy(), config.VirtualHeight, window.Y),
	), true
}

// canvasAxis maps one screen axis into the canvas, truncating toward zero
func canvasAxis(screen, areaMin, areaSize, virtual, window int) int {
	v := float64(screen*virtual) / float64(window)
	return int((v - float64(areaMin)) * minigame.CanvasSize / float64(areaSize))
}

func screenAxis(canvas, areaMin, areaSize, virtual, window int) int {
	v := float64(canvas*areaSize)/minigame.CanvasSize + float64(areaMin)
	lo := int(math.Floor(v * float64(window) / float64(virtual)))

	best, bestDiff := lo, canvasAxis(lo, areaMin, areaSize, virtual, window)-canvas
	for _, s := range []int{lo - 1, lo + 1} {
		diff := canvasAxis(s, areaMin, areaSize, virtual, window) - canvas
		if abs(diff) < abs(bestDiff) || (abs(diff) == abs(bestDiff) && diff >= 0 && bestDiff < 0) {
			best, bestDiff = s, diff
		}
	}
	return best
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

func (l *Location) windowSize() image.Point {
	if l.world == nil || l.world.windowSize.X <= 0 || l.world.windowSize.Y <= 0 {
		return image.Pt(config.VirtualWidth, config.VirtualHeight)
	}
	return l.world.windowSize
}

// HandleMouseEvent forwards to the mini-game. While the intro overlay is up
// the first mouse-up only dismisses it.
func (l *Location) HandleMouseEvent(ev input.Event) {
	if l.showIntroText {
		if ev.Kind == input.MouseUp {
			l.showIntroText = false
		}
		return
	}

	if l.miniGame != nil {
		l.miniGame.HandleMouseEvent(ev)
	}
}

// HandleKeyEvent forwards to the mini-game
func (l *Location) HandleKeyEvent(key input.Key) {
	if l.miniGame != nil {
		l.miniGame.HandleKeyEvent(key)
	}
}

// Update advances the mini-game by one frame
func (l *Location) Update() {
	if l.miniGame != nil {
		l.miniGame.Update()
	}
}

// Draw composes the background, the intro overlay and the mini-game canvas
// into a frame in virtual space. The returned image is reused between calls.
func (l *Location) Draw() image.Image {
	if l.frame == nil {
		l.frame = assets.NewCanvas(config.VirtualWidth, config.VirtualHeight)
	}

	drawScene(l.frame, l.background)

	if l.showIntroText && l.introText != nil {
		drawLayer(l.frame, l.introText)
	}

	if l.miniGame != nil {
		assets.ScaleInto(l.frame, l.geometry.GameArea, l.miniGame.Draw())
	}

	return l.frame
}

// drawScene replaces dst with img, scaling it when it is not authored at virtual size
func drawScene(dst *image.RGBA, img image.Image) {
	assets.Fill(dst, dst.Bounds(), image.Black)
	if img == nil {
		return
	}
	drawLayer(dst, img)
}

// drawLayer composites img over dst, scaling it to dst when sizes differ
func drawLayer(dst *image.RGBA, img image.Image) {
	if img.Bounds().Size() == dst.Bounds().Size() {
		assets.Overlay(dst, img)
		return
	}
	assets.ScaleInto(dst, dst.Bounds(), img)
}
