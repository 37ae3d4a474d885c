package minigame

import (
	"image"
	"image/color"

	"github.com/wricardo/location-quest/game/assets"
	"github.com/wricardo/location-quest/game/input"
)

var (
	buttonClickBackground = color.RGBA{0, 0, 255, 255}
	buttonClickIdle       = color.RGBA{0, 255, 0, 255}
	buttonClickPressed    = color.RGBA{255, 0, 0, 255}
)

// ButtonClick is the simplest puzzle: click the button once
type ButtonClick struct {
	Base
	button Button
}

// NewButtonClick creates a button-click mini-game
func NewButtonClick(env Env) (MiniGame, error) {
	return &ButtonClick{
		Base:   newBase(env.Owner),
		button: Button{Area: image.Rect(100, 100, 250, 300)},
	}, nil
}

// Draw renders the button, green until clicked and red afterwards
func (g *ButtonClick) Draw() image.Image {
	assets.Fill(g.canvas, g.canvas.Bounds(), buttonClickBackground)

	fill := buttonClickIdle
	if g.done {
		fill = buttonClickPressed
	}
	assets.Fill(g.canvas, g.button.Area, fill)

	return g.canvas
}

// HandleMouseEvent completes the game on a mouse-up inside the button
func (g *ButtonClick) HandleMouseEvent(ev input.Event) {
	if g.done {
		return
	}

	pos, ok := g.clickPosition(ev)
	if !ok || !g.button.Contains(pos) {
		return
	}

	g.CompleteGame()
}
