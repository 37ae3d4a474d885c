package config

import (
	"image"

	"github.com/wricardo/location-quest/game/assets"
)

// MapButtonMargin is how far a map button is inset from its icon's opaque bounds
const MapButtonMargin = 10

// Geometry holds the layout derived from a location's images at load time.
// It is kept apart from LocationSettings, which stay exactly as read from disk.
type Geometry struct {
	// GameArea is where the mini-game canvas is drawn, in virtual scene coordinates
	GameArea image.Rectangle

	// MapButton is the clickable region on the map overview
	MapButton image.Rectangle
}

// DeriveGeometry computes the game area from the opaque bounds of the
// mini-game area mask and the map button from the map icon
func DeriveGeometry(gameAreaMask, mapIcon image.Image) Geometry {
	var g Geometry
	if gameAreaMask != nil {
		g.GameArea = assets.OpaqueBounds(gameAreaMask)
	}
	if mapIcon != nil {
		g.MapButton = assets.Shrink(assets.OpaqueBounds(mapIcon), MapButtonMargin)
	}
	return g
}

// VirtualBounds is the rectangle of the virtual scene and map space
func VirtualBounds() image.Rectangle {
	return image.Rect(0, 0, VirtualWidth, VirtualHeight)
}
