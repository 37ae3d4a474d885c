// Package demo writes a small, fully playable game directory.
//
// Every image is generated, so the demo needs nothing but this package. It has
// one location per mini-game: an entrance with a button that unlocks a
// gallery (sliding puzzle) and a warehouse (block puzzle), both of which lead
// to a vault closed by a code lock.
package demo

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"

	"github.com/wricardo/location-quest/game/assets"
	"github.com/wricardo/location-quest/game/config"
	"github.com/wricardo/location-quest/game/minigame"
)

// GameArea is where every demo location draws its mini-game
var GameArea = image.Rect(510, 90, 1410, 990)

// Location describes one demo location
type Location struct {
	ID       int
	Name     string
	Color    color.RGBA
	Icon     image.Rectangle
	Intro    bool
	Settings string
}

// Locations lists the demo locations in id order
var Locations = []Location{
	{
		ID:    1,
		Name:  "Entrance",
		Color: color.RGBA{70, 90, 120, 255},
		Icon:  image.Rect(160, 440, 560, 640),
		Settings: fmt.Sprintf(`name: Entrance
mini_game_id: %d
`, minigame.ButtonClickID),
	},
	{
		ID:    2,
		Name:  "Gallery",
		Color: color.RGBA{120, 80, 60, 255},
		Icon:  image.Rect(760, 140, 1160, 340),
		Intro: true,
		Settings: fmt.Sprintf(`name: Gallery
mini_game_id: %d
size: 3
shuffle_moves: 6
`, minigame.SlidingPuzzleID),
	},
	{
		ID:    3,
		Name:  "Warehouse",
		Color: color.RGBA{90, 110, 60, 255},
		Icon:  image.Rect(760, 740, 1160, 940),
		Settings: fmt.Sprintf(`name: Warehouse
mini_game_id: %d
grid_start:
  - ". . a ."
  - "x x a ."
  - ". . . ."
  - "b b . ."
finish_position: [2, 1]
tile_images:
  x: red
  a: green
  b: blue
`, minigame.SokobanBlocksID),
	},
	{
		ID:    4,
		Name:  "Vault",
		Color: color.RGBA{60, 60, 70, 255},
		Icon:  image.Rect(1360, 440, 1760, 640),
		Settings: fmt.Sprintf(`name: Vault
mini_game_id: %d
size: 3
starting_position:
  - "1 2 3"
  - "4 . 6"
  - "7 8 9"
target_code: "6 2 8"
`, minigame.CodeLockID),
	},
}

// Settings is the demo settings.yml
const Settings = `title: Location Quest Demo
screen:
  width: 1280
  height: 720
  fullscreen: false
initial_location_id: 1
location_tree:
  1: [2, 3]
  2: [4]
  3: [4]
  4: []
`

var (
	mapColor   = color.RGBA{30, 60, 40, 255}
	iconColor  = color.RGBA{230, 200, 120, 255}
	introColor = color.RGBA{250, 250, 230, 255}
	lineColor  = color.RGBA{20, 20, 20, 255}
	vaultColor = color.RGBA{180, 180, 190, 255}
)

const sokobanCell = minigame.CanvasSize / 4

// Write creates the demo game under dir
func Write(dir string) error {
	if err := writeFile(dir, "settings.yml", []byte(Settings)); err != nil {
		return err
	}
	if err := writePNG(dir, config.MapBackgroundImage, solid(config.VirtualBounds(), mapColor)); err != nil {
		return err
	}

	for _, l := range Locations {
		if err := writeLocation(dir, l); err != nil {
			return fmt.Errorf("location %d: %w", l.ID, err)
		}
	}

	if err := writeSokobanTiles(dir); err != nil {
		return err
	}
	return writeCodeLock(dir)
}

func writeLocation(dir string, l Location) error {
	if err := writeFile(dir, filepath.Join(config.LocationDir(l.ID), "settings.yml"), []byte(l.Settings)); err != nil {
		return err
	}

	images := map[string]image.Image{
		"background.png":     solid(config.VirtualBounds(), l.Color),
		"map.png":            layer(l.Icon, iconColor),
		"mini_game_area.png": layer(GameArea, color.Black),
	}
	if l.Intro {
		images["intro_text.png"] = layer(image.Rect(60, 60, 480, 200), introColor)
	}
	if l.ID == 2 {
		images["puzzle.png"] = puzzleImage(minigame.CanvasSize)
	}

	for name, img := range images {
		if err := writePNG(dir, config.LocationImage(l.ID, name), img); err != nil {
			return err
		}
	}
	return nil
}

func writeSokobanTiles(dir string) error {
	tiles := map[string]color.RGBA{
		"red":   {220, 40, 40, 255},
		"green": {40, 180, 60, 255},
		"blue":  {40, 80, 220, 255},
	}
	for name, c := range tiles {
		img := solid(image.Rect(0, 0, 2*sokobanCell, sokobanCell), c)
		assets.StrokeRect(img, img.Bounds(), 4, lineColor)
		if err := writePNG(dir, config.MiniGameImage(minigame.SokobanBlocksID, name+".png"), img); err != nil {
			return err
		}
	}
	return nil
}

// writeCodeLock draws a 3x3 panel and one transparent image per grid band
func writeCodeLock(dir string) error {
	const size, cell, pad = 3, minigame.CanvasSize / 3, 20

	background := solid(image.Rect(0, 0, minigame.CanvasSize, minigame.CanvasSize), vaultColor)
	for i := 0; i < size; i++ {
		for j := 0; j < size; j++ {
			assets.StrokeRect(background, image.Rect(j*cell+pad, i*cell+pad, (j+1)*cell-pad, (i+1)*cell-pad), 3, lineColor)
		}
	}

	images := map[string]image.Image{"3x3/background.png": background}
	for i := 0; i < size; i++ {
		images[fmt.Sprintf("3x3/h%d.png", i+1)] = layer(image.Rect(0, i*cell+pad, minigame.CanvasSize, (i+1)*cell-pad), lineColor)
		images[fmt.Sprintf("3x3/v%d.png", i+1)] = layer(image.Rect(i*cell+pad, 0, (i+1)*cell-pad, minigame.CanvasSize), lineColor)
	}

	for name, img := range images {
		if err := writePNG(dir, config.MiniGameImage(minigame.CodeLockID, name), img); err != nil {
			return err
		}
	}
	return nil
}

// puzzleImage is a gradient with a grid so sliding tiles are easy to tell apart
func puzzleImage(size int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			img.Set(x, y, color.RGBA{uint8(x * 255 / size), uint8(y * 255 / size), 150, 255})
		}
	}
	third := size / 3
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			assets.StrokeRect(img, image.Rect(j*third, i*third, (j+1)*third, (i+1)*third), 4, lineColor)
		}
	}
	return img
}

func solid(r image.Rectangle, c color.Color) *image.RGBA {
	img := image.NewRGBA(r)
	assets.Fill(img, r, c)
	return img
}

// layer is a transparent virtual-size image with r filled
func layer(r image.Rectangle, c color.Color) *image.RGBA {
	img := image.NewRGBA(config.VirtualBounds())
	assets.Fill(img, r, c)
	return img
}

func writeFile(dir, name string, data []byte) error {
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	return nil
}

func writePNG(dir, name string, img image.Image) error {
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", name, err)
	}
	defer f.Close()

	enc := png.Encoder{CompressionLevel: png.BestSpeed}
	if err := enc.Encode(f, img); err != nil {
		return fmt.Errorf("failed to encode %s: %w", name, err)
	}
	return f.Close()
}
