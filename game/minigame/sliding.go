package minigame

import (
	"fmt"
	"image"
	"image/color"
	"math/rand"

	"github.com/wricardo/location-quest/game/assets"
	"github.com/wricardo/location-quest/game/config"
	"github.com/wricardo/location-quest/game/input"
)

const (
	emptyTile           = -1
	defaultShuffleMoves = 5
	minSlidingSize      = 2
	maxSlidingSize      = 10
)

// slideButton is a tile next to the empty cell
type slideButton struct {
	Button
	Row, Column int
}

// SlidingPuzzle is an N×N sliding tile puzzle cut from the location's puzzle.png.
// Tile k belongs at row k/N, column k%N; exactly one cell is empty.
type SlidingPuzzle struct {
	Base
	size     int
	tileSize int
	tiles    []image.Image
	grid     [][]int
	emptyRow int
	emptyCol int
	buttons  []slideButton
	rng      *rand.Rand
}

// NewSlidingPuzzle creates a sliding puzzle from location settings and shuffles it
func NewSlidingPuzzle(env Env) (MiniGame, error) {
	s := env.Settings
	if s == nil {
		return nil, fmt.Errorf("%w: sliding puzzle requires location settings", config.ErrInvalidConfig)
	}

	g, err := newSlidingPuzzle(env.Owner, s.Size, s.EmptyCell, env.rand())
	if err != nil {
		return nil, fmt.Errorf("%w: location %d: %v", config.ErrInvalidConfig, s.ID, err)
	}

	if env.Assets == nil {
		return nil, fmt.Errorf("%w: sliding puzzle requires an asset loader", config.ErrInvalidConfig)
	}
	img, err := env.Assets.Image(config.LocationImage(s.ID, "puzzle.png"))
	if err != nil {
		return nil, err
	}
	if err := g.cutTiles(img); err != nil {
		return nil, fmt.Errorf("%w: location %d: %v", config.ErrInvalidConfig, s.ID, err)
	}

	moves := s.ShuffleMoves
	if moves <= 0 {
		moves = defaultShuffleMoves
	}
	g.shuffle(moves)
	g.buttons = g.createButtons()

	return g, nil
}

// newSlidingPuzzle builds a solved board with the given empty cell ([row, column], default [1, 1])
func newSlidingPuzzle(owner Owner, size int, emptyCell []int, rng *rand.Rand) (*SlidingPuzzle, error) {
	if size < minSlidingSize || size > maxSlidingSize {
		return nil, fmt.Errorf("size must be between %d and %d, got %d", minSlidingSize, maxSlidingSize, size)
	}

	emptyRow, emptyCol := 1, 1
	if len(emptyCell) > 0 {
		if len(emptyCell) != 2 {
			return nil, fmt.Errorf("empty_cell must be [row, column], got %v", emptyCell)
		}
		emptyRow, emptyCol = emptyCell[0], emptyCell[1]
	}
	if emptyRow < 0 || emptyRow >= size || emptyCol < 0 || emptyCol >= size {
		return nil, fmt.Errorf("empty_cell (%d, %d) is outside the %dx%d grid", emptyRow, emptyCol, size, size)
	}

	grid := make([][]int, size)
	for row := range grid {
		grid[row] = make([]int, size)
		for col := range grid[row] {
			grid[row][col] = row*size + col
		}
	}
	grid[emptyRow][emptyCol] = emptyTile

	g := &SlidingPuzzle{
		Base:     newBase(owner),
		size:     size,
		tileSize: CanvasSize / size,
		grid:     grid,
		emptyRow: emptyRow,
		emptyCol: emptyCol,
		rng:      rng,
	}
	g.buttons = g.createButtons()
	return g, nil
}

// cutTiles slices the puzzle image into size×size tiles of tileSize pixels
func (g *SlidingPuzzle) cutTiles(img image.Image) error {
	b := img.Bounds()
	need := g.size * g.tileSize
	if b.Dx() < need || b.Dy() < need {
		return fmt.Errorf("puzzle image is %dx%d, need at least %dx%d", b.Dx(), b.Dy(), need, need)
	}

	src := assets.Clone(img)
	g.tiles = make([]image.Image, 0, g.size*g.size)
	for row := 0; row < g.size; row++ {
		for col := 0; col < g.size; col++ {
			r := image.Rect(col*g.tileSize, row*g.tileSize, (col+1)*g.tileSize, (row+1)*g.tileSize)
			g.tiles = append(g.tiles, src.SubImage(r))
		}
	}
	return nil
}

// Draw renders the tiles on black and rebuilds the buttons while unsolved
func (g *SlidingPuzzle) Draw() image.Image {
	assets.Fill(g.canvas, g.canvas.Bounds(), color.Black)

	for row := 0; row < g.size; row++ {
		for col := 0; col < g.size; col++ {
			tile := g.grid[row][col]
			if tile == emptyTile || tile >= len(g.tiles) {
				continue
			}
			assets.DrawAt(g.canvas, g.tiles[tile], image.Pt(col*g.tileSize, row*g.tileSize))
		}
	}

	if !g.done {
		g.buttons = g.createButtons()
	}
	return g.canvas
}

// HandleMouseEvent slides a clicked neighbour of the empty cell into it
func (g *SlidingPuzzle) HandleMouseEvent(ev input.Event) {
	if g.done {
		return
	}

	pos, ok := g.clickPosition(ev)
	if !ok {
		return
	}

	for _, button := range g.buttons {
		if button.Contains(pos) {
			g.slide(button.Row, button.Column)
			g.checkCompletion()
			g.buttons = g.createButtons()
			return
		}
	}
}

// createButtons returns one button per in-bounds orthogonal neighbour of the empty cell
func (g *SlidingPuzzle) createButtons() []slideButton {
	if g.done {
		return nil
	}

	var buttons []slideButton
	for _, off := range orthogonal {
		r, c := g.emptyRow+off[0], g.emptyCol+off[1]
		if !g.inBounds(r, c) {
			continue
		}
		buttons = append(buttons, slideButton{
			Button: Button{Area: image.Rect(c*g.tileSize, r*g.tileSize, (c+1)*g.tileSize, (r+1)*g.tileSize)},
			Row:    r,
			Column: c,
		})
	}
	return buttons
}

// slide moves the tile at (row, col) into the empty cell. The caller guarantees adjacency.
func (g *SlidingPuzzle) slide(row, col int) {
	g.grid[g.emptyRow][g.emptyCol] = g.grid[row][col]
	g.grid[row][col] = emptyTile
	g.emptyRow, g.emptyCol = row, col
}

// solved reports whether every tile sits at its home position
func (g *SlidingPuzzle) solved() bool {
	for row := 0; row < g.size; row++ {
		for col := 0; col < g.size; col++ {
			tile := g.grid[row][col]
			if tile != emptyTile && tile != row*g.size+col {
				return false
			}
		}
	}
	return true
}

// checkCompletion fills the hole with its missing tile and completes the game once solved
func (g *SlidingPuzzle) checkCompletion() {
	if !g.solved() {
		return
	}

	g.grid[g.emptyRow][g.emptyCol] = g.emptyRow*g.size + g.emptyCol
	g.CompleteGame()
}

// shuffle applies random legal single-step moves, which keeps the board solvable
func (g *SlidingPuzzle) shuffle(times int) {
	for i := 0; i < times; i++ {
		g.slideRandom()
	}
}

func (g *SlidingPuzzle) slideRandom() {
	for {
		off := orthogonal[g.rng.Intn(len(orthogonal))]
		r, c := g.emptyRow+off[0], g.emptyCol+off[1]
		if !g.inBounds(r, c) {
			continue
		}
		g.slide(r, c)
		return
	}
}

func (g *SlidingPuzzle) inBounds(row, col int) bool {
	return row >= 0 && col >= 0 && row < g.size && col < g.size
}
