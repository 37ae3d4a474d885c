package minigame

import (
	"fmt"
	"image"
	"image/color"
	"sort"
	"strings"

	"github.com/wricardo/location-quest/game/assets"
	"github.com/wricardo/location-quest/game/config"
	"github.com/wricardo/location-quest/game/input"
)

// TargetBlock is the block that has to reach the finish position
const TargetBlock = "x"

var (
	sokobanBackground color.Color = color.White
	sokobanCompleted  color.Color = color.RGBA{0, 0, 255, 255}
	sokobanArrow      color.Color = color.RGBA{0, 255, 0, 255}
)

// Direction is a unit move on the grid
type Direction int

const (
	Left Direction = iota
	Right
	Up
	Down
)

func (d Direction) String() string {
	switch d {
	case Left:
		return "left"
	case Right:
		return "right"
	case Up:
		return "up"
	case Down:
		return "down"
	default:
		return fmt.Sprintf("Direction(%d)", int(d))
	}
}

func (d Direction) delta() image.Point {
	switch d {
	case Left:
		return image.Pt(-1, 0)
	case Right:
		return image.Pt(1, 0)
	case Up:
		return image.Pt(0, -1)
	default:
		return image.Pt(0, 1)
	}
}

// blockButton is an arrow next to a block; Target holds the cells the block occupies after the move
type blockButton struct {
	Button
	Block     string
	Direction Direction
	Target    []image.Point
}

// SokobanBlocks slides named rectangular blocks around a grid until block "x" reaches the finish
type SokobanBlocks struct {
	Base
	grid       [][]string
	rows, cols int
	cellWidth  int
	cellHeight int
	finish     image.Point
	images     map[string]image.Image
	buttons    []blockButton
}

// NewSokobanBlocks creates a block puzzle from grid_start, finish_position and tile_images
func NewSokobanBlocks(env Env) (MiniGame, error) {
	s := env.Settings
	if s == nil {
		return nil, fmt.Errorf("%w: sokoban blocks requires location settings", config.ErrInvalidConfig)
	}

	g, err := newSokobanBlocks(env.Owner, s.GridStart, s.FinishPosition)
	if err != nil {
		return nil, fmt.Errorf("%w: location %d: %v", config.ErrInvalidConfig, s.ID, err)
	}

	if env.Assets == nil {
		return nil, fmt.Errorf("%w: sokoban blocks requires an asset loader", config.ErrInvalidConfig)
	}
	for _, name := range g.blockNames() {
		file, ok := s.TileImages[name]
		if !ok {
			return nil, fmt.Errorf("%w: location %d: no tile image for block %q", config.ErrInvalidConfig, s.ID, name)
		}
		img, err := env.Assets.Image(config.MiniGameImage(env.miniGameID(), file+".png"))
		if err != nil {
			return nil, err
		}
		g.images[name] = img
	}

	return g, nil
}

func newSokobanBlocks(owner Owner, gridStart []string, finish []int) (*SokobanBlocks, error) {
	grid, err := parseBlockGrid(gridStart)
	if err != nil {
		return nil, err
	}
	if len(finish) != 2 {
		return nil, fmt.Errorf("finish_position must be [x, y], got %v", finish)
	}

	g := &SokobanBlocks{
		Base:       newBase(owner),
		grid:       grid,
		rows:       len(grid),
		cols:       len(grid[0]),
		cellWidth:  CanvasSize / len(grid[0]),
		cellHeight: CanvasSize / len(grid),
		finish:     image.Pt(finish[0], finish[1]),
		images:     make(map[string]image.Image),
	}
	if !g.inBounds(g.finish) {
		return nil, fmt.Errorf("finish_position %v is outside the %dx%d grid", finish, g.cols, g.rows)
	}

	blocks := g.blockPositions()
	if _, ok := blocks[TargetBlock]; !ok {
		return nil, fmt.Errorf("grid has no block %q", TargetBlock)
	}
	for name, cells := range blocks {
		if !isRectangle(cells) {
			return nil, fmt.Errorf("block %q is not rectangular", name)
		}
	}

	g.buttons = g.createButtons()
	return g, nil
}

// parseBlockGrid reads whitespace separated rows where "." marks an empty cell
func parseBlockGrid(lines []string) ([][]string, error) {
	if len(lines) == 0 {
		return nil, fmt.Errorf("grid_start is empty")
	}

	grid := make([][]string, 0, len(lines))
	for i, line := range lines {
		cells := strings.Fields(line)
		if len(cells) == 0 {
			return nil, fmt.Errorf("grid_start row %d is empty", i)
		}
		if i > 0 && len(cells) != len(grid[0]) {
			return nil, fmt.Errorf("grid_start row %d has %d cells, expected %d", i, len(cells), len(grid[0]))
		}
		for j, cell := range cells {
			if cell == "." {
				cells[j] = ""
			}
		}
		grid = append(grid, cells)
	}
	return grid, nil
}

// blockPositions returns every block's cells in row-major order
func (g *SokobanBlocks) blockPositions() map[string][]image.Point {
	blocks := make(map[string][]image.Point)
	for y, row := range g.grid {
		for x, cell := range row {
			if cell == "" {
				continue
			}
			blocks[cell] = append(blocks[cell], image.Pt(x, y))
		}
	}
	return blocks
}

func (g *SokobanBlocks) blockNames() []string {
	blocks := g.blockPositions()
	names := make([]string, 0, len(blocks))
	for name := range blocks {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// footprint returns the block's bounding box in cells
func footprint(cells []image.Point) image.Rectangle {
	r := image.Rectangle{Min: cells[0], Max: cells[0].Add(image.Pt(1, 1))}
	for _, c := range cells[1:] {
		r = r.Union(image.Rectangle{Min: c, Max: c.Add(image.Pt(1, 1))})
	}
	return r
}

func isRectangle(cells []image.Point) bool {
	r := footprint(cells)
	return len(cells) == r.Dx()*r.Dy()
}

// directions lists the axes a block may slide along: long axis only, square blocks both
func directions(cells []image.Point) []Direction {
	r := footprint(cells)
	var dirs []Direction
	if r.Dx() >= r.Dy() {
		dirs = append(dirs, Left, Right)
	}
	if r.Dy() >= r.Dx() {
		dirs = append(dirs, Up, Down)
	}
	return dirs
}

func (g *SokobanBlocks) inBounds(p image.Point) bool {
	return p.X >= 0 && p.Y >= 0 && p.X < g.cols && p.Y < g.rows
}

// canMoveTo reports whether every target cell is on the grid and empty or owned by name
func (g *SokobanBlocks) canMoveTo(name string, cells []image.Point) bool {
	for _, c := range cells {
		if !g.inBounds(c) {
			return false
		}
		if cell := g.grid[c.Y][c.X]; cell != "" && cell != name {
			return false
		}
	}
	return true
}

// arrowArea places a third-of-a-cell square just beyond the block's leading edge
func (g *SokobanBlocks) arrowArea(cells []image.Point, dir Direction) image.Rectangle {
	first, last := cells[0], cells[len(cells)-1]
	w, h := g.cellWidth, g.cellHeight

	var at image.Point
	switch dir {
	case Left:
		at = image.Pt(first.X*w-w/3, first.Y*h+h/3)
	case Right:
		at = image.Pt((last.X+1)*w, last.Y*h+h/3)
	case Up:
		at = image.Pt(first.X*w+w/3, first.Y*h-h/3)
	case Down:
		at = image.Pt(last.X*w+w/3, (last.Y+1)*h)
	}
	return image.Rectangle{Min: at, Max: at.Add(image.Pt(w/3, h/3))}
}

// createButtons emits an arrow for every legal move of every block
func (g *SokobanBlocks) createButtons() []blockButton {
	if g.done {
		return nil
	}

	blocks := g.blockPositions()
	var buttons []blockButton
	for _, name := range g.blockNames() {
		cells := blocks[name]
		for _, dir := range directions(cells) {
			d := dir.delta()
			target := make([]image.Point, len(cells))
			for i, c := range cells {
				target[i] = c.Add(d)
			}
			if !g.canMoveTo(name, target) {
				continue
			}
			buttons = append(buttons, blockButton{
				Button:    Button{Area: g.arrowArea(cells, dir)},
				Block:     name,
				Direction: dir,
				Target:    target,
			})
		}
	}
	return buttons
}

// move clears the block and redraws it on the target cells
func (g *SokobanBlocks) move(button blockButton) {
	for y, row := range g.grid {
		for x, cell := range row {
			if cell == button.Block {
				g.grid[y][x] = ""
			}
		}
	}
	for _, c := range button.Target {
		g.grid[c.Y][c.X] = button.Block
	}
}

// checkCompletion completes the game once the target block's first cell sits on the finish
func (g *SokobanBlocks) checkCompletion() {
	cells := g.blockPositions()[TargetBlock]
	if len(cells) > 0 && cells[0] == g.finish {
		g.CompleteGame()
	}
}

// HandleMouseEvent executes the first arrow under a mouse-up
func (g *SokobanBlocks) HandleMouseEvent(ev input.Event) {
	if g.done {
		return
	}

	pos, ok := g.clickPosition(ev)
	if !ok {
		return
	}

	for _, button := range g.buttons {
		if button.Contains(pos) {
			g.move(button)
			g.checkCompletion()
			g.buttons = g.createButtons()
			return
		}
	}
}

// Draw renders each block scaled to its footprint and the arrows of the legal moves
func (g *SokobanBlocks) Draw() image.Image {
	bg := sokobanBackground
	if g.done {
		bg = sokobanCompleted
	}
	assets.Fill(g.canvas, g.canvas.Bounds(), bg)

	blocks := g.blockPositions()
	for _, name := range g.blockNames() {
		img, ok := g.images[name]
		if !ok {
			continue
		}
		r := footprint(blocks[name])
		if r.Dy() > r.Dx() {
			img = assets.Rotate90(img)
		}
		dst := image.Rect(r.Min.X*g.cellWidth, r.Min.Y*g.cellHeight, r.Max.X*g.cellWidth, r.Max.Y*g.cellHeight)
		assets.ScaleInto(g.canvas, dst, img)
	}

	for _, button := range g.buttons {
		assets.Fill(g.canvas, button.Area, sokobanArrow)
	}

	return g.canvas
}
