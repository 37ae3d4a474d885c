package minigame

import (
	"fmt"
	"image"
	"image/color"
	"strconv"
	"strings"

	"golang.org/x/image/font"

	"github.com/wricardo/location-quest/game/assets"
	"github.com/wricardo/location-quest/game/config"
	"github.com/wricardo/location-quest/game/input"
)

const (
	digitFontSize = 70
	digitTopPad   = 5
)

// span is a closed-open pixel range on one axis
type span struct {
	From, To int
}

type lockButton struct {
	Button
	Row, Column int
}

// CodeLock is a grid of numbers with one empty slot. Moving a number into the
// slot adds it to the slot's other occupied neighbours. A row matching the
// target code opens the lock.
type CodeLock struct {
	Base
	size       int
	grid       [][]int
	emptyRow   int
	emptyCol   int
	target     []int
	background image.Image
	columns    []span
	rows       []span
	face       font.Face
	buttons    []lockButton
}

// NewCodeLock creates a code lock from size, starting_position and target_code
func NewCodeLock(env Env) (MiniGame, error) {
	s := env.Settings
	if s == nil {
		return nil, fmt.Errorf("%w: code lock requires location settings", config.ErrInvalidConfig)
	}

	g, err := newCodeLock(env.Owner, s.Size, s.StartingPosition, s.TargetCode)
	if err != nil {
		return nil, fmt.Errorf("%w: location %d: %v", config.ErrInvalidConfig, s.ID, err)
	}

	if env.Assets == nil {
		return nil, fmt.Errorf("%w: code lock requires an asset loader", config.ErrInvalidConfig)
	}
	if err := g.loadLayout(env.Assets, env.miniGameID()); err != nil {
		return nil, err
	}

	face, err := assets.MonoBoldFace(digitFontSize)
	if err != nil {
		return nil, err
	}
	g.face = face

	return g, nil
}

func newCodeLock(owner Owner, size int, startingPosition []string, targetCode string) (*CodeLock, error) {
	if size < 2 {
		return nil, fmt.Errorf("size must be at least 2, got %d", size)
	}
	if len(startingPosition) != size {
		return nil, fmt.Errorf("starting_position has %d rows, expected %d", len(startingPosition), size)
	}

	g := &CodeLock{
		Base:     newBase(owner),
		size:     size,
		emptyRow: -1,
		emptyCol: -1,
	}

	for row, line := range startingPosition {
		parts := strings.Fields(line)
		if len(parts) != size {
			return nil, fmt.Errorf("starting_position row %d has %d cells, expected %d", row, len(parts), size)
		}
		numbers := make([]int, size)
		for col, part := range parts {
			if part == "." {
				if g.emptyRow >= 0 {
					return nil, fmt.Errorf("starting_position has more than one empty cell")
				}
				g.emptyRow, g.emptyCol = row, col
				continue
			}
			n, err := strconv.Atoi(part)
			if err != nil {
				return nil, fmt.Errorf("starting_position row %d: %q is not a number", row, part)
			}
			numbers[col] = n
		}
		g.grid = append(g.grid, numbers)
	}
	if g.emptyRow < 0 {
		return nil, fmt.Errorf("starting_position has no empty cell")
	}

	for _, part := range strings.Fields(targetCode) {
		n, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("target_code: %q is not a number", part)
		}
		g.target = append(g.target, n)
	}
	if len(g.target) != size {
		return nil, fmt.Errorf("target_code has %d numbers, expected %d", len(g.target), size)
	}

	return g, nil
}

// loadLayout reads the background and derives cell ranges from the grid line images
func (g *CodeLock) loadLayout(loader assets.Loader, miniGameID int) error {
	dir := fmt.Sprintf("%dx%d", g.size, g.size)

	background, err := loader.Image(config.MiniGameImage(miniGameID, dir+"/background.png"))
	if err != nil {
		return err
	}
	g.background = background

	g.columns = make([]span, g.size)
	g.rows = make([]span, g.size)
	for i := 0; i < g.size; i++ {
		h, err := loader.Image(config.MiniGameImage(miniGameID, fmt.Sprintf("%s/h%d.png", dir, i+1)))
		if err != nil {
			return err
		}
		hb := assets.OpaqueBounds(h)
		if hb.Empty() {
			return fmt.Errorf("%w: h%d.png is fully transparent", config.ErrInvalidConfig, i+1)
		}
		g.rows[i] = span{From: hb.Min.Y, To: hb.Max.Y}

		v, err := loader.Image(config.MiniGameImage(miniGameID, fmt.Sprintf("%s/v%d.png", dir, i+1)))
		if err != nil {
			return err
		}
		vb := assets.OpaqueBounds(v)
		if vb.Empty() {
			return fmt.Errorf("%w: v%d.png is fully transparent", config.ErrInvalidConfig, i+1)
		}
		g.columns[i] = span{From: vb.Min.X, To: vb.Max.X}
	}

	g.buttons = g.createButtons()
	return nil
}

// cellArea is the clickable rectangle of a cell
func (g *CodeLock) cellArea(row, col int) image.Rectangle {
	return image.Rect(g.columns[col].From, g.rows[row].From, g.columns[col].To, g.rows[row].To)
}

// createButtons returns the occupied orthogonal neighbours of the empty slot
func (g *CodeLock) createButtons() []lockButton {
	if g.done || len(g.columns) != g.size {
		return nil
	}

	var buttons []lockButton
	for _, off := range orthogonal {
		r, c := g.emptyRow+off[0], g.emptyCol+off[1]
		if !g.inBounds(r, c) {
			continue
		}
		buttons = append(buttons, lockButton{
			Button: Button{Area: g.cellArea(r, c)},
			Row:    r,
			Column: c,
		})
	}
	return buttons
}

// move shifts the number at (row, col) into the empty slot and adds it to the
// slot's other occupied neighbours. The cell it came from becomes the new slot.
func (g *CodeLock) move(row, col int) {
	number := g.grid[row][col]
	slotRow, slotCol := g.emptyRow, g.emptyCol

	g.grid[row][col] = 0
	g.grid[slotRow][slotCol] = number
	g.emptyRow, g.emptyCol = row, col

	for _, off := range orthogonal {
		r, c := slotRow+off[0], slotCol+off[1]
		if !g.inBounds(r, c) || g.isEmpty(r, c) {
			continue
		}
		g.grid[r][c] += number
	}
}

func (g *CodeLock) checkCompletion() {
	for row, numbers := range g.grid {
		if row == g.emptyRow {
			continue
		}
		if equalInts(numbers, g.target) {
			g.CompleteGame()
			return
		}
	}
}

func equalInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// HandleMouseEvent moves a clicked neighbour of the empty slot
func (g *CodeLock) HandleMouseEvent(ev input.Event) {
	if g.done {
		return
	}

	pos, ok := g.clickPosition(ev)
	if !ok {
		return
	}

	for _, button := range g.buttons {
		if button.Contains(pos) {
			g.move(button.Row, button.Column)
			g.checkCompletion()
			g.buttons = g.createButtons()
			return
		}
	}
}

// Draw renders the background and, until solved, the numbers centred in their cells
func (g *CodeLock) Draw() image.Image {
	assets.Fill(g.canvas, g.canvas.Bounds(), color.Transparent)
	if g.background != nil {
		assets.Overlay(g.canvas, g.background)
	}
	if g.done {
		return g.canvas
	}

	if g.face != nil {
		for row := 0; row < g.size; row++ {
			for col := 0; col < g.size; col++ {
				if g.isEmpty(row, col) {
					continue
				}
				n := g.grid[row][col]
				centerX := (g.columns[col].From + g.columns[col].To) / 2
				assets.DrawTextCentered(g.canvas, g.face, strconv.Itoa(n), centerX, g.rows[row].From+digitTopPad, color.Black)
			}
		}
	}

	g.buttons = g.createButtons()
	return g.canvas
}

// isEmpty reports whether (row, col) is the empty slot. The grid keeps a zero there.
func (g *CodeLock) isEmpty(row, col int) bool {
	return row == g.emptyRow && col == g.emptyCol
}

func (g *CodeLock) inBounds(row, col int) bool {
	return row >= 0 && col >= 0 && row < g.size && col < g.size
}
