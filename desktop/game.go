// Package desktop runs a world in a window with ebiten.
//
// Each tick the window's input is polled into input events and handed to the
// world; the world's virtual-space frame is then scaled to the window.
package desktop

import (
	"image"
	"log/slog"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/wricardo/location-quest/game/assets"
	"github.com/wricardo/location-quest/game/config"
	"github.com/wricardo/location-quest/game/input"
	"github.com/wricardo/location-quest/game/world"
)

// DefaultTPS is the update rate used when Options.TPS is not set
const DefaultTPS = 15

var mouseButtons = map[ebiten.MouseButton]input.MouseButton{
	ebiten.MouseButtonLeft:   input.ButtonLeft,
	ebiten.MouseButtonRight:  input.ButtonRight,
	ebiten.MouseButtonMiddle: input.ButtonMiddle,
}

// Options configures the window
type Options struct {
	Title      string
	Width      int
	Height     int
	Fullscreen bool
	TPS        int
}

// Game adapts a world to ebiten.Game
type Game struct {
	world     *world.World
	collector input.Collector
	keys      []ebiten.Key
	frame     *ebiten.Image
	logger    *slog.Logger
}

// NewGame creates a new game for w
func NewGame(w *world.World, logger *slog.Logger) *Game {
	if logger == nil {
		logger = slog.Default()
	}
	return &Game{
		world:  w,
		logger: logger.With("component", "desktop"),
	}
}

// Run opens the window and blocks until the player quits or closes it
func Run(w *world.World, opts Options, logger *slog.Logger) error {
	g := NewGame(w, logger)

	size := w.WindowSize()
	if opts.Width > 0 && opts.Height > 0 {
		size = image.Pt(opts.Width, opts.Height)
	}

	ebiten.SetWindowSize(size.X, size.Y)
	ebiten.SetWindowTitle(opts.Title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetFullscreen(opts.Fullscreen)
	ebiten.SetWindowClosingHandled(true)
	tps := opts.TPS
	if tps <= 0 {
		tps = DefaultTPS
	}
	ebiten.SetTPS(tps)

	g.logger.Info("window opened", "width", size.X, "height", size.Y, "tps", tps)

	if err := ebiten.RunGame(g); err != nil {
		return err
	}

	g.logger.Info("window closed")
	return nil
}

// Update polls input and advances the world
func (g *Game) Update() error {
	g.poll()
	g.world.HandleEvents(g.collector.Flush())
	g.world.Update()

	if g.world.Done() {
		return ebiten.Termination
	}
	return nil
}

func (g *Game) poll() {
	if ebiten.IsWindowBeingClosed() {
		g.collector.Quit()
	}

	g.keys = inpututil.AppendJustReleasedKeys(g.keys[:0])
	for _, k := range g.keys {
		g.collector.KeyReleased(k.String())
	}

	x, y := ebiten.CursorPosition()
	pos := image.Pt(x, y)
	for eb, button := range mouseButtons {
		if inpututil.IsMouseButtonJustPressed(eb) {
			g.collector.MousePressed(pos, button)
		}
		if inpututil.IsMouseButtonJustReleased(eb) {
			g.collector.MouseReleased(pos, button)
		}
	}
}

// Draw scales the world's frame to the window
func (g *Game) Draw(screen *ebiten.Image) {
	img := g.world.Draw()
	src, ok := img.(*image.RGBA)
	if !ok || src.Rect != config.VirtualBounds() || src.Stride != 4*config.VirtualWidth {
		src = assets.NewCanvas(config.VirtualWidth, config.VirtualHeight)
		assets.ScaleInto(src, src.Bounds(), img)
	}

	if g.frame == nil {
		g.frame = ebiten.NewImage(config.VirtualWidth, config.VirtualHeight)
	}
	g.frame.WritePixels(src.Pix)

	sw, sh := screen.Bounds().Dx(), screen.Bounds().Dy()
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(sw)/float64(config.VirtualWidth), float64(sh)/float64(config.VirtualHeight))
	op.Filter = ebiten.FilterLinear
	screen.DrawImage(g.frame, op)
}

// Layout keeps one logical pixel per window pixel, so cursor positions are screen coordinates
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	g.collector.WindowSize(outsideWidth, outsideHeight)
	return outsideWidth, outsideHeight
}
