package main

import (
	"errors"
	"fmt"
	"image/color"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/ncruces/zenity"
	"github.com/spf13/cobra"

	"github.com/tomz197/termfolio/internal/browser"
	"github.com/tomz197/termfolio/internal/cli"
	"github.com/tomz197/termfolio/internal/desktop"
	"github.com/tomz197/termfolio/internal/input"
	"github.com/tomz197/termfolio/internal/page"
	"github.com/tomz197/termfolio/internal/particle"
)

var background = color.NRGBA{R: 0x0a, G: 0x0a, B: 0x0f, A: 0xff}

var flags cli.Flags

var rootCmd = &cobra.Command{
	Use:           "desktop",
	Short:         "Show the portfolio in a desktop window",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          run,
}

func init() {
	flags.Register(rootCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	cfg, logger, closer, err := flags.Setup("desktop", os.Stderr)
	if err != nil {
		return err
	}
	defer closer.Close()

	content, err := page.Load(cfg.ContentFile)
	if err != nil {
		return err
	}
	params, err := cfg.Particles.Params()
	if err != nil {
		return fmt.Errorf("particles: %w", err)
	}

	view, err := desktop.New(desktop.Options{
		Content: content,
		OpenURL: browser.Open,
		Alert: func(msg string) {
			// Dialogs block; keep the window animating meanwhile.
			go func() {
				if err := zenity.Info(msg, zenity.Title(cfg.Desktop.Title), zenity.InfoIcon); err != nil && !errors.Is(err, zenity.ErrCanceled) {
					logger.Warn("could not show alert", "err", err)
				}
			}()
		},
	})
	if err != nil {
		return err
	}

	w, h := cfg.Desktop.Width, cfg.Desktop.Height
	surf := &surface{}
	g := &game{
		view:     view,
		surface:  surf,
		animator: particle.NewAnimator(surf, float64(w), float64(h), nil, params),
		accent:   params.Color,
		logger:   logger,
	}

	ebiten.SetWindowSize(w, h)
	ebiten.SetWindowTitle(cfg.Desktop.Title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetCursorMode(ebiten.CursorModeHidden)
	ebiten.SetTPS(cfg.Render.FPS)

	logger.Info("opening window", "width", w, "height", h)
	if err := ebiten.RunGame(g); err != nil && !errors.Is(err, ebiten.Termination) {
		return err
	}
	return nil
}

// surface draws the particle field onto the current screen image.
type surface struct {
	target *ebiten.Image
}

func (s *surface) Clear() {
	s.target.Fill(background)
}

func (s *surface) FillCircle(x, y, r float64, c color.NRGBA) {
	vector.DrawFilledCircle(s.target, float32(x), float32(y), float32(r), c, true)
}

func (s *surface) StrokeLine(x1, y1, x2, y2, width float64, c color.NRGBA) {
	vector.StrokeLine(s.target, float32(x1), float32(y1), float32(x2), float32(y2), float32(width), c, true)
}

var _ particle.Surface = (*surface)(nil)

type game struct {
	view     *desktop.View
	surface  *surface
	animator *particle.Animator
	accent   color.NRGBA
	logger   *log.Logger

	scratch      *ebiten.Image // Offscreen layer for faded text
	cursorX      int
	cursorY      int
	cursorMoved  bool
	layoutWidth  int
	layoutHeight int
}

// keyMap lists the keys forwarded to the view.
var keyMap = map[ebiten.Key]input.Key{
	ebiten.KeyEnter:       input.KeyEnter,
	ebiten.KeyNumpadEnter: input.KeyEnter,
	ebiten.KeyEscape:      input.KeyEscape,
	ebiten.KeyBackspace:   input.KeyBackspace,
	ebiten.KeyArrowUp:     input.KeyUp,
	ebiten.KeyArrowDown:   input.KeyDown,
	ebiten.KeyPageUp:      input.KeyPageUp,
	ebiten.KeyPageDown:    input.KeyPageDown,
	ebiten.KeyHome:        input.KeyHome,
	ebiten.KeyEnd:         input.KeyEnd,
}

// repeating reports a key press on its first tick and then at a steady rate
// while it is held.
func repeating(k ebiten.Key) bool {
	d := inpututil.KeyPressDuration(k)
	return d == 1 || (d >= 30 && d%4 == 0)
}

func (g *game) Update() error {
	g.view.Update(time.Now())

	modifier := ebiten.IsKeyPressed(ebiten.KeyControl) || ebiten.IsKeyPressed(ebiten.KeyMeta)
	if modifier && inpututil.IsKeyJustPressed(ebiten.KeyK) {
		g.view.Key(input.Event{Key: input.KeyCtrlK})
	}
	if modifier && inpututil.IsKeyJustPressed(ebiten.KeyC) {
		g.view.Key(input.Event{Key: input.KeyCtrlC})
	}

	for k, key := range keyMap {
		if repeating(k) {
			g.view.Key(input.Event{Key: key})
		}
	}
	if !modifier {
		for _, r := range ebiten.AppendInputChars(nil) {
			g.view.Key(input.Event{Key: input.KeyRune, Rune: r})
		}
	}

	x, y := ebiten.CursorPosition()
	if x != g.cursorX || y != g.cursorY || !g.cursorMoved {
		g.cursorX, g.cursorY, g.cursorMoved = x, y, true
		g.view.Move(float64(x), float64(y))
	}
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		g.view.Click(float64(x), float64(y))
	}
	if _, dy := ebiten.Wheel(); dy != 0 {
		g.view.Wheel(dy)
	}

	if g.view.Done() {
		return ebiten.Termination
	}
	return nil
}

func (g *game) Draw(screen *ebiten.Image) {
	g.surface.target = screen
	g.animator.Frame()

	f := g.view.Frame()
	g.drawTexts(screen, f.Page)
	for _, b := range f.Boxes {
		vector.DrawFilledRect(screen, b.X, b.Y, b.W, b.H, b.Fill, false)
		if b.Stroke.A > 0 {
			vector.StrokeRect(screen, b.X, b.Y, b.W, b.H, 1, b.Stroke, false)
		}
	}
	g.drawTexts(screen, f.Overlay)
	g.drawCursor(screen)
}

// drawTexts prints opaque texts directly and faded ones through the scratch
// layer, one pass per distinct opacity.
func (g *game) drawTexts(screen *ebiten.Image, texts []desktop.Text) {
	var faded map[float64][]desktop.Text
	for _, t := range texts {
		if t.Alpha >= 1 {
			ebitenutil.DebugPrintAt(screen, t.S, t.X, t.Y)
			continue
		}
		if faded == nil {
			faded = make(map[float64][]desktop.Text)
		}
		faded[t.Alpha] = append(faded[t.Alpha], t)
	}
	for alpha, group := range faded {
		g.scratch.Clear()
		for _, t := range group {
			ebitenutil.DebugPrintAt(g.scratch, t.S, t.X, t.Y)
		}
		op := &ebiten.DrawImageOptions{}
		op.ColorScale.ScaleAlpha(float32(alpha))
		screen.DrawImage(g.scratch, op)
	}
}

func (g *game) drawCursor(screen *ebiten.Image) {
	c := g.view.Cursor()
	if !c.Visible() {
		return
	}
	ox, oy := c.Outline(time.Now())
	ring := g.accent
	ring.A = 0x80
	vector.StrokeCircle(screen, float32(ox), float32(oy), desktop.OutlineRadius, 2, ring, true)

	dx, dy := c.Dot()
	vector.DrawFilledCircle(screen, float32(dx), float32(dy), desktop.DotRadius, g.accent, true)
}

// Layout adopts the window size. A changed size relays the page out and
// regenerates the particle field on the next frame.
func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth != g.layoutWidth || outsideHeight != g.layoutHeight {
		g.layoutWidth, g.layoutHeight = outsideWidth, outsideHeight
		g.view.Resize(outsideWidth, outsideHeight)
		if g.scratch != nil {
			g.scratch.Deallocate()
		}
		g.scratch = ebiten.NewImage(max(outsideWidth, 1), max(outsideHeight, 1))
		if w, h := g.animator.Size(); w != float64(outsideWidth) || h != float64(outsideHeight) {
			g.animator.RequestResize(float64(outsideWidth), float64(outsideHeight))
			g.logger.Debug("window resized", "width", outsideWidth, "height", outsideHeight)
		}
	}
	return outsideWidth, outsideHeight
}
