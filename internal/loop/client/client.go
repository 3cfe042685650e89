// Package client runs one terminal session of the portfolio: the particle
// field, the page text and the interactive overlays.
package client

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tomz197/termfolio/internal/config"
	"github.com/tomz197/termfolio/internal/draw"
	"github.com/tomz197/termfolio/internal/input"
	"github.com/tomz197/termfolio/internal/loop/server"
	"github.com/tomz197/termfolio/internal/page"
	"github.com/tomz197/termfolio/internal/particle"
	"github.com/tomz197/termfolio/internal/ui"
)

// Cursor marker radii in logical pixels.
const (
	cursorDotRadius     = 4
	cursorOutlineRadius = 20
)

const (
	linkToastDuration  = 8 * time.Second
	visitToastDuration = 4 * time.Second
	wheelStep          = 3
)

// Client handles rendering and input for a single terminal.
type Client struct {
	hub          server.SessionHub // nil for a local session
	handle       *server.Handle
	state        *ClientState
	canvas       *draw.Canvas
	chunkWriter  *draw.ChunkWriter // Accumulates UI text for chunked output
	text         *draw.TextLayer
	animator     *particle.Animator
	writer       io.Writer
	inputStream  *input.Stream
	lastInput    time.Time
	username     string
	termSizeFunc draw.TermSizeFunc
	logger       *log.Logger

	content *page.Content
	doc     page.Document
	nav     page.Nav
	palette *ui.Palette
	menu    ui.Menu
	reveal  *ui.Reveal
	cursor  ui.Cursor

	render         config.RenderConfig
	idleWarning    time.Duration
	idleTimeout    time.Duration
	shutdownNotice time.Duration
	openURL        func(url string) error
	now            time.Time // Start of the current frame
}

// ClientOptions configures the client. Zero values fall back to defaults.
type ClientOptions struct {
	TermSizeFunc   draw.TermSizeFunc
	Username       string
	Content        *page.Content
	Particles      particle.Params
	Render         config.RenderConfig
	Rand           particle.Rand
	IdleWarning    time.Duration // 0 disables the inactivity warning
	IdleTimeout    time.Duration // 0 disables the inactivity disconnect
	ShutdownNotice time.Duration
	OpenURL        func(url string) error // Opens links locally; nil shows them as terminal hyperlinks
	Logger         *log.Logger
}

// NewClient creates a new client. When hub is not nil the session is
// registered with it and NewClient fails with server.ErrFull or
// server.ErrClosed when the hub refuses it.
func NewClient(hub server.SessionHub, r *bufio.Reader, w io.Writer, opts ClientOptions) (*Client, error) {
	termSizeFunc := opts.TermSizeFunc
	if termSizeFunc == nil {
		termSizeFunc = draw.DefaultTermSizeFunc
	}

	content := opts.Content
	if content == nil {
		c, err := page.Default()
		if err != nil {
			return nil, err
		}
		content = c
	}

	render := opts.Render
	defaults := config.DefaultConfig().Render
	if render.FPS <= 0 {
		render.FPS = defaults.FPS
	}
	if render.CellWidth <= 0 {
		render.CellWidth = defaults.CellWidth
	}
	if render.CellHeight <= 0 {
		render.CellHeight = defaults.CellHeight
	}

	params := opts.Particles
	if params.Density <= 0 {
		params = particle.DefaultParams()
	}

	shutdownNotice := opts.ShutdownNotice
	if shutdownNotice <= 0 {
		shutdownNotice = config.ShutdownNotice
	}

	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	var handle *server.Handle
	if hub != nil {
		h, err := hub.Register(opts.Username)
		if err != nil {
			return nil, fmt.Errorf("registering session: %w", err)
		}
		handle = h
	}

	// Create canvas with clamped dimensions for max render resolution
	termWidth, termHeight, _ := draw.TerminalSizeRawWith(termSizeFunc)
	renderWidth, renderHeight, offsetCol, offsetRow := clampTermSize(termWidth, termHeight, render.MaxColumns, render.MaxRows)
	logicalWidth := float64(renderWidth) * render.CellWidth
	logicalHeight := float64(renderHeight) * render.CellHeight
	canvas := draw.NewScaledCanvas(renderWidth, renderHeight, logicalWidth, logicalHeight)
	canvas.SetOffset(offsetCol, offsetRow)

	c := &Client{
		hub:            hub,
		handle:         handle,
		state:          NewClientState(),
		canvas:         canvas,
		chunkWriter:    draw.NewChunkWriter(w, offsetCol, offsetRow),
		text:           draw.NewTextLayer(),
		animator:       particle.NewAnimator(canvas, logicalWidth, logicalHeight, opts.Rand, params),
		writer:         w,
		lastInput:      time.Now(),
		inputStream:    input.StartStream(r),
		username:       opts.Username,
		termSizeFunc:   termSizeFunc,
		logger:         logger,
		content:        content,
		palette:        ui.NewPalette(ui.DefaultCommands()),
		reveal:         ui.NewReveal(len(content.Sections)),
		render:         render,
		idleWarning:    opts.IdleWarning,
		idleTimeout:    opts.IdleTimeout,
		shutdownNotice: shutdownNotice,
		openURL:        opts.OpenURL,
		now:            time.Now(),
	}
	c.relayout()
	return c, nil
}

// Run starts the client loop. Blocks until the user quits, the input ends,
// the session idles out, the server shuts down or ctx is cancelled.
func (c *Client) Run(ctx context.Context) error {
	draw.EnterAltScreen(c.writer)
	draw.HideCursor(c.writer)
	draw.EnableMouse(c.writer)
	draw.ClearScreen(c.writer)
	defer func() {
		draw.DisableMouse(c.writer)
		draw.ShowCursor(c.writer)
		draw.ExitAltScreen(c.writer)
	}()

	err := c.animator.Run(ctx, particle.NewFrameClock(c.render.FPS), particle.Hooks{
		BeforeFrame: func() error {
			c.now = time.Now()

			// Process input
			c.processInput()

			// Check for hub events
			c.processServerEvents()

			// Handle screen resize
			c.updateScreen()

			c.update()

			if !c.state.Running {
				c.animator.Stop()
			}
			return nil
		},
		AfterFrame: c.drawFrame,
	})

	// Unregister from hub
	if c.hub != nil {
		c.hub.Unregister(c.handle.ID)
	}

	draw.ClearScreen(c.writer)
	if ctx.Err() != nil {
		// The session went away; that is not a failure.
		return nil
	}
	return err
}

// Animator exposes the particle animator driving this session.
func (c *Client) Animator() *particle.Animator {
	return c.animator
}

// processInput reads input and applies it.
func (c *Client) processInput() {
	events := input.ReadEvents(c.inputStream)

	if len(events) > 0 {
		c.lastInput = c.now
		c.state.isInactive = false
	} else if c.idleTimeout > 0 && c.now.Sub(c.lastInput) > c.idleTimeout {
		c.logger.Info("disconnecting idle session", "user", c.username)
		c.state.Running = false
	} else if c.idleWarning > 0 && c.now.Sub(c.lastInput) > c.idleWarning {
		c.state.isInactive = true
	}

	for _, ev := range events {
		c.handleEvent(ev)
	}

	if c.inputStream.Closed() {
		c.state.Running = false
	}
}

// processServerEvents handles events from the hub.
func (c *Client) processServerEvents() {
	if c.handle == nil {
		return
	}
	for {
		select {
		case event, ok := <-c.handle.EventsCh:
			if !ok {
				// Hub closed the channel
				c.state.Running = false
				return
			}
			switch event.Type {
			case server.EventVisitorJoined:
				name := event.Username
				if name == "" {
					name = "Someone"
				}
				c.state.showToast(fmt.Sprintf("✦ %s just dropped by", name), "", c.now, visitToastDuration)
			case server.EventServerShutdown:
				c.state.View = ViewShutdown
				c.state.shutdownAt = c.now.Add(c.shutdownNotice)
			}
		default:
			return
		}
	}
}

// updateScreen handles terminal resize, clamping to max render resolution.
// On actual size changes, clears the terminal to remove residual pixels
// outside the new canvas area and regenerates the particle field.
func (c *Client) updateScreen() {
	termWidth, termHeight, err := draw.TerminalSizeRawWith(c.termSizeFunc)
	if err != nil {
		return
	}
	renderWidth, renderHeight, offsetCol, offsetRow := clampTermSize(termWidth, termHeight, c.render.MaxColumns, c.render.MaxRows)

	sizeChanged := renderWidth != c.canvas.TerminalWidth() || renderHeight != c.canvas.TerminalHeight()
	if sizeChanged || offsetCol != c.canvas.OffsetCol() || offsetRow != c.canvas.OffsetRow() {
		draw.ClearScreen(c.writer)
		c.canvas.ForceRedraw()
		c.text.Invalidate()
	}

	c.canvas.Resize(renderWidth, renderHeight)
	c.canvas.SetOffset(offsetCol, offsetRow)
	c.chunkWriter.SetOffset(offsetCol, offsetRow)

	if sizeChanged {
		w := float64(renderWidth) * c.render.CellWidth
		h := float64(renderHeight) * c.render.CellHeight
		c.canvas.SetLogicalSize(w, h)
		c.animator.OnResize(w, h)
		c.relayout()
		c.logger.Debug("terminal resized", "cols", renderWidth, "rows", renderHeight, "particles", len(c.animator.Field()))
	}
}

// clampTermSize clamps terminal dimensions to the max render resolution and computes
// the centering offset for the render area. A zero limit means unlimited.
func clampTermSize(termWidth, termHeight, maxWidth, maxHeight int) (renderWidth, renderHeight, offsetCol, offsetRow int) {
	renderWidth = termWidth
	renderHeight = termHeight
	if maxWidth > 0 && renderWidth > maxWidth {
		renderWidth = maxWidth
	}
	if maxHeight > 0 && renderHeight > maxHeight {
		renderHeight = maxHeight
	}
	offsetCol = (termWidth - renderWidth) / 2
	offsetRow = (termHeight - renderHeight) / 2
	return
}

// relayout wraps the content and the nav bar for the current width.
func (c *Client) relayout() {
	width := c.canvas.TerminalWidth()
	c.doc = page.Layout(c.content, contentWidth(width))
	c.nav = page.LayoutNav(c.content, width)
	c.clampScroll()
}

// contentWidth is the text column width for a terminal of the given width.
func contentWidth(termWidth int) int {
	const maxWidth = 76
	if termWidth-4 < 20 {
		return max(termWidth, 1)
	}
	return min(termWidth-4, maxWidth)
}

// viewportHeight is the number of rows between the nav bar and the footer.
func (c *Client) viewportHeight() int {
	return max(c.canvas.TerminalHeight()-2, 0)
}

func (c *Client) clampScroll() {
	c.state.Scroll = max(0, min(c.state.Scroll, c.doc.MaxScroll(c.viewportHeight())))
}

func (c *Client) scrollBy(n int) {
	c.state.Scroll += n
	c.clampScroll()
}

// update advances timers and scroll reveal.
func (c *Client) update() {
	if c.state.View == ViewShutdown && !c.now.Before(c.state.shutdownAt) {
		c.state.Running = false
		return
	}

	top := float64(c.state.Scroll)
	bottom := top + float64(c.viewportHeight())
	for i, s := range c.doc.Sections {
		if c.reveal.Observed(i) {
			c.reveal.Observe(i, ui.IntersectionRatio(float64(s.Start), float64(s.End), top, bottom), c.now)
		}
	}
}

// currentSection is the section at the top of the viewport.
func (c *Client) currentSection() int {
	for l := c.state.Scroll; l < len(c.doc.Lines); l++ {
		if s := c.doc.SectionAt(l); s >= 0 {
			return s
		}
	}
	return -1
}

// Navigate scrolls the given section to the top of the viewport. Unknown
// ids are ignored.
func (c *Client) Navigate(sectionID string) {
	start, ok := c.doc.SectionStart(sectionID)
	if !ok {
		return
	}
	c.state.Scroll = start
	c.clampScroll()
}

// OpenLink opens url locally when possible, otherwise shows it as a
// clickable terminal hyperlink in the footer.
func (c *Client) OpenLink(url string) {
	if c.openURL != nil {
		err := c.openURL(url)
		if err == nil {
			c.state.showToast("Opened "+url, "", c.now, linkToastDuration)
			return
		}
		c.logger.Warn("could not open link", "url", url, "err", err)
	}
	c.state.showToast("↗ Open "+url, url, c.now, linkToastDuration)
}

// Alert shows a modal message until the next key press or click.
func (c *Client) Alert(message string) {
	c.state.Alert = message
}

var _ ui.Actions = (*Client)(nil)

// Ensure the canvas can host the particle field.
var _ particle.Surface = (*draw.Canvas)(nil)
