package client

import (
	"github.com/tomz197/termfolio/internal/draw"
	"github.com/tomz197/termfolio/internal/input"
	"github.com/tomz197/termfolio/internal/ui"
)

// handleEvent routes one input event. Overlays get the first look: the
// alert, then the command palette, then the page itself.
func (c *Client) handleEvent(ev input.Event) {
	if !ev.Mouse && ev.Key == input.KeyCtrlC {
		c.state.Running = false
		return
	}

	if ev.Mouse && ev.Action == input.MouseMove {
		c.moveCursor(ev)
		return
	}

	if c.state.View == ViewShutdown {
		if !ev.Mouse && ev.Key == input.KeyRune && (ev.Rune == 'q' || ev.Rune == 'Q') {
			c.state.Running = false
		}
		return
	}

	if c.state.Alert != "" {
		if !ev.Mouse || ev.Action == input.MousePress {
			c.state.Alert = ""
		}
		return
	}

	if ev.Mouse {
		c.handleMouse(ev)
		return
	}

	if pe, ok := ui.PaletteKey(ev); ok && c.palette.Handle(pe, c) {
		return
	}
	if c.palette.IsOpen() {
		return
	}
	c.handlePageKey(ev)
}

// handlePageKey handles keys while no overlay is open.
func (c *Client) handlePageKey(ev input.Event) {
	step := max(c.viewportHeight()-1, 1)

	switch ev.Key {
	case input.KeyUp:
		c.scrollBy(-1)
	case input.KeyDown:
		c.scrollBy(1)
	case input.KeyPageUp:
		c.scrollBy(-step)
	case input.KeyPageDown:
		c.scrollBy(step)
	case input.KeyHome:
		c.state.Scroll = 0
	case input.KeyEnd:
		c.scrollBy(len(c.doc.Lines))
	case input.KeyTab:
		c.nextSection()
	case input.KeyEscape:
		c.menu.LinkClicked()
	case input.KeyRune:
		switch ev.Rune {
		case 'q', 'Q':
			c.state.Running = false
		case 'j':
			c.scrollBy(1)
		case 'k':
			c.scrollBy(-1)
		case 'g':
			c.state.Scroll = 0
		case 'G':
			c.scrollBy(len(c.doc.Lines))
		case 'm':
			if c.nav.Collapsed {
				c.menu.Toggle()
			}
		}
	}
}

// nextSection jumps to the section after the one at the top of the
// viewport, wrapping to the first.
func (c *Client) nextSection() {
	if len(c.doc.Sections) == 0 {
		return
	}
	next := (c.currentSection() + 1) % len(c.doc.Sections)
	if c.state.Scroll >= c.doc.MaxScroll(c.viewportHeight()) && next != 0 {
		// Already at the bottom: further sections cannot reach the top.
		next = 0
	}
	c.Navigate(c.doc.Sections[next].ID)
}

// moveCursor feeds a pointer position to the cursor follower.
func (c *Client) moveCursor(ev input.Event) {
	col, row := c.localCell(ev)
	x, y := c.canvas.TerminalToLogical(col, row)
	c.cursor.Move(x, y, c.now)
}

// localCell converts a mouse report to 1-based canvas coordinates.
func (c *Client) localCell(ev input.Event) (col, row int) {
	return ev.Col - c.canvas.OffsetCol(), ev.Row - c.canvas.OffsetRow()
}

// handleMouse handles clicks and the wheel.
func (c *Client) handleMouse(ev input.Event) {
	switch ev.Action {
	case input.MouseWheelUp:
		if !c.palette.IsOpen() {
			c.scrollBy(-wheelStep)
		}
		return
	case input.MouseWheelDown:
		if !c.palette.IsOpen() {
			c.scrollBy(wheelStep)
		}
		return
	case input.MousePress:
	default:
		return
	}
	if ev.Button != 0 {
		return
	}

	col, row := c.localCell(ev)
	x, y := c.canvas.TerminalToLogical(col, row)
	c.cursor.Move(x, y, c.now)

	if c.palette.IsOpen() {
		c.clickPalette(col, row)
		return
	}

	id, hamburger := c.nav.Hit(col, row, c.menu.Open())
	if hamburger {
		c.menu.Toggle()
		return
	}
	if id != "" {
		c.menu.LinkClicked()
		c.Navigate(id)
		return
	}

	if row >= 2 && row <= c.canvas.TerminalHeight()-1 {
		line := c.state.Scroll + row - 2
		if line < len(c.doc.Lines) && c.doc.Lines[line].URL != "" {
			c.OpenLink(c.doc.Lines[line].URL)
			return
		}
	}

	if row == c.canvas.TerminalHeight() && col <= draw.TextWidth(footerHint)+1 {
		c.palette.Open()
	}
}

// clickPalette resolves a click while the palette is open.
func (c *Client) clickPalette(col, row int) {
	box := c.paletteBox()
	if !box.contains(col, row) {
		c.palette.Handle(ui.Event{Kind: ui.EventClickOutside}, c)
		return
	}
	if i, ok := box.resultAt(col, row); ok {
		c.palette.Handle(ui.Event{Kind: ui.EventClickResult, Index: i}, c)
	}
}
