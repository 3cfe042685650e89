package client

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/tomz197/termfolio/internal/draw"
	"github.com/tomz197/termfolio/internal/page"
)

const footerHint = "Ctrl+K commands · ↑↓ scroll · q quit"

// drawFrame draws overlays on top of the particle frame the animator just
// drew into the canvas, then flushes everything.
func (c *Client) drawFrame() error {
	// On view or inactivity transitions, do a full terminal clear
	// so UI elements from the previous view don't persist on screen.
	viewChanged := c.state.View != c.state.prevView
	inactiveChanged := c.state.isInactive != c.state.wasInactive
	if viewChanged || inactiveChanged {
		c.chunkWriter.WriteString("\033[H\033[2J")
		c.canvas.ForceRedraw()
		c.text.Invalidate()
		c.state.prevView = c.state.View
		c.state.wasInactive = c.state.isInactive
	}

	c.drawCursor()
	c.drawUI()

	c.text.Commit(c.canvas)

	// Render canvas to terminal
	c.canvas.Render(c.chunkWriter)

	// Draw border when terminal exceeds max render resolution
	c.canvas.RenderBorder(c.chunkWriter)

	c.text.Write(c.chunkWriter)

	return c.chunkWriter.Flush()
}

// drawCursor paints the cursor follower into the canvas.
func (c *Client) drawCursor() {
	if !c.cursor.Visible() {
		return
	}
	accent := c.animator.Params().Color

	ox, oy := c.cursor.Outline(c.now)
	ring := accent
	ring.A = 0x80
	c.canvas.StrokeCircle(ox, oy, cursorOutlineRadius, ring)

	dx, dy := c.cursor.Dot()
	c.canvas.FillCircle(dx, dy, cursorDotRadius, accent)
}

// drawUI queues the text overlays for the current view.
func (c *Client) drawUI() {
	termWidth := c.canvas.TerminalWidth()
	termHeight := c.canvas.TerminalHeight()
	centerX := termWidth / 2
	centerY := termHeight / 2

	if c.state.View == ViewShutdown {
		c.drawShutdownScreen(centerX, centerY)
		return
	}

	if c.state.isInactive {
		c.drawInactivityScreen(centerX, centerY)
		return
	}

	c.drawPage(termWidth, termHeight)
	c.drawNav(termWidth)
	c.drawFooter(termWidth, termHeight)
	if c.palette.IsOpen() {
		c.drawPalette()
	}
	if c.state.Alert != "" {
		c.drawAlert(centerX, centerY)
	}
}

// put queues text at (col, row), cut to fit the terminal width.
func (c *Client) put(col, row int, style, s string) {
	width := c.canvas.TerminalWidth()
	if row < 1 || row > c.canvas.TerminalHeight() || col > width {
		return
	}
	if col < 1 {
		s = draw.CutLeft(s, 1-col)
		col = 1
	}
	c.text.Put(col, row, style, draw.Truncate(s, width-col+1))
}

// putCentered queues text centred on centerX.
func (c *Client) putCentered(centerX, row int, style, s string) {
	c.put(centerX-draw.TextWidth(s)/2+1, row, style, s)
}

// lineStyle maps a page line style to SGR sequences.
func lineStyle(s page.Style) string {
	switch s {
	case page.StyleTitle:
		return draw.ColorBold + draw.ColorBrightCyan
	case page.StyleTagline:
		return draw.ColorWhite
	case page.StyleHeading:
		return draw.ColorBold + draw.ColorCyan
	case page.StyleLink:
		return draw.ColorCyan
	}
	return ""
}

// drawPage queues the visible document lines, faded and shifted by the
// scroll reveal of their section.
func (c *Client) drawPage(termWidth, termHeight int) {
	left := (termWidth-c.doc.Width)/2 + 1
	firstRow, lastRow := 2, termHeight-1

	for i := c.state.Scroll; i < len(c.doc.Lines) && i-c.state.Scroll <= lastRow-firstRow; i++ {
		line := c.doc.Lines[i]
		if line.Text == "" {
			continue
		}

		opacity, offset := 1.0, 0.0
		if line.Section >= 0 {
			opacity, offset = c.reveal.State(line.Section, c.now)
		}
		if opacity < 0.2 {
			continue
		}

		row := firstRow + i - c.state.Scroll + int(math.Round(offset/c.render.CellHeight))
		if row > lastRow {
			continue
		}

		style := lineStyle(line.Style)
		if opacity < 0.6 {
			style = draw.ColorDim + style
		}

		if line.URL != "" {
			text := draw.Truncate(line.Text, termWidth-left+1)
			c.text.PutWidth(left, row, style, draw.Hyperlink(line.URL, text), draw.TextWidth(text))
			continue
		}
		c.put(left, row, style, line.Text)
	}
}

// drawNav queues the navigation bar and, when open, the mobile menu.
func (c *Client) drawNav(termWidth int) {
	n := c.nav
	c.put(n.Brand.Col, n.Brand.Row, draw.ColorBold+draw.ColorBrightCyan, n.Brand.Title)

	current := c.currentSection()
	currentID := ""
	if current >= 0 {
		currentID = c.doc.Sections[current].ID
	}

	if !n.Collapsed {
		for _, it := range n.Items {
			style := draw.ColorWhite
			if it.ID == currentID {
				style = draw.ColorBrightCyan
			}
			c.put(it.Col, it.Row, style, it.Title)
		}
		return
	}

	glyph := page.Hamburger
	if c.menu.HamburgerActive() {
		glyph = "×"
	}
	c.put(n.Hamburger.Col, n.Hamburger.Row, draw.ColorBold+draw.ColorBrightCyan, glyph)

	if !c.menu.Open() {
		return
	}
	for _, it := range n.Dropdown {
		style := draw.ColorReverse
		if it.ID == currentID {
			style += draw.ColorCyan
		}
		c.put(it.Col-1, it.Row, style, " "+pad(it.Title, it.Width)+" ")
	}
}

// drawFooter queues the hint or notice on the left and visitor stats on the right.
func (c *Client) drawFooter(termWidth, termHeight int) {
	if msg, url := c.state.Toast(c.now); msg != "" {
		if url != "" {
			msg = draw.Truncate(msg, termWidth-2)
			c.text.PutWidth(2, termHeight, draw.ColorCyan, draw.Hyperlink(url, msg), draw.TextWidth(msg))
		} else {
			c.put(2, termHeight, draw.ColorBrightCyan, msg)
		}
	} else {
		c.put(2, termHeight, draw.ColorDim, footerHint)
	}

	if c.hub == nil {
		return
	}
	stats := c.hub.Stats()
	visitors := fmt.Sprintf("● %d online · %d visits", stats.Online, stats.Served)
	col := termWidth - draw.TextWidth(visitors)
	if col > draw.TextWidth(footerHint)+4 {
		c.put(col, termHeight, draw.ColorDim, visitors)
	}
}

// paletteBox is the screen area of the command palette.
type paletteBox struct {
	col, row      int // Top-left corner, 1-based
	width, height int
	resultsRow    int // Row of the first listed result
	visible       int // Number of result rows shown
	first         int // Index of the first listed result
}

func (b paletteBox) contains(col, row int) bool {
	return col >= b.col && col < b.col+b.width && row >= b.row && row < b.row+b.height
}

// resultAt maps a click inside the box to a result index.
func (b paletteBox) resultAt(col, row int) (int, bool) {
	if col <= b.col || col >= b.col+b.width-1 {
		return 0, false
	}
	if row < b.resultsRow || row >= b.resultsRow+b.visible {
		return 0, false
	}
	return b.first + row - b.resultsRow, true
}

// paletteBox lays out the palette for the current terminal and results.
func (c *Client) paletteBox() paletteBox {
	termWidth := c.canvas.TerminalWidth()
	termHeight := c.canvas.TerminalHeight()
	results := len(c.palette.Results())

	width := min(termWidth-4, 50)
	if width < 24 {
		width = termWidth
	}
	visible := max(min(results, termHeight-6), 0)
	rows := max(visible, 1) // "No commands found" needs a row
	height := rows + 4      // Borders, query and separator

	first := 0
	if sel := c.palette.Selected(); visible > 0 && sel >= visible {
		first = sel - visible + 1
	}

	b := paletteBox{
		col:     (termWidth-width)/2 + 1,
		row:     max((termHeight-height)/3, 1),
		width:   width,
		height:  height,
		visible: visible,
		first:   first,
	}
	b.resultsRow = b.row + 3
	return b
}

// drawPalette queues the command palette box.
func (c *Client) drawPalette() {
	b := c.paletteBox()
	inner := b.width - 2
	border := draw.ColorCyan

	c.put(b.col, b.row, border, "┌"+strings.Repeat("─", inner)+"┐")
	c.put(b.col, b.row+1, border, "│"+pad(" > "+c.palette.Query()+"▏", inner)+"│")
	c.put(b.col, b.row+2, border, "├"+strings.Repeat("─", inner)+"┤")

	results := c.palette.Results()
	if len(results) == 0 {
		c.put(b.col, b.resultsRow, border, "│"+pad(" No commands found", inner)+"│")
	}
	for i := 0; i < b.visible; i++ {
		idx := b.first + i
		cmd := results[idx]
		row := b.resultsRow + i
		label := pad(" "+cmd.Icon+"  "+cmd.Name, inner)
		c.put(b.col, row, border, "│")
		if idx == c.palette.Selected() {
			c.put(b.col+1, row, draw.ColorReverse+draw.ColorBrightCyan, label)
		} else {
			c.put(b.col+1, row, draw.ColorWhite, label)
		}
		c.put(b.col+b.width-1, row, border, "│")
	}

	bottom := b.row + b.height - 1
	hint := " ↑↓ select · enter run · esc close "
	if draw.TextWidth(hint) <= inner {
		c.put(b.col, bottom, border, "└"+hint+strings.Repeat("─", inner-draw.TextWidth(hint))+"┘")
	} else {
		c.put(b.col, bottom, border, "└"+strings.Repeat("─", inner)+"┘")
	}
}

// drawAlert queues a modal message box.
func (c *Client) drawAlert(centerX, centerY int) {
	msg := c.state.Alert
	width := min(max(draw.TextWidth(msg)+4, 30), c.canvas.TerminalWidth())
	inner := width - 2
	col := centerX - width/2 + 1
	row := centerY - 2

	c.put(col, row, draw.ColorBrightCyan, "┌"+strings.Repeat("─", inner)+"┐")
	c.put(col, row+1, draw.ColorBrightCyan, "│"+center(msg, inner)+"│")
	c.put(col, row+2, draw.ColorBrightCyan, "│"+center("[ OK ]", inner)+"│")
	c.put(col, row+3, draw.ColorBrightCyan, "└"+strings.Repeat("─", inner)+"┘")
}

// drawInactivityScreen draws the inactivity warning screen.
func (c *Client) drawInactivityScreen(centerX, centerY int) {
	c.putCentered(centerX, centerY-2, draw.ColorBold, "INACTIVITY WARNING")

	remaining := max(int((c.idleTimeout - c.now.Sub(c.lastInput)).Seconds()), 0)
	msg := fmt.Sprintf("You have been inactive for too long. You will be disconnected in %d seconds.", remaining)
	c.putCentered(centerX, centerY, "", msg)

	c.putCentered(centerX, centerY+2, draw.ColorDim, "Press any key to continue")
}

// drawShutdownScreen draws the server shutdown notification screen.
func (c *Client) drawShutdownScreen(centerX, centerY int) {
	c.putCentered(centerX, centerY-3, draw.ColorBold, "SERVER SHUTTING DOWN")
	c.putCentered(centerX, centerY-1, "", "The server is restarting for maintenance.")
	c.putCentered(centerX, centerY, "", "Please reconnect in a moment.")

	remaining := int(c.state.shutdownAt.Sub(c.now)/time.Second) + 1
	c.putCentered(centerX, centerY+2, "", fmt.Sprintf("Disconnecting in %d seconds...", remaining))

	c.putCentered(centerX, centerY+4, draw.ColorDim, "Press Q to disconnect now")
}

// pad cuts or right-pads s with spaces to exactly width runes.
func pad(s string, width int) string {
	s = draw.Truncate(s, width)
	if n := width - draw.TextWidth(s); n > 0 {
		s += strings.Repeat(" ", n)
	}
	return s
}

// center pads s on both sides to width runes.
func center(s string, width int) string {
	s = draw.Truncate(s, width)
	left := (width - draw.TextWidth(s)) / 2
	return pad(strings.Repeat(" ", left)+s, width)
}
