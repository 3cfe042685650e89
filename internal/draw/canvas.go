package draw

import (
	"image/color"
	"io"
	"math"
	"sort"
	"strconv"
	"strings"
)

// alphaLevels is how many opacity steps survive quantisation. Fewer steps
// mean fewer cells change between frames and less output per frame.
const alphaLevels = 16

// circleSegments is the polygon resolution used for circles that span more
// than one sub-pixel.
const circleSegments = 16

// rgb is an opaque terminal colour; set is false for an empty half cell.
type rgb struct {
	r, g, b uint8
	set     bool
}

// cell is what one terminal character shows: an upper and a lower half.
type cell struct {
	top, bottom rgb
}

// Canvas is a drawing buffer with 2x vertical resolution using half-block characters.
// Supports scaling from logical coordinates to actual terminal pixels.
// Only cells that changed since the previous Render are written out.
type Canvas struct {
	termWidth      int           // Actual terminal columns
	termHeight     int           // Actual terminal rows
	subPixelHeight int           // termHeight * 2
	pixels         []color.NRGBA // Flat slice: [y * termWidth + x]

	// Scaling from logical to pixel coordinates
	logicalWidth  float64
	logicalHeight float64
	scaleX        float64 // termWidth / logicalWidth
	scaleY        float64 // (termHeight*2) / logicalHeight

	// Offset for centering the render area when terminal is larger than max resolution.
	// These are 0-based terminal offsets (columns/rows to skip).
	offsetCol int
	offsetRow int

	// Diffing state: what the terminal currently shows per cell.
	prev     []cell
	dirty    []bool
	reserved []bool // Cells covered by text this frame; Render skips them

	// Reusable buffers to reduce allocations
	renderBuf       strings.Builder
	numBuf          [20]byte
	scaledBuf       []Point
	intersectionBuf []float64
	polygonBuf      []Point
}

// NewScaledCanvas creates a canvas that scales from logical coordinates to terminal pixels.
// logicalWidth/Height define the coordinate space used by the particle field.
// termWidth/Height are the actual terminal dimensions.
func NewScaledCanvas(termWidth, termHeight int, logicalWidth, logicalHeight float64) *Canvas {
	c := &Canvas{}
	c.allocate(termWidth, termHeight)
	c.SetLogicalSize(logicalWidth, logicalHeight)
	return c
}

func (c *Canvas) allocate(termWidth, termHeight int) {
	if termWidth < 0 {
		termWidth = 0
	}
	if termHeight < 0 {
		termHeight = 0
	}
	c.termWidth = termWidth
	c.termHeight = termHeight
	c.subPixelHeight = termHeight * 2
	c.pixels = make([]color.NRGBA, c.subPixelHeight*termWidth)
	c.prev = make([]cell, termWidth*termHeight)
	c.dirty = make([]bool, termWidth*termHeight)
	c.reserved = make([]bool, termWidth*termHeight)
	c.ForceRedraw()
}

// Resize updates the canvas for new terminal dimensions while keeping logical size.
func (c *Canvas) Resize(termWidth, termHeight int) {
	if termWidth != c.termWidth || termHeight != c.termHeight {
		c.allocate(termWidth, termHeight)
	}
	c.updateScale()
}

// SetLogicalSize changes the coordinate space mapped onto the terminal.
func (c *Canvas) SetLogicalSize(width, height float64) {
	c.logicalWidth = width
	c.logicalHeight = height
	c.updateScale()
}

func (c *Canvas) updateScale() {
	c.scaleX, c.scaleY = 0, 0
	if c.logicalWidth > 0 {
		c.scaleX = float64(c.termWidth) / c.logicalWidth
	}
	if c.logicalHeight > 0 {
		c.scaleY = float64(c.subPixelHeight) / c.logicalHeight
	}
}

// SetOffset sets the column and row offset for centering the canvas.
// Offsets are 0-based terminal positions: the canvas starts at (offsetCol+1, offsetRow+1).
func (c *Canvas) SetOffset(col, row int) {
	if col != c.offsetCol || row != c.offsetRow {
		c.ForceRedraw()
	}
	c.offsetCol = col
	c.offsetRow = row
}

// OffsetCol returns the column offset used for centering.
func (c *Canvas) OffsetCol() int {
	return c.offsetCol
}

// OffsetRow returns the row offset used for centering.
func (c *Canvas) OffsetRow() int {
	return c.offsetRow
}

// Clear resets all pixels in the canvas.
func (c *Canvas) Clear() {
	clear(c.pixels)
}

// ForceRedraw makes the next Render write every cell, e.g. after the
// terminal was cleared.
func (c *Canvas) ForceRedraw() {
	for i := range c.dirty {
		c.dirty[i] = true
	}
}

// MarkTextDirty records that text was written over length cells starting
// at the 1-based canvas position (col, row), so the next Render repaints them.
func (c *Canvas) MarkTextDirty(col, row, length int) {
	if row < 1 || row > c.termHeight {
		return
	}
	for x := col - 1; x < col-1+length; x++ {
		if x >= 0 && x < c.termWidth {
			c.dirty[(row-1)*c.termWidth+x] = true
		}
	}
}

// Reserve keeps the next Render away from length cells starting at the
// 1-based canvas position (col, row) because text occupies them. Cells that
// needed repainting stay dirty until they are no longer reserved.
func (c *Canvas) Reserve(col, row, length int) {
	if row < 1 || row > c.termHeight {
		return
	}
	for x := col - 1; x < col-1+length; x++ {
		if x >= 0 && x < c.termWidth {
			c.reserved[(row-1)*c.termWidth+x] = true
		}
	}
}

// setPixel blends a sample into a pixel at actual terminal coordinates (no
// scaling). The more opaque sample wins.
func (c *Canvas) setPixel(x, y int, col color.NRGBA) {
	if x < 0 || x >= c.termWidth || y < 0 || y >= c.subPixelHeight {
		return
	}
	idx := y*c.termWidth + x
	if col.A >= c.pixels[idx].A {
		c.pixels[idx] = col
	}
}

// At returns the pixel at actual sub-pixel coordinates.
func (c *Canvas) At(x, y int) color.NRGBA {
	if x < 0 || x >= c.termWidth || y < 0 || y >= c.subPixelHeight {
		return color.NRGBA{}
	}
	return c.pixels[y*c.termWidth+x]
}

// FillCircle draws a filled circle in logical coordinates. Circles smaller
// than a sub-pixel become a single pixel.
func (c *Canvas) FillCircle(x, y, r float64, col color.NRGBA) {
	if r*c.scaleX < 1 && r*c.scaleY < 1 {
		c.setPixel(int(math.Floor(x*c.scaleX)), int(math.Floor(y*c.scaleY)), col)
		return
	}
	c.fillPolygon(c.circlePoints(x, y, r), col)
}

// StrokeCircle draws the outline of a circle in logical coordinates.
func (c *Canvas) StrokeCircle(x, y, r float64, col color.NRGBA) {
	points := c.circlePoints(x, y, r)
	n := len(points)
	for i := 0; i < n; i++ {
		p1, p2 := points[i], points[(i+1)%n]
		c.StrokeLine(p1.X, p1.Y, p2.X, p2.Y, 1, col)
	}
}

func (c *Canvas) circlePoints(x, y, r float64) []Point {
	points := c.BorrowPoints(circleSegments)
	for i := range points {
		angle := float64(i) * 2 * math.Pi / circleSegments
		points[i] = Point{X: x + math.Cos(angle)*r, Y: y + math.Sin(angle)*r}
	}
	return points
}

// StrokeLine draws a line on the canvas using Bresenham's algorithm.
// Coordinates are in logical space and get scaled to pixels. Lines are
// always one sub-pixel wide; width is accepted for the particle.Surface
// contract.
func (c *Canvas) StrokeLine(x1f, y1f, x2f, y2f, width float64, col color.NRGBA) {
	x1 := int(math.Floor(x1f * c.scaleX))
	y1 := int(math.Floor(y1f * c.scaleY))
	x2 := int(math.Floor(x2f * c.scaleX))
	y2 := int(math.Floor(y2f * c.scaleY))

	dx := abs(x2 - x1)
	dy := abs(y2 - y1)

	sx := 1
	if x1 > x2 {
		sx = -1
	}
	sy := 1
	if y1 > y2 {
		sy = -1
	}

	err := dx - dy

	for {
		c.setPixel(x1, y1, col)

		if x1 == x2 && y1 == y2 {
			break
		}

		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x1 += sx
		}
		if e2 < dx {
			err += dx
			y1 += sy
		}
	}
}

// fillPolygon fills a polygon using scanline algorithm.
// Works in pixel space for proper scaling.
func (c *Canvas) fillPolygon(points []Point, col color.NRGBA) {
	if len(points) < 3 {
		return
	}

	// Reuse or grow scaled points buffer
	if cap(c.scaledBuf) < len(points) {
		c.scaledBuf = make([]Point, len(points))
	}
	scaled := c.scaledBuf[:len(points)]

	for i, p := range points {
		scaled[i] = Point{
			X: p.X * c.scaleX,
			Y: p.Y * c.scaleY,
		}
	}

	minY, maxY := scaled[0].Y, scaled[0].Y
	for _, p := range scaled {
		if p.Y < minY {
			minY = p.Y
		}
		if p.Y > maxY {
			maxY = p.Y
		}
	}

	yStart := int(math.Floor(minY))
	yEnd := int(math.Ceil(maxY))

	for y := yStart; y <= yEnd; y++ {
		scanY := float64(y) + 0.5

		intersections := c.intersectionBuf[:0]

		n := len(scaled)
		for i := 0; i < n; i++ {
			p1 := scaled[i]
			p2 := scaled[(i+1)%n]

			if (p1.Y <= scanY && p2.Y > scanY) || (p2.Y <= scanY && p1.Y > scanY) {
				t := (scanY - p1.Y) / (p2.Y - p1.Y)
				x := p1.X + t*(p2.X-p1.X)
				intersections = append(intersections, x)
			}
		}

		// Store back in case it grew
		c.intersectionBuf = intersections

		sort.Float64s(intersections)

		for i := 0; i+1 < len(intersections); i += 2 {
			xStart := int(math.Floor(intersections[i]))
			xEnd := int(math.Floor(intersections[i+1]))
			for x := xStart; x <= xEnd; x++ {
				c.setPixel(x, y, col)
			}
		}
	}
}

// maxChunkSize is the maximum bytes to write at once. 1400 bytes keeps a
// chunk plus SSH and TCP headers inside a typical 1500-byte MTU.
const maxChunkSize = 1400

// shade converts a translucent pixel into the opaque colour shown on a
// black background, quantised to alphaLevels steps.
func shade(p color.NRGBA) rgb {
	level := int(p.A) * (alphaLevels - 1) / 255
	if level == 0 {
		return rgb{}
	}
	scale := func(v uint8) uint8 {
		return uint8(int(v) * level / (alphaLevels - 1))
	}
	return rgb{r: scale(p.R), g: scale(p.G), b: scale(p.B), set: true}
}

// Render outputs the changed cells to the writer using half-block characters.
func (c *Canvas) Render(w io.Writer) {
	c.renderBuf.Reset()

	for row := 0; row < c.termHeight; row++ {
		topOffset := row * 2 * c.termWidth
		bottomOffset := topOffset + c.termWidth
		// Column the terminal cursor sits at after the last write, or -1.
		cursorCol := -1

		for col := 0; col < c.termWidth; col++ {
			idx := row*c.termWidth + col
			cur := cell{
				top:    shade(c.pixels[topOffset+col]),
				bottom: shade(c.pixels[bottomOffset+col]),
			}
			if c.reserved[idx] {
				if c.prev[idx] != cur {
					c.dirty[idx] = true
				}
				continue
			}
			if !c.dirty[idx] && c.prev[idx] == cur {
				continue
			}
			c.prev[idx] = cur
			c.dirty[idx] = false

			if cursorCol != col {
				c.moveCursor(col+1+c.offsetCol, row+1+c.offsetRow)
			}
			c.writeCell(cur)
			cursorCol = col + 1
		}
	}

	clear(c.reserved)

	if c.renderBuf.Len() == 0 {
		return
	}
	c.renderBuf.WriteString(ColorReset)

	// Write output in chunks for optimal network flow
	data := c.renderBuf.String()
	for len(data) > 0 {
		chunk := data
		if len(chunk) > maxChunkSize {
			chunk = data[:maxChunkSize]
		}
		io.WriteString(w, chunk)
		data = data[len(chunk):]
	}
}

func (c *Canvas) moveCursor(col, row int) {
	c.renderBuf.WriteString("\033[")
	c.renderBuf.Write(strconv.AppendInt(c.numBuf[:0], int64(row), 10))
	c.renderBuf.WriteByte(';')
	c.renderBuf.Write(strconv.AppendInt(c.numBuf[:0], int64(col), 10))
	c.renderBuf.WriteByte('H')
}

func (c *Canvas) writeColor(sgr string, v rgb) {
	c.renderBuf.WriteString(sgr)
	c.renderBuf.Write(strconv.AppendInt(c.numBuf[:0], int64(v.r), 10))
	c.renderBuf.WriteByte(';')
	c.renderBuf.Write(strconv.AppendInt(c.numBuf[:0], int64(v.g), 10))
	c.renderBuf.WriteByte(';')
	c.renderBuf.Write(strconv.AppendInt(c.numBuf[:0], int64(v.b), 10))
	c.renderBuf.WriteByte('m')
}

func (c *Canvas) writeCell(cur cell) {
	switch {
	case cur.top.set && cur.bottom.set:
		c.writeColor("\033[38;2;", cur.top)
		c.writeColor("\033[48;2;", cur.bottom)
		c.renderBuf.WriteRune(BlockUpperHalf)
	case cur.top.set:
		c.renderBuf.WriteString("\033[49m")
		c.writeColor("\033[38;2;", cur.top)
		c.renderBuf.WriteRune(BlockUpperHalf)
	case cur.bottom.set:
		c.renderBuf.WriteString("\033[49m")
		c.writeColor("\033[38;2;", cur.bottom)
		c.renderBuf.WriteRune(BlockLowerHalf)
	default:
		c.renderBuf.WriteString(ColorReset)
		c.renderBuf.WriteByte(' ')
	}
}

// RenderBorder draws a box border around the canvas area when the terminal
// exceeds the max render resolution on either axis.
// Draws horizontal borders when there is vertical offset, vertical borders
// when there is horizontal offset, and corners when both are present.
func (c *Canvas) RenderBorder(w io.Writer) {
	hasH := c.offsetCol >= 1 // Room for left/right vertical bars
	hasV := c.offsetRow >= 1 // Room for top/bottom horizontal bars
	if !hasH && !hasV {
		return
	}

	left := c.offsetCol
	right := c.offsetCol + c.termWidth + 1
	top := c.offsetRow
	bottom := c.offsetRow + c.termHeight + 1

	var buf strings.Builder
	buf.WriteString(ColorDim)

	if hasV {
		if hasH {
			MoveCursor(&buf, left, top)
			buf.WriteString("┌" + strings.Repeat("─", c.termWidth) + "┐")
			MoveCursor(&buf, left, bottom)
			buf.WriteString("└" + strings.Repeat("─", c.termWidth) + "┘")
		} else {
			MoveCursor(&buf, c.offsetCol+1, top)
			buf.WriteString(strings.Repeat("─", c.termWidth))
			MoveCursor(&buf, c.offsetCol+1, bottom)
			buf.WriteString(strings.Repeat("─", c.termWidth))
		}
	}

	if hasH {
		startRow := c.offsetRow + 1
		endRow := c.offsetRow + c.termHeight + 1
		for row := startRow; row < endRow; row++ {
			MoveCursor(&buf, left, row)
			buf.WriteString("│")
			MoveCursor(&buf, right, row)
			buf.WriteString("│")
		}
	}

	buf.WriteString(ColorReset)
	io.WriteString(w, buf.String())
}

// LogicalWidth returns the logical width.
func (c *Canvas) LogicalWidth() float64 {
	return c.logicalWidth
}

// LogicalHeight returns the logical height.
func (c *Canvas) LogicalHeight() float64 {
	return c.logicalHeight
}

// TerminalWidth returns the actual terminal column count.
func (c *Canvas) TerminalWidth() int {
	return c.termWidth
}

// TerminalHeight returns the actual terminal row count.
func (c *Canvas) TerminalHeight() int {
	return c.termHeight
}

// TerminalToLogical converts a 1-based terminal position (col, row) to the
// logical coordinates of the cell's centre.
func (c *Canvas) TerminalToLogical(col, row int) (x, y float64) {
	if c.scaleX > 0 {
		x = (float64(col-1) + 0.5) / c.scaleX
	}
	if c.scaleY > 0 {
		y = (float64(row-1)*2 + 1) / c.scaleY
	}
	return x, y
}

// BorrowPoints returns a reusable slice of Points with the given length.
// The returned slice is only valid until the next call to BorrowPoints.
// This avoids per-frame allocations for polygon rendering.
// Thread-safe as long as each goroutine uses its own Canvas instance.
func (c *Canvas) BorrowPoints(n int) []Point {
	if cap(c.polygonBuf) < n {
		c.polygonBuf = make([]Point, n)
	}
	return c.polygonBuf[:n]
}
