// Package desktop lays out the portfolio for a pixel window. It owns the
// page state (scroll, palette, menu, reveal, cursor) and produces a display
// list each frame; the window host only draws it.
package desktop

import (
	"image/color"
	"math"
	"time"

	"github.com/tomz197/termfolio/internal/input"
	"github.com/tomz197/termfolio/internal/page"
	"github.com/tomz197/termfolio/internal/particle"
	"github.com/tomz197/termfolio/internal/physics"
	"github.com/tomz197/termfolio/internal/ui"
)

// Text metrics of the window's bitmap font.
const (
	GlyphWidth  = 6
	GlyphHeight = 16
)

const (
	lineHeight    = 18
	navHeight     = 32
	footerHeight  = 24
	margin        = 24
	maxColumns    = 90
	wheelPixels   = 3 * lineHeight
	scrollEase    = 0.25 // Fraction of the remaining distance covered per update
	toastDuration = 8 * time.Second

	paletteMaxWidth = 480
	paletteRow      = 24
	paletteQueryRow = 32

	// Cursor marker radii
	DotRadius     = 4
	OutlineRadius = 20
)

// Footer hint shown when no notice is active.
const footerHint = "Ctrl+K commands · wheel scroll"

// Palette colours.
var (
	backdrop   = color.NRGBA{R: 0x0a, G: 0x0a, B: 0x0f, A: 0xf0}
	panel      = color.NRGBA{R: 0x11, G: 0x11, B: 0x1a, A: 0xf8}
	selectedBg = color.NRGBA{R: 0x00, G: 0xf2, B: 0xff, A: 0x40}
)

// Text is a string drawn with its top-left corner at (X, Y).
type Text struct {
	X, Y  int
	S     string
	Alpha float64 // 1 is fully opaque
}

// Box is a filled rectangle with an optional outline.
type Box struct {
	X, Y, W, H float32
	Fill       color.NRGBA
	Stroke     color.NRGBA // Zero alpha means no outline
}

// Frame is one display list. Page text is drawn first, then boxes, then
// overlay text.
type Frame struct {
	Page    []Text
	Boxes   []Box
	Overlay []Text
}

// Options configures a View.
type Options struct {
	Content *page.Content
	OpenURL func(url string) error // nil shows the URL in the footer
	Alert   func(message string)   // nil shows the message in the footer
}

// View is the desktop page state.
type View struct {
	content *page.Content
	doc     page.Document
	nav     page.Nav

	width, height float64
	scroll        float64 // Current scroll offset in pixels
	target        float64 // Scroll offset being eased towards

	palette *ui.Palette
	menu    ui.Menu
	reveal  *ui.Reveal
	cursor  ui.Cursor

	openURL    func(string) error
	alert      func(string)
	toast      string
	toastUntil time.Time
	quit       bool
	now        time.Time
}

// New creates a view. Call Resize before the first frame.
func New(opts Options) (*View, error) {
	content := opts.Content
	if content == nil {
		c, err := page.Default()
		if err != nil {
			return nil, err
		}
		content = c
	}
	return &View{
		content: content,
		palette: ui.NewPalette(ui.DefaultCommands()),
		reveal:  ui.NewReveal(len(content.Sections)),
		openURL: opts.OpenURL,
		alert:   opts.Alert,
		now:     time.Now(),
	}, nil
}

// Resize lays the page out for a window of w x h pixels.
func (v *View) Resize(w, h int) {
	if float64(w) == v.width && float64(h) == v.height {
		return
	}
	v.width, v.height = float64(w), float64(h)
	cols := min(max((w-2*margin)/GlyphWidth, 20), maxColumns)
	v.doc = page.Layout(v.content, cols)
	v.nav = page.LayoutNav(v.content, max(w/GlyphWidth, 1))
	v.target = v.clamp(v.target)
	v.scroll = v.clamp(v.scroll)
}

// Size returns the window size the view is laid out for.
func (v *View) Size() (w, h float64) { return v.width, v.height }

// Done reports whether the user asked to quit.
func (v *View) Done() bool { return v.quit }

// Cursor returns the cursor follower.
func (v *View) Cursor() *ui.Cursor { return &v.cursor }

// Palette returns the command palette.
func (v *View) Palette() *ui.Palette { return v.palette }

// Menu returns the mobile menu toggle.
func (v *View) Menu() *ui.Menu { return &v.menu }

// ScrollTarget is the offset the page is scrolling to.
func (v *View) ScrollTarget() float64 { return v.target }

func (v *View) viewport() float64 {
	return max(v.height-navHeight-footerHeight, 0)
}

func (v *View) clamp(y float64) float64 {
	content := float64(len(v.doc.Lines)*lineHeight + 2*lineHeight)
	return max(0, min(y, content-v.viewport()))
}

// Update advances scrolling and the scroll reveal to now.
func (v *View) Update(now time.Time) {
	v.now = now

	d := v.target - v.scroll
	if math.Abs(d) < 0.5 {
		v.scroll = v.target
	} else {
		v.scroll += d * scrollEase
	}

	top := v.scroll
	bottom := top + v.viewport()
	for i, s := range v.doc.Sections {
		if v.reveal.Observed(i) {
			start := lineY(s.Start) - navHeight
			end := lineY(s.End) - navHeight
			v.reveal.Observe(i, ui.IntersectionRatio(start, end, top, bottom), now)
		}
	}
}

// Navigate scrolls the given section to the top of the page area.
func (v *View) Navigate(sectionID string) {
	start, ok := v.doc.SectionStart(sectionID)
	if !ok {
		return
	}
	v.target = v.clamp(float64(start * lineHeight))
}

// OpenLink opens url in the browser or shows it in the footer.
func (v *View) OpenLink(url string) {
	if v.openURL != nil && v.openURL(url) == nil {
		return
	}
	v.showToast("Open " + url)
}

// Alert shows message in a dialog or, without one, in the footer.
func (v *View) Alert(message string) {
	if v.alert != nil {
		v.alert(message)
		return
	}
	v.showToast(message)
}

func (v *View) showToast(msg string) {
	v.toast = msg
	v.toastUntil = v.now.Add(toastDuration)
}

// Key handles a key press.
func (v *View) Key(ev input.Event) {
	if ev.Key == input.KeyCtrlC {
		v.quit = true
		return
	}
	if pe, ok := ui.PaletteKey(ev); ok && v.palette.Handle(pe, v) {
		return
	}
	if v.palette.IsOpen() {
		return
	}

	step := max(v.viewport()-lineHeight, lineHeight)
	switch ev.Key {
	case input.KeyUp:
		v.ScrollBy(-lineHeight)
	case input.KeyDown:
		v.ScrollBy(lineHeight)
	case input.KeyPageUp:
		v.ScrollBy(-step)
	case input.KeyPageDown:
		v.ScrollBy(step)
	case input.KeyHome:
		v.target = 0
	case input.KeyEnd:
		v.target = v.clamp(math.Inf(1))
	case input.KeyEscape:
		v.menu.LinkClicked()
	case input.KeyRune:
		if ev.Rune == ' ' {
			v.ScrollBy(step)
		}
	}
}

// ScrollBy moves the scroll target by dy pixels.
func (v *View) ScrollBy(dy float64) {
	if v.palette.IsOpen() {
		return
	}
	v.target = v.clamp(v.target + dy)
}

// Wheel scrolls by wheel notches; positive dy scrolls up.
func (v *View) Wheel(dy float64) {
	v.ScrollBy(-dy * wheelPixels)
}

// Move records a pointer move.
func (v *View) Move(x, y float64) {
	v.cursor.Move(x, y, v.now)
}

// Click handles a left click at window pixel (x, y).
func (v *View) Click(x, y float64) {
	v.cursor.Move(x, y, v.now)

	if v.palette.IsOpen() {
		box, first, n := v.paletteGeometry()
		if !inside(box, x, y) {
			v.palette.Handle(ui.Event{Kind: ui.EventClickOutside}, v)
			return
		}
		rel := y - float64(box.Y) - paletteQueryRow
		if row := int(rel) / paletteRow; rel >= 0 && row < n {
			v.palette.Handle(ui.Event{Kind: ui.EventClickResult, Index: first + row}, v)
		}
		return
	}

	col, row := v.cell(x, y)
	id, hamburger := v.nav.Hit(col, row, v.menu.Open())
	if hamburger {
		v.menu.Toggle()
		return
	}
	if id != "" {
		v.menu.LinkClicked()
		v.Navigate(id)
		return
	}

	if i, ok := v.lineAt(y); ok && v.doc.Lines[i].URL != "" && x >= v.left() {
		v.OpenLink(v.doc.Lines[i].URL)
		return
	}

	if y >= v.height-footerHeight && x < float64(margin+len([]rune(footerHint))*GlyphWidth) {
		v.palette.Open()
	}
}

func inside(b Box, x, y float64) bool {
	return physics.PointInRect(x, y, float64(b.X), float64(b.Y), float64(b.W), float64(b.H))
}

// cell maps a pixel in the nav area to the 1-based cell grid the nav bar is
// laid out on. The first row spans the nav bar, later rows are dropdown lines.
func (v *View) cell(x, y float64) (col, row int) {
	col = int(x)/GlyphWidth + 1
	if y < navHeight {
		return col, 1
	}
	return col, 2 + int(y-navHeight)/lineHeight
}

// left is the x of the text column.
func (v *View) left() float64 {
	return math.Floor((v.width - float64(v.doc.Width*GlyphWidth)) / 2)
}

// lineY is the unscrolled y of document line i.
func lineY(i int) float64 {
	return float64(navHeight + lineHeight + i*lineHeight)
}

// lineAt returns the document line under window y.
func (v *View) lineAt(y float64) (int, bool) {
	if y < navHeight || y >= v.height-footerHeight {
		return 0, false
	}
	i := int(math.Floor((y + v.scroll - lineY(0)) / lineHeight))
	return i, i >= 0 && i < len(v.doc.Lines)
}

// paletteGeometry returns the palette panel, the first listed result and
// how many results are listed.
func (v *View) paletteGeometry() (Box, int, int) {
	w := min(v.width-2*margin, paletteMaxWidth)
	maxRows := max(int((v.height*0.6-paletteQueryRow)/paletteRow), 1)
	results := len(v.palette.Results())
	n := min(results, maxRows)
	first := 0
	if sel := v.palette.Selected(); n > 0 && sel >= n {
		first = sel - n + 1
	}
	h := paletteQueryRow + max(n, 1)*paletteRow + 8
	box := Box{
		X:      float32(math.Floor((v.width - w) / 2)),
		Y:      float32(math.Floor(v.height / 5)),
		W:      float32(w),
		H:      float32(h),
		Fill:   panel,
		Stroke: particle.Accent,
	}
	return box, first, n
}

// Frame builds the display list for the current state.
func (v *View) Frame() Frame {
	var f Frame
	v.pageText(&f)
	v.navText(&f)
	v.footerText(&f)
	if v.palette.IsOpen() {
		v.paletteOverlay(&f)
	}
	return f
}

func (v *View) pageText(f *Frame) {
	left := int(v.left())
	top := float64(navHeight)
	bottom := v.height - footerHeight

	for i, line := range v.doc.Lines {
		if line.Text == "" {
			continue
		}
		alpha, offset := 1.0, 0.0
		if line.Section >= 0 {
			alpha, offset = v.reveal.State(line.Section, v.now)
		}
		if alpha <= 0 {
			continue
		}
		y := lineY(i) - v.scroll + offset
		if y < top || y+GlyphHeight > bottom {
			continue
		}
		f.Page = append(f.Page, Text{X: left, Y: int(y), S: line.Text, Alpha: alpha})
	}
}

func (v *View) navText(f *Frame) {
	textY := (navHeight - GlyphHeight) / 2
	f.Page = append(f.Page, Text{X: (v.nav.Brand.Col - 1) * GlyphWidth, Y: textY, S: v.nav.Brand.Title, Alpha: 1})

	if !v.nav.Collapsed {
		for _, it := range v.nav.Items {
			f.Page = append(f.Page, Text{X: (it.Col - 1) * GlyphWidth, Y: textY, S: it.Title, Alpha: 0.8})
		}
		return
	}

	glyph := page.Hamburger
	if v.menu.HamburgerActive() {
		glyph = "×"
	}
	f.Page = append(f.Page, Text{X: (v.nav.Hamburger.Col - 1) * GlyphWidth, Y: textY, S: glyph, Alpha: 1})

	if !v.menu.Open() || len(v.nav.Dropdown) == 0 {
		return
	}
	first := v.nav.Dropdown[0]
	f.Boxes = append(f.Boxes, Box{
		X:      float32((first.Col - 2) * GlyphWidth),
		Y:      navHeight,
		W:      float32((first.Width + 2) * GlyphWidth),
		H:      float32(len(v.nav.Dropdown) * lineHeight),
		Fill:   backdrop,
		Stroke: particle.Accent,
	})
	for _, it := range v.nav.Dropdown {
		y := navHeight + (it.Row-2)*lineHeight + (lineHeight-GlyphHeight)/2
		f.Overlay = append(f.Overlay, Text{X: (it.Col - 1) * GlyphWidth, Y: y, S: it.Title, Alpha: 1})
	}
}

func (v *View) footerText(f *Frame) {
	msg := footerHint
	alpha := 0.6
	if v.toast != "" && v.now.Before(v.toastUntil) {
		msg, alpha = v.toast, 1
	}
	y := int(v.height) - footerHeight + (footerHeight-GlyphHeight)/2
	f.Page = append(f.Page, Text{X: margin, Y: y, S: msg, Alpha: alpha})
}

func (v *View) paletteOverlay(f *Frame) {
	f.Boxes = append(f.Boxes, Box{W: float32(v.width), H: float32(v.height), Fill: color.NRGBA{A: 0x99}})

	box, first, n := v.paletteGeometry()
	f.Boxes = append(f.Boxes, box)

	x := int(box.X) + 12
	y := int(box.Y)
	f.Overlay = append(f.Overlay, Text{X: x, Y: y + (paletteQueryRow-GlyphHeight)/2, S: "> " + v.palette.Query() + "_", Alpha: 1})

	results := v.palette.Results()
	if len(results) == 0 {
		f.Overlay = append(f.Overlay, Text{X: x, Y: y + paletteQueryRow + (paletteRow-GlyphHeight)/2, S: "No commands found", Alpha: 0.6})
		return
	}
	for i := 0; i < n; i++ {
		idx := first + i
		rowY := y + paletteQueryRow + i*paletteRow
		if idx == v.palette.Selected() {
			f.Boxes = append(f.Boxes, Box{X: box.X + 4, Y: float32(rowY), W: box.W - 8, H: paletteRow, Fill: selectedBg})
		}
		f.Overlay = append(f.Overlay, Text{X: x, Y: rowY + (paletteRow-GlyphHeight)/2, S: results[idx].Name, Alpha: 1})
	}
}

var _ ui.Actions = (*View)(nil)
