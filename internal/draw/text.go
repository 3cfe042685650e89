package draw

// Span is a run of text at a 1-based canvas position. Text may carry escape
// sequences (such as OSC 8 links); Width is its visible width in cells.
type Span struct {
	Col   int
	Row   int
	Style string
	Text  string
	Width int
}

// TextLayer keeps text overlays in sync with a diffed Canvas. Each frame the
// caller Puts every span it wants visible, calls Commit before Canvas.Render
// and Write after it. Only rows whose spans changed are written again, and
// cells that no longer carry text are handed back to the canvas.
type TextLayer struct {
	prev      []Span
	next      []Span
	prevSet   map[Span]struct{}
	dirtyRows map[int]bool
	all       bool
}

// NewTextLayer creates an empty layer.
func NewTextLayer() *TextLayer {
	return &TextLayer{
		prevSet:   make(map[Span]struct{}),
		dirtyRows: make(map[int]bool),
		all:       true,
	}
}

// Invalidate makes the next Write emit every span, e.g. after the terminal
// was cleared.
func (l *TextLayer) Invalidate() {
	l.all = true
}

// Put queues text for this frame. Later spans are drawn over earlier ones.
func (l *TextLayer) Put(col, row int, style, text string) {
	l.PutWidth(col, row, style, text, TextWidth(text))
}

// PutWidth is Put with the visible width given by the caller.
func (l *TextLayer) PutWidth(col, row int, style, text string, width int) {
	if width <= 0 {
		return
	}
	l.next = append(l.next, Span{Col: col, Row: row, Style: style, Text: text, Width: width})
}

// Commit reserves this frame's text cells on c and marks cells whose text
// went away for repainting. Call it before c.Render.
func (l *TextLayer) Commit(c *Canvas) {
	clear(l.dirtyRows)

	nextSet := make(map[Span]struct{}, len(l.next))
	for _, s := range l.next {
		nextSet[s] = struct{}{}
		c.Reserve(s.Col, s.Row, s.Width)
		if _, ok := l.prevSet[s]; !ok {
			l.dirtyRows[s.Row] = true
		}
	}
	for _, s := range l.prev {
		if _, ok := nextSet[s]; !ok {
			c.MarkTextDirty(s.Col, s.Row, s.Width)
			l.dirtyRows[s.Row] = true
		}
	}
	l.prevSet = nextSet
}

// Write emits the spans of every changed row, in the order they were put.
// Call it after c.Render.
func (l *TextLayer) Write(cw *ChunkWriter) {
	for _, s := range l.next {
		if !l.all && !l.dirtyRows[s.Row] {
			continue
		}
		cw.WriteStyledAt(s.Col, s.Row, s.Style, s.Text)
	}
	l.all = false
	l.prev, l.next = l.next, l.prev[:0]
}
