package ui

// PaletteState is either closed or open.
type PaletteState int

const (
	PaletteClosed PaletteState = iota
	PaletteOpen
)

// EventKind enumerates the inputs the palette reacts to. Hosts translate
// their key and pointer events into these.
type EventKind int

const (
	EventShortcut     EventKind = iota // Ctrl+K / Cmd+K
	EventEscape                        // Escape key
	EventRune                          // Typed character, see Event.Rune
	EventBackspace                     // Delete last query character
	EventUp                            // Move selection up
	EventDown                          // Move selection down
	EventEnter                         // Run the selected result
	EventClickResult                   // Click on result Event.Index
	EventClickOutside                  // Click on the backdrop
)

// Event is a host-independent palette input.
type Event struct {
	Kind  EventKind
	Rune  rune
	Index int
}

// Palette is the command palette state machine.
type Palette struct {
	commands []Command
	state    PaletteState
	query    []rune
	results  []Command
	selected int
}

// NewPalette creates a closed palette over cmds.
func NewPalette(cmds []Command) *Palette {
	return &Palette{commands: cmds}
}

// Open shows the palette with an empty query and every command listed.
func (p *Palette) Open() {
	p.state = PaletteOpen
	p.query = p.query[:0]
	p.results = Filter(p.commands, "")
	p.selected = 0
}

// Close hides the palette.
func (p *Palette) Close() {
	p.state = PaletteClosed
}

// IsOpen reports whether the palette is shown.
func (p *Palette) IsOpen() bool { return p.state == PaletteOpen }

// State returns the current state.
func (p *Palette) State() PaletteState { return p.state }

// Query returns the typed filter text.
func (p *Palette) Query() string { return string(p.query) }

// Results returns the commands matching the current query.
func (p *Palette) Results() []Command { return p.results }

// Selected returns the index of the highlighted result.
func (p *Palette) Selected() int { return p.selected }

// SetQuery replaces the filter text and refilters.
func (p *Palette) SetQuery(q string) {
	p.query = append(p.query[:0], []rune(q)...)
	p.refilter()
}

func (p *Palette) refilter() {
	p.results = Filter(p.commands, string(p.query))
	p.selected = 0
}

// Run executes result i and closes the palette. It returns false when the
// palette is closed or i is out of range.
func (p *Palette) Run(i int, a Actions) bool {
	if p.state != PaletteOpen || i < 0 || i >= len(p.results) {
		return false
	}
	p.results[i].Run(a)
	p.Close()
	return true
}

// Handle applies ev and reports whether the palette consumed it. While
// closed only the shortcut is consumed.
func (p *Palette) Handle(ev Event, a Actions) bool {
	if p.state == PaletteClosed {
		if ev.Kind == EventShortcut {
			p.Open()
			return true
		}
		return false
	}

	switch ev.Kind {
	case EventShortcut:
		p.Open()
	case EventEscape, EventClickOutside:
		p.Close()
	case EventRune:
		p.query = append(p.query, ev.Rune)
		p.refilter()
	case EventBackspace:
		if len(p.query) > 0 {
			p.query = p.query[:len(p.query)-1]
			p.refilter()
		}
	case EventUp:
		if p.selected > 0 {
			p.selected--
		}
	case EventDown:
		if p.selected < len(p.results)-1 {
			p.selected++
		}
	case EventEnter:
		p.Run(p.selected, a)
	case EventClickResult:
		p.Run(ev.Index, a)
	}
	return true
}
