package ui

import (
	"math"
	"testing"
	"time"

	"github.com/tomz197/termfolio/internal/input"
)

type recordedActions struct {
	navigated []string
	opened    []string
	alerts    []string
}

func (r *recordedActions) Navigate(id string)  { r.navigated = append(r.navigated, id) }
func (r *recordedActions) OpenLink(url string) { r.opened = append(r.opened, url) }
func (r *recordedActions) Alert(msg string)    { r.alerts = append(r.alerts, msg) }

func TestFilterGit(t *testing.T) {
	got := Filter(DefaultCommands(), "git")
	if len(got) != 1 || got[0].Name != "View GitHub" {
		t.Fatalf("Filter(git) = %+v, want only View GitHub", got)
	}
}

func TestFilter(t *testing.T) {
	cmds := DefaultCommands()
	tests := []struct {
		query string
		want  int
	}{
		{"", 9},
		{"GO TO", 5},
		{"view", 2},
		{"theme", 1},
		{"zzz", 0},
	}
	for _, tt := range tests {
		if got := len(Filter(cmds, tt.query)); got != tt.want {
			t.Errorf("Filter(%q) returned %d commands, want %d", tt.query, got, tt.want)
		}
	}
}

func TestCommandRun(t *testing.T) {
	var a recordedActions
	for _, c := range DefaultCommands() {
		c.Run(&a)
	}
	if len(a.navigated) != 6 || a.navigated[5] != "contact" {
		t.Errorf("navigated = %v", a.navigated)
	}
	if len(a.opened) != 2 || a.opened[0] != GitHubURL || a.opened[1] != LinkedInURL {
		t.Errorf("opened = %v", a.opened)
	}
	if len(a.alerts) != 1 || a.alerts[0] != "Theme toggle coming soon!" {
		t.Errorf("alerts = %v", a.alerts)
	}

	// A missing host is a no-op.
	DefaultCommands()[0].Run(nil)
}

func TestPaletteLifecycle(t *testing.T) {
	var a recordedActions
	p := NewPalette(DefaultCommands())

	if p.Handle(Event{Kind: EventRune, Rune: 'x'}, &a) {
		t.Fatal("closed palette consumed a key")
	}
	if !p.Handle(Event{Kind: EventShortcut}, &a) || !p.IsOpen() {
		t.Fatal("shortcut did not open the palette")
	}
	if len(p.Results()) != 9 {
		t.Errorf("open palette lists %d commands", len(p.Results()))
	}

	for _, r := range "git" {
		p.Handle(Event{Kind: EventRune, Rune: r}, &a)
	}
	if p.Query() != "git" || len(p.Results()) != 1 {
		t.Fatalf("query %q gave %d results", p.Query(), len(p.Results()))
	}

	p.Handle(Event{Kind: EventEnter}, &a)
	if p.IsOpen() {
		t.Error("palette stayed open after running a command")
	}
	if len(a.opened) != 1 || a.opened[0] != GitHubURL {
		t.Errorf("opened = %v", a.opened)
	}
}

func TestPaletteReopenClearsQuery(t *testing.T) {
	p := NewPalette(DefaultCommands())
	p.Open()
	p.SetQuery("edu")
	p.Close()
	p.Open()
	if p.Query() != "" || len(p.Results()) != 9 || p.Selected() != 0 {
		t.Errorf("reopened palette kept state: query=%q results=%d", p.Query(), len(p.Results()))
	}
}

func TestPaletteCloseEvents(t *testing.T) {
	for _, kind := range []EventKind{EventEscape, EventClickOutside} {
		p := NewPalette(DefaultCommands())
		p.Open()
		p.Handle(Event{Kind: kind}, nil)
		if p.State() != PaletteClosed {
			t.Errorf("event %d did not close the palette", kind)
		}
	}
}

func TestPaletteSelection(t *testing.T) {
	var a recordedActions
	p := NewPalette(DefaultCommands())
	p.Open()

	p.Handle(Event{Kind: EventUp}, &a)
	if p.Selected() != 0 {
		t.Errorf("selection moved above the first result")
	}
	for range 20 {
		p.Handle(Event{Kind: EventDown}, &a)
	}
	if p.Selected() != 8 {
		t.Errorf("selection = %d, want 8", p.Selected())
	}

	p.Handle(Event{Kind: EventBackspace}, &a)
	p.Handle(Event{Kind: EventEnter}, &a)
	if len(a.alerts) != 1 {
		t.Errorf("last command not run: %+v", a)
	}
}

func TestPaletteClickResult(t *testing.T) {
	var a recordedActions
	p := NewPalette(DefaultCommands())
	p.Open()
	p.SetQuery("about")

	p.Handle(Event{Kind: EventClickResult, Index: 3}, &a)
	if !p.IsOpen() || len(a.navigated) != 0 {
		t.Fatal("out of range click ran a command or closed the palette")
	}
	p.Handle(Event{Kind: EventClickResult, Index: 0}, &a)
	if p.IsOpen() || len(a.navigated) != 1 || a.navigated[0] != "about" {
		t.Errorf("click result: open=%v navigated=%v", p.IsOpen(), a.navigated)
	}
	if p.Run(0, &a) {
		t.Error("Run succeeded on a closed palette")
	}
}

func TestMenu(t *testing.T) {
	var m Menu
	m.Toggle()
	if !m.Open() || !m.HamburgerActive() {
		t.Fatal("toggle did not open both")
	}
	m.Toggle()
	if m.Open() || m.HamburgerActive() {
		t.Fatal("second toggle did not close both")
	}
	m.Toggle()
	m.LinkClicked()
	if m.Open() || m.HamburgerActive() {
		t.Error("link click left the menu open")
	}
	m.LinkClicked()
	if m.Open() {
		t.Error("link click on a closed menu opened it")
	}
}

func TestRevealLifecycle(t *testing.T) {
	r := NewReveal(2)
	t0 := time.Unix(0, 0)

	if op, off := r.State(0, t0); op != 0 || off != RevealOffset {
		t.Fatalf("initial state = %v, %v", op, off)
	}

	r.Observe(0, 0.05, t0)
	if !r.Observed(0) {
		t.Fatal("section revealed below threshold")
	}

	r.Observe(0, 0.1, t0)
	if r.Observed(0) {
		t.Fatal("section still observed after reaching threshold")
	}
	if !r.Animating(t0.Add(300 * time.Millisecond)) {
		t.Error("not animating mid transition")
	}

	mid, midOff := r.State(0, t0.Add(300*time.Millisecond))
	if mid <= 0.5 || mid >= 1 || midOff <= 0 || midOff >= RevealOffset {
		t.Errorf("mid transition state = %v, %v", mid, midOff)
	}

	if op, off := r.State(0, t0.Add(RevealDuration)); op != 1 || off != 0 {
		t.Errorf("final state = %v, %v", op, off)
	}

	// Leaving and re-entering the viewport does not restart the animation.
	r.Observe(0, 1, t0.Add(time.Hour))
	if op, _ := r.State(0, t0.Add(time.Hour)); op != 1 {
		t.Errorf("revealed section faded again: %v", op)
	}

	if op, _ := r.State(1, t0.Add(time.Hour)); op != 0 {
		t.Error("unobserved section became visible")
	}
	if op, off := r.State(7, t0); op != 1 || off != 0 {
		t.Error("unknown section not fully shown")
	}
}

func TestIntersectionRatio(t *testing.T) {
	tests := []struct {
		start, end, vs, ve, want float64
	}{
		{0, 10, 0, 100, 1},
		{90, 110, 0, 100, 0.5},
		{100, 110, 0, 100, 0},
		{5, 5, 0, 100, 0},
		{0, 100, 40, 50, 0.1},
	}
	for _, tt := range tests {
		if got := IntersectionRatio(tt.start, tt.end, tt.vs, tt.ve); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("IntersectionRatio(%v,%v,%v,%v) = %v, want %v", tt.start, tt.end, tt.vs, tt.ve, got, tt.want)
		}
	}
}

func TestEaseOut(t *testing.T) {
	if EaseOut(0) != 0 || EaseOut(1) != 1 {
		t.Fatal("ease-out endpoints wrong")
	}
	prev := 0.0
	for i := 1; i <= 100; i++ {
		x := float64(i) / 100
		y := EaseOut(x)
		if y < prev {
			t.Fatalf("ease-out not monotonic at %v", x)
		}
		if y < x-1e-9 {
			t.Fatalf("ease-out below linear at %v: %v", x, y)
		}
		prev = y
	}
}

func TestCursor(t *testing.T) {
	var c Cursor
	t0 := time.Unix(0, 0)

	if c.Visible() {
		t.Fatal("cursor visible before any move")
	}
	c.Move(100, 50, t0)
	if x, y := c.Outline(t0); x != 100 || y != 50 {
		t.Errorf("first move did not place the outline: %v,%v", x, y)
	}

	c.Move(200, 150, t0)
	if x, y := c.Dot(); x != 200 || y != 150 {
		t.Errorf("dot = %v,%v", x, y)
	}
	if x, y := c.Outline(t0.Add(OutlineDuration / 2)); x != 150 || y != 100 {
		t.Errorf("outline halfway = %v,%v", x, y)
	}
	if c.Settled(t0.Add(OutlineDuration / 2)) {
		t.Error("settled mid animation")
	}
	if x, y := c.Outline(t0.Add(time.Second)); x != 200 || y != 150 || !c.Settled(t0.Add(time.Second)) {
		t.Errorf("outline after animation = %v,%v", x, y)
	}

	// A new move mid animation starts from the outline's current position.
	var d Cursor
	t1 := t0.Add(OutlineDuration / 2)
	d.Move(0, 0, t0)
	d.Move(200, 0, t0)
	d.Move(400, 0, t1)
	if x, _ := d.Outline(t1); x != 100 {
		t.Errorf("restarted outline begins at %v, want 100", x)
	}
}

func TestPaletteKey(t *testing.T) {
	tests := []struct {
		in   input.Event
		want Event
		ok   bool
	}{
		{input.Event{Key: input.KeyCtrlK}, Event{Kind: EventShortcut}, true},
		{input.Event{Key: input.KeyRune, Rune: 'x'}, Event{Kind: EventRune, Rune: 'x'}, true},
		{input.Event{Key: input.KeyDown}, Event{Kind: EventDown}, true},
		{input.Event{Key: input.KeyTab}, Event{}, false},
		{input.Event{Mouse: true, Action: input.MousePress}, Event{}, false},
	}
	for _, tt := range tests {
		got, ok := PaletteKey(tt.in)
		if ok != tt.ok || got != tt.want {
			t.Errorf("PaletteKey(%+v) = %+v, %v", tt.in, got, ok)
		}
	}
}
