package desktop

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/tomz197/termfolio/internal/input"
	"github.com/tomz197/termfolio/internal/ui"
)

func newView(t *testing.T, opts Options) *View {
	t.Helper()
	v, err := New(opts)
	if err != nil {
		t.Fatal(err)
	}
	v.Resize(1280, 800)
	return v
}

func typeKeys(v *View, s string) {
	for _, r := range s {
		v.Key(input.Event{Key: input.KeyRune, Rune: r})
	}
}

func TestPaletteNavigate(t *testing.T) {
	v := newView(t, Options{})

	v.Key(input.Event{Key: input.KeyCtrlK})
	if !v.Palette().IsOpen() {
		t.Fatal("ctrl+k did not open the palette")
	}
	typeKeys(v, "skills")
	v.Key(input.Event{Key: input.KeyEnter})

	if v.Palette().IsOpen() {
		t.Error("palette still open")
	}
	start, _ := v.doc.SectionStart("skills")
	if want := v.clamp(float64(start * lineHeight)); v.ScrollTarget() != want || want == 0 {
		t.Errorf("scroll target = %v, want %v", v.ScrollTarget(), want)
	}
}

func TestScrollEasesToTarget(t *testing.T) {
	v := newView(t, Options{})
	v.Navigate("contact")

	now := time.Now()
	for i := 0; i < 100; i++ {
		v.Update(now)
	}
	if v.scroll != v.ScrollTarget() {
		t.Errorf("scroll = %v, target %v", v.scroll, v.ScrollTarget())
	}
}

func TestAlertGoesToHost(t *testing.T) {
	var got string
	v := newView(t, Options{Alert: func(msg string) { got = msg }})

	v.Key(input.Event{Key: input.KeyCtrlK})
	typeKeys(v, "theme")
	v.Key(input.Event{Key: input.KeyEnter})
	if got != "Theme toggle coming soon!" {
		t.Errorf("alert = %q", got)
	}
}

func TestOpenLinkFallback(t *testing.T) {
	v := newView(t, Options{OpenURL: func(string) error { return errors.New("no browser") }})

	v.OpenLink(ui.GitHubURL)
	f := v.Frame()
	found := false
	for _, txt := range f.Page {
		if strings.Contains(txt.S, ui.GitHubURL) {
			found = true
		}
	}
	if !found {
		t.Error("failed link not shown in the footer")
	}
}

func TestClickOutsidePaletteCloses(t *testing.T) {
	v := newView(t, Options{})
	v.Palette().Open()

	v.Click(2, 790)
	if v.Palette().IsOpen() {
		t.Error("palette still open")
	}
}

func TestClickPaletteResult(t *testing.T) {
	v := newView(t, Options{})
	v.Palette().Open()

	box, _, _ := v.paletteGeometry()
	// Second row: "Go to About".
	v.Click(float64(box.X)+20, float64(box.Y)+paletteQueryRow+paletteRow+4)
	if v.Palette().IsOpen() {
		t.Fatal("palette still open")
	}
	start, _ := v.doc.SectionStart("about")
	if want := v.clamp(float64(start * lineHeight)); v.ScrollTarget() != want {
		t.Errorf("scroll target = %v, want %v", v.ScrollTarget(), want)
	}
}

func TestHamburgerOnNarrowWindow(t *testing.T) {
	v := newView(t, Options{})
	v.Resize(300, 600)
	if !v.nav.Collapsed {
		t.Fatal("nav not collapsed at 300px")
	}

	h := v.nav.Hamburger
	v.Click(float64((h.Col-1)*GlyphWidth+1), 10)
	if !v.Menu().Open() {
		t.Fatal("menu did not open")
	}

	f := v.Frame()
	if len(f.Boxes) == 0 || len(f.Overlay) != len(v.nav.Dropdown) {
		t.Errorf("dropdown not drawn: %d boxes, %d overlay texts", len(f.Boxes), len(f.Overlay))
	}

	v.Key(input.Event{Key: input.KeyEscape})
	if v.Menu().Open() {
		t.Error("escape did not close the menu")
	}
}

func TestRevealFadesInSections(t *testing.T) {
	v := newView(t, Options{})
	t0 := time.Now()
	v.Update(t0)

	first := v.doc.Sections[0].Start
	alphaOf := func(f Frame) float64 {
		for _, txt := range f.Page {
			if txt.S == v.doc.Lines[first].Text {
				return txt.Alpha
			}
		}
		return -1
	}

	v.Update(t0.Add(ui.RevealDuration / 2))
	mid := alphaOf(v.Frame())
	v.Update(t0.Add(2 * ui.RevealDuration))
	end := alphaOf(v.Frame())
	if !(mid > 0 && mid < 1) || end != 1 {
		t.Errorf("alpha mid %v end %v", mid, end)
	}
}

func TestCtrlCQuits(t *testing.T) {
	v := newView(t, Options{})
	v.Key(input.Event{Key: input.KeyCtrlC})
	if !v.Done() {
		t.Error("ctrl+c did not quit")
	}
}

func TestWheelAndKeysClamp(t *testing.T) {
	v := newView(t, Options{})

	v.Wheel(1)
	if v.ScrollTarget() != 0 {
		t.Errorf("scrolled above the top: %v", v.ScrollTarget())
	}
	v.Key(input.Event{Key: input.KeyEnd})
	end := v.ScrollTarget()
	v.Wheel(-100)
	if v.ScrollTarget() != end {
		t.Errorf("scrolled past the end: %v > %v", v.ScrollTarget(), end)
	}
}
