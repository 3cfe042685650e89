package draw

import (
	"bytes"
	"image/color"
	"strings"
	"testing"
)

var cyan = color.NRGBA{R: 0, G: 242, B: 255, A: 255}

// newTestCanvas maps an 80x80 logical surface onto 10x5 cells (10x10 sub-pixels).
func newTestCanvas() *Canvas {
	return NewScaledCanvas(10, 5, 80, 80)
}

func TestFillCircleSmallIsSinglePixel(t *testing.T) {
	c := newTestCanvas()
	c.FillCircle(40, 40, 2, cyan)

	if got := c.At(5, 5); got != cyan {
		t.Fatalf("pixel (5,5) = %v, want %v", got, cyan)
	}
	set := 0
	for y := 0; y < 10; y++ {
		for x := 0; x < 10; x++ {
			if c.At(x, y).A > 0 {
				set++
			}
		}
	}
	if set != 1 {
		t.Errorf("%d pixels set, want 1", set)
	}
}

func TestFillCircleLarge(t *testing.T) {
	c := newTestCanvas()
	c.FillCircle(40, 40, 16, cyan)

	if c.At(5, 5).A == 0 {
		t.Error("centre pixel not filled")
	}
	if c.At(0, 0).A != 0 {
		t.Error("corner pixel filled by a centred circle")
	}
}

func TestStrokeLineKeepsMostOpaque(t *testing.T) {
	c := newTestCanvas()
	strong := cyan
	strong.A = 200
	weak := cyan
	weak.A = 50

	c.StrokeLine(0, 0, 79, 0, 1, strong)
	c.StrokeLine(0, 0, 79, 0, 1, weak)

	for x := 0; x < 10; x++ {
		if got := c.At(x, 0).A; got != 200 {
			t.Fatalf("pixel (%d,0) alpha = %d, want 200", x, got)
		}
	}
	c.Clear()
	if c.At(3, 0).A != 0 {
		t.Error("Clear left pixels behind")
	}
}

func TestStrokeCircleLeavesCentreEmpty(t *testing.T) {
	c := newTestCanvas()
	c.StrokeCircle(40, 40, 24, cyan)
	if c.At(5, 5).A != 0 {
		t.Error("outline filled the centre")
	}
	if c.At(8, 5).A == 0 && c.At(2, 5).A == 0 {
		t.Error("outline missing on the horizontal axis")
	}
}

func TestRenderOnlyWritesChanges(t *testing.T) {
	c := newTestCanvas()
	var buf bytes.Buffer

	c.Render(&buf)
	if buf.Len() == 0 {
		t.Fatal("first render wrote nothing")
	}

	buf.Reset()
	c.Render(&buf)
	if buf.Len() != 0 {
		t.Fatalf("unchanged frame wrote %q", buf.String())
	}

	c.FillCircle(4, 4, 1, cyan)
	buf.Reset()
	c.Render(&buf)
	out := buf.String()
	if !strings.Contains(out, "\033[1;1H") {
		t.Errorf("changed cell not addressed: %q", out)
	}
	if !strings.ContainsRune(out, BlockUpperHalf) {
		t.Errorf("expected an upper half block in %q", out)
	}
	if strings.Contains(out, "\033[2;1H") {
		t.Errorf("unchanged row repainted: %q", out)
	}
}

func TestRenderAfterMarkTextDirty(t *testing.T) {
	c := newTestCanvas()
	var buf bytes.Buffer
	c.Render(&buf)

	c.MarkTextDirty(3, 2, 2)
	buf.Reset()
	c.Render(&buf)

	out := buf.String()
	if !strings.Contains(out, "\033[2;3H") {
		t.Errorf("dirty text cells not repainted: %q", out)
	}
	// Adjacent cells share one cursor move.
	if strings.Contains(out, "\033[2;4H") {
		t.Errorf("redundant cursor move: %q", out)
	}
}

func TestResizeReallocates(t *testing.T) {
	c := newTestCanvas()
	c.Resize(20, 8)
	c.SetLogicalSize(160, 128)

	if c.TerminalWidth() != 20 || c.TerminalHeight() != 8 {
		t.Fatalf("size = %dx%d", c.TerminalWidth(), c.TerminalHeight())
	}
	c.FillCircle(159, 127, 1, cyan)
	if c.At(19, 15).A == 0 {
		t.Error("bottom-right pixel not drawn after resize")
	}
}

func TestTerminalToLogical(t *testing.T) {
	c := newTestCanvas()
	x, y := c.TerminalToLogical(1, 1)
	if x != 4 || y != 8 {
		t.Errorf("TerminalToLogical(1,1) = (%v, %v), want (4, 8)", x, y)
	}
}

func TestRenderBorderOnlyWithOffset(t *testing.T) {
	c := newTestCanvas()
	var buf bytes.Buffer
	c.RenderBorder(&buf)
	if buf.Len() != 0 {
		t.Errorf("border drawn without offset: %q", buf.String())
	}

	c.SetOffset(2, 1)
	c.RenderBorder(&buf)
	if !strings.Contains(buf.String(), "┌") || !strings.Contains(buf.String(), "│") {
		t.Errorf("border missing corners or sides: %q", buf.String())
	}
}

func TestShadeQuantises(t *testing.T) {
	if got := shade(color.NRGBA{R: 255, A: 10}); got.set {
		t.Errorf("nearly transparent pixel shaded as %+v", got)
	}
	full := shade(cyan)
	if !full.set || full.g != 242 || full.b != 255 {
		t.Errorf("opaque pixel shaded as %+v", full)
	}
}
