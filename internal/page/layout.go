package page

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// cells measures text in terminal columns. Ambiguous-width runes count as
// one column whatever the locale says.
var cells = &runewidth.Condition{StrictEmojiNeutral: true}

// TextWidth returns the number of terminal columns s occupies.
func TextWidth(s string) int {
	return cells.StringWidth(s)
}

// Style tells a renderer how to present a line.
type Style int

const (
	StylePlain Style = iota
	StyleTitle
	StyleTagline
	StyleHeading
	StyleItem
	StyleLink
)

// Line is one row of laid out text.
type Line struct {
	Text    string
	Style   Style
	Section int    // Index into Document.Sections, -1 for the header
	URL     string // Set for StyleLink lines
}

// SectionRange records which lines belong to a section: [Start, End).
type SectionRange struct {
	ID    string
	Title string
	Start int
	End   int
}

// Document is content wrapped to a fixed width.
type Document struct {
	Width    int
	Lines    []Line
	Sections []SectionRange
}

const (
	bullet     = "• "
	linkPrefix = "→ "
	indent     = "  "
)

// Layout word-wraps c into lines of at most width runes. The name and tagline
// come first, then every section separated by a blank line.
func Layout(c *Content, width int) Document {
	if width < 1 {
		width = 1
	}
	d := Document{Width: width}

	add := func(text string, style Style, section int, url string) {
		d.Lines = append(d.Lines, Line{Text: text, Style: style, Section: section, URL: url})
	}

	for _, l := range Wrap(c.Name, width) {
		add(l, StyleTitle, -1, "")
	}
	for _, l := range Wrap(c.Tagline, width) {
		add(l, StyleTagline, -1, "")
	}
	add("", StylePlain, -1, "")

	for i, s := range c.Sections {
		start := len(d.Lines)

		for _, l := range Wrap(strings.ToUpper(s.Title), width) {
			add(l, StyleHeading, i, "")
		}
		add("", StylePlain, i, "")

		for _, p := range s.Paragraphs {
			for _, l := range Wrap(p, width) {
				add(l, StylePlain, i, "")
			}
			add("", StylePlain, i, "")
		}

		if len(s.Items) > 0 {
			for _, item := range s.Items {
				for _, l := range hanging(bullet, item, width) {
					add(l, StyleItem, i, "")
				}
			}
			add("", StylePlain, i, "")
		}

		if len(s.Links) > 0 {
			for _, link := range s.Links {
				for _, l := range hanging(linkPrefix, link.Label+"  "+link.URL, width) {
					add(l, StyleLink, i, link.URL)
				}
			}
			add("", StylePlain, i, "")
		}

		d.Sections = append(d.Sections, SectionRange{
			ID:    s.ID,
			Title: s.Title,
			Start: start,
			End:   len(d.Lines),
		})
	}
	return d
}

// SectionStart returns the first line of the section with the given id.
func (d Document) SectionStart(id string) (int, bool) {
	for _, s := range d.Sections {
		if s.ID == id {
			return s.Start, true
		}
	}
	return 0, false
}

// SectionAt returns the index of the section containing line, or -1.
func (d Document) SectionAt(line int) int {
	if line < 0 || line >= len(d.Lines) {
		return -1
	}
	return d.Lines[line].Section
}

// MaxScroll is the largest top line that still fills a viewport of height rows.
func (d Document) MaxScroll(height int) int {
	if n := len(d.Lines) - height; n > 0 {
		return n
	}
	return 0
}

// hanging wraps text after prefix and indents continuation lines to match.
func hanging(prefix, text string, width int) []string {
	pw := TextWidth(prefix)
	if width <= pw {
		return Wrap(prefix+text, width)
	}
	lines := Wrap(text, width-pw)
	pad := strings.Repeat(" ", pw)
	for i := range lines {
		if i == 0 {
			lines[i] = prefix + lines[i]
		} else {
			lines[i] = pad + lines[i]
		}
	}
	return lines
}

// Wrap breaks s into lines of at most width columns at spaces. Words wider
// than width are split; a single rune wider than width gets a line of its
// own. An empty string yields no lines.
func Wrap(s string, width int) []string {
	if width < 1 {
		width = 1
	}
	words := strings.Fields(s)
	if len(words) == 0 {
		return nil
	}

	var lines []string
	var cur strings.Builder
	curWidth := 0

	flush := func() {
		if curWidth > 0 {
			lines = append(lines, cur.String())
			cur.Reset()
			curWidth = 0
		}
	}

	for _, w := range words {
		for TextWidth(w) > width {
			head, rest := splitWidth(w, width)
			flush()
			lines = append(lines, head)
			w = rest
		}
		if w == "" {
			continue
		}
		ww := TextWidth(w)
		need := ww
		if curWidth > 0 {
			need++
		}
		if curWidth+need > width {
			flush()
			need = ww
		}
		if curWidth > 0 {
			cur.WriteByte(' ')
		}
		cur.WriteString(w)
		curWidth += need
	}
	flush()
	return lines
}

// splitWidth cuts the longest prefix of w that fits in width columns,
// taking at least one rune.
func splitWidth(w string, width int) (head, rest string) {
	used := 0
	for i, r := range w {
		rw := cells.RuneWidth(r)
		if used+rw > width && i > 0 {
			return w[:i], w[i:]
		}
		used += rw
	}
	return w, ""
}
