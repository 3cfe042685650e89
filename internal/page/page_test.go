package page

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func testContent() *Content {
	return &Content{
		Name:    "Ada",
		Tagline: "Engineer",
		Sections: []Section{
			{ID: "home", Title: "Home", Paragraphs: []string{"Hello there"}},
			{ID: "skills", Title: "Skills", Items: []string{"Go", "a rather long item that has to wrap"}},
			{ID: "contact", Title: "Contact", Links: []Link{{Label: "GitHub", URL: "https://github.com/ada"}}},
		},
	}
}

func TestDefaultContent(t *testing.T) {
	c, err := Default()
	if err != nil {
		t.Fatalf("embedded content does not parse: %v", err)
	}
	for _, id := range []string{"home", "about", "skills", "experience", "education", "contact"} {
		if _, ok := c.Section(id); !ok {
			t.Errorf("embedded content lacks section %q", id)
		}
	}
}

func TestParseRejectsBadContent(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"no sections", "name: x\n"},
		{"missing id", "sections:\n  - title: A\n"},
		{"duplicate id", "sections:\n  - id: a\n  - id: a\n"},
		{"invalid yaml", "sections: [\n"},
	}
	for _, tt := range tests {
		if _, err := Parse([]byte(tt.yaml)); err == nil {
			t.Errorf("%s: expected error", tt.name)
		}
	}
}

func TestParseDefaultsTitleToID(t *testing.T) {
	c, err := Parse([]byte("sections:\n  - id: about\n"))
	if err != nil {
		t.Fatal(err)
	}
	if c.Sections[0].Title != "about" {
		t.Errorf("title = %q", c.Sections[0].Title)
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "content.yml")
	if err := os.WriteFile(path, []byte("name: Ada\nsections:\n  - id: home\n"), 0644); err != nil {
		t.Fatal(err)
	}
	c, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if c.Name != "Ada" {
		t.Errorf("name = %q", c.Name)
	}
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yml")); err == nil {
		t.Error("missing file accepted")
	}
}

func TestWrap(t *testing.T) {
	tests := []struct {
		in    string
		width int
		want  []string
	}{
		{"", 10, nil},
		{"one two three", 7, []string{"one two", "three"}},
		{"one two three", 20, []string{"one two three"}},
		{"abcdefghij", 4, []string{"abcd", "efgh", "ij"}},
		{"  spaced   out  ", 20, []string{"spaced out"}},
		{"简历 作品集 工程师 数据科学家", 8, []string{"简历", "作品集", "工程师", "数据科学", "家"}},
		{"字", 1, []string{"字"}},
	}
	for _, tt := range tests {
		got := Wrap(tt.in, tt.width)
		if strings.Join(got, "|") != strings.Join(tt.want, "|") {
			t.Errorf("Wrap(%q, %d) = %q, want %q", tt.in, tt.width, got, tt.want)
		}
	}
}

func TestWrapCountsColumns(t *testing.T) {
	text := "简历 作品集 工程师 数据科学家 and some ascii words 履歴書"
	for width := 2; width <= 16; width++ {
		for _, line := range Wrap(text, width) {
			if w := TextWidth(line); w > width {
				t.Errorf("width %d: line %q occupies %d columns", width, line, w)
			}
		}
	}
}

func TestLayoutSectionRanges(t *testing.T) {
	d := Layout(testContent(), 20)

	if len(d.Sections) != 3 {
		t.Fatalf("got %d sections", len(d.Sections))
	}
	prevEnd := 3 // name, tagline, blank
	for i, s := range d.Sections {
		if s.Start != prevEnd {
			t.Errorf("section %s starts at %d, want %d", s.ID, s.Start, prevEnd)
		}
		if d.Lines[s.Start].Style != StyleHeading {
			t.Errorf("section %s does not start with a heading", s.ID)
		}
		for l := s.Start; l < s.End; l++ {
			if d.SectionAt(l) != i {
				t.Errorf("line %d belongs to %d, want %d", l, d.SectionAt(l), i)
			}
		}
		prevEnd = s.End
	}
	if prevEnd != len(d.Lines) {
		t.Errorf("last section ends at %d of %d lines", prevEnd, len(d.Lines))
	}

	for _, l := range d.Lines {
		if TextWidth(l.Text) > 20 {
			t.Errorf("line %q exceeds width", l.Text)
		}
	}

	start, ok := d.SectionStart("contact")
	if !ok || start != d.Sections[2].Start {
		t.Errorf("SectionStart(contact) = %d, %v", start, ok)
	}
	if _, ok := d.SectionStart("nope"); ok {
		t.Error("unknown section found")
	}
}

func TestLayoutItemsAndLinks(t *testing.T) {
	d := Layout(testContent(), 20)

	var items, links []Line
	for _, l := range d.Lines {
		switch l.Style {
		case StyleItem:
			items = append(items, l)
		case StyleLink:
			links = append(links, l)
		}
	}
	if len(items) < 3 {
		t.Fatalf("long item did not wrap: %q", items)
	}
	if !strings.HasPrefix(items[0].Text, bullet) || !strings.HasPrefix(items[2].Text, "  ") {
		t.Errorf("items lack bullet or hanging indent: %q", items)
	}
	if len(links) == 0 || links[0].URL != "https://github.com/ada" {
		t.Errorf("link lines = %+v", links)
	}
}

func TestMaxScroll(t *testing.T) {
	d := Layout(testContent(), 20)
	if got := d.MaxScroll(len(d.Lines) + 5); got != 0 {
		t.Errorf("MaxScroll with room to spare = %d", got)
	}
	if got := d.MaxScroll(4); got != len(d.Lines)-4 {
		t.Errorf("MaxScroll(4) = %d", got)
	}
}
