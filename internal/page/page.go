// Package page holds the portfolio content and lays it out as terminal text.
package page

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed content.yaml
var defaultContent []byte

// Link is a labelled external URL.
type Link struct {
	Label string `yaml:"label"`
	URL   string `yaml:"url"`
}

// Section is one navigable part of the page.
type Section struct {
	ID         string   `yaml:"id"`
	Title      string   `yaml:"title"`
	Paragraphs []string `yaml:"paragraphs"`
	Items      []string `yaml:"items"`
	Links      []Link   `yaml:"links"`
}

// Content is the whole portfolio.
type Content struct {
	Name     string    `yaml:"name"`
	Tagline  string    `yaml:"tagline"`
	Sections []Section `yaml:"sections"`
}

var errNoSections = errors.New("content has no sections")

// Default returns the embedded portfolio content.
func Default() (*Content, error) {
	return Parse(defaultContent)
}

// Load reads content from path, or the embedded content when path is empty.
func Load(path string) (*Content, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading content %s: %w", path, err)
	}
	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("content %s: %w", path, err)
	}
	return c, nil
}

// Parse decodes and validates a YAML content document.
func Parse(data []byte) (*Content, error) {
	var c Content
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parsing content: %w", err)
	}
	if len(c.Sections) == 0 {
		return nil, errNoSections
	}
	seen := make(map[string]bool, len(c.Sections))
	for i, s := range c.Sections {
		if s.ID == "" {
			return nil, fmt.Errorf("section %d has no id", i)
		}
		if seen[s.ID] {
			return nil, fmt.Errorf("duplicate section id %q", s.ID)
		}
		seen[s.ID] = true
		if s.Title == "" {
			c.Sections[i].Title = s.ID
		}
	}
	return &c, nil
}

// Section returns the section with the given id.
func (c *Content) Section(id string) (Section, bool) {
	for _, s := range c.Sections {
		if s.ID == id {
			return s, true
		}
	}
	return Section{}, false
}
