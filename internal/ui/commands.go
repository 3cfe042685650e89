// Package ui holds the small state machines layered over the particle field:
// the command palette, the mobile menu toggle, scroll reveal of sections and
// the cursor follower. None of them draw; hosts read their state each frame.
package ui

import "strings"

// Actions are the side effects a command can trigger. Hosts implement them.
type Actions interface {
	Navigate(sectionID string)
	OpenLink(url string)
	Alert(message string)
}

// CommandKind selects which Actions method a command calls.
type CommandKind int

const (
	KindNavigate CommandKind = iota
	KindOpenLink
	KindAlert
)

// Command is a named entry of the command palette.
type Command struct {
	Name   string
	Icon   string // Short glyph shown before the name
	Kind   CommandKind
	Target string // Section id, URL or alert message
}

// Run performs the command's action.
func (c Command) Run(a Actions) {
	if a == nil {
		return
	}
	switch c.Kind {
	case KindNavigate:
		a.Navigate(c.Target)
	case KindOpenLink:
		a.OpenLink(c.Target)
	case KindAlert:
		a.Alert(c.Target)
	}
}

// Link targets of the catalogue.
const (
	GitHubURL   = "https://github.com/jayeshmanani/"
	LinkedInURL = "https://linkedin.com/in/mananijayesh"
)

// DefaultCommands returns the fixed palette catalogue in display order.
func DefaultCommands() []Command {
	return []Command{
		{Name: "Go to Home", Icon: "⌂", Kind: KindNavigate, Target: "home"},
		{Name: "Go to About", Icon: "☺", Kind: KindNavigate, Target: "about"},
		{Name: "Go to Skills", Icon: "⌘", Kind: KindNavigate, Target: "skills"},
		{Name: "Go to Experience", Icon: "▣", Kind: KindNavigate, Target: "experience"},
		{Name: "Go to Education", Icon: "✎", Kind: KindNavigate, Target: "education"},
		{Name: "Contact Me", Icon: "✉", Kind: KindNavigate, Target: "contact"},
		{Name: "View GitHub", Icon: "↗", Kind: KindOpenLink, Target: GitHubURL},
		{Name: "View LinkedIn", Icon: "↗", Kind: KindOpenLink, Target: LinkedInURL},
		{Name: "Toggle Theme (Coming Soon)", Icon: "◐", Kind: KindAlert, Target: "Theme toggle coming soon!"},
	}
}

// Filter returns the commands whose name contains query, ignoring case,
// in catalogue order. An empty query matches everything.
func Filter(cmds []Command, query string) []Command {
	term := strings.ToLower(query)
	out := make([]Command, 0, len(cmds))
	for _, c := range cmds {
		if strings.Contains(strings.ToLower(c.Name), term) {
			out = append(out, c)
		}
	}
	return out
}
