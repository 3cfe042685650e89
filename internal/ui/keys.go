package ui

import "github.com/tomz197/termfolio/internal/input"

// PaletteKey translates a key event into a palette event. Mouse events and
// keys the palette never looks at report false.
func PaletteKey(ev input.Event) (Event, bool) {
	if ev.Mouse {
		return Event{}, false
	}
	switch ev.Key {
	case input.KeyCtrlK:
		return Event{Kind: EventShortcut}, true
	case input.KeyEscape:
		return Event{Kind: EventEscape}, true
	case input.KeyEnter:
		return Event{Kind: EventEnter}, true
	case input.KeyBackspace:
		return Event{Kind: EventBackspace}, true
	case input.KeyUp:
		return Event{Kind: EventUp}, true
	case input.KeyDown:
		return Event{Kind: EventDown}, true
	case input.KeyRune:
		return Event{Kind: EventRune, Rune: ev.Rune}, true
	}
	return Event{}, false
}
