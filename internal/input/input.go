// Package input turns raw terminal bytes into key and mouse events.
package input

import (
	"bufio"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Key identifies a non-mouse event.
type Key int

const (
	KeyNone Key = iota
	KeyRune     // Printable character, see Event.Rune
	KeyEnter
	KeyEscape
	KeyBackspace
	KeyTab
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyPageUp
	KeyPageDown
	KeyHome
	KeyEnd
	KeyCtrlC
	KeyCtrlK
)

// MouseAction identifies what a mouse report describes.
type MouseAction int

const (
	MouseMove MouseAction = iota
	MousePress
	MouseRelease
	MouseWheelUp
	MouseWheelDown
)

// Event is a single decoded input event.
type Event struct {
	Mouse  bool // true for mouse reports, false for keys
	Key    Key
	Rune   rune
	Action MouseAction
	Button int // 0 left, 1 middle, 2 right
	Col    int // 1-based terminal column of a mouse report
	Row    int // 1-based terminal row of a mouse report
}

const (
	// maxSequence bounds the parameter bytes of one escape sequence.
	// Longer sequences are dropped as malformed.
	maxSequence = 64
	// maxDrain bounds the bytes ReadEvents takes from the stream per call.
	maxDrain = 4096
)

// Stream delivers input bytes via a channel.
type Stream struct {
	ch      chan byte
	pending []byte // Incomplete sequence carried to the next read
	closed  bool
}

// StartStream spawns a goroutine that reads from r and sends bytes to the stream.
func StartStream(r *bufio.Reader) *Stream {
	s := &Stream{
		ch: make(chan byte, 256),
	}
	go func() {
		for {
			b, err := r.ReadByte()
			if err != nil {
				close(s.ch)
				return
			}
			s.ch <- b
		}
	}()
	return s
}

// Closed reports whether the underlying reader hit EOF or an error.
func (s *Stream) Closed() bool {
	return s.closed
}

// ReadEvents drains all available bytes from the stream (non-blocking) and
// decodes them. Sequences split across reads are completed on the next call.
func ReadEvents(s *Stream) []Event {
	buf := s.pending
	s.pending = nil

drain:
	for len(buf) < maxDrain {
		select {
		case b, ok := <-s.ch:
			if !ok {
				s.closed = true
				break drain
			}
			buf = append(buf, b)
		default:
			break drain
		}
	}

	events, rest := Parse(buf)
	if len(rest) > 0 && !s.closed {
		s.pending = append([]byte(nil), rest...)
	}
	return events
}

// Parse decodes buf into events. rest holds a trailing incomplete escape
// sequence or UTF-8 character that needs more bytes. A lone ESC at the end
// of buf is reported as the Escape key.
func Parse(buf []byte) (events []Event, rest []byte) {
	for i := 0; i < len(buf); {
		b := buf[i]

		if b == '\x1b' {
			if i+1 >= len(buf) {
				events = append(events, Event{Key: KeyEscape})
				i++
				continue
			}
			switch buf[i+1] {
			case '[':
				ev, n, ok := parseCSI(buf[i+2:])
				if !ok {
					return events, buf[i:]
				}
				if ev != nil {
					events = append(events, *ev)
				}
				i += 2 + n
				continue
			case 'O':
				if i+2 >= len(buf) {
					return events, buf[i:]
				}
				if key := finalKey(buf[i+2]); key != KeyNone {
					events = append(events, Event{Key: key})
				}
				i += 3
				continue
			}
			events = append(events, Event{Key: KeyEscape})
			i++
			continue
		}

		if b >= utf8.RuneSelf {
			if !utf8.FullRune(buf[i:]) {
				return events, buf[i:]
			}
			r, size := utf8.DecodeRune(buf[i:])
			if r != utf8.RuneError {
				events = append(events, Event{Key: KeyRune, Rune: r})
			}
			i += size
			continue
		}

		if key := controlKey(b); key != KeyNone {
			events = append(events, Event{Key: key})
		} else if b >= 0x20 {
			events = append(events, Event{Key: KeyRune, Rune: rune(b)})
		}
		i++
	}
	return events, nil
}

// controlKey maps single control bytes to keys.
func controlKey(b byte) Key {
	switch b {
	case '\r', '\n':
		return KeyEnter
	case '\t':
		return KeyTab
	case '\b', '\x7f':
		return KeyBackspace
	case '\x03':
		return KeyCtrlC
	case '\x0b':
		return KeyCtrlK
	}
	return KeyNone
}

// finalKey maps the final byte of a parameterless CSI or SS3 sequence.
func finalKey(b byte) Key {
	switch b {
	case 'A':
		return KeyUp
	case 'B':
		return KeyDown
	case 'C':
		return KeyRight
	case 'D':
		return KeyLeft
	case 'H':
		return KeyHome
	case 'F':
		return KeyEnd
	}
	return KeyNone
}

// parseCSI decodes the bytes following "ESC [". It returns the event (nil
// for sequences we ignore), the number of bytes consumed, and false when
// the sequence is not complete yet. More than maxSequence parameter bytes
// without a final byte are consumed and ignored.
func parseCSI(buf []byte) (*Event, int, bool) {
	end := -1
	for i, b := range buf {
		if i >= maxSequence {
			return nil, i, true
		}
		if b >= 0x40 && b <= 0x7e {
			end = i
			break
		}
		if b < 0x20 || b > 0x3f {
			// Not a parameter byte: malformed, drop what we have.
			return nil, i, true
		}
	}
	if end < 0 {
		return nil, 0, false
	}

	params := string(buf[:end])
	final := buf[end]
	n := end + 1

	if strings.HasPrefix(params, "<") && (final == 'M' || final == 'm') {
		return parseSGRMouse(params[1:], final == 'm'), n, true
	}

	if params == "" {
		if key := finalKey(final); key != KeyNone {
			return &Event{Key: key}, n, true
		}
		return nil, n, true
	}

	if final == '~' {
		switch params {
		case "1", "7":
			return &Event{Key: KeyHome}, n, true
		case "4", "8":
			return &Event{Key: KeyEnd}, n, true
		case "5":
			return &Event{Key: KeyPageUp}, n, true
		case "6":
			return &Event{Key: KeyPageDown}, n, true
		}
	}
	return nil, n, true
}

// parseSGRMouse decodes "b;x;y" from an SGR (1006) mouse report.
func parseSGRMouse(params string, release bool) *Event {
	parts := strings.Split(params, ";")
	if len(parts) != 3 {
		return nil
	}
	code, err1 := strconv.Atoi(parts[0])
	col, err2 := strconv.Atoi(parts[1])
	row, err3 := strconv.Atoi(parts[2])
	if err1 != nil || err2 != nil || err3 != nil {
		return nil
	}

	ev := &Event{Mouse: true, Button: code & 3, Col: col, Row: row}
	switch {
	case code&64 != 0:
		if code&1 == 0 {
			ev.Action = MouseWheelUp
		} else {
			ev.Action = MouseWheelDown
		}
	case code&32 != 0:
		ev.Action = MouseMove
	case release:
		ev.Action = MouseRelease
	default:
		ev.Action = MousePress
	}
	return ev
}
