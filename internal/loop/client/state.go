package client

import "time"

// ViewState represents what the session is showing.
type ViewState int

const (
	ViewPage     ViewState = iota // Portfolio page
	ViewShutdown                  // Server is shutting down
)

// ClientState holds per-session state (scroll position, overlays, timers).
// Each client has its own instance, managed by the Client.
type ClientState struct {
	View       ViewState
	prevView   ViewState
	Running    bool      // Client loop running
	Scroll     int       // First document line shown in the viewport
	Alert      string    // Modal message, empty when none
	toast      string    // Footer notice
	toastURL   string    // Makes the footer notice a hyperlink
	toastUntil time.Time // When the footer notice disappears
	shutdownAt time.Time // Auto-disconnect deadline while shutting down

	isInactive  bool // Whether the session shows the inactivity warning
	wasInactive bool
}

// NewClientState creates a new initialized client state.
func NewClientState() *ClientState {
	return &ClientState{
		View:    ViewPage,
		Running: true,
	}
}

// showToast sets the footer notice for d.
func (s *ClientState) showToast(msg, url string, now time.Time, d time.Duration) {
	s.toast = msg
	s.toastURL = url
	s.toastUntil = now.Add(d)
}

// Toast returns the current footer notice and its link, if any.
func (s *ClientState) Toast(now time.Time) (msg, url string) {
	if s.toast == "" || !now.Before(s.toastUntil) {
		return "", ""
	}
	return s.toast, s.toastURL
}
