// Package server implements the hub shared by all remote sessions: it
// registers visitors, keeps visitor statistics and broadcasts shutdown.
package server

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"
)

// Errors returned by Register.
var (
	ErrFull   = errors.New("server: session limit reached")
	ErrClosed = errors.New("server: shutting down")
)

// recentVisitors is how many usernames Stats.Recent keeps.
const recentVisitors = 5

// SessionHub is the interface sessions use to communicate with the hub.
// Decouples the Client from the concrete Hub implementation.
type SessionHub interface {
	Register(username string) (*Handle, error)
	Unregister(id int)
	Stats() *Stats
}

// Hub tracks connected sessions and publishes visitor statistics.
// Membership changes happen synchronously under mu; Run only delivers
// join announcements.
type Hub struct {
	stats        atomic.Pointer[Stats]
	clients      map[int]*Handle
	nextClientID int
	maxSessions  int
	closing      bool
	joinCh       chan *Handle // Joins waiting to be announced
	mu           sync.RWMutex

	served uint64
	peak   int
	recent []string
	since  time.Time
}

// Compile-time check that Hub implements SessionHub.
var _ SessionHub = (*Hub)(nil)

// Handle represents a session's connection to the hub.
type Handle struct {
	ID       int
	Username string
	Joined   time.Time
	EventsCh chan Event // Events sent to the session; closed on unregister
}

// Event is a notification from the hub to a session.
type Event struct {
	Type     EventType
	Username string // Visitor that joined, for EventVisitorJoined
}

// EventType identifies the type of hub event.
type EventType int

const (
	EventVisitorJoined EventType = iota
	EventServerShutdown
)

// Stats is an immutable snapshot of visitor statistics.
type Stats struct {
	Online int       // Sessions connected right now
	Served uint64    // Sessions accepted since start
	Peak   int       // Highest Online seen
	Recent []string  // Latest visitors, newest first
	Since  time.Time // Hub start time
}

// NewHub creates a hub accepting at most maxSessions concurrent sessions
// (0 means unlimited).
func NewHub(maxSessions int) *Hub {
	h := &Hub{
		clients:      make(map[int]*Handle),
		nextClientID: 1,
		maxSessions:  maxSessions,
		joinCh:       make(chan *Handle, 16),
		since:        time.Now(),
	}
	h.stats.Store(&Stats{Since: h.since})
	return h
}

// Run announces new visitors to the other sessions until the context is
// cancelled.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case handle := <-h.joinCh:
			h.announce(handle)
		}
	}
}

// Register adds a new session and returns its handle.
func (h *Hub) Register(username string) (*Handle, error) {
	h.mu.Lock()
	if h.closing {
		h.mu.Unlock()
		return nil, ErrClosed
	}
	if h.maxSessions > 0 && len(h.clients) >= h.maxSessions {
		h.mu.Unlock()
		return nil, ErrFull
	}

	handle := &Handle{
		ID:       h.nextClientID,
		Username: username,
		Joined:   time.Now(),
		EventsCh: make(chan Event, 16),
	}
	h.nextClientID++
	h.clients[handle.ID] = handle
	h.served++
	h.peak = max(h.peak, len(h.clients))
	h.recent = append([]string{username}, h.recent...)
	if len(h.recent) > recentVisitors {
		h.recent = h.recent[:recentVisitors]
	}
	h.publishLocked()
	h.mu.Unlock()

	// Announcements are best effort; a busy or stopped hub drops them.
	select {
	case h.joinCh <- handle:
	default:
	}
	return handle, nil
}

// Unregister removes a session from the hub and closes its event channel.
// Unknown ids are ignored.
func (h *Hub) Unregister(id int) {
	h.mu.Lock()
	defer h.mu.Unlock()

	handle, ok := h.clients[id]
	if !ok {
		return
	}
	close(handle.EventsCh)
	delete(h.clients, id)
	h.publishLocked()
}

// Stats returns the latest statistics snapshot.
func (h *Hub) Stats() *Stats {
	return h.stats.Load()
}

// Shutdown gracefully shuts down the hub by notifying all connected sessions
// and waiting for them to disconnect (up to the given timeout). New sessions
// are refused from now on. The caller should cancel the Run context after
// Shutdown returns.
func (h *Hub) Shutdown(timeout time.Duration) {
	h.mu.Lock()
	h.closing = true
	for _, handle := range h.clients {
		select {
		case handle.EventsCh <- Event{Type: EventServerShutdown}:
		default:
		}
	}
	h.mu.Unlock()

	deadline := time.After(timeout)
	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-deadline:
			return
		case <-ticker.C:
			h.mu.RLock()
			remaining := len(h.clients)
			h.mu.RUnlock()
			if remaining == 0 {
				return
			}
		}
	}
}

// announce tells every other live session that handle joined.
func (h *Hub) announce(handle *Handle) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for id, other := range h.clients {
		if id == handle.ID {
			continue
		}
		select {
		case other.EventsCh <- Event{Type: EventVisitorJoined, Username: handle.Username}:
		default:
		}
	}
}

// publishLocked stores a fresh statistics snapshot. h.mu must be held.
func (h *Hub) publishLocked() {
	h.stats.Store(&Stats{
		Online: len(h.clients),
		Served: h.served,
		Peak:   h.peak,
		Recent: append([]string(nil), h.recent...),
		Since:  h.since,
	})
}
