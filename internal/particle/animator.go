package particle

import (
	"context"
	"sync"
	"time"
)

// Scheduler paces the animation. Wait blocks until the next frame is due or
// ctx is done, in which case it returns ctx.Err().
type Scheduler interface {
	Wait(ctx context.Context) error
}

// SchedulerFunc adapts a function to the Scheduler interface.
type SchedulerFunc func(ctx context.Context) error

// Wait calls f(ctx).
func (f SchedulerFunc) Wait(ctx context.Context) error { return f(ctx) }

// FrameClock is a Scheduler that spaces frames by a fixed interval, measured
// from the end of the previous wait. Work done between waits eats into the
// interval, so a slow frame is followed by a short or no sleep.
type FrameClock struct {
	interval time.Duration
	last     time.Time
}

// NewFrameClock returns a clock targeting fps frames per second.
func NewFrameClock(fps int) *FrameClock {
	if fps <= 0 {
		fps = 60
	}
	return &FrameClock{interval: time.Second / time.Duration(fps)}
}

// Interval returns the target frame duration.
func (c *FrameClock) Interval() time.Duration {
	return c.interval
}

// Wait sleeps for whatever remains of the current frame.
func (c *FrameClock) Wait(ctx context.Context) error {
	if c.last.IsZero() {
		c.last = time.Now()
	}
	remaining := c.interval - time.Since(c.last)
	if remaining > 0 {
		timer := time.NewTimer(remaining)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	} else if err := ctx.Err(); err != nil {
		return err
	}
	c.last = time.Now()
	return nil
}

// Hooks run around every frame started by Run. An error returned from
// either hook ends the loop with that error.
type Hooks struct {
	BeforeFrame func() error
	AfterFrame  func() error
}

// Animator owns a particle field and the surface it is drawn on.
// Frame, OnResize and the hooks all run on the goroutine that drives the
// animator; RequestResize and Stop may be called from any goroutine.
type Animator struct {
	params  Params
	rng     Rand
	surface Surface
	field   Field
	width   float64
	height  float64
	frames  uint64

	mu      sync.Mutex
	pending *[2]float64

	done     chan struct{}
	stopOnce sync.Once
}

// NewAnimator creates an animator for a width x height surface and seeds
// its first field. A nil rng uses DefaultRand.
func NewAnimator(s Surface, width, height float64, rng Rand, p Params) *Animator {
	if rng == nil {
		rng = DefaultRand
	}
	a := &Animator{
		params:  p,
		rng:     rng,
		surface: s,
		done:    make(chan struct{}),
	}
	a.OnResize(width, height)
	return a
}

// OnResize adopts new surface dimensions and replaces the field.
// The host is expected to have resized the surface itself already.
func (a *Animator) OnResize(width, height float64) {
	a.width = width
	a.height = height
	a.field = Initialize(width, height, a.rng, a.params)
}

// RequestResize queues a resize that is applied at the start of the next
// frame, so a frame never observes a half-applied resize.
func (a *Animator) RequestResize(width, height float64) {
	a.mu.Lock()
	a.pending = &[2]float64{width, height}
	a.mu.Unlock()
}

func (a *Animator) applyPendingResize() {
	a.mu.Lock()
	pending := a.pending
	a.pending = nil
	a.mu.Unlock()

	if pending != nil {
		a.OnResize(pending[0], pending[1])
	}
}

// Frame clears the surface, moves and draws every particle, then draws the
// connection lines.
func (a *Animator) Frame() {
	a.applyPendingResize()
	a.surface.Clear()
	Tick(a.field, a.width, a.height, a.surface)
	Connect(a.field, a.width, a.height, a.surface, a.params)
	a.frames++
}

// Run drives frames until ctx is done, Stop is called, or a hook fails.
// Stop makes Run return nil; cancellation returns ctx.Err().
func (a *Animator) Run(ctx context.Context, sched Scheduler, hooks Hooks) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go func() {
		select {
		case <-a.done:
			cancel()
		case <-ctx.Done():
		}
	}()

	for {
		if a.Stopped() {
			return nil
		}
		if hooks.BeforeFrame != nil {
			if err := hooks.BeforeFrame(); err != nil {
				return err
			}
		}
		if a.Stopped() {
			return nil
		}

		a.Frame()

		if hooks.AfterFrame != nil {
			if err := hooks.AfterFrame(); err != nil {
				return err
			}
		}

		if err := sched.Wait(ctx); err != nil {
			if a.Stopped() {
				return nil
			}
			return err
		}
	}
}

// Stop ends a running loop. It is safe to call more than once.
func (a *Animator) Stop() {
	a.stopOnce.Do(func() { close(a.done) })
}

// Stopped reports whether Stop has been called.
func (a *Animator) Stopped() bool {
	select {
	case <-a.done:
		return true
	default:
		return false
	}
}

// Field returns the live particles. The slice is replaced on resize.
func (a *Animator) Field() Field {
	return a.field
}

// Size returns the current surface dimensions.
func (a *Animator) Size() (width, height float64) {
	return a.width, a.height
}

// Frames returns how many frames have been drawn.
func (a *Animator) Frames() uint64 {
	return a.frames
}

// Params returns the constants the animator was built with.
func (a *Animator) Params() Params {
	return a.params
}
