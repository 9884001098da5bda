package animator

import (
	"time"

	"github.com/hugo/flashd/internal/easing"
	"github.com/hugo/flashd/pkg/compositor"
)

type sessionState int

const (
	stateRunning sessionState = iota
	stateCompleted
	stateFailed
	stateCancelled
)

// Session is one in-flight flash animation for one window. It owns exactly
// one overlay and one timer. All fields are snapshots taken at start; a
// config change mid-flash never restyles a running session.
//
// Sessions are mutated only under the engine lock. Running → Completed and
// Running → Failed happen on a tick; Running → cancelled happens when a new
// trigger supersedes the session, the sweep evicts it, or the engine shuts
// down. Every terminal transition stops the timer and disposes the overlay.
type Session struct {
	window  compositor.Window
	overlay *Overlay

	start      time.Time
	duration   time.Duration
	startAlpha float64
	color      compositor.Color
	style      easing.Style

	state sessionState

	// done stops the ticker goroutine; closed exactly once by finish.
	done chan struct{}
}

func newSession(w compositor.Window, o *Overlay, start time.Time, duration time.Duration, color compositor.Color, style easing.Style) *Session {
	return &Session{
		window:     w,
		overlay:    o,
		start:      start,
		duration:   duration,
		startAlpha: color.A,
		color:      color,
		style:      style,
		state:      stateRunning,
		done:       make(chan struct{}),
	}
}

// alphaAt returns the overlay opacity and clamped progress for an instant.
// The effect fades out: eased progress is inverted so the overlay starts at
// the configured alpha and decays toward transparent. Progress is recomputed
// from the captured start on every call, so delayed ticks self-correct
// instead of drifting.
func (s *Session) alphaAt(now time.Time) (alpha, progress float64) {
	elapsed := now.Sub(s.start)
	progress = float64(elapsed) / float64(s.duration)
	if progress < 0 {
		progress = 0
	} else if progress > 1 {
		progress = 1
	}
	eased := 1 - easing.Ease(s.style, progress)
	return s.startAlpha * eased, progress
}

// step advances the animation one tick. Caller holds the engine lock.
// A session already in a terminal state reports finished without touching
// the overlay, which is what makes an in-flight tick of a cancelled session
// a no-op rather than a write to a disposed surface.
func (s *Session) step(now time.Time) (finished bool, err error) {
	if s.state != stateRunning {
		return true, nil
	}

	alpha, progress := s.alphaAt(now)
	if err := s.overlay.Paint(alpha, s.color); err != nil {
		s.finish(stateFailed)
		return true, err
	}

	if progress >= 1 {
		s.finish(stateCompleted)
		return true, nil
	}

	return false, nil
}

// finish moves the session to a terminal state, stops the timer and
// disposes the overlay. Idempotent.
func (s *Session) finish(st sessionState) {
	if s.state != stateRunning {
		return
	}
	s.state = st
	close(s.done)
	s.overlay.Dispose()
}

// cancel tears the session down regardless of progress.
func (s *Session) cancel() {
	s.finish(stateCancelled)
}

// Window returns the window this session animates.
func (s *Session) Window() compositor.Window {
	return s.window
}
