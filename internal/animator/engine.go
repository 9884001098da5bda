package animator

import (
	"log"
	"sync"
	"time"

	"github.com/hugo/flashd/internal/config"
	"github.com/hugo/flashd/internal/easing"
	"github.com/hugo/flashd/pkg/compositor"
)

// Recorder receives notifications about accepted and failed flashes.
// Implementations must not call back into the Engine.
type Recorder interface {
	FlashStarted(w compositor.Window, effect, easing string, duration time.Duration)
	FlashFailed(w compositor.Window, err error)
}

// Engine is the per-window animation registry. It enforces at-most-one live
// session per window, debounces rapid re-triggers, reclaims stale per-window
// state, and guarantees every teardown path disposes the session's overlay.
//
// The mutex serializes triggers, ticks and sweeps; no callback observes a
// half-applied mutation, and cancelling a session disposes its overlay
// before Trigger returns, so there is never a moment with two live overlays
// for one window.
type Engine struct {
	mu       sync.Mutex
	cfg      *config.Config
	comp     compositor.Compositor
	recorder Recorder // optional

	// Live sessions are emptied the moment a flash completes, fails or is
	// cancelled. Last-trigger timestamps outlive their sessions so the
	// same-event double-notification (focus change plus app activation for
	// one user action) debounces even when the first flash already ended;
	// the sweep evicts them.
	sessions  map[compositor.WindowID]*Session
	lastFlash map[compositor.WindowID]time.Time

	now func() time.Time

	sweepStop chan struct{}
	sweepOnce sync.Once
	closed    bool
}

// NewEngine creates an engine animating flashes through comp. rec may be nil.
func NewEngine(cfg *config.Config, comp compositor.Compositor, rec Recorder) *Engine {
	return &Engine{
		cfg:       cfg,
		comp:      comp,
		recorder:  rec,
		sessions:  make(map[compositor.WindowID]*Session),
		lastFlash: make(map[compositor.WindowID]time.Time),
		now:       time.Now,
		sweepStop: make(chan struct{}),
	}
}

// Trigger starts (or restarts) a flash for w. Returns ErrDebounced when the
// previous accepted trigger for the window is too recent, a GeometryError
// when the window has no usable frame, or a RenderError when the very first
// paint fails. Any live session for the window is cancelled and its overlay
// disposed before this returns.
func (e *Engine) Trigger(w compositor.Window) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return ErrShutdown
	}

	now := e.now()
	flash := e.cfg.Flash

	if last, ok := e.lastFlash[w.ID]; ok && now.Sub(last) < flash.Debounce {
		return ErrDebounced
	}

	if prev := e.sessions[w.ID]; prev != nil {
		prev.cancel()
		delete(e.sessions, w.ID)
	}

	frame, err := e.comp.Frame(w.ID)
	if err != nil {
		// Expected race with window teardown; trigger not accepted,
		// debounce timestamp untouched.
		return &GeometryError{Window: w.ID, Reason: err.Error()}
	}

	overlay, err := newOverlay(e.comp, w.ID, frame, flash.Shape())
	if err != nil {
		return err
	}

	style := easing.ParseStyle(flash.Easing)
	s := newSession(w, overlay, now, flash.Duration, flash.Color, style)

	// Trigger accepted: the timestamp updates even if the first paint
	// fails below, matching the failed-session path of a later tick.
	e.lastFlash[w.ID] = now

	// First frame at progress 0, fully at the configured alpha.
	if err := s.overlay.Paint(s.startAlpha, s.color); err != nil {
		s.finish(stateFailed)
		e.reportFailure(s.window, err)
		return err
	}

	e.sessions[w.ID] = s
	go e.runTimer(s)

	if e.recorder != nil {
		e.recorder.FlashStarted(w, flash.Effect, style.String(), flash.Duration)
	}
	return nil
}

// runTimer drives one session at the configured tick interval until the
// session reaches a terminal state.
func (e *Engine) runTimer(s *Session) {
	ticker := time.NewTicker(e.cfg.Flash.TickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.done:
			return
		case <-ticker.C:
			e.step(s)
		}
	}
}

// step runs one animation tick. A session cancelled while this tick was
// queued is detected by its state and left alone.
func (e *Engine) step(s *Session) {
	e.mu.Lock()
	defer e.mu.Unlock()

	finished, err := s.step(e.now())
	if err != nil {
		e.reportFailure(s.window, err)
	}
	if finished && e.sessions[s.window.ID] == s {
		delete(e.sessions, s.window.ID)
	}
}

// reportFailure logs a paint failure and notifies the recorder. The error
// goes no further; a dead backend mid-flash is a normal termination path.
func (e *Engine) reportFailure(w compositor.Window, err error) {
	log.Printf("Flash for %q failed: %v", w.AppName, err)
	if e.recorder != nil {
		e.recorder.FlashFailed(w, err)
	}
}

// Sweep evicts per-window state whose last accepted trigger is older than
// retention, cancelling any session still attached. Returns the number of
// windows evicted.
func (e *Engine) Sweep(retention time.Duration) int {
	e.mu.Lock()
	defer e.mu.Unlock()

	now := e.now()
	evicted := 0

	for id, last := range e.lastFlash {
		if now.Sub(last) <= retention {
			continue
		}
		if s := e.sessions[id]; s != nil {
			s.cancel()
			delete(e.sessions, id)
		}
		delete(e.lastFlash, id)
		evicted++
	}

	return evicted
}

// StartSweep launches the background reclamation loop. Stopped by Shutdown.
func (e *Engine) StartSweep() {
	go func() {
		ticker := time.NewTicker(e.cfg.Flash.SweepInterval)
		defer ticker.Stop()

		for {
			select {
			case <-e.sweepStop:
				return
			case <-ticker.C:
				if n := e.Sweep(e.cfg.Flash.Retention); n > 0 {
					log.Printf("Swept %d stale window entries", n)
				}
			}
		}
	}()
}

// SetConfig merges a partial flash-config change. Running sessions keep the
// values captured at their start; the change applies from the next trigger.
func (e *Engine) SetConfig(p config.Partial) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.cfg.Apply(p)
}

// LiveSessions returns the number of windows with a flash in progress.
func (e *Engine) LiveSessions() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.sessions)
}

// Shutdown cancels all live sessions, disposes their overlays and stops the
// sweep. No partial state outlives this call; further triggers are rejected.
func (e *Engine) Shutdown() {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return
	}
	e.closed = true
	for id, s := range e.sessions {
		s.cancel()
		delete(e.sessions, id)
	}
	e.lastFlash = make(map[compositor.WindowID]time.Time)
	e.mu.Unlock()

	e.sweepOnce.Do(func() { close(e.sweepStop) })
}
