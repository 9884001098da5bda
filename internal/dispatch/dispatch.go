package dispatch

import (
	"errors"
	"log"
	"time"

	"github.com/hugo/flashd/internal/animator"
	"github.com/hugo/flashd/internal/config"
	"github.com/hugo/flashd/pkg/compositor"
)

// Dispatcher translates compositor notifications into engine triggers,
// filtering out excluded applications. Expected rejections (debounce, a
// window racing its own teardown) are dropped without noise.
type Dispatcher struct {
	engine  *animator.Engine
	comp    compositor.Compositor
	settle  time.Duration
	exclude map[string]struct{}
}

// New creates a dispatcher feeding engine from comp's event sources.
func New(engine *animator.Engine, comp compositor.Compositor, cfg *config.Config) *Dispatcher {
	exclude := make(map[string]struct{}, len(cfg.Dispatch.ExcludeApps))
	for _, name := range cfg.Dispatch.ExcludeApps {
		exclude[name] = struct{}{}
	}

	return &Dispatcher{
		engine:  engine,
		comp:    comp,
		settle:  cfg.Dispatch.SettleDelay,
		exclude: exclude,
	}
}

// Bind registers the dispatcher with the compositor's event sources.
func (d *Dispatcher) Bind() {
	d.comp.SubscribeFocusChanged(d.OnWindowFocused)
	d.comp.SubscribeAppActivated(d.OnApplicationActivated)
}

// OnWindowFocused handles a window-focus notification.
func (d *Dispatcher) OnWindowFocused(w compositor.Window) {
	if d.excluded(w.AppName) {
		return
	}
	d.trigger(w)
}

// OnApplicationActivated handles an application-activation notification.
// It waits out a short settle delay so the window system reports the right
// focused window before resolving it.
func (d *Dispatcher) OnApplicationActivated(appName string) {
	if d.excluded(appName) {
		return
	}

	time.AfterFunc(d.settle, func() {
		w, err := d.comp.FocusedWindow()
		if err != nil || w == nil {
			return
		}
		if d.excluded(w.AppName) {
			return
		}
		d.trigger(*w)
	})
}

// TriggerFor flashes a window as if it had just been focused. Manual entry
// point; the exclusion filter does not apply.
func (d *Dispatcher) TriggerFor(w compositor.Window) error {
	return d.engine.Trigger(w)
}

func (d *Dispatcher) excluded(appName string) bool {
	_, ok := d.exclude[appName]
	return ok
}

func (d *Dispatcher) trigger(w compositor.Window) {
	err := d.engine.Trigger(w)
	if err == nil || errors.Is(err, animator.ErrDebounced) {
		return
	}

	var ge *animator.GeometryError
	if errors.As(err, &ge) {
		// The window went away between the event and the trigger.
		return
	}

	log.Printf("Flash trigger for %q: %v", w.AppName, err)
}
