package animator

import (
	"fmt"

	"github.com/hugo/flashd/pkg/compositor"
)

// Overlay owns one backend surface for the lifetime of a single flash.
// It is created against the window's frame at session start; the frame is
// not re-queried, so a resize mid-flash is not tracked.
type Overlay struct {
	window   compositor.WindowID
	surface  compositor.Surface
	bounds   compositor.Rect
	shape    compositor.Shape
	alpha    float64
	disposed bool
}

func newOverlay(comp compositor.Compositor, win compositor.WindowID, bounds compositor.Rect, shape compositor.Shape) (*Overlay, error) {
	if bounds.Width <= 0 || bounds.Height <= 0 {
		return nil, &GeometryError{Window: win, Reason: fmt.Sprintf("%dx%d frame", bounds.Width, bounds.Height)}
	}

	surface, err := comp.CreateSurface(bounds, shape)
	if err != nil {
		return nil, &GeometryError{Window: win, Reason: err.Error()}
	}

	return &Overlay{
		window:  win,
		surface: surface,
		bounds:  bounds,
		shape:   shape,
	}, nil
}

// Paint repaints the surface at the given opacity. A failure means the
// backend is gone and is reported as a RenderError.
func (o *Overlay) Paint(alpha float64, color compositor.Color) error {
	if o.disposed {
		return nil
	}
	if err := o.surface.Paint(alpha, color); err != nil {
		return &RenderError{Window: o.window, Err: err}
	}
	o.alpha = alpha
	return nil
}

// Dispose releases the backend surface. Idempotent; a second call is a no-op.
func (o *Overlay) Dispose() {
	if o.disposed {
		return
	}
	o.disposed = true
	o.surface.Dispose()
}

// Disposed reports whether the backend surface has been released.
func (o *Overlay) Disposed() bool {
	return o.disposed
}

// Alpha returns the opacity of the last successful paint.
func (o *Overlay) Alpha() float64 {
	return o.alpha
}

// Bounds returns the screen rectangle the overlay was created against.
func (o *Overlay) Bounds() compositor.Rect {
	return o.bounds
}
