package animator

import (
	"errors"
	"testing"

	"github.com/hugo/flashd/pkg/compositor"
)

func TestOverlayDisposeIsIdempotent(t *testing.T) {
	comp := &fakeCompositor{frames: map[compositor.WindowID]compositor.Rect{}}
	o, err := newOverlay(comp, 1, compositor.Rect{Width: 100, Height: 50}, compositor.FilledRectangle)
	if err != nil {
		t.Fatalf("newOverlay() error: %v", err)
	}

	o.Dispose()
	o.Dispose()
	o.Dispose()

	if comp.surfaces[0].disposes != 1 {
		t.Errorf("surface disposes = %d, want 1", comp.surfaces[0].disposes)
	}
	if !o.Disposed() {
		t.Error("Disposed() = false after Dispose")
	}
}

func TestOverlayRejectsEmptyRect(t *testing.T) {
	comp := &fakeCompositor{frames: map[compositor.WindowID]compositor.Rect{}}

	rects := []compositor.Rect{
		{Width: 0, Height: 100},
		{Width: 100, Height: 0},
		{Width: -10, Height: 100},
	}
	for _, rect := range rects {
		_, err := newOverlay(comp, 1, rect, compositor.FilledRectangle)
		var ge *GeometryError
		if !errors.As(err, &ge) {
			t.Errorf("newOverlay(%+v) = %v, want *GeometryError", rect, err)
		}
	}
	if len(comp.surfaces) != 0 {
		t.Errorf("surfaces created = %d, want 0", len(comp.surfaces))
	}
}

func TestOverlayPaintWrapsBackendError(t *testing.T) {
	comp := &fakeCompositor{frames: map[compositor.WindowID]compositor.Rect{}, failPaint: true}
	o, err := newOverlay(comp, 7, compositor.Rect{Width: 10, Height: 10}, compositor.FilledRectangle)
	if err != nil {
		t.Fatalf("newOverlay() error: %v", err)
	}

	err = o.Paint(0.5, compositor.Color{})
	var re *RenderError
	if !errors.As(err, &re) {
		t.Fatalf("Paint() = %v, want *RenderError", err)
	}
	if re.Window != 7 {
		t.Errorf("RenderError.Window = %d, want 7", re.Window)
	}
}

func TestOverlayTracksLastAlpha(t *testing.T) {
	comp := &fakeCompositor{frames: map[compositor.WindowID]compositor.Rect{}}
	o, err := newOverlay(comp, 1, compositor.Rect{Width: 10, Height: 10}, compositor.FilledRectangle)
	if err != nil {
		t.Fatalf("newOverlay() error: %v", err)
	}

	if err := o.Paint(0.42, compositor.Color{}); err != nil {
		t.Fatalf("Paint() error: %v", err)
	}
	if o.Alpha() != 0.42 {
		t.Errorf("Alpha() = %v, want 0.42", o.Alpha())
	}

	// Painting a disposed overlay must not reach the backend.
	o.Dispose()
	if err := o.Paint(0.9, compositor.Color{}); err != nil {
		t.Errorf("Paint() after Dispose = %v, want nil no-op", err)
	}
	if got := len(comp.surfaces[0].paints); got != 1 {
		t.Errorf("backend paints = %d, want 1", got)
	}
}
