package animator

import (
	"errors"
	"fmt"

	"github.com/hugo/flashd/pkg/compositor"
)

// ErrDebounced reports a trigger that arrived too soon after the previous
// accepted trigger for the same window. Expected; callers drop it silently.
var ErrDebounced = errors.New("trigger debounced")

// ErrShutdown reports a trigger against an engine that has been shut down.
var ErrShutdown = errors.New("engine is shut down")

// GeometryError reports a window without a usable rectangle, typically one
// that is minimized or mid-teardown. The flash is dropped; no resources
// were created.
type GeometryError struct {
	Window compositor.WindowID
	Reason string
}

func (e *GeometryError) Error() string {
	return fmt.Sprintf("window 0x%x has no usable geometry: %s", uint32(e.Window), e.Reason)
}

// RenderError reports a paint against a backend that has gone away, usually
// because the window was destroyed mid-flash. Non-fatal: the session moves
// to its failed state and cleans up.
type RenderError struct {
	Window compositor.WindowID
	Err    error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("paint on window 0x%x failed: %v", uint32(e.Window), e.Err)
}

func (e *RenderError) Unwrap() error {
	return e.Err
}
