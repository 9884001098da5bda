package compositor

import "context"

// WindowID identifies a top-level window. Stable for the window's lifetime;
// registry keys hash on this alone.
type WindowID uint32

// Rect is a rectangular region in screen (root window) coordinates.
type Rect struct {
	X      int
	Y      int
	Width  int
	Height int
}

// Color is an RGBA color with components in [0,1].
// A is the opacity the overlay starts a flash at.
type Color struct {
	R float64
	G float64
	B float64
	A float64
}

// Shape selects how a surface paints its bounds.
type Shape int

const (
	// FilledRectangle fills the whole bounds with the flash color.
	FilledRectangle Shape = iota
	// StrokedRectangle strokes a fixed-width border inset from the bounds.
	StrokedRectangle
)

func (s Shape) String() string {
	switch s {
	case StrokedRectangle:
		return "border"
	default:
		return "fade"
	}
}

// Window describes a top-level window and its owning application.
type Window struct {
	ID      WindowID
	AppName string
	Title   string
}

// Surface is a paintable overlay anchored to a fixed rectangle. Surfaces are
// created by a Compositor and owned by exactly one animation at a time.
type Surface interface {
	// Paint repaints the surface with color at the given opacity.
	// Returns an error if the backend has become invalid.
	Paint(alpha float64, color Color) error

	// Dispose releases backend resources.
	Dispose()
}

// Compositor is the window-system interface the animation core consumes.
type Compositor interface {
	// Frame returns the window's current rectangle in screen coordinates.
	Frame(id WindowID) (Rect, error)

	// FocusedWindow returns the currently focused top-level window,
	// or nil if no window has focus.
	FocusedWindow() (*Window, error)

	// FrontmostApp returns the name of the application owning the
	// focused window, or "" if none.
	FrontmostApp() (string, error)

	// CreateSurface creates an overlay surface covering rect.
	CreateSurface(rect Rect, shape Shape) (Surface, error)

	// SubscribeFocusChanged registers a callback fired whenever window
	// focus moves. Fire-and-forget; there is no unsubscribe.
	SubscribeFocusChanged(fn func(Window))

	// SubscribeAppActivated registers a callback fired whenever the
	// active application changes.
	SubscribeAppActivated(fn func(appName string))

	// Run pumps window-system events, invoking subscribed callbacks,
	// until ctx is cancelled.
	Run(ctx context.Context) error

	// Close tears down the window-system connection.
	Close() error
}
