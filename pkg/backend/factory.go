package backend

import (
	"os"

	"github.com/pkg/errors"

	"github.com/hugo/flashd/pkg/compositor"
	"github.com/hugo/flashd/pkg/integrations/x11"
)

// New picks a compositor backend for the current session.
// Wayland has no cross-compositor protocol for override-redirect overlay
// windows, so only X11 (including XWayland with DISPLAY set) is supported.
func New() (compositor.Compositor, error) {
	switch DetectDisplayServer() {
	case "x11":
		return x11.New()
	case "wayland":
		return nil, errors.New("wayland session without XWayland: overlay flashes require an X11 DISPLAY")
	default:
		return nil, errors.New("no display server detected (DISPLAY and WAYLAND_DISPLAY unset)")
	}
}

// DetectDisplayServer reports which display server the session exposes.
// An X11 DISPLAY wins even under a Wayland session type, because XWayland
// is enough for the overlay windows this daemon creates.
func DetectDisplayServer() string {
	sessionType := os.Getenv("XDG_SESSION_TYPE")
	waylandDisplay := os.Getenv("WAYLAND_DISPLAY")
	x11Display := os.Getenv("DISPLAY")

	if x11Display != "" {
		return "x11"
	}

	if sessionType == "wayland" || waylandDisplay != "" {
		return "wayland"
	}

	if sessionType == "x11" {
		return "x11"
	}

	return "unknown"
}
