package backend

import "testing"

func TestDetectDisplayServer(t *testing.T) {
	tests := []struct {
		name           string
		display        string
		waylandDisplay string
		sessionType    string
		want           string
	}{
		{"plain x11", ":0", "", "x11", "x11"},
		{"xwayland available", ":0", "wayland-0", "wayland", "x11"},
		{"pure wayland", "", "wayland-0", "wayland", "wayland"},
		{"wayland session type only", "", "", "wayland", "wayland"},
		{"x11 session type only", "", "", "x11", "x11"},
		{"headless", "", "", "", "unknown"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv("DISPLAY", tc.display)
			t.Setenv("WAYLAND_DISPLAY", tc.waylandDisplay)
			t.Setenv("XDG_SESSION_TYPE", tc.sessionType)

			if got := DetectDisplayServer(); got != tc.want {
				t.Errorf("DetectDisplayServer() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestNewFailsWithoutDisplay(t *testing.T) {
	t.Setenv("DISPLAY", "")
	t.Setenv("WAYLAND_DISPLAY", "")
	t.Setenv("XDG_SESSION_TYPE", "")

	if _, err := New(); err == nil {
		t.Error("New() with no display server should fail")
	}
}
