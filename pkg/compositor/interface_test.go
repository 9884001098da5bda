package compositor

import (
	"context"
	"testing"
)

type MockSurface struct {
	painted  int
	disposed int
	paintErr error
}

func (m *MockSurface) Paint(alpha float64, color Color) error {
	m.painted++
	return m.paintErr
}

func (m *MockSurface) Dispose() {
	m.disposed++
}

type MockCompositor struct {
	frame    Rect
	focused  *Window
	surface  *MockSurface
	focusCb  func(Window)
	appCb    func(string)
	closeErr error
}

func (m *MockCompositor) Frame(id WindowID) (Rect, error) {
	return m.frame, nil
}

func (m *MockCompositor) FocusedWindow() (*Window, error) {
	return m.focused, nil
}

func (m *MockCompositor) FrontmostApp() (string, error) {
	if m.focused == nil {
		return "", nil
	}
	return m.focused.AppName, nil
}

func (m *MockCompositor) CreateSurface(rect Rect, shape Shape) (Surface, error) {
	m.surface = &MockSurface{}
	return m.surface, nil
}

func (m *MockCompositor) SubscribeFocusChanged(fn func(Window)) {
	m.focusCb = fn
}

func (m *MockCompositor) SubscribeAppActivated(fn func(string)) {
	m.appCb = fn
}

func (m *MockCompositor) Run(ctx context.Context) error {
	<-ctx.Done()
	return ctx.Err()
}

func (m *MockCompositor) Close() error {
	return m.closeErr
}

func TestMockCompositor(t *testing.T) {
	var _ Compositor = (*MockCompositor)(nil)
	var _ Surface = (*MockSurface)(nil)

	mock := &MockCompositor{
		frame:   Rect{X: 10, Y: 20, Width: 640, Height: 480},
		focused: &Window{ID: 7, AppName: "firefox", Title: "Mozilla Firefox"},
	}

	frame, err := mock.Frame(7)
	if err != nil {
		t.Errorf("Frame() error: %v", err)
	}
	if frame.Width != 640 || frame.Height != 480 {
		t.Errorf("Frame() = %+v, want 640x480", frame)
	}

	w, err := mock.FocusedWindow()
	if err != nil {
		t.Errorf("FocusedWindow() error: %v", err)
	}
	if w.AppName != "firefox" {
		t.Errorf("AppName = %s, want firefox", w.AppName)
	}

	app, err := mock.FrontmostApp()
	if err != nil {
		t.Errorf("FrontmostApp() error: %v", err)
	}
	if app != "firefox" {
		t.Errorf("FrontmostApp() = %s, want firefox", app)
	}

	surf, err := mock.CreateSurface(frame, FilledRectangle)
	if err != nil {
		t.Errorf("CreateSurface() error: %v", err)
	}
	if err := surf.Paint(0.5, Color{R: 1}); err != nil {
		t.Errorf("Paint() error: %v", err)
	}
	surf.Dispose()
	if mock.surface.painted != 1 || mock.surface.disposed != 1 {
		t.Errorf("surface painted=%d disposed=%d, want 1 and 1", mock.surface.painted, mock.surface.disposed)
	}

	if err := mock.Close(); err != nil {
		t.Errorf("Close() error: %v", err)
	}
}

func TestShapeString(t *testing.T) {
	if FilledRectangle.String() != "fade" {
		t.Errorf("FilledRectangle.String() = %s, want fade", FilledRectangle.String())
	}
	if StrokedRectangle.String() != "border" {
		t.Errorf("StrokedRectangle.String() = %s, want border", StrokedRectangle.String())
	}
}
