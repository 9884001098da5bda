package x11

import (
	"encoding/binary"

	"github.com/jezek/xgb"
	"github.com/jezek/xgb/shape"
	"github.com/jezek/xgb/xproto"
	"github.com/pkg/errors"

	"github.com/hugo/flashd/pkg/compositor"
)

// borderWidth is the stroke width of a border flash, in pixels.
const borderWidth = 3

// accentPixel is the fixed color border flashes use, regardless of the
// configured flash color.
const accentPixel uint32 = 0x5294e2

// surface is one overlay, built from one window (filled) or four edge
// windows forming a frame (stroked). Opacity is applied through the
// _NET_WM_WINDOW_OPACITY hint and blended by the compositing manager.
type surface struct {
	conn        *xgb.Conn
	wins        []xproto.Window
	shape       compositor.Shape
	opacityAtom xproto.Atom
}

// CreateSurface creates an unmapped-then-mapped overlay covering rect.
// The windows are override-redirect so the WM neither decorates nor
// focuses them, and their input region is emptied so clicks pass through.
func (c *Compositor) CreateSurface(rect compositor.Rect, sh compositor.Shape) (compositor.Surface, error) {
	s := &surface{
		conn:        c.conn,
		shape:       sh,
		opacityAtom: c.atoms["_NET_WM_WINDOW_OPACITY"],
	}

	for _, r := range surfaceRects(rect, sh) {
		win, err := c.createOverlayWindow(r)
		if err != nil {
			s.Dispose()
			return nil, err
		}
		s.wins = append(s.wins, win)
	}

	// Fully transparent until the first paint, so mapping does not flash
	// an arbitrary background pixel for a frame.
	if err := s.setOpacity(0); err != nil {
		s.Dispose()
		return nil, err
	}

	for _, win := range s.wins {
		if err := xproto.MapWindowChecked(c.conn, win).Check(); err != nil {
			s.Dispose()
			return nil, errors.Wrap(err, "failed to map overlay window")
		}
	}

	return s, nil
}

// surfaceRects returns the window rectangles an overlay of the given shape
// needs. A stroked rectangle is four edge strips inset from the bounds; a
// frame too small to stroke degrades to a single filled window.
func surfaceRects(rect compositor.Rect, sh compositor.Shape) []compositor.Rect {
	if sh != compositor.StrokedRectangle || rect.Width < 2*borderWidth || rect.Height < 2*borderWidth {
		return []compositor.Rect{rect}
	}

	return []compositor.Rect{
		{X: rect.X, Y: rect.Y, Width: rect.Width, Height: borderWidth},
		{X: rect.X, Y: rect.Y + rect.Height - borderWidth, Width: rect.Width, Height: borderWidth},
		{X: rect.X, Y: rect.Y + borderWidth, Width: borderWidth, Height: rect.Height - 2*borderWidth},
		{X: rect.X + rect.Width - borderWidth, Y: rect.Y + borderWidth, Width: borderWidth, Height: rect.Height - 2*borderWidth},
	}
}

func (c *Compositor) createOverlayWindow(r compositor.Rect) (xproto.Window, error) {
	win, err := xproto.NewWindowId(c.conn)
	if err != nil {
		return 0, errors.Wrap(err, "failed to allocate window id")
	}

	err = xproto.CreateWindowChecked(c.conn, c.screen.RootDepth, win, c.root,
		int16(r.X), int16(r.Y), uint16(r.Width), uint16(r.Height), 0,
		xproto.WindowClassInputOutput, c.screen.RootVisual,
		xproto.CwBackPixel|xproto.CwOverrideRedirect,
		[]uint32{c.screen.BlackPixel, 1}).Check()
	if err != nil {
		return 0, errors.Wrap(err, "failed to create overlay window")
	}

	if c.hasShape {
		err = shape.RectanglesChecked(c.conn, shape.SoSet, shape.SkInput,
			xproto.ClipOrderingUnsorted, win, 0, 0, nil).Check()
		if err != nil {
			xproto.DestroyWindow(c.conn, win)
			return 0, errors.Wrap(err, "failed to clear overlay input region")
		}
	}

	return win, nil
}

// Paint recolors the overlay and applies alpha via the window-opacity hint.
// Stroked surfaces ignore the configured RGB in favor of the fixed accent.
func (s *surface) Paint(alpha float64, color compositor.Color) error {
	px := pixel(color)
	if s.shape == compositor.StrokedRectangle {
		px = accentPixel
	}

	for _, win := range s.wins {
		err := xproto.ChangeWindowAttributesChecked(s.conn, win,
			xproto.CwBackPixel, []uint32{px}).Check()
		if err != nil {
			return errors.Wrap(err, "failed to recolor overlay")
		}
		if err := xproto.ClearAreaChecked(s.conn, false, win, 0, 0, 0, 0).Check(); err != nil {
			return errors.Wrap(err, "failed to repaint overlay")
		}
	}

	return s.setOpacity(alpha)
}

func (s *surface) setOpacity(alpha float64) error {
	if alpha < 0 {
		alpha = 0
	} else if alpha > 1 {
		alpha = 1
	}

	data := make([]byte, 4)
	binary.LittleEndian.PutUint32(data, uint32(alpha*0xffffffff))

	for _, win := range s.wins {
		err := xproto.ChangePropertyChecked(s.conn, xproto.PropModeReplace, win,
			s.opacityAtom, xproto.AtomCardinal, 32, 1, data).Check()
		if err != nil {
			return errors.Wrap(err, "failed to set overlay opacity")
		}
	}

	return nil
}

// Dispose destroys the overlay windows. Errors are ignored; the windows may
// already be gone along with the connection.
func (s *surface) Dispose() {
	for _, win := range s.wins {
		xproto.DestroyWindow(s.conn, win)
	}
	s.wins = nil
}

// pixel packs a color into a truecolor pixel value.
func pixel(c compositor.Color) uint32 {
	return channel(c.R)<<16 | channel(c.G)<<8 | channel(c.B)
}

func channel(v float64) uint32 {
	if v < 0 {
		v = 0
	} else if v > 1 {
		v = 1
	}
	return uint32(v*255 + 0.5)
}
