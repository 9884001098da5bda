package x11

import (
	"context"
	"encoding/binary"
	"log"
	"strings"
	"sync"

	"github.com/jezek/xgb"
	"github.com/jezek/xgb/shape"
	"github.com/jezek/xgb/xproto"
	"github.com/pkg/errors"

	"github.com/hugo/flashd/pkg/compositor"
)

var atomNames = []string{
	"_NET_ACTIVE_WINDOW",
	"_NET_WM_NAME",
	"WM_NAME",
	"WM_CLASS",
	"UTF8_STRING",
	"_NET_WM_WINDOW_OPACITY",
}

// Compositor implements compositor.Compositor against an X server.
// Focus changes are observed through PropertyNotify on the root window's
// _NET_ACTIVE_WINDOW; overlays are override-redirect windows whose opacity
// the running compositing manager blends via _NET_WM_WINDOW_OPACITY.
type Compositor struct {
	conn     *xgb.Conn
	root     xproto.Window
	screen   *xproto.ScreenInfo
	atoms    map[string]xproto.Atom
	hasShape bool

	mu       sync.Mutex
	focusCbs []func(compositor.Window)
	appCbs   []func(string)

	lastFocus xproto.Window
	lastApp   string
}

// New connects to the X server named by DISPLAY.
func New() (*Compositor, error) {
	conn, err := xgb.NewConn()
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect to X server")
	}

	setup := xproto.Setup(conn)
	screen := setup.DefaultScreen(conn)

	c := &Compositor{
		conn:   conn,
		root:   screen.Root,
		screen: screen,
		atoms:  make(map[string]xproto.Atom, len(atomNames)),
	}

	for _, name := range atomNames {
		reply, err := xproto.InternAtom(conn, false, uint16(len(name)), name).Reply()
		if err != nil {
			conn.Close()
			return nil, errors.Wrapf(err, "failed to intern atom %s", name)
		}
		c.atoms[name] = reply.Atom
	}

	// Shape lets overlays pass pointer input through to the window below.
	// Without it flashes still work, they just briefly swallow clicks.
	if err := shape.Init(conn); err == nil {
		c.hasShape = true
	} else {
		log.Printf("X shape extension unavailable, overlays will not be click-through: %v", err)
	}

	return c, nil
}

func (c *Compositor) getProperty(win xproto.Window, atom, atomType xproto.Atom, length uint32) ([]byte, error) {
	reply, err := xproto.GetProperty(c.conn, false, win, atom, atomType, 0, length).Reply()
	if err != nil {
		return nil, err
	}
	return reply.Value, nil
}

func (c *Compositor) activeWindowFromProperty() xproto.Window {
	data, err := c.getProperty(c.root, c.atoms["_NET_ACTIVE_WINDOW"], xproto.AtomWindow, 1)
	if err != nil || len(data) < 4 {
		return 0
	}
	return xproto.Window(binary.LittleEndian.Uint32(data))
}

func (c *Compositor) activeWindowFromInputFocus() xproto.Window {
	reply, err := xproto.GetInputFocus(c.conn).Reply()
	if err != nil {
		return 0
	}
	return reply.Focus
}

func (c *Compositor) topLevelParent(win xproto.Window) xproto.Window {
	for {
		reply, err := xproto.QueryTree(c.conn, win).Reply()
		if err != nil || reply.Parent == c.root || reply.Parent == 0 {
			return win
		}
		win = reply.Parent
	}
}

func (c *Compositor) activeWindow() xproto.Window {
	if win := c.activeWindowFromProperty(); win != 0 {
		return win
	}

	// EWMH property missing: fall back to the input focus, walking up to
	// the top-level window the WM reparented the client into.
	win := c.activeWindowFromInputFocus()
	if win == 0 || win == c.root {
		return 0
	}
	return c.topLevelParent(win)
}

func (c *Compositor) windowName(win xproto.Window) string {
	data, err := c.getProperty(win, c.atoms["_NET_WM_NAME"], c.atoms["UTF8_STRING"], 256)
	if err == nil && len(data) > 0 {
		return strings.TrimRight(string(data), "\x00")
	}

	data, err = c.getProperty(win, c.atoms["WM_NAME"], xproto.AtomString, 256)
	if err == nil && len(data) > 0 {
		return strings.TrimRight(string(data), "\x00")
	}

	return ""
}

func (c *Compositor) windowClass(win xproto.Window) (instance, class string) {
	data, err := c.getProperty(win, c.atoms["WM_CLASS"], xproto.AtomString, 256)
	if err != nil || len(data) == 0 {
		return "", ""
	}

	parts := strings.Split(strings.TrimRight(string(data), "\x00"), "\x00")
	if len(parts) >= 1 {
		instance = parts[0]
	}
	if len(parts) >= 2 {
		class = parts[1]
	}
	return instance, class
}

// Frame returns win's rectangle translated to root coordinates; the WM may
// have reparented the client, so the geometry's own x/y are not enough.
func (c *Compositor) Frame(id compositor.WindowID) (compositor.Rect, error) {
	win := xproto.Window(id)

	geom, err := xproto.GetGeometry(c.conn, xproto.Drawable(win)).Reply()
	if err != nil {
		return compositor.Rect{}, errors.Wrap(err, "failed to query window geometry")
	}

	trans, err := xproto.TranslateCoordinates(c.conn, win, c.root, 0, 0).Reply()
	if err != nil {
		return compositor.Rect{}, errors.Wrap(err, "failed to translate window coordinates")
	}

	return compositor.Rect{
		X:      int(trans.DstX),
		Y:      int(trans.DstY),
		Width:  int(geom.Width),
		Height: int(geom.Height),
	}, nil
}

// FocusedWindow resolves the currently focused top-level window.
func (c *Compositor) FocusedWindow() (*compositor.Window, error) {
	win := c.activeWindow()
	if win == 0 {
		return nil, nil
	}
	return c.describe(win), nil
}

// FrontmostApp returns the application owning the focused window.
func (c *Compositor) FrontmostApp() (string, error) {
	w, err := c.FocusedWindow()
	if err != nil || w == nil {
		return "", err
	}
	return w.AppName, nil
}

func (c *Compositor) describe(win xproto.Window) *compositor.Window {
	instance, class := c.windowClass(win)
	app := class
	if app == "" {
		app = instance
	}

	return &compositor.Window{
		ID:      compositor.WindowID(win),
		AppName: app,
		Title:   c.windowName(win),
	}
}

// SubscribeFocusChanged registers fn for window-focus notifications.
func (c *Compositor) SubscribeFocusChanged(fn func(compositor.Window)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.focusCbs = append(c.focusCbs, fn)
}

// SubscribeAppActivated registers fn for application-activation notifications.
func (c *Compositor) SubscribeAppActivated(fn func(string)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.appCbs = append(c.appCbs, fn)
}

// Run pumps X events until ctx is cancelled, firing subscribed callbacks on
// _NET_ACTIVE_WINDOW changes. Callbacks run on the event loop goroutine, in
// event-arrival order.
func (c *Compositor) Run(ctx context.Context) error {
	err := xproto.ChangeWindowAttributesChecked(c.conn, c.root,
		xproto.CwEventMask, []uint32{xproto.EventMaskPropertyChange}).Check()
	if err != nil {
		return errors.Wrap(err, "failed to subscribe to root property events")
	}

	go func() {
		<-ctx.Done()
		c.conn.Close()
	}()

	for {
		ev, xerr := c.conn.WaitForEvent()
		if ev == nil && xerr == nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return errors.New("X connection closed")
		}
		if xerr != nil {
			log.Printf("X11 error: %v", xerr)
			continue
		}

		prop, ok := ev.(xproto.PropertyNotifyEvent)
		if !ok || prop.Atom != c.atoms["_NET_ACTIVE_WINDOW"] {
			continue
		}
		c.dispatchFocusChange()
	}
}

func (c *Compositor) dispatchFocusChange() {
	win := c.activeWindowFromProperty()
	if win == 0 || win == c.lastFocus {
		return
	}
	c.lastFocus = win

	w := c.describe(win)

	c.mu.Lock()
	focusCbs := c.focusCbs
	appCbs := c.appCbs
	c.mu.Unlock()

	for _, fn := range focusCbs {
		fn(*w)
	}

	if w.AppName != "" && w.AppName != c.lastApp {
		c.lastApp = w.AppName
		for _, fn := range appCbs {
			fn(w.AppName)
		}
	}
}

// Close tears down the X connection.
func (c *Compositor) Close() error {
	c.conn.Close()
	return nil
}
