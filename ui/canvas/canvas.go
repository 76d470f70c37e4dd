// Package canvas provides the crop widget: a square surface showing the
// rotated image with the crop rectangle, driven by a crop.Session.
package canvas

import (
	"image"
	"sync"
	"time"

	"pancrop/internal/crop"
	"pancrop/internal/logging"
	"pancrop/internal/render"
	"pancrop/internal/tracker"
	"pancrop/pkg/geometry"

	"fyne.io/fyne/v2"
	fynecanvas "fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"
)

const (
	minSide    = 200
	zoomStep   = 1.25
	frameDelay = 16 * time.Millisecond
)

// CropCanvas shows a crop session and forwards pointer and key input to it.
type CropCanvas struct {
	widget.BaseWidget

	mu      sync.Mutex
	session *crop.Session
	src     image.Image
	cursor  tracker.Cursor
	last    geometry.Point2D
	anim    *fyne.Animation

	raster *fynecanvas.Raster

	onChange func(*crop.Session)
	onHover  func(p geometry.Point2D, onImage bool)
	onRotate func(degrees float64)
}

// NewCropCanvas creates an empty crop canvas. Call SetImage to start a session.
func NewCropCanvas() *CropCanvas {
	cc := &CropCanvas{cursor: tracker.CursorDefault}
	cc.raster = fynecanvas.NewRaster(cc.draw)
	cc.raster.ScaleMode = fynecanvas.ImageScaleSmooth
	cc.ExtendBaseWidget(cc)
	return cc
}

// SetImage replaces the image and starts a new session over it. opts.OnChange
// is replaced by the canvas; use OnChange to observe completed edits.
func (cc *CropCanvas) SetImage(src image.Image, opts crop.Options) error {
	b := src.Bounds()
	opts.OnChange = func(s *crop.Session) {
		if cc.onChange != nil {
			cc.onChange(s)
		}
	}
	s, err := crop.New(geometry.NewSize(float64(b.Dx()), float64(b.Dy())), opts)
	if err != nil {
		return err
	}

	cc.mu.Lock()
	cc.stopAnimation()
	cc.session = s
	cc.src = src
	cc.mu.Unlock()

	cc.startAnimation()
	cc.Refresh()
	return nil
}

// OnChange registers a callback fired after each completed edit. It runs
// with the canvas locked, so it must use the session it is given.
func (cc *CropCanvas) OnChange(callback func(*crop.Session)) {
	cc.onChange = callback
}

// OnHover registers a callback receiving the source image pixel under the
// pointer, and whether that pixel lies on the image.
func (cc *CropCanvas) OnHover(callback func(p geometry.Point2D, onImage bool)) {
	cc.onHover = callback
}

// OnRotate registers a callback receiving the displayed angle on every
// animation frame.
func (cc *CropCanvas) OnRotate(callback func(degrees float64)) {
	cc.onRotate = callback
}

// Clockwise rotates the image a quarter turn clockwise.
func (cc *CropCanvas) Clockwise() {
	cc.WithSession(func(s *crop.Session) { s.Clockwise() })
	cc.startAnimation()
}

// Anticlockwise rotates the image a quarter turn anticlockwise.
func (cc *CropCanvas) Anticlockwise() {
	cc.WithSession(func(s *crop.Session) { s.Anticlockwise() })
	cc.startAnimation()
}

// Rotate animates the image to an absolute rotation in degrees.
func (cc *CropCanvas) Rotate(degrees float64) {
	cc.WithSession(func(s *crop.Session) { s.Rotate(degrees) })
	cc.startAnimation()
}

// ZoomIn shrinks the crop around the image centre.
func (cc *CropCanvas) ZoomIn() { cc.zoomBy(zoomStep) }

// ZoomOut grows the crop around the image centre.
func (cc *CropCanvas) ZoomOut() { cc.zoomBy(1 / zoomStep) }

func (cc *CropCanvas) zoomBy(factor float64) {
	cc.WithSession(func(s *crop.Session) {
		if err := s.Zoom(s.ZoomFactor() * factor); err != nil {
			logging.Logger().Warn("zoom rejected", "error", err)
		}
	})
}

// SetZoom fits the crop to the image at the given factor.
func (cc *CropCanvas) SetZoom(factor float64) error {
	var err error
	cc.WithSession(func(s *crop.Session) { err = s.Zoom(factor) })
	return err
}

// WithSession runs fn with the canvas locked, then repaints. It reports
// false without calling fn before SetImage. fn must not call back into
// the canvas.
func (cc *CropCanvas) WithSession(fn func(*crop.Session)) bool {
	cc.mu.Lock()
	if cc.session == nil {
		cc.mu.Unlock()
		return false
	}
	fn(cc.session)
	cc.mu.Unlock()
	cc.Refresh()
	return true
}

func (cc *CropCanvas) startAnimation() {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	if cc.session == nil || !cc.session.IsAnimating() || cc.anim != nil {
		return
	}
	var anim *fyne.Animation
	anim = fyne.NewAnimation(frameDelay, func(float32) {
		if !cc.tick() {
			cc.mu.Lock()
			anim.Stop()
			if cc.anim == anim {
				cc.anim = nil
			}
			cc.mu.Unlock()
		}
	})
	anim.RepeatCount = fyne.AnimationRepeatForever
	anim.Curve = fyne.AnimationLinear
	cc.anim = anim
	anim.Start()
}

// tick advances the rotation by one frame and reports whether more frames
// are needed.
func (cc *CropCanvas) tick() bool {
	cc.mu.Lock()
	if cc.session == nil {
		cc.mu.Unlock()
		return false
	}
	running := cc.session.Tick()
	angle := cc.session.DisplayRotation()
	cc.mu.Unlock()

	cc.raster.Refresh()
	if cc.onRotate != nil {
		cc.onRotate(angle)
	}
	return running
}

func (cc *CropCanvas) stopAnimation() {
	if cc.anim != nil {
		cc.anim.Stop()
		cc.anim = nil
	}
}

// toCanvas maps a widget position onto the session canvas. The canvas is
// drawn as the largest centred square that fits the widget.
func toCanvas(pos fyne.Position, size fyne.Size, extent geometry.Size) geometry.Point2D {
	origin, side := squareIn(size)
	if side <= 0 {
		return geometry.Point2D{}
	}
	return geometry.NewPoint2D(
		float64(pos.X-origin.X)*extent.Width/float64(side),
		float64(pos.Y-origin.Y)*extent.Height/float64(side),
	)
}

func squareIn(size fyne.Size) (fyne.Position, float32) {
	side := min(size.Width, size.Height)
	return fyne.NewPos((size.Width-side)/2, (size.Height-side)/2), side
}

func (cc *CropCanvas) pointer(pos fyne.Position, fn func(*crop.Session, geometry.Point2D)) bool {
	size := cc.Size()
	return cc.WithSession(func(s *crop.Session) {
		p := toCanvas(pos, size, s.CanvasExtent())
		cc.last = p
		fn(s, p)
	})
}

// MouseDown implements desktop.Mouseable.
func (cc *CropCanvas) MouseDown(ev *desktop.MouseEvent) {
	if ev.Button != desktop.MouseButtonPrimary {
		return
	}
	cc.pointer(ev.Position, func(s *crop.Session, p geometry.Point2D) { s.PointerDown(p) })
}

// MouseUp implements desktop.Mouseable.
func (cc *CropCanvas) MouseUp(ev *desktop.MouseEvent) {
	if ev.Button != desktop.MouseButtonPrimary {
		return
	}
	cc.pointer(ev.Position, func(s *crop.Session, p geometry.Point2D) { s.PointerUp(p) })
}

// MouseIn implements desktop.Hoverable.
func (cc *CropCanvas) MouseIn(ev *desktop.MouseEvent) { cc.MouseMoved(ev) }

// MouseMoved implements desktop.Hoverable.
func (cc *CropCanvas) MouseMoved(ev *desktop.MouseEvent) {
	var (
		pixel   geometry.Point2D
		onImage bool
	)
	ok := cc.pointer(ev.Position, func(s *crop.Session, p geometry.Point2D) {
		cc.cursor = s.PointerMove(p)
		if ip, err := s.ImagePoint(p); err == nil {
			ext := s.ImageExtent()
			pixel = ip
			onImage = ip.X >= 0 && ip.Y >= 0 && ip.X < ext.Width && ip.Y < ext.Height
		}
	})
	if ok && cc.onHover != nil {
		cc.onHover(pixel, onImage)
	}
}

// MouseOut implements desktop.Hoverable.
func (cc *CropCanvas) MouseOut() {
	cc.mu.Lock()
	cc.cursor = tracker.CursorDefault
	cc.mu.Unlock()
}

// Dragged implements fyne.Draggable. Moves during a press arrive here
// rather than through MouseMoved.
func (cc *CropCanvas) Dragged(ev *fyne.DragEvent) {
	cc.MouseMoved(&desktop.MouseEvent{PointEvent: ev.PointEvent})
}

// DragEnd implements fyne.Draggable. A release outside the widget never
// reaches MouseUp, so the press is ended at the last known point.
func (cc *CropCanvas) DragEnd() {
	cc.WithSession(func(s *crop.Session) { s.PointerUp(cc.last) })
}

// Cursor implements desktop.Cursorable.
func (cc *CropCanvas) Cursor() desktop.Cursor {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return desktopCursor(cc.cursor)
}

// fyne has no diagonal resize cursors, so every corner shares the crosshair.
func desktopCursor(c tracker.Cursor) desktop.Cursor {
	switch c {
	case tracker.CursorMove:
		return desktop.PointerCursor
	case tracker.CursorCrosshair, tracker.CursorNWResize, tracker.CursorNEResize,
		tracker.CursorSWResize, tracker.CursorSEResize:
		return desktop.CrosshairCursor
	default:
		return desktop.DefaultCursor
	}
}

// Tapped implements fyne.Tappable; tapping focuses the canvas for arrow keys.
func (cc *CropCanvas) Tapped(*fyne.PointEvent) {
	if c := fyne.CurrentApp().Driver().CanvasForObject(cc); c != nil {
		c.Focus(cc)
	}
}

// FocusGained implements fyne.Focusable.
func (cc *CropCanvas) FocusGained() {}

// FocusLost implements fyne.Focusable.
func (cc *CropCanvas) FocusLost() {}

// TypedRune implements fyne.Focusable.
func (cc *CropCanvas) TypedRune(rune) {}

// TypedKey implements fyne.Focusable; arrow keys nudge the crop.
func (cc *CropCanvas) TypedKey(ev *fyne.KeyEvent) {
	k, ok := arrowKey(ev.Name)
	if !ok {
		return
	}
	cc.WithSession(func(s *crop.Session) { s.KeyPress(k) })
}

func arrowKey(name fyne.KeyName) (tracker.Key, bool) {
	switch name {
	case fyne.KeyLeft:
		return tracker.KeyLeft, true
	case fyne.KeyRight:
		return tracker.KeyRight, true
	case fyne.KeyUp:
		return tracker.KeyUp, true
	case fyne.KeyDown:
		return tracker.KeyDown, true
	}
	return 0, false
}

// Refresh repaints the canvas.
func (cc *CropCanvas) Refresh() {
	cc.raster.Refresh()
	cc.BaseWidget.Refresh()
}

// MinSize keeps the square large enough to grab the anchors.
func (cc *CropCanvas) MinSize() fyne.Size {
	return fyne.NewSize(minSide, minSide)
}

// draw renders the current frame at canvas resolution; the raster scales it.
func (cc *CropCanvas) draw(w, h int) image.Image {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	if cc.session == nil {
		return image.NewRGBA(image.Rect(0, 0, 1, 1))
	}
	dst := render.NewCanvas(cc.session)
	render.Draw(dst, cc.src, cc.session)
	return dst
}

// CreateRenderer implements fyne.Widget.
func (cc *CropCanvas) CreateRenderer() fyne.WidgetRenderer {
	return &cropCanvasRenderer{canvas: cc}
}

type cropCanvasRenderer struct {
	canvas *CropCanvas
}

func (r *cropCanvasRenderer) Layout(size fyne.Size) {
	origin, side := squareIn(size)
	r.canvas.raster.Move(origin)
	r.canvas.raster.Resize(fyne.NewSize(side, side))
}

func (r *cropCanvasRenderer) MinSize() fyne.Size {
	return r.canvas.MinSize()
}

func (r *cropCanvasRenderer) Refresh() {
	r.Layout(r.canvas.Size())
	r.canvas.raster.Refresh()
}

func (r *cropCanvasRenderer) Objects() []fyne.CanvasObject {
	return []fyne.CanvasObject{r.canvas.raster}
}

func (r *cropCanvasRenderer) Destroy() {
	r.canvas.mu.Lock()
	r.canvas.stopAnimation()
	r.canvas.mu.Unlock()
}
