// Package tracker turns pointer and arrow-key input into a crop rectangle.
//
// All positions are tracker-local pixels with the origin at the top-left of
// the drawing surface. The tracker is not safe for concurrent use; callers
// deliver events from a single goroutine.
package tracker

import (
	"pancrop/internal/logging"
	"pancrop/pkg/geometry"
)

const (
	defaultAnchorSize    = 10
	defaultMoveIncrement = 4
)

// Options configures a Tracker.
type Options struct {
	// Notifications carry a copy of the viewport in canvas space.
	OnStart func(geometry.Rect)
	OnMove  func(geometry.Rect)
	OnEnd   func(geometry.Rect)

	Resizable bool
	Draggable bool
	Drawable  bool

	// AnchorSize is the side of the square hot-zone centred on each corner.
	AnchorSize float64
	// MoveIncrement is the arrow-key step in pixels.
	MoveIncrement float64
}

// DefaultOptions returns options with every interaction enabled.
func DefaultOptions() Options {
	return Options{
		Resizable:     true,
		Draggable:     true,
		Drawable:      true,
		AnchorSize:    defaultAnchorSize,
		MoveIncrement: defaultMoveIncrement,
	}
}

// Tracker owns the viewport rectangle and the pointer state machine.
type Tracker struct {
	opts Options

	viewport geometry.Rect
	mode     Mode
	anchor   Anchor
	pressed  bool

	// start is the press position; while drawing it is the fixed corner.
	start geometry.Point2D
	// offsets of the press position from each corner while dragging
	offset  geometry.Point2D
	offset2 geometry.Point2D
}

// New creates a Tracker with an empty viewport.
func New(opts Options) *Tracker {
	if opts.AnchorSize <= 0 {
		opts.AnchorSize = defaultAnchorSize
	}
	if opts.MoveIncrement == 0 {
		opts.MoveIncrement = defaultMoveIncrement
	}
	return &Tracker{opts: opts}
}

// Viewport returns a copy of the current canvas-space rectangle.
func (t *Tracker) Viewport() geometry.Rect {
	return t.viewport
}

// SetViewport replaces the rectangle wholesale. No notification fires.
func (t *Tracker) SetViewport(r geometry.Rect) {
	t.viewport = r
}

// Mode returns the active interaction.
func (t *Tracker) Mode() Mode { return t.mode }

// Anchor returns the corner being resized, or AnchorNone.
func (t *Tracker) Anchor() Anchor {
	if t.mode != ModeResizing {
		return AnchorNone
	}
	return t.anchor
}

// IsCropping reports whether the pointer is held down.
func (t *Tracker) IsCropping() bool { return t.pressed }

func (t *Tracker) Resizable() bool { return t.opts.Resizable }
func (t *Tracker) Draggable() bool { return t.opts.Draggable }
func (t *Tracker) Drawable() bool  { return t.opts.Drawable }

func (t *Tracker) SetResizable(v bool) { t.opts.Resizable = v }
func (t *Tracker) SetDraggable(v bool) { t.opts.Draggable = v }
func (t *Tracker) SetDrawable(v bool)  { t.opts.Drawable = v }

// AnchorSize returns the side of each anchor hot-zone.
func (t *Tracker) AnchorSize() float64 { return t.opts.AnchorSize }

// AnchorRect returns the hot-zone for a corner of the current viewport.
func (t *Tracker) AnchorRect(a Anchor) geometry.Rect {
	var corner geometry.Point2D
	v := t.viewport
	switch a {
	case AnchorTopLeft:
		corner = geometry.Point2D{X: v.Left(), Y: v.Top()}
	case AnchorTopRight:
		corner = geometry.Point2D{X: v.Right(), Y: v.Top()}
	case AnchorBottomLeft:
		corner = geometry.Point2D{X: v.Left(), Y: v.Bottom()}
	case AnchorBottomRight:
		corner = geometry.Point2D{X: v.Right(), Y: v.Bottom()}
	default:
		return geometry.Rect{}
	}
	half := t.opts.AnchorSize / 2
	return geometry.NewRect(corner.X-half, corner.Y-half, corner.X+half, corner.Y+half)
}

// AnchorAt returns the first anchor containing p, in bottom-left,
// bottom-right, top-right, top-left order. An empty viewport has no anchors.
func (t *Tracker) AnchorAt(p geometry.Point2D) Anchor {
	if t.viewport.IsEmpty() {
		return AnchorNone
	}
	for _, a := range hitOrder {
		if t.AnchorRect(a).Contains(p) {
			return a
		}
	}
	return AnchorNone
}

func (t *Tracker) inside(p geometry.Point2D) bool {
	return !t.viewport.IsEmpty() && t.viewport.Contains(p)
}

// CursorAt returns the cursor shape suggested for p. It never mutates state.
func (t *Tracker) CursorAt(p geometry.Point2D) Cursor {
	if t.opts.Resizable {
		if a := t.AnchorAt(p); a != AnchorNone {
			return a.cursor()
		}
	}
	if t.opts.Draggable && t.inside(p) {
		return CursorMove
	}
	if t.opts.Drawable {
		return CursorCrosshair
	}
	return CursorDefault
}

// PointerDown selects the interaction mode for this press.
func (t *Tracker) PointerDown(p geometry.Point2D) {
	t.pressed = true
	t.start = p
	t.mode = ModeIdle
	t.anchor = AnchorNone

	if a := t.AnchorAt(p); a != AnchorNone && t.opts.Resizable {
		t.mode = ModeResizing
		t.anchor = a
	} else if t.opts.Draggable && t.inside(p) {
		t.mode = ModeDragging
		t.offset = p.Sub(geometry.Point2D{X: t.viewport.X, Y: t.viewport.Y})
		t.offset2 = p.Sub(geometry.Point2D{X: t.viewport.X2, Y: t.viewport.Y2})
	} else if t.opts.Drawable {
		t.mode = ModeDrawing
		t.viewport = geometry.NewRect(p.X, p.Y, p.X, p.Y)
	}

	logging.Logger().Debug("tracker: pointer down",
		"x", p.X, "y", p.Y, "mode", t.mode.String(), "anchor", t.anchor.String())

	notify(t.opts.OnStart, t.viewport)
}

// PointerMove updates the viewport for the active mode and returns the
// cursor advisory for p.
func (t *Tracker) PointerMove(p geometry.Point2D) Cursor {
	cursor := t.CursorAt(p)
	if !t.pressed || t.mode == ModeIdle {
		return cursor
	}

	switch t.mode {
	case ModeResizing:
		t.resize(p)
	case ModeDragging:
		t.viewport.X = p.X - t.offset.X
		t.viewport.Y = p.Y - t.offset.Y
		t.viewport.X2 = p.X - t.offset2.X
		t.viewport.Y2 = p.Y - t.offset2.Y
	case ModeDrawing:
		t.viewport.X = min(p.X, t.start.X)
		t.viewport.Y = min(p.Y, t.start.Y)
		t.viewport.X2 = max(p.X, t.start.X)
		t.viewport.Y2 = max(p.Y, t.start.Y)
	}

	notify(t.opts.OnMove, t.viewport)
	return cursor
}

func (t *Tracker) resize(p geometry.Point2D) {
	switch t.anchor {
	case AnchorTopLeft:
		t.viewport.X, t.viewport.Y = p.X, p.Y
	case AnchorTopRight:
		t.viewport.X2, t.viewport.Y = p.X, p.Y
	case AnchorBottomRight:
		t.viewport.X2, t.viewport.Y2 = p.X, p.Y
	case AnchorBottomLeft:
		t.viewport.X, t.viewport.Y2 = p.X, p.Y
	}
}

// PointerUp ends the press and fires the end notification. A release
// without a matching press is ignored.
func (t *Tracker) PointerUp(geometry.Point2D) {
	if !t.pressed {
		return
	}
	t.pressed = false
	t.mode = ModeIdle
	t.anchor = AnchorNone

	notify(t.opts.OnEnd, t.viewport)
}

// KeyPress nudges a non-empty viewport by the move increment. Keys are
// only honoured while idle. It reports whether the viewport moved.
func (t *Tracker) KeyPress(k Key) bool {
	if t.pressed || t.viewport.IsEmpty() {
		return false
	}

	step := t.opts.MoveIncrement
	switch k {
	case KeyLeft:
		t.viewport.Move(-step, 0)
	case KeyRight:
		t.viewport.Move(step, 0)
	case KeyUp:
		t.viewport.Move(0, -step)
	case KeyDown:
		t.viewport.Move(0, step)
	default:
		return false
	}

	notify(t.opts.OnEnd, t.viewport)
	return true
}

// Scale scales the viewport about the canvas origin and fires the end
// notification.
func (t *Tracker) Scale(factor float64) {
	t.viewport.Scale(factor)
	notify(t.opts.OnEnd, t.viewport)
}

func notify(fn func(geometry.Rect), r geometry.Rect) {
	if fn != nil {
		fn(r)
	}
}
