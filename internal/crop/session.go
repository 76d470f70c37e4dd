// Package crop provides the headless crop controller: it owns the pointer
// tracker and the rotation/zoom mapper, and exposes everything a rendering
// surface needs to draw and drive them.
package crop

import (
	"errors"
	"fmt"
	"image/color"
	"math"

	"pancrop/internal/logging"
	"pancrop/internal/tracker"
	"pancrop/internal/viewport"
	"pancrop/pkg/geometry"
)

// ErrInvalidImage is returned when the image extent has no area.
var ErrInvalidImage = errors.New("crop: image extent must be positive")

// Session is a single crop interaction over one image.
// It is not safe for concurrent use.
type Session struct {
	opts Options

	image  geometry.Size
	canvas geometry.Size

	tracker *tracker.Tracker
	mapper  *viewport.Mapper
}

// New creates a Session for an image of the given natural size.
func New(image geometry.Size, opts Options) (*Session, error) {
	if image.Width <= 0 || image.Height <= 0 {
		return nil, fmt.Errorf("%w: %vx%v", ErrInvalidImage, image.Width, image.Height)
	}
	if opts.Zoom == 0 {
		opts.Zoom = 1
	}
	if opts.Zoom < 0 || math.IsNaN(opts.Zoom) || math.IsInf(opts.Zoom, 0) {
		return nil, fmt.Errorf("%w: got %v", viewport.ErrInvalidZoom, opts.Zoom)
	}
	if opts.AnchorSize <= 0 {
		opts.AnchorSize = defaultAnchorSize
	}
	if opts.ImagePadding <= 0 {
		opts.ImagePadding = defaultImagePadding
	}

	s := &Session{
		opts:   opts,
		image:  image,
		canvas: paddedCanvas(image, opts.ImagePadding),
	}

	s.tracker = tracker.New(tracker.Options{
		OnStart:       func(geometry.Rect) { s.repaint() },
		OnMove:        func(geometry.Rect) { s.repaint() },
		OnEnd:         func(geometry.Rect) { s.ended() },
		Resizable:     opts.Resizable,
		Draggable:     opts.Draggable,
		Drawable:      opts.Drawable,
		AnchorSize:    opts.AnchorSize,
		MoveIncrement: opts.MoveIncrement,
	})

	s.mapper = viewport.New(s, s.tracker, opts.Rotation, opts.Zoom)
	s.mapper.OnChange = s.repaint

	if !opts.SourceRect.IsEmpty() {
		s.tracker.SetViewport(s.mapper.FromImageSpace(opts.SourceRect))
	} else if err := s.mapper.ApplyZoom(opts.Zoom); err != nil {
		return nil, err
	}

	logging.Logger().Debug("crop: session created",
		"image", image, "canvas", s.canvas, "rotation", opts.Rotation, "zoom", opts.Zoom)
	return s, nil
}

// paddedCanvas is a square large enough to show the image at any rotation.
func paddedCanvas(image geometry.Size, padding float64) geometry.Size {
	side := math.Max(image.Width, image.Height) * padding
	return geometry.NewSize(side, side)
}

// CanvasExtent implements viewport.Extents.
func (s *Session) CanvasExtent() geometry.Size { return s.canvas }

// ImageExtent implements viewport.Extents.
func (s *Session) ImageExtent() geometry.Size { return s.image }

func (s *Session) PointerDown(p geometry.Point2D) { s.tracker.PointerDown(p) }
func (s *Session) PointerUp(p geometry.Point2D)   { s.tracker.PointerUp(p) }

// PointerMove forwards a move and returns the cursor advisory.
func (s *Session) PointerMove(p geometry.Point2D) tracker.Cursor {
	return s.tracker.PointerMove(p)
}

// KeyPress nudges the crop with an arrow key.
func (s *Session) KeyPress(k tracker.Key) bool { return s.tracker.KeyPress(k) }

// Scale scales the canvas-space crop about the canvas origin.
func (s *Session) Scale(factor float64) { s.tracker.Scale(factor) }

// Tick advances an in-flight rotation; it reports whether more ticks are needed.
func (s *Session) Tick() bool { return s.mapper.Step() }

// Rotate starts an animated rotation to degrees.
func (s *Session) Rotate(degrees float64) { s.mapper.RequestRotation(degrees) }

func (s *Session) Clockwise()     { s.mapper.Clockwise() }
func (s *Session) Anticlockwise() { s.mapper.Anticlockwise() }

// Zoom refits the crop to the image centre at 1/factor of its size.
func (s *Session) Zoom(factor float64) error { return s.mapper.ApplyZoom(factor) }

// ZoomFactor returns the last applied zoom.
func (s *Session) ZoomFactor() float64 { return s.mapper.ZoomFactor() }

// Rotation returns the requested rotation in degrees (unbounded).
func (s *Session) Rotation() float64 { return s.mapper.Rotation() }

// DisplayRotation returns the angle to draw the image at this frame.
func (s *Session) DisplayRotation() float64 { return s.mapper.DisplayRotation() }

func (s *Session) IsAnimating() bool { return s.mapper.IsAnimating() }

// ViewPort returns the crop rectangle in image space.
func (s *Session) ViewPort() geometry.Rect { return s.mapper.Viewport() }

// CanvasViewport returns the crop rectangle in canvas space.
func (s *Session) CanvasViewport() geometry.Rect { return s.tracker.Viewport() }

// ImagePoint maps a canvas pixel to the source image pixel under it.
func (s *Session) ImagePoint(p geometry.Point2D) (geometry.Point2D, error) {
	return s.mapper.ImagePoint(p)
}

// DisplayTransform maps source image pixels to canvas pixels for this frame.
func (s *Session) DisplayTransform() geometry.AffineTransform {
	return s.mapper.DisplayTransform()
}

func (s *Session) Mode() tracker.Mode { return s.tracker.Mode() }
func (s *Session) IsCropping() bool   { return s.tracker.IsCropping() }

func (s *Session) Draggable() bool { return s.tracker.Draggable() }
func (s *Session) Drawable() bool  { return s.tracker.Drawable() }
func (s *Session) Resizable() bool { return s.tracker.Resizable() }

func (s *Session) SetDraggable(v bool) { s.tracker.SetDraggable(v) }
func (s *Session) SetDrawable(v bool)  { s.tracker.SetDrawable(v) }

// SetResizable toggles the resize anchors, which changes what is drawn.
func (s *Session) SetResizable(v bool) {
	s.tracker.SetResizable(v)
	s.repaint()
}

// Style returns the configured colours.
func (s *Session) Style() Style { return s.opts.Style }

// AnchorSize returns the anchor hot-zone size in canvas pixels.
func (s *Session) AnchorSize() float64 { return s.tracker.AnchorSize() }

// StrokeColor returns the outline colour for the current interaction.
func (s *Session) StrokeColor() color.NRGBA {
	switch s.tracker.Mode() {
	case tracker.ModeResizing:
		return s.opts.Style.ResizeStroke
	case tracker.ModeDragging:
		return s.opts.Style.DragStroke
	default:
		return s.opts.Style.ClipStroke
	}
}

// ShowViewport reports whether the crop outline and mask should be drawn.
// They are hidden while rotating unless the user is mid-press.
func (s *Session) ShowViewport() bool {
	return (!s.mapper.IsAnimating() && !s.tracker.Viewport().IsEmpty()) || s.tracker.IsCropping()
}

// AnchorCenters returns the corner points where anchors are drawn, or nil
// when resizing is disabled.
func (s *Session) AnchorCenters() []geometry.Point2D {
	if !s.tracker.Resizable() {
		return nil
	}
	v := s.tracker.Viewport()
	return []geometry.Point2D{
		{X: v.Left(), Y: v.Top()},
		{X: v.Right(), Y: v.Top()},
		{X: v.Left(), Y: v.Bottom()},
		{X: v.Right(), Y: v.Bottom()},
	}
}

func (s *Session) ended() {
	s.repaint()
	if s.opts.OnChange != nil {
		s.opts.OnChange(s)
	}
}

func (s *Session) repaint() {
	if s.opts.OnRepaint != nil {
		s.opts.OnRepaint()
	}
}
