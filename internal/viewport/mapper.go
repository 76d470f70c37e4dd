// Package viewport maps the tracker's canvas-space rectangle to image space
// under rotation and zoom, and steps rotation animations.
package viewport

import (
	"errors"
	"fmt"
	"math"

	"pancrop/internal/logging"
	"pancrop/pkg/geometry"
)

// RotationStep is the magnitude in degrees of one animation tick.
const RotationStep = 6.0

// ErrInvalidZoom is returned for a zoom factor that is not a finite positive number.
var ErrInvalidZoom = errors.New("viewport: zoom factor must be positive")

// Extents supplies the current surface and image sizes. They are read on
// every call and never cached.
type Extents interface {
	CanvasExtent() geometry.Size
	ImageExtent() geometry.Size
}

// Target is the owner of the canvas-space viewport rectangle.
type Target interface {
	Viewport() geometry.Rect
	SetViewport(geometry.Rect)
}

// Mapper holds rotation and zoom state.
type Mapper struct {
	extents Extents
	target  Target

	rotation       float64 // displayed angle, animated
	targetRotation float64 // last requested angle
	increment      float64
	animating      bool

	zoom float64

	// OnChange fires after every state change that affects rendering.
	OnChange func()
}

// New creates a Mapper at the given committed rotation and zoom.
// A non-positive zoom falls back to 1.
func New(extents Extents, target Target, rotation, zoom float64) *Mapper {
	if !validZoom(zoom) {
		zoom = 1
	}
	return &Mapper{
		extents:        extents,
		target:         target,
		rotation:       rotation,
		targetRotation: rotation,
		zoom:           zoom,
	}
}

func validZoom(f float64) bool {
	return f > 0 && !math.IsInf(f, 0) && !math.IsNaN(f)
}

// Rotation returns the requested rotation in degrees. This is the raw
// accumulator and may lie outside [0, 360).
func (m *Mapper) Rotation() float64 { return m.targetRotation }

// DisplayRotation returns the angle currently shown, which differs from
// Rotation while an animation is in flight.
func (m *Mapper) DisplayRotation() float64 { return m.rotation }

// ZoomFactor returns the last applied zoom factor.
func (m *Mapper) ZoomFactor() float64 { return m.zoom }

// IsAnimating reports whether Step still has work to do.
func (m *Mapper) IsAnimating() bool { return m.animating }

// RequestRotation starts an animation towards degrees. A request issued
// mid-animation restarts from the previous target, not the in-flight angle.
func (m *Mapper) RequestRotation(degrees float64) {
	m.rotation = m.targetRotation
	m.targetRotation = degrees
	m.increment = RotationStep
	if degrees < m.rotation {
		m.increment = -RotationStep
	}
	m.animating = true

	logging.Logger().Debug("viewport: rotation requested",
		"from", m.rotation, "to", degrees, "increment", m.increment)
}

// Clockwise requests a quarter turn clockwise from the current target.
func (m *Mapper) Clockwise() { m.RequestRotation(m.targetRotation + 90) }

// Anticlockwise requests a quarter turn anticlockwise from the current target.
func (m *Mapper) Anticlockwise() { m.RequestRotation(m.targetRotation - 90) }

// Step advances the animation by one tick and reports whether more ticks
// are needed. When the next increment would reach or cross the target the
// rotation snaps to it and the zoom is reapplied for the new orientation.
func (m *Mapper) Step() bool {
	if !m.animating {
		return false
	}

	next := m.rotation + m.increment
	if (m.increment > 0 && next >= m.targetRotation) ||
		(m.increment < 0 && next <= m.targetRotation) {
		m.rotation = m.targetRotation
		m.animating = false
		m.fit()
		logging.Logger().Debug("viewport: rotation complete", "rotation", m.rotation)
		m.changed()
		return false
	}

	m.rotation = next
	m.changed()
	return true
}

// ApplyZoom recomputes the viewport rectangle centred on the image and
// scaled by 1/factor. The state is untouched when factor is invalid.
func (m *Mapper) ApplyZoom(factor float64) error {
	if !validZoom(factor) {
		return fmt.Errorf("%w: got %v", ErrInvalidZoom, factor)
	}
	m.zoom = factor
	m.fit()
	logging.Logger().Debug("viewport: zoom applied", "factor", factor, "rotation", m.rotation)
	m.changed()
	return nil
}

// fit sets the target viewport from the current zoom and displayed rotation.
func (m *Mapper) fit() {
	img := m.extents.ImageExtent()
	delta := m.offset()
	center := img.Center()
	ratio := 1 / m.zoom

	if m.sideways() {
		img = img.Swapped()
		center = geometry.Point2D{X: center.Y, Y: center.X}
	}

	x := delta.X + (center.X - center.X*ratio)
	y := delta.Y + (center.Y - center.Y*ratio)
	m.target.SetViewport(geometry.NewRect(x, y, x+img.Width/m.zoom, y+img.Height/m.zoom))
}

// sideways reports whether the image axes are swapped on screen.
func (m *Mapper) sideways() bool {
	return math.Mod(m.rotation, 180) != 0
}

// offset is the difference between canvas and image centres, with its
// components exchanged while the image is on its side.
func (m *Mapper) offset() geometry.Point2D {
	d := m.extents.CanvasExtent().Center().Sub(m.extents.ImageExtent().Center())
	if m.sideways() {
		return geometry.Point2D{X: d.Y, Y: d.X}
	}
	return d
}

// ToImageSpace re-bases a canvas-space rectangle onto the displayed image's
// origin. Width and height are left unchanged.
func (m *Mapper) ToImageSpace(r geometry.Rect) geometry.Rect {
	off := m.offset()
	r.Move(-off.X, -off.Y)
	return r
}

// FromImageSpace is the inverse of ToImageSpace.
func (m *Mapper) FromImageSpace(r geometry.Rect) geometry.Rect {
	off := m.offset()
	r.Move(off.X, off.Y)
	return r
}

// Viewport returns the target's rectangle in image space.
func (m *Mapper) Viewport() geometry.Rect {
	return m.ToImageSpace(m.target.Viewport())
}

// DisplayTransform maps unrotated image pixels to canvas pixels at the
// displayed rotation, pivoting on the image centre.
func (m *Mapper) DisplayTransform() geometry.AffineTransform {
	canvasCenter := m.extents.CanvasExtent().Center()
	imageCenter := m.extents.ImageExtent().Center()
	return geometry.Translation(canvasCenter.X, canvasCenter.Y).
		Compose(geometry.Rotation(m.rotation)).
		Compose(geometry.Translation(-imageCenter.X, -imageCenter.Y))
}

// ImagePoint maps a canvas pixel to the unrotated source image pixel under it.
func (m *Mapper) ImagePoint(p geometry.Point2D) (geometry.Point2D, error) {
	inv, err := m.DisplayTransform().Inverse()
	if err != nil {
		return geometry.Point2D{}, fmt.Errorf("display transform: %w", err)
	}
	return inv.Apply(p), nil
}

func (m *Mapper) changed() {
	if m.OnChange != nil {
		m.OnChange()
	}
}
