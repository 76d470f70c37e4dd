package geometry

import (
	"fmt"
	"image"
	"math"
)

// Rect is a rectangle defined by two corners, (X,Y) and (X2,Y2).
// Either corner may be the smaller one; Left/Top/Right/Bottom normalize.
// Corners are never clamped.
type Rect struct {
	X  float64 `json:"x"`
	Y  float64 `json:"y"`
	X2 float64 `json:"x2"`
	Y2 float64 `json:"y2"`
}

// NewRect creates a new Rect from two corners.
func NewRect(x, y, x2, y2 float64) Rect {
	return Rect{X: x, Y: y, X2: x2, Y2: y2}
}

// RectFromImage converts an integer image rectangle.
func RectFromImage(r image.Rectangle) Rect {
	return Rect{X: float64(r.Min.X), Y: float64(r.Min.Y), X2: float64(r.Max.X), Y2: float64(r.Max.Y)}
}

// Width returns the horizontal extent.
func (r Rect) Width() float64 { return math.Abs(r.X2 - r.X) }

// Height returns the vertical extent.
func (r Rect) Height() float64 { return math.Abs(r.Y2 - r.Y) }

func (r Rect) Left() float64   { return math.Min(r.X, r.X2) }
func (r Rect) Top() float64    { return math.Min(r.Y, r.Y2) }
func (r Rect) Right() float64  { return math.Max(r.X, r.X2) }
func (r Rect) Bottom() float64 { return math.Max(r.Y, r.Y2) }

// IsEmpty reports whether the rectangle has no area.
func (r Rect) IsEmpty() bool {
	return r.Width() <= 0 || r.Height() <= 0
}

// Contains returns true if the point is inside the rectangle, edges included.
func (r Rect) Contains(p Point2D) bool {
	return p.X >= r.Left() && p.X <= r.Right() &&
		p.Y >= r.Top() && p.Y <= r.Bottom()
}

// Center returns the center point of the rectangle.
func (r Rect) Center() Point2D {
	return Point2D{X: (r.X + r.X2) / 2, Y: (r.Y + r.Y2) / 2}
}

// Clone returns an independent copy.
func (r Rect) Clone() Rect {
	return r
}

// Normalized returns the rectangle with (X,Y) as the top-left corner.
func (r Rect) Normalized() Rect {
	return Rect{X: r.Left(), Y: r.Top(), X2: r.Right(), Y2: r.Bottom()}
}

// Move translates both corners.
func (r *Rect) Move(dx, dy float64) {
	r.X += dx
	r.X2 += dx
	r.Y += dy
	r.Y2 += dy
}

// Scale scales both corners about the origin.
func (r *Rect) Scale(factor float64) {
	r.Transform(Scale(factor))
}

// Transform applies t to both corners in place.
func (r *Rect) Transform(t AffineTransform) {
	p1 := t.Apply(Point2D{X: r.X, Y: r.Y})
	p2 := t.Apply(Point2D{X: r.X2, Y: r.Y2})
	r.X, r.Y = p1.X, p1.Y
	r.X2, r.Y2 = p2.X, p2.Y
}

// ImageRect rounds the normalized bounds to an integer image rectangle.
func (r Rect) ImageRect() image.Rectangle {
	return image.Rect(
		int(math.Round(r.Left())), int(math.Round(r.Top())),
		int(math.Round(r.Right())), int(math.Round(r.Bottom())),
	)
}

func (r Rect) String() string {
	return fmt.Sprintf("%g,%g,%g,%g", r.X, r.Y, r.X2, r.Y2)
}
