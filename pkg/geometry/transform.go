package geometry

import (
	"errors"
	"fmt"
	"math"

	"golang.org/x/image/math/f64"
	"gonum.org/v1/gonum/mat"
)

var (
	// ErrNotAffine is returned when a 3x3 source does not have a [0 0 1] bottom row.
	ErrNotAffine = errors.New("geometry: matrix is not affine")

	// ErrSingular is returned when inverting a transform with a zero determinant.
	ErrSingular = errors.New("geometry: transform is not invertible")
)

// rotationPrecision is the number of decimals kept for rotation coefficients.
// Exact right-angle rotations then produce exact 0 and ±1 entries.
const rotationPrecision = 1e5

// AffineTransform is an immutable homogeneous 2D transform:
//
//	| A  C  TX |
//	| B  D  TY |
//	| 0  0  1  |
//
// The bottom row is implicit and always [0 0 1].
type AffineTransform struct {
	A, B, C, D float64
	TX, TY     float64
}

// NewAffineTransform builds a transform from its six coefficients.
func NewAffineTransform(a, b, c, d, tx, ty float64) AffineTransform {
	return AffineTransform{A: a, B: b, C: c, D: d, TX: tx, TY: ty}
}

// FromMatrix creates an AffineTransform from a row-major 3x3 matrix.
func FromMatrix(m [3][3]float64) (AffineTransform, error) {
	if m[2][0] != 0 || m[2][1] != 0 || m[2][2] != 1 {
		return AffineTransform{}, fmt.Errorf("%w: bottom row %v", ErrNotAffine, m[2])
	}
	return AffineTransform{
		A: m[0][0], C: m[0][1], TX: m[0][2],
		B: m[1][0], D: m[1][1], TY: m[1][2],
	}, nil
}

// Identity returns the identity transform.
func Identity() AffineTransform {
	return AffineTransform{A: 1, D: 1}
}

// Translation returns a translation transform.
func Translation(tx, ty float64) AffineTransform {
	return AffineTransform{A: 1, D: 1, TX: tx, TY: ty}
}

// Scale returns a uniform scaling transform.
func Scale(s float64) AffineTransform {
	return AffineTransform{A: s, D: s}
}

// Rotation returns a rotation around the origin. Positive angles turn
// clockwise on a y-down surface. Coefficients are rounded to 5 decimals.
func Rotation(degrees float64) AffineTransform {
	radians := degrees * math.Pi / 180
	cos := roundCoefficient(math.Cos(radians))
	sin := roundCoefficient(math.Sin(radians))
	return AffineTransform{A: cos, B: sin, C: roundCoefficient(-sin), D: cos}
}

func roundCoefficient(v float64) float64 {
	r := math.Round(v*rotationPrecision) / rotationPrecision
	if r == 0 {
		// avoid -0 leaking into String()
		return 0
	}
	return r
}

// Matrix returns the full row-major 3x3 matrix.
func (t AffineTransform) Matrix() [3][3]float64 {
	return [3][3]float64{
		{t.A, t.C, t.TX},
		{t.B, t.D, t.TY},
		{0, 0, 1},
	}
}

// Compose returns t * other: the result applies other first, then t.
func (t AffineTransform) Compose(other AffineTransform) AffineTransform {
	return AffineTransform{
		A:  t.A*other.A + t.C*other.B,
		B:  t.B*other.A + t.D*other.B,
		C:  t.A*other.C + t.C*other.D,
		D:  t.B*other.C + t.D*other.D,
		TX: t.A*other.TX + t.C*other.TY + t.TX,
		TY: t.B*other.TX + t.D*other.TY + t.TY,
	}
}

// Apply applies the transform to a point.
func (t AffineTransform) Apply(p Point2D) Point2D {
	return Point2D{
		X: t.A*p.X + t.C*p.Y + t.TX,
		Y: t.B*p.X + t.D*p.Y + t.TY,
	}
}

// Dense returns the transform as a gonum 3x3 matrix.
func (t AffineTransform) Dense() *mat.Dense {
	m := t.Matrix()
	return mat.NewDense(3, 3, []float64{
		m[0][0], m[0][1], m[0][2],
		m[1][0], m[1][1], m[1][2],
		m[2][0], m[2][1], m[2][2],
	})
}

// Inverse returns the inverse transform.
func (t AffineTransform) Inverse() (AffineTransform, error) {
	if math.Abs(t.A*t.D-t.B*t.C) < 1e-10 {
		return AffineTransform{}, ErrSingular
	}

	var inv mat.Dense
	if err := inv.Inverse(t.Dense()); err != nil {
		return AffineTransform{}, fmt.Errorf("%w: %v", ErrSingular, err)
	}

	return AffineTransform{
		A: inv.At(0, 0), C: inv.At(0, 1), TX: inv.At(0, 2),
		B: inv.At(1, 0), D: inv.At(1, 1), TY: inv.At(1, 2),
	}, nil
}

// Aff3 converts the transform to the layout used by golang.org/x/image/draw.
func (t AffineTransform) Aff3() f64.Aff3 {
	return f64.Aff3{t.A, t.C, t.TX, t.B, t.D, t.TY}
}

// String formats the transform in CSS matrix() notation with integral offsets.
func (t AffineTransform) String() string {
	return fmt.Sprintf("matrix(%g, %g, %g, %g, %g, %g)",
		t.A, t.B, t.C, t.D, math.Floor(t.TX), math.Floor(t.TY))
}
