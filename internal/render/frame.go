// Package render draws crop frames: the rotated image, the mask outside
// the crop, its outline and the resize anchors.
package render

import (
	"image"
	"image/color"
	"math"

	"pancrop/internal/crop"
	"pancrop/pkg/geometry"

	"golang.org/x/image/draw"
)

// Frame is the per-frame state a surface needs. *crop.Session implements it.
type Frame interface {
	CanvasExtent() geometry.Size
	DisplayTransform() geometry.AffineTransform
	ShowViewport() bool
	CanvasViewport() geometry.Rect
	StrokeColor() color.NRGBA
	AnchorCenters() []geometry.Point2D
	AnchorSize() float64
	Style() crop.Style
}

// NewCanvas allocates an image the size of the frame's canvas.
func NewCanvas(f Frame) *image.RGBA {
	ext := f.CanvasExtent()
	return image.NewRGBA(image.Rect(0, 0, int(math.Ceil(ext.Width)), int(math.Ceil(ext.Height))))
}

// Draw renders src into dst for the current frame.
func Draw(dst *image.RGBA, src image.Image, f Frame) {
	style := f.Style()

	draw.Draw(dst, dst.Bounds(), image.NewUniform(style.Background), image.Point{}, draw.Src)

	if src != nil {
		draw.ApproxBiLinear.Transform(dst, f.DisplayTransform().Aff3(), src, src.Bounds(), draw.Over, nil)
	}

	if !f.ShowViewport() {
		return
	}

	v := f.CanvasViewport().Normalized()
	drawMask(dst, v, style.Mask)

	stroke := f.StrokeColor()
	drawOutline(dst, v, stroke, math.Max(1, style.LineWidth))

	radius := f.AnchorSize() / 2
	for _, c := range f.AnchorCenters() {
		drawDisc(dst, c.X, c.Y, radius, stroke)
	}
}

// drawMask shades everything outside v.
func drawMask(dst *image.RGBA, v geometry.Rect, col color.NRGBA) {
	b := dst.Bounds()
	hole := v.ImageRect()

	regions := []image.Rectangle{
		image.Rect(b.Min.X, b.Min.Y, b.Max.X, hole.Min.Y),       // above
		image.Rect(b.Min.X, hole.Min.Y, hole.Min.X, b.Max.Y),    // left
		image.Rect(hole.Max.X, hole.Min.Y, b.Max.X, b.Max.Y),    // right
		image.Rect(hole.Min.X, hole.Max.Y, hole.Max.X, b.Max.Y), // below
	}
	fill(dst, regions, image.NewUniform(col), draw.Over)
}

// drawOutline strokes the edges of v with bands of the given width
// centred on each edge. Corners belong to the top and bottom bands.
func drawOutline(dst *image.RGBA, v geometry.Rect, col color.NRGBA, width float64) {
	h := width / 2
	left, top, right, bottom := v.Left(), v.Top(), v.Right(), v.Bottom()

	bands := []image.Rectangle{
		geometry.NewRect(left-h, top-h, right+h, top+h).ImageRect(),
		geometry.NewRect(left-h, bottom-h, right+h, bottom+h).ImageRect(),
		geometry.NewRect(left-h, top+h, left+h, bottom-h).ImageRect(),
		geometry.NewRect(right-h, top+h, right+h, bottom-h).ImageRect(),
	}
	fill(dst, bands, image.NewUniform(col), draw.Src)
}

func fill(dst *image.RGBA, regions []image.Rectangle, src image.Image, op draw.Op) {
	for _, r := range regions {
		r = r.Intersect(dst.Bounds())
		if r.Empty() {
			continue
		}
		draw.Draw(dst, r, src, image.Point{}, op)
	}
}

// drawDisc draws a filled circle.
func drawDisc(output *image.RGBA, cx, cy, r float64, col color.NRGBA) {
	bounds := output.Bounds()

	minX := int(cx - r - 1)
	maxX := int(cx + r + 1)
	minY := int(cy - r - 1)
	maxY := int(cy + r + 1)
	r2 := r * r

	for y := minY; y <= maxY; y++ {
		if y < bounds.Min.Y || y >= bounds.Max.Y {
			continue
		}
		for x := minX; x <= maxX; x++ {
			if x < bounds.Min.X || x >= bounds.Max.X {
				continue
			}
			dx := float64(x) - cx
			dy := float64(y) - cy
			if dx*dx+dy*dy <= r2 {
				output.Set(x, y, col)
			}
		}
	}
}
