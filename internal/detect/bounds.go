// Package detect finds the region of an image that holds content, for use
// as an initial crop.
package detect

import (
	"errors"
	"fmt"
	"image"
	"math"

	pcimage "pancrop/internal/image"
	"pancrop/internal/logging"
	"pancrop/pkg/geometry"

	"gocv.io/x/gocv"
)

// ErrNoContent is returned when nothing stands out from the background.
var ErrNoContent = errors.New("detect: no content found")

// Options tunes content detection.
type Options struct {
	// MaxDimension bounds the working resolution; larger images are downsampled.
	MaxDimension int
	// MinCoverage and MaxCoverage bound the accepted contour area as a
	// fraction of the image area.
	MinCoverage float64
	MaxCoverage float64
	// Inset shrinks the result on every side by this fraction of its size.
	Inset float64
}

// DefaultOptions returns settings suited to scanned photos and film.
func DefaultOptions() Options {
	return Options{
		MaxDimension: 1500,
		MinCoverage:  0.05,
		MaxCoverage:  0.98,
		Inset:        0.005,
	}
}

// ContentBounds returns the bounding box of the largest foreground region
// in image coordinates.
func ContentBounds(img image.Image, opts Options) (geometry.Rect, error) {
	src, err := gocv.ImageToMatRGB(img)
	if err != nil {
		return geometry.Rect{}, fmt.Errorf("failed to convert image: %w", err)
	}
	defer src.Close()

	return contentBounds(src, opts)
}

// RotatedContentBounds detects content in img as displayed at a clockwise
// rotation. The result is in the rotated image's frame, the frame a crop
// session at that rotation reports its viewport in.
func RotatedContentBounds(img image.Image, rotation float64, opts Options) (geometry.Rect, error) {
	return ContentBounds(pcimage.Orient(img, rotation), opts)
}

func contentBounds(img gocv.Mat, opts Options) (geometry.Rect, error) {
	imgH := img.Rows()
	imgW := img.Cols()
	if imgW == 0 || imgH == 0 {
		return geometry.Rect{}, ErrNoContent
	}

	// Downsample for faster processing
	scale := 1.0
	if opts.MaxDimension > 0 {
		scale = math.Min(1.0, float64(opts.MaxDimension)/float64(max(imgW, imgH)))
	}
	var small gocv.Mat
	if scale < 1.0 {
		small = gocv.NewMat()
		gocv.Resize(img, &small, image.Point{}, scale, scale, gocv.InterpolationArea)
	} else {
		small = img.Clone()
	}
	defer small.Close()

	gray := gocv.NewMat()
	defer gray.Close()
	gocv.CvtColor(small, &gray, gocv.ColorBGRToGray)
	gocv.GaussianBlur(gray, &gray, image.Point{X: 5, Y: 5}, 0, 0, gocv.BorderDefault)

	// Otsu picks the split between background and content
	mask := gocv.NewMat()
	defer mask.Close()
	gocv.Threshold(gray, &mask, 0, 255, gocv.ThresholdBinary|gocv.ThresholdOtsu)

	// Content is the minority class; invert when the background came out white.
	if float64(gocv.CountNonZero(mask)) > float64(mask.Rows()*mask.Cols())/2 {
		gocv.BitwiseNot(mask, &mask)
	}

	kernel := gocv.GetStructuringElement(gocv.MorphRect, image.Point{X: 5, Y: 5})
	defer kernel.Close()

	// Close to fill small gaps, open to remove small noise
	gocv.MorphologyEx(mask, &mask, gocv.MorphClose, kernel)
	gocv.MorphologyEx(mask, &mask, gocv.MorphOpen, kernel)

	contours := gocv.FindContours(mask, gocv.RetrievalExternal, gocv.ChainApproxSimple)
	defer contours.Close()

	fullArea := float64(small.Rows() * small.Cols())
	bestArea := 0.0
	var best image.Rectangle
	for i := 0; i < contours.Size(); i++ {
		contour := contours.At(i)
		area := gocv.ContourArea(contour)
		if area < fullArea*opts.MinCoverage || area > fullArea*opts.MaxCoverage {
			continue
		}
		if area > bestArea {
			bestArea = area
			best = gocv.BoundingRect(contour)
		}
	}

	if bestArea == 0 {
		return geometry.Rect{}, ErrNoContent
	}

	r := geometry.RectFromImage(best)
	r.Scale(1 / scale)
	r = inset(r, opts.Inset)

	logging.Logger().Debug("detect: content bounds",
		"bounds", r.String(), "coverage", bestArea/fullArea, "scale", scale)
	return r, nil
}

func inset(r geometry.Rect, fraction float64) geometry.Rect {
	if fraction <= 0 {
		return r
	}
	dx := r.Width() * fraction
	dy := r.Height() * fraction
	n := r.Normalized()
	return geometry.NewRect(n.X+dx, n.Y+dy, n.X2-dx, n.Y2-dy)
}
