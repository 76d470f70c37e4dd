package image

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"

	"pancrop/pkg/geometry"

	"github.com/disintegration/imaging"
)

// ErrEmptyCrop is returned when the crop does not overlap the image.
var ErrEmptyCrop = errors.New("image: crop region is empty")

// Orient rotates img clockwise by degrees. Right angles are lossless.
func Orient(img image.Image, degrees float64) *image.NRGBA {
	d := math.Mod(degrees, 360)
	if d < 0 {
		d += 360
	}
	switch d {
	case 0:
		return imaging.Clone(img)
	case 90:
		return imaging.Rotate270(img)
	case 180:
		return imaging.Rotate180(img)
	case 270:
		return imaging.Rotate90(img)
	default:
		// imaging turns counter-clockwise
		return imaging.Rotate(img, -d, color.Transparent)
	}
}

// Preview renders the image-space crop of img as displayed at rotation,
// resized by scale. A scale of 0 or 1 keeps the native resolution.
func Preview(img image.Image, crop geometry.Rect, rotation, scale float64) (*image.NRGBA, error) {
	oriented := Orient(img, rotation)

	r := crop.ImageRect().Intersect(oriented.Bounds())
	if r.Empty() {
		return nil, fmt.Errorf("%w: %v", ErrEmptyCrop, crop)
	}

	out := imaging.Crop(oriented, r)
	if scale > 0 && scale != 1 {
		w := int(math.Round(float64(r.Dx()) * scale))
		h := int(math.Round(float64(r.Dy()) * scale))
		if w < 1 || h < 1 {
			return nil, fmt.Errorf("%w: scale %v", ErrEmptyCrop, scale)
		}
		out = imaging.Resize(out, w, h, imaging.Lanczos)
	}
	return out, nil
}

// Save writes img to path; the format follows the file extension.
func Save(img image.Image, path string) error {
	if err := imaging.Save(img, path); err != nil {
		return fmt.Errorf("failed to save %s: %w", path, err)
	}
	return nil
}
