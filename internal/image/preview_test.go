package image

import (
	"image"
	"image/color"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pancrop/pkg/geometry"
)

// gradient returns a 4x2 image whose pixels encode their own coordinates.
func gradient() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, 4, 2))
	for y := 0; y < 2; y++ {
		for x := 0; x < 4; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: uint8(x * 10), G: uint8(y * 10), A: 255})
		}
	}
	return img
}

func TestPreviewUnrotated(t *testing.T) {
	src := gradient()
	out, err := Preview(src, geometry.NewRect(1, 0, 3, 2), 0, 1)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 2, 2), out.Bounds())
	assert.Equal(t, src.NRGBAAt(1, 0), out.NRGBAAt(0, 0))
	assert.Equal(t, src.NRGBAAt(2, 1), out.NRGBAAt(1, 1))
}

func TestPreviewFollowsClockwiseRotation(t *testing.T) {
	src := gradient()
	out, err := Preview(src, geometry.NewRect(0, 0, 2, 4), 90, 0)
	require.NoError(t, err)
	require.Equal(t, image.Rect(0, 0, 2, 4), out.Bounds())

	// the left column of the source ends up on the top row
	assert.Equal(t, src.NRGBAAt(0, 1), out.NRGBAAt(0, 0))
	assert.Equal(t, src.NRGBAAt(0, 0), out.NRGBAAt(1, 0))
	assert.Equal(t, src.NRGBAAt(3, 1), out.NRGBAAt(0, 3))
}

func TestOrientNormalizesAngle(t *testing.T) {
	src := gradient()
	assert.Equal(t, Orient(src, 90).Pix, Orient(src, -270).Pix)
	assert.Equal(t, Orient(src, 0).Pix, Orient(src, 720).Pix)
	assert.Equal(t, image.Rect(0, 0, 4, 2), Orient(src, 180).Bounds())
}

func TestPreviewScales(t *testing.T) {
	out, err := Preview(gradient(), geometry.NewRect(0, 0, 4, 2), 0, 2)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 8, 4), out.Bounds())
}

func TestPreviewRejectsEmptyCrop(t *testing.T) {
	_, err := Preview(gradient(), geometry.NewRect(10, 10, 20, 20), 0, 1)
	assert.ErrorIs(t, err, ErrEmptyCrop)
}

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "crop.png")
	require.NoError(t, Save(gradient(), path))

	src, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, path, src.Path)
	assert.Equal(t, geometry.NewSize(4, 2), src.Extent())

	_, err = Load(filepath.Join(t.TempDir(), "missing.png"))
	assert.Error(t, err)
}

func TestSupportedFormats(t *testing.T) {
	assert.True(t, IsSupportedFormat("scan.TIF"))
	assert.True(t, IsSupportedFormat("photo.webp"))
	assert.False(t, IsSupportedFormat("notes.txt"))
	assert.False(t, IsSupportedFormat("crop"))
}
