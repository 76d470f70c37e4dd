package crop

import (
	"image/color"

	"pancrop/pkg/geometry"
)

const (
	defaultAnchorSize    = 5
	defaultMoveIncrement = 4
	defaultImagePadding  = 1.55
)

// Style holds the colours and widths the rendering surface should use.
type Style struct {
	ClipStroke   color.NRGBA
	DragStroke   color.NRGBA
	ResizeStroke color.NRGBA
	Background   color.NRGBA
	Mask         color.NRGBA
	Shadow       color.NRGBA
	LineWidth    float64
	ShadowBlur   float64
}

// DefaultStyle returns a navy outline with a dark translucent mask.
func DefaultStyle() Style {
	return Style{
		ClipStroke:   color.NRGBA{R: 0x00, G: 0x00, B: 0x80, A: 0xff},
		DragStroke:   color.NRGBA{R: 0xff, G: 0x00, B: 0x00, A: 0xff},
		ResizeStroke: color.NRGBA{R: 0x00, G: 0x80, B: 0x00, A: 0xff},
		Background:   color.NRGBA{A: 0x1a},
		Mask:         color.NRGBA{A: 0x66},
		Shadow:       color.NRGBA{A: 0x80},
		LineWidth:    2,
		ShadowBlur:   10,
	}
}

// Options configures a Session.
type Options struct {
	// SourceRect is an initial crop in image space. When non-empty it is
	// used as-is and the initial zoom does not overwrite it.
	SourceRect geometry.Rect
	Rotation   float64
	Zoom       float64

	Resizable bool
	Draggable bool
	Drawable  bool

	AnchorSize    float64
	MoveIncrement float64
	// ImagePadding scales the longest image side to give the square canvas
	// room to rotate the image.
	ImagePadding float64

	Style Style

	// OnChange fires after every completed edit (pointer-up, arrow key, scale).
	OnChange func(*Session)
	// OnRepaint fires after every change that affects what is drawn.
	OnRepaint func()
}

// DefaultOptions returns options with every interaction enabled at zoom 1.
func DefaultOptions() Options {
	return Options{
		Zoom:          1,
		Resizable:     true,
		Draggable:     true,
		Drawable:      true,
		AnchorSize:    defaultAnchorSize,
		MoveIncrement: defaultMoveIncrement,
		ImagePadding:  defaultImagePadding,
		Style:         DefaultStyle(),
	}
}
