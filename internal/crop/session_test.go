package crop

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pancrop/internal/tracker"
	"pancrop/internal/viewport"
	"pancrop/pkg/geometry"
)

func newSession(t *testing.T, image geometry.Size, mutate func(*Options)) (*Session, *int, *[]geometry.Rect) {
	t.Helper()
	repaints := 0
	var changes []geometry.Rect
	opts := DefaultOptions()
	opts.ImagePadding = 1
	opts.OnRepaint = func() { repaints++ }
	opts.OnChange = func(s *Session) { changes = append(changes, s.ViewPort()) }
	if mutate != nil {
		mutate(&opts)
	}
	s, err := New(image, opts)
	require.NoError(t, err)
	return s, &repaints, &changes
}

func TestNewRejectsEmptyImage(t *testing.T) {
	_, err := New(geometry.NewSize(0, 10), DefaultOptions())
	assert.ErrorIs(t, err, ErrInvalidImage)
}

func TestNewRejectsInvalidZoom(t *testing.T) {
	for name, seed := range map[string]geometry.Rect{
		"fit":         {},
		"source rect": geometry.NewRect(2, 2, 6, 6),
	} {
		t.Run(name, func(t *testing.T) {
			for _, zoom := range []float64{-2, math.NaN(), math.Inf(1)} {
				opts := DefaultOptions()
				opts.Zoom = zoom
				opts.SourceRect = seed
				_, err := New(geometry.NewSize(10, 10), opts)
				assert.ErrorIs(t, err, viewport.ErrInvalidZoom, "zoom %v", zoom)
			}
		})
	}
}

func TestNewFitsWholeImageAtUnitZoom(t *testing.T) {
	s, _, _ := newSession(t, geometry.NewSize(200, 100), nil)

	assert.Equal(t, geometry.NewSize(200, 200), s.CanvasExtent())
	assert.Equal(t, geometry.NewRect(0, 50, 200, 150), s.CanvasViewport())
	assert.Equal(t, geometry.NewRect(0, 0, 200, 100), s.ViewPort())
}

func TestDefaultPaddingSizesCanvas(t *testing.T) {
	s, err := New(geometry.NewSize(200, 100), DefaultOptions())
	require.NoError(t, err)
	assert.InDelta(t, 310, s.CanvasExtent().Width, 1e-9)
	assert.InDelta(t, 310, s.CanvasExtent().Height, 1e-9)
	assert.Equal(t, geometry.NewRect(0, 0, 200, 100), s.ViewPort())
}

func TestSourceRectSeedsViewport(t *testing.T) {
	src := geometry.NewRect(20, 10, 120, 60)
	s, _, _ := newSession(t, geometry.NewSize(200, 100), func(o *Options) {
		o.SourceRect = src
		o.Zoom = 4
	})

	assert.Equal(t, src, s.ViewPort())
	assert.Equal(t, geometry.NewRect(20, 60, 120, 110), s.CanvasViewport())
	// the zoom is kept for the next refit but not applied over the seed
	assert.Equal(t, 4.0, s.ZoomFactor())
}

func TestDrawThenReadImageSpace(t *testing.T) {
	s, repaints, changes := newSession(t, geometry.NewSize(200, 100), nil)
	// start from an empty crop
	s.tracker.SetViewport(geometry.Rect{})

	s.PointerDown(geometry.NewPoint2D(5, 55))
	assert.Equal(t, tracker.ModeDrawing, s.Mode())
	s.PointerMove(geometry.NewPoint2D(50, 90))
	s.PointerUp(geometry.NewPoint2D(50, 90))

	require.Len(t, *changes, 1)
	assert.Equal(t, geometry.NewRect(5, 5, 50, 40), (*changes)[0])
	assert.GreaterOrEqual(t, *repaints, 3)
}

func TestZoomAndRotateRoundTrip(t *testing.T) {
	s, _, _ := newSession(t, geometry.NewSize(200, 100), nil)

	require.NoError(t, s.Zoom(2))
	assert.Equal(t, geometry.NewRect(50, 25, 150, 75), s.ViewPort())

	s.Clockwise()
	assert.True(t, s.IsAnimating())
	assert.False(t, s.ShowViewport())
	for s.Tick() {
	}
	assert.Equal(t, 90.0, s.Rotation())
	assert.Equal(t, 90.0, s.DisplayRotation())
	assert.True(t, s.ShowViewport())

	// sideways: the crop spans half of the rotated 100x200 image
	v := s.ViewPort()
	assert.Equal(t, 50.0, v.Width())
	assert.Equal(t, 100.0, v.Height())
	assert.Equal(t, geometry.NewRect(25, 50, 75, 150), v)

	s.Anticlockwise()
	for s.Tick() {
	}
	assert.Equal(t, geometry.NewRect(50, 25, 150, 75), s.ViewPort())
}

func TestStrokeColorFollowsMode(t *testing.T) {
	s, _, _ := newSession(t, geometry.NewSize(200, 100), nil)
	style := s.Style()
	v := s.CanvasViewport()

	assert.Equal(t, style.ClipStroke, s.StrokeColor())

	s.PointerDown(geometry.NewPoint2D(v.Right(), v.Bottom()))
	require.Equal(t, tracker.ModeResizing, s.Mode())
	assert.Equal(t, style.ResizeStroke, s.StrokeColor())
	s.PointerUp(geometry.NewPoint2D(v.Right(), v.Bottom()))

	s.PointerDown(v.Center())
	require.Equal(t, tracker.ModeDragging, s.Mode())
	assert.Equal(t, style.DragStroke, s.StrokeColor())
	s.PointerUp(v.Center())

	assert.Equal(t, style.ClipStroke, s.StrokeColor())
}

func TestEnableToggles(t *testing.T) {
	s, repaints, _ := newSession(t, geometry.NewSize(100, 100), nil)
	before := *repaints

	s.SetResizable(false)
	assert.False(t, s.Resizable())
	assert.Nil(t, s.AnchorCenters())
	assert.Equal(t, before+1, *repaints)

	s.SetDraggable(false)
	s.SetDrawable(false)
	assert.False(t, s.Draggable())
	assert.False(t, s.Drawable())

	s.SetResizable(true)
	assert.Len(t, s.AnchorCenters(), 4)
}

func TestArrowKeyReportsChange(t *testing.T) {
	s, _, changes := newSession(t, geometry.NewSize(100, 100), func(o *Options) {
		o.Zoom = 2
	})
	start := s.ViewPort()

	assert.True(t, s.KeyPress(tracker.KeyRight))
	require.Len(t, *changes, 1)
	want := start
	want.Move(4, 0)
	assert.Equal(t, want, s.ViewPort())
}
