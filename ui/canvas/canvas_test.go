package canvas

import (
	"image"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pancrop/internal/crop"
	"pancrop/internal/tracker"
	"pancrop/pkg/geometry"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/test"
)

func TestToCanvasLetterboxes(t *testing.T) {
	extent := geometry.NewSize(400, 400)

	// 300x200 widget: the square is 200 wide, starting at x=50
	p := toCanvas(fyne.NewPos(50, 0), fyne.NewSize(300, 200), extent)
	assert.Equal(t, geometry.NewPoint2D(0, 0), p)

	p = toCanvas(fyne.NewPos(150, 100), fyne.NewSize(300, 200), extent)
	assert.Equal(t, geometry.NewPoint2D(200, 200), p)

	p = toCanvas(fyne.NewPos(10, 10), fyne.NewSize(0, 0), extent)
	assert.Equal(t, geometry.Point2D{}, p)
}

func TestDesktopCursor(t *testing.T) {
	assert.Equal(t, desktop.DefaultCursor, desktopCursor(tracker.CursorDefault))
	assert.Equal(t, desktop.PointerCursor, desktopCursor(tracker.CursorMove))
	assert.Equal(t, desktop.CrosshairCursor, desktopCursor(tracker.CursorCrosshair))
	assert.Equal(t, desktop.CrosshairCursor, desktopCursor(tracker.CursorSEResize))
}

func TestArrowKey(t *testing.T) {
	k, ok := arrowKey(fyne.KeyUp)
	assert.True(t, ok)
	assert.Equal(t, tracker.KeyUp, k)

	_, ok = arrowKey(fyne.KeyReturn)
	assert.False(t, ok)
}

func whiteSquare(side int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, side, side))
	for i := range img.Pix {
		img.Pix[i] = 0xff
	}
	return img
}

func canvasViewport(cc *CropCanvas) (r geometry.Rect) {
	cc.WithSession(func(s *crop.Session) { r = s.CanvasViewport() })
	return r
}

func mode(cc *CropCanvas) (m tracker.Mode) {
	cc.WithSession(func(s *crop.Session) { m = s.Mode() })
	return m
}

func newLoadedCanvas(t *testing.T, mutate func(*crop.Options)) *CropCanvas {
	t.Helper()
	cc := NewCropCanvas()
	cc.Resize(fyne.NewSize(200, 200))
	opts := crop.DefaultOptions()
	opts.ImagePadding = 1
	if mutate != nil {
		mutate(&opts)
	}
	require.NoError(t, cc.SetImage(whiteSquare(40), opts))
	return cc
}

func primary(x, y float32) *desktop.MouseEvent {
	return &desktop.MouseEvent{PointEvent: fyne.PointEvent{Position: fyne.NewPos(x, y)}, Button: desktop.MouseButtonPrimary}
}

func TestCropCanvasDragAndNudge(t *testing.T) {
	a := test.NewApp()
	defer a.Quit()

	cc := newLoadedCanvas(t, nil)
	changes := 0
	cc.OnChange(func(*crop.Session) { changes++ })

	assert.Equal(t, geometry.NewRect(0, 0, 40, 40), canvasViewport(cc))

	// widget (100,100) is canvas (20,20): inside the crop, away from anchors
	cc.MouseDown(primary(100, 100))
	assert.Equal(t, tracker.ModeDragging, mode(cc))
	cc.Dragged(&fyne.DragEvent{PointEvent: fyne.PointEvent{Position: fyne.NewPos(150, 100)}})
	cc.MouseUp(primary(150, 100))
	cc.DragEnd()

	assert.Equal(t, geometry.NewRect(10, 0, 50, 40), canvasViewport(cc))
	assert.Equal(t, 1, changes)

	cc.TypedKey(&fyne.KeyEvent{Name: fyne.KeyRight})
	assert.Equal(t, geometry.NewRect(14, 0, 54, 40), canvasViewport(cc))
	assert.Equal(t, 2, changes)
}

func TestCropCanvasIgnoresSecondaryButton(t *testing.T) {
	a := test.NewApp()
	defer a.Quit()

	cc := newLoadedCanvas(t, nil)
	cc.MouseDown(&desktop.MouseEvent{PointEvent: fyne.PointEvent{Position: fyne.NewPos(100, 100)}, Button: desktop.MouseButtonSecondary})
	assert.Equal(t, tracker.ModeIdle, mode(cc))
}

func TestCropCanvasReportsPixelUnderPointer(t *testing.T) {
	a := test.NewApp()
	defer a.Quit()

	cc := newLoadedCanvas(t, func(o *crop.Options) { o.Rotation = 90 })
	var (
		pixel   geometry.Point2D
		onImage bool
	)
	cc.OnHover(func(p geometry.Point2D, ok bool) { pixel, onImage = p, ok })

	// canvas (30,20) shows source pixel (20,10) after a quarter turn
	cc.MouseMoved(primary(150, 100))
	assert.True(t, onImage)
	assert.InDelta(t, 20, pixel.X, 1e-9)
	assert.InDelta(t, 10, pixel.Y, 1e-9)

	cc.MouseMoved(primary(-5, -5))
	assert.False(t, onImage)
}

func TestCropCanvasTickReportsAngle(t *testing.T) {
	a := test.NewApp()
	defer a.Quit()

	cc := newLoadedCanvas(t, nil)
	var angles []float64
	cc.OnRotate(func(deg float64) { angles = append(angles, deg) })

	cc.WithSession(func(s *crop.Session) { s.Clockwise() })
	for cc.tick() {
	}

	require.Len(t, angles, 15)
	assert.Equal(t, 6.0, angles[0])
	assert.Equal(t, 90.0, angles[len(angles)-1])
	assert.False(t, cc.tick())
}

func TestCropCanvasSessionAccessDuringAnimation(t *testing.T) {
	a := test.NewApp()
	defer a.Quit()

	cc := newLoadedCanvas(t, nil)
	cc.WithSession(func(s *crop.Session) { s.Clockwise() })

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for cc.tick() {
		}
	}()
	for i := 0; i < 50; i++ {
		cc.WithSession(func(s *crop.Session) {
			s.SetDraggable(!s.Draggable())
			_ = s.ViewPort()
		})
	}
	wg.Wait()

	var display float64
	cc.WithSession(func(s *crop.Session) { display = s.DisplayRotation() })
	assert.Equal(t, 90.0, display)
}

func TestCropCanvasWithoutImage(t *testing.T) {
	a := test.NewApp()
	defer a.Quit()

	cc := NewCropCanvas()
	hovered := false
	cc.OnHover(func(geometry.Point2D, bool) { hovered = true })
	cc.Clockwise()
	cc.ZoomIn()
	cc.TypedKey(&fyne.KeyEvent{Name: fyne.KeyLeft})
	cc.MouseMoved(primary(10, 10))
	assert.False(t, hovered)
	assert.False(t, cc.WithSession(func(*crop.Session) {}))
	assert.False(t, cc.tick())

	img := cc.draw(10, 10)
	assert.Equal(t, image.Rect(0, 0, 1, 1), img.Bounds())
}
