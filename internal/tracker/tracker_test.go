package tracker

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pancrop/pkg/geometry"
)

func pt(x, y float64) geometry.Point2D { return geometry.Point2D{X: x, Y: y} }

type recorder struct {
	starts, moves, ends []geometry.Rect
}

func newRecordingTracker(r geometry.Rect) (*Tracker, *recorder) {
	rec := &recorder{}
	opts := DefaultOptions()
	opts.OnStart = func(v geometry.Rect) { rec.starts = append(rec.starts, v) }
	opts.OnMove = func(v geometry.Rect) { rec.moves = append(rec.moves, v) }
	opts.OnEnd = func(v geometry.Rect) { rec.ends = append(rec.ends, v) }
	tr := New(opts)
	tr.SetViewport(r)
	return tr, rec
}

func TestResizeMovesOnlyTheActiveCorner(t *testing.T) {
	tests := []struct {
		anchor Anchor
		press  geometry.Point2D
		to     geometry.Point2D
		want   geometry.Rect
	}{
		{AnchorTopLeft, pt(10, 10), pt(20, 30), geometry.NewRect(20, 30, 100, 100)},
		{AnchorTopRight, pt(100, 10), pt(90, 25), geometry.NewRect(10, 25, 90, 100)},
		{AnchorBottomRight, pt(100, 100), pt(120, 130), geometry.NewRect(10, 10, 120, 130)},
		{AnchorBottomLeft, pt(10, 100), pt(5, 80), geometry.NewRect(5, 10, 100, 80)},
	}

	for _, tt := range tests {
		t.Run(tt.anchor.String(), func(t *testing.T) {
			tr, _ := newRecordingTracker(geometry.NewRect(10, 10, 100, 100))
			tr.PointerDown(tt.press)
			require.Equal(t, ModeResizing, tr.Mode())
			require.Equal(t, tt.anchor, tr.Anchor())

			tr.PointerMove(tt.to)
			assert.Equal(t, tt.want, tr.Viewport())
		})
	}
}

func TestDragPreservesSize(t *testing.T) {
	tr, rec := newRecordingTracker(geometry.NewRect(10, 10, 60, 40))

	tr.PointerDown(pt(30, 25))
	require.Equal(t, ModeDragging, tr.Mode())

	tr.PointerMove(pt(45, 20))
	v := tr.Viewport()
	assert.Equal(t, geometry.NewRect(25, 5, 75, 35), v)
	assert.Equal(t, 50.0, v.Width())
	assert.Equal(t, 30.0, v.Height())

	tr.PointerMove(pt(-100, -100))
	v = tr.Viewport()
	assert.Equal(t, 50.0, v.Width())
	assert.Equal(t, 30.0, v.Height())
	assert.Len(t, rec.moves, 2)
}

func TestDrawingStaysNormalized(t *testing.T) {
	tr, _ := newRecordingTracker(geometry.Rect{})
	tr.PointerDown(pt(50, 50))
	require.Equal(t, ModeDrawing, tr.Mode())
	assert.Equal(t, geometry.NewRect(50, 50, 50, 50), tr.Viewport())

	for _, p := range []geometry.Point2D{pt(80, 90), pt(20, 90), pt(20, 10), pt(70, 5), pt(50, 50)} {
		tr.PointerMove(p)
		v := tr.Viewport()
		assert.LessOrEqual(t, v.X, v.X2, "after move to %v", p)
		assert.LessOrEqual(t, v.Y, v.Y2, "after move to %v", p)
		assert.True(t, v.Contains(p))
		assert.True(t, v.Contains(pt(50, 50)))
	}
}

func TestDrawEndToEnd(t *testing.T) {
	tr, rec := newRecordingTracker(geometry.Rect{})

	tr.PointerDown(pt(5, 5))
	assert.Equal(t, ModeDrawing, tr.Mode())
	assert.True(t, tr.IsCropping())

	tr.PointerMove(pt(50, 40))
	assert.Equal(t, geometry.NewRect(5, 5, 50, 40), tr.Viewport())

	tr.PointerUp(pt(50, 40))
	assert.Equal(t, ModeIdle, tr.Mode())
	assert.False(t, tr.IsCropping())
	require.Len(t, rec.ends, 1)
	assert.Equal(t, geometry.NewRect(5, 5, 50, 40), rec.ends[0])
	assert.Len(t, rec.starts, 1)
}

func TestPointerDownPriority(t *testing.T) {
	// anchors overlap when the rect is smaller than the anchor size
	tr, _ := newRecordingTracker(geometry.NewRect(10, 10, 14, 14))
	tr.PointerDown(pt(12, 12))
	assert.Equal(t, ModeResizing, tr.Mode())
	assert.Equal(t, AnchorBottomLeft, tr.Anchor())
	tr.PointerUp(pt(12, 12))

	tr.SetResizable(false)
	tr.PointerDown(pt(12, 12))
	assert.Equal(t, ModeDragging, tr.Mode())
	tr.PointerUp(pt(12, 12))

	tr.SetDraggable(false)
	tr.PointerDown(pt(12, 12))
	assert.Equal(t, ModeDrawing, tr.Mode())
	tr.PointerUp(pt(12, 12))

	tr.SetDrawable(false)
	tr.SetViewport(geometry.NewRect(10, 10, 100, 100))
	tr.PointerDown(pt(50, 50))
	assert.Equal(t, ModeIdle, tr.Mode())
	tr.PointerMove(pt(60, 60))
	assert.Equal(t, geometry.NewRect(10, 10, 100, 100), tr.Viewport())
}

func TestEmptyViewportHasNoHotZones(t *testing.T) {
	tr, _ := newRecordingTracker(geometry.Rect{})
	assert.Equal(t, AnchorNone, tr.AnchorAt(pt(0, 0)))
	assert.Equal(t, CursorCrosshair, tr.CursorAt(pt(0, 0)))
}

func TestMoveWithoutPressIsNoop(t *testing.T) {
	tr, rec := newRecordingTracker(geometry.NewRect(10, 10, 100, 100))
	cursor := tr.PointerMove(pt(50, 50))
	assert.Equal(t, CursorMove, cursor)
	assert.Empty(t, rec.moves)
	assert.Equal(t, geometry.NewRect(10, 10, 100, 100), tr.Viewport())

	tr.PointerUp(pt(50, 50))
	assert.Empty(t, rec.ends)
}

func TestCursorAdvisory(t *testing.T) {
	tr, _ := newRecordingTracker(geometry.NewRect(10, 10, 100, 100))

	tests := []struct {
		p    geometry.Point2D
		want Cursor
	}{
		{pt(10, 10), CursorNWResize},
		{pt(100, 10), CursorNEResize},
		{pt(10, 100), CursorSWResize},
		{pt(100, 100), CursorSEResize},
		{pt(50, 50), CursorMove},
		{pt(200, 200), CursorCrosshair},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tr.CursorAt(tt.p), "at %v", tt.p)
	}

	tr.SetResizable(false)
	assert.Equal(t, CursorMove, tr.CursorAt(pt(10, 10)))
	tr.SetDrawable(false)
	assert.Equal(t, CursorDefault, tr.CursorAt(pt(200, 200)))
}

func TestArrowKeys(t *testing.T) {
	tr, rec := newRecordingTracker(geometry.NewRect(10, 10, 20, 20))

	assert.True(t, tr.KeyPress(KeyLeft))
	assert.True(t, tr.KeyPress(KeyDown))
	assert.True(t, tr.KeyPress(KeyDown))
	assert.True(t, tr.KeyPress(KeyRight))
	assert.True(t, tr.KeyPress(KeyUp))
	assert.Equal(t, geometry.NewRect(10, 14, 20, 24), tr.Viewport())
	assert.Len(t, rec.ends, 5)

	tr.PointerDown(pt(15, 18))
	assert.False(t, tr.KeyPress(KeyLeft))
	tr.PointerUp(pt(15, 18))

	tr.SetViewport(geometry.Rect{})
	assert.False(t, tr.KeyPress(KeyLeft))
	assert.Equal(t, geometry.Rect{}, tr.Viewport())
}

func TestScale(t *testing.T) {
	tr, rec := newRecordingTracker(geometry.NewRect(10, 20, 30, 40))
	tr.Scale(2)
	assert.Equal(t, geometry.NewRect(20, 40, 60, 80), tr.Viewport())
	require.Len(t, rec.ends, 1)
}
