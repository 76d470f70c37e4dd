package tracker

// Mode is the active pointer interaction.
type Mode int

const (
	ModeIdle Mode = iota
	ModeDrawing
	ModeDragging
	ModeResizing
)

func (m Mode) String() string {
	switch m {
	case ModeDrawing:
		return "drawing"
	case ModeDragging:
		return "dragging"
	case ModeResizing:
		return "resizing"
	default:
		return "idle"
	}
}

// Anchor identifies a resize hot-zone at one corner of the viewport.
type Anchor int

const (
	AnchorNone Anchor = iota
	AnchorTopLeft
	AnchorTopRight
	AnchorBottomLeft
	AnchorBottomRight
)

// hitOrder is the priority used when anchor zones overlap.
var hitOrder = [...]Anchor{AnchorBottomLeft, AnchorBottomRight, AnchorTopRight, AnchorTopLeft}

func (a Anchor) String() string {
	switch a {
	case AnchorTopLeft:
		return "top-left"
	case AnchorTopRight:
		return "top-right"
	case AnchorBottomLeft:
		return "bottom-left"
	case AnchorBottomRight:
		return "bottom-right"
	default:
		return "none"
	}
}

// Cursor is the pointer shape suggested to the rendering surface.
type Cursor string

const (
	CursorDefault   Cursor = "default"
	CursorMove      Cursor = "move"
	CursorCrosshair Cursor = "crosshair"
	CursorNWResize  Cursor = "nw-resize"
	CursorNEResize  Cursor = "ne-resize"
	CursorSWResize  Cursor = "sw-resize"
	CursorSEResize  Cursor = "se-resize"
)

func (a Anchor) cursor() Cursor {
	switch a {
	case AnchorTopLeft:
		return CursorNWResize
	case AnchorTopRight:
		return CursorNEResize
	case AnchorBottomLeft:
		return CursorSWResize
	case AnchorBottomRight:
		return CursorSEResize
	default:
		return CursorDefault
	}
}

// Key is an arrow key press.
type Key int

const (
	KeyLeft Key = iota
	KeyRight
	KeyUp
	KeyDown
)
