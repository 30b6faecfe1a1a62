package gesture

import "image"

// DefaultHeaderHeight is the height in pixels of the selection band.
const DefaultHeaderHeight = 100

// Mode is the interaction state for a single frame.
type Mode int

const (
	// ModeNoHand means no hand was detected this frame.
	ModeNoHand Mode = iota
	// ModeHover means the pointer is below the header without the draw gesture.
	ModeHover
	// ModeSelection means the pointer is inside the header band.
	ModeSelection
	// ModeDrawing means the pointer is below the header with the draw gesture.
	ModeDrawing
)

func (m Mode) String() string {
	switch m {
	case ModeNoHand:
		return "none"
	case ModeHover:
		return "hover"
	case ModeSelection:
		return "selection"
	case ModeDrawing:
		return "drawing"
	default:
		return "unknown"
	}
}

// Classify picks the mode for a pointer and gesture flag. It is stateless:
// every frame is classified on its own, with no hysteresis.
func Classify(pointer image.Point, drawGesture bool, headerHeight int) Mode {
	switch {
	case pointer.Y < headerHeight:
		return ModeSelection
	case drawGesture:
		return ModeDrawing
	default:
		return ModeHover
	}
}
