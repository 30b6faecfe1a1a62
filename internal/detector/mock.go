package detector

import (
	"image"
	"sync"

	"gocv.io/x/gocv"
)

// MockDetector is a test implementation of the Detector interface.
// It allows tests to control the detection results.
type MockDetector struct {
	hands    []HandLandmarks
	sequence [][]HandLandmarks
	err      error
	calls    int
	closed   bool
	mu       sync.Mutex
}

// NewMockDetector creates a new MockDetector instance.
func NewMockDetector() *MockDetector {
	return &MockDetector{}
}

// SetHands sets the hands that will be returned by every Detect call.
func (m *MockDetector) SetHands(hands []HandLandmarks) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hands = hands
}

// SetSequence queues per-frame results. Each Detect call consumes one entry;
// once the queue is empty Detect falls back to the hands set by SetHands.
func (m *MockDetector) SetSequence(frames [][]HandLandmarks) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sequence = frames
}

// SetError sets the error that will be returned by Detect.
func (m *MockDetector) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Detect returns the pre-configured hands or error.
func (m *MockDetector) Detect(frame *gocv.Mat) ([]HandLandmarks, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	if len(m.sequence) > 0 {
		next := m.sequence[0]
		m.sequence = m.sequence[1:]
		return next, nil
	}
	return m.hands, nil
}

// Calls returns how many times Detect has been invoked.
func (m *MockDetector) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// Closed reports whether Close has been called.
func (m *MockDetector) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

// Close marks the mock as closed.
func (m *MockDetector) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// HandAt returns a right hand whose index and middle fingertips land on the
// given pixels of a width x height frame. The remaining landmarks form a
// plausible palm below the fingertips.
func HandAt(index, middle image.Point, width, height int) HandLandmarks {
	hand := HandLandmarks{
		Handedness: "Right",
		Score:      0.95,
	}

	// Half-pixel offset so truncation in Pixel maps back to the same pixel.
	norm := func(p image.Point) Point3D {
		return Point3D{
			X: (float64(p.X) + 0.5) / float64(width),
			Y: (float64(p.Y) + 0.5) / float64(height),
		}
	}

	tip := norm(index)
	for i := range hand.Points {
		hand.Points[i] = Point3D{X: tip.X, Y: tip.Y + 0.15, Z: 0}
	}
	hand.Points[Wrist] = Point3D{X: tip.X, Y: tip.Y + 0.30}
	hand.Points[IndexTip] = tip
	hand.Points[MiddleTip] = norm(middle)

	return hand
}

// DrawingHand returns a hand with the middle fingertip raised above the index
// fingertip, which the paint loop reads as the drawing gesture.
func DrawingHand(index image.Point, width, height int) HandLandmarks {
	return HandAt(index, image.Point{X: index.X + 20, Y: index.Y - 30}, width, height)
}

// HoverHand returns a hand with the middle fingertip below the index fingertip.
func HoverHand(index image.Point, width, height int) HandLandmarks {
	return HandAt(index, image.Point{X: index.X + 20, Y: index.Y + 30}, width, height)
}
