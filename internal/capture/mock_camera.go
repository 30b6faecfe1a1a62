package capture

import (
	"errors"
	"sync"

	"gocv.io/x/gocv"
)

// ErrNoMoreFrames is returned by a non-looping MockCamera after its last frame.
var ErrNoMoreFrames = errors.New("no more frames")

// MockCamera plays back in-memory frames. Each read returns a clone, so
// callers may draw on and close what they get.
type MockCamera struct {
	mu       sync.Mutex
	frames   []*gocv.Mat
	loop     bool
	next     int
	calls    int
	reads    int
	failures map[int]error
	running  bool
}

// NewMockCamera creates a camera that plays frames in order, starting over
// at the end when loop is set.
func NewMockCamera(frames []*gocv.Mat, loop bool) *MockCamera {
	return &MockCamera{
		frames:   frames,
		loop:     loop,
		failures: make(map[int]error),
	}
}

// FailAt makes the call-th ReadFrame call (0-based) return err instead of a
// frame. The frame sequence does not advance on a failed read.
func (c *MockCamera) FailAt(call int, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.failures[call] = err
}

func (c *MockCamera) Open() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.running = true
	c.next = 0
	return nil
}

func (c *MockCamera) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.running = false
	return nil
}

func (c *MockCamera) ReadFrame() (*gocv.Mat, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.running {
		return nil, ErrCameraNotOpen
	}

	call := c.calls
	c.calls++
	if err, ok := c.failures[call]; ok {
		return nil, err
	}

	if c.next >= len(c.frames) {
		if !c.loop || len(c.frames) == 0 {
			return nil, ErrNoMoreFrames
		}
		c.next = 0
	}

	frame := c.frames[c.next].Clone()
	c.next++
	c.reads++
	return &frame, nil
}

func (c *MockCamera) IsOpen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.running
}

// Reads returns the number of frames handed out so far.
func (c *MockCamera) Reads() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.reads
}
