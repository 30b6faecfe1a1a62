package server

import (
	"sync"

	"github.com/ayusman/virtualpaint/internal/paint"
)

// Feed holds the latest composited frame and session state published by the
// paint loop. Readers get copies and never touch the canvas.
type Feed struct {
	mu    sync.RWMutex
	jpeg  []byte
	state paint.State
	seq   uint64
}

// NewFeed creates an empty Feed.
func NewFeed() *Feed {
	return &Feed{}
}

// Publish replaces the current frame and state. jpeg is retained; callers
// must not modify it afterwards.
func (f *Feed) Publish(jpeg []byte, state paint.State) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.jpeg = jpeg
	f.state = state
	f.seq++
}

// Frame returns the latest JPEG and its sequence number. seq is zero until
// the first Publish.
func (f *Feed) Frame() ([]byte, uint64) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.jpeg, f.seq
}

// State returns the latest session state.
func (f *Feed) State() (paint.State, uint64) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.state, f.seq
}
