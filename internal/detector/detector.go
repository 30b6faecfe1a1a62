// Package detector tracks hand landmarks in camera frames.
package detector

import (
	"strconv"

	"gocv.io/x/gocv"
)

// Detector finds hands in a frame. Implementations are opaque to the paint
// loop; only the landmark positions matter.
type Detector interface {
	// Detect returns the hands found in frame, best first. No hands is an
	// empty slice, not an error.
	Detect(frame *gocv.Mat) ([]HandLandmarks, error)

	// Close releases any resources held by the detector.
	Close() error
}

// Config holds configuration options for hand detection.
type Config struct {
	MaxHands        int
	MinConfidence   float64
	MinTrackingConf float64

	// ScriptPath overrides the location of mediapipe_service.py.
	ScriptPath string
}

// DefaultConfig returns a Config tuned for single-hand painting.
func DefaultConfig() Config {
	return Config{
		MaxHands:        1,
		MinConfidence:   0.5,
		MinTrackingConf: 0.5,
	}
}

// Args returns the command-line flags understood by mediapipe_service.py.
// Out of range values fall back to DefaultConfig.
func (c Config) Args() []string {
	def := DefaultConfig()
	if c.MaxHands < 1 {
		c.MaxHands = def.MaxHands
	}
	if c.MinConfidence <= 0 || c.MinConfidence > 1 {
		c.MinConfidence = def.MinConfidence
	}
	if c.MinTrackingConf <= 0 || c.MinTrackingConf > 1 {
		c.MinTrackingConf = def.MinTrackingConf
	}
	return []string{
		"--max-hands", strconv.Itoa(c.MaxHands),
		"--min-detection-confidence", strconv.FormatFloat(c.MinConfidence, 'f', -1, 64),
		"--min-tracking-confidence", strconv.FormatFloat(c.MinTrackingConf, 'f', -1, 64),
	}
}
