// Package gesture turns tracked fingertip positions into paint modes.
package gesture

import (
	"image"

	"github.com/ayusman/virtualpaint/internal/detector"
)

// Reading is the per-frame interpretation of one hand.
type Reading struct {
	Pointer     image.Point // index fingertip, in frame pixels
	Middle      image.Point // middle fingertip, in frame pixels
	DrawGesture bool
}

// Interpret extracts the index and middle fingertips of a hand in a
// width x height frame. The draw gesture is active exactly when the middle
// fingertip sits above the index fingertip in image space.
func Interpret(hand *detector.HandLandmarks, width, height int) Reading {
	index := hand.Pixel(detector.IndexTip, width, height)
	middle := hand.Pixel(detector.MiddleTip, width, height)

	return Reading{
		Pointer:     index,
		Middle:      middle,
		DrawGesture: middle.Y < index.Y,
	}
}
