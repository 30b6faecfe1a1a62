package paint

import (
	"image"

	"gocv.io/x/gocv"
)

// DefaultMaskThreshold is the gray level at or below which a canvas pixel
// counts as unpainted when compositing.
const DefaultMaskThreshold = 50

// Canvas is the persistent drawing surface. It starts black and is only
// ever changed by strokes.
type Canvas struct {
	mat gocv.Mat
}

// NewCanvas allocates a black BGR canvas of the given size.
func NewCanvas(width, height int) *Canvas {
	return &Canvas{
		mat: gocv.NewMatWithSizeFromScalar(gocv.NewScalar(0, 0, 0, 0), height, width, gocv.MatTypeCV8UC3),
	}
}

// Size returns the canvas dimensions.
func (c *Canvas) Size() image.Point {
	return image.Point{X: c.mat.Cols(), Y: c.mat.Rows()}
}

// Mat returns the underlying image. Callers must not close it.
func (c *Canvas) Mat() gocv.Mat {
	return c.mat
}

// Draw renders a stroke onto the canvas and, when frame is non-nil, onto the
// live frame as well.
func (c *Canvas) Draw(frame *gocv.Mat, s Stroke) {
	if frame != nil {
		gocv.Line(frame, s.From, s.To, s.Color, s.Thickness)
	}
	gocv.Line(&c.mat, s.From, s.To, s.Color, s.Thickness)
}

// Composite overlays the canvas on frame in place. See Composite.
func (c *Canvas) Composite(frame *gocv.Mat, threshold float32) {
	Composite(*frame, c.mat, frame, threshold)
}

// Close releases the canvas memory.
func (c *Canvas) Close() error {
	return c.mat.Close()
}

// Composite merges canvas over frame into dst. Canvas pixels brighter than
// threshold (in gray) replace the frame pixel; elsewhere the frame is kept and
// OR-ed with the canvas. dst may alias frame.
func Composite(frame, canvas gocv.Mat, dst *gocv.Mat, threshold float32) {
	gray := gocv.NewMat()
	defer gray.Close()
	gocv.CvtColor(canvas, &gray, gocv.ColorBGRToGray)

	inv := gocv.NewMat()
	defer inv.Close()
	gocv.Threshold(gray, &inv, threshold, 255, gocv.ThresholdBinaryInv)

	mask := gocv.NewMat()
	defer mask.Close()
	gocv.CvtColor(inv, &mask, gocv.ColorGrayToBGR)

	gocv.BitwiseAnd(frame, mask, dst)
	gocv.BitwiseOr(*dst, canvas, dst)
}
