package paint

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"time"

	"gocv.io/x/gocv"

	"github.com/ayusman/virtualpaint/internal/detector"
)

// ErrIconMissing is returned when a header icon cannot be loaded.
var ErrIconMissing = errors.New("icon missing")

// IconSize is the edge length icons are resized to.
const IconSize = 80

// Button rows inside the header band.
const (
	buttonTop    = 10
	buttonBottom = 90
)

var (
	headerColor    = color.RGBA{R: 50, G: 50, B: 50, A: 0}
	borderColor    = color.RGBA{R: 200, G: 200, B: 200, A: 0}
	highlightColor = color.RGBA{R: 255, G: 255, B: 255, A: 0}
	jointColor     = color.RGBA{R: 255, G: 0, B: 0, A: 0}
	boneColor      = color.RGBA{R: 255, G: 255, B: 255, A: 0}
	infoColor      = color.RGBA{R: 255, G: 255, B: 255, A: 0}
	errorColor     = color.RGBA{R: 255, G: 40, B: 40, A: 0}
)

// Icons holds the eraser and save button images.
type Icons struct {
	Eraser gocv.Mat
	Save   gocv.Mat
}

// LoadIcons reads eraser.png and save.png from dir and resizes them to
// IconSize x IconSize.
func LoadIcons(dir string) (*Icons, error) {
	eraser, err := loadIcon(filepath.Join(dir, "eraser.png"))
	if err != nil {
		return nil, err
	}
	save, err := loadIcon(filepath.Join(dir, "save.png"))
	if err != nil {
		eraser.Close()
		return nil, err
	}
	return &Icons{Eraser: eraser, Save: save}, nil
}

func loadIcon(path string) (gocv.Mat, error) {
	if _, err := os.Stat(path); err != nil {
		return gocv.Mat{}, fmt.Errorf("%w: %v", ErrIconMissing, err)
	}

	img := gocv.IMRead(path, gocv.IMReadColor)
	if img.Empty() {
		img.Close()
		return gocv.Mat{}, fmt.Errorf("%w: cannot decode %s", ErrIconMissing, path)
	}
	defer img.Close()

	resized := gocv.NewMat()
	gocv.Resize(img, &resized, image.Pt(IconSize, IconSize), 0, 0, gocv.InterpolationLinear)
	return resized, nil
}

// Close releases the icon images.
func (i *Icons) Close() error {
	if i == nil {
		return nil
	}
	i.Eraser.Close()
	return i.Save.Close()
}

// Header draws the selection band at the top of each frame.
type Header struct {
	height  int
	zones   ZoneTable
	palette Palette
	icons   *Icons
}

// NewHeader creates a Header. icons may be nil, in which case the eraser and
// save buttons are drawn as outlines only.
func NewHeader(height int, zones ZoneTable, palette Palette, icons *Icons) *Header {
	return &Header{
		height:  height,
		zones:   zones,
		palette: palette,
		icons:   icons,
	}
}

// Draw paints the band, buttons and the highlight for the active tool.
func (h *Header) Draw(frame *gocv.Mat, activeIndex int, eraser bool) {
	bounds := image.Rect(0, 0, frame.Cols(), frame.Rows())
	gocv.Rectangle(frame, image.Rect(0, 0, frame.Cols(), h.height), headerColor, -1)

	for _, z := range h.zones {
		r := z.Rect(buttonTop, buttonBottom)
		if !r.In(bounds) {
			continue
		}

		switch z.Kind {
		case ZoneColor:
			if z.Index < len(h.palette) {
				gocv.Rectangle(frame, r, h.palette[z.Index].Color, -1)
			}
		case ZoneEraser:
			if h.icons != nil {
				pasteIcon(frame, h.icons.Eraser, r)
			}
		case ZoneSave:
			if h.icons != nil {
				pasteIcon(frame, h.icons.Save, r)
			}
		}
		gocv.Rectangle(frame, r, borderColor, 2)

		selected := (z.Kind == ZoneEraser && eraser) ||
			(z.Kind == ZoneColor && !eraser && z.Index == activeIndex)
		if selected {
			gocv.Rectangle(frame, r.Inset(-4), highlightColor, 3)
		}
	}
}

func pasteIcon(frame *gocv.Mat, icon gocv.Mat, r image.Rectangle) {
	if icon.Empty() || icon.Cols() != r.Dx() || icon.Rows() != r.Dy() {
		return
	}
	region := frame.Region(r)
	defer region.Close()
	icon.CopyTo(&region)
}

// DrawHand draws the hand skeleton for landmarks already scaled to pixels.
func DrawHand(frame *gocv.Mat, pts [detector.NumLandmarks]image.Point) {
	for _, c := range detector.HandConnections {
		gocv.Line(frame, pts[c[0]], pts[c[1]], boneColor, 2)
	}
	for _, p := range pts {
		gocv.Circle(frame, p, 4, jointColor, -1)
	}
}

// Toast is a short status message shown below the header.
type Toast struct {
	Message string
	Err     bool
	Until   time.Time
}

// ToastDuration is how long a status message stays on screen.
const ToastDuration = 2 * time.Second

// NewToast creates a message that expires ToastDuration after now.
func NewToast(msg string, isErr bool, now time.Time) *Toast {
	return &Toast{Message: msg, Err: isErr, Until: now.Add(ToastDuration)}
}

// Draw renders the toast if it has not expired. It reports whether anything
// was drawn.
func (t *Toast) Draw(frame *gocv.Mat, headerHeight int, now time.Time) bool {
	if t == nil || now.After(t.Until) {
		return false
	}
	c := infoColor
	if t.Err {
		c = errorColor
	}
	gocv.PutText(frame, t.Message, image.Pt(20, headerHeight+40), gocv.FontHersheySimplex, 0.9, c, 2)
	return true
}
