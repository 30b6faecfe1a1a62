// Package paint holds the virtual paint canvas, its header UI and the
// per-session drawing state.
package paint

import (
	"image"
	"image/color"
)

// Swatch is a named draw color. Colors are RGB; gocv writes them as BGR.
type Swatch struct {
	Name  string
	Color color.RGBA
}

// Palette is the ordered list of selectable draw colors.
type Palette []Swatch

// EraserColor is the canvas background. Drawing with it clears strokes.
var EraserColor = color.RGBA{R: 0, G: 0, B: 0, A: 0}

// DefaultPalette returns the four header colors.
func DefaultPalette() Palette {
	return Palette{
		{Name: "Pink", Color: color.RGBA{R: 255, G: 0, B: 255, A: 0}},
		{Name: "Blue", Color: color.RGBA{R: 0, G: 0, B: 255, A: 0}},
		{Name: "Green", Color: color.RGBA{R: 0, G: 255, B: 0, A: 0}},
		{Name: "Yellow", Color: color.RGBA{R: 255, G: 255, B: 0, A: 0}},
	}
}

// ZoneKind identifies what a header zone does when the pointer enters it.
type ZoneKind int

const (
	ZoneColor ZoneKind = iota
	ZoneEraser
	ZoneSave
)

func (k ZoneKind) String() string {
	switch k {
	case ZoneColor:
		return "color"
	case ZoneEraser:
		return "eraser"
	case ZoneSave:
		return "save"
	default:
		return "unknown"
	}
}

// Zone is a horizontal slice of the header band. Index is the palette index
// for color zones and unused otherwise.
type Zone struct {
	Name  string
	Kind  ZoneKind
	Index int
	X1    int
	X2    int
}

// Contains reports whether x lies strictly between the zone edges.
func (z Zone) Contains(x int) bool {
	return z.X1 < x && x < z.X2
}

// Rect returns the drawn button rectangle between the given rows.
func (z Zone) Rect(top, bottom int) image.Rectangle {
	return image.Rect(z.X1, top, z.X2, bottom)
}

// ZoneTable is the static header layout. Zones must not overlap.
type ZoneTable []Zone

// DefaultZones returns the layout for a 1280 pixel wide frame.
func DefaultZones() ZoneTable {
	return ZoneTable{
		{Name: "eraser", Kind: ZoneEraser, X1: 20, X2: 100},
		{Name: "color0", Kind: ZoneColor, Index: 0, X1: 140, X2: 220},
		{Name: "color1", Kind: ZoneColor, Index: 1, X1: 260, X2: 340},
		{Name: "color2", Kind: ZoneColor, Index: 2, X1: 380, X2: 460},
		{Name: "color3", Kind: ZoneColor, Index: 3, X1: 500, X2: 580},
		{Name: "save", Kind: ZoneSave, X1: 1180, X2: 1260},
	}
}

// HitTest returns the zone containing x, if any.
func (t ZoneTable) HitTest(x int) (Zone, bool) {
	for _, z := range t {
		if z.Contains(x) {
			return z, true
		}
	}
	return Zone{}, false
}

// Find returns the first zone of the given kind and palette index.
func (t ZoneTable) Find(kind ZoneKind, index int) (Zone, bool) {
	for _, z := range t {
		if z.Kind == kind && (kind != ZoneColor || z.Index == index) {
			return z, true
		}
	}
	return Zone{}, false
}
