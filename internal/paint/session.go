package paint

import (
	"image"
	"image/color"

	"github.com/ayusman/virtualpaint/internal/gesture"
)

// Default stroke widths in pixels.
const (
	DefaultBrushThickness  = 15
	DefaultEraserThickness = 50
)

// Pointer is the last drawing position. The zero value is the "no previous
// point" sentinel.
type Pointer struct {
	P     image.Point
	Valid bool
}

// Stroke is a line segment to render onto the frame and the canvas.
type Stroke struct {
	From      image.Point
	To        image.Point
	Color     color.RGBA
	Thickness int
}

// Update describes the side effects of one Step.
type Update struct {
	Mode   gesture.Mode
	Stroke *Stroke
	// Zone is the header zone under the pointer in selection mode.
	Zone *Zone
	// Save is set on the first selection frame inside the save zone.
	Save bool
}

// SessionConfig configures a Session. Zero fields take defaults.
type SessionConfig struct {
	Palette         Palette
	Zones           ZoneTable
	HeaderHeight    int
	BrushThickness  int
	EraserThickness int
}

// Session is the mutable interaction state owned by the paint loop.
type Session struct {
	palette         Palette
	zones           ZoneTable
	headerHeight    int
	brushThickness  int
	eraserThickness int

	active    int
	eraser    bool
	prev      Pointer
	saveArmed bool
	lastMode  gesture.Mode
	lastPoint image.Point
}

// NewSession creates a Session with the first palette color active.
func NewSession(cfg SessionConfig) *Session {
	if len(cfg.Palette) == 0 {
		cfg.Palette = DefaultPalette()
	}
	if len(cfg.Zones) == 0 {
		cfg.Zones = DefaultZones()
	}
	if cfg.HeaderHeight <= 0 {
		cfg.HeaderHeight = gesture.DefaultHeaderHeight
	}
	if cfg.BrushThickness <= 0 {
		cfg.BrushThickness = DefaultBrushThickness
	}
	if cfg.EraserThickness <= 0 {
		cfg.EraserThickness = DefaultEraserThickness
	}

	return &Session{
		palette:         cfg.Palette,
		zones:           cfg.Zones,
		headerHeight:    cfg.HeaderHeight,
		brushThickness:  cfg.BrushThickness,
		eraserThickness: cfg.EraserThickness,
		saveArmed:       true,
	}
}

// Step advances the session by one frame. A nil reading means no hand was
// detected.
func (s *Session) Step(r *gesture.Reading) Update {
	if r == nil {
		s.prev = Pointer{}
		s.saveArmed = true
		s.lastMode = gesture.ModeNoHand
		return Update{Mode: gesture.ModeNoHand}
	}

	mode := gesture.Classify(r.Pointer, r.DrawGesture, s.headerHeight)
	s.lastMode = mode
	s.lastPoint = r.Pointer
	u := Update{Mode: mode}

	switch mode {
	case gesture.ModeSelection:
		s.prev = Pointer{}
		zone, ok := s.zones.HitTest(r.Pointer.X)
		if !ok || zone.Kind != ZoneSave {
			s.saveArmed = true
		}
		if !ok {
			return u
		}
		u.Zone = &zone
		switch zone.Kind {
		case ZoneColor:
			s.Select(zone.Index)
		case ZoneEraser:
			s.SelectEraser()
		case ZoneSave:
			if s.saveArmed {
				u.Save = true
				s.saveArmed = false
			}
		}

	case gesture.ModeDrawing:
		s.saveArmed = true
		if !s.prev.Valid {
			s.prev = Pointer{P: r.Pointer, Valid: true}
			return u
		}
		u.Stroke = &Stroke{
			From:      s.prev.P,
			To:        r.Pointer,
			Color:     s.DrawColor(),
			Thickness: s.Thickness(),
		}
		s.prev.P = r.Pointer

	default:
		s.saveArmed = true
		s.prev = Pointer{}
	}

	return u
}

// Select makes palette color i active and turns the eraser off.
// Out of range indices are ignored.
func (s *Session) Select(i int) {
	if i < 0 || i >= len(s.palette) {
		return
	}
	s.active = i
	s.eraser = false
	s.prev = Pointer{}
}

// SelectEraser turns the eraser on.
func (s *Session) SelectEraser() {
	s.eraser = true
	s.prev = Pointer{}
}

// DrawColor returns the color strokes are drawn with.
func (s *Session) DrawColor() color.RGBA {
	if s.eraser {
		return EraserColor
	}
	return s.palette[s.active].Color
}

// Thickness returns the stroke width for the current tool.
func (s *Session) Thickness() int {
	if s.eraser {
		return s.eraserThickness
	}
	return s.brushThickness
}

// Active returns the selected palette index.
func (s *Session) Active() int {
	return s.active
}

// Eraser reports whether the eraser is the current tool.
func (s *Session) Eraser() bool {
	return s.eraser
}

// Previous returns the stored pointer.
func (s *Session) Previous() Pointer {
	return s.prev
}

// SetPrevious overrides the stored pointer.
func (s *Session) SetPrevious(p image.Point) {
	s.prev = Pointer{P: p, Valid: true}
}

// Palette returns the session palette.
func (s *Session) Palette() Palette {
	return s.palette
}

// Zones returns the header layout.
func (s *Session) Zones() ZoneTable {
	return s.zones
}

// HeaderHeight returns the height of the selection band.
func (s *Session) HeaderHeight() int {
	return s.headerHeight
}

// State is a read-only copy of the session, safe to hand to other goroutines.
type State struct {
	Mode      string  `json:"mode"`
	Tool      string  `json:"tool"`
	Color     [3]int  `json:"color"`
	Thickness int     `json:"thickness"`
	Pointer   *[2]int `json:"pointer,omitempty"`
	Drawing   bool    `json:"drawing"`
}

// State returns a snapshot of the session after the last Step.
func (s *Session) State() State {
	c := s.DrawColor()
	st := State{
		Mode:      s.lastMode.String(),
		Tool:      "eraser",
		Color:     [3]int{int(c.R), int(c.G), int(c.B)},
		Thickness: s.Thickness(),
		Drawing:   s.prev.Valid,
	}
	if !s.eraser {
		st.Tool = s.palette[s.active].Name
	}
	if s.lastMode != gesture.ModeNoHand {
		st.Pointer = &[2]int{s.lastPoint.X, s.lastPoint.Y}
	}
	return st
}
