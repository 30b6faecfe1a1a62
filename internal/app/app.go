// Package app runs the virtual paint loop: it reads camera frames, tracks one
// hand, paints onto a persistent canvas and shows the result in a window.
package app

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"gocv.io/x/gocv"

	"github.com/ayusman/virtualpaint/internal/capture"
	"github.com/ayusman/virtualpaint/internal/detector"
	"github.com/ayusman/virtualpaint/internal/hook"
	"github.com/ayusman/virtualpaint/internal/paint"
	"github.com/ayusman/virtualpaint/internal/server"
	"github.com/ayusman/virtualpaint/internal/store"
)

// EscapeKey is the key code that ends the loop.
const EscapeKey = 27

// Display shows frames and polls the keyboard. *gocv.Window satisfies it.
type Display interface {
	IMShow(img gocv.Mat)
	WaitKey(delay int) int
	Close() error
}

// Config holds configuration options for the application.
type Config struct {
	Width           int
	Height          int
	HeaderHeight    int
	BrushThickness  int
	EraserThickness int
	MaskThreshold   float32
	OutputDir       string

	// Optional collaborators; nil disables the feature.
	Icons *paint.Icons
	Store *store.Store
	Hooks *hook.Dispatcher
	Feed  *server.Feed

	// Now overrides the clock used for filenames and toasts.
	Now func() time.Time
}

// App is the paint loop and the state it owns.
type App struct {
	config   Config
	camera   capture.Camera
	detector detector.Detector
	display  Display

	canvas  *paint.Canvas
	session *paint.Session
	header  *paint.Header
	saver   *paint.Saver
	toast   *paint.Toast

	sessionID string
	frames    int
	now       func() time.Time
}

// New creates an App. The camera, detector and display stay owned by the
// caller; the canvas is owned by the App and released by Close.
func New(config Config, cam capture.Camera, det detector.Detector, disp Display) (*App, error) {
	if cam == nil || det == nil || disp == nil {
		return nil, errors.New("app: camera, detector and display are required")
	}
	if config.Width <= 0 || config.Height <= 0 {
		config.Width, config.Height = capture.DefaultWidth, capture.DefaultHeight
	}
	if config.MaskThreshold <= 0 {
		config.MaskThreshold = paint.DefaultMaskThreshold
	}
	now := config.Now
	if now == nil {
		now = time.Now
	}

	session := paint.NewSession(paint.SessionConfig{
		HeaderHeight:    config.HeaderHeight,
		BrushThickness:  config.BrushThickness,
		EraserThickness: config.EraserThickness,
	})

	saver := paint.NewSaver(config.OutputDir)
	saver.Now = now

	a := &App{
		config:    config,
		camera:    cam,
		detector:  det,
		display:   disp,
		canvas:    paint.NewCanvas(config.Width, config.Height),
		session:   session,
		header:    paint.NewHeader(session.HeaderHeight(), session.Zones(), session.Palette(), config.Icons),
		saver:     saver,
		sessionID: uuid.New().String(),
		now:       now,
	}

	if config.Store != nil {
		err := config.Store.Sessions().Start(&store.Session{
			ID:     a.sessionID,
			Width:  config.Width,
			Height: config.Height,
		})
		if err != nil {
			a.canvas.Close()
			return nil, fmt.Errorf("record session: %w", err)
		}
	}

	return a, nil
}

// Close releases the canvas and marks the session finished.
func (a *App) Close() error {
	if a.config.Store != nil {
		if err := a.config.Store.Sessions().End(a.sessionID); err != nil {
			log.Printf("Error ending session: %v", err)
		}
	}
	return a.canvas.Close()
}

// Session returns the interaction state.
func (a *App) Session() *paint.Session {
	return a.session
}

// Canvas returns the persistent drawing layer.
func (a *App) Canvas() *paint.Canvas {
	return a.canvas
}

// SessionID returns the catalog ID of this run.
func (a *App) SessionID() string {
	return a.sessionID
}

// Toast returns the current status message, if any.
func (a *App) Toast() *paint.Toast {
	return a.toast
}

// Frames returns the number of frames processed so far.
func (a *App) Frames() int {
	return a.frames
}
