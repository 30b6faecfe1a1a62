package app

import (
	"context"
	"image"
	"log"
	"path/filepath"

	"github.com/google/uuid"
	"gocv.io/x/gocv"

	"github.com/ayusman/virtualpaint/internal/capture"
	"github.com/ayusman/virtualpaint/internal/gesture"
	"github.com/ayusman/virtualpaint/internal/hook"
	"github.com/ayusman/virtualpaint/internal/paint"
	"github.com/ayusman/virtualpaint/internal/store"
)

// Run is the main paint loop. It returns nil when Escape is pressed or ctx is
// cancelled.
//
// Per frame:
//  1. Read a mirrored frame; on error log and skip it
//  2. Detect hands and draw the header
//  3. Step the session with the first hand and apply its stroke or save
//  4. Composite the canvas over the frame and draw the status toast
//  5. Show, publish to the preview feed and poll the keyboard
func (a *App) Run(ctx context.Context) error {
	if !a.camera.IsOpen() {
		return capture.ErrCameraNotOpen
	}

	log.Println("Paint loop started, press Esc to exit")
	defer log.Println("Paint loop stopped")

	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		frame, err := a.camera.ReadFrame()
		if err != nil {
			log.Printf("Error reading frame: %v", err)
		} else {
			a.ProcessFrame(frame)
			a.display.IMShow(*frame)
			a.publish(frame)
			frame.Close()
		}

		if key := a.display.WaitKey(1); key&0xFF == EscapeKey {
			return nil
		}
	}
}

// ProcessFrame runs one iteration of detection, painting and compositing on
// frame in place and returns the session update.
func (a *App) ProcessFrame(frame *gocv.Mat) paint.Update {
	a.frames++
	a.fitFrame(frame)

	hands, err := a.detector.Detect(frame)
	if err != nil {
		log.Printf("Error detecting hands: %v", err)
		hands = nil
	}

	a.header.Draw(frame, a.session.Active(), a.session.Eraser())

	var update paint.Update
	if len(hands) > 0 {
		hand := &hands[0]
		paint.DrawHand(frame, hand.Pixels(a.config.Width, a.config.Height))
		reading := gesture.Interpret(hand, a.config.Width, a.config.Height)
		update = a.session.Step(&reading)
	} else {
		update = a.session.Step(nil)
	}

	if update.Stroke != nil {
		a.canvas.Draw(frame, *update.Stroke)
	}
	if update.Save {
		a.save()
	}

	a.canvas.Composite(frame, a.config.MaskThreshold)

	if !a.toast.Draw(frame, a.session.HeaderHeight(), a.now()) {
		a.toast = nil
	}

	return update
}

// fitFrame resizes frames that do not match the canvas.
func (a *App) fitFrame(frame *gocv.Mat) {
	size := image.Pt(a.config.Width, a.config.Height)
	if frame.Cols() == size.X && frame.Rows() == size.Y {
		return
	}
	resized := gocv.NewMat()
	gocv.Resize(*frame, &resized, size, 0, 0, gocv.InterpolationLinear)
	frame.Close()
	*frame = resized
}

// save writes the canvas, records it in the catalog and notifies hooks.
func (a *App) save() {
	path, err := a.saver.Save(a.canvas)
	if err != nil {
		log.Printf("Error saving drawing: %v", err)
		a.toast = paint.NewToast("Save failed", true, a.now())
		return
	}

	filename := filepath.Base(path)
	log.Printf("Drawing saved as %s", filename)
	a.toast = paint.NewToast("Saved "+filename, false, a.now())

	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	tool := a.session.State().Tool

	snap := &store.Snapshot{
		ID:        uuid.New().String(),
		SessionID: a.sessionID,
		Filename:  filename,
		Path:      path,
		Width:     a.config.Width,
		Height:    a.config.Height,
		Tool:      tool,
		CreatedAt: a.now(),
	}
	if a.config.Store != nil {
		if err := a.config.Store.Snapshots().Create(snap); err != nil {
			log.Printf("Error recording snapshot: %v", err)
		}
	}

	if a.config.Hooks != nil {
		a.config.Hooks.Notify(hook.Event{
			Event:      hook.EventSnapshotSaved,
			SessionID:  a.sessionID,
			SnapshotID: snap.ID,
			Path:       path,
			Tool:       tool,
			Timestamp:  snap.CreatedAt,
		})
	}
}

// publish hands the composited frame and session state to the preview feed.
func (a *App) publish(frame *gocv.Mat) {
	if a.config.Feed == nil {
		return
	}
	buf, err := gocv.IMEncode(gocv.JPEGFileExt, *frame)
	if err != nil {
		log.Printf("Error encoding preview frame: %v", err)
		return
	}
	defer buf.Close()
	jpeg := append([]byte(nil), buf.GetBytes()...)
	a.config.Feed.Publish(jpeg, a.session.State())
}
