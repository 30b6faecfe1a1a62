package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"gocv.io/x/gocv"

	"github.com/ayusman/virtualpaint/internal/app"
	"github.com/ayusman/virtualpaint/internal/capture"
	"github.com/ayusman/virtualpaint/internal/config"
	"github.com/ayusman/virtualpaint/internal/detector"
	"github.com/ayusman/virtualpaint/internal/hook"
	"github.com/ayusman/virtualpaint/internal/paint"
	"github.com/ayusman/virtualpaint/internal/server"
	"github.com/ayusman/virtualpaint/internal/store"
)

func main() {
	fmt.Println("Virtual Paint - draw in the air with your index finger")

	cfg, err := config.Parse(filepath.Base(os.Args[0]), os.Args[1:])
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	if err := run(cfg); err != nil {
		log.Fatalf("Virtual Paint failed: %v", err)
	}
}

func run(cfg *config.Config) error {
	icons, err := paint.LoadIcons(cfg.ResourceDir)
	if err != nil {
		return fmt.Errorf("load header icons: %w", err)
	}
	defer icons.Close()

	st, err := store.New(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open snapshot catalog: %w", err)
	}
	defer st.Close()

	cam := capture.NewCamera(capture.Options{
		DeviceID: cfg.CameraID,
		Width:    cfg.Width,
		Height:   cfg.Height,
		Mirror:   cfg.Mirror,
	})
	if err := cam.Open(); err != nil {
		return fmt.Errorf("open camera %d: %w", cfg.CameraID, err)
	}
	defer cam.Close()

	det := newDetector(cfg)
	defer det.Close()

	window := gocv.NewWindow(cfg.WindowTitle)
	defer window.Close()

	hooks := hook.NewManager(cfg.HookDir)
	if err := hooks.Discover(); err != nil {
		log.Printf("Hook discovery failed: %v", err)
	}
	if n := len(hooks.List()); n > 0 {
		log.Printf("Loaded %d hooks from %s", n, hooks.HookDir())
	}
	dispatcher := hook.NewDispatcher(hooks, hook.NewExecutor(cfg.HookTimeoutMs))
	defer dispatcher.Wait()

	var feed *server.Feed
	if cfg.HTTPAddr != "" {
		feed = server.NewFeed()
		srv := server.New(server.Config{
			StaticDir: cfg.StaticDir,
			Store:     st,
			Feed:      feed,
		})
		go func() {
			log.Printf("Preview server listening on %s", cfg.HTTPAddr)
			if err := srv.ListenAndServe(cfg.HTTPAddr); err != nil {
				log.Printf("Preview server failed: %v", err)
			}
		}()
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			srv.Shutdown(ctx)
		}()
	}

	a, err := app.New(app.Config{
		Width:           cfg.Width,
		Height:          cfg.Height,
		HeaderHeight:    cfg.HeaderHeight,
		BrushThickness:  cfg.BrushThickness,
		EraserThickness: cfg.EraserThickness,
		MaskThreshold:   float32(cfg.MaskThreshold),
		OutputDir:       cfg.OutputDir,
		Icons:           icons,
		Store:           st,
		Hooks:           dispatcher,
		Feed:            feed,
	}, cam, det, window)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return a.Run(ctx)
}

// newDetector prefers the MediaPipe service and falls back to a detector
// that never sees a hand, so the window still opens without Python.
func newDetector(cfg *config.Config) detector.Detector {
	dc := detector.DefaultConfig()
	dc.MaxHands = cfg.DetectorMaxHands
	dc.MinConfidence = cfg.DetectorMinConfidence

	mp, err := detector.NewMediaPipeDetector(dc)
	if err != nil {
		log.Printf("MediaPipe not available (%v), hand tracking disabled", err)
		return detector.NewMockDetector()
	}
	log.Println("Using MediaPipe hand detection")
	return mp
}
