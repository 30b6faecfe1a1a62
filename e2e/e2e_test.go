package e2e

import (
	"context"
	"encoding/json"
	"image"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"gocv.io/x/gocv"

	"github.com/ayusman/virtualpaint/internal/app"
	"github.com/ayusman/virtualpaint/internal/capture"
	"github.com/ayusman/virtualpaint/internal/detector"
	"github.com/ayusman/virtualpaint/internal/paint"
	"github.com/ayusman/virtualpaint/internal/server"
	"github.com/ayusman/virtualpaint/internal/store"
)

const (
	width  = 1280
	height = 720
)

type scriptedDisplay struct {
	frames int
	stopAt int
}

func (d *scriptedDisplay) IMShow(img gocv.Mat) { d.frames++ }

func (d *scriptedDisplay) WaitKey(delay int) int {
	if d.frames >= d.stopAt {
		return app.EscapeKey
	}
	return -1
}

func (d *scriptedDisplay) Close() error { return nil }

func writeIcons(t *testing.T, dir string) {
	t.Helper()
	for _, name := range []string{"eraser.png", "save.png"} {
		m := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(0, 128, 255, 0), 120, 120, gocv.MatTypeCV8UC3)
		ok := gocv.IMWrite(filepath.Join(dir, name), m)
		m.Close()
		if !ok {
			t.Fatalf("failed to write %s", name)
		}
	}
}

func TestE2E_PaintSessionWorkflow(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping e2e test")
	}

	tmpDir := t.TempDir()
	resDir := filepath.Join(tmpDir, "Resources")
	outDir := filepath.Join(tmpDir, "drawings")
	os.MkdirAll(resDir, 0755)
	os.MkdirAll(outDir, 0755)
	writeIcons(t, resDir)

	icons, err := paint.LoadIcons(resDir)
	if err != nil {
		t.Fatalf("LoadIcons() error = %v", err)
	}
	defer icons.Close()

	s, err := store.New(filepath.Join(tmpDir, "data.db"))
	if err != nil {
		t.Fatalf("store.New() error = %v", err)
	}
	defer s.Close()

	feed := server.NewFeed()
	srv := server.New(server.Config{Store: s, Feed: feed})
	defer srv.Shutdown(context.Background())
	ts := httptest.NewServer(srv)
	defer ts.Close()

	blank := gocv.NewMatWithSize(height, width, gocv.MatTypeCV8UC3)
	defer blank.Close()
	cam := capture.NewMockCamera([]*gocv.Mat{&blank}, true)
	cam.Open()
	defer cam.Close()

	// Draw a pink line, pick the eraser, rub part of it out, then save.
	det := detector.NewMockDetector()
	det.SetSequence([][]detector.HandLandmarks{
		{detector.DrawingHand(image.Pt(400, 400), width, height)},
		{detector.DrawingHand(image.Pt(800, 400), width, height)},
		{detector.HoverHand(image.Pt(60, 50), width, height)},
		{detector.DrawingHand(image.Pt(600, 300), width, height)},
		{detector.DrawingHand(image.Pt(600, 500), width, height)},
		{detector.HoverHand(image.Pt(1220, 50), width, height)},
	})

	application, err := app.New(app.Config{
		Width:     width,
		Height:    height,
		OutputDir: outDir,
		Icons:     icons,
		Store:     s,
		Feed:      feed,
	}, cam, det, &scriptedDisplay{stopAt: 6})
	if err != nil {
		t.Fatalf("app.New() error = %v", err)
	}
	defer application.Close()

	if err := application.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	canvas := application.Canvas().Mat()
	pink := gocv.Vecb{255, 0, 255}
	if got := canvas.GetVecbAt(400, 500); got[0] != pink[0] || got[1] != pink[1] || got[2] != pink[2] {
		t.Errorf("canvas at (500,400) = %v, want pink", got)
	}
	if got := canvas.GetVecbAt(400, 600); got[0] != 0 || got[1] != 0 || got[2] != 0 {
		t.Errorf("erased canvas at (600,400) = %v, want black", got)
	}
	if !application.Session().Eraser() {
		t.Error("expected eraser to stay selected after saving")
	}

	client := ts.Client()

	var listed struct {
		Snapshots []struct {
			ID       string `json:"id"`
			Tool     string `json:"tool"`
			ImageURL string `json:"image_url"`
		} `json:"snapshots"`
	}

	t.Run("ListSnapshots", func(t *testing.T) {
		resp, err := client.Get(ts.URL + "/api/snapshots?session=" + application.SessionID())
		if err != nil {
			t.Fatalf("list error = %v", err)
		}
		defer resp.Body.Close()

		if err := json.NewDecoder(resp.Body).Decode(&listed); err != nil {
			t.Fatalf("decode error = %v", err)
		}
		if len(listed.Snapshots) != 1 {
			t.Fatalf("snapshots = %d, want 1", len(listed.Snapshots))
		}
		if listed.Snapshots[0].Tool != "eraser" {
			t.Errorf("tool = %q, want eraser", listed.Snapshots[0].Tool)
		}
	})

	t.Run("FetchImage", func(t *testing.T) {
		if len(listed.Snapshots) == 0 {
			t.Skip("no snapshot listed")
		}
		resp, err := client.Get(ts.URL + listed.Snapshots[0].ImageURL)
		if err != nil {
			t.Fatalf("image error = %v", err)
		}
		defer resp.Body.Close()

		data, _ := io.ReadAll(resp.Body)
		img, err := gocv.IMDecode(data, gocv.IMReadColor)
		if err != nil || img.Empty() {
			t.Fatalf("image did not decode: %v", err)
		}
		defer img.Close()
		if img.Cols() != width || img.Rows() != height {
			t.Errorf("image size = %dx%d", img.Cols(), img.Rows())
		}
	})

	t.Run("Health", func(t *testing.T) {
		resp, err := client.Get(ts.URL + "/api/health")
		if err != nil {
			t.Fatalf("health error = %v", err)
		}
		defer resp.Body.Close()

		var health map[string]any
		json.NewDecoder(resp.Body).Decode(&health)
		if health["frames"] != float64(6) {
			t.Errorf("frames = %v, want 6", health["frames"])
		}
	})

	t.Run("Stream", func(t *testing.T) {
		ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
		defer cancel()

		req, _ := http.NewRequestWithContext(ctx, http.MethodGet, ts.URL+"/api/stream", nil)
		resp, err := client.Do(req)
		if err != nil {
			t.Fatalf("stream error = %v", err)
		}
		defer resp.Body.Close()

		buf := make([]byte, 7)
		if _, err := io.ReadFull(resp.Body, buf); err != nil || string(buf) != "--frame" {
			t.Errorf("stream start = %q, %v", buf, err)
		}
	})
}
