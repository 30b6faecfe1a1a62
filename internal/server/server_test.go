package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ayusman/virtualpaint/internal/paint"
)

func TestServer_Health(t *testing.T) {
	feed := NewFeed()
	feed.Publish([]byte("jpeg"), paint.State{Mode: "hover"})
	s := New(Config{Feed: feed})
	defer s.Shutdown(context.Background())

	t.Run("returns 200 with JSON response", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
		rec := httptest.NewRecorder()

		s.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Errorf("expected status %d, got %d", http.StatusOK, rec.Code)
		}
		if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
			t.Errorf("expected Content-Type application/json, got %s", ct)
		}

		var response map[string]interface{}
		if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if response["status"] != "ok" {
			t.Errorf("expected status 'ok', got %v", response["status"])
		}
		if _, exists := response["uptime"]; !exists {
			t.Error("expected 'uptime' field in response")
		}
		if response["frames"] != float64(1) {
			t.Errorf("expected frames=1, got %v", response["frames"])
		}
	})

	t.Run("only allows GET method", func(t *testing.T) {
		for _, method := range []string{http.MethodPost, http.MethodPut, http.MethodDelete} {
			rec := httptest.NewRecorder()
			s.ServeHTTP(rec, httptest.NewRequest(method, "/api/health", nil))

			if rec.Code != http.StatusMethodNotAllowed {
				t.Errorf("method %s: expected status %d, got %d", method, http.StatusMethodNotAllowed, rec.Code)
			}
		}
	})
}

func TestServer_OptionalRoutes(t *testing.T) {
	s := New(Config{})

	for _, path := range []string{"/api/snapshots", "/api/stream", "/api/state", "/"} {
		rec := httptest.NewRecorder()
		s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))

		if rec.Code != http.StatusNotFound {
			t.Errorf("%s: expected status %d without config, got %d", path, http.StatusNotFound, rec.Code)
		}
	}
}

func TestServer_StaticFiles(t *testing.T) {
	dir := t.TempDir()
	page := "<html><body>preview</body></html>"
	if err := os.WriteFile(filepath.Join(dir, "index.html"), []byte(page), 0644); err != nil {
		t.Fatalf("failed to create test file: %v", err)
	}

	s := New(Config{StaticDir: dir})

	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusOK || rec.Body.String() != page {
		t.Errorf("GET / = %d %q", rec.Code, rec.Body.String())
	}

	rec = httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/missing.html", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected status %d, got %d", http.StatusNotFound, rec.Code)
	}
}

func TestFeed(t *testing.T) {
	feed := NewFeed()

	if buf, seq := feed.Frame(); buf != nil || seq != 0 {
		t.Errorf("empty feed Frame() = %v, %d", buf, seq)
	}

	feed.Publish([]byte{1}, paint.State{Mode: "drawing", Tool: "Pink"})
	feed.Publish([]byte{2}, paint.State{Mode: "hover", Tool: "Blue"})

	buf, seq := feed.Frame()
	if seq != 2 || len(buf) != 1 || buf[0] != 2 {
		t.Errorf("Frame() = %v, %d", buf, seq)
	}
	state, _ := feed.State()
	if state.Mode != "hover" || state.Tool != "Blue" {
		t.Errorf("State() = %+v", state)
	}
}

func TestStreamHandler(t *testing.T) {
	feed := NewFeed()
	feed.Publish([]byte("JPEGDATA"), paint.State{})
	handler := NewStreamHandler(feed)

	t.Run("writes multipart frames until the client leaves", func(t *testing.T) {
		ctx, cancel := context.WithTimeout(context.Background(), 3*FrameInterval)
		defer cancel()

		req := httptest.NewRequest(http.MethodGet, "/api/stream", nil).WithContext(ctx)
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		if ct := rec.Header().Get("Content-Type"); ct != "multipart/x-mixed-replace; boundary=frame" {
			t.Errorf("unexpected Content-Type %q", ct)
		}
		body := rec.Body.String()
		if !strings.HasPrefix(body, "--frame\r\nContent-Type: image/jpeg\r\nContent-Length: 8\r\n\r\nJPEGDATA\r\n") {
			t.Errorf("unexpected body %q", body)
		}
		// Unchanged frames are not resent.
		if n := strings.Count(body, "--frame"); n != 1 {
			t.Errorf("expected 1 part, got %d", n)
		}
	})

	t.Run("rejects non-GET", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/stream", nil))
		if rec.Code != http.StatusMethodNotAllowed {
			t.Errorf("expected status %d, got %d", http.StatusMethodNotAllowed, rec.Code)
		}
	})
}

func TestServer_ShutdownWithoutListen(t *testing.T) {
	s := New(Config{Feed: NewFeed()})

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := s.Shutdown(ctx); err != nil {
		t.Errorf("Shutdown() error = %v", err)
	}
}
