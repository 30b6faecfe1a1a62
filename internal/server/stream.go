package server

import (
	"fmt"
	"net/http"
	"time"
)

// FrameInterval is the pacing of the MJPEG stream and the state feed.
const FrameInterval = 66 * time.Millisecond // ~15 FPS

// StreamHandler serves the composited paint frames as MJPEG.
type StreamHandler struct {
	feed *Feed
}

// NewStreamHandler creates a new StreamHandler reading from feed.
func NewStreamHandler(feed *Feed) *StreamHandler {
	return &StreamHandler{feed: feed}
}

// ServeHTTP streams MJPEG frames until the client goes away.
func (h *StreamHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "multipart/x-mixed-replace; boundary=frame")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ticker := time.NewTicker(FrameInterval)
	defer ticker.Stop()

	var last uint64
	for {
		if buf, seq := h.feed.Frame(); seq != last && len(buf) > 0 {
			last = seq
			if err := writePart(w, buf); err != nil {
				return
			}
			if f, ok := w.(http.Flusher); ok {
				f.Flush()
			}
		}

		select {
		case <-r.Context().Done():
			return
		case <-ticker.C:
		}
	}
}

func writePart(w http.ResponseWriter, jpeg []byte) error {
	if _, err := fmt.Fprintf(w, "--frame\r\nContent-Type: image/jpeg\r\nContent-Length: %d\r\n\r\n", len(jpeg)); err != nil {
		return err
	}
	if _, err := w.Write(jpeg); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "\r\n")
	return err
}
