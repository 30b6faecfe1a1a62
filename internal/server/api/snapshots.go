// Package api provides HTTP API handlers for the virtual paint preview server.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/ayusman/virtualpaint/internal/store"
)

// SnapshotHandler handles HTTP requests for saved drawings.
type SnapshotHandler struct {
	store *store.Store
}

// NewSnapshotHandler creates a new SnapshotHandler with the given store.
func NewSnapshotHandler(s *store.Store) *SnapshotHandler {
	return &SnapshotHandler{store: s}
}

// ServeHTTP routes /api/snapshots, /api/snapshots/{id} and
// /api/snapshots/{id}/image.
func (h *SnapshotHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/snapshots")
	path = strings.Trim(path, "/")

	if path == "" {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		h.list(w, r)
		return
	}

	if id, ok := strings.CutSuffix(path, "/image"); ok {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		h.image(w, r, id)
		return
	}

	if strings.Contains(path, "/") {
		writeError(w, http.StatusNotFound, "Not found")
		return
	}

	switch r.Method {
	case http.MethodGet:
		h.get(w, r, path)
	case http.MethodDelete:
		h.delete(w, r, path)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

type snapshotResponse struct {
	ID        string `json:"id"`
	SessionID string `json:"session_id,omitempty"`
	Filename  string `json:"filename"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	Tool      string `json:"tool"`
	CreatedAt string `json:"created_at"`
	ImageURL  string `json:"image_url"`
}

type listSnapshotsResponse struct {
	Snapshots []snapshotResponse `json:"snapshots"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func toResponse(s *store.Snapshot) snapshotResponse {
	return snapshotResponse{
		ID:        s.ID,
		SessionID: s.SessionID,
		Filename:  s.Filename,
		Width:     s.Width,
		Height:    s.Height,
		Tool:      s.Tool,
		CreatedAt: s.CreatedAt.Format(time.RFC3339),
		ImageURL:  "/api/snapshots/" + s.ID + "/image",
	}
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// list handles GET /api/snapshots. A session query parameter narrows the
// result to one session.
func (h *SnapshotHandler) list(w http.ResponseWriter, r *http.Request) {
	var (
		snaps []*store.Snapshot
		err   error
	)
	if session := r.URL.Query().Get("session"); session != "" {
		snaps, err = h.store.Snapshots().ListBySession(session)
	} else {
		snaps, err = h.store.Snapshots().List()
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list snapshots")
		return
	}

	response := listSnapshotsResponse{
		Snapshots: make([]snapshotResponse, 0, len(snaps)),
	}
	for _, s := range snaps {
		response.Snapshots = append(response.Snapshots, toResponse(s))
	}

	writeJSON(w, http.StatusOK, response)
}

func (h *SnapshotHandler) lookup(w http.ResponseWriter, id string) (*store.Snapshot, bool) {
	snap, err := h.store.Snapshots().GetByID(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Snapshot not found")
			return nil, false
		}
		writeError(w, http.StatusInternalServerError, "Failed to get snapshot")
		return nil, false
	}
	return snap, true
}

// get handles GET /api/snapshots/{id}.
func (h *SnapshotHandler) get(w http.ResponseWriter, r *http.Request, id string) {
	snap, ok := h.lookup(w, id)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, toResponse(snap))
}

// image handles GET /api/snapshots/{id}/image and serves the PNG from disk.
func (h *SnapshotHandler) image(w http.ResponseWriter, r *http.Request, id string) {
	snap, ok := h.lookup(w, id)
	if !ok {
		return
	}

	if _, err := os.Stat(snap.Path); err != nil {
		writeError(w, http.StatusNotFound, "Image not found")
		return
	}

	w.Header().Set("Content-Type", "image/png")
	http.ServeFile(w, r, snap.Path)
}

// delete handles DELETE /api/snapshots/{id}. The record and its image file
// are both removed; a file that is already gone is not an error.
func (h *SnapshotHandler) delete(w http.ResponseWriter, r *http.Request, id string) {
	snap, ok := h.lookup(w, id)
	if !ok {
		return
	}

	if err := h.store.Snapshots().Delete(id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Snapshot not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to delete snapshot")
		return
	}

	if err := os.Remove(snap.Path); err != nil && !os.IsNotExist(err) {
		writeError(w, http.StatusInternalServerError, "Failed to delete image")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
