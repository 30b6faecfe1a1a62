// Package main is a hook that shows a desktop notification when a drawing
// is saved. It uses notify-send on Linux and AppleScript on macOS.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
)

// Event is the subset of the hook event this program reads.
type Event struct {
	Event      string `json:"event"`
	SnapshotID string `json:"snapshot_id"`
	Path       string `json:"path"`
	Tool       string `json:"tool"`
}

// Response is written to stdout for the hook executor.
type Response struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

func main() {
	var ev Event
	if err := json.NewDecoder(os.Stdin).Decode(&ev); err != nil {
		writeResponse(fmt.Errorf("failed to decode event: %w", err))
		return
	}

	title, body := message(ev)
	writeResponse(notify(runtime.GOOS, title, body))
}

// message builds the notification text for ev.
func message(ev Event) (string, string) {
	if ev.Event != "snapshot.saved" {
		return "Virtual Paint", ev.Event
	}
	body := "Drawing saved as " + filepath.Base(ev.Path)
	if ev.Tool != "" {
		body += " (" + ev.Tool + ")"
	}
	return "Virtual Paint", body
}

// notifyCommand returns the command that shows a notification on goos.
func notifyCommand(goos, title, body string) (*exec.Cmd, error) {
	switch goos {
	case "linux":
		return exec.Command("notify-send", title, body), nil
	case "darwin":
		script := fmt.Sprintf("display notification %q with title %q", body, title)
		return exec.Command("osascript", "-e", script), nil
	default:
		return nil, fmt.Errorf("notifications not supported on %s", goos)
	}
}

func notify(goos, title, body string) error {
	cmd, err := notifyCommand(goos, title, body)
	if err != nil {
		return err
	}
	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("%w: %s", err, string(output))
	}
	return nil
}

func writeResponse(err error) {
	resp := Response{Success: err == nil}
	if err != nil {
		resp.Error = err.Error()
	}
	json.NewEncoder(os.Stdout).Encode(resp)
}
