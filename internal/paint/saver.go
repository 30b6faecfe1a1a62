package paint

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gocv.io/x/gocv"
)

// ErrSaveFailed is returned when a snapshot cannot be written.
var ErrSaveFailed = errors.New("save failed")

// Saver writes canvas snapshots as timestamped PNG files.
type Saver struct {
	Dir string
	Now func() time.Time
}

// NewSaver creates a Saver writing into dir ("" means the working directory).
func NewSaver(dir string) *Saver {
	return &Saver{Dir: dir, Now: time.Now}
}

// Filename returns the snapshot name for t, e.g. Drawing_20240131_235959.png.
func Filename(t time.Time) string {
	return "Drawing_" + t.Format("20060102_150405") + ".png"
}

// Save writes the canvas and returns the path written. A save within the
// same second as the previous one overwrites it.
func (s *Saver) Save(c *Canvas) (string, error) {
	now := time.Now
	if s.Now != nil {
		now = s.Now
	}

	dir := s.Dir
	if dir == "" {
		dir = "."
	}
	info, err := os.Stat(dir)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrSaveFailed, err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("%w: %s is not a directory", ErrSaveFailed, dir)
	}

	path := filepath.Join(dir, Filename(now()))
	if ok := gocv.IMWrite(path, c.Mat()); !ok {
		return "", fmt.Errorf("%w: could not write %s", ErrSaveFailed, path)
	}

	return path, nil
}
