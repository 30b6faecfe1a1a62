// Package config holds the runtime configuration of virtual paint. Values are
// read from an optional JSON file and overridden by command-line flags.
package config

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
)

// DataDirName is the per-user directory for the catalog database and hooks.
const DataDirName = ".virtualpaint"

// Config holds runtime configuration for capture, painting and the optional
// preview server.
type Config struct {
	// Capture
	CameraID int  `json:"camera_id"`
	Width    int  `json:"width"`
	Height   int  `json:"height"`
	Mirror   bool `json:"mirror"`

	// Painting
	HeaderHeight    int     `json:"header_height"`
	BrushThickness  int     `json:"brush_thickness"`
	EraserThickness int     `json:"eraser_thickness"`
	MaskThreshold   float64 `json:"mask_threshold"`

	// Files
	ResourceDir string `json:"resource_dir"`
	OutputDir   string `json:"output_dir"`
	DBPath      string `json:"db_path"`

	// Preview server; empty HTTPAddr disables it.
	HTTPAddr  string `json:"http_addr"`
	StaticDir string `json:"static_dir"`

	// Save hooks
	HookDir       string `json:"hook_dir"`
	HookTimeoutMs int    `json:"hook_timeout_ms"`

	WindowTitle string `json:"window_title"`

	DetectorMaxHands      int     `json:"detector_max_hands"`
	DetectorMinConfidence float64 `json:"detector_min_confidence"`
}

// DefaultConfig returns a Config populated with standard defaults.
func DefaultConfig() *Config {
	return &Config{
		CameraID:              0,
		Width:                 1280,
		Height:                720,
		Mirror:                true,
		HeaderHeight:          100,
		BrushThickness:        15,
		EraserThickness:       50,
		MaskThreshold:         50,
		ResourceDir:           "Resources",
		OutputDir:             ".",
		DBPath:                dataPath("virtualpaint.db"),
		HTTPAddr:              "",
		HookDir:               dataPath("hooks"),
		HookTimeoutMs:         5000,
		WindowTitle:           "Virtual Paint",
		DetectorMaxHands:      1,
		DetectorMinConfidence: 0.5,
	}
}

// dataPath returns name inside the per-user data directory, or name itself
// when the home directory is unknown.
func dataPath(name string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return name
	}
	return filepath.Join(home, DataDirName, name)
}

// Validate clamps/normalizes values to safe ranges.
func (c *Config) Validate() error {
	if c.CameraID < 0 {
		c.CameraID = 0
	}
	if c.Width <= 0 {
		c.Width = 1280
	}
	if c.Height <= 0 {
		c.Height = 720
	}
	if c.HeaderHeight <= 0 || c.HeaderHeight >= c.Height {
		c.HeaderHeight = 100
		if c.HeaderHeight >= c.Height {
			return fmt.Errorf("height %d leaves no room for the header", c.Height)
		}
	}
	if c.BrushThickness <= 0 {
		c.BrushThickness = 15
	}
	if c.EraserThickness <= 0 {
		c.EraserThickness = 50
	}
	if c.MaskThreshold < 0 || c.MaskThreshold > 255 {
		c.MaskThreshold = 50
	}
	if c.ResourceDir == "" {
		c.ResourceDir = "Resources"
	}
	if c.OutputDir == "" {
		c.OutputDir = "."
	}
	if c.HookTimeoutMs <= 0 {
		c.HookTimeoutMs = 5000
	}
	if c.WindowTitle == "" {
		c.WindowTitle = "Virtual Paint"
	}
	if c.DetectorMaxHands < 1 {
		c.DetectorMaxHands = 1
	}
	if c.DetectorMinConfidence <= 0 || c.DetectorMinConfidence > 1 {
		c.DetectorMinConfidence = 0.5
	}
	return nil
}

// Load attempts to read configuration from the given JSON file path. If the file does not
// exist it returns DefaultConfig(). On JSON error it returns defaults with the error.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}
	defer f.Close()
	if err := json.NewDecoder(f).Decode(cfg); err != nil {
		return DefaultConfig(), fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Save writes the configuration to the given path in JSON format.
func (c *Config) Save(path string) error {
	_ = c.Validate()
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(c)
}

// bind registers one flag per config field, writing into c.
func (c *Config) bind(fs *flag.FlagSet) {
	fs.IntVar(&c.CameraID, "camera", c.CameraID, "Camera device index")
	fs.IntVar(&c.Width, "width", c.Width, "Requested frame width")
	fs.IntVar(&c.Height, "height", c.Height, "Requested frame height")
	fs.BoolVar(&c.Mirror, "mirror", c.Mirror, "Mirror frames horizontally")
	fs.IntVar(&c.HeaderHeight, "header-height", c.HeaderHeight, "Height of the tool header in pixels")
	fs.IntVar(&c.BrushThickness, "brush", c.BrushThickness, "Brush thickness in pixels")
	fs.IntVar(&c.EraserThickness, "eraser", c.EraserThickness, "Eraser thickness in pixels")
	fs.Float64Var(&c.MaskThreshold, "mask-threshold", c.MaskThreshold, "Gray cutoff for compositing the canvas")
	fs.StringVar(&c.ResourceDir, "resources", c.ResourceDir, "Directory holding eraser.png and save.png")
	fs.StringVar(&c.OutputDir, "output", c.OutputDir, "Directory for saved drawings")
	fs.StringVar(&c.DBPath, "db", c.DBPath, "Snapshot catalog database path")
	fs.StringVar(&c.HTTPAddr, "http", c.HTTPAddr, "Preview server address, e.g. :8080 (disabled when empty)")
	fs.StringVar(&c.StaticDir, "static", c.StaticDir, "Static files served by the preview server")
	fs.StringVar(&c.HookDir, "hooks", c.HookDir, "Directory of save hooks")
	fs.IntVar(&c.HookTimeoutMs, "hook-timeout", c.HookTimeoutMs, "Hook timeout in milliseconds")
	fs.StringVar(&c.WindowTitle, "title", c.WindowTitle, "Window title")
	fs.IntVar(&c.DetectorMaxHands, "max-hands", c.DetectorMaxHands, "Hands tracked by the detector")
	fs.Float64Var(&c.DetectorMinConfidence, "min-confidence", c.DetectorMinConfidence, "Minimum detection confidence")
}

// Parse builds the configuration from command-line args. A -config file is
// loaded first; flags given explicitly override its values.
func Parse(name string, args []string) (*Config, error) {
	probe := flag.NewFlagSet(name, flag.ContinueOnError)
	path := probe.String("config", "", "Path to a JSON config file")
	DefaultConfig().bind(probe)
	if err := probe.Parse(args); err != nil {
		return nil, err
	}

	cfg := DefaultConfig()
	if *path != "" {
		loaded, err := Load(*path)
		if err != nil {
			return nil, fmt.Errorf("load config: %w", err)
		}
		cfg = loaded
	}

	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(probe.Output())
	fs.String("config", *path, "Path to a JSON config file")
	cfg.bind(fs)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
