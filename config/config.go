package config

import (
	"encoding/json"
	"os"
	"time"
)

// Config holds runtime configuration for markup tools and app behavior.
// Fields may be loaded from a JSON file and overridden by command-line flags.
type Config struct {
	Debug bool `json:"debug"`

	// Grid parameters
	PatchesPerSide int `json:"patches_per_side"`

	// Tool parameters
	UndoDepth          int     `json:"undo_depth"`
	BrushRadius        int     `json:"brush_radius"`
	ThresholdIncrement float64 `json:"threshold_increment"`
	FloodTolerance     float64 `json:"flood_tolerance"`
	FloodIncrement     float64 `json:"flood_increment"`

	// Preview refresh delay after the last edit, in milliseconds.
	PreviewDebounceMs int `json:"preview_debounce_ms"`

	// Directory persistence across sessions
	AutosaveDir string `json:"autosave_dir"`
	LastLoadDir string `json:"last_load_dir"`
	LastSaveDir string `json:"last_save_dir"`
}

// PreviewDebounce returns the preview refresh delay as a duration.
func (c *Config) PreviewDebounce() time.Duration {
	return time.Duration(c.PreviewDebounceMs) * time.Millisecond
}

// DefaultConfig returns a Config populated with standard defaults.
func DefaultConfig() *Config {
	return &Config{
		Debug:              false,
		PatchesPerSide:     10,
		UndoDepth:          20,
		BrushRadius:        15,
		ThresholdIncrement: 0.01,
		FloodTolerance:     0.05,
		FloodIncrement:     0.01,
		PreviewDebounceMs:  1000,
	}
}

// Validate clamps/normalizes values to safe ranges.
func (c *Config) Validate() error {
	if c.PatchesPerSide <= 0 {
		c.PatchesPerSide = 10
	}
	if c.UndoDepth <= 0 {
		c.UndoDepth = 20
	}
	if c.BrushRadius < 0 {
		c.BrushRadius = 15
	}
	if c.ThresholdIncrement <= 0 || c.ThresholdIncrement > 1 {
		c.ThresholdIncrement = 0.01
	}
	if c.FloodTolerance < 0 || c.FloodTolerance > 1 {
		c.FloodTolerance = 0.05
	}
	if c.FloodIncrement <= 0 || c.FloodIncrement > 1 {
		c.FloodIncrement = 0.01
	}
	if c.PreviewDebounceMs < 0 {
		c.PreviewDebounceMs = 1000
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
	dec := json.NewDecoder(f)
	if err := dec.Decode(cfg); err != nil {
		return cfg, err
	}
	_ = cfg.Validate()
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
