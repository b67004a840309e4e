package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/phanxgames/mindmap"
)

// Config holds mindmap configuration.
type Config struct {
	Canvas   CanvasConfig   `toml:"canvas"`
	Diagram  DiagramConfig  `toml:"diagram"`
	Snapshot SnapshotConfig `toml:"snapshot"`
	Flash    FlashConfig    `toml:"flash"`
	Log      LogConfig      `toml:"log"`
}

// CanvasConfig controls the board window.
type CanvasConfig struct {
	Width         int     `toml:"width"`
	Height        int     `toml:"height"`
	FontSize      float64 `toml:"font_size"`
	Background    string  `toml:"background"` // "#rrggbb"
	ScreenshotDir string  `toml:"screenshot_dir"`
}

// DiagramConfig controls diagram rules.
type DiagramConfig struct {
	AllowSameKindConnections bool `toml:"allow_same_kind_connections"`
}

// SnapshotConfig controls export and import.
type SnapshotConfig struct {
	DefaultPath string `toml:"default_path"`
	Watch       bool   `toml:"watch"`
}

// FlashConfig controls highlight flashing.
type FlashConfig struct {
	Color    string   `toml:"color"`
	Cycles   int      `toml:"cycles"`
	Duration Duration `toml:"duration"` // one half cycle
}

// LogConfig controls the zap logger.
type LogConfig struct {
	Level       string `toml:"level"` // debug, info, warn, error
	Development bool   `toml:"development"`
}

// Duration is a time.Duration written as a string such as "150ms".
type Duration struct {
	time.Duration
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Canvas: CanvasConfig{
			Width:         mindmap.DefaultCanvasWidth,
			Height:        mindmap.DefaultCanvasHeight,
			FontSize:      14,
			Background:    "#ffffff",
			ScreenshotDir: "screenshots",
		},
		Diagram:  DiagramConfig{AllowSameKindConnections: true},
		Snapshot: SnapshotConfig{DefaultPath: mindmap.DefaultSnapshotName, Watch: true},
		Flash:    FlashConfig{Color: "#ffd700", Cycles: 3, Duration: Duration{150 * time.Millisecond}},
		Log:      LogConfig{Level: "info"},
	}
}

// Dir returns the mindmap config directory path.
func Dir() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, _ := os.UserHomeDir()
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "mindmap")
}

// Path returns the default config file path.
func Path() string {
	return filepath.Join(Dir(), "config.toml")
}

// Load reads the config file at path over the defaults. A missing file
// yields the defaults; a malformed one is an error.
func Load(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, err
	}
	if _, err := toml.Decode(string(data), cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Save writes cfg to path, creating the directory if needed.
func Save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return cfg.Encode(f)
}

// Encode writes cfg as TOML.
func (c *Config) Encode(w io.Writer) error {
	return toml.NewEncoder(w).Encode(c)
}

// Validate checks values the board cannot work with.
func (c *Config) Validate() error {
	if c.Canvas.Width <= 0 || c.Canvas.Height <= 0 {
		return fmt.Errorf("canvas size must be positive (got %dx%d)", c.Canvas.Width, c.Canvas.Height)
	}
	if _, err := ParseColor(c.Canvas.Background); err != nil {
		return fmt.Errorf("canvas.background: %w", err)
	}
	if _, err := ParseColor(c.Flash.Color); err != nil {
		return fmt.Errorf("flash.color: %w", err)
	}
	if c.Flash.Cycles < 0 || c.Flash.Duration.Duration < 0 {
		return errors.New("flash cycles and duration must not be negative")
	}
	switch c.Log.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level %q is not one of debug, info, warn, error", c.Log.Level)
	}
	return nil
}

// BackgroundColor returns the parsed canvas background, white on error.
func (c *Config) BackgroundColor() mindmap.Color {
	col, err := ParseColor(c.Canvas.Background)
	if err != nil {
		return mindmap.Color{R: 1, G: 1, B: 1, A: 1}
	}
	return col
}

// FlashSettings converts the flash section for mindmap.NewFlasher. Zero
// values are filled in by the flasher.
func (c *Config) FlashSettings() mindmap.FlashConfig {
	fc := mindmap.FlashConfig{
		Cycles:     c.Flash.Cycles,
		HalfPeriod: float32(c.Flash.Duration.Seconds()),
	}
	if col, err := ParseColor(c.Flash.Color); err == nil {
		fc.Color = col
	}
	return fc
}

// ParseColor parses "#rrggbb" or "#rrggbbaa".
func ParseColor(s string) (mindmap.Color, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(hex) != 6 && len(hex) != 8 {
		return mindmap.Color{}, fmt.Errorf("invalid color %q", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return mindmap.Color{}, fmt.Errorf("invalid color %q", s)
	}
	alpha := 1.0
	if len(hex) == 8 {
		alpha = float64(v&0xff) / 255
		v >>= 8
	}
	return mindmap.RGBA8(uint8(v>>16), uint8(v>>8), uint8(v), alpha), nil
}
