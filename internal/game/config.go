package game

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// Config carries the tunable parameters read from globe.toml. Everything has
// a shipped default; the file is optional. Semantic limits (tilt clamp,
// click threshold, pool sizes) are compile-time constants, not config.
type Config struct {
	Window    WindowConfig    `toml:"window"`
	Spin      SpinConfig      `toml:"spin"`
	Geometry  GeometryConfig  `toml:"geometry"`
	Narrative NarrativeConfig `toml:"narrative"`
}

// WindowConfig sizes the game window.
type WindowConfig struct {
	Width  int    `toml:"width"`
	Height int    `toml:"height"`
	Title  string `toml:"title"`
}

// SpinConfig tunes the rotation feel. These are visual parameters only.
type SpinConfig struct {
	AutoRate    float64 `toml:"auto_rate"`   // idle spin, deg/s
	Blend       float64 `toml:"blend"`       // ramp-back smoothing per frame
	Friction    float64 `toml:"friction"`    // inertial retention per frame
	Sensitivity float64 `toml:"sensitivity"` // deg per pixel of drag
}

// GeometryConfig selects the world dataset source. An empty URL uses the
// embedded dataset; a URL is fetched once at startup with no retry.
type GeometryConfig struct {
	URL string `toml:"url"`
}

// NarrativeConfig points at the battle-narrative endpoint. The API key is
// never stored in the file; it comes from the environment variable named by
// APIKeyEnv.
type NarrativeConfig struct {
	Endpoint  string `toml:"endpoint"`
	Model     string `toml:"model"`
	APIKeyEnv string `toml:"api_key_env"`
}

// DefaultConfig returns the shipped tuning.
func DefaultConfig() Config {
	sp := defaultSpinParams()
	return Config{
		Window: WindowConfig{
			Width:  1280,
			Height: 720,
			Title:  "War Globe",
		},
		Spin: SpinConfig{
			AutoRate:    sp.AutoRate,
			Blend:       sp.Blend,
			Friction:    sp.Friction,
			Sensitivity: sp.Sensitivity,
		},
		Narrative: NarrativeConfig{
			Model:     "claude-3-5-haiku-latest",
			APIKeyEnv: "WAR_GLOBE_API_KEY",
		},
	}
}

// LoadConfig reads the TOML file at path over the defaults. A missing file
// is not an error; a malformed one is.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, cfg.validate()
}

// validate rejects values that would make the globe unusable.
func (c Config) validate() error {
	if c.Window.Width < 640 || c.Window.Height < 480 {
		return fmt.Errorf("window %dx%d below the 640x480 minimum", c.Window.Width, c.Window.Height)
	}
	if c.Spin.Friction <= 0 || c.Spin.Friction >= 1 {
		return fmt.Errorf("spin friction %.3f must be in (0, 1)", c.Spin.Friction)
	}
	if c.Spin.Blend <= 0 || c.Spin.Blend > 1 {
		return fmt.Errorf("spin blend %.3f must be in (0, 1]", c.Spin.Blend)
	}
	if c.Spin.Sensitivity <= 0 {
		return fmt.Errorf("spin sensitivity must be positive")
	}
	return nil
}

// spinParams converts the config section into the physics parameter set.
func (c Config) spinParams() SpinParams {
	return SpinParams{
		AutoRate:    c.Spin.AutoRate,
		Blend:       c.Spin.Blend,
		Friction:    c.Spin.Friction,
		Sensitivity: c.Spin.Sensitivity,
	}
}
