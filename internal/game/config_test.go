package game

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfig_MissingFileGivesDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.toml"))
	if err != nil {
		t.Fatalf("missing config file should not error, got %v", err)
	}
	def := DefaultConfig()
	if cfg != def {
		t.Errorf("expected defaults for missing file, got %+v", cfg)
	}
	if cfg.Window.Width != 1280 || cfg.Window.Height != 720 {
		t.Errorf("default window = %dx%d, want 1280x720", cfg.Window.Width, cfg.Window.Height)
	}
	if cfg.Spin.AutoRate != defaultSpinParams().AutoRate {
		t.Errorf("default auto rate = %.2f, want %.2f", cfg.Spin.AutoRate, defaultSpinParams().AutoRate)
	}
}

func TestLoadConfig_PartialFileKeepsOtherDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "globe.toml")
	body := `
[spin]
auto_rate = 9.5

[geometry]
url = "https://example.com/world.json"
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Spin.AutoRate != 9.5 {
		t.Errorf("auto_rate = %.2f, want 9.5", cfg.Spin.AutoRate)
	}
	if cfg.Spin.Friction != defaultSpinParams().Friction {
		t.Errorf("friction should stay at default, got %.3f", cfg.Spin.Friction)
	}
	if cfg.Geometry.URL != "https://example.com/world.json" {
		t.Errorf("geometry url = %q", cfg.Geometry.URL)
	}
	if cfg.Window.Title != "War Globe" {
		t.Errorf("window title should stay at default, got %q", cfg.Window.Title)
	}
}

func TestLoadConfig_MalformedFileErrors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "globe.toml")
	if err := os.WriteFile(path, []byte("[window\nwidth = oops"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Error("malformed TOML should error")
	}
}

func TestLoadConfig_RejectsUnusableValues(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"tiny window", "[window]\nwidth = 100\nheight = 100"},
		{"friction one", "[spin]\nfriction = 1.0"},
		{"zero blend", "[spin]\nblend = 0.0"},
		{"negative sensitivity", "[spin]\nsensitivity = -0.5"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "globe.toml")
			if err := os.WriteFile(path, []byte(tc.body), 0o644); err != nil {
				t.Fatal(err)
			}
			if _, err := LoadConfig(path); err == nil {
				t.Errorf("config %q should be rejected", tc.body)
			}
		})
	}
}

func TestConfig_SpinParamsRoundTrip(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Spin.AutoRate = 2.5
	cfg.Spin.Friction = 0.9

	sp := cfg.spinParams()
	if sp.AutoRate != 2.5 || sp.Friction != 0.9 {
		t.Errorf("spinParams did not carry overrides: %+v", sp)
	}
	if sp.Blend != cfg.Spin.Blend || sp.Sensitivity != cfg.Spin.Sensitivity {
		t.Errorf("spinParams dropped defaults: %+v", sp)
	}
}
