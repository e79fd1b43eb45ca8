package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "reflex.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadBoardConfig_MissingFileIsDefaults(t *testing.T) {
	cfg, err := LoadBoardConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("LoadBoardConfig: %v", err)
	}
	def := DefaultBoardConfig()
	if cfg.WindowMs != def.WindowMs || cfg.OnsetMax != def.OnsetMax || cfg.Seed != nil {
		t.Fatalf("got %+v, want defaults", cfg)
	}
	if cfg.WindowMs != 5000 || cfg.StimulusColor != (RGB{G: 255}) {
		t.Fatalf("defaults drifted: window %d colour %v", cfg.WindowMs, cfg.StimulusColor)
	}
}

func TestLoadBoardConfig_Overlay(t *testing.T) {
	path := writeConfig(t, `
onset_min: 2
onset_max: 3
window_ms: 2500
stimulus_color: {r: 255, g: 0, b: 0}
seed: 99
`)
	cfg, err := LoadBoardConfig(path)
	if err != nil {
		t.Fatalf("LoadBoardConfig: %v", err)
	}
	if cfg.OnsetMin != 2 || cfg.OnsetMax != 3 || cfg.WindowMs != 2500 {
		t.Fatalf("overlay not applied: %+v", cfg)
	}
	if cfg.StimulusColor != (RGB{R: 255}) {
		t.Fatalf("colour = %v", cfg.StimulusColor)
	}
	if cfg.Seed == nil || *cfg.Seed != 99 {
		t.Fatalf("seed = %v", cfg.Seed)
	}
	if cfg.HighThreshold != STICK_HIGH_THRESHOLD {
		t.Fatalf("unset key lost its default: high_threshold = %d", cfg.HighThreshold)
	}

	sc := cfg.Scheduler()
	if sc.WindowMicros != 2_500_000 || sc.OnsetUnitMicros != ONSET_UNIT_MICROS {
		t.Fatalf("scheduler config = %+v", sc)
	}
}

func TestLoadBoardConfig_Errors(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"syntax", "window_ms: [", "parse config"},
		{"range", "onset_min: 4\nonset_max: 2\n", "onset_max"},
		{"window", "window_ms: 0\n", "window_ms"},
		{"thresholds", "low_threshold: 4000\n", "low_threshold"},
		{"strip", "strip_length: 0\n", "strip_length"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadBoardConfig(writeConfig(t, tt.body))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("err = %v, want mention of %q", err, tt.want)
			}
		})
	}
}

func TestLoadBoardConfig_EmptyPath(t *testing.T) {
	cfg, err := LoadBoardConfig("")
	if err != nil || cfg.MenuPollUs != MENU_POLL_MICROS {
		t.Fatalf("LoadBoardConfig(\"\") = %+v, %v", cfg, err)
	}
}
