package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"trainwatch/internal/track"
)

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err == nil {
		t.Error("expected error for missing config file")
	}
}

func TestLoad_FillsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")
	data := []byte("command: python\nargs: [train.py, --epochs, \"50\"]\n")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Command != "python" || len(cfg.Args) != 3 {
		t.Errorf("command/args = %q/%v", cfg.Command, cfg.Args)
	}
	// Unset fields come from Default.
	if cfg.Metric != "loss" || cfg.Mode != "min" || cfg.Patience != 5 {
		t.Errorf("defaults not applied: %+v", cfg)
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")
	if err := os.WriteFile(path, []byte("command: [unclosed"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected parse error")
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")
	want := RunConfig{
		Command:        "python",
		Args:           []string{"train.py"},
		Metric:         "val_acc",
		Mode:           "max",
		Patience:       3,
		MinDelta:       0.01,
		TimeoutMinutes: 90,
	}
	if err := Save(path, want); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.Metric != "val_acc" || got.Mode != "max" || got.Patience != 3 || got.MinDelta != 0.01 {
		t.Errorf("round trip mismatch: %+v", got)
	}
}

func TestWatchConfig(t *testing.T) {
	cfg := Default()
	cfg.Command = "python"
	cfg.Mode = "max"
	cfg.TimeoutMinutes = 30

	wc, err := cfg.WatchConfig()
	if err != nil {
		t.Fatalf("WatchConfig: %v", err)
	}
	if wc.Mode != track.ModeMax {
		t.Errorf("Mode = %v, want max", wc.Mode)
	}
	if wc.Timeout != 30*time.Minute {
		t.Errorf("Timeout = %v, want 30m", wc.Timeout)
	}
}

func TestWatchConfig_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*RunConfig)
	}{
		{"bad mode", func(c *RunConfig) { c.Mode = "down" }},
		{"zero patience", func(c *RunConfig) { c.Patience = 0 }},
		{"negative min delta", func(c *RunConfig) { c.MinDelta = -1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			cfg.Command = "python"
			tt.mutate(&cfg)
			if _, err := cfg.WatchConfig(); err == nil {
				t.Error("expected configuration error")
			}
		})
	}
}
