// Package config loads and saves watched-run configuration files.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"trainwatch/internal/track"
	"trainwatch/internal/watch"
)

// RunConfig is the on-disk description of a watched training run.
// Flags on the command line override anything loaded from here.
type RunConfig struct {
	Command  string   `yaml:"command"`
	Args     []string `yaml:"args"`
	WorkDir  string   `yaml:"workdir"`
	Metric   string   `yaml:"metric"`
	Pattern  string   `yaml:"pattern"`
	Mode     string   `yaml:"mode"`
	Patience int      `yaml:"patience"`
	MinDelta float64  `yaml:"min_delta"`
	// TimeoutMinutes bounds the whole run; zero uses the watch default.
	TimeoutMinutes int `yaml:"timeout_minutes"`
}

// Default returns the configuration used when no file is given:
// minimize a metric named "loss" with a patience of 5.
func Default() RunConfig {
	return RunConfig{
		Metric:   "loss",
		Mode:     string(track.ModeMin),
		Patience: 5,
	}
}

// Load reads a RunConfig from path, filling unset fields from Default.
func Load(path string) (RunConfig, error) {
	cfg := Default()
	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read run config: %w", err)
	}
	var fileData RunConfig
	if err := yaml.Unmarshal(raw, &fileData); err != nil {
		return cfg, fmt.Errorf("parse run config yaml: %w", err)
	}
	applyFile(&cfg, fileData)
	return cfg, nil
}

// Save writes the configuration to path.
func Save(path string, cfg RunConfig) error {
	serialized, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal run config yaml: %w", err)
	}
	if err := os.WriteFile(path, serialized, 0o644); err != nil {
		return fmt.Errorf("write run config: %w", err)
	}
	return nil
}

// WatchConfig converts the run configuration into a watch.Config,
// validating the early-stopping fields through the same rules the
// state machines enforce.
func (c RunConfig) WatchConfig() (watch.Config, error) {
	mode, err := track.ParseMode(c.Mode)
	if err != nil {
		return watch.Config{}, err
	}
	// Surface construction errors here rather than at run start.
	if _, err := track.NewEarlyStopping(c.Patience, mode, c.MinDelta); err != nil {
		return watch.Config{}, err
	}
	return watch.Config{
		Command:  c.Command,
		Args:     c.Args,
		WorkDir:  c.WorkDir,
		Metric:   c.Metric,
		Pattern:  c.Pattern,
		Mode:     mode,
		Patience: c.Patience,
		MinDelta: c.MinDelta,
		Timeout:  time.Duration(c.TimeoutMinutes) * time.Minute,
	}, nil
}

func applyFile(cfg *RunConfig, fileData RunConfig) {
	if fileData.Command != "" {
		cfg.Command = fileData.Command
	}
	if len(fileData.Args) > 0 {
		cfg.Args = fileData.Args
	}
	if fileData.WorkDir != "" {
		cfg.WorkDir = fileData.WorkDir
	}
	if fileData.Metric != "" {
		cfg.Metric = fileData.Metric
	}
	if fileData.Pattern != "" {
		cfg.Pattern = fileData.Pattern
	}
	if fileData.Mode != "" {
		cfg.Mode = fileData.Mode
	}
	if fileData.Patience > 0 {
		cfg.Patience = fileData.Patience
	}
	if fileData.MinDelta > 0 {
		cfg.MinDelta = fileData.MinDelta
	}
	if fileData.TimeoutMinutes > 0 {
		cfg.TimeoutMinutes = fileData.TimeoutMinutes
	}
}
