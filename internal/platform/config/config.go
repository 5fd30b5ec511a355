package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultCheckpointInterval = 30 * time.Second

	// Orphan detection triggers after a few missed checkpoints.
	defaultOrphanMultiplier = 10
)

// Duration is a time.Duration that encodes as a string ("30s", "1h") in
// the config file.
type Duration time.Duration

func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}

func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var raw string
	if err := node.Decode(&raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("parse duration %q: %w", raw, err)
	}
	*d = Duration(parsed)
	return nil
}

// Config carries the journel data-dir layout plus the session timing knobs.
type Config struct {
	BaseDir            string     `yaml:"-"`
	CheckpointInterval Duration   `yaml:"checkpoint_interval"`
	OrphanThreshold    Duration   `yaml:"orphan_threshold"`
	ReminderThresholds []Duration `yaml:"reminder_thresholds"`
}

func defaults(baseDir string) Config {
	return Config{
		BaseDir:            baseDir,
		CheckpointInterval: Duration(DefaultCheckpointInterval),
		OrphanThreshold:    Duration(defaultOrphanMultiplier * DefaultCheckpointInterval),
		ReminderThresholds: []Duration{Duration(50 * time.Minute), Duration(2 * time.Hour)},
	}
}

// Load reads <baseDir>/config.yaml, falling back to defaults when the file
// is absent. A present-but-unparsable config is an error: silently ignoring
// a user's timing settings would be worse than refusing to run.
func Load(baseDir string) (Config, error) {
	if baseDir == "" {
		return Config{}, fmt.Errorf("data directory is required")
	}
	cfg := defaults(baseDir)

	raw, err := os.ReadFile(filepath.Join(baseDir, "config.yaml"))
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	cfg.BaseDir = baseDir
	if cfg.CheckpointInterval <= 0 {
		cfg.CheckpointInterval = Duration(DefaultCheckpointInterval)
	}
	if cfg.OrphanThreshold <= 0 {
		cfg.OrphanThreshold = Duration(defaultOrphanMultiplier * time.Duration(cfg.CheckpointInterval))
	}
	return cfg, nil
}

// WriteDefault materializes a default config.yaml, used by init. An
// existing file is left untouched.
func WriteDefault(baseDir string) error {
	path := filepath.Join(baseDir, "config.yaml")
	if _, err := os.Stat(path); err == nil {
		return nil
	}
	raw, err := yaml.Marshal(defaults(baseDir))
	if err != nil {
		return fmt.Errorf("marshal default config: %w", err)
	}
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return fmt.Errorf("write default config: %w", err)
	}
	return nil
}

// ActiveSessionPath is the canonical active-session record. Its absence is
// the valid "no active session" state, not an error.
func (c Config) ActiveSessionPath() string {
	return filepath.Join(c.BaseDir, "active-session.yaml")
}

func (c Config) ActiveBreakPath() string {
	return filepath.Join(c.BaseDir, "active-break.yaml")
}

func (c Config) LogsDir() string {
	return filepath.Join(c.BaseDir, "logs")
}

func (c Config) ProjectsDir() string {
	return filepath.Join(c.BaseDir, "projects")
}

func (c Config) IndexDBPath() string {
	return filepath.Join(c.BaseDir, ".meta", "sessions.db")
}

func (c Config) Thresholds() []time.Duration {
	out := make([]time.Duration, 0, len(c.ReminderThresholds))
	for _, d := range c.ReminderThresholds {
		out = append(out, time.Duration(d))
	}
	return out
}
