// Package config handles classifier configuration loading and management.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/Faultbox/vector-classifier/internal/classify"
	"github.com/Faultbox/vector-classifier/pkg/slots"
)

// ErrInvalid is returned by Validate for out-of-range settings.
var ErrInvalid = errors.New("invalid config")

// Config holds all classifier settings.
type Config struct {
	Classifier ClassifierConfig `yaml:"classifier"`
	Replay     ReplayConfig     `yaml:"replay"`
	Display    DisplayConfig    `yaml:"display"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// ClassifierConfig holds label selection and slot settings.
type ClassifierConfig struct {
	SlotCount      int      `yaml:"slot_count"`
	LabelThreshold float64  `yaml:"label_threshold"` // per-label cut when a stage ranks several
	TopThreshold   float64  `yaml:"top_threshold"`   // cut when a stage reports one label
	CellThreshold  float64  `yaml:"cell_threshold"`  // localization overlay cut
	Stages         []string `yaml:"stages"`          // empty means all stages
}

// ReplayConfig holds recorded session playback settings.
type ReplayConfig struct {
	Session  string        `yaml:"session"`
	Interval time.Duration `yaml:"interval"`
	Loop     bool          `yaml:"loop"`
}

// DisplayConfig holds slot board output settings.
type DisplayConfig struct {
	Color     bool `yaml:"color"`
	ShowFrame bool `yaml:"show_frame"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	th := classify.DefaultThresholds()
	return &Config{
		Classifier: ClassifierConfig{
			SlotCount:      slots.DefaultCount,
			LabelThreshold: th.Label,
			TopThreshold:   th.TopLabel,
			CellThreshold:  th.Cell,
		},
		Replay: ReplayConfig{
			Session:  "session.yaml",
			Interval: 100 * time.Millisecond,
			Loop:     false,
		},
		Display: DisplayConfig{
			Color:     true,
			ShowFrame: true,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// Thresholds returns the classifier thresholds.
func (c *Config) Thresholds() classify.Thresholds {
	return classify.Thresholds{
		Label:    c.Classifier.LabelThreshold,
		TopLabel: c.Classifier.TopThreshold,
		Cell:     c.Classifier.CellThreshold,
	}
}

// Validate checks settings the classifier cannot run with.
func (c *Config) Validate() error {
	if c.Classifier.SlotCount <= 0 {
		return fmt.Errorf("%w: slot_count must be positive, got %d", ErrInvalid, c.Classifier.SlotCount)
	}
	for name, v := range map[string]float64{
		"label_threshold": c.Classifier.LabelThreshold,
		"top_threshold":   c.Classifier.TopThreshold,
		"cell_threshold":  c.Classifier.CellThreshold,
	} {
		if v < 0 || v > 1 {
			return fmt.Errorf("%w: %s must be in [0,1], got %v", ErrInvalid, name, v)
		}
	}
	if c.Replay.Interval < 0 {
		return fmt.Errorf("%w: replay interval must not be negative, got %v", ErrInvalid, c.Replay.Interval)
	}
	if c.Replay.Session == "" {
		return fmt.Errorf("%w: no session file", ErrInvalid)
	}
	return nil
}
