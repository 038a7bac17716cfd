package config

import (
	"flag"
	"strings"
)

var (
	flagConfig   = flag.String("config", "", "Path to config file")
	flagDebug    = flag.Bool("debug", false, "Enable debug logging")
	flagSession  = flag.String("session", "", "Recorded session to replay")
	flagSlots    = flag.Int("slots", 0, "Number of display slots")
	flagStages   = flag.String("stages", "", "Comma-separated stages to replay (default all)")
	flagInterval = flag.Duration("interval", 0, "Time between frames")
	flagLoop     = flag.Bool("loop", false, "Restart the session when it ends")
	flagNoColor  = flag.Bool("no-color", false, "Disable colored output")
	flagSaveTo   = flag.String("save-config", "", "Write the effective config to this path")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// SaveConfigPath returns the path given via --save-config, if any.
func SaveConfigPath() string {
	return *flagSaveTo
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagSession != "" {
		cfg.Replay.Session = *flagSession
	}
	if *flagSlots > 0 {
		cfg.Classifier.SlotCount = *flagSlots
	}
	if *flagStages != "" {
		cfg.Classifier.Stages = splitList(*flagStages)
	}
	if *flagInterval > 0 {
		cfg.Replay.Interval = *flagInterval
	}
	if *flagLoop {
		cfg.Replay.Loop = true
	}
	if *flagNoColor {
		cfg.Display.Color = false
	}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
