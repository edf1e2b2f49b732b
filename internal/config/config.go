package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/adamavenir/noci/internal/state"
)

const (
	EnvStateFile    = "NOCI_STATE_FILE"
	EnvPollInterval = "NOCI_POLL_INTERVAL"
	EnvHTTPTimeout  = "NOCI_HTTP_TIMEOUT"
	EnvNoColor      = "NO_COLOR"
)

type Config struct {
	StatePath    string
	PollInterval time.Duration
	HTTPTimeout  time.Duration
	NoColor      bool
	Verbose      bool
}

func DefaultConfig() Config {
	return Config{
		StatePath:    defaultStatePath(),
		PollInterval: time.Second,
	}
}

// FromEnv returns the defaults overridden by environment variables.
func FromEnv(getenv func(string) string) (Config, error) {
	if getenv == nil {
		getenv = os.Getenv
	}
	cfg := DefaultConfig()
	if v := strings.TrimSpace(getenv(EnvStateFile)); v != "" {
		cfg.StatePath = v
	}
	if v := strings.TrimSpace(getenv(EnvPollInterval)); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			return Config{}, fmt.Errorf("invalid %s %q: want a positive duration like 1s", EnvPollInterval, v)
		}
		cfg.PollInterval = d
	}
	if v := strings.TrimSpace(getenv(EnvHTTPTimeout)); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d < 0 {
			return Config{}, fmt.Errorf("invalid %s %q: want a duration like 30s", EnvHTTPTimeout, v)
		}
		cfg.HTTPTimeout = d
	}
	if getenv(EnvNoColor) != "" {
		cfg.NoColor = true
	}
	return cfg, nil
}

func defaultStatePath() string {
	path, err := state.DefaultPath()
	if err != nil {
		return state.FileName
	}
	return path
}
