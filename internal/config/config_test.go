package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func env(values map[string]string) func(string) string {
	return func(key string) string { return values[key] }
}

func TestDefaults(t *testing.T) {
	cfg, err := FromEnv(env(nil))
	require.NoError(t, err)
	require.Equal(t, time.Second, cfg.PollInterval)
	require.Zero(t, cfg.HTTPTimeout)
	require.False(t, cfg.NoColor)
	require.Equal(t, ".bust.json", filepath.Base(cfg.StatePath))
}

func TestEnvOverrides(t *testing.T) {
	cfg, err := FromEnv(env(map[string]string{
		EnvStateFile:    "/tmp/x.json",
		EnvPollInterval: "250ms",
		EnvHTTPTimeout:  "5s",
		EnvNoColor:      "1",
	}))
	require.NoError(t, err)
	require.Equal(t, "/tmp/x.json", cfg.StatePath)
	require.Equal(t, 250*time.Millisecond, cfg.PollInterval)
	require.Equal(t, 5*time.Second, cfg.HTTPTimeout)
	require.True(t, cfg.NoColor)
}

func TestInvalidDurations(t *testing.T) {
	_, err := FromEnv(env(map[string]string{EnvPollInterval: "0s"}))
	require.Error(t, err)
	_, err = FromEnv(env(map[string]string{EnvPollInterval: "soon"}))
	require.Error(t, err)
	_, err = FromEnv(env(map[string]string{EnvHTTPTimeout: "-1s"}))
	require.Error(t, err)
}
