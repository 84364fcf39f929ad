// Package config loads CLI defaults from the environment.
package config

import (
	"os"
	"strconv"
)

// Config holds runtime defaults for cmd/audioedit.
type Config struct {
	// CachePath is the sqlite file for memoised renders. Empty disables it.
	CachePath string

	SampleRate int
	NFFT       int
}

// Load reads configuration from environment variables with sane defaults.
// Unparsable or non-positive numbers keep the default.
func Load() Config {
	return Config{
		CachePath:  envStr("AUDIOEDIT_CACHE", ""),
		SampleRate: envInt("AUDIOEDIT_SAMPLE_RATE", 44100),
		NFFT:       envInt("AUDIOEDIT_NFFT", 512),
	}
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}
