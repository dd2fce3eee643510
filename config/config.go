// Package config loads tool-wide defaults from an optional gifkit.yaml
// file, with environment variable overrides under the GIFKIT_ prefix.
package config

import (
	"errors"
	"io/fs"
	"os"

	"github.com/kkyr/fig"
)

const EnvPrefix = "GIFKIT"

// Config holds the tunables that are not per-invocation flags.
type Config struct {
	// Workers caps the per-frame worker pool. 0 sizes it to the
	// available cores.
	Workers int `fig:"workers" default:"0"`

	// Seed drives the quantizer's clustering initialization.
	Seed int64 `fig:"seed" default:"1"`

	// LogLevel is the zerolog level name (debug, info, warn, error).
	LogLevel string `fig:"log_level" default:"info"`
}

// Load reads gifkit.yaml from the given path, the working directory or
// the user's home directory, applying GIFKIT_* environment overrides.
// A missing file is not an error; defaults apply.
func Load(path string) (Config, error) {
	var c Config
	dirs := []string{"."}
	if path != "" {
		dirs = []string{path}
	} else if home, err := os.UserHomeDir(); err == nil {
		dirs = append(dirs, home)
	}

	err := fig.Load(&c, fig.File("gifkit.yaml"), fig.Dirs(dirs...), fig.UseEnv(EnvPrefix))
	if err != nil && errors.Is(err, fig.ErrFileNotFound) {
		return defaults(), nil
	}
	if err != nil && errors.Is(err, fs.ErrNotExist) {
		return defaults(), nil
	}
	return c, err
}

func defaults() Config {
	var c Config
	// IgnoreFile applies the struct defaults and env overrides only.
	if err := fig.Load(&c, fig.IgnoreFile(), fig.UseEnv(EnvPrefix)); err != nil {
		return Config{Seed: 1, LogLevel: "info"}
	}
	return c
}
