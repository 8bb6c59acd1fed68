// Package config resolves the settings shared by the segnalibro binaries.
// Environment variables win over the optional config file, which wins over
// compiled defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config carries the resolved settings.
type Config struct {
	// DBPath is the sqlite database location.
	DBPath string `toml:"db_path"`
	// PrimaryID is the id of the top-level folder opened at startup.
	PrimaryID string `toml:"primary_id"`
}

// Load resolves the configuration from defaults, the optional
// ~/.config/segnalibro/config.toml, and the SEGNALIBRO_DB and
// SEGNALIBRO_PRIMARY environment variables.
func Load() (Config, error) {
	return load(filePath())
}

func load(path string) (Config, error) {
	cfg := defaults()

	if path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil && !os.IsNotExist(err) {
			return Config{}, fmt.Errorf("parse %s: %w", path, err)
		}
	}

	if env := os.Getenv("SEGNALIBRO_DB"); env != "" {
		cfg.DBPath = env
	}
	if env := os.Getenv("SEGNALIBRO_PRIMARY"); env != "" {
		cfg.PrimaryID = env
	}
	return cfg, nil
}

func defaults() Config {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			home = "."
		}
		dataHome = filepath.Join(home, ".local", "share")
	}
	return Config{
		DBPath:    filepath.Join(dataHome, "segnalibro", "bookmarks.db"),
		PrimaryID: "1",
	}
}

func filePath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "segnalibro", "config.toml")
}
