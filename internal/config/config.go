// Package config loads runtime settings from the environment.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Config holds all configuration for mediabrowse.
type Config struct {
	// Storage
	MediaRoot  string // directory under which removable volumes are mounted
	MountsFile string // mount table to parse, normally /proc/self/mounts

	// Skins
	DataDir        string // ${datadir}; skins live in DataDir/enigma2
	GUISkinDir     string // directory of the active GUI skin, holds noprev.png
	SettingsPath   string // JSON settings file
	RestartCommand string // command run to restart the GUI after a skin change

	// Listing
	InhibitDirs   []string
	InhibitMounts []string

	// Logging
	LogLevel  string
	LogFormat string
	LogFile   string

	// Watch the media root for storage changes
	Watch bool
}

// Load reads MEDIABROWSE_* environment variables and applies defaults.
func Load() (*Config, error) {
	home, _ := os.UserHomeDir()
	if home == "" {
		home = os.TempDir()
	}

	cfg := &Config{
		MediaRoot:      envOrDefault("MEDIABROWSE_MEDIA_ROOT", "/media"),
		MountsFile:     envOrDefault("MEDIABROWSE_MOUNTS_FILE", "/proc/self/mounts"),
		DataDir:        envOrDefault("MEDIABROWSE_DATA_DIR", "/usr/share"),
		SettingsPath:   envOrDefault("MEDIABROWSE_SETTINGS", filepath.Join(home, ".config", "mediabrowse", "settings.json")),
		RestartCommand: os.Getenv("MEDIABROWSE_RESTART_CMD"),
		InhibitDirs:    envList("MEDIABROWSE_INHIBIT_DIRS"),
		InhibitMounts:  envList("MEDIABROWSE_INHIBIT_MOUNTS"),
		LogLevel:       envOrDefault("MEDIABROWSE_LOG_LEVEL", "info"),
		LogFormat:      envOrDefault("MEDIABROWSE_LOG_FORMAT", "console"),
		LogFile:        os.Getenv("MEDIABROWSE_LOG_FILE"),
	}
	cfg.GUISkinDir = envOrDefault("MEDIABROWSE_GUI_SKIN_DIR", filepath.Join(cfg.DataDir, "enigma2", "skin_default"))

	watch, err := envBool("MEDIABROWSE_WATCH", true)
	if err != nil {
		return nil, err
	}
	cfg.Watch = watch

	switch cfg.LogFormat {
	case "console", "json":
	default:
		return nil, fmt.Errorf("invalid MEDIABROWSE_LOG_FORMAT %q: want console or json", cfg.LogFormat)
	}

	return cfg, nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envBool(key string, fallback bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return b, nil
}

// envList splits a colon separated variable, PATH style.
func envList(key string) []string {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(v, ":") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
