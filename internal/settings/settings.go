// Package settings persists user choices (skins, last directory) as JSON.
package settings

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"

	"mediabrowse/internal/logging"
)

// Keys understood by Settings.Value and Settings.SetValue.
const (
	KeyPrimarySkin   = "skin.primary_skin"
	KeyDisplaySkin   = "skin.display_skin"
	KeyLastDirectory = "browser.last_directory"
)

// ErrUnknownKey is returned for a key that is not part of Settings.
var ErrUnknownKey = errors.New("unknown settings key")

// Settings is the persisted state.
type Settings struct {
	PrimarySkin   string `json:"skin.primary_skin"`
	DisplaySkin   string `json:"skin.display_skin"`
	LastDirectory string `json:"browser.last_directory,omitempty"`
}

// Defaults returns the values used when no settings file exists.
func Defaults() Settings {
	return Settings{
		PrimarySkin: "skin.xml",
		DisplaySkin: "skin_display.xml",
	}
}

// Value returns the value stored under key.
func (s Settings) Value(key string) (string, error) {
	switch key {
	case KeyPrimarySkin:
		return s.PrimarySkin, nil
	case KeyDisplaySkin:
		return s.DisplaySkin, nil
	case KeyLastDirectory:
		return s.LastDirectory, nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnknownKey, key)
}

// SetValue stores v under key.
func (s *Settings) SetValue(key, v string) error {
	switch key {
	case KeyPrimarySkin:
		s.PrimarySkin = v
	case KeyDisplaySkin:
		s.DisplaySkin = v
	case KeyLastDirectory:
		s.LastDirectory = v
	default:
		return fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}
	return nil
}

// Store reads and writes Settings at a fixed path.
type Store struct {
	path string
	mu   sync.Mutex
}

// NewStore returns a store backed by the file at path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the settings file location.
func (s *Store) Path() string { return s.path }

// Load reads the settings file. A missing or empty file yields Defaults.
func (s *Store) Load() (Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

func (s *Store) load() (Settings, error) {
	log := logging.Named("settings")
	st := Defaults()
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) || (err == nil && len(data) == 0) {
		log.Debug("no settings file, using defaults", zap.String("path", s.path))
		return st, nil
	}
	if err != nil {
		return st, fmt.Errorf("read settings: %w", err)
	}
	if err := json.Unmarshal(data, &st); err != nil {
		return Defaults(), fmt.Errorf("parse settings %s: %w", s.path, err)
	}
	return st, nil
}

// Save writes st, creating the parent directory if needed.
func (s *Store) Save(st Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save(st)
}

func (s *Store) save(st Settings) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create settings dir: %w", err)
	}
	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}
	// atomic replace
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace settings: %w", err)
	}
	logging.Named("settings").Debug("settings saved", zap.String("path", s.path))
	return nil
}

// Set loads the file, stores v under key and saves it again.
func (s *Store) Set(key, v string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, err := s.load()
	if err != nil {
		return err
	}
	if err := st.SetValue(key, v); err != nil {
		return err
	}
	return s.save(st)
}

// Get returns the value under key, falling back to Defaults.
func (s *Store) Get(key string) (string, error) {
	st, err := s.Load()
	if err != nil {
		return "", err
	}
	return st.Value(key)
}
