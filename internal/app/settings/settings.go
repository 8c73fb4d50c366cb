// Package settings holds the process-wide user preferences. They are read
// once at startup and written back on every change.
package settings

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/pelletier/go-toml/v2"
)

const fileName = "settings.toml"

type fileFormat struct {
	Appearance struct {
		DarkMode bool `toml:"dark_mode"`
	} `toml:"appearance"`
}

// Settings is safe for concurrent use. Pass it to the components that need
// it rather than reading a global.
type Settings struct {
	mu       sync.RWMutex
	filePath string
	data     fileFormat
}

// Load opens the settings file in dir, creating dir if needed. A missing
// file yields the defaults. An empty dir defaults to <user config dir>/studybuddy.
func Load(dir string) (*Settings, error) {
	if dir == "" {
		base, err := os.UserConfigDir()
		if err != nil {
			return nil, fmt.Errorf("resolve settings dir: %w", err)
		}
		dir = filepath.Join(base, "studybuddy")
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create settings dir: %w", err)
	}

	s := &Settings{filePath: filepath.Join(dir, fileName)}

	raw, err := os.ReadFile(s.filePath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return s, nil
		}
		return nil, fmt.Errorf("read settings: %w", err)
	}
	if err := toml.Unmarshal(raw, &s.data); err != nil {
		return nil, fmt.Errorf("parse %s: %w", s.filePath, err)
	}
	return s, nil
}

func (s *Settings) DarkMode() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data.Appearance.DarkMode
}

// SetDarkMode stores the preference and persists it. The in-memory value is
// only changed when the write succeeds.
func (s *Settings) SetDarkMode(on bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.data
	next.Appearance.DarkMode = on
	if err := s.save(next); err != nil {
		return err
	}
	s.data = next
	return nil
}

// ToggleDarkMode flips the preference and returns the new value.
func (s *Settings) ToggleDarkMode() (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.data
	next.Appearance.DarkMode = !next.Appearance.DarkMode
	if err := s.save(next); err != nil {
		return s.data.Appearance.DarkMode, err
	}
	s.data = next
	return next.Appearance.DarkMode, nil
}

// Path is the settings file location.
func (s *Settings) Path() string { return s.filePath }

// save writes data to the file (caller must hold lock).
func (s *Settings) save(data fileFormat) error {
	raw, err := toml.Marshal(data)
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}
	if err := os.WriteFile(s.filePath, raw, 0o600); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}
	return nil
}
