// Package prefs persists reel's small amount of runtime state in
// ~/.config/reel/prefs.toml: the UI theme and the selected-instance override.
package prefs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	toml "github.com/pelletier/go-toml/v2"
)

// Prefs holds reel's persisted preferences.
type Prefs struct {
	Theme string `toml:"theme"`
	// SelectedInstance is the JSON-serialized override; empty means unset.
	SelectedInstance string `toml:"selected_instance,omitempty"`
}

const defaultPrefsPath = "~/.config/reel/prefs.toml"

// DefaultTheme is the theme used until the user picks another.
const DefaultTheme = "Nightfox"

// DefaultPath returns the default preferences file path.
func DefaultPath() string {
	return defaultPrefsPath
}

// Load reads preferences from the given path. Missing or unreadable files
// yield defaults.
func Load(path string) Prefs {
	p, _ := load(path)
	return p
}

func load(path string) (Prefs, error) {
	prefs := Prefs{Theme: DefaultTheme}

	resolved, err := resolvePath(path)
	if err != nil {
		return prefs, err
	}

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return prefs, nil
		}
		return prefs, fmt.Errorf("open prefs: %w", err)
	}
	defer func() { _ = file.Close() }()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return prefs, fmt.Errorf("read prefs: %w", err)
	}
	if err := toml.Unmarshal(bytes, &prefs); err != nil {
		return Prefs{Theme: DefaultTheme}, fmt.Errorf("%w: %v", errCorrupt, err)
	}
	if strings.TrimSpace(prefs.Theme) == "" {
		prefs.Theme = DefaultTheme
	}
	return prefs, nil
}

// Save writes preferences to the given path, creating directories as needed.
func Save(path string, p Prefs) error {
	resolved, err := resolvePath(path)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(resolved), 0o700); err != nil {
		return fmt.Errorf("create prefs dir: %w", err)
	}

	bytes, err := toml.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal prefs: %w", err)
	}

	// The override carries an API key.
	tmp := resolved + ".tmp"
	if err := os.WriteFile(tmp, bytes, 0o600); err != nil {
		return fmt.Errorf("write prefs: %w", err)
	}
	if err := os.Rename(tmp, resolved); err != nil {
		return fmt.Errorf("replace prefs: %w", err)
	}
	return nil
}

// SaveTheme updates only the theme, keeping the rest of the file.
func SaveTheme(path, theme string) error {
	mu.Lock()
	defer mu.Unlock()
	p, err := load(path)
	if err != nil && !errors.Is(err, errCorrupt) {
		return err
	}
	p.Theme = theme
	return Save(path, p)
}

var (
	mu         sync.Mutex
	errCorrupt = errors.New("parse prefs")
)

// OverrideSlot stores the selected-instance override as one key of the prefs
// file. Read-then-write with last writer wins across processes.
type OverrideSlot struct {
	Path string
}

// Get returns the stored override and whether one is set.
func (s OverrideSlot) Get(_ context.Context) (string, bool, error) {
	mu.Lock()
	defer mu.Unlock()
	p, err := load(s.Path)
	if err != nil {
		return "", false, err
	}
	value := strings.TrimSpace(p.SelectedInstance)
	return value, value != "", nil
}

// Set replaces the stored override.
func (s OverrideSlot) Set(_ context.Context, value string) error {
	return s.write(value)
}

// Delete clears the stored override.
func (s OverrideSlot) Delete(_ context.Context) error {
	return s.write("")
}

func (s OverrideSlot) write(value string) error {
	mu.Lock()
	defer mu.Unlock()
	p, err := load(s.Path)
	if err != nil && !errors.Is(err, errCorrupt) {
		return err
	}
	p.SelectedInstance = value
	return Save(s.Path, p)
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultPrefsPath)
	}
	return expandPath(path)
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
