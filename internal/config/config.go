package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/five82/reel/internal/instance"
	"github.com/five82/reel/internal/logging"
)

// Config captures reel's settings and the raw instance configuration.
type Config struct {
	Path string

	LogLevel string
	LogDir   string

	CalendarDaysBefore int
	CalendarDaysAfter  int

	// Instances is the raw instance configuration; resolve it with an
	// instance.Resolver rather than reading it directly.
	Instances instance.Source
}

const (
	defaultConfigPath  = "~/.config/reel/config.toml"
	defaultLogDir      = "~/.local/state/reel"
	defaultLogLevel    = "info"
	defaultDaysBefore  = 7
	defaultDaysAfter   = 28
	maxCalendarWindow  = 365
	instancesJSONField = "instances_json"
)

type rawSlot struct {
	Name    string `toml:"name"`
	URL     string `toml:"url"`
	APIKey  string `toml:"api_key"`
	Enabled *bool  `toml:"enabled"`
	Default bool   `toml:"default"`
}

type rawConfig struct {
	Log struct {
		Level string `toml:"level"`
		Dir   string `toml:"dir"`
	} `toml:"log"`
	Calendar struct {
		DaysBefore int `toml:"days_before"`
		DaysAfter  int `toml:"days_after"`
	} `toml:"calendar"`
	Primary       *rawSlot `toml:"primary"`
	Secondary     *rawSlot `toml:"secondary"`
	InstancesJSON *string  `toml:"instances_json"`
}

// DefaultPath returns the default config file location.
func DefaultPath() string {
	return defaultConfigPath
}

// Load reads the config file at path (or the default location). A missing
// file is not an error: defaults apply and the instance list is empty.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		Path:               resolved,
		LogLevel:           defaultLogLevel,
		LogDir:             mustExpand(defaultLogDir),
		CalendarDaysBefore: defaultDaysBefore,
		CalendarDaysAfter:  defaultDaysAfter,
		Instances:          instance.DynamicSource{},
	}

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer func() { _ = file.Close() }()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw rawConfig
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	if level := strings.ToLower(strings.TrimSpace(raw.Log.Level)); level != "" {
		cfg.LogLevel = level
	}
	if dir := strings.TrimSpace(raw.Log.Dir); dir != "" {
		cfg.LogDir = mustExpand(dir)
	}
	cfg.CalendarDaysBefore = clampDays(raw.Calendar.DaysBefore, defaultDaysBefore)
	cfg.CalendarDaysAfter = clampDays(raw.Calendar.DaysAfter, defaultDaysAfter)

	src, err := instanceSource(raw)
	if err != nil {
		return Config{}, err
	}
	cfg.Instances = src
	return cfg, nil
}

// LoadInstances reads only the instance configuration at path. It is the
// loader handed to instance.NewResolver so every resolution sees the file as
// it is now.
func LoadInstances(path string) func() (instance.Source, error) {
	return func() (instance.Source, error) {
		cfg, err := Load(path)
		if err != nil {
			return nil, err
		}
		return cfg.Instances, nil
	}
}

// LogPath returns the path of reel's own log file.
func (c Config) LogPath() string {
	if strings.TrimSpace(c.LogDir) == "" {
		return filepath.Join(mustExpand(defaultLogDir), logging.FileName)
	}
	return filepath.Join(c.LogDir, logging.FileName)
}

func instanceSource(raw rawConfig) (instance.Source, error) {
	hasStatic := raw.Primary != nil || raw.Secondary != nil
	hasDynamic := raw.InstancesJSON != nil

	switch {
	case hasStatic && hasDynamic:
		return nil, &instance.ConfigurationError{
			Err: fmt.Errorf("use either [primary]/[secondary] or %s, not both", instancesJSONField),
		}
	case hasDynamic:
		return instance.DynamicSource{Raw: *raw.InstancesJSON}, nil
	case hasStatic:
		src := instance.StaticSource{}
		if raw.Primary != nil {
			src.Primary = raw.Primary.slot(true)
		}
		if raw.Secondary != nil {
			secondary := raw.Secondary.slot(false)
			src.Secondary = &secondary
		}
		return src, nil
	default:
		return instance.DynamicSource{}, nil
	}
}

func (r rawSlot) slot(primary bool) instance.Slot {
	enabled := primary
	if r.Enabled != nil {
		enabled = *r.Enabled
	}
	return instance.Slot{
		Name:    r.Name,
		URL:     r.URL,
		APIKey:  r.APIKey,
		Enabled: enabled,
		Default: r.Default,
	}
}

func clampDays(value, fallback int) int {
	switch {
	case value <= 0:
		return fallback
	case value > maxCalendarWindow:
		return maxCalendarWindow
	default:
		return value
	}
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return ExpandPath(defaultConfigPath)
	}
	return ExpandPath(path)
}

func mustExpand(path string) string {
	expanded, err := ExpandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

// ExpandPath expands a leading ~ and returns an absolute path.
func ExpandPath(path string) (string, error) {
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
