package instance

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Source is the raw instance configuration. It is either a StaticSource or a
// DynamicSource; nothing outside this package sees the raw shape once
// Resolve has run.
type Source interface {
	kind() string
	instances() ([]Instance, error)
}

// Slot is one fixed, named-field server entry of a StaticSource.
type Slot struct {
	Name    string
	URL     string
	APIKey  string
	Enabled bool // ignored for the primary slot
	Default bool
}

func (s Slot) instance() Instance {
	return Instance{
		Name:      strings.TrimSpace(s.Name),
		URL:       NormalizeURL(s.URL),
		APIKey:    strings.TrimSpace(s.APIKey),
		IsDefault: s.Default,
	}
}

// StaticSource holds a required primary server and an optional secondary one.
type StaticSource struct {
	Primary   Slot
	Secondary *Slot
}

func (StaticSource) kind() string { return "static" }

func (s StaticSource) instances() ([]Instance, error) {
	primary := s.Primary.instance()
	if err := Validate(primary); err != nil {
		return nil, fmt.Errorf("primary: %w", err)
	}
	list := []Instance{primary}

	if s.Secondary != nil && s.Secondary.Enabled {
		secondary := s.Secondary.instance()
		if err := Validate(secondary); err != nil {
			return nil, fmt.Errorf("secondary: %w", err)
		}
		list = append(list, secondary)
	}
	return list, nil
}

// DynamicSource holds a JSON array of {name, url, apiKey, isDefault?}.
type DynamicSource struct {
	Raw string
}

func (DynamicSource) kind() string { return "dynamic" }

type dynamicEntry struct {
	Name      *string `json:"name"`
	URL       *string `json:"url"`
	APIKey    *string `json:"apiKey"`
	IsDefault bool    `json:"isDefault"`
}

func (s DynamicSource) instances() ([]Instance, error) {
	raw := strings.TrimSpace(s.Raw)
	if raw == "" {
		return nil, nil
	}

	var shape any
	if err := json.Unmarshal([]byte(raw), &shape); err != nil {
		return nil, fmt.Errorf("parse instances json: %w", err)
	}
	if _, ok := shape.([]any); !ok {
		return nil, errors.New("instances json must be an array")
	}

	var entries []dynamicEntry
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		return nil, fmt.Errorf("decode instances json: %w", err)
	}

	list := make([]Instance, 0, len(entries))
	for i, entry := range entries {
		if entry.Name == nil || entry.URL == nil || entry.APIKey == nil {
			return nil, fmt.Errorf("instance %d: name, url and apiKey are required", i)
		}
		inst := Slot{
			Name:    *entry.Name,
			URL:     *entry.URL,
			APIKey:  *entry.APIKey,
			Default: entry.IsDefault,
		}.instance()
		if err := Validate(inst); err != nil {
			return nil, fmt.Errorf("instance %d: %w", i, err)
		}
		list = append(list, inst)
	}
	return list, nil
}
