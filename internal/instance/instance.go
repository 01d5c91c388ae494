// Package instance resolves the configured Radarr servers into a validated,
// ordered list with exactly one logical default.
package instance

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// Instance is one configured Radarr server. The JSON tags are the shape the
// selected-instance override is persisted in.
type Instance struct {
	Name      string `json:"name"`
	URL       string `json:"url"`
	APIKey    string `json:"apiKey"`
	IsDefault bool   `json:"isDefault,omitempty"`
}

// IsZero reports whether inst is the empty placeholder used when no usable
// configuration exists.
func (inst Instance) IsZero() bool {
	return inst.Name == "" && inst.URL == "" && inst.APIKey == ""
}

// Same reports whether two instances identify the same server. Matching is on
// name and normalized URL only; API keys are not compared.
func (inst Instance) Same(other Instance) bool {
	return inst.Name == other.Name && NormalizeURL(inst.URL) == NormalizeURL(other.URL)
}

// NormalizeURL trims whitespace and removes trailing slashes.
func NormalizeURL(raw string) string {
	return strings.TrimRight(strings.TrimSpace(raw), "/")
}

var (
	ErrEmptyName   = errors.New("name is empty")
	ErrEmptyURL    = errors.New("url is empty")
	ErrEmptyAPIKey = errors.New("api key is empty")
	ErrInvalidURL  = errors.New("url is not a valid http(s) url")

	// ErrNoInstancesConfigured is returned (wrapped in a ConfigurationError)
	// when the configuration yields an empty instance list.
	ErrNoInstancesConfigured = errors.New("no radarr instances configured")
)

// ValidationError reports a single invalid field of an Instance.
type ValidationError struct {
	Field string
	Err   error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %v", e.Field, e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// ConfigurationError reports configuration that cannot produce a usable
// instance list.
type ConfigurationError struct {
	Source string // "static", "dynamic" or empty
	Err    error
}

func (e *ConfigurationError) Error() string {
	if e.Source == "" {
		return fmt.Sprintf("instance configuration: %v", e.Err)
	}
	return fmt.Sprintf("%s instance configuration: %v", e.Source, e.Err)
}

func (e *ConfigurationError) Unwrap() error { return e.Err }

// Validate checks the user-editable fields of inst.
func Validate(inst Instance) error {
	if strings.TrimSpace(inst.Name) == "" {
		return &ValidationError{Field: "name", Err: ErrEmptyName}
	}
	if strings.TrimSpace(inst.URL) == "" {
		return &ValidationError{Field: "url", Err: ErrEmptyURL}
	}
	if strings.TrimSpace(inst.APIKey) == "" {
		return &ValidationError{Field: "apiKey", Err: ErrEmptyAPIKey}
	}
	u, err := url.Parse(NormalizeURL(inst.URL))
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return &ValidationError{Field: "url", Err: ErrInvalidURL}
	}
	return nil
}

// Default returns the first instance marked default, else the first entry.
func Default(list []Instance) (Instance, error) {
	if len(list) == 0 {
		return Instance{}, &ConfigurationError{Err: ErrNoInstancesConfigured}
	}
	for _, inst := range list {
		if inst.IsDefault {
			return inst, nil
		}
	}
	return list[0], nil
}

// Find returns the instance with the given name (case-insensitive).
func Find(list []Instance, name string) (Instance, bool) {
	name = strings.TrimSpace(name)
	for _, inst := range list {
		if strings.EqualFold(inst.Name, name) {
			return inst, true
		}
	}
	return Instance{}, false
}
