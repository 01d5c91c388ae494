package instance

import (
	"errors"
	"fmt"
)

// Resolver turns the current configuration into an instance list. It keeps no
// cache: every call reads configuration again so edits apply immediately.
type Resolver struct {
	load func() (Source, error)
}

// NewResolver builds a Resolver that reads its Source through load.
func NewResolver(load func() (Source, error)) *Resolver {
	return &Resolver{load: load}
}

// Resolve returns the configured instances in declaration order. Exactly one
// entry carries IsDefault in the result: the first one marked, or the first
// entry when none is.
func (r *Resolver) Resolve() ([]Instance, error) {
	if r == nil || r.load == nil {
		return nil, &ConfigurationError{Err: ErrNoInstancesConfigured}
	}
	src, err := r.load()
	if err != nil {
		var cfgErr *ConfigurationError
		if errors.As(err, &cfgErr) {
			return nil, err
		}
		return nil, &ConfigurationError{Err: err}
	}
	if src == nil {
		return nil, &ConfigurationError{Err: ErrNoInstancesConfigured}
	}

	list, err := src.instances()
	if err != nil {
		return nil, &ConfigurationError{Source: src.kind(), Err: err}
	}
	if err := uniqueNames(list); err != nil {
		return nil, &ConfigurationError{Source: src.kind(), Err: err}
	}
	return markDefault(list), nil
}

// Default resolves the configuration and returns its default instance.
func (r *Resolver) Default() (Instance, error) {
	list, err := r.Resolve()
	if err != nil {
		return Instance{}, err
	}
	return Default(list)
}

// uniqueNames rejects lists where two entries share a name. Everything
// downstream keys instances by name.
func uniqueNames(list []Instance) error {
	seen := make(map[string]int, len(list))
	for i, inst := range list {
		if prev, dup := seen[inst.Name]; dup {
			return fmt.Errorf("instance %d: name %q already used by instance %d", i, inst.Name, prev)
		}
		seen[inst.Name] = i
	}
	return nil
}

func markDefault(list []Instance) []Instance {
	if len(list) == 0 {
		return list
	}
	chosen := 0
	for i, inst := range list {
		if inst.IsDefault {
			chosen = i
			break
		}
	}
	out := make([]Instance, len(list))
	for i, inst := range list {
		inst.IsDefault = i == chosen
		out[i] = inst
	}
	return out
}
