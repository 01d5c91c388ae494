// Package selection tracks which configured Radarr instance is current. A
// persisted override, written when the user switches instances, takes
// precedence over the configured default for as long as it still matches a
// configured instance.
package selection

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/five82/reel/internal/instance"
)

// Slot is a single persisted key-value slot holding the serialized override.
type Slot interface {
	Get(ctx context.Context) (value string, ok bool, err error)
	Set(ctx context.Context, value string) error
	Delete(ctx context.Context) error
}

// Lister yields the currently configured instances.
type Lister interface {
	Resolve() ([]instance.Instance, error)
}

// ErrorHook receives errors the store recovers from on its own.
type ErrorHook func(op string, err error)

var (
	// ErrStaleOverride is reported when the override no longer matches any
	// configured instance.
	ErrStaleOverride = errors.New("selected instance is no longer configured")
	errNilStore      = errors.New("selection store is nil")
)

// Store resolves the current instance from the override slot and the
// configuration.
type Store struct {
	slot    Slot
	lister  Lister
	observe ErrorHook
}

// NewStore builds a Store. A nil hook discards recovered errors.
func NewStore(slot Slot, lister Lister, hook ErrorHook) *Store {
	if hook == nil {
		hook = func(string, error) {}
	}
	return &Store{slot: slot, lister: lister, observe: hook}
}

// Current returns the override when it still matches a configured instance
// by name and URL, otherwise the configured default. A stale or unreadable
// override is deleted.
func (s *Store) Current(ctx context.Context) (instance.Instance, error) {
	if s == nil || s.lister == nil {
		return instance.Instance{}, errNilStore
	}

	list, err := s.lister.Resolve()
	if err != nil {
		return instance.Instance{}, err
	}

	if s.slot != nil {
		if persisted, ok := s.readOverride(ctx); ok {
			for _, inst := range list {
				if inst.Same(persisted) {
					return persisted, nil
				}
			}
			s.observe("match", fmt.Errorf("%w: %q", ErrStaleOverride, persisted.Name))
			s.clear(ctx)
		}
	}

	return instance.Default(list)
}

// SetCurrent overwrites the override with inst. Callers pass an instance taken
// from the resolved configuration; nothing is validated here.
func (s *Store) SetCurrent(ctx context.Context, inst instance.Instance) error {
	if s == nil || s.slot == nil {
		return errNilStore
	}
	data, err := json.Marshal(inst)
	if err != nil {
		return fmt.Errorf("encode selected instance: %w", err)
	}
	if err := s.slot.Set(ctx, string(data)); err != nil {
		return fmt.Errorf("save selected instance: %w", err)
	}
	return nil
}

// Clear removes any override so the configured default applies again.
func (s *Store) Clear(ctx context.Context) error {
	if s == nil || s.slot == nil {
		return errNilStore
	}
	return s.slot.Delete(ctx)
}

func (s *Store) readOverride(ctx context.Context) (instance.Instance, bool) {
	raw, ok, err := s.slot.Get(ctx)
	if err != nil {
		s.observe("read", err)
		s.clear(ctx)
		return instance.Instance{}, false
	}
	if !ok {
		return instance.Instance{}, false
	}

	var persisted instance.Instance
	if err := json.Unmarshal([]byte(raw), &persisted); err != nil {
		s.observe("decode", fmt.Errorf("decode selected instance: %w", err))
		s.clear(ctx)
		return instance.Instance{}, false
	}
	if persisted.Name == "" || persisted.URL == "" {
		s.observe("decode", errors.New("selected instance is missing name or url"))
		s.clear(ctx)
		return instance.Instance{}, false
	}
	return persisted, true
}

func (s *Store) clear(ctx context.Context) {
	if err := s.slot.Delete(ctx); err != nil {
		s.observe("delete", err)
	}
}

// MemorySlot is an in-process Slot.
type MemorySlot struct {
	mu    sync.Mutex
	value string
	set   bool
}

// Get implements Slot.
func (m *MemorySlot) Get(context.Context) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.value, m.set, nil
}

// Set implements Slot.
func (m *MemorySlot) Set(_ context.Context, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.value, m.set = value, true
	return nil
}

// Delete implements Slot.
func (m *MemorySlot) Delete(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.value, m.set = "", false
	return nil
}
