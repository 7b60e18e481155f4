package prefs

import (
	"sync"

	"fleettrack/internal/registry"

	"github.com/spf13/cast"
)

// Store is the key→value lookup holding user-level preferences. Persistence
// lives outside this service; the in-memory implementation is seeded from
// config and whatever the session layer pushes in.
type Store interface {
	Get(name string) (any, bool)
}

// MemoryStore is a Store backed by a plain map.
type MemoryStore struct {
	mu     sync.RWMutex
	values map[string]any
}

func NewMemoryStore(seed map[string]any) *MemoryStore {
	values := make(map[string]any, len(seed))
	for k, v := range seed {
		values[k] = v
	}
	return &MemoryStore{values: values}
}

func (s *MemoryStore) Get(name string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[name]
	return v, ok
}

func (s *MemoryStore) Set(name string, value any) {
	s.mu.Lock()
	s.values[name] = value
	s.mu.Unlock()
}

// Resolver resolves a named display attribute with device-level override.
// Lookup order: device attribute (present and non-empty) → user preference →
// supplied default. Lookups never fail; absence yields the default.
type Resolver struct {
	store    Store
	registry *registry.Store
}

func NewResolver(store Store, reg *registry.Store) *Resolver {
	return &Resolver{store: store, registry: reg}
}

// String resolves a string-valued preference. Pass deviceID 0 to skip the
// device override.
func (r *Resolver) String(name string, deviceID int64, fallback string) string {
	if deviceID != 0 {
		if device := r.registry.Device(deviceID); device != nil {
			if v := device.Attribute(name); v != "" {
				return v
			}
		}
	}
	if v, ok := r.store.Get(name); ok {
		if s := cast.ToString(v); s != "" {
			return s
		}
	}
	return fallback
}

func (r *Resolver) Float(name string, deviceID int64, fallback float64) float64 {
	if deviceID != 0 {
		if device := r.registry.Device(deviceID); device != nil {
			if v := device.Attribute(name); v != "" {
				if f, err := cast.ToFloat64E(v); err == nil {
					return f
				}
			}
		}
	}
	if v, ok := r.store.Get(name); ok {
		if f, err := cast.ToFloat64E(v); err == nil {
			return f
		}
	}
	return fallback
}

func (r *Resolver) Bool(name string, deviceID int64, fallback bool) bool {
	if deviceID != 0 {
		if device := r.registry.Device(deviceID); device != nil {
			if v := device.Attribute(name); v != "" {
				if b, err := cast.ToBoolE(v); err == nil {
					return b
				}
			}
		}
	}
	if v, ok := r.store.Get(name); ok {
		if b, err := cast.ToBoolE(v); err == nil {
			return b
		}
	}
	return fallback
}
