package memory

import (
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/custodia-labs/timetable-cli/internal/adapters/driven/config"
	"github.com/custodia-labs/timetable-cli/internal/core/ports/driven"
)

var _ driven.ConfigStore = (*ConfigStore)(nil)

// ConfigStore keeps settings in a map. Nothing outlives the process.
type ConfigStore struct {
	mu     sync.RWMutex
	values map[string]any
}

func NewConfigStore() *ConfigStore {
	return &ConfigStore{values: map[string]any{}}
}

func (s *ConfigStore) Lookup(key string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	return v, ok
}

func (s *ConfigStore) String(key string) (string, bool) {
	v, _ := s.Lookup(key)
	return config.AsString(v)
}

func (s *ConfigStore) Int(key string) (int, bool) {
	v, _ := s.Lookup(key)
	return config.AsInt(v)
}

func (s *ConfigStore) Float(key string) (float64, bool) {
	v, _ := s.Lookup(key)
	return config.AsFloat(v)
}

func (s *ConfigStore) Duration(key string) (time.Duration, bool) {
	v, _ := s.Lookup(key)
	return config.AsDuration(v)
}

func (s *ConfigStore) Set(key string, value any) error {
	s.mu.Lock()
	s.values[key] = value
	s.mu.Unlock()
	return nil
}

func (s *ConfigStore) Unset(keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, k := range keys {
		delete(s.values, k)
	}
	return nil
}

func (s *ConfigStore) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Sorted(maps.Keys(s.values))
}

func (s *ConfigStore) Location() string {
	return "memory"
}
