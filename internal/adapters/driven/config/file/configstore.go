package file

import (
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/custodia-labs/timetable-cli/internal/adapters/driven/config"
	"github.com/custodia-labs/timetable-cli/internal/core/ports/driven"
)

var _ driven.ConfigStore = (*ConfigStore)(nil)

// EnvPrefix starts the environment variables that override stored keys.
// "crawl.workers" is overridden by TIMETABLE_CRAWL_WORKERS.
const EnvPrefix = "TIMETABLE_"

// ConfigStore keeps settings in a TOML file. Dotted keys are written as
// tables, so "crawl.workers" lands under [crawl].
type ConfigStore struct {
	mu     sync.RWMutex
	path   string
	values map[string]any
	getenv func(string) (string, bool)
}

// NewConfigStore opens config.toml inside configDir, creating the directory
// when needed. An empty configDir means ~/.timetable.
func NewConfigStore(configDir string) (*ConfigStore, error) {
	if configDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("locate home directory: %w", err)
		}
		configDir = filepath.Join(home, ".timetable")
	}
	if err := os.MkdirAll(configDir, 0o700); err != nil {
		return nil, fmt.Errorf("create config directory: %w", err)
	}

	s := &ConfigStore{
		path:   filepath.Join(configDir, "config.toml"),
		values: map[string]any{},
		getenv: os.LookupEnv,
	}
	if err := s.Reload(); err != nil {
		return nil, err
	}
	return s, nil
}

// EnvName returns the environment variable that overrides key.
func EnvName(key string) string {
	return EnvPrefix + strings.ToUpper(strings.NewReplacer(".", "_", "-", "_").Replace(key))
}

// Lookup returns the environment override for key when one is set,
// otherwise the stored value.
func (s *ConfigStore) Lookup(key string) (any, bool) {
	if v, ok := s.getenv(EnvName(key)); ok {
		return v, true
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	return v, ok
}

func (s *ConfigStore) String(key string) (string, bool) {
	v, ok := s.Lookup(key)
	if !ok {
		return "", false
	}
	return config.AsString(v)
}

func (s *ConfigStore) Int(key string) (int, bool) {
	v, ok := s.Lookup(key)
	if !ok {
		return 0, false
	}
	return config.AsInt(v)
}

func (s *ConfigStore) Float(key string) (float64, bool) {
	v, ok := s.Lookup(key)
	if !ok {
		return 0, false
	}
	return config.AsFloat(v)
}

func (s *ConfigStore) Duration(key string) (time.Duration, bool) {
	v, ok := s.Lookup(key)
	if !ok {
		return 0, false
	}
	return config.AsDuration(v)
}

// Set stores value and rewrites the file. The in-memory value is rolled back
// when the write fails.
func (s *ConfigStore) Set(key string, value any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev, had := s.values[key]
	s.values[key] = value
	if err := s.write(); err != nil {
		if had {
			s.values[key] = prev
		} else {
			delete(s.values, key)
		}
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

// Unset removes keys and rewrites the file once.
func (s *ConfigStore) Unset(keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := map[string]any{}
	for _, k := range keys {
		if v, ok := s.values[k]; ok {
			removed[k] = v
			delete(s.values, k)
		}
	}
	if len(removed) == 0 {
		return nil
	}
	if err := s.write(); err != nil {
		maps.Copy(s.values, removed)
		return fmt.Errorf("unset %s: %w", strings.Join(keys, ", "), err)
	}
	return nil
}

// Keys lists stored keys. Environment overrides are not included.
func (s *ConfigStore) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Sorted(maps.Keys(s.values))
}

// Location returns the path of the TOML file.
func (s *ConfigStore) Location() string {
	return s.path
}

// Reload replaces the in-memory values with the file contents. A missing
// file leaves the store empty.
func (s *ConfigStore) Reload() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		s.values = map[string]any{}
		return nil
	}
	if err != nil {
		return fmt.Errorf("read %s: %w", s.path, err)
	}

	var doc map[string]any
	if err := toml.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("parse %s: %w", s.path, err)
	}
	s.values = map[string]any{}
	flatten("", doc, s.values)
	return nil
}

// write replaces the file through a temporary sibling. Callers hold mu.
func (s *ConfigStore) write() error {
	doc, err := nest(s.values)
	if err != nil {
		return err
	}
	raw, err := toml.Marshal(doc)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".config-*.toml")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), s.path)
}

func flatten(prefix string, doc map[string]any, out map[string]any) {
	for k, v := range doc {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		if table, ok := v.(map[string]any); ok {
			flatten(key, table, out)
			continue
		}
		out[key] = v
	}
}

// nest turns dotted keys back into TOML tables.
func nest(values map[string]any) (map[string]any, error) {
	doc := map[string]any{}
	for _, key := range slices.Sorted(maps.Keys(values)) {
		parts := strings.Split(key, ".")
		table := doc
		for i, part := range parts[:len(parts)-1] {
			next, exists := table[part]
			if !exists {
				child := map[string]any{}
				table[part] = child
				table = child
				continue
			}
			child, ok := next.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("key %q conflicts with value at %q", key, strings.Join(parts[:i+1], "."))
			}
			table = child
		}
		leaf := parts[len(parts)-1]
		if _, ok := table[leaf].(map[string]any); ok {
			return nil, fmt.Errorf("key %q conflicts with table of the same name", key)
		}
		table[leaf] = values[key]
	}
	return doc, nil
}
