package store

import (
	"errors"
	"io/fs"
	"strings"
	"sync"

	"github.com/spf13/viper"

	"quill/internal/logger"
)

// ViperStore is a YAML-file settings store. Values are held flat in memory
// under slash-delimited keys and serialized through viper, which nests them
// on disk. In-memory state stays authoritative: a failed Save leaves the
// session state intact.
//
// viper lowercases keys on serialization, so this backend treats keys as
// case-insensitive: every key is normalized to lowercase on the way in,
// which keeps mixed-case keys round-tripping through the file.
type ViperStore struct {
	mu     sync.RWMutex
	path   string
	values map[string]any
}

// OpenViperStore loads the settings file at path. A missing file yields an
// empty store; an unreadable or malformed file is logged and also yields an
// empty store rather than failing startup.
func OpenViperStore(path string) *ViperStore {
	s := &ViperStore{
		path:   path,
		values: make(map[string]any),
	}

	v := viper.NewWithOptions(viper.KeyDelimiter("/"))
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) || errors.Is(err, fs.ErrNotExist) {
			logger.Debug("Settings file absent, starting empty", "path", path)
			return s
		}
		logger.Warn("Settings file unreadable, starting empty", "path", path, "error", err)
		return s
	}

	for _, key := range v.AllKeys() {
		s.values[key] = v.Get(key)
	}
	logger.Debug("Settings loaded", "path", path, "keys", len(s.values))
	return s
}

// GetString returns the string value for key, or def when absent.
func (s *ViperStore) GetString(key, def string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.values[strings.ToLower(key)]
	if !ok {
		return def
	}
	return stringify(v)
}

// GetInt returns the int value for key, or def when absent or non-numeric.
func (s *ViperStore) GetInt(key string, def int) int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.values[strings.ToLower(key)]
	if !ok {
		return def
	}
	if n, ok := intify(v); ok {
		return n
	}
	return def
}

// Set stores a value under key. The change is durable after the next Save.
func (s *ViperStore) Set(key string, value any) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.values[strings.ToLower(key)] = value
}

// Remove deletes key if present.
func (s *ViperStore) Remove(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.values, strings.ToLower(key))
}

// Has reports whether key is present.
func (s *ViperStore) Has(key string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.values[strings.ToLower(key)]
	return ok
}

// Save writes the full key set back to the settings file.
func (s *ViperStore) Save() error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v := viper.NewWithOptions(viper.KeyDelimiter("/"))
	v.SetConfigType("yaml")
	for key, value := range s.values {
		v.Set(key, value)
	}
	return v.WriteConfigAs(s.path)
}
