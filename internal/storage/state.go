package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// State keys used by forge
const (
	KeyAIEnabled = "aiEnabled"
)

// StateStore is a small persistent string key/value store backing the
// script buffers and UI settings between sessions
type StateStore struct {
	dir    string
	file   string
	values map[string]string
	mu     sync.RWMutex // Protects values from concurrent access
}

// NewStateStore creates a state store kept in <baseDir>/state.json
func NewStateStore(baseDir string) *StateStore {
	return &StateStore{
		dir:    baseDir,
		file:   filepath.Join(baseDir, "state.json"),
		values: make(map[string]string),
	}
}

// Path returns the backing file
func (s *StateStore) Path() string {
	return s.file
}

// Load reads the state from disk
func (s *StateStore) Load() error {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}

	data, err := os.ReadFile(s.file)
	if os.IsNotExist(err) {
		return nil // Nothing saved yet
	}
	if err != nil {
		return fmt.Errorf("failed to read state file: %w", err)
	}

	values := make(map[string]string)
	if err := json.Unmarshal(data, &values); err != nil {
		// If state is corrupted, start fresh
		values = make(map[string]string)
	}

	s.mu.Lock()
	s.values = values
	s.mu.Unlock()

	return nil
}

// Save writes the state to disk through a temporary file so a crash never
// leaves a truncated file behind
func (s *StateStore) Save() error {
	s.mu.RLock()
	data, err := json.MarshalIndent(s.values, "", "  ")
	s.mu.RUnlock()
	if err != nil {
		return fmt.Errorf("failed to marshal state: %w", err)
	}

	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}
	tmp := s.file + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("failed to write state file: %w", err)
	}
	if err := os.Rename(tmp, s.file); err != nil {
		return fmt.Errorf("failed to replace state file: %w", err)
	}

	return nil
}

// Get returns the value stored under key
func (s *StateStore) Get(key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	return v, ok
}

// Set stores value under key and persists the store
func (s *StateStore) Set(key, value string) error {
	s.mu.Lock()
	s.values[key] = value
	s.mu.Unlock()
	return s.Save()
}

// Bool returns the boolean stored under key, or def when unset
func (s *StateStore) Bool(key string, def bool) bool {
	v, ok := s.Get(key)
	if !ok {
		return def
	}
	return v == "true"
}

// SetBool stores a boolean under key
func (s *StateStore) SetBool(key string, value bool) error {
	if value {
		return s.Set(key, "true")
	}
	return s.Set(key, "false")
}
