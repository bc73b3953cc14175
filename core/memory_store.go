package core

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// MemorySettingsStore keeps options in process memory.
type MemorySettingsStore struct {
	mu      sync.RWMutex
	entries map[string][]byte
}

func NewMemorySettingsStore() *MemorySettingsStore {
	return &MemorySettingsStore{entries: map[string][]byte{}}
}

func (s *MemorySettingsStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	if s == nil {
		return nil, false, fmt.Errorf("core: settings store is not configured")
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return nil, false, fmt.Errorf("core: settings key is required")
	}
	s.mu.RLock()
	value, ok := s.entries[key]
	s.mu.RUnlock()
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), value...), true, nil
}

func (s *MemorySettingsStore) Set(_ context.Context, key string, value []byte) error {
	if s == nil {
		return fmt.Errorf("core: settings store is not configured")
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return fmt.Errorf("core: settings key is required")
	}
	s.mu.Lock()
	s.entries[key] = append([]byte(nil), value...)
	s.mu.Unlock()
	return nil
}

func (s *MemorySettingsStore) Delete(_ context.Context, key string) error {
	if s == nil {
		return fmt.Errorf("core: settings store is not configured")
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return fmt.Errorf("core: settings key is required")
	}
	s.mu.Lock()
	delete(s.entries, key)
	s.mu.Unlock()
	return nil
}

func (s *MemorySettingsStore) Keys() []string {
	if s == nil {
		return nil
	}
	s.mu.RLock()
	keys := make([]string, 0, len(s.entries))
	for key := range s.entries {
		keys = append(keys, key)
	}
	s.mu.RUnlock()
	sort.Strings(keys)
	return keys
}

var _ SettingsStore = (*MemorySettingsStore)(nil)
