package artifact

import (
	"context"
	"slices"
	"sync"
)

// MemorySink keeps artifacts in memory. It is safe for concurrent use.
type MemorySink struct {
	mu    sync.RWMutex
	blobs map[string][]byte
}

// NewMemorySink returns an empty memory sink.
func NewMemorySink() *MemorySink {
	return &MemorySink{blobs: make(map[string][]byte)}
}

// Put stores a copy of data under name and returns name.
func (s *MemorySink) Put(_ context.Context, name string, data []byte) (string, error) {
	if err := validate(name); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.blobs[name] = slices.Clone(data)
	return name, nil
}

// Get returns the artifact stored under name.
func (s *MemorySink) Get(name string) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.blobs[name]
	return data, ok
}
