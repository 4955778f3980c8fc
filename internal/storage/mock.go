package storage

import (
	"context"
	"fmt"
	"sync"

	"github.com/jwebster45206/lost-in-space/pkg/world"
)

// MockStore is an in-memory WorldStore for testing
type MockStore struct {
	mu        sync.RWMutex
	worlds    map[string]*world.Definition
	gets          map[string]int
	invalidations map[string]int
	pingError     error
	closeError    error
	closed        bool
}

var (
	_ WorldStore  = (*MockStore)(nil)
	_ Invalidator = (*MockStore)(nil)
)

// NewMockStore creates a new mock store
func NewMockStore() *MockStore {
	return &MockStore{
		worlds:        make(map[string]*world.Definition),
		gets:          make(map[string]int),
		invalidations: make(map[string]int),
	}
}

// SetPingError configures the mock to fail on ping
func (m *MockStore) SetPingError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pingError = err
}

// AddWorld registers a definition under a file name
func (m *MockStore) AddWorld(filename string, def *world.Definition) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.worlds[filename] = def
}

// Gets reports how many times a file was read
func (m *MockStore) Gets(filename string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.gets[filename]
}

func (m *MockStore) Ping(ctx context.Context) error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.pingError
}

// SetCloseError configures the mock to fail on close
func (m *MockStore) SetCloseError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closeError = err
}

// Closed reports whether Close was called
func (m *MockStore) Closed() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.closed
}

// Invalidations reports how many times a file was invalidated
func (m *MockStore) Invalidations(filename string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.invalidations[filename]
}

func (m *MockStore) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return m.closeError
}

func (m *MockStore) Invalidate(ctx context.Context, filename string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.invalidations[filename]++
	return nil
}

func (m *MockStore) ListWorlds(ctx context.Context) (map[string]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[string]string, len(m.worlds))
	for file, def := range m.worlds {
		out[def.Title] = file
	}
	return out, nil
}

func (m *MockStore) GetDefinition(ctx context.Context, filename string) (*world.Definition, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gets[filename]++
	def, ok := m.worlds[filename]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrWorldNotFound, filename)
	}
	return def, nil
}
