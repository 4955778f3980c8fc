package storage

import (
	"context"
	"errors"

	"github.com/jwebster45206/lost-in-space/pkg/world"
)

// ErrWorldNotFound is returned when a world file does not exist.
var ErrWorldNotFound = errors.New("world not found")

// HealthChecker defines basic health check capabilities
type HealthChecker interface {
	// Ping tests the backing store
	Ping(ctx context.Context) error
}

// Closer defines cleanup capabilities
type Closer interface {
	Close() error
}

// WorldStore serves world definitions by file name.
type WorldStore interface {
	HealthChecker
	Closer

	// ListWorlds maps world titles to their file names
	ListWorlds(ctx context.Context) (map[string]string, error)

	// GetDefinition returns the decoded definition in a world file.
	// Callers must not mutate the result.
	GetDefinition(ctx context.Context, filename string) (*world.Definition, error)
}

// Invalidator drops cached copies of a world so the next read goes back to
// the file.
type Invalidator interface {
	Invalidate(ctx context.Context, filename string) error
}
