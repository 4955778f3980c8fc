package storage

import (
	"context"

	"github.com/jwebster45206/lost-in-space/pkg/world"
)

// Loader builds a fresh world from one file in a WorldStore.
type Loader struct {
	Store WorldStore
	File  string
}

func (l Loader) LoadWorld(ctx context.Context) (*world.World, error) {
	def, err := l.Store.GetDefinition(ctx, l.File)
	if err != nil {
		return nil, err
	}
	return world.New(def)
}
