package storage

import (
	"context"
	"testing"

	"github.com/jwebster45206/lost-in-space/pkg/world"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoader_LoadWorld(t *testing.T) {
	store := NewMockStore()
	store.AddWorld("ship.json", testDefinition())

	w, err := Loader{Store: store, File: "ship.json"}.LoadWorld(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Bridge", w.StartRoom())

	to, err := world.Move(w, "Bridge", "north")
	require.NoError(t, err)
	assert.Equal(t, "CargoBay", to)
}

func TestLoader_Errors(t *testing.T) {
	store := NewMockStore()
	store.AddWorld("dangling.json", &world.Definition{
		Rooms: []world.RoomDefinition{{Name: "Bridge", Exits: world.Exit{North: "Nowhere"}}},
	})

	_, err := Loader{Store: store, File: "missing.json"}.LoadWorld(context.Background())
	assert.ErrorIs(t, err, ErrWorldNotFound)

	_, err = Loader{Store: store, File: "dangling.json"}.LoadWorld(context.Background())
	var verr *world.ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestLoader_FromFiles(t *testing.T) {
	dataDir := writeWorlds(t, map[string]string{"ship.json": shipJSON})
	loader := Loader{Store: NewFileStore(dataDir, 0, testLogger()), File: "ship.json"}

	w, err := loader.LoadWorld(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Test Ship", w.Title)
	assert.Len(t, w.Rooms(), 2)
}
