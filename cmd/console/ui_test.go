package main

import (
	"context"
	"io"
	"log/slog"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/jwebster45206/lost-in-space/internal/config"
	"github.com/jwebster45206/lost-in-space/internal/storage"
	"github.com/jwebster45206/lost-in-space/pkg/state"
	"github.com/jwebster45206/lost-in-space/pkg/world"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testUI(t *testing.T) ConsoleUI {
	t.Helper()
	m, _ := testUIWithStore(t)
	return m
}

func testUIWithStore(t *testing.T) (ConsoleUI, *storage.MockStore) {
	t.Helper()
	store := storage.NewMockStore()
	store.AddWorld("ship.json", &world.Definition{
		Title: "Test Ship",
		Rooms: []world.RoomDefinition{
			{Name: "Bridge", Description: "The command deck.", Exits: world.Exit{North: "CargoBay"}},
			{Name: "CargoBay", Description: "Crates everywhere.", Exits: world.Exit{South: "Bridge"}},
		},
	})
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	opts := state.Options{StartingOxygen: 100, OxygenPerMove: 2}
	names, worlds, err := listWorlds(context.Background(), store)
	require.NoError(t, err)
	return NewConsoleUI(store, opts, log, names, worlds, "ship.json"), store
}

// startGame selects the highlighted world and runs the load command.
func startGame(t *testing.T, m ConsoleUI) ConsoleUI {
	t.Helper()
	model, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	model, cmd := model.(ConsoleUI).Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	model, _ = model.(ConsoleUI).Update(cmd())
	return model.(ConsoleUI)
}

func send(m ConsoleUI, input string) (ConsoleUI, tea.Cmd) {
	m.textarea.SetValue(input)
	model, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	return model.(ConsoleUI), cmd
}

func TestConsoleUI_StartsSession(t *testing.T) {
	m := startGame(t, testUI(t))

	require.NotNil(t, m.session)
	assert.False(t, m.showWorldModal)
	assert.True(t, m.ready)
	require.Len(t, m.transcript, 1)
	assert.Contains(t, m.transcript[0].message, "You are in the Bridge")
}

func TestConsoleUI_PlaysCommands(t *testing.T) {
	m := startGame(t, testUI(t))

	m, _ = send(m, "go north")
	assert.Equal(t, "CargoBay", m.session.Location)
	assert.Equal(t, state.OutcomeOK, m.transcript[len(m.transcript)-1].outcome)
	assert.Empty(t, m.textarea.Value())

	m, _ = send(m, "go up")
	assert.Equal(t, state.OutcomeBlocked, m.transcript[len(m.transcript)-1].outcome)

	m, cmd := send(m, "quit")
	assert.Equal(t, state.PhaseQuit, m.session.Phase)
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestConsoleUI_ConsoleCommands(t *testing.T) {
	m := startGame(t, testUI(t))

	m, _ = send(m, "/clear")
	assert.Empty(t, m.transcript)

	m, _ = send(m, "/bogus")
	require.Len(t, m.transcript, 1)
	assert.Equal(t, state.OutcomeInvalidCommand, m.transcript[0].outcome)

	m, _ = send(m, "/worlds")
	assert.True(t, m.showWorldModal)

	model, _ := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.False(t, model.(ConsoleUI).showWorldModal)
}

func TestConsoleUI_Reload(t *testing.T) {
	m, store := testUIWithStore(t)
	m = startGame(t, m)
	assert.Equal(t, "ship.json", m.file)

	m, _ = send(m, "go north")
	require.Equal(t, "CargoBay", m.session.Location)
	oldID := m.session.ID

	m, cmd := send(m, "/reload")
	require.NotNil(t, cmd)
	assert.True(t, m.loading)
	assert.Equal(t, 1, store.Invalidations("ship.json"))

	model, _ := m.Update(cmd())
	m = model.(ConsoleUI)
	assert.False(t, m.loading)
	assert.False(t, m.showWorldModal)
	assert.Equal(t, "Bridge", m.session.Location)
	assert.NotEqual(t, oldID, m.session.ID)
	assert.Equal(t, 2, store.Gets("ship.json"))
}

func TestSessionOptions(t *testing.T) {
	opts := sessionOptions(&config.Config{StartingOxygen: 50, OxygenPerMove: 3})
	assert.Equal(t, 3, opts.OxygenPerMove)
	assert.False(t, opts.FreeMoves)

	opts = sessionOptions(&config.Config{StartingOxygen: 50, OxygenPerMove: 0})
	assert.True(t, opts.FreeMoves)
}

func TestConsoleUI_QuitModal(t *testing.T) {
	m := startGame(t, testUI(t))

	model, _ := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	m = model.(ConsoleUI)
	assert.True(t, m.showQuitModal)

	model, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'n'}})
	assert.False(t, model.(ConsoleUI).showQuitModal)
}

func TestRenderOxygenGauge(t *testing.T) {
	full := renderOxygenGauge(100, 100, 10)
	empty := renderOxygenGauge(0, 100, 10)

	assert.Contains(t, full, "██████████")
	assert.Contains(t, empty, "░░░░░░░░░░")
}
