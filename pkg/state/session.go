package state

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/jwebster45206/lost-in-space/pkg/actor"
	"github.com/jwebster45206/lost-in-space/pkg/world"
)

// Phase is where the session is in its lifecycle.
type Phase string

const (
	PhasePlaying  Phase = "playing"
	PhaseGameOver Phase = "game_over"
	PhaseWon      Phase = "won"
	PhaseQuit     Phase = "quit"
)

// Terminal reports whether no further commands are accepted.
func (p Phase) Terminal() bool {
	return p == PhaseQuit || p == PhaseWon
}

// WorldLoader produces a freshly loaded world. It is called at start and on
// every restart.
type WorldLoader interface {
	LoadWorld(ctx context.Context) (*world.World, error)
}

// WorldLoaderFunc adapts a function to WorldLoader.
type WorldLoaderFunc func(ctx context.Context) (*world.World, error)

func (f WorldLoaderFunc) LoadWorld(ctx context.Context) (*world.World, error) {
	return f(ctx)
}

const (
	DefaultOxygenPerMove = 2
	DefaultPlayerName    = "astronaut"
)

// Options tune a session.
type Options struct {
	PlayerName     string
	StartingOxygen int
	OxygenPerMove  int  // Zero or less means DefaultOxygenPerMove
	FreeMoves      bool // Moves cost no oxygen, whatever OxygenPerMove says
	// EndConditions run after every accepted command. OxygenDepleted is
	// always checked first.
	EndConditions []EndCondition
}

func (o Options) withDefaults() Options {
	if o.PlayerName == "" {
		o.PlayerName = DefaultPlayerName
	}
	if o.StartingOxygen <= 0 {
		o.StartingOxygen = actor.DefaultOxygen
	}
	switch {
	case o.FreeMoves:
		o.OxygenPerMove = 0
	case o.OxygenPerMove <= 0:
		o.OxygenPerMove = DefaultOxygenPerMove
	}
	return o
}

// carriedItem remembers where a picked up item came from, so its point of
// interest can still be found.
type carriedItem struct {
	Item world.Item
	Room string
}

// Session is the mutable state of one playthrough. It is owned by a single
// game loop and is not safe for concurrent use.
type Session struct {
	ID       uuid.UUID
	Location string
	Phase    Phase
	Turn     int
	Player   *actor.Player
	World    *world.World // Session-scoped copy; items and POIs change here

	carried map[string]carriedItem
	loader  WorldLoader
	opts    Options
	baseLog *slog.Logger
	log     *slog.Logger
}

// NewSession loads the world and starts a new game in its start room.
func NewSession(ctx context.Context, loader WorldLoader, opts Options, log *slog.Logger) (*Session, error) {
	if loader == nil {
		return nil, errors.New("world loader cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}

	s := &Session{
		loader:  loader,
		opts:    opts.withDefaults(),
		baseLog: log,
	}
	if err := s.reset(ctx); err != nil {
		return nil, err
	}
	s.log.Info("Session started", "world", s.World.Title, "location", s.Location)
	return s, nil
}

// reset reloads the world and puts every field back to its initial value.
// On failure the session is left untouched.
func (s *Session) reset(ctx context.Context) error {
	w, err := s.loader.LoadWorld(ctx)
	if err != nil {
		return fmt.Errorf("failed to load world: %w", err)
	}
	if w == nil {
		return errors.New("failed to load world: loader returned no world")
	}

	player, err := actor.NewPlayer(s.opts.PlayerName, s.opts.StartingOxygen)
	if err != nil {
		return err
	}

	s.ID = uuid.New()
	s.World = w.Clone()
	s.Location = s.World.StartRoom()
	s.Phase = PhasePlaying
	s.Turn = 0
	s.Player = player
	s.carried = make(map[string]carriedItem)
	s.log = s.baseLog.With("session_id", s.ID.String())
	return nil
}

// CurrentRoom returns the room the player is in.
func (s *Session) CurrentRoom() (*world.Room, error) {
	return s.World.FindRoom(s.Location)
}

// Status is a read-only snapshot for the display layer.
type Status struct {
	Title       string
	Location    string
	Description string
	Inventory   []string
	Oxygen      int
	Phase       Phase
	Turn        int
}

// Status captures the current session state.
func (s *Session) Status() Status {
	st := Status{
		Title:     s.World.Title,
		Location:  s.Location,
		Inventory: s.Player.InventoryList(),
		Oxygen:    s.Player.Oxygen(),
		Phase:     s.Phase,
		Turn:      s.Turn,
	}
	if room, err := s.CurrentRoom(); err == nil {
		st.Description = room.Description
	}
	return st
}

// String renders the status the way the game shows it between turns.
func (st Status) String() string {
	var b strings.Builder
	b.WriteString("You are in the " + st.Location + "\n\n")
	if st.Description != "" {
		b.WriteString(st.Description + "\n\n")
	}
	b.WriteString(describeInventory(st.Inventory) + "\n\n")
	b.WriteString(describeOxygen(st.Oxygen))
	return b.String()
}

func describeInventory(items []string) string {
	if len(items) == 0 {
		return "Your inventory is empty."
	}
	return "Inventory: " + strings.Join(items, ", ")
}

func describeOxygen(level int) string {
	return fmt.Sprintf("Oxygen Level: %d percent", level)
}
