package world

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ErrBlocked is matched by every BlockedError.
var ErrBlocked = errors.New("movement blocked")

// Direction is one of the four compass directions. There are no diagonals.
type Direction int

const (
	North Direction = iota
	South
	East
	West
)

// Directions lists every direction in survey order.
var Directions = []Direction{North, South, East, West}

func (d Direction) String() string {
	switch d {
	case North:
		return "north"
	case South:
		return "south"
	case East:
		return "east"
	case West:
		return "west"
	}
	return "unknown"
}

// Label is the capitalized name shown to the player.
func (d Direction) Label() string {
	return cases.Title(language.English).String(d.String())
}

var directionAliases = map[string]Direction{
	"north": North,
	"n":     North,
	"south": South,
	"s":     South,
	"east":  East,
	"e":     East,
	"west":  West,
	"w":     West,
}

// ParseDirection normalizes a direction token.
func ParseDirection(token string) (Direction, bool) {
	d, ok := directionAliases[fold(strings.TrimSpace(token))]
	return d, ok
}

// BlockReason explains why a move was refused.
type BlockReason int

const (
	InvalidDirection BlockReason = iota
	NoExit
)

func (r BlockReason) String() string {
	if r == NoExit {
		return "no exit"
	}
	return "invalid direction"
}

// BlockedError is returned by Move when the player cannot go that way.
type BlockedError struct {
	Reason    BlockReason
	Direction string // As typed by the player
}

func (e *BlockedError) Error() string {
	return fmt.Sprintf("%s: %s %q", ErrBlocked, e.Reason, e.Direction)
}

func (e *BlockedError) Is(target error) bool {
	return target == ErrBlocked
}

// Message is the player-facing explanation.
func (e *BlockedError) Message() string {
	hint := "Choose a valid direction. (Hint: INSPECT ROOM if you're lost)"
	if e.Reason == NoExit {
		hint = "There is no EXIT in that DIRECTION. (Hint: INSPECT ROOM if you're lost)"
	}
	return "INVALID DIRECTION: " + e.Direction + "\n\n" + hint
}

// Move resolves the room reached by going in a direction from the current
// room. It has no side effects; the caller re-points its location.
func Move(w *World, current, direction string) (string, error) {
	room, err := w.FindRoom(current)
	if err != nil {
		return "", err
	}
	d, ok := ParseDirection(direction)
	if !ok {
		return "", &BlockedError{Reason: InvalidDirection, Direction: direction}
	}
	to := room.Exits.To(d)
	if to == "" {
		return "", &BlockedError{Reason: NoExit, Direction: direction}
	}
	return to, nil
}

// fold normalizes player-typed names. Item, POI and direction lookups all go
// through it; room names are exact keys.
func fold(s string) string {
	return cases.Fold().String(s)
}
