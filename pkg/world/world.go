package world

import (
	"errors"
	"fmt"
)

// ErrRoomNotFound is returned when a room name is not part of the world.
var ErrRoomNotFound = errors.New("room not found")

// Item is something the player can pick up and carry.
type Item struct {
	Name     string `json:"name" yaml:"name" validate:"required"`         // Short key used in commands
	FullName string `json:"fullName" yaml:"fullName" validate:"required"` // Display string
}

// POIState is the lifecycle of a point of interest. It only moves forward.
type POIState int

const (
	Unused POIState = iota
	Used
)

func (s POIState) String() string {
	if s == Used {
		return "used"
	}
	return "unused"
}

// PointOfInterest is an inspectable detail tied to an item or room feature.
type PointOfInterest struct {
	Name            string
	Description     string
	UsedDescription string
	State           POIState
}

// Used reports whether the point of interest has been used.
func (p *PointOfInterest) Used() bool {
	return p.State == Used
}

// Describe returns the description matching the current state.
func (p *PointOfInterest) Describe() string {
	if p.Used() {
		return p.UsedDescription
	}
	return p.Description
}

// Exit holds the four directed edges out of a room. An empty edge is no exit.
type Exit struct {
	North string `json:"north" yaml:"north"`
	South string `json:"south" yaml:"south"`
	East  string `json:"east" yaml:"east"`
	West  string `json:"west" yaml:"west"`
}

// To returns the destination in the given direction, or "" when there is none.
func (e Exit) To(d Direction) string {
	switch d {
	case North:
		return e.North
	case South:
		return e.South
	case East:
		return e.East
	case West:
		return e.West
	}
	return ""
}

// Room is a named location node in the world graph.
type Room struct {
	Name        string
	Description string
	Items       []Item
	POIs        []PointOfInterest
	Exits       Exit

	items map[string]int // folded item name -> index in Items
	pois  map[string]int // folded POI name -> index in POIs
}

func (r *Room) reindex() {
	r.items = make(map[string]int, len(r.Items))
	for i, it := range r.Items {
		key := fold(it.Name)
		if _, dup := r.items[key]; !dup {
			r.items[key] = i
		}
	}
	r.pois = make(map[string]int, len(r.POIs))
	for i, p := range r.POIs {
		key := fold(p.Name)
		if _, dup := r.pois[key]; !dup {
			r.pois[key] = i
		}
	}
}

// Item returns the item with the given name, if it is still in the room.
func (r *Room) Item(name string) (*Item, bool) {
	i, ok := r.items[fold(name)]
	if !ok {
		return nil, false
	}
	return &r.Items[i], true
}

// POI returns the point of interest with the given name.
func (r *Room) POI(name string) (*PointOfInterest, bool) {
	i, ok := r.pois[fold(name)]
	if !ok {
		return nil, false
	}
	return &r.POIs[i], true
}

// World is the ordered room graph. After load it is only read, except through
// the session-scoped mutators on a clone.
type World struct {
	Title string
	rooms []*Room
	index map[string]int
	start string
}

// Rooms returns the rooms in load order.
func (w *World) Rooms() []*Room {
	return w.rooms
}

// StartRoom is the room a new session begins in.
func (w *World) StartRoom() string {
	return w.start
}

// FindRoom looks up a room by its unique name.
func (w *World) FindRoom(name string) (*Room, error) {
	i, ok := w.index[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrRoomNotFound, name)
	}
	return w.rooms[i], nil
}

// Clone returns a deep copy so a session can mutate items and POIs without
// touching the loaded world.
func (w *World) Clone() *World {
	c := &World{
		Title: w.Title,
		rooms: make([]*Room, len(w.rooms)),
		index: make(map[string]int, len(w.index)),
		start: w.start,
	}
	for i, r := range w.rooms {
		rc := &Room{
			Name:        r.Name,
			Description: r.Description,
			Items:       append([]Item(nil), r.Items...),
			POIs:        append([]PointOfInterest(nil), r.POIs...),
			Exits:       r.Exits,
		}
		rc.reindex()
		c.rooms[i] = rc
		c.index[rc.Name] = i
	}
	return c
}

// TakeItem removes an item from a room and hands it to the caller.
func (w *World) TakeItem(roomName, itemName string) (Item, bool) {
	room, err := w.FindRoom(roomName)
	if err != nil {
		return Item{}, false
	}
	i, ok := room.items[fold(itemName)]
	if !ok {
		return Item{}, false
	}
	item := room.Items[i]
	room.Items = append(room.Items[:i], room.Items[i+1:]...)
	room.reindex()
	return item, true
}

// MarkUsed flips a point of interest to Used. Using an already used POI is a
// no-op: changed is false and found is true.
func (w *World) MarkUsed(roomName, poiName string) (changed, found bool) {
	room, err := w.FindRoom(roomName)
	if err != nil {
		return false, false
	}
	poi, ok := room.POI(poiName)
	if !ok {
		return false, false
	}
	if poi.Used() {
		return false, true
	}
	poi.State = Used
	return true, true
}
