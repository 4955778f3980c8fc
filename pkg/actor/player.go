package actor

import (
	"fmt"
	"slices"

	"github.com/jwebster45206/d20"
	"golang.org/x/text/cases"
)

// DefaultOxygen is a full tank, in percent.
const DefaultOxygen = 100

// Player is the astronaut: what they carry and how much air is left.
// Oxygen is tracked as the hit points of a d20 actor, so it can only be
// spent, never exceed the tank size.
type Player struct {
	Name      string
	Inventory []string
	tank      *d20.Actor
}

// NewPlayer creates a player with an empty inventory and a full tank.
func NewPlayer(name string, oxygen int) (*Player, error) {
	if oxygen <= 0 {
		return nil, fmt.Errorf("starting oxygen must be positive, got %d", oxygen)
	}

	tank, err := d20.NewActor(name).
		WithHP(oxygen).
		WithAC(10).
		Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build player: %w", err)
	}

	return &Player{
		Name:      name,
		Inventory: make([]string, 0),
		tank:      tank,
	}, nil
}

// Oxygen is the remaining oxygen level.
func (p *Player) Oxygen() int {
	return p.tank.HP()
}

// MaxOxygen is the tank size.
func (p *Player) MaxOxygen() int {
	return p.tank.MaxHP()
}

// ConsumeOxygen spends n units of oxygen, stopping at zero, and returns the
// new level.
func (p *Player) ConsumeOxygen(n int) (int, error) {
	if n <= 0 {
		return p.Oxygen(), nil
	}
	level := max(p.Oxygen()-n, 0)
	if err := p.tank.SetHP(level); err != nil {
		return p.Oxygen(), fmt.Errorf("failed to set oxygen: %w", err)
	}
	return p.Oxygen(), nil
}

// OutOfOxygen reports whether the tank is empty.
func (p *Player) OutOfOxygen() bool {
	return p.Oxygen() <= 0
}

// HasItem reports whether the item is carried.
func (p *Player) HasItem(name string) bool {
	return slices.Contains(p.Inventory, name)
}

// Carried finds a carried item by a player-typed name and returns the name
// as stored.
func (p *Player) Carried(name string) (string, bool) {
	want := cases.Fold().String(name)
	for _, it := range p.Inventory {
		if cases.Fold().String(it) == want {
			return it, true
		}
	}
	return "", false
}

// AddItem puts an item in the inventory. It returns false if it was already there.
func (p *Player) AddItem(name string) bool {
	if p.HasItem(name) {
		return false
	}
	p.Inventory = append(p.Inventory, name)
	return true
}

// InventoryList returns a copy of the inventory in pickup order.
func (p *Player) InventoryList() []string {
	return slices.Clone(p.Inventory)
}
