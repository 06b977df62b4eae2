// Package creaturefakes provides in-memory game objects and stores for tests.
package creaturefakes

import (
	"context"

	"github.com/louisbranch/creatureevents/internal/creature"
	"github.com/louisbranch/creatureevents/internal/storage"
)

// Creature is a monster, NPC or player stand-in.
type Creature struct {
	CreatureID   uint32
	CreatureName string
	CreatureKind creature.Kind
}

func (c *Creature) ID() uint32          { return c.CreatureID }
func (c *Creature) Name() string        { return c.CreatureName }
func (c *Creature) Kind() creature.Kind { return c.CreatureKind }

// Player is a connected character stand-in.
type Player struct {
	Creature
	PlayerGUID uint32
}

func (p *Player) GUID() uint32 { return p.PlayerGUID }

// NewPlayer builds a player with the given id and name; its GUID is id+1000.
func NewPlayer(id uint32, name string) *Player {
	return &Player{
		Creature:   Creature{CreatureID: id, CreatureName: name, CreatureKind: creature.KindPlayer},
		PlayerGUID: id + 1000,
	}
}

// NewMonster builds a monster.
func NewMonster(id uint32, name string) *Creature {
	return &Creature{CreatureID: id, CreatureName: name, CreatureKind: creature.KindMonster}
}

// NewNPC builds a non-player character.
func NewNPC(id uint32, name string) *Creature {
	return &Creature{CreatureID: id, CreatureName: name, CreatureKind: creature.KindNPC}
}

// Item is a corpse, book or other item stand-in.
type Item struct {
	ID       uint16
	ItemName string
}

func (i *Item) ItemID() uint16 { return i.ID }
func (i *Item) Name() string   { return i.ItemName }

// TelemetryStore records appended telemetry in memory.
type TelemetryStore struct {
	Events []storage.TelemetryEvent
	Err    error
}

func (s *TelemetryStore) AppendTelemetryEvent(_ context.Context, evt storage.TelemetryEvent) error {
	if s.Err != nil {
		return s.Err
	}
	s.Events = append(s.Events, evt)
	return nil
}
