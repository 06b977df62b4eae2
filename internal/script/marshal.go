package script

import (
	"math"

	"github.com/Shopify/go-lua"

	"github.com/louisbranch/creatureevents/internal/creature"
)

const itemTypeName = "Item"

var creatureMethods = []lua.RegistryFunction{
	{Name: "getId", Function: creatureGetID},
	{Name: "getName", Function: creatureGetName},
	{Name: "isPlayer", Function: creatureIsKind(creature.KindPlayer)},
	{Name: "isMonster", Function: creatureIsKind(creature.KindMonster)},
	{Name: "isNpc", Function: creatureIsKind(creature.KindNPC)},
}

var playerMethods = []lua.RegistryFunction{
	{Name: "getGuid", Function: playerGetGUID},
}

var itemMethods = []lua.RegistryFunction{
	{Name: "getId", Function: itemGetID},
	{Name: "getName", Function: itemGetName},
}

func registerMetaTables(l *lua.State) {
	for _, kind := range []creature.Kind{0, creature.KindPlayer, creature.KindMonster, creature.KindNPC} {
		lua.NewMetaTable(l, kind.String())
		l.NewTable()
		lua.SetFunctions(l, creatureMethods, 0)
		if kind == creature.KindPlayer {
			lua.SetFunctions(l, playerMethods, 0)
		}
		l.SetField(-2, "__index")
		l.Pop(1)
	}

	lua.NewMetaTable(l, itemTypeName)
	l.NewTable()
	lua.SetFunctions(l, itemMethods, 0)
	l.SetField(-2, "__index")
	l.Pop(1)
}

func registerConstants(l *lua.State) {
	for name, value := range creature.CombatTypes() {
		l.PushInteger(int(value))
		l.SetGlobal(name)
	}
	for name, value := range creature.DamageOrigins() {
		l.PushInteger(int(value))
		l.SetGlobal(name)
	}
	for name, value := range creature.Skills() {
		l.PushInteger(int(value))
		l.SetGlobal(name)
	}
}

// PushCreature pushes c with the metatable of its kind, or nil when c is nil.
func (b *Bridge) PushCreature(c creature.Creature) {
	if c == nil {
		b.state.PushNil()
		return
	}
	b.state.PushUserData(c)
	lua.SetMetaTableNamed(b.state, c.Kind().String())
}

// PushPlayer pushes p with the Player metatable, or nil when p is nil.
func (b *Bridge) PushPlayer(p creature.Player) {
	if p == nil {
		b.state.PushNil()
		return
	}
	b.state.PushUserData(p)
	lua.SetMetaTableNamed(b.state, creature.KindPlayer.String())
}

// PushItem pushes item with the Item metatable, or nil when item is nil.
func (b *Bridge) PushItem(item creature.Item) {
	if item == nil {
		b.state.PushNil()
		return
	}
	b.state.PushUserData(item)
	lua.SetMetaTableNamed(b.state, itemTypeName)
}

// PushCombatDamage expands d into primary value, primary type, secondary
// value, secondary type and origin. It returns the number of values pushed.
func (b *Bridge) PushCombatDamage(d creature.CombatDamage) int {
	l := b.state
	l.PushInteger(int(d.Primary.Value))
	l.PushInteger(int(d.Primary.Type))
	l.PushInteger(int(d.Secondary.Value))
	l.PushInteger(int(d.Secondary.Type))
	l.PushInteger(int(d.Origin))
	return 5
}

// ToInt32 reads a number at index, truncating toward zero and clamping to
// the int32 range.
func (b *Bridge) ToInt32(index int) (int32, bool) {
	if !b.state.IsNumber(index) {
		return 0, false
	}
	n, ok := b.state.ToNumber(index)
	if !ok || math.IsNaN(n) {
		return 0, false
	}
	switch {
	case n > math.MaxInt32:
		return math.MaxInt32, true
	case n < math.MinInt32:
		return math.MinInt32, true
	}
	return int32(n), true
}

// ToCombatType reads a combat type flag at index.
func (b *Bridge) ToCombatType(index int) (creature.CombatType, bool) {
	n, ok := b.ToInt32(index)
	if !ok || n < 0 || n > math.MaxUint16 {
		return creature.CombatNone, false
	}
	return creature.CombatType(n), true
}

func checkCreature(l *lua.State) creature.Creature {
	c, ok := l.ToUserData(1).(creature.Creature)
	if !ok {
		lua.ArgumentError(l, 1, "creature expected")
	}
	return c
}

func creatureGetID(l *lua.State) int {
	l.PushInteger(int(checkCreature(l).ID()))
	return 1
}

func creatureGetName(l *lua.State) int {
	l.PushString(checkCreature(l).Name())
	return 1
}

func creatureIsKind(kind creature.Kind) lua.Function {
	return func(l *lua.State) int {
		l.PushBoolean(checkCreature(l).Kind() == kind)
		return 1
	}
}

func playerGetGUID(l *lua.State) int {
	p, ok := l.ToUserData(1).(creature.Player)
	if !ok {
		lua.ArgumentError(l, 1, "player expected")
		return 0
	}
	l.PushInteger(int(p.GUID()))
	return 1
}

func checkItem(l *lua.State) creature.Item {
	item, ok := l.ToUserData(1).(creature.Item)
	if !ok {
		lua.ArgumentError(l, 1, "item expected")
	}
	return item
}

func itemGetID(l *lua.State) int {
	l.PushInteger(int(checkItem(l).ItemID()))
	return 1
}

func itemGetName(l *lua.State) int {
	l.PushString(checkItem(l).Name())
	return 1
}
