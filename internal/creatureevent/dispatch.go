package creatureevent

import (
	"errors"
	"fmt"
	"math"

	"github.com/louisbranch/creatureevents/internal/creature"
	apperrors "github.com/louisbranch/creatureevents/internal/platform/errors"
	"github.com/louisbranch/creatureevents/internal/script"
)

// invoke runs the definition's callback. push places the arguments after the
// function and returns how many it pushed; read inspects the results while
// they are still on the stack. Every failure is reported through the bridge
// and returned so callers can fall back to their default.
func (d *Definition) invoke(results int, push func(*script.Bridge) int, read func(*script.Bridge) error) error {
	b := d.bridge
	hook := d.ScriptEventName()
	if b == nil {
		return apperrors.WithMetadata(apperrors.CodeNotLoaded, "creature event has no bridge", d.metadata())
	}
	if !b.Reserve() {
		return d.fail(hook, apperrors.WithMetadata(apperrors.CodeCallStackOverflow, "call stack overflow", d.metadata()))
	}
	defer b.Release()
	b.Env().Bind(d.Function, d.ScriptPath)

	l := b.State()
	top := l.Top()
	defer l.SetTop(top)

	if !b.PushFunction(d.Function) {
		return d.fail(hook, apperrors.WithMetadata(apperrors.CodeMissingEntryPoint,
			fmt.Sprintf("%s callback is not loaded", hook), d.metadata()))
	}
	args := 0
	if push != nil {
		args = push(b)
	}
	if err := l.ProtectedCall(args, results, 0); err != nil {
		return d.fail(hook, apperrors.WrapWithMetadata(apperrors.CodeScriptRuntimeError,
			fmt.Sprintf("%s failed", hook), d.metadata(), err))
	}
	if read != nil {
		if err := read(b); err != nil {
			return d.fail(hook, apperrors.WrapWithMetadata(apperrors.CodeScriptRuntimeError,
				fmt.Sprintf("%s returned an invalid result", hook), d.metadata(), err))
		}
	}
	b.Observe(hook, nil)
	return nil
}

func (d *Definition) fail(hook string, err error) error {
	d.bridge.Report(err)
	d.bridge.Observe(hook, err)
	return err
}

func (d *Definition) callBool(push func(*script.Bridge) int) bool {
	var verdict bool
	err := d.invoke(1, push, func(b *script.Bridge) error {
		verdict = b.State().ToBoolean(-1)
		return nil
	})
	return err == nil && verdict
}

// ExecuteOnLogin calls onLogin(player).
func (d *Definition) ExecuteOnLogin(p creature.Player) bool {
	return d.callBool(func(b *script.Bridge) int {
		b.PushPlayer(p)
		return 1
	})
}

// ExecuteOnLogout calls onLogout(player).
func (d *Definition) ExecuteOnLogout(p creature.Player) bool {
	return d.callBool(func(b *script.Bridge) int {
		b.PushPlayer(p)
		return 1
	})
}

// ExecuteOnThink calls onThink(creature, interval).
func (d *Definition) ExecuteOnThink(c creature.Creature, interval uint32) bool {
	return d.callBool(func(b *script.Bridge) int {
		b.PushCreature(c)
		b.State().PushInteger(int(interval))
		return 2
	})
}

// ExecuteOnPrepareDeath calls onPrepareDeath(creature, killer). killer may
// be nil.
func (d *Definition) ExecuteOnPrepareDeath(c, killer creature.Creature) bool {
	return d.callBool(func(b *script.Bridge) int {
		b.PushCreature(c)
		b.PushCreature(killer)
		return 2
	})
}

// ExecuteOnDeath calls onDeath(creature, corpse, killer, mostDamageKiller,
// lastHitUnjustified, mostDamageUnjustified). corpse and both killers may be
// nil.
func (d *Definition) ExecuteOnDeath(c creature.Creature, corpse creature.Item, killer, mostDamageKiller creature.Creature, lastHitUnjustified, mostDamageUnjustified bool) bool {
	return d.callBool(func(b *script.Bridge) int {
		b.PushCreature(c)
		b.PushItem(corpse)
		b.PushCreature(killer)
		b.PushCreature(mostDamageKiller)
		b.State().PushBoolean(lastHitUnjustified)
		b.State().PushBoolean(mostDamageUnjustified)
		return 6
	})
}

// ExecuteAdvance calls onAdvance(player, skill, oldLevel, newLevel).
func (d *Definition) ExecuteAdvance(p creature.Player, skill creature.Skill, oldLevel, newLevel uint32) bool {
	return d.callBool(func(b *script.Bridge) int {
		b.PushPlayer(p)
		b.State().PushInteger(int(skill))
		b.State().PushInteger(int(oldLevel))
		b.State().PushInteger(int(newLevel))
		return 4
	})
}

// ExecuteOnKill calls onKill(creature, target, lastHit).
func (d *Definition) ExecuteOnKill(c, target creature.Creature, lastHit bool) {
	_ = d.invoke(0, func(b *script.Bridge) int {
		b.PushCreature(c)
		b.PushCreature(target)
		b.State().PushBoolean(lastHit)
		return 3
	}, nil)
}

// ExecuteModalWindow calls onModalWindow(player, windowId, buttonId, choiceId).
func (d *Definition) ExecuteModalWindow(p creature.Player, windowID uint32, buttonID, choiceID uint8) {
	_ = d.invoke(0, func(b *script.Bridge) int {
		b.PushPlayer(p)
		b.State().PushInteger(int(windowID))
		b.State().PushInteger(int(buttonID))
		b.State().PushInteger(int(choiceID))
		return 4
	}, nil)
}

// ExecuteTextEdit calls onTextEdit(player, item, text).
func (d *Definition) ExecuteTextEdit(p creature.Player, item creature.Item, text string) bool {
	return d.callBool(func(b *script.Bridge) int {
		b.PushPlayer(p)
		b.PushItem(item)
		b.State().PushString(text)
		return 3
	})
}

// ExecuteHealthChange calls onHealthChange(creature, attacker, primaryDamage,
// primaryType, secondaryDamage, secondaryType, origin) and writes the four
// returned values back into damage. The returned magnitudes are made
// negative unless the returned primary type is healing. On failure damage is
// left untouched.
func (d *Definition) ExecuteHealthChange(c, attacker creature.Creature, damage *creature.CombatDamage) {
	d.executeDamageChange(c, attacker, damage, func(amended *creature.CombatDamage) {
		amended.Primary.Value = abs32(amended.Primary.Value)
		amended.Secondary.Value = abs32(amended.Secondary.Value)
		if !amended.Healing() {
			amended.Primary.Value = -amended.Primary.Value
			amended.Secondary.Value = -amended.Secondary.Value
		}
	})
}

// ExecuteManaChange calls onManaChange with the same arguments as
// onHealthChange and writes the returned values back unchanged.
func (d *Definition) ExecuteManaChange(c, attacker creature.Creature, damage *creature.CombatDamage) {
	d.executeDamageChange(c, attacker, damage, nil)
}

func (d *Definition) executeDamageChange(c, attacker creature.Creature, damage *creature.CombatDamage, normalize func(*creature.CombatDamage)) {
	if damage == nil {
		return
	}
	_ = d.invoke(4, func(b *script.Bridge) int {
		b.PushCreature(c)
		b.PushCreature(attacker)
		return 2 + b.PushCombatDamage(*damage)
	}, func(b *script.Bridge) error {
		amended, err := readDamage(b, *damage)
		if err != nil {
			return err
		}
		if normalize != nil {
			normalize(&amended)
		}
		*damage = amended
		return nil
	})
}

// readDamage reads primary value, primary type, secondary value and
// secondary type from the top four stack slots. The origin is kept from base.
func readDamage(b *script.Bridge, base creature.CombatDamage) (creature.CombatDamage, error) {
	amended := base
	var ok bool
	if amended.Primary.Value, ok = b.ToInt32(-4); !ok {
		return base, errors.New("primary damage is not a number")
	}
	if amended.Primary.Type, ok = b.ToCombatType(-3); !ok {
		return base, errors.New("primary type is not a combat type")
	}
	if amended.Secondary.Value, ok = b.ToInt32(-2); !ok {
		return base, errors.New("secondary damage is not a number")
	}
	if amended.Secondary.Type, ok = b.ToCombatType(-1); !ok {
		return base, errors.New("secondary type is not a combat type")
	}
	return amended, nil
}

func abs32(v int32) int32 {
	switch {
	case v == math.MinInt32:
		return math.MaxInt32
	case v < 0:
		return -v
	default:
		return v
	}
}

// ExecuteExtendedOpcode calls onExtendedOpcode(player, opcode, buffer).
func (d *Definition) ExecuteExtendedOpcode(p creature.Player, opcode uint8, buffer string) {
	_ = d.invoke(0, func(b *script.Bridge) int {
		b.PushPlayer(p)
		b.State().PushInteger(int(opcode))
		b.State().PushString(buffer)
		return 3
	}, nil)
}
