package creatureevent

import (
	"testing"

	"github.com/Shopify/go-lua"
	"github.com/stretchr/testify/require"

	"github.com/louisbranch/creatureevents/internal/creature"
	apperrors "github.com/louisbranch/creatureevents/internal/platform/errors"
	"github.com/louisbranch/creatureevents/internal/script"
	"github.com/louisbranch/creatureevents/internal/telemetry"
	"github.com/louisbranch/creatureevents/internal/testkit/creaturefakes"
)

func physicalHit(value int32) creature.CombatDamage {
	return creature.CombatDamage{
		Primary:   creature.DamageComponent{Value: value, Type: creature.CombatPhysical},
		Secondary: creature.DamageComponent{Value: 0, Type: creature.CombatNone},
		Origin:    creature.OriginMelee,
	}
}

func TestHealthChangeForcesNegativeDamage(t *testing.T) {
	h := newHarness(t)
	def := h.define(t, "Armor", CategoryHealthChange, "armor.lua", `
		function onHealthChange(creature, attacker, primaryDamage, primaryType, secondaryDamage, secondaryType, origin)
			return 10, COMBAT_PHYSICALDAMAGE, -3, COMBAT_FIREDAMAGE
		end`)
	damage := physicalHit(-25)

	def.ExecuteHealthChange(creaturefakes.NewPlayer(1, "Alice"), creaturefakes.NewMonster(2, "Rat"), &damage)

	require.Equal(t, creature.CombatDamage{
		Primary:   creature.DamageComponent{Value: -10, Type: creature.CombatPhysical},
		Secondary: creature.DamageComponent{Value: -3, Type: creature.CombatFire},
		Origin:    creature.OriginMelee,
	}, damage)
}

func TestHealthChangeKeepsHealingPositive(t *testing.T) {
	h := newHarness(t)
	def := h.define(t, "Blessing", CategoryHealthChange, "blessing.lua", `
		function onHealthChange(creature, attacker, primaryDamage, primaryType, secondaryDamage, secondaryType, origin)
			return -10, COMBAT_HEALING, 4, COMBAT_NONE
		end`)
	damage := physicalHit(-25)

	def.ExecuteHealthChange(creaturefakes.NewPlayer(1, "Alice"), nil, &damage)

	require.Equal(t, int32(10), damage.Primary.Value)
	require.Equal(t, creature.CombatHealing, damage.Primary.Type)
	require.Equal(t, int32(4), damage.Secondary.Value)
}

func TestHealthChangePushesArgumentsInOrder(t *testing.T) {
	h := newHarness(t)
	def := h.define(t, "Probe", CategoryHealthChange, "probe.lua", `
		function onHealthChange(creature, attacker, primaryDamage, primaryType, secondaryDamage, secondaryType, origin)
			record(creature:getName())
			record(tostring(attacker == nil))
			record(tostring(primaryDamage))
			record(tostring(primaryType == COMBAT_PHYSICALDAMAGE))
			record(tostring(secondaryDamage))
			record(tostring(secondaryType == COMBAT_NONE))
			record(tostring(origin == ORIGIN_MELEE))
			return primaryDamage, primaryType, secondaryDamage, secondaryType
		end`)
	damage := physicalHit(-25)

	def.ExecuteHealthChange(creaturefakes.NewPlayer(1, "Alice"), nil, &damage)

	require.Equal(t, []string{"Alice", "true", "-25", "true", "0", "true", "true"}, h.calls)
	require.Equal(t, physicalHit(-25), damage)
}

func TestManaChangePassesValuesThrough(t *testing.T) {
	h := newHarness(t)
	def := h.define(t, "Drain", CategoryManaChange, "drain.lua", `
		function onManaChange(creature, attacker, primaryDamage, primaryType, secondaryDamage, secondaryType, origin)
			return -5, COMBAT_MANADRAIN, 7, COMBAT_NONE
		end`)
	damage := physicalHit(-25)

	def.ExecuteManaChange(creaturefakes.NewPlayer(1, "Alice"), creaturefakes.NewMonster(2, "Rat"), &damage)

	require.Equal(t, int32(-5), damage.Primary.Value)
	require.Equal(t, creature.CombatManaDrain, damage.Primary.Type)
	require.Equal(t, int32(7), damage.Secondary.Value)
	require.Equal(t, creature.OriginMelee, damage.Origin)
}

func TestHealthChangeRuntimeErrorLeavesDamageUntouched(t *testing.T) {
	h := newHarness(t)
	def := h.define(t, "Broken", CategoryHealthChange, "broken.lua", `
		function onHealthChange(creature, attacker, primaryDamage)
			error("boom")
		end`)
	damage := physicalHit(-25)

	def.ExecuteHealthChange(creaturefakes.NewPlayer(1, "Alice"), nil, &damage)

	require.Equal(t, physicalHit(-25), damage)
	require.Contains(t, h.logs.String(), string(apperrors.CodeScriptRuntimeError))
	require.Len(t, h.store.Events, 1)
	require.Equal(t, telemetry.EventDispatchFailed, h.store.Events[0].EventName)
	require.Equal(t, "Broken", h.store.Events[0].HookName)
	require.Equal(t, "broken.lua", h.store.Events[0].ScriptPath)
	require.Equal(t, 0, h.bridge.Depth())
}

func TestHealthChangeNonNumericResultLeavesDamageUntouched(t *testing.T) {
	h := newHarness(t)
	def := h.define(t, "Lazy", CategoryHealthChange, "lazy.lua", `
		function onHealthChange(creature, attacker, primaryDamage)
			return "lots"
		end`)
	damage := physicalHit(-25)

	def.ExecuteHealthChange(creaturefakes.NewPlayer(1, "Alice"), nil, &damage)

	require.Equal(t, physicalHit(-25), damage)
	require.Contains(t, h.logs.String(), "returned an invalid result")
}

func TestDispatchWithExhaustedDepthSkipsScript(t *testing.T) {
	h := newHarness(t, script.WithMaxDepth(1))
	login := h.define(t, "Login", CategoryLogin, "login.lua", `function onLogin() record("login") return true end`)
	health := h.define(t, "Armor", CategoryHealthChange, "armor.lua", `
		function onHealthChange() record("health") return 1, COMBAT_HEALING, 0, COMBAT_NONE end`)
	require.True(t, h.registry.Register(login))

	require.True(t, h.bridge.Reserve())
	defer h.bridge.Release()

	require.False(t, login.ExecuteOnLogin(creaturefakes.NewPlayer(1, "Alice")))
	require.False(t, h.registry.PlayerLogin(creaturefakes.NewPlayer(1, "Alice")))
	damage := physicalHit(-25)
	health.ExecuteHealthChange(creaturefakes.NewPlayer(1, "Alice"), nil, &damage)

	require.Empty(t, h.calls)
	require.Equal(t, physicalHit(-25), damage)
	require.Equal(t, 1, h.bridge.Depth())
	require.Contains(t, h.logs.String(), string(apperrors.CodeCallStackOverflow))
}

func TestNestedDispatchReleasesEverySlot(t *testing.T) {
	h := newHarness(t, script.WithMaxDepth(2))
	inner := h.define(t, "Inner", CategoryThink, "inner.lua", `function onThink() record("inner") return true end`)
	require.True(t, h.registry.Register(inner))
	h.bridge.RegisterFunction("thinkInner", func(l *lua.State) int {
		l.PushBoolean(inner.ExecuteOnThink(creaturefakes.NewMonster(3, "Rat"), 10))
		return 1
	})
	outer := h.define(t, "Outer", CategoryThink, "outer.lua", `function onThink() record(tostring(thinkInner())) record("outer") return true end`)

	require.True(t, outer.ExecuteOnThink(creaturefakes.NewMonster(2, "Wolf"), 10))
	require.Equal(t, []string{"inner", "true", "outer"}, h.calls)
	require.Equal(t, 0, h.bridge.Depth())
}

func TestBooleanHooksFollowLuaTruthiness(t *testing.T) {
	h := newHarness(t)
	tests := map[string]bool{
		"return true":  true,
		"return 0":     true,
		"return 'no'":  true,
		"return false": false,
		"return nil":   false,
		"":             false,
	}
	for body, want := range tests {
		def := h.define(t, "Think", CategoryThink, "think.lua", "function onThink() "+body+" end")
		require.Equal(t, want, def.ExecuteOnThink(creaturefakes.NewMonster(1, "Rat"), 1000), "body %q", body)
	}
}

func TestThinkAndPrepareDeathArguments(t *testing.T) {
	h := newHarness(t)
	think := h.define(t, "Think", CategoryThink, "think.lua", `
		function onThink(creature, interval)
			record(creature:getName() .. ":" .. interval)
			return true
		end`)
	prepare := h.define(t, "Prepare", CategoryPrepareDeath, "prepare.lua", `
		function onPrepareDeath(creature, killer)
			record(tostring(killer == nil))
			return false
		end`)

	require.True(t, think.ExecuteOnThink(creaturefakes.NewNPC(4, "Sam"), 1000))
	require.False(t, prepare.ExecuteOnPrepareDeath(creaturefakes.NewPlayer(1, "Alice"), nil))
	require.Equal(t, []string{"Sam:1000", "true"}, h.calls)
}

func TestDeathArguments(t *testing.T) {
	h := newHarness(t)
	def := h.define(t, "Death", CategoryDeath, "death.lua", `
		function onDeath(creature, corpse, killer, mostDamageKiller, lastHitUnjustified, mostDamageUnjustified)
			record(creature:getName())
			record(corpse:getName())
			record(killer:getName())
			record(tostring(mostDamageKiller == nil))
			record(tostring(lastHitUnjustified))
			record(tostring(mostDamageUnjustified))
			return true
		end`)
	corpse := &creaturefakes.Item{ID: 3058, ItemName: "dead human"}

	require.True(t, def.ExecuteOnDeath(creaturefakes.NewPlayer(1, "Alice"), corpse, creaturefakes.NewMonster(2, "Dragon"), nil, true, false))
	require.Equal(t, []string{"Alice", "dead human", "Dragon", "true", "true", "false"}, h.calls)
}

func TestKillArguments(t *testing.T) {
	h := newHarness(t)
	def := h.define(t, "Kill", CategoryKill, "kill.lua", `
		function onKill(creature, target, lastHit)
			record(creature:getName() .. ">" .. target:getName() .. ":" .. tostring(lastHit))
		end`)

	def.ExecuteOnKill(creaturefakes.NewPlayer(1, "Alice"), creaturefakes.NewMonster(2, "Rat"), true)
	require.Equal(t, []string{"Alice>Rat:true"}, h.calls)
}

func TestModalWindowTextEditAndExtendedOpcode(t *testing.T) {
	h := newHarness(t)
	modal := h.define(t, "Modal", CategoryModalWindow, "modal.lua", `
		function onModalWindow(player, windowId, buttonId, choiceId)
			record(windowId .. "/" .. buttonId .. "/" .. choiceId)
		end`)
	edit := h.define(t, "Edit", CategoryTextEdit, "edit.lua", `
		function onTextEdit(player, item, text)
			record(item:getId() .. ":" .. text)
			return #text < 10
		end`)
	opcode := h.define(t, "Opcode", CategoryExtendedOpcode, "opcode.lua", `
		function onExtendedOpcode(player, opcode, buffer)
			record(player:getGuid() .. ":" .. opcode .. ":" .. buffer)
		end`)
	player := creaturefakes.NewPlayer(7, "Alice")
	letter := &creaturefakes.Item{ID: 2597, ItemName: "letter"}

	modal.ExecuteModalWindow(player, 1000, 1, 2)
	require.True(t, edit.ExecuteTextEdit(player, letter, "hello"))
	require.False(t, edit.ExecuteTextEdit(player, letter, "far too long text"))
	opcode.ExecuteExtendedOpcode(player, 50, "ping")

	require.Equal(t, []string{"1000/1/2", "2597:hello", "2597:far too long text", "1007:50:ping"}, h.calls)
}

func TestDispatchWithReleasedCallbackReportsMissingEntryPoint(t *testing.T) {
	h := newHarness(t)
	def := h.define(t, "Think", CategoryThink, "think.lua", `function onThink() record("think") return true end`)
	h.bridge.ReleaseFunction(def.Function)

	require.False(t, def.ExecuteOnThink(creaturefakes.NewMonster(1, "Rat"), 10))
	require.Empty(t, h.calls)
	require.Contains(t, h.logs.String(), string(apperrors.CodeMissingEntryPoint))
	require.Equal(t, 0, h.bridge.Depth())
}
