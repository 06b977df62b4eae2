package creatureevent

import (
	"testing"

	"github.com/stretchr/testify/require"

	apperrors "github.com/louisbranch/creatureevents/internal/platform/errors"
	"github.com/louisbranch/creatureevents/internal/testkit/creaturefakes"
)

func TestScriptRegistersNamedEvent(t *testing.T) {
	h := newHarness(t)
	err := h.bridge.LoadString("scripts/first_kill.lua", `
		local ev = CreatureEvent("FirstKill")
		ev:type("kill")
		function ev.onKill(creature, target, lastHit)
			record("killed " .. target:getName())
		end
		record(tostring(ev:register()))
	`)
	require.NoError(t, err)
	require.Equal(t, []string{"true"}, h.calls)

	def, ok := h.registry.Lookup("FirstKill")
	require.True(t, ok)
	require.Equal(t, CategoryKill, def.Category)
	require.Equal(t, OriginScript, def.Origin)
	require.Equal(t, "scripts/first_kill.lua", def.ScriptPath)
	require.True(t, def.Loaded)

	h.reset()
	def.ExecuteOnKill(creaturefakes.NewPlayer(1, "Alice"), creaturefakes.NewMonster(2, "Rat"), true)
	require.Equal(t, []string{"killed Rat"}, h.calls)
}

func TestScriptRegistersBroadcastHook(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.bridge.LoadString("login.lua", `
		local ev = CreatureEvent("Welcome")
		ev:type("LOGIN")
		function ev.onLogin(player)
			record("welcome " .. player:getName())
			return true
		end
		ev:register()
	`))

	require.Equal(t, 1, h.registry.Count(CategoryLogin))
	require.True(t, h.registry.PlayerLogin(creaturefakes.NewPlayer(1, "Alice")))
	require.Equal(t, []string{"welcome Alice"}, h.calls)
}

func TestScriptRegistrationRejections(t *testing.T) {
	tests := []struct {
		name string
		src  string
		code apperrors.Code
	}{
		{
			name: "missing callback",
			src: `local ev = CreatureEvent("NoCallback")
				ev:type("kill")
				record(tostring(ev:register()))`,
			code: apperrors.CodeMissingEntryPoint,
		},
		{
			name: "callback for another category",
			src: `local ev = CreatureEvent("Mismatch")
				ev:type("kill")
				function ev.onDeath() return true end
				record(tostring(ev:register()))`,
			code: apperrors.CodeMissingEntryPoint,
		},
		{
			name: "missing type",
			src: `local ev = CreatureEvent("Untyped")
				function ev.onLogin() return true end
				record(tostring(ev:register()))`,
			code: apperrors.CodeUninitializedCategory,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			h := newHarness(t)
			require.NoError(t, h.bridge.LoadString("reject.lua", tc.src))
			require.Equal(t, []string{"false"}, h.calls)
			require.Equal(t, 0, h.registry.Len())
			require.Contains(t, h.logs.String(), string(tc.code))
		})
	}
}

func TestScriptUnknownTypeRaisesLuaError(t *testing.T) {
	h := newHarness(t)
	err := h.bridge.LoadString("bad_type.lua", `
		local ev = CreatureEvent("Bad")
		ev:type("spawn")
	`)
	require.Error(t, err)
	require.True(t, apperrors.HasCode(err, apperrors.CodeScriptLoadFailed))
	require.Equal(t, 0, h.registry.Len())
}

func TestScriptCannotChangeType(t *testing.T) {
	h := newHarness(t)
	err := h.bridge.LoadString("retype.lua", `
		local ev = CreatureEvent("Retype")
		ev:type("kill")
		ev:type("death")
	`)
	require.Error(t, err)
}

func TestScriptRejectsNonFunctionCallback(t *testing.T) {
	h := newHarness(t)
	err := h.bridge.LoadString("field.lua", `
		local ev = CreatureEvent("Field")
		ev.onKill = 42
	`)
	require.Error(t, err)
}

func TestScriptRegisterTwice(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.bridge.LoadString("twice.lua", `
		local ev = CreatureEvent("Twice")
		ev:type("think")
		function ev.onThink() return true end
		record(tostring(ev:register()))
		record(tostring(ev:register()))
	`))
	require.Equal(t, []string{"true", "false"}, h.calls)
	require.Equal(t, 1, h.registry.Len())
}

func TestScriptDuplicateReleasesCallback(t *testing.T) {
	h := newHarness(t)
	require.True(t, h.registry.Register(h.define(t, "Shared", CategoryThink, "config.lua", `function onThink() return true end`)))
	functions := h.bridge.FunctionCount()

	require.NoError(t, h.bridge.LoadString("dup.lua", `
		local ev = CreatureEvent("Shared")
		ev:type("think")
		function ev.onThink() return false end
		record(tostring(ev:register()))
	`))

	require.Equal(t, []string{"false"}, h.calls)
	require.Equal(t, functions, h.bridge.FunctionCount())
	def, ok := h.registry.Lookup("Shared")
	require.True(t, ok)
	require.Equal(t, OriginConfig, def.Origin)
}
