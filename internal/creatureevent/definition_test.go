package creatureevent

import (
	"testing"

	"github.com/stretchr/testify/require"

	apperrors "github.com/louisbranch/creatureevents/internal/platform/errors"
	"github.com/louisbranch/creatureevents/internal/script"
)

func TestConfigureRejectsIncompleteNodes(t *testing.T) {
	tests := []struct {
		name string
		node MapNode
		code apperrors.Code
	}{
		{name: "missing name", node: MapNode{"type": "login"}, code: apperrors.CodeMissingName},
		{name: "blank name", node: MapNode{"name": "  ", "type": "login"}, code: apperrors.CodeMissingName},
		{name: "missing type", node: MapNode{"name": "Greeting"}, code: apperrors.CodeMissingType},
		{name: "unknown type", node: MapNode{"name": "Greeting", "type": "spawn"}, code: apperrors.CodeUnrecognizedType},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			def := NewDefinition(nil, OriginConfig)
			err := def.Configure(tc.node)
			require.Error(t, err)
			require.True(t, apperrors.HasCode(err, tc.code), "got %v", err)
			require.False(t, def.Loaded)
			require.Equal(t, CategoryNone, def.Category)
		})
	}
}

func TestConfigureErrorsCarryEventName(t *testing.T) {
	def := NewDefinition(nil, OriginConfig)
	err := def.Configure(MapNode{"name": "Greeting", "type": "spawn"})

	var appErr *apperrors.Error
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, "Greeting", appErr.Metadata[script.MetaEvent])
	require.Equal(t, "spawn", appErr.Metadata[script.MetaCategory])
}

func TestConfigureLoadsDefinition(t *testing.T) {
	def := NewDefinition(nil, OriginConfig)
	require.NoError(t, def.Configure(MapNode{"name": "Regeneration", "type": "Think"}))
	require.Equal(t, "Regeneration", def.Name)
	require.Equal(t, CategoryThink, def.Category)
	require.True(t, def.Loaded)
	require.Equal(t, "onThink", def.ScriptEventName())
}

func TestConfigureKeepsExistingCategory(t *testing.T) {
	def := NewDefinition(nil, OriginScript)
	def.Category = CategoryKill

	err := def.Configure(MapNode{"name": "FirstKill", "type": "death"})
	require.True(t, apperrors.HasCode(err, apperrors.CodeUnrecognizedType))
	require.Equal(t, CategoryKill, def.Category)

	require.NoError(t, def.Configure(MapNode{"name": "FirstKill", "type": "kill"}))
	require.True(t, def.Loaded)
}

func TestCloneCopiesEveryField(t *testing.T) {
	bridge := script.New()
	def := &Definition{
		Name:       "Regeneration",
		Category:   CategoryThink,
		Function:   3,
		ScriptPath: "regen.lua",
		Loaded:     true,
		Origin:     OriginScript,
		bridge:     bridge,
	}

	clone := def.Clone()
	require.Equal(t, def, clone)
	require.NotSame(t, def, clone)

	clone.Name = "Other"
	require.Equal(t, "Regeneration", def.Name)
}

func TestRebindFunctionCopiesOnlyCallback(t *testing.T) {
	src := &Definition{Name: "Source", Category: CategoryDeath, Function: 7, ScriptPath: "death.lua", Loaded: true, Origin: OriginScript}
	dst := &Definition{Name: "Target", Category: CategoryKill, Origin: OriginConfig}

	dst.RebindFunction(src)

	require.Equal(t, &Definition{
		Name:       "Target",
		Category:   CategoryKill,
		Function:   7,
		ScriptPath: "death.lua",
		Loaded:     true,
		Origin:     OriginConfig,
	}, dst)
}

func TestMapNodeTreatsBlankAsAbsent(t *testing.T) {
	node := MapNode{"name": " Greeting ", "type": ""}

	name, ok := node.Attribute("name")
	require.True(t, ok)
	require.Equal(t, "Greeting", name)

	_, ok = node.Attribute("type")
	require.False(t, ok)
	_, ok = node.Attribute("script")
	require.False(t, ok)
}
