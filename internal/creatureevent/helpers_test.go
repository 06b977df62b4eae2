package creatureevent

import (
	"bytes"
	"testing"

	"github.com/Shopify/go-lua"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/louisbranch/creatureevents/internal/script"
	"github.com/louisbranch/creatureevents/internal/telemetry"
	"github.com/louisbranch/creatureevents/internal/testkit/creaturefakes"
)

// harness wires a registry to a bridge whose scripts can call record(value)
// to leave a trace the test can assert on.
type harness struct {
	registry *Registry
	bridge   *script.Bridge
	logs     *bytes.Buffer
	store    *creaturefakes.TelemetryStore
	calls    []string
}

func newHarness(t *testing.T, opts ...script.Option) *harness {
	t.Helper()
	h := &harness{logs: &bytes.Buffer{}, store: &creaturefakes.TelemetryStore{}}
	base := []script.Option{
		script.WithLogger(zerolog.New(h.logs)),
		script.WithEmitter(telemetry.NewEmitter(h.store)),
	}
	h.bridge = script.New(append(base, opts...)...)
	h.bridge.RegisterFunction("record", func(l *lua.State) int {
		h.calls = append(h.calls, lua.CheckString(l, 1))
		return 0
	})
	h.registry = NewRegistry(h.bridge)
	return h
}

// define compiles src as scriptName and returns a loaded definition bound to
// the entry point of category c. It is not registered.
func (h *harness) define(t *testing.T, name string, c Category, scriptName, src string) *Definition {
	t.Helper()
	require.NoError(t, h.bridge.LoadString(scriptName, src))
	def := h.registry.NewDefinition(OriginConfig)
	require.NoError(t, def.Configure(MapNode{"name": name, "type": c.String()}))
	id, ok := h.bridge.CaptureGlobal(def.ScriptEventName(), scriptName)
	require.True(t, ok, "script %s defines no %s", scriptName, def.ScriptEventName())
	def.Function = id
	def.ScriptPath = scriptName
	return def
}

func (h *harness) reset() {
	h.calls = nil
}
