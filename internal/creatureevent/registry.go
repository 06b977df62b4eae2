package creatureevent

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/louisbranch/creatureevents/internal/creature"
	apperrors "github.com/louisbranch/creatureevents/internal/platform/errors"
	"github.com/louisbranch/creatureevents/internal/script"
	"github.com/louisbranch/creatureevents/internal/storage"
	"github.com/louisbranch/creatureevents/internal/telemetry"
)

const tracerName = "github.com/louisbranch/creatureevents/internal/creatureevent"

// Registry stores every admitted definition. Addressable categories live in
// one name index; login, logout and advance hooks are kept in registration
// order per category.
//
// A Registry is not safe for concurrent use. It is driven by the game loop.
type Registry struct {
	bridge  *script.Bridge
	named   map[string]*Definition
	ordered map[Category][]*Definition
	tracer  trace.Tracer
}

// NewRegistry creates a registry that owns bridge. A nil bridge is replaced
// by a default one. The Lua registration API is installed on the bridge.
func NewRegistry(bridge *script.Bridge) *Registry {
	if bridge == nil {
		bridge = script.New()
	}
	r := &Registry{
		bridge:  bridge,
		named:   make(map[string]*Definition),
		ordered: make(map[Category][]*Definition),
		tracer:  otel.Tracer(tracerName),
	}
	r.installScriptAPI()
	return r
}

// Bridge returns the owned bridge.
func (r *Registry) Bridge() *script.Bridge { return r.bridge }

// NewDefinition returns an unconfigured definition bound to the registry's
// bridge.
func (r *Registry) NewDefinition(origin Origin) *Definition {
	return NewDefinition(r.bridge, origin)
}

// Register admits a definition read from configuration. Rejections are
// reported through the bridge and yield false.
func (r *Registry) Register(def *Definition) bool {
	return r.admit(def, OriginConfig) == nil
}

// RegisterScripted admits a definition created from Lua.
func (r *Registry) RegisterScripted(def *Definition) bool {
	return r.admit(def, OriginScript) == nil
}

func (r *Registry) admit(def *Definition, origin Origin) error {
	err := r.insert(def, origin)
	if err != nil {
		r.bridge.Report(err)
	}
	return err
}

func (r *Registry) insert(def *Definition, origin Origin) error {
	if def == nil {
		return apperrors.New(apperrors.CodeUninitializedCategory, "nil creature event")
	}
	def.Origin = origin
	if def.bridge == nil {
		def.bridge = r.bridge
	}
	switch {
	case !def.Category.Valid():
		return apperrors.WithMetadata(apperrors.CodeUninitializedCategory, "creature event has no type", def.metadata())
	case !def.Loaded:
		return apperrors.WithMetadata(apperrors.CodeNotLoaded, "creature event is not loaded", def.metadata())
	case def.Category.Broadcast():
		r.ordered[def.Category] = append(r.ordered[def.Category], def)
		return nil
	}
	if _, exists := r.named[def.Name]; exists {
		return apperrors.WithMetadata(apperrors.CodeDuplicateName, "duplicate creature event name", def.metadata())
	}
	r.named[def.Name] = def
	return nil
}

// Lookup returns the loaded definition registered under name.
func (r *Registry) Lookup(name string) (*Definition, bool) {
	return r.LookupAny(name, true)
}

// LookupAny returns the definition registered under name. With requireLoaded
// set, definitions that are not loaded are treated as absent.
func (r *Registry) LookupAny(name string, requireLoaded bool) (*Definition, bool) {
	def, ok := r.named[name]
	if !ok || (requireLoaded && !def.Loaded) {
		return nil, false
	}
	return def, true
}

// Clear removes every definition admitted with origin, releases callbacks no
// remaining definition uses, and resets the bridge execution state. It returns
// the number of definitions removed.
func (r *Registry) Clear(origin Origin) int {
	var removed []*Definition
	retained := make(map[script.FunctionID]struct{})

	for name, def := range r.named {
		if def.Origin == origin {
			removed = append(removed, def)
			delete(r.named, name)
			continue
		}
		retained[def.Function] = struct{}{}
	}
	for category, defs := range r.ordered {
		kept := make([]*Definition, 0, len(defs))
		for _, def := range defs {
			if def.Origin == origin {
				removed = append(removed, def)
				continue
			}
			kept = append(kept, def)
			retained[def.Function] = struct{}{}
		}
		r.ordered[category] = kept
	}

	for _, def := range removed {
		if _, ok := retained[def.Function]; !ok {
			r.bridge.ReleaseFunction(def.Function)
		}
	}
	r.bridge.Reinit()
	return len(removed)
}

// Reload clears every definition of origin so the matching loader can run
// again. It is safe to call when nothing matches.
func (r *Registry) Reload(ctx context.Context, origin Origin) int {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, span := r.tracer.Start(ctx, "creatureevent.Reload",
		trace.WithAttributes(attribute.String("origin", origin.String())))
	defer span.End()

	removed := r.Clear(origin)
	span.SetAttributes(attribute.Int("removed", removed))
	r.bridge.Logger().Info().
		Str("origin", origin.String()).
		Int("removed", removed).
		Msg("creature events cleared")
	r.bridge.Emit(ctx, storage.TelemetryEvent{
		EventName:  telemetry.EventReloaded,
		Severity:   string(telemetry.SeverityInfo),
		Attributes: map[string]any{"origin": origin.String(), "removed": removed},
	})
	return removed
}

// PlayerLogin runs every login hook in registration order. The first hook
// returning false vetoes the login and stops the iteration.
func (r *Registry) PlayerLogin(p creature.Player) bool {
	for _, def := range r.ordered[CategoryLogin] {
		if !def.ExecuteOnLogin(p) {
			return false
		}
	}
	return true
}

// PlayerLogout runs every logout hook; the first false vetoes the logout.
func (r *Registry) PlayerLogout(p creature.Player) bool {
	for _, def := range r.ordered[CategoryLogout] {
		if !def.ExecuteOnLogout(p) {
			return false
		}
	}
	return true
}

// PlayerAdvance runs every advance hook; the first false vetoes the advance.
func (r *Registry) PlayerAdvance(p creature.Player, skill creature.Skill, oldLevel, newLevel uint32) bool {
	for _, def := range r.ordered[CategoryAdvance] {
		if !def.ExecuteAdvance(p, skill, oldLevel, newLevel) {
			return false
		}
	}
	return true
}

// Len returns the number of stored definitions.
func (r *Registry) Len() int {
	n := len(r.named)
	for _, defs := range r.ordered {
		n += len(defs)
	}
	return n
}

// Count returns the number of stored definitions of category c.
func (r *Registry) Count(c Category) int {
	if c.Broadcast() {
		return len(r.ordered[c])
	}
	n := 0
	for _, def := range r.named {
		if def.Category == c {
			n++
		}
	}
	return n
}
