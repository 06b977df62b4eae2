package creatureevent

import (
	"strings"

	apperrors "github.com/louisbranch/creatureevents/internal/platform/errors"
	"github.com/louisbranch/creatureevents/internal/script"
)

// Origin records which loader admitted a definition.
type Origin uint8

const (
	// OriginConfig marks definitions read from the definitions file.
	OriginConfig Origin = iota
	// OriginScript marks definitions registered from Lua.
	OriginScript
)

func (o Origin) String() string {
	switch o {
	case OriginConfig:
		return "config"
	case OriginScript:
		return "script"
	default:
		return "unknown"
	}
}

// Node is one configuration entry.
type Node interface {
	Attribute(name string) (string, bool)
}

// MapNode is a Node backed by a map, as decoded from the definitions file.
type MapNode map[string]string

// Attribute returns the trimmed attribute value. Blank values count as absent.
func (n MapNode) Attribute(name string) (string, bool) {
	v, ok := n[name]
	if !ok {
		return "", false
	}
	v = strings.TrimSpace(v)
	return v, v != ""
}

// Definition binds a name and category to a Lua callback.
type Definition struct {
	Name       string
	Category   Category
	Function   script.FunctionID
	ScriptPath string
	Loaded     bool
	Origin     Origin

	bridge *script.Bridge
}

// NewDefinition returns an unconfigured definition that dispatches through
// bridge.
func NewDefinition(bridge *script.Bridge, origin Origin) *Definition {
	return &Definition{bridge: bridge, Origin: origin}
}

// Configure reads the name and type attributes. On success the definition is
// Loaded; on failure it is left unconfigured and must not be registered.
func (d *Definition) Configure(node Node) error {
	name, ok := node.Attribute("name")
	if !ok {
		return apperrors.New(apperrors.CodeMissingName, "missing name for creature event")
	}
	meta := map[string]string{script.MetaEvent: name}
	keyword, ok := node.Attribute("type")
	if !ok {
		return apperrors.WithMetadata(apperrors.CodeMissingType, "missing type for creature event", meta)
	}
	category, ok := ParseCategory(keyword)
	if !ok {
		meta[script.MetaCategory] = keyword
		return apperrors.WithMetadata(apperrors.CodeUnrecognizedType, "invalid type for creature event", meta)
	}
	if d.Category != CategoryNone && d.Category != category {
		meta[script.MetaCategory] = keyword
		return apperrors.WithMetadata(apperrors.CodeUnrecognizedType, "creature event type already set", meta)
	}
	d.Name = name
	d.Category = category
	d.Loaded = true
	return nil
}

// ScriptEventName returns the entry point the definition's script must define.
func (d *Definition) ScriptEventName() string {
	return EntryPointName(d.Category)
}

// Clone copies every field, including the bridge the copy dispatches through.
func (d *Definition) Clone() *Definition {
	clone := *d
	return &clone
}

// RebindFunction points d at src's callback. Only the function handle, the
// script path and the loaded flag are copied; name, category and origin stay.
func (d *Definition) RebindFunction(src *Definition) {
	d.Function = src.Function
	d.ScriptPath = src.ScriptPath
	d.Loaded = src.Loaded
}

// Bridge returns the bridge the definition dispatches through.
func (d *Definition) Bridge() *script.Bridge { return d.bridge }

func (d *Definition) metadata() map[string]string {
	return map[string]string{
		script.MetaEvent:    d.Name,
		script.MetaCategory: d.Category.String(),
		script.MetaScript:   d.ScriptPath,
	}
}
