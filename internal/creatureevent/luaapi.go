package creatureevent

import (
	"strings"

	"github.com/Shopify/go-lua"

	apperrors "github.com/louisbranch/creatureevents/internal/platform/errors"
)

const scriptEventTypeName = "CreatureEvent"

// pendingEvent is the userdata behind a CreatureEvent(...) value. It holds
// the definition until register() hands it to the registry.
type pendingEvent struct {
	def        *Definition
	callback   string
	registered bool
}

func (r *Registry) installScriptAPI() {
	l := r.bridge.State()
	lua.NewMetaTable(l, scriptEventTypeName)
	l.NewTable()
	lua.SetFunctions(l, []lua.RegistryFunction{
		{Name: "type", Function: r.scriptEventType},
		{Name: "register", Function: r.scriptEventRegister},
	}, 0)
	l.SetField(-2, "__index")
	l.PushGoFunction(r.scriptEventAssign)
	l.SetField(-2, "__newindex")
	l.Pop(1)

	r.bridge.RegisterFunction(scriptEventTypeName, r.newScriptEvent)
}

// CreatureEvent(name)
func (r *Registry) newScriptEvent(l *lua.State) int {
	name := lua.CheckString(l, 1)
	def := r.NewDefinition(OriginScript)
	def.Name = name
	def.ScriptPath = r.bridge.LoadingScript()
	l.PushUserData(&pendingEvent{def: def})
	lua.SetMetaTableNamed(l, scriptEventTypeName)
	return 1
}

func checkPendingEvent(l *lua.State) *pendingEvent {
	ev, ok := lua.CheckUserData(l, 1, scriptEventTypeName).(*pendingEvent)
	if !ok {
		lua.ArgumentError(l, 1, "CreatureEvent expected")
	}
	return ev
}

// ev:type(keyword)
func (r *Registry) scriptEventType(l *lua.State) int {
	ev := checkPendingEvent(l)
	keyword := lua.CheckString(l, 2)
	category, ok := ParseCategory(keyword)
	if !ok {
		lua.ArgumentError(l, 2, "invalid creature event type "+keyword)
		return 0
	}
	if ev.def.Category != CategoryNone && ev.def.Category != category {
		lua.Errorf(l, "creature event %s already has type %s", ev.def.Name, ev.def.Category.String())
		return 0
	}
	ev.def.Category = category
	l.PushBoolean(true)
	return 1
}

// ev.onX = function ... end
func (r *Registry) scriptEventAssign(l *lua.State) int {
	ev := checkPendingEvent(l)
	key := lua.CheckString(l, 2)
	if !strings.HasPrefix(key, "on") {
		lua.Errorf(l, "unknown creature event field %s", key)
		return 0
	}
	if !l.IsFunction(3) {
		lua.ArgumentError(l, 3, "function expected")
		return 0
	}
	if ev.registered {
		lua.Errorf(l, "creature event %s is already registered", ev.def.Name)
		return 0
	}
	if ev.def.Function != 0 {
		r.bridge.ReleaseFunction(ev.def.Function)
	}
	l.PushValue(3)
	ev.def.Function = r.bridge.StoreFunction(ev.def.ScriptPath)
	ev.callback = key
	return 0
}

// ev:register()
func (r *Registry) scriptEventRegister(l *lua.State) int {
	ev := checkPendingEvent(l)
	if ev.registered {
		l.PushBoolean(false)
		return 1
	}
	def := ev.def
	if def.Category != CategoryNone {
		if expected := def.ScriptEventName(); def.Function == 0 || ev.callback != expected {
			meta := def.metadata()
			r.bridge.Report(apperrors.WithMetadata(apperrors.CodeMissingEntryPoint,
				"creature event has no "+expected+" callback", meta))
			l.PushBoolean(false)
			return 1
		}
		def.Loaded = true
	}
	ok := r.RegisterScripted(def)
	if ok {
		ev.registered = true
	} else {
		r.bridge.ReleaseFunction(def.Function)
		def.Function = 0
		def.Loaded = false
	}
	l.PushBoolean(ok)
	return 1
}
