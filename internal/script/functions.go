package script

import "github.com/Shopify/go-lua"

const functionTableKey = "creatureevents.functions"

// FunctionID addresses a compiled callback in the bridge's function table.
// The zero value never refers to a function.
type FunctionID int

// StoreFunction pops the function on top of the stack into the function
// table and returns its id. script records which file defined it.
func (b *Bridge) StoreFunction(script string) FunctionID {
	l := b.state
	b.nextFunction++
	id := b.nextFunction
	l.Field(lua.RegistryIndex, functionTableKey)
	l.Insert(-2)
	l.RawSetInt(-2, int(id))
	l.Pop(1)
	b.functions[id] = script
	return id
}

// PushFunction pushes the callback stored under id. It pushes nothing and
// returns false when id is unknown.
func (b *Bridge) PushFunction(id FunctionID) bool {
	if id == 0 {
		return false
	}
	l := b.state
	l.Field(lua.RegistryIndex, functionTableKey)
	l.RawGetInt(-1, int(id))
	l.Remove(-2)
	if !l.IsFunction(-1) {
		l.Pop(1)
		return false
	}
	return true
}

// ReleaseFunction drops the callback stored under id so the VM can collect it.
func (b *Bridge) ReleaseFunction(id FunctionID) {
	if _, ok := b.functions[id]; !ok {
		return
	}
	l := b.state
	l.Field(lua.RegistryIndex, functionTableKey)
	l.PushNil()
	l.RawSetInt(-2, int(id))
	l.Pop(1)
	delete(b.functions, id)
}

// FunctionCount returns the number of stored callbacks.
func (b *Bridge) FunctionCount() int { return len(b.functions) }

// FunctionScript returns the script that defined id.
func (b *Bridge) FunctionScript(id FunctionID) (string, bool) {
	script, ok := b.functions[id]
	return script, ok
}

// CaptureGlobal moves the global function called name into the function
// table and clears the global, so the next script can define the same entry
// point. It returns false when the global is not a function.
func (b *Bridge) CaptureGlobal(name, script string) (FunctionID, bool) {
	l := b.state
	l.Global(name)
	if !l.IsFunction(-1) {
		l.Pop(1)
		return 0, false
	}
	id := b.StoreFunction(script)
	l.PushNil()
	l.SetGlobal(name)
	return id, true
}

// RegisterFunction exposes a Go function to scripts as a global.
func (b *Bridge) RegisterFunction(name string, fn lua.Function) {
	b.state.PushGoFunction(fn)
	b.state.SetGlobal(name)
}
