// Package script embeds the Lua VM that creature event hooks run in.
//
// A Bridge owns one *lua.State and everything the dispatch layer needs around
// it: a bounded stack of execution environments that guards against runaway
// re-entry, a table of compiled callbacks addressed by FunctionID, typed
// marshalling for creatures, items and combat damage, and a single Report sink
// that logs, counts and persists failures.
//
// A Bridge is not safe for concurrent use. Every call happens on the game
// logic goroutine.
package script
