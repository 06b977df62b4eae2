// Package creature declares the game objects handed to creature event hooks.
//
// The server owns the concrete players, monsters, NPCs and items; this package
// only fixes the read surface the dispatch layer needs to marshal them into Lua
// and the combat damage record mutation hooks rewrite.
package creature
