package creatureevent

import (
	"strings"

	"golang.org/x/text/cases"
)

// Category is the lifecycle moment a definition hooks.
type Category uint8

const (
	CategoryNone Category = iota
	CategoryLogin
	CategoryLogout
	CategoryThink
	CategoryPrepareDeath
	CategoryDeath
	CategoryKill
	CategoryAdvance
	CategoryModalWindow
	CategoryTextEdit
	CategoryHealthChange
	CategoryManaChange
	CategoryExtendedOpcode
)

// Categories lists every configurable category in declaration order.
func Categories() []Category {
	return []Category{
		CategoryLogin,
		CategoryLogout,
		CategoryThink,
		CategoryPrepareDeath,
		CategoryDeath,
		CategoryKill,
		CategoryAdvance,
		CategoryModalWindow,
		CategoryTextEdit,
		CategoryHealthChange,
		CategoryManaChange,
		CategoryExtendedOpcode,
	}
}

// String returns the configuration keyword, or "none".
func (c Category) String() string {
	switch c {
	case CategoryLogin:
		return "login"
	case CategoryLogout:
		return "logout"
	case CategoryThink:
		return "think"
	case CategoryPrepareDeath:
		return "preparedeath"
	case CategoryDeath:
		return "death"
	case CategoryKill:
		return "kill"
	case CategoryAdvance:
		return "advance"
	case CategoryModalWindow:
		return "modalwindow"
	case CategoryTextEdit:
		return "textedit"
	case CategoryHealthChange:
		return "healthchange"
	case CategoryManaChange:
		return "manachange"
	case CategoryExtendedOpcode:
		return "extendedopcode"
	case CategoryNone:
		return "none"
	default:
		return "unknown"
	}
}

// Broadcast reports whether the category is an unnamed hook fired for every
// player. Every other valid category is addressed by name.
func (c Category) Broadcast() bool {
	switch c {
	case CategoryLogin, CategoryLogout, CategoryAdvance:
		return true
	case CategoryThink, CategoryPrepareDeath, CategoryDeath, CategoryKill,
		CategoryModalWindow, CategoryTextEdit, CategoryHealthChange,
		CategoryManaChange, CategoryExtendedOpcode, CategoryNone:
		return false
	default:
		return false
	}
}

// Valid reports whether c is one of the configurable categories.
func (c Category) Valid() bool {
	return c >= CategoryLogin && c <= CategoryExtendedOpcode
}

var keywordFolder = cases.Fold()

var categoriesByKeyword = func() map[string]Category {
	m := make(map[string]Category, len(Categories()))
	for _, c := range Categories() {
		m[keywordFolder.String(c.String())] = c
	}
	return m
}()

// ParseCategory matches a configuration keyword, ignoring case.
func ParseCategory(keyword string) (Category, bool) {
	c, ok := categoriesByKeyword[keywordFolder.String(strings.TrimSpace(keyword))]
	return c, ok
}

// EntryPointName returns the Lua function a script must define for c, or ""
// for CategoryNone.
func EntryPointName(c Category) string {
	switch c {
	case CategoryLogin:
		return "onLogin"
	case CategoryLogout:
		return "onLogout"
	case CategoryThink:
		return "onThink"
	case CategoryPrepareDeath:
		return "onPrepareDeath"
	case CategoryDeath:
		return "onDeath"
	case CategoryKill:
		return "onKill"
	case CategoryAdvance:
		return "onAdvance"
	case CategoryModalWindow:
		return "onModalWindow"
	case CategoryTextEdit:
		return "onTextEdit"
	case CategoryHealthChange:
		return "onHealthChange"
	case CategoryManaChange:
		return "onManaChange"
	case CategoryExtendedOpcode:
		return "onExtendedOpcode"
	case CategoryNone:
		return ""
	default:
		return ""
	}
}
