package script

import (
	"strings"

	"github.com/Shopify/go-lua"

	apperrors "github.com/louisbranch/creatureevents/internal/platform/errors"
)

// LoadFile compiles and runs the script at path. While it runs, the innermost
// environment is bound to path so registration callbacks can attribute what
// they create.
func (b *Bridge) LoadFile(path string) error {
	return b.load(path, func(l *lua.State) error {
		return lua.LoadFile(l, path, "")
	})
}

// LoadString compiles and runs src under chunk name name.
func (b *Bridge) LoadString(name, src string) error {
	return b.load(name, func(l *lua.State) error {
		return l.Load(strings.NewReader(src), name, "")
	})
}

// LoadingScript returns the script bound to the innermost environment.
func (b *Bridge) LoadingScript() string {
	if env := b.Env(); env != nil {
		return env.Script
	}
	return ""
}

func (b *Bridge) load(name string, compile func(*lua.State) error) error {
	meta := map[string]string{MetaScript: name}
	if !b.Reserve() {
		return apperrors.WithMetadata(apperrors.CodeCallStackOverflow, "call stack overflow", meta)
	}
	defer b.Release()
	b.Env().Bind(0, name)

	l := b.state
	top := l.Top()
	defer l.SetTop(top)

	if err := compile(l); err != nil {
		return apperrors.WrapWithMetadata(apperrors.CodeScriptLoadFailed, "cannot load script", meta, err)
	}
	if err := l.ProtectedCall(0, 0, 0); err != nil {
		return apperrors.WrapWithMetadata(apperrors.CodeScriptLoadFailed, "cannot run script", meta, err)
	}
	return nil
}
