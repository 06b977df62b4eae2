package creatureevent

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	apperrors "github.com/louisbranch/creatureevents/internal/platform/errors"
)

// definitionsFile is the on-disk layout of the definitions file.
type definitionsFile struct {
	Events []map[string]any `yaml:"events"`
}

func nodeOf(entry map[string]any) MapNode {
	node := make(MapNode, len(entry))
	for key, value := range entry {
		if value == nil {
			continue
		}
		node[key] = fmt.Sprint(value)
	}
	return node
}

// Loader fills a registry from the definitions file and from script
// directories.
type Loader struct {
	registry *Registry
}

// NewLoader returns a loader feeding registry.
func NewLoader(registry *Registry) *Loader {
	return &Loader{registry: registry}
}

// LoadDefinitions reads the definitions file at path and registers each
// entry with origin config. Script attributes are resolved against
// scriptsDir. A bad entry is reported and skipped; the returned error joins
// every per-entry failure.
func (ld *Loader) LoadDefinitions(ctx context.Context, path, scriptsDir string) (int, error) {
	_, span := ld.registry.tracer.Start(ctx, "creatureevent.LoadDefinitions")
	defer span.End()
	span.SetAttributes(attribute.String("path", path))

	data, err := os.ReadFile(path)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "read definitions")
		return 0, fmt.Errorf("read definitions %s: %w", path, err)
	}
	var file definitionsFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "parse definitions")
		return 0, fmt.Errorf("parse definitions %s: %w", path, err)
	}

	var errs []error
	loaded := 0
	for i, entry := range file.Events {
		if err := ld.loadDefinition(nodeOf(entry), scriptsDir); err != nil {
			errs = append(errs, fmt.Errorf("event %d: %w", i, err))
			continue
		}
		loaded++
	}

	span.SetAttributes(attribute.Int("loaded", loaded), attribute.Int("failed", len(errs)))
	joined := errors.Join(errs...)
	if joined != nil {
		span.SetStatus(codes.Error, "some definitions failed")
	}
	ld.registry.bridge.Logger().Info().
		Str("path", path).
		Int("loaded", loaded).
		Int("failed", len(errs)).
		Msg("creature event definitions loaded")
	return loaded, joined
}

func (ld *Loader) loadDefinition(node Node, scriptsDir string) error {
	b := ld.registry.bridge
	def := ld.registry.NewDefinition(OriginConfig)
	if err := def.Configure(node); err != nil {
		b.Report(err)
		return err
	}

	scriptName, ok := node.Attribute("script")
	if !ok {
		err := apperrors.WithMetadata(apperrors.CodeScriptLoadFailed, "missing script attribute for creature event", def.metadata())
		b.Report(err)
		return err
	}
	def.ScriptPath = filepath.Join(scriptsDir, scriptName)
	if err := b.LoadFile(def.ScriptPath); err != nil {
		err = apperrors.WrapWithMetadata(apperrors.CodeScriptLoadFailed, "cannot load creature event script", def.metadata(), err)
		b.Report(err)
		return err
	}

	id, ok := b.CaptureGlobal(def.ScriptEventName(), def.ScriptPath)
	if !ok {
		err := apperrors.WithMetadata(apperrors.CodeMissingEntryPoint,
			fmt.Sprintf("event %s not found", def.ScriptEventName()), def.metadata())
		b.Report(err)
		return err
	}
	def.Function = id
	if err := ld.registry.admit(def, OriginConfig); err != nil {
		b.ReleaseFunction(id)
		return err
	}
	return nil
}

// LoadScripts runs every .lua file under dir in lexical order. Scripts
// register their events through the CreatureEvent API. Files and
// directories whose name starts with '#' are skipped. A missing dir loads
// nothing.
func (ld *Loader) LoadScripts(ctx context.Context, dir string) (int, error) {
	_, span := ld.registry.tracer.Start(ctx, "creatureevent.LoadScripts")
	defer span.End()
	span.SetAttributes(attribute.String("dir", dir))

	if _, err := os.Stat(dir); errors.Is(err, fs.ErrNotExist) {
		ld.registry.bridge.Logger().Debug().Str("dir", dir).Msg("script directory not found")
		return 0, nil
	}

	var errs []error
	loaded := 0
	walkErr := filepath.WalkDir(dir, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if strings.HasPrefix(entry.Name(), "#") {
			if entry.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if entry.IsDir() || filepath.Ext(path) != ".lua" {
			return nil
		}
		if err := ld.registry.bridge.LoadFile(path); err != nil {
			ld.registry.bridge.Report(err)
			errs = append(errs, err)
			return nil
		}
		loaded++
		return nil
	})
	if walkErr != nil {
		errs = append(errs, fmt.Errorf("walk scripts %s: %w", dir, walkErr))
	}

	span.SetAttributes(attribute.Int("loaded", loaded), attribute.Int("failed", len(errs)))
	joined := errors.Join(errs...)
	if joined != nil {
		span.SetStatus(codes.Error, "some scripts failed")
	}
	ld.registry.bridge.Logger().Info().
		Str("dir", dir).
		Int("loaded", loaded).
		Int("failed", len(errs)).
		Msg("creature event scripts loaded")
	return loaded, joined
}

// ReloadDefinitions drops every config definition and reads path again.
func (ld *Loader) ReloadDefinitions(ctx context.Context, path, scriptsDir string) (int, error) {
	ld.registry.Reload(ctx, OriginConfig)
	return ld.LoadDefinitions(ctx, path, scriptsDir)
}

// ReloadScripts drops every script definition and runs dir again.
func (ld *Loader) ReloadScripts(ctx context.Context, dir string) (int, error) {
	ld.registry.Reload(ctx, OriginScript)
	return ld.LoadScripts(ctx, dir)
}
