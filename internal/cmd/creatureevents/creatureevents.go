// Package creatureevents implements the creatureevents command: it boots the
// registry the way the game server does and reports what it loaded.
package creatureevents

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"

	"github.com/louisbranch/creatureevents/internal/creature"
	"github.com/louisbranch/creatureevents/internal/creatureevent"
	entrypoint "github.com/louisbranch/creatureevents/internal/platform/cmd"
	"github.com/louisbranch/creatureevents/internal/platform/logging"
	platformotel "github.com/louisbranch/creatureevents/internal/platform/otel"
	"github.com/louisbranch/creatureevents/internal/script"
	"github.com/louisbranch/creatureevents/internal/storage/sqlite"
	"github.com/louisbranch/creatureevents/internal/telemetry"
)

// Config holds creatureevents command configuration.
type Config struct {
	Definitions   string `env:"DEFINITIONS"    envDefault:"data/creaturescripts/creaturescripts.yaml"`
	ScriptsDir    string `env:"SCRIPTS_DIR"    envDefault:"data/creaturescripts/scripts"`
	RevScriptsDir string `env:"REVSCRIPTS_DIR" envDefault:"data/scripts"`
	MaxDepth      int    `env:"MAX_DEPTH"      envDefault:"16"`
	AuditDB       string `env:"AUDIT_DB"`
	Strict        bool   `env:"STRICT"`

	// DryRunLogin fires the login broadcast for a stub player with this name.
	DryRunLogin string
	// AuditTail prints the newest audit events after loading.
	AuditTail int

	Logging logging.Config
	OTel    platformotel.Settings
}

// ParseConfig reads CREATUREEVENTS_ environment defaults and then flags.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	fs.StringVar(&cfg.Definitions, "definitions", cfg.Definitions, "path to the creature event definitions file")
	fs.StringVar(&cfg.ScriptsDir, "scripts-dir", cfg.ScriptsDir, "directory definition scripts are resolved against")
	fs.StringVar(&cfg.RevScriptsDir, "revscripts-dir", cfg.RevScriptsDir, "directory of scripts that register events themselves")
	fs.IntVar(&cfg.MaxDepth, "max-depth", cfg.MaxDepth, "maximum nested script invocations")
	fs.StringVar(&cfg.AuditDB, "audit-db", cfg.AuditDB, "sqlite path for the dispatch audit log (empty disables)")
	fs.BoolVar(&cfg.Strict, "strict", cfg.Strict, "fail when any definition or script fails to load")
	fs.StringVar(&cfg.DryRunLogin, "dry-run-login", cfg.DryRunLogin, "fire the login hooks for a stub player with this name")
	fs.IntVar(&cfg.AuditTail, "audit-tail", cfg.AuditTail, "print this many of the newest audit events")
	fs.StringVar(&cfg.Logging.Level, "log-level", cfg.Logging.Level, "log level")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run loads every definition and script, prints the catalog to out and,
// when requested, the dry-run verdict and the audit tail. Logs go to errOut.
func Run(ctx context.Context, cfg Config, out io.Writer, errOut io.Writer) error {
	if out == nil {
		out = io.Discard
	}
	if errOut == nil {
		errOut = io.Discard
	}
	logger := logging.New(cfg.Logging, errOut)
	return entrypoint.RunWithTelemetryAndOptions(ctx, entrypoint.ServiceCreatureEvents, cfg.OTel,
		entrypoint.RunOptions{Logger: &logger},
		func(ctx context.Context) error {
			return run(ctx, cfg, logger, out)
		})
}

func run(ctx context.Context, cfg Config, logger zerolog.Logger, out io.Writer) error {
	opts := []script.Option{
		script.WithName("CreatureScript Interface"),
		script.WithMaxDepth(cfg.MaxDepth),
		script.WithLogger(logger),
	}

	var store *sqlite.Store
	if path := strings.TrimSpace(cfg.AuditDB); path != "" {
		var err error
		store, err = sqlite.Open(path)
		if err != nil {
			return fmt.Errorf("open audit store: %w", err)
		}
		defer func() {
			if err := store.Close(); err != nil {
				logger.Warn().Err(err).Msg("close audit store")
			}
		}()
		opts = append(opts, script.WithEmitter(telemetry.NewEmitter(store)))
	}

	recorder, err := script.NewOTelRecorder(otel.Meter(script.MeterName))
	if err != nil {
		return fmt.Errorf("create metrics recorder: %w", err)
	}
	opts = append(opts, script.WithRecorder(recorder))

	registry := creatureevent.NewRegistry(script.New(opts...))
	loader := creatureevent.NewLoader(registry)

	var loadErrs []error
	if _, err := os.Stat(cfg.Definitions); errors.Is(err, fs.ErrNotExist) {
		logger.Warn().Str("path", cfg.Definitions).Msg("definitions file not found")
	} else if _, err := loader.LoadDefinitions(ctx, cfg.Definitions, cfg.ScriptsDir); err != nil {
		loadErrs = append(loadErrs, err)
	}
	if _, err := loader.LoadScripts(ctx, cfg.RevScriptsDir); err != nil {
		loadErrs = append(loadErrs, err)
	}
	if err := errors.Join(loadErrs...); err != nil {
		if cfg.Strict {
			return fmt.Errorf("load creature events: %w", err)
		}
		logger.Warn().Err(err).Msg("some creature events failed to load")
	}

	if err := writeCatalog(out, registry); err != nil {
		return err
	}

	if name := strings.TrimSpace(cfg.DryRunLogin); name != "" {
		verdict := "allowed"
		if !registry.PlayerLogin(newStubPlayer(name)) {
			verdict = "vetoed"
		}
		if _, err := fmt.Fprintf(out, "login %s: %s\n", name, verdict); err != nil {
			return err
		}
	}

	if cfg.AuditTail > 0 && store != nil {
		return writeAuditTail(ctx, out, store, cfg.AuditTail)
	}
	return nil
}

func writeCatalog(out io.Writer, registry *creatureevent.Registry) error {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	for _, c := range creatureevent.Categories() {
		fmt.Fprintf(tw, "%s\t%d\n", c, registry.Count(c))
	}
	fmt.Fprintf(tw, "total\t%d\n", registry.Len())
	return tw.Flush()
}

func writeAuditTail(ctx context.Context, out io.Writer, store *sqlite.Store, limit int) error {
	events, err := store.ListTelemetryEvents(ctx, limit)
	if err != nil {
		return fmt.Errorf("list audit events: %w", err)
	}
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	for _, evt := range events {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			evt.Timestamp.Format("2006-01-02T15:04:05Z07:00"), evt.EventName, evt.Code, evt.HookName, evt.Message)
	}
	return tw.Flush()
}

// stubPlayer stands in for a connected player during a dry run.
type stubPlayer struct {
	name string
}

func newStubPlayer(name string) *stubPlayer { return &stubPlayer{name: name} }

func (p *stubPlayer) ID() uint32          { return 0x10000000 }
func (p *stubPlayer) Name() string        { return p.name }
func (p *stubPlayer) Kind() creature.Kind { return creature.KindPlayer }
func (p *stubPlayer) GUID() uint32        { return 1 }
