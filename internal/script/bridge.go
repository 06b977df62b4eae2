package script

import (
	"context"
	"errors"

	"github.com/Shopify/go-lua"
	"github.com/rs/zerolog"

	apperrors "github.com/louisbranch/creatureevents/internal/platform/errors"
	"github.com/louisbranch/creatureevents/internal/storage"
	"github.com/louisbranch/creatureevents/internal/telemetry"
)

// DefaultMaxDepth bounds nested script invocations.
const DefaultMaxDepth = 16

// Metadata keys attached to reported errors.
const (
	MetaEvent    = "event"
	MetaCategory = "category"
	MetaScript   = "script"
)

// Env is the execution context of one reserved call slot.
type Env struct {
	Function FunctionID
	Script   string
}

// Bind points the environment at a compiled callback and its source script.
func (e *Env) Bind(fn FunctionID, script string) {
	e.Function = fn
	e.Script = script
}

// Bridge owns the Lua state shared by every creature event definition.
type Bridge struct {
	name     string
	state    *lua.State
	maxDepth int
	envs     []Env
	depth    int

	nextFunction FunctionID
	functions    map[FunctionID]string

	logger   zerolog.Logger
	emitter  *telemetry.Emitter
	recorder Recorder
}

// Option configures a Bridge.
type Option func(*Bridge)

// WithName sets the interface name used in log records.
func WithName(name string) Option {
	return func(b *Bridge) { b.name = name }
}

// WithMaxDepth sets the reservation ceiling. Values below one are ignored.
func WithMaxDepth(depth int) Option {
	return func(b *Bridge) {
		if depth > 0 {
			b.maxDepth = depth
		}
	}
}

// WithLogger sets the logger failures are written to.
func WithLogger(logger zerolog.Logger) Option {
	return func(b *Bridge) { b.logger = logger }
}

// WithEmitter persists reported failures as telemetry events.
func WithEmitter(emitter *telemetry.Emitter) Option {
	return func(b *Bridge) { b.emitter = emitter }
}

// WithRecorder sets the metrics recorder.
func WithRecorder(recorder Recorder) Option {
	return func(b *Bridge) {
		if recorder != nil {
			b.recorder = recorder
		}
	}
}

// New creates and initialises a bridge.
func New(opts ...Option) *Bridge {
	b := &Bridge{
		name:     "CreatureScript Interface",
		maxDepth: DefaultMaxDepth,
		logger:   zerolog.Nop(),
		recorder: NoopRecorder{},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(b)
		}
	}
	b.Init()
	return b
}

// Init creates a fresh Lua state with the standard libraries, the callback
// table, the userdata metatables and the game constants. Any previously
// stored callbacks are dropped.
func (b *Bridge) Init() {
	l := lua.NewState()
	lua.OpenLibraries(l)
	b.state = l
	b.envs = make([]Env, b.maxDepth)
	b.depth = 0
	b.nextFunction = 0
	b.functions = make(map[FunctionID]string)

	l.NewTable()
	l.SetField(lua.RegistryIndex, functionTableKey)
	registerMetaTables(l)
	registerConstants(l)
}

// Reinit resets the execution state: every reserved slot is released and the
// Lua stack is emptied. Stored callbacks stay valid so definitions that
// survive a clear keep working.
func (b *Bridge) Reinit() {
	for i := range b.envs {
		b.envs[i] = Env{}
	}
	b.depth = 0
	b.state.SetTop(0)
}

// Name returns the interface name.
func (b *Bridge) Name() string { return b.name }

// State exposes the Lua state for argument marshalling.
func (b *Bridge) State() *lua.State { return b.state }

// Logger returns the bridge logger.
func (b *Bridge) Logger() *zerolog.Logger { return &b.logger }

// MaxDepth returns the reservation ceiling.
func (b *Bridge) MaxDepth() int { return b.maxDepth }

// Depth returns the number of reserved slots.
func (b *Bridge) Depth() int { return b.depth }

// Reserve claims an execution slot. It returns false once MaxDepth slots are
// held; callers must not invoke a script in that case.
func (b *Bridge) Reserve() bool {
	if b.depth >= b.maxDepth {
		return false
	}
	b.envs[b.depth] = Env{}
	b.depth++
	return true
}

// Env returns the innermost reserved slot, or nil when none is held.
func (b *Bridge) Env() *Env {
	if b.depth == 0 {
		return nil
	}
	return &b.envs[b.depth-1]
}

// Release resets and frees the innermost reserved slot.
func (b *Bridge) Release() {
	if b.depth == 0 {
		return
	}
	b.depth--
	b.envs[b.depth] = Env{}
}

// Observe records the outcome of one hook invocation.
func (b *Bridge) Observe(hook string, err error) {
	b.recorder.RecordInvocation(context.Background(), hook, err)
}

// Report logs err, counts it and, when an emitter is configured, persists it.
// Metadata carried by an *apperrors.Error becomes structured fields.
func (b *Bridge) Report(err error) {
	if err == nil {
		return
	}
	code := apperrors.CodeOf(err)
	message := err.Error()
	var metadata map[string]string
	var appErr *apperrors.Error
	if errors.As(err, &appErr) {
		message = appErr.Message
		metadata = appErr.Metadata
	}

	evt := b.logger.Error()
	if code.Severity() == apperrors.SeverityWarn {
		evt = b.logger.Warn()
	}
	evt = evt.Str("interface", b.name).Str("code", string(code))
	for key, value := range metadata {
		evt = evt.Str(key, value)
	}
	evt.Err(err).Msg(message)

	ctx := context.Background()
	b.recorder.RecordError(ctx, code)

	if b.emitter == nil {
		return
	}
	name := telemetry.EventDispatchFailed
	if code.ConfigTime() {
		name = telemetry.EventRegistrationFailed
	}
	record := storage.TelemetryEvent{
		EventName:  name,
		Severity:   string(code.Severity()),
		Category:   metadata[MetaCategory],
		HookName:   metadata[MetaEvent],
		ScriptPath: metadata[MetaScript],
		Code:       string(code),
		Message:    err.Error(),
		Attributes: map[string]any{"depth": b.depth, "interface": b.name},
	}
	if emitErr := b.emitter.Emit(ctx, record); emitErr != nil {
		b.logger.Warn().Err(emitErr).Str("code", string(code)).Msg("persist telemetry")
	}
}

// Emit persists evt when an emitter is configured. Persistence failures are
// logged and otherwise ignored.
func (b *Bridge) Emit(ctx context.Context, evt storage.TelemetryEvent) {
	if b.emitter == nil {
		return
	}
	if err := b.emitter.Emit(ctx, evt); err != nil {
		b.logger.Warn().Err(err).Str("event_name", evt.EventName).Msg("persist telemetry")
	}
}
