package event

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/randalmurphal/picocompat/pkg/picocompat/observability"
	"github.com/randalmurphal/picocompat/pkg/picocompat/plugins"
	"github.com/randalmurphal/picocompat/pkg/picocompat/registry"
)

// Dispatcher re-emits canonical events as legacy events to every plugin
// of revision 0 or 1 that handles them.
//
// Dispatch is synchronous: legacy events fire in alias table order, and
// for each event plugins are called in registry order, revision 0 before
// revision 1. The first handler error aborts the firing and is returned
// unchanged.
type Dispatcher struct {
	view       plugins.View
	aliases    AliasTable
	logger     *slog.Logger
	metrics    observability.MetricsRecorder
	spans      observability.SpanManager
	middleware []MiddlewareFunc

	invoke InvokeFunc
	caps   *registry.Registry[string, CapabilitySet]
}

// DispatcherOption configures a Dispatcher.
type DispatcherOption func(*Dispatcher)

// WithLogger sets the logger. Default: no logging.
func WithLogger(logger *slog.Logger) DispatcherOption {
	return func(d *Dispatcher) {
		d.logger = logger
	}
}

// WithMetrics sets the metrics recorder. Default: observability.NoopMetrics.
func WithMetrics(m observability.MetricsRecorder) DispatcherOption {
	return func(d *Dispatcher) {
		if m != nil {
			d.metrics = m
		}
	}
}

// WithSpans sets the span manager. Default: observability.NoopSpanManager.
func WithSpans(s observability.SpanManager) DispatcherOption {
	return func(d *Dispatcher) {
		if s != nil {
			d.spans = s
		}
	}
}

// WithMiddleware appends invocation middleware. The first middleware
// added is outermost.
func WithMiddleware(mw ...MiddlewareFunc) DispatcherOption {
	return func(d *Dispatcher) {
		d.middleware = append(d.middleware, mw...)
	}
}

// NewDispatcher creates a dispatcher over a plugin view using the fixed
// API v0 alias table.
func NewDispatcher(view plugins.View, opts ...DispatcherOption) *Dispatcher {
	d := &Dispatcher{
		view:    view,
		aliases: DefaultAliases(),
		metrics: observability.NoopMetrics{},
		spans:   observability.NoopSpanManager{},
		caps:    registry.New[string, CapabilitySet](),
	}
	for _, opt := range opts {
		opt(d)
	}

	mw := append([]MiddlewareFunc{}, d.middleware...)
	mw = append(mw, d.observe)
	d.invoke = ChainMiddleware(invokeLegacy, mw...)
	return d
}

// Aliases returns the alias table.
func (d *Dispatcher) Aliases() AliasTable {
	return d.aliases
}

// DispatchCanonical re-emits a canonical event. A canonical event without
// legacy aliases is a no-op.
func (d *Dispatcher) DispatchCanonical(ctx context.Context, canonical string, p *Params) error {
	legacy, ok := d.aliases.Lookup(canonical)
	if !ok {
		return nil
	}
	if p == nil {
		return ErrNilParams
	}

	firingID := uuid.New().String()
	ctx, span := d.spans.StartDispatchSpan(ctx, canonical, firingID)
	observability.LogDispatch(observability.EnrichLogger(d.logger, firingID, canonical), canonical, legacy)

	var err error
	for _, name := range legacy {
		if err = d.broadcast(ctx, firingID, canonical, name, p); err != nil {
			break
		}
	}

	d.spans.EndSpanWithError(span, err)
	return err
}

// Trigger fires a single legacy event. canonical names the canonical event
// being handled, or is "" when there is none.
func (d *Dispatcher) Trigger(ctx context.Context, canonical, legacy string, p *Params) error {
	if !IsLegacyEvent(legacy) {
		return fmt.Errorf("%w: %q", ErrUnknownLegacyEvent, legacy)
	}
	if p == nil {
		return ErrNilParams
	}

	firingID := uuid.New().String()
	ctx, span := d.spans.StartDispatchSpan(ctx, canonicalOr(canonical, legacy), firingID)
	err := d.broadcast(ctx, firingID, canonical, legacy, p)
	d.spans.EndSpanWithError(span, err)
	return err
}

// HandleCustomEvent ignores custom events. Only the fixed legacy events
// ever leave this layer.
func (d *Dispatcher) HandleCustomEvent(_ context.Context, _ string, _ ...any) error {
	return nil
}

// Capabilities returns the cached capability set for a plugin, computing
// it on first use. Sets are cached by plugin name.
func (d *Dispatcher) Capabilities(pl plugins.Plugin) CapabilitySet {
	return d.caps.GetOrCreate(pl.Name(), func() CapabilitySet {
		return Capabilities(pl)
	})
}

// Refresh drops cached capability sets. Call it after replacing a plugin
// with a different implementation under the same name.
func (d *Dispatcher) Refresh() {
	for _, name := range d.caps.Keys() {
		d.caps.Delete(name)
	}
}

// target is a plugin offered legacy events, with the revision it was
// found under.
type target struct {
	plugin   plugins.Plugin
	revision plugins.Revision
}

// targets lists revision 0 plugins, then revision 1 plugins. A name present
// under both revisions is kept once, at its first position.
func (d *Dispatcher) targets() []target {
	var out []target
	seen := make(map[string]bool)
	for _, rev := range plugins.SupportedRevisions() {
		for _, pl := range d.view.PluginsOfRevision(rev) {
			if pl == nil || seen[pl.Name()] {
				continue
			}
			seen[pl.Name()] = true
			out = append(out, target{plugin: pl, revision: rev})
		}
	}
	return out
}

func (d *Dispatcher) broadcast(ctx context.Context, firingID, canonical, legacy string, p *Params) error {
	for _, t := range d.targets() {
		if !d.Capabilities(t.plugin).Has(legacy) {
			continue
		}
		inv := Invocation{
			FiringID:  firingID,
			Canonical: canonical,
			Legacy:    legacy,
			Plugin:    t.plugin,
			Revision:  t.revision,
		}
		if err := d.invoke(ctx, inv, p); err != nil {
			return err
		}
	}
	return nil
}

// observe is the innermost middleware: spans, metrics and logs per call.
func (d *Dispatcher) observe(next InvokeFunc) InvokeFunc {
	return func(ctx context.Context, inv Invocation, p *Params) error {
		name := inv.Plugin.Name()
		ctx, span := d.spans.StartInvocationSpan(ctx, inv.Legacy, name)
		done := observability.TimedOperation()

		err := next(ctx, inv, p)

		elapsed := done()
		d.metrics.RecordInvocation(ctx, inv.Legacy, name, elapsed, err)
		if err != nil {
			observability.LogHandlerError(d.logger, inv.Legacy, name, err)
		} else {
			observability.LogInvocation(d.logger, inv.Legacy, name, int(inv.Revision), elapsed)
		}
		d.spans.EndSpanWithError(span, err)
		return err
	}
}

func canonicalOr(canonical, legacy string) string {
	if canonical != "" {
		return canonical
	}
	return legacy
}
