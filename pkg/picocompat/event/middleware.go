package event

import (
	"context"

	"github.com/randalmurphal/picocompat/pkg/picocompat/plugins"
)

// Invocation describes one legacy handler call.
type Invocation struct {
	// FiringID identifies the canonical firing (or direct trigger) the call
	// belongs to.
	FiringID string
	// Canonical is the canonical event being translated, "" for a direct
	// trigger.
	Canonical string
	Legacy    string
	Plugin    plugins.Plugin
	Revision  plugins.Revision
}

// InvokeFunc calls a legacy handler.
type InvokeFunc func(ctx context.Context, inv Invocation, p *Params) error

// MiddlewareFunc wraps handler invocations to add cross-cutting concerns.
// Middleware may observe errors but must return them unchanged.
type MiddlewareFunc func(next InvokeFunc) InvokeFunc

// ChainMiddleware applies middleware in order, with first middleware outermost.
func ChainMiddleware(invoke InvokeFunc, middleware ...MiddlewareFunc) InvokeFunc {
	for i := len(middleware) - 1; i >= 0; i-- {
		invoke = middleware[i](invoke)
	}
	return invoke
}

// invokeLegacy is the innermost InvokeFunc.
func invokeLegacy(_ context.Context, inv Invocation, p *Params) error {
	return legacySpecs[inv.Legacy].invoke(inv.Plugin, p)
}
