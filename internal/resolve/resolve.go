// Package resolve defines the resolver contract shared by hosts and hooks,
// the specifier gate, and a filesystem resolver used as the default
// terminal resolver outside a bundler.
package resolve

import "context"

// Context describes the import being resolved.
type Context struct {
	// ParentURL is the importing module's absolute file URL. Empty means
	// the import has no parent (an entry point); the gate substitutes the
	// process base URL.
	ParentURL string
	// Conditions are export conditions, passed through unchanged.
	Conditions []string
}

// Result is a successful resolution.
type Result struct {
	URL string
	// External marks results the host leaves out of the bundle.
	External bool
}

// Next resolves a specifier. It is the "next" resolver a hook wraps.
type Next func(ctx context.Context, specifier string, rc Context) (Result, error)

// Hook intercepts resolution and either answers, fails, or calls next.
type Hook interface {
	Resolve(ctx context.Context, specifier string, rc Context, next Next) (Result, error)
}

// HookFunc adapts a function to Hook.
type HookFunc func(ctx context.Context, specifier string, rc Context, next Next) (Result, error)

func (f HookFunc) Resolve(ctx context.Context, specifier string, rc Context, next Next) (Result, error) {
	return f(ctx, specifier, rc, next)
}

// Chain composes hooks in front of final. The first hook runs first; each
// hook's next is the remainder of the chain.
func Chain(final Next, hooks ...Hook) Next {
	next := final
	for i := len(hooks) - 1; i >= 0; i-- {
		hook, inner := hooks[i], next
		next = func(ctx context.Context, specifier string, rc Context) (Result, error) {
			return hook.Resolve(ctx, specifier, rc, inner)
		}
	}
	return next
}
