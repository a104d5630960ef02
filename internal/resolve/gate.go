package resolve

import (
	"context"

	"esgate/internal/config"
	"esgate/internal/diag"
	"esgate/internal/specifier"
	"esgate/internal/style"
	"esgate/internal/trace"
)

// Gate rejects bare specifiers and forwards everything else to next. It
// holds no mutable state, so one Gate serves concurrent resolutions.
type Gate struct {
	baseURL string
	table   *style.Table
	allow   map[string]struct{}
}

// Option configures a Gate.
type Option func(*Gate)

// WithAllow lets the listed exact specifiers through even though they are
// bare. Used for the DOM engine the preload banner requires.
func WithAllow(specs ...string) Option {
	return func(g *Gate) {
		for _, s := range specs {
			if s == "" {
				continue
			}
			if g.allow == nil {
				g.allow = make(map[string]struct{}, len(specs))
			}
			g.allow[s] = struct{}{}
		}
	}
}

// WithTable overrides the escape table used to render rejections, e.g. a
// plain table for JSON output on a rich terminal.
func WithTable(t *style.Table) Option {
	return func(g *Gate) {
		if t != nil {
			g.table = t
		}
	}
}

// NewGate builds a Gate from the process runtime configuration.
func NewGate(rt config.Runtime, opts ...Option) *Gate {
	g := &Gate{
		baseURL: rt.BaseURL(),
		table:   style.NewTable(rt.Rich()),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Resolve implements Hook. A reserved specifier fails with
// *diag.InvalidSpecifierError before next is reached; anything else is
// handed to next with the parent URL filled in and its result returned
// untouched.
func (g *Gate) Resolve(ctx context.Context, spec string, rc Context, next Next) (Result, error) {
	referrer := rc.ParentURL
	if referrer == "" {
		referrer = g.baseURL
	}

	reserved := specifier.IsReserved(spec)
	_, allowed := g.allow[spec]
	g.record(ctx, spec, referrer, reserved, allowed)

	if reserved && !allowed {
		return Result{}, diag.NewInvalidSpecifier(g.table, spec, referrer)
	}
	return next(ctx, spec, Context{ParentURL: referrer, Conditions: rc.Conditions})
}

func (g *Gate) record(ctx context.Context, spec, referrer string, reserved, allowed bool) {
	t := trace.FromContext(ctx)
	if !t.Enabled() {
		return
	}
	verdict := "accept"
	switch {
	case reserved && allowed:
		verdict = "allow"
	case reserved:
		verdict = "reject"
	}
	trace.Point(t, trace.ScopeNode, "resolve", trace.CurrentSpan(ctx), spec, map[string]string{
		"class":    specifier.Classify(spec).String(),
		"referrer": referrer,
		"verdict":  verdict,
	})
}
