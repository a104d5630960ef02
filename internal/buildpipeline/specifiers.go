package buildpipeline

import (
	"context"

	"esgate/internal/resolve"
	"esgate/internal/specifier"
)

// SpecifierResult is the outcome for one literal specifier.
type SpecifierResult struct {
	Specifier string
	Class     specifier.Class
	URL       string
	Err       error
}

// Specifiers resolves each literal specifier through hook and final,
// without a bundler. Results are in input order; one failure does not stop
// the rest.
func Specifiers(ctx context.Context, hook resolve.Hook, final resolve.Next, rc resolve.Context, specs []string) []SpecifierResult {
	next := resolve.Chain(final, hook)
	out := make([]SpecifierResult, 0, len(specs))
	for _, spec := range specs {
		r := SpecifierResult{Specifier: spec, Class: specifier.Classify(spec)}
		if err := ctx.Err(); err != nil {
			r.Err = err
			out = append(out, r)
			continue
		}
		res, err := next(ctx, spec, rc)
		r.URL, r.Err = res.URL, err
		out = append(out, r)
	}
	return out
}
