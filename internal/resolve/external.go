package resolve

import "context"

// External returns a hook that answers the listed specifiers itself with
// an external result, leaving them out of the bundle. The URL is the
// specifier as written. Other specifiers go to next.
func External(specs ...string) Hook {
	set := make(map[string]struct{}, len(specs))
	for _, s := range specs {
		if s != "" {
			set[s] = struct{}{}
		}
	}
	return HookFunc(func(ctx context.Context, spec string, rc Context, next Next) (Result, error) {
		if _, ok := set[spec]; ok {
			return Result{URL: spec, External: true}, nil
		}
		return next(ctx, spec, rc)
	})
}
