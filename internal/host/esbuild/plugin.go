// Package esbuildhost installs a resolve.Hook into esbuild as an
// on-resolve plugin, with esbuild's own resolver as the hook's next.
package esbuildhost

import (
	"context"
	"errors"
	"fmt"

	"github.com/evanw/esbuild/pkg/api"

	"esgate/internal/diag"
	"esgate/internal/resolve"
)

// PluginName is reported by esbuild for messages raised by the gate.
const PluginName = "esgate"

// passthrough marks a resolution the plugin issued itself, so the
// re-entrant on-resolve call steps aside for esbuild's resolver.
type passthrough struct{}

// Options tunes the plugin.
type Options struct {
	// Conditions replace the build's export conditions in the context
	// handed to the hook. Nil keeps the build's own.
	Conditions []string
}

// Plugin wraps hook for esbuild. ctx is passed to every hook invocation;
// esbuild callbacks carry no context of their own.
func Plugin(ctx context.Context, hook resolve.Hook, opts Options) api.Plugin {
	return api.Plugin{
		Name: PluginName,
		Setup: func(build api.PluginBuild) {
			conditions := opts.Conditions
			if conditions == nil && build.InitialOptions != nil {
				conditions = build.InitialOptions.Conditions
			}
			build.OnResolve(api.OnResolveOptions{Filter: ".*"}, func(args api.OnResolveArgs) (api.OnResolveResult, error) {
				if skip(args) {
					return api.OnResolveResult{}, nil
				}
				return onResolve(ctx, build, hook, conditions, args), nil
			})
		},
	}
}

func skip(args api.OnResolveArgs) bool {
	if _, ok := args.PluginData.(passthrough); ok {
		return true
	}
	if args.Namespace != "" && args.Namespace != "file" {
		return true
	}
	switch args.Kind {
	case api.ResolveEntryPoint, api.ResolveCSSURLToken:
		return true
	}
	return false
}

func onResolve(ctx context.Context, build api.PluginBuild, hook resolve.Hook, conditions []string, args api.OnResolveArgs) api.OnResolveResult {
	var parent string
	if args.Importer != "" {
		parent = resolve.FileURL(args.Importer)
	}

	var (
		host   api.ResolveResult
		called bool
	)
	next := func(ctx context.Context, spec string, rc resolve.Context) (resolve.Result, error) {
		if err := ctx.Err(); err != nil {
			return resolve.Result{}, err
		}
		called = true
		host = build.Resolve(spec, api.ResolveOptions{
			PluginName: PluginName,
			Importer:   args.Importer,
			Namespace:  args.Namespace,
			ResolveDir: args.ResolveDir,
			Kind:       args.Kind,
			PluginData: passthrough{},
			With:       args.With,
		})
		if len(host.Errors) > 0 {
			return resolve.Result{}, &diag.HostResolveError{
				Specifier: spec,
				Referrer:  rc.ParentURL,
				Messages:  messageTexts(host.Errors),
			}
		}
		res := resolve.Result{External: host.External}
		if host.Namespace == "file" || host.Namespace == "" {
			res.URL = resolve.FileURL(host.Path)
		} else {
			res.URL = host.Namespace + ":" + host.Path
		}
		return res, nil
	}

	res, err := hook.Resolve(ctx, args.Path, resolve.Context{ParentURL: parent, Conditions: conditions}, next)
	if err != nil {
		var hostErr *diag.HostResolveError
		if errors.As(err, &hostErr) {
			// esbuild already formatted these; hand them back untouched.
			return api.OnResolveResult{Errors: host.Errors, Warnings: host.Warnings}
		}
		return errorResult(err)
	}
	if !called {
		return hookResult(res)
	}
	return api.OnResolveResult{
		Path:        host.Path,
		External:    host.External,
		Namespace:   host.Namespace,
		SideEffects: sideEffects(host.SideEffects),
		Suffix:      host.Suffix,
		PluginData:  host.PluginData,
		Warnings:    host.Warnings,
	}
}

// hookResult turns an answer a hook gave without calling next into an
// esbuild result. External results keep their URL as the import path;
// internal ones must be file URLs.
func hookResult(res resolve.Result) api.OnResolveResult {
	if res.External {
		return api.OnResolveResult{Path: res.URL, External: true}
	}
	p, err := resolve.PathFromURL(res.URL)
	if err != nil {
		return errorResult(fmt.Errorf("hook answered with %q: %w", res.URL, err))
	}
	return api.OnResolveResult{Path: p, Namespace: "file"}
}

func errorResult(err error) api.OnResolveResult {
	return api.OnResolveResult{Errors: []api.Message{{Text: err.Error(), Detail: err}}}
}

func sideEffects(has bool) api.SideEffects {
	if has {
		return api.SideEffectsTrue
	}
	return api.SideEffectsFalse
}

func messageTexts(msgs []api.Message) []string {
	out := make([]string, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, m.Text)
	}
	return out
}
