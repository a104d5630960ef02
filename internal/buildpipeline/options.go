// Package buildpipeline runs esbuild with the specifier gate installed,
// either to collect every rejected import (Check) or to write a bundle
// (Build).
package buildpipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/evanw/esbuild/pkg/api"

	"esgate/internal/config"
	"esgate/internal/resolve"
	"esgate/internal/style"
)

var (
	// ErrNoEntries is returned when a request names no entry point.
	ErrNoEntries = errors.New("no entry points")
	// ErrDiagnostics is returned by Build when the bundler reported errors.
	ErrDiagnostics = errors.New("bundle reported errors")
)

// Options are shared by Check and Build.
type Options struct {
	Entries []string
	// BaseDir anchors relative entries and message paths. Defaults to the
	// working directory.
	BaseDir    string
	Runtime    config.Runtime
	Allow      []string
	Conditions []string
	// Platform is browser, node or neutral.
	Platform string
	// Format is esm, iife or cjs.
	Format string
	// Table overrides the escape table used in rejection messages.
	Table    *style.Table
	Progress ProgressSink
	// External lists specifiers left out of the bundle. They still pass
	// through the gate first, so bare ones also need Allow.
	External []string
}

func (o *Options) baseDir() (string, error) {
	if o.BaseDir != "" {
		return filepath.Abs(o.BaseDir)
	}
	return os.Getwd()
}

func (o *Options) entries(base string) ([]string, error) {
	if len(o.Entries) == 0 {
		return nil, ErrNoEntries
	}
	out := make([]string, 0, len(o.Entries))
	for _, e := range o.Entries {
		if !filepath.IsAbs(e) {
			e = filepath.Join(base, e)
		}
		out = append(out, filepath.Clean(e))
	}
	return out, nil
}

// gate builds the hook installed into esbuild: the specifier gate followed
// by the externals hook when any are configured.
func (o *Options) gate() resolve.Hook {
	var opts []resolve.Option
	if len(o.Allow) > 0 {
		opts = append(opts, resolve.WithAllow(o.Allow...))
	}
	if o.Table != nil {
		opts = append(opts, resolve.WithTable(o.Table))
	}
	g := resolve.NewGate(o.Runtime, opts...)
	if len(o.External) == 0 {
		return g
	}
	hooks := []resolve.Hook{g, resolve.External(o.External...)}
	return resolve.HookFunc(func(ctx context.Context, spec string, rc resolve.Context, next resolve.Next) (resolve.Result, error) {
		return resolve.Chain(next, hooks...)(ctx, spec, rc)
	})
}

// ParsePlatform maps a platform name to esbuild's constant.
func ParsePlatform(s string) (api.Platform, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "browser":
		return api.PlatformBrowser, nil
	case "node":
		return api.PlatformNode, nil
	case "neutral":
		return api.PlatformNeutral, nil
	default:
		return api.PlatformDefault, fmt.Errorf("unknown platform %q (must be browser, node or neutral)", s)
	}
}

// ParseFormat maps an output format name to esbuild's constant.
func ParseFormat(s string) (api.Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "esm":
		return api.FormatESModule, nil
	case "iife":
		return api.FormatIIFE, nil
	case "cjs":
		return api.FormatCommonJS, nil
	default:
		return api.FormatDefault, fmt.Errorf("unknown format %q (must be esm, iife or cjs)", s)
	}
}
