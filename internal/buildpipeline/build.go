package buildpipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/evanw/esbuild/pkg/api"

	"esgate/internal/diag"
	esbuildhost "esgate/internal/host/esbuild"
	"esgate/internal/preload"
	"esgate/internal/trace"
)

// BuildRequest configures Build.
type BuildRequest struct {
	Options
	// Outfile is the bundle path. Relative paths are under BaseDir.
	Outfile string
	// Preload, when set, is emitted as the bundle's banner so it runs
	// before any bundled module.
	Preload *preload.Generator
	// Minify and Sourcemap map onto the esbuild options of the same name.
	Minify    bool
	Sourcemap bool
	// DryRun bundles without writing the output file.
	DryRun bool
}

// BuildResult describes a finished build.
type BuildResult struct {
	OutputPath string
	Bytes      int
	Bag        *diag.Bag
	Timings    Timings
}

// Build bundles the single entry point with the gate installed and writes
// the result. Any rejected import fails the build with ErrDiagnostics and
// the diagnostics in the result's Bag.
func Build(ctx context.Context, req *BuildRequest) (BuildResult, error) {
	var result BuildResult
	if ctx == nil {
		ctx = context.Background()
	}
	if req == nil {
		return result, fmt.Errorf("missing build request")
	}
	base, err := req.baseDir()
	if err != nil {
		return result, fmt.Errorf("resolve base dir: %w", err)
	}
	files, err := req.entries(base)
	if err != nil {
		return result, err
	}
	if len(files) != 1 {
		return result, fmt.Errorf("build takes exactly one entry point, got %d", len(files))
	}
	platform, err := ParsePlatform(req.Platform)
	if err != nil {
		return result, err
	}
	format, err := ParseFormat(req.Format)
	if err != nil {
		return result, err
	}

	outfile := req.Outfile
	if outfile == "" {
		outfile = filepath.Join("dist", "bundle.js")
	}
	if !filepath.IsAbs(outfile) {
		outfile = filepath.Join(base, outfile)
	}
	result.OutputPath = outfile

	pass := trace.Begin(trace.FromContext(ctx), trace.ScopePass, "build", trace.CurrentSpan(ctx))
	defer pass.End("")
	ctx = trace.WithSpan(ctx, pass)

	opts := api.BuildOptions{
		EntryPoints:   files,
		Bundle:        true,
		Write:         false,
		Outfile:       outfile,
		LogLevel:      api.LogLevelSilent,
		AbsWorkingDir: base,
		Platform:      platform,
		Format:        format,
		Conditions:    req.Conditions,
		Plugins:       []api.Plugin{esbuildhost.Plugin(ctx, req.gate(), esbuildhost.Options{})},
	}
	if req.Preload != nil {
		opts.Banner = map[string]string{"js": req.Preload.Source()}
	}
	if req.Minify {
		opts.MinifyWhitespace = true
		opts.MinifyIdentifiers = true
		opts.MinifySyntax = true
	}
	if req.Sourcemap {
		opts.Sourcemap = api.SourceMapLinked
	}

	emit(req.Progress, files[0], StageBundle, StatusWorking, nil, 0)
	start := time.Now()
	res := api.Build(opts)
	result.Timings.Set(StageBundle, time.Since(start))

	bag := diag.NewBag(len(res.Errors) + len(res.Warnings))
	for _, msg := range res.Errors {
		bag.Add(toDiagnostic(msg, diag.SevError, base))
	}
	for _, msg := range res.Warnings {
		bag.Add(toDiagnostic(msg, diag.SevWarning, base))
	}
	bag.Sort()
	result.Bag = bag
	if len(res.Errors) > 0 {
		emit(req.Progress, files[0], StageBundle, StatusError, ErrDiagnostics, result.Timings.Duration(StageBundle))
		return result, ErrDiagnostics
	}
	emit(req.Progress, files[0], StageBundle, StatusDone, nil, result.Timings.Duration(StageBundle))

	if req.DryRun {
		for _, f := range res.OutputFiles {
			result.Bytes += len(f.Contents)
		}
		return result, nil
	}

	writeStart := time.Now()
	emit(req.Progress, files[0], StageWrite, StatusWorking, nil, 0)
	for _, f := range res.OutputFiles {
		if err := os.MkdirAll(filepath.Dir(f.Path), 0o750); err != nil {
			err = fmt.Errorf("failed to create output dir: %w", err)
			emit(req.Progress, files[0], StageWrite, StatusError, err, 0)
			return result, err
		}
		if err := os.WriteFile(f.Path, f.Contents, 0o600); err != nil {
			err = fmt.Errorf("failed to write build output %q: %w", f.Path, err)
			emit(req.Progress, files[0], StageWrite, StatusError, err, 0)
			return result, err
		}
		result.Bytes += len(f.Contents)
	}
	result.Timings.Set(StageWrite, time.Since(writeStart))
	emit(req.Progress, files[0], StageWrite, StatusDone, nil, result.Timings.Duration(StageWrite))
	return result, nil
}
