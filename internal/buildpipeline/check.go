package buildpipeline

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/evanw/esbuild/pkg/api"
	"golang.org/x/sync/errgroup"

	"esgate/internal/diag"
	esbuildhost "esgate/internal/host/esbuild"
	"esgate/internal/resolve"
	"esgate/internal/trace"
)

// CheckRequest configures Check.
type CheckRequest struct {
	Options
	// Jobs bounds concurrent entry points. Zero means GOMAXPROCS.
	Jobs           int
	MaxDiagnostics int
}

// CheckResult holds the sorted, deduplicated diagnostics of a check.
type CheckResult struct {
	Bag     *diag.Bag
	Timings Timings
	// Files lists the absolute entry points, in request order.
	Files []string
}

// Check bundles each entry point in memory with the gate installed and
// collects every diagnostic esbuild reports. Finding diagnostics is not an
// error; the returned error covers bad requests and cancellation.
func Check(ctx context.Context, req *CheckRequest) (CheckResult, error) {
	var result CheckResult
	if ctx == nil {
		ctx = context.Background()
	}
	if req == nil {
		return result, fmt.Errorf("missing check request")
	}
	base, err := req.baseDir()
	if err != nil {
		return result, fmt.Errorf("resolve base dir: %w", err)
	}
	files, err := req.entries(base)
	if err != nil {
		return result, err
	}
	platform, err := ParsePlatform(req.Platform)
	if err != nil {
		return result, err
	}
	format, err := ParseFormat(req.Format)
	if err != nil {
		return result, err
	}
	result.Files = files

	maxDiagnostics := req.MaxDiagnostics
	if maxDiagnostics <= 0 {
		maxDiagnostics = 100
	}
	jobs := req.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	tracer := trace.FromContext(ctx)
	pass := trace.Begin(tracer, trace.ScopePass, "check", trace.CurrentSpan(ctx))
	ctx = trace.WithSpan(ctx, pass)

	emitQueued(req.Progress, files)
	gate := req.gate()
	bags := make([]*diag.Bag, len(files))

	start := time.Now()
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(files)))
	for i, file := range files {
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			bags[i] = checkEntry(gctx, req, gate, file, base, platform, format, maxDiagnostics)
			return nil
		})
	}
	waitErr := g.Wait()
	result.Timings.Set(StageScan, time.Since(start))

	bag := diag.NewBag(maxDiagnostics)
	for _, b := range bags {
		if b != nil {
			bag.Merge(b)
		}
	}
	bag.Dedup()
	bag.Sort()
	result.Bag = bag

	pass.WithExtra("diagnostics", fmt.Sprint(bag.Len())).End("")
	if waitErr != nil {
		return result, waitErr
	}
	return result, nil
}

func checkEntry(ctx context.Context, req *CheckRequest, gate resolve.Hook, file, base string, platform api.Platform, format api.Format, maxDiagnostics int) *diag.Bag {
	span := trace.Begin(trace.FromContext(ctx), trace.ScopeModule, "entry", trace.CurrentSpan(ctx))
	ctx = trace.WithSpan(ctx, span)
	started := time.Now()
	emit(req.Progress, file, StageScan, StatusWorking, nil, 0)

	res := api.Build(api.BuildOptions{
		EntryPoints:   []string{file},
		Bundle:        true,
		Write:         false,
		LogLevel:      api.LogLevelSilent,
		AbsWorkingDir: base,
		Platform:      platform,
		Format:        format,
		Conditions:    req.Conditions,
		Plugins:       []api.Plugin{esbuildhost.Plugin(ctx, gate, esbuildhost.Options{})},
	})

	bag := diag.NewBag(maxDiagnostics)
	// esbuild repeats a failed resolve once per import record
	reporter := diag.NewDedupReporter(diag.NewBagReporter(bag))
	for _, msg := range res.Errors {
		reporter.Report(toDiagnostic(msg, diag.SevError, base))
	}
	for _, msg := range res.Warnings {
		reporter.Report(toDiagnostic(msg, diag.SevWarning, base))
	}

	elapsed := time.Since(started)
	if bag.HasErrors() {
		emit(req.Progress, file, StageScan, StatusError, fmt.Errorf("%d diagnostics", bag.Len()), elapsed)
	} else {
		emit(req.Progress, file, StageScan, StatusDone, nil, elapsed)
	}
	span.WithExtra("file", file).End(fmt.Sprint(bag.Len()))
	return bag
}
