package preload

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/dop251/goja"

	"esgate/internal/dom"
)

// Validate compiles src without running it.
func Validate(src string) error {
	if _, err := goja.Compile("preload.js", src, false); err != nil {
		return fmt.Errorf("preload: syntax: %w", err)
	}
	return nil
}

// DryRunResult describes what a script installed on the global object.
type DryRunResult struct {
	Globals []string
	Title   string
}

// DryRun runs the generated script in an isolated runtime where require
// resolves the engine to a window backed by the dom package. It reports
// which globals the script installed. Cancelling ctx interrupts the script.
func (g *Generator) DryRun(ctx context.Context) (DryRunResult, error) {
	if err := Validate(g.source); err != nil {
		return DryRunResult{}, err
	}
	vm := goja.New()
	before := vm.GlobalObject().Keys()

	_ = vm.Set("require", func(name string) (*goja.Object, error) {
		if name != g.opts.Engine {
			return nil, fmt.Errorf("preload: unexpected require(%q)", name)
		}
		return g.engineModule(vm), nil
	})

	stop := context.AfterFunc(ctx, func() { vm.Interrupt(ctx.Err()) })
	defer stop()

	if _, err := vm.RunString(g.source); err != nil {
		return DryRunResult{}, fmt.Errorf("preload: run: %w", err)
	}

	var res DryRunResult
	for _, key := range vm.GlobalObject().Keys() {
		if key == "require" || slices.Contains(before, key) {
			continue
		}
		res.Globals = append(res.Globals, key)
	}
	slices.Sort(res.Globals)
	if v, err := vm.RunString(`typeof document === "object" && document !== null ? document.title : ""`); err == nil {
		res.Title = v.String()
	}
	return res, nil
}

// engineModule builds the stand-in module object exporting the configured
// constructor.
func (g *Generator) engineModule(vm *goja.Runtime) *goja.Object {
	ctor := func(call goja.ConstructorCall) *goja.Object {
		win, err := dom.NewWindow("")
		if err != nil {
			panic(vm.NewGoError(err))
		}
		if g.opts.Engine == EngineJSDOM {
			if err := win.Write(call.Argument(0).String()); err != nil {
				panic(vm.NewGoError(err))
			}
			holder := vm.NewObject()
			_ = holder.Set("window", win.Bind(vm, locationOf(vm, call.Argument(1), g.opts.URL)))
			return holder
		}
		return win.Bind(vm, locationOf(vm, call.Argument(0), g.opts.URL))
	}
	mod := vm.NewObject()
	_ = mod.Set(g.opts.Export, ctor)
	return mod
}

func locationOf(vm *goja.Runtime, options goja.Value, fallback string) string {
	if options == nil || goja.IsUndefined(options) || goja.IsNull(options) {
		return fallback
	}
	if u := options.ToObject(vm).Get("url"); u != nil && !goja.IsUndefined(u) {
		return u.String()
	}
	return fallback
}

// runTimeout bounds DryRun when the caller has no deadline.
const runTimeout = 5 * time.Second

// DryRunWithTimeout is DryRun under a default deadline.
func (g *Generator) DryRunWithTimeout(ctx context.Context) (DryRunResult, error) {
	ctx, cancel := context.WithTimeout(ctx, runTimeout)
	defer cancel()
	return g.DryRun(ctx)
}
