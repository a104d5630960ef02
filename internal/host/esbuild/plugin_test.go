package esbuildhost

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/evanw/esbuild/pkg/api"

	"esgate/internal/config"
	"esgate/internal/diag"
	"esgate/internal/resolve"
)

func writeFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for name, body := range files {
		p := filepath.Join(root, name)
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := os.WriteFile(p, []byte(body), 0o600); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
	return root
}

func bundle(t *testing.T, root, entry string) api.BuildResult {
	t.Helper()
	gate := resolve.NewGate(config.New(resolve.FileURL(root)+"/", false))
	return api.Build(api.BuildOptions{
		EntryPoints:   []string{filepath.Join(root, entry)},
		Bundle:        true,
		Write:         false,
		Format:        api.FormatESModule,
		LogLevel:      api.LogLevelSilent,
		AbsWorkingDir: root,
		Plugins:       []api.Plugin{Plugin(context.Background(), gate, Options{})},
	})
}

func TestPluginAcceptsRelativeImports(t *testing.T) {
	root := writeFiles(t, map[string]string{
		"main.js":     "import { x } from './lib/x.js';\nconsole.log(x);\n",
		"lib/x.js":    "import { y } from '../y.js';\nexport const x = y + 1;\n",
		"y.js":        "export const y = 41;\n",
		"unused.json": "{}",
	})
	res := bundle(t, root, "main.js")
	if len(res.Errors) != 0 {
		t.Fatalf("unexpected errors: %+v", res.Errors)
	}
	if len(res.OutputFiles) != 1 || !strings.Contains(string(res.OutputFiles[0].Contents), "41") {
		t.Fatalf("unexpected output: %+v", res.OutputFiles)
	}
}

func TestPluginRejectsBareImport(t *testing.T) {
	root := writeFiles(t, map[string]string{
		"main.js": "import _ from 'lodash';\nconsole.log(_);\n",
	})
	res := bundle(t, root, "main.js")
	if len(res.Errors) != 1 {
		t.Fatalf("expected one error, got %+v", res.Errors)
	}
	msg := res.Errors[0]
	err, ok := msg.Detail.(error)
	if !ok {
		t.Fatalf("detail is %T, want error", msg.Detail)
	}
	var inv *diag.InvalidSpecifierError
	if !errors.As(err, &inv) || inv.Specifier != "lodash" {
		t.Fatalf("detail = %v", err)
	}
	if want := resolve.FileURL(filepath.Join(root, "main.js")); inv.Referrer != want {
		t.Fatalf("referrer = %q, want %q", inv.Referrer, want)
	}
	if msg.Location == nil || msg.Location.Line != 1 {
		t.Fatalf("expected location on line 1, got %+v", msg.Location)
	}
}

func TestPluginReportsHostFailures(t *testing.T) {
	root := writeFiles(t, map[string]string{
		"main.js": "import './missing.js';\n",
	})
	res := bundle(t, root, "main.js")
	if len(res.Errors) == 0 {
		t.Fatal("expected a resolve error for a missing file")
	}
	if _, ok := res.Errors[0].Detail.(*diag.InvalidSpecifierError); ok {
		t.Fatal("missing relative file must not be reported as a bare specifier")
	}
}

func bundleWith(t *testing.T, root, entry string, hook resolve.Hook) api.BuildResult {
	t.Helper()
	return api.Build(api.BuildOptions{
		EntryPoints:   []string{filepath.Join(root, entry)},
		Bundle:        true,
		Write:         false,
		Format:        api.FormatESModule,
		LogLevel:      api.LogLevelSilent,
		AbsWorkingDir: root,
		Plugins:       []api.Plugin{Plugin(context.Background(), hook, Options{})},
	})
}

func TestPluginUsesHookAnswer(t *testing.T) {
	root := writeFiles(t, map[string]string{
		"main.js":  "import v from './virtual.js';\nimport { y } from './y.js';\nconsole.log(v, y);\n",
		"y.js":     "export const y = 41;\n",
		"other.js": "export default 7;\n",
	})
	other := resolve.FileURL(filepath.Join(root, "other.js"))

	tests := []struct {
		name   string
		result resolve.Result
		want   string
	}{
		{"external", resolve.Result{URL: "file:///nonexistent/virtual.js", External: true}, "file:///nonexistent/virtual.js"},
		{"redirect", resolve.Result{URL: other}, "= 7"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hook := resolve.HookFunc(func(ctx context.Context, spec string, rc resolve.Context, next resolve.Next) (resolve.Result, error) {
				if spec == "./virtual.js" {
					return tt.result, nil
				}
				return next(ctx, spec, rc)
			})
			res := bundleWith(t, root, "main.js", hook)
			if len(res.Errors) != 0 {
				t.Fatalf("unexpected errors: %+v", res.Errors)
			}
			out := string(res.OutputFiles[0].Contents)
			if !strings.Contains(out, tt.want) || !strings.Contains(out, "41") {
				t.Fatalf("output missing %q:\n%s", tt.want, out)
			}
		})
	}
}

func TestPluginRejectsNonFileHookAnswer(t *testing.T) {
	root := writeFiles(t, map[string]string{
		"main.js": "import './virtual.js';\n",
	})
	hook := resolve.HookFunc(func(ctx context.Context, spec string, rc resolve.Context, next resolve.Next) (resolve.Result, error) {
		return resolve.Result{URL: "https://example.com/x.js"}, nil
	})
	res := bundleWith(t, root, "main.js", hook)
	if len(res.Errors) != 1 {
		t.Fatalf("expected one error, got %+v", res.Errors)
	}
	var scheme *diag.UnsupportedSchemeError
	if err, _ := res.Errors[0].Detail.(error); !errors.As(err, &scheme) {
		t.Fatalf("detail = %#v", res.Errors[0].Detail)
	}
}
