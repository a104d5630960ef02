package preload

import (
	"context"
	"slices"
	"strings"
	"testing"
)

func TestSourceDefaults(t *testing.T) {
	g, err := New(Options{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	src := g.Source()
	for _, want := range []string{
		`require("happy-dom")`,
		`{ Window: Engine }`,
		`window.document.write(html)`,
		`if (key in globalThis)`,
		`"http://localhost/"`,
	} {
		if !strings.Contains(src, want) {
			t.Errorf("source missing %q:\n%s", want, src)
		}
	}
	if err := Validate(src); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if g.Source() != src {
		t.Fatal("Source must be stable")
	}
}

func TestSourceEscapesHTML(t *testing.T) {
	g, err := New(Options{HTML: `<title>"a" </script></title>`})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if strings.Contains(g.Source(), "</script>") {
		t.Fatalf("script end tag leaked into source:\n%s", g.Source())
	}
	if err := Validate(g.Source()); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestSourceJSDOM(t *testing.T) {
	g, err := New(Options{Engine: EngineJSDOM})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if !strings.Contains(g.Source(), `{ JSDOM: Engine }`) || !strings.Contains(g.Source(), ".window;") {
		t.Fatalf("unexpected jsdom source:\n%s", g.Source())
	}
}

func TestNewRejectsBadExport(t *testing.T) {
	if _, err := New(Options{Export: "Window; alert(1)"}); err == nil {
		t.Fatal("expected error for non-identifier export")
	}
}

func TestValidateSyntaxError(t *testing.T) {
	if err := Validate("(function () {"); err == nil {
		t.Fatal("expected syntax error")
	}
}

func TestDryRun(t *testing.T) {
	tests := []struct {
		name string
		opts Options
	}{
		{"happy-dom", Options{HTML: "<title>Fixture</title>"}},
		{"jsdom", Options{HTML: "<title>Fixture</title>", Engine: EngineJSDOM}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := New(tt.opts)
			if err != nil {
				t.Fatalf("New: %v", err)
			}
			res, err := g.DryRun(context.Background())
			if err != nil {
				t.Fatalf("DryRun: %v", err)
			}
			if res.Title != "Fixture" {
				t.Fatalf("Title = %q", res.Title)
			}
			for _, name := range []string{"document", "location", "window"} {
				if !slices.Contains(res.Globals, name) {
					t.Errorf("global %q not installed: %v", name, res.Globals)
				}
			}
		})
	}
}

func TestDryRunUnknownRequire(t *testing.T) {
	g, err := New(Options{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	g.opts.Engine = "other"
	if _, err := g.DryRun(context.Background()); err == nil {
		t.Fatal("expected require mismatch to fail")
	}
}
