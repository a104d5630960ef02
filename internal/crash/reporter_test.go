package crash

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/mattn/go-runewidth"

	"esgate/internal/config"
	"esgate/internal/diag"
	"esgate/internal/style"
	"esgate/internal/trace"
)

type typeError struct{ msg string }

func (e typeError) Error() string { return e.msg }
func (e typeError) Category() diag.Category { return diag.CategoryTypeError }

func plainRuntime() config.Runtime { return config.New("file:///work/", false) }
func richRuntime() config.Runtime { return config.New("file:///work/", true) }

func TestDescribe(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"type error", typeError{"boom"}, "Uncaught TypeError: boom"},
		{"plain error", errors.New("boom"), "Uncaught Error: boom"},
		{"wrapped type error", errors.Join(errors.New("ctx"), typeError{"x"}), "Uncaught TypeError: ctx\nx"},
		{"invalid specifier", diag.NewInvalidSpecifier(style.NewTable(false), "lodash", "file:///a.js"), "Uncaught TypeError: Failed to resolve module specifier"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Describe(tt.err)
			if !strings.HasPrefix(got, tt.want) {
				t.Fatalf("Describe() = %q, want prefix %q", got, tt.want)
			}
		})
	}
}

func TestReportTypeError(t *testing.T) {
	var buf bytes.Buffer
	New(&buf, plainRuntime()).Report(typeError{"boom"})

	out := buf.String()
	if !strings.Contains(out, "Uncaught TypeError: boom") {
		t.Fatalf("missing description:\n%q", out)
	}
	if !strings.Contains(out, "✖") {
		t.Fatalf("missing glyph:\n%q", out)
	}
	if strings.Contains(out, "\x1b[") {
		t.Fatalf("plain report contains escapes:\n%q", out)
	}
	if !strings.HasSuffix(out, newline) {
		t.Fatalf("report must end with a newline: %q", out)
	}
}

func TestReportRichGlyphIsRed(t *testing.T) {
	var buf bytes.Buffer
	New(&buf, richRuntime()).Report(errors.New("boom"))
	if !strings.Contains(buf.String(), "\x1b[31m") {
		t.Fatalf("expected red glyph, got %q", buf.String())
	}
}

func TestRenderWrapsDescription(t *testing.T) {
	msg := strings.Repeat("word ", 40)
	out := New(&bytes.Buffer{}, plainRuntime()).Render(errors.New(msg))

	lines := strings.Split(out, newline)
	if len(lines) < 2 {
		t.Fatalf("expected wrapped output, got %q", out)
	}
	for _, line := range lines {
		if w := runewidth.StringWidth(line); w > minColumnWidth+maxDescriptionWidth {
			t.Fatalf("line too wide (%d): %q", w, line)
		}
		if strings.HasSuffix(line, " ") {
			t.Fatalf("trailing space in %q", line)
		}
	}
	if !strings.HasPrefix(lines[0], " ✖ Uncaught Error: word") {
		t.Fatalf("first line = %q", lines[0])
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("closed") }

func TestReportPanicsOnWriteFailure(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on write failure")
		}
	}()
	New(failingWriter{}, plainRuntime()).Report(errors.New("boom"))
}

func TestReportPanicValues(t *testing.T) {
	var buf bytes.Buffer
	r := New(&buf, plainRuntime())

	func() {
		defer func() { r.ReportPanic(recover()) }()
		var v any = "text"
		_ = v.(int)
	}()
	if !strings.Contains(buf.String(), "Uncaught TypeError: interface conversion") {
		t.Fatalf("type assertion panic not reported as TypeError:\n%s", buf.String())
	}

	buf.Reset()
	r.ReportPanic("plain string")
	if !strings.Contains(buf.String(), "Uncaught Error: plain string") {
		t.Fatalf("got %q", buf.String())
	}
}

func TestReportDumpsRings(t *testing.T) {
	ring := trace.NewRingTracer(4, trace.LevelDebug)
	trace.Point(ring, trace.ScopeNode, "resolve", 0, "lodash", nil)

	var buf bytes.Buffer
	New(&buf, plainRuntime()).WithRings(ring).Report(errors.New("boom"))
	if !strings.Contains(buf.String(), "lodash") {
		t.Fatalf("ring not dumped:\n%s", buf.String())
	}
}
