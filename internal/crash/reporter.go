package crash

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"esgate/internal/config"
	"esgate/internal/diag"
	"esgate/internal/style"
	"esgate/internal/trace"
)

const (
	minColumnWidth      = 3
	maxDescriptionWidth = 76
)

// Reporter writes crash reports to a single stream.
type Reporter struct {
	mu    sync.Mutex
	w     io.Writer
	table *style.Table
	rings []*trace.RingTracer
}

// New returns a Reporter writing to w. Styling follows rt.Rich().
func New(w io.Writer, rt config.Runtime) *Reporter {
	return &Reporter{
		w:     w,
		table: style.NewTable(rt.Rich()),
	}
}

// WithRings makes Report dump the given trace rings after each report.
func (r *Reporter) WithRings(rings ...*trace.RingTracer) *Reporter {
	r.rings = append(r.rings, rings...)
	return r
}

// Describe returns "Uncaught {Category}: {message}".
func Describe(err error) string {
	if err == nil {
		return "Uncaught Error: <nil>"
	}
	return fmt.Sprintf("Uncaught %s: %s", diag.CategoryOf(err), err.Error())
}

// Render lays out the report for err without writing it. Lines are joined
// with the platform newline and the result has no trailing newline.
func (r *Reporter) Render(err error) string {
	glyph := r.table.Lookup(style.KeyErrorGlyph)
	symbolWidth := max(minColumnWidth, runewidth.StringWidth(glyph)+2)
	symbol := lipgloss.NewStyle().
		Width(symbolWidth).
		Align(lipgloss.Center).
		Render(r.table.Wrap(glyph, style.KeyStartRed, style.KeyStopRed))

	description := Describe(err)
	descWidth := min(maxDescriptionWidth, max(minColumnWidth, widestLine(description)))
	body := lipgloss.NewStyle().
		Width(descWidth).
		Render(description)

	lines := strings.Split(lipgloss.JoinHorizontal(lipgloss.Top, symbol, body), "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " ")
	}
	return strings.Join(lines, newline)
}

// Report writes the rendered report followed by a newline. A write failure
// panics.
func (r *Reporter) Report(err error) {
	out := r.Render(err) + newline

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, werr := io.WriteString(r.w, out); werr != nil {
		panic(fmt.Errorf("crash: write report: %w", werr))
	}
	for _, ring := range r.rings {
		if derr := ring.Dump(r.w, trace.FormatText); derr != nil {
			panic(fmt.Errorf("crash: dump trace: %w", derr))
		}
	}
}

// ReportPanic reports a recovered panic value.
func (r *Reporter) ReportPanic(v any) {
	r.Report(PanicError(v))
}

// PanicError converts a recovered value to an error, keeping error values
// intact so their category survives.
func PanicError(v any) error {
	switch x := v.(type) {
	case nil:
		return errors.New("panic(nil)")
	case error:
		return x
	case string:
		return errors.New(x)
	default:
		return fmt.Errorf("%v", x)
	}
}

func widestLine(s string) int {
	widest := 0
	for _, line := range strings.Split(s, "\n") {
		widest = max(widest, runewidth.StringWidth(line))
	}
	return widest
}
