package diagfmt

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"fortio.org/safecast"
	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"
	"golang.org/x/text/unicode/norm"

	"esgate/internal/diag"
)

type palette struct {
	location *color.Color
	err      *color.Color
	warn     *color.Color
	info     *color.Color
	code     *color.Color
	gutter   *color.Color
	caret    *color.Color
	note     *color.Color
}

func newPalette(on bool) palette {
	p := palette{
		location: color.New(color.Bold),
		err:      color.New(color.FgRed, color.Bold),
		warn:     color.New(color.FgYellow, color.Bold),
		info:     color.New(color.FgCyan),
		code:     color.New(color.FgHiBlack),
		gutter:   color.New(color.FgBlue),
		caret:    color.New(color.FgRed, color.Bold),
		note:     color.New(color.FgCyan, color.Bold),
	}
	for _, c := range []*color.Color{p.location, p.err, p.warn, p.info, p.code, p.gutter, p.caret, p.note} {
		if on {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p palette) severity(s diag.Severity) *color.Color {
	switch s {
	case diag.SevError:
		return p.err
	case diag.SevWarning:
		return p.warn
	default:
		return p.info
	}
}

// Pretty форматирует диагностики в человекочитаемый вид.
// Идёт по bag.Items() (ожидается bag.Sort() заранее).
// Для каждого diag печатает:
// <path>:<line>:<col>: <SEV> <CODE>: <Message>
// затем строку исходника с подчёркиванием ^~~~, затем Notes.
func Pretty(w io.Writer, bag *diag.Bag, opts PrettyOpts) {
	if bag == nil {
		return
	}
	p := newPalette(opts.Color)
	items := limit(bag.Items(), opts.Max)
	for i, d := range items {
		if i > 0 && opts.Context {
			fmt.Fprintln(w)
		}
		path := formatPath(d.Primary.File, opts.PathMode, opts.BaseDir)
		fmt.Fprintf(w, "%s: %s %s: %s\n",
			p.location.Sprint(position(path, d.Primary)),
			p.severity(d.Severity).Sprint(d.Severity),
			p.code.Sprint(d.Code.ID()),
			norm.NFC.String(d.Message),
		)
		if opts.Context {
			writeContext(w, d.Primary, p)
		}
		if opts.ShowNotes {
			for _, n := range d.Notes {
				notePath := formatPath(n.Location.File, opts.PathMode, opts.BaseDir)
				fmt.Fprintf(w, "  %s %s: %s\n", p.note.Sprint("note:"), position(notePath, n.Location), norm.NFC.String(n.Msg))
			}
		}
	}
	if omitted := bag.Len() - len(items); omitted > 0 {
		fmt.Fprintf(w, "... %d more diagnostics not shown\n", omitted)
	}
}

func limit(items []diag.Diagnostic, n int) []diag.Diagnostic {
	if n > 0 && n < len(items) {
		return items[:n]
	}
	return items
}

// position renders path:line:col with a 1-based column.
func position(path string, loc diag.Location) string {
	if loc.Line == 0 {
		return path
	}
	return fmt.Sprintf("%s:%d:%d", path, loc.Line, uint64(loc.Column)+1)
}

func writeContext(w io.Writer, loc diag.Location, p palette) {
	if loc.LineText == "" || loc.Line == 0 {
		return
	}
	lineNo := strconv.FormatUint(uint64(loc.Line), 10)
	pad := strings.Repeat(" ", len(lineNo))

	text := loc.LineText
	col, err := safecast.Conv[int](loc.Column)
	if err != nil || col > len(text) {
		col = len(text)
	}
	length, err := safecast.Conv[int](loc.Length)
	if err != nil || col+length > len(text) {
		length = len(text) - col
	}

	width := max(1, runewidth.StringWidth(text[col:col+length]))
	underline := "^" + strings.Repeat("~", width-1)

	fmt.Fprintf(w, " %s %s %s\n", p.gutter.Sprint(lineNo), p.gutter.Sprint("|"), text)
	fmt.Fprintf(w, " %s %s %s%s\n", pad, p.gutter.Sprint("|"), indentFor(text[:col]), p.caret.Sprint(underline))
}

// indentFor returns whitespace occupying the same columns as prefix, keeping
// tabs so the caret lines up with the echoed source.
func indentFor(prefix string) string {
	var sb strings.Builder
	for _, r := range prefix {
		if r == '\t' {
			sb.WriteByte('\t')
			continue
		}
		sb.WriteString(strings.Repeat(" ", runewidth.RuneWidth(r)))
	}
	return sb.String()
}
