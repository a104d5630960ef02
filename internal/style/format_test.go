package style

import (
	"testing"

	"github.com/fatih/color"
)

func TestCurlyQuoteIgnoresRichFlag(t *testing.T) {
	for _, rich := range []bool{false, true} {
		got := NewTable(rich).CurlyQuote("x")
		if got != "“x”" {
			t.Fatalf("rich=%v: CurlyQuote(x) = %q", rich, got)
		}
	}
}

func TestStyleEscapesOnlyWhenRich(t *testing.T) {
	plain := NewTable(false)
	if got := plain.Italicize("x"); got != "x" {
		t.Fatalf("plain Italicize = %q, want x", got)
	}
	if got := plain.Underline("x"); got != "x" {
		t.Fatalf("plain Underline = %q, want x", got)
	}

	rich := NewTable(true)
	if got := rich.Italicize("x"); got != "\x1b[3mx\x1b[23m" {
		t.Fatalf("rich Italicize = %q", got)
	}
	if got := rich.Underline("x"); got != "\x1b[4mx\x1b[24m" {
		t.Fatalf("rich Underline = %q", got)
	}
}

func TestFormattersArePure(t *testing.T) {
	inputs := []string{"", "x", "file:///a/b.js", "“"}
	for _, rich := range []bool{false, true} {
		tbl := NewTable(rich)
		for _, in := range inputs {
			if tbl.CurlyQuote(in) != tbl.CurlyQuote(in) ||
				tbl.Italicize(in) != tbl.Italicize(in) ||
				tbl.Underline(in) != tbl.Underline(in) {
				t.Fatalf("formatter output changed between calls for %q", in)
			}
		}
	}
}

func TestLookup(t *testing.T) {
	tbl := NewTable(true)
	if tbl.Lookup(KeyErrorGlyph) != "✖" {
		t.Fatalf("error glyph = %q", tbl.Lookup(KeyErrorGlyph))
	}
	if tbl.Lookup(keyCount) != "" {
		t.Fatal("unknown key must map to empty string")
	}
	var nilTable *Table
	if nilTable.Italicize("x") != "x" {
		t.Fatal("nil table must behave as plain")
	}
	if !tbl.Rich() || NewTable(false).Rich() {
		t.Fatal("Rich() mismatch")
	}
}

func TestRichTableMatchesColor(t *testing.T) {
	saved := color.NoColor
	color.NoColor = true
	defer func() { color.NoColor = saved }()

	tests := []struct {
		attr  color.Attribute
		style func(string) string
	}{
		{color.Italic, NewTable(true).Italicize},
		{color.Underline, NewTable(true).Underline},
		{color.FgRed, func(s string) string { return NewTable(true).Wrap(s, KeyStartRed, KeyStopRed) }},
	}
	for _, tt := range tests {
		c := color.New(tt.attr)
		c.EnableColor()
		if got, want := tt.style("x"), c.Sprint("x"); got != want {
			t.Errorf("attr %d: got %q, want %q", tt.attr, got, want)
		}
	}
	if got := NewTable(true).Lookup(KeyStartRed); got != "\x1b[31m" {
		t.Fatalf("start-red = %q", got)
	}
	if got := NewTable(false).Wrap("x", KeyStartRed, KeyStopRed); got != "x" {
		t.Fatalf("plain red = %q", got)
	}
}
