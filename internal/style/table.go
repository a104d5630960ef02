// Package style maps symbolic output markers to the literal sequences
// written to the terminal and provides the small text formatters built on
// top of them.
package style

import (
	"strings"

	"github.com/fatih/color"
)

// Key names an entry of the escape table.
type Key uint8

const (
	KeyLeftQuote Key = iota
	KeyRightQuote
	KeyErrorGlyph
	KeyStartItalic
	KeyStopItalic
	KeyStartUnderline
	KeyStopUnderline
	KeyStartRed
	KeyStopRed
	keyCount
)

func (k Key) String() string {
	switch k {
	case KeyLeftQuote:
		return "left-quote"
	case KeyRightQuote:
		return "right-quote"
	case KeyErrorGlyph:
		return "error-glyph"
	case KeyStartItalic:
		return "start-italic"
	case KeyStopItalic:
		return "stop-italic"
	case KeyStartUnderline:
		return "start-underline"
	case KeyStopUnderline:
		return "stop-underline"
	case KeyStartRed:
		return "start-red"
	case KeyStopRed:
		return "stop-red"
	}
	return "unknown"
}

// Quotes and the glyph are plain Unicode, so both variants carry them.
var (
	richSeq  = newRichSeq()
	plainSeq = [keyCount]string{
		KeyLeftQuote:  "“",
		KeyRightQuote: "”",
		KeyErrorGlyph: "✖",
	}
)

func newRichSeq() [keyCount]string {
	seq := plainSeq
	seq[KeyStartItalic], seq[KeyStopItalic] = sequences(color.Italic)
	seq[KeyStartUnderline], seq[KeyStopUnderline] = sequences(color.Underline)
	seq[KeyStartRed], seq[KeyStopRed] = sequences(color.FgRed)
	return seq
}

// sequences splits what color prints around a marker into the start and
// stop escapes. The color is forced on so the global NoColor switch,
// which follows stdout, does not blank the rich table.
func sequences(attr color.Attribute) (start, stop string) {
	const marker = "\x00"
	c := color.New(attr)
	c.EnableColor()
	start, stop, _ = strings.Cut(c.Sprint(marker), marker)
	return start, stop
}

// Table is the read-only escape table selected by the rich-output flag.
type Table struct {
	rich bool
	seq  *[keyCount]string
}

var (
	richTable  = &Table{rich: true, seq: &richSeq}
	plainTable = &Table{rich: false, seq: &plainSeq}
)

// NewTable returns the shared table for the given capability.
func NewTable(rich bool) *Table {
	if rich {
		return richTable
	}
	return plainTable
}

// Rich reports which variant the table is.
func (t *Table) Rich() bool {
	return t != nil && t.rich
}

// Lookup returns the literal sequence for k, or "" for unknown keys.
func (t *Table) Lookup(k Key) string {
	if t == nil {
		t = plainTable
	}
	if k >= keyCount {
		return ""
	}
	return t.seq[k]
}
