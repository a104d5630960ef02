package style

// Wrap surrounds s with the start and stop sequences.
func (t *Table) Wrap(s string, start, stop Key) string {
	return t.Lookup(start) + s + t.Lookup(stop)
}

// CurlyQuote wraps s in typographic double quotes regardless of the
// rich-output flag.
func (t *Table) CurlyQuote(s string) string {
	return t.Wrap(s, KeyLeftQuote, KeyRightQuote)
}

// Italicize styles s as italic on rich streams; plain streams get s back.
func (t *Table) Italicize(s string) string {
	return t.Wrap(s, KeyStartItalic, KeyStopItalic)
}

// Underline styles s as underlined on rich streams; plain streams get s back.
func (t *Table) Underline(s string) string {
	return t.Wrap(s, KeyStartUnderline, KeyStopUnderline)
}
