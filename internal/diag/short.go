package diag

import (
	"fmt"
	"path/filepath"
	"strings"
)

// FormatShort renders diagnostics one per line as
// path:line:col: SEVERITY CODE: message. Paths are made relative to
// baseDir when possible. Multi-line messages are folded onto one line.
func FormatShort(diags []Diagnostic, baseDir string) string {
	if len(diags) == 0 {
		return ""
	}
	var sb strings.Builder
	for _, d := range diags {
		sb.WriteString(shortLocation(d.Primary, baseDir))
		sb.WriteString(": ")
		sb.WriteString(d.Severity.String())
		sb.WriteByte(' ')
		sb.WriteString(d.Code.ID())
		sb.WriteString(": ")
		sb.WriteString(foldLines(d.Message))
		sb.WriteByte('\n')
	}
	return sb.String()
}

func shortLocation(loc Location, baseDir string) string {
	path := loc.File
	if path == "" {
		return "<unknown>"
	}
	if baseDir != "" && filepath.IsAbs(path) {
		if rel, err := filepath.Rel(baseDir, path); err == nil && !strings.HasPrefix(rel, "..") {
			path = filepath.ToSlash(rel)
		}
	}
	if loc.Line == 0 {
		return path
	}
	return fmt.Sprintf("%s:%d:%d", path, loc.Line, loc.Column+1)
}

func foldLines(s string) string {
	if !strings.Contains(s, "\n") {
		return s
	}
	return strings.Join(strings.Fields(strings.ReplaceAll(s, "\n", " ")), " ")
}
