package diagfmt

import (
	"path/filepath"
	"strings"
)

// formatPath renders file according to mode. Auto uses a relative path when
// file is under baseDir.
func formatPath(file string, mode PathMode, baseDir string) string {
	if file == "" {
		return "<unknown>"
	}
	switch mode {
	case PathModeAbsolute:
		if abs, err := filepath.Abs(file); err == nil {
			return filepath.ToSlash(abs)
		}
		return filepath.ToSlash(file)
	case PathModeBasename:
		return filepath.Base(file)
	case PathModeRelative:
		if rel, ok := relativeTo(file, baseDir); ok {
			return rel
		}
		return filepath.ToSlash(file)
	default:
		if rel, ok := relativeTo(file, baseDir); ok && !strings.HasPrefix(rel, "../") {
			return rel
		}
		return filepath.ToSlash(file)
	}
}

func relativeTo(file, baseDir string) (string, bool) {
	if baseDir == "" {
		return "", false
	}
	rel, err := filepath.Rel(baseDir, file)
	if err != nil {
		return "", false
	}
	return filepath.ToSlash(rel), true
}
