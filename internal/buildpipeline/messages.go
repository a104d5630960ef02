package buildpipeline

import (
	"errors"
	"path/filepath"

	"fortio.org/safecast"
	"github.com/evanw/esbuild/pkg/api"

	"esgate/internal/diag"
)

// toDiagnostic converts an esbuild message. Messages raised by the gate
// carry the original error in Detail and keep its code.
func toDiagnostic(msg api.Message, sev diag.Severity, baseDir string) diag.Diagnostic {
	loc := toLocation(msg.Location, baseDir)

	var d diag.Diagnostic
	err, _ := msg.Detail.(error)
	var inv *diag.InvalidSpecifierError
	switch {
	case errors.As(err, &inv):
		d = inv.Diagnostic(loc)
	case err != nil && diag.CodeOf(err) != diag.UnknownCode:
		d = diag.NewError(diag.CodeOf(err), loc, err.Error())
	default:
		d = diag.New(sev, diag.CodeBuild, loc, msg.Text)
	}
	d.Severity = sev
	for _, n := range msg.Notes {
		d = d.WithNote(toLocation(n.Location, baseDir), n.Text)
	}
	return d
}

func toLocation(l *api.Location, baseDir string) diag.Location {
	if l == nil {
		return diag.Location{}
	}
	file := l.File
	if file != "" && !filepath.IsAbs(file) && baseDir != "" {
		file = filepath.Join(baseDir, file)
	}
	return diag.Location{
		File:     file,
		Line:     toUint32(l.Line),
		Column:   toUint32(l.Column),
		Length:   toUint32(l.Length),
		LineText: l.LineText,
	}
}

func toUint32(v int) uint32 {
	u, err := safecast.Conv[uint32](v)
	if err != nil {
		return 0
	}
	return u
}
