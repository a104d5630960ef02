package diag

// Location points at an import site. Line is 1-based, Column is a 0-based
// byte offset into LineText (esbuild's convention).
type Location struct {
	File     string
	Line     uint32
	Column   uint32
	Length   uint32
	LineText string
}

// IsZero reports whether the location carries no file.
func (l Location) IsZero() bool {
	return l.File == "" && l.Line == 0
}

type Note struct {
	Location Location
	Msg      string
}

type Diagnostic struct {
	Severity  Severity
	Code      Code
	Message   string
	Specifier string
	Primary   Location
	Notes     []Note
}

func New(sev Severity, code Code, primary Location, msg string) Diagnostic {
	return Diagnostic{
		Severity: sev,
		Code:     code,
		Primary:  primary,
		Message:  msg,
	}
}

func NewError(code Code, primary Location, msg string) Diagnostic {
	return New(SevError, code, primary, msg)
}

func (d Diagnostic) WithNote(loc Location, msg string) Diagnostic {
	d.Notes = append(d.Notes, Note{Location: loc, Msg: msg})
	return d
}

func (d Diagnostic) WithSpecifier(spec string) Diagnostic {
	d.Specifier = spec
	return d
}
