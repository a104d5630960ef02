package diag

import (
	"fmt"
	"strings"

	"esgate/internal/style"
)

// InvalidSpecifierError is returned when a bare specifier reaches the gate.
type InvalidSpecifierError struct {
	Specifier string
	Referrer  string
	Message   string
}

// NewInvalidSpecifier renders the rejection message with t.
func NewInvalidSpecifier(t *style.Table, specifier, referrer string) *InvalidSpecifierError {
	msg := fmt.Sprintf(
		"Failed to resolve module specifier %s imported from %s. "+
			"Bare specifiers are reserved for potential future use and relative references %s begin with either %s, %s, or %s.",
		t.CurlyQuote(specifier),
		t.Underline(referrer),
		t.Italicize("must"),
		t.CurlyQuote("/"),
		t.CurlyQuote("./"),
		t.CurlyQuote("../"),
	)
	return &InvalidSpecifierError{Specifier: specifier, Referrer: referrer, Message: msg}
}

func (e *InvalidSpecifierError) Error() string { return e.Message }

func (e *InvalidSpecifierError) Code() Code { return CodeInvalidModuleSpecifier }

func (e *InvalidSpecifierError) Category() Category { return CategoryTypeError }

// Is lets errors.Is(err, ErrTypeMismatch) succeed for coarse matching.
func (e *InvalidSpecifierError) Is(target error) bool {
	return target == ErrTypeMismatch
}

// Diagnostic converts the error into a diagnostic at loc.
func (e *InvalidSpecifierError) Diagnostic(loc Location) Diagnostic {
	return NewError(CodeInvalidModuleSpecifier, loc, e.Message).WithSpecifier(e.Specifier)
}

// ModuleNotFoundError is returned by the file resolver when an accepted
// specifier points at nothing on disk.
type ModuleNotFoundError struct {
	Specifier string
	Referrer  string
	Path      string
}

func (e *ModuleNotFoundError) Error() string {
	return fmt.Sprintf("Cannot find module '%s' imported from %s", e.Path, e.Referrer)
}

func (e *ModuleNotFoundError) Code() Code { return CodeModuleNotFound }

func (e *ModuleNotFoundError) Category() Category { return CategoryError }

// UnsupportedSchemeError is returned when a referrer or resolved URL is not
// a file URL.
type UnsupportedSchemeError struct {
	URL string
}

func (e *UnsupportedSchemeError) Error() string {
	return fmt.Sprintf("Only URLs with a scheme in: file are supported by the default resolver. Received %q", e.URL)
}

func (e *UnsupportedSchemeError) Code() Code { return CodeUnsupportedURLScheme }

func (e *UnsupportedSchemeError) Category() Category { return CategoryError }

// HostResolveError wraps the messages of a host resolver that failed on an
// accepted specifier.
type HostResolveError struct {
	Specifier string
	Referrer  string
	Messages  []string
}

func (e *HostResolveError) Error() string {
	if len(e.Messages) == 0 {
		return fmt.Sprintf("Could not resolve %q imported from %s", e.Specifier, e.Referrer)
	}
	return strings.Join(e.Messages, "; ")
}

func (e *HostResolveError) Code() Code { return CodeHostResolve }

func (e *HostResolveError) Category() Category { return CategoryError }
