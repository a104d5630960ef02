// Package diag defines the error and diagnostic model shared by the gate,
// the resolvers and the check pipeline.
//
// # Errors
//
// Resolution failures are ordinary Go errors with two extra facets:
//
//   - Code – a stable machine-readable kind such as
//     ERR_INVALID_MODULE_SPECIFIER, exposed through the Coded interface.
//   - Category – the broad class (Error or TypeError), exposed through the
//     Categorized interface. Type-error values also satisfy
//     errors.Is(err, ErrTypeMismatch) so callers can match coarsely
//     without knowing the concrete type.
//
// InvalidSpecifierError carries a fully rendered message. Rendering goes
// through a style.Table, so the same rejection reads with curly quotes and
// underline/italic escapes on a terminal and as plain text elsewhere.
//
// # Diagnostics
//
// Diagnostic is the record collected while checking a module graph:
// severity, code, message, the offending specifier and the import site.
// Producers emit through a Reporter; BagReporter stores into a Bag (safe
// for the concurrent callbacks esbuild makes) and DedupReporter filters
// repeats when several entry points share a dependency.
//
// Package diag performs no terminal IO. Rendering lives in internal/diagfmt
// and the last-resort crash output lives in internal/crash.
package diag
