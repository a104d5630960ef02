package diag

import "fmt"

// Code is the stable machine-readable kind of a diagnostic or error.
type Code string

const (
	UnknownCode                Code = "ERR_UNKNOWN"
	CodeInvalidModuleSpecifier Code = "ERR_INVALID_MODULE_SPECIFIER"
	CodeModuleNotFound         Code = "ERR_MODULE_NOT_FOUND"
	CodeUnsupportedURLScheme   Code = "ERR_UNSUPPORTED_ESM_URL_SCHEME"
	// CodeHostResolve covers failures reported by the wrapped host resolver.
	CodeHostResolve Code = "ERR_HOST_RESOLVE"
	// CodeBuild covers any other bundler message.
	CodeBuild Code = "ERR_BUILD"
)

var codeDescription = map[Code]string{
	UnknownCode:                "Unknown error",
	CodeInvalidModuleSpecifier: "Invalid module specifier",
	CodeModuleNotFound:         "Module not found",
	CodeUnsupportedURLScheme:   "Unsupported URL scheme",
	CodeHostResolve:            "Host resolver failed",
	CodeBuild:                  "Bundler reported a problem",
}

// ID returns the code itself, or ERR_UNKNOWN when empty.
func (c Code) ID() string {
	if c == "" {
		return string(UnknownCode)
	}
	return string(c)
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
