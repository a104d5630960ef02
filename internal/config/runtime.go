// Package config holds the process-wide runtime settings that every
// component reads: the base URL used when an import has no parent and the
// rich-output flag that selects styled or plain terminal text.
//
// Both values are computed once by Detect at startup and then passed by
// value; nothing in the package mutates a Runtime after construction.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/term"
)

// ColorMode selects how the rich-output flag is derived.
type ColorMode string

const (
	ColorAuto ColorMode = "auto"
	ColorOn   ColorMode = "on"
	ColorOff  ColorMode = "off"
)

// ParseColorMode accepts auto|on|off (case-insensitive, empty means auto).
func ParseColorMode(value string) (ColorMode, error) {
	switch strings.TrimSpace(strings.ToLower(value)) {
	case "", "auto":
		return ColorAuto, nil
	case "on", "always":
		return ColorOn, nil
	case "off", "never":
		return ColorOff, nil
	default:
		return "", fmt.Errorf("invalid --color value %q (expected auto|on|off)", value)
	}
}

// Runtime is the immutable process configuration.
type Runtime struct {
	baseURL string
	rich    bool
}

// New builds a Runtime from explicit values. Tests and embedders use it to
// inject the capability signal instead of probing a terminal.
func New(baseURL string, rich bool) Runtime {
	return Runtime{baseURL: baseURL, rich: rich}
}

// BaseURL is file:// + working directory + "/".
func (r Runtime) BaseURL() string { return r.baseURL }

// Rich reports whether the attached stream supports color and style escapes.
func (r Runtime) Rich() bool { return r.rich }

// DetectOptions controls Detect. Zero values fall back to the real process.
type DetectOptions struct {
	Mode   ColorMode
	Stream *os.File
	Getenv func(string) string
	Getwd  func() (string, error)
}

// Detect computes the Runtime for the current process.
func Detect(opts DetectOptions) (Runtime, error) {
	getwd := opts.Getwd
	if getwd == nil {
		getwd = os.Getwd
	}
	getenv := opts.Getenv
	if getenv == nil {
		getenv = os.Getenv
	}
	stream := opts.Stream
	if stream == nil {
		stream = os.Stderr
	}

	wd, err := getwd()
	if err != nil {
		return Runtime{}, fmt.Errorf("failed to resolve working directory: %w", err)
	}
	return Runtime{
		baseURL: BaseURLFromDir(wd),
		rich:    richOutput(opts.Mode, stream, getenv),
	}, nil
}

// BaseURLFromDir turns an absolute directory into its file URL with a
// trailing slash.
func BaseURLFromDir(dir string) string {
	p := filepath.ToSlash(dir)
	if !strings.HasPrefix(p, "/") {
		// windows drive paths: C:/x -> /C:/x
		p = "/" + p
	}
	return "file://" + strings.TrimSuffix(p, "/") + "/"
}

func richOutput(mode ColorMode, stream *os.File, getenv func(string) string) bool {
	switch mode {
	case ColorOn:
		return true
	case ColorOff:
		return false
	}
	if _, ok := lookup(getenv, "NO_COLOR"); ok {
		return false
	}
	if v, ok := lookup(getenv, "FORCE_COLOR"); ok {
		return v != "0" && v != "false"
	}
	if getenv("TERM") == "dumb" {
		return false
	}
	return stream != nil && term.IsTerminal(int(stream.Fd()))
}

func lookup(getenv func(string) string, key string) (string, bool) {
	v := getenv(key)
	return v, v != ""
}
