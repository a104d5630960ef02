// Package preload generates the startup script that installs a DOM-like
// global environment before application code runs.
package preload

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"text/template"

	"esgate/internal/dom"
)

const (
	DefaultEngine = "happy-dom"
	DefaultURL    = "http://localhost/"
	// EngineJSDOM selects the constructor shape of jsdom, whose window
	// hangs off the constructed object.
	EngineJSDOM = "jsdom"
)

// Options configures the generated script.
type Options struct {
	// HTML is the initial document. Empty means dom.DefaultHTML.
	HTML string
	// Engine is the module the script requires for its window.
	Engine string
	// Export names the constructor exported by Engine. Defaults to
	// "Window", or "JSDOM" for jsdom.
	Export string
	// URL is the document location.
	URL string
}

func (o Options) withDefaults() Options {
	if o.Engine == "" {
		o.Engine = DefaultEngine
	}
	if o.Export == "" {
		if o.Engine == EngineJSDOM {
			o.Export = "JSDOM"
		} else {
			o.Export = "Window"
		}
	}
	if o.URL == "" {
		o.URL = DefaultURL
	}
	return o
}

// Generator holds a rendered preload script.
type Generator struct {
	opts   Options
	html   string
	source string
}

var scriptTemplate = template.Must(template.New("preload").Funcs(template.FuncMap{
	"js": jsString,
}).Parse(`(function () {
  "use strict";
  const { {{.Export}}: Engine } = require({{js .Engine}});
  const html = {{js .HTML}};
{{- if .JSDOM}}
  const window = new Engine(html, { url: {{js .URL}} }).window;
{{- else}}
  const window = new Engine({ url: {{js .URL}} });
  window.document.write(html);
{{- end}}
  for (const key of Object.keys(window)) {
    if (key in globalThis) {
      continue;
    }
    globalThis[key] = window[key];
  }
})();
`))

// New normalizes the configured HTML and renders the script.
func New(opts Options) (*Generator, error) {
	opts = opts.withDefaults()
	if !isIdentifier(opts.Export) {
		return nil, fmt.Errorf("preload: export %q is not an identifier", opts.Export)
	}

	win, err := dom.NewWindow(opts.HTML)
	if err != nil {
		return nil, err
	}
	normalized, err := win.HTML()
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	err = scriptTemplate.Execute(&buf, struct {
		Options
		HTML  string
		JSDOM bool
	}{Options: opts, HTML: normalized, JSDOM: opts.Engine == EngineJSDOM})
	if err != nil {
		return nil, fmt.Errorf("preload: render script: %w", err)
	}
	return &Generator{opts: opts, html: normalized, source: buf.String()}, nil
}

// Source returns the script text. The host runs it verbatim and
// unsandboxed before any application module.
func (g *Generator) Source() string {
	return g.source
}

// Options returns the options with defaults applied.
func (g *Generator) Options() Options {
	return g.opts
}

// HTML returns the normalized document embedded in the script.
func (g *Generator) HTML() string {
	return g.html
}

// jsString renders s as a JavaScript string literal. JSON string syntax is
// a subset of it, and the HTML-safe escaping keeps "</script>" inert.
func jsString(s string) (string, error) {
	b, err := json.Marshal(s)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_' || r == '$':
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case i > 0 && r >= '0' && r <= '9':
		default:
			return false
		}
	}
	return !strings.HasPrefix(s, "__proto__")
}
