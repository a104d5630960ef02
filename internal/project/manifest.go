package project

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// Manifest is a decoded esgate.toml together with where it was found.
type Manifest struct {
	Path   string
	Root   string
	Config Config
}

// Config mirrors the sections of esgate.toml.
type Config struct {
	Build  BuildConfig  `toml:"build"`
	DOM    DOMConfig    `toml:"dom"`
	Output OutputConfig `toml:"output"`
}

type BuildConfig struct {
	Entry      []string `toml:"entry"`
	Outfile    string   `toml:"outfile"`
	Format     string   `toml:"format"`
	Platform   string   `toml:"platform"`
	Conditions []string `toml:"conditions"`
	// Allow lists bare specifiers let through the gate.
	Allow []string `toml:"allow"`
	// External lists specifiers kept out of the bundle.
	External []string `toml:"external"`
}

type DOMConfig struct {
	Enabled  bool   `toml:"enabled"`
	HTML     string `toml:"html"`
	HTMLFile string `toml:"html_file"`
	Engine   string `toml:"engine"`
	Export   string `toml:"export"`
}

type OutputConfig struct {
	Color          string `toml:"color"`
	MaxDiagnostics int    `toml:"max_diagnostics"`
}

// Default returns the configuration written by esgate init.
func Default() Config {
	return Config{
		Build: BuildConfig{
			Entry:    []string{"src/main.js"},
			Outfile:  "dist/bundle.js",
			Format:   "esm",
			Platform: "browser",
		},
		DOM: DOMConfig{
			Engine: "happy-dom",
		},
		Output: OutputConfig{
			Color:          "auto",
			MaxDiagnostics: 100,
		},
	}
}

// Load finds esgate.toml from startDir upwards and decodes it. ok is false
// when no manifest exists.
func Load(startDir string) (*Manifest, bool, error) {
	manifestPath, ok, err := FindManifest(startDir)
	if err != nil || !ok {
		return nil, ok, err
	}
	cfg, err := LoadConfig(manifestPath)
	if err != nil {
		return nil, true, err
	}
	return &Manifest{
		Path:   manifestPath,
		Root:   filepath.Dir(manifestPath),
		Config: cfg,
	}, true, nil
}

// LoadConfig decodes and validates one manifest file.
func LoadConfig(path string) (Config, error) {
	var cfg Config
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		return Config{}, fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if !meta.IsDefined("build") {
		return Config{}, fmt.Errorf("%s: missing [build]", path)
	}
	if !meta.IsDefined("build", "entry") || len(cfg.Build.Entry) == 0 {
		return Config{}, fmt.Errorf("%s: missing [build].entry", path)
	}
	for _, e := range cfg.Build.Entry {
		if strings.TrimSpace(e) == "" {
			return Config{}, fmt.Errorf("%s: empty path in [build].entry", path)
		}
	}
	if cfg.DOM.HTML != "" && cfg.DOM.HTMLFile != "" {
		return Config{}, fmt.Errorf("%s: [dom].html and [dom].html_file are exclusive", path)
	}
	if meta.IsDefined("output", "max_diagnostics") && cfg.Output.MaxDiagnostics < 0 {
		return Config{}, fmt.Errorf("%s: [output].max_diagnostics must not be negative", path)
	}
	return cfg, nil
}

// Entries returns the manifest's entry points as absolute paths.
func (m *Manifest) Entries() []string {
	out := make([]string, 0, len(m.Config.Build.Entry))
	for _, e := range m.Config.Build.Entry {
		out = append(out, filepath.Join(m.Root, filepath.FromSlash(strings.TrimSpace(e))))
	}
	return out
}

// DocumentHTML returns the configured preload document, reading html_file
// relative to the manifest when set.
func (m *Manifest) DocumentHTML() (string, error) {
	if m.Config.DOM.HTMLFile == "" {
		return m.Config.DOM.HTML, nil
	}
	p := filepath.Join(m.Root, filepath.FromSlash(m.Config.DOM.HTMLFile))
	data, err := os.ReadFile(p)
	if err != nil {
		return "", fmt.Errorf("%s: read [dom].html_file: %w", m.Path, err)
	}
	return string(data), nil
}

// Encode renders cfg as TOML.
func Encode(cfg Config) ([]byte, error) {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return nil, fmt.Errorf("encode manifest: %w", err)
	}
	return buf.Bytes(), nil
}
