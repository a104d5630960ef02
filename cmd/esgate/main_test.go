package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"esgate/internal/resolve"
)

// execute runs the root command with flags reset to their defaults.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	if session.cleanup != nil {
		session.cleanup()
		session.cleanup = nil
	}
	return out.String(), err
}

func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, sub := range cmd.Commands() {
		resetFlags(sub)
	}
}

func exitCode(err error) int {
	var exit *exitCodeError
	if errors.As(err, &exit) {
		return exit.code
	}
	return -1
}

func writeFile(t *testing.T, path, body string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
}

func TestReadUIMode(t *testing.T) {
	tests := []struct {
		in      string
		want    uiMode
		wantErr bool
	}{
		{"", uiModeAuto, false},
		{"AUTO", uiModeAuto, false},
		{" on ", uiModeOn, false},
		{"off", uiModeOff, false},
		{"sometimes", "", true},
	}
	for _, tt := range tests {
		got, err := readUIMode(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("readUIMode(%q) = %q, %v", tt.in, got, err)
		}
	}
	if !shouldUseTUI(uiModeOn, true) || shouldUseTUI(uiModeOff, false) || shouldUseTUI(uiModeAuto, true) {
		t.Fatal("shouldUseTUI ignores explicit modes")
	}
}

func TestVersionJSON(t *testing.T) {
	out, err := execute(t, "--color", "off", "version", "--format", "json", "--full")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	var payload versionPayload
	if err := json.Unmarshal([]byte(out), &payload); err != nil {
		t.Fatalf("decode %q: %v", out, err)
	}
	if payload.Tool != "esgate" || payload.Version == "" || payload.GitCommit == "" {
		t.Fatalf("payload = %+v", payload)
	}
}

func TestVersionRejectsFormat(t *testing.T) {
	if _, err := execute(t, "version", "--format", "xml"); err == nil {
		t.Fatal("expected an error for --format xml")
	}
}

func TestInitResolveAndBuild(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}

	out, err := execute(t, "--color", "off", "init")
	if err != nil {
		t.Fatalf("init: %v\n%s", err, out)
	}
	for _, name := range []string{"esgate.toml", "src/main.js", "src/greet.js"} {
		if _, err := os.Stat(filepath.Join(wd, filepath.FromSlash(name))); err != nil {
			t.Fatalf("init did not create %s: %v", name, err)
		}
	}
	if _, err := execute(t, "init"); err == nil || !strings.Contains(err.Error(), "already initialized") {
		t.Fatalf("second init = %v", err)
	}

	out, err = execute(t, "--color", "off", "resolve", "./src/greet.js", "react")
	if exitCode(err) != exitFailure {
		t.Fatalf("resolve err = %v", err)
	}
	wantURL := resolve.FileURL(filepath.Join(wd, "src", "greet.js"))
	if !strings.Contains(out, "./src/greet.js (relative) -> "+wantURL) {
		t.Errorf("missing resolved URL %q:\n%s", wantURL, out)
	}
	if !strings.Contains(out, "react (bare): Failed to resolve module specifier “react”") {
		t.Errorf("missing rejection:\n%s", out)
	}

	out, err = execute(t, "--color", "off", "build", "--ui", "off")
	if err != nil {
		t.Fatalf("build: %v\n%s", err, out)
	}
	data, err := os.ReadFile(filepath.Join(wd, "dist", "bundle.js"))
	if err != nil {
		t.Fatalf("read bundle: %v", err)
	}
	if !strings.Contains(string(data), "Hello, ") {
		t.Fatalf("bundle does not contain greet:\n%s", data)
	}
}

func TestCheckReportsBareImports(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	writeFile(t, filepath.Join(dir, "esgate.toml"), "[build]\nentry = [\"src/app.js\"]\n")
	writeFile(t, filepath.Join(dir, "src", "app.js"), "import \"./ok.js\";\nimport _ from \"lodash\";\nconsole.log(_);\n")
	writeFile(t, filepath.Join(dir, "src", "ok.js"), "export const ok = 1;\n")

	out, err := execute(t, "--color", "off", "check", "--format", "json")
	if exitCode(err) != exitFailure {
		t.Fatalf("check err = %v\n%s", err, out)
	}
	var report struct {
		Diagnostics []struct {
			Code      string `json:"code"`
			Specifier string `json:"specifier"`
		} `json:"diagnostics"`
	}
	if err := json.Unmarshal([]byte(out), &report); err != nil {
		t.Fatalf("decode %q: %v", out, err)
	}
	if len(report.Diagnostics) != 1 || report.Diagnostics[0].Specifier != "lodash" ||
		report.Diagnostics[0].Code != "ERR_INVALID_MODULE_SPECIFIER" {
		t.Fatalf("diagnostics = %+v", report.Diagnostics)
	}

	out, err = execute(t, "--color", "off", "check", "--allow", "lodash", "--format", "short")
	if err == nil {
		// lodash is not installed, so esbuild still fails to resolve it
		t.Fatalf("expected esbuild to report the missing package:\n%s", out)
	}
	if strings.Contains(out, "ERR_INVALID_MODULE_SPECIFIER") {
		t.Fatalf("allowed specifier was rejected by the gate:\n%s", out)
	}
}

func TestCheckWithoutEntries(t *testing.T) {
	t.Chdir(t.TempDir())
	_, err := execute(t, "check", "--ui", "off")
	if err == nil || !strings.Contains(err.Error(), "no esgate.toml found") {
		t.Fatalf("err = %v", err)
	}
}

func TestPreloadCheck(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	writeFile(t, filepath.Join(dir, "page.html"), "<title>Docs</title><p id=x>hi</p>")

	out, err := execute(t, "--color", "off", "preload", "--html", "page.html", "--check")
	if err != nil {
		t.Fatalf("preload: %v\n%s", err, out)
	}
	for _, want := range []string{"require(\"happy-dom\")", "globalThis", "preload ok:", "title \"Docs\""} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestParentToURL(t *testing.T) {
	if got, _ := parentToURL("file:///a/b.js"); got != "file:///a/b.js" {
		t.Fatalf("url parent = %q", got)
	}
	if got, _ := parentToURL(""); got != "" {
		t.Fatalf("empty parent = %q", got)
	}
	abs, _ := filepath.Abs("x.js")
	if got, _ := parentToURL("x.js"); got != resolve.FileURL(abs) {
		t.Fatalf("path parent = %q", got)
	}
}

func TestResolveStylesFollowStdout(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("NO_COLOR", "")
	t.Setenv("FORCE_COLOR", "1")

	tests := []struct {
		color    string
		wantRich bool
	}{
		// a buffer is not a terminal, whatever stderr looks like
		{"auto", false},
		{"on", true},
		{"off", false},
	}
	for _, tt := range tests {
		out, err := execute(t, "--color", tt.color, "resolve", "react")
		if exitCode(err) != exitFailure {
			t.Fatalf("%s: err = %v", tt.color, err)
		}
		if got := strings.Contains(out, "\x1b[3mmust\x1b[23m"); got != tt.wantRich {
			t.Errorf("--color %s: styled = %v, want %v\n%q", tt.color, got, tt.wantRich, out)
		}
	}
}
