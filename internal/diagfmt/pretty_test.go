package diagfmt

import (
	"bytes"
	"strings"
	"testing"
)

// TestPathModes проверяет различные режимы форматирования путей
func TestPathModes(t *testing.T) {
	bag := sampleBag()
	tests := []struct {
		name     string
		mode     PathMode
		contains string
	}{
		{"Absolute path", PathModeAbsolute, "/home/user/project/src/main.js:2:19"},
		{"Relative path", PathModeRelative, "src/main.js:2:19"},
		{"Basename only", PathModeBasename, "main.js:2:19"},
		{"Auto under base", PathModeAuto, "src/main.js:2:19"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			Pretty(&buf, bag, PrettyOpts{PathMode: tt.mode, BaseDir: "/home/user/project"})
			output := buf.String()

			if !strings.Contains(output, tt.contains) {
				t.Errorf("Expected output to contain %q, got:\n%s", tt.contains, output)
			}
			if !strings.Contains(output, "ERROR ERR_INVALID_MODULE_SPECIFIER: Failed to resolve module specifier “react”") {
				t.Errorf("Expected header line, got:\n%s", output)
			}
			if !strings.Contains(output, "WARNING ERR_BUILD: Unused import") {
				t.Errorf("Expected warning line, got:\n%s", output)
			}
		})
	}
}

func TestPrettyContextCaret(t *testing.T) {
	var buf bytes.Buffer
	Pretty(&buf, sampleBag(), PrettyOpts{Context: true, ShowNotes: true, BaseDir: "/home/user/project"})
	out := buf.String()

	want := " 2 | import React from 'react';\n" +
		"   |                   ^~~~~~~\n"
	if !strings.Contains(out, want) {
		t.Fatalf("missing caret block:\n%s", out)
	}
	if !strings.Contains(out, "note: src/c.js:1:1: declared here") {
		t.Fatalf("missing note:\n%s", out)
	}
	if strings.Contains(out, "\x1b[") {
		t.Fatalf("uncolored output contains escapes:\n%q", out)
	}
}

func TestPrettyColor(t *testing.T) {
	var buf bytes.Buffer
	Pretty(&buf, sampleBag(), PrettyOpts{Color: true})
	if !strings.Contains(buf.String(), "\x1b[") {
		t.Fatalf("expected colored output, got %q", buf.String())
	}
}

func TestPrettyMax(t *testing.T) {
	var buf bytes.Buffer
	Pretty(&buf, sampleBag(), PrettyOpts{Max: 1})
	out := buf.String()
	if strings.Contains(out, "Unused import") {
		t.Fatalf("second diagnostic should be cut:\n%s", out)
	}
	if !strings.Contains(out, "1 more diagnostics not shown") {
		t.Fatalf("missing omission line:\n%s", out)
	}
}

func TestIndentForTabs(t *testing.T) {
	if got := indentFor("\tab"); got != "\t  " {
		t.Fatalf("indentFor = %q", got)
	}
}
