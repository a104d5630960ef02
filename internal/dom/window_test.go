package dom

import (
	"strings"
	"testing"

	"github.com/dop251/goja"
)

func TestNewWindowNormalizes(t *testing.T) {
	w, err := NewWindow("<title> Hello </title><p id=main>hi")
	if err != nil {
		t.Fatalf("NewWindow: %v", err)
	}
	if got := w.Title(); got != "Hello" {
		t.Fatalf("Title() = %q", got)
	}
	out, err := w.HTML()
	if err != nil {
		t.Fatalf("HTML: %v", err)
	}
	for _, want := range []string{"<html>", "<head>", "<body>", `<p id="main">hi</p>`} {
		if !strings.Contains(out, want) {
			t.Errorf("HTML() = %q, missing %q", out, want)
		}
	}
	if n := w.ElementByID("main"); n == nil || n.Data != "p" {
		t.Fatalf("ElementByID(main) = %v", n)
	}
	if w.ElementByID("missing") != nil {
		t.Fatal("ElementByID(missing) should be nil")
	}
}

func TestNewWindowEmptyUsesDefault(t *testing.T) {
	w, err := NewWindow("  ")
	if err != nil {
		t.Fatalf("NewWindow: %v", err)
	}
	out, _ := w.HTML()
	if !strings.HasPrefix(out, "<!DOCTYPE html>") {
		t.Fatalf("HTML() = %q", out)
	}
	if w.Body() == nil {
		t.Fatal("expected a body element")
	}
}

func TestBind(t *testing.T) {
	w, err := NewWindow("<title>T</title><div id=app><b>x</b></div>")
	if err != nil {
		t.Fatalf("NewWindow: %v", err)
	}
	vm := goja.New()
	_ = vm.Set("win", w.Bind(vm, "http://localhost/"))

	tests := []struct {
		expr string
		want string
	}{
		{"win.document.title", "T"},
		{"win.location", "http://localhost/"},
		{"win.window === win", "true"},
		{"win.document.getElementById('app').innerHTML", "<b>x</b>"},
		{"win.document.getElementById('nope') === null", "true"},
		{"win.document.body.tagName", "BODY"},
		{"win.document.write('<title>New</title>'); win.document.title", "New"},
	}
	for _, tt := range tests {
		v, err := vm.RunString(tt.expr)
		if err != nil {
			t.Fatalf("%s: %v", tt.expr, err)
		}
		if got := v.String(); got != tt.want {
			t.Errorf("%s = %q, want %q", tt.expr, got, tt.want)
		}
	}
}
