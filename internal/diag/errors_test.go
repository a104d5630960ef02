package diag

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"esgate/internal/style"
)

func TestInvalidSpecifierMessagePlain(t *testing.T) {
	err := NewInvalidSpecifier(style.NewTable(false), "lodash", "file:///a/b.js")
	want := "Failed to resolve module specifier “lodash” imported from file:///a/b.js. " +
		"Bare specifiers are reserved for potential future use and relative references must begin with either “/”, “./”, or “../”."
	if err.Error() != want {
		t.Fatalf("message mismatch:\n got: %s\nwant: %s", err.Error(), want)
	}
	if err.Code() != CodeInvalidModuleSpecifier {
		t.Fatalf("Code = %s", err.Code())
	}
	if err.Specifier != "lodash" || err.Referrer != "file:///a/b.js" {
		t.Fatalf("unexpected fields: %+v", err)
	}
}

func TestInvalidSpecifierMessageRich(t *testing.T) {
	err := NewInvalidSpecifier(style.NewTable(true), "lodash", "file:///a/b.js")
	if !strings.Contains(err.Error(), "\x1b[4mfile:///a/b.js\x1b[24m") {
		t.Fatalf("referrer not underlined: %q", err.Error())
	}
	if !strings.Contains(err.Error(), "\x1b[3mmust\x1b[23m") {
		t.Fatalf("must not italicized: %q", err.Error())
	}
}

func TestInvalidSpecifierCategory(t *testing.T) {
	var err error = NewInvalidSpecifier(style.NewTable(false), "x", "file:///")
	wrapped := fmt.Errorf("resolve: %w", err)

	if !errors.Is(wrapped, ErrTypeMismatch) {
		t.Fatal("expected errors.Is(err, ErrTypeMismatch)")
	}
	if CategoryOf(wrapped) != CategoryTypeError {
		t.Fatalf("CategoryOf = %s", CategoryOf(wrapped))
	}
	if CodeOf(wrapped) != CodeInvalidModuleSpecifier {
		t.Fatalf("CodeOf = %s", CodeOf(wrapped))
	}
	var target *InvalidSpecifierError
	if !errors.As(wrapped, &target) || target.Specifier != "x" {
		t.Fatal("errors.As failed")
	}
}

func TestCategoryOf(t *testing.T) {
	if CategoryOf(nil) != CategoryError {
		t.Fatal("nil must be Error")
	}
	if CategoryOf(errors.New("plain")) != CategoryError {
		t.Fatal("plain error must be Error")
	}
	if CategoryOf(&ModuleNotFoundError{Path: "/x"}) != CategoryError {
		t.Fatal("module not found must be Error")
	}
	if CategoryOf(fmt.Errorf("wrap: %w", ErrTypeMismatch)) != CategoryTypeError {
		t.Fatal("sentinel must be TypeError")
	}

	var boxed any = "str"
	func() {
		defer func() {
			r := recover()
			err, ok := r.(error)
			if !ok {
				t.Fatalf("expected runtime error, got %T", r)
			}
			if CategoryOf(err) != CategoryTypeError {
				t.Fatalf("type assertion failure must be TypeError, got %s", CategoryOf(err))
			}
		}()
		_ = boxed.(int)
	}()
}

func TestCodeString(t *testing.T) {
	if CodeModuleNotFound.String() != "[ERR_MODULE_NOT_FOUND]: Module not found" {
		t.Fatalf("String = %q", CodeModuleNotFound.String())
	}
	if Code("").ID() != "ERR_UNKNOWN" {
		t.Fatal("empty code must map to ERR_UNKNOWN")
	}
	if Code("ERR_WHATEVER").Title() != "Unknown error" {
		t.Fatal("unknown code title")
	}
}
