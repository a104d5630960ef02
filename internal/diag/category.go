package diag

import (
	"errors"
	"runtime"
)

// Category is the broad class of an error, kept for callers that only
// distinguish type errors from everything else.
type Category uint8

const (
	CategoryError Category = iota
	CategoryTypeError
)

func (c Category) String() string {
	if c == CategoryTypeError {
		return "TypeError"
	}
	return "Error"
}

// ErrTypeMismatch is the sentinel every type-error category value matches
// with errors.Is.
var ErrTypeMismatch = errors.New("type error")

// Categorized is implemented by errors that carry a broad category.
type Categorized interface {
	error
	Category() Category
}

// Coded is implemented by errors that carry a stable Code.
type Coded interface {
	error
	Code() Code
}

// CategoryOf finds the broad category of err. Go runtime type assertion
// failures count as type errors.
func CategoryOf(err error) Category {
	if err == nil {
		return CategoryError
	}
	var c Categorized
	if errors.As(err, &c) {
		return c.Category()
	}
	var tae *runtime.TypeAssertionError
	if errors.As(err, &tae) {
		return CategoryTypeError
	}
	if errors.Is(err, ErrTypeMismatch) {
		return CategoryTypeError
	}
	return CategoryError
}

// CodeOf returns the Code carried by err, or UnknownCode.
func CodeOf(err error) Code {
	var c Coded
	if errors.As(err, &c) {
		return c.Code()
	}
	return UnknownCode
}
