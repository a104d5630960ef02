// Package specifier classifies module specifiers.
package specifier

import "strings"

// IsReserved reports whether s is a bare specifier, i.e. it starts with
// none of "../", "./", "/" or "file://". No normalization is applied.
func IsReserved(s string) bool {
	switch {
	case strings.HasPrefix(s, "../"),
		strings.HasPrefix(s, "./"),
		strings.HasPrefix(s, "/"),
		strings.HasPrefix(s, "file://"):
		return false
	}
	return true
}

// Class is a finer-grained description of a specifier, used for reporting.
type Class uint8

const (
	ClassBare Class = iota
	ClassRelative
	ClassParent
	ClassRoot
	ClassFileURL
	// ClassURL is an absolute URL with a scheme other than file. It is
	// still reserved.
	ClassURL
)

func (c Class) String() string {
	switch c {
	case ClassBare:
		return "bare"
	case ClassRelative:
		return "relative"
	case ClassParent:
		return "parent-relative"
	case ClassRoot:
		return "root-relative"
	case ClassFileURL:
		return "file-url"
	case ClassURL:
		return "url"
	}
	return "unknown"
}

// Reserved mirrors IsReserved for a class.
func (c Class) Reserved() bool {
	return c == ClassBare || c == ClassURL
}

// Classify returns the class of s. Classify(s).Reserved() == IsReserved(s)
// for every s.
func Classify(s string) Class {
	switch {
	case strings.HasPrefix(s, "../"):
		return ClassParent
	case strings.HasPrefix(s, "./"):
		return ClassRelative
	case strings.HasPrefix(s, "/"):
		return ClassRoot
	case strings.HasPrefix(s, "file://"):
		return ClassFileURL
	case hasScheme(s):
		return ClassURL
	}
	return ClassBare
}

// hasScheme matches ALPHA *( ALPHA / DIGIT / "+" / "-" / "." ) ":" followed
// by at least one character.
func hasScheme(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z':
		case i > 0 && ('0' <= c && c <= '9' || c == '+' || c == '-' || c == '.'):
		case i > 0 && c == ':':
			return i+1 < len(s)
		default:
			return false
		}
	}
	return false
}
