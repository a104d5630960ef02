//go:build !windows

package crash

const newline = "\n"
