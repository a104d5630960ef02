//go:build windows

package crash

const newline = "\r\n"
