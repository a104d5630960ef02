// Package crash renders errors that escaped every other handler as a
// two-column (symbol, description) report on the error stream.
//
// The reporter never exits the process and never recovers from a failed
// write: if the error stream itself is broken the write panics.
package crash
