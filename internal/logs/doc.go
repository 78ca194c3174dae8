// Package logs reads the daemon log file for `vibeline logs`.
//
// Tail returns the last N lines with a negative offset, or everything written
// after a byte offset otherwise. In follow mode it polls until new lines
// arrive or the wait elapses, so the CLI can loop on the returned offset. A
// file that shrank below the offset (truncation or rotation) is re-read from
// the start.
package logs
