// Package ipc exposes the running daemon over JSON-RPC on a Unix socket and
// ships the client the CLI uses to reach it.
//
// Request and response types alias the api package DTOs so the socket and the
// HTTP surface stay byte-compatible. Errors cross the socket as strings; the
// client restores the services error markers so callers can still classify
// them with errors.Is.
package ipc
