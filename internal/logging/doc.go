// Package logging assembles the slog loggers used across vibeline.
//
// Two output shapes exist: a human console line
// ("2026-01-02T15:04:05Z INFO queue: request accepted request_id=...") and
// one JSON object per line with ts/level/msg keys. Format "auto" picks the
// console shape when the writer is a terminal. The daemon tees its logger so
// the log file always receives JSON regardless of the terminal format.
//
// Components should derive loggers with NewComponentLogger and attach
// request scoped fields with WithContext. WARN lines go through
// WarnWithContext so they always carry event_type, error_hint, and impact.
package logging
