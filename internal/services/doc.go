// Package services defines shared utilities consumed by the queue controller,
// the daemon surfaces, and external integrations.
//
// Key responsibilities:
//   - Context helpers that stamp song request IDs and correlation identifiers
//     for logging and tracing.
//   - Structured error markers plus the Wrap helper so callers can tell
//     "nothing happened" (not found, invalid transition) apart from success
//     and from infrastructure failures.
//
// Subpackages hold the external integrations: llm (chat completion client) and
// shoutout (DJ shout-out generation with a deterministic fallback).
package services
