// Package llm is a small client for OpenRouter-compatible chat completion
// endpoints.
//
// Complete returns the model's text reply; CompleteJSON asks for a JSON object
// and DecodeJSON tolerates the usual formatting quirks (code fences, prose
// around the object). HealthCheck sends a tiny JSON prompt to confirm the key
// and model are usable.
//
// Requests are retried on HTTP 408, 429 and 5xx responses, on network
// timeouts, and on replies with no content. Backoff doubles from one second up
// to ten, honouring Retry-After. Context cancellation stops retries.
//
// Callers that can live without a reply (the DJ shout-out) should treat every
// error as a cue to fall back rather than fail.
package llm
