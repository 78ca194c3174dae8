// Package api defines the transport DTOs shared by the HTTP server, the
// websocket feed, and the JSON-RPC socket, plus QueueService, which runs queue
// operations and returns those DTOs.
//
// # Key Types
//
// RequestItem: a song request with its rank bucket and preference match flag.
// Bid amounts travel as decimal strings so no client needs to know the
// minor-unit scale.
//
// Status: daemon state plus queue counts.
//
// Event/EventsResponse: change notifications for long-poll consumers.
//
// # Design Notes
//
// DTOs use camelCase JSON tags to match the persisted request format the web
// client already reads. Timestamps are RFC3339 with milliseconds alongside the
// raw Unix millisecond value.
package api
