// Package notify fans queue and preference changes out to observers.
//
// Hub keeps a bounded ring of recent events with monotonically increasing
// sequence numbers. HTTP clients long-poll it with Fetch; websocket clients
// hold a Subscription and receive events on a channel. Publishing never
// blocks on a slow subscriber: events that do not fit its buffer are counted
// as dropped and the subscriber can resynchronize with Fetch.
package notify
