// Package daemon runs the long-lived vibeline process.
//
// It owns the key-value store, the change hub, the queue controller and the
// HTTP API (including the websocket push), behind a flock-based single
// instance lock. When the storage backend can report writes from other
// processes, the daemon relays them into the hub as store.changed events so
// every connected client resyncs. With an ntfy topic configured, new
// submissions and queue clears are also pushed to the DJ's devices.
//
// Keep request semantics in internal/queue and internal/request; the daemon
// only wires and exposes them.
package daemon
