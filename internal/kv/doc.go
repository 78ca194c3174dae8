// Package kv provides the byte-oriented key-value persistence the queue is
// built on.
//
// Every backend implements Store. Backends that can be shared between
// processes (valkey, postgres) also implement Watcher so a daemon can notice
// writes made elsewhere. Writes are tagged with the writing process's Origin
// and a watcher never reports its own writes.
package kv
