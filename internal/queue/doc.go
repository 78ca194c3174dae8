// Package queue owns the song request collection and the DJ preference set.
//
// Both live as single JSON blobs in a kv.Store under fixed keys, which keeps
// the persisted layout compatible with the browser-storage shape the data
// originally had. RequestStore and PreferenceStore wrap the blobs with a
// read-modify-write Update that holds a per-store mutex, so every mutation
// made by this process is serialized.
//
// Controller is the single entry point for reads and writes. It stamps ids
// and timestamps on submissions, enforces the status lifecycle, and publishes
// a notify.Event after each successful change. Nothing is published when an
// operation fails or changes nothing.
package queue
