// Package main hosts the vibeline CLI entrypoint and command graph.
//
// The Cobra command tree translates terminal invocations into IPC calls
// against the daemon: submitting requests, working the DJ queue, editing
// preference tags, generating shout-outs, and following the change feed.
// When no daemon is running and storage is persistent, queue commands fall
// back to opening the store directly.
package main
