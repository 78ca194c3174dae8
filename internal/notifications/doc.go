// Package notifications pushes queue activity to the DJ's devices.
//
// The only transport is ntfy: each push is a plain-text POST to the topic URL
// from config.toml with Title, Tags, and Priority headers. When no topic is
// configured NewService returns a no-op, so callers publish unconditionally.
package notifications
