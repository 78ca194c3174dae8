package kv

import (
	"strings"

	"github.com/google/uuid"
)

// Origin identifies this process in change notifications.
var Origin = uuid.NewString()

const payloadSeparator = "|"

func encodeChange(origin, key string) string {
	return origin + payloadSeparator + key
}

// decodeChange splits a change payload. Payloads without an origin are
// treated as foreign.
func decodeChange(payload string) (origin, key string) {
	origin, key, ok := strings.Cut(payload, payloadSeparator)
	if !ok {
		return "", payload
	}
	return origin, key
}

// foreignKey reports the changed key when payload was written by someone
// other than self.
func foreignKey(self, payload string) (string, bool) {
	origin, key := decodeChange(payload)
	if key == "" || origin == self {
		return "", false
	}
	return key, true
}
