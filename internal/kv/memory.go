package kv

import (
	"context"
	"slices"
	"sync"

	"github.com/google/uuid"
)

type memoryState struct {
	mu       sync.RWMutex
	data     map[string][]byte
	watchers map[*memoryWatcher]struct{}
}

type memoryWatcher struct {
	origin string
	ch     chan string
}

// Memory is an in-process Store. Peers created with Peer share its data but
// carry their own origin, which lets tests stand in for a second process.
type Memory struct {
	state  *memoryState
	origin string
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		state: &memoryState{
			data:     make(map[string][]byte),
			watchers: make(map[*memoryWatcher]struct{}),
		},
		origin: Origin,
	}
}

// Peer returns a view of the same data under a fresh origin.
func (m *Memory) Peer() *Memory {
	return &Memory{state: m.state, origin: uuid.NewString()}
}

func (m *Memory) Get(_ context.Context, key string) ([]byte, error) {
	m.state.mu.RLock()
	defer m.state.mu.RUnlock()
	value, ok := m.state.data[key]
	if !ok {
		return nil, nil
	}
	return slices.Clone(value), nil
}

func (m *Memory) Set(_ context.Context, key string, value []byte) error {
	m.state.mu.Lock()
	defer m.state.mu.Unlock()
	m.state.data[key] = slices.Clone(value)
	for w := range m.state.watchers {
		if w.origin == m.origin {
			continue
		}
		select {
		case w.ch <- key:
		default:
		}
	}
	return nil
}

// Watch reports keys written through peers with a different origin.
func (m *Memory) Watch(ctx context.Context, fn func(key string)) error {
	w := &memoryWatcher{origin: m.origin, ch: make(chan string, 64)}
	m.state.mu.Lock()
	m.state.watchers[w] = struct{}{}
	m.state.mu.Unlock()
	defer func() {
		m.state.mu.Lock()
		delete(m.state.watchers, w)
		m.state.mu.Unlock()
	}()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case key := <-w.ch:
			fn(key)
		}
	}
}

func (m *Memory) Ping(context.Context) error { return nil }

func (m *Memory) Close() error { return nil }
