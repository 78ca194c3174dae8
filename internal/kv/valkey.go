package kv

import (
	"context"
	"errors"
	"fmt"

	"github.com/valkey-io/valkey-go"
)

// ValkeyChannel carries change notifications between processes sharing a
// valkey server.
const ValkeyChannel = "vibeline:kv"

// ValkeyOptions configures the valkey connection.
type ValkeyOptions struct {
	Addr     string
	Password string
	DB       int
}

// Valkey stores keys on a valkey (or redis-compatible) server and announces
// writes on ValkeyChannel.
type Valkey struct {
	client valkey.Client
	origin string
}

// OpenValkey connects and verifies the server responds to PING.
func OpenValkey(ctx context.Context, opts ValkeyOptions) (*Valkey, error) {
	if opts.Addr == "" {
		return nil, errors.New("valkey address is empty")
	}
	client, err := valkey.NewClient(valkey.ClientOption{
		InitAddress: []string{opts.Addr},
		Password:    opts.Password,
		SelectDB:    opts.DB,
	})
	if err != nil {
		return nil, fmt.Errorf("connect valkey %s: %w", opts.Addr, err)
	}
	store := &Valkey{client: client, origin: Origin}
	if err := store.Ping(ctx); err != nil {
		client.Close()
		return nil, err
	}
	return store, nil
}

func (v *Valkey) Get(ctx context.Context, key string) ([]byte, error) {
	value, err := v.client.Do(ctx, v.client.B().Get().Key(key).Build()).AsBytes()
	if valkey.IsValkeyNil(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", key, err)
	}
	return value, nil
}

// Set writes the value and then publishes the change. A failed publish is
// reported but the value stays written.
func (v *Valkey) Set(ctx context.Context, key string, value []byte) error {
	cmd := v.client.B().Set().Key(key).Value(valkey.BinaryString(value)).Build()
	if err := v.client.Do(ctx, cmd).Error(); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	publish := v.client.B().Publish().Channel(ValkeyChannel).Message(encodeChange(v.origin, key)).Build()
	if err := v.client.Do(ctx, publish).Error(); err != nil {
		return fmt.Errorf("publish %s: %w", key, err)
	}
	return nil
}

// Watch subscribes to ValkeyChannel until ctx ends.
func (v *Valkey) Watch(ctx context.Context, fn func(key string)) error {
	subscribe := v.client.B().Subscribe().Channel(ValkeyChannel).Build()
	err := v.client.Receive(ctx, subscribe, func(msg valkey.PubSubMessage) {
		if key, ok := foreignKey(v.origin, msg.Message); ok {
			fn(key)
		}
	})
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	return err
}

func (v *Valkey) Ping(ctx context.Context) error {
	if err := v.client.Do(ctx, v.client.B().Ping().Build()).Error(); err != nil {
		return fmt.Errorf("ping valkey: %w", err)
	}
	return nil
}

func (v *Valkey) Close() error {
	v.client.Close()
	return nil
}
