package daemon

import (
	"context"
	"time"

	"vibeline/internal/kv"
	"vibeline/internal/logging"
	"vibeline/internal/notify"
)

// startWatcher relays writes made by other processes into the hub. It retries
// with backoff when the backend subscription drops.
func (d *Daemon) startWatcher(ctx context.Context) {
	watcher, ok := d.store.(kv.Watcher)
	if !ok || !d.cfg.Storage.WatchExternal {
		return
	}
	logger := logging.NewComponentLogger(d.logger, "store-watch")
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		delay := watchRetryMinDelay
		for {
			started := time.Now()
			err := watcher.Watch(ctx, func(key string) {
				evt := d.hub.Publish(notify.Event{Kind: notify.KindStoreChanged, Key: key})
				logger.Debug("external store change", logging.String("key", key), logging.Uint64("seq", evt.Sequence))
			})
			if ctx.Err() != nil {
				return
			}
			if time.Since(started) > watchRetryMaxDelay {
				delay = watchRetryMinDelay
			}
			logging.WarnWithContext(logger, "store watch interrupted; retrying", "store_watch_failed",
				logging.Error(err),
				logging.Duration("retry_in", delay),
				logging.String(logging.FieldErrorHint, "check storage backend connectivity"),
				logging.String(logging.FieldImpact, "changes from other processes are not pushed until the watch recovers"),
			)
			timer := time.NewTimer(delay)
			select {
			case <-ctx.Done():
				timer.Stop()
				return
			case <-timer.C:
			}
			delay = min(delay*2, watchRetryMaxDelay)
		}
	}()
}
