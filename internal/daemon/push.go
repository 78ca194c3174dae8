package daemon

import (
	"context"
	"errors"
	"time"

	"vibeline/internal/logging"
	"vibeline/internal/notifications"
	"vibeline/internal/notify"
)

const pushRelayBuffer = 64

// startPushRelay forwards submissions and queue clears from the hub to the
// configured notifier. Push failures are logged and never affect the queue.
func (d *Daemon) startPushRelay(ctx context.Context) {
	if !notifications.Enabled(d.pusher) {
		return
	}
	logger := logging.NewComponentLogger(d.logger, "push")
	sub := d.hub.Subscribe(pushRelayBuffer)
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		defer sub.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case evt, ok := <-sub.C():
				if !ok {
					return
				}
				event, payload, ok := d.pushFor(ctx, evt)
				if !ok {
					continue
				}
				sendCtx, cancel := context.WithTimeout(ctx, d.cfg.NotifyTimeout())
				err := d.pusher.Publish(sendCtx, event, payload)
				cancel()
				if err != nil && !errors.Is(err, context.Canceled) {
					logging.WarnWithContext(logger, "push notification failed", "push_failed",
						logging.String("event", string(event)),
						logging.Error(err),
						logging.String(logging.FieldErrorHint, "check notifications.ntfy_topic"),
					)
					continue
				}
				logger.Debug("push notification sent", logging.String("event", string(event)), logging.Uint64("seq", evt.Sequence))
			}
		}
	}()
}

func (d *Daemon) pushFor(ctx context.Context, evt notify.Event) (notifications.Event, notifications.Payload, bool) {
	switch evt.Kind {
	case notify.KindRequestSubmitted:
		item, err := d.service.Describe(ctx, evt.RequestID)
		if err != nil {
			return "", nil, false
		}
		bid := item.BidLabel()
		if bid == "" && d.cfg.Notifications.BidsOnly {
			return "", nil, false
		}
		return notifications.EventRequestSubmitted, notifications.Payload{
			"song":      item.SongName,
			"artist":    item.Artist,
			"requester": item.UserName,
			"note":      item.Note,
			"bid":       bid,
		}, true
	case notify.KindRequestsCleared:
		return notifications.EventQueueCleared, nil, true
	default:
		return "", nil, false
	}
}

// TestNotification sends a test push. It reports false without error when
// no notifier is configured.
func (d *Daemon) TestNotification(ctx context.Context) (bool, error) {
	if !notifications.Enabled(d.pusher) {
		return false, nil
	}
	ctx, cancel := context.WithTimeout(ctx, max(d.cfg.NotifyTimeout(), time.Second))
	defer cancel()
	if err := d.pusher.Publish(ctx, notifications.EventTest, nil); err != nil {
		return false, err
	}
	return true, nil
}
