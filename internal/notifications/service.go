package notifications

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"vibeline/internal/config"
	"vibeline/internal/services"
)

const userAgent = "Vibeline/0.1"

// Event identifies what a push describes.
type Event string

const (
	EventRequestSubmitted Event = "request_submitted"
	EventQueueCleared     Event = "queue_cleared"
	EventTest             Event = "test"
)

// Payload carries the values a message is built from. Missing keys render as
// empty strings.
type Payload map[string]any

// Service publishes events.
type Service interface {
	Publish(ctx context.Context, event Event, payload Payload) error
}

// NewService returns an ntfy-backed service, or a no-op when
// notifications.ntfy_topic is empty.
func NewService(cfg *config.Config) Service {
	if cfg == nil || strings.TrimSpace(cfg.Notifications.NtfyTopic) == "" {
		return noopService{}
	}
	timeout := cfg.NotifyTimeout()
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &ntfyService{
		endpoint: strings.TrimSpace(cfg.Notifications.NtfyTopic),
		client:   &http.Client{Timeout: timeout},
	}
}

type message struct {
	title    string
	body     string
	tags     []string
	priority string
}

type ntfyService struct {
	endpoint string
	client   *http.Client
}

func (n *ntfyService) Publish(ctx context.Context, event Event, payload Payload) error {
	msg, ok := buildMessage(event, payload)
	if !ok {
		return nil
	}
	return n.send(ctx, msg)
}

func buildMessage(event Event, payload Payload) (message, bool) {
	switch event {
	case EventRequestSubmitted:
		song := payload.text("song")
		artist := payload.text("artist")
		requester := payload.text("requester")
		if requester == "" {
			requester = "Guest"
		}
		body := fmt.Sprintf("🎵 %s requested %s by %s", requester, song, artist)
		if note := payload.text("note"); note != "" {
			body += "\nNote: " + note
		}
		msg := message{
			title: "Vibeline - New Request",
			tags:  []string{"vibeline", "request"},
		}
		if bid := payload.text("bid"); bid != "" {
			body += "\n💰 Bid: " + bid
			msg.title = "Vibeline - New Bid"
			msg.tags = append(msg.tags, "bid")
			msg.priority = "high"
		}
		msg.body = body
		return msg, true
	case EventQueueCleared:
		return message{
			title: "Vibeline - Queue Cleared",
			body:  "🧹 The request queue was cleared",
			tags:  []string{"vibeline", "queue", "cleared"},
		}, true
	case EventTest:
		return message{
			title:    "Vibeline - Test",
			body:     "🧪 Notification system test",
			tags:     []string{"vibeline", "test"},
			priority: "low",
		}, true
	default:
		return message{}, false
	}
}

func (p Payload) text(key string) string {
	if p == nil {
		return ""
	}
	value, ok := p[key]
	if !ok || value == nil {
		return ""
	}
	return strings.TrimSpace(fmt.Sprint(value))
}

func (n *ntfyService) send(ctx context.Context, msg message) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, strings.NewReader(msg.body))
	if err != nil {
		return services.Wrap(services.ErrConfiguration, "notifications", "build request", "invalid ntfy topic", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")
	if msg.title != "" {
		req.Header.Set("Title", msg.title)
	}
	if len(msg.tags) > 0 {
		req.Header.Set("Tags", strings.Join(msg.tags, ","))
	}
	if msg.priority != "" {
		req.Header.Set("Priority", msg.priority)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return services.Wrap(services.ErrTransient, "notifications", "send", "ntfy unreachable", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return services.Wrap(services.ErrExternalService, "notifications", "send",
			fmt.Sprintf("ntfy returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body))), nil)
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

type noopService struct{}

func (noopService) Publish(context.Context, Event, Payload) error { return nil }

// Enabled reports whether svc delivers anything.
func Enabled(svc Service) bool {
	_, noop := svc.(noopService)
	return svc != nil && !noop
}
