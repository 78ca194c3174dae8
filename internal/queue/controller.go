package queue

import (
	"context"
	"log/slog"
	"slices"
	"time"

	"github.com/google/uuid"

	"vibeline/internal/kv"
	"vibeline/internal/logging"
	"vibeline/internal/notify"
	"vibeline/internal/request"
	"vibeline/internal/services"
)

// Publisher receives change notifications. *notify.Hub satisfies it.
type Publisher interface {
	Publish(notify.Event) notify.Event
}

type nopPublisher struct{}

func (nopPublisher) Publish(evt notify.Event) notify.Event { return evt }

// Controller coordinates every read and write of requests and preferences.
type Controller struct {
	requests  *RequestStore
	prefs     *PreferenceStore
	publisher Publisher
	now       func() time.Time
	newID     func() string
	logger    *slog.Logger
}

// Option configures a Controller.
type Option func(*Controller)

// WithPublisher routes change notifications to p.
func WithPublisher(p Publisher) Option {
	return func(c *Controller) {
		if p != nil {
			c.publisher = p
		}
	}
}

// WithClock overrides the time source used for submission timestamps.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) {
		if now != nil {
			c.now = now
		}
	}
}

// WithIDGenerator overrides request id generation.
func WithIDGenerator(newID func() string) Option {
	return func(c *Controller) {
		if newID != nil {
			c.newID = newID
		}
	}
}

// WithLogger sets the controller logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewController composes the two stores.
func NewController(requests *RequestStore, prefs *PreferenceStore, opts ...Option) *Controller {
	c := &Controller{
		requests:  requests,
		prefs:     prefs,
		publisher: nopPublisher{},
		now:       time.Now,
		newID:     uuid.NewString,
		logger:    logging.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = logging.NewComponentLogger(c.logger, "queue")
	return c
}

// Open builds both stores on store and returns a controller over them.
func Open(store kv.Store, logger *slog.Logger, opts ...Option) *Controller {
	opts = append([]Option{WithLogger(logger)}, opts...)
	return NewController(NewRequestStore(store, logger), NewPreferenceStore(store, logger), opts...)
}

// Submit validates sub, assigns an id and timestamp, and appends the new
// pending request. Timestamps never go backwards relative to stored requests.
func (c *Controller) Submit(ctx context.Context, sub request.Submission) (request.Request, error) {
	var created request.Request
	_, _, err := c.requests.Update(ctx, func(current []request.Request) ([]request.Request, bool, error) {
		at := c.now()
		for _, r := range current {
			if r.Timestamp.After(at) {
				at = r.Timestamp
			}
		}
		built, err := sub.Build(c.newID(), at)
		if err != nil {
			return nil, false, err
		}
		created = built
		return append(slices.Clone(current), built), true, nil
	})
	if err != nil {
		return request.Request{}, err
	}

	ctx = services.WithRequestID(ctx, created.ID)
	logging.WithContext(ctx, c.logger).Info("request submitted",
		logging.String("song", created.SongName),
		logging.String("artist", created.Artist),
		logging.Bool("has_bid", created.HasBid()),
	)
	c.publisher.Publish(notify.Event{
		Kind:      notify.KindRequestSubmitted,
		Key:       RequestsKey,
		RequestID: created.ID,
		Status:    string(created.Status),
	})
	return created, nil
}

// Get returns the request with id, or an error wrapping services.ErrNotFound.
func (c *Controller) Get(ctx context.Context, id string) (request.Request, error) {
	all, err := c.requests.Load(ctx)
	if err != nil {
		return request.Request{}, err
	}
	idx := slices.IndexFunc(all, func(r request.Request) bool { return r.ID == id })
	if idx < 0 {
		return request.Request{}, notFound("get", id)
	}
	return all[idx], nil
}

// Transition moves request id to next. Unknown ids return services.ErrNotFound
// and illegal moves return services.ErrInvalidTransition; in both cases the
// store is untouched and nothing is published.
func (c *Controller) Transition(ctx context.Context, id string, next request.Status) (request.Request, error) {
	var updated request.Request
	_, _, err := c.requests.Update(ctx, func(current []request.Request) ([]request.Request, bool, error) {
		idx := slices.IndexFunc(current, func(r request.Request) bool { return r.ID == id })
		if idx < 0 {
			return nil, false, notFound("transition", id)
		}
		if err := request.ValidateTransition(current[idx].Status, next); err != nil {
			return nil, false, err
		}
		out := slices.Clone(current)
		out[idx].Status = next
		updated = out[idx]
		return out, true, nil
	})
	if err != nil {
		return request.Request{}, err
	}

	ctx = services.WithRequestID(ctx, id)
	logging.WithContext(ctx, c.logger).Info("request status changed", logging.String("status", string(next)))
	c.publisher.Publish(notify.Event{
		Kind:      notify.KindRequestUpdated,
		Key:       RequestsKey,
		RequestID: id,
		Status:    string(next),
	})
	return updated, nil
}

// ClearAll removes every request and reports how many were removed. Clearing
// an already empty queue still writes and publishes so observers resync.
func (c *Controller) ClearAll(ctx context.Context) (int, error) {
	removed := 0
	_, _, err := c.requests.Update(ctx, func(current []request.Request) ([]request.Request, bool, error) {
		removed = len(current)
		return []request.Request{}, true, nil
	})
	if err != nil {
		return 0, err
	}
	c.logger.Info("requests cleared", logging.Int("removed", removed))
	c.publisher.Publish(notify.Event{Kind: notify.KindRequestsCleared, Key: RequestsKey})
	return removed, nil
}

// Ranked returns the DJ view with match flags.
func (c *Controller) Ranked(ctx context.Context) ([]request.Ranked, error) {
	all, err := c.requests.Load(ctx)
	if err != nil {
		return nil, err
	}
	prefs, err := c.prefs.Load(ctx)
	if err != nil {
		return nil, err
	}
	return request.Rank(all, prefs), nil
}

// ForUser returns the requests submitted by userID, newest first.
func (c *Controller) ForUser(ctx context.Context, userID string) ([]request.Request, error) {
	all, err := c.requests.Load(ctx)
	if err != nil {
		return nil, err
	}
	mine := slices.DeleteFunc(slices.Clone(all), func(r request.Request) bool { return r.UserID != userID })
	return request.NewestFirst(mine), nil
}

// Preferences returns the current preference set.
func (c *Controller) Preferences(ctx context.Context) (request.Preferences, error) {
	return c.prefs.Load(ctx)
}

// AddTag adds a normalized tag. changed is false for empty or duplicate tags,
// in which case nothing is written or published.
func (c *Controller) AddTag(ctx context.Context, tag string) (request.Preferences, bool, error) {
	return c.updatePreferences(ctx, "tag added", tag, func(p request.Preferences) (request.Preferences, bool) {
		return p.WithTag(tag)
	})
}

// RemoveTag removes a tag from every list. changed is false when the tag was
// not present.
func (c *Controller) RemoveTag(ctx context.Context, tag string) (request.Preferences, bool, error) {
	return c.updatePreferences(ctx, "tag removed", tag, func(p request.Preferences) (request.Preferences, bool) {
		return p.WithoutTag(tag)
	})
}

func (c *Controller) updatePreferences(ctx context.Context, msg, tag string, fn func(request.Preferences) (request.Preferences, bool)) (request.Preferences, bool, error) {
	prefs, changed, err := c.prefs.Update(ctx, func(current request.Preferences) (request.Preferences, bool, error) {
		next, changed := fn(current)
		return next, changed, nil
	})
	if err != nil || !changed {
		return prefs, false, err
	}
	c.logger.Info(msg, logging.String("tag", request.NormalizeTag(tag)))
	c.publisher.Publish(notify.Event{Kind: notify.KindPreferencesUpdated, Key: PreferencesKey})
	return prefs, true, nil
}

func notFound(operation, id string) error {
	return services.Wrap(services.ErrNotFound, "queue", operation, "request "+id, nil)
}
