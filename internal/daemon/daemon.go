package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gofrs/flock"

	"vibeline/internal/api"
	"vibeline/internal/config"
	"vibeline/internal/kv"
	"vibeline/internal/logging"
	"vibeline/internal/notifications"
	"vibeline/internal/notify"
	"vibeline/internal/queue"
	"vibeline/internal/services/shoutout"
)

const (
	defaultEventLimit  = 200
	maxEventLimit      = 1000
	defaultFollowWait  = 25 * time.Second
	watchRetryMinDelay = time.Second
	watchRetryMaxDelay = 30 * time.Second
)

// Daemon wires storage, the queue controller, and the API surfaces, and
// enforces single-instance execution.
type Daemon struct {
	cfg     *config.Config
	logger  *slog.Logger
	store   kv.Store
	hub     *notify.Hub
	queue   *queue.Controller
	service *api.QueueService
	pusher  notifications.Service

	lockPath string
	lock     *flock.Flock
	api      *apiServer

	mu      sync.Mutex
	running atomic.Bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// Option customizes daemon construction.
type Option func(*options)

type options struct {
	shoutouts api.Shoutouts
	notifier  notifications.Service
	queueOpts []queue.Option
}

// WithShoutouts replaces the shout-out generator built from config.
func WithShoutouts(s api.Shoutouts) Option {
	return func(o *options) { o.shoutouts = s }
}

// WithNotifier replaces the ntfy service built from config.
func WithNotifier(n notifications.Service) Option {
	return func(o *options) { o.notifier = n }
}

// WithQueueOptions passes extra options to the queue controller.
func WithQueueOptions(opts ...queue.Option) Option {
	return func(o *options) { o.queueOpts = append(o.queueOpts, opts...) }
}

// New constructs a daemon around an open store. The daemon owns store and
// closes it in Close.
func New(cfg *config.Config, store kv.Store, logger *slog.Logger, opts ...Option) (*Daemon, error) {
	if cfg == nil || store == nil {
		return nil, errors.New("daemon requires config and store")
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if o.shoutouts == nil {
		o.shoutouts = shoutout.NewFromConfig(cfg, logger)
	}
	if o.notifier == nil {
		o.notifier = notifications.NewService(cfg)
	}

	hub := notify.NewHub(cfg.Server.EventBuffer)
	queueOpts := append([]queue.Option{queue.WithPublisher(hub)}, o.queueOpts...)
	controller := queue.Open(store, logger, queueOpts...)

	d := &Daemon{
		cfg:      cfg,
		logger:   logging.NewComponentLogger(logger, "daemon"),
		store:    store,
		hub:      hub,
		queue:    controller,
		service:  api.NewQueueService(controller, o.shoutouts),
		pusher:   o.notifier,
		lockPath: cfg.LockPath(),
		lock:     flock.New(cfg.LockPath()),
	}
	d.api = newAPIServer(cfg, d, logger)
	return d, nil
}

// Start acquires the daemon lock, starts the external change relay, and
// begins serving the HTTP API.
func (d *Daemon) Start(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.running.Load() {
		return errors.New("daemon already running")
	}

	ok, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return errors.New("another vibeline daemon instance is already running")
	}

	runCtx, cancel := context.WithCancel(ctx)
	if err := d.api.start(runCtx); err != nil {
		cancel()
		_ = d.lock.Unlock()
		return fmt.Errorf("start api server: %w", err)
	}
	d.cancel = cancel
	d.startWatcher(runCtx)
	d.startPushRelay(runCtx)

	d.running.Store(true)
	d.logger.Info("vibeline daemon started",
		logging.String("lock", d.lockPath),
		logging.String("backend", d.cfg.Storage.Backend),
		logging.String("api", d.api.addr()),
	)
	return nil
}

// Stop shuts down the API server and watcher and releases the lock.
func (d *Daemon) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.running.Load() {
		return
	}
	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	d.api.stop()
	d.wg.Wait()
	if err := d.lock.Unlock(); err != nil {
		logging.WarnWithContext(d.logger, "failed to release daemon lock", "daemon_lock_release_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "remove "+d.lockPath+" if no daemon is running"),
		)
	}
	d.running.Store(false)
	d.logger.Info("vibeline daemon stopped")
}

// Close stops the daemon and closes the store.
func (d *Daemon) Close() error {
	d.Stop()
	return d.store.Close()
}

// Running reports whether Start has succeeded and Stop has not been called.
func (d *Daemon) Running() bool {
	return d.running.Load()
}

// Service returns the DTO-level queue service shared by the API surfaces.
func (d *Daemon) Service() *api.QueueService {
	return d.service
}

// Hub returns the change notification hub.
func (d *Daemon) Hub() *notify.Hub {
	return d.hub
}

// APIAddr returns the bound HTTP address, or "" when not serving.
func (d *Daemon) APIAddr() string {
	return d.api.addr()
}

// Status reports runtime information and queue counts.
func (d *Daemon) Status(ctx context.Context) (api.Status, error) {
	stats, err := d.service.Stats(ctx)
	if err != nil {
		return api.Status{}, err
	}
	_, next := d.hub.Tail(1)
	status := api.Status{
		Running:     d.running.Load(),
		PID:         os.Getpid(),
		Backend:     d.cfg.Storage.Backend,
		LockPath:    d.lockPath,
		SocketPath:  d.cfg.SocketPath(),
		APIBind:     d.api.addr(),
		Shoutouts:   d.cfg.Shoutout.Enabled && d.cfg.GetLLM().APIKey != "",
		Subscribers: d.hub.Subscribers(),
		LastEvent:   next,
		Queue:       stats,
	}
	if pathed, ok := d.store.(interface{ Path() string }); ok {
		status.StorePath = pathed.Path()
	}
	return status, nil
}

// Events returns change events after req.Since. With Follow set it waits for
// the next event, up to req.WaitMillis (25s by default); a wait that ends
// without events is not an error.
func (d *Daemon) Events(ctx context.Context, req api.EventsRequest) (api.EventsResponse, error) {
	limit := req.Limit
	if limit <= 0 {
		limit = defaultEventLimit
	}
	limit = min(limit, maxEventLimit)
	if req.Follow {
		wait := defaultFollowWait
		if req.WaitMillis > 0 {
			wait = time.Duration(req.WaitMillis) * time.Millisecond
		}
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, wait)
		defer cancel()
	}
	events, next, err := d.hub.Fetch(ctx, req.Since, limit, req.Follow)
	if err != nil && !errors.Is(err, context.DeadlineExceeded) && !errors.Is(err, context.Canceled) {
		return api.EventsResponse{}, err
	}
	if len(events) > 0 {
		next = events[len(events)-1].Sequence
	}
	return api.EventsResponse{Events: api.FromEvents(events), Next: next}, nil
}
