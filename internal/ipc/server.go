package ipc

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/rpc"
	"net/rpc/jsonrpc"
	"os"
	"sync"

	"vibeline/internal/api"
	"vibeline/internal/daemon"
	"vibeline/internal/logging"
)

// ServiceName is the RPC receiver name clients call methods on.
const ServiceName = "Vibeline"

// Server exposes daemon control via JSON-RPC over a Unix domain socket.
type Server struct {
	path      string
	logger    *slog.Logger
	listener  net.Listener
	rpcServer *rpc.Server

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu     sync.Mutex
	conns  map[net.Conn]struct{}
	closed bool
}

// ServerOption customizes the IPC server.
type ServerOption func(*service)

// WithShutdown registers the callback the Stop RPC invokes.
func WithShutdown(fn func()) ServerOption {
	return func(s *service) {
		s.shutdown = fn
	}
}

// NewServer configures the IPC server at the given socket path. Any stale
// socket file left by a previous run is removed first.
func NewServer(ctx context.Context, path string, d *daemon.Daemon, logger *slog.Logger, opts ...ServerOption) (*Server, error) {
	if d == nil {
		return nil, errors.New("ipc server requires daemon")
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	logger = logging.NewComponentLogger(logger, "ipc")

	if err := os.RemoveAll(path); err != nil {
		return nil, fmt.Errorf("remove existing socket: %w", err)
	}
	listener, err := net.Listen("unix", path)
	if err != nil {
		return nil, fmt.Errorf("listen on socket: %w", err)
	}
	if err := os.Chmod(path, 0o600); err != nil {
		listener.Close()
		return nil, fmt.Errorf("restrict socket permissions: %w", err)
	}

	serverCtx, cancel := context.WithCancel(ctx)
	svc := &service{daemon: d, queue: d.Service(), logger: logger, ctx: serverCtx}
	for _, opt := range opts {
		opt(svc)
	}
	rpcServer := rpc.NewServer()
	if err := rpcServer.RegisterName(ServiceName, svc); err != nil {
		cancel()
		listener.Close()
		return nil, fmt.Errorf("register rpc service: %w", err)
	}

	return &Server{
		path:      path,
		logger:    logger,
		listener:  listener,
		rpcServer: rpcServer,
		ctx:       serverCtx,
		cancel:    cancel,
		conns:     make(map[net.Conn]struct{}),
	}, nil
}

// Path returns the socket path.
func (s *Server) Path() string {
	return s.path
}

// Serve starts accepting RPC connections until Close is called.
func (s *Server) Serve() {
	s.logger.Debug("IPC server listening", logging.String("socket", s.path))
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		for {
			conn, err := s.listener.Accept()
			if err != nil {
				if s.ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
					return
				}
				logging.WarnWithContext(s.logger, "accept failed", "ipc_accept_failed",
					logging.Error(err),
					logging.String("impact", "CLI commands may fail to connect"),
					logging.String(logging.FieldErrorHint, "check socket permissions and restart the daemon if needed"),
				)
				continue
			}
			if !s.track(conn) {
				_ = conn.Close()
				return
			}
			s.wg.Add(1)
			go func(c net.Conn) {
				defer s.wg.Done()
				defer s.untrack(c)
				s.rpcServer.ServeCodec(jsonrpc.NewServerCodec(c))
			}(conn)
		}
	}()
}

func (s *Server) track(conn net.Conn) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	s.conns[conn] = struct{}{}
	return true
}

func (s *Server) untrack(conn net.Conn) {
	s.mu.Lock()
	delete(s.conns, conn)
	s.mu.Unlock()
}

// Close stops the server, drops every open client connection, and removes
// the socket file. Calls still in flight see their connection close.
func (s *Server) Close() {
	s.cancel()
	if s.listener != nil {
		_ = s.listener.Close()
	}
	s.mu.Lock()
	s.closed = true
	for conn := range s.conns {
		_ = conn.Close()
	}
	s.mu.Unlock()
	s.wg.Wait()
	if err := os.RemoveAll(s.path); err != nil {
		logging.WarnWithContext(s.logger, "failed to remove socket", "ipc_socket_cleanup_failed",
			logging.String("socket", s.path),
			logging.Error(err),
			logging.String("impact", "stale IPC socket may block future starts"),
			logging.String(logging.FieldErrorHint, "remove the socket file manually"),
		)
	}
}

type service struct {
	daemon   *daemon.Daemon
	queue    *api.QueueService
	logger   *slog.Logger
	ctx      context.Context
	shutdown func()
}

func (s *service) Status(_ StatusRequest, resp *StatusResponse) error {
	status, err := s.daemon.Status(s.ctx)
	if err != nil {
		return err
	}
	*resp = status
	return nil
}

func (s *service) List(req ListRequest, resp *ListResponse) error {
	out, err := s.queue.List(s.ctx, req)
	if err != nil {
		return err
	}
	*resp = out
	return nil
}

func (s *service) Describe(req DescribeRequest, resp *ItemResponse) error {
	item, err := s.queue.Describe(s.ctx, req.ID)
	if err != nil {
		return err
	}
	resp.Item = item
	return nil
}

func (s *service) Submit(req SubmitRequest, resp *ItemResponse) error {
	item, err := s.queue.Submit(s.ctx, req)
	if err != nil {
		return err
	}
	resp.Item = item
	return nil
}

func (s *service) Transition(req TransitionRequest, resp *ItemResponse) error {
	item, err := s.queue.Transition(s.ctx, req)
	if err != nil {
		return err
	}
	resp.Item = item
	s.logger.Info("request status changed via IPC",
		logging.Event("ipc_transition"),
		logging.RequestID(item.ID),
		logging.String("status", item.Status),
	)
	return nil
}

func (s *service) Clear(_ ClearRequest, resp *ClearResponse) error {
	out, err := s.queue.Clear(s.ctx)
	if err != nil {
		return err
	}
	*resp = out
	s.logger.Info("queue cleared via IPC",
		logging.Event("ipc_queue_clear"),
		logging.Int("removed_count", out.Removed),
	)
	return nil
}

func (s *service) Preferences(_ PreferencesRequest, resp *Preferences) error {
	prefs, err := s.queue.Preferences(s.ctx)
	if err != nil {
		return err
	}
	*resp = prefs
	return nil
}

func (s *service) AddTag(req TagRequest, resp *TagResponse) error {
	out, err := s.queue.AddTag(s.ctx, req)
	if err != nil {
		return err
	}
	*resp = out
	return nil
}

func (s *service) RemoveTag(req TagRequest, resp *TagResponse) error {
	out, err := s.queue.RemoveTag(s.ctx, req)
	if err != nil {
		return err
	}
	*resp = out
	return nil
}

func (s *service) Shoutout(req ShoutoutRequest, resp *ShoutoutResponse) error {
	out, err := s.queue.Shoutout(s.ctx, req.ID)
	if err != nil {
		return err
	}
	*resp = out
	return nil
}

func (s *service) TestNotification(_ TestNotificationRequest, resp *TestNotificationResponse) error {
	sent, err := s.daemon.TestNotification(s.ctx)
	if err != nil {
		return err
	}
	resp.Sent = sent
	if !sent {
		resp.Message = "Notifications disabled (set notifications.ntfy_topic)"
	}
	return nil
}

func (s *service) Events(req EventsRequest, resp *EventsResponse) error {
	if s.ctx.Err() != nil {
		return ErrDaemonStopped
	}
	out, err := s.daemon.Events(s.ctx, req)
	if err != nil {
		return err
	}
	// A follow wait cut short by shutdown is not an empty batch.
	if s.ctx.Err() != nil {
		return ErrDaemonStopped
	}
	*resp = out
	return nil
}

func (s *service) Stop(_ StopRequest, resp *StopResponse) error {
	if s.shutdown == nil {
		return errors.New("daemon was not started with a shutdown handler")
	}
	s.logger.Info("daemon stop requested via IPC",
		logging.Event("daemon_stop_requested"))
	go s.shutdown()
	resp.Stopping = true
	return nil
}
