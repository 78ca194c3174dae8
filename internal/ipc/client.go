package ipc

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/rpc"
	"net/rpc/jsonrpc"
	"strings"
	"time"

	"vibeline/internal/services"
)

const dialTimeout = 2 * time.Second

// ErrDaemonStopped reports that the daemon shut down before or during a call.
var ErrDaemonStopped = errors.New("daemon stopped")

// Client provides RPC access to the daemon.
type Client struct {
	conn   net.Conn
	client *rpc.Client
}

// Dial connects to the IPC server at the given socket path.
func Dial(path string) (*Client, error) {
	conn, err := net.DialTimeout("unix", path, dialTimeout)
	if err != nil {
		return nil, err
	}
	rpcClient := rpc.NewClientWithCodec(jsonrpc.NewClientCodec(conn))
	return &Client{conn: conn, client: rpcClient}, nil
}

// Close closes the underlying connection.
func (c *Client) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

func (c *Client) call(ctx context.Context, method string, req, resp any) error {
	call := c.client.Go(ServiceName+"."+method, req, resp, make(chan *rpc.Call, 1))
	select {
	case <-ctx.Done():
		return ctx.Err()
	case done := <-call.Done:
		return remoteError(done.Error)
	}
}

func connectionLost(err error) bool {
	return errors.Is(err, rpc.ErrShutdown) ||
		errors.Is(err, io.EOF) ||
		errors.Is(err, io.ErrUnexpectedEOF) ||
		errors.Is(err, net.ErrClosed)
}

// remoteError restores the services marker a server-side error carried so
// callers can keep classifying with errors.Is.
func remoteError(err error) error {
	if err == nil {
		return nil
	}
	var serverErr rpc.ServerError
	if !errors.As(err, &serverErr) {
		if connectionLost(err) {
			return fmt.Errorf("%w: %w", ErrDaemonStopped, err)
		}
		return err
	}
	msg := string(serverErr)
	if msg == ErrDaemonStopped.Error() {
		return ErrDaemonStopped
	}
	for _, marker := range []error{
		services.ErrNotFound,
		services.ErrInvalidTransition,
		services.ErrValidation,
		services.ErrConfiguration,
		services.ErrExternalService,
		services.ErrTransient,
	} {
		if strings.HasPrefix(msg, marker.Error()+":") || msg == marker.Error() {
			return &RemoteError{Message: msg, marker: marker}
		}
	}
	return &RemoteError{Message: msg}
}

// RemoteError is an error returned by the daemon.
type RemoteError struct {
	Message string
	marker  error
}

func (e *RemoteError) Error() string { return e.Message }

func (e *RemoteError) Unwrap() error { return e.marker }

// Status retrieves the daemon status.
func (c *Client) Status(ctx context.Context) (*StatusResponse, error) {
	var resp StatusResponse
	if err := c.call(ctx, "Status", StatusRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// List returns the ranked queue, or one user's requests when userID is set.
func (c *Client) List(ctx context.Context, userID string) (*ListResponse, error) {
	var resp ListResponse
	if err := c.call(ctx, "List", ListRequest{UserID: userID}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Describe returns a single request.
func (c *Client) Describe(ctx context.Context, id string) (*RequestItem, error) {
	var resp ItemResponse
	if err := c.call(ctx, "Describe", DescribeRequest{ID: id}, &resp); err != nil {
		return nil, err
	}
	return &resp.Item, nil
}

// Submit adds a new pending request.
func (c *Client) Submit(ctx context.Context, req SubmitRequest) (*RequestItem, error) {
	var resp ItemResponse
	if err := c.call(ctx, "Submit", req, &resp); err != nil {
		return nil, err
	}
	return &resp.Item, nil
}

// Transition moves a request to a new status.
func (c *Client) Transition(ctx context.Context, id, status string) (*RequestItem, error) {
	var resp ItemResponse
	if err := c.call(ctx, "Transition", TransitionRequest{ID: id, Status: status}, &resp); err != nil {
		return nil, err
	}
	return &resp.Item, nil
}

// Clear removes every request.
func (c *Client) Clear(ctx context.Context) (*ClearResponse, error) {
	var resp ClearResponse
	if err := c.call(ctx, "Clear", ClearRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Preferences returns the DJ preference lists.
func (c *Client) Preferences(ctx context.Context) (*Preferences, error) {
	var resp Preferences
	if err := c.call(ctx, "Preferences", PreferencesRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// AddTag adds a preference tag.
func (c *Client) AddTag(ctx context.Context, tag string) (*TagResponse, error) {
	var resp TagResponse
	if err := c.call(ctx, "AddTag", TagRequest{Tag: tag}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// RemoveTag removes a preference tag from every list.
func (c *Client) RemoveTag(ctx context.Context, tag string) (*TagResponse, error) {
	var resp TagResponse
	if err := c.call(ctx, "RemoveTag", TagRequest{Tag: tag}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Shoutout generates an announcement line for a request.
func (c *Client) Shoutout(ctx context.Context, id string) (*ShoutoutResponse, error) {
	var resp ShoutoutResponse
	if err := c.call(ctx, "Shoutout", ShoutoutRequest{ID: id}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Events returns change events after req.Since, optionally waiting for new
// ones when req.Follow is set.
func (c *Client) Events(ctx context.Context, req EventsRequest) (*EventsResponse, error) {
	var resp EventsResponse
	if err := c.call(ctx, "Events", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// TestNotification asks the daemon to send a test push.
func (c *Client) TestNotification(ctx context.Context) (*TestNotificationResponse, error) {
	var resp TestNotificationResponse
	if err := c.call(ctx, "TestNotification", TestNotificationRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Stop asks the daemon process to shut down. A connection dropped by the
// shutdown it started still counts as acknowledged.
func (c *Client) Stop(ctx context.Context) (*StopResponse, error) {
	var resp StopResponse
	if err := c.call(ctx, "Stop", StopRequest{}, &resp); err != nil {
		if errors.Is(err, ErrDaemonStopped) {
			return &StopResponse{Stopping: true}, nil
		}
		return nil, err
	}
	return &resp, nil
}
