package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"syscall"

	"github.com/spf13/cobra"

	"vibeline/internal/api"
	"vibeline/internal/config"
	"vibeline/internal/ipc"
	"vibeline/internal/kv"
	"vibeline/internal/logging"
	"vibeline/internal/queue"
	"vibeline/internal/services/shoutout"
)

type commandContext struct {
	socketFlag *string
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configPath string
	configErr  error
}

func newCommandContext(socketFlag, configFlag *string) *commandContext {
	return &commandContext{
		socketFlag: socketFlag,
		configFlag: configFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, resolved, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
		c.configPath = resolved
	})
	return c.config, c.configErr
}

func (c *commandContext) configValue() *config.Config {
	cfg, _ := c.ensureConfig()
	return cfg
}

func (c *commandContext) socketPath() string {
	if c.socketFlag != nil && strings.TrimSpace(*c.socketFlag) != "" {
		return strings.TrimSpace(*c.socketFlag)
	}
	if cfg := c.configValue(); cfg != nil {
		return cfg.SocketPath()
	}
	return ""
}

func (c *commandContext) withClient(fn func(*ipc.Client) error) error {
	socket := c.socketPath()
	client, err := ipc.Dial(socket)
	if err != nil {
		return wrapDialError(err, socket)
	}
	defer client.Close()
	return fn(client)
}

// queueBackend is the set of queue operations commands need. *ipc.Client
// implements it against a running daemon; directBackend implements it against
// the store itself.
type queueBackend interface {
	List(ctx context.Context, userID string) (*api.ListResponse, error)
	Describe(ctx context.Context, id string) (*api.RequestItem, error)
	Submit(ctx context.Context, req api.SubmitRequest) (*api.RequestItem, error)
	Transition(ctx context.Context, id, status string) (*api.RequestItem, error)
	Clear(ctx context.Context) (*api.ClearResponse, error)
	Preferences(ctx context.Context) (*api.Preferences, error)
	AddTag(ctx context.Context, tag string) (*api.TagResponse, error)
	RemoveTag(ctx context.Context, tag string) (*api.TagResponse, error)
	Shoutout(ctx context.Context, id string) (*api.ShoutoutResponse, error)
}

// withBackend runs fn against the daemon when it answers, and otherwise
// against the configured store directly. The memory backend has nothing to
// open offline, so it requires the daemon.
func (c *commandContext) withBackend(cmd *cobra.Command, fn func(queueBackend) error) error {
	socket := c.socketPath()
	client, dialErr := ipc.Dial(socket)
	if dialErr == nil {
		defer client.Close()
		return fn(client)
	}

	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	if cfg.Storage.Backend == config.BackendMemory {
		return wrapDialError(dialErr, socket)
	}
	store, err := kv.Open(cmd.Context(), cfg)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer store.Close()

	logger := logging.NewNop()
	service := api.NewQueueService(queue.Open(store, logger), shoutout.NewFromConfig(cfg, logger))
	return fn(directBackend{service: service})
}

func wrapDialError(err error, socket string) error {
	switch {
	case errors.Is(err, syscall.ENOENT) || os.IsNotExist(err):
		return fmt.Errorf("connect to daemon: socket %s not found; start the daemon with `vibeline start`", socket)
	case errors.Is(err, syscall.ECONNREFUSED):
		return fmt.Errorf("connect to daemon: socket %s refused the connection; verify the daemon is running", socket)
	default:
		return fmt.Errorf("connect to daemon: %w", err)
	}
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
