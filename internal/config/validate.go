package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"slices"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return err
	}
	if err := c.validateStorage(); err != nil {
		return err
	}
	if err := c.validateLLM(); err != nil {
		return err
	}
	if err := c.validateNotifications(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateServer() error {
	if _, _, err := net.SplitHostPort(c.Server.APIBind); err != nil {
		return fmt.Errorf("server.api_bind must be host:port: %w", err)
	}
	if c.Server.EventBuffer < 1 {
		return errors.New("server.event_buffer must be positive")
	}
	if c.Server.WSPingSeconds < 1 {
		return errors.New("server.ws_ping_seconds must be positive")
	}
	for _, origin := range c.Server.AllowedOrigins {
		if origin == "*" {
			continue
		}
		parsed, err := url.Parse(origin)
		if err != nil || parsed.Scheme == "" || parsed.Host == "" {
			return fmt.Errorf("server.allowed_origins must contain scheme://host origins or *, got %q", origin)
		}
	}
	return nil
}

func (c *Config) validateStorage() error {
	backends := []string{BackendSQLite, BackendMemory, BackendValkey, BackendPostgres}
	if !slices.Contains(backends, c.Storage.Backend) {
		return fmt.Errorf("storage.backend must be one of %v, got %q", backends, c.Storage.Backend)
	}
	switch c.Storage.Backend {
	case BackendValkey:
		if c.Storage.ValkeyAddr == "" {
			return errors.New("storage.valkey_addr must be set when storage.backend is valkey (or set VIBELINE_VALKEY_ADDR)")
		}
		if c.Storage.ValkeyDB < 0 {
			return errors.New("storage.valkey_db must be non-negative")
		}
	case BackendPostgres:
		if c.Storage.PostgresDSN == "" {
			return errors.New("storage.postgres_dsn must be set when storage.backend is postgres (or set VIBELINE_POSTGRES_DSN)")
		}
		parsed, err := url.Parse(c.Storage.PostgresDSN)
		if err != nil || (parsed.Scheme != "postgres" && parsed.Scheme != "postgresql") {
			return errors.New("storage.postgres_dsn must be a postgres:// URL")
		}
	}
	return nil
}

func (c *Config) validateLLM() error {
	if c.LLM.TimeoutSeconds < 1 {
		return errors.New("llm.timeout_seconds must be positive")
	}
	if c.Shoutout.TimeoutSeconds < 1 {
		return errors.New("shoutout.timeout_seconds must be positive")
	}
	if _, err := url.ParseRequestURI(c.LLM.BaseURL); err != nil {
		return fmt.Errorf("llm.base_url must be an absolute URL: %w", err)
	}
	return nil
}

func (c *Config) validateNotifications() error {
	if c.Notifications.TimeoutSeconds < 1 {
		return errors.New("notifications.timeout_seconds must be positive")
	}
	if c.Notifications.NtfyTopic == "" {
		return nil
	}
	parsed, err := url.Parse(c.Notifications.NtfyTopic)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		return fmt.Errorf("notifications.ntfy_topic must be an http(s) topic URL, got %q", c.Notifications.NtfyTopic)
	}
	return nil
}

func (c *Config) validateLogging() error {
	formats := []string{LogFormatAuto, LogFormatConsole, LogFormatJSON}
	if !slices.Contains(formats, c.Logging.Format) {
		return fmt.Errorf("logging.format must be one of %v, got %q", formats, c.Logging.Format)
	}
	levels := []string{"debug", "info", "warn", "warning", "error"}
	if !slices.Contains(levels, c.Logging.Level) {
		return fmt.Errorf("logging.level must be one of debug, info, warn, error, got %q", c.Logging.Level)
	}
	return nil
}
