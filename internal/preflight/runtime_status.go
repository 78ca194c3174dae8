package preflight

import (
	"net"
	"net/url"
	"time"

	"vibeline/internal/config"
)

// CheckShoutoutsFromConfig describes how shout-outs will be produced without
// contacting the LLM.
func CheckShoutoutsFromConfig(cfg *config.Config) Result {
	const name = "Shout-outs"

	if cfg == nil {
		return Result{Name: name, Detail: "Unknown"}
	}
	if !cfg.Shoutout.Enabled {
		return Result{Name: name, Passed: true, Detail: "Disabled (fallback lines)"}
	}
	if cfg.GetLLM().APIKey == "" {
		return Result{Name: name, Detail: "Missing API key (fallback lines)"}
	}
	return Result{Name: name, Passed: true, Detail: "Enabled"}
}

// CheckNotificationsFromConfig reports where push notifications go.
func CheckNotificationsFromConfig(cfg *config.Config) Result {
	const name = "Notifications"
	if cfg == nil || cfg.Notifications.NtfyTopic == "" {
		return Result{Name: name, Passed: true, Detail: "Disabled"}
	}
	detail := "ntfy"
	if u, err := url.Parse(cfg.Notifications.NtfyTopic); err == nil && u.Host != "" {
		detail += " via " + u.Host
	}
	if cfg.Notifications.BidsOnly {
		detail += " (bids only)"
	}
	return Result{Name: name, Passed: true, Detail: detail}
}

// CheckDaemonSocket reports whether a daemon is accepting connections on the
// IPC socket.
func CheckDaemonSocket(path string) Result {
	const name = "Daemon"

	conn, err := net.DialTimeout("unix", path, time.Second)
	if err != nil {
		return Result{Name: name, Detail: "Not running"}
	}
	_ = conn.Close()
	return Result{Name: name, Passed: true, Detail: "Listening on " + path}
}
