package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains data and log directories.
type Paths struct {
	DataDir string `toml:"data_dir"`
	LogDir  string `toml:"log_dir"`
}

// Server contains the HTTP API, IPC socket, and push channel settings.
type Server struct {
	APIBind        string   `toml:"api_bind"`
	SocketPath     string   `toml:"socket_path"`
	AllowedOrigins []string `toml:"allowed_origins"`
	EventBuffer    int      `toml:"event_buffer"`
	WSPingSeconds  int      `toml:"ws_ping_seconds"`
	// APIToken, when set, is required as a bearer token on the HTTP routes
	// that change DJ state. Listener routes stay open.
	APIToken string `toml:"api_token"`
}

// Storage selects and configures the key-value backend.
type Storage struct {
	Backend        string `toml:"backend"`
	SQLitePath     string `toml:"sqlite_path"`
	ValkeyAddr     string `toml:"valkey_addr"`
	ValkeyPassword string `toml:"valkey_password"`
	ValkeyDB       int    `toml:"valkey_db"`
	PostgresDSN    string `toml:"postgres_dsn"`
	// WatchExternal relays writes made by other processes into the event feed
	// when the backend supports it.
	WatchExternal bool `toml:"watch_external"`
}

// LLM contains chat-completion connection settings.
type LLM struct {
	APIKey         string `toml:"api_key"`
	BaseURL        string `toml:"base_url"`
	Model          string `toml:"model"`
	Referer        string `toml:"referer"`
	Title          string `toml:"title"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// Shoutout controls DJ shout-out generation.
type Shoutout struct {
	Enabled        bool `toml:"enabled"`
	TimeoutSeconds int  `toml:"timeout_seconds"`
}

// Notifications configures ntfy pushes to the DJ's devices.
type Notifications struct {
	// NtfyTopic is the full topic URL, e.g. https://ntfy.sh/my-dj-booth.
	// Empty disables pushes.
	NtfyTopic      string `toml:"ntfy_topic"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
	// BidsOnly limits submission pushes to requests carrying a bid.
	BidsOnly bool `toml:"bids_only"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for vibeline.
type Config struct {
	Paths         Paths         `toml:"paths"`
	Server        Server        `toml:"server"`
	Storage       Storage       `toml:"storage"`
	LLM           LLM           `toml:"llm"`
	Shoutout      Shoutout      `toml:"shoutout"`
	Notifications Notifications `toml:"notifications"`
	Logging       Logging       `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/vibeline/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned
// config has all path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}
	if err := loadDotEnv(filepath.Dir(resolvedPath)); err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}
	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}
	projectPath, err := filepath.Abs("vibeline.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}
	return defaultPath, false, nil
}

// EnsureDirectories creates the data and log directories, plus the parents of
// the sqlite file and IPC socket when they live elsewhere.
func (c *Config) EnsureDirectories() error {
	dirs := []string{c.Paths.DataDir, c.Paths.LogDir, filepath.Dir(c.Server.SocketPath)}
	if c.Storage.Backend == BackendSQLite {
		dirs = append(dirs, filepath.Dir(c.Storage.SQLitePath))
	}
	for _, dir := range dirs {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// SQLitePath returns the sqlite database file location.
func (c *Config) SQLitePath() string {
	return c.Storage.SQLitePath
}

// SocketPath returns the IPC unix socket location.
func (c *Config) SocketPath() string {
	return c.Server.SocketPath
}

// LockPath returns the daemon single-instance lock file.
func (c *Config) LockPath() string {
	return filepath.Join(c.Paths.DataDir, "vibelined.lock")
}

// DaemonLogPath returns the daemon's log file.
func (c *Config) DaemonLogPath() string {
	return filepath.Join(c.Paths.LogDir, "vibelined.log")
}

// ShoutoutTimeout returns the shout-out generation deadline.
func (c *Config) ShoutoutTimeout() time.Duration {
	return time.Duration(c.Shoutout.TimeoutSeconds) * time.Second
}

// NotifyTimeout returns the per-push HTTP deadline.
func (c *Config) NotifyTimeout() time.Duration {
	return time.Duration(c.Notifications.TimeoutSeconds) * time.Second
}

// WSPingInterval returns how often websocket clients are pinged.
func (c *Config) WSPingInterval() time.Duration {
	return time.Duration(c.Server.WSPingSeconds) * time.Second
}

// LLMConfig contains LLM settings in the shape the client consumes.
type LLMConfig struct {
	APIKey         string
	BaseURL        string
	Model          string
	Referer        string
	Title          string
	TimeoutSeconds int
}

// GetLLM returns the LLM connection settings.
func (c *Config) GetLLM() LLMConfig {
	return LLMConfig{
		APIKey:         strings.TrimSpace(c.LLM.APIKey),
		BaseURL:        strings.TrimSpace(c.LLM.BaseURL),
		Model:          strings.TrimSpace(c.LLM.Model),
		Referer:        strings.TrimSpace(c.LLM.Referer),
		Title:          strings.TrimSpace(c.LLM.Title),
		TimeoutSeconds: c.LLM.TimeoutSeconds,
	}
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
