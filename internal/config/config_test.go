package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pelletier/go-toml/v2"

	"vibeline/internal/config"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, name := range []string{"VIBELINE_LLM_API_KEY", "API_KEY", "VIBELINE_VALKEY_ADDR", "VIBELINE_POSTGRES_DSN", "DATABASE_URL", "VIBELINE_API_TOKEN", "VIBELINE_NTFY_TOPIC"} {
		t.Setenv(name, "")
	}
}

func TestLoadDefaultConfigExpandsPaths(t *testing.T) {
	clearEnv(t)
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Chdir(t.TempDir())

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}
	if resolved != filepath.Join(tempHome, ".config", "vibeline", "config.toml") {
		t.Fatalf("unexpected resolved path %q", resolved)
	}

	wantData := filepath.Join(tempHome, ".local", "share", "vibeline")
	if cfg.Paths.DataDir != wantData {
		t.Fatalf("unexpected data dir: got %q want %q", cfg.Paths.DataDir, wantData)
	}
	if cfg.Storage.Backend != config.BackendSQLite {
		t.Fatalf("expected sqlite backend, got %q", cfg.Storage.Backend)
	}
	if cfg.SQLitePath() != filepath.Join(wantData, "vibeline.db") {
		t.Fatalf("unexpected sqlite path %q", cfg.SQLitePath())
	}
	if cfg.SocketPath() != filepath.Join(wantData, "vibeline.sock") {
		t.Fatalf("unexpected socket path %q", cfg.SocketPath())
	}
	if cfg.LockPath() != filepath.Join(wantData, "vibelined.lock") {
		t.Fatalf("unexpected lock path %q", cfg.LockPath())
	}
	if cfg.Server.APIBind != "127.0.0.1:7487" {
		t.Fatalf("unexpected api bind: %q", cfg.Server.APIBind)
	}
	if cfg.Server.EventBuffer != 1024 || cfg.WSPingInterval() != 30*time.Second {
		t.Fatalf("unexpected server defaults: %+v", cfg.Server)
	}
	if !cfg.Shoutout.Enabled || cfg.ShoutoutTimeout() != 15*time.Second {
		t.Fatalf("unexpected shoutout defaults: %+v", cfg.Shoutout)
	}
	if cfg.Logging.Format != config.LogFormatAuto {
		t.Fatalf("unexpected log format %q", cfg.Logging.Format)
	}

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories failed: %v", err)
	}
	for _, dir := range []string{cfg.Paths.DataDir, cfg.Paths.LogDir} {
		info, err := os.Stat(dir)
		if err != nil || !info.IsDir() {
			t.Fatalf("expected directory %q to exist: %v", dir, err)
		}
	}
}

func TestLoadCustomPath(t *testing.T) {
	clearEnv(t)
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "vibeline.toml")

	type payload struct {
		Paths struct {
			DataDir string `toml:"data_dir"`
		} `toml:"paths"`
		Server struct {
			APIBind        string   `toml:"api_bind"`
			AllowedOrigins []string `toml:"allowed_origins"`
		} `toml:"server"`
		Storage struct {
			Backend string `toml:"backend"`
		} `toml:"storage"`
		Logging struct {
			Format string `toml:"format"`
		} `toml:"logging"`
	}
	custom := payload{}
	custom.Paths.DataDir = filepath.Join(tempDir, "data")
	custom.Server.APIBind = "0.0.0.0:9000"
	custom.Server.AllowedOrigins = []string{" https://club.example/ ", ""}
	custom.Storage.Backend = "Memory"
	custom.Logging.Format = "JSON"
	data, err := toml.Marshal(custom)
	if err != nil {
		t.Fatalf("marshal custom config: %v", err)
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		t.Fatalf("write custom config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists || resolved != configPath {
		t.Fatalf("unexpected resolution %q %v", resolved, exists)
	}
	if cfg.Server.APIBind != "0.0.0.0:9000" {
		t.Fatalf("unexpected api bind %q", cfg.Server.APIBind)
	}
	if len(cfg.Server.AllowedOrigins) != 1 || cfg.Server.AllowedOrigins[0] != "https://club.example" {
		t.Fatalf("unexpected origins %v", cfg.Server.AllowedOrigins)
	}
	if cfg.Storage.Backend != config.BackendMemory || cfg.Logging.Format != config.LogFormatJSON {
		t.Fatalf("expected normalized enums, got %q %q", cfg.Storage.Backend, cfg.Logging.Format)
	}
	if cfg.SocketPath() != filepath.Join(tempDir, "data", "vibeline.sock") {
		t.Fatalf("socket path should follow data_dir, got %q", cfg.SocketPath())
	}
}

func TestEnvFallbacks(t *testing.T) {
	clearEnv(t)
	t.Setenv("HOME", t.TempDir())
	t.Chdir(t.TempDir())
	t.Setenv("API_KEY", "legacy-key")
	t.Setenv("DATABASE_URL", "postgres://u:p@localhost/vibeline")
	t.Setenv("VIBELINE_VALKEY_ADDR", "127.0.0.1:6379")
	t.Setenv("VIBELINE_API_TOKEN", " dj-secret ")
	t.Setenv("VIBELINE_NTFY_TOPIC", "https://ntfy.sh/booth")

	cfg, _, _, err := config.Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.LLM.APIKey != "legacy-key" {
		t.Fatalf("expected API_KEY fallback, got %q", cfg.LLM.APIKey)
	}
	if cfg.Storage.PostgresDSN != "postgres://u:p@localhost/vibeline" {
		t.Fatalf("expected DATABASE_URL fallback, got %q", cfg.Storage.PostgresDSN)
	}
	if cfg.Storage.ValkeyAddr != "127.0.0.1:6379" {
		t.Fatalf("expected valkey env, got %q", cfg.Storage.ValkeyAddr)
	}
	if cfg.Server.APIToken != "dj-secret" {
		t.Fatalf("expected trimmed api token from env, got %q", cfg.Server.APIToken)
	}
	if cfg.Notifications.NtfyTopic != "https://ntfy.sh/booth" || cfg.NotifyTimeout() != 10*time.Second {
		t.Fatalf("unexpected notifications %+v", cfg.Notifications)
	}

	t.Setenv("VIBELINE_LLM_API_KEY", "preferred-key")
	cfg, _, _, err = config.Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.LLM.APIKey != "preferred-key" {
		t.Fatalf("expected VIBELINE_LLM_API_KEY to win over API_KEY, got %q", cfg.LLM.APIKey)
	}
}

func TestDotEnvNextToConfig(t *testing.T) {
	clearEnv(t)
	t.Chdir(t.TempDir())
	dir := t.TempDir()
	configPath := filepath.Join(dir, "vibeline.toml")
	if err := os.WriteFile(configPath, []byte("[storage]\nbackend = \"memory\"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("VIBELINE_LLM_API_KEY=from-dotenv\n"), 0o644); err != nil {
		t.Fatalf("write .env: %v", err)
	}
	os.Unsetenv("VIBELINE_LLM_API_KEY")
	t.Cleanup(func() { os.Unsetenv("VIBELINE_LLM_API_KEY") })

	cfg, _, _, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.LLM.APIKey != "from-dotenv" {
		t.Fatalf("expected key from .env, got %q", cfg.LLM.APIKey)
	}
}

func TestValidateErrors(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*config.Config)
		want   string
	}{
		{"backend", func(c *config.Config) { c.Storage.Backend = "mongo" }, "storage.backend"},
		{"valkey addr", func(c *config.Config) { c.Storage.Backend = config.BackendValkey }, "storage.valkey_addr"},
		{"postgres dsn", func(c *config.Config) { c.Storage.Backend = config.BackendPostgres }, "storage.postgres_dsn"},
		{"postgres scheme", func(c *config.Config) {
			c.Storage.Backend = config.BackendPostgres
			c.Storage.PostgresDSN = "host=localhost dbname=x"
		}, "postgres:// URL"},
		{"api bind", func(c *config.Config) { c.Server.APIBind = "nope" }, "server.api_bind"},
		{"event buffer", func(c *config.Config) { c.Server.EventBuffer = -1 }, "server.event_buffer"},
		{"origins", func(c *config.Config) { c.Server.AllowedOrigins = []string{"club.example"} }, "server.allowed_origins"},
		{"log format", func(c *config.Config) { c.Logging.Format = "xml" }, "logging.format"},
		{"log level", func(c *config.Config) { c.Logging.Level = "loud" }, "logging.level"},
		{"shoutout timeout", func(c *config.Config) { c.Shoutout.TimeoutSeconds = -5 }, "shoutout.timeout_seconds"},
		{"ntfy topic", func(c *config.Config) { c.Notifications.NtfyTopic = "my-topic" }, "notifications.ntfy_topic"},
		{"notify timeout", func(c *config.Config) { c.Notifications.TimeoutSeconds = 0 }, "notifications.timeout_seconds"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := config.Default()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected error mentioning %q, got %v", tc.want, err)
			}
		})
	}
	cfg := config.Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
}

func TestCreateSampleLoads(t *testing.T) {
	clearEnv(t)
	t.Chdir(t.TempDir())
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample: %v", err)
	}
	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("sample config should load: %v", err)
	}
	if !exists || cfg.Storage.Backend != config.BackendSQLite {
		t.Fatalf("unexpected sample config: exists=%v backend=%q", exists, cfg.Storage.Backend)
	}
}
