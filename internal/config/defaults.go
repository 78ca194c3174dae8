package config

const (
	defaultDataDir               = "~/.local/share/vibeline"
	defaultLogDir                = "~/.local/share/vibeline/logs"
	defaultAPIBind               = "127.0.0.1:7487"
	defaultEventBuffer           = 1024
	defaultWSPingSeconds         = 30
	defaultBackend               = BackendSQLite
	defaultSQLiteName            = "vibeline.db"
	defaultSocketName            = "vibeline.sock"
	defaultLLMBaseURL            = "https://openrouter.ai/api/v1/chat/completions"
	defaultLLMModel              = "google/gemini-3-flash-preview"
	defaultLLMReferer            = "https://github.com/vibeline/vibeline"
	defaultLLMTitle              = "Vibeline"
	defaultLLMTimeoutSeconds     = 30
	defaultShoutoutEnabled       = true
	defaultShoutoutTimeoutSecond = 15
	defaultNotifyTimeoutSeconds  = 10
	defaultLogFormat             = LogFormatAuto
	defaultLogLevel              = "info"
)

// Storage backends.
const (
	BackendSQLite   = "sqlite"
	BackendMemory   = "memory"
	BackendValkey   = "valkey"
	BackendPostgres = "postgres"
)

// Log formats.
const (
	LogFormatAuto    = "auto"
	LogFormatConsole = "console"
	LogFormatJSON    = "json"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir: defaultDataDir,
			LogDir:  defaultLogDir,
		},
		Server: Server{
			APIBind:       defaultAPIBind,
			EventBuffer:   defaultEventBuffer,
			WSPingSeconds: defaultWSPingSeconds,
		},
		Storage: Storage{
			Backend:       defaultBackend,
			WatchExternal: true,
		},
		LLM: LLM{
			BaseURL:        defaultLLMBaseURL,
			Model:          defaultLLMModel,
			Referer:        defaultLLMReferer,
			Title:          defaultLLMTitle,
			TimeoutSeconds: defaultLLMTimeoutSeconds,
		},
		Shoutout: Shoutout{
			Enabled:        defaultShoutoutEnabled,
			TimeoutSeconds: defaultShoutoutTimeoutSecond,
		},
		Notifications: Notifications{
			TimeoutSeconds: defaultNotifyTimeoutSeconds,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
