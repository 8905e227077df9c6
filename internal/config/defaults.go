package config

const (
	defaultDataDir           = "~/.local/share/gameboxd"
	defaultLogDir            = "~/.local/share/gameboxd/logs"
	defaultRAWGBaseURL       = "https://api.rawg.io/api"
	defaultRAWGMediaHost     = "https://media.rawg.io"
	defaultRequestsPerSecond = 2.0
	defaultCacheTTLSeconds   = 3600
	defaultServerBind        = "127.0.0.1:8485"
	defaultSessionTTLHours   = 24
	defaultLogFormat         = "console"
	defaultLogLevel          = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir: defaultDataDir,
			LogDir:  defaultLogDir,
		},
		RAWG: RAWG{
			BaseURL:           defaultRAWGBaseURL,
			MediaHost:         defaultRAWGMediaHost,
			RequestsPerSecond: defaultRequestsPerSecond,
		},
		Cache: Cache{
			TTLSeconds: defaultCacheTTLSeconds,
		},
		Server: Server{
			Bind:            defaultServerBind,
			SessionTTLHours: defaultSessionTTLHours,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
