package config

const (
	defaultDatabasePath = "~/.local/share/parchive/parchive.db"
	defaultDownloadDir  = "downloads"
	defaultLogDir       = "~/.local/share/parchive/logs"

	defaultUserAgent       = "parchive/1.0"
	defaultAudioTimeout    = 60
	defaultImageTimeout    = 30
	defaultFeedTimeout     = 30
	defaultDownloadRetries = 3

	defaultAnalysisBaseURL        = "http://localhost:12434/engines/v1/chat/completions"
	defaultAnalysisModel          = "llama3-70b"
	defaultAnalysisTimeoutSeconds = 60

	defaultLogFormat = "console"
	defaultLogLevel  = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DatabasePath: defaultDatabasePath,
			DownloadDir:  defaultDownloadDir,
			LogDir:       defaultLogDir,
		},
		Network: Network{
			UserAgent:       defaultUserAgent,
			AudioTimeout:    defaultAudioTimeout,
			ImageTimeout:    defaultImageTimeout,
			FeedTimeout:     defaultFeedTimeout,
			DownloadRetries: defaultDownloadRetries,
		},
		Analysis: Analysis{
			Enabled:        false,
			BaseURL:        defaultAnalysisBaseURL,
			Model:          defaultAnalysisModel,
			TimeoutSeconds: defaultAnalysisTimeoutSeconds,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
