package config

const (
	defaultStagingDir = "~/.local/share/rats/staging"
	defaultLogDir     = "~/.local/share/rats/logs"
	defaultNumRenders = 25
	defaultOiiotool   = "oiiotool"
	defaultLogFormat  = "console"
	defaultLogLevel   = "info"
	defaultRunLogPath = "~/.local/share/rats/runs.db"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			StagingDir: defaultStagingDir,
			LogDir:     defaultLogDir,
		},
		Update: Update{
			NumRenders: defaultNumRenders,
			Oiiotool:   defaultOiiotool,
		},
		Logging: Logging{
			Level:  defaultLogLevel,
			Format: defaultLogFormat,
		},
		RunLog: RunLog{
			Enabled: true,
			Path:    defaultRunLogPath,
		},
	}
}
