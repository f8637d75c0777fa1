package config

const (
	defaultUploadDir         = "~/.local/share/capforge/uploads"
	defaultStagingDir        = "~/.local/share/capforge/staging"
	defaultLogDir            = "~/.local/share/capforge/logs"
	defaultSocketPath        = "~/.local/share/capforge/capforge.sock"
	defaultScribeBaseURL     = "https://api.assemblyai.com"
	defaultSpeechModel       = "universal"
	defaultPollInterval      = 3
	defaultWordsPerSegment   = 10
	defaultMaxSegmentSeconds = 5.0
	defaultProjectDir        = "~/.local/share/capforge/render-project"
	defaultCompositionID     = "VideoWithCaptions"
	defaultOutputDir         = "~/.local/share/capforge/exports"
	defaultEnvironment       = "development"
	defaultEngineBinary      = "remotion"
	defaultLogFormat         = "console"
	defaultLogLevel          = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			UploadDir:  defaultUploadDir,
			StagingDir: defaultStagingDir,
			LogDir:     defaultLogDir,
			SocketPath: defaultSocketPath,
		},
		Scribe: Scribe{
			BaseURL:           defaultScribeBaseURL,
			SpeechModel:       defaultSpeechModel,
			PollInterval:      defaultPollInterval,
			WordsPerSegment:   defaultWordsPerSegment,
			MaxSegmentSeconds: defaultMaxSegmentSeconds,
		},
		Render: Render{
			ProjectDir:    defaultProjectDir,
			CompositionID: defaultCompositionID,
			OutputDir:     defaultOutputDir,
			Environment:   defaultEnvironment,
			EngineBinary:  defaultEngineBinary,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
