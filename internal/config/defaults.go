package config

const (
	defaultConfigPath             = "~/.config/moviebuddy/config.toml"
	defaultDataDir                = "~/.local/share/moviebuddy"
	defaultLogDir                 = "~/.local/share/moviebuddy/logs"
	defaultAPIBind                = "127.0.0.1:8501"
	defaultTitlesFile             = "movie_dict.json"
	defaultSimilarityFile         = "similarity.json"
	defaultDatabaseFile           = "artifacts.db"
	defaultOMDbBaseURL            = "http://www.omdbapi.com/"
	defaultOMDbTimeoutSeconds     = 8
	defaultOMDbRequestsPerSecond  = 10
	defaultOMDbBurst              = 5
	defaultBreakerFailures        = 5
	defaultBreakerCooldownSeconds = 30
	defaultNoPosterURL            = "https://placehold.co/150x220/000000/FFFFFF?text=No+Poster"
	defaultErrorPosterURL         = "https://placehold.co/150x220/000000/FFFFFF?text=API+Error"
	defaultRecommendCount         = 10
	defaultFetchWorkers           = 4
	defaultSuggestions            = 5
	defaultLogFormat              = "console"
	defaultLogLevel               = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir: defaultDataDir,
			LogDir:  defaultLogDir,
			APIBind: defaultAPIBind,
		},
		Artifacts: Artifacts{
			Source:         SourceFiles,
			TitlesFile:     defaultTitlesFile,
			SimilarityFile: defaultSimilarityFile,
			DatabaseFile:   defaultDatabaseFile,
		},
		OMDb: OMDb{
			BaseURL:                defaultOMDbBaseURL,
			TimeoutSeconds:         defaultOMDbTimeoutSeconds,
			RequestsPerSecond:      defaultOMDbRequestsPerSecond,
			Burst:                  defaultOMDbBurst,
			BreakerFailures:        defaultBreakerFailures,
			BreakerCooldownSeconds: defaultBreakerCooldownSeconds,
			NoPosterURL:            defaultNoPosterURL,
			ErrorPosterURL:         defaultErrorPosterURL,
		},
		Recommend: Recommend{
			Count:        defaultRecommendCount,
			FetchWorkers: defaultFetchWorkers,
			Suggestions:  defaultSuggestions,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
