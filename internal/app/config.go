package app

import "time"

// Config holds runtime configuration for the application.
type Config struct {
	InputPath     string
	OutputPath    string
	OutputPDFPath string

	// Course framing attached to the output document
	Title       string
	Description string

	// LLM fallback; disabled when LLMModel is empty
	LLMBaseURL   string
	LLMModel     string
	LLMAPIKey    string
	LLMCacheOnly bool

	// Extraction
	Parallel bool
	Timeout  time.Duration

	// Behavior
	DryRun           bool
	Verbose          bool
	CacheDir         string
	CacheMaxAge      time.Duration
	CacheClear       bool
	CacheStrictPerms bool
}

const (
	defaultOutputPath = "questions.json"
	defaultCacheDir   = ".quizextract-cache"
	defaultTimeout    = 30 * time.Second
)

// DefaultConfig returns the values used when nothing else is configured.
func DefaultConfig() Config {
	return Config{
		OutputPath: defaultOutputPath,
		CacheDir:   defaultCacheDir,
		Timeout:    defaultTimeout,
		Parallel:   true,
	}
}
