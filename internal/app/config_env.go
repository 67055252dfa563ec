package app

import (
	"os"
	"strings"
	"time"
)

// ApplyEnvOverrides overwrites cfg with every environment variable that is
// set. It runs after the config file so env beats file while flags, applied
// last by the caller, still win. Empty variables count as unset.
func ApplyEnvOverrides(cfg *Config) {
	if cfg == nil {
		return
	}
	setString := func(dst *string, key string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	setString(&cfg.InputPath, "QUIZ_INPUT")
	setString(&cfg.OutputPath, "QUIZ_OUTPUT")
	setString(&cfg.OutputPDFPath, "QUIZ_OUTPUT_PDF")
	setString(&cfg.Title, "COURSE_TITLE")
	setString(&cfg.Description, "COURSE_DESCRIPTION")
	setString(&cfg.LLMBaseURL, "LLM_BASE_URL")
	setString(&cfg.LLMModel, "LLM_MODEL")
	setString(&cfg.LLMAPIKey, "LLM_API_KEY")
	setString(&cfg.CacheDir, "CACHE_DIR")

	setDuration := func(dst *time.Duration, key string) {
		if d, err := time.ParseDuration(strings.TrimSpace(os.Getenv(key))); err == nil {
			*dst = d
		}
	}
	setDuration(&cfg.CacheMaxAge, "CACHE_MAX_AGE")
	setDuration(&cfg.Timeout, "EXTRACT_TIMEOUT")

	setBool := func(dst *bool, key string) {
		if v, ok := parseBool(os.Getenv(key)); ok {
			*dst = v
		}
	}
	setBool(&cfg.DryRun, "DRY_RUN")
	setBool(&cfg.Verbose, "VERBOSE")
	setBool(&cfg.Parallel, "EXTRACT_PARALLEL")
	setBool(&cfg.CacheClear, "CACHE_CLEAR")
	setBool(&cfg.CacheStrictPerms, "CACHE_STRICT_PERMS")
	setBool(&cfg.LLMCacheOnly, "LLM_CACHE_ONLY")
}

func parseBool(s string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "yes", "on":
		return true, true
	case "0", "false", "no", "off":
		return false, true
	}
	return false, false
}
