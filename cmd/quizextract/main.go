package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/quizextract/internal/app"
	"github.com/hyperifyio/quizextract/internal/extract"
)

func main() {
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	cfg, err := parseConfig(os.Args[1:], os.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		log.Error().Err(err).Msg("invalid configuration")
		os.Exit(1)
	}
	if cfg.Verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	if err := run(cfg); err != nil {
		log.Error().Err(err).Msg("run failed")
		os.Exit(exitCode(err))
	}
}

// exitCode maps the two fatal extraction outcomes to 2 and anything else
// to 1.
func exitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, extract.ErrNoTextExtracted), errors.Is(err, extract.ErrNoQuestionsFound):
		return 2
	}
	return 1
}

// parseConfig resolves configuration with precedence flags > env > file >
// defaults. Dotenv files are loaded into the environment first.
func parseConfig(args []string, stderr io.Writer) (app.Config, error) {
	fs := flag.NewFlagSet("quizextract", flag.ContinueOnError)
	fs.SetOutput(stderr)

	def := app.DefaultConfig()
	flagCfg := def
	var (
		configPath  string
		envFiles    string
		showVersion bool
	)
	fs.BoolVar(&showVersion, "version", false, "Print version and exit")
	fs.StringVar(&configPath, "config", "", "Path to a YAML or JSON config file")
	fs.StringVar(&envFiles, "env", ".env", "Comma-separated dotenv files to load")
	fs.StringVar(&flagCfg.InputPath, "input", "", "Exam document to read (.pdf, .html or .txt)")
	fs.StringVar(&flagCfg.OutputPath, "output", def.OutputPath, "Path to write the course JSON")
	fs.StringVar(&flagCfg.OutputPDFPath, "output.pdf", "", "Optional path for a printable review sheet")
	fs.StringVar(&flagCfg.Title, "title", "", "Course title (defaults to the document title or file name)")
	fs.StringVar(&flagCfg.Description, "description", "", "Course description")
	fs.StringVar(&flagCfg.LLMBaseURL, "llm.base", "", "OpenAI-compatible base URL for the structuring fallback")
	fs.StringVar(&flagCfg.LLMModel, "llm.model", "", "Model for the structuring fallback; empty disables it")
	fs.StringVar(&flagCfg.LLMAPIKey, "llm.key", "", "API key for the OpenAI-compatible server")
	fs.BoolVar(&flagCfg.LLMCacheOnly, "llm.cacheOnly", false, "Serve the fallback from cache only")
	fs.BoolVar(&flagCfg.Parallel, "parallel", def.Parallel, "Run strategies concurrently")
	fs.DurationVar(&flagCfg.Timeout, "timeout", def.Timeout, "Deadline for one extraction; 0 disables")
	fs.BoolVar(&flagCfg.DryRun, "dry-run", false, "Extract and print per-strategy counts without writing")
	fs.BoolVar(&flagCfg.Verbose, "v", false, "Verbose logging")
	fs.StringVar(&flagCfg.CacheDir, "cache.dir", def.CacheDir, "Cache directory path")
	fs.DurationVar(&flagCfg.CacheMaxAge, "cache.maxAge", 0, "Purge cache entries older than this; 0 disables")
	fs.BoolVar(&flagCfg.CacheClear, "cache.clear", false, "Clear cache directory before run")
	fs.BoolVar(&flagCfg.CacheStrictPerms, "cache.strictPerms", false, "Restrict cache permissions (0700 dirs, 0600 files)")
	if err := fs.Parse(args); err != nil {
		return app.Config{}, err
	}
	if showVersion {
		fmt.Fprintln(stderr, app.VersionString())
		return app.Config{}, flag.ErrHelp
	}
	if flagCfg.InputPath == "" && fs.NArg() > 0 {
		flagCfg.InputPath = fs.Arg(0)
	}

	if err := app.LoadEnvFiles(splitList(envFiles)...); err != nil {
		return app.Config{}, fmt.Errorf("load env files: %w", err)
	}

	cfg := def
	if configPath != "" {
		fc, err := app.LoadConfigFile(configPath)
		if err != nil {
			return app.Config{}, fmt.Errorf("load config file: %w", err)
		}
		app.ApplyFileConfig(&cfg, fc)
	}
	app.ApplyEnvOverrides(&cfg)

	set := map[string]bool{}
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
	if flagCfg.InputPath != "" {
		set["input"] = true
	}
	overlayFlags(&cfg, flagCfg, set)
	return cfg, app.ValidateConfig(cfg)
}

// overlayFlags copies every explicitly set flag into cfg.
func overlayFlags(cfg *app.Config, f app.Config, set map[string]bool) {
	apply := map[string]func(){
		"input":             func() { cfg.InputPath = f.InputPath },
		"output":            func() { cfg.OutputPath = f.OutputPath },
		"output.pdf":        func() { cfg.OutputPDFPath = f.OutputPDFPath },
		"title":             func() { cfg.Title = f.Title },
		"description":       func() { cfg.Description = f.Description },
		"llm.base":          func() { cfg.LLMBaseURL = f.LLMBaseURL },
		"llm.model":         func() { cfg.LLMModel = f.LLMModel },
		"llm.key":           func() { cfg.LLMAPIKey = f.LLMAPIKey },
		"llm.cacheOnly":     func() { cfg.LLMCacheOnly = f.LLMCacheOnly },
		"parallel":          func() { cfg.Parallel = f.Parallel },
		"timeout":           func() { cfg.Timeout = f.Timeout },
		"dry-run":           func() { cfg.DryRun = f.DryRun },
		"v":                 func() { cfg.Verbose = f.Verbose },
		"cache.dir":         func() { cfg.CacheDir = f.CacheDir },
		"cache.maxAge":      func() { cfg.CacheMaxAge = f.CacheMaxAge },
		"cache.clear":       func() { cfg.CacheClear = f.CacheClear },
		"cache.strictPerms": func() { cfg.CacheStrictPerms = f.CacheStrictPerms },
	}
	for name := range set {
		if fn, ok := apply[name]; ok {
			fn()
		}
	}
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if v := strings.TrimSpace(p); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func run(cfg app.Config) error {
	ctx := context.Background()

	a, err := app.New(ctx, cfg)
	if err != nil {
		return fmt.Errorf("init app: %w", err)
	}
	defer a.Close()

	return a.Run(ctx)
}
