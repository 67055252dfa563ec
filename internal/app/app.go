package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"sort"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/quizextract/internal/cache"
	"github.com/hyperifyio/quizextract/internal/dispatch"
	"github.com/hyperifyio/quizextract/internal/extract"
	"github.com/hyperifyio/quizextract/internal/llm"
	"github.com/hyperifyio/quizextract/internal/llmparse"
	"github.com/hyperifyio/quizextract/internal/quiz"
	"github.com/hyperifyio/quizextract/internal/source"
)

// ErrTimeout is returned when extraction does not finish within
// Config.Timeout. No partial result is kept.
var ErrTimeout = errors.New("extraction deadline exceeded")

type App struct {
	cfg       Config
	extractor extract.Extractor
	parser    llmparse.Parser
	hc        *http.Client
	out       io.Writer
	now       func() time.Time
}

// reporter is implemented by extractors that also return per-strategy counts.
type reporter interface {
	ExtractReport(pages []quiz.RawPage) (quiz.Result, dispatch.Report, error)
}

func New(ctx context.Context, cfg Config) (*App, error) {
	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}
	a := &App{
		cfg:       cfg,
		extractor: extract.New(cfg.Parallel),
		out:       os.Stdout,
		now:       time.Now,
	}

	var store *cache.Store
	if cfg.CacheDir != "" {
		if cfg.CacheClear {
			if err := cache.Clear(cfg.CacheDir); err != nil {
				log.Warn().Err(err).Str("dir", cfg.CacheDir).Msg("cache clear failed")
			}
		}
		if cfg.CacheMaxAge > 0 {
			if n, err := cache.PurgeOlderThan(cfg.CacheDir, cfg.CacheMaxAge); err != nil {
				log.Warn().Err(err).Msg("cache purge failed")
			} else if n > 0 {
				log.Info().Int("removed", n).Msg("purged stale cache entries")
			}
		}
		store = &cache.Store{Dir: cfg.CacheDir, StrictPerms: cfg.CacheStrictPerms}
	}

	if cfg.LLMModel != "" {
		a.hc = newLLMHTTPClient()
		provider := llm.NewOpenAI(cfg.LLMBaseURL, cfg.LLMAPIKey, a.hc)
		a.parser = &llmparse.LLMParser{
			Client:    provider,
			Model:     cfg.LLMModel,
			Cache:     store,
			CacheOnly: cfg.LLMCacheOnly,
			Verbose:   cfg.Verbose,
		}
		if !cfg.LLMCacheOnly && !cfg.DryRun {
			preflight(ctx, provider)
		}
	}
	return a, nil
}

// preflight lists models as a best-effort connectivity check.
func preflight(ctx context.Context, l llm.ModelLister) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	models, err := l.ListModels(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("LLM model list failed; continuing")
		return
	}
	log.Info().Int("count", len(models.Models)).Msg("LLM models available")
}

// Close drops idle connections of the LLM client.
func (a *App) Close() {
	if a.hc != nil {
		a.hc.CloseIdleConnections()
	}
}

// Run loads the input, extracts questions and writes the outputs.
func (a *App) Run(ctx context.Context) error {
	start := a.now()
	doc, err := source.LoadFile(a.cfg.InputPath)
	if err != nil {
		return fmt.Errorf("load input: %w", err)
	}
	log.Info().Str("input", doc.Name).Str("kind", string(doc.Kind)).Int("pages", len(doc.Pages)).Msg("input loaded")

	res, rep, err := a.extract(ctx, doc.Pages)
	counts := rep.Counts()
	if errors.Is(err, extract.ErrNoQuestionsFound) && a.parser != nil {
		log.Info().Msg("heuristics found no questions; trying LLM structuring")
		res, err = a.structureWithLLM(ctx, doc.Pages)
		if err == nil {
			counts[llmparse.StrategyName] = res.Count
		}
	}
	if err != nil {
		return err
	}

	course := buildCourse(a.cfg, doc, res, counts, a.now())
	if a.cfg.DryRun {
		a.printSummary(course)
		return nil
	}
	if err := writeCourse(a.cfg.OutputPath, course); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	if a.cfg.OutputPDFPath != "" {
		if err := writeReviewPDF(course, a.cfg.OutputPDFPath); err != nil {
			return fmt.Errorf("write review pdf: %w", err)
		}
	}
	log.Info().Int("questions", course.Count).Str("output", a.cfg.OutputPath).Dur("elapsed", a.now().Sub(start)).Msg("done")
	return nil
}

type outcome struct {
	res quiz.Result
	rep dispatch.Report
	err error
}

// extract runs the extractor under the configured deadline. Extraction has
// no cancellation of its own, so on timeout its result is abandoned. An
// extractor without a report yields empty strategy counts.
func (a *App) extract(ctx context.Context, pages []quiz.RawPage) (quiz.Result, dispatch.Report, error) {
	if a.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.cfg.Timeout)
		defer cancel()
	}
	ch := make(chan outcome, 1)
	go func() {
		var o outcome
		if r, ok := a.extractor.(reporter); ok {
			o.res, o.rep, o.err = r.ExtractReport(pages)
		} else {
			o.res, o.err = a.extractor.Extract(pages)
		}
		ch <- o
	}()
	select {
	case o := <-ch:
		return o.res, o.rep, o.err
	case <-ctx.Done():
		return quiz.Result{}, dispatch.Report{}, fmt.Errorf("%w: %v", ErrTimeout, ctx.Err())
	}
}

// structureWithLLM is the fallback for documents the heuristics cannot
// read. Its output goes through the same finalization; a model failure is
// reported as no questions found.
func (a *App) structureWithLLM(ctx context.Context, pages []quiz.RawPage) (quiz.Result, error) {
	doc, ok := extract.Prepare(pages)
	if !ok {
		return quiz.Result{}, extract.ErrNoTextExtracted
	}
	if a.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.cfg.Timeout)
		defer cancel()
	}
	cands, err := a.parser.Parse(ctx, doc.Text)
	if err != nil {
		log.Warn().Err(err).Msg("LLM structuring failed")
		return quiz.Result{}, fmt.Errorf("%w (llm fallback: %v)", extract.ErrNoQuestionsFound, err)
	}
	qs := extract.Finalize([][]quiz.Candidate{cands}, nil)
	if len(qs) == 0 {
		return quiz.Result{}, extract.ErrNoQuestionsFound
	}
	return quiz.Result{Questions: qs, Count: len(qs)}, nil
}

func (a *App) printSummary(c Course) {
	fmt.Fprintf(a.out, "%s: %d questions from %d pages\n", c.Title, c.Count, c.Source.Pages)
	names := make([]string, 0, len(c.Strategies))
	for name := range c.Strategies {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(a.out, "  %-10s %d candidates\n", name, c.Strategies[name])
	}
}
