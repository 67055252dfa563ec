package dispatch

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/hyperifyio/quizextract/internal/quiz"
	"github.com/hyperifyio/quizextract/internal/strategy"
)

// Batch is the output of one strategy run.
type Batch struct {
	Strategy   string
	Candidates []quiz.Candidate
	// Failed is set when the strategy panicked and was degraded to no output.
	Failed bool
}

// Report lists every batch in dispatch order.
type Report struct {
	Batches []Batch
}

// Groups returns each batch's candidates in dispatch order.
func (r Report) Groups() [][]quiz.Candidate {
	out := make([][]quiz.Candidate, 0, len(r.Batches))
	for _, b := range r.Batches {
		out = append(out, b.Candidates)
	}
	return out
}

// Counts maps strategy name to candidate count.
func (r Report) Counts() map[string]int {
	m := make(map[string]int, len(r.Batches))
	for _, b := range r.Batches {
		m[b.Strategy] += len(b.Candidates)
	}
	return m
}

// Dispatcher runs strategies in a fixed priority order. Fallback strategies
// run only when the first primary strategy returns nothing.
type Dispatcher struct {
	Primary  []strategy.Strategy
	Fallback []strategy.Strategy
	// Parallel runs the strategies of a stage concurrently. Output order is
	// the same either way.
	Parallel bool
}

// New returns the standard dispatcher.
func New(parallel bool) *Dispatcher {
	return &Dispatcher{
		Primary:  strategy.Primary(parallel),
		Fallback: strategy.Fallback(),
		Parallel: parallel,
	}
}

// Dispatch runs every strategy over doc and returns their batches.
func (d *Dispatcher) Dispatch(doc strategy.Document) Report {
	batches := d.runAll(d.Primary, doc)
	if len(d.Fallback) > 0 && (len(batches) == 0 || len(batches[0].Candidates) == 0) {
		log.Debug().Msg("structured strategy found nothing; running fallbacks")
		batches = append(batches, d.runAll(d.Fallback, doc)...)
	}
	return Report{Batches: batches}
}

func (d *Dispatcher) runAll(list []strategy.Strategy, doc strategy.Document) []Batch {
	out := make([]Batch, len(list))
	if !d.Parallel {
		for i, s := range list {
			out[i] = runOne(s, doc)
		}
		return out
	}
	var g errgroup.Group
	for i, s := range list {
		g.Go(func() error {
			out[i] = runOne(s, doc)
			return nil
		})
	}
	_ = g.Wait()
	return out
}

// runOne isolates a strategy: a panic degrades to an empty batch.
func runOne(s strategy.Strategy, doc strategy.Document) (b Batch) {
	b.Strategy = s.Name()
	defer func() {
		if r := recover(); r != nil {
			log.Warn().Str("strategy", b.Strategy).Str("panic", fmt.Sprint(r)).Msg("strategy failed; ignoring its output")
			b.Candidates = nil
			b.Failed = true
		}
	}()
	b.Candidates = s.Extract(doc)
	return b
}
