package extract

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/text/unicode/norm"

	"github.com/hyperifyio/quizextract/internal/aggregate"
	"github.com/hyperifyio/quizextract/internal/dispatch"
	"github.com/hyperifyio/quizextract/internal/quiz"
	"github.com/hyperifyio/quizextract/internal/strategy"
)

var (
	// ErrNoTextExtracted means every page was blank.
	ErrNoTextExtracted = errors.New("no text could be extracted from the document")
	// ErrNoQuestionsFound means there was text but no strategy produced a
	// usable question.
	ErrNoQuestionsFound = errors.New("no questions found in the document")
)

// Extractor turns raw pages into finalized questions. Implementations are
// all-or-nothing: on error the result is empty.
type Extractor interface {
	Extract(pages []quiz.RawPage) (quiz.Result, error)
}

// Pipeline is the heuristic Extractor: dispatch, dedup, finalize.
type Pipeline struct {
	Dispatcher *dispatch.Dispatcher
	// NewID assigns question identities. Defaults to random UUIDs.
	NewID func() string
}

// New returns a pipeline with the standard strategy set.
func New(parallel bool) *Pipeline {
	return &Pipeline{Dispatcher: dispatch.New(parallel)}
}

func (p *Pipeline) Extract(pages []quiz.RawPage) (quiz.Result, error) {
	res, _, err := p.ExtractReport(pages)
	return res, err
}

// ExtractReport is Extract plus the per-strategy dispatch report.
func (p *Pipeline) ExtractReport(pages []quiz.RawPage) (quiz.Result, dispatch.Report, error) {
	doc, ok := Prepare(pages)
	if !ok {
		return quiz.Result{}, dispatch.Report{}, ErrNoTextExtracted
	}
	d := p.Dispatcher
	if d == nil {
		d = dispatch.New(false)
	}
	rep := d.Dispatch(doc)
	for _, b := range rep.Batches {
		ev := log.Info().Str("strategy", b.Strategy).Int("candidates", len(b.Candidates))
		if b.Failed {
			ev = ev.Bool("failed", true)
		}
		ev.Msg("strategy finished")
	}
	qs := Finalize(rep.Groups(), p.NewID)
	if len(qs) == 0 {
		return quiz.Result{}, rep, ErrNoQuestionsFound
	}
	return quiz.Result{Questions: qs, Count: len(qs)}, rep, nil
}

// FromText runs the default pipeline on a single page of text.
func FromText(text string) (quiz.Result, error) {
	return New(false).Extract([]quiz.RawPage{{Index: 0, Text: text}})
}

// Prepare normalizes pages and joins the non-blank ones into one document.
// It reports false when no page carries text.
func Prepare(pages []quiz.RawPage) (strategy.Document, bool) {
	normalized := make([]quiz.RawPage, 0, len(pages))
	var b strings.Builder
	for _, pg := range pages {
		t := NormalizeText(pg.Text)
		normalized = append(normalized, quiz.RawPage{Index: pg.Index, Text: t})
		if strings.TrimSpace(t) == "" {
			continue
		}
		b.WriteString(t)
		b.WriteByte('\n')
	}
	if b.Len() == 0 {
		return strategy.Document{}, false
	}
	return strategy.Document{Text: b.String(), Pages: normalized}, true
}

// NormalizeText folds line endings to LF and applies Unicode NFKC, which
// turns ligatures and full-width digits from PDF text into plain forms.
func NormalizeText(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	return norm.NFKC.String(s)
}

// Finalize cleans every group, merges them in order dropping later
// duplicates, and assigns identities. A candidate's answer index is kept
// only when it points at one of its options, otherwise it is 0; the
// strategies never set one. A nil newID means UUIDs.
func Finalize(groups [][]quiz.Candidate, newID func() string) []quiz.Question {
	if newID == nil {
		newID = uuid.NewString
	}
	cleaned := make([][]quiz.Candidate, 0, len(groups))
	for _, g := range groups {
		valid := make([]quiz.Candidate, 0, len(g))
		for _, c := range g {
			c.Text = strings.TrimSpace(c.Text)
			c.Options = quiz.CapOptions(c.Options)
			if !c.Valid() {
				continue
			}
			valid = append(valid, c)
		}
		cleaned = append(cleaned, valid)
	}
	kept := aggregate.MergeAndNormalize(cleaned)
	out := make([]quiz.Question, 0, len(kept))
	for _, c := range kept {
		out = append(out, quiz.Question{
			ID:            newID(),
			Text:          c.Text,
			Options:       c.Options,
			CorrectAnswer: answerIndex(c),
		})
	}
	return out
}

func answerIndex(c quiz.Candidate) int {
	if c.Answer < 0 || c.Answer >= len(c.Options) {
		return 0
	}
	return c.Answer
}
