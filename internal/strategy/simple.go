package strategy

import (
	"regexp"
	"strings"

	"github.com/hyperifyio/quizextract/internal/classify"
	"github.com/hyperifyio/quizextract/internal/quiz"
)

var (
	qaPrefixRe      = regexp.MustCompile(`^(?:Q\d*|(?i:question)\s*\d*)\s*[:.]\s*`)
	numberedSplitRe = regexp.MustCompile(`\n\d+\.\s*`)
)

// SimpleQA scans "Q: ..." stems followed by lettered options. Stems are
// single-line; other lines are ignored.
type SimpleQA struct{}

func (SimpleQA) Name() string { return "simple" }

func (s SimpleQA) Extract(doc Document) []quiz.Candidate {
	var (
		out        []quiz.Candidate
		stem       string
		opts       []string
		collecting bool
	)
	flush := func() {
		if collecting && stem != "" && len(opts) >= quiz.MinOptions {
			out = append(out, quiz.Candidate{Text: stem, Options: quiz.CapOptions(opts), Strategy: s.Name()})
		}
	}
	for _, l := range classify.Lines(doc.Text) {
		if l.Kind == classify.Blank {
			continue
		}
		if loc := qaPrefixRe.FindStringIndex(l.Text); loc != nil {
			flush()
			stem = strings.TrimSpace(l.Text[loc[1]:])
			opts = nil
			collecting = true
			continue
		}
		if collecting && l.Kind == classify.OptionMarker {
			if _, t, ok := classify.SplitOption(l.Text); ok && t != "" {
				opts = append(opts, t)
			}
		}
	}
	flush()
	return out
}

// Numbered splits on "N." line prefixes; the first line of each chunk is the
// stem and the lettered lines after it are the options.
type Numbered struct{}

func (Numbered) Name() string { return "numbered" }

func (n Numbered) Extract(doc Document) []quiz.Candidate {
	text := "\n" + doc.Text
	locs := numberedSplitRe.FindAllStringIndex(text, -1)
	chunks := make([]string, 0, len(locs))
	for i, loc := range locs {
		end := len(text)
		if i+1 < len(locs) {
			end = locs[i+1][0]
		}
		chunks = append(chunks, text[loc[1]:end])
	}
	return foldBlocks(n.Name(), numberedBlocks(chunks), parseNumberedChunk)
}

func parseNumberedChunk(chunk string) (quiz.Candidate, error) {
	var stem string
	opts := make([]string, 0, quiz.MaxOptions)
	for _, l := range classify.Lines(chunk) {
		if l.Kind == classify.Blank {
			continue
		}
		if stem == "" {
			stem = l.Text
			continue
		}
		if l.Kind != classify.OptionMarker {
			continue
		}
		if _, t, _ := classify.SplitOption(l.Text); t != "" {
			opts = append(opts, t)
		}
		if len(opts) == quiz.MaxOptions {
			break
		}
	}
	if stem == "" || len(opts) < quiz.MinOptions {
		return quiz.Candidate{}, errNoQuestion
	}
	return quiz.Candidate{Text: stem, Options: opts}, nil
}
