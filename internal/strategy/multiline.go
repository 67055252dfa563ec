package strategy

import (
	"strings"

	"github.com/hyperifyio/quizextract/internal/classify"
	"github.com/hyperifyio/quizextract/internal/quiz"
)

// MultiLine is a forward scanner over tagged lines. A question marker opens
// a stem which keeps growing until the first option line; the run of option
// lines after it closes the question.
type MultiLine struct{}

func (MultiLine) Name() string { return "multiline" }

func (m MultiLine) Extract(doc Document) []quiz.Candidate {
	lines := classify.Lines(doc.Text)
	var out []quiz.Candidate
	i := 0
	for i < len(lines) {
		if lines[i].Kind != classify.QuestionMarker {
			i++
			continue
		}
		stem := make([]string, 0, 4)
		if s := classify.StripQuestionPrefix(lines[i].Text); s != "" {
			stem = append(stem, s)
		}
		i++
		for i < len(lines) && lines[i].Kind != classify.OptionMarker {
			l := lines[i]
			switch {
			case l.Kind == classify.QuestionMarker && classify.IsNumberedQuestion(l.Text):
				// a new numbered stem before any option: the previous one had none
				stem = stem[:0]
				if s := classify.StripQuestionPrefix(l.Text); s != "" {
					stem = append(stem, s)
				}
			case l.Kind == classify.Plain || l.Kind == classify.QuestionMarker:
				stem = append(stem, l.Text)
			}
			i++
		}

		opts := make([]string, 0, quiz.MaxOptions)
		for i < len(lines) && (lines[i].Kind == classify.OptionMarker || lines[i].Kind == classify.Blank) {
			if _, t, ok := classify.SplitOption(lines[i].Text); ok && t != "" {
				opts = append(opts, t)
			}
			i++
		}

		text := strings.Join(stem, " ")
		if longEnough(text) && len(opts) >= quiz.MinOptions {
			out = append(out, quiz.Candidate{Text: text, Options: quiz.CapOptions(opts), Strategy: m.Name()})
		}
	}
	return out
}
