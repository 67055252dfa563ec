package strategy

import (
	"regexp"
	"strings"

	"github.com/hyperifyio/quizextract/internal/classify"
	"github.com/hyperifyio/quizextract/internal/quiz"
)

// questionHeaderRe matches the bare "Question" / "Question 12" header line of
// quiz-review layouts. Inside an option block it means the next question began.
var questionHeaderRe = regexp.MustCompile(`(?i)^question(?:\s+\d+)?$`)

// nextStemRe is a numbered stem such as "2. What...". Bare or decimal
// numbers do not match, so "4" and "2.5" stay valid options.
var nextStemRe = regexp.MustCompile(`^\d+[.)][ \t]*[^\d\s]`)

// parseBlock splits one block into stem and options.
//
// The stem is every content line after the scoring annotation (or from the
// top when there is none) up to the section marker or the first option line.
// With a section marker, options are the content lines after it; without
// one, options are the A-D lines that follow the stem. When requireScore is
// set a block without a scoring annotation is malformed.
func parseBlock(text string, requireScore bool) (quiz.Candidate, error) {
	lines := classify.Lines(text)
	scoreAt, sectionAt := -1, -1
	for i, l := range lines {
		if scoreAt < 0 && classify.IsScoreAnnotation(l.Text) {
			scoreAt = i
		}
		if sectionAt < 0 && l.Kind == classify.SectionMarker {
			sectionAt = i
		}
	}
	if requireScore && scoreAt < 0 {
		return quiz.Candidate{}, malformed("missing scoring annotation")
	}
	if sectionAt >= 0 && scoreAt > sectionAt {
		return quiz.Candidate{}, malformed("scoring annotation inside option block")
	}

	stem := make([]string, 0, 4)
	i := scoreAt + 1
	for ; i < len(lines); i++ {
		l := lines[i]
		if l.Kind == classify.SectionMarker || l.Kind == classify.OptionMarker {
			break
		}
		if l.Kind == classify.Blank || l.Kind == classify.Noise {
			continue
		}
		s := l.Text
		if len(stem) == 0 {
			s = classify.StripQuestionPrefix(s)
		}
		if s != "" {
			stem = append(stem, s)
		}
	}
	if sectionAt >= 0 && len(stem) == 0 {
		return quiz.Candidate{}, malformed("option block without question stem")
	}

	var opts []string
	if sectionAt >= 0 {
		opts = sectionOptions(lines[sectionAt+1:])
	} else {
		opts = letteredOptions(lines[i:])
	}
	text = strings.Join(stem, " ")
	if text == "" || len(opts) < quiz.MinOptions {
		return quiz.Candidate{}, errNoQuestion
	}
	return quiz.Candidate{Text: text, Options: opts}, nil
}

// sectionOptions takes every content line after "Select one:" up to the
// next question header or numbered stem. Numeric-only lines are valid
// answers here.
func sectionOptions(lines []classify.Line) []string {
	opts := make([]string, 0, quiz.MaxOptions)
	for _, l := range lines {
		if len(opts) == quiz.MaxOptions {
			break
		}
		switch l.Kind {
		case classify.Blank, classify.Noise, classify.SectionMarker:
			continue
		}
		if questionHeaderRe.MatchString(l.Text) || nextStemRe.MatchString(l.Text) {
			break
		}
		s := l.Text
		if _, t, ok := classify.SplitOption(s); ok {
			s = t
		}
		if s != "" {
			opts = append(opts, s)
		}
	}
	return opts
}

// letteredOptions collects A-D lines until the lettering restarts or a new
// numbered question shows up.
func letteredOptions(lines []classify.Line) []string {
	opts := make([]string, 0, quiz.MaxOptions)
	for _, l := range lines {
		if len(opts) == quiz.MaxOptions {
			break
		}
		if l.Kind != classify.OptionMarker {
			if len(opts) > 0 && classify.IsNumberedQuestion(l.Text) {
				break
			}
			continue
		}
		letter, t, _ := classify.SplitOption(l.Text)
		if letter == "A" && len(opts) > 0 {
			break
		}
		if t != "" {
			opts = append(opts, t)
		}
	}
	return opts
}
