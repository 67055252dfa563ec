package classify

import (
	"regexp"
	"strings"
)

// Kind tags a single line of extracted text.
type Kind int

const (
	Blank Kind = iota
	Plain
	QuestionMarker
	OptionMarker
	SectionMarker
	Noise
)

func (k Kind) String() string {
	switch k {
	case Blank:
		return "blank"
	case Plain:
		return "plain"
	case QuestionMarker:
		return "question"
	case OptionMarker:
		return "option"
	case SectionMarker:
		return "section"
	case Noise:
		return "noise"
	}
	return "unknown"
}

// Line is a trimmed line of text together with its classification.
type Line struct {
	Num  int
	Text string
	Kind Kind
}

var (
	// numbered stems: "12.", "3)", "Q:", "Q4.", "Question 7", "Question:"
	numberedRe = regexp.MustCompile(`^(?:\d+[.)]|Q\s*\d*\s*[:.]|(?i:question)\s*\d+|(?i:question)\s*[:.])`)
	prefixRe   = regexp.MustCompile(`^(?:\d+[.)]\s*|Q\s*\d*\s*[:.]\s*|(?i:question)\b\s*\d*\s*[:.)]?\s*)`)
	optionRe   = regexp.MustCompile(`^([A-Da-d])[.)]\s*(.*)$`)
	urlRe      = regexp.MustCompile(`(?i)https?://|www\.`)
	dateRe     = regexp.MustCompile(`^\d{1,4}/\d{1,2}/\d{1,4}`)
	scoreRe    = regexp.MustCompile(`(?i)^mark(?:ed|s)?\b.*\bout of\b`)
)

// sectionMarkers introduce an option block in quiz-review layouts.
var sectionMarkers = []string{"select one:", "select one or more:"}

// chromeLines are fixed quiz-review widgets that never carry content.
var chromeLines = map[string]struct{}{
	"flag question":    {},
	"not yet answered": {},
	"answer saved":     {},
	"question text":    {},
}

// IsQuestionMarker reports whether line opens a question: a numeric or Q /
// Question prefix, or any line mentioning "question".
func IsQuestionMarker(line string) bool {
	s := strings.TrimSpace(line)
	if s == "" {
		return false
	}
	if numberedRe.MatchString(s) {
		return true
	}
	return strings.Contains(strings.ToLower(s), "question")
}

// IsNumberedQuestion is the strict form of IsQuestionMarker: only explicit
// numeric, Q or "Question N" prefixes count.
func IsNumberedQuestion(line string) bool {
	return numberedRe.MatchString(strings.TrimSpace(line))
}

// IsOptionMarker reports whether line starts with a single A-D letter (any
// case) followed by '.' or ')'.
func IsOptionMarker(line string) bool {
	return optionRe.MatchString(strings.TrimSpace(line))
}

// IsSectionMarker reports whether line is exactly an option-block header.
func IsSectionMarker(line string) bool {
	s := strings.ToLower(strings.TrimSpace(line))
	for _, m := range sectionMarkers {
		if s == m {
			return true
		}
	}
	return false
}

// IsScoreAnnotation matches "Mark 1.00 out of 1.00" style lines.
func IsScoreAnnotation(line string) bool {
	return scoreRe.MatchString(strings.TrimSpace(line))
}

// IsNoise reports lines that never belong to a question: URLs, date-like
// page footers, scoring annotations and review-page chrome.
func IsNoise(line string) bool {
	s := strings.TrimSpace(line)
	if s == "" {
		return false
	}
	if urlRe.MatchString(s) || dateRe.MatchString(s) || scoreRe.MatchString(s) {
		return true
	}
	_, ok := chromeLines[strings.ToLower(s)]
	return ok
}

// StripQuestionPrefix removes a leading question number or Q/Question label.
// "1. Question: foo" is reduced to "foo".
func StripQuestionPrefix(line string) string {
	s := strings.TrimSpace(line)
	for i := 0; i < 2; i++ {
		loc := prefixRe.FindStringIndex(s)
		if loc == nil || loc[1] == 0 {
			break
		}
		s = strings.TrimSpace(s[loc[1]:])
	}
	return s
}

// SplitOption returns the upper-cased option letter and the option text.
func SplitOption(line string) (letter string, text string, ok bool) {
	m := optionRe.FindStringSubmatch(strings.TrimSpace(line))
	if m == nil {
		return "", "", false
	}
	return strings.ToUpper(m[1]), strings.TrimSpace(m[2]), true
}

// Classify tags one line. Precedence: blank, section, noise, option,
// question, plain.
func Classify(line string) Kind {
	s := strings.TrimSpace(line)
	switch {
	case s == "":
		return Blank
	case IsSectionMarker(s):
		return SectionMarker
	case IsNoise(s):
		return Noise
	case IsOptionMarker(s):
		return OptionMarker
	case IsQuestionMarker(s):
		return QuestionMarker
	}
	return Plain
}

// Lines splits text on newlines and classifies each line.
func Lines(text string) []Line {
	raw := strings.Split(text, "\n")
	out := make([]Line, 0, len(raw))
	for i, r := range raw {
		s := strings.TrimSpace(r)
		out = append(out, Line{Num: i, Text: s, Kind: Classify(s)})
	}
	return out
}
