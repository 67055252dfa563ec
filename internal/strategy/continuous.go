package strategy

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/hyperifyio/quizextract/internal/classify"
	"github.com/hyperifyio/quizextract/internal/quiz"
)

var (
	// an upper-case option letter at the start of the text or after whitespace
	optionBoundaryRe = regexp.MustCompile(`(?:^|\s)([A-D])[.)]`)
	inlineStemRe     = regexp.MustCompile(`\s\d+[.)]\s`)
	numberedLineRe   = regexp.MustCompile(`(?m)^[ \t]*\d+[.)][ \t]*\S`)
	whichOfRe        = regexp.MustCompile(`(?i)which\s+of\s+the\s+following`)
)

type optionMarker struct {
	letter byte
	start  int // index of the letter
	end    int // index just past the delimiter
}

// optionRun is 2-4 consecutive lettered options, A first.
type optionRun struct {
	start   int
	end     int
	options []string
}

// findOptionRuns locates every A, B[, C[, D]] sequence in text. The last
// option of a run ends at its line end, at an inline "N." stem or at the
// next option letter, whichever comes first.
func findOptionRuns(text string) []optionRun {
	locs := optionBoundaryRe.FindAllStringSubmatchIndex(text, -1)
	markers := make([]optionMarker, 0, len(locs))
	for _, loc := range locs {
		markers = append(markers, optionMarker{letter: text[loc[2]], start: loc[2], end: loc[1]})
	}

	var runs []optionRun
	for i := 0; i < len(markers); {
		if markers[i].letter != 'A' {
			i++
			continue
		}
		j := i + 1
		for j < len(markers) && j-i < quiz.MaxOptions && markers[j].letter == markers[j-1].letter+1 {
			j++
		}
		if j-i >= quiz.MinOptions {
			limit := len(text)
			if j < len(markers) {
				limit = markers[j].start
			}
			runs = append(runs, buildRun(text, markers[i:j], limit))
		}
		i = j
	}
	return runs
}

func buildRun(text string, ms []optionMarker, limit int) optionRun {
	run := optionRun{start: ms[0].start}
	for k, m := range ms {
		var end int
		if k+1 < len(ms) {
			end = ms[k+1].start
		} else {
			end = lastOptionEnd(text[:limit], m.end)
			run.end = end
		}
		if opt := collapseSpaces(text[m.end:end]); opt != "" {
			run.options = append(run.options, opt)
		}
	}
	return run
}

func lastOptionEnd(text string, from int) int {
	end := len(text)
	if nl := strings.IndexByte(text[from:], '\n'); nl >= 0 {
		end = from + nl
	}
	if loc := inlineStemRe.FindStringIndex(text[from:end]); loc != nil {
		end = from + loc[0]
	}
	return end
}

// stemPattern picks a question out of the text preceding an option run.
type stemPattern func(span string) (string, bool)

// Continuous searches the whole text for question-like spans immediately
// followed by an option run. Each pattern is tried over every run and all
// matches are kept, so one question may be emitted more than once.
type Continuous struct{}

func (Continuous) Name() string { return "continuous" }

func (c Continuous) Extract(doc Document) []quiz.Candidate {
	runs := findOptionRuns(doc.Text)
	if len(runs) == 0 {
		return nil
	}
	// Each span is bounded by the end of the previous run so it can never
	// swallow another question's options.
	spans := make([]string, len(runs))
	prev := 0
	for i, r := range runs {
		if r.start >= prev {
			spans[i] = doc.Text[prev:r.start]
		}
		prev = r.end
	}

	var out []quiz.Candidate
	for _, pattern := range []stemPattern{endsWithQuestionMark, lastNumberedStem, whichOfTheFollowing} {
		for i, r := range runs {
			if len(r.options) < quiz.MinOptions {
				continue
			}
			raw, ok := pattern(spans[i])
			if !ok {
				continue
			}
			text := cleanStem(raw)
			if !longEnough(text) {
				continue
			}
			out = append(out, quiz.Candidate{Text: text, Options: quiz.CapOptions(r.options), Strategy: c.Name()})
		}
	}
	return out
}

// endsWithQuestionMark takes the last sentence of the span when it ends in '?'.
func endsWithQuestionMark(span string) (string, bool) {
	s := strings.TrimRightFunc(span, unicode.IsSpace)
	if !strings.HasSuffix(s, "?") {
		return "", false
	}
	body := s[:len(s)-1]
	cut := strings.LastIndexAny(body, ".!?\n")
	return s[cut+1:], true
}

func lastNumberedStem(span string) (string, bool) {
	locs := numberedLineRe.FindAllStringIndex(span, -1)
	if len(locs) == 0 {
		return "", false
	}
	return span[locs[len(locs)-1][0]:], true
}

func whichOfTheFollowing(span string) (string, bool) {
	locs := whichOfRe.FindAllStringIndex(span, -1)
	if len(locs) == 0 {
		return "", false
	}
	return span[locs[len(locs)-1][0]:], true
}

func cleanStem(s string) string {
	return classify.StripQuestionPrefix(collapseSpaces(s))
}
