package strategy

import (
	"regexp"

	"github.com/hyperifyio/quizextract/internal/quiz"
)

// blockSeparators mark the start of a new question, tried in order.
var blockSeparators = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\n\d+[ \t]*\nquestion[ \t]*\n`),
	regexp.MustCompile(`(?i)\n\d+\.[ \t]*question[ \t]*\n`),
	regexp.MustCompile(`(?i)\nquestion[ \t]+\d+[ \t]*[:.]?[ \t]*\n`),
	regexp.MustCompile(`\n\d+\)[ \t]*`),
}

// scoringBlockRe is the quiz-review layout: a block id line, a "Question"
// line, then a "Mark x out of y" annotation.
var scoringBlockRe = regexp.MustCompile(`(?i)\n(\d+)[ \t]*\nquestion[ \t]*\n`)

// Structured splits the document on block separators and parses each block.
type Structured struct{}

func (Structured) Name() string { return "structured" }

func (s Structured) Extract(doc Document) []quiz.Candidate {
	// A leading newline lets a separator open the document.
	text := "\n" + doc.Text
	for _, re := range blockSeparators {
		parts := re.Split(text, -1)
		if len(parts) <= 3 {
			continue
		}
		out := foldBlocks(s.Name(), numberedBlocks(parts[1:]), func(b string) (quiz.Candidate, error) {
			return parseBlock(b, false)
		})
		if len(out) > 0 {
			return out
		}
		break
	}
	return s.scoringBlocks(text)
}

// scoringBlocks is the format-specific variant for few-question documents.
// Blocks keep their printed id for diagnostics.
func (s Structured) scoringBlocks(text string) []quiz.Candidate {
	locs := scoringBlockRe.FindAllStringSubmatchIndex(text, -1)
	blocks := make([]block, 0, len(locs))
	for i, loc := range locs {
		end := len(text)
		if i+1 < len(locs) {
			end = locs[i+1][0]
		}
		blocks = append(blocks, block{ID: text[loc[2]:loc[3]], Text: text[loc[1]:end]})
	}
	return foldBlocks(s.Name(), blocks, func(b string) (quiz.Candidate, error) {
		return parseBlock(b, true)
	})
}
