package strategy

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/quizextract/internal/quiz"
)

// Document is the input shared by every strategy: the whole text, plus the
// per-page texts it was joined from.
type Document struct {
	Text  string
	Pages []quiz.RawPage
}

// Strategy is one independent heuristic parser. Implementations must be
// pure: same Document in, same candidates out, no shared state.
type Strategy interface {
	Name() string
	Extract(doc Document) []quiz.Candidate
}

// Primary returns the strategies that always run, in priority order.
func Primary(parallelPages bool) []Strategy {
	return []Strategy{
		Structured{},
		MultiLine{},
		Continuous{},
		PageByPage{Parallel: parallelPages},
	}
}

// Fallback returns the strategies used when Structured finds nothing.
func Fallback() []Strategy {
	return []Strategy{SimpleQA{}, Numbered{}}
}

// BlockError reports a malformed block. It stays inside the strategy that
// produced it: the block is skipped and the remaining blocks are kept.
type BlockError struct {
	Strategy string
	Block    string
	Reason   string
}

func (e *BlockError) Error() string {
	return fmt.Sprintf("%s: block %s: %s", e.Strategy, e.Block, e.Reason)
}

// errNoQuestion marks a block that simply holds no question. Not an error
// worth reporting.
var errNoQuestion = errors.New("no question in block")

func malformed(reason string) error {
	return &BlockError{Reason: reason}
}

// block is a text span presumed to contain exactly one question.
type block struct {
	ID   string
	Text string
}

func numberedBlocks(texts []string) []block {
	out := make([]block, 0, len(texts))
	for i, t := range texts {
		out = append(out, block{ID: strconv.Itoa(i + 1), Text: t})
	}
	return out
}

// foldBlocks parses each block on its own and keeps the successes.
func foldBlocks(name string, blocks []block, parse func(string) (quiz.Candidate, error)) []quiz.Candidate {
	out := make([]quiz.Candidate, 0, len(blocks))
	for _, b := range blocks {
		c, err := parseOne(name, b, parse)
		if err != nil {
			var be *BlockError
			if errors.As(err, &be) {
				log.Debug().Str("strategy", be.Strategy).Str("block", be.Block).Str("reason", be.Reason).Msg("block skipped")
			}
			continue
		}
		c.Strategy = name
		out = append(out, c)
	}
	return out
}

func parseOne(name string, b block, parse func(string) (quiz.Candidate, error)) (c quiz.Candidate, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &BlockError{Strategy: name, Block: b.ID, Reason: fmt.Sprint(r)}
		}
	}()
	c, err = parse(b.Text)
	var be *BlockError
	if errors.As(err, &be) {
		be.Strategy = name
		be.Block = b.ID
	}
	return c, err
}

// longEnough is the minimum stem length used by the lenient strategies.
func longEnough(text string) bool {
	return utf8.RuneCountInString(text) > 10
}

func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
