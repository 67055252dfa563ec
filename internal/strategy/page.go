package strategy

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/hyperifyio/quizextract/internal/quiz"
)

// pageWindow bounds how far a page-level match may reach.
const pageWindow = 500

var (
	pageURLRe      = regexp.MustCompile(`https?://\S*`)
	pageDateRe     = regexp.MustCompile(`\d+/\d+/\d+`)
	pageNumberedRe = regexp.MustCompile(`(?m)^[ \t]*(\d+)[.)][ \t]*[^\d\s]`)
	pageQRe        = regexp.MustCompile(`(?m)^[ \t]*Q\d*[.:][ \t]*`)
)

// PageByPage works on each page separately, so a question is never stitched
// together across a page break. Pages may be processed in parallel; the
// output always follows page order.
type PageByPage struct {
	Parallel bool
}

func (PageByPage) Name() string { return "page" }

func (p PageByPage) Extract(doc Document) []quiz.Candidate {
	pages := doc.Pages
	if len(pages) == 0 && strings.TrimSpace(doc.Text) != "" {
		pages = []quiz.RawPage{{Index: 0, Text: doc.Text}}
	}
	results := make([][]quiz.Candidate, len(pages))
	if p.Parallel {
		var g errgroup.Group
		for i, pg := range pages {
			g.Go(func() error {
				results[i] = p.safePage(pg)
				return nil
			})
		}
		_ = g.Wait()
	} else {
		for i, pg := range pages {
			results[i] = p.safePage(pg)
		}
	}
	var out []quiz.Candidate
	for _, r := range results {
		out = append(out, r...)
	}
	return out
}

func (p PageByPage) safePage(pg quiz.RawPage) (out []quiz.Candidate) {
	defer func() {
		if r := recover(); r != nil {
			log.Debug().Str("strategy", p.Name()).Int("page", pg.Index).Interface("panic", r).Msg("page skipped")
			out = nil
		}
	}()
	return p.page(pg)
}

func (p PageByPage) page(pg quiz.RawPage) []quiz.Candidate {
	text := pageURLRe.ReplaceAllString(pg.Text, "")
	text = pageDateRe.ReplaceAllString(text, "")
	if strings.TrimSpace(text) == "" {
		return nil
	}
	out := p.numbered(pg.Index, text)
	return append(out, p.qPrefixed(text)...)
}

// numbered delimits each "N." block by the next "N+1" marker, or by the
// page window when there is none.
func (p PageByPage) numbered(index int, text string) []quiz.Candidate {
	locs := pageNumberedRe.FindAllStringSubmatchIndex(text, -1)
	blocks := make([]block, 0, len(locs))
	for _, loc := range locs {
		start := loc[0]
		num, err := strconv.Atoi(text[loc[2]:loc[3]])
		if err != nil {
			continue
		}
		end := nextNumberAt(text, loc[1], num+1)
		if end < 0 {
			end = min(len(text), start+pageWindow)
		}
		blocks = append(blocks, block{ID: fmt.Sprintf("%d/%d", index, num), Text: text[start:end]})
	}
	cands := foldBlocks(p.Name(), blocks, func(b string) (quiz.Candidate, error) {
		return parseBlock(b, false)
	})
	out := cands[:0]
	for _, c := range cands {
		if longEnough(c.Text) {
			c.Options = quiz.CapOptions(c.Options)
			out = append(out, c)
		}
	}
	return out
}

// nextNumberAt returns the offset of the first line at or after from that
// starts with n followed by '.', ')' or a space; -1 when there is none.
func nextNumberAt(text string, from int, n int) int {
	want := strconv.Itoa(n)
	pos := from
	for pos < len(text) {
		nl := strings.IndexByte(text[pos:], '\n')
		if nl < 0 {
			return -1
		}
		lineStart := pos + nl + 1
		rest := strings.TrimLeft(text[lineStart:], " \t")
		if strings.HasPrefix(rest, want) && len(rest) > len(want) {
			switch rest[len(want)] {
			case '.', ')', ' ', '\t', '\n':
				return lineStart
			}
		}
		pos = lineStart
	}
	return -1
}

// qPrefixed reads "Q:" stems inside a bounded window and takes the options
// from the first option run found there.
func (p PageByPage) qPrefixed(text string) []quiz.Candidate {
	locs := pageQRe.FindAllStringIndex(text, -1)
	var out []quiz.Candidate
	for i, loc := range locs {
		end := min(len(text), loc[1]+pageWindow)
		if i+1 < len(locs) && locs[i+1][0] < end {
			end = locs[i+1][0]
		}
		window := text[loc[1]:end]
		runs := findOptionRuns(window)
		if len(runs) == 0 {
			continue
		}
		r := runs[0]
		stem := collapseSpaces(window[:r.start])
		if longEnough(stem) && len(r.options) >= quiz.MinOptions {
			out = append(out, quiz.Candidate{Text: stem, Options: quiz.CapOptions(r.options), Strategy: p.Name()})
		}
	}
	return out
}
