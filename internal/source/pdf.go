package source

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/quizextract/internal/quiz"
)

// PDFPages returns one RawPage per PDF page. Pages whose text cannot be
// decoded are kept with empty text so page indexes stay aligned.
func PDFPages(data []byte) ([]quiz.RawPage, error) {
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}
	n := r.NumPage()
	out := make([]quiz.RawPage, 0, n)
	for i := 1; i <= n; i++ {
		out = append(out, quiz.RawPage{Index: i - 1, Text: pageText(r, i)})
	}
	return out, nil
}

func pageText(r *pdf.Reader, num int) (text string) {
	defer func() {
		if rec := recover(); rec != nil {
			log.Warn().Int("page", num).Str("panic", fmt.Sprint(rec)).Msg("pdf page unreadable")
			text = ""
		}
	}()
	page := r.Page(num)
	if page.V.IsNull() {
		return ""
	}
	if rows, err := page.GetTextByRow(); err == nil && len(rows) > 0 {
		lines := make([]string, 0, len(rows))
		for _, row := range rows {
			lines = append(lines, joinRow(row.Content))
		}
		return strings.Join(lines, "\n")
	}
	plain, err := page.GetPlainText(nil)
	if err != nil {
		log.Debug().Int("page", num).Err(err).Msg("pdf page has no text layer")
		return ""
	}
	return plain
}

// joinRow concatenates the text runs of one row, inserting a space where
// the runs are visibly apart.
func joinRow(runs pdf.TextHorizontal) string {
	var b strings.Builder
	for i, t := range runs {
		if i > 0 {
			prev := runs[i-1]
			gap := t.X - (prev.X + prev.W)
			if gap > prev.FontSize*0.15 && !strings.HasSuffix(prev.S, " ") && !strings.HasPrefix(t.S, " ") {
				b.WriteByte(' ')
			}
		}
		b.WriteString(t.S)
	}
	return strings.TrimSpace(b.String())
}
