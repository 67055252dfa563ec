package quiz

import "strings"

// MaxOptions is the upper bound on answer options kept per question.
const MaxOptions = 4

// MinOptions is the lower bound for a question to be accepted.
const MinOptions = 2

// RawPage is the text of one page as delivered by the text-extraction step.
// Text may be empty for scanned or unreadable pages.
type RawPage struct {
	Index int    `json:"page_index"`
	Text  string `json:"text"`
}

// Candidate is an unvalidated question produced by one strategy.
type Candidate struct {
	Text     string
	Options  []string
	Answer   int
	Strategy string
}

// Valid reports whether the candidate satisfies the option bounds and has a
// non-blank question text.
func (c Candidate) Valid() bool {
	if strings.TrimSpace(c.Text) == "" {
		return false
	}
	return len(c.Options) >= MinOptions && len(c.Options) <= MaxOptions
}

// Question is a finalized record. It is never mutated after creation.
type Question struct {
	ID            string   `json:"id"`
	Text          string   `json:"question_text"`
	Options       []string `json:"options"`
	CorrectAnswer int      `json:"correct_answer"`
}

// Result is the successful outcome of one extraction call.
type Result struct {
	Questions []Question `json:"questions"`
	Count     int        `json:"count"`
}

// CapOptions returns at most MaxOptions entries of opts as a fresh slice.
func CapOptions(opts []string) []string {
	n := len(opts)
	if n > MaxOptions {
		n = MaxOptions
	}
	out := make([]string, n)
	copy(out, opts[:n])
	return out
}
