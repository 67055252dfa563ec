package budget

import (
	"math"
	"strings"
)

// charsPerToken is a conservative average for English prose.
const charsPerToken = 4

// EstimateTokens returns the estimated token count of s, at least 1 for
// non-empty input.
func EstimateTokens(s string) int {
	if len(s) == 0 {
		return 0
	}
	return int(math.Ceil(float64(len(s)) / charsPerToken))
}

// knownWindows holds rough context sizes for common model identifiers.
var knownWindows = map[string]int{
	"gpt-4o":        128_000,
	"gpt-4o-mini":   128_000,
	"gpt-4-turbo":   128_000,
	"gpt-4.1":       1_000_000,
	"gpt-4.1-mini":  1_000_000,
	"gpt-3.5-turbo": 16_384,
	"llama-3":       8_192,
	"llama-3.1":     128_000,
	"gpt-oss-20b":   4_096,
}

// windowSuffixes map a size suffix in the model name to a window size.
var windowSuffixes = []struct {
	suffix string
	tokens int
}{
	{"1m", 1_000_000},
	{"512k", 512_000},
	{"200k", 200_000},
	{"128k", 128_000},
	{"32k", 32_768},
}

// ContextWindow estimates the context size of model. Unknown models get 8192.
func ContextWindow(model string) int {
	name := strings.ToLower(strings.TrimSpace(model))
	if name == "" {
		return 8192
	}
	if i := strings.LastIndexByte(name, '/'); i >= 0 {
		name = name[i+1:]
	}
	if v, ok := knownWindows[name]; ok {
		return v
	}
	for _, s := range windowSuffixes {
		if strings.HasSuffix(name, s.suffix) {
			return s.tokens
		}
	}
	if strings.Contains(name, "-mini") {
		return 128_000
	}
	return 8192
}

// Headroom is the larger of 5% of the window and 512 tokens, kept free for
// tokenizer drift and message framing.
func Headroom(model string) int {
	dyn := int(math.Ceil(float64(ContextWindow(model)) * 0.05))
	if dyn < 512 {
		return 512
	}
	return dyn
}

// InputBudget is what is left for the document once the system prompt, the
// reserved output and the headroom are taken. Never negative.
func InputBudget(model string, system string, reservedOutput int) int {
	if reservedOutput < 0 {
		reservedOutput = 0
	}
	left := ContextWindow(model) - Headroom(model) - reservedOutput - EstimateTokens(system)
	if left < 0 {
		return 0
	}
	return left
}

// Clamp cuts text to at most maxTokens, preferring the last line break
// inside the limit. It reports whether anything was removed.
func Clamp(text string, maxTokens int) (string, bool) {
	if EstimateTokens(text) <= maxTokens {
		return text, false
	}
	if maxTokens <= 0 {
		return "", true
	}
	cut := text[:maxTokens*charsPerToken]
	if i := strings.LastIndexByte(cut, '\n'); i > 0 {
		cut = cut[:i]
	}
	return strings.ToValidUTF8(cut, ""), true
}
