package llmparse

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	openai "github.com/sashabaranov/go-openai"

	"github.com/hyperifyio/quizextract/internal/budget"
	"github.com/hyperifyio/quizextract/internal/cache"
	"github.com/hyperifyio/quizextract/internal/classify"
	"github.com/hyperifyio/quizextract/internal/llm"
	"github.com/hyperifyio/quizextract/internal/quiz"
)

// StrategyName tags candidates produced by the model.
const StrategyName = "llm"

// reservedOutput is kept free in the context window for the JSON reply.
const reservedOutput = 2048

// ErrNotConfigured means no client or model was provided.
var ErrNotConfigured = errors.New("llm parser not configured")

// ErrCacheMiss is returned in cache-only mode when nothing is cached.
var ErrCacheMiss = errors.New("llm parser cache-only: not found")

// Payload is the JSON contract the model must follow.
type Payload struct {
	Questions []Item `json:"questions"`
}

// Item is one question as returned by the model.
type Item struct {
	Question string   `json:"question"`
	Options  []string `json:"options"`
}

// Parser structures raw exam text into candidates.
type Parser interface {
	Parse(ctx context.Context, text string) ([]quiz.Candidate, error)
}

// LLMParser asks a chat model for questions when the heuristics found none.
// It never asks for answers: every candidate keeps answer index 0.
type LLMParser struct {
	Client    llm.Client
	Model     string
	Cache     *cache.Store
	CacheOnly bool
	Verbose   bool
}

const systemMessage = "You convert exam text into multiple-choice questions. Respond with strict JSON only, no narration. " +
	"The JSON schema is {\"questions\": [{\"question\": string, \"options\": string[2..4]}]}. " +
	"Copy the question and option wording from the text. Omit option letters. Do not indicate which option is correct. " +
	"Skip anything that is not a multiple-choice question."

func (p *LLMParser) Parse(ctx context.Context, text string) ([]quiz.Candidate, error) {
	if p.Client == nil || strings.TrimSpace(p.Model) == "" {
		return nil, ErrNotConfigured
	}
	user, clamped := budget.Clamp(text, budget.InputBudget(p.Model, systemMessage, reservedOutput))
	if clamped {
		log.Warn().Str("stage", "llmparse").Int("tokens", budget.EstimateTokens(text)).Msg("document clamped to fit model context")
	}
	key := cache.Key(p.Model, systemMessage+"\n\n"+user)
	if p.Cache != nil {
		if raw, ok, _ := p.Cache.Get(ctx, key); ok {
			var pl Payload
			if err := json.Unmarshal(raw, &pl); err == nil {
				return Candidates(pl), nil
			}
		}
	}
	if p.CacheOnly {
		return nil, ErrCacheMiss
	}
	if p.Verbose {
		log.Debug().Str("stage", "llmparse").Str("model", p.Model).Int("system_len", len(systemMessage)).Int("user_len", len(user)).Msg("llm prompt")
	}
	resp, err := p.Client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: p.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemMessage},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
		Temperature: 0,
		N:           1,
	})
	if err != nil {
		return nil, fmt.Errorf("llm call: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, errors.New("no choices")
	}
	var pl Payload
	if err := json.Unmarshal([]byte(stripFences(resp.Choices[0].Message.Content)), &pl); err != nil {
		return nil, fmt.Errorf("parse llm json: %w", err)
	}
	out := Candidates(pl)
	if len(out) > 0 && p.Cache != nil {
		if b, err := json.Marshal(pl); err == nil {
			_ = p.Cache.Put(ctx, key, b)
		}
	}
	return out, nil
}

// Candidates sanitizes a payload. Option letters are stripped, empty
// entries dropped, options capped, and items outside the bounds skipped.
func Candidates(pl Payload) []quiz.Candidate {
	out := make([]quiz.Candidate, 0, len(pl.Questions))
	for _, it := range pl.Questions {
		opts := make([]string, 0, len(it.Options))
		for _, o := range it.Options {
			s := strings.TrimSpace(o)
			if _, t, ok := classify.SplitOption(s); ok {
				s = t
			}
			if s != "" {
				opts = append(opts, s)
			}
		}
		c := quiz.Candidate{
			Text:     classify.StripQuestionPrefix(it.Question),
			Options:  quiz.CapOptions(opts),
			Strategy: StrategyName,
		}
		if c.Valid() {
			out = append(out, c)
		}
	}
	return out
}

// stripFences removes a ```json fence some models wrap around the reply.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[i+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
