// Package answer holds the answer-synthesis pipeline: it rewrites user
// questions into search queries and turns model completions into a strict
// three-field result. Model output is untrusted free text; every failure mode
// in here degrades to a named default instead of an error.
package answer

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/askitmo/askitmo/internal/llm"
	"github.com/askitmo/askitmo/internal/logger"
	"github.com/askitmo/askitmo/internal/news"
	"github.com/askitmo/askitmo/internal/sanitize"
	"github.com/askitmo/askitmo/internal/search"
)

// Named fallback values the pipeline degrades to. Tests assert on these
// exactly; do not reword without updating clients of the API.
const (
	// ReasoningModelError is returned when the completion call fails.
	ReasoningModelError = "Произошла ошибка при генерации ответа языковой моделью (YandexGPT)."
	// ReasoningNoAlternatives is returned when the completion carries no
	// alternatives.
	ReasoningNoAlternatives = "Непредвиденный формат ответа от языковой модели."
	// ReasoningEmptyText is returned when the first alternative is empty.
	ReasoningEmptyText = "Пустой ответ от языковой модели."
	// ReasoningFallback replaces reasoning that sanitization emptied out.
	ReasoningFallback = "Ответ не удалось корректно сформировать."
)

// ErrNoQuery means no search query could be produced for the question. The
// HTTP layer maps it to a client error.
var ErrNoQuery = errors.New("could not generate a search query")

// Synthesis is the normalized result of one answer generation.
type Synthesis struct {
	Answer    *int
	Reasoning string
	Sources   []string
}

// Synthesizer drives the two completion calls of the pipeline.
type Synthesizer struct {
	client llm.Client
}

// NewSynthesizer creates a Synthesizer on top of a completion client.
func NewSynthesizer(client llm.Client) *Synthesizer {
	return &Synthesizer{client: client}
}

// GenerateQuery rewrites a free-text question into a concise web-search
// query. Every failure mode (call error, no alternatives, empty text,
// sanitization emptying the result) collapses into ErrNoQuery; there is no
// retry.
func (s *Synthesizer) GenerateQuery(ctx context.Context, question string) (string, error) {
	resp, err := s.client.Complete(ctx, buildQueryPrompt(question))
	if err != nil {
		logger.Error("Search query generation failed: %v", err)
		return "", ErrNoQuery
	}

	text := resp.FirstText()
	if text == "" {
		return "", ErrNoQuery
	}

	query := sanitize.Text(text)
	if query == "" {
		return "", ErrNoQuery
	}
	return query, nil
}

// Synthesize produces the structured answer for a question given search
// results and news items. It never returns an error: unparseable model
// output becomes raw-text reasoning, invalid fields become safe defaults.
func (s *Synthesizer) Synthesize(ctx context.Context, question string, results []search.Result, newsItems []news.Item) Synthesis {
	resp, err := s.client.Complete(ctx, buildAnswerPrompt(question, results, newsItems))
	if err != nil {
		logger.Error("Answer generation failed: %v", err)
		return Synthesis{Reasoning: ReasoningModelError, Sources: []string{}}
	}
	if resp == nil || len(resp.Alternatives) == 0 {
		return Synthesis{Reasoning: ReasoningNoAlternatives, Sources: []string{}}
	}

	generated := resp.Alternatives[0].Text
	if generated == "" {
		return Synthesis{Reasoning: ReasoningEmptyText, Sources: []string{}}
	}

	parsed, ok := llm.ExtractObject(generated)
	if !ok {
		// No object to parse: the whole completion becomes the reasoning.
		return Synthesis{Reasoning: strings.TrimSpace(generated), Sources: []string{}}
	}

	reasoning, _ := parsed["reasoning"].(string)
	reasoning = sanitize.Text(reasoning)
	if reasoning == "" {
		reasoning = ReasoningFallback
	}

	sources := coerceSources(parsed["sources"])
	if sources == nil {
		sources = []string{}
	}

	return Synthesis{
		Answer:    coerceAnswer(parsed["answer"]),
		Reasoning: reasoning,
		Sources:   sources,
	}
}

// coerceAnswer forces the model's answer field into an integer or nil.
// Integers pass through, lists contribute their first element, numeric
// strings are parsed; everything else is nil.
func coerceAnswer(v any) *int {
	switch val := v.(type) {
	case float64:
		if val != math.Trunc(val) {
			return nil
		}
		n := int(val)
		return &n
	case []any:
		if len(val) == 0 {
			return nil
		}
		switch first := val[0].(type) {
		case float64:
			n := int(first)
			return &n
		case string:
			return parseInt(first)
		default:
			return nil
		}
	case string:
		return parseInt(val)
	default:
		return nil
	}
}

func parseInt(s string) *int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return nil
	}
	return &n
}

// coerceSources keeps only entries that validate as URLs, preserving order.
// Mappings contribute their url field, URL strings pass through, free text
// is scanned for embedded links. Duplicates survive; the handler
// deduplicates.
func coerceSources(raw any) []string {
	entries, ok := raw.([]any)
	if !ok {
		if raw == nil {
			return nil
		}
		entries = []any{raw}
	}

	var sources []string
	for _, entry := range entries {
		switch src := entry.(type) {
		case map[string]any:
			u, _ := src["url"].(string)
			u = strings.TrimSpace(u)
			if sanitize.IsURL(u) {
				sources = append(sources, u)
			}
		case string:
			trimmed := strings.TrimSpace(src)
			if sanitize.IsURL(trimmed) {
				sources = append(sources, trimmed)
			} else {
				sources = append(sources, sanitize.ExtractURLs(trimmed)...)
			}
		default:
			sources = append(sources, sanitize.ExtractURLs(fmt.Sprint(entry))...)
		}
	}
	return sources
}
