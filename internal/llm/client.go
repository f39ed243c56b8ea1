// Package llm provides text-in/text-out completion clients for the language
// model backends the service can run against, plus parsing helpers for the
// free-form text they return.
package llm

import "context"

// Alternative is one candidate completion text.
type Alternative struct {
	Text string `json:"text"`
}

// CompletionResponse holds the candidate completions returned by a model. A
// response with no alternatives is valid and must be handled by the caller.
type CompletionResponse struct {
	Alternatives []Alternative `json:"alternatives"`
}

// FirstText returns the text of the first alternative, or "" when there is
// none.
func (r *CompletionResponse) FirstText() string {
	if r == nil || len(r.Alternatives) == 0 {
		return ""
	}
	return r.Alternatives[0].Text
}

// Client is the interface for completion backends. Implementations never
// retry; upstream failures surface as errors for the caller to degrade.
type Client interface {
	// Complete sends a single prompt and returns the model's alternatives.
	Complete(ctx context.Context, prompt string) (*CompletionResponse, error)

	// ModelName returns the configured model identifier.
	ModelName() string
}
