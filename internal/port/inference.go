package port

import "context"

// CompletionOutput is the raw result of one inference call.
type CompletionOutput struct {
	Text      string
	ModelUsed string
}

// InferenceClient abstracts an LLM completion provider.
type InferenceClient interface {
	Complete(ctx context.Context, prompt string) (*CompletionOutput, error)
	ProviderName() string
}
