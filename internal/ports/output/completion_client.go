package output

import (
	"context"

	"golang-line-chatbot/internal/domain"
)

// CompletionClient interface - Output port
// Defines what the application needs from an OpenAI-compatible chat completion API.
type CompletionClient interface {
	// ChatCompletion sends a non-streaming chat completion request and returns the
	// first choice. Returns domain.ErrNoCompletionChoice when the response has no choices.
	ChatCompletion(ctx context.Context, request domain.ChatCompletionRequest) (*domain.ChatCompletionResponse, error)
}
