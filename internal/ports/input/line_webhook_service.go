package input

import (
	"context"

	"golang-line-chatbot/internal/domain"
)

// LineWebhookService interface - Input port (use case)
// Defines what the application does with an inbound LINE webhook
type LineWebhookService interface {
	// HandleWebhook runs at most one round of processing for the first event of the request.
	// Skipped events return an ack with Handled=false and no error.
	HandleWebhook(ctx context.Context, request domain.LineWebhookRequest) (*domain.WebhookAck, error)
}
