package domain

// DTOs (Data Transfer Objects) - Domain layer request/response structures

// MaxPushMessages is the most message objects the push API accepts per request.
const MaxPushMessages = 5

type (
	// LineWebhookRequest struct - Domain LINE webhook request DTO
	LineWebhookRequest struct {
		Events []LineWebhookEvent
	}

	// LinePushMessageRequest struct - Domain LINE push message request DTO
	LinePushMessageRequest struct {
		To       string
		Messages []LineOutgoingMessage
	}

	// LineOutgoingMessage struct - Domain LINE outgoing message DTO
	LineOutgoingMessage struct {
		Type LineMessageType
		Text string
	}

	// LineMessageResponse struct - Domain LINE API response DTO
	LineMessageResponse struct {
		Status    string
		Message   string
		RetryKey  string
		SentCount int
	}

	// WebhookAck struct - Result of one webhook round. Handled is false when
	// the event was skipped by validation.
	WebhookAck struct {
		Handled bool
		Text    string
	}
)

// NewTextPushRequest builds a push request with one text message per segment, in order.
func NewTextPushRequest(to string, texts ...string) LinePushMessageRequest {
	messages := make([]LineOutgoingMessage, 0, len(texts))
	for _, text := range texts {
		messages = append(messages, LineOutgoingMessage{
			Type: LineMessageTypeText,
			Text: text,
		})
	}
	return LinePushMessageRequest{
		To:       to,
		Messages: messages,
	}
}
