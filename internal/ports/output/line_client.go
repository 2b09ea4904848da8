package output

import (
	"context"

	"golang-line-chatbot/internal/domain"
)

// LineClient interface - Output port
// Defines what the application needs from the LINE messaging platform
type LineClient interface {
	// PushMessage sends push messages to a LINE user, authorized by the given channel access token
	PushMessage(ctx context.Context, accessToken string, request domain.LinePushMessageRequest) (*domain.LineMessageResponse, error)
}
