package line

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"golang-line-chatbot/configs"
	"golang-line-chatbot/internal/domain"
	"golang-line-chatbot/internal/ports/output"

	"github.com/google/uuid"
	"github.com/line/line-bot-sdk-go/v8/linebot/messaging_api"
	"github.com/sirupsen/logrus"
)

const (
	defaultEndpoint = "https://api.line.me"
	defaultTimeout  = 30 * time.Second
)

var _ output.LineClient = (*LineClientAdapter)(nil)

// LineClientAdapter struct - Output adapter for the LINE push API
// A messaging client is built per push because every dispatch carries a freshly issued token.
type LineClientAdapter struct {
	endpoint   string
	httpClient *http.Client
	retryKey   func() string
}

// NewLineClientAdapter func - Creates new LINE client adapter
func NewLineClientAdapter(config configs.Line) *LineClientAdapter {
	return &LineClientAdapter{
		endpoint:   endpointOrDefault(config.Endpoint),
		httpClient: &http.Client{Timeout: timeoutOrDefault(config.Timeout)},
		retryKey:   uuid.NewString,
	}
}

// PushMessage - Sends push messages to a LINE user directly
func (a *LineClientAdapter) PushMessage(ctx context.Context, accessToken string, request domain.LinePushMessageRequest) (*domain.LineMessageResponse, error) {
	if accessToken == "" {
		return nil, domain.ErrEmptyAccessToken
	}

	// Convert domain messages to LINE SDK messages
	messages := make([]messaging_api.MessageInterface, 0, len(request.Messages))
	for _, msg := range request.Messages {
		lineMsg, err := a.convertToLineMessage(msg)
		if err != nil {
			logrus.Errorf("Failed to convert message: %v", err)
			continue
		}
		messages = append(messages, lineMsg)
	}

	if len(messages) == 0 {
		return nil, domain.ErrEmptyReply
	}
	if len(messages) > domain.MaxPushMessages {
		return nil, fmt.Errorf("%w: %d > %d", domain.ErrTooManyMessages, len(messages), domain.MaxPushMessages)
	}

	client, err := messaging_api.NewMessagingApiAPI(
		accessToken,
		messaging_api.WithEndpoint(a.endpoint),
		messaging_api.WithHTTPClient(a.httpClient),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create LINE messaging API client: %w", err)
	}

	req := &messaging_api.PushMessageRequest{
		To:       request.To,
		Messages: messages,
	}

	retryKey := a.retryKey()
	resp, err := client.WithContext(ctx).PushMessage(req, retryKey)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrPushFailed, err)
	}

	sent := len(messages)
	if resp != nil && len(resp.SentMessages) > 0 {
		sent = len(resp.SentMessages)
	}

	logrus.WithFields(logrus.Fields{
		"to":        request.To,
		"retry_key": retryKey,
		"messages":  sent,
	}).Info("Successfully sent push message")

	return &domain.LineMessageResponse{
		Status:    "success",
		Message:   "Push message sent successfully",
		RetryKey:  retryKey,
		SentCount: sent,
	}, nil
}

// convertToLineMessage - Helper function to convert domain message to LINE SDK message
func (a *LineClientAdapter) convertToLineMessage(msg domain.LineOutgoingMessage) (messaging_api.MessageInterface, error) {
	switch msg.Type {
	case domain.LineMessageTypeText:
		if msg.Text == "" {
			return nil, fmt.Errorf("empty text message")
		}
		return &messaging_api.TextMessage{
			Text: msg.Text,
		}, nil

	default:
		return nil, fmt.Errorf("unsupported message type: %s", msg.Type)
	}
}

func endpointOrDefault(endpoint string) string {
	if endpoint == "" {
		return defaultEndpoint
	}
	return strings.TrimSuffix(endpoint, "/")
}

func timeoutOrDefault(seconds int) time.Duration {
	if seconds <= 0 {
		return defaultTimeout
	}
	return time.Duration(seconds) * time.Second
}
