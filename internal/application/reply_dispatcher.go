package application

import (
	"context"
	"fmt"

	"golang-line-chatbot/internal/domain"
	"golang-line-chatbot/internal/ports/output"

	"github.com/sirupsen/logrus"
)

// ReplyDispatcher pushes replies to a LINE user. Every dispatch issues a fresh
// channel access token.
type ReplyDispatcher struct {
	tokens     output.AccessTokenProvider
	lineClient output.LineClient
}

// NewReplyDispatcher func
func NewReplyDispatcher(tokens output.AccessTokenProvider, lineClient output.LineClient) *ReplyDispatcher {
	return &ReplyDispatcher{
		tokens:     tokens,
		lineClient: lineClient,
	}
}

// Dispatch sends one push request with a text message per segment, in order.
// It aborts before pushing when the token exchange fails or yields an empty token.
func (d *ReplyDispatcher) Dispatch(ctx context.Context, userID string, texts ...string) error {
	if len(texts) == 0 {
		return domain.ErrEmptyReply
	}
	if len(texts) > domain.MaxPushMessages {
		return fmt.Errorf("%w: %d > %d", domain.ErrTooManyMessages, len(texts), domain.MaxPushMessages)
	}

	token, err := d.tokens.IssueAccessToken(ctx)
	if err != nil {
		return fmt.Errorf("failed to issue access token: %w", err)
	}
	if token.IsEmpty() {
		return domain.ErrEmptyAccessToken
	}

	resp, err := d.lineClient.PushMessage(ctx, token.AccessToken, domain.NewTextPushRequest(userID, texts...))
	if err != nil {
		return fmt.Errorf("failed to push reply: %w", err)
	}

	if resp != nil {
		logrus.Debugf("Push to %s finished with status %s", userID, resp.Status)
	}

	return nil
}
