package line

import (
	"context"
	"fmt"
	"net/http"

	"golang-line-chatbot/configs"
	"golang-line-chatbot/internal/domain"
	"golang-line-chatbot/internal/ports/output"

	"github.com/line/line-bot-sdk-go/v8/linebot/channel_access_token"
	"github.com/sirupsen/logrus"
)

const grantTypeClientCredentials = "client_credentials"

var _ output.AccessTokenProvider = (*TokenClientAdapter)(nil)

// TokenClientAdapter struct - Output adapter issuing short-lived channel access tokens
// through the client-credentials grant (POST /v2/oauth/accessToken).
type TokenClientAdapter struct {
	client       *channel_access_token.ChannelAccessTokenAPI
	clientID     string
	clientSecret string
}

// NewTokenClientAdapter func - Creates new token client adapter
func NewTokenClientAdapter(config configs.Line) (*TokenClientAdapter, error) {
	client, err := channel_access_token.NewChannelAccessTokenAPI(
		channel_access_token.WithEndpoint(endpointOrDefault(config.Endpoint)),
		channel_access_token.WithHTTPClient(&http.Client{Timeout: timeoutOrDefault(config.Timeout)}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create LINE channel access token client: %w", err)
	}

	return &TokenClientAdapter{
		client:       client,
		clientID:     config.ChannelID,
		clientSecret: config.ChannelSecret,
	}, nil
}

// IssueAccessToken - Exchanges the channel ID and secret for a bearer token
func (a *TokenClientAdapter) IssueAccessToken(ctx context.Context) (*domain.AccessToken, error) {
	resp, err := a.client.WithContext(ctx).IssueChannelToken(grantTypeClientCredentials, a.clientID, a.clientSecret)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrTokenExchange, err)
	}

	token := &domain.AccessToken{
		AccessToken: resp.AccessToken,
		ExpiresIn:   int(resp.ExpiresIn),
		TokenType:   resp.TokenType,
	}

	logrus.Debugf("Issued channel access token: type=%s, expires_in=%d", token.TokenType, token.ExpiresIn)

	return token, nil
}
