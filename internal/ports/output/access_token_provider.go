package output

import (
	"context"

	"golang-line-chatbot/internal/domain"
)

// AccessTokenProvider interface - Output port
// Exchanges channel credentials for a bearer token usable by the push API.
type AccessTokenProvider interface {
	// IssueAccessToken performs a client-credentials exchange. Every call hits the token
	// endpoint; tokens are not cached. Transport and non-2xx failures return an error
	// wrapping domain.ErrTokenExchange.
	IssueAccessToken(ctx context.Context) (*domain.AccessToken, error)
}
