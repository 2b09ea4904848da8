package domain

import "errors"

// Completion service errors

var (
	// ErrCompletionUnavailable indicates the completion service is unavailable
	ErrCompletionUnavailable = errors.New("completion service unavailable")

	// ErrCompletionTimeout indicates a request to the completion service timed out
	ErrCompletionTimeout = errors.New("completion request timeout")

	// ErrNoCompletionChoice indicates the completion service returned no usable choice
	ErrNoCompletionChoice = errors.New("no completion choice in response")

	// ErrInvalidRequest indicates an invalid request was made (4xx client errors)
	ErrInvalidRequest = errors.New("invalid request")
)

// LINE platform errors

var (
	// ErrTokenExchange indicates the client-credentials exchange failed
	ErrTokenExchange = errors.New("channel access token exchange failed")

	// ErrEmptyAccessToken indicates the token endpoint answered without a token value
	ErrEmptyAccessToken = errors.New("empty channel access token")

	// ErrPushFailed indicates the push API rejected or did not receive the request
	ErrPushFailed = errors.New("push message failed")

	// ErrEmptyReply indicates there was nothing to push
	ErrEmptyReply = errors.New("no reply messages to send")

	// ErrTooManyMessages indicates a push would exceed the per-request message limit
	ErrTooManyMessages = errors.New("too many messages in one push")
)
