package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"golang-line-chatbot/configs"
	"golang-line-chatbot/internal/domain"
	"golang-line-chatbot/internal/ports/output"

	"github.com/sirupsen/logrus"
)

const (
	defaultBaseURL     = "https://api.openai.com"
	defaultModel       = "gpt-4o-mini"
	defaultTemperature = configs.DefaultTemperature
	defaultTimeout     = 60 * time.Second
)

var _ output.CompletionClient = (*CompletionClientAdapter)(nil)

// CompletionClientAdapter struct - Output adapter for an OpenAI-compatible chat completion API
type CompletionClientAdapter struct {
	httpClient   *http.Client
	baseURL      string
	apiKey       string
	organization string
	model        string
	temperature  float64
	timeout      time.Duration
}

// NewCompletionClientAdapter func - Creates new completion client adapter
func NewCompletionClientAdapter(config configs.OpenAI) *CompletionClientAdapter {
	baseURL := config.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	// Remove trailing slash if present
	baseURL = strings.TrimSuffix(baseURL, "/")

	timeout := time.Duration(config.Timeout) * time.Second
	if config.Timeout <= 0 {
		timeout = defaultTimeout
	}

	model := config.Model
	if model == "" {
		model = defaultModel
	}

	temperature := defaultTemperature
	if config.Temperature != nil {
		temperature = *config.Temperature
	}

	httpClient := &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			DialContext: (&net.Dialer{
				Timeout:   30 * time.Second,
				KeepAlive: 30 * time.Second,
			}).DialContext,
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 100,
			IdleConnTimeout:     90 * time.Second,
		},
	}

	logrus.Infof("Completion client adapter initialized with base URL: %s, model: %s, timeout: %v", baseURL, model, timeout)

	return &CompletionClientAdapter{
		httpClient:   httpClient,
		baseURL:      baseURL,
		apiKey:       config.APIKey,
		organization: config.Organization,
		model:        model,
		temperature:  temperature,
		timeout:      timeout,
	}
}

// ChatCompletion sends a non-streaming chat completion request. It is not retried.
func (a *CompletionClientAdapter) ChatCompletion(ctx context.Context, request domain.ChatCompletionRequest) (*domain.ChatCompletionResponse, error) {
	reqBody := chatCompletionAPIRequest{
		Model:       a.model,
		Temperature: a.temperature,
		Messages:    make([]chatMessageAPI, len(request.Messages)),
	}

	for i, msg := range request.Messages {
		reqBody.Messages[i] = chatMessageAPI{
			Role:    string(msg.Role),
			Content: msg.Content,
		}
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/v1/chat/completions", a.baseURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to create chat completion request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if a.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+a.apiKey)
	}
	if a.organization != "" {
		req.Header.Set("OpenAI-Organization", a.organization)
	}

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, a.classifyTransportError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		if resp.StatusCode >= 400 && resp.StatusCode < 500 {
			return nil, fmt.Errorf("%w: status %d - %s", domain.ErrInvalidRequest, resp.StatusCode, string(body))
		}
		return nil, fmt.Errorf("%w: status %d - %s", domain.ErrCompletionUnavailable, resp.StatusCode, string(body))
	}

	var apiResp chatCompletionAPIResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, fmt.Errorf("failed to parse chat completion response: %w", err)
	}

	if len(apiResp.Choices) == 0 {
		return nil, domain.ErrNoCompletionChoice
	}

	choice := apiResp.Choices[0]
	response := &domain.ChatCompletionResponse{
		Content:          choice.Message.Content,
		Model:            apiResp.Model,
		FinishReason:     choice.FinishReason,
		PromptTokens:     apiResp.Usage.PromptTokens,
		CompletionTokens: apiResp.Usage.CompletionTokens,
		TotalTokens:      apiResp.Usage.TotalTokens,
	}

	logrus.Infof("Chat completion successful, model: %s, tokens: %d", response.Model, response.TotalTokens)

	return response, nil
}

// classifyTransportError maps a failed round trip to a domain error.
// Timeouts are reported separately since they are the expected failure under load.
func (a *CompletionClientAdapter) classifyTransportError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", domain.ErrCompletionTimeout, err)
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return fmt.Errorf("%w: %v", domain.ErrCompletionTimeout, err)
	}

	if errors.Is(err, context.Canceled) {
		return fmt.Errorf("chat completion cancelled: %w", err)
	}

	return fmt.Errorf("%w: %v", domain.ErrCompletionUnavailable, err)
}

// API request/response structures for the OpenAI-compatible API

// chatMessageAPI represents a message in the API request
type chatMessageAPI struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// chatCompletionAPIRequest represents the request body for chat completions
type chatCompletionAPIRequest struct {
	Model       string           `json:"model"`
	Temperature float64          `json:"temperature"`
	Messages    []chatMessageAPI `json:"messages"`
}

// chatCompletionAPIResponse represents the response from non-streaming chat completions
type chatCompletionAPIResponse struct {
	ID      string `json:"id"`
	Object  string `json:"object"`
	Created int64  `json:"created"`
	Model   string `json:"model"`
	Choices []struct {
		Index   int `json:"index"`
		Message struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`
}
