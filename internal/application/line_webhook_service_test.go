package application

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"golang-line-chatbot/internal/domain"
)

// Mock implementations for testing

// MockLineClient implements output.LineClient for testing
type MockLineClient struct {
	PushMessageFunc func(ctx context.Context, accessToken string, request domain.LinePushMessageRequest) (*domain.LineMessageResponse, error)

	// Captured values for assertions
	LastAccessToken string
	LastPushRequest *domain.LinePushMessageRequest

	// Track all push requests for multi-message testing
	PushRequests []domain.LinePushMessageRequest
}

func (m *MockLineClient) PushMessage(ctx context.Context, accessToken string, request domain.LinePushMessageRequest) (*domain.LineMessageResponse, error) {
	m.LastAccessToken = accessToken
	m.LastPushRequest = &request
	m.PushRequests = append(m.PushRequests, request)
	if m.PushMessageFunc != nil {
		return m.PushMessageFunc(ctx, accessToken, request)
	}
	return &domain.LineMessageResponse{Status: "success"}, nil
}

// MockTokenProvider implements output.AccessTokenProvider for testing
type MockTokenProvider struct {
	IssueAccessTokenFunc func(ctx context.Context) (*domain.AccessToken, error)

	Calls int
}

func (m *MockTokenProvider) IssueAccessToken(ctx context.Context) (*domain.AccessToken, error) {
	m.Calls++
	if m.IssueAccessTokenFunc != nil {
		return m.IssueAccessTokenFunc(ctx)
	}
	return &domain.AccessToken{AccessToken: "test-token", ExpiresIn: 2592000, TokenType: "Bearer"}, nil
}

// MockCompletionClient implements output.CompletionClient for testing
type MockCompletionClient struct {
	ChatCompletionFunc func(ctx context.Context, request domain.ChatCompletionRequest) (*domain.ChatCompletionResponse, error)

	// Captured values for assertions
	LastChatRequest *domain.ChatCompletionRequest
	Calls           int
}

func (m *MockCompletionClient) ChatCompletion(ctx context.Context, request domain.ChatCompletionRequest) (*domain.ChatCompletionResponse, error) {
	m.Calls++
	m.LastChatRequest = &request
	if m.ChatCompletionFunc != nil {
		return m.ChatCompletionFunc(ctx, request)
	}
	return &domain.ChatCompletionResponse{Content: "AI response"}, nil
}

// MockConversationStore implements output.ConversationStore for testing
type MockConversationStore struct {
	AppendTurnFunc func(userID string, turn domain.ChatTurn) error
	GetHistoryFunc func(userID string) ([]domain.ChatTurn, error)

	Histories   map[string][]domain.ChatTurn
	AppendCalls int
}

func NewMockConversationStore() *MockConversationStore {
	return &MockConversationStore{Histories: make(map[string][]domain.ChatTurn)}
}

func (m *MockConversationStore) AppendTurn(userID string, turn domain.ChatTurn) error {
	m.AppendCalls++
	if m.AppendTurnFunc != nil {
		if err := m.AppendTurnFunc(userID, turn); err != nil {
			return err
		}
	}
	m.Histories[userID] = append(m.Histories[userID], turn)
	return nil
}

func (m *MockConversationStore) GetHistory(userID string) ([]domain.ChatTurn, error) {
	if m.GetHistoryFunc != nil {
		return m.GetHistoryFunc(userID)
	}
	history := make([]domain.ChatTurn, len(m.Histories[userID]))
	copy(history, m.Histories[userID])
	return history, nil
}

func (m *MockConversationStore) Users() ([]string, error) {
	users := make([]string, 0, len(m.Histories))
	for userID := range m.Histories {
		users = append(users, userID)
	}
	sort.Strings(users)
	return users, nil
}

type testPipeline struct {
	service    *LineWebhookService
	store      *MockConversationStore
	tokens     *MockTokenProvider
	lineClient *MockLineClient
	completion *MockCompletionClient
}

func newTestPipeline() *testPipeline {
	p := &testPipeline{
		store:      NewMockConversationStore(),
		tokens:     &MockTokenProvider{},
		lineClient: &MockLineClient{},
		completion: &MockCompletionClient{},
	}
	generator := NewCompletionReplyGenerator(NewContextAssembler("test persona"), p.completion)
	p.service = NewLineWebhookService(p.store, generator, NewReplyDispatcher(p.tokens, p.lineClient))
	return p
}

// Test helper to create a basic text message event
func createTextMessageEvent(userID, text string, millis int64) domain.LineWebhookEvent {
	return domain.LineWebhookEvent{
		Type:       domain.LineEventTypeMessage,
		Timestamp:  domain.FromLineTimestamp(millis),
		ReplyToken: "test-reply-token",
		Source: domain.LineSource{
			Type:   domain.LineSourceTypeUser,
			UserID: userID,
		},
		Message: &domain.LineMessage{
			ID:   "test-message-id",
			Type: domain.LineMessageTypeText,
			Text: text,
		},
	}
}

func webhookRequest(events ...domain.LineWebhookEvent) domain.LineWebhookRequest {
	return domain.LineWebhookRequest{Events: events}
}

// TestHandleWebhook_HelloScenario tests the full round for a first message
func TestHandleWebhook_HelloScenario(t *testing.T) {
	p := newTestPipeline()
	p.completion.ChatCompletionFunc = func(ctx context.Context, request domain.ChatCompletionRequest) (*domain.ChatCompletionResponse, error) {
		// The human turn must already be recorded when the reply is generated
		if got := len(p.store.Histories["U1"]); got != 1 {
			t.Errorf("Expected 1 stored turn before generation, got %d", got)
		}
		return &domain.ChatCompletionResponse{Content: "hi there"}, nil
	}

	ack, err := p.service.HandleWebhook(context.Background(), webhookRequest(createTextMessageEvent("U1", "hello", 100)))
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if !ack.Handled || ack.Text != "hello" {
		t.Errorf("Expected handled ack with text 'hello', got %+v", ack)
	}

	// Assembled prompt
	prompt := p.completion.LastChatRequest.Messages
	if len(prompt) != 2 {
		t.Fatalf("Expected 2 prompt messages, got %d", len(prompt))
	}
	if prompt[0].Role != domain.ChatMessageRoleSystem || prompt[0].Content != "test persona" {
		t.Errorf("Expected system persona first, got %+v", prompt[0])
	}
	if prompt[1].Role != domain.ChatMessageRoleUser || prompt[1].Content != "hello" {
		t.Errorf("Expected user 'hello' second, got %+v", prompt[1])
	}

	// Dispatched push
	if len(p.lineClient.PushRequests) != 1 {
		t.Fatalf("Expected exactly 1 push, got %d", len(p.lineClient.PushRequests))
	}
	push := p.lineClient.LastPushRequest
	if push.To != "U1" {
		t.Errorf("Expected push to U1, got %s", push.To)
	}
	if len(push.Messages) != 1 || push.Messages[0].Type != domain.LineMessageTypeText || push.Messages[0].Text != "hi there" {
		t.Errorf("Expected one text message 'hi there', got %+v", push.Messages)
	}
	if p.lineClient.LastAccessToken != "test-token" {
		t.Errorf("Expected push with issued token, got %q", p.lineClient.LastAccessToken)
	}
	if p.tokens.Calls != 1 {
		t.Errorf("Expected 1 token exchange, got %d", p.tokens.Calls)
	}

	// Final history
	history := p.store.Histories["U1"]
	want := []domain.ChatTurn{
		{Speaker: domain.SpeakerHuman, Content: "hello", OccurredAt: time.UnixMilli(100)},
		{Speaker: domain.SpeakerBot, Content: "hi there", OccurredAt: time.UnixMilli(100)},
	}
	if len(history) != len(want) {
		t.Fatalf("Expected %d turns, got %d", len(want), len(history))
	}
	for i := range want {
		if history[i].Speaker != want[i].Speaker || history[i].Content != want[i].Content || !history[i].OccurredAt.Equal(want[i].OccurredAt) {
			t.Errorf("Turn %d: expected %+v, got %+v", i, want[i], history[i])
		}
	}
}

// TestHandleWebhook_HistoryIsSentOnFollowUp tests that earlier turns ground later replies
func TestHandleWebhook_HistoryIsSentOnFollowUp(t *testing.T) {
	p := newTestPipeline()
	replies := []string{"hi there", "fine, thanks"}
	p.completion.ChatCompletionFunc = func(ctx context.Context, request domain.ChatCompletionRequest) (*domain.ChatCompletionResponse, error) {
		reply := replies[0]
		replies = replies[1:]
		return &domain.ChatCompletionResponse{Content: reply}, nil
	}

	p.service.HandleWebhook(context.Background(), webhookRequest(createTextMessageEvent("U1", "hello", 100)))
	p.service.HandleWebhook(context.Background(), webhookRequest(createTextMessageEvent("U1", "how are you?", 200)))

	prompt := p.completion.LastChatRequest.Messages
	wantRoles := []domain.ChatMessageRole{
		domain.ChatMessageRoleSystem,
		domain.ChatMessageRoleUser,
		domain.ChatMessageRoleAssistant,
		domain.ChatMessageRoleUser,
	}
	wantContents := []string{"test persona", "hello", "hi there", "how are you?"}

	if len(prompt) != len(wantRoles) {
		t.Fatalf("Expected %d prompt messages, got %d", len(wantRoles), len(prompt))
	}
	for i := range wantRoles {
		if prompt[i].Role != wantRoles[i] || prompt[i].Content != wantContents[i] {
			t.Errorf("Prompt %d: expected %s %q, got %s %q", i, wantRoles[i], wantContents[i], prompt[i].Role, prompt[i].Content)
		}
	}

	if got := len(p.store.Histories["U1"]); got != 4 {
		t.Errorf("Expected 4 stored turns, got %d", got)
	}
}

// TestHandleWebhook_IgnoresUnsupportedEvents tests that skipped events have no side effects
func TestHandleWebhook_IgnoresUnsupportedEvents(t *testing.T) {
	imageEvent := createTextMessageEvent("U1", "", 100)
	imageEvent.Message.Type = domain.LineMessageTypeImage

	stickerEvent := createTextMessageEvent("U1", "", 100)
	stickerEvent.Message.Type = domain.LineMessageTypeSticker

	followEvent := domain.LineWebhookEvent{
		Type:   domain.LineEventTypeFollow,
		Source: domain.LineSource{Type: domain.LineSourceTypeUser, UserID: "U1"},
	}

	followWithText := createTextMessageEvent("U1", "hello", 100)
	followWithText.Type = domain.LineEventTypeFollow

	noMessage := createTextMessageEvent("U1", "hello", 100)
	noMessage.Message = nil

	noUser := createTextMessageEvent("", "hello", 100)
	emptyText := createTextMessageEvent("U1", "", 100)

	tests := []struct {
		name    string
		request domain.LineWebhookRequest
	}{
		{name: "no events", request: webhookRequest()},
		{name: "image message", request: webhookRequest(imageEvent)},
		{name: "sticker message", request: webhookRequest(stickerEvent)},
		{name: "follow event", request: webhookRequest(followEvent)},
		{name: "non-message event carrying text", request: webhookRequest(followWithText)},
		{name: "message event without message", request: webhookRequest(noMessage)},
		{name: "missing user id", request: webhookRequest(noUser)},
		{name: "empty text", request: webhookRequest(emptyText)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newTestPipeline()

			ack, err := p.service.HandleWebhook(context.Background(), tt.request)
			if err != nil {
				t.Errorf("Expected no error, got: %v", err)
			}
			if ack == nil || ack.Handled {
				t.Errorf("Expected unhandled ack, got %+v", ack)
			}
			if p.store.AppendCalls != 0 {
				t.Errorf("Expected no store appends, got %d", p.store.AppendCalls)
			}
			if p.completion.Calls != 0 || p.tokens.Calls != 0 || len(p.lineClient.PushRequests) != 0 {
				t.Errorf("Expected no outbound calls, got completion=%d token=%d push=%d",
					p.completion.Calls, p.tokens.Calls, len(p.lineClient.PushRequests))
			}
		})
	}
}

// TestHandleWebhook_OnlyFirstEventIsProcessed tests that trailing events are ignored
func TestHandleWebhook_OnlyFirstEventIsProcessed(t *testing.T) {
	p := newTestPipeline()

	_, err := p.service.HandleWebhook(context.Background(), webhookRequest(
		createTextMessageEvent("U1", "first", 100),
		createTextMessageEvent("U2", "second", 101),
	))
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if _, ok := p.store.Histories["U2"]; ok {
		t.Error("Expected second event to be ignored")
	}
	if len(p.lineClient.PushRequests) != 1 {
		t.Errorf("Expected 1 push, got %d", len(p.lineClient.PushRequests))
	}

	// An unsupported first event hides a valid second one
	p = newTestPipeline()
	follow := domain.LineWebhookEvent{Type: domain.LineEventTypeFollow, Source: domain.LineSource{UserID: "U1"}}
	p.service.HandleWebhook(context.Background(), webhookRequest(follow, createTextMessageEvent("U1", "hello", 100)))
	if p.store.AppendCalls != 0 {
		t.Errorf("Expected no appends when first event is unsupported, got %d", p.store.AppendCalls)
	}
}

// TestHandleWebhook_NoChoiceSuppressesDispatch tests that a missing completion skips push and bot turn
func TestHandleWebhook_NoChoiceSuppressesDispatch(t *testing.T) {
	tests := []struct {
		name     string
		response *domain.ChatCompletionResponse
		err      error
	}{
		{name: "no choices", err: domain.ErrNoCompletionChoice},
		{name: "timeout", err: domain.ErrCompletionTimeout},
		{name: "empty content", response: &domain.ChatCompletionResponse{Content: "  "}},
		{name: "nil response", response: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newTestPipeline()
			p.completion.ChatCompletionFunc = func(ctx context.Context, request domain.ChatCompletionRequest) (*domain.ChatCompletionResponse, error) {
				return tt.response, tt.err
			}

			ack, err := p.service.HandleWebhook(context.Background(), webhookRequest(createTextMessageEvent("U1", "hello", 100)))
			if err != nil {
				t.Errorf("Expected no error, got: %v", err)
			}
			if !ack.Handled {
				t.Errorf("Expected handled ack, got %+v", ack)
			}
			if p.tokens.Calls != 0 || len(p.lineClient.PushRequests) != 0 {
				t.Errorf("Expected no token exchange and no push, got token=%d push=%d", p.tokens.Calls, len(p.lineClient.PushRequests))
			}
			if got := len(p.store.Histories["U1"]); got != 1 {
				t.Errorf("Expected only the human turn, got %d turns", got)
			}
		})
	}
}

// TestHandleWebhook_PushFailureKeepsHumanTurn tests the fire-and-forget dispatch policy
func TestHandleWebhook_PushFailureKeepsHumanTurn(t *testing.T) {
	p := newTestPipeline()
	p.lineClient.PushMessageFunc = func(ctx context.Context, accessToken string, request domain.LinePushMessageRequest) (*domain.LineMessageResponse, error) {
		return nil, domain.ErrPushFailed
	}

	ack, err := p.service.HandleWebhook(context.Background(), webhookRequest(createTextMessageEvent("U1", "hello", 100)))
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if !ack.Handled || ack.Text != "hello" {
		t.Errorf("Expected handled ack with text 'hello', got %+v", ack)
	}

	history := p.store.Histories["U1"]
	if len(history) != 1 || history[0].Speaker != domain.SpeakerHuman {
		t.Errorf("Expected only the human turn to remain, got %+v", history)
	}
}

// TestHandleWebhook_EmptyTokenAbortsDispatch tests that an empty token is never used for a push
func TestHandleWebhook_EmptyTokenAbortsDispatch(t *testing.T) {
	tests := []struct {
		name  string
		token *domain.AccessToken
		err   error
	}{
		{name: "empty access token", token: &domain.AccessToken{AccessToken: "", ExpiresIn: 0}},
		{name: "nil token", token: nil},
		{name: "exchange failure", err: domain.ErrTokenExchange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newTestPipeline()
			p.tokens.IssueAccessTokenFunc = func(ctx context.Context) (*domain.AccessToken, error) {
				return tt.token, tt.err
			}

			ack, err := p.service.HandleWebhook(context.Background(), webhookRequest(createTextMessageEvent("U1", "hello", 100)))
			if err != nil {
				t.Fatalf("Expected no error, got: %v", err)
			}
			if !ack.Handled {
				t.Errorf("Expected handled ack, got %+v", ack)
			}
			if len(p.lineClient.PushRequests) != 0 {
				t.Errorf("Expected no push, got %d", len(p.lineClient.PushRequests))
			}
			if got := len(p.store.Histories["U1"]); got != 1 {
				t.Errorf("Expected only the human turn, got %d turns", got)
			}
		})
	}
}

// TestHandleWebhook_StoreFailureIsReturned tests that failing to record the human turn is an error
func TestHandleWebhook_StoreFailureIsReturned(t *testing.T) {
	p := newTestPipeline()
	storeErr := errors.New("store down")
	p.store.AppendTurnFunc = func(userID string, turn domain.ChatTurn) error {
		return storeErr
	}

	ack, err := p.service.HandleWebhook(context.Background(), webhookRequest(createTextMessageEvent("U1", "hello", 100)))
	if !errors.Is(err, storeErr) {
		t.Errorf("Expected store error, got: %v", err)
	}
	if ack != nil {
		t.Errorf("Expected nil ack, got %+v", ack)
	}
	if p.completion.Calls != 0 {
		t.Errorf("Expected no completion call, got %d", p.completion.Calls)
	}
}

// TestHandleWebhook_EchoMode tests the pipeline with the echo generator
func TestHandleWebhook_EchoMode(t *testing.T) {
	p := newTestPipeline()
	generator, err := NewReplyGenerator(ReplyGeneratorConfig{Mode: ReplyModeEcho}, nil)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	p.service = NewLineWebhookService(p.store, generator, NewReplyDispatcher(p.tokens, p.lineClient))

	p.service.HandleWebhook(context.Background(), webhookRequest(createTextMessageEvent("U1", "こんにちは", 100)))

	if p.completion.Calls != 0 {
		t.Errorf("Expected no completion call in echo mode, got %d", p.completion.Calls)
	}
	if p.lineClient.LastPushRequest == nil {
		t.Fatal("Expected a push")
	}
	if got := p.lineClient.LastPushRequest.Messages[0].Text; got != "「こんにちは」と言いましたね？" {
		t.Errorf("Unexpected echo reply: %q", got)
	}

	history := p.store.Histories["U1"]
	if len(history) != 2 || history[1].Content != "「こんにちは」と言いましたね？" {
		t.Errorf("Expected echo reply recorded as bot turn, got %+v", history)
	}
}
