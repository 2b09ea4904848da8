package domain

// ChatMessageRole represents the role of a message in a chat completion prompt
type ChatMessageRole string

const (
	// ChatMessageRoleSystem - fixed instruction preamble
	ChatMessageRoleSystem ChatMessageRole = "system"
	// ChatMessageRoleUser - message written by the LINE user
	ChatMessageRoleUser ChatMessageRole = "user"
	// ChatMessageRoleAssistant - message written by the bot
	ChatMessageRoleAssistant ChatMessageRole = "assistant"
)

// ChatMessage is one role-tagged entry of a completion prompt
type ChatMessage struct {
	Role    ChatMessageRole
	Content string
}

// ChatCompletionRequest is what the application sends to the completion service.
// Model and temperature are fixed by the client's configuration.
type ChatCompletionRequest struct {
	Messages []ChatMessage
}

// ChatCompletionResponse holds the first choice returned by the completion service
type ChatCompletionResponse struct {
	Content          string
	Model            string
	FinishReason     string
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}
