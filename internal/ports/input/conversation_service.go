package input

import "golang-line-chatbot/internal/domain"

// ConversationService interface - Input port (use case)
// Read-only access to stored conversations
type ConversationService interface {
	GetHistory(userID string) ([]domain.ChatTurn, error)
	ListUsers() ([]string, error)
}
