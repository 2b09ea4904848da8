package application

import (
	"golang-line-chatbot/internal/domain"
	"golang-line-chatbot/internal/ports/input"
	"golang-line-chatbot/internal/ports/output"
)

var _ input.ConversationService = (*ConversationService)(nil)

// ConversationService struct - Application service exposing stored conversations
type ConversationService struct {
	store output.ConversationStore
}

// NewConversationService func
func NewConversationService(store output.ConversationStore) *ConversationService {
	return &ConversationService{store: store}
}

// GetHistory func - Use case: read a user's history in append order
func (s *ConversationService) GetHistory(userID string) ([]domain.ChatTurn, error) {
	return s.store.GetHistory(userID)
}

// ListUsers func - Use case: list every user with a stored conversation
func (s *ConversationService) ListUsers() ([]string, error) {
	return s.store.Users()
}
