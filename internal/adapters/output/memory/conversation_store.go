package memory

import (
	"sort"
	"sync"

	"golang-line-chatbot/internal/domain"
	"golang-line-chatbot/internal/ports/output"
)

// Compile-time check to ensure ConversationStore implements the output port
var _ output.ConversationStore = (*ConversationStore)(nil)

// ConversationStore struct - Output adapter for in-memory conversation storage
// Histories live for the lifetime of the process. Appends for different requests
// of the same user may interleave in either order.
type ConversationStore struct {
	mu        sync.RWMutex
	histories map[string][]domain.ChatTurn
}

// NewConversationStore creates an empty in-memory conversation store
func NewConversationStore() *ConversationStore {
	return &ConversationStore{
		histories: make(map[string][]domain.ChatTurn),
	}
}

// AppendTurn appends a turn to the user's history, creating the history on first use.
func (m *ConversationStore) AppendTurn(userID string, turn domain.ChatTurn) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.histories[userID] = append(m.histories[userID], turn)
	return nil
}

// GetHistory returns a copy of the user's history in append order.
func (m *ConversationStore) GetHistory(userID string) ([]domain.ChatTurn, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	turns := m.histories[userID]
	if len(turns) == 0 {
		return []domain.ChatTurn{}, nil
	}

	// Return a copy to prevent external modification
	history := make([]domain.ChatTurn, len(turns))
	copy(history, turns)
	return history, nil
}

// Users returns the IDs of every user with a stored history, sorted.
func (m *ConversationStore) Users() ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	users := make([]string, 0, len(m.histories))
	for userID := range m.histories {
		users = append(users, userID)
	}
	sort.Strings(users)
	return users, nil
}
