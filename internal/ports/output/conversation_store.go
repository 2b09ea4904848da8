package output

import "golang-line-chatbot/internal/domain"

// ConversationStore interface - Output port
// Per-user ordered history of chat turns. Histories are created lazily on the
// first append and are never deleted.
type ConversationStore interface {
	// AppendTurn appends a turn to the user's history, creating it if needed.
	AppendTurn(userID string, turn domain.ChatTurn) error

	// GetHistory returns a snapshot of the user's history in append order.
	// Unknown users yield an empty slice.
	GetHistory(userID string) ([]domain.ChatTurn, error)

	// Users returns the IDs of every user with a stored history, sorted.
	Users() ([]string, error)
}
