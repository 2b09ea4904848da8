package application

import (
	"sort"

	"golang-line-chatbot/internal/domain"
)

// DefaultSystemPrompt is the persona preamble sent ahead of every conversation
const DefaultSystemPrompt = "You are a friendly assistant chatting with a user on LINE. " +
	"Keep replies short and conversational, and answer in the language the user writes in."

// ContextAssembler turns a stored history into a completion prompt
type ContextAssembler struct {
	systemPrompt string
}

// NewContextAssembler creates an assembler with the given persona preamble.
// An empty prompt falls back to DefaultSystemPrompt.
func NewContextAssembler(systemPrompt string) *ContextAssembler {
	if systemPrompt == "" {
		systemPrompt = DefaultSystemPrompt
	}
	return &ContextAssembler{systemPrompt: systemPrompt}
}

// SystemPrompt returns the preamble used for every prompt
func (a *ContextAssembler) SystemPrompt() string {
	return a.systemPrompt
}

// Assemble orders the history by timestamp and maps it to role-tagged messages,
// behind one system message. The whole history is used; nothing is trimmed.
// Turns sharing a timestamp keep their append order.
func (a *ContextAssembler) Assemble(history []domain.ChatTurn) []domain.ChatMessage {
	turns := make([]domain.ChatTurn, len(history))
	copy(turns, history)

	sort.SliceStable(turns, func(i, j int) bool {
		return turns[i].OccurredAt.Before(turns[j].OccurredAt)
	})

	messages := make([]domain.ChatMessage, 0, len(turns)+1)
	messages = append(messages, domain.ChatMessage{
		Role:    domain.ChatMessageRoleSystem,
		Content: a.systemPrompt,
	})

	for _, turn := range turns {
		messages = append(messages, domain.ChatMessage{
			Role:    roleFor(turn.Speaker),
			Content: turn.Content,
		})
	}

	return messages
}

func roleFor(speaker domain.Speaker) domain.ChatMessageRole {
	if speaker == domain.SpeakerBot {
		return domain.ChatMessageRoleAssistant
	}
	return domain.ChatMessageRoleUser
}
