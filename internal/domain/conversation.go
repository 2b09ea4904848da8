package domain

import "time"

// Speaker identifies who produced a chat turn
type Speaker string

const (
	// SpeakerHuman - turn received from the user
	SpeakerHuman Speaker = "human"
	// SpeakerBot - turn sent by this service
	SpeakerBot Speaker = "bot"
)

// ChatTurn is one message exchanged with a LINE user
type ChatTurn struct {
	Speaker    Speaker
	Content    string
	OccurredAt time.Time
}

// NewHumanTurn builds the turn recorded for an inbound message.
func NewHumanTurn(event InboundEvent) ChatTurn {
	return ChatTurn{
		Speaker:    SpeakerHuman,
		Content:    event.Text,
		OccurredAt: event.Timestamp,
	}
}

// NewBotTurn builds the turn recorded for a reply. It carries the timestamp of
// the human turn that triggered it, not the send time.
func NewBotTurn(reply string, trigger ChatTurn) ChatTurn {
	return ChatTurn{
		Speaker:    SpeakerBot,
		Content:    reply,
		OccurredAt: trigger.OccurredAt,
	}
}
