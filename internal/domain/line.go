package domain

import "time"

// LineEventType represents the type of webhook event from LINE
type LineEventType string

const (
	// LineEventTypeMessage - Message event
	LineEventTypeMessage LineEventType = "message"
	// LineEventTypeFollow - Follow event
	LineEventTypeFollow LineEventType = "follow"
	// LineEventTypeUnfollow - Unfollow event
	LineEventTypeUnfollow LineEventType = "unfollow"
	// LineEventTypePostback - Postback event
	LineEventTypePostback LineEventType = "postback"
)

// LineMessageType represents the type of message
type LineMessageType string

const (
	// LineMessageTypeText - Text message
	LineMessageTypeText LineMessageType = "text"
	// LineMessageTypeImage - Image message
	LineMessageTypeImage LineMessageType = "image"
	// LineMessageTypeSticker - Sticker message
	LineMessageTypeSticker LineMessageType = "sticker"
)

// LineSourceType represents the source type of the event
type LineSourceType string

const (
	// LineSourceTypeUser - User source
	LineSourceTypeUser LineSourceType = "user"
	// LineSourceTypeGroup - Group source
	LineSourceTypeGroup LineSourceType = "group"
	// LineSourceTypeRoom - Room source
	LineSourceTypeRoom LineSourceType = "room"
)

// LineWebhookEvent represents a LINE webhook event as received, before validation.
// Message is nil for non-message events or when the payload omitted it.
type LineWebhookEvent struct {
	Type       LineEventType
	Timestamp  time.Time
	Source     LineSource
	ReplyToken string
	Message    *LineMessage
}

// LineSource represents the source of the event
type LineSource struct {
	Type   LineSourceType
	UserID string
}

// LineMessage represents a message from LINE
type LineMessage struct {
	ID   string
	Type LineMessageType
	Text string
}

// InboundEvent is the validated projection of a webhook event: a text message
// from an identifiable user.
type InboundEvent struct {
	Kind        LineEventType
	MessageKind LineMessageType
	UserID      string
	Text        string
	Timestamp   time.Time
}

// FirstEvent returns the first event of the request, if any.
func (r LineWebhookRequest) FirstEvent() (LineWebhookEvent, bool) {
	if len(r.Events) == 0 {
		return LineWebhookEvent{}, false
	}
	return r.Events[0], true
}

// Inbound validates the event and projects it to an InboundEvent.
// Only text messages with a sender and non-empty text pass.
func (e LineWebhookEvent) Inbound() (InboundEvent, bool) {
	if e.Type != LineEventTypeMessage || e.Message == nil {
		return InboundEvent{}, false
	}
	if e.Message.Type != LineMessageTypeText {
		return InboundEvent{}, false
	}
	if e.Source.UserID == "" || e.Message.Text == "" {
		return InboundEvent{}, false
	}
	return InboundEvent{
		Kind:        e.Type,
		MessageKind: e.Message.Type,
		UserID:      e.Source.UserID,
		Text:        e.Message.Text,
		Timestamp:   e.Timestamp,
	}, true
}
