package http

import (
	"encoding/json"

	"golang-line-chatbot/internal/domain"
	"golang-line-chatbot/internal/ports/input"

	"github.com/gofiber/fiber/v2"
	"github.com/line/line-bot-sdk-go/v8/linebot/webhook"
	"github.com/sirupsen/logrus"
)

// LineWebhookHandler struct - Primary/Driving adapter for LINE webhook
type LineWebhookHandler struct {
	service input.LineWebhookService
}

// NewLineWebhookHandler func - Creates new LINE webhook handler
func NewLineWebhookHandler(service input.LineWebhookService) *LineWebhookHandler {
	return &LineWebhookHandler{
		service: service,
	}
}

// callbackEnvelope holds the raw events of a webhook body. Only the first one is
// decoded into SDK types, so a malformed trailing event cannot reject the request.
type callbackEnvelope struct {
	Destination string            `json:"destination"`
	Events      []json.RawMessage `json:"events"`
}

// HandleWebhook func - Handles incoming LINE webhook requests
// Malformed bodies are acknowledged like any other unsupported event.
// @Summary LINE Webhook
// @Description Handles webhook events from LINE Messaging API. Only the first event is processed.
// @Tags LINE
// @Accept application/json
// @Produce plain
// @Success 200 {string} string "received text"
// @Router /webhook/line [post]
func (h *LineWebhookHandler) HandleWebhook(c *fiber.Ctx) error {
	cb, err := h.parseFirstEvent(c.Body())
	if err != nil {
		logrus.Warnf("Ignoring unparsable webhook body: %v", err)
		return c.Status(fiber.StatusOK).SendString("")
	}

	// Convert LINE SDK events to domain events
	domainEvents := make([]domain.LineWebhookEvent, 0, len(cb.Events))
	for _, event := range cb.Events {
		domainEvent := h.convertToDomainEvent(event)
		if domainEvent != nil {
			domainEvents = append(domainEvents, *domainEvent)
		}
	}

	ack, err := h.service.HandleWebhook(c.UserContext(), domain.LineWebhookRequest{Events: domainEvents})
	if err != nil {
		logrus.Errorf("Failed to handle webhook: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(ResponseBody{Status: InternalServerError})
	}

	if ack == nil || !ack.Handled {
		return c.Status(fiber.StatusOK).SendString("")
	}

	return c.Status(fiber.StatusOK).SendString(ack.Text)
}

// parseFirstEvent decodes the body into an SDK callback holding at most the first event
func (h *LineWebhookHandler) parseFirstEvent(body []byte) (*webhook.CallbackRequest, error) {
	var envelope callbackEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, err
	}

	if len(envelope.Events) == 0 {
		return &webhook.CallbackRequest{Destination: envelope.Destination}, nil
	}

	if len(envelope.Events) > 1 {
		logrus.Debugf("Ignoring %d trailing events", len(envelope.Events)-1)
		envelope.Events = envelope.Events[:1]
	}

	firstOnly, err := json.Marshal(envelope)
	if err != nil {
		return nil, err
	}

	var cb webhook.CallbackRequest
	if err := json.Unmarshal(firstOnly, &cb); err != nil {
		return nil, err
	}
	return &cb, nil
}

// convertToDomainEvent - Converts LINE SDK event to domain event
func (h *LineWebhookHandler) convertToDomainEvent(event webhook.EventInterface) *domain.LineWebhookEvent {
	switch e := event.(type) {
	case webhook.MessageEvent:
		return h.convertMessageEvent(e)
	case webhook.FollowEvent:
		return &domain.LineWebhookEvent{
			Type:       domain.LineEventTypeFollow,
			Timestamp:  domain.FromLineTimestamp(e.Timestamp),
			ReplyToken: e.ReplyToken,
			Source:     h.convertSource(e.Source),
		}
	case webhook.UnfollowEvent:
		return &domain.LineWebhookEvent{
			Type:      domain.LineEventTypeUnfollow,
			Timestamp: domain.FromLineTimestamp(e.Timestamp),
			Source:    h.convertSource(e.Source),
		}
	default:
		logrus.Warnf("Unsupported event type: %T", event)
		return nil
	}
}

// convertMessageEvent - Converts message event
func (h *LineWebhookHandler) convertMessageEvent(event webhook.MessageEvent) *domain.LineWebhookEvent {
	domainEvent := &domain.LineWebhookEvent{
		Type:       domain.LineEventTypeMessage,
		Timestamp:  domain.FromLineTimestamp(event.Timestamp),
		ReplyToken: event.ReplyToken,
		Source:     h.convertSource(event.Source),
	}

	switch msg := event.Message.(type) {
	case webhook.TextMessageContent:
		domainEvent.Message = &domain.LineMessage{
			ID:   msg.Id,
			Type: domain.LineMessageTypeText,
			Text: msg.Text,
		}
	case webhook.StickerMessageContent:
		domainEvent.Message = &domain.LineMessage{
			ID:   msg.Id,
			Type: domain.LineMessageTypeSticker,
		}
	case webhook.ImageMessageContent:
		domainEvent.Message = &domain.LineMessage{
			ID:   msg.Id,
			Type: domain.LineMessageTypeImage,
		}
	default:
		logrus.Warnf("Unsupported message type: %T", msg)
		return nil
	}

	return domainEvent
}

// convertSource - Converts event source
func (h *LineWebhookHandler) convertSource(source webhook.SourceInterface) domain.LineSource {
	switch s := source.(type) {
	case webhook.UserSource:
		return domain.LineSource{
			Type:   domain.LineSourceTypeUser,
			UserID: s.UserId,
		}
	case webhook.GroupSource:
		return domain.LineSource{
			Type:   domain.LineSourceTypeGroup,
			UserID: s.UserId,
		}
	case webhook.RoomSource:
		return domain.LineSource{
			Type:   domain.LineSourceTypeRoom,
			UserID: s.UserId,
		}
	default:
		return domain.LineSource{}
	}
}
