package application

import (
	"context"
	"fmt"

	"golang-line-chatbot/internal/domain"
	"golang-line-chatbot/internal/ports/input"
	"golang-line-chatbot/internal/ports/output"

	"github.com/sirupsen/logrus"
)

var _ input.LineWebhookService = (*LineWebhookService)(nil)

// LineWebhookService struct - Application service implementing the LINE webhook use case
type LineWebhookService struct {
	store      output.ConversationStore
	generator  ReplyGenerator
	dispatcher *ReplyDispatcher
}

// NewLineWebhookService func - Creates new LINE webhook service
func NewLineWebhookService(store output.ConversationStore, generator ReplyGenerator, dispatcher *ReplyDispatcher) *LineWebhookService {
	return &LineWebhookService{
		store:      store,
		generator:  generator,
		dispatcher: dispatcher,
	}
}

// HandleWebhook func - Use case: process the first event of an inbound webhook
//
// Only the first event is considered and only text messages are handled; anything
// else is acknowledged without side effects. Once the human turn is recorded, failures
// of reply generation or dispatch are logged and never fail the webhook. The bot turn
// is recorded only after a successful push.
func (s *LineWebhookService) HandleWebhook(ctx context.Context, request domain.LineWebhookRequest) (*domain.WebhookAck, error) {
	event, ok := request.FirstEvent()
	if !ok {
		logrus.Debug("Webhook without events, nothing to do")
		return &domain.WebhookAck{}, nil
	}

	fields := logrus.Fields{
		"event_type": event.Type,
		"user_id":    event.Source.UserID,
	}
	if event.Message != nil {
		fields["message_type"] = event.Message.Type
	}
	log := logrus.WithFields(fields)

	if len(request.Events) > 1 {
		log.Debugf("Ignoring %d trailing events", len(request.Events)-1)
	}

	inbound, ok := event.Inbound()
	if !ok {
		log.Info("Ignoring unsupported event")
		return &domain.WebhookAck{}, nil
	}

	humanTurn := domain.NewHumanTurn(inbound)
	if err := s.store.AppendTurn(inbound.UserID, humanTurn); err != nil {
		return nil, fmt.Errorf("failed to record human turn: %w", err)
	}

	ack := &domain.WebhookAck{Handled: true, Text: inbound.Text}

	history, err := s.store.GetHistory(inbound.UserID)
	if err != nil {
		log.Errorf("Failed to load history: %v", err)
		return ack, nil
	}

	reply, err := s.generator.GenerateReply(ctx, inbound, history)
	if err != nil {
		log.Errorf("Failed to generate reply: %v", err)
		return ack, nil
	}
	if reply == "" {
		log.Info("No reply generated")
		return ack, nil
	}

	if err := s.dispatcher.Dispatch(ctx, inbound.UserID, reply); err != nil {
		log.Errorf("Failed to dispatch reply: %v", err)
		return ack, nil
	}

	if err := s.store.AppendTurn(inbound.UserID, domain.NewBotTurn(reply, humanTurn)); err != nil {
		log.Errorf("Failed to record bot turn: %v", err)
	}

	log.Infof("Replied to user, history length: %d", len(history)+1)

	return ack, nil
}
