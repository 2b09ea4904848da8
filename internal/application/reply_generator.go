package application

import (
	"context"
	"fmt"
	"strings"

	"golang-line-chatbot/internal/domain"
	"golang-line-chatbot/internal/ports/output"

	"github.com/sirupsen/logrus"
)

// Reply generation modes
const (
	ReplyModeEcho       = "echo"
	ReplyModeStatic     = "static"
	ReplyModeCompletion = "completion"
)

const (
	defaultEchoFormat = "「%s」と言いましたね？"
	defaultStaticText = "メッセージありがとうございます！"
)

// ReplyGenerator produces the reply for one inbound message.
// An empty reply with a nil error means there is nothing to send.
type ReplyGenerator interface {
	GenerateReply(ctx context.Context, event domain.InboundEvent, history []domain.ChatTurn) (string, error)
}

// ReplyGeneratorConfig holds the settings for every generator mode
type ReplyGeneratorConfig struct {
	Mode         string
	EchoFormat   string
	StaticText   string
	SystemPrompt string
}

// NormalizeReplyMode lowercases a configured mode. An empty mode means completion.
func NormalizeReplyMode(mode string) string {
	mode = strings.ToLower(strings.TrimSpace(mode))
	if mode == "" {
		return ReplyModeCompletion
	}
	return mode
}

// NewReplyGenerator selects a generator by mode. The completion client is only
// required in completion mode.
func NewReplyGenerator(config ReplyGeneratorConfig, client output.CompletionClient) (ReplyGenerator, error) {
	switch NormalizeReplyMode(config.Mode) {
	case ReplyModeEcho:
		return NewEchoReplyGenerator(config.EchoFormat), nil
	case ReplyModeStatic:
		return NewStaticReplyGenerator(config.StaticText), nil
	case ReplyModeCompletion:
		if client == nil {
			return nil, fmt.Errorf("completion reply mode requires a completion client")
		}
		return NewCompletionReplyGenerator(NewContextAssembler(config.SystemPrompt), client), nil
	default:
		return nil, fmt.Errorf("unknown reply mode: %s", config.Mode)
	}
}

// EchoReplyGenerator repeats the user's text back inside a template
type EchoReplyGenerator struct {
	format string
}

// NewEchoReplyGenerator func - format must contain one %s verb
func NewEchoReplyGenerator(format string) *EchoReplyGenerator {
	if format == "" || !strings.Contains(format, "%s") {
		format = defaultEchoFormat
	}
	return &EchoReplyGenerator{format: format}
}

// GenerateReply func
func (g *EchoReplyGenerator) GenerateReply(_ context.Context, event domain.InboundEvent, _ []domain.ChatTurn) (string, error) {
	return fmt.Sprintf(g.format, event.Text), nil
}

// StaticReplyGenerator answers every message with the same canned text
type StaticReplyGenerator struct {
	text string
}

// NewStaticReplyGenerator func
func NewStaticReplyGenerator(text string) *StaticReplyGenerator {
	if text == "" {
		text = defaultStaticText
	}
	return &StaticReplyGenerator{text: text}
}

// GenerateReply func
func (g *StaticReplyGenerator) GenerateReply(_ context.Context, _ domain.InboundEvent, _ []domain.ChatTurn) (string, error) {
	return g.text, nil
}

// CompletionReplyGenerator asks the completion service to continue the conversation
type CompletionReplyGenerator struct {
	assembler *ContextAssembler
	client    output.CompletionClient
}

// NewCompletionReplyGenerator func
func NewCompletionReplyGenerator(assembler *ContextAssembler, client output.CompletionClient) *CompletionReplyGenerator {
	return &CompletionReplyGenerator{
		assembler: assembler,
		client:    client,
	}
}

// GenerateReply sends the assembled history and returns the first choice's content
func (g *CompletionReplyGenerator) GenerateReply(ctx context.Context, event domain.InboundEvent, history []domain.ChatTurn) (string, error) {
	messages := g.assembler.Assemble(history)

	logrus.WithFields(logrus.Fields{
		"user_id":  event.UserID,
		"messages": len(messages),
	}).Debug("Requesting chat completion")

	response, err := g.client.ChatCompletion(ctx, domain.ChatCompletionRequest{
		Messages: messages,
	})
	if err != nil {
		return "", fmt.Errorf("failed to generate reply: %w", err)
	}
	if response == nil {
		return "", nil
	}

	return strings.TrimSpace(response.Content), nil
}
