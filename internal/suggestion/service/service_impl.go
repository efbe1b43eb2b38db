package service

import (
	"context"
	"fmt"
	"strings"

	sessiondomain "github.com/connectplus/connectplus/internal/session/domain"
	"github.com/connectplus/connectplus/internal/suggestion/domain"
	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const (
	replyInstruction = "You are a professional customer support administrator. " +
		"Based on the chat history below, draft exactly one concise, helpful reply. " +
		"Output only the reply."
	summaryInstruction = "Summarize the following chat in about 3 lines."

	replyTemperature   = 0.7
	summaryTemperature = 0.5
	replyMaxTokens     = 200
)

// CompletionClient is the slice of the OpenAI client the service uses.
type CompletionClient interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

type Params struct {
	fx.In

	Cfg Config
	Log *zap.Logger
}

type Service struct {
	cfg    Config
	log    *zap.Logger
	client CompletionClient
}

func New(p Params) domain.Service {
	clientCfg := openai.DefaultConfig(p.Cfg.APIKey)
	if p.Cfg.BaseURL != "" {
		clientCfg.BaseURL = p.Cfg.BaseURL
	}
	return &Service{
		cfg:    p.Cfg,
		log:    p.Log.Named("suggestion.service"),
		client: openai.NewClientWithConfig(clientCfg),
	}
}

// NewWithClient wires a custom completion client; used by tests.
func NewWithClient(cfg Config, log *zap.Logger, client CompletionClient) domain.Service {
	return &Service{cfg: cfg, log: log.Named("suggestion.service"), client: client}
}

func (s *Service) SuggestReply(ctx context.Context, messages []sessiondomain.Message) (string, error) {
	tail := messages
	if len(tail) > s.cfg.HistoryWindow {
		tail = tail[len(tail)-s.cfg.HistoryWindow:]
	}
	prompt := fmt.Sprintf("%s\n\nChat history:\n%s", replyInstruction, renderTranscript(tail))
	return s.complete(ctx, prompt, replyTemperature, replyMaxTokens)
}

func (s *Service) Summarize(ctx context.Context, messages []sessiondomain.Message) (string, error) {
	prompt := fmt.Sprintf("%s\n\n%s", summaryInstruction, renderTranscript(messages))
	return s.complete(ctx, prompt, summaryTemperature, 0)
}

func (s *Service) complete(ctx context.Context, prompt string, temperature float32, maxTokens int) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()

	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: s.cfg.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: temperature,
		MaxTokens:   maxTokens,
	})
	if err != nil {
		s.log.Warn("completion failed", zap.Error(err))
		return "", fmt.Errorf("%w: %v", domain.ErrUnavailable, err)
	}
	if len(resp.Choices) == 0 {
		return "", domain.ErrUnavailable
	}

	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	if text == "" {
		return "", domain.ErrUnavailable
	}
	return text, nil
}

func renderTranscript(messages []sessiondomain.Message) string {
	lines := make([]string, 0, len(messages))
	for _, m := range messages {
		text := m.Text
		if text == "" {
			text = "[Image]"
		}
		lines = append(lines, fmt.Sprintf("%s: %s", m.SenderName, text))
	}
	return strings.Join(lines, "\n")
}
