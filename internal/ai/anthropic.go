package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	anthropic "github.com/liushuangls/go-anthropic/v2"
)

const (
	defaultAnthropicModel     = "claude-3-5-sonnet-latest"
	defaultAnthropicMaxTokens = 2048
)

type AnthropicProvider struct {
	client    *anthropic.Client
	Model     string
	MaxTokens int
}

func NewAnthropicProvider(apiKey, model string, opts ...anthropic.ClientOption) (*AnthropicProvider, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("anthropic: api key is required")
	}
	if model == "" {
		model = defaultAnthropicModel
	}
	return &AnthropicProvider{
		client:    anthropic.NewClient(apiKey, opts...),
		Model:     model,
		MaxTokens: defaultAnthropicMaxTokens,
	}, nil
}

func (p *AnthropicProvider) Chat(ctx context.Context, messages []Message) (string, error) {
	msgs := make([]anthropic.Message, 0, len(messages))
	for _, m := range messages {
		role := anthropic.RoleUser
		if m.Role != RoleUser {
			role = anthropic.RoleAssistant
		}
		msgs = append(msgs, anthropic.Message{
			Role:    role,
			Content: []anthropic.MessageContent{anthropic.NewTextMessageContent(m.Content)},
		})
	}

	resp, err := p.client.CreateMessages(ctx, anthropic.MessagesRequest{
		Model:     anthropic.Model(p.Model),
		Messages:  msgs,
		MaxTokens: p.MaxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("anthropic: %w", err)
	}

	var b strings.Builder
	found := false
	for _, block := range resp.Content {
		if block.Type == anthropic.MessagesContentTypeText && block.Text != nil {
			b.WriteString(*block.Text)
			found = true
		}
	}
	if !found {
		return "", ErrNoText
	}
	return b.String(), nil
}
