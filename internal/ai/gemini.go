package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

const defaultGeminiModel = "gemini-1.5-pro"

// GeminiProvider talks to Google's Gemini models through the genai SDK.
// Each Chat call replays the given history into a fresh SDK chat, so the
// provider itself holds no per-user state.
type GeminiProvider struct {
	client *genai.Client
	Model  string
}

// NewGeminiProvider builds a provider for model. Extra client options, such as a
// custom endpoint, are applied after the API key.
func NewGeminiProvider(ctx context.Context, apiKey, model string, opts ...option.ClientOption) (*GeminiProvider, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("gemini: api key is required")
	}
	if model == "" {
		model = defaultGeminiModel
	}
	client, err := genai.NewClient(ctx, append([]option.ClientOption{option.WithAPIKey(apiKey)}, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("gemini: new client: %w", err)
	}
	return &GeminiProvider{client: client, Model: model}, nil
}

func (p *GeminiProvider) Close() error {
	return p.client.Close()
}

func (p *GeminiProvider) Chat(ctx context.Context, messages []Message) (string, error) {
	if len(messages) == 0 {
		return "", errors.New("gemini: no messages")
	}
	last := messages[len(messages)-1]

	cs := p.client.GenerativeModel(p.Model).StartChat()
	cs.History = make([]*genai.Content, 0, len(messages)-1)
	for _, m := range messages[:len(messages)-1] {
		role := m.Role
		if role != RoleUser {
			role = RoleModel
		}
		cs.History = append(cs.History, &genai.Content{
			Role:  role,
			Parts: []genai.Part{genai.Text(m.Content)},
		})
	}

	resp, err := cs.SendMessage(ctx, genai.Text(last.Content))
	if err != nil {
		// safety and recitation blocks come back as errors but carry no reply text
		var blocked *genai.BlockedError
		if errors.As(err, &blocked) {
			return "", errors.Join(ErrNoText, fmt.Errorf("gemini: %w", err))
		}
		return "", fmt.Errorf("gemini: %w", err)
	}

	var b strings.Builder
	found := false
	for _, cand := range resp.Candidates {
		if cand == nil || cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if t, ok := part.(genai.Text); ok {
				b.WriteString(string(t))
				found = true
			}
		}
		if found {
			break
		}
	}
	if !found {
		return "", ErrNoText
	}
	return b.String(), nil
}
