package ai

import (
	"context"
	"errors"
)

const (
	RoleUser  = "user"
	RoleModel = "model"
)

var (
	// ErrNoText is returned by providers when the upstream reply carries no text payload.
	ErrNoText = errors.New("ai: response has no text")
	// ErrTimeout is returned when a call does not complete before its deadline.
	ErrTimeout = errors.New("ai: call timed out")
)

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Provider sends a full conversation (oldest first) and returns the model reply.
type Provider interface {
	Chat(ctx context.Context, messages []Message) (string, error)
}

// assistantRole maps the neutral "model" role onto the OpenAI-style role name.
func assistantRole(role string) string {
	if role == RoleModel {
		return "assistant"
	}
	return role
}
