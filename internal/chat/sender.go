// Package chat talks to the language model on the pet's behalf.
package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/adk/model"
	"google.golang.org/genai"

	"github.com/easeaico/deskpet/internal/utils"
)

// ErrEmptyReply is returned when the model answers with no text.
var ErrEmptyReply = errors.New("model returned an empty reply")

// Sender sends a prompt and returns the model's text.
type Sender interface {
	Send(ctx context.Context, prompt string) (string, error)
}

// SenderFunc adapts a function to Sender.
type SenderFunc func(ctx context.Context, prompt string) (string, error)

// Send calls f(ctx, prompt).
func (f SenderFunc) Send(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}

// LLMSender sends prompts through an ADK model.
type LLMSender struct {
	model model.LLM
}

// NewLLMSender returns an LLMSender.
func NewLLMSender(m model.LLM) *LLMSender {
	return &LLMSender{model: m}
}

// Send issues prompt as a single user turn and returns the reply text.
func (s *LLMSender) Send(ctx context.Context, prompt string) (string, error) {
	if s == nil || s.model == nil {
		return "", fmt.Errorf("chat sender not configured")
	}

	req := &model.LLMRequest{
		Contents: []*genai.Content{
			genai.NewContentFromText(prompt, genai.RoleUser),
		},
	}

	var sb strings.Builder
	for resp, err := range s.model.GenerateContent(ctx, req, false) {
		if err != nil {
			return "", fmt.Errorf("failed to generate reply: %w", err)
		}
		if resp == nil || resp.Content == nil || resp.Partial {
			continue
		}
		sb.WriteString(utils.ExtractContentText(resp.Content))
	}

	text := strings.TrimSpace(sb.String())
	if text == "" {
		return "", ErrEmptyReply
	}
	return text, nil
}
