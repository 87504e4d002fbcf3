package service

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
)

// ChatCompleter is the slice of the OpenAI client the responder needs.
type ChatCompleter interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// NewCompletionClient builds a client for any OpenAI-compatible endpoint.
func NewCompletionClient(apiKey, baseURL, timeout string) *openai.Client {
	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}

	dur, err := time.ParseDuration(timeout)
	if err != nil {
		dur = 150 * time.Second
	}
	config.HTTPClient = &http.Client{
		Timeout: dur,
	}

	return openai.NewClientWithConfig(config)
}

// Responder produces one automated reply per visitor message. Only the
// latest message is sent to the model; no prior-turn history.
type Responder struct {
	client ChatCompleter
	model  string
}

func NewResponder(client ChatCompleter, model string) *Responder {
	return &Responder{client: client, model: model}
}

func (r *Responder) Reply(ctx context.Context, content string) (string, error) {
	resp, err := r.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: r.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: content},
		},
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("completion response has no choices")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
