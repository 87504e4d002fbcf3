package service

import (
	"context"
	"errors"
	"testing"

	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockCompleter struct {
	createChatCompletionFunc func(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

func (m *mockCompleter) CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	if m.createChatCompletionFunc != nil {
		return m.createChatCompletionFunc(ctx, req)
	}
	return openai.ChatCompletionResponse{}, nil
}

func completerReplying(text string) *mockCompleter {
	return &mockCompleter{
		createChatCompletionFunc: func(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
			return openai.ChatCompletionResponse{
				Choices: []openai.ChatCompletionChoice{
					{Message: openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant, Content: text}},
				},
			}, nil
		},
	}
}

func completerFailing(err error) *mockCompleter {
	return &mockCompleter{
		createChatCompletionFunc: func(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
			return openai.ChatCompletionResponse{}, err
		},
	}
}

func TestResponderReplyTrimsWhitespace(t *testing.T) {
	r := NewResponder(completerReplying("  Hello there.\n"), "test-model")

	reply, err := r.Reply(context.Background(), "hi")
	require.NoError(t, err)
	assert.Equal(t, "Hello there.", reply)
}

func TestResponderSendsOnlyLatestMessage(t *testing.T) {
	var captured openai.ChatCompletionRequest
	m := &mockCompleter{
		createChatCompletionFunc: func(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
			captured = req
			return openai.ChatCompletionResponse{
				Choices: []openai.ChatCompletionChoice{
					{Message: openai.ChatCompletionMessage{Content: "ok"}},
				},
			}, nil
		},
	}
	r := NewResponder(m, "test-model")

	_, err := r.Reply(context.Background(), "what are your hours?")
	require.NoError(t, err)

	require.Len(t, captured.Messages, 1)
	assert.Equal(t, openai.ChatMessageRoleUser, captured.Messages[0].Role)
	assert.Equal(t, "what are your hours?", captured.Messages[0].Content)
	assert.Equal(t, "test-model", captured.Model)
}

func TestResponderErrorPassthrough(t *testing.T) {
	apiErr := errors.New("upstream unavailable")
	r := NewResponder(completerFailing(apiErr), "test-model")

	_, err := r.Reply(context.Background(), "hi")
	assert.ErrorIs(t, err, apiErr)
}

func TestResponderEmptyChoicesIsError(t *testing.T) {
	r := NewResponder(&mockCompleter{}, "test-model")

	_, err := r.Reply(context.Background(), "hi")
	assert.Error(t, err)
}
