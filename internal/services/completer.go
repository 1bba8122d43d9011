package services

import (
	"context"
	"errors"
	"fmt"
	"io"

	openai "github.com/sashabaranov/go-openai"
)

// ChatMessage is a single turn of the conversation forwarded to the
// completion model.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Completer streams completion-model output for a conversation. The
// provider behind it is swappable; cancellation flows through the context.
type Completer interface {
	StreamCompletion(ctx context.Context, messages []ChatMessage, onChunk func(string) error) error
}

// OpenAICompleter implements Completer on top of the OpenAI chat API.
type OpenAICompleter struct {
	client *openai.Client
	model  string
}

// NewOpenAICompleter creates a Completer backed by the OpenAI API.
func NewOpenAICompleter(apiKey, model string) *OpenAICompleter {
	return &OpenAICompleter{
		client: openai.NewClient(apiKey),
		model:  model,
	}
}

// StreamCompletion forwards the conversation and invokes onChunk for every
// content delta until the stream ends or the context is cancelled.
func (c *OpenAICompleter) StreamCompletion(ctx context.Context, messages []ChatMessage, onChunk func(string) error) error {
	request := openai.ChatCompletionRequest{
		Model:  c.model,
		Stream: true,
	}
	for _, m := range messages {
		request.Messages = append(request.Messages, openai.ChatCompletionMessage{
			Role:    m.Role,
			Content: m.Content,
		})
	}

	stream, err := c.client.CreateChatCompletionStream(ctx, request)
	if err != nil {
		return fmt.Errorf("failed to open completion stream: %v", err)
	}
	defer stream.Close()

	for {
		response, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("completion stream failed: %v", err)
		}
		if len(response.Choices) == 0 {
			continue
		}
		if chunk := response.Choices[0].Delta.Content; chunk != "" {
			if err := onChunk(chunk); err != nil {
				return err
			}
		}
	}
}
