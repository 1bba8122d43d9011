package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestStreamSuggestions(t *testing.T) {
	ctx := context.Background()

	conversation := []ChatMessage{{Role: "user", Content: "suggest some questions"}}

	t.Run("forwards every chunk in order", func(t *testing.T) {
		completer := &MockCompleter{Chunks: []string{"What is", " your favorite", " book?"}}
		completer.On("StreamCompletion", mock.Anything, conversation).Return(nil)

		svc := NewSuggestionService(completer, time.Second)

		var got []string
		err := svc.StreamSuggestions(ctx, conversation, func(chunk string) error {
			got = append(got, chunk)
			return nil
		})
		require.NoError(t, err)
		require.Equal(t, []string{"What is", " your favorite", " book?"}, got)
	})

	t.Run("hitting the wall-clock ceiling ends the stream cleanly", func(t *testing.T) {
		completer := &slowCompleter{delay: 50 * time.Millisecond}
		svc := NewSuggestionService(completer, 10*time.Millisecond)

		var got []string
		err := svc.StreamSuggestions(ctx, conversation, func(chunk string) error {
			got = append(got, chunk)
			return nil
		})
		require.NoError(t, err)
		require.Empty(t, got)
	})

	t.Run("provider failure is surfaced", func(t *testing.T) {
		completer := new(MockCompleter)
		completer.On("StreamCompletion", mock.Anything, conversation).Return(context.Canceled)

		svc := NewSuggestionService(completer, time.Second)

		err := svc.StreamSuggestions(ctx, conversation, func(string) error { return nil })
		require.Error(t, err)
	})
}

// slowCompleter blocks until the context deadline fires.
type slowCompleter struct {
	delay time.Duration
}

func (s *slowCompleter) StreamCompletion(ctx context.Context, messages []ChatMessage, onChunk func(string) error) error {
	select {
	case <-time.After(s.delay):
		return onChunk("too late")
	case <-ctx.Done():
		return ctx.Err()
	}
}
