package services

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"
)

// SuggestionService proxies conversations to the completion model under a
// hard wall-clock ceiling. It holds no state and performs no persistence.
type SuggestionService struct {
	completer Completer
	timeout   time.Duration
}

// NewSuggestionService creates a new instance of SuggestionService.
func NewSuggestionService(completer Completer, timeout time.Duration) *SuggestionService {
	return &SuggestionService{
		completer: completer,
		timeout:   timeout,
	}
}

// StreamSuggestions forwards the conversation and emits model output chunk
// by chunk. Hitting the wall-clock ceiling ends the stream cleanly rather
// than failing the request.
func (s *SuggestionService) StreamSuggestions(ctx context.Context, messages []ChatMessage, onChunk func(string) error) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	err := s.completer.StreamCompletion(ctx, messages, onChunk)
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		logrus.Info("Suggestion stream hit wall-clock ceiling, cancelled")
		return nil
	}
	return err
}
