package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ddipendrac/mystery-message/internal/models"
	"github.com/ddipendrac/mystery-message/internal/repository"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MessageService covers the accept-messages toggle, anonymous submission
// and mailbox retrieval.
type MessageService struct {
	repo UserStore
}

// NewMessageService creates a new instance of MessageService.
func NewMessageService(repo UserStore) *MessageService {
	return &MessageService{
		repo: repo,
	}
}

// SendMessage appends an anonymous message to the named recipient's mailbox.
func (s *MessageService) SendMessage(ctx context.Context, username, content string) (*models.Message, error) {
	recipient, err := s.repo.GetUserByUsername(ctx, username, false)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up recipient: %v", err)
	}

	if !recipient.IsAcceptingMessage {
		logrus.WithField("username", username).Info("Message rejected, recipient not accepting")
		return nil, ErrNotAcceptingMessages
	}

	message := &models.Message{
		ID:        primitive.NewObjectID(),
		Content:   content,
		CreatedAt: time.Now(),
	}
	if err := s.repo.AppendMessage(ctx, recipient.ID, message); err != nil {
		return nil, fmt.Errorf("failed to store message: %v", err)
	}

	logrus.WithField("username", username).Info("Anonymous message stored")
	return message, nil
}

// GetMessages returns the user's messages newest first. An empty mailbox is
// an empty slice, not an error.
func (s *MessageService) GetMessages(ctx context.Context, userID string) ([]models.Message, error) {
	objID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, fmt.Errorf("invalid user ID: %v", err)
	}

	messages, err := s.repo.GetMessagesSorted(ctx, objID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch messages: %v", err)
	}
	return messages, nil
}

// GetAcceptingMessages reads the current accept-messages flag.
func (s *MessageService) GetAcceptingMessages(ctx context.Context, userID string) (bool, error) {
	objID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return false, fmt.Errorf("invalid user ID: %v", err)
	}

	user, err := s.repo.GetUserByID(ctx, objID)
	if errors.Is(err, repository.ErrNotFound) {
		return false, ErrUserNotFound
	}
	if err != nil {
		return false, fmt.Errorf("failed to look up user: %v", err)
	}
	return user.IsAcceptingMessage, nil
}

// SetAcceptingMessages updates the accept-messages flag. A missing update
// target is surfaced as a plain failure, matching the documented behavior
// of the toggle endpoint.
func (s *MessageService) SetAcceptingMessages(ctx context.Context, userID string, accepting bool) error {
	objID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return fmt.Errorf("invalid user ID: %v", err)
	}

	update := map[string]interface{}{"is_accepting_message": accepting}
	if err := s.repo.UpdateUser(ctx, objID, update); err != nil {
		return fmt.Errorf("failed to update accept-messages status: %v", err)
	}

	logrus.WithFields(logrus.Fields{
		"userID":    userID,
		"accepting": accepting,
	}).Info("Accept-messages status updated")
	return nil
}
