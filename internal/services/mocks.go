package services

import (
	"context"

	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/ddipendrac/mystery-message/internal/models"
)

// MockUserStore is a testify mock of UserStore.
type MockUserStore struct {
	mock.Mock
}

func (m *MockUserStore) CreateUser(ctx context.Context, user *models.User) (*models.User, error) {
	args := m.Called(ctx, user)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserStore) GetUserByUsername(ctx context.Context, username string, verifiedOnly bool) (*models.User, error) {
	args := m.Called(ctx, username, verifiedOnly)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserStore) GetUserByIdentifier(ctx context.Context, identifier string) (*models.User, error) {
	args := m.Called(ctx, identifier)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserStore) GetUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserStore) UpdateUser(ctx context.Context, id primitive.ObjectID, update map[string]interface{}) error {
	args := m.Called(ctx, id, update)
	return args.Error(0)
}

func (m *MockUserStore) AppendMessage(ctx context.Context, userID primitive.ObjectID, message *models.Message) error {
	args := m.Called(ctx, userID, message)
	return args.Error(0)
}

func (m *MockUserStore) GetMessagesSorted(ctx context.Context, userID primitive.ObjectID) ([]models.Message, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Message), args.Error(1)
}

// MockMailer is a testify mock of the email.Mailer interface.
type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) SendVerificationCode(to, username, code string) error {
	args := m.Called(to, username, code)
	return args.Error(0)
}

// MockCompleter is a testify mock of Completer.
type MockCompleter struct {
	mock.Mock
	// Chunks are fed to onChunk when StreamCompletion is called.
	Chunks []string
}

func (m *MockCompleter) StreamCompletion(ctx context.Context, messages []ChatMessage, onChunk func(string) error) error {
	args := m.Called(ctx, messages)
	for _, chunk := range m.Chunks {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := onChunk(chunk); err != nil {
			return err
		}
	}
	return args.Error(0)
}
