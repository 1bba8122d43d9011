package services

import (
	"context"

	"github.com/ddipendrac/mystery-message/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserStore is the slice of the user repository the services depend on.
type UserStore interface {
	CreateUser(ctx context.Context, user *models.User) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string, verifiedOnly bool) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByIdentifier(ctx context.Context, identifier string) (*models.User, error)
	GetUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	UpdateUser(ctx context.Context, id primitive.ObjectID, update map[string]interface{}) error
	AppendMessage(ctx context.Context, userID primitive.ObjectID, message *models.Message) error
	GetMessagesSorted(ctx context.Context, userID primitive.ObjectID) ([]models.Message, error)
}
