package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ddipendrac/mystery-message/internal/models"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// ErrNotFound is returned when a lookup matches no document.
var ErrNotFound = errors.New("document not found")

// UserRepository handles database operations on the users collection.
type UserRepository struct {
	collection *mongo.Collection
}

// NewUserRepository creates a new instance of UserRepository.
func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{
		collection: db.Collection("users"),
	}
}

// CreateUser inserts a new user into the database.
func (r *UserRepository) CreateUser(ctx context.Context, user *models.User) (*models.User, error) {
	user.CreatedAt = time.Now()
	user.UpdatedAt = time.Now()

	result, err := r.collection.InsertOne(ctx, user)
	if err != nil {
		logrus.WithError(err).Error("Failed to insert user into database")
		return nil, fmt.Errorf("failed to insert user: %v", err)
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		logrus.Error("Failed to cast inserted ID to ObjectID")
		return nil, fmt.Errorf("failed to cast inserted ID")
	}

	user.ID = insertedID
	return user, nil
}

// GetUserByUsername retrieves a user by username. When verifiedOnly is set,
// unverified placeholder accounts are ignored.
func (r *UserRepository) GetUserByUsername(ctx context.Context, username string, verifiedOnly bool) (*models.User, error) {
	filter := bson.M{"username": username}
	if verifiedOnly {
		filter["is_verified"] = true
	}
	return r.findOne(ctx, filter)
}

// GetUserByEmail retrieves a user by email.
func (r *UserRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

// GetUserByIdentifier retrieves a user whose username or email matches the
// given login identifier.
func (r *UserRepository) GetUserByIdentifier(ctx context.Context, identifier string) (*models.User, error) {
	filter := bson.M{"$or": []bson.M{
		{"username": identifier},
		{"email": identifier},
	}}
	return r.findOne(ctx, filter)
}

// GetUserByID retrieves a user by their ID.
func (r *UserRepository) GetUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *UserRepository) findOne(ctx context.Context, filter bson.M) (*models.User, error) {
	var user models.User
	err := r.collection.FindOne(ctx, filter).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		logrus.WithError(err).Warn("Failed to find user")
		return nil, fmt.Errorf("failed to find user: %v", err)
	}
	return &user, nil
}

// UpdateUser applies a partial update to a user document.
func (r *UserRepository) UpdateUser(ctx context.Context, id primitive.ObjectID, update map[string]interface{}) error {
	update["updated_at"] = time.Now()

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": update})
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"userID": id.Hex(),
			"error":  err,
		}).Error("Failed to update user")
		return fmt.Errorf("failed to update user: %v", err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// AppendMessage pushes a message onto a user's embedded message list.
// A single $push keeps concurrent appends atomic at the document level.
func (r *UserRepository) AppendMessage(ctx context.Context, userID primitive.ObjectID, message *models.Message) error {
	result, err := r.collection.UpdateOne(
		ctx,
		bson.M{"_id": userID},
		bson.M{
			"$push": bson.M{"messages": message},
			"$set":  bson.M{"updated_at": time.Now()},
		},
	)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"userID": userID.Hex(),
			"error":  err,
		}).Error("Failed to append message")
		return fmt.Errorf("failed to append message: %v", err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// GetMessagesSorted returns a user's messages newest first. A user with an
// empty mailbox yields an empty slice, distinct from ErrNotFound.
func (r *UserRepository) GetMessagesSorted(ctx context.Context, userID primitive.ObjectID) ([]models.Message, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"_id": userID}}},
		{{Key: "$unwind", Value: bson.M{
			"path":                       "$messages",
			"preserveNullAndEmptyArrays": true,
		}}},
		{{Key: "$sort", Value: bson.M{"messages.created_at": -1}}},
		{{Key: "$group", Value: bson.M{
			"_id":      "$_id",
			"messages": bson.M{"$push": "$messages"},
		}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate messages: %v", err)
	}
	defer cursor.Close(ctx)

	var results []struct {
		ID       primitive.ObjectID `bson:"_id"`
		Messages []models.Message   `bson:"messages"`
	}
	if err := cursor.All(ctx, &results); err != nil {
		return nil, fmt.Errorf("failed to decode messages: %v", err)
	}

	if len(results) == 0 {
		return nil, ErrNotFound
	}
	return results[0].Messages, nil
}
