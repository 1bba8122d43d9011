package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User represents one registered account in the mystery-message system.
// Messages are embedded in the user document rather than kept in a
// separate collection, so every mailbox read is a single document fetch.
type User struct {
	ID                 primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Username           string             `bson:"username" json:"username"`
	Email              string             `bson:"email" json:"email"`
	HashedPassword     string             `bson:"hashed_password" json:"-"`
	VerifyCode         string             `bson:"verify_code" json:"-"`
	VerifyCodeExpiry   time.Time          `bson:"verify_code_expiry" json:"-"`
	IsVerified         bool               `bson:"is_verified" json:"is_verified"`
	IsAcceptingMessage bool               `bson:"is_accepting_message" json:"is_accepting_message"`
	Messages           []Message          `bson:"messages" json:"messages"`
	CreatedAt          time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt          time.Time          `bson:"updated_at" json:"updated_at"`
}
