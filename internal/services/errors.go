package services

import "errors"

// Sentinel errors returned by the services. Handlers map these onto HTTP
// status codes and envelope messages with errors.Is.
var (
	ErrUsernameTaken        = errors.New("username is already taken")
	ErrEmailTaken           = errors.New("user already exists with this email")
	ErrUserNotFound         = errors.New("user not found")
	ErrCodeExpired          = errors.New("verification code has expired")
	ErrCodeIncorrect        = errors.New("incorrect verification code")
	ErrNotVerified          = errors.New("account is not verified")
	ErrIncorrectPassword    = errors.New("incorrect password")
	ErrNotAcceptingMessages = errors.New("user is not accepting messages")
	ErrEmailDelivery        = errors.New("failed to send verification email")
)
