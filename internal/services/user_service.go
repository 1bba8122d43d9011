package services

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/ddipendrac/mystery-message/internal/models"
	"github.com/ddipendrac/mystery-message/internal/repository"
	"github.com/ddipendrac/mystery-message/pkg/email"
	"github.com/sirupsen/logrus"
)

const verifyCodeTTL = time.Hour

// UserService encapsulates registration, verification and authentication.
type UserService struct {
	repo   UserStore
	mailer email.Mailer
}

// NewUserService creates a new instance of UserService.
func NewUserService(repo UserStore, mailer email.Mailer) *UserService {
	return &UserService{
		repo:   repo,
		mailer: mailer,
	}
}

// RegisterUser creates a new unverified account, or refreshes an existing
// unverified one, and emails the verification code.
func (s *UserService) RegisterUser(ctx context.Context, username, emailAddr, password string) error {
	logrus.WithField("username", username).Info("Registering user")

	// A verified account owns its username outright.
	existingVerified, err := s.repo.GetUserByUsername(ctx, username, true)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("failed to check username: %v", err)
	}
	if existingVerified != nil {
		logrus.WithField("username", username).Warn("Username already taken")
		return ErrUsernameTaken
	}

	verifyCode, err := generateVerifyCode()
	if err != nil {
		return fmt.Errorf("failed to generate verification code: %v", err)
	}

	hashedPwd, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		logrus.WithError(err).Error("Password hashing failed")
		return fmt.Errorf("failed to hash password: %v", err)
	}

	existingByEmail, err := s.repo.GetUserByEmail(ctx, emailAddr)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("failed to check email: %v", err)
	}

	switch {
	case existingByEmail != nil && existingByEmail.IsVerified:
		logrus.WithField("email", emailAddr).Warn("Email already registered")
		return ErrEmailTaken

	case existingByEmail != nil:
		// Unverified placeholder: treat as a re-registration attempt.
		update := map[string]interface{}{
			"hashed_password":    string(hashedPwd),
			"verify_code":        verifyCode,
			"verify_code_expiry": time.Now().Add(verifyCodeTTL),
		}
		if err := s.repo.UpdateUser(ctx, existingByEmail.ID, update); err != nil {
			return fmt.Errorf("failed to refresh unverified user: %v", err)
		}

	default:
		user := &models.User{
			Username:           username,
			Email:              emailAddr,
			HashedPassword:     string(hashedPwd),
			VerifyCode:         verifyCode,
			VerifyCodeExpiry:   time.Now().Add(verifyCodeTTL),
			IsVerified:         false,
			IsAcceptingMessage: true,
			Messages:           []models.Message{},
		}
		if _, err := s.repo.CreateUser(ctx, user); err != nil {
			return fmt.Errorf("failed to register user: %v", err)
		}
	}

	if err := s.mailer.SendVerificationCode(emailAddr, username, verifyCode); err != nil {
		logrus.WithError(err).Error("Failed to send verification email")
		return fmt.Errorf("%w: %v", ErrEmailDelivery, err)
	}

	logrus.WithField("username", username).Info("User registered, verification email sent")
	return nil
}

// VerifyCode validates a submitted verification code and marks the account
// verified when it matches and has not expired.
func (s *UserService) VerifyCode(ctx context.Context, username, code string) error {
	user, err := s.repo.GetUserByUsername(ctx, username, false)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrUserNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to look up user: %v", err)
	}

	codeValid := user.VerifyCode == code
	codeFresh := time.Now().Before(user.VerifyCodeExpiry)

	switch {
	case codeValid && codeFresh:
		update := map[string]interface{}{"is_verified": true}
		if err := s.repo.UpdateUser(ctx, user.ID, update); err != nil {
			return fmt.Errorf("failed to mark user verified: %v", err)
		}
		logrus.WithField("username", username).Info("Account verified")
		return nil
	case !codeFresh:
		return ErrCodeExpired
	default:
		return ErrCodeIncorrect
	}
}

// AuthenticateUser checks the identifier (username or email) and password
// and returns the user when the credentials are valid.
func (s *UserService) AuthenticateUser(ctx context.Context, identifier, password string) (*models.User, error) {
	user, err := s.repo.GetUserByIdentifier(ctx, identifier)
	if errors.Is(err, repository.ErrNotFound) {
		logrus.WithField("identifier", identifier).Warn("Login attempt for unknown user")
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up user: %v", err)
	}

	if !user.IsVerified {
		logrus.WithField("username", user.Username).Warn("Login attempt on unverified account")
		return nil, ErrNotVerified
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(password)); err != nil {
		logrus.WithField("username", user.Username).Warn("Invalid credentials")
		return nil, ErrIncorrectPassword
	}

	logrus.WithField("userID", user.ID.Hex()).Info("User authenticated")
	return user, nil
}

// IsUsernameAvailable reports whether no verified account owns the username.
func (s *UserService) IsUsernameAvailable(ctx context.Context, username string) (bool, error) {
	_, err := s.repo.GetUserByUsername(ctx, username, true)
	if errors.Is(err, repository.ErrNotFound) {
		return true, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check username: %v", err)
	}
	return false, nil
}

// generateVerifyCode produces a 6-digit numeric one-time code.
func generateVerifyCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}
