package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"

	"github.com/ddipendrac/mystery-message/internal/config"
	"github.com/ddipendrac/mystery-message/internal/services"
	jwtutil "github.com/ddipendrac/mystery-message/pkg/jwt"
	"github.com/ddipendrac/mystery-message/pkg/validation"
	log "github.com/sirupsen/logrus"
)

// UserHandler handles registration, verification, login and the
// username-availability check.
type UserHandler struct {
	Service *services.UserService
	Config  *config.Config
}

// NewUserHandler creates a new instance of UserHandler.
func NewUserHandler(service *services.UserService, cfg *config.Config) *UserHandler {
	return &UserHandler{
		Service: service,
		Config:  cfg,
	}
}

// SignUpHandler handles POST /api/sign-up.
func (h *UserHandler) SignUpHandler(w http.ResponseWriter, r *http.Request) {
	var input validation.SignUpInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		log.WithError(err).Warn("Failed to decode sign-up request")
		respondEnvelope(w, http.StatusBadRequest, false, "Invalid request payload")
		return
	}

	if err := validation.ValidateStruct(input); err != nil {
		respondEnvelope(w, http.StatusBadRequest, false, err.Error())
		return
	}

	err := h.Service.RegisterUser(r.Context(), input.Username, input.Email, input.Password)
	switch {
	case errors.Is(err, services.ErrUsernameTaken):
		respondEnvelope(w, http.StatusBadRequest, false, "Username is already taken")
	case errors.Is(err, services.ErrEmailTaken):
		respondEnvelope(w, http.StatusBadRequest, false, "User already exists with this email")
	case errors.Is(err, services.ErrEmailDelivery):
		respondEnvelope(w, http.StatusInternalServerError, false, err.Error())
	case err != nil:
		log.WithError(err).Error("Failed to register user")
		respondEnvelope(w, http.StatusInternalServerError, false, "Error registering user")
	default:
		respondEnvelope(w, http.StatusCreated, true, "User registered successfully. Please verify your email")
	}
}

// VerifyCodeHandler handles POST /api/verify-code.
func (h *UserHandler) VerifyCodeHandler(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Username string `json:"username"`
		Code     string `json:"code"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		log.WithError(err).Warn("Failed to decode verify-code request")
		respondEnvelope(w, http.StatusBadRequest, false, "Invalid request payload")
		return
	}

	// Usernames arrive percent-encoded from the verification link.
	username, err := url.QueryUnescape(input.Username)
	if err != nil {
		username = input.Username
	}

	err = h.Service.VerifyCode(r.Context(), username, input.Code)
	switch {
	case errors.Is(err, services.ErrUserNotFound):
		respondEnvelope(w, http.StatusNotFound, false, "User not found")
	case errors.Is(err, services.ErrCodeExpired):
		respondEnvelope(w, http.StatusBadRequest, false, "Verification code has expired. Please sign up again to get a new code")
	case errors.Is(err, services.ErrCodeIncorrect):
		respondEnvelope(w, http.StatusBadRequest, false, "Incorrect verification code")
	case err != nil:
		log.WithError(err).Error("Failed to verify user")
		respondEnvelope(w, http.StatusInternalServerError, false, "Error verifying user")
	default:
		respondEnvelope(w, http.StatusOK, true, "Account verified successfully")
	}
}

// SignInHandler handles POST /api/sign-in and issues the session token.
func (h *UserHandler) SignInHandler(w http.ResponseWriter, r *http.Request) {
	var credentials struct {
		Identifier string `json:"identifier"`
		Password   string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&credentials); err != nil {
		log.WithError(err).Warn("Failed to decode sign-in request")
		respondEnvelope(w, http.StatusBadRequest, false, "Invalid request payload")
		return
	}

	user, err := h.Service.AuthenticateUser(r.Context(), credentials.Identifier, credentials.Password)
	switch {
	case errors.Is(err, services.ErrUserNotFound):
		respondEnvelope(w, http.StatusUnauthorized, false, "No user found with this email")
		return
	case errors.Is(err, services.ErrNotVerified):
		respondEnvelope(w, http.StatusUnauthorized, false, "Please verify your account before login")
		return
	case errors.Is(err, services.ErrIncorrectPassword):
		respondEnvelope(w, http.StatusUnauthorized, false, "Incorrect password")
		return
	case err != nil:
		log.WithError(err).Error("Failed to authenticate user")
		respondEnvelope(w, http.StatusInternalServerError, false, "Error signing in")
		return
	}

	token, err := jwtutil.GenerateToken(
		user.ID.Hex(),
		user.Username,
		user.IsVerified,
		user.IsAcceptingMessage,
		h.Config.JWTSecret,
		h.Config.TokenExpiry,
	)
	if err != nil {
		log.WithError(err).Error("Failed to generate session token")
		respondEnvelope(w, http.StatusInternalServerError, false, "Failed to generate token")
		return
	}

	log.WithField("userID", user.ID.Hex()).Info("User signed in")
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Signed in successfully",
		"token":   token,
		"user": map[string]interface{}{
			"id":                  user.ID.Hex(),
			"username":            user.Username,
			"isVerified":          user.IsVerified,
			"isAcceptingMessages": user.IsAcceptingMessage,
		},
	})
}

// CheckUsernameHandler handles GET /api/check-username-unique.
func (h *UserHandler) CheckUsernameHandler(w http.ResponseWriter, r *http.Request) {
	query := validation.UsernameQuery{Username: r.URL.Query().Get("username")}
	if err := validation.ValidateStruct(query); err != nil {
		respondEnvelope(w, http.StatusBadRequest, false, err.Error())
		return
	}

	available, err := h.Service.IsUsernameAvailable(r.Context(), query.Username)
	if err != nil {
		log.WithError(err).Error("Failed to check username")
		respondEnvelope(w, http.StatusInternalServerError, false, "Error checking username")
		return
	}

	if !available {
		// A taken username is reported as a validation failure, not a
		// conflict, so the frontend shows it inline with the form errors.
		respondEnvelope(w, http.StatusBadRequest, false, "Username is already taken")
		return
	}
	respondEnvelope(w, http.StatusOK, true, "Username is unique")
}
