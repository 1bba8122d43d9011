package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ddipendrac/mystery-message/internal/models"
	"github.com/ddipendrac/mystery-message/internal/services"
	"github.com/ddipendrac/mystery-message/pkg/middleware"
	log "github.com/sirupsen/logrus"
)

// MessageHandler handles the accept-messages toggle, anonymous submission
// and mailbox retrieval.
type MessageHandler struct {
	Service *services.MessageService
}

// NewMessageHandler creates a new instance of MessageHandler.
func NewMessageHandler(service *services.MessageService) *MessageHandler {
	return &MessageHandler{
		Service: service,
	}
}

// GetAcceptMessagesHandler handles GET /api/accept-messages.
func (h *MessageHandler) GetAcceptMessagesHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		respondEnvelope(w, http.StatusUnauthorized, false, "Not authenticated")
		return
	}

	accepting, err := h.Service.GetAcceptingMessages(r.Context(), claims.UserID)
	switch {
	case errors.Is(err, services.ErrUserNotFound):
		respondEnvelope(w, http.StatusNotFound, false, "User not found")
	case err != nil:
		log.WithError(err).Error("Failed to read accept-messages status")
		respondEnvelope(w, http.StatusInternalServerError, false, "Error getting message acceptance status")
	default:
		respondJSON(w, http.StatusOK, map[string]interface{}{
			"success":             true,
			"isAcceptingMessages": accepting,
		})
	}
}

// PostAcceptMessagesHandler handles POST /api/accept-messages.
// Any update failure, including a vanished user document, is reported as a
// plain server error.
func (h *MessageHandler) PostAcceptMessagesHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		respondEnvelope(w, http.StatusUnauthorized, false, "Not authenticated")
		return
	}

	var input struct {
		AcceptMessage bool `json:"acceptMessage"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		log.WithError(err).Warn("Failed to decode accept-messages request")
		respondEnvelope(w, http.StatusBadRequest, false, "Invalid request payload")
		return
	}

	if err := h.Service.SetAcceptingMessages(r.Context(), claims.UserID, input.AcceptMessage); err != nil {
		log.WithError(err).Error("Failed to update accept-messages status")
		respondEnvelope(w, http.StatusInternalServerError, false, "Failed to update user status to accept messages")
		return
	}
	respondEnvelope(w, http.StatusOK, true, "Message acceptance status updated successfully")
}

// SendMessageHandler handles POST /api/send-message. Senders are anonymous;
// no session is required.
func (h *MessageHandler) SendMessageHandler(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Username string `json:"username"`
		Content  string `json:"content"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		log.WithError(err).Warn("Failed to decode send-message request")
		respondEnvelope(w, http.StatusBadRequest, false, "Invalid request payload")
		return
	}

	message, err := h.Service.SendMessage(r.Context(), input.Username, input.Content)
	switch {
	case errors.Is(err, services.ErrUserNotFound):
		respondEnvelope(w, http.StatusNotFound, false, "User not found")
	case errors.Is(err, services.ErrNotAcceptingMessages):
		respondEnvelope(w, http.StatusForbidden, false, "User is not accepting messages")
	case err != nil:
		log.WithError(err).Error("Failed to send message")
		respondEnvelope(w, http.StatusInternalServerError, false, "Internal server error")
	default:
		respondJSON(w, http.StatusCreated, map[string]interface{}{
			"success":    true,
			"message":    "Message sent successfully",
			"newMessage": message,
		})
	}
}

// GetMessagesHandler handles POST /api/get-messages, returning the session
// user's messages newest first.
func (h *MessageHandler) GetMessagesHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		respondEnvelope(w, http.StatusUnauthorized, false, "Not authenticated")
		return
	}

	messages, err := h.Service.GetMessages(r.Context(), claims.UserID)
	switch {
	case errors.Is(err, services.ErrUserNotFound):
		respondEnvelope(w, http.StatusNotFound, false, "User not found")
	case err != nil:
		log.WithError(err).Error("Failed to fetch messages")
		respondEnvelope(w, http.StatusInternalServerError, false, "Internal server error")
	default:
		if messages == nil {
			messages = []models.Message{}
		}
		respondJSON(w, http.StatusOK, map[string]interface{}{
			"success":  true,
			"messages": messages,
		})
	}
}
