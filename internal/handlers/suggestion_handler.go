package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/ddipendrac/mystery-message/internal/services"
	log "github.com/sirupsen/logrus"
)

// SuggestionHandler streams AI-generated message suggestions. It is a
// stateless pass-through to the completion model.
type SuggestionHandler struct {
	Service *services.SuggestionService
}

// NewSuggestionHandler creates a new instance of SuggestionHandler.
func NewSuggestionHandler(service *services.SuggestionService) *SuggestionHandler {
	return &SuggestionHandler{
		Service: service,
	}
}

// SuggestMessagesHandler handles POST /api/suggest-message. The model's
// output is streamed to the response body chunk by chunk.
func (h *SuggestionHandler) SuggestMessagesHandler(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Messages []services.ChatMessage `json:"messages"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil || input.Messages == nil {
		respondEnvelope(w, http.StatusBadRequest, false, "Invalid messages format")
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		respondEnvelope(w, http.StatusInternalServerError, false, "Streaming not supported")
		return
	}

	// Headers must be committed before the first chunk; failures after that
	// can only end the stream early.
	wroteChunk := false
	err := h.Service.StreamSuggestions(r.Context(), input.Messages, func(chunk string) error {
		if !wroteChunk {
			w.Header().Set("Content-Type", "text/plain; charset=utf-8")
			w.Header().Set("Cache-Control", "no-cache")
			w.WriteHeader(http.StatusOK)
			wroteChunk = true
		}
		if _, err := w.Write([]byte(chunk)); err != nil {
			return err
		}
		flusher.Flush()
		return nil
	})
	if err != nil {
		log.WithError(err).Error("Suggestion stream failed")
		if !wroteChunk {
			respondEnvelope(w, http.StatusInternalServerError, false, "Internal server error")
		}
		return
	}

	// A model that produced no output still yields a valid empty 200 body.
	if !wroteChunk {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
	}
}
