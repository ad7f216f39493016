package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/lexaid/lexaid-ai-platform/internal/chat"
	"github.com/lexaid/lexaid-ai-platform/pkg/logging"
)

// ChatHandler serves the chat endpoints. All inbound text is redacted by the
// chat service before persistence, so the handler never stores raw input.
type ChatHandler struct {
	service *chat.Service
	logger  *logging.Logger
}

func NewChatHandler(service *chat.Service, logger *logging.Logger) *ChatHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &ChatHandler{
		service: service,
		logger:  logger,
	}
}

type chatRequest struct {
	SessionID string `json:"session_id"`
	Message   string `json:"message"`
}

// Send handles POST /api/chat.
func (h *ChatHandler) Send(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"status":  "error",
			"message": "invalid request body",
		})
		return
	}

	reply, err := h.service.SendMessage(r.Context(), req.SessionID, req.Message)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"status":  "error",
			"message": err.Error(),
		})
		return
	}

	writeJSON(w, http.StatusOK, reply)
}

// History handles GET /api/chat/{sessionID}/history.
func (h *ChatHandler) History(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	messages, err := h.service.History(r.Context(), sessionID, 0)
	if err != nil {
		h.logger.Error("failed to load chat history", "session_id", sessionID, "error", err.Error())
		writeJSON(w, http.StatusInternalServerError, map[string]string{
			"status":  "error",
			"message": "failed to load history",
		})
		return
	}
	if messages == nil {
		messages = []chat.TranscriptMessage{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"session_id": sessionID,
		"messages":   messages,
	})
}

// Forget handles DELETE /api/chat/{sessionID}.
func (h *ChatHandler) Forget(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	if err := h.service.Forget(r.Context(), sessionID); err != nil {
		h.logger.Error("failed to clear chat transcript", "session_id", sessionID, "error", err.Error())
		writeJSON(w, http.StatusInternalServerError, map[string]string{
			"status":  "error",
			"message": "failed to clear transcript",
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "success"})
}
