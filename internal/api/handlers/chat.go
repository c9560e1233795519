package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/psyche-works/psyche/internal/belief"
	"github.com/psyche-works/psyche/internal/service"
)

type ChatHandler struct {
	svc *service.DeliberationService
}

func NewChatHandler(svc *service.DeliberationService) *ChatHandler {
	return &ChatHandler{svc: svc}
}

type chatRequest struct {
	Message string `json:"message"`
}

// Post runs one full deliberated turn for the user's message.
func (h *ChatHandler) Post(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.svc.HandleTurn(r.Context(), req.Message)
	if err != nil {
		if errors.Is(err, belief.ErrValidation) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeError(w, http.StatusBadGateway, "deliberation failed")
		return
	}

	writeJSON(w, http.StatusOK, result)
}
