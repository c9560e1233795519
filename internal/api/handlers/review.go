package handlers

import (
	"net/http"

	"github.com/psyche-works/psyche/internal/service"
)

type ReviewHandler struct {
	svc *service.ReviewService
}

func NewReviewHandler(svc *service.ReviewService) *ReviewHandler {
	return &ReviewHandler{svc: svc}
}

func (h *ReviewHandler) Get(w http.ResponseWriter, r *http.Request) {
	report, err := h.svc.SelfReview(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to generate review")
		return
	}

	writeJSON(w, http.StatusOK, report)
}
