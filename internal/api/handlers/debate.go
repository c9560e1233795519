package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/psyche-works/psyche/internal/domain"
)

type DebateHandler struct {
	repo domain.DebateRepository
}

func NewDebateHandler(repo domain.DebateRepository) *DebateHandler {
	return &DebateHandler{repo: repo}
}

type listDebatesResponse struct {
	Debates []domain.DebateRecord `json:"debates"`
	Count   int                   `json:"count"`
}

func (h *DebateHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := 20
	if s := r.URL.Query().Get("limit"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 && n <= 100 {
			limit = n
		}
	}

	debates, err := h.repo.ListRecent(r.Context(), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list debates")
		return
	}
	if debates == nil {
		debates = []domain.DebateRecord{}
	}

	writeJSON(w, http.StatusOK, listDebatesResponse{
		Debates: debates,
		Count:   len(debates),
	})
}

func (h *DebateHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid debate id")
		return
	}

	debate, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		writeDomainError(w, err, "failed to get debate")
		return
	}

	writeJSON(w, http.StatusOK, debate)
}
