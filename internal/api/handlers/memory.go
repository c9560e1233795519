package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/psyche-works/psyche/internal/domain"
	"github.com/psyche-works/psyche/internal/service"
)

type MemoryHandler struct {
	svc *service.MemoryService
}

func NewMemoryHandler(svc *service.MemoryService) *MemoryHandler {
	return &MemoryHandler{svc: svc}
}

type createMemoryRequest struct {
	Category       string   `json:"category"`
	Content        string   `json:"content"`
	RelatedStances []string `json:"related_stances,omitempty"`
}

func (h *MemoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createMemoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	entry, err := h.svc.Record(r.Context(), domain.MemoryCategory(req.Category), req.Content, req.RelatedStances)
	if err != nil {
		writeDomainError(w, err, "failed to create memory")
		return
	}

	writeJSON(w, http.StatusCreated, entry)
}

func (h *MemoryHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid memory id")
		return
	}

	entry, err := h.svc.Get(r.Context(), id)
	if err != nil {
		writeDomainError(w, err, "failed to get memory")
		return
	}

	writeJSON(w, http.StatusOK, entry)
}

type recallResponse struct {
	Memories []domain.MemoryWithScore `json:"memories"`
	Query    string                   `json:"query"`
	Count    int                      `json:"count"`
}

func (h *MemoryHandler) Recall(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("query")

	topK := 0
	if s := r.URL.Query().Get("top_k"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			topK = n
		}
	}

	var category *domain.MemoryCategory
	if c := r.URL.Query().Get("category"); c != "" {
		if !domain.ValidMemoryCategory(c) {
			writeError(w, http.StatusBadRequest, "invalid category parameter")
			return
		}
		mc := domain.MemoryCategory(c)
		category = &mc
	}

	results, err := h.svc.Recall(r.Context(), query, topK, category)
	if err != nil {
		writeDomainError(w, err, "failed to recall memories")
		return
	}
	if results == nil {
		results = []domain.MemoryWithScore{}
	}

	writeJSON(w, http.StatusOK, recallResponse{
		Memories: results,
		Query:    query,
		Count:    len(results),
	})
}

type listMemoriesResponse struct {
	Memories []domain.MemoryEntry `json:"memories"`
	Count    int                  `json:"count"`
}

func (h *MemoryHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := 20
	if s := r.URL.Query().Get("limit"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 && n <= 100 {
			limit = n
		}
	}

	entries, err := h.svc.ListRecent(r.Context(), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list memories")
		return
	}
	if entries == nil {
		entries = []domain.MemoryEntry{}
	}

	writeJSON(w, http.StatusOK, listMemoriesResponse{
		Memories: entries,
		Count:    len(entries),
	})
}
