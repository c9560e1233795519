package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/psyche-works/psyche/internal/belief"
	"github.com/psyche-works/psyche/internal/domain"
)

type TensionHandler struct {
	tracker *belief.Tracker
	repo    domain.TensionRepository
	logger  *zap.Logger
}

func NewTensionHandler(tracker *belief.Tracker, repo domain.TensionRepository, logger *zap.Logger) *TensionHandler {
	return &TensionHandler{tracker: tracker, repo: repo, logger: logger}
}

type listTensionsResponse struct {
	Tensions []domain.TensionRecord `json:"tensions"`
	Count    int                    `json:"count"`
}

// List returns open tensions by default; ?resolved=true switches to the
// settled ones.
func (h *TensionHandler) List(w http.ResponseWriter, r *http.Request) {
	var tensions []domain.TensionRecord
	if r.URL.Query().Get("resolved") == "true" {
		tensions = h.tracker.Resolved()
	} else {
		tensions = h.tracker.Unresolved()
	}
	if tensions == nil {
		tensions = []domain.TensionRecord{}
	}

	writeJSON(w, http.StatusOK, listTensionsResponse{
		Tensions: tensions,
		Count:    len(tensions),
	})
}

type createTensionRequest struct {
	Belief1     string `json:"belief1"`
	Belief2     string `json:"belief2"`
	Description string `json:"description"`
}

// Create records a conflict between two stances. A repeat of the same pair
// bumps the encounter count on the existing record.
func (h *TensionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createTensionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	record, err := h.tracker.FindOrCreate(req.Belief1, req.Belief2, req.Description)
	if err != nil {
		writeDomainError(w, err, "failed to record tension")
		return
	}

	if err := h.repo.Save(r.Context(), record); err != nil {
		h.logger.Error("persist tension failed", zap.String("id", record.ID.String()), zap.Error(err))
	}

	status := http.StatusCreated
	if record.EncounterCount > 1 {
		status = http.StatusOK
	}
	writeJSON(w, status, record)
}

type resolveTensionRequest struct {
	Reasoning string `json:"reasoning"`
}

func (h *TensionHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid tension id")
		return
	}

	var req resolveTensionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	record, err := h.tracker.Resolve(id, req.Reasoning)
	if err != nil {
		writeDomainError(w, err, "failed to resolve tension")
		return
	}

	if err := h.repo.Save(r.Context(), record); err != nil {
		h.logger.Error("persist tension failed", zap.String("id", record.ID.String()), zap.Error(err))
	}

	writeJSON(w, http.StatusOK, record)
}

type tensionStatsResponse struct {
	Total        int     `json:"total"`
	Unresolved   int     `json:"unresolved"`
	IncidentRate float64 `json:"incident_rate"`
	WindowDays   int     `json:"window_days"`
}

// Stats reports the incident rate over a trailing window (default 30 days).
func (h *TensionHandler) Stats(w http.ResponseWriter, r *http.Request) {
	windowDays := 30
	if s := r.URL.Query().Get("window_days"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			windowDays = n
		}
	}

	writeJSON(w, http.StatusOK, tensionStatsResponse{
		Total:        h.tracker.Len(),
		Unresolved:   len(h.tracker.Unresolved()),
		IncidentRate: h.tracker.IncidentRate(windowDays),
		WindowDays:   windowDays,
	})
}
