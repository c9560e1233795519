package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/psyche-works/psyche/internal/belief"
	"github.com/psyche-works/psyche/internal/domain"
)

type BeliefHandler struct {
	store *belief.Store
}

func NewBeliefHandler(store *belief.Store) *BeliefHandler {
	return &BeliefHandler{store: store}
}

type listBeliefsResponse struct {
	Beliefs        []domain.BeliefNode `json:"beliefs"`
	Count          int                 `json:"count"`
	CoherenceScore float64             `json:"coherence_score"`
	AverageWeight  float64             `json:"average_weight"`
}

// List returns the full snapshot with the network-level scores. An optional
// domain query parameter narrows the listing (scores stay network-wide).
func (h *BeliefHandler) List(w http.ResponseWriter, r *http.Request) {
	snapshot := h.store.Snapshot()

	beliefs := snapshot
	if d := r.URL.Query().Get("domain"); d != "" {
		if !domain.ValidBeliefDomain(d) {
			writeError(w, http.StatusBadRequest, "invalid domain parameter")
			return
		}
		beliefs = h.store.ListByDomain(domain.BeliefDomain(d))
	}

	writeJSON(w, http.StatusOK, listBeliefsResponse{
		Beliefs:        beliefs,
		Count:          len(beliefs),
		CoherenceScore: belief.CoherenceScore(snapshot),
		AverageWeight:  belief.AverageWeight(snapshot),
	})
}

func (h *BeliefHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid belief id")
		return
	}

	node, err := h.store.GetByID(id)
	if err != nil {
		writeDomainError(w, err, "failed to get belief")
		return
	}

	writeJSON(w, http.StatusOK, node)
}

type reportResponse struct {
	CoherenceScore float64             `json:"coherence_score"`
	DomainBalance  float64             `json:"domain_balance"`
	Health         []string            `json:"health"`
	Volatile       []domain.BeliefNode `json:"volatile"`
	Stable         []domain.BeliefNode `json:"stable"`
	Oscillating    []domain.BeliefNode `json:"oscillating"`
}

// Report runs the analyzer over the current snapshot.
func (h *BeliefHandler) Report(w http.ResponseWriter, r *http.Request) {
	snapshot := h.store.Snapshot()

	writeJSON(w, http.StatusOK, reportResponse{
		CoherenceScore: belief.CoherenceScore(snapshot),
		DomainBalance:  belief.DomainBalance(snapshot),
		Health:         belief.HealthCheck(snapshot),
		Volatile:       belief.VolatileBeliefs(snapshot, belief.DefaultRankSize),
		Stable:         belief.StableBeliefs(snapshot, belief.DefaultRankSize),
		Oscillating:    belief.OscillatingBeliefs(snapshot),
	})
}

type addLearnedRequest struct {
	Stance    string `json:"stance"`
	Domain    string `json:"domain"`
	Reasoning string `json:"reasoning"`
	Weight    int    `json:"weight"`
}

// AddLearned installs a non-core belief picked up from experience.
func (h *BeliefHandler) AddLearned(w http.ResponseWriter, r *http.Request) {
	var req addLearnedRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if !domain.ValidBeliefDomain(req.Domain) {
		writeError(w, http.StatusBadRequest, "invalid domain")
		return
	}

	node, err := h.store.AddLearned(domain.BeliefNode{
		ID:        uuid.New(),
		Stance:    req.Stance,
		Domain:    domain.BeliefDomain(req.Domain),
		Reasoning: req.Reasoning,
		Weight:    req.Weight,
	})
	if err != nil {
		writeDomainError(w, err, "failed to add belief")
		return
	}

	writeJSON(w, http.StatusCreated, node)
}

type reviseBeliefRequest struct {
	Reason string `json:"reason"`
}

// mutation names the store operation a revise-style endpoint maps to.
type mutation func(id uuid.UUID, reason string) (domain.BeliefNode, error)

func (h *BeliefHandler) mutate(w http.ResponseWriter, r *http.Request, op mutation) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid belief id")
		return
	}

	var req reviseBeliefRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	node, err := op(id, req.Reason)
	if err != nil {
		writeDomainError(w, err, "failed to update belief")
		return
	}

	writeJSON(w, http.StatusOK, node)
}

func (h *BeliefHandler) Challenge(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, h.store.Challenge)
}

func (h *BeliefHandler) Strengthen(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, h.store.Strengthen)
}

func (h *BeliefHandler) Weaken(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, h.store.Weaken)
}

func (h *BeliefHandler) Revise(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, h.store.Revise)
}

type setWeightRequest struct {
	Weight int    `json:"weight"`
	Reason string `json:"reason"`
}

func (h *BeliefHandler) SetWeight(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid belief id")
		return
	}

	var req setWeightRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	node, err := h.store.SetWeight(id, req.Weight, req.Reason)
	if err != nil {
		writeDomainError(w, err, "failed to set weight")
		return
	}

	writeJSON(w, http.StatusOK, node)
}

type connectRequest struct {
	OtherID string `json:"other_id"`
}

func (h *BeliefHandler) connection(w http.ResponseWriter, r *http.Request, op func(a, b uuid.UUID) error) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid belief id")
		return
	}

	var req connectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	otherID, err := uuid.Parse(req.OtherID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid other_id")
		return
	}

	if err := op(id, otherID); err != nil {
		writeDomainError(w, err, "failed to update connection")
		return
	}

	node, err := h.store.GetByID(id)
	if err != nil {
		writeDomainError(w, err, "failed to get belief")
		return
	}

	writeJSON(w, http.StatusOK, node)
}

func (h *BeliefHandler) Connect(w http.ResponseWriter, r *http.Request) {
	h.connection(w, r, h.store.Connect)
}

func (h *BeliefHandler) Disconnect(w http.ResponseWriter, r *http.Request) {
	h.connection(w, r, h.store.Disconnect)
}
