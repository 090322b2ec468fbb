package agents

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/Nishanth-S1142001/rebel-ai-sub003/internal/tenancy"
	"github.com/Nishanth-S1142001/rebel-ai-sub003/pkg/logging"
)

// Handler handles HTTP requests for agents
type Handler struct {
	repo   Repository
	logger *logging.Logger
}

// NewHandler creates a new agents handler
func NewHandler(repo Repository, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{repo: repo, logger: logger}
}

// Create handles POST /agents requests
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := tenancy.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "missing user context", http.StatusUnauthorized)
		return
	}

	var req CreateAgentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	agent, err := h.repo.Create(r.Context(), ownerID, &req)
	if err != nil {
		h.logger.Error("failed to create agent", "error", err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	h.logger.Info("agent created", "id", agent.ID, "owner_id", ownerID, "name", agent.Name)
	writeJSON(w, http.StatusCreated, agent)
}

// Get handles GET /agents/{agentID} requests
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := tenancy.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "missing user context", http.StatusUnauthorized)
		return
	}

	agent, err := h.repo.GetByID(r.Context(), ownerID, chi.URLParam(r, "agentID"))
	if err != nil {
		if errors.Is(err, ErrAgentNotFound) {
			http.Error(w, "agent not found", http.StatusNotFound)
			return
		}
		h.logger.Error("failed to load agent", "error", err)
		http.Error(w, "failed to load agent", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, agent)
}

// ListResponse is the response for listing agents
type ListResponse struct {
	Agents []*Agent `json:"agents"`
	Count  int      `json:"count"`
	Offset int      `json:"offset"`
	Limit  int      `json:"limit"`
}

// List handles GET /agents requests
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := tenancy.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "missing user context", http.StatusUnauthorized)
		return
	}

	limit, offset := 50, 0
	if v := r.URL.Query().Get("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 && parsed <= 100 {
			limit = parsed
		}
	}
	if v := r.URL.Query().Get("offset"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed >= 0 {
			offset = parsed
		}
	}

	list, err := h.repo.ListByOwner(r.Context(), ownerID, limit, offset)
	if err != nil {
		h.logger.Error("failed to list agents", "error", err, "owner_id", ownerID)
		http.Error(w, "failed to list agents", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, ListResponse{
		Agents: list,
		Count:  len(list),
		Offset: offset,
		Limit:  limit,
	})
}

// Update handles PUT /agents/{agentID} requests
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := tenancy.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "missing user context", http.StatusUnauthorized)
		return
	}

	var req UpdateAgentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	agent, err := h.repo.GetByID(r.Context(), ownerID, chi.URLParam(r, "agentID"))
	if err != nil {
		if errors.Is(err, ErrAgentNotFound) {
			http.Error(w, "agent not found", http.StatusNotFound)
			return
		}
		h.logger.Error("failed to load agent", "error", err)
		http.Error(w, "failed to load agent", http.StatusInternalServerError)
		return
	}

	if err := req.Apply(agent); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	updated, err := h.repo.Update(r.Context(), agent)
	if err != nil {
		h.logger.Error("failed to update agent", "error", err, "id", agent.ID)
		http.Error(w, "failed to update agent", http.StatusInternalServerError)
		return
	}

	h.logger.Info("agent updated", "id", updated.ID, "owner_id", ownerID)
	writeJSON(w, http.StatusOK, updated)
}

// Delete handles DELETE /agents/{agentID} requests
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := tenancy.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "missing user context", http.StatusUnauthorized)
		return
	}

	id := chi.URLParam(r, "agentID")
	if err := h.repo.Delete(r.Context(), ownerID, id); err != nil {
		if errors.Is(err, ErrAgentNotFound) {
			http.Error(w, "agent not found", http.StatusNotFound)
			return
		}
		h.logger.Error("failed to delete agent", "error", err, "id", id)
		http.Error(w, "failed to delete agent", http.StatusInternalServerError)
		return
	}

	h.logger.Info("agent deleted", "id", id, "owner_id", ownerID)
	w.WriteHeader(http.StatusNoContent)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
