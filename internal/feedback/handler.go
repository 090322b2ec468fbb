package feedback

import (
	"encoding/json"
	"net/http"

	"github.com/Nishanth-S1142001/rebel-ai-sub003/internal/tenancy"
	"github.com/Nishanth-S1142001/rebel-ai-sub003/pkg/logging"
)

// Handler serves feedback intake.
type Handler struct {
	repo   *Repository
	logger *logging.Logger
}

// NewHandler creates a feedback handler.
func NewHandler(repo *Repository, logger *logging.Logger) *Handler {
	if repo == nil {
		panic("feedback: repository required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{repo: repo, logger: logger}
}

// Submit handles POST /feedback requests
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := tenancy.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "missing user context", http.StatusUnauthorized)
		return
	}

	var req SubmitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if err := req.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	entry, err := h.repo.Insert(r.Context(), ownerID, &req)
	if err != nil {
		h.logger.Error("failed to store feedback", "error", err)
		http.Error(w, "failed to store feedback", http.StatusInternalServerError)
		return
	}

	h.logger.Info("feedback received", "id", entry.ID, "rating", entry.Rating, "agent_id", entry.AgentID)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(entry)
}
