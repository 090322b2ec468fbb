package bookings

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/Nishanth-S1142001/rebel-ai-sub003/internal/tenancy"
	"github.com/Nishanth-S1142001/rebel-ai-sub003/pkg/logging"
)

// Handler serves read endpoints for bookings.
type Handler struct {
	repo   *Repository
	logger *logging.Logger
}

// NewHandler creates a bookings handler.
func NewHandler(repo *Repository, logger *logging.Logger) *Handler {
	if repo == nil {
		panic("bookings: repository required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{repo: repo, logger: logger}
}

// ListResponse is the response for listing an agent's bookings
type ListResponse struct {
	Bookings []*Booking `json:"bookings"`
	Count    int        `json:"count"`
	Offset   int        `json:"offset"`
	Limit    int        `json:"limit"`
}

// ListByAgent handles GET /agents/{agentID}/bookings requests
func (h *Handler) ListByAgent(w http.ResponseWriter, r *http.Request) {
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

	agentID := chi.URLParam(r, "agentID")
	list, err := h.repo.ListByAgent(r.Context(), ownerID, agentID, limit, offset)
	if err != nil {
		h.logger.Error("failed to list bookings", "error", err, "agent_id", agentID)
		http.Error(w, "failed to list bookings", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, ListResponse{
		Bookings: list,
		Count:    len(list),
		Offset:   offset,
		Limit:    limit,
	})
}

// Get handles GET /bookings/{bookingID} requests
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := tenancy.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "missing user context", http.StatusUnauthorized)
		return
	}

	id := chi.URLParam(r, "bookingID")
	b, err := h.repo.GetByID(r.Context(), ownerID, id)
	if err != nil {
		if errors.Is(err, ErrBookingNotFound) {
			http.Error(w, "booking not found", http.StatusNotFound)
			return
		}
		h.logger.Error("failed to load booking", "error", err, "id", id)
		http.Error(w, "failed to load booking", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, b)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
