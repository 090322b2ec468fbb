package conversation

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/Nishanth-S1142001/rebel-ai-sub003/internal/agents"
	"github.com/Nishanth-S1142001/rebel-ai-sub003/internal/booking"
	"github.com/Nishanth-S1142001/rebel-ai-sub003/internal/tenancy"
	"github.com/Nishanth-S1142001/rebel-ai-sub003/pkg/logging"
)

// Handler serves the chat endpoint.
type Handler struct {
	service *Service
	logger  *logging.Logger
}

// NewHandler creates a chat handler.
func NewHandler(service *Service, logger *logging.Logger) *Handler {
	if service == nil {
		panic("conversation: service required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{service: service, logger: logger}
}

// ChatRequest is the payload for POST /agents/{agentID}/chat. SessionID
// is minted server-side when absent so the first message needs none.
type ChatRequest struct {
	SessionID string `json:"session_id"`
	Message   string `json:"message"`
}

// ChatResponse carries the reply plus the booking-flow view.
type ChatResponse struct {
	SessionID      string           `json:"session_id"`
	Response       string           `json:"response"`
	BookingContext *booking.Context `json:"bookingContext,omitempty"`
}

// Chat handles POST /agents/{agentID}/chat requests
func (h *Handler) Chat(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := tenancy.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "missing user context", http.StatusUnauthorized)
		return
	}

	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	sessionID := strings.TrimSpace(req.SessionID)
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	result, err := h.service.HandleMessage(r.Context(), MessageInput{
		OwnerID:   ownerID,
		AgentID:   chi.URLParam(r, "agentID"),
		SessionID: sessionID,
		Message:   req.Message,
		Channel:   "web",
	})
	if err != nil {
		switch {
		case errors.Is(err, agents.ErrAgentNotFound):
			http.Error(w, "agent not found", http.StatusNotFound)
		case errors.Is(err, ErrAgentInactive):
			http.Error(w, "agent is inactive", http.StatusConflict)
		default:
			h.logger.Error("chat turn failed", "error", err, "session_id", sessionID)
			http.Error(w, "failed to process message", http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(ChatResponse{
		SessionID:      sessionID,
		Response:       result.Response,
		BookingContext: result.BookingContext,
	})
}
