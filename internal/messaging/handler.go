package messaging

import (
	"context"
	"encoding/xml"
	"net/http"
	"strings"

	"github.com/Nishanth-S1142001/rebel-ai-sub003/internal/conversation"
	"github.com/Nishanth-S1142001/rebel-ai-sub003/internal/observability/metrics"
	"github.com/Nishanth-S1142001/rebel-ai-sub003/pkg/logging"
)

// ChatService is the slice of the conversation pipeline the webhook needs.
type ChatService interface {
	HandleMessage(ctx context.Context, in conversation.MessageInput) (*conversation.ChatResult, error)
}

// HandlerConfig wires the Twilio webhook to one agent.
type HandlerConfig struct {
	AuthToken string
	// WebhookURL is the public URL Twilio signs against.
	WebhookURL string
	// AgentID receives all inbound SMS.
	AgentID string
	// SkipSignatureCheck disables validation for local development.
	SkipSignatureCheck bool
}

// Handler turns inbound Twilio SMS into chat turns and answers with TwiML.
type Handler struct {
	cfg     HandlerConfig
	chat    ChatService
	metrics *metrics.ChatMetrics
	logger  *logging.Logger
}

// NewHandler creates the Twilio webhook handler.
func NewHandler(cfg HandlerConfig, chat ChatService, chatMetrics *metrics.ChatMetrics, logger *logging.Logger) *Handler {
	if chat == nil {
		panic("messaging: chat service required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{cfg: cfg, chat: chat, metrics: chatMetrics, logger: logger}
}

type twimlResponse struct {
	XMLName xml.Name `xml:"Response"`
	Message string   `xml:"Message,omitempty"`
}

// Webhook handles POST /messaging/twilio/webhook requests. The sender's
// phone number keys the session, so each number gets its own flow.
func (h *Handler) Webhook(w http.ResponseWriter, r *http.Request) {
	if !h.cfg.SkipSignatureCheck && !ValidateTwilioSignature(r, h.cfg.AuthToken, h.cfg.WebhookURL) {
		h.metrics.ObserveMessage("sms", "bad_signature")
		http.Error(w, "invalid signature", http.StatusForbidden)
		return
	}

	sms, err := ParseInboundSMS(r)
	if err != nil {
		http.Error(w, "invalid webhook payload", http.StatusBadRequest)
		return
	}
	from := NormalizeE164(sms.From)
	if from == "" || strings.TrimSpace(sms.Body) == "" {
		writeTwiML(w, "")
		return
	}

	result, err := h.chat.HandleMessage(r.Context(), conversation.MessageInput{
		AgentID:   h.cfg.AgentID,
		SessionID: "sms:" + from,
		Message:   sms.Body,
		Channel:   "sms",
	})
	if err != nil {
		h.logger.Error("sms turn failed", "from", from, "error", err)
		// Twilio retries on 5xx; answer 200 with a fallback body instead.
		writeTwiML(w, "Sorry, something went wrong. Please try again shortly.")
		return
	}

	h.logger.Info("sms reply sent", "from", from, "message_sid", sms.MessageSid)
	writeTwiML(w, result.Response)
}

func writeTwiML(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/xml")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(xml.Header))
	_ = xml.NewEncoder(w).Encode(twimlResponse{Message: message})
}
