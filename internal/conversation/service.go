package conversation

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/Nishanth-S1142001/rebel-ai-sub003/internal/agents"
	"github.com/Nishanth-S1142001/rebel-ai-sub003/internal/booking"
	"github.com/Nishanth-S1142001/rebel-ai-sub003/internal/knowledge"
	"github.com/Nishanth-S1142001/rebel-ai-sub003/internal/observability/metrics"
	"github.com/Nishanth-S1142001/rebel-ai-sub003/pkg/logging"
)

var conversationTracer = otel.Tracer("agents.internal.conversation")

// ErrAgentInactive is returned when the targeted agent is switched off.
var ErrAgentInactive = errors.New("conversation: agent is inactive")

// knowledgeChunkLimit caps how many passages feed the prompt.
const knowledgeChunkLimit = 5

// LLMSettings tunes completions per deployment.
type LLMSettings struct {
	Model       string
	MaxTokens   int32
	Temperature float32
	TopP        float32
}

// MessageInput is one inbound user message. OwnerID is empty on channels
// without an authenticated user (SMS webhooks); the agent is then loaded
// without owner scoping.
type MessageInput struct {
	OwnerID   string
	AgentID   string
	SessionID string
	Message   string
	Channel   string
}

// ChatResult is the assistant reply plus the booking-flow view for the
// client. BookingContext is nil when the turn was plain conversation.
type ChatResult struct {
	Response       string
	BookingContext *booking.Context
}

// Service runs the chat pipeline: booking flow first, then knowledge
// retrieval, then the LLM completion, with the transcript persisted
// around it.
type Service struct {
	agents    agents.Repository
	flow      *booking.Controller
	history   *HistoryStore
	llm       LLMClient
	knowledge knowledge.Searcher
	settings  LLMSettings
	metrics   *metrics.ChatMetrics
	logger    *logging.Logger
}

// NewService wires the chat pipeline. knowledge and metrics may be nil.
func NewService(
	repo agents.Repository,
	flow *booking.Controller,
	history *HistoryStore,
	llm LLMClient,
	searcher knowledge.Searcher,
	settings LLMSettings,
	chatMetrics *metrics.ChatMetrics,
	logger *logging.Logger,
) *Service {
	if repo == nil {
		panic("conversation: agents repository required")
	}
	if flow == nil {
		panic("conversation: booking flow controller required")
	}
	if history == nil {
		panic("conversation: history store required")
	}
	if llm == nil {
		panic("conversation: llm client required")
	}
	if searcher == nil {
		searcher = knowledge.NoopSearcher{}
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{
		agents:    repo,
		flow:      flow,
		history:   history,
		llm:       llm,
		knowledge: searcher,
		settings:  settings,
		metrics:   chatMetrics,
		logger:    logger,
	}
}

// HandleMessage processes one user message end to end and returns the
// assistant's reply.
func (s *Service) HandleMessage(ctx context.Context, in MessageInput) (*ChatResult, error) {
	started := time.Now()
	ctx, span := conversationTracer.Start(ctx, "conversation.handle_message")
	defer span.End()
	span.SetAttributes(
		attribute.String("agents.agent_id", in.AgentID),
		attribute.String("agents.session_id", in.SessionID),
		attribute.String("agents.channel", in.Channel),
	)

	agent, err := s.loadAgent(ctx, in)
	if err != nil {
		span.RecordError(err)
		s.metrics.ObserveMessage(in.Channel, "error")
		return nil, err
	}
	if !agent.IsActive {
		s.metrics.ObserveMessage(in.Channel, "inactive")
		return nil, ErrAgentInactive
	}

	// An empty first message opens the session with the configured
	// greeting instead of a completion.
	if strings.TrimSpace(in.Message) == "" && agent.WelcomeMessage != "" {
		s.metrics.ObserveMessage(in.Channel, "welcome")
		return &ChatResult{Response: agent.WelcomeMessage}, nil
	}

	turn, err := s.flow.HandleTurn(ctx, booking.TurnInput{
		AgentID:   agent.ID,
		OwnerID:   agent.OwnerID,
		SessionID: in.SessionID,
		Message:   in.Message,
		Calendar:  agent.Calendar,
	})
	if err != nil {
		span.RecordError(err)
		s.metrics.ObserveMessage(in.Channel, "error")
		return nil, err
	}
	if turn.BookedNow {
		s.metrics.ObserveBooking("created")
	} else if turn.Context != nil && turn.Context.BookingError != "" {
		s.metrics.ObserveBooking("failed")
	}

	chunks, err := s.knowledge.Search(ctx, agent.ID, in.Message, knowledgeChunkLimit)
	if err != nil {
		// Retrieval is best effort; the reply degrades to the agent's
		// own prompt.
		s.logger.Warn("knowledge search failed", "agent_id", agent.ID, "error", err)
		chunks = nil
	}

	history, err := s.history.Load(ctx, agent.ID, in.SessionID)
	if err != nil {
		s.logger.Warn("history load failed", "agent_id", agent.ID, "session_id", in.SessionID, "error", err)
		history = nil
	}

	messages := append(history, ChatMessage{Role: ChatRoleUser, Content: in.Message})
	resp, err := s.llm.Complete(ctx, LLMRequest{
		Model:       s.settings.Model,
		System:      buildSystemPrompts(agent.SystemPrompt, chunks, turn.Context, turn.Availability),
		Messages:    messages,
		MaxTokens:   s.settings.MaxTokens,
		Temperature: s.settings.Temperature,
		TopP:        s.settings.TopP,
	})
	if err != nil {
		span.RecordError(err)
		s.metrics.ObserveMessage(in.Channel, "llm_error")
		return nil, err
	}
	s.metrics.ObserveLLMTokens(resp.Usage.InputTokens, resp.Usage.OutputTokens)

	messages = append(messages, ChatMessage{Role: ChatRoleAssistant, Content: resp.Text})
	if err := s.history.Save(ctx, agent.ID, in.SessionID, messages); err != nil {
		// The reply already exists; losing one history write only costs
		// context on the next turn.
		s.logger.Error("history save failed", "agent_id", agent.ID, "session_id", in.SessionID, "error", err)
	}

	s.metrics.ObserveMessage(in.Channel, "ok")
	s.metrics.ObserveTurnLatency(in.Channel, time.Since(started).Seconds())

	return &ChatResult{
		Response:       resp.Text,
		BookingContext: turn.Context,
	}, nil
}

func (s *Service) loadAgent(ctx context.Context, in MessageInput) (*agents.Agent, error) {
	if in.OwnerID != "" {
		return s.agents.GetByID(ctx, in.OwnerID, in.AgentID)
	}
	return s.agents.GetAny(ctx, in.AgentID)
}
