package conversation

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

// DefaultHistoryTTL bounds how long an idle conversation survives.
const DefaultHistoryTTL = 24 * time.Hour

// maxHistoryMessages caps the transcript sent back to the model. Older
// turns fall off the front.
const maxHistoryMessages = 40

// HistoryStore keeps per-(agent, session) transcripts in redis.
type HistoryStore struct {
	redis  *redis.Client
	ttl    time.Duration
	tracer trace.Tracer
}

// NewHistoryStore wires a redis-backed history store.
func NewHistoryStore(client *redis.Client, ttl time.Duration) *HistoryStore {
	if client == nil {
		panic("conversation: redis client cannot be nil")
	}
	if ttl <= 0 {
		ttl = DefaultHistoryTTL
	}
	return &HistoryStore{
		redis:  client,
		ttl:    ttl,
		tracer: otel.Tracer("agents.internal.conversation.history"),
	}
}

func historyKey(agentID, sessionID string) string {
	return fmt.Sprintf("chat_history:%s:%s", agentID, sessionID)
}

// Load returns the stored transcript, or an empty one for a new session.
func (s *HistoryStore) Load(ctx context.Context, agentID, sessionID string) ([]ChatMessage, error) {
	ctx, span := s.tracer.Start(ctx, "conversation.load_history")
	defer span.End()

	data, err := s.redis.Get(ctx, historyKey(agentID, sessionID)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		span.RecordError(err)
		return nil, fmt.Errorf("conversation: failed to load history: %w", err)
	}

	var history []ChatMessage
	if err := json.Unmarshal(data, &history); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("conversation: failed to decode history: %w", err)
	}
	return history, nil
}

// Save persists the transcript and refreshes its TTL. The transcript is
// truncated to the newest maxHistoryMessages entries.
func (s *HistoryStore) Save(ctx context.Context, agentID, sessionID string, history []ChatMessage) error {
	ctx, span := s.tracer.Start(ctx, "conversation.save_history")
	defer span.End()

	if len(history) > maxHistoryMessages {
		history = history[len(history)-maxHistoryMessages:]
	}
	data, err := json.Marshal(history)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("conversation: failed to marshal history: %w", err)
	}
	if err := s.redis.Set(ctx, historyKey(agentID, sessionID), data, s.ttl).Err(); err != nil {
		span.RecordError(err)
		return fmt.Errorf("conversation: failed to persist history: %w", err)
	}
	return nil
}
