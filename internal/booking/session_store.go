package booking

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

// DefaultSessionTTL bounds how long an abandoned booking flow survives.
// Every merge refreshes the clock.
const DefaultSessionTTL = 24 * time.Hour

// SessionStore persists accumulated booking state per (agent, session)
// key. This replaces reconstructing flow state by scanning conversation
// history each turn: one authoritative record, explicit expiry.
type SessionStore struct {
	redis  *redis.Client
	ttl    time.Duration
	tracer trace.Tracer
}

// NewSessionStore builds a store on the shared redis client.
func NewSessionStore(client *redis.Client, ttl time.Duration) *SessionStore {
	if client == nil {
		panic("booking: redis client required")
	}
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &SessionStore{
		redis:  client,
		ttl:    ttl,
		tracer: otel.Tracer("agents.internal.booking.sessions"),
	}
}

func sessionKey(agentID, sessionID string) string {
	return fmt.Sprintf("booking_session:%s:%s", agentID, sessionID)
}

// Load returns the accumulated state for the pair, or nil when the session
// has no booking flow in progress.
func (s *SessionStore) Load(ctx context.Context, agentID, sessionID string) (*State, error) {
	ctx, span := s.tracer.Start(ctx, "booking.sessions.load")
	defer span.End()

	data, err := s.redis.Get(ctx, sessionKey(agentID, sessionID)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		span.RecordError(err)
		return nil, fmt.Errorf("booking: load session: %w", err)
	}

	var state State
	if err := json.Unmarshal(data, &state); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("booking: decode session: %w", err)
	}
	return &state, nil
}

// Save writes the state back and refreshes its TTL.
func (s *SessionStore) Save(ctx context.Context, agentID, sessionID string, state *State) error {
	ctx, span := s.tracer.Start(ctx, "booking.sessions.save")
	defer span.End()

	data, err := json.Marshal(state)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("booking: encode session: %w", err)
	}
	if err := s.redis.Set(ctx, sessionKey(agentID, sessionID), data, s.ttl).Err(); err != nil {
		span.RecordError(err)
		return fmt.Errorf("booking: persist session: %w", err)
	}
	return nil
}

// Delete drops the session state, closing the flow.
func (s *SessionStore) Delete(ctx context.Context, agentID, sessionID string) error {
	ctx, span := s.tracer.Start(ctx, "booking.sessions.delete")
	defer span.End()

	if err := s.redis.Del(ctx, sessionKey(agentID, sessionID)).Err(); err != nil {
		span.RecordError(err)
		return fmt.Errorf("booking: delete session: %w", err)
	}
	return nil
}
