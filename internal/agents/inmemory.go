package agents

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// InMemoryRepository keeps agents in a map. Used in tests and local
// development when no database is configured.
type InMemoryRepository struct {
	mu     sync.RWMutex
	agents map[string]*Agent
}

// NewInMemoryRepository creates an empty in-memory store.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{agents: make(map[string]*Agent)}
}

var _ Repository = (*InMemoryRepository)(nil)

func (r *InMemoryRepository) Create(_ context.Context, ownerID string, req *CreateAgentRequest) (*Agent, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}
	now := time.Now().UTC()
	agent := &Agent{
		ID:             uuid.NewString(),
		OwnerID:        ownerID,
		Name:           req.Name,
		Description:    req.Description,
		SystemPrompt:   req.SystemPrompt,
		WelcomeMessage: req.WelcomeMessage,
		Calendar:       req.Calendar,
		IsActive:       isActive,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.agents[agent.ID] = agent
	clone := *agent
	return &clone, nil
}

func (r *InMemoryRepository) GetByID(_ context.Context, ownerID, id string) (*Agent, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	agent, ok := r.agents[id]
	if !ok || agent.OwnerID != ownerID {
		return nil, ErrAgentNotFound
	}
	clone := *agent
	return &clone, nil
}

func (r *InMemoryRepository) GetAny(_ context.Context, id string) (*Agent, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	agent, ok := r.agents[id]
	if !ok {
		return nil, ErrAgentNotFound
	}
	clone := *agent
	return &clone, nil
}

func (r *InMemoryRepository) ListByOwner(_ context.Context, ownerID string, limit, offset int) ([]*Agent, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	r.mu.RLock()
	var owned []*Agent
	for _, agent := range r.agents {
		if agent.OwnerID == ownerID {
			clone := *agent
			owned = append(owned, &clone)
		}
	}
	r.mu.RUnlock()

	sort.Slice(owned, func(i, j int) bool { return owned[i].CreatedAt.After(owned[j].CreatedAt) })
	if offset >= len(owned) {
		return nil, nil
	}
	end := offset + limit
	if end > len(owned) {
		end = len(owned)
	}
	return owned[offset:end], nil
}

func (r *InMemoryRepository) Update(_ context.Context, agent *Agent) (*Agent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.agents[agent.ID]
	if !ok || existing.OwnerID != agent.OwnerID {
		return nil, ErrAgentNotFound
	}
	agent.CreatedAt = existing.CreatedAt
	agent.UpdatedAt = time.Now().UTC()
	clone := *agent
	r.agents[agent.ID] = &clone
	out := clone
	return &out, nil
}

func (r *InMemoryRepository) Delete(_ context.Context, ownerID, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.agents[id]
	if !ok || existing.OwnerID != ownerID {
		return ErrAgentNotFound
	}
	delete(r.agents, id)
	return nil
}
