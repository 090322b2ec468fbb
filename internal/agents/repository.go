package agents

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Repository provides persistence for agents.
type Repository interface {
	Create(ctx context.Context, ownerID string, req *CreateAgentRequest) (*Agent, error)
	GetByID(ctx context.Context, ownerID, id string) (*Agent, error)
	// GetAny loads an agent without owner scoping. Only for internal
	// resolution (inbound webhooks); handlers must use GetByID.
	GetAny(ctx context.Context, id string) (*Agent, error)
	ListByOwner(ctx context.Context, ownerID string, limit, offset int) ([]*Agent, error)
	Update(ctx context.Context, agent *Agent) (*Agent, error)
	Delete(ctx context.Context, ownerID, id string) error
}

// DB is the subset of pgxpool.Pool the repository needs. pgxmock
// satisfies it in tests.
type DB interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// PostgresRepository stores agents in the relational database.
type PostgresRepository struct {
	pool DB
}

// NewPostgresRepository initializes a repo backed by a pgx pool.
func NewPostgresRepository(pool DB) *PostgresRepository {
	if pool == nil {
		panic("agents: pgx pool required")
	}
	return &PostgresRepository{pool: pool}
}

// Create inserts a new agent row.
func (r *PostgresRepository) Create(ctx context.Context, ownerID string, req *CreateAgentRequest) (*Agent, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}
	calendarJSON, err := json.Marshal(req.Calendar)
	if err != nil {
		return nil, fmt.Errorf("agents: encode calendar: %w", err)
	}

	id := uuid.New()
	query := `
		INSERT INTO agents (id, owner_id, name, description, system_prompt, welcome_message, calendar_config, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at, updated_at
	`
	var createdAt, updatedAt time.Time
	if err := r.pool.QueryRow(ctx, query,
		id,
		ownerID,
		req.Name,
		req.Description,
		req.SystemPrompt,
		req.WelcomeMessage,
		calendarJSON,
		isActive,
	).Scan(&createdAt, &updatedAt); err != nil {
		return nil, fmt.Errorf("agents: insert failed: %w", err)
	}

	return &Agent{
		ID:             id.String(),
		OwnerID:        ownerID,
		Name:           req.Name,
		Description:    req.Description,
		SystemPrompt:   req.SystemPrompt,
		WelcomeMessage: req.WelcomeMessage,
		Calendar:       req.Calendar,
		IsActive:       isActive,
		CreatedAt:      createdAt,
		UpdatedAt:      updatedAt,
	}, nil
}

const agentColumns = `id, owner_id, name, description, system_prompt, welcome_message, calendar_config, is_active, created_at, updated_at`

// GetByID fetches an agent scoped to its owner.
func (r *PostgresRepository) GetByID(ctx context.Context, ownerID, id string) (*Agent, error) {
	query := `SELECT ` + agentColumns + ` FROM agents WHERE id = $1 AND owner_id = $2`
	agent, err := scanAgent(r.pool.QueryRow(ctx, query, id, ownerID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrAgentNotFound
		}
		return nil, fmt.Errorf("agents: select failed: %w", err)
	}
	return agent, nil
}

// GetAny fetches an agent regardless of owner.
func (r *PostgresRepository) GetAny(ctx context.Context, id string) (*Agent, error) {
	query := `SELECT ` + agentColumns + ` FROM agents WHERE id = $1`
	agent, err := scanAgent(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrAgentNotFound
		}
		return nil, fmt.Errorf("agents: select failed: %w", err)
	}
	return agent, nil
}

// ListByOwner returns the owner's agents, newest first.
func (r *PostgresRepository) ListByOwner(ctx context.Context, ownerID string, limit, offset int) ([]*Agent, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	query := `SELECT ` + agentColumns + ` FROM agents WHERE owner_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.pool.Query(ctx, query, ownerID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("agents: list failed: %w", err)
	}
	defer rows.Close()

	var out []*Agent
	for rows.Next() {
		agent, err := scanAgent(rows)
		if err != nil {
			return nil, fmt.Errorf("agents: scan failed: %w", err)
		}
		out = append(out, agent)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("agents: list rows: %w", err)
	}
	return out, nil
}

// Update persists a modified agent and bumps updated_at.
func (r *PostgresRepository) Update(ctx context.Context, agent *Agent) (*Agent, error) {
	calendarJSON, err := json.Marshal(agent.Calendar)
	if err != nil {
		return nil, fmt.Errorf("agents: encode calendar: %w", err)
	}
	query := `
		UPDATE agents
		SET name = $3, description = $4, system_prompt = $5, welcome_message = $6, calendar_config = $7, is_active = $8, updated_at = now()
		WHERE id = $1 AND owner_id = $2
		RETURNING updated_at
	`
	var updatedAt time.Time
	if err := r.pool.QueryRow(ctx, query,
		agent.ID,
		agent.OwnerID,
		agent.Name,
		agent.Description,
		agent.SystemPrompt,
		agent.WelcomeMessage,
		calendarJSON,
		agent.IsActive,
	).Scan(&updatedAt); err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrAgentNotFound
		}
		return nil, fmt.Errorf("agents: update failed: %w", err)
	}
	agent.UpdatedAt = updatedAt
	return agent, nil
}

// Delete removes an agent scoped to its owner.
func (r *PostgresRepository) Delete(ctx context.Context, ownerID, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM agents WHERE id = $1 AND owner_id = $2`, id, ownerID)
	if err != nil {
		return fmt.Errorf("agents: delete failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrAgentNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAgent(row rowScanner) (*Agent, error) {
	var (
		agent        Agent
		calendarJSON []byte
	)
	if err := row.Scan(
		&agent.ID,
		&agent.OwnerID,
		&agent.Name,
		&agent.Description,
		&agent.SystemPrompt,
		&agent.WelcomeMessage,
		&calendarJSON,
		&agent.IsActive,
		&agent.CreatedAt,
		&agent.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if len(calendarJSON) > 0 {
		if err := json.Unmarshal(calendarJSON, &agent.Calendar); err != nil {
			return nil, fmt.Errorf("agents: decode calendar: %w", err)
		}
	}
	return &agent, nil
}
