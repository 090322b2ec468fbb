package feedback

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Entry is one piece of user feedback about an agent conversation.
type Entry struct {
	ID        string    `json:"id"`
	OwnerID   string    `json:"owner_id"`
	AgentID   string    `json:"agent_id,omitempty"`
	SessionID string    `json:"session_id,omitempty"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// SubmitRequest is the payload for POST /feedback.
type SubmitRequest struct {
	AgentID   string `json:"agent_id"`
	SessionID string `json:"session_id"`
	Rating    int    `json:"rating"`
	Comment   string `json:"comment"`
}

// Validate checks rating bounds and comment length.
func (r *SubmitRequest) Validate() error {
	if r.Rating < 1 || r.Rating > 5 {
		return errors.New("feedback: rating must be between 1 and 5")
	}
	if len(r.Comment) > 2000 {
		return errors.New("feedback: comment too long")
	}
	return nil
}

// DB is the subset of pgxpool.Pool the repository needs.
type DB interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// Repository stores feedback entries.
type Repository struct {
	pool DB
}

// NewRepository creates a repository backed by a pgx pool.
func NewRepository(pool DB) *Repository {
	if pool == nil {
		panic("feedback: pgx pool required")
	}
	return &Repository{pool: pool}
}

// Insert stores one feedback entry.
func (r *Repository) Insert(ctx context.Context, ownerID string, req *SubmitRequest) (*Entry, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	id := uuid.New()
	query := `
		INSERT INTO feedback (id, owner_id, agent_id, session_id, rating, comment)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at
	`
	var createdAt time.Time
	if err := r.pool.QueryRow(ctx, query,
		id,
		ownerID,
		req.AgentID,
		req.SessionID,
		req.Rating,
		strings.TrimSpace(req.Comment),
	).Scan(&createdAt); err != nil {
		return nil, fmt.Errorf("feedback: insert failed: %w", err)
	}

	return &Entry{
		ID:        id.String(),
		OwnerID:   ownerID,
		AgentID:   req.AgentID,
		SessionID: req.SessionID,
		Rating:    req.Rating,
		Comment:   strings.TrimSpace(req.Comment),
		CreatedAt: createdAt,
	}, nil
}
