package bookings

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DB is the subset of pgxpool.Pool the repository needs. pgxmock
// satisfies it in tests.
type DB interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// Repository provides persistence for bookings.
type Repository struct {
	pool DB
}

// NewRepository creates a repository backed by a pgx pool.
func NewRepository(pool DB) *Repository {
	if pool == nil {
		panic("bookings: pgx pool required")
	}
	return &Repository{pool: pool}
}

const bookingColumns = `id, agent_id, owner_id, session_id, booking_date, booking_time, timezone, name, email, phone, notes, duration_minutes, status, external_url, created_at`

// Insert stores a confirmed booking row and returns it with its id.
func (r *Repository) Insert(ctx context.Context, b *Booking) (*Booking, error) {
	id := uuid.New()
	query := `
		INSERT INTO bookings (id, agent_id, owner_id, session_id, booking_date, booking_time, timezone, name, email, phone, notes, duration_minutes, status, external_url)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING created_at
	`
	var createdAt time.Time
	if err := r.pool.QueryRow(ctx, query,
		id,
		b.AgentID,
		b.OwnerID,
		b.SessionID,
		b.Date,
		b.Time,
		b.Timezone,
		b.Name,
		b.Email,
		b.Phone,
		b.Notes,
		b.Duration,
		b.Status,
		b.ExternalURL,
	).Scan(&createdAt); err != nil {
		return nil, fmt.Errorf("bookings: insert failed: %w", err)
	}

	out := *b
	out.ID = id.String()
	out.CreatedAt = createdAt
	return &out, nil
}

// GetByID fetches a booking scoped to its owner.
func (r *Repository) GetByID(ctx context.Context, ownerID, id string) (*Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1 AND owner_id = $2`
	b, err := scanBooking(r.pool.QueryRow(ctx, query, id, ownerID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrBookingNotFound
		}
		return nil, fmt.Errorf("bookings: select failed: %w", err)
	}
	return b, nil
}

// ListByAgent returns an agent's bookings, newest first.
func (r *Repository) ListByAgent(ctx context.Context, ownerID, agentID string, limit, offset int) ([]*Booking, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE agent_id = $1 AND owner_id = $2 ORDER BY created_at DESC LIMIT $3 OFFSET $4`
	rows, err := r.pool.Query(ctx, query, agentID, ownerID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("bookings: list failed: %w", err)
	}
	defer rows.Close()

	var out []*Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("bookings: scan failed: %w", err)
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("bookings: list rows: %w", err)
	}
	return out, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBooking(row rowScanner) (*Booking, error) {
	var b Booking
	if err := row.Scan(
		&b.ID,
		&b.AgentID,
		&b.OwnerID,
		&b.SessionID,
		&b.Date,
		&b.Time,
		&b.Timezone,
		&b.Name,
		&b.Email,
		&b.Phone,
		&b.Notes,
		&b.Duration,
		&b.Status,
		&b.ExternalURL,
		&b.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &b, nil
}
