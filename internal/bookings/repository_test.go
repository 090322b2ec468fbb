package bookings

import (
	"context"
	"errors"
	"testing"
	"time"

	pgxmock "github.com/pashagolub/pgxmock/v4"
)

func TestInsertBooking(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create pgx mock: %v", err)
	}
	defer mock.Close()

	repo := NewRepository(mock)
	now := time.Now().UTC()

	mock.ExpectQuery("INSERT INTO bookings").
		WithArgs(pgxmock.AnyArg(), "agent-1", "owner-1", "sess-1",
			"2026-01-12", "14:00", "America/New_York",
			"Jane Doe", "jane@example.com", "+15551234567", "",
			30, "confirmed", "").
		WillReturnRows(pgxmock.NewRows([]string{"created_at"}).AddRow(now))

	b, err := repo.Insert(context.Background(), &Booking{
		AgentID:   "agent-1",
		OwnerID:   "owner-1",
		SessionID: "sess-1",
		Date:      "2026-01-12",
		Time:      "14:00",
		Timezone:  "America/New_York",
		Name:      "Jane Doe",
		Email:     "jane@example.com",
		Phone:     "+15551234567",
		Duration:  30,
		Status:    "confirmed",
	})
	if err != nil {
		t.Fatalf("insert failed: %v", err)
	}
	if b.ID == "" || !b.CreatedAt.Equal(now) {
		t.Fatalf("unexpected booking: %+v", b)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestGetBookingNotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create pgx mock: %v", err)
	}
	defer mock.Close()

	repo := NewRepository(mock)

	mock.ExpectQuery("SELECT .* FROM bookings").
		WithArgs("missing", "owner-1").
		WillReturnRows(pgxmock.NewRows([]string{
			"id", "agent_id", "owner_id", "session_id", "booking_date", "booking_time",
			"timezone", "name", "email", "phone", "notes", "duration_minutes", "status",
			"external_url", "created_at",
		}))

	_, err = repo.GetByID(context.Background(), "owner-1", "missing")
	if !errors.Is(err, ErrBookingNotFound) {
		t.Fatalf("expected ErrBookingNotFound, got %v", err)
	}
}

func TestListBookingsByAgent(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create pgx mock: %v", err)
	}
	defer mock.Close()

	repo := NewRepository(mock)
	now := time.Now().UTC()

	rows := pgxmock.NewRows([]string{
		"id", "agent_id", "owner_id", "session_id", "booking_date", "booking_time",
		"timezone", "name", "email", "phone", "notes", "duration_minutes", "status",
		"external_url", "created_at",
	}).
		AddRow("b-1", "agent-1", "owner-1", "sess-1", "2026-01-12", "14:00",
			"UTC", "Jane Doe", "jane@example.com", "", "", 30, "confirmed", "", now).
		AddRow("b-2", "agent-1", "owner-1", "sess-2", "2026-01-13", "10:00",
			"UTC", "John Roe", "john@example.com", "", "", 30, "confirmed", "", now)

	mock.ExpectQuery("SELECT .* FROM bookings").
		WithArgs("agent-1", "owner-1", 50, 0).
		WillReturnRows(rows)

	list, err := repo.ListByAgent(context.Background(), "owner-1", "agent-1", 0, 0)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(list) != 2 || list[0].ID != "b-1" || list[1].Name != "John Roe" {
		t.Fatalf("unexpected list: %+v", list)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
