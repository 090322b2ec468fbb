package bookings

import (
	"context"
	"testing"
	"time"

	pgxmock "github.com/pashagolub/pgxmock/v4"

	"github.com/Nishanth-S1142001/rebel-ai-sub003/internal/booking"
	"github.com/Nishanth-S1142001/rebel-ai-sub003/pkg/logging"
)

func TestCreateBookingPersistsFlowFields(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create pgx mock: %v", err)
	}
	defer mock.Close()

	svc := NewService(NewRepository(mock), nil, logging.Default())

	mock.ExpectQuery("INSERT INTO bookings").
		WithArgs(pgxmock.AnyArg(), "agent-1", "owner-1", "sess-1",
			"2026-01-12", "14:00", "UTC",
			"Jane Doe", "jane@example.com", "", "bring paperwork",
			45, "confirmed", "").
		WillReturnRows(pgxmock.NewRows([]string{"created_at"}).AddRow(time.Now().UTC()))

	created, err := svc.CreateBooking(context.Background(), booking.CreateRequest{
		AgentID:   "agent-1",
		OwnerID:   "owner-1",
		SessionID: "sess-1",
		Fields: booking.ExtractedFields{
			Date:     "2026-01-12",
			Time:     "14:00",
			Timezone: "UTC",
			Name:     "Jane Doe",
			Email:    "jane@example.com",
			Notes:    "bring paperwork",
		},
		DurationMinutes: 45,
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if created.ID == "" {
		t.Fatal("expected booking id")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
