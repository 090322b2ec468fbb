package bookings

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/Nishanth-S1142001/rebel-ai-sub003/internal/booking"
	"github.com/Nishanth-S1142001/rebel-ai-sub003/pkg/logging"
)

var bookingsTracer = otel.Tracer("agents.internal.bookings")

// Notifier is told about confirmed bookings after they are stored.
type Notifier interface {
	BookingConfirmed(ctx context.Context, b *Booking) error
}

// Service persists bookings produced by completed flows. It implements
// booking.Creator.
type Service struct {
	repo     *Repository
	notifier Notifier
	logger   *logging.Logger
}

// NewService constructs a bookings service. notifier may be nil.
func NewService(repo *Repository, notifier Notifier, logger *logging.Logger) *Service {
	if repo == nil {
		panic("bookings: repository required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{repo: repo, notifier: notifier, logger: logger}
}

var _ booking.Creator = (*Service)(nil)

// CreateBooking inserts a confirmed booking row from accumulated flow fields.
func (s *Service) CreateBooking(ctx context.Context, req booking.CreateRequest) (booking.Created, error) {
	ctx, span := bookingsTracer.Start(ctx, "bookings.create")
	defer span.End()
	span.SetAttributes(
		attribute.String("agents.agent_id", req.AgentID),
		attribute.String("agents.session_id", req.SessionID),
	)

	row, err := s.repo.Insert(ctx, &Booking{
		AgentID:   req.AgentID,
		OwnerID:   req.OwnerID,
		SessionID: req.SessionID,
		Date:      req.Fields.Date,
		Time:      req.Fields.Time,
		Timezone:  req.Fields.Timezone,
		Name:      req.Fields.Name,
		Email:     req.Fields.Email,
		Phone:     req.Fields.Phone,
		Notes:     req.Fields.Notes,
		Duration:  req.DurationMinutes,
		Status:    "confirmed",
	})
	if err != nil {
		span.RecordError(err)
		return booking.Created{}, err
	}

	s.logger.Info("booking confirmed",
		"booking_id", row.ID,
		"agent_id", req.AgentID,
		"session_id", req.SessionID,
		"date", row.Date,
		"time", row.Time,
	)

	// The booking stands even if the confirmation message never lands.
	if s.notifier != nil {
		if err := s.notifier.BookingConfirmed(ctx, row); err != nil {
			s.logger.Warn("booking confirmation notification failed", "booking_id", row.ID, "error", err)
		}
	}

	return booking.Created{ID: row.ID, ExternalURL: row.ExternalURL}, nil
}
