package notify

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Nishanth-S1142001/rebel-ai-sub003/internal/bookings"
	"github.com/Nishanth-S1142001/rebel-ai-sub003/pkg/logging"
)

// SMSSender sends SMS messages to customers.
type SMSSender interface {
	SendSMS(ctx context.Context, to, body string) error
}

// Service sends booking confirmations to customers. Failures here never
// fail the booking itself; callers log and move on.
type Service struct {
	email  EmailSender
	sms    SMSSender
	logger *logging.Logger
}

// NewService creates a notification service. email and sms may be nil;
// the matching channel is then skipped.
func NewService(email EmailSender, sms SMSSender, logger *logging.Logger) *Service {
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{email: email, sms: sms, logger: logger}
}

var _ bookings.Notifier = (*Service)(nil)

// BookingConfirmed emails the customer their confirmation and texts them
// when a phone number was collected.
func (s *Service) BookingConfirmed(ctx context.Context, b *bookings.Booking) error {
	var errs []string

	if s.email != nil && b.Email != "" {
		msg := EmailMessage{
			To:      b.Email,
			ToName:  b.Name,
			Subject: fmt.Sprintf("Booking confirmed for %s", formatBookingDate(b.Date)),
			Body:    confirmationBody(b),
		}
		if err := s.email.Send(ctx, msg); err != nil {
			s.logger.Error("confirmation email failed", "booking_id", b.ID, "error", err)
			errs = append(errs, err.Error())
		}
	}

	if s.sms != nil && b.Phone != "" {
		body := fmt.Sprintf("Your booking is confirmed for %s at %s. See you then!",
			formatBookingDate(b.Date), b.Time)
		if err := s.sms.SendSMS(ctx, b.Phone, body); err != nil {
			s.logger.Error("confirmation sms failed", "booking_id", b.ID, "error", err)
			errs = append(errs, err.Error())
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("notify: booking confirmation partially failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

func confirmationBody(b *bookings.Booking) string {
	var sb strings.Builder
	name := b.Name
	if name == "" {
		name = "there"
	}
	fmt.Fprintf(&sb, "Hi %s,\n\n", name)
	fmt.Fprintf(&sb, "Your booking is confirmed for %s at %s", formatBookingDate(b.Date), b.Time)
	if b.Timezone != "" {
		fmt.Fprintf(&sb, " (%s)", b.Timezone)
	}
	sb.WriteString(".\n")
	if b.Duration > 0 {
		fmt.Fprintf(&sb, "Duration: %d minutes.\n", b.Duration)
	}
	if b.ExternalURL != "" {
		fmt.Fprintf(&sb, "Manage your booking: %s\n", b.ExternalURL)
	}
	if b.Notes != "" {
		fmt.Fprintf(&sb, "Notes: %s\n", b.Notes)
	}
	sb.WriteString("\nSee you then!\n")
	return sb.String()
}

func formatBookingDate(date string) string {
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		return date
	}
	return t.Format("Monday, January 2, 2006")
}
