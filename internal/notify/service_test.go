package notify

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/Nishanth-S1142001/rebel-ai-sub003/internal/bookings"
	"github.com/Nishanth-S1142001/rebel-ai-sub003/pkg/logging"
)

type captureEmail struct {
	sent []EmailMessage
	err  error
}

func (c *captureEmail) Send(_ context.Context, msg EmailMessage) error {
	if c.err != nil {
		return c.err
	}
	c.sent = append(c.sent, msg)
	return nil
}

type captureSMS struct {
	to   []string
	body []string
	err  error
}

func (c *captureSMS) SendSMS(_ context.Context, to, body string) error {
	if c.err != nil {
		return c.err
	}
	c.to = append(c.to, to)
	c.body = append(c.body, body)
	return nil
}

func testBooking() *bookings.Booking {
	return &bookings.Booking{
		ID:          "bk-1",
		Date:        "2026-01-12",
		Time:        "14:00",
		Timezone:    "America/New_York",
		Name:        "Jane Doe",
		Email:       "jane@example.com",
		Phone:       "+15551234567",
		Duration:    30,
		ExternalURL: "https://calendly.com/team/meet",
	}
}

func TestBookingConfirmedSendsEmailAndSMS(t *testing.T) {
	email := &captureEmail{}
	sms := &captureSMS{}
	svc := NewService(email, sms, logging.Default())

	if err := svc.BookingConfirmed(context.Background(), testBooking()); err != nil {
		t.Fatalf("notify failed: %v", err)
	}

	if len(email.sent) != 1 {
		t.Fatalf("expected one email, got %d", len(email.sent))
	}
	msg := email.sent[0]
	if msg.To != "jane@example.com" || !strings.Contains(msg.Subject, "Monday, January 12, 2026") {
		t.Fatalf("unexpected email: %+v", msg)
	}
	for _, want := range []string{"Hi Jane Doe", "14:00", "America/New_York", "30 minutes", "https://calendly.com/team/meet"} {
		if !strings.Contains(msg.Body, want) {
			t.Errorf("email body missing %q:\n%s", want, msg.Body)
		}
	}

	if len(sms.to) != 1 || sms.to[0] != "+15551234567" {
		t.Fatalf("unexpected sms recipients: %v", sms.to)
	}
	if !strings.Contains(sms.body[0], "confirmed") {
		t.Fatalf("unexpected sms body: %q", sms.body[0])
	}
}

func TestBookingConfirmedSkipsMissingChannels(t *testing.T) {
	email := &captureEmail{}
	svc := NewService(email, nil, logging.Default())

	b := testBooking()
	b.Phone = ""
	if err := svc.BookingConfirmed(context.Background(), b); err != nil {
		t.Fatalf("notify failed: %v", err)
	}
	if len(email.sent) != 1 {
		t.Fatalf("expected one email, got %d", len(email.sent))
	}
}

func TestBookingConfirmedReportsFailures(t *testing.T) {
	email := &captureEmail{err: errors.New("smtp down")}
	sms := &captureSMS{}
	svc := NewService(email, sms, logging.Default())

	err := svc.BookingConfirmed(context.Background(), testBooking())
	if err == nil {
		t.Fatal("expected error when email fails")
	}
	// The SMS channel still went out.
	if len(sms.to) != 1 {
		t.Fatalf("expected sms despite email failure, got %v", sms.to)
	}
}

func TestFormatBookingDateFallback(t *testing.T) {
	if got := formatBookingDate("not-a-date"); got != "not-a-date" {
		t.Fatalf("expected passthrough, got %q", got)
	}
}
