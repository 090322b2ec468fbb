package bookings

import (
	"errors"
	"time"
)

// ErrBookingNotFound is returned when no booking matches the id within
// the owner's scope.
var ErrBookingNotFound = errors.New("bookings: booking not found")

// Booking is a confirmed appointment produced by a completed booking flow.
type Booking struct {
	ID          string    `json:"id"`
	AgentID     string    `json:"agent_id"`
	OwnerID     string    `json:"owner_id"`
	SessionID   string    `json:"session_id"`
	Date        string    `json:"date"`
	Time        string    `json:"time"`
	Timezone    string    `json:"timezone"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Phone       string    `json:"phone,omitempty"`
	Notes       string    `json:"notes,omitempty"`
	Duration    int       `json:"duration_minutes"`
	Status      string    `json:"status"`
	ExternalURL string    `json:"external_url,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}
