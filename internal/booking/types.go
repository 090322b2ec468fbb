package booking

// ExtractedFields holds everything the extractor pulled out of a single
// message. Empty string means the field was not found; extraction never
// produces a matched-but-empty value.
type ExtractedFields struct {
	Date     string `json:"date,omitempty"`     // yyyy-MM-dd
	Time     string `json:"time,omitempty"`     // HH:MM, 24-hour
	Timezone string `json:"timezone,omitempty"` // IANA zone, defaults to UTC
	Name     string `json:"name,omitempty"`
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`
	Notes    string `json:"notes,omitempty"`
}

// State is the accumulated booking state for one (agent, session) pair,
// merged across turns. It is persisted as a JSON blob in the session store
// and echoed back to callers as the bookingContext payload, so the field
// names here are wire-stable.
type State struct {
	Data           ExtractedFields `json:"extractedData"`
	IsComplete     bool            `json:"isComplete"`
	Confidence     float64         `json:"confidence"`
	BookingCreated bool            `json:"bookingCreated"`
	BookingID      string          `json:"bookingId,omitempty"`
	ExternalURL    string          `json:"externalUrl,omitempty"`
	BookingError   string          `json:"bookingError,omitempty"`
}

// FlowState labels where a session sits in the booking flow.
type FlowState string

const (
	StateNotBooking          FlowState = "not_booking"
	StateCollecting          FlowState = "collecting"
	StateCompleteUnconfirmed FlowState = "complete_unconfirmed"
	StateBooked              FlowState = "booked"
	StateFailed              FlowState = "failed"
)

// FlowState derives the state-machine position from the accumulated flags.
func (s *State) FlowState() FlowState {
	switch {
	case s == nil:
		return StateNotBooking
	case s.BookingCreated:
		return StateBooked
	case s.BookingError != "":
		return StateFailed
	case s.IsComplete:
		return StateCompleteUnconfirmed
	default:
		return StateCollecting
	}
}

// Merge applies a sticky field-wise merge: a field already set is never
// cleared by a later turn that fails to mention it; a new non-empty value
// wins. Returns true if any field changed.
func (s *State) Merge(f ExtractedFields) bool {
	changed := false
	merge := func(dst *string, src string) {
		if src != "" && src != *dst {
			*dst = src
			changed = true
		}
	}
	merge(&s.Data.Date, f.Date)
	merge(&s.Data.Time, f.Time)
	merge(&s.Data.Timezone, f.Timezone)
	merge(&s.Data.Name, f.Name)
	merge(&s.Data.Email, f.Email)
	merge(&s.Data.Phone, f.Phone)
	merge(&s.Data.Notes, f.Notes)
	s.IsComplete = s.Data.Date != "" && s.Data.Time != "" && s.Data.Name != "" && s.Data.Email != ""
	s.Confidence = Confidence(s.Data)
	return changed
}

// TimeWindow is one bookable interval on a weekday, 24-hour HH:MM bounds.
type TimeWindow struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// CalendarConfig is the agent's calendar settings, owned by the agents
// store and read-only here.
type CalendarConfig struct {
	IsActive          bool                    `json:"is_active"`
	IntegrationType   string                  `json:"integration_type,omitempty"`
	CalendlyURL       string                  `json:"calendly_url,omitempty"`
	BookingDuration   int                     `json:"booking_duration,omitempty"` // minutes
	Timezone          string                  `json:"timezone,omitempty"`
	BufferTime        int                     `json:"buffer_time,omitempty"` // minutes
	AvailabilityRules map[string][]TimeWindow `json:"availability_rules,omitempty"`
}

// AvailabilityResult reports whether a slot can be booked. Reason is
// user-facing text, surfaced verbatim in the conversational reply.
type AvailabilityResult struct {
	Available bool   `json:"available"`
	Reason    string `json:"reason,omitempty"`
}

// ContextCalendar is the subset of calendar config echoed to clients in
// the bookingContext payload.
type ContextCalendar struct {
	IntegrationType string `json:"integration_type,omitempty"`
	CalendlyURL     string `json:"calendly_url,omitempty"`
	BookingDuration int    `json:"booking_duration,omitempty"`
}

// Context is the per-turn flow result attached to the chat response and
// persisted alongside the conversation turn.
type Context struct {
	IsBookingFlow  bool            `json:"isBookingFlow"`
	ExtractedData  ExtractedFields `json:"extractedData"`
	IsComplete     bool            `json:"isComplete"`
	Confidence     float64         `json:"confidence"`
	CalendarConfig ContextCalendar `json:"calendarConfig"`
	BookingCreated bool            `json:"bookingCreated,omitempty"`
	BookingID      string          `json:"bookingId,omitempty"`
	ExternalURL    string          `json:"externalUrl,omitempty"`
	BookingError   string          `json:"bookingError,omitempty"`
}
