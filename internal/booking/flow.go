package booking

import (
	"context"
	"hash/fnv"
	"sync"

	"github.com/Nishanth-S1142001/rebel-ai-sub003/pkg/logging"
)

// Sessions is the state persistence the controller needs.
type Sessions interface {
	Load(ctx context.Context, agentID, sessionID string) (*State, error)
	Save(ctx context.Context, agentID, sessionID string, state *State) error
}

// CreateRequest carries the accumulated fields to the booking-creation
// collaborator.
type CreateRequest struct {
	AgentID         string
	OwnerID         string
	SessionID       string
	Fields          ExtractedFields
	DurationMinutes int
}

// Created is the collaborator's answer on success.
type Created struct {
	ID          string
	ExternalURL string
}

// Creator creates the downstream booking record.
type Creator interface {
	CreateBooking(ctx context.Context, req CreateRequest) (Created, error)
}

// TurnInput is one inbound chat message plus the agent's calendar settings.
type TurnInput struct {
	AgentID   string
	OwnerID   string
	SessionID string
	Message   string
	Calendar  CalendarConfig
}

// TurnResult is what one pass through the flow produced. Context is nil
// when the turn was not booking-related and normal chat should proceed.
type TurnResult struct {
	Context      *Context
	Availability *AvailabilityResult
	NewData      bool
	// BookedNow is true only on the turn that created the booking.
	BookedNow bool
	State     FlowState
}

// Controller drives the multi-turn booking flow. Turns for the same
// (agent, session) pair are serialized through a striped mutex so two
// concurrent messages cannot race each other into a duplicate booking.
type Controller struct {
	sessions Sessions
	creator  Creator
	logger   *logging.Logger
	locks    [sessionShards]sync.Mutex
}

const sessionShards = 64

// NewController wires the flow controller to its collaborators.
func NewController(sessions Sessions, creator Creator, logger *logging.Logger) *Controller {
	if sessions == nil {
		panic("booking: session store required")
	}
	if creator == nil {
		panic("booking: creator required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Controller{sessions: sessions, creator: creator, logger: logger}
}

func (c *Controller) shard(agentID, sessionID string) *sync.Mutex {
	h := fnv.New32a()
	h.Write([]byte(agentID))
	h.Write([]byte{0})
	h.Write([]byte(sessionID))
	return &c.locks[h.Sum32()%sessionShards]
}

// HandleTurn runs the booking state machine for one inbound message.
//
// The turn is booking-related when the calendar is active and either the
// message itself reads as booking intent, or the session already has an
// open flow (state exists and the booking has not been created yet). An
// open flow that is already complete still continues, so a bare "yes" can
// confirm it.
func (c *Controller) HandleTurn(ctx context.Context, in TurnInput) (TurnResult, error) {
	if !in.Calendar.IsActive {
		return TurnResult{State: StateNotBooking}, nil
	}

	mu := c.shard(in.AgentID, in.SessionID)
	mu.Lock()
	defer mu.Unlock()

	prior, err := c.sessions.Load(ctx, in.AgentID, in.SessionID)
	if err != nil {
		return TurnResult{}, err
	}

	inOpenFlow := prior != nil && !prior.BookingCreated
	if !IsBookingIntent(in.Message) && !inOpenFlow {
		return TurnResult{State: prior.FlowState()}, nil
	}

	state := prior
	if state == nil {
		state = &State{Data: ExtractedFields{}}
	}

	fields := ExtractFields(in.Message)
	newData := state.Merge(fields)

	result := TurnResult{NewData: newData}

	slotOK := true
	if state.Data.Date != "" && state.Data.Time != "" {
		av := IsSlotAvailable(in.Calendar, state.Data.Date, state.Data.Time, in.Calendar.BookingDuration)
		result.Availability = &av
		slotOK = av.Available
	}

	// Dual create trigger: an explicit confirmation on a complete flow, or
	// a turn that merged new data and completed the flow. The second path
	// books without the user ever saying "confirm". Do not tighten this
	// without product sign-off; clients rely on the auto-create path.
	shouldCreate := state.IsComplete && !state.BookingCreated && slotOK &&
		(IsConfirmationIntent(in.Message) || newData)

	if shouldCreate {
		created, err := c.creator.CreateBooking(ctx, CreateRequest{
			AgentID:         in.AgentID,
			OwnerID:         in.OwnerID,
			SessionID:       in.SessionID,
			Fields:          state.Data,
			DurationMinutes: in.Calendar.BookingDuration,
		})
		if err != nil {
			// Creation failures keep the flow open: bookingCreated stays
			// false so the user's next message can retry.
			state.BookingError = err.Error()
			c.logger.Error("booking creation failed",
				"agent_id", in.AgentID,
				"session_id", in.SessionID,
				"error", err,
			)
		} else {
			result.BookedNow = true
			state.BookingCreated = true
			state.BookingID = created.ID
			state.ExternalURL = created.ExternalURL
			if state.ExternalURL == "" {
				state.ExternalURL = in.Calendar.CalendlyURL
			}
			state.BookingError = ""
			c.logger.Info("booking created",
				"agent_id", in.AgentID,
				"session_id", in.SessionID,
				"booking_id", created.ID,
			)
		}
	}

	if err := c.sessions.Save(ctx, in.AgentID, in.SessionID, state); err != nil {
		return TurnResult{}, err
	}

	result.State = state.FlowState()
	result.Context = &Context{
		IsBookingFlow: true,
		ExtractedData: state.Data,
		IsComplete:    state.IsComplete,
		Confidence:    state.Confidence,
		CalendarConfig: ContextCalendar{
			IntegrationType: in.Calendar.IntegrationType,
			CalendlyURL:     in.Calendar.CalendlyURL,
			BookingDuration: in.Calendar.BookingDuration,
		},
		BookingCreated: state.BookingCreated,
		BookingID:      state.BookingID,
		ExternalURL:    state.ExternalURL,
		BookingError:   state.BookingError,
	}
	return result, nil
}
