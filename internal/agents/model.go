package agents

import (
	"errors"
	"strings"
	"time"

	"github.com/Nishanth-S1142001/rebel-ai-sub003/internal/booking"
)

// ErrAgentNotFound is returned when no agent matches the id within the
// owner's scope.
var ErrAgentNotFound = errors.New("agents: agent not found")

// Agent is a configured conversational assistant owned by one user.
type Agent struct {
	ID             string                 `json:"id"`
	OwnerID        string                 `json:"owner_id"`
	Name           string                 `json:"name"`
	Description    string                 `json:"description,omitempty"`
	SystemPrompt   string                 `json:"system_prompt,omitempty"`
	WelcomeMessage string                 `json:"welcome_message,omitempty"`
	Calendar       booking.CalendarConfig `json:"calendar_config"`
	IsActive       bool                   `json:"is_active"`
	CreatedAt      time.Time              `json:"created_at"`
	UpdatedAt      time.Time              `json:"updated_at"`
}

// CreateAgentRequest is the payload for POST /agents.
type CreateAgentRequest struct {
	Name           string                 `json:"name"`
	Description    string                 `json:"description"`
	SystemPrompt   string                 `json:"system_prompt"`
	WelcomeMessage string                 `json:"welcome_message"`
	Calendar       booking.CalendarConfig `json:"calendar_config"`
	IsActive       *bool                  `json:"is_active"`
}

// Validate checks required fields.
func (r *CreateAgentRequest) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return errors.New("agents: name is required")
	}
	if len(r.Name) > 200 {
		return errors.New("agents: name too long")
	}
	return nil
}

// UpdateAgentRequest is the payload for PUT /agents/{agentID}. Nil fields
// are left unchanged.
type UpdateAgentRequest struct {
	Name           *string                 `json:"name"`
	Description    *string                 `json:"description"`
	SystemPrompt   *string                 `json:"system_prompt"`
	WelcomeMessage *string                 `json:"welcome_message"`
	Calendar       *booking.CalendarConfig `json:"calendar_config"`
	IsActive       *bool                   `json:"is_active"`
}

// Apply overlays the request onto an existing agent.
func (r *UpdateAgentRequest) Apply(a *Agent) error {
	if r.Name != nil {
		if strings.TrimSpace(*r.Name) == "" {
			return errors.New("agents: name cannot be empty")
		}
		a.Name = *r.Name
	}
	if r.Description != nil {
		a.Description = *r.Description
	}
	if r.SystemPrompt != nil {
		a.SystemPrompt = *r.SystemPrompt
	}
	if r.WelcomeMessage != nil {
		a.WelcomeMessage = *r.WelcomeMessage
	}
	if r.Calendar != nil {
		a.Calendar = *r.Calendar
	}
	if r.IsActive != nil {
		a.IsActive = *r.IsActive
	}
	return nil
}
