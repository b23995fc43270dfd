package entity

import "time"

const (
	EventOwnerReassigned     = "owner_reassigned"
	EventOwnerPartialFailure = "owner_partial_failure"
)

// EventEnvelope is the part of every event used to route it.
type EventEnvelope struct {
	Type string `json:"type"`
}

type EventUser struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

func NewEventUser(u User) EventUser {
	return EventUser{ID: u.ID, Email: u.Email, Name: u.DisplayName()}
}

type OwnerReassignedEvent struct {
	Type           string     `json:"type"`
	NewOwner       EventUser  `json:"new_owner"`
	PreviousHolder *EventUser `json:"previous_holder,omitempty"`
	ChangedBy      int64      `json:"changed_by"`
	ChangedAt      time.Time  `json:"changed_at"`
}

type OwnerPartialFailureEvent struct {
	Type           string     `json:"type"`
	TargetID       int64      `json:"target_id"`
	PreviousHolder *EventUser `json:"previous_holder,omitempty"`
	Reason         string     `json:"reason"`
	ChangedBy      int64      `json:"changed_by"`
	At             time.Time  `json:"at"`
}
