package entity

import "time"

// DemotionPolicy decides what happens when the current owner cannot be demoted.
type DemotionPolicy string

const (
	// DemotionFailClosed aborts before promoting anyone.
	DemotionFailClosed DemotionPolicy = "fail_closed"
	// DemotionFailOpen keeps promoting and reports the partial failure.
	DemotionFailOpen DemotionPolicy = "fail_open"
)

func (p DemotionPolicy) IsValid() bool {
	return p == DemotionFailClosed || p == DemotionFailOpen
}

// OwnerReassignment is the result of moving the owner role to a target user.
type OwnerReassignment struct {
	TargetID       int64    `json:"target_id"`
	PreviousHolder *User    `json:"previous_holder,omitempty"`
	Demoted        bool     `json:"demoted"`
	Promoted       bool     `json:"promoted"`
	NoOp           bool     `json:"no_op"`
	SessionPatched bool     `json:"session_patched"`
	Session        *Session `json:"session,omitempty"`
	Roster         []User   `json:"roster"`
	Warnings       []string `json:"warnings,omitempty"`
}

// OwnerChange is published once a new owner has been promoted.
type OwnerChange struct {
	NewOwner       User
	PreviousHolder *User
	ChangedBy      int64
	ChangedAt      time.Time
}

// OwnerAlert is published when the demote/promote sequence left the roster in
// an unexpected state.
type OwnerAlert struct {
	TargetID       int64
	PreviousHolder *User
	Reason         string
	ChangedBy      int64
	At             time.Time
}

// RoleChange is the result of assigning a role to a user. Owner assignments
// carry the full reassignment report.
type RoleChange struct {
	TargetID       int64              `json:"target_id"`
	Role           Role               `json:"role"`
	User           *User              `json:"user,omitempty"`
	Owner          *OwnerReassignment `json:"owner,omitempty"`
	SessionPatched bool               `json:"session_patched"`
}
