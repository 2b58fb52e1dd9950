// Package models defines state management structures for healthbot flows.
package models

import "time"

// StepType identifies which multi-step conversation flow is active for a user.
type StepType string

const (
	// StepTypeNone means no flow is in progress; top-level commands apply.
	StepTypeNone StepType = "none"
	// StepTypeNewMember is the multi-step registration flow.
	StepTypeNewMember StepType = "newMember"
	// StepTypeLinkLineID is the account-linking (login) flow.
	StepTypeLinkLineID StepType = "linkLineId"
)

// UserState is the per-user conversation state record. UserID is the primary
// key and never changes after creation. Step is meaningful only relative to
// the current StepType; switching StepType resets Step and ErrCount.
type UserState struct {
	UserID     string    `json:"user_id"`
	Name       string    `json:"name,omitempty"`
	IDNumber   string    `json:"id_number,omitempty"`
	Tel        string    `json:"tel,omitempty"`
	StepType   StepType  `json:"step_type"`
	Step       int       `json:"step"`
	ErrCount   int       `json:"err_count"`
	Registered bool      `json:"registered"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// NewUserState creates a fresh state record for a user identifier.
func NewUserState(userID string) UserState {
	now := time.Now()
	return UserState{
		UserID:    userID,
		StepType:  StepTypeNone,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// BeginFlow switches the record to the given flow at its first step,
// resetting the step ordinal and the error counter.
func (s *UserState) BeginFlow(flow StepType) {
	s.StepType = flow
	s.Step = 1
	s.ErrCount = 0
}

// EndFlow returns the record to the idle top-level state.
func (s *UserState) EndFlow() {
	s.StepType = StepTypeNone
	s.Step = 0
	s.ErrCount = 0
}

// InFlow reports whether a multi-step flow is in progress.
func (s *UserState) InFlow() bool {
	return s.StepType != StepTypeNone && s.StepType != ""
}
