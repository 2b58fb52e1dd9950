package models

import "testing"

func TestNewUserState(t *testing.T) {
	s := NewUserState("U123")
	if s.UserID != "U123" {
		t.Errorf("UserID = %q", s.UserID)
	}
	if s.StepType != StepTypeNone || s.InFlow() {
		t.Errorf("fresh state should be idle, got %+v", s)
	}
	if s.CreatedAt.IsZero() || s.UpdatedAt.IsZero() {
		t.Error("timestamps should be set")
	}
}

func TestBeginAndEndFlow(t *testing.T) {
	s := NewUserState("U123")
	s.ErrCount = 3

	s.BeginFlow(StepTypeNewMember)
	if s.StepType != StepTypeNewMember || s.Step != 1 || s.ErrCount != 0 {
		t.Errorf("after BeginFlow: %+v", s)
	}
	if !s.InFlow() {
		t.Error("InFlow() should be true during a flow")
	}

	s.Step = 3
	s.ErrCount = 2
	s.EndFlow()
	if s.StepType != StepTypeNone || s.Step != 0 || s.ErrCount != 0 {
		t.Errorf("after EndFlow: %+v", s)
	}
	if s.InFlow() {
		t.Error("InFlow() should be false after EndFlow")
	}
}
