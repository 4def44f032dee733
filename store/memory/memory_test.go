package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"ecorh/leave"
	"ecorh/workcal"
)

func seedGroup(t *testing.T, s *Store) {
	t.Helper()
	err := s.Insert(context.Background(), []leave.Period{
		{
			ID:             "p1",
			EmployeeID:     "emp-1",
			Type:           leave.TypeVacation,
			StartDate:      workcal.NewDate(2024, time.July, 1),
			EndDate:        workcal.NewDate(2024, time.July, 5),
			Status:         leave.StatusPending,
			WorkflowStep:   leave.StepManager,
			RequestGroupID: "g1",
		},
		{
			ID:             "p2",
			EmployeeID:     "emp-1",
			Type:           leave.TypeVacation,
			StartDate:      workcal.NewDate(2024, time.July, 8),
			EndDate:        workcal.NewDate(2024, time.July, 8),
			Status:         leave.StatusPending,
			WorkflowStep:   leave.StepManager,
			RequestGroupID: "g1",
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestGroupKeying(t *testing.T) {
	s := New()
	seedGroup(t, s)

	if err := s.Insert(context.Background(), []leave.Period{{
		ID:           "solo",
		EmployeeID:   "emp-2",
		Type:         leave.TypeTraining,
		StartDate:    workcal.NewDate(2024, time.July, 1),
		EndDate:      workcal.NewDate(2024, time.July, 1),
		Status:       leave.StatusPending,
		WorkflowStep: leave.StepManager,
	}}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	group, err := s.Group(context.Background(), "g1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(group.Periods) != 2 {
		t.Fatalf("expected 2 members, got %d", len(group.Periods))
	}

	// A standalone period groups under its own id.
	group, err = s.Group(context.Background(), "solo")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(group.Periods) != 1 || group.Periods[0].ID != "solo" {
		t.Fatalf("unexpected singleton group: %+v", group)
	}
}

func TestApplyTransitionStale(t *testing.T) {
	s := New()
	seedGroup(t, s)

	err := s.ApplyTransition(context.Background(), leave.Transition{
		GroupKey: "g1",
		FromStep: leave.StepHR,
		ToStep:   leave.StepDirector,
		Status:   leave.StatusPending,
		Stage:    leave.StepHR,
		Decision: leave.DecisionApproved,
	})
	if !errors.Is(err, leave.ErrStaleWorkflowState) {
		t.Fatalf("expected ErrStaleWorkflowState, got %v", err)
	}

	// Nothing moved.
	group, err := s.Group(context.Background(), "g1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, p := range group.Periods {
		if p.WorkflowStep != leave.StepManager {
			t.Fatalf("period %s mutated on failed transition", p.ID)
		}
	}
}

func TestApplyTransitionUpdatesWholeGroup(t *testing.T) {
	s := New()
	seedGroup(t, s)

	decidedAt := time.Date(2024, time.June, 10, 8, 0, 0, 0, time.UTC)
	err := s.ApplyTransition(context.Background(), leave.Transition{
		GroupKey:  "g1",
		FromStep:  leave.StepManager,
		ToStep:    leave.StepHR,
		Status:    leave.StatusPending,
		Stage:     leave.StepManager,
		Decision:  leave.DecisionApproved,
		ActorID:   "mgr-1",
		DecidedAt: decidedAt,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	group, err := s.Group(context.Background(), "g1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, p := range group.Periods {
		if p.WorkflowStep != leave.StepHR || p.Status != leave.StatusPending {
			t.Fatalf("period %s not advanced: %+v", p.ID, p)
		}
		if p.ManagerDecision == nil || *p.ManagerDecision != leave.DecisionApproved {
			t.Fatalf("period %s missing decision", p.ID)
		}
		if p.ApprovedBy != "mgr-1" || p.ApprovedAt == nil || !p.ApprovedAt.Equal(decidedAt) {
			t.Fatalf("period %s missing audit fields", p.ID)
		}
	}
}

func TestDeleteGroupRules(t *testing.T) {
	s := New()
	seedGroup(t, s)

	if err := s.ApplyTransition(context.Background(), leave.Transition{
		GroupKey: "g1",
		FromStep: leave.StepManager,
		ToStep:   leave.StepHR,
		Status:   leave.StatusPending,
		Stage:    leave.StepManager,
		Decision: leave.DecisionApproved,
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := s.DeleteGroup(context.Background(), "g1"); !errors.Is(err, leave.ErrWorkflowAlreadyStarted) {
		t.Fatalf("expected ErrWorkflowAlreadyStarted, got %v", err)
	}

	if err := s.DeleteGroup(context.Background(), "missing"); !errors.Is(err, leave.ErrPeriodNotFound) {
		t.Fatalf("expected ErrPeriodNotFound, got %v", err)
	}
}

func TestStatusQueries(t *testing.T) {
	s := New()
	seedGroup(t, s)

	pending, err := s.PendingPeriods(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(pending) != 2 {
		t.Fatalf("expected 2 pending, got %d", len(pending))
	}

	approved, err := s.ApprovedPeriods(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(approved) != 0 {
		t.Fatalf("expected no approved periods, got %d", len(approved))
	}
}
