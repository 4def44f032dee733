package leave_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"ecorh/leave"
	"ecorh/store/memory"
	"ecorh/workcal"
)

var signature = []byte{0x89, 0x50, 0x4e, 0x47}

func managerCaps() leave.CapabilitySet {
	return leave.NewCapabilitySet(leave.CapReviewManagerStage)
}

func hrCaps() leave.CapabilitySet {
	return leave.NewCapabilitySet(leave.CapReviewHRStage)
}

func directorCaps() leave.CapabilitySet {
	return leave.NewCapabilitySet(leave.CapReviewDirectorStage)
}

func submitGroup(t *testing.T, w *leave.Workflow) leave.Group {
	t.Helper()
	periods, err := leave.NewSubmission("emp-1", []leave.SubmissionEntry{
		{
			Type:  leave.TypeVacation,
			Start: workcal.NewDate(2024, time.July, 1),
			End:   workcal.NewDate(2024, time.July, 5),
		},
		{
			Type:  leave.TypeOvertimeRecovery,
			Start: workcal.NewDate(2024, time.July, 8),
			End:   workcal.NewDate(2024, time.July, 8),
		},
	}, time.Date(2024, time.June, 1, 9, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	group, err := w.Submit(context.Background(), periods)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return group
}

func requireGroupState(t *testing.T, g leave.Group, step leave.Step, status leave.Status) {
	t.Helper()
	for _, p := range g.Periods {
		if p.WorkflowStep != step {
			t.Fatalf("period %s at step %s, expected %s", p.ID, p.WorkflowStep, step)
		}
		if p.Status != status {
			t.Fatalf("period %s has status %s, expected %s", p.ID, p.Status, status)
		}
	}
}

func TestWorkflowFullApprovalChain(t *testing.T) {
	ctx := context.Background()
	w := leave.NewWorkflow(memory.New())

	var approved *leave.Approval
	w.OnApproved = func(_ context.Context, a leave.Approval) {
		approved = &a
	}

	group := submitGroup(t, w)
	requireGroupState(t, group, leave.StepManager, leave.StatusPending)

	group, err := w.Advance(ctx, group.Key, leave.Review{
		Stage: leave.StepManager, Decision: leave.DecisionApproved, Caps: managerCaps(), ActorID: "mgr-1",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	requireGroupState(t, group, leave.StepHR, leave.StatusPending)
	for _, p := range group.Periods {
		if p.ManagerDecision == nil || *p.ManagerDecision != leave.DecisionApproved {
			t.Fatalf("period %s missing manager decision", p.ID)
		}
	}
	if approved != nil {
		t.Fatal("hook must not fire before final approval")
	}

	group, err = w.Advance(ctx, group.Key, leave.Review{
		Stage: leave.StepHR, Decision: leave.DecisionApproved, Caps: hrCaps(), ActorID: "hr-1",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	requireGroupState(t, group, leave.StepDirector, leave.StatusPending)

	group, err = w.Advance(ctx, group.Key, leave.Review{
		Stage: leave.StepDirector, Decision: leave.DecisionApproved, Caps: directorCaps(),
		ActorID: "dir-1", Signature: signature,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	requireGroupState(t, group, leave.StepCompleted, leave.StatusApproved)

	if approved == nil {
		t.Fatal("expected OnApproved to fire")
	}
	if approved.EmployeeID != "emp-1" || len(approved.PeriodIDs) != 2 {
		t.Fatalf("unexpected approval event: %+v", approved)
	}
}

func TestWorkflowDirectorRejectionIsTerminal(t *testing.T) {
	ctx := context.Background()
	w := leave.NewWorkflow(memory.New())
	group := submitGroup(t, w)

	var err error
	group, err = w.Advance(ctx, group.Key, leave.Review{
		Stage: leave.StepManager, Decision: leave.DecisionApproved, Caps: managerCaps(),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	group, err = w.Advance(ctx, group.Key, leave.Review{
		Stage: leave.StepHR, Decision: leave.DecisionApproved, Caps: hrCaps(),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	group, err = w.Advance(ctx, group.Key, leave.Review{
		Stage: leave.StepDirector, Decision: leave.DecisionRejected, Caps: directorCaps(),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	requireGroupState(t, group, leave.StepCompleted, leave.StatusRejected)
	for _, p := range group.Periods {
		if p.DirectorDecision == nil || *p.DirectorDecision != leave.DecisionRejected {
			t.Fatalf("period %s missing director rejection", p.ID)
		}
	}

	// Completed groups accept no further reviews.
	_, err = w.Advance(ctx, group.Key, leave.Review{
		Stage: leave.StepDirector, Decision: leave.DecisionApproved, Caps: directorCaps(), Signature: signature,
	})
	if !errors.Is(err, leave.ErrStaleWorkflowState) {
		t.Fatalf("expected ErrStaleWorkflowState, got %v", err)
	}
}

func TestWorkflowStageMismatch(t *testing.T) {
	ctx := context.Background()
	w := leave.NewWorkflow(memory.New())
	group := submitGroup(t, w)

	_, err := w.Advance(ctx, group.Key, leave.Review{
		Stage: leave.StepHR, Decision: leave.DecisionApproved, Caps: hrCaps(),
	})
	if !errors.Is(err, leave.ErrStaleWorkflowState) {
		t.Fatalf("expected ErrStaleWorkflowState, got %v", err)
	}

	// No partial mutation on the error path.
	reloaded, err := w.Store.Group(ctx, group.Key)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	requireGroupState(t, reloaded, leave.StepManager, leave.StatusPending)
}

func TestWorkflowUnauthorizedStage(t *testing.T) {
	ctx := context.Background()
	w := leave.NewWorkflow(memory.New())
	group := submitGroup(t, w)

	_, err := w.Advance(ctx, group.Key, leave.Review{
		Stage: leave.StepManager, Decision: leave.DecisionApproved, Caps: hrCaps(),
	})
	if !errors.Is(err, leave.ErrUnauthorizedStageAction) {
		t.Fatalf("expected ErrUnauthorizedStageAction, got %v", err)
	}
}

func TestWorkflowDirectorApprovalNeedsSignature(t *testing.T) {
	ctx := context.Background()
	w := leave.NewWorkflow(memory.New())
	group := submitGroup(t, w)

	var err error
	group, err = w.Advance(ctx, group.Key, leave.Review{
		Stage: leave.StepManager, Decision: leave.DecisionApproved, Caps: managerCaps(),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	group, err = w.Advance(ctx, group.Key, leave.Review{
		Stage: leave.StepHR, Decision: leave.DecisionApproved, Caps: hrCaps(),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err = w.Advance(ctx, group.Key, leave.Review{
		Stage: leave.StepDirector, Decision: leave.DecisionApproved, Caps: directorCaps(),
	})
	if !errors.Is(err, leave.ErrMissingApprovalSignature) {
		t.Fatalf("expected ErrMissingApprovalSignature, got %v", err)
	}

	// Rejection needs no signature.
	if _, err := w.Advance(ctx, group.Key, leave.Review{
		Stage: leave.StepDirector, Decision: leave.DecisionRejected, Caps: directorCaps(),
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestWorkflowWithdraw(t *testing.T) {
	ctx := context.Background()
	w := leave.NewWorkflow(memory.New())
	group := submitGroup(t, w)

	if err := w.Withdraw(ctx, group.Key); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := w.Store.Group(ctx, group.Key); !errors.Is(err, leave.ErrPeriodNotFound) {
		t.Fatalf("expected group gone, got %v", err)
	}
}

func TestWorkflowWithdrawAfterDecision(t *testing.T) {
	ctx := context.Background()
	w := leave.NewWorkflow(memory.New())
	group := submitGroup(t, w)

	if _, err := w.Advance(ctx, group.Key, leave.Review{
		Stage: leave.StepManager, Decision: leave.DecisionApproved, Caps: managerCaps(),
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := w.Withdraw(ctx, group.Key); !errors.Is(err, leave.ErrWorkflowAlreadyStarted) {
		t.Fatalf("expected ErrWorkflowAlreadyStarted, got %v", err)
	}
}
