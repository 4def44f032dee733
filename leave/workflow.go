package leave

import (
	"context"
	"fmt"
	"time"

	"ecorh/workcal"
)

type Capability string

const (
	CapReviewManagerStage  Capability = "leave.review.manager"
	CapReviewHRStage       Capability = "leave.review.hr"
	CapReviewDirectorStage Capability = "leave.review.director"
)

// CapabilitySet is the caller's stage-review capabilities, resolved once per
// caller by the authorization collaborator and passed into Advance.
type CapabilitySet map[Capability]struct{}

func NewCapabilitySet(caps ...Capability) CapabilitySet {
	set := make(CapabilitySet, len(caps))
	for _, c := range caps {
		set[c] = struct{}{}
	}
	return set
}

func (s CapabilitySet) Has(c Capability) bool {
	_, ok := s[c]
	return ok
}

var stageCapability = map[Step]Capability{
	StepManager:  CapReviewManagerStage,
	StepHR:       CapReviewHRStage,
	StepDirector: CapReviewDirectorStage,
}

// Review is one reviewer decision against a request group.
type Review struct {
	Stage     Step
	Decision  Decision
	Caps      CapabilitySet
	ActorID   string
	Comment   string
	Signature []byte
}

// Transition is the computed effect of a review, applied atomically to every
// period in the group by the store.
type Transition struct {
	GroupKey  string
	PeriodIDs []string
	FromStep  Step
	ToStep    Step
	Status    Status
	Stage     Step
	Decision  Decision
	ActorID   string
	Comment   string
	Signature []byte
	DecidedAt time.Time
}

// Store persists leave request periods. ApplyTransition must be all-or-nothing
// across the group and must fail with ErrStaleWorkflowState when the stored
// workflow step no longer matches Transition.FromStep (lost race).
type Store interface {
	Insert(ctx context.Context, periods []Period) error
	Group(ctx context.Context, key string) (Group, error)
	ApplyTransition(ctx context.Context, t Transition) error
	DeleteGroup(ctx context.Context, key string) error
	PendingPeriods(ctx context.Context) ([]Period, error)
	ApprovedPeriods(ctx context.Context) ([]Period, error)
}

// Workflow advances request groups through manager, hr, director, completed.
type Workflow struct {
	Store Store

	// Canton is stamped onto approval events so the certificate uses the
	// right holiday calendar.
	Canton workcal.Canton

	// OnApproved fires after a final (director) approval has been committed.
	OnApproved func(ctx context.Context, approval Approval)

	// Now is overridable in tests; defaults to time.Now.
	Now func() time.Time
}

func NewWorkflow(store Store) *Workflow {
	return &Workflow{Store: store, Now: time.Now}
}

func (w *Workflow) now() time.Time {
	if w.Now != nil {
		return w.Now()
	}
	return time.Now()
}

// Submit validates and persists a new request group at the manager step.
func (w *Workflow) Submit(ctx context.Context, periods []Period) (Group, error) {
	if len(periods) == 0 {
		return Group{}, fmt.Errorf("submit: no periods")
	}
	for i := range periods {
		if err := periods[i].Validate(); err != nil {
			return Group{}, err
		}
	}
	groups, err := GroupPeriods(periods)
	if err != nil {
		return Group{}, err
	}
	if len(groups) != 1 {
		return Group{}, fmt.Errorf("submit: periods span %d request groups", len(groups))
	}
	if err := w.Store.Insert(ctx, periods); err != nil {
		return Group{}, err
	}
	return groups[0], nil
}

// Advance applies one reviewer decision to the group. The review's stage must
// match the group's current step and the caller must hold the capability for
// that stage. Rejection at any stage is terminal; director approval requires a
// signature artifact and fires OnApproved once committed.
func (w *Workflow) Advance(ctx context.Context, groupKey string, review Review) (Group, error) {
	group, err := w.Store.Group(ctx, groupKey)
	if err != nil {
		return Group{}, err
	}
	if err := group.checkConsistent(); err != nil {
		return Group{}, err
	}

	transition, err := planTransition(group, review, w.now())
	if err != nil {
		return Group{}, err
	}

	if err := w.Store.ApplyTransition(ctx, transition); err != nil {
		return Group{}, err
	}

	updated, err := w.Store.Group(ctx, groupKey)
	if err != nil {
		return Group{}, err
	}

	if transition.ToStep == StepCompleted && transition.Status == StatusApproved && w.OnApproved != nil {
		w.OnApproved(ctx, Approval{
			GroupKey:   groupKey,
			Group:      updated,
			PeriodIDs:  updated.PeriodIDs(),
			EmployeeID: updated.EmployeeID(),
			Canton:     w.Canton,
			DecidedBy:  review.ActorID,
			DecidedAt:  transition.DecidedAt,
			Signature:  review.Signature,
		})
	}
	return updated, nil
}

// planTransition checks the preconditions and computes the group's next state
// without touching the store.
func planTransition(group Group, review Review, at time.Time) (Transition, error) {
	current := group.Step()
	if current == StepCompleted || current == "" {
		return Transition{}, fmt.Errorf("group %s is completed: %w", group.Key, ErrStaleWorkflowState)
	}
	if review.Stage != current {
		return Transition{}, fmt.Errorf("group %s at step %s, not %s: %w", group.Key, current, review.Stage, ErrStaleWorkflowState)
	}
	if !review.Decision.Valid() {
		return Transition{}, fmt.Errorf("invalid decision %q", review.Decision)
	}
	capability, ok := stageCapability[review.Stage]
	if !ok || !review.Caps.Has(capability) {
		return Transition{}, fmt.Errorf("stage %s: %w", review.Stage, ErrUnauthorizedStageAction)
	}

	transition := Transition{
		GroupKey:  group.Key,
		PeriodIDs: group.PeriodIDs(),
		FromStep:  current,
		Stage:     review.Stage,
		Decision:  review.Decision,
		ActorID:   review.ActorID,
		Comment:   review.Comment,
		DecidedAt: at,
	}

	if review.Decision == DecisionRejected {
		transition.ToStep = StepCompleted
		transition.Status = StatusRejected
		return transition, nil
	}

	switch review.Stage {
	case StepManager:
		transition.ToStep = StepHR
		transition.Status = StatusPending
	case StepHR:
		transition.ToStep = StepDirector
		transition.Status = StatusPending
	case StepDirector:
		if len(review.Signature) == 0 {
			return Transition{}, fmt.Errorf("group %s: %w", group.Key, ErrMissingApprovalSignature)
		}
		transition.ToStep = StepCompleted
		transition.Status = StatusApproved
		transition.Signature = review.Signature
	default:
		return Transition{}, fmt.Errorf("group %s at step %s: %w", group.Key, current, ErrStaleWorkflowState)
	}
	return transition, nil
}

// Withdraw removes a request group. Allowed only while the group is still at
// the manager step with no stage decision recorded.
func (w *Workflow) Withdraw(ctx context.Context, groupKey string) error {
	group, err := w.Store.Group(ctx, groupKey)
	if err != nil {
		return err
	}
	if group.Step() != StepManager || group.hasAnyDecision() {
		return fmt.Errorf("group %s: %w", groupKey, ErrWorkflowAlreadyStarted)
	}
	return w.Store.DeleteGroup(ctx, groupKey)
}
