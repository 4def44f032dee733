package leave

import "errors"

var (
	// ErrInvalidDateRange is returned when a period or simulated absence ends
	// before it starts.
	ErrInvalidDateRange = errors.New("end date before start date")

	// ErrEmployeeNotResolvable is returned when the employee directory cannot
	// resolve a period's owner.
	ErrEmployeeNotResolvable = errors.New("employee not resolvable")

	// ErrStaleWorkflowState is returned when the caller's expected stage no
	// longer matches the group's current workflow step.
	ErrStaleWorkflowState = errors.New("stale workflow state")

	// ErrUnauthorizedStageAction is returned when the caller lacks the
	// capability for the stage being advanced.
	ErrUnauthorizedStageAction = errors.New("unauthorized stage action")

	// ErrWorkflowAlreadyStarted is returned when deleting a request after a
	// stage decision has been recorded.
	ErrWorkflowAlreadyStarted = errors.New("workflow already started")

	// ErrMissingApprovalSignature is returned when a director approval carries
	// no signature artifact.
	ErrMissingApprovalSignature = errors.New("missing approval signature")

	// ErrGroupInconsistent is returned when periods sharing a request group id
	// disagree on workflow step or status.
	ErrGroupInconsistent = errors.New("inconsistent request group")

	ErrPeriodNotFound = errors.New("period not found")
)
