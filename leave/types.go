package leave

import (
	"fmt"
	"time"

	"ecorh/workcal"
)

type Type string

const (
	TypeVacation         Type = "vacation"
	TypeSickness         Type = "sickness"
	TypeAccident         Type = "accident"
	TypeBereavement      Type = "bereavement"
	TypeTraining         Type = "training"
	TypeOvertimeRecovery Type = "overtimeRecovery"
	TypeMilitaryService  Type = "militaryService"
)

func (t Type) Valid() bool {
	switch t {
	case TypeVacation, TypeSickness, TypeAccident, TypeBereavement,
		TypeTraining, TypeOvertimeRecovery, TypeMilitaryService:
		return true
	}
	return false
}

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// Step is the workflow stage a request is waiting on. Steps only move forward
// through manager, hr, director, completed.
type Step string

const (
	StepManager   Step = "manager"
	StepHR        Step = "hr"
	StepDirector  Step = "director"
	StepCompleted Step = "completed"
)

type Decision string

const (
	DecisionApproved Decision = "approved"
	DecisionRejected Decision = "rejected"
)

func (d Decision) Valid() bool {
	return d == DecisionApproved || d == DecisionRejected
}

// Period is one leave date range. Periods submitted together share a
// RequestGroupID and move through the workflow as one unit.
type Period struct {
	ID             string       `json:"id"`
	EmployeeID     string       `json:"employeeId"`
	Type           Type         `json:"type"`
	StartDate      workcal.Date `json:"startDate"`
	EndDate        workcal.Date `json:"endDate"`
	Status         Status       `json:"status"`
	WorkflowStep   Step         `json:"workflowStep"`
	RequestGroupID string       `json:"requestGroupId,omitempty"`

	ManagerDecision  *Decision `json:"managerDecision,omitempty"`
	HRDecision       *Decision `json:"hrDecision,omitempty"`
	DirectorDecision *Decision `json:"directorDecision,omitempty"`

	MilitaryStartDate *workcal.Date `json:"militaryStartDate,omitempty"`
	MilitaryEndDate   *workcal.Date `json:"militaryEndDate,omitempty"`
	MilitaryReference string        `json:"militaryReference,omitempty"`

	Signature  []byte     `json:"signature,omitempty"`
	Comment    string     `json:"comment,omitempty"`
	ApprovedBy string     `json:"approvedBy,omitempty"`
	ApprovedAt *time.Time `json:"approvedAt,omitempty"`
	CreatedAt  time.Time  `json:"createdAt"`
}

func (p Period) Validate() error {
	if p.EmployeeID == "" {
		return fmt.Errorf("period %s: employee id required", p.ID)
	}
	if !p.Type.Valid() {
		return fmt.Errorf("period %s: unknown leave type %q", p.ID, p.Type)
	}
	if p.EndDate.Before(p.StartDate) {
		return fmt.Errorf("period %s: %w", p.ID, ErrInvalidDateRange)
	}
	if p.Type != TypeMilitaryService && (p.MilitaryStartDate != nil || p.MilitaryEndDate != nil || p.MilitaryReference != "") {
		return fmt.Errorf("period %s: military fields on non-military leave", p.ID)
	}
	if p.MilitaryStartDate != nil && p.MilitaryEndDate != nil && p.MilitaryEndDate.Before(*p.MilitaryStartDate) {
		return fmt.Errorf("period %s: %w", p.ID, ErrInvalidDateRange)
	}
	return nil
}

// GroupKey is the key the period aggregates under: the shared group id, or the
// period's own id for standalone submissions.
func (p Period) GroupKey() string {
	if p.RequestGroupID != "" {
		return p.RequestGroupID
	}
	return p.ID
}

// Overlaps reports whether the two date ranges intersect, bounds inclusive.
func (p Period) Overlaps(other Period) bool {
	return !p.StartDate.After(other.EndDate) && !other.StartDate.After(p.EndDate)
}

// StageDecision returns the recorded decision for a workflow stage, nil if the
// stage has not acted.
func (p Period) StageDecision(stage Step) *Decision {
	switch stage {
	case StepManager:
		return p.ManagerDecision
	case StepHR:
		return p.HRDecision
	case StepDirector:
		return p.DirectorDecision
	}
	return nil
}
