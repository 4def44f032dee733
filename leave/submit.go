package leave

import (
	"time"

	"github.com/google/uuid"

	"ecorh/workcal"
)

// SubmissionEntry is one date range of a new request form.
type SubmissionEntry struct {
	Type              Type
	Start             workcal.Date
	End               workcal.Date
	MilitaryStart     *workcal.Date
	MilitaryEnd       *workcal.Date
	MilitaryReference string
	Comment           string
}

// NewSubmission builds the pending periods for one request form. Entries share
// a fresh request group id when there is more than one, so they move through
// the workflow together.
func NewSubmission(employeeID string, entries []SubmissionEntry, now time.Time) ([]Period, error) {
	groupID := ""
	if len(entries) > 1 {
		groupID = uuid.NewString()
	}

	periods := make([]Period, 0, len(entries))
	for _, entry := range entries {
		p := Period{
			ID:                uuid.NewString(),
			EmployeeID:        employeeID,
			Type:              entry.Type,
			StartDate:         entry.Start,
			EndDate:           entry.End,
			Status:            StatusPending,
			WorkflowStep:      StepManager,
			RequestGroupID:    groupID,
			MilitaryStartDate: entry.MilitaryStart,
			MilitaryEndDate:   entry.MilitaryEnd,
			MilitaryReference: entry.MilitaryReference,
			Comment:           entry.Comment,
			CreatedAt:         now,
		}
		if err := p.Validate(); err != nil {
			return nil, err
		}
		periods = append(periods, p)
	}
	return periods, nil
}
