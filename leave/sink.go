package leave

import (
	"context"
	"time"

	"ecorh/workcal"
)

// Approval is emitted when a request group reaches its final approval. It
// carries everything the notification and rendering collaborators need; the
// engine never performs the send itself.
type Approval struct {
	GroupKey   string
	Group      Group
	PeriodIDs  []string
	EmployeeID string
	Canton     workcal.Canton
	DecidedBy  string
	DecidedAt  time.Time
	Signature  []byte
}

// Sink receives the rendered certificate for an approved group.
type Sink interface {
	Deliver(ctx context.Context, approval Approval, recipients []string, document []byte) error
}

// DocumentRenderer renders the approval certificate from assembled data.
type DocumentRenderer interface {
	Render(ctx context.Context, data CertificateData) ([]byte, error)
}

// CertificateLine is one period on the certificate with its working-day count.
type CertificateLine struct {
	Type         Type
	Start        workcal.Date
	End          workcal.Date
	BusinessDays int
}

type CertificateData struct {
	EmployeeName string
	Department   string
	Canton       workcal.Canton
	Lines        []CertificateLine
	TotalDays    int
	ApprovedBy   string
	ApprovedAt   time.Time
	Signature    []byte
}

// BuildCertificateData assembles the renderer input for an approved group,
// counting business days per period against the canton calendar.
func BuildCertificateData(group Group, employeeName, department string, canton workcal.Canton) CertificateData {
	data := CertificateData{
		EmployeeName: employeeName,
		Department:   department,
		Canton:       canton,
	}
	for _, p := range group.Periods {
		days := workcal.CountBusinessDays(p.StartDate, p.EndDate, canton)
		data.Lines = append(data.Lines, CertificateLine{
			Type:         p.Type,
			Start:        p.StartDate,
			End:          p.EndDate,
			BusinessDays: days,
		})
		data.TotalDays += days
		if p.ApprovedBy != "" {
			data.ApprovedBy = p.ApprovedBy
		}
		if p.ApprovedAt != nil {
			data.ApprovedAt = *p.ApprovedAt
		}
		if len(p.Signature) > 0 {
			data.Signature = p.Signature
		}
	}
	return data
}
