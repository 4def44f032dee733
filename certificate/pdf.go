// Package certificate renders the leave certificate attached to final
// approvals.
package certificate

import (
	"bytes"
	"context"
	"fmt"

	"github.com/jung-kurt/gofpdf"

	"ecorh/leave"
)

var typeLabels = map[leave.Type]string{
	leave.TypeVacation:         "Vacances",
	leave.TypeSickness:         "Maladie",
	leave.TypeAccident:         "Accident",
	leave.TypeBereavement:      "Deuil",
	leave.TypeTraining:         "Formation",
	leave.TypeOvertimeRecovery: "Récupération d'heures",
	leave.TypeMilitaryService:  "Service militaire",
}

// Renderer produces an A4 certificate. Implements leave.DocumentRenderer.
type Renderer struct {
	CompanyName string
}

func (r *Renderer) Render(_ context.Context, data leave.CertificateData) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(40, 10, "Certificat de congé")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 12)
	if r.CompanyName != "" {
		pdf.Cell(0, 8, r.CompanyName)
		pdf.Ln(7)
	}
	pdf.Cell(0, 8, fmt.Sprintf("Employé: %s", data.EmployeeName))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Département: %s", data.Department))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Canton: %s", data.Canton))
	pdf.Ln(10)

	for _, line := range data.Lines {
		label := typeLabels[line.Type]
		if label == "" {
			label = string(line.Type)
		}
		pdf.Cell(0, 8, fmt.Sprintf("%s: %s au %s (%d jours ouvrés)",
			label, line.Start.Time().Format("02.01.2006"), line.End.Time().Format("02.01.2006"), line.BusinessDays))
		pdf.Ln(7)
	}

	pdf.Ln(3)
	pdf.Cell(0, 8, fmt.Sprintf("Total: %d jours ouvrés", data.TotalDays))
	pdf.Ln(10)
	pdf.Cell(0, 8, fmt.Sprintf("Approuvé par %s le %s", data.ApprovedBy, data.ApprovedAt.Format("02.01.2006")))
	pdf.Ln(10)

	if len(data.Signature) > 0 {
		opts := gofpdf.ImageOptions{ImageType: "PNG"}
		pdf.RegisterImageOptionsReader("signature", opts, bytes.NewReader(data.Signature))
		pdf.ImageOptions("signature", 20, pdf.GetY(), 50, 0, false, opts, 0, "")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
