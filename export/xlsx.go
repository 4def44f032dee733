// Package export writes planning results to spreadsheets for the back office.
package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"ecorh/planning"
)

const capacitySheet = "Capacité"

// WriteCapacityReport renders one department's capacity simulation as a
// worksheet, one row per week, marking weeks below the minimum.
func WriteCapacityReport(w io.Writer, department string, results []planning.WeekAvailability) error {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(capacitySheet)
	if err != nil {
		return err
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return err
	}

	headers := []string{"Semaine", "Du", "Au", "Disponibles", "Minimum requis", "Alerte"}
	for col, header := range headers {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(capacitySheet, cell, header); err != nil {
			return err
		}
	}

	for i, r := range results {
		row := i + 2
		alert := ""
		if r.Available < r.Required {
			alert = "OUI"
		}
		values := []any{r.Label, r.Week.Start.String(), r.Week.End.String(), r.Available, r.Required, alert}
		for col, value := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(capacitySheet, cell, value); err != nil {
				return err
			}
		}
	}

	if err := f.SetCellValue(capacitySheet, "H1", fmt.Sprintf("Département: %s", department)); err != nil {
		return err
	}
	return f.Write(w)
}
