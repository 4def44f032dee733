package planning

import (
	"fmt"
	"time"

	"ecorh/workcal"
)

// Week is one Monday-to-Sunday row of the capacity grid.
type Week struct {
	Start workcal.Date `json:"start"`
	End   workcal.Date `json:"end"`
	Label string       `json:"label"`
}

// MonthWeeks returns the Monday-aligned weeks covering the month: from the
// week containing the 1st through the week containing the last day. Edge weeks
// spill into the neighbouring months.
func MonthWeeks(year int, month time.Month) []Week {
	first := workcal.NewDate(year, month, 1)
	last := first.AddDays(daysInMonth(year, month) - 1)

	start := first.AddDays(-mondayOffset(first))
	end := last.AddDays(6 - mondayOffset(last))

	var weeks []Week
	for ws := start; !ws.After(end); ws = ws.AddDays(7) {
		we := ws.AddDays(6)
		_, isoWeek := ws.ISOWeek()
		weeks = append(weeks, Week{
			Start: ws,
			End:   we,
			Label: fmt.Sprintf("S%02d %s - %s", isoWeek, ws.Time().Format("02.01"), we.Time().Format("02.01")),
		})
	}
	return weeks
}

// mondayOffset is the number of days since the preceding Monday.
func mondayOffset(d workcal.Date) int {
	return (int(d.Weekday()) + 6) % 7
}

func daysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
