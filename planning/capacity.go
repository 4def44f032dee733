package planning

import (
	"context"
	"log/slog"
	"time"

	"ecorh/directory"
	"ecorh/leave"
	"ecorh/workcal"
)

// Absence is an approved absence of one employee.
type Absence struct {
	EmployeeID string       `json:"employeeId"`
	Start      workcal.Date `json:"start"`
	End        workcal.Date `json:"end"`
}

// SimulatedAbsence is a what-if entry supplied by the caller for one
// simulation run. Department is optional; when set, the entry only counts for
// that department.
type SimulatedAbsence struct {
	Start      workcal.Date `json:"start"`
	End        workcal.Date `json:"end"`
	Department string       `json:"department,omitempty"`
}

func (a SimulatedAbsence) Validate() error {
	if a.End.Before(a.Start) {
		return leave.ErrInvalidDateRange
	}
	return nil
}

// WeekAvailability is the simulated headroom for one week. Available may go
// negative; that is the over-capacity deficit signal, never clamped.
type WeekAvailability struct {
	Week      Week   `json:"week"`
	Label     string `json:"label"`
	Available int    `json:"available"`
	Required  int    `json:"required"`
}

// CapacityAlert is raised when a week drops below the department minimum.
type CapacityAlert struct {
	Department      string `json:"department"`
	WeekLabel       string `json:"weekLabel"`
	AvailableCount  int    `json:"availableCount"`
	RequiredMinimum int    `json:"requiredMinimum"`
}

// Thresholds is the per-department minimum staffing lookup with a default
// fallback for departments without an override.
type Thresholds struct {
	Minimums map[string]int
	Default  int
}

func (t Thresholds) For(department string) int {
	if minimum, ok := t.Minimums[department]; ok {
		return minimum
	}
	return t.Default
}

// Simulate computes per-week availability for one department: headcount minus
// distinct employees with an approved absence overlapping the week, minus
// overlapping what-if entries.
func Simulate(weeks []Week, department string, headcount, minRequired int, approved []Absence, hypothetical []SimulatedAbsence) []WeekAvailability {
	results := make([]WeekAvailability, 0, len(weeks))
	for _, week := range weeks {
		absent := map[string]struct{}{}
		for _, a := range approved {
			if overlaps(a.Start, a.End, week.Start, week.End) {
				absent[a.EmployeeID] = struct{}{}
			}
		}

		simulated := 0
		for _, s := range hypothetical {
			if s.Department != "" && s.Department != department {
				continue
			}
			if overlaps(s.Start, s.End, week.Start, week.End) {
				simulated++
			}
		}

		results = append(results, WeekAvailability{
			Week:      week,
			Label:     week.Label,
			Available: headcount - len(absent) - simulated,
			Required:  minRequired,
		})
	}
	return results
}

// Alerts returns one capacity alert per week below its required minimum.
func Alerts(department string, results []WeekAvailability) []CapacityAlert {
	var alerts []CapacityAlert
	for _, r := range results {
		if r.Available < r.Required {
			alerts = append(alerts, CapacityAlert{
				Department:      department,
				WeekLabel:       r.Label,
				AvailableCount:  r.Available,
				RequiredMinimum: r.Required,
			})
		}
	}
	return alerts
}

// AbsencesForDepartment projects approved periods onto one department's
// absences, resolving owners through the directory. Unresolvable employees are
// skipped.
func AbsencesForDepartment(ctx context.Context, approved []leave.Period, dir directory.Directory, department string) []Absence {
	var out []Absence
	for _, p := range approved {
		summary, err := dir.Lookup(ctx, p.EmployeeID)
		if err != nil {
			slog.Warn("capacity analysis skipping period", "periodId", p.ID, "employeeId", p.EmployeeID, "err", err)
			continue
		}
		if summary.Department != department {
			continue
		}
		out = append(out, Absence{EmployeeID: p.EmployeeID, Start: p.StartDate, End: p.EndDate})
	}
	return out
}

// SeedFromPending turns the department's live pending requests overlapping the
// target month into what-if entries, so a simulation can preview the effect of
// approving everything currently in flight.
func SeedFromPending(ctx context.Context, pending []leave.Period, dir directory.Directory, department string, year int, month time.Month) []SimulatedAbsence {
	monthStart := workcal.NewDate(year, month, 1)
	monthEnd := monthStart.AddDays(daysInMonth(year, month) - 1)

	var out []SimulatedAbsence
	for _, p := range pending {
		summary, err := dir.Lookup(ctx, p.EmployeeID)
		if err != nil {
			slog.Warn("seed skipping period", "periodId", p.ID, "employeeId", p.EmployeeID, "err", err)
			continue
		}
		if summary.Department != department {
			continue
		}
		if !overlaps(p.StartDate, p.EndDate, monthStart, monthEnd) {
			continue
		}
		out = append(out, SimulatedAbsence{Start: p.StartDate, End: p.EndDate, Department: department})
	}
	return out
}

// overlaps is the inclusive interval intersection test used for every
// date-range comparison in this package.
func overlaps(aStart, aEnd, bStart, bEnd workcal.Date) bool {
	return !aStart.After(bEnd) && !bStart.After(aEnd)
}
