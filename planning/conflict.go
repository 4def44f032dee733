package planning

import (
	"context"
	"log/slog"
	"sort"

	"ecorh/directory"
	"ecorh/leave"
)

// ConflictDetail names the department/role bucket a conflicting period sits in.
type ConflictDetail struct {
	Department string `json:"department"`
	Role       string `json:"role"`
}

// Conflicts maps conflicting period ids to their bucket detail.
type Conflicts map[string]ConflictDetail

func (c Conflicts) Has(periodID string) bool {
	_, ok := c[periodID]
	return ok
}

// IDs returns the conflicting period ids in sorted order.
func (c Conflicts) IDs() []string {
	ids := make([]string, 0, len(c))
	for id := range c {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

type bucketKey struct {
	department string
	role       string
}

// FindConflicts flags pending periods whose date ranges overlap within the
// same department/role bucket. Periods whose employee cannot be resolved, or
// has no department or role, are skipped. Both sides of an overlapping pair
// are reported.
func FindConflicts(ctx context.Context, pending []leave.Period, dir directory.Directory) (Conflicts, error) {
	buckets := make(map[bucketKey][]leave.Period)
	var order []bucketKey

	for _, p := range pending {
		summary, err := dir.Lookup(ctx, p.EmployeeID)
		if err != nil {
			slog.Warn("conflict analysis skipping period", "periodId", p.ID, "employeeId", p.EmployeeID, "err", err)
			continue
		}
		if summary.Department == "" || summary.Role == "" {
			continue
		}
		key := bucketKey{department: summary.Department, role: summary.Role}
		if _, seen := buckets[key]; !seen {
			order = append(order, key)
		}
		buckets[key] = append(buckets[key], p)
	}

	conflicts := make(Conflicts)
	for _, key := range order {
		periods := buckets[key]
		sort.SliceStable(periods, func(i, j int) bool {
			return periods[i].StartDate.Before(periods[j].StartDate)
		})

		detail := ConflictDetail{Department: key.department, Role: key.role}
		for i := 0; i < len(periods); i++ {
			for j := i + 1; j < len(periods); j++ {
				// Sorted by start, so once a later period starts past the end
				// of periods[i] nothing further can overlap it.
				if periods[j].StartDate.After(periods[i].EndDate) {
					break
				}
				conflicts[periods[i].ID] = detail
				conflicts[periods[j].ID] = detail
			}
		}
	}
	return conflicts, nil
}
