// Package directory is the read-only employee projection consumed by conflict
// detection and capacity planning. It is owned by the external employee
// directory; nothing here mutates it.
package directory

import (
	"context"
	"fmt"

	"ecorh/leave"
)

type EmployeeSummary struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Department  string `json:"department"`
	ManagerName string `json:"managerName"`
	Role        string `json:"role"`
}

type Directory interface {
	Lookup(ctx context.Context, employeeID string) (EmployeeSummary, error)
}

// Static is a fixed in-memory directory, used in tests and batch analysis over
// a snapshot.
type Static map[string]EmployeeSummary

func (s Static) Lookup(_ context.Context, employeeID string) (EmployeeSummary, error) {
	summary, ok := s[employeeID]
	if !ok {
		return EmployeeSummary{}, fmt.Errorf("employee %s: %w", employeeID, leave.ErrEmployeeNotResolvable)
	}
	return summary, nil
}
