package leave

import "fmt"

// Group is a set of periods submitted as one request. All members share the
// same workflow step and status at all times; the aggregator rejects any group
// that violates this instead of trusting the first member.
type Group struct {
	Key     string
	Periods []Period
}

func (g Group) Step() Step {
	if len(g.Periods) == 0 {
		return ""
	}
	return g.Periods[0].WorkflowStep
}

func (g Group) Status() Status {
	if len(g.Periods) == 0 {
		return ""
	}
	return g.Periods[0].Status
}

func (g Group) EmployeeID() string {
	if len(g.Periods) == 0 {
		return ""
	}
	return g.Periods[0].EmployeeID
}

func (g Group) PeriodIDs() []string {
	ids := make([]string, 0, len(g.Periods))
	for _, p := range g.Periods {
		ids = append(ids, p.ID)
	}
	return ids
}

// hasAnyDecision reports whether any stage has acted on any member.
func (g Group) hasAnyDecision() bool {
	for _, p := range g.Periods {
		if p.ManagerDecision != nil || p.HRDecision != nil || p.DirectorDecision != nil {
			return true
		}
	}
	return false
}

func (g Group) checkConsistent() error {
	if len(g.Periods) < 2 {
		return nil
	}
	first := g.Periods[0]
	for _, p := range g.Periods[1:] {
		if p.WorkflowStep != first.WorkflowStep || p.Status != first.Status {
			return fmt.Errorf("group %s: %w", g.Key, ErrGroupInconsistent)
		}
	}
	return nil
}

// GroupPeriods collapses a flat period collection into request groups. Periods
// sharing a request group id form one group; the rest are singleton groups
// keyed by their own id. Output order is insertion order of first occurrence.
func GroupPeriods(periods []Period) ([]Group, error) {
	index := make(map[string]int, len(periods))
	groups := make([]Group, 0, len(periods))

	for _, p := range periods {
		key := p.GroupKey()
		at, seen := index[key]
		if !seen {
			index[key] = len(groups)
			groups = append(groups, Group{Key: key})
			at = len(groups) - 1
		}
		groups[at].Periods = append(groups[at].Periods, p)
	}

	for _, g := range groups {
		if err := g.checkConsistent(); err != nil {
			return nil, err
		}
	}
	return groups, nil
}
