// Package memory is the reference leave.Store used in tests and single-process
// deployments. Group transitions are applied under one lock, so the group
// atomicity guarantee holds trivially.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"ecorh/leave"
)

type Store struct {
	mu      sync.Mutex
	periods map[string]leave.Period
	order   []string
}

func New() *Store {
	return &Store{periods: make(map[string]leave.Period)}
}

func (s *Store) Insert(_ context.Context, periods []leave.Period) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, p := range periods {
		if p.ID == "" {
			p.ID = uuid.NewString()
		}
		if _, exists := s.periods[p.ID]; exists {
			return fmt.Errorf("period %s already exists", p.ID)
		}
		s.periods[p.ID] = p
		s.order = append(s.order, p.ID)
	}
	return nil
}

func (s *Store) Group(_ context.Context, key string) (leave.Group, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	group := s.groupLocked(key)
	if len(group.Periods) == 0 {
		return leave.Group{}, fmt.Errorf("group %s: %w", key, leave.ErrPeriodNotFound)
	}
	return group, nil
}

func (s *Store) groupLocked(key string) leave.Group {
	group := leave.Group{Key: key}
	for _, id := range s.order {
		p := s.periods[id]
		if p.GroupKey() == key {
			group.Periods = append(group.Periods, p)
		}
	}
	return group
}

func (s *Store) ApplyTransition(_ context.Context, t leave.Transition) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	members := s.groupLocked(t.GroupKey)
	if len(members.Periods) == 0 {
		return fmt.Errorf("group %s: %w", t.GroupKey, leave.ErrPeriodNotFound)
	}
	for _, p := range members.Periods {
		if p.WorkflowStep != t.FromStep {
			return fmt.Errorf("group %s moved to %s: %w", t.GroupKey, p.WorkflowStep, leave.ErrStaleWorkflowState)
		}
	}

	decision := t.Decision
	for _, member := range members.Periods {
		p := s.periods[member.ID]
		p.WorkflowStep = t.ToStep
		p.Status = t.Status
		switch t.Stage {
		case leave.StepManager:
			p.ManagerDecision = &decision
		case leave.StepHR:
			p.HRDecision = &decision
		case leave.StepDirector:
			p.DirectorDecision = &decision
		}
		p.ApprovedBy = t.ActorID
		decidedAt := t.DecidedAt
		p.ApprovedAt = &decidedAt
		if t.Comment != "" {
			p.Comment = t.Comment
		}
		if len(t.Signature) > 0 {
			p.Signature = t.Signature
		}
		s.periods[member.ID] = p
	}
	return nil
}

func (s *Store) DeleteGroup(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	members := s.groupLocked(key)
	if len(members.Periods) == 0 {
		return fmt.Errorf("group %s: %w", key, leave.ErrPeriodNotFound)
	}
	for _, p := range members.Periods {
		if p.WorkflowStep != leave.StepManager || p.StageDecision(leave.StepManager) != nil {
			return fmt.Errorf("group %s: %w", key, leave.ErrWorkflowAlreadyStarted)
		}
	}

	remaining := s.order[:0]
	for _, id := range s.order {
		if s.periods[id].GroupKey() == key {
			delete(s.periods, id)
			continue
		}
		remaining = append(remaining, id)
	}
	s.order = remaining
	return nil
}

func (s *Store) PendingPeriods(_ context.Context) ([]leave.Period, error) {
	return s.byStatus(leave.StatusPending), nil
}

func (s *Store) ApprovedPeriods(_ context.Context) ([]leave.Period, error) {
	return s.byStatus(leave.StatusApproved), nil
}

func (s *Store) byStatus(status leave.Status) []leave.Period {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []leave.Period
	for _, id := range s.order {
		if p := s.periods[id]; p.Status == status {
			out = append(out, p)
		}
	}
	return out
}
