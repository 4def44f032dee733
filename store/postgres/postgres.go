// Package postgres is the relational leave.Store. Group transitions run in a
// single transaction with the member rows locked, so a concurrent reviewer
// loses the race with ErrStaleWorkflowState instead of double-applying.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"ecorh/leave"
	"ecorh/workcal"
)

func Connect(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, err
	}
	poolCfg.MaxConnLifetime = time.Hour
	poolCfg.MaxConns = 10
	poolCfg.MinConns = 2
	return pgxpool.NewWithConfig(ctx, poolCfg)
}

const schema = `
CREATE TABLE IF NOT EXISTS leave_request_periods (
  id TEXT PRIMARY KEY,
  employee_id TEXT NOT NULL,
  leave_type TEXT NOT NULL,
  start_date DATE NOT NULL,
  end_date DATE NOT NULL,
  status TEXT NOT NULL DEFAULT 'pending',
  workflow_step TEXT NOT NULL DEFAULT 'manager',
  request_group_id TEXT NOT NULL DEFAULT '',
  manager_decision TEXT,
  hr_decision TEXT,
  director_decision TEXT,
  military_start_date DATE,
  military_end_date DATE,
  military_reference TEXT NOT NULL DEFAULT '',
  signature BYTEA,
  comment TEXT NOT NULL DEFAULT '',
  approved_by TEXT NOT NULL DEFAULT '',
  approved_at TIMESTAMPTZ,
  created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS idx_leave_periods_group ON leave_request_periods (request_group_id);
CREATE INDEX IF NOT EXISTS idx_leave_periods_status ON leave_request_periods (status);
`

// EnsureSchema bootstraps the period table. Real deployments run proper
// migrations; this keeps the adapter self-contained.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, schema)
	return err
}

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{DB: pool}
}

const periodColumns = `
  id, employee_id, leave_type, start_date, end_date, status, workflow_step,
  request_group_id, manager_decision, hr_decision, director_decision,
  military_start_date, military_end_date, military_reference,
  signature, comment, approved_by, approved_at, created_at
`

func (s *Store) Insert(ctx context.Context, periods []leave.Period) error {
	tx, err := s.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for _, p := range periods {
		if _, err := tx.Exec(ctx, `
      INSERT INTO leave_request_periods (
        id, employee_id, leave_type, start_date, end_date, status, workflow_step,
        request_group_id, military_start_date, military_end_date, military_reference,
        comment, created_at
      ) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
    `, p.ID, p.EmployeeID, string(p.Type), p.StartDate.Time(), p.EndDate.Time(),
			string(p.Status), string(p.WorkflowStep), p.RequestGroupID,
			optionalDate(p.MilitaryStartDate), optionalDate(p.MilitaryEndDate),
			p.MilitaryReference, p.Comment, p.CreatedAt); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

const groupFilter = `(request_group_id = $1 OR (request_group_id = '' AND id = $1))`

func (s *Store) Group(ctx context.Context, key string) (leave.Group, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT `+periodColumns+`
    FROM leave_request_periods
    WHERE `+groupFilter+`
    ORDER BY created_at, id
  `, key)
	if err != nil {
		return leave.Group{}, err
	}
	defer rows.Close()

	group := leave.Group{Key: key}
	for rows.Next() {
		p, err := scanPeriod(rows)
		if err != nil {
			return leave.Group{}, err
		}
		group.Periods = append(group.Periods, p)
	}
	if len(group.Periods) == 0 {
		return leave.Group{}, fmt.Errorf("group %s: %w", key, leave.ErrPeriodNotFound)
	}
	return group, nil
}

var decisionColumn = map[leave.Step]string{
	leave.StepManager:  "manager_decision",
	leave.StepHR:       "hr_decision",
	leave.StepDirector: "director_decision",
}

func (s *Store) ApplyTransition(ctx context.Context, t leave.Transition) error {
	column, ok := decisionColumn[t.Stage]
	if !ok {
		return fmt.Errorf("no decision column for stage %s", t.Stage)
	}

	tx, err := s.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	rows, err := tx.Query(ctx, `
    SELECT workflow_step
    FROM leave_request_periods
    WHERE `+groupFilter+`
    FOR UPDATE
  `, t.GroupKey)
	if err != nil {
		return err
	}
	found := 0
	for rows.Next() {
		var step string
		if err := rows.Scan(&step); err != nil {
			rows.Close()
			return err
		}
		found++
		if leave.Step(step) != t.FromStep {
			rows.Close()
			return fmt.Errorf("group %s moved to %s: %w", t.GroupKey, step, leave.ErrStaleWorkflowState)
		}
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}
	if found == 0 {
		return fmt.Errorf("group %s: %w", t.GroupKey, leave.ErrPeriodNotFound)
	}

	if _, err := tx.Exec(ctx, `
    UPDATE leave_request_periods
    SET workflow_step = $2,
        status = $3,
        `+column+` = $4,
        approved_by = $5,
        approved_at = $6,
        comment = CASE WHEN $7 = '' THEN comment ELSE $7 END,
        signature = CASE WHEN $8::bytea IS NULL THEN signature ELSE $8 END
    WHERE `+groupFilter+`
  `, t.GroupKey, string(t.ToStep), string(t.Status), string(t.Decision),
		t.ActorID, t.DecidedAt, t.Comment, nullableBytes(t.Signature)); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (s *Store) DeleteGroup(ctx context.Context, key string) error {
	tx, err := s.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	var blocked int
	err = tx.QueryRow(ctx, `
    SELECT COUNT(1)
    FROM leave_request_periods
    WHERE `+groupFilter+`
      AND (workflow_step <> 'manager' OR manager_decision IS NOT NULL)
  `, key).Scan(&blocked)
	if err != nil {
		return err
	}
	if blocked > 0 {
		return fmt.Errorf("group %s: %w", key, leave.ErrWorkflowAlreadyStarted)
	}

	tag, err := tx.Exec(ctx, `DELETE FROM leave_request_periods WHERE `+groupFilter, key)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("group %s: %w", key, leave.ErrPeriodNotFound)
	}
	return tx.Commit(ctx)
}

func (s *Store) PendingPeriods(ctx context.Context) ([]leave.Period, error) {
	return s.byStatus(ctx, leave.StatusPending)
}

func (s *Store) ApprovedPeriods(ctx context.Context) ([]leave.Period, error) {
	return s.byStatus(ctx, leave.StatusApproved)
}

func (s *Store) byStatus(ctx context.Context, status leave.Status) ([]leave.Period, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT `+periodColumns+`
    FROM leave_request_periods
    WHERE status = $1
    ORDER BY start_date, id
  `, string(status))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []leave.Period
	for rows.Next() {
		p, err := scanPeriod(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func scanPeriod(rows pgx.Rows) (leave.Period, error) {
	var p leave.Period
	var leaveType, status, step string
	var startDate, endDate time.Time
	var managerDecision, hrDecision, directorDecision *string
	var militaryStart, militaryEnd *time.Time

	if err := rows.Scan(&p.ID, &p.EmployeeID, &leaveType, &startDate, &endDate,
		&status, &step, &p.RequestGroupID, &managerDecision, &hrDecision,
		&directorDecision, &militaryStart, &militaryEnd, &p.MilitaryReference,
		&p.Signature, &p.Comment, &p.ApprovedBy, &p.ApprovedAt, &p.CreatedAt); err != nil {
		return leave.Period{}, err
	}

	p.Type = leave.Type(leaveType)
	p.Status = leave.Status(status)
	p.WorkflowStep = leave.Step(step)
	p.StartDate = workcal.FromTime(startDate)
	p.EndDate = workcal.FromTime(endDate)
	p.ManagerDecision = toDecision(managerDecision)
	p.HRDecision = toDecision(hrDecision)
	p.DirectorDecision = toDecision(directorDecision)
	if militaryStart != nil {
		d := workcal.FromTime(*militaryStart)
		p.MilitaryStartDate = &d
	}
	if militaryEnd != nil {
		d := workcal.FromTime(*militaryEnd)
		p.MilitaryEndDate = &d
	}
	return p, nil
}

func toDecision(raw *string) *leave.Decision {
	if raw == nil {
		return nil
	}
	d := leave.Decision(*raw)
	return &d
}

func optionalDate(d *workcal.Date) *time.Time {
	if d == nil {
		return nil
	}
	t := d.Time()
	return &t
}

func nullableBytes(b []byte) []byte {
	if len(b) == 0 {
		return nil
	}
	return b
}

// IsNotFound reports whether err is the adapter's row-missing condition.
func IsNotFound(err error) bool {
	return errors.Is(err, leave.ErrPeriodNotFound) || errors.Is(err, pgx.ErrNoRows)
}
