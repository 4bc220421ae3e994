package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/iliyamo/internship-registration/internal/model"
)

// ErrProgramNotFound is returned when a program cannot be found in the DB.
var ErrProgramNotFound = errors.New("program not found")

// ProgramRepo encapsulates all database queries related to programs and
// their categories.
type ProgramRepo struct {
	db *sql.DB
}

func NewProgramRepo(db *sql.DB) *ProgramRepo { return &ProgramRepo{db: db} }

// DB exposes the underlying handle so handlers can open transactions that
// span programs, registrations and payments.
func (r *ProgramRepo) DB() *sql.DB { return r.db }

const programColumns = `id, category_id, name, description, status, capacity, current_participants,
	cost, training_cost, departure_cost, installment_plan, duration_months, location,
	curriculum, facilities, timeline, fee_breakdown, requirements, created_at, updated_at`

func scanProgram(row interface{ Scan(...any) error }) (*model.Program, error) {
	var p model.Program
	var status string
	err := row.Scan(
		&p.ID, &p.CategoryID, &p.Name, &p.Description, &status, &p.Capacity, &p.CurrentParticipants,
		&p.Cost, &p.TrainingCost, &p.DepartureCost, &p.InstallmentPlan, &p.DurationMonths, &p.Location,
		&p.Curriculum, &p.Facilities, &p.Timeline, &p.FeeBreakdown, &p.Requirements, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	p.Status = model.ProgramStatus(status)
	return &p, nil
}

// Create inserts a new program.  On success the ID field is populated with
// the auto-generated value and timestamps are read back so callers receive a
// fully populated record.
func (r *ProgramRepo) Create(ctx context.Context, p *model.Program) error {
	const q = `INSERT INTO programs
		(category_id, name, description, status, capacity, current_participants,
		 cost, training_cost, departure_cost, installment_plan, duration_months, location,
		 curriculum, facilities, timeline, fee_breakdown, requirements)
		VALUES (?,?,?,?,?,0,?,?,?,?,?,?,?,?,?,?,?)`
	res, err := r.db.ExecContext(ctx, q,
		p.CategoryID, p.Name, p.Description, string(p.Status), p.Capacity,
		p.Cost, p.TrainingCost, p.DepartureCost, p.InstallmentPlan, p.DurationMonths, p.Location,
		p.Curriculum, p.Facilities, p.Timeline, p.FeeBreakdown, p.Requirements)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	p.ID = uint64(id)
	got, err := r.GetByID(ctx, p.ID)
	if err != nil {
		return err
	}
	*p = *got
	return nil
}

// GetByID fetches a program by its ID.  It returns ErrProgramNotFound when
// no row is found.
func (r *ProgramRepo) GetByID(ctx context.Context, id uint64) (*model.Program, error) {
	p, err := scanProgram(r.db.QueryRowContext(ctx,
		"SELECT "+programColumns+" FROM programs WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrProgramNotFound
	}
	return p, err
}

// GetActiveForUpdateTx loads a program inside the registration transaction
// and locks its row.  Only active programs qualify; an inactive or missing
// program yields ErrProgramNotFound.  The lock keeps the capacity check and
// the participant increment in one atomic unit.
func (r *ProgramRepo) GetActiveForUpdateTx(ctx context.Context, tx *sql.Tx, id uint64) (*model.Program, error) {
	p, err := scanProgram(tx.QueryRowContext(ctx,
		"SELECT "+programColumns+" FROM programs WHERE id = ? AND status = ? FOR UPDATE",
		id, string(model.ProgramActive)))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrProgramNotFound
	}
	return p, err
}

// IncrementParticipantsTx bumps current_participants while re-asserting the
// capacity bound in the same statement.  Zero affected rows means the
// program filled up concurrently, reported as ErrCapacityFull so the whole
// registration transaction rolls back.
func (r *ProgramRepo) IncrementParticipantsTx(ctx context.Context, tx *sql.Tx, id uint64) error {
	res, err := tx.ExecContext(ctx,
		"UPDATE programs SET current_participants = current_participants + 1 WHERE id = ? AND current_participants < capacity",
		id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrCapacityFull
	}
	return nil
}

// List returns programs, optionally filtered by status and category.
func (r *ProgramRepo) List(ctx context.Context, status string, categoryID uint64) ([]*model.Program, error) {
	q := "SELECT " + programColumns + " FROM programs"
	conds := make([]string, 0, 2)
	args := make([]any, 0, 2)
	if status != "" {
		conds = append(conds, "status = ?")
		args = append(args, status)
	}
	if categoryID != 0 {
		conds = append(conds, "category_id = ?")
		args = append(args, categoryID)
	}
	if len(conds) > 0 {
		q += " WHERE " + strings.Join(conds, " AND ")
	}
	q += " ORDER BY id"
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]*model.Program, 0)
	for rows.Next() {
		p, err := scanProgram(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// Update persists the editable fields of a program.  Capacity may be raised
// or lowered, but never below the current participant count.  The WHERE
// clause sees the old row values, so the bound here is the incoming capacity
// bound as a parameter, not the capacity column.
func (r *ProgramRepo) Update(ctx context.Context, p *model.Program) error {
	const q = `UPDATE programs SET
		category_id=?, name=?, description=?, status=?, capacity=?,
		cost=?, training_cost=?, departure_cost=?, installment_plan=?, duration_months=?, location=?,
		curriculum=?, facilities=?, timeline=?, fee_breakdown=?, requirements=?
		WHERE id=? AND ? >= current_participants`
	res, err := r.db.ExecContext(ctx, q,
		p.CategoryID, p.Name, p.Description, string(p.Status), p.Capacity,
		p.Cost, p.TrainingCost, p.DepartureCost, p.InstallmentPlan, p.DurationMonths, p.Location,
		p.Curriculum, p.Facilities, p.Timeline, p.FeeBreakdown, p.Requirements,
		p.ID, p.Capacity)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		// Either the row is missing or the new capacity would undercut the
		// current participant count.
		if _, err := r.GetByID(ctx, p.ID); err != nil {
			return err
		}
		return ErrConflict
	}
	return nil
}

// Delete removes a program.  Programs that already have registrations
// cannot be deleted; ErrConflict is returned instead.
func (r *ProgramRepo) Delete(ctx context.Context, id uint64) error {
	var one int
	err := r.db.QueryRowContext(ctx,
		"SELECT 1 FROM registrations WHERE program_id=? LIMIT 1", id).Scan(&one)
	switch {
	case err == nil:
		return ErrConflict
	case !errors.Is(err, sql.ErrNoRows):
		return err
	}
	res, err := r.db.ExecContext(ctx, "DELETE FROM programs WHERE id=?", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrProgramNotFound
	}
	return nil
}

// ListCategories returns all program categories ordered by name.
func (r *ProgramRepo) ListCategories(ctx context.Context) ([]model.ProgramCategory, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT id, name, slug FROM program_categories ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.ProgramCategory, 0)
	for rows.Next() {
		var c model.ProgramCategory
		if err := rows.Scan(&c.ID, &c.Name, &c.Slug); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
