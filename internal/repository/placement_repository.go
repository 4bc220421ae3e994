package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/internship-registration/internal/model"
)

// ErrPlacementNotFound is returned when no placement row exists for a
// registration.
var ErrPlacementNotFound = errors.New("placement status not found")

// PlacementRepo provides persistence for placement outcomes.  Unlike
// selection, placement updates do not cascade onto the registration, so
// plain (non-transactional) updates suffice.
type PlacementRepo struct {
	db *sql.DB
}

func NewPlacementRepo(db *sql.DB) *PlacementRepo { return &PlacementRepo{db: db} }

const placementColumns = `id, registration_id, status, company_name, position, department,
	placement_date, supervisor_name, supervisor_phone, notes, created_at, updated_at`

func scanPlacement(row interface{ Scan(...any) error }) (*model.PlacementStatus, error) {
	var p model.PlacementStatus
	var status string
	var company, position, department, supName, supPhone, notes sql.NullString
	var placedAt sql.NullTime
	err := row.Scan(
		&p.ID, &p.RegistrationID, &status, &company, &position, &department,
		&placedAt, &supName, &supPhone, &notes, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	p.Status = model.PlacementStage(status)
	p.CompanyName = company.String
	p.Position = position.String
	p.Department = department.String
	p.SupervisorName = supName.String
	p.SupervisorPhone = supPhone.String
	p.Notes = notes.String
	if placedAt.Valid {
		t := placedAt.Time
		p.PlacementDate = &t
	}
	return &p, nil
}

// CreateTx inserts the initial in-progress row for a new registration inside
// the registration transaction.
func (r *PlacementRepo) CreateTx(ctx context.Context, tx *sql.Tx, registrationID uint64) error {
	_, err := tx.ExecContext(ctx,
		"INSERT INTO placement_status (registration_id, status) VALUES (?,?)",
		registrationID, string(model.PlacementInProgress))
	return err
}

// GetByRegistrationID fetches the placement row of one registration.
func (r *PlacementRepo) GetByRegistrationID(ctx context.Context, registrationID uint64) (*model.PlacementStatus, error) {
	p, err := scanPlacement(r.db.QueryRowContext(ctx,
		"SELECT "+placementColumns+" FROM placement_status WHERE registration_id = ?", registrationID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPlacementNotFound
	}
	return p, err
}

// Update persists a placement outcome.  The row must already exist; the
// caller looks it up first and maps a miss to 404.
func (r *PlacementRepo) Update(ctx context.Context, p *model.PlacementStatus) error {
	const q = `UPDATE placement_status SET
		status=?, company_name=?, position=?, department=?, placement_date=?,
		supervisor_name=?, supervisor_phone=?, notes=?
		WHERE registration_id=?`
	_, err := r.db.ExecContext(ctx, q,
		string(p.Status), p.CompanyName, p.Position, p.Department, p.PlacementDate,
		p.SupervisorName, p.SupervisorPhone, p.Notes,
		p.RegistrationID)
	return err
}
