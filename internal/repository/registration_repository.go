package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/iliyamo/internship-registration/internal/model"
)

// ErrRegistrationNotFound is returned when a registration id or code does
// not exist.
var ErrRegistrationNotFound = errors.New("registration not found")

// RegistrationRepo provides persistence for registrations.  Creation always
// happens inside a caller-owned transaction because a registration row never
// exists without its payment, selection and placement rows.
type RegistrationRepo struct {
	db *sql.DB
}

func NewRegistrationRepo(db *sql.DB) *RegistrationRepo { return &RegistrationRepo{db: db} }

// DB exposes the handle for transactions spanning multiple repositories.
func (r *RegistrationRepo) DB() *sql.DB { return r.db }

// ExistsByUserAndProgram reports whether the (user, program) pair already
// holds a registration.
func (r *RegistrationRepo) ExistsByUserAndProgram(ctx context.Context, userID, programID uint64) (bool, error) {
	var one int
	err := r.db.QueryRowContext(ctx,
		"SELECT 1 FROM registrations WHERE user_id=? AND program_id=? LIMIT 1",
		userID, programID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// CreateTx inserts a registration within an existing transaction and
// populates the generated ID.  A duplicate (user, program) insert racing
// past the earlier existence check surfaces as ErrDuplicateRegistration via
// the unique index.
func (r *RegistrationRepo) CreateTx(ctx context.Context, tx *sql.Tx, reg *model.Registration) error {
	const q = `INSERT INTO registrations
		(code, user_id, program_id, application_letter, placement_preference, status)
		VALUES (?,?,?,?,?,?)`
	res, err := tx.ExecContext(ctx, q,
		reg.Code, reg.UserID, reg.ProgramID, reg.ApplicationLetter, reg.PlacementPreference, string(reg.Status))
	if err != nil {
		if strings.Contains(err.Error(), "1062") {
			return ErrDuplicateRegistration
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	reg.ID = uint64(id)
	return nil
}

// GetByID fetches one registration row.
func (r *RegistrationRepo) GetByID(ctx context.Context, id uint64) (*model.Registration, error) {
	const q = `SELECT id, code, user_id, program_id, application_letter, placement_preference, status, created_at, updated_at
		FROM registrations WHERE id = ?`
	var reg model.Registration
	var status string
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&reg.ID, &reg.Code, &reg.UserID, &reg.ProgramID,
		&reg.ApplicationLetter, &reg.PlacementPreference, &status,
		&reg.CreatedAt, &reg.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRegistrationNotFound
	}
	if err != nil {
		return nil, err
	}
	reg.Status = model.RegistrationStatus(status)
	return &reg, nil
}

// RegistrationDetail is a registration joined with its program and the
// status of its three dependent rows, as shown in listings.
type RegistrationDetail struct {
	ID                  uint64                   `json:"id"`
	Code                string                   `json:"code"`
	UserID              uint64                   `json:"user_id"`
	UserName            string                   `json:"user_name"`
	ProgramID           uint64                   `json:"program_id"`
	ProgramName         string                   `json:"program_name"`
	Status              model.RegistrationStatus `json:"status"`
	PlacementPreference string                   `json:"placement_preference"`
	PaymentStatus       model.PaymentStatus      `json:"payment_status"`
	SelectionStatus     model.SelectionStage     `json:"selection_status"`
	PlacementStatus     model.PlacementStage     `json:"placement_status"`
	CreatedAt           string                   `json:"created_at"`
}

const registrationDetailQuery = `SELECT r.id, r.code, r.user_id, u.full_name, r.program_id, p.name,
		r.status, r.placement_preference,
		pay.status, sel.status, pl.status, r.created_at
	FROM registrations r
	JOIN users u ON u.id = r.user_id
	JOIN programs p ON p.id = r.program_id
	JOIN payments pay ON pay.registration_id = r.id
	JOIN selection_status sel ON sel.registration_id = r.id
	JOIN placement_status pl ON pl.registration_id = r.id`

func scanRegistrationDetails(rows *sql.Rows) ([]RegistrationDetail, error) {
	defer rows.Close()
	out := make([]RegistrationDetail, 0)
	for rows.Next() {
		var d RegistrationDetail
		var regStatus, payStatus, selStatus, plStatus string
		var createdAt sql.NullTime
		if err := rows.Scan(
			&d.ID, &d.Code, &d.UserID, &d.UserName, &d.ProgramID, &d.ProgramName,
			&regStatus, &d.PlacementPreference,
			&payStatus, &selStatus, &plStatus, &createdAt,
		); err != nil {
			return nil, err
		}
		d.Status = model.RegistrationStatus(regStatus)
		d.PaymentStatus = model.PaymentStatus(payStatus)
		d.SelectionStatus = model.SelectionStage(selStatus)
		d.PlacementStatus = model.PlacementStage(plStatus)
		if createdAt.Valid {
			d.CreatedAt = createdAt.Time.UTC().Format(time.RFC3339)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// ListByUser returns a participant's registrations, newest first.
func (r *RegistrationRepo) ListByUser(ctx context.Context, userID uint64) ([]RegistrationDetail, error) {
	rows, err := r.db.QueryContext(ctx,
		registrationDetailQuery+" WHERE r.user_id = ? ORDER BY r.created_at DESC", userID)
	if err != nil {
		return nil, err
	}
	return scanRegistrationDetails(rows)
}

// List returns registrations for admins, optionally filtered by program and
// registration status, newest first.
func (r *RegistrationRepo) List(ctx context.Context, programID uint64, status string) ([]RegistrationDetail, error) {
	q := registrationDetailQuery
	conds := make([]string, 0, 2)
	args := make([]any, 0, 2)
	if programID != 0 {
		conds = append(conds, "r.program_id = ?")
		args = append(args, programID)
	}
	if status != "" {
		conds = append(conds, "r.status = ?")
		args = append(args, status)
	}
	if len(conds) > 0 {
		q += " WHERE " + strings.Join(conds, " AND ")
	}
	q += " ORDER BY r.created_at DESC"
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	return scanRegistrationDetails(rows)
}

// UpdateStatus sets the registration status outside a transaction (the
// legacy direct update path).
func (r *RegistrationRepo) UpdateStatus(ctx context.Context, id uint64, status model.RegistrationStatus) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE registrations SET status=? WHERE id=?", string(status), id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrRegistrationNotFound
	}
	return nil
}

// UpdateStatusTx sets the registration status inside a transaction; used by
// the selection cascade so the evaluation row and the parent status commit
// together.
func (r *RegistrationRepo) UpdateStatusTx(ctx context.Context, tx *sql.Tx, id uint64, status model.RegistrationStatus) error {
	res, err := tx.ExecContext(ctx,
		"UPDATE registrations SET status=? WHERE id=?", string(status), id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrRegistrationNotFound
	}
	return nil
}

// ExistsTx reports existence of a registration row inside a transaction.
func (r *RegistrationRepo) ExistsTx(ctx context.Context, tx *sql.Tx, id uint64) (bool, error) {
	var one int
	err := tx.QueryRowContext(ctx, "SELECT 1 FROM registrations WHERE id=? LIMIT 1", id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
