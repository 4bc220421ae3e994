package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/internship-registration/internal/model"
)

// ErrSelectionNotFound is returned when no selection row exists for a
// registration.  Selection rows are created with the registration, so this
// usually means the registration id itself is wrong.
var ErrSelectionNotFound = errors.New("selection status not found")

// SelectionRepo provides persistence for selection evaluations.  Updates run
// inside a caller-owned transaction because every evaluation cascades a
// status onto the parent registration.
type SelectionRepo struct {
	db *sql.DB
}

func NewSelectionRepo(db *sql.DB) *SelectionRepo { return &SelectionRepo{db: db} }

// DB exposes the handle for the update+cascade transaction.
func (r *SelectionRepo) DB() *sql.DB { return r.db }

const selectionColumns = `id, registration_id, status, test_score, interview_score, final_score,
	notes, evaluated_by, evaluated_at, created_at, updated_at`

func scanSelection(row interface{ Scan(...any) error }) (*model.SelectionStatus, error) {
	var s model.SelectionStatus
	var status string
	var test, interview, final sql.NullFloat64
	var notes sql.NullString
	var evalBy sql.NullInt64
	var evalAt sql.NullTime
	err := row.Scan(
		&s.ID, &s.RegistrationID, &status, &test, &interview, &final,
		&notes, &evalBy, &evalAt, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	s.Status = model.SelectionStage(status)
	if test.Valid {
		v := test.Float64
		s.TestScore = &v
	}
	if interview.Valid {
		v := interview.Float64
		s.InterviewScore = &v
	}
	if final.Valid {
		v := final.Float64
		s.FinalScore = &v
	}
	s.Notes = notes.String
	if evalBy.Valid {
		v := uint64(evalBy.Int64)
		s.EvaluatedBy = &v
	}
	if evalAt.Valid {
		t := evalAt.Time
		s.EvaluatedAt = &t
	}
	return &s, nil
}

// CreateTx inserts the initial waiting row for a new registration inside the
// registration transaction.
func (r *SelectionRepo) CreateTx(ctx context.Context, tx *sql.Tx, registrationID uint64) error {
	_, err := tx.ExecContext(ctx,
		"INSERT INTO selection_status (registration_id, status) VALUES (?,?)",
		registrationID, string(model.SelectionWaiting))
	return err
}

// GetByRegistrationID fetches the selection row of one registration.
func (r *SelectionRepo) GetByRegistrationID(ctx context.Context, registrationID uint64) (*model.SelectionStatus, error) {
	s, err := scanSelection(r.db.QueryRowContext(ctx,
		"SELECT "+selectionColumns+" FROM selection_status WHERE registration_id = ?", registrationID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSelectionNotFound
	}
	return s, err
}

// GetByRegistrationIDTx is GetByRegistrationID inside a transaction, with
// the row locked for the update that follows.
func (r *SelectionRepo) GetByRegistrationIDTx(ctx context.Context, tx *sql.Tx, registrationID uint64) (*model.SelectionStatus, error) {
	s, err := scanSelection(tx.QueryRowContext(ctx,
		"SELECT "+selectionColumns+" FROM selection_status WHERE registration_id = ? FOR UPDATE", registrationID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSelectionNotFound
	}
	return s, err
}

// UpdateTx persists an evaluation inside the caller's transaction.  The
// registration cascade is written by the caller in the same transaction.
func (r *SelectionRepo) UpdateTx(ctx context.Context, tx *sql.Tx, s *model.SelectionStatus) error {
	const q = `UPDATE selection_status SET
		status=?, test_score=?, interview_score=?, final_score=?, notes=?, evaluated_by=?, evaluated_at=?
		WHERE registration_id=?`
	// The DSN sets clientFoundRows, so the count below is matched rows and a
	// value-unchanged update still reports 1.
	res, err := tx.ExecContext(ctx, q,
		string(s.Status), s.TestScore, s.InterviewScore, s.FinalScore, s.Notes, s.EvaluatedBy, s.EvaluatedAt,
		s.RegistrationID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrSelectionNotFound
	}
	return nil
}
