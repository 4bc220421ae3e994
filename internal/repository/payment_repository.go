package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/iliyamo/internship-registration/internal/model"
)

// ErrPaymentNotFound is returned when a payment id does not exist.
var ErrPaymentNotFound = errors.New("payment not found")

// PaymentRepo provides persistence for payments and their append-only
// status history.  Status-changing mutations run through *Tx methods so the
// payment update and its history row always commit together.
type PaymentRepo struct {
	db *sql.DB
}

func NewPaymentRepo(db *sql.DB) *PaymentRepo { return &PaymentRepo{db: db} }

// DB exposes the handle for transactions spanning multiple repositories.
func (r *PaymentRepo) DB() *sql.DB { return r.db }

const paymentColumns = `id, registration_id, invoice_number, receipt_number, amount, amount_paid,
	status, payment_method, bank_name, account_number, proof_file, payment_date, due_date,
	notes, verified_by, verified_at, created_at, updated_at`

func scanPayment(row interface{ Scan(...any) error }) (*model.Payment, error) {
	var p model.Payment
	var status string
	var receipt, proof sql.NullString
	var method, bank, account, notes sql.NullString
	var payDate, dueDate, verifiedAt sql.NullTime
	var verifiedBy sql.NullInt64
	err := row.Scan(
		&p.ID, &p.RegistrationID, &p.InvoiceNumber, &receipt, &p.Amount, &p.AmountPaid,
		&status, &method, &bank, &account, &proof, &payDate, &dueDate,
		&notes, &verifiedBy, &verifiedAt, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	p.Status = model.PaymentStatus(status)
	if receipt.Valid {
		v := receipt.String
		p.ReceiptNumber = &v
	}
	if proof.Valid {
		v := proof.String
		p.ProofFile = &v
	}
	p.PaymentMethod = method.String
	p.BankName = bank.String
	p.AccountNumber = account.String
	p.Notes = notes.String
	if payDate.Valid {
		t := payDate.Time
		p.PaymentDate = &t
	}
	if dueDate.Valid {
		t := dueDate.Time
		p.DueDate = &t
	}
	if verifiedBy.Valid {
		v := uint64(verifiedBy.Int64)
		p.VerifiedBy = &v
	}
	if verifiedAt.Valid {
		t := verifiedAt.Time
		p.VerifiedAt = &t
	}
	return &p, nil
}

// CreateTx inserts the initial pending payment for a new registration inside
// the registration transaction and populates the generated ID.
func (r *PaymentRepo) CreateTx(ctx context.Context, tx *sql.Tx, p *model.Payment) error {
	const q = `INSERT INTO payments
		(registration_id, invoice_number, amount, amount_paid, status, due_date, notes)
		VALUES (?,?,?,?,?,?,?)`
	res, err := tx.ExecContext(ctx, q,
		p.RegistrationID, p.InvoiceNumber, p.Amount, p.AmountPaid, string(p.Status), p.DueDate, p.Notes)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	p.ID = uint64(id)
	return nil
}

// CreateManualTx inserts a manually recorded payment with all its bank and
// verification details, plus the opening history row, in one transaction.
func (r *PaymentRepo) CreateManualTx(ctx context.Context, tx *sql.Tx, p *model.Payment) error {
	const q = `INSERT INTO payments
		(registration_id, invoice_number, receipt_number, amount, amount_paid, status,
		 payment_method, bank_name, account_number, payment_date, due_date, notes,
		 verified_by, verified_at)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?)`
	res, err := tx.ExecContext(ctx, q,
		p.RegistrationID, p.InvoiceNumber, p.ReceiptNumber, p.Amount, p.AmountPaid, string(p.Status),
		p.PaymentMethod, p.BankName, p.AccountNumber, p.PaymentDate, p.DueDate, p.Notes,
		p.VerifiedBy, p.VerifiedAt)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	p.ID = uint64(id)
	return nil
}

// GetByID fetches a payment by id.
func (r *PaymentRepo) GetByID(ctx context.Context, id uint64) (*model.Payment, error) {
	p, err := scanPayment(r.db.QueryRowContext(ctx,
		"SELECT "+paymentColumns+" FROM payments WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPaymentNotFound
	}
	return p, err
}

// FirstByRegistrationID returns the oldest payment of a registration, which
// is the one opened at registration time.  Used by the registration-scoped
// update path.
func (r *PaymentRepo) FirstByRegistrationID(ctx context.Context, registrationID uint64) (*model.Payment, error) {
	p, err := scanPayment(r.db.QueryRowContext(ctx,
		"SELECT "+paymentColumns+" FROM payments WHERE registration_id = ? ORDER BY id LIMIT 1",
		registrationID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPaymentNotFound
	}
	return p, err
}

// GetByIDForUpdateTx loads a payment inside a transaction and locks its row
// so concurrent admin status updates serialize on it.
func (r *PaymentRepo) GetByIDForUpdateTx(ctx context.Context, tx *sql.Tx, id uint64) (*model.Payment, error) {
	p, err := scanPayment(tx.QueryRowContext(ctx,
		"SELECT "+paymentColumns+" FROM payments WHERE id = ? FOR UPDATE", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPaymentNotFound
	}
	return p, err
}

// UpdateStatusTx persists a verified status change.  The matching history
// row must be appended by the caller in the same transaction.
func (r *PaymentRepo) UpdateStatusTx(ctx context.Context, tx *sql.Tx, p *model.Payment) error {
	const q = `UPDATE payments SET
		status=?, amount_paid=?, receipt_number=?, notes=?, verified_by=?, verified_at=?, payment_date=?
		WHERE id=?`
	_, err := tx.ExecContext(ctx, q,
		string(p.Status), p.AmountPaid, p.ReceiptNumber, p.Notes, p.VerifiedBy, p.VerifiedAt, p.PaymentDate, p.ID)
	return err
}

// AttachProofTx stores the uploaded proof reference and forces the payment
// back to pending until an admin verifies it.
func (r *PaymentRepo) AttachProofTx(ctx context.Context, tx *sql.Tx, id uint64, proofFile string) error {
	res, err := tx.ExecContext(ctx,
		"UPDATE payments SET proof_file=?, status=? WHERE id=?",
		proofFile, string(model.PaymentPending), id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrPaymentNotFound
	}
	return nil
}

// AppendHistoryTx writes one append-only history row inside the caller's
// transaction.  History rows are never updated or deleted.
func (r *PaymentRepo) AppendHistoryTx(ctx context.Context, tx *sql.Tx, h *model.PaymentHistory) error {
	const q = `INSERT INTO payment_history (payment_id, old_status, new_status, amount, changed_by, note)
		VALUES (?,?,?,?,?,?)`
	res, err := tx.ExecContext(ctx, q,
		h.PaymentID, string(h.OldStatus), string(h.NewStatus), h.Amount, h.ChangedBy, h.Note)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	h.ID = uint64(id)
	return nil
}

// ListHistory returns the status log of one payment, oldest first.
func (r *PaymentRepo) ListHistory(ctx context.Context, paymentID uint64) ([]model.PaymentHistory, error) {
	const q = `SELECT id, payment_id, old_status, new_status, amount, changed_by, note, created_at
		FROM payment_history WHERE payment_id = ? ORDER BY id`
	rows, err := r.db.QueryContext(ctx, q, paymentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.PaymentHistory, 0)
	for rows.Next() {
		var h model.PaymentHistory
		var oldS, newS string
		var note sql.NullString
		if err := rows.Scan(&h.ID, &h.PaymentID, &oldS, &newS, &h.Amount, &h.ChangedBy, &note, &h.CreatedAt); err != nil {
			return nil, err
		}
		h.OldStatus = model.PaymentStatus(oldS)
		h.NewStatus = model.PaymentStatus(newS)
		h.Note = note.String
		out = append(out, h)
	}
	return out, rows.Err()
}

// List returns payments for admins, optionally filtered by status, newest
// first.
func (r *PaymentRepo) List(ctx context.Context, status string) ([]*model.Payment, error) {
	q := "SELECT " + paymentColumns + " FROM payments"
	args := make([]any, 0, 1)
	if status != "" {
		q += " WHERE status = ?"
		args = append(args, status)
	}
	q += " ORDER BY created_at DESC"
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]*model.Payment, 0)
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// ListByUser returns the payments behind a participant's registrations.
func (r *PaymentRepo) ListByUser(ctx context.Context, userID uint64) ([]*model.Payment, error) {
	const q = `SELECT ` + paymentColumns + ` FROM payments
		WHERE registration_id IN (SELECT id FROM registrations WHERE user_id = ?)
		ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]*model.Payment, 0)
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// OwnerUserID returns the participant owning the registration behind a
// payment, so handlers can enforce that participants only touch their own
// payments.
func (r *PaymentRepo) OwnerUserID(ctx context.Context, paymentID uint64) (uint64, error) {
	const q = `SELECT r.user_id FROM payments p JOIN registrations r ON r.id = p.registration_id WHERE p.id = ?`
	var userID uint64
	err := r.db.QueryRowContext(ctx, q, paymentID).Scan(&userID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrPaymentNotFound
	}
	return userID, err
}

// InstallmentContext carries the program plan fields needed by the
// installment projection alongside the payment's settled amount.
type InstallmentContext struct {
	Plan         string
	TrainingCost int64
	AmountPaid   int64
}

// GetInstallmentContext joins a payment to its program's installment
// descriptor for the read-only plan projection.
func (r *PaymentRepo) GetInstallmentContext(ctx context.Context, paymentID uint64) (*InstallmentContext, error) {
	const q = `SELECT prog.installment_plan, prog.training_cost, p.amount_paid
		FROM payments p
		JOIN registrations r ON r.id = p.registration_id
		JOIN programs prog ON prog.id = r.program_id
		WHERE p.id = ?`
	var ic InstallmentContext
	err := r.db.QueryRowContext(ctx, q, paymentID).Scan(&ic.Plan, &ic.TrainingCost, &ic.AmountPaid)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPaymentNotFound
	}
	if err != nil {
		return nil, err
	}
	return &ic, nil
}

// ReceiptData is everything the external document renderer needs to produce
// a receipt for a settled payment.
type ReceiptData struct {
	ReceiptNumber   string     `json:"receipt_number"`
	InvoiceNumber   string     `json:"invoice_number"`
	RegistrationID  uint64     `json:"registration_id"`
	RegistrationRef string     `json:"registration_code"`
	ParticipantName string     `json:"participant_name"`
	ProgramName     string     `json:"program_name"`
	Amount          int64      `json:"amount"`
	AmountPaid      int64      `json:"amount_paid"`
	PaymentDate     *time.Time `json:"payment_date"`
	VerifiedAt      *time.Time `json:"verified_at"`
}

// GetReceiptData loads the joined receipt view for one payment.  Payments
// without a receipt number yield ErrConflict: nothing has been settled yet,
// so there is no receipt to render.
func (r *PaymentRepo) GetReceiptData(ctx context.Context, paymentID uint64) (*ReceiptData, error) {
	const q = `SELECT p.receipt_number, p.invoice_number, r.id, r.code, u.full_name, prog.name,
			p.amount, p.amount_paid, p.payment_date, p.verified_at
		FROM payments p
		JOIN registrations r ON r.id = p.registration_id
		JOIN users u ON u.id = r.user_id
		JOIN programs prog ON prog.id = r.program_id
		WHERE p.id = ?`
	var d ReceiptData
	var receipt sql.NullString
	var payDate, verifiedAt sql.NullTime
	err := r.db.QueryRowContext(ctx, q, paymentID).Scan(
		&receipt, &d.InvoiceNumber, &d.RegistrationID, &d.RegistrationRef, &d.ParticipantName, &d.ProgramName,
		&d.Amount, &d.AmountPaid, &payDate, &verifiedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPaymentNotFound
	}
	if err != nil {
		return nil, err
	}
	if !receipt.Valid || strings.TrimSpace(receipt.String) == "" {
		return nil, ErrConflict
	}
	d.ReceiptNumber = receipt.String
	if payDate.Valid {
		t := payDate.Time
		d.PaymentDate = &t
	}
	if verifiedAt.Valid {
		t := verifiedAt.Time
		d.VerifiedAt = &t
	}
	return &d, nil
}
