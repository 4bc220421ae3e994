package repository

import (
	"context"
	"database/sql"
	"time"
)

// ReportRepo serves the read-only financial aggregates behind admin
// reporting.  Rendering to PDF/Excel happens outside this service; these
// queries only shape the data.
type ReportRepo struct {
	db *sql.DB
}

func NewReportRepo(db *sql.DB) *ReportRepo { return &ReportRepo{db: db} }

// FinancialSummary aggregates the payments table into totals, per-status
// counts and a per-program rollup.
type FinancialSummary struct {
	TotalBilled      int64            `json:"total_billed"`
	TotalPaid        int64            `json:"total_paid"`
	TotalOutstanding int64            `json:"total_outstanding"`
	CountByStatus    map[string]int64 `json:"count_by_status"`
	Programs         []ProgramRollup  `json:"programs"`
}

// ProgramRollup is the financial position of one program.
type ProgramRollup struct {
	ProgramID     uint64 `json:"program_id"`
	ProgramName   string `json:"program_name"`
	Registrations int64  `json:"registrations"`
	Billed        int64  `json:"billed"`
	Paid          int64  `json:"paid"`
}

// Financial builds the summary in three aggregate queries.
func (r *ReportRepo) Financial(ctx context.Context) (*FinancialSummary, error) {
	sum := &FinancialSummary{CountByStatus: map[string]int64{}, Programs: []ProgramRollup{}}

	const totalsQ = `SELECT COALESCE(SUM(amount),0), COALESCE(SUM(amount_paid),0) FROM payments`
	if err := r.db.QueryRowContext(ctx, totalsQ).Scan(&sum.TotalBilled, &sum.TotalPaid); err != nil {
		return nil, err
	}
	sum.TotalOutstanding = sum.TotalBilled - sum.TotalPaid
	if sum.TotalOutstanding < 0 {
		sum.TotalOutstanding = 0
	}

	const statusQ = `SELECT status, COUNT(*) FROM payments GROUP BY status`
	rows, err := r.db.QueryContext(ctx, statusQ)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var status string
		var n int64
		if err := rows.Scan(&status, &n); err != nil {
			return nil, err
		}
		sum.CountByStatus[status] = n
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	const programQ = `SELECT prog.id, prog.name, COUNT(DISTINCT r.id),
			COALESCE(SUM(p.amount),0), COALESCE(SUM(p.amount_paid),0)
		FROM programs prog
		LEFT JOIN registrations r ON r.program_id = prog.id
		LEFT JOIN payments p ON p.registration_id = r.id
		GROUP BY prog.id, prog.name
		ORDER BY prog.id`
	prows, err := r.db.QueryContext(ctx, programQ)
	if err != nil {
		return nil, err
	}
	defer prows.Close()
	for prows.Next() {
		var p ProgramRollup
		if err := prows.Scan(&p.ProgramID, &p.ProgramName, &p.Registrations, &p.Billed, &p.Paid); err != nil {
			return nil, err
		}
		sum.Programs = append(sum.Programs, p)
	}
	return sum, prows.Err()
}

// ExportRow is one flat line of the financial export, shaped for the
// external Excel/PDF renderer.
type ExportRow struct {
	RegistrationCode string     `json:"registration_code"`
	ParticipantName  string     `json:"participant_name"`
	ProgramName      string     `json:"program_name"`
	InvoiceNumber    string     `json:"invoice_number"`
	ReceiptNumber    *string    `json:"receipt_number"`
	Amount           int64      `json:"amount"`
	AmountPaid       int64      `json:"amount_paid"`
	Status           string     `json:"status"`
	DueDate          *time.Time `json:"due_date"`
	PaymentDate      *time.Time `json:"payment_date"`
}

// ExportRows returns every payment joined with its registration, participant
// and program, ordered by registration code for stable exports.
func (r *ReportRepo) ExportRows(ctx context.Context) ([]ExportRow, error) {
	const q = `SELECT reg.code, u.full_name, prog.name,
			p.invoice_number, p.receipt_number, p.amount, p.amount_paid, p.status, p.due_date, p.payment_date
		FROM payments p
		JOIN registrations reg ON reg.id = p.registration_id
		JOIN users u ON u.id = reg.user_id
		JOIN programs prog ON prog.id = reg.program_id
		ORDER BY reg.code, p.id`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]ExportRow, 0)
	for rows.Next() {
		var row ExportRow
		var receipt sql.NullString
		var due, paid sql.NullTime
		if err := rows.Scan(
			&row.RegistrationCode, &row.ParticipantName, &row.ProgramName,
			&row.InvoiceNumber, &receipt, &row.Amount, &row.AmountPaid, &row.Status, &due, &paid,
		); err != nil {
			return nil, err
		}
		if receipt.Valid {
			v := receipt.String
			row.ReceiptNumber = &v
		}
		if due.Valid {
			t := due.Time
			row.DueDate = &t
		}
		if paid.Valid {
			t := paid.Time
			row.PaymentDate = &t
		}
		out = append(out, row)
	}
	return out, rows.Err()
}
