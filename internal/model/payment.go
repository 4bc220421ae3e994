package model

import "time"

// Payment tracks the amount billed against a registration and how much of it
// has been settled.  Amounts are rupiah as int64.  AmountPaid never exceeds
// Amount; CreateManualPayment rejects such requests before any row is
// written.  ReceiptNumber is assigned when the payment reaches paid status or
// when a manual payment records a positive amount, and is kept once assigned.
type Payment struct {
	ID             uint64        `json:"id"`              // payments.id
	RegistrationID uint64        `json:"registration_id"` // payments.registration_id
	InvoiceNumber  string        `json:"invoice_number"`  // payments.invoice_number (unique)
	ReceiptNumber  *string       `json:"receipt_number"`  // payments.receipt_number (unique, nullable)
	Amount         int64         `json:"amount"`          // payments.amount
	AmountPaid     int64         `json:"amount_paid"`     // payments.amount_paid
	Status         PaymentStatus `json:"status"`          // payments.status
	PaymentMethod  string        `json:"payment_method"`  // payments.payment_method
	BankName       string        `json:"bank_name"`       // payments.bank_name
	AccountNumber  string        `json:"account_number"`  // payments.account_number
	ProofFile      *string       `json:"proof_file"`      // payments.proof_file (nullable)
	PaymentDate    *time.Time    `json:"payment_date"`    // payments.payment_date (nullable)
	DueDate        *time.Time    `json:"due_date"`        // payments.due_date (nullable)
	Notes          string        `json:"notes"`           // payments.notes
	VerifiedBy     *uint64       `json:"verified_by"`     // payments.verified_by (nullable, admin user id)
	VerifiedAt     *time.Time    `json:"verified_at"`     // payments.verified_at (nullable)
	CreatedAt      time.Time     `json:"created_at"`      // payments.created_at
	UpdatedAt      time.Time     `json:"updated_at"`      // payments.updated_at
}

// Outstanding returns the unpaid remainder, never negative.
func (p *Payment) Outstanding() int64 {
	if rem := p.Amount - p.AmountPaid; rem > 0 {
		return rem
	}
	return 0
}

// PaymentHistory is one row of the append-only status log.  Rows are only
// ever inserted; one per status-changing mutation, written in the same
// transaction as the payment update itself.
type PaymentHistory struct {
	ID        uint64        `json:"id"`         // payment_history.id
	PaymentID uint64        `json:"payment_id"` // payment_history.payment_id
	OldStatus PaymentStatus `json:"old_status"` // payment_history.old_status
	NewStatus PaymentStatus `json:"new_status"` // payment_history.new_status
	Amount    int64         `json:"amount"`     // payment_history.amount (delta recorded with the change)
	ChangedBy uint64        `json:"changed_by"` // payment_history.changed_by (actor user id)
	Note      string        `json:"note"`       // payment_history.note
	CreatedAt time.Time     `json:"created_at"` // payment_history.created_at
}
