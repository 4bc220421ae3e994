// Package queue defines message payloads exchanged over the message broker.
package queue

// RegistrationCreatedEvent is published after a registration and its
// dependent rows commit.  It carries enough information for downstream
// consumers to log, notify, or trigger analytics without querying the
// primary database.
type RegistrationCreatedEvent struct {
	RegistrationID   uint64 `json:"registration_id"`
	RegistrationCode string `json:"registration_code"`
	UserID           uint64 `json:"user_id"`
	ParticipantName  string `json:"participant_name"`
	ProgramID        uint64 `json:"program_id"`
	ProgramName      string `json:"program_name"`
	InvoiceNumber    string `json:"invoice_number"`
	Amount           int64  `json:"amount"`
	DueDate          string `json:"due_date"`
	CreatedAt        string `json:"created_at"`
}

// PaymentVerifiedEvent is published when an admin moves a payment to paid.
type PaymentVerifiedEvent struct {
	PaymentID      uint64 `json:"payment_id"`
	RegistrationID uint64 `json:"registration_id"`
	InvoiceNumber  string `json:"invoice_number"`
	ReceiptNumber  string `json:"receipt_number"`
	Amount         int64  `json:"amount"`
	AmountPaid     int64  `json:"amount_paid"`
	VerifiedBy     uint64 `json:"verified_by"`
	VerifiedAt     string `json:"verified_at"`
}
