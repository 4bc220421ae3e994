// Package model defines the persisted domain records and the closed status
// sets that drive the registration lifecycle.  Every status column in the
// schema is validated against the sets below; handlers never compare raw
// strings.  The cascade from selection outcome onto the parent registration
// lives here as well so the rule is encoded exactly once.
package model

// RegistrationStatus tracks a registration through review.
type RegistrationStatus string

const (
	RegistrationPending     RegistrationStatus = "pending"
	RegistrationUnderReview RegistrationStatus = "under_review"
	RegistrationAccepted    RegistrationStatus = "accepted"
	RegistrationRejected    RegistrationStatus = "rejected"
)

// ParseRegistrationStatus validates s against the closed registration set.
func ParseRegistrationStatus(s string) (RegistrationStatus, bool) {
	switch RegistrationStatus(s) {
	case RegistrationPending, RegistrationUnderReview, RegistrationAccepted, RegistrationRejected:
		return RegistrationStatus(s), true
	}
	return "", false
}

// PaymentStatus tracks a payment from billing to settlement, including the
// six-step installment scheme.
type PaymentStatus string

const (
	PaymentPending      PaymentStatus = "pending"
	PaymentInstallment1 PaymentStatus = "installment_1"
	PaymentInstallment2 PaymentStatus = "installment_2"
	PaymentInstallment3 PaymentStatus = "installment_3"
	PaymentInstallment4 PaymentStatus = "installment_4"
	PaymentInstallment5 PaymentStatus = "installment_5"
	PaymentInstallment6 PaymentStatus = "installment_6"
	PaymentPaid         PaymentStatus = "paid"
	PaymentOverdue      PaymentStatus = "overdue"
	PaymentCancelled    PaymentStatus = "cancelled"
)

var paymentStatuses = map[PaymentStatus]bool{
	PaymentPending:      true,
	PaymentInstallment1: true,
	PaymentInstallment2: true,
	PaymentInstallment3: true,
	PaymentInstallment4: true,
	PaymentInstallment5: true,
	PaymentInstallment6: true,
	PaymentPaid:         true,
	PaymentOverdue:      true,
	PaymentCancelled:    true,
}

// ParsePaymentStatus validates s against the closed payment set.
func ParsePaymentStatus(s string) (PaymentStatus, bool) {
	ps := PaymentStatus(s)
	return ps, paymentStatuses[ps]
}

// IsInstallment reports whether the status is one of installment_1..6.
func (s PaymentStatus) IsInstallment() bool {
	switch s {
	case PaymentInstallment1, PaymentInstallment2, PaymentInstallment3,
		PaymentInstallment4, PaymentInstallment5, PaymentInstallment6:
		return true
	}
	return false
}

// DeriveManualPaymentStatus picks the status for a manual payment when the
// caller did not supply one: fully covered amounts are paid, partial amounts
// open the installment scheme, everything else is a plain pending bill.
// Partial payments always map to installment_1 irrespective of how many
// installments were already recorded for the registration; the numbering is
// not derived from history.
func DeriveManualPaymentStatus(amount, amountPaid int64) PaymentStatus {
	switch {
	case amountPaid >= amount && amount > 0:
		return PaymentPaid
	case amountPaid > 0:
		return PaymentInstallment1
	default:
		return PaymentPending
	}
}

// SelectionStage tracks a candidate through evaluation.  The stage names are
// kept in Indonesian as they appear in the schema and in admin tooling.
type SelectionStage string

const (
	SelectionWaiting SelectionStage = "menunggu"
	SelectionStage1  SelectionStage = "lolos_tahap_1"
	SelectionStage2  SelectionStage = "lolos_tahap_2"
	SelectionPassed  SelectionStage = "lolos"
	SelectionFailed  SelectionStage = "tidak_lolos"
)

// ParseSelectionStage validates s against the closed selection set.
func ParseSelectionStage(s string) (SelectionStage, bool) {
	switch SelectionStage(s) {
	case SelectionWaiting, SelectionStage1, SelectionStage2, SelectionPassed, SelectionFailed:
		return SelectionStage(s), true
	}
	return "", false
}

// RegistrationStatus maps a selection outcome onto the parent registration:
// a final pass accepts, a final fail rejects, every intermediate stage keeps
// the registration under review.
func (s SelectionStage) RegistrationStatus() RegistrationStatus {
	switch s {
	case SelectionPassed:
		return RegistrationAccepted
	case SelectionFailed:
		return RegistrationRejected
	default:
		return RegistrationUnderReview
	}
}

// PlacementStage tracks the company-matching outcome for an accepted
// candidate.  Placement has no cascade back onto the registration.
type PlacementStage string

const (
	PlacementInProgress PlacementStage = "proses"
	PlacementPassed     PlacementStage = "lolos"
	PlacementPlaced     PlacementStage = "ditempatkan"
	PlacementFailed     PlacementStage = "gagal"
)

// ParsePlacementStage validates s against the closed placement set.
func ParsePlacementStage(s string) (PlacementStage, bool) {
	switch PlacementStage(s) {
	case PlacementInProgress, PlacementPassed, PlacementPlaced, PlacementFailed:
		return PlacementStage(s), true
	}
	return "", false
}

// ProgramStatus marks whether a program accepts new registrations.
type ProgramStatus string

const (
	ProgramActive   ProgramStatus = "active"
	ProgramInactive ProgramStatus = "inactive"
	ProgramArchived ProgramStatus = "archived"
)

// ParseProgramStatus validates s against the closed program set.
func ParseProgramStatus(s string) (ProgramStatus, bool) {
	switch ProgramStatus(s) {
	case ProgramActive, ProgramInactive, ProgramArchived:
		return ProgramStatus(s), true
	}
	return "", false
}

// User roles.  A role is assigned at signup and never changes.
const (
	RoleParticipant = "participant"
	RoleAdmin       = "admin"
)
