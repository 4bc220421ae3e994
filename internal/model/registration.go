package model

import "time"

// Registration links one user to one program.  At most one registration may
// exist per (user, program) pair.  A registration is created together with
// exactly one payment, one selection row and one placement row; those three
// are keyed by registration_id and unique per registration.
type Registration struct {
	ID                  uint64             `json:"id"`                   // registrations.id
	Code                string             `json:"code"`                 // registrations.code (REG-xxxxxx-xxx, unique)
	UserID              uint64             `json:"user_id"`              // registrations.user_id
	ProgramID           uint64             `json:"program_id"`           // registrations.program_id
	ApplicationLetter   string             `json:"application_letter"`   // registrations.application_letter
	PlacementPreference string             `json:"placement_preference"` // registrations.placement_preference
	Status              RegistrationStatus `json:"status"`               // registrations.status
	CreatedAt           time.Time          `json:"created_at"`           // registrations.created_at
	UpdatedAt           time.Time          `json:"updated_at"`           // registrations.updated_at
}
