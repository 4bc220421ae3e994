package model

import "time"

// PlacementStatus records the company-matching outcome for a registration,
// kept 1:1 with it.  Company fields stay empty until a match is made.
type PlacementStatus struct {
	ID              uint64         `json:"id"`               // placement_status.id
	RegistrationID  uint64         `json:"registration_id"`  // placement_status.registration_id (unique)
	Status          PlacementStage `json:"status"`           // placement_status.status
	CompanyName     string         `json:"company_name"`     // placement_status.company_name
	Position        string         `json:"position"`         // placement_status.position
	Department      string         `json:"department"`       // placement_status.department
	PlacementDate   *time.Time     `json:"placement_date"`   // placement_status.placement_date (nullable)
	SupervisorName  string         `json:"supervisor_name"`  // placement_status.supervisor_name
	SupervisorPhone string         `json:"supervisor_phone"` // placement_status.supervisor_phone
	Notes           string         `json:"notes"`            // placement_status.notes
	CreatedAt       time.Time      `json:"created_at"`       // placement_status.created_at
	UpdatedAt       time.Time      `json:"updated_at"`       // placement_status.updated_at
}
