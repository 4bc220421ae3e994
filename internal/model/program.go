package model

import (
	"encoding/json"
	"time"
)

// ProgramCategory groups programs in the public catalog.
type ProgramCategory struct {
	ID   uint64 `json:"id"`   // program_categories.id
	Name string `json:"name"` // program_categories.name
	Slug string `json:"slug"` // program_categories.slug
}

// Program is an internship offering with bounded capacity.  Amounts are
// rupiah stored as int64; Cost is the legacy flat figure still used for
// billing at registration time, while TrainingCost/DepartureCost carry the
// newer split used by the installment projection.
//
// Several descriptive columns (curriculum, facilities, timeline,
// fee_breakdown, requirements) hold JSON-encoded text in the database.  The
// repository keeps them as raw strings; Detail() decodes them for API
// responses.
type Program struct {
	ID                  uint64        // programs.id
	CategoryID          uint64        // programs.category_id
	Name                string        // programs.name
	Description         string        // programs.description
	Status              ProgramStatus // programs.status
	Capacity            uint32        // programs.capacity
	CurrentParticipants uint32        // programs.current_participants (never exceeds Capacity)
	Cost                int64         // programs.cost (legacy flat amount, IDR)
	TrainingCost        int64         // programs.training_cost
	DepartureCost       int64         // programs.departure_cost
	InstallmentPlan     string        // programs.installment_plan ("none" or "<N>_installments")
	DurationMonths      uint32        // programs.duration_months
	Location            string        // programs.location
	Curriculum          string        // programs.curriculum (JSON text)
	Facilities          string        // programs.facilities (JSON text)
	Timeline            string        // programs.timeline (JSON text)
	FeeBreakdown        string        // programs.fee_breakdown (JSON text)
	Requirements        string        // programs.requirements (JSON text)
	CreatedAt           time.Time     // programs.created_at
	UpdatedAt           time.Time     // programs.updated_at
}

// ProgramDetail is the API shape of a program with the embedded JSON columns
// decoded into structured values.  Columns holding malformed or empty text
// decode to null rather than failing the whole response.
type ProgramDetail struct {
	ID                  uint64          `json:"id"`
	CategoryID          uint64          `json:"category_id"`
	Name                string          `json:"name"`
	Description         string          `json:"description"`
	Status              ProgramStatus   `json:"status"`
	Capacity            uint32          `json:"capacity"`
	CurrentParticipants uint32          `json:"current_participants"`
	Cost                int64           `json:"cost"`
	TrainingCost        int64           `json:"training_cost"`
	DepartureCost       int64           `json:"departure_cost"`
	InstallmentPlan     string          `json:"installment_plan"`
	DurationMonths      uint32          `json:"duration_months"`
	Location            string          `json:"location"`
	Curriculum          json.RawMessage `json:"curriculum"`
	Facilities          json.RawMessage `json:"facilities"`
	Timeline            json.RawMessage `json:"timeline"`
	FeeBreakdown        json.RawMessage `json:"fee_breakdown"`
	Requirements        json.RawMessage `json:"requirements"`
}

// Detail decodes the JSON text columns into a ProgramDetail.
func (p *Program) Detail() ProgramDetail {
	return ProgramDetail{
		ID:                  p.ID,
		CategoryID:          p.CategoryID,
		Name:                p.Name,
		Description:         p.Description,
		Status:              p.Status,
		Capacity:            p.Capacity,
		CurrentParticipants: p.CurrentParticipants,
		Cost:                p.Cost,
		TrainingCost:        p.TrainingCost,
		DepartureCost:       p.DepartureCost,
		InstallmentPlan:     p.InstallmentPlan,
		DurationMonths:      p.DurationMonths,
		Location:            p.Location,
		Curriculum:          decodeJSONColumn(p.Curriculum),
		Facilities:          decodeJSONColumn(p.Facilities),
		Timeline:            decodeJSONColumn(p.Timeline),
		FeeBreakdown:        decodeJSONColumn(p.FeeBreakdown),
		Requirements:        decodeJSONColumn(p.Requirements),
	}
}

// decodeJSONColumn returns the column text as raw JSON when it parses, and
// JSON null otherwise so a single bad column never breaks a response.
func decodeJSONColumn(s string) json.RawMessage {
	if s == "" || !json.Valid([]byte(s)) {
		return json.RawMessage("null")
	}
	return json.RawMessage(s)
}

// HasCapacity reports whether another registration fits.
func (p *Program) HasCapacity() bool {
	return p.CurrentParticipants < p.Capacity
}
