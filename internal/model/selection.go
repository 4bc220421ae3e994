package model

import "time"

// SelectionStatus is the evaluation record kept 1:1 with a registration.
// Scores are 0–100; FinalScore is either supplied by the evaluator or
// derived as the mean of the two component scores.
type SelectionStatus struct {
	ID             uint64         `json:"id"`              // selection_status.id
	RegistrationID uint64         `json:"registration_id"` // selection_status.registration_id (unique)
	Status         SelectionStage `json:"status"`          // selection_status.status
	TestScore      *float64       `json:"test_score"`      // selection_status.test_score (nullable)
	InterviewScore *float64       `json:"interview_score"` // selection_status.interview_score (nullable)
	FinalScore     *float64       `json:"final_score"`     // selection_status.final_score (nullable)
	Notes          string         `json:"notes"`           // selection_status.notes
	EvaluatedBy    *uint64        `json:"evaluated_by"`    // selection_status.evaluated_by (nullable)
	EvaluatedAt    *time.Time     `json:"evaluated_at"`    // selection_status.evaluated_at (nullable)
	CreatedAt      time.Time      `json:"created_at"`      // selection_status.created_at
	UpdatedAt      time.Time      `json:"updated_at"`      // selection_status.updated_at
}

// DeriveFinalScore returns the score to persist: the explicit value when the
// evaluator supplied one, otherwise the arithmetic mean of test and interview
// scores when both are present, otherwise nil.
func DeriveFinalScore(testScore, interviewScore, explicit *float64) *float64 {
	if explicit != nil {
		return explicit
	}
	if testScore != nil && interviewScore != nil {
		mean := (*testScore + *interviewScore) / 2
		return &mean
	}
	return nil
}
