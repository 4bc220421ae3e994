package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/internship-registration/internal/model"
)

const programUpdatePattern = `UPDATE programs SET`

func programRows(capacity, current uint32) *sqlmock.Rows {
	now := time.Now().UTC()
	return sqlmock.NewRows([]string{
		"id", "category_id", "name", "description", "status", "capacity", "current_participants",
		"cost", "training_cost", "departure_cost", "installment_plan", "duration_months", "location",
		"curriculum", "facilities", "timeline", "fee_breakdown", "requirements", "created_at", "updated_at",
	}).AddRow(
		1, 2, "Culinary Internship", "desc", "active", capacity, current,
		12_000_000, 9_000_000, 3_000_000, "3_installments", 6, "Osaka",
		"[]", "[]", "[]", "{}", "[]", now, now,
	)
}

func updatedProgram(capacity uint32) *model.Program {
	return &model.Program{
		ID:              1,
		CategoryID:      2,
		Name:            "Culinary Internship",
		Status:          model.ProgramActive,
		Capacity:        capacity,
		Cost:            12_000_000,
		InstallmentPlan: "3_installments",
	}
}

func TestProgramUpdateBindsNewCapacityInGuard(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	p := updatedProgram(40)
	// The guard must compare current_participants against the incoming
	// capacity value, so it appears a second time after the id.
	mock.ExpectExec(programUpdatePattern).
		WithArgs(
			p.CategoryID, p.Name, p.Description, "active", p.Capacity,
			p.Cost, p.TrainingCost, p.DepartureCost, p.InstallmentPlan, p.DurationMonths, p.Location,
			p.Curriculum, p.Facilities, p.Timeline, p.FeeBreakdown, p.Requirements,
			p.ID, p.Capacity,
		).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, NewProgramRepo(db).Update(context.Background(), p))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProgramUpdateRefusesCapacityBelowParticipants(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	// Capacity 10 against 25 participants: the guard matches no row even
	// though the program exists, so the update reports a conflict.
	p := updatedProgram(10)
	mock.ExpectExec(programUpdatePattern).
		WithArgs(
			p.CategoryID, p.Name, p.Description, "active", p.Capacity,
			p.Cost, p.TrainingCost, p.DepartureCost, p.InstallmentPlan, p.DurationMonths, p.Location,
			p.Curriculum, p.Facilities, p.Timeline, p.FeeBreakdown, p.Requirements,
			p.ID, p.Capacity,
		).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("FROM programs WHERE id").
		WithArgs(p.ID).
		WillReturnRows(programRows(30, 25))

	err = NewProgramRepo(db).Update(context.Background(), p)
	assert.ErrorIs(t, err, ErrConflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProgramUpdateMissingRow(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	p := updatedProgram(40)
	mock.ExpectExec(programUpdatePattern).
		WithArgs(
			p.CategoryID, p.Name, p.Description, "active", p.Capacity,
			p.Cost, p.TrainingCost, p.DepartureCost, p.InstallmentPlan, p.DurationMonths, p.Location,
			p.Curriculum, p.Facilities, p.Timeline, p.FeeBreakdown, p.Requirements,
			p.ID, p.Capacity,
		).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("FROM programs WHERE id").
		WithArgs(p.ID).
		WillReturnError(sql.ErrNoRows)

	err = NewProgramRepo(db).Update(context.Background(), p)
	assert.ErrorIs(t, err, ErrProgramNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
