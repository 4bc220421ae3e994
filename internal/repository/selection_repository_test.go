package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/internship-registration/internal/model"
)

func evaluatedSelection(registrationID uint64) *model.SelectionStatus {
	test, interview, final := 80.0, 90.0, 85.0
	admin := uint64(3)
	at := time.Now().UTC()
	return &model.SelectionStatus{
		RegistrationID: registrationID,
		Status:         model.SelectionPassed,
		TestScore:      &test,
		InterviewScore: &interview,
		FinalScore:     &final,
		Notes:          "strong candidate",
		EvaluatedBy:    &admin,
		EvaluatedAt:    &at,
	}
}

func TestSelectionUpdateTx(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE selection_status SET").
		WillReturnResult(sqlmock.NewResult(0, 1))

	tx, err := db.Begin()
	require.NoError(t, err)
	require.NoError(t, NewSelectionRepo(db).UpdateTx(context.Background(), tx, evaluatedSelection(11)))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSelectionUpdateTxMissingRow(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE selection_status SET").
		WillReturnResult(sqlmock.NewResult(0, 0))

	tx, err := db.Begin()
	require.NoError(t, err)
	err = NewSelectionRepo(db).UpdateTx(context.Background(), tx, evaluatedSelection(404))
	assert.ErrorIs(t, err, ErrSelectionNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
