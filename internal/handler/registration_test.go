package handler

import (
	"database/sql"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/internship-registration/internal/repository"
)

func newCreateRegistrationContext(t *testing.T) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/v1/registrations",
		strings.NewReader(`{"program_id":1}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("user_id", uint64(7))
	c.Set("role", "participant")
	return c, rec
}

func TestCreateRegistrationUserLookupOutage(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	// A failing users query is a server fault, not a missing user.
	mock.ExpectQuery("SELECT .+ FROM users WHERE id").
		WithArgs(uint64(7)).
		WillReturnError(errors.New("connection reset"))

	h := &RegistrationHandler{Users: repository.NewUserRepo(db)}
	c, rec := newCreateRegistrationContext(t)

	require.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "load user failed")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateRegistrationUnknownUser(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT .+ FROM users WHERE id").
		WithArgs(uint64(7)).
		WillReturnError(sql.ErrNoRows)

	h := &RegistrationHandler{Users: repository.NewUserRepo(db)}
	c, rec := newCreateRegistrationContext(t)

	require.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "user not found")
	assert.NoError(t, mock.ExpectationsWereMet())
}
