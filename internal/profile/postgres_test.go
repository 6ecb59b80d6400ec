package profile

import (
	"context"
	"errors"
	"testing"
	"time"

	apperrors "loan-origination/internal/common/errors"
	"loan-origination/internal/common/logger"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

var profileColumns = []string{
	"applicant_id", "first_name", "middle_name", "last_name",
	"email", "mobile", "date_of_birth", "gender", "pan_number",
	"address", "city", "state", "pincode",
}

func newLoader(t *testing.T) (*PostgresLoader, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewPostgresLoader(db, time.Second, logger.NewZapAdapter(zaptest.NewLogger(t))), mock
}

func TestLoadProfile_Success(t *testing.T) {
	loader, mock := newLoader(t)

	mock.ExpectQuery("SELECT applicant_id, first_name").
		WithArgs("applicant-42").
		WillReturnRows(sqlmock.NewRows(profileColumns).AddRow(
			"applicant-42", "Asha", "", "Rao",
			"asha.rao@example.in", "9876543210", "1990-05-14", "FEMALE", "ABCDE1234F",
			"42, 3rd Cross, Indiranagar", "Bengaluru", "Karnataka", "560038",
		))

	p, err := loader.LoadProfile(context.Background(), "applicant-42")
	require.NoError(t, err)
	assert.Equal(t, "Asha", p.FirstName)
	assert.Equal(t, "Rao", p.LastName)
	assert.Equal(t, "ABCDE1234F", p.PAN)
	assert.Equal(t, "560038", p.Pincode)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLoadProfile_NotFound(t *testing.T) {
	loader, mock := newLoader(t)
	mock.ExpectQuery("SELECT applicant_id").WithArgs("nobody").WillReturnRows(sqlmock.NewRows(profileColumns))

	_, err := loader.LoadProfile(context.Background(), "nobody")
	assert.ErrorIs(t, err, ErrProfileNotFound)
}

func TestLoadProfile_QueryError(t *testing.T) {
	loader, mock := newLoader(t)
	mock.ExpectQuery("SELECT applicant_id").WithArgs("applicant-42").WillReturnError(errors.New("connection reset"))

	_, err := loader.LoadProfile(context.Background(), "applicant-42")

	var std *apperrors.StandardError
	require.True(t, errors.As(err, &std))
	assert.Equal(t, apperrors.ErrCodeProfileLoadFailed, std.Code)
	assert.True(t, std.Retryable)
}

func TestLoadProfile_Timeout(t *testing.T) {
	loader, mock := newLoader(t)
	loader.timeout = 10 * time.Millisecond
	mock.ExpectQuery("SELECT applicant_id").
		WithArgs("applicant-42").
		WillDelayFor(100 * time.Millisecond).
		WillReturnRows(sqlmock.NewRows(profileColumns))

	_, err := loader.LoadProfile(context.Background(), "applicant-42")

	var std *apperrors.StandardError
	require.True(t, errors.As(err, &std))
	assert.Equal(t, apperrors.ErrCodeQueryTimeout, std.Code)
}
