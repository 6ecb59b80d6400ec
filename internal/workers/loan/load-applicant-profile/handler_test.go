// internal/workers/loan/load-applicant-profile/handler_test.go
package loadapplicantprofile

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	apperrors "loan-origination/internal/common/errors"
	"loan-origination/internal/common/logger"
	"loan-origination/internal/models"
	"loan-origination/internal/profile"
)

// ==========================
// Test Helper Functions
// ==========================

var profileColumns = []string{
	"applicant_id", "first_name", "middle_name", "last_name",
	"email", "mobile", "date_of_birth", "gender", "pan_number",
	"address", "city", "state", "pincode",
}

func createTestHandler(t *testing.T) (*Handler, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	log := logger.NewZapAdapter(zaptest.NewLogger(t))
	loader := profile.NewPostgresLoader(db, time.Second, log)
	return NewHandler(&Config{Timeout: time.Second}, loader, log), mock
}

func profileRow() *sqlmock.Rows {
	return sqlmock.NewRows(profileColumns).AddRow(
		"applicant-42", "Asha", "", "Rao",
		"asha.rao@example.in", "9876543210", "1990-05-14", "FEMALE", "ABCDE1234F",
		"42, 3rd Cross, Indiranagar", "Bengaluru", "Karnataka", "560038",
	)
}

// ==========================
// Execute
// ==========================

func TestExecute_PrefillsEmptyDetails(t *testing.T) {
	h, mock := createTestHandler(t)
	mock.ExpectQuery("SELECT applicant_id").WithArgs("applicant-42").WillReturnRows(profileRow())

	out, err := h.Execute(context.Background(), &Input{ApplicantID: "applicant-42"})

	require.NoError(t, err)
	assert.True(t, out.ProfileFound)
	require.NotNil(t, out.ApplicantDetails)
	assert.Equal(t, "Asha", out.ApplicantDetails.FirstName)
	assert.Equal(t, "Bengaluru", out.ApplicantDetails.CurrentCity)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExecute_TypedValuesWin(t *testing.T) {
	h, mock := createTestHandler(t)
	mock.ExpectQuery("SELECT applicant_id").WithArgs("applicant-42").WillReturnRows(profileRow())

	out, err := h.Execute(context.Background(), &Input{
		ApplicantID: "applicant-42",
		ApplicantDetails: &models.ApplicantDetails{
			Email:                "asha@work.example",
			PermanentAddressSame: true,
		},
	})

	require.NoError(t, err)
	assert.Equal(t, "asha@work.example", out.ApplicantDetails.Email)
	assert.Equal(t, "Rao", out.ApplicantDetails.LastName)
	assert.Equal(t, "560038", out.ApplicantDetails.PermanentPincode)
}

func TestExecute_NoStoredProfile(t *testing.T) {
	h, mock := createTestHandler(t)
	mock.ExpectQuery("SELECT applicant_id").WithArgs("nobody").WillReturnRows(sqlmock.NewRows(profileColumns))

	out, err := h.Execute(context.Background(), &Input{ApplicantID: "nobody"})

	require.NoError(t, err)
	assert.False(t, out.ProfileFound)
	assert.Nil(t, out.ApplicantDetails)
}

func TestExecute_DatabaseError(t *testing.T) {
	h, mock := createTestHandler(t)
	mock.ExpectQuery("SELECT applicant_id").WithArgs("applicant-42").WillReturnError(errors.New("connection refused"))

	out, err := h.Execute(context.Background(), &Input{ApplicantID: "applicant-42"})

	assert.Nil(t, out)
	std := apperrors.Normalize(err)
	assert.Equal(t, apperrors.ErrCodeProfileLoadFailed, std.Code)
	assert.Equal(t, 3, apperrors.GetRetryCount(std.Code))
}

func TestInputSchema(t *testing.T) {
	tests := []struct {
		name  string
		input string
		valid bool
	}{
		{"applicant only", `{"applicantId":"applicant-42"}`, true},
		{"with details", `{"applicantId":"applicant-42","applicantDetails":{"firstName":"Asha"}}`, true},
		{"empty id", `{"applicantId":""}`, false},
		{"missing id", `{}`, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := inputSchema.ValidateJSON(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.valid, res.Valid)
		})
	}
}
