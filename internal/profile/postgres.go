// Package profile loads stored applicant records used to prefill an
// application.
package profile

import (
	"context"
	"database/sql"
	stderrors "errors"
	"fmt"
	"time"

	"loan-origination/internal/common/errors"
	"loan-origination/internal/common/logger"
	"loan-origination/internal/models"
)

// ErrProfileNotFound is returned when the applicant has no stored profile.
var ErrProfileNotFound = stderrors.New("PROFILE_NOT_FOUND")

const profileQuery = `
	SELECT applicant_id, first_name, COALESCE(middle_name, ''), last_name,
	       email, mobile, COALESCE(to_char(date_of_birth, 'YYYY-MM-DD'), ''),
	       COALESCE(gender, ''), COALESCE(pan_number, ''),
	       COALESCE(address, ''), COALESCE(city, ''), COALESCE(state, ''), COALESCE(pincode, '')
	FROM applicants
	WHERE applicant_id = $1`

type PostgresLoader struct {
	db      *sql.DB
	timeout time.Duration
	logger  logger.Logger
}

func NewPostgresLoader(db *sql.DB, timeout time.Duration, log logger.Logger) *PostgresLoader {
	return &PostgresLoader{
		db:      db,
		timeout: timeout,
		logger:  log.WithFields(map[string]interface{}{"component": "profile"}),
	}
}

func (l *PostgresLoader) LoadProfile(ctx context.Context, applicantID string) (*models.Profile, error) {
	if l.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.timeout)
		defer cancel()
	}

	start := time.Now()
	var p models.Profile
	err := l.db.QueryRowContext(ctx, profileQuery, applicantID).Scan(
		&p.ApplicantID, &p.FirstName, &p.MiddleName, &p.LastName,
		&p.Email, &p.Mobile, &p.DateOfBirth,
		&p.Gender, &p.PAN,
		&p.Address, &p.City, &p.State, &p.Pincode,
	)
	switch {
	case stderrors.Is(err, sql.ErrNoRows):
		return nil, fmt.Errorf("%w: %s", ErrProfileNotFound, applicantID)
	case ctx.Err() == context.DeadlineExceeded:
		return nil, errors.NewQueryTimeoutError("applicant-profile")
	case err != nil:
		return nil, errors.NewProfileLoadFailedError(applicantID, err)
	}

	l.logger.Debug("profile loaded", map[string]interface{}{
		"applicantId": applicantID,
		"durationMs":  time.Since(start).Milliseconds(),
	})
	return &p, nil
}
