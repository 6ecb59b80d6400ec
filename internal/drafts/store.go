// internal/drafts/store.go
package drafts

import (
	"context"
	"errors"
	"fmt"
	"time"

	"loan-origination/internal/common/logger"
	"loan-origination/internal/models"

	"github.com/google/uuid"
)

const (
	DefaultMaxPerApplicant = 10
	idPrefix               = "draft_"
)

type Options struct {
	// MaxPerApplicant bounds how many drafts are retained; oldest go first.
	MaxPerApplicant int
	// IncludeApplicantDetails adds applicant fields to the completion ratio.
	IncludeApplicantDetails bool
}

// Store layers naming, scoring and retention over a Repository.
type Store struct {
	repo   Repository
	opts   Options
	logger logger.Logger
	now    func() time.Time
}

func NewStore(repo Repository, opts Options, log logger.Logger) *Store {
	if opts.MaxPerApplicant <= 0 {
		opts.MaxPerApplicant = DefaultMaxPerApplicant
	}
	return &Store{
		repo:   repo,
		opts:   opts,
		logger: log.WithFields(map[string]interface{}{"component": "draft-store"}),
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// IDFor derives the draft id of an application, so repeated saves of the
// same application overwrite one draft.
func IDFor(applicationID string) string {
	if applicationID == "" {
		return idPrefix + uuid.NewString()
	}
	return idPrefix + applicationID
}

// Save writes the snapshot and returns the draft id. Saving an existing id
// keeps its CreatedAt.
func (s *Store) Save(ctx context.Context, applicantID string, snap models.DraftSnapshot) (string, error) {
	if applicantID == "" {
		return "", fmt.Errorf("applicant id is required to save a draft")
	}

	id := IDFor(snap.ApplicationID)
	now := s.now()
	createdAt := now
	if existing, err := s.repo.Get(ctx, id); err == nil {
		createdAt = existing.CreatedAt
	} else if !errors.Is(err, ErrNotFound) {
		return "", err
	}

	step := snap.CurrentStep
	if step < 1 {
		step = 1
	}
	draft := models.Draft{
		ID:                   id,
		ApplicantID:          applicantID,
		CurrentStep:          step,
		TotalSteps:           models.TotalSteps,
		CompletionPercentage: Completion(snap, s.opts.IncludeApplicantDetails),
		LoanType:             snap.BasicDetails.LoanType,
		Title:                Title(snap.BasicDetails.LoanType),
		Description:          Description(step),
		Snapshot:             snap,
		CreatedAt:            createdAt,
		LastSaved:            now,
	}

	if err := s.repo.Put(ctx, draft); err != nil {
		return "", err
	}
	s.logger.Debug("draft saved", map[string]interface{}{
		"draftId":    id,
		"step":       step,
		"completion": draft.CompletionPercentage,
	})

	s.enforceRetention(ctx, applicantID)
	return id, nil
}

func (s *Store) Load(ctx context.Context, id string) (*models.Draft, error) {
	return s.repo.Get(ctx, id)
}

func (s *Store) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

func (s *Store) ListByApplicant(ctx context.Context, applicantID string) ([]models.Draft, error) {
	return s.repo.ListByApplicant(ctx, applicantID)
}

// Latest returns the most recently saved draft of an applicant.
func (s *Store) Latest(ctx context.Context, applicantID string) (*models.Draft, error) {
	list, err := s.repo.ListByApplicant(ctx, applicantID)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, ErrNotFound
	}
	return &list[0], nil
}

func (s *Store) enforceRetention(ctx context.Context, applicantID string) {
	list, err := s.repo.ListByApplicant(ctx, applicantID)
	if err != nil {
		s.logger.Warn("draft retention check failed", map[string]interface{}{"error": err.Error()})
		return
	}
	for _, d := range list[min(len(list), s.opts.MaxPerApplicant):] {
		if err := s.repo.Delete(ctx, d.ID); err != nil {
			s.logger.Warn("failed to trim old draft", map[string]interface{}{
				"draftId": d.ID,
				"error":   err.Error(),
			})
		}
	}
}

// Title names a draft after its loan product.
func Title(loanType models.LoanType) string {
	if loanType == "" {
		return "Loan Application Draft"
	}
	return loanType.Label() + " Application"
}

// Description tells where the applicant stopped.
func Description(step int) string {
	return fmt.Sprintf("Stopped at %s (Step %d of %d)", models.StepName(step), step, models.TotalSteps)
}

// SinceSaved renders how long ago a draft was saved, e.g. "5 minutes ago".
func SinceSaved(d models.Draft, now time.Time) string {
	diff := now.Sub(d.LastSaved)
	mins := int(diff.Minutes())
	hours := mins / 60
	days := hours / 24

	plural := func(n int, unit string) string {
		if n > 1 {
			return fmt.Sprintf("%d %ss ago", n, unit)
		}
		return fmt.Sprintf("%d %s ago", n, unit)
	}
	switch {
	case days > 0:
		return plural(days, "day")
	case hours > 0:
		return plural(hours, "hour")
	case mins > 0:
		return plural(mins, "minute")
	}
	return "Just now"
}
