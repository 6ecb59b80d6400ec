// Package workflow owns an in-progress loan application: its step pointer,
// the per-step validation gates, draft persistence and submission.
package workflow

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	apperrors "loan-origination/internal/common/errors"
	"loan-origination/internal/common/logger"
	"loan-origination/internal/documents"
	"loan-origination/internal/drafts"
	"loan-origination/internal/models"

	"github.com/google/uuid"
)

type Submitter interface {
	Submit(ctx context.Context, app models.LoanApplication) (*models.SubmissionReceipt, error)
}

type ProfileLoader interface {
	LoadProfile(ctx context.Context, applicantID string) (*models.Profile, error)
}

// DraftStore is the part of drafts.Store the workflow needs.
type DraftStore interface {
	Save(ctx context.Context, applicantID string, snap models.DraftSnapshot) (string, error)
	Load(ctx context.Context, id string) (*models.Draft, error)
	Delete(ctx context.Context, id string) error
	Latest(ctx context.Context, applicantID string) (*models.Draft, error)
}

// Workflow is safe for concurrent use. Observers are called without the
// aggregate lock held, so they may read the workflow back.
type Workflow struct {
	drafts    DraftStore
	submitter Submitter
	profiles  ProfileLoader
	rules     Rules
	logger    logger.Logger
	now       func() time.Time
	newID     func() string

	mu           sync.RWMutex
	app          *models.LoanApplication
	draftID      string
	requiredDocs []models.DocumentRequirement
	review       *models.LoanApplication
	submitting   bool
	pending      bool

	saving atomic.Bool
	// saveMu orders every draft write and delete; writes snapshot the
	// aggregate only once they hold it.
	saveMu sync.Mutex

	subMu       sync.Mutex
	subscribers map[int]func(Event)
	nextSubID   int
}

// New builds a workflow. profiles may be nil when prefill is not offered.
func New(store DraftStore, submitter Submitter, profiles ProfileLoader, rules Rules, log logger.Logger) *Workflow {
	return &Workflow{
		drafts:      store,
		submitter:   submitter,
		profiles:    profiles,
		rules:       rules,
		logger:      log.WithFields(map[string]interface{}{"component": "workflow"}),
		now:         func() time.Time { return time.Now().UTC() },
		newID:       uuid.NewString,
		subscribers: make(map[int]func(Event)),
	}
}

// Initialize starts a fresh application with the product defaults.
func (w *Workflow) Initialize(ctx context.Context, applicantID string, loanType models.LoanType) error {
	if applicantID == "" {
		return apperrors.NewValidationFailedError("Applicant id is required to start an application", "")
	}
	if loanType != "" && !loanType.Valid() {
		return apperrors.NewValidationFailedError(fmt.Sprintf("Loan type %q is not offered", loanType), string(loanType))
	}

	w.mu.Lock()
	if w.app != nil {
		w.mu.Unlock()
		return apperrors.ErrAlreadyInitialized
	}

	now := w.now()
	w.app = &models.LoanApplication{
		ApplicationID: w.newID(),
		ApplicantID:   applicantID,
		BasicDetails: models.BasicDetails{
			LoanType: loanType,
			Tenure:   defaultTenureMonths,
		},
		FinancialDetails: models.FinancialDetails{
			EmploymentType: models.EmploymentSalaried,
			AccountType:    models.AccountSavings,
		},
		Documents:     []models.DocumentUpload{},
		CurrentStep:   models.StepBasicDetails,
		Status:        models.StatusDraft,
		LastUpdatedAt: now,
	}
	w.draftID = ""
	w.requiredDocs = nil
	w.review = nil
	w.pending = false
	snap := w.app.Clone()
	w.mu.Unlock()

	w.logger.Info("application initialized", map[string]interface{}{
		"applicationId": snap.ApplicationID,
		"applicantId":   applicantID,
		"loanType":      loanType,
	})
	w.emit(Event{Type: EventInitialized, Step: snap.CurrentStep, Application: snap})
	return nil
}

// Reset discards the in-memory application. Its draft is kept so it can be
// resumed later.
func (w *Workflow) Reset() {
	w.mu.Lock()
	w.clear()
	w.mu.Unlock()
	w.emit(Event{Type: EventReset})
}

// Cancel discards the application and deletes its draft.
func (w *Workflow) Cancel(ctx context.Context) error {
	w.mu.Lock()
	if w.app == nil {
		w.mu.Unlock()
		return apperrors.ErrNotInitialized
	}
	id := w.currentDraftID()
	w.clear()
	w.mu.Unlock()

	w.saveMu.Lock()
	err := w.drafts.Delete(ctx, id)
	w.saveMu.Unlock()
	if err != nil && !errors.Is(err, drafts.ErrNotFound) {
		w.logger.Warn("failed to delete cancelled draft", map[string]interface{}{"draftId": id, "error": err.Error()})
	}
	w.emit(Event{Type: EventReset})
	if errors.Is(err, drafts.ErrNotFound) {
		return nil
	}
	return err
}

func (w *Workflow) clear() {
	w.app = nil
	w.draftID = ""
	w.requiredDocs = nil
	w.review = nil
	w.pending = false
}

// currentDraftID must be called with mu held.
func (w *Workflow) currentDraftID() string {
	if w.draftID != "" {
		return w.draftID
	}
	return drafts.IDFor(w.app.ApplicationID)
}

// Resume rebuilds the application from a stored draft.
func (w *Workflow) Resume(ctx context.Context, draftID string) error {
	if w.Active() {
		return apperrors.ErrAlreadyInitialized
	}
	d, err := w.drafts.Load(ctx, draftID)
	if err != nil {
		return draftLoadError(err)
	}
	return w.restore(d)
}

// ResumeLatest rebuilds the application from the applicant's most recent
// draft.
func (w *Workflow) ResumeLatest(ctx context.Context, applicantID string) error {
	if w.Active() {
		return apperrors.ErrAlreadyInitialized
	}
	d, err := w.drafts.Latest(ctx, applicantID)
	if err != nil {
		return draftLoadError(err)
	}
	return w.restore(d)
}

func draftLoadError(err error) error {
	if errors.Is(err, drafts.ErrNotFound) {
		return apperrors.ErrDraftNotFound
	}
	return err
}

func (w *Workflow) restore(d *models.Draft) error {
	app := applicationFromDraft(*d)
	if app.ApplicationID == "" {
		app.ApplicationID = w.newID()
	}

	w.mu.Lock()
	if w.app != nil {
		w.mu.Unlock()
		return apperrors.ErrAlreadyInitialized
	}
	w.app = &app
	w.draftID = d.ID
	w.review = nil
	w.pending = false
	w.requiredDocs = nil
	if app.CurrentStep >= models.StepDocuments {
		w.requiredDocs = documents.RequiredDocuments(app.BasicDetails.LoanType)
	}
	snap := app.Clone()
	w.mu.Unlock()

	w.logger.Info("application resumed", map[string]interface{}{
		"draftId":       d.ID,
		"applicationId": snap.ApplicationID,
		"step":          snap.CurrentStep,
	})
	w.emit(Event{Type: EventResumed, Step: snap.CurrentStep, Application: snap})
	return nil
}

// Active reports whether an application is in progress.
func (w *Workflow) Active() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.app != nil
}

// Application returns a copy of the current application.
func (w *Workflow) Application() (models.LoanApplication, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if w.app == nil {
		return models.LoanApplication{}, false
	}
	return w.app.Clone(), true
}

func (w *Workflow) CurrentStep() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if w.app == nil {
		return 0
	}
	return w.app.CurrentStep
}

// DraftID is the id of the last saved draft, or empty before the first save.
func (w *Workflow) DraftID() string {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.draftID
}

// RequiredDocuments is the document list resolved when the application
// entered the upload step.
func (w *Workflow) RequiredDocuments() []models.DocumentRequirement {
	w.mu.RLock()
	defer w.mu.RUnlock()
	out := make([]models.DocumentRequirement, len(w.requiredDocs))
	copy(out, w.requiredDocs)
	return out
}

// ReviewSnapshot is the copy taken when the application entered the review
// step.
func (w *Workflow) ReviewSnapshot() (models.LoanApplication, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if w.review == nil {
		return models.LoanApplication{}, false
	}
	return w.review.Clone(), true
}

// PendingSubmission reports whether a submission failed and can be retried.
func (w *Workflow) PendingSubmission() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.pending
}

// editable returns the aggregate for mutation. Must be called with mu held.
func (w *Workflow) editable() (*models.LoanApplication, error) {
	if w.app == nil {
		return nil, apperrors.ErrNotInitialized
	}
	if w.app.Status != models.StatusDraft {
		return nil, apperrors.ErrApplicationFrozen
	}
	return w.app, nil
}

func snapshotOf(app models.LoanApplication) models.DraftSnapshot {
	app = app.Clone()
	return models.DraftSnapshot{
		ApplicationID:    app.ApplicationID,
		CurrentStep:      app.CurrentStep,
		BasicDetails:     app.BasicDetails,
		ApplicantDetails: app.ApplicantDetails,
		FinancialDetails: app.FinancialDetails,
		Documents:        app.Documents,
		Declarations:     app.Declarations,
	}
}

func applicationFromDraft(d models.Draft) models.LoanApplication {
	s := d.Snapshot
	step := s.CurrentStep
	if step < models.StepBasicDetails || step > models.TotalSteps {
		step = d.CurrentStep
	}
	if step < models.StepBasicDetails || step > models.TotalSteps {
		step = models.StepBasicDetails
	}
	app := models.LoanApplication{
		ApplicationID:    s.ApplicationID,
		ApplicantID:      d.ApplicantID,
		BasicDetails:     s.BasicDetails,
		ApplicantDetails: s.ApplicantDetails,
		FinancialDetails: s.FinancialDetails,
		Documents:        s.Documents,
		Declarations:     s.Declarations,
		CurrentStep:      step,
		Status:           models.StatusDraft,
		LastUpdatedAt:    d.LastSaved,
	}
	if app.Documents == nil {
		app.Documents = []models.DocumentUpload{}
	}
	return app.Clone()
}
