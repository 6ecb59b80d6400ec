package workflow

import (
	"context"
	"errors"

	apperrors "loan-origination/internal/common/errors"
	"loan-origination/internal/common/metrics"
	"loan-origination/internal/drafts"
	"loan-origination/internal/models"
)

// Section names carried on EventSectionUpdated.
const (
	SectionBasicDetails     = "basicDetails"
	SectionApplicantDetails = "applicantDetails"
	SectionFinancialDetails = "financialDetails"
	SectionDeclarations     = "declarations"
)

func (w *Workflow) UpdateBasicDetails(ctx context.Context, details models.BasicDetails) error {
	return w.update(ctx, SectionBasicDetails, func(app *models.LoanApplication) {
		app.BasicDetails = details
	})
}

// UpdateApplicantDetails replaces the applicant section. When the permanent
// address is declared the same, it is copied from the current address.
func (w *Workflow) UpdateApplicantDetails(ctx context.Context, details models.ApplicantDetails) error {
	details.SyncPermanentAddress()
	return w.update(ctx, SectionApplicantDetails, func(app *models.LoanApplication) {
		app.ApplicantDetails = &details
	})
}

func (w *Workflow) UpdateFinancialDetails(ctx context.Context, details models.FinancialDetails) error {
	return w.update(ctx, SectionFinancialDetails, func(app *models.LoanApplication) {
		app.FinancialDetails = details
	})
}

// UpdateDeclarations replaces the consents and stamps the declaration date
// the first time every mandatory consent is given.
func (w *Workflow) UpdateDeclarations(ctx context.Context, decl models.Declarations) error {
	return w.update(ctx, SectionDeclarations, func(app *models.LoanApplication) {
		if decl.DeclarationDate == nil {
			decl.DeclarationDate = app.Declarations.DeclarationDate
		}
		var v violations
		checkDeclarations(&v, decl)
		if decl.DeclarationDate == nil && len(v) == 0 {
			ts := w.now()
			decl.DeclarationDate = &ts
		}
		app.Declarations = decl
	})
}

// update applies fn to the aggregate and persists a draft. A failed draft
// save is reported through an event and does not fail the update.
func (w *Workflow) update(ctx context.Context, section string, fn func(app *models.LoanApplication)) error {
	w.mu.Lock()
	app, err := w.editable()
	if err != nil {
		w.mu.Unlock()
		return err
	}
	fn(app)
	app.LastUpdatedAt = w.now()
	snap := app.Clone()
	w.mu.Unlock()

	w.emit(Event{Type: EventSectionUpdated, Section: section, Step: snap.CurrentStep, Application: snap})
	w.persist(ctx, snap, "change")
	return nil
}

// LoanType returns the selected product.
func (w *Workflow) LoanType() (models.LoanType, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if w.app == nil {
		return "", apperrors.ErrNotInitialized
	}
	return w.app.BasicDetails.LoanType, nil
}

// AddDocument records an upload, replacing any earlier upload of the same
// document type.
func (w *Workflow) AddDocument(doc models.DocumentUpload) error {
	w.mu.Lock()
	app, err := w.editable()
	if err != nil {
		w.mu.Unlock()
		return err
	}

	replaced := false
	for i, d := range app.Documents {
		if d.DocumentType == doc.DocumentType {
			app.Documents[i] = doc
			replaced = true
			break
		}
	}
	if !replaced {
		app.Documents = append(app.Documents, doc)
	}
	app.LastUpdatedAt = w.now()
	snap := app.Clone()
	w.mu.Unlock()

	w.emit(Event{
		Type:        EventDocumentAdded,
		Step:        snap.CurrentStep,
		Application: snap,
		Notice:      &Notice{Severity: SeveritySuccess, Message: doc.FileName + " uploaded"},
	})
	return nil
}

// RemoveDocument deletes every upload with the given file name and reports
// whether one was found.
func (w *Workflow) RemoveDocument(fileName string) (bool, error) {
	w.mu.Lock()
	app, err := w.editable()
	if err != nil {
		w.mu.Unlock()
		return false, err
	}

	kept := app.Documents[:0]
	for _, d := range app.Documents {
		if d.FileName != fileName {
			kept = append(kept, d)
		}
	}
	removed := len(kept) != len(app.Documents)
	app.Documents = kept
	if removed {
		app.LastUpdatedAt = w.now()
	}
	snap := app.Clone()
	w.mu.Unlock()

	if removed {
		w.emit(Event{Type: EventDocumentRemoved, Step: snap.CurrentStep, Application: snap})
	}
	return removed, nil
}

// PrefillFromProfile seeds empty applicant fields from the stored profile.
// Fields the applicant already entered are left alone.
func (w *Workflow) PrefillFromProfile(ctx context.Context) error {
	if w.profiles == nil {
		return errors.New("profile prefill is not configured")
	}

	w.mu.RLock()
	if w.app == nil {
		w.mu.RUnlock()
		return apperrors.ErrNotInitialized
	}
	applicantID, applicationID := w.app.ApplicantID, w.app.ApplicationID
	w.mu.RUnlock()

	profile, err := w.profiles.LoadProfile(ctx, applicantID)
	if err != nil {
		w.logger.Warn("profile prefill failed", map[string]interface{}{"applicantId": applicantID, "error": err.Error()})
		return err
	}

	w.mu.Lock()
	app, err := w.editable()
	if err == nil && app.ApplicationID != applicationID {
		err = apperrors.ErrNotInitialized
	}
	if err != nil {
		w.mu.Unlock()
		return err
	}
	details := models.ApplicantDetails{}
	if app.ApplicantDetails != nil {
		details = *app.ApplicantDetails
	}
	Prefill(&details, profile)
	details.SyncPermanentAddress()
	app.ApplicantDetails = &details
	app.LastUpdatedAt = w.now()
	snap := app.Clone()
	w.mu.Unlock()

	w.emit(Event{Type: EventSectionUpdated, Section: SectionApplicantDetails, Step: snap.CurrentStep, Application: snap})
	w.persist(ctx, snap, "change")
	return nil
}

// Prefill copies profile values into empty applicant fields; anything the
// applicant already typed wins.
func Prefill(d *models.ApplicantDetails, p *models.Profile) {
	fill := func(dst *string, src string) {
		if *dst == "" {
			*dst = src
		}
	}
	fill(&d.FirstName, p.FirstName)
	fill(&d.MiddleName, p.MiddleName)
	fill(&d.LastName, p.LastName)
	fill(&d.Email, p.Email)
	fill(&d.Mobile, p.Mobile)
	fill(&d.DateOfBirth, p.DateOfBirth)
	fill(&d.Gender, p.Gender)
	fill(&d.PAN, p.PAN)
	fill(&d.CurrentAddress, p.Address)
	fill(&d.CurrentCity, p.City)
	fill(&d.CurrentState, p.State)
	fill(&d.CurrentPincode, p.Pincode)
}

// AutoSaveReady reports whether an auto-save should be attempted: there is
// form data, the application is a draft and no submission is running.
func (w *Workflow) AutoSaveReady() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if w.app == nil || w.app.Status != models.StatusDraft || w.submitting {
		return false
	}
	return drafts.HasFormData(snapshotOf(*w.app))
}

// SaveDraft writes the current state to the draft store. It returns false
// without saving when another save is in flight or the application left the
// DRAFT status before the write started.
func (w *Workflow) SaveDraft(ctx context.Context) (bool, error) {
	if !w.saving.CompareAndSwap(false, true) {
		return false, nil
	}
	defer w.saving.Store(false)

	w.mu.RLock()
	app, err := w.readonlyDraft()
	if err != nil {
		w.mu.RUnlock()
		return false, err
	}
	applicationID := app.ApplicationID
	w.mu.RUnlock()

	if err := w.write(ctx, applicationID); err != nil {
		if errors.Is(err, errDraftStale) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (w *Workflow) readonlyDraft() (*models.LoanApplication, error) {
	if w.app == nil {
		return nil, apperrors.ErrNotInitialized
	}
	if w.app.Status != models.StatusDraft {
		return nil, apperrors.ErrApplicationFrozen
	}
	return w.app, nil
}

// persist saves a draft after a change and counts the outcome.
func (w *Workflow) persist(ctx context.Context, snap models.LoanApplication, trigger string) {
	err := w.write(ctx, snap.ApplicationID)
	switch {
	case errors.Is(err, errDraftStale):
		metrics.DraftSaves.WithLabelValues(trigger, "skipped").Inc()
	case err != nil:
		metrics.DraftSaves.WithLabelValues(trigger, "failed").Inc()
	default:
		metrics.DraftSaves.WithLabelValues(trigger, "saved").Inc()
	}
}

// errDraftStale means the application was submitted, replaced or cleared
// while the write waited its turn.
var errDraftStale = errors.New("draft no longer current")

// write stores the aggregate as it is when the write gets its turn, so a
// slow write never lands an older state over a newer one or brings back a
// draft that Submit or Cancel deleted.
func (w *Workflow) write(ctx context.Context, applicationID string) error {
	w.saveMu.Lock()
	w.mu.RLock()
	if w.app == nil || w.app.ApplicationID != applicationID || w.app.Status != models.StatusDraft || w.submitting {
		w.mu.RUnlock()
		w.saveMu.Unlock()
		return errDraftStale
	}
	snap := w.app.Clone()
	w.mu.RUnlock()

	id, err := w.drafts.Save(ctx, snap.ApplicantID, snapshotOf(snap))
	if err == nil {
		w.mu.Lock()
		if w.app != nil && w.app.ApplicationID == snap.ApplicationID {
			w.draftID = id
		}
		w.mu.Unlock()
	}
	w.saveMu.Unlock()

	if err != nil {
		failure := &apperrors.DraftSaveFailure{Cause: err}
		w.logger.Warn("draft save failed", map[string]interface{}{
			"applicationId": snap.ApplicationID,
			"error":         err.Error(),
		})
		w.emit(Event{
			Type:        EventDraftSaveFailed,
			Step:        snap.CurrentStep,
			Application: snap,
			Notice:      &Notice{Severity: SeverityWarning, Message: "Draft could not be saved; your changes are kept"},
			Err:         failure,
		})
		return failure
	}

	w.emit(Event{Type: EventDraftSaved, Step: snap.CurrentStep, Application: snap})
	return nil
}
