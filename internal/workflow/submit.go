package workflow

import (
	"context"
	"errors"

	apperrors "loan-origination/internal/common/errors"
	"loan-origination/internal/common/metrics"
	"loan-origination/internal/drafts"
	"loan-origination/internal/models"
)

// Submit validates steps 1..5, marks the application SUBMITTED and hands it
// to the submitter. A submitter error leaves the application SUBMITTED and
// pending; it is returned as *errors.SubmissionFailure and calling Submit
// again retries without validating again. On success the receipt is kept on
// the application and its draft is deleted.
func (w *Workflow) Submit(ctx context.Context) (*models.SubmissionReceipt, error) {
	w.mu.Lock()
	if w.app == nil {
		w.mu.Unlock()
		return nil, apperrors.ErrNotInitialized
	}
	app := w.app

	switch {
	case w.submitting:
		w.mu.Unlock()
		return nil, apperrors.ErrApplicationFrozen
	case app.Status == models.StatusDraft:
		for step := models.StepBasicDetails; step < models.StepReview; step++ {
			if failure := w.gate(*app, step); failure != nil {
				w.mu.Unlock()
				metrics.Submissions.WithLabelValues(string(app.BasicDetails.LoanType), "invalid").Inc()
				return nil, failure
			}
		}
		now := w.now()
		app.Status = models.StatusSubmitted
		app.SubmittedAt = &now
		app.LastUpdatedAt = now
	case w.pending:
		w.logger.Info("retrying submission", map[string]interface{}{"applicationId": app.ApplicationID})
	default:
		w.mu.Unlock()
		return nil, apperrors.ErrApplicationFrozen
	}

	w.submitting = true
	draftID := w.currentDraftID()
	snap := app.Clone()
	w.mu.Unlock()

	loanType := string(snap.BasicDetails.LoanType)
	receipt, err := w.submitter.Submit(ctx, snap)
	if err == nil && receipt == nil {
		err = errors.New("submitter returned no receipt")
	}

	w.mu.Lock()
	w.submitting = false
	if err != nil {
		w.pending = true
		w.mu.Unlock()

		failure := &apperrors.SubmissionFailure{ApplicationID: snap.ApplicationID, Cause: err}
		metrics.Submissions.WithLabelValues(loanType, "failed").Inc()
		w.logger.Error("submission failed", map[string]interface{}{
			"applicationId": snap.ApplicationID,
			"error":         err.Error(),
		})
		w.emit(Event{
			Type:        EventSubmissionFailed,
			Step:        snap.CurrentStep,
			Application: snap,
			Notice:      &Notice{Severity: SeverityError, Message: "Submission failed. Please retry submitting your application."},
			Err:         failure,
		})
		return nil, failure
	}

	w.pending = false
	if w.app != nil && w.app.ApplicationID == snap.ApplicationID {
		w.app.LoanID = receipt.LoanID
		w.app.AssignedOfficerID = receipt.AssignedOfficerID
		w.app.LastUpdatedAt = w.now()
		snap = w.app.Clone()
	}
	w.mu.Unlock()

	w.saveMu.Lock()
	err = w.drafts.Delete(ctx, draftID)
	w.saveMu.Unlock()
	if err != nil && !errors.Is(err, drafts.ErrNotFound) {
		w.logger.Warn("failed to delete draft after submission", map[string]interface{}{"draftId": draftID, "error": err.Error()})
	}

	metrics.Submissions.WithLabelValues(loanType, "submitted").Inc()
	w.logger.Info("application submitted", map[string]interface{}{
		"applicationId": snap.ApplicationID,
		"loanId":        receipt.LoanID,
	})
	w.emit(Event{
		Type:        EventSubmitted,
		Step:        snap.CurrentStep,
		Application: snap,
		Notice:      &Notice{Severity: SeveritySuccess, Message: "Application " + receipt.LoanID + " submitted"},
	})
	return receipt, nil
}
