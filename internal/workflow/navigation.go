package workflow

import (
	"context"
	"fmt"
	"strconv"

	"loan-origination/internal/affordability"
	apperrors "loan-origination/internal/common/errors"
	"loan-origination/internal/common/metrics"
	"loan-origination/internal/documents"
	"loan-origination/internal/models"
)

func invalidStep(step int) error {
	std := *apperrors.ErrInvalidStep
	std.Details = fmt.Sprintf("step %d is outside 1..%d", step, models.TotalSteps)
	return &std
}

// SetCurrentStep moves to step without validating anything.
func (w *Workflow) SetCurrentStep(step int) error {
	if step < models.StepBasicDetails || step > models.TotalSteps {
		return invalidStep(step)
	}
	w.mu.Lock()
	app, err := w.editable()
	if err != nil {
		w.mu.Unlock()
		return err
	}
	w.enter(app, step)
	snap := app.Clone()
	w.mu.Unlock()

	w.emit(Event{Type: EventStepChanged, Step: step, Application: snap})
	return nil
}

// NextStep advances by one step when the current step validates. Otherwise
// it returns a *errors.ValidationFailure and the step is unchanged.
func (w *Workflow) NextStep(ctx context.Context) error {
	w.mu.Lock()
	app, err := w.editable()
	if err != nil {
		w.mu.Unlock()
		return err
	}

	from := app.CurrentStep
	if from >= models.TotalSteps {
		w.mu.Unlock()
		return invalidStep(from + 1)
	}
	if failure := w.gate(*app, from); failure != nil {
		w.mu.Unlock()
		metrics.StepTransitions.WithLabelValues(strconv.Itoa(from+1), "rejected").Inc()
		return failure
	}

	w.enter(app, from+1)
	snap := app.Clone()
	w.mu.Unlock()

	metrics.StepTransitions.WithLabelValues(strconv.Itoa(snap.CurrentStep), "advanced").Inc()
	w.persist(ctx, snap, "step")
	w.emit(Event{Type: EventStepChanged, Step: snap.CurrentStep, Application: snap, Notice: w.affordabilityNotice(snap, from)})
	return nil
}

// PreviousStep goes back one step without validation.
func (w *Workflow) PreviousStep(ctx context.Context) error {
	w.mu.Lock()
	app, err := w.editable()
	if err != nil {
		w.mu.Unlock()
		return err
	}
	if app.CurrentStep <= models.StepBasicDetails {
		w.mu.Unlock()
		return invalidStep(app.CurrentStep - 1)
	}
	w.enter(app, app.CurrentStep-1)
	snap := app.Clone()
	w.mu.Unlock()

	metrics.StepTransitions.WithLabelValues(strconv.Itoa(snap.CurrentStep), "back").Inc()
	w.persist(ctx, snap, "step")
	w.emit(Event{Type: EventStepChanged, Step: snap.CurrentStep, Application: snap})
	return nil
}

// GoToStep jumps to step. Going back is always allowed; going forward needs
// every step from the current one up to step-1 to validate, and the first
// one that does not is returned as a *errors.ValidationFailure.
func (w *Workflow) GoToStep(ctx context.Context, step int) error {
	if step < models.StepBasicDetails || step > models.TotalSteps {
		return invalidStep(step)
	}

	w.mu.Lock()
	app, err := w.editable()
	if err != nil {
		w.mu.Unlock()
		return err
	}
	for k := app.CurrentStep; k < step; k++ {
		if failure := w.gate(*app, k); failure != nil {
			w.mu.Unlock()
			metrics.StepTransitions.WithLabelValues(strconv.Itoa(step), "rejected").Inc()
			return failure
		}
	}
	if step == app.CurrentStep {
		w.mu.Unlock()
		return nil
	}
	w.enter(app, step)
	snap := app.Clone()
	w.mu.Unlock()

	metrics.StepTransitions.WithLabelValues(strconv.Itoa(step), "jumped").Inc()
	w.persist(ctx, snap, "step")
	w.emit(Event{Type: EventStepChanged, Step: step, Application: snap})
	return nil
}

// enter moves app to step and refreshes what that step depends on. Must be
// called with mu held.
func (w *Workflow) enter(app *models.LoanApplication, step int) {
	app.CurrentStep = step
	app.LastUpdatedAt = w.now()
	if step >= models.StepDocuments {
		w.requiredDocs = documents.RequiredDocuments(app.BasicDetails.LoanType)
	}
	if step == models.StepReview {
		review := app.Clone()
		w.review = &review
	}
}

func (w *Workflow) gate(app models.LoanApplication, step int) *apperrors.ValidationFailure {
	v := Violations(app, step, w.rules, w.now())
	if len(v) == 0 {
		return nil
	}
	return &apperrors.ValidationFailure{Step: step, StepName: models.StepName(step), Violations: v}
}

// affordabilityNotice warns when the applicant leaves the financial step
// with a RISKY ratio that is still under the hard limit.
func (w *Workflow) affordabilityNotice(app models.LoanApplication, from int) *Notice {
	if from != models.StepFinancialDetails {
		return nil
	}
	dti, ok := estimateDTI(app.BasicDetails, app.FinancialDetails, w.rules)
	if !ok || affordability.Classify(dti) != affordability.Risky {
		return nil
	}
	return &Notice{
		Severity: SeverityWarning,
		Message:  fmt.Sprintf("%s of %.2f%% is high; the application may need additional review", dtiLabel, dti),
	}
}

// ValidateStep reports whether step currently validates.
func (w *Workflow) ValidateStep(step int) bool {
	return len(w.StepViolations(step)) == 0
}

// StepViolations lists what blocks step. Without an application every step
// reports a single violation.
func (w *Workflow) StepViolations(step int) []apperrors.Violation {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if w.app == nil {
		return []apperrors.Violation{{Field: "application", Label: "Application", Code: apperrors.CodeRequired, Message: apperrors.ErrNotInitialized.Message}}
	}
	return Violations(*w.app, step, w.rules, w.now())
}

func (w *Workflow) ValidateCurrentStep() bool {
	return w.ValidateStep(w.CurrentStep())
}

// StepCompletion maps each step to whether it validates.
func (w *Workflow) StepCompletion() map[int]bool {
	out := make(map[int]bool, models.TotalSteps)
	for step := models.StepBasicDetails; step <= models.TotalSteps; step++ {
		out[step] = w.ValidateStep(step)
	}
	return out
}

// Affordability computes EMI and DTI for the current loan terms at the
// configured rate of the selected product. affordability.ErrIncomeRequired
// comes back with the repayment terms filled in.
func (w *Workflow) Affordability() (*affordability.Result, error) {
	w.mu.RLock()
	if w.app == nil {
		w.mu.RUnlock()
		return nil, apperrors.ErrNotInitialized
	}
	b, f := w.app.BasicDetails, w.app.FinancialDetails
	w.mu.RUnlock()

	return affordability.Compute(affordability.Input{
		Principal:           b.LoanAmount,
		AnnualRatePct:       w.rules.Rates.Rate(b.LoanType),
		TenureMonths:        b.Tenure,
		MonthlyIncome:       f.MonthlyIncome(),
		ExistingObligations: f.MonthlyObligations(),
	})
}
