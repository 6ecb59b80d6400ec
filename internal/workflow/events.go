package workflow

import "loan-origination/internal/models"

type EventType string

const (
	EventInitialized      EventType = "INITIALIZED"
	EventResumed          EventType = "RESUMED"
	EventReset            EventType = "RESET"
	EventStepChanged      EventType = "STEP_CHANGED"
	EventSectionUpdated   EventType = "SECTION_UPDATED"
	EventDocumentAdded    EventType = "DOCUMENT_ADDED"
	EventDocumentRemoved  EventType = "DOCUMENT_REMOVED"
	EventDraftSaved       EventType = "DRAFT_SAVED"
	EventDraftSaveFailed  EventType = "DRAFT_SAVE_FAILED"
	EventSubmitted        EventType = "SUBMITTED"
	EventSubmissionFailed EventType = "SUBMISSION_FAILED"
)

type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Notice is a classified, human readable outcome for presentation.
type Notice struct {
	Severity Severity
	Message  string
}

// Event describes one change to the application. Application is a copy
// taken after the change; it is the zero value after a reset.
type Event struct {
	Type        EventType
	Section     string
	Step        int
	Application models.LoanApplication
	Notice      *Notice
	Err         error
}

// Subscribe registers fn for every event. Observers run synchronously on
// the goroutine that made the change, after the aggregate lock is released.
func (w *Workflow) Subscribe(fn func(Event)) (cancel func()) {
	w.subMu.Lock()
	defer w.subMu.Unlock()

	id := w.nextSubID
	w.nextSubID++
	w.subscribers[id] = fn

	return func() {
		w.subMu.Lock()
		delete(w.subscribers, id)
		w.subMu.Unlock()
	}
}

func (w *Workflow) emit(ev Event) {
	w.subMu.Lock()
	fns := make([]func(Event), 0, len(w.subscribers))
	for i := 0; i < w.nextSubID; i++ {
		if fn, ok := w.subscribers[i]; ok {
			fns = append(fns, fn)
		}
	}
	w.subMu.Unlock()

	for _, fn := range fns {
		fn(ev)
	}
}
