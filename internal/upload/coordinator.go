// Package upload gates document files against the loan type's requirements,
// streams them through an Uploader and records completed uploads on the
// application.
package upload

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	apperrors "loan-origination/internal/common/errors"
	"loan-origination/internal/common/logger"
	"loan-origination/internal/common/metrics"
	"loan-origination/internal/documents"
	"loan-origination/internal/models"
)

type Coordinator struct {
	uploader Uploader
	target   Target
	logger   logger.Logger
	now      func() time.Time

	mu       sync.RWMutex
	progress map[string]int
}

func NewCoordinator(uploader Uploader, target Target, log logger.Logger) *Coordinator {
	return &Coordinator{
		uploader: uploader,
		target:   target,
		logger:   log.WithFields(map[string]interface{}{"component": "upload"}),
		now:      time.Now,
		progress: make(map[string]int),
	}
}

// Check validates a file against the requirement for documentType without
// transferring anything.
func (c *Coordinator) Check(file File, documentType models.DocumentType) (models.DocumentRequirement, error) {
	loanType, err := c.target.LoanType()
	if err != nil {
		return models.DocumentRequirement{}, err
	}

	reject := func(reason string) error {
		return &apperrors.RejectedUpload{FileName: file.Name, DocumentType: string(documentType), Reason: reason}
	}

	req, ok := documents.Requirement(loanType, documentType)
	if !ok {
		return req, reject(fmt.Sprintf("%s is not required for a %s", documentType, loanType.Label()))
	}

	format := DetectFormat(file.ContentType, file.Name)
	if format == "" || !req.Accepts(format) {
		return req, reject(fmt.Sprintf("%s accepts %s files only", req.DisplayName, strings.ToUpper(strings.Join(req.AcceptedFormats, ", "))))
	}

	if file.Size <= 0 {
		return req, reject("file is empty")
	}
	if file.Size > req.MaxSize {
		return req, reject(fmt.Sprintf("file exceeds the %d MB limit for %s", req.MaxSize/(1024*1024), req.DisplayName))
	}

	return req, nil
}

// Upload rejects invalid files synchronously. Accepted files are streamed
// in a goroutine; the returned channel carries progress and is closed after
// the terminal event. A successful upload is recorded on the target as a
// PENDING document, replacing any earlier upload of the same type.
func (c *Coordinator) Upload(ctx context.Context, file File, documentType models.DocumentType, applicantID string) (<-chan Event, error) {
	if _, err := c.Check(file, documentType); err != nil {
		metrics.Uploads.WithLabelValues(string(documentType), "rejected").Inc()
		c.logger.Warn("upload rejected", map[string]interface{}{
			"fileName":     file.Name,
			"documentType": documentType,
			"reason":       err.Error(),
		})
		return nil, err
	}

	in, err := c.uploader.Upload(ctx, file, documentType, applicantID)
	if err != nil {
		metrics.Uploads.WithLabelValues(string(documentType), "failed").Inc()
		return nil, fmt.Errorf("start upload of %s: %w", file.Name, err)
	}

	c.setProgress(file.Name, 0)
	metrics.UploadsInFlight.Inc()

	out := make(chan Event, 1)
	go c.forward(ctx, in, out, file, documentType)
	return out, nil
}

func (c *Coordinator) forward(ctx context.Context, in <-chan Event, out chan<- Event, file File, documentType models.DocumentType) {
	defer close(out)
	defer metrics.UploadsInFlight.Dec()

	send := func(ev Event) bool {
		select {
		case out <- ev:
			return true
		case <-ctx.Done():
			return false
		}
	}

	for ev := range in {
		if ev.Progress < 0 {
			ev.Progress = 0
		} else if ev.Progress > 100 {
			ev.Progress = 100
		}

		switch ev.Status {
		case StatusSuccess:
			ev.Progress = 100
			ev = c.record(ev, file, documentType)
		case StatusError:
			metrics.Uploads.WithLabelValues(string(documentType), "failed").Inc()
			c.logger.Warn("upload failed", map[string]interface{}{
				"fileName":     file.Name,
				"documentType": documentType,
				"error":        fmt.Sprint(ev.Err),
			})
		}

		if ev.Terminal() {
			c.clearProgress(file.Name)
			send(ev)
			return
		}
		c.setProgress(file.Name, ev.Progress)
		if !send(ev) {
			c.clearProgress(file.Name)
			return
		}
	}

	// the uploader closed its stream without a terminal event
	metrics.Uploads.WithLabelValues(string(documentType), "failed").Inc()
	last := c.Progress(file.Name)
	c.clearProgress(file.Name)
	send(Event{Progress: last, Status: StatusError, Err: fmt.Errorf("upload of %s ended without a result", file.Name)})
}

func (c *Coordinator) record(ev Event, file File, documentType models.DocumentType) Event {
	doc := models.DocumentUpload{
		DocumentType: documentType,
		FileName:     file.Name,
		FileURL:      ev.FileURL,
		FileSize:     file.Size,
		UploadedAt:   c.now().UTC(),
		Status:       models.DocumentPending,
	}
	if err := c.target.AddDocument(doc); err != nil {
		metrics.Uploads.WithLabelValues(string(documentType), "failed").Inc()
		return Event{Progress: 100, Status: StatusError, FileURL: ev.FileURL, Err: err}
	}

	metrics.Uploads.WithLabelValues(string(documentType), "succeeded").Inc()
	c.logger.Info("document uploaded", map[string]interface{}{
		"fileName":     file.Name,
		"documentType": documentType,
		"size":         file.Size,
	})
	return ev
}

func (c *Coordinator) setProgress(fileName string, pct int) {
	c.mu.Lock()
	c.progress[fileName] = pct
	c.mu.Unlock()
}

func (c *Coordinator) clearProgress(fileName string) {
	c.mu.Lock()
	delete(c.progress, fileName)
	c.mu.Unlock()
}

// Progress returns the progress of an upload still in flight; finished and
// unknown files report 0.
func (c *Coordinator) Progress(fileName string) int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.progress[fileName]
}
