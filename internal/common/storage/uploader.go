package storage

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	apperrors "loan-origination/internal/common/errors"
	"loan-origination/internal/models"
	"loan-origination/internal/upload"

	"github.com/google/uuid"
)

// progressStep is the minimum progress gain, in percent, between events.
const progressStep = 10

// ObjectUploader streams loan documents into the object store and answers
// with a presigned download URL.
type ObjectUploader struct {
	store      Storage
	presignTTL time.Duration
	newID      func() string
}

func NewObjectUploader(store Storage, presignTTL time.Duration) *ObjectUploader {
	return &ObjectUploader{
		store:      store,
		presignTTL: presignTTL,
		newID:      uuid.NewString,
	}
}

// ObjectKey places every upload under its applicant and document type.
func ObjectKey(applicantID string, documentType models.DocumentType, id, fileName string) string {
	return fmt.Sprintf("applicants/%s/%s/%s%s",
		applicantID, strings.ToLower(string(documentType)), id, strings.ToLower(filepath.Ext(fileName)))
}

func (u *ObjectUploader) Upload(ctx context.Context, file upload.File, documentType models.DocumentType, applicantID string) (<-chan upload.Event, error) {
	if file.Reader == nil {
		return nil, fmt.Errorf("upload of %s has no content", file.Name)
	}

	out := make(chan upload.Event, 2)
	key := ObjectKey(applicantID, documentType, u.newID(), file.Name)

	go func() {
		defer close(out)

		emit := func(ev upload.Event) {
			select {
			case out <- ev:
			case <-ctx.Done():
			}
		}

		emit(upload.Event{Progress: 0, Status: upload.StatusUploading})

		pr := &progressReader{r: file.Reader, total: file.Size, report: func(pct int) {
			emit(upload.Event{Progress: pct, Status: upload.StatusUploading})
		}}

		_, err := u.store.Put(ctx, key, pr, PutObjectOptions{
			Size:        file.Size,
			ContentType: file.ContentType,
			Metadata: map[string]string{
				"applicant-id":  applicantID,
				"document-type": string(documentType),
				"file-name":     file.Name,
			},
		})
		if err != nil {
			emit(upload.Event{Progress: pr.percent(), Status: upload.StatusError, Err: apperrors.NewStorageFailedError("put", err)})
			return
		}

		fileURL, err := u.store.PresignGet(ctx, key, u.presignTTL)
		if err != nil {
			emit(upload.Event{Progress: 100, Status: upload.StatusError, Err: apperrors.NewStorageFailedError("presign", err)})
			return
		}

		emit(upload.Event{Progress: 100, Status: upload.StatusSuccess, FileURL: fileURL})
	}()

	return out, nil
}

// progressReader reports read progress in steps below 100; completion is
// reported by the caller once the store acknowledges the object.
type progressReader struct {
	r        io.Reader
	total    int64
	read     int64
	reported int
	report   func(int)
}

func (p *progressReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	p.read += int64(n)
	if pct := p.percent(); pct < 100 && pct-p.reported >= progressStep {
		p.reported = pct
		p.report(pct)
	}
	return n, err
}

func (p *progressReader) percent() int {
	if p.total <= 0 {
		return 0
	}
	pct := int(p.read * 100 / p.total)
	if pct > 100 {
		pct = 100
	}
	return pct
}
