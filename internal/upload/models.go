package upload

import (
	"context"
	"io"

	"loan-origination/internal/models"
)

// File is an upload candidate. Size must be known before the transfer.
type File struct {
	Name        string
	ContentType string
	Size        int64
	Reader      io.Reader
}

type Status string

const (
	StatusUploading Status = "uploading"
	StatusSuccess   Status = "success"
	StatusError     Status = "error"
)

// Event is one step of an upload. Exactly one terminal event (success or
// error) ends every stream.
type Event struct {
	Progress int    `json:"progress"`
	Status   Status `json:"status"`
	FileURL  string `json:"fileUrl,omitempty"`
	Err      error  `json:"-"`
}

func (e Event) Terminal() bool {
	return e.Status == StatusSuccess || e.Status == StatusError
}

// Uploader moves file bytes to the document store. The returned channel is
// closed after the terminal event.
type Uploader interface {
	Upload(ctx context.Context, file File, documentType models.DocumentType, applicantID string) (<-chan Event, error)
}

// Target is the application that receives completed uploads.
type Target interface {
	LoanType() (models.LoanType, error)
	AddDocument(doc models.DocumentUpload) error
}
