package storage_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	apperrors "loan-origination/internal/common/errors"
	"loan-origination/internal/common/storage"
	"loan-origination/internal/common/storage/mocks"
	"loan-origination/internal/models"
	"loan-origination/internal/upload"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func collect(t *testing.T, ch <-chan upload.Event) []upload.Event {
	t.Helper()
	var out []upload.Event
	deadline := time.After(time.Second)
	for {
		select {
		case ev, ok := <-ch:
			if !ok {
				return out
			}
			out = append(out, ev)
		case <-deadline:
			t.Fatal("upload stream did not close")
		}
	}
}

// consume reads the object like a real store would.
func consume(_ context.Context, key string, r io.Reader, opt storage.PutObjectOptions) storage.ObjectInfo {
	n, _ := io.Copy(io.Discard, r)
	return storage.ObjectInfo{Key: key, Size: n, ContentType: opt.ContentType}
}

func TestObjectUploader_Success(t *testing.T) {
	store := new(mocks.MockStorage)
	content := bytes.Repeat([]byte("x"), 64*1024)

	store.On("Put", mock.Anything, mock.MatchedBy(func(key string) bool {
		return strings.HasPrefix(key, "applicants/applicant-42/bank_statement/") && strings.HasSuffix(key, ".pdf")
	}), mock.Anything, mock.MatchedBy(func(opt storage.PutObjectOptions) bool {
		return opt.Size == int64(len(content)) && opt.ContentType == "application/pdf" && opt.Metadata["document-type"] == "BANK_STATEMENT"
	})).Return(consume, nil)
	store.On("PresignGet", mock.Anything, mock.Anything, time.Hour).Return("https://minio.local/loan-documents/x.pdf?sig=1", nil)

	u := storage.NewObjectUploader(store, time.Hour)
	ch, err := u.Upload(context.Background(), upload.File{
		Name:        "statement.pdf",
		ContentType: "application/pdf",
		Size:        int64(len(content)),
		Reader:      bytes.NewReader(content),
	}, models.DocBankStatement, "applicant-42")
	require.NoError(t, err)

	events := collect(t, ch)
	require.NotEmpty(t, events)

	last := events[len(events)-1]
	assert.Equal(t, upload.StatusSuccess, last.Status)
	assert.Equal(t, 100, last.Progress)
	assert.Equal(t, "https://minio.local/loan-documents/x.pdf?sig=1", last.FileURL)

	prev := -1
	for _, ev := range events {
		assert.GreaterOrEqual(t, ev.Progress, prev)
		prev = ev.Progress
	}
	store.AssertExpectations(t)
}

func TestObjectUploader_PutFailure(t *testing.T) {
	store := new(mocks.MockStorage)
	store.On("Put", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(storage.ObjectInfo{}, errors.New("bucket unavailable"))

	u := storage.NewObjectUploader(store, time.Hour)
	ch, err := u.Upload(context.Background(), upload.File{
		Name: "pan.pdf", ContentType: "application/pdf", Size: 4, Reader: bytes.NewReader([]byte("%PDF")),
	}, models.DocPAN, "applicant-42")
	require.NoError(t, err)

	events := collect(t, ch)
	last := events[len(events)-1]
	assert.Equal(t, upload.StatusError, last.Status)

	var std *apperrors.StandardError
	require.True(t, errors.As(last.Err, &std))
	assert.Equal(t, apperrors.ErrCodeStorageFailed, std.Code)
	store.AssertNotCalled(t, "PresignGet", mock.Anything, mock.Anything, mock.Anything)
}

func TestObjectUploader_NoContent(t *testing.T) {
	u := storage.NewObjectUploader(new(mocks.MockStorage), time.Hour)
	_, err := u.Upload(context.Background(), upload.File{Name: "pan.pdf", Size: 4}, models.DocPAN, "applicant-42")
	assert.Error(t, err)
}

func TestObjectKey(t *testing.T) {
	assert.Equal(t,
		"applicants/applicant-42/salary_slip/abc.pdf",
		storage.ObjectKey("applicant-42", models.DocSalarySlip, "abc", "March Slip.PDF"))
}
