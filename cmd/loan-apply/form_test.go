// cmd/loan-apply/form_test.go
package main

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"loan-origination/internal/models"
)

func writeFile(t *testing.T, dir, name, content string) string {
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadForm_ResolvesDocumentPaths(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "form.json", `{
		"basicDetails": {"loanType": "HOME", "loanAmount": 500000, "tenure": 60},
		"documents": [
			{"documentType": "PAN", "path": "docs/pan.pdf"},
			{"documentType": "PHOTO", "path": "/abs/photo.jpg"}
		]
	}`)

	form, err := loadForm(path)

	require.NoError(t, err)
	assert.Equal(t, models.LoanTypeHome, form.BasicDetails.LoanType)
	assert.Equal(t, 500000.0, form.BasicDetails.LoanAmount)
	require.Len(t, form.Documents, 2)
	assert.Equal(t, filepath.Join(dir, "docs", "pan.pdf"), form.Documents[0].Path)
	assert.Equal(t, "/abs/photo.jpg", form.Documents[1].Path)
}

func TestLoadForm_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := loadForm(filepath.Join(dir, "missing.json"))
	assert.Error(t, err)

	_, err = loadForm(writeFile(t, dir, "bad.json", `{"basicDetails":`))
	assert.Error(t, err)
}

func TestOpenDocument(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "statement.pdf", "%PDF-1.4 test")

	file, closeFile, err := openDocument(FormDocument{DocumentType: models.DocBankStatement, Path: path})
	require.NoError(t, err)
	defer closeFile()

	assert.Equal(t, "statement.pdf", file.Name)
	assert.Equal(t, "application/pdf", file.ContentType)
	assert.Equal(t, int64(13), file.Size)
	body, err := io.ReadAll(file.Reader)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4 test", string(body))

	_, _, err = openDocument(FormDocument{Path: filepath.Join(dir, "nope.pdf")})
	assert.Error(t, err)
}
