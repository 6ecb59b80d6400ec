// cmd/loan-apply/form.go
package main

import (
	"encoding/json"
	"fmt"
	"mime"
	"os"
	"path/filepath"

	"loan-origination/internal/models"
	"loan-origination/internal/upload"
)

// Form is the application file the command walks through the steps.
type Form struct {
	BasicDetails     models.BasicDetails      `json:"basicDetails"`
	ApplicantDetails *models.ApplicantDetails `json:"applicantDetails,omitempty"`
	FinancialDetails models.FinancialDetails  `json:"financialDetails"`
	Documents        []FormDocument           `json:"documents"`
	Declarations     models.Declarations      `json:"declarations"`
}

// FormDocument points at a local file; Path is relative to the form file.
type FormDocument struct {
	DocumentType models.DocumentType `json:"documentType"`
	Path         string              `json:"path"`
}

func loadForm(path string) (*Form, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read form: %w", err)
	}
	var f Form
	if err := json.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse form %s: %w", path, err)
	}

	base := filepath.Dir(path)
	for i, d := range f.Documents {
		if !filepath.IsAbs(d.Path) {
			f.Documents[i].Path = filepath.Join(base, d.Path)
		}
	}
	return &f, nil
}

// openDocument returns an upload file for d and a closer for its handle.
func openDocument(d FormDocument) (upload.File, func() error, error) {
	fh, err := os.Open(d.Path)
	if err != nil {
		return upload.File{}, nil, err
	}
	info, err := fh.Stat()
	if err != nil {
		fh.Close()
		return upload.File{}, nil, err
	}
	return upload.File{
		Name:        filepath.Base(d.Path),
		ContentType: mime.TypeByExtension(filepath.Ext(d.Path)),
		Size:        info.Size(),
		Reader:      fh,
	}, fh.Close, nil
}
