package upload

import (
	"path/filepath"
	"strings"

	"loan-origination/internal/documents"
)

var mimeAliases = map[string]string{
	"application/pdf":   documents.FormatPDF,
	"application/x-pdf": documents.FormatPDF,
	"image/jpeg":        documents.FormatJPEG,
	"image/jpg":         documents.FormatJPEG,
	"image/pjpeg":       documents.FormatJPEG,
	"image/png":         documents.FormatPNG,
	"image/x-png":       documents.FormatPNG,
}

var extensions = map[string]string{
	".pdf":  documents.FormatPDF,
	".jpg":  documents.FormatJPEG,
	".jpeg": documents.FormatJPEG,
	".jpe":  documents.FormatJPEG,
	".png":  documents.FormatPNG,
}

// DetectFormat resolves the document format from the declared MIME type,
// falling back to the file extension when the MIME type is missing or
// unrecognised. It returns "" when neither is known.
func DetectFormat(contentType, fileName string) string {
	mime := strings.ToLower(strings.TrimSpace(strings.SplitN(contentType, ";", 2)[0]))
	if f, ok := mimeAliases[mime]; ok {
		return f
	}
	return extensions[strings.ToLower(filepath.Ext(fileName))]
}
