// Package document turns uploaded reports into plain text.
package document

import (
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

type Format string

const (
	FormatPDF  Format = "pdf"
	FormatDOCX Format = "docx"
)

// UnsupportedFormatError is returned for file names whose extension is neither .pdf nor .docx.
type UnsupportedFormatError struct {
	Filename string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("unsupported file format %q: upload a PDF or DOCX file", filepath.Ext(e.Filename))
}

// ExtractionError wraps any parser failure.
type ExtractionError struct {
	Format Format
	Err    error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("failed to extract text from %s: %v", strings.ToUpper(string(e.Format)), e.Err)
}

func (e *ExtractionError) Unwrap() error { return e.Err }

// FormatFromFilename picks the format from the file name suffix. Matching is case-sensitive.
func FormatFromFilename(name string) (Format, error) {
	switch {
	case strings.HasSuffix(name, ".pdf"):
		return FormatPDF, nil
	case strings.HasSuffix(name, ".docx"):
		return FormatDOCX, nil
	default:
		return "", &UnsupportedFormatError{Filename: name}
	}
}

// Extract reads r fully and returns its text in the given format.
func Extract(format Format, r io.Reader) (string, error) {
	var extract func(io.ReaderAt, int64) (string, error)
	switch format {
	case FormatPDF:
		extract = extractPDF
	case FormatDOCX:
		extract = extractDOCX
	default:
		return "", &UnsupportedFormatError{Filename: "." + string(format)}
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return "", &ExtractionError{Format: format, Err: err}
	}

	text, err := extract(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", &ExtractionError{Format: format, Err: err}
	}
	return text, nil
}
