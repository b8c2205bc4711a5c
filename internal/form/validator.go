package form

import (
	"fmt"
	"os"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/formseed/formseed/internal/errs"
)

// Validator performs preflight checks on an input PDF before the heavier
// AcroForm parsing runs.
type Validator struct {
	maxFileSize int64
}

// NewValidator creates a new PDF validator with the specified constraints.
func NewValidator(maxFileSize int64) *Validator {
	return &Validator{
		maxFileSize: maxFileSize,
	}
}

// ValidateFile checks that the path points to a readable, reasonably sized
// PDF document. Failures are returned as DocumentError.
func (v *Validator) ValidateFile(filePath string) error {
	if err := v.validatePDFFile(filePath); err != nil {
		return errs.NewDocumentError(filePath, err)
	}
	return nil
}

func (v *Validator) validatePDFFile(filePath string) error {
	if filePath == "" {
		return fmt.Errorf("path cannot be empty")
	}

	fileInfo, err := os.Stat(filePath)
	if os.IsNotExist(err) {
		return fmt.Errorf("file does not exist")
	}
	if err != nil {
		return fmt.Errorf("cannot access file: %w", err)
	}

	if fileInfo.IsDir() {
		return fmt.Errorf("path is a directory, not a file")
	}

	if !strings.HasSuffix(strings.ToLower(filePath), ".pdf") {
		return fmt.Errorf("file is not a PDF")
	}

	if fileInfo.Size() == 0 {
		return fmt.Errorf("file is empty")
	}

	if v.maxFileSize > 0 && fileInfo.Size() > v.maxFileSize {
		return fmt.Errorf("file too large: %d bytes (max: %d bytes)",
			fileInfo.Size(), v.maxFileSize)
	}

	// Quick structural sanity check before pdfcpu does the real parsing.
	f, _, err := pdf.Open(filePath)
	if err != nil {
		return fmt.Errorf("invalid PDF file: %w", err)
	}
	defer f.Close()

	return nil
}

// IsValidPDF performs a quick check to see if a file is a valid PDF.
func (v *Validator) IsValidPDF(filePath string) bool {
	return v.validatePDFFile(filePath) == nil
}
