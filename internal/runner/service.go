// Package runner drives the extract, classify, generate, fill pipeline.
package runner

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"strings"

	"github.com/formseed/formseed/internal/classify"
	"github.com/formseed/formseed/internal/form"
)

// Validator performs preflight checks on the input document.
type Validator interface {
	ValidateFile(path string) error
}

// Extractor enumerates the fillable fields of a document.
type Extractor interface {
	ExtractFromFile(path string) ([]form.FormField, error)
}

// Generator produces one value per field for a fill pass.
type Generator interface {
	Values(fields []form.FormField, classifications classify.Classifications) form.Values
}

// Filler writes values into a copy of the document.
type Filler interface {
	FillFile(inputPath, outputPath string, values form.Values) error
}

// Service orchestrates one run: validate, extract, classify once, then
// generate and fill count times. Field identity does not change between
// repetitions, so classification results are cached and reused; only value
// generation varies per output file.
type Service struct {
	validator  Validator
	extractor  Extractor
	classifier classify.Classifier
	generator  Generator
	filler     Filler
}

// NewService wires the pipeline from its components.
func NewService(validator Validator, extractor Extractor, classifier classify.Classifier, generator Generator, filler Filler) *Service {
	return &Service{
		validator:  validator,
		extractor:  extractor,
		classifier: classifier,
		generator:  generator,
		filler:     filler,
	}
}

// Run executes the pipeline, producing count output files.
func (s *Service) Run(ctx context.Context, inputPath, outputPath string, count int) error {
	if count < 1 {
		count = 1
	}

	fields, err := s.Fields(inputPath)
	if err != nil {
		return err
	}
	log.Printf("found %d fillable fields in %s", len(fields), inputPath)

	classifications, err := classify.All(ctx, s.classifier, fields)
	if err != nil {
		return err
	}

	for i := 1; i <= count; i++ {
		target := OutputPath(outputPath, i, count)
		values := s.generator.Values(fields, classifications)
		if err := s.filler.FillFile(inputPath, target, values); err != nil {
			return err
		}
		log.Printf("wrote %s (%d fields)", target, len(values))
	}

	return nil
}

// Fields validates the input and returns its extracted field list.
func (s *Service) Fields(inputPath string) ([]form.FormField, error) {
	if err := s.validator.ValidateFile(inputPath); err != nil {
		return nil, err
	}
	return s.extractor.ExtractFromFile(inputPath)
}

// OutputPath derives the path for the i-th output file. A single output
// keeps the configured path; multiple outputs get a numeric suffix before
// the extension.
func OutputPath(outputPath string, i, count int) string {
	if count <= 1 {
		return outputPath
	}
	ext := filepath.Ext(outputPath)
	base := strings.TrimSuffix(outputPath, ext)
	if ext == "" {
		ext = ".pdf"
	}
	return fmt.Sprintf("%s-%d%s", base, i, ext)
}
