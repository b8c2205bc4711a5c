// Package errs defines the error taxonomy for the fill pipeline.
//
// Document, write and config errors are fatal; classification and generation
// errors are absorbed by fallbacks and never abort a run.
package errs

import "fmt"

// DocumentError indicates the input PDF is unreadable, invalid, or contains
// no fillable fields.
type DocumentError struct {
	Path string
	Err  error
}

func (e *DocumentError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("document %s: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("document %s: invalid or not fillable", e.Path)
}

func (e *DocumentError) Unwrap() error { return e.Err }

// NewDocumentError wraps err with the offending path.
func NewDocumentError(path string, err error) *DocumentError {
	return &DocumentError{Path: path, Err: err}
}

// ClassificationError indicates the classification service failed for a
// field. It is recovered locally via the heuristic classifier and should not
// surface as fatal.
type ClassificationError struct {
	Field string
	Err   error
}

func (e *ClassificationError) Error() string {
	return fmt.Sprintf("classify field %q: %v", e.Field, e.Err)
}

func (e *ClassificationError) Unwrap() error { return e.Err }

// GenerationError indicates no generator exists for a category. It is
// recovered by falling back to the generic string generator.
type GenerationError struct {
	Field    string
	Category string
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("no generator for category %q (field %q)", e.Category, e.Field)
}

// WriteError indicates the output could not be produced: unwritable path or
// a value incompatible with the field's widget kind.
type WriteError struct {
	Path  string
	Field string
	Err   error
}

func (e *WriteError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("write %s: field %q: %v", e.Path, e.Field, e.Err)
	}
	return fmt.Sprintf("write %s: %v", e.Path, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

// ConfigError indicates invalid or missing configuration, detected at
// startup.
type ConfigError struct {
	Msg string
}

func (e *ConfigError) Error() string { return "config: " + e.Msg }

// NewConfigError builds a ConfigError from a format string.
func NewConfigError(format string, args ...any) *ConfigError {
	return &ConfigError{Msg: fmt.Sprintf(format, args...)}
}
