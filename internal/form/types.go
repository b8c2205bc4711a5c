// Package form provides AcroForm field extraction, validation and filling.
package form

// FieldKind represents the widget kind of a form field.
type FieldKind string

const (
	KindText     FieldKind = "text"
	KindCheckbox FieldKind = "checkbox"
	KindChoice   FieldKind = "choice"
)

// FormField describes a single fillable field read from a document. Fields
// are immutable after extraction; values live in a separate Values map so a
// single extraction can serve multiple fill passes.
type FormField struct {
	Name    string    `json:"name"`
	Kind    FieldKind `json:"kind"`
	Label   string    `json:"label,omitempty"`   // TU tooltip, if present
	Options []string  `json:"options,omitempty"` // choice fields only
	OnState string    `json:"on_state,omitempty"`
	Radio   bool      `json:"radio,omitempty"` // choice backed by radio buttons
}

// Values maps field names to the value to be written: string for text and
// choice fields, bool for checkboxes.
type Values map[string]any
