package classify

import (
	"context"

	"github.com/formseed/formseed/internal/form"
)

// Classifier assigns a semantic category to a single form field. The
// interface is deliberately narrow so the network-backed implementation can
// be swapped for the pure heuristic in tests.
type Classifier interface {
	Classify(ctx context.Context, field form.FormField) (Category, error)
}

// Classifications maps field names to their categories. Field names are
// unique within a document, so a single map covers a whole form.
type Classifications map[string]Category

// All classifies every field in order. Errors from the underlying classifier
// abort the pass; wrap with Fallback first if forward progress must be
// guaranteed.
func All(ctx context.Context, c Classifier, fields []form.FormField) (Classifications, error) {
	result := make(Classifications, len(fields))
	for _, field := range fields {
		category, err := c.Classify(ctx, field)
		if err != nil {
			return nil, err
		}
		result[field.Name] = category
	}
	return result, nil
}
