package classify

import (
	"context"
	"log"

	"github.com/formseed/formseed/internal/form"
)

// FallbackClassifier tries a primary classifier and degrades to the keyword
// heuristic on any error. It never returns an error, which guarantees the
// pipeline makes forward progress even with the service unreachable.
type FallbackClassifier struct {
	primary   Classifier
	heuristic *HeuristicClassifier
	logDebug  bool
}

// NewFallbackClassifier wraps primary with the heuristic fallback. A nil
// primary selects heuristic-only classification.
func NewFallbackClassifier(primary Classifier, logDebug bool) *FallbackClassifier {
	return &FallbackClassifier{
		primary:   primary,
		heuristic: NewHeuristicClassifier(),
		logDebug:  logDebug,
	}
}

// Classify asks the primary classifier once and falls back to the heuristic
// on failure. Fallbacks are logged but do not alter control flow.
func (f *FallbackClassifier) Classify(ctx context.Context, field form.FormField) (Category, error) {
	if f.primary != nil {
		category, err := f.primary.Classify(ctx, field)
		if err == nil {
			return category, nil
		}
		if f.logDebug {
			log.Printf("classification fallback for field %q: %v", field.Name, err)
		}
	}
	return f.heuristic.Classify(ctx, field)
}
