package classify

import (
	"context"
	"strings"

	"github.com/formseed/formseed/internal/form"
)

// keywordRule maps field-name substrings to a category. Rules are evaluated
// in order; the first match wins, so more specific keywords come first.
type keywordRule struct {
	keywords []string
	category Category
}

var defaultKeywordRules = []keywordRule{
	{[]string{"first_name", "firstname", "first name", "fname", "given"}, CategoryFirstName},
	{[]string{"last_name", "lastname", "last name", "lname", "surname", "family"}, CategoryLastName},
	{[]string{"email", "e-mail", "e_mail"}, CategoryEmail},
	{[]string{"phone", "mobile", "cell", "fax", "tel"}, CategoryPhoneNumber},
	{[]string{"zip", "postal", "postcode"}, CategoryZipCode},
	{[]string{"city", "town"}, CategoryCity},
	{[]string{"state", "province"}, CategoryState},
	{[]string{"country", "nation"}, CategoryCountry},
	{[]string{"address", "street", "addr"}, CategoryAddress},
	{[]string{"company", "employer", "organization", "organisation", "business"}, CategoryCompany},
	{[]string{"job_title", "job title", "title", "position", "occupation", "role"}, CategoryJobTitle},
	{[]string{"dob", "birth", "date", "expir", "issued"}, CategoryDate},
	{[]string{"vin"}, CategoryVIN},
	{[]string{"license_plate", "license plate", "plate"}, CategoryLicensePlate},
	{[]string{"vehicle_year", "model_year", "car_year"}, CategoryVehicleYear},
	{[]string{"make", "manufacturer"}, CategoryVehicleMake},
	{[]string{"model"}, CategoryVehicleModel},
	{[]string{"amount", "price", "salary", "total", "cost", "fee", "payment", "wage"}, CategoryCurrencyAmount},
	{[]string{"name", "applicant", "signature"}, CategoryName},
	{[]string{"agree", "consent", "accept", "subscribe", "opt_in", "opt-in", "yes", "no"}, CategoryBoolean},
}

// HeuristicClassifier assigns categories by pattern-matching the field name
// and label against a static keyword table. It never fails and issues no
// external requests.
type HeuristicClassifier struct {
	rules []keywordRule
}

// NewHeuristicClassifier creates a classifier with the default keyword table.
func NewHeuristicClassifier() *HeuristicClassifier {
	return &HeuristicClassifier{
		rules: defaultKeywordRules,
	}
}

// Classify matches the field against the keyword table. Checkbox fields are
// boolean regardless of name; unmatched fields fall back to text.
func (h *HeuristicClassifier) Classify(_ context.Context, field form.FormField) (Category, error) {
	if field.Kind == form.KindCheckbox {
		return CategoryBoolean, nil
	}
	// Choice fields draw from their own option list; the category only
	// matters for text fields.
	if field.Kind == form.KindChoice {
		return CategoryText, nil
	}

	haystack := strings.ToLower(field.Name + " " + field.Label)
	for _, rule := range h.rules {
		for _, keyword := range rule.keywords {
			if strings.Contains(haystack, keyword) {
				return rule.category, nil
			}
		}
	}

	return CategoryText, nil
}
