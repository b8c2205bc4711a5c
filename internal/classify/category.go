// Package classify maps form fields to semantic categories, either via an
// external chat-completion service or a local keyword heuristic.
package classify

import "strings"

// Category is a semantic data type assigned to a form field. The vocabulary
// is closed; anything the service returns outside it normalizes to
// CategoryText.
type Category string

const (
	CategoryName           Category = "name"
	CategoryFirstName      Category = "first_name"
	CategoryLastName       Category = "last_name"
	CategoryPhoneNumber    Category = "phone_number"
	CategoryEmail          Category = "email"
	CategoryAddress        Category = "address"
	CategoryCity           Category = "city"
	CategoryState          Category = "state"
	CategoryZipCode        Category = "zip_code"
	CategoryCountry        Category = "country"
	CategoryCompany        Category = "company"
	CategoryJobTitle       Category = "job_title"
	CategoryDate           Category = "date"
	CategoryVehicleYear    Category = "vehicle_year"
	CategoryVehicleMake    Category = "vehicle_make"
	CategoryVehicleModel   Category = "vehicle_model"
	CategoryVIN            Category = "vin"
	CategoryLicensePlate   Category = "license_plate"
	CategoryCurrencyAmount Category = "currency_amount"
	CategoryBoolean        Category = "boolean"
	CategoryText           Category = "text"
)

// Categories lists the full vocabulary in prompt order.
var Categories = []Category{
	CategoryName, CategoryFirstName, CategoryLastName, CategoryPhoneNumber,
	CategoryEmail, CategoryAddress, CategoryCity, CategoryState,
	CategoryZipCode, CategoryCountry, CategoryCompany, CategoryJobTitle,
	CategoryDate, CategoryVehicleYear, CategoryVehicleMake,
	CategoryVehicleModel, CategoryVIN, CategoryLicensePlate,
	CategoryCurrencyAmount, CategoryBoolean, CategoryText,
}

var categorySet = func() map[Category]bool {
	m := make(map[Category]bool, len(Categories))
	for _, c := range Categories {
		m[c] = true
	}
	return m
}()

// ParseCategory normalizes a raw category string from the classification
// service. Unrecognized values fall back to CategoryText.
func ParseCategory(raw string) Category {
	normalized := strings.ToLower(strings.TrimSpace(raw))
	normalized = strings.Trim(normalized, `"'.`)
	normalized = strings.ReplaceAll(normalized, " ", "_")
	normalized = strings.ReplaceAll(normalized, "-", "_")

	c := Category(normalized)
	if categorySet[c] {
		return c
	}
	return CategoryText
}

// Valid reports whether c is part of the vocabulary.
func (c Category) Valid() bool {
	return categorySet[c]
}
