// Package generate produces plausible random values for classified form
// fields.
package generate

import (
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/brianvoe/gofakeit/v7"

	"github.com/formseed/formseed/internal/classify"
	"github.com/formseed/formseed/internal/errs"
	"github.com/formseed/formseed/internal/form"
)

// vinCharset excludes I, O and Q per the VIN standard.
const vinCharset = "ABCDEFGHJKLMNPRSTUVWXYZ0123456789"

// Generator maps semantic categories to fake-data routines. All generation
// is local and randomized; a non-zero seed makes runs reproducible.
type Generator struct {
	faker *gofakeit.Faker
}

// NewGenerator creates a generator. Seed 0 selects a random seed.
func NewGenerator(seed uint64) *Generator {
	return &Generator{
		faker: gofakeit.New(seed),
	}
}

// Values produces one value for every field, honoring widget-kind
// constraints: checkbox gets bool, choice gets one of its options, text gets
// a category-consistent string. Fields missing from the classification map
// degrade to the generic text category.
func (g *Generator) Values(fields []form.FormField, classifications classify.Classifications) form.Values {
	values := make(form.Values, len(fields))
	for _, field := range fields {
		category, ok := classifications[field.Name]
		if !ok {
			category = classify.CategoryText
		}
		values[field.Name] = g.Value(category, field)
	}
	return values
}

// Value produces a single value for one field.
func (g *Generator) Value(category classify.Category, field form.FormField) any {
	switch field.Kind {
	case form.KindCheckbox:
		return g.faker.Bool()
	case form.KindChoice:
		if len(field.Options) > 0 {
			return g.faker.RandomString(field.Options)
		}
		return g.faker.Word()
	}

	return g.textValue(category, field)
}

// textValue renders a string for a text field based on its category.
func (g *Generator) textValue(category classify.Category, field form.FormField) string {
	f := g.faker
	switch category {
	case classify.CategoryName:
		return f.Name()
	case classify.CategoryFirstName:
		return f.FirstName()
	case classify.CategoryLastName:
		return f.LastName()
	case classify.CategoryPhoneNumber:
		return f.Phone()
	case classify.CategoryEmail:
		return f.Email()
	case classify.CategoryAddress:
		return f.Address().Address
	case classify.CategoryCity:
		return f.City()
	case classify.CategoryState:
		return f.State()
	case classify.CategoryZipCode:
		return f.Zip()
	case classify.CategoryCountry:
		return f.Country()
	case classify.CategoryCompany:
		return f.Company()
	case classify.CategoryJobTitle:
		return f.JobTitle()
	case classify.CategoryDate:
		start := time.Date(1950, 1, 1, 0, 0, 0, 0, time.UTC)
		return f.DateRange(start, time.Now()).Format("2006-01-02")
	case classify.CategoryVehicleYear:
		return strconv.Itoa(f.Number(1990, time.Now().Year()))
	case classify.CategoryVehicleMake:
		return f.CarMaker()
	case classify.CategoryVehicleModel:
		return f.CarModel()
	case classify.CategoryVIN:
		return g.vin()
	case classify.CategoryLicensePlate:
		return strings.ToUpper(f.Lexify("???")) + f.Numerify("-####")
	case classify.CategoryCurrencyAmount:
		return fmt.Sprintf("%.2f", f.Price(10, 10000))
	case classify.CategoryBoolean:
		// A boolean-flavored text field still needs a string.
		return f.RandomString([]string{"Yes", "No"})
	case classify.CategoryText:
		return f.Word()
	default:
		// Unknown category: recover with the generic string generator.
		genErr := &errs.GenerationError{Field: field.Name, Category: string(category)}
		log.Printf("%v, using generic text", genErr)
		return f.Word()
	}
}

// vin builds a 17-character vehicle identification number from the VIN
// alphabet.
func (g *Generator) vin() string {
	var b strings.Builder
	for i := 0; i < 17; i++ {
		b.WriteByte(vinCharset[g.faker.Number(0, len(vinCharset)-1)])
	}
	return b.String()
}
