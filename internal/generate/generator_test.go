package generate

import (
	"regexp"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/formseed/formseed/internal/classify"
	"github.com/formseed/formseed/internal/form"
)

func textField(name string) form.FormField {
	return form.FormField{Name: name, Kind: form.KindText}
}

func TestGenerator_AllCategoriesProduceValues(t *testing.T) {
	g := NewGenerator(42)
	for _, category := range classify.Categories {
		t.Run(string(category), func(t *testing.T) {
			v := g.Value(category, textField("f"))
			s, ok := v.(string)
			require.True(t, ok, "text fields always get strings")
			assert.NotEmpty(t, s)
		})
	}
}

func TestGenerator_Email(t *testing.T) {
	g := NewGenerator(42)
	v := g.Value(classify.CategoryEmail, textField("email")).(string)
	assert.Regexp(t, regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`), v)
}

func TestGenerator_DateFormat(t *testing.T) {
	g := NewGenerator(42)
	for i := 0; i < 20; i++ {
		v := g.Value(classify.CategoryDate, textField("dob")).(string)
		parsed, err := time.Parse("2006-01-02", v)
		require.NoError(t, err, "date %q should be YYYY-MM-DD", v)
		assert.False(t, parsed.Before(time.Date(1950, 1, 1, 0, 0, 0, 0, time.UTC)))
		assert.False(t, parsed.After(time.Now().Add(24*time.Hour)))
	}
}

func TestGenerator_VehicleYearRange(t *testing.T) {
	g := NewGenerator(42)
	for i := 0; i < 20; i++ {
		v := g.Value(classify.CategoryVehicleYear, textField("year")).(string)
		year, err := strconv.Atoi(v)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, year, 1990)
		assert.LessOrEqual(t, year, time.Now().Year())
	}
}

func TestGenerator_VIN(t *testing.T) {
	g := NewGenerator(42)
	for i := 0; i < 20; i++ {
		v := g.Value(classify.CategoryVIN, textField("vin")).(string)
		require.Len(t, v, 17)
		assert.NotContains(t, v, "I")
		assert.NotContains(t, v, "O")
		assert.NotContains(t, v, "Q")
		for _, r := range v {
			assert.Contains(t, vinCharset, string(r))
		}
	}
}

func TestGenerator_LicensePlate(t *testing.T) {
	g := NewGenerator(42)
	v := g.Value(classify.CategoryLicensePlate, textField("plate")).(string)
	assert.Regexp(t, regexp.MustCompile(`^[A-Z]{3}-\d{4}$`), v)
}

func TestGenerator_CurrencyAmount(t *testing.T) {
	g := NewGenerator(42)
	v := g.Value(classify.CategoryCurrencyAmount, textField("amount")).(string)
	amount, err := strconv.ParseFloat(v, 64)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, amount, 10.0)
	assert.LessOrEqual(t, amount, 10000.0)
	assert.Regexp(t, regexp.MustCompile(`^\d+\.\d{2}$`), v)
}

func TestGenerator_BooleanText(t *testing.T) {
	g := NewGenerator(42)
	v := g.Value(classify.CategoryBoolean, textField("agree")).(string)
	assert.Contains(t, []string{"Yes", "No"}, v)
}

func TestGenerator_Checkbox(t *testing.T) {
	g := NewGenerator(42)
	v := g.Value(classify.CategoryBoolean, form.FormField{Name: "subscribe", Kind: form.KindCheckbox})
	_, ok := v.(bool)
	assert.True(t, ok, "checkbox values are bools")
}

func TestGenerator_ChoicePicksOption(t *testing.T) {
	g := NewGenerator(42)
	options := []string{"AL", "AK", "AZ"}
	field := form.FormField{Name: "state", Kind: form.KindChoice, Options: options}

	for i := 0; i < 10; i++ {
		v := g.Value(classify.CategoryState, field).(string)
		assert.Contains(t, options, v)
	}
}

func TestGenerator_ChoiceWithoutOptions(t *testing.T) {
	g := NewGenerator(42)
	field := form.FormField{Name: "pick", Kind: form.KindChoice}
	v := g.Value(classify.CategoryText, field).(string)
	assert.NotEmpty(t, v)
}

func TestGenerator_UnknownCategoryFallsBack(t *testing.T) {
	g := NewGenerator(42)
	v := g.Value(classify.Category("bogus"), textField("f")).(string)
	assert.NotEmpty(t, v)
}

func TestGenerator_Values(t *testing.T) {
	g := NewGenerator(42)
	fields := []form.FormField{
		{Name: "full_name", Kind: form.KindText},
		{Name: "subscribe", Kind: form.KindCheckbox},
		{Name: "unclassified", Kind: form.KindText},
	}
	classifications := classify.Classifications{
		"full_name": classify.CategoryName,
		"subscribe": classify.CategoryBoolean,
	}

	values := g.Values(fields, classifications)
	require.Len(t, values, 3)

	_, ok := values["full_name"].(string)
	assert.True(t, ok)
	_, ok = values["subscribe"].(bool)
	assert.True(t, ok)
	s, ok := values["unclassified"].(string)
	assert.True(t, ok, "missing classification degrades to text")
	assert.NotEmpty(t, s)
}

func TestGenerator_SeedDeterminism(t *testing.T) {
	fields := []form.FormField{
		{Name: "name", Kind: form.KindText},
		{Name: "email", Kind: form.KindText},
		{Name: "vin", Kind: form.KindText},
	}
	classifications := classify.Classifications{
		"name":  classify.CategoryName,
		"email": classify.CategoryEmail,
		"vin":   classify.CategoryVIN,
	}

	first := NewGenerator(7).Values(fields, classifications)
	second := NewGenerator(7).Values(fields, classifications)
	assert.Equal(t, first, second, "same seed yields same values")
}
