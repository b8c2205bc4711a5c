package form

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"

	"github.com/formseed/formseed/internal/errs"
)

// Filler writes generated values into the AcroForm fields of a PDF and
// emits a new document. The source file is never modified.
type Filler struct {
	debugMode bool
}

// NewFiller creates a new form filler.
func NewFiller(debugMode bool) *Filler {
	return &Filler{
		debugMode: debugMode,
	}
}

// FillFile reads inputPath, sets the field values and writes the result to
// outputPath. Values must be string for text and choice fields and bool for
// checkboxes; a mismatch is reported as WriteError naming the field.
func (f *Filler) FillFile(inputPath, outputPath string, values Values) error {
	file, err := os.Open(inputPath)
	if err != nil {
		return errs.NewDocumentError(inputPath, fmt.Errorf("failed to open PDF file: %w", err))
	}
	defer file.Close()

	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	ctx, err := api.ReadContext(file, conf)
	if err != nil {
		return errs.NewDocumentError(inputPath, fmt.Errorf("failed to read PDF context: %w", err))
	}
	if err := ctx.EnsurePageCount(); err != nil {
		return errs.NewDocumentError(inputPath, fmt.Errorf("failed to ensure page count: %w", err))
	}

	if err := f.applyValues(ctx, inputPath, outputPath, values); err != nil {
		return err
	}

	if dir := filepath.Dir(outputPath); dir != "" {
		if info, err := os.Stat(dir); err != nil || !info.IsDir() {
			return &errs.WriteError{Path: outputPath, Err: fmt.Errorf("output directory does not exist")}
		}
	}

	if err := api.WriteContextFile(ctx, outputPath); err != nil {
		return &errs.WriteError{Path: outputPath, Err: err}
	}

	if f.debugMode {
		log.Printf("wrote filled form: %s", outputPath)
	}

	return nil
}

// applyValues walks the AcroForm field tree and sets V/AS entries. Failures
// reading the form structure blame the input document; value mismatches and
// write failures blame the output.
func (f *Filler) applyValues(ctx *model.Context, inputPath, outputPath string, values Values) error {
	rootDict, err := ctx.Catalog()
	if err != nil {
		return errs.NewDocumentError(inputPath, fmt.Errorf("failed to get catalog: %w", err))
	}

	acroFormObj, found := rootDict.Find("AcroForm")
	if !found {
		return errs.NewDocumentError(inputPath, fmt.Errorf("no AcroForm dictionary found"))
	}
	acroFormDict, err := ctx.DereferenceDict(acroFormObj)
	if err != nil || acroFormDict == nil {
		return errs.NewDocumentError(inputPath, fmt.Errorf("failed to dereference AcroForm: %w", err))
	}

	fieldsObj, found := acroFormDict.Find("Fields")
	if !found {
		return errs.NewDocumentError(inputPath, fmt.Errorf("no Fields array found in AcroForm"))
	}
	fieldsArray, err := ctx.DereferenceArray(fieldsObj)
	if err != nil {
		return errs.NewDocumentError(inputPath, fmt.Errorf("failed to dereference Fields array: %w", err))
	}

	for i, fieldRef := range fieldsArray {
		if err := f.fillField(ctx, fieldRef, "", i, outputPath, values); err != nil {
			return err
		}
	}

	// Viewers regenerate appearance streams for the values we set.
	acroFormDict["NeedAppearances"] = types.Boolean(true)

	return nil
}

// fillField sets the value of a single field, recursing into non-terminal
// parents the same way the extractor does.
func (f *Filler) fillField(ctx *model.Context, fieldObj types.Object, prefix string, index int, outputPath string, values Values) error {
	fieldDict, err := ctx.DereferenceDict(fieldObj)
	if err != nil || fieldDict == nil {
		return nil
	}

	name := fieldName(ctx, fieldDict)
	if name == "" {
		name = fmt.Sprintf("field_%d", index)
	}
	if prefix != "" {
		name = prefix + "." + name
	}

	if kids := namedKids(ctx, fieldDict); len(kids) > 0 {
		for i, kid := range kids {
			if err := f.fillField(ctx, kid, name, i, outputPath, values); err != nil {
				return err
			}
		}
		return nil
	}

	value, ok := values[name]
	if !ok {
		return nil
	}

	switch fieldType(ctx, fieldDict) {
	case "Tx", "Ch":
		str, ok := value.(string)
		if !ok {
			return &errs.WriteError{Path: outputPath, Field: name,
				Err: fmt.Errorf("expected string value, got %T", value)}
		}
		fieldDict["V"] = stringLiteral(str)
	case "Btn":
		flags := fieldFlags(ctx, fieldDict)
		switch {
		case flags&(1<<16) != 0: // pushbutton
			return nil
		case flags&(1<<15) != 0: // radio group
			str, ok := value.(string)
			if !ok {
				return &errs.WriteError{Path: outputPath, Field: name,
					Err: fmt.Errorf("expected string value for radio group, got %T", value)}
			}
			f.selectRadio(ctx, fieldDict, str)
		default:
			checked, ok := value.(bool)
			if !ok {
				return &errs.WriteError{Path: outputPath, Field: name,
					Err: fmt.Errorf("expected bool value for checkbox, got %T", value)}
			}
			f.setCheckbox(ctx, fieldDict, checked)
		}
	}

	if f.debugMode {
		log.Printf("filled field: %s = %v", name, value)
	}

	return nil
}

// setCheckbox flips a checkbox to its on-state or Off, keeping the widget
// appearance state (AS) in sync with the value (V).
func (f *Filler) setCheckbox(ctx *model.Context, fieldDict types.Dict, checked bool) {
	state := "Off"
	if checked {
		state = checkboxOnState(ctx, fieldDict)
	}

	fieldDict["V"] = types.Name(state)
	fieldDict["AS"] = types.Name(state)

	f.eachWidgetKid(ctx, fieldDict, func(kidDict types.Dict) {
		kidDict["AS"] = types.Name(state)
	})
}

// selectRadio sets a radio group's value and turns exactly the matching kid
// widget on.
func (f *Filler) selectRadio(ctx *model.Context, fieldDict types.Dict, option string) {
	fieldDict["V"] = types.Name(option)

	f.eachWidgetKid(ctx, fieldDict, func(kidDict types.Dict) {
		if onStateFromAppearance(ctx, kidDict) == option {
			kidDict["AS"] = types.Name(option)
		} else {
			kidDict["AS"] = types.Name("Off")
		}
	})
}

// eachWidgetKid applies fn to every widget kid of a field.
func (f *Filler) eachWidgetKid(ctx *model.Context, fieldDict types.Dict, fn func(types.Dict)) {
	kidsObj, found := fieldDict.Find("Kids")
	if !found {
		return
	}
	kidsArray, err := ctx.DereferenceArray(kidsObj)
	if err != nil {
		return
	}
	for _, kid := range kidsArray {
		kidDict, err := ctx.DereferenceDict(kid)
		if err != nil || kidDict == nil {
			continue
		}
		fn(kidDict)
	}
}

// stringLiteral escapes a value for use as a PDF string literal.
func stringLiteral(s string) types.StringLiteral {
	if escaped, err := types.Escape(s); err == nil && escaped != nil {
		return types.StringLiteral(*escaped)
	}
	return types.StringLiteral(s)
}
