package form

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"

	"github.com/formseed/formseed/internal/errs"
)

// Extractor enumerates the fillable AcroForm fields of a PDF using pdfcpu.
type Extractor struct {
	debugMode bool
}

// NewExtractor creates a new form field extractor.
func NewExtractor(debugMode bool) *Extractor {
	return &Extractor{
		debugMode: debugMode,
	}
}

// ExtractFromFile extracts all fillable form fields from a PDF file.
// Returns DocumentError if the file is not a valid PDF or contains no
// fillable fields.
func (e *Extractor) ExtractFromFile(filePath string) ([]FormField, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, errs.NewDocumentError(filePath, fmt.Errorf("failed to open PDF file: %w", err))
	}
	defer file.Close()

	fields, err := e.ExtractFromReader(file)
	if err != nil {
		return nil, errs.NewDocumentError(filePath, err)
	}
	if len(fields) == 0 {
		return nil, errs.NewDocumentError(filePath, fmt.Errorf("no fillable form fields found"))
	}
	return fields, nil
}

// ExtractFromReader extracts form fields from an io.ReadSeeker.
func (e *Extractor) ExtractFromReader(reader io.ReadSeeker) ([]FormField, error) {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	ctx, err := api.ReadContext(reader, conf)
	if err != nil {
		return nil, fmt.Errorf("failed to read PDF context: %w", err)
	}

	if err := ctx.EnsurePageCount(); err != nil {
		return nil, fmt.Errorf("failed to ensure page count: %w", err)
	}

	return e.extractFromContext(ctx)
}

// extractFromContext walks the AcroForm Fields array of a pdfcpu context.
func (e *Extractor) extractFromContext(ctx *model.Context) ([]FormField, error) {
	var fields []FormField

	rootDict, err := ctx.Catalog()
	if err != nil {
		return nil, fmt.Errorf("failed to get catalog: %w", err)
	}

	acroFormObj, found := rootDict.Find("AcroForm")
	if !found {
		if e.debugMode {
			log.Printf("no AcroForm dictionary found in document")
		}
		return fields, nil
	}

	acroFormDict, err := ctx.DereferenceDict(acroFormObj)
	if err != nil {
		return nil, fmt.Errorf("failed to dereference AcroForm: %w", err)
	}
	if acroFormDict == nil {
		return fields, nil
	}

	fieldsObj, found := acroFormDict.Find("Fields")
	if !found {
		return fields, nil
	}

	fieldsArray, err := ctx.DereferenceArray(fieldsObj)
	if err != nil {
		return nil, fmt.Errorf("failed to dereference Fields array: %w", err)
	}

	for i, fieldRef := range fieldsArray {
		collected, err := e.processField(ctx, fieldRef, "", i)
		if err != nil {
			if e.debugMode {
				log.Printf("error processing field %d: %v", i, err)
			}
			continue
		}
		fields = append(fields, collected...)
	}

	return fields, nil
}

// processField processes a single field dictionary. Non-terminal fields
// (parents whose kids carry their own T entries) are recursed into with the
// parent name as prefix.
func (e *Extractor) processField(ctx *model.Context, fieldObj types.Object, prefix string, index int) ([]FormField, error) {
	fieldDict, err := ctx.DereferenceDict(fieldObj)
	if err != nil {
		return nil, fmt.Errorf("failed to dereference field: %w", err)
	}
	if fieldDict == nil {
		return nil, nil
	}

	name := fieldName(ctx, fieldDict)
	if name == "" {
		name = fmt.Sprintf("field_%d", index)
	}
	if prefix != "" {
		name = prefix + "." + name
	}

	// Recurse into non-terminal parents.
	if kids := namedKids(ctx, fieldDict); len(kids) > 0 {
		var collected []FormField
		for i, kid := range kids {
			sub, err := e.processField(ctx, kid, name, i)
			if err != nil {
				continue
			}
			collected = append(collected, sub...)
		}
		return collected, nil
	}

	field := FormField{Name: name}

	switch fieldType(ctx, fieldDict) {
	case "Tx":
		field.Kind = KindText
	case "Ch":
		field.Kind = KindChoice
		field.Options = choiceOptions(ctx, fieldDict)
	case "Btn":
		flags := fieldFlags(ctx, fieldDict)
		switch {
		case flags&(1<<16) != 0: // pushbutton, nothing to fill
			return nil, nil
		case flags&(1<<15) != 0: // radio group
			field.Kind = KindChoice
			field.Radio = true
			field.Options = radioStates(ctx, fieldDict)
			if len(field.Options) == 0 {
				return nil, nil
			}
		default:
			field.Kind = KindCheckbox
			field.OnState = checkboxOnState(ctx, fieldDict)
		}
	case "Sig":
		// Digital signatures are out of scope.
		return nil, nil
	default:
		// Unrecognized field types are not fillable; every field this
		// extractor reports can receive a value.
		return nil, nil
	}

	// TU holds the human-readable label shown as a tooltip.
	if labelObj, found := fieldDict.Find("TU"); found {
		if label, err := ctx.DereferenceStringOrHexLiteral(labelObj, model.V10, nil); err == nil {
			field.Label = label
		}
	}

	if e.debugMode {
		log.Printf("extracted field: %s (kind: %s)", field.Name, field.Kind)
	}

	return []FormField{field}, nil
}

// fieldName extracts the partial field name (T entry).
func fieldName(ctx *model.Context, fieldDict types.Dict) string {
	nameObj, found := fieldDict.Find("T")
	if !found {
		return ""
	}
	name, err := ctx.DereferenceStringOrHexLiteral(nameObj, model.V10, nil)
	if err != nil {
		return ""
	}
	return name
}

// fieldType determines the raw field type (FT entry), checking the parent
// chain for inherited values.
func fieldType(ctx *model.Context, fieldDict types.Dict) string {
	ftObj, found := fieldDict.Find("FT")
	if !found {
		if parentObj, found := fieldDict.Find("Parent"); found {
			if parentDict, err := ctx.DereferenceDict(parentObj); err == nil && parentDict != nil {
				return fieldType(ctx, parentDict)
			}
		}
		return ""
	}

	ftName, err := ctx.DereferenceName(ftObj, model.V10, nil)
	if err != nil {
		return ""
	}
	return string(ftName)
}

// fieldFlags extracts the Ff bit field, defaulting to 0.
func fieldFlags(ctx *model.Context, fieldDict types.Dict) int64 {
	flagsObj, found := fieldDict.Find("Ff")
	if !found {
		return 0
	}
	flags, err := ctx.DereferenceInteger(flagsObj)
	if err != nil || flags == nil {
		return 0
	}
	return int64(*flags)
}

// namedKids returns the Kids entries that carry their own T entry, i.e.
// child fields rather than bare widget annotations.
func namedKids(ctx *model.Context, fieldDict types.Dict) []types.Object {
	kidsObj, found := fieldDict.Find("Kids")
	if !found {
		return nil
	}
	kidsArray, err := ctx.DereferenceArray(kidsObj)
	if err != nil {
		return nil
	}

	var named []types.Object
	for _, kid := range kidsArray {
		kidDict, err := ctx.DereferenceDict(kid)
		if err != nil || kidDict == nil {
			continue
		}
		if _, found := kidDict.Find("T"); found {
			named = append(named, kid)
		}
	}
	return named
}

// choiceOptions extracts the Opt array of a choice field. Entries may be
// plain strings or [export_value, display_value] pairs.
func choiceOptions(ctx *model.Context, fieldDict types.Dict) []string {
	var options []string

	optObj, found := fieldDict.Find("Opt")
	if !found {
		return options
	}

	optArray, err := ctx.DereferenceArray(optObj)
	if err != nil {
		return options
	}

	for _, opt := range optArray {
		if str, err := ctx.DereferenceStringOrHexLiteral(opt, model.V10, nil); err == nil {
			options = append(options, str)
		} else if arr, err := ctx.DereferenceArray(opt); err == nil && len(arr) >= 2 {
			if displayVal, err := ctx.DereferenceStringOrHexLiteral(arr[1], model.V10, nil); err == nil {
				options = append(options, displayVal)
			}
		}
	}

	return options
}

// radioStates collects the appearance on-states of a radio group's widget
// kids. Those states double as the set of selectable values.
func radioStates(ctx *model.Context, fieldDict types.Dict) []string {
	kidsObj, found := fieldDict.Find("Kids")
	if !found {
		return nil
	}
	kidsArray, err := ctx.DereferenceArray(kidsObj)
	if err != nil {
		return nil
	}

	var states []string
	seen := map[string]bool{}
	for _, kid := range kidsArray {
		kidDict, err := ctx.DereferenceDict(kid)
		if err != nil || kidDict == nil {
			continue
		}
		if state := onStateFromAppearance(ctx, kidDict); state != "" && !seen[state] {
			states = append(states, state)
			seen[state] = true
		}
	}
	return states
}

// checkboxOnState determines the name that marks a checkbox as checked.
// Defaults to "Yes" when no appearance dictionary is available.
func checkboxOnState(ctx *model.Context, fieldDict types.Dict) string {
	if state := onStateFromAppearance(ctx, fieldDict); state != "" {
		return state
	}

	// Merged widget may keep the appearance on the first kid.
	if kidsObj, found := fieldDict.Find("Kids"); found {
		if kidsArray, err := ctx.DereferenceArray(kidsObj); err == nil && len(kidsArray) > 0 {
			if kidDict, err := ctx.DereferenceDict(kidsArray[0]); err == nil && kidDict != nil {
				if state := onStateFromAppearance(ctx, kidDict); state != "" {
					return state
				}
			}
		}
	}

	return "Yes"
}

// onStateFromAppearance finds the non-Off key of the normal appearance
// dictionary (AP/N).
func onStateFromAppearance(ctx *model.Context, dict types.Dict) string {
	apObj, found := dict.Find("AP")
	if !found {
		return ""
	}
	apDict, err := ctx.DereferenceDict(apObj)
	if err != nil || apDict == nil {
		return ""
	}
	nObj, found := apDict.Find("N")
	if !found {
		return ""
	}
	nDict, err := ctx.DereferenceDict(nObj)
	if err != nil || nDict == nil {
		return ""
	}
	for key := range nDict {
		if key != "Off" {
			return key
		}
	}
	return ""
}
