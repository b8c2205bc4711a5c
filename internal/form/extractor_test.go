package form

import (
	"bytes"
	"errors"
	"log"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/formseed/formseed/internal/errs"
)

const sampleForm = "testdata/sample-form.pdf"

func requireFixture(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Skipf("fixture %s not present", path)
	}
}

func TestExtractor_MissingFile(t *testing.T) {
	e := NewExtractor(false)
	_, err := e.ExtractFromFile("/nonexistent/form.pdf")
	require.Error(t, err)

	var docErr *errs.DocumentError
	require.True(t, errors.As(err, &docErr))
	assert.Equal(t, "/nonexistent/form.pdf", docErr.Path)
}

func TestExtractor_InvalidPDF(t *testing.T) {
	dir := t.TempDir()
	garbage := filepath.Join(dir, "garbage.pdf")
	require.NoError(t, os.WriteFile(garbage, []byte("not a pdf at all"), 0o644))

	e := NewExtractor(false)
	_, err := e.ExtractFromFile(garbage)
	require.Error(t, err)

	var docErr *errs.DocumentError
	assert.True(t, errors.As(err, &docErr))
}

func TestExtractor_DebugGoesThroughLogger(t *testing.T) {
	requireFixture(t, sampleForm)

	// Debug output must stay off stdout so stdio mode keeps the protocol
	// stream clean.
	var buf bytes.Buffer
	log.SetOutput(&buf)
	defer log.SetOutput(os.Stderr)

	e := NewExtractor(true)
	fields, err := e.ExtractFromFile(sampleForm)
	require.NoError(t, err)
	require.NotEmpty(t, fields)
	assert.Contains(t, buf.String(), "extracted field")
}

func TestExtractor_SampleForm(t *testing.T) {
	requireFixture(t, sampleForm)

	e := NewExtractor(false)
	fields, err := e.ExtractFromFile(sampleForm)
	require.NoError(t, err)
	require.NotEmpty(t, fields)

	seen := map[string]bool{}
	for _, f := range fields {
		assert.NotEmpty(t, f.Name)
		assert.False(t, seen[f.Name], "field names should be unique: %s", f.Name)
		seen[f.Name] = true

		// Only fillable kinds may surface; signatures, pushbuttons and
		// unrecognized field types are dropped during extraction.
		switch f.Kind {
		case KindText, KindCheckbox:
		case KindChoice:
			if f.Radio {
				assert.NotEmpty(t, f.Options, "radio groups always carry their on-states")
			}
		default:
			t.Fatalf("unexpected kind %q for field %s", f.Kind, f.Name)
		}
	}
}
