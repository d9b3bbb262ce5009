package doc

import (
	_ "embed"
	"sync"

	"github.com/pkg/errors"
	"github.com/xeipuuv/gojsonschema"
)

//go:embed schema.json
var schemaJSON []byte

var (
	schemaOnce sync.Once
	schema     *gojsonschema.Schema
	schemaErr  error
)

func loadSchema() (*gojsonschema.Schema, error) {
	schemaOnce.Do(func() {
		schema, schemaErr = gojsonschema.NewSchema(gojsonschema.NewBytesLoader(schemaJSON))
	})
	return schema, schemaErr
}

// Validate checks the document against the server configuration schema.
// A failing document yields a ValidationError carrying the first issue.
func (d Document) Validate() error {
	s, err := loadSchema()
	if err != nil {
		return errors.Wrap(err, "failed to compile config schema")
	}

	result, err := s.Validate(gojsonschema.NewBytesLoader(d.raw))
	if err != nil {
		return errors.Wrap(err, "failed to run schema validation")
	}
	if !result.Valid() {
		issues := result.Errors()
		return &ValidationError{Issue: issues[0].String()}
	}
	return nil
}
