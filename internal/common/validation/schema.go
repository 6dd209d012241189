package validation

import (
	"fmt"

	"github.com/xeipuuv/gojsonschema"
)

// ProcessedDataSchema describes the GetProcessedData response. Every field
// may be null or missing; a row without gameDate decodes to the zero date.
const ProcessedDataSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": ["array", "null"],
  "items": {
    "type": "object",
    "properties": {
      "teamName":   {"type": ["string", "null"]},
      "teamNumber": {"type": ["string", "null"]},
      "teamScore":  {"type": ["string", "null"]},
      "gameDate":   {"type": ["string", "null"], "minLength": 10}
    }
  }
}`

// EnqueueResponseSchema describes the EnqueueTeam response.
const EnqueueResponseSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": ["object", "null"],
  "properties": {
    "correlationId": {"type": ["string", "null"]}
  }
}`

// Validator checks raw JSON documents against a compiled schema.
type Validator struct {
	schema *gojsonschema.Schema
}

// NewValidator compiles a JSON schema document.
func NewValidator(schemaJSON string) (*Validator, error) {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(schemaJSON))
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return &Validator{schema: schema}, nil
}

// Validate returns the list of violations; an empty list means the document
// is valid. A non-nil error means the document is not JSON at all.
func (v *Validator) Validate(document []byte) ([]string, error) {
	result, err := v.schema.Validate(gojsonschema.NewBytesLoader(document))
	if err != nil {
		return nil, fmt.Errorf("validation error: %w", err)
	}
	if result.Valid() {
		return nil, nil
	}

	violations := make([]string, len(result.Errors()))
	for i, desc := range result.Errors() {
		violations[i] = desc.String()
	}
	return violations, nil
}
