// Package validation wraps JSON-schema validation for inbound payloads.
package validation

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

type Result struct {
	Valid  bool
	Errors []string
}

// ErrorSummary joins all validation errors into one diagnostic string.
func (r *Result) ErrorSummary() string {
	return strings.Join(r.Errors, "; ")
}

// Validate checks raw JSON bytes against a schema expressed as a Go map.
func Validate(document []byte, schema map[string]interface{}) (*Result, error) {
	schemaLoader := gojsonschema.NewGoLoader(schema)
	documentLoader := gojsonschema.NewBytesLoader(document)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return nil, fmt.Errorf("schema validation: %w", err)
	}

	out := &Result{Valid: result.Valid()}
	for _, desc := range result.Errors() {
		out.Errors = append(out.Errors, desc.String())
	}
	return out, nil
}

// MeetingEventSchema is the structural contract for the inbound webhook
// body: it must be a JSON object with at least one property. Field-level
// absence degrades gracefully downstream, so nothing else is required here.
func MeetingEventSchema() map[string]interface{} {
	return map[string]interface{}{
		"type":          "object",
		"minProperties": 1,
		"properties": map[string]interface{}{
			"title":               map[string]interface{}{"type": "string"},
			"recording_share_url": map[string]interface{}{"type": "string"},
			"meeting":             map[string]interface{}{"type": "object"},
			"transcript":          map[string]interface{}{"type": "array"},
		},
	}
}
